package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/holdemd/internal/bot"
	"github.com/cardroom/holdemd/internal/game"
)

// Config is the server configuration, loadable from an HCL file.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []TableBlock    `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Addr     string `hcl:"addr,optional"`
	Debug    bool   `hcl:"debug,optional"`
	LogJSON  bool   `hcl:"log_json,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableBlock defines a table to open at startup.
type TableBlock struct {
	Name       string     `hcl:"name,label"`
	Variant    string     `hcl:"variant,optional"`
	SmallBlind int        `hcl:"small_blind"`
	BigBlind   int        `hcl:"big_blind"`
	BuyIn      int        `hcl:"buy_in,optional"`
	MaxPlayers int        `hcl:"max_players,optional"`
	Bots       []BotBlock `hcl:"bot,block"`
}

// BotBlock seats computer players at a configured table.
type BotBlock struct {
	Difficulty string `hcl:"difficulty,label"`
	Count      int    `hcl:"count,optional"`
}

// DefaultConfig returns the configuration used when no file is present: one
// no-limit table with two medium bots, so a single human can sit down and
// play immediately.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Tables: []TableBlock{
			{
				Name:       "main",
				Variant:    string(game.NoLimit),
				SmallBlind: 5,
				BigBlind:   10,
				MaxPlayers: 6,
				Bots:       []BotBlock{{Difficulty: string(bot.Medium), Count: 2}},
			},
		},
	}
}

// LoadConfig reads an HCL configuration file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	if cfg.Server == nil {
		cfg.Server = &ServerSettings{}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	return &cfg, nil
}

// Validate checks the configured tables against the same lobby rules the
// REST API applies.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %q: duplicate name", t.Name)
		}
		seen[t.Name] = true

		params := t.CreateParams()
		if err := params.validate(); err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
	}
	return nil
}

// CreateParams converts the config block into lobby create parameters.
func (t TableBlock) CreateParams() CreateParams {
	params := CreateParams{
		Name:       t.Name,
		Variant:    game.Variant(t.Variant),
		SmallBlind: t.SmallBlind,
		BigBlind:   t.BigBlind,
		BuyIn:      t.BuyIn,
		MaxPlayers: t.MaxPlayers,
	}
	for _, b := range t.Bots {
		count := b.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			params.Bots = append(params.Bots, bot.Difficulty(b.Difficulty))
		}
	}
	return params
}
