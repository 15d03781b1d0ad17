package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardroom/holdemd/internal/bot"
	"github.com/cardroom/holdemd/internal/game"
)

// createTableRequest is the POST /api/tables body.
type createTableRequest struct {
	Name       string    `json:"name" binding:"required"`
	Variant    string    `json:"variant"`
	SmallBlind int       `json:"small_blind" binding:"required"`
	BigBlind   int       `json:"big_blind" binding:"required"`
	BuyIn      int       `json:"buy_in"`
	MaxPlayers int       `json:"max_players"`
	Bots       []botSpec `json:"bots"`
}

type botSpec struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

// joinTableRequest is the POST /api/tables/:id/join body.
type joinTableRequest struct {
	PlayerName string `json:"player_name" binding:"required"`
}

// routes builds the gin engine: REST lobby, WebSocket endpoint, metrics.
func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/tables", s.handleCreateTable)
	api.GET("/tables", s.handleListTables)
	api.GET("/tables/:id", s.handleGetTable)
	api.POST("/tables/:id/join", s.handleJoinTable)

	r.GET("/ws/:table_id/:player_id", s.handleWebSocket)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	return r
}

func (s *Server) handleCreateTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := CreateParams{
		Name:       req.Name,
		Variant:    game.Variant(req.Variant),
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		BuyIn:      req.BuyIn,
		MaxPlayers: req.MaxPlayers,
	}
	for _, b := range req.Bots {
		params.Bots = append(params.Bots, bot.Difficulty(b.Difficulty))
	}

	info, err := s.manager.CreateTable(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (s *Server) handleListTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.manager.Tables()})
}

func (s *Server) handleGetTable(c *gin.Context) {
	table, ok := s.manager.Table(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrTableNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, table.Info())
}

func (s *Server) handleJoinTable(c *gin.Context) {
	var req joinTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playerID, err := s.manager.JoinTable(c.Param("id"), req.PlayerName)
	switch {
	case errors.Is(err, ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrTableFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"player_id": playerID})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary dev origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(c *gin.Context) {
	tableID := c.Param("table_id")
	playerID := c.Param("player_id")

	table, ok := s.manager.Table(tableID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrTableNotFound.Error()})
		return
	}
	hub, _ := s.manager.Hub(tableID)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := NewConnection(ws, table, hub, playerID, s.log.With().Str("table", tableID).Logger(), s.metrics)
	conn.Start()
}
