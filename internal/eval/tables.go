package eval

// Lookup tables for 5-card evaluation, built once at process start. Keys:
//
//	flushTable:  13-bit union of rank bits for five suited cards
//	unique5:     prime product of five distinct ranks (straights, high cards)
//	pairs:       prime product of five ranks with duplicates
//
// Values are scores in [1, 7462], lower is better. Hands are enumerated from
// best to worst with consecutive scores, so the class boundaries fall at
// fixed offsets (see Class).
var (
	flushTable map[uint32]int
	unique5    map[uint32]int
	pairs      map[uint32]int
)

// rankPrime maps rank value (2..14) to its prime tag. Mirrors the card
// package encoding without importing it; the tables are pure rank math.
var rankPrime = [15]uint32{2: 2, 3: 3, 4: 5, 5: 7, 6: 11, 7: 13, 8: 17, 9: 19, 10: 23, 11: 29, 12: 31, 13: 37, 14: 41}

// straightRanks lists every straight from ace-high down to the wheel, which
// sorts below the six-high straight per standard ordering.
var straightRanks = [10][5]int{
	{14, 13, 12, 11, 10},
	{13, 12, 11, 10, 9},
	{12, 11, 10, 9, 8},
	{11, 10, 9, 8, 7},
	{10, 9, 8, 7, 6},
	{9, 8, 7, 6, 5},
	{8, 7, 6, 5, 4},
	{7, 6, 5, 4, 3},
	{6, 5, 4, 3, 2},
	{5, 4, 3, 2, 14},
}

func rankBits(ranks []int) uint32 {
	var bits uint32
	for _, r := range ranks {
		bits |= 1 << (r - 2)
	}
	return bits
}

func primeProduct(ranks []int) uint32 {
	p := uint32(1)
	for _, r := range ranks {
		p *= rankPrime[r]
	}
	return p
}

// descendingCombos yields all k-subsets of ranks 14..2 in best-to-worst
// order, which for distinct-rank hands is exactly the high-card ordering.
func descendingCombos(k int, visit func(ranks []int)) {
	combo := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			visit(combo)
			return
		}
		for r := start; r >= 2+(k-depth-1); r-- {
			combo[depth] = r
			rec(r-1, depth+1)
		}
	}
	rec(14, 0)
}

func init() {
	flushTable = make(map[uint32]int, 1287)
	unique5 = make(map[uint32]int, 1287)
	pairs = make(map[uint32]int, 4888)

	straightSet := make(map[uint32]bool, len(straightRanks))
	for _, s := range straightRanks {
		straightSet[rankBits(s[:])] = true
	}

	score := 1

	// Straight flushes, 1..10.
	for _, s := range straightRanks {
		flushTable[rankBits(s[:])] = score
		score++
	}

	// Four of a kind, 11..166.
	for quad := 14; quad >= 2; quad-- {
		for kicker := 14; kicker >= 2; kicker-- {
			if kicker == quad {
				continue
			}
			pairs[primeProduct([]int{quad, quad, quad, quad, kicker})] = score
			score++
		}
	}

	// Full houses, 167..322.
	for trips := 14; trips >= 2; trips-- {
		for pair := 14; pair >= 2; pair-- {
			if pair == trips {
				continue
			}
			pairs[primeProduct([]int{trips, trips, trips, pair, pair})] = score
			score++
		}
	}

	// Flushes, 323..1599: every non-straight rank combination.
	descendingCombos(5, func(ranks []int) {
		bits := rankBits(ranks)
		if straightSet[bits] {
			return
		}
		flushTable[bits] = score
		score++
	})

	// Straights, 1600..1609.
	for _, s := range straightRanks {
		unique5[primeProduct(s[:])] = score
		score++
	}

	// Three of a kind, 1610..2467.
	for trips := 14; trips >= 2; trips-- {
		descendingCombos(2, func(kickers []int) {
			if kickers[0] == trips || kickers[1] == trips {
				return
			}
			pairs[primeProduct([]int{trips, trips, trips, kickers[0], kickers[1]})] = score
			score++
		})
	}

	// Two pair, 2468..3325.
	for hi := 14; hi >= 3; hi-- {
		for lo := hi - 1; lo >= 2; lo-- {
			for k := 14; k >= 2; k-- {
				if k == hi || k == lo {
					continue
				}
				pairs[primeProduct([]int{hi, hi, lo, lo, k})] = score
				score++
			}
		}
	}

	// One pair, 3326..6185.
	for pair := 14; pair >= 2; pair-- {
		descendingCombos(3, func(kickers []int) {
			if kickers[0] == pair || kickers[1] == pair || kickers[2] == pair {
				return
			}
			pairs[primeProduct([]int{pair, pair, kickers[0], kickers[1], kickers[2]})] = score
			score++
		})
	}

	// High cards, 6186..7462: same rank combinations as the flushes.
	descendingCombos(5, func(ranks []int) {
		bits := rankBits(ranks)
		if straightSet[bits] {
			return
		}
		unique5[primeProduct(ranks)] = score
		score++
	})

	if score != WorstScore+1 {
		panic("hand table construction produced wrong score count")
	}
}
