package engine

import (
	"math"

	"github.com/brensch/snekstep/game"
)

// Tier identifies which rung of the priority ladder produced a move.
type Tier int

const (
	TierNone Tier = iota
	TierSafeFood
	TierRiskyFood
	TierNearestFood
	TierLeastDanger
	TierTolerateDanger
	TierAnyAlive
	TierInBounds
	TierFallback
)

var tierNames = [...]string{
	TierNone:           "none",
	TierSafeFood:       "safe-food",
	TierRiskyFood:      "risky-food",
	TierNearestFood:    "nearest-food",
	TierLeastDanger:    "least-danger",
	TierTolerateDanger: "tolerate-danger",
	TierAnyAlive:       "any-alive",
	TierInBounds:       "in-bounds",
	TierFallback:       "fallback",
}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// candidate is one of the four possible moves, classified against the grid.
type candidate struct {
	dir         game.Direction
	next        game.Point
	reversal    bool
	outOfBounds bool
	fatal       bool
	dangerous   bool
	food        bool
}

func (c candidate) usable() bool {
	return !c.reversal && !c.fatal
}

func (c candidate) safe() bool {
	return c.usable() && !c.dangerous
}

// evaluation is the input of the priority ladder.
type evaluation struct {
	grid       *Grid
	head       game.Point
	neck       game.Point
	hasNeck    bool
	food       []game.Point
	rivalHeads []game.Point
	// takeRisk enables the contested-food tier.
	takeRisk bool
}

func (e *evaluation) classify(d game.Direction) candidate {
	next := e.head.Move(d)
	c := candidate{dir: d, next: next}
	c.reversal = e.hasNeck && next == e.neck
	if !e.grid.InBounds(next) {
		c.outOfBounds = true
		c.fatal = true
		return c
	}
	c.fatal = e.grid.Blocked(next)
	c.dangerous = e.grid.Dangerous(next)
	cell, _ := e.grid.At(next)
	c.food = cell == Food
	return c
}

// chooseMove walks the ladder; the first tier with a qualifying candidate
// wins.
func (e *evaluation) chooseMove() (game.Direction, Tier) {
	var cands [4]candidate
	for i, d := range game.Directions {
		cands[i] = e.classify(d)
	}

	for _, c := range cands {
		if c.safe() && c.food {
			return c.dir, TierSafeFood
		}
	}

	if e.takeRisk {
		for _, c := range cands {
			if c.usable() && c.food {
				return c.dir, TierRiskyFood
			}
		}
	}

	if target, ok := nearestSafeFood(e.head, e.food, e.rivalHeads, e.grid.Size); ok {
		if d, ok := pickMin(cands[:], candidate.safe, func(c candidate) int {
			return game.Manhattan(c.next, target)
		}); ok {
			return d, TierNearestFood
		}
	}

	if d, ok := pickMin(cands[:], candidate.safe, e.dangerScore); ok {
		return d, TierLeastDanger
	}

	if d, ok := pickMin(cands[:], candidate.usable, e.dangerScore); ok {
		return d, TierTolerateDanger
	}

	// Unreachable in practice: tolerate-danger already takes any usable move.
	for _, c := range cands {
		if c.usable() {
			return c.dir, TierAnyAlive
		}
	}

	for _, c := range cands {
		if !c.outOfBounds && !c.reversal {
			return c.dir, TierInBounds
		}
	}
	for _, c := range cands {
		if !c.outOfBounds {
			return c.dir, TierFallback
		}
	}

	return game.Up, TierFallback
}

// pickMin returns the direction of the lowest scoring candidate accepted by
// keep. Ties go to the lower direction code.
func pickMin(cands []candidate, keep func(candidate) bool, score func(candidate) int) (game.Direction, bool) {
	best := game.NotReachable
	bestScore := math.MaxInt
	for _, c := range cands {
		if !keep(c) {
			continue
		}
		if s := score(c); s < bestScore {
			best, bestScore = c.dir, s
		}
	}
	return best, best != game.NotReachable
}

// dangerScore is a relative hazard rating; lower is safer.
func (e *evaluation) dangerScore(c candidate) int {
	score := 0
	if c.next.OnEdge(e.grid.Size) {
		score += 2
	}
	for _, d := range game.Directions {
		if e.grid.Blocked(c.next.Move(d)) {
			score += 2
		}
	}
	for _, h := range e.rivalHeads {
		if dist := game.Manhattan(c.next, h); dist <= 2 {
			score += 3 - dist
		}
	}
	return score
}

// nearestSafeFood picks the closest food that no rival head is strictly
// closer to, falling back to the closest food overall.
func nearestSafeFood(head game.Point, food, rivalHeads []game.Point, n int) (game.Point, bool) {
	var (
		safe, nearest         game.Point
		safeDist, nearestDist = math.MaxInt, math.MaxInt
	)
	for _, f := range food {
		if !f.InBounds(n) {
			continue
		}
		dist := game.Manhattan(head, f)
		if dist < nearestDist {
			nearest, nearestDist = f, dist
		}
		contested := false
		for _, h := range rivalHeads {
			if game.Manhattan(h, f) < dist {
				contested = true
				break
			}
		}
		if !contested && dist < safeDist {
			safe, safeDist = f, dist
		}
	}
	if safeDist != math.MaxInt {
		return safe, true
	}
	if nearestDist != math.MaxInt {
		return nearest, true
	}
	return game.Point{}, false
}
