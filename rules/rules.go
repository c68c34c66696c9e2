// Package rules resolves one simultaneous turn of the multi-snake game.
//
// Snakes have a fixed length: every move appends the new head and drops the
// tail, so tails always vacate. A snake dies when its new head leaves the
// board, lands on an obstacle, lands on any body segment after the move, or
// meets another head on the same cell (both die).
package rules

import (
	"math/rand"

	"github.com/brensch/snekstep/game"
)

// Death causes.
const (
	CauseWall     = "wall"
	CauseObstacle = "obstacle"
	CauseBody     = "body"
	CauseHeadOn   = "head-to-head"
)

// Death records an elimination during a turn.
type Death struct {
	ID    int
	Cause string
	At    game.Point
}

// Events is what happened during one turn.
type Events struct {
	// Eaten maps snake ID to the food it ate this turn.
	Eaten  map[int]game.Point
	Deaths []Death
}

// LegalMoves returns the moves that do not immediately kill snake id,
// ignoring where rivals will move.
func LegalMoves(state *game.State, id int) []game.Direction {
	you := find(state, id)
	if you == nil || !you.Alive() {
		return nil
	}
	head := you.Body[0]
	neck, hasNeck := you.Neck()

	moves := make([]game.Direction, 0, 4)
	for _, d := range game.Directions {
		p := head.Move(d)
		if hasNeck && p == neck {
			continue
		}
		if isSafe(state, p) {
			moves = append(moves, d)
		}
	}
	return moves
}

func isSafe(state *game.State, p game.Point) bool {
	if !p.InBounds(state.Size) {
		return false
	}
	for _, o := range state.Obstacles {
		if o == p {
			return false
		}
	}
	for _, s := range state.Snakes {
		// Tails vacate this turn, so only the segments that stay count.
		for i, bp := range s.Body {
			if i == len(s.Body)-1 && i > 1 {
				continue
			}
			if bp == p {
				return false
			}
		}
	}
	return true
}

// Step advances every live snake simultaneously. A snake missing from moves
// keeps its heading (Up when unknown). rng drives food respawn; nil uses a
// deterministic generator seeded from the state.
func Step(state *game.State, moves map[int]game.Direction, rng *rand.Rand) (*game.State, Events) {
	next := state.Clone()
	next.Round++
	ev := Events{Eaten: map[int]game.Point{}}

	// 1. Move bodies.
	for i := range next.Snakes {
		s := &next.Snakes[i]
		if !s.Alive() {
			continue
		}
		move, ok := moves[s.ID]
		if !ok || !move.Valid() {
			move, _ = s.Heading()
		}
		newHead := s.Body[0].Move(move)
		body := make([]game.Point, 0, len(s.Body))
		body = append(body, newHead)
		body = append(body, s.Body[:len(s.Body)-1]...)
		s.Body = body
	}

	// 2. Collisions, against post-move positions.
	dead := map[int]string{}
	for _, s := range next.Snakes {
		if !s.Alive() {
			continue
		}
		head := s.Body[0]
		switch {
		case !head.InBounds(next.Size):
			dead[s.ID] = CauseWall
			continue
		case containsPoint(next.Obstacles, head):
			dead[s.ID] = CauseObstacle
			continue
		}
		for _, other := range next.Snakes {
			for j, p := range other.Body {
				if j == 0 {
					continue
				}
				if p == head {
					dead[s.ID] = CauseBody
				}
			}
		}
	}
	for i := 0; i < len(next.Snakes); i++ {
		a := next.Snakes[i]
		if !a.Alive() {
			continue
		}
		for j := i + 1; j < len(next.Snakes); j++ {
			b := next.Snakes[j]
			if !b.Alive() || a.Body[0] != b.Body[0] {
				continue
			}
			if _, ok := dead[a.ID]; !ok {
				dead[a.ID] = CauseHeadOn
			}
			if _, ok := dead[b.ID]; !ok {
				dead[b.ID] = CauseHeadOn
			}
		}
	}

	// 3. Survivors eat.
	for i := range next.Snakes {
		s := &next.Snakes[i]
		if !s.Alive() {
			continue
		}
		if cause, ok := dead[s.ID]; ok {
			ev.Deaths = append(ev.Deaths, Death{ID: s.ID, Cause: cause, At: s.Body[0]})
			s.Body = nil
			continue
		}
		for k, f := range next.Food {
			if f == s.Body[0] {
				s.Score++
				ev.Eaten[s.ID] = f
				next.Food = append(next.Food[:k], next.Food[k+1:]...)
				break
			}
		}
	}

	// 4. Respawn.
	applyFoodRules(next, rng, 0x535445505F464F4F)

	return next, ev
}

// IsGameOver reports whether the round budget is spent or the field is
// decided: no snakes left, or one left in a multi-snake game.
func IsGameOver(state *game.State) bool {
	if state.MaxRounds > 0 && state.Round >= state.MaxRounds {
		return true
	}
	alive := state.Alive()
	if alive == 0 {
		return true
	}
	return len(state.Snakes) > 1 && alive <= 1
}

// Winner returns the ID of the live snake with the top score, or 0 on a tie
// or when nobody survives. Dead snakes keep their score but cannot win.
func Winner(state *game.State) int {
	best, bestScore, tied := 0, -1, false
	for _, s := range state.Snakes {
		if !s.Alive() {
			continue
		}
		switch {
		case s.Score > bestScore:
			best, bestScore, tied = s.ID, s.Score, false
		case s.Score == bestScore:
			tied = true
		}
	}
	if tied {
		return 0
	}
	return best
}

func find(state *game.State, id int) *game.Snake {
	for i := range state.Snakes {
		if state.Snakes[i].ID == id {
			return &state.Snakes[i]
		}
	}
	return nil
}

func containsPoint(points []game.Point, p game.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}
