// Package arena runs whole games between decision engines: the preset game
// modes, the simultaneous-move game loop, the single-snake obstacle
// challenge and a plain-text board renderer.
package arena

import (
	"errors"
	"fmt"
	"sort"

	"github.com/brensch/snekstep/game"
)

var (
	// ErrUnknownMode is returned by Lookup for a name with no preset.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrInvalidStart means a mode's opening placement is unusable.
	ErrInvalidStart = errors.New("invalid start position")
)

// Mode is a board preset.
type Mode struct {
	Name      string
	Size      int
	Snakes    int
	FoodCount int
	MaxRounds int
	// Start holds one flat snake per player, head first.
	Start [][]int
}

var modes = map[string]Mode{
	"1v1": {
		Name: "1v1", Size: 5, Snakes: 2, FoodCount: 5, MaxRounds: 50,
		Start: [][]int{
			{1, 4, 1, 3, 1, 2, 1, 1},
			{5, 2, 5, 3, 5, 4, 5, 5},
		},
	},
	"4snakes": {
		Name: "4snakes", Size: 8, Snakes: 4, FoodCount: 10, MaxRounds: 100,
		Start: [][]int{
			{4, 1, 3, 1, 2, 1, 1, 1},
			{8, 4, 8, 3, 8, 2, 8, 1},
			{5, 8, 6, 8, 7, 8, 8, 8},
			{1, 5, 1, 6, 1, 7, 1, 8},
		},
	},
	"custom": {
		Name: "custom", Size: 12, Snakes: 8, FoodCount: 20, MaxRounds: 200,
		Start: [][]int{
			{2, 2, 2, 3, 3, 3, 4, 3},
			{11, 2, 11, 3, 10, 3, 9, 3},
			{2, 11, 2, 10, 3, 10, 4, 10},
			{11, 11, 11, 10, 10, 10, 9, 10},
			{2, 6, 3, 6, 4, 6, 5, 6},
			{11, 6, 10, 6, 9, 6, 8, 6},
			{6, 2, 6, 3, 6, 4, 6, 5},
			{6, 11, 6, 10, 6, 9, 6, 8},
		},
	},
	"bigbattle": {
		Name: "bigbattle", Size: 20, Snakes: 4, FoodCount: 40, MaxRounds: 300,
		Start: [][]int{
			{3, 3, 3, 4, 3, 5, 3, 6},
			{17, 3, 17, 4, 17, 5, 17, 6},
			{3, 17, 3, 16, 3, 15, 3, 14},
			{17, 17, 17, 16, 17, 15, 17, 14},
		},
	},
	"epicbattle": {
		Name: "epicbattle", Size: 30, Snakes: 8, FoodCount: 60, MaxRounds: 500,
		Start: [][]int{
			{3, 3, 3, 4, 3, 5, 3, 6},
			{27, 3, 27, 4, 27, 5, 27, 6},
			{3, 27, 3, 26, 3, 25, 3, 24},
			{27, 27, 27, 26, 27, 25, 27, 24},
			{15, 8, 15, 9, 15, 10, 15, 11},
			{15, 22, 15, 21, 15, 20, 15, 19},
			{8, 15, 9, 15, 10, 15, 11, 15},
			{22, 15, 21, 15, 20, 15, 19, 15},
		},
	},
}

// Lookup returns the preset called name.
func Lookup(name string) (Mode, error) {
	m, ok := modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownMode, name, ModeNames())
	}
	return m, nil
}

// ModeNames lists the presets in a stable order.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewState builds the opening position, without food.
func (m Mode) NewState() (*game.State, error) {
	if m.Size <= 0 {
		return nil, fmt.Errorf("%w: board size %d", ErrInvalidStart, m.Size)
	}
	if len(m.Start) != m.Snakes {
		return nil, fmt.Errorf("%w: %d placements for %d snakes", ErrInvalidStart, len(m.Start), m.Snakes)
	}

	state := &game.State{
		Size:      m.Size,
		MaxRounds: m.MaxRounds,
		FoodCount: m.FoodCount,
		Snakes:    make([]game.Snake, 0, m.Snakes),
	}
	taken := make(map[game.Point]int, m.Snakes*game.MaxSegments)
	for i, flat := range m.Start {
		id := i + 1
		if len(flat) != 2*game.MaxSegments {
			return nil, fmt.Errorf("%w: snake %d has %d coordinates", ErrInvalidStart, id, len(flat))
		}
		s := game.ParseSnake(flat)
		s.ID = id
		if len(s.Body) != game.MaxSegments {
			return nil, fmt.Errorf("%w: snake %d is not fully on the board", ErrInvalidStart, id)
		}
		for j, p := range s.Body {
			if !p.InBounds(m.Size) {
				return nil, fmt.Errorf("%w: snake %d segment %v off the board", ErrInvalidStart, id, p)
			}
			if j > 0 && game.Manhattan(p, s.Body[j-1]) != 1 {
				return nil, fmt.Errorf("%w: snake %d segments %v and %v are not adjacent", ErrInvalidStart, id, s.Body[j-1], p)
			}
			if other, ok := taken[p]; ok {
				return nil, fmt.Errorf("%w: snakes %d and %d overlap at %v", ErrInvalidStart, other, id, p)
			}
			taken[p] = id
		}
		state.Snakes = append(state.Snakes, s)
	}
	return state, nil
}
