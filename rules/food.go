package rules

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"

	"github.com/brensch/snekstep/game"
)

// SpawnFood tops the board up to state.FoodCount items. It is used for the
// opening position; Step calls the same logic after every turn.
func SpawnFood(state *game.State, rng *rand.Rand) {
	applyFoodRules(state, rng, 0x464F4F445F494E49) // "FOOD_INI" salt
}

// applyFoodRules places food on free cells until FoodCount is met or the
// board is full. A nil rng is replaced by one seeded from the state so
// replays stay reproducible.
func applyFoodRules(state *game.State, rng *rand.Rand, salt uint64) {
	if state == nil || state.Size <= 0 {
		return
	}
	deficit := state.FoodCount - len(state.Food)
	if deficit <= 0 {
		return
	}

	if rng == nil {
		seed := int64(deterministicU64Fast(state, salt))
		if seed == 0 {
			seed = 1
		}
		rng = rand.New(rand.NewSource(seed))
	}

	occupied := make(map[game.Point]struct{}, state.Size*state.Size)
	for _, s := range state.Snakes {
		for _, p := range s.Body {
			occupied[p] = struct{}{}
		}
	}
	for _, f := range state.Food {
		occupied[f] = struct{}{}
	}
	for _, o := range state.Obstacles {
		occupied[o] = struct{}{}
	}

	available := make([]game.Point, 0, state.Size*state.Size)
	for y := 1; y <= state.Size; y++ {
		for x := 1; x <= state.Size; x++ {
			p := game.Point{X: x, Y: y}
			if _, ok := occupied[p]; ok {
				continue
			}
			available = append(available, p)
		}
	}

	for ; deficit > 0 && len(available) > 0; deficit-- {
		i := rng.Intn(len(available))
		state.Food = append(state.Food, available[i])
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
	}
}

func deterministicU64Fast(state *game.State, salt uint64) uint64 {
	// Mixes round, board size, salt, food count and live heads.
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(uint32(state.Size))|(uint64(uint32(state.Round))<<32))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(state.Food)))
	_, _ = h.Write(buf[:])

	for _, s := range state.Snakes {
		head, ok := s.Head()
		if !ok {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(head.X))<<32)|uint64(uint32(head.Y)))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
