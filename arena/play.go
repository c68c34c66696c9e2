package arena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snekstep/game"
	"github.com/brensch/snekstep/rules"
)

// Player is the flat multi-snake decision contract. *engine.Engine
// satisfies it.
type Player interface {
	Decide(boardSize int, ownSnake []int, rivalCount int, rivalSnakes []int, foodCount int, food []int, roundsRemaining int) int
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(boardSize int, ownSnake []int, rivalCount int, rivalSnakes []int, foodCount int, food []int, roundsRemaining int) int

func (f PlayerFunc) Decide(boardSize int, ownSnake []int, rivalCount int, rivalSnakes []int, foodCount int, food []int, roundsRemaining int) int {
	return f(boardSize, ownSnake, rivalCount, rivalSnakes, foodCount, food, roundsRemaining)
}

// Frame is one observed position. Round 0 is the opening; later frames carry
// the moves that produced them and what happened.
type Frame struct {
	GameID string
	Mode   string
	State  *game.State
	Moves  map[int]game.Direction
	Events rules.Events
}

// Options tunes a game.
type Options struct {
	// Seed drives food placement; zero picks a time-based seed.
	Seed int64
	// Observer, when set, receives every frame in order.
	Observer func(Frame)
	Logger   *slog.Logger
}

// Result summarises a finished or cancelled game.
type Result struct {
	GameID    string
	Mode      string
	Seed      int64
	Rounds    int
	Winner    int
	Scores    map[int]int
	Deaths    []rules.Death
	Frames    []Frame
	Cancelled bool
}

// Play runs mode to completion. players holds either one Player shared by
// every snake or exactly one per snake. Cancelling ctx stops the game after
// the current round and returns the partial result together with ctx.Err().
func Play(ctx context.Context, mode Mode, players []Player, opts Options) (Result, error) {
	if len(players) != 1 && len(players) != mode.Snakes {
		return Result{}, fmt.Errorf("mode %s needs 1 or %d players, got %d", mode.Name, mode.Snakes, len(players))
	}
	state, err := mode.NewState()
	if err != nil {
		return Result{}, fmt.Errorf("mode %s: %w", mode.Name, err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	rules.SpawnFood(state, rng)

	res := Result{
		GameID: uuid.NewString(),
		Mode:   mode.Name,
		Seed:   seed,
		Frames: make([]Frame, 0, mode.MaxRounds+1),
	}
	log = log.With(slog.String("game_id", res.GameID), slog.String("mode", mode.Name))
	log.Info("game started", slog.Int64("seed", seed), slog.Int("snakes", mode.Snakes))

	emit := func(f Frame) {
		f.GameID = res.GameID
		f.Mode = mode.Name
		res.Frames = append(res.Frames, f)
		if opts.Observer != nil {
			opts.Observer(f)
		}
	}
	emit(Frame{State: state.Clone()})

	for !rules.IsGameOver(state) {
		if ctx != nil {
			select {
			case <-ctx.Done():
				res.Cancelled = true
				finish(&res, state)
				log.Warn("game cancelled", slog.Int("round", state.Round), slog.Any("err", ctx.Err()))
				return res, ctx.Err()
			default:
			}
		}

		moves := collectMoves(state, players)
		next, ev := rules.Step(state, moves, rng)
		for _, d := range ev.Deaths {
			res.Deaths = append(res.Deaths, d)
			log.Info("snake died",
				slog.Int("round", next.Round),
				slog.Int("snake", d.ID),
				slog.String("cause", d.Cause),
				slog.Int("x", d.At.X),
				slog.Int("y", d.At.Y),
			)
		}
		state = next
		emit(Frame{State: state.Clone(), Moves: moves, Events: ev})
	}

	finish(&res, state)
	log.Info("game over", slog.Int("rounds", res.Rounds), slog.Int("winner", res.Winner))
	return res, nil
}

// collectMoves asks every live snake for a move concurrently.
func collectMoves(state *game.State, players []Player) map[int]game.Direction {
	moves := make(map[int]game.Direction, len(state.Snakes))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, s := range state.Snakes {
		if !s.Alive() {
			continue
		}
		p := players[0]
		if len(players) > 1 {
			p = players[i]
		}

		rivals := make([]game.Snake, 0, len(state.Snakes)-1)
		for j, r := range state.Snakes {
			if j != i {
				rivals = append(rivals, r)
			}
		}

		wg.Add(1)
		go func(id int, p Player, own, rivalFlat []int, rivalCount int) {
			defer wg.Done()
			d := p.Decide(state.Size, own, rivalCount, rivalFlat, len(state.Food), game.FlatPoints(state.Food), state.RoundsRemaining())
			mu.Lock()
			moves[id] = game.Direction(d)
			mu.Unlock()
		}(s.ID, p, s.Flat(), game.FlatSnakes(rivals), len(rivals))
	}
	wg.Wait()
	return moves
}

func finish(res *Result, state *game.State) {
	res.Rounds = state.Round
	res.Winner = rules.Winner(state)
	res.Scores = make(map[int]int, len(state.Snakes))
	for _, s := range state.Snakes {
		res.Scores[s.ID] = s.Score
	}
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
