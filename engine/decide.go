// Package engine decides one move per tick for a snake on an n×n board.
//
// Each call rebuilds a classification grid from the flat board arrays, then
// either runs a breadth-first search to a single food target (DecideBarriers)
// or ranks the four moves with a tiered heuristic (Decide). An Engine keeps
// no per-game state and is safe for concurrent use.
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/brensch/snekstep/game"
)

// Engine is an immutable, configured decision function.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes decision traces to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New builds an Engine. Without WithLogger nothing is logged.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Decision is a chosen move and the ladder tier that produced it.
type Decision struct {
	Move game.Direction
	Tier Tier
}

// Decide is the flat multi-snake contract: it always returns 0..3.
func (e *Engine) Decide(boardSize int, ownSnake []int, rivalCount int, rivalSnakes []int, foodCount int, food []int, roundsRemaining int) int {
	b := FlatBoard(boardSize, ownSnake, rivalCount, rivalSnakes, foodCount, food, roundsRemaining)
	return int(e.Step(b).Move)
}

// FlatBoard parses the flat multi-snake arguments into a Board.
func FlatBoard(boardSize int, ownSnake []int, rivalCount int, rivalSnakes []int, foodCount int, food []int, roundsRemaining int) Board {
	return Board{
		Size:            boardSize,
		You:             game.ParseSnake(ownSnake),
		Rivals:          game.ParseSnakes(rivalSnakes, rivalCount),
		Food:            game.ParsePoints(food, foodCount),
		RoundsRemaining: roundsRemaining,
	}
}

// Step runs the heuristic evaluator on a parsed board.
func (e *Engine) Step(b Board) Decision {
	head, ok := b.You.Head()
	if !ok || b.Size > MaxBoardSize || !head.InBounds(b.Size) {
		return Decision{Move: game.Up, Tier: TierFallback}
	}

	g := BuildGrid(e.cfg, b)
	rivals := b.LiveRivals()
	heads := make([]game.Point, 0, len(rivals))
	for _, r := range rivals {
		h, _ := r.Head()
		heads = append(heads, h)
	}
	neck, hasNeck := b.You.Neck()

	ev := evaluation{
		grid:       g,
		head:       head,
		neck:       neck,
		hasNeck:    hasNeck,
		food:       b.Food,
		rivalHeads: heads,
		takeRisk:   b.RoundsRemaining < e.cfg.RiskWhenRoundsBelow || len(rivals) == 1,
	}
	move, tier := ev.chooseMove()

	if e.log.Enabled(context.Background(), slog.LevelDebug) {
		e.log.Debug("decided move",
			slog.Int("size", b.Size),
			slog.Int("head_x", head.X),
			slog.Int("head_y", head.Y),
			slog.Int("rivals", len(rivals)),
			slog.Int("food", len(b.Food)),
			slog.Int("rounds_remaining", b.RoundsRemaining),
			slog.String("move", move.String()),
			slog.String("tier", tier.String()),
		)
	}
	return Decision{Move: move, Tier: tier}
}

// DecideBarriers is the flat obstacle-aware contract: the first move of a
// shortest path to the first food, or -1 when that food cannot be reached.
// The first food pair is read as given, so a sentinel there is unreachable
// rather than skipped.
func (e *Engine) DecideBarriers(ownSnake, food, obstacles []int) int {
	var targets []game.Point
	if len(food) >= 2 {
		targets = []game.Point{{X: food[0], Y: food[1]}}
	}
	return int(e.Route(e.cfg.BarrierBoardSize, game.ParseSnake(ownSnake), targets, game.ParsePoints(obstacles, -1)).First)
}

// Route searches from the snake's head to the first food item.
func (e *Engine) Route(size int, you game.Snake, food, obstacles []game.Point) Route {
	miss := Route{First: game.NotReachable}
	head, ok := you.Head()
	if !ok || len(food) == 0 || size <= 0 || size > MaxBoardSize {
		return miss
	}
	target := food[0]
	if head == target || containsPoint(obstacles, head) {
		return miss
	}

	b := Board{Size: size, You: you, Food: food[:1], Obstacles: obstacles}
	g := BuildGrid(e.cfg, b)
	r := Search(g, head, target)

	e.log.Debug("searched route",
		slog.Int("head_x", head.X),
		slog.Int("head_y", head.Y),
		slog.Int("target_x", target.X),
		slog.Int("target_y", target.Y),
		slog.Bool("found", r.Found),
		slog.Int("length", r.Length),
		slog.String("first", r.First.String()),
	)
	return r
}
