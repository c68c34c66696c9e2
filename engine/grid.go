package engine

import (
	"strings"

	"github.com/brensch/snekstep/game"
)

// Cell classifies one board square.
type Cell uint8

const (
	Empty Cell = iota
	Body
	Food
	RivalHead
	DangerZone
	Tail
)

// MaxBoardSize is the largest board the engine will rasterize. Larger sizes
// are treated as malformed input.
const MaxBoardSize = 64

// Board is the parsed input of one decision.
type Board struct {
	Size            int
	You             game.Snake
	Rivals          []game.Snake
	Food            []game.Point
	Obstacles       []game.Point
	RoundsRemaining int
}

// LiveRivals returns the rivals that still have a head.
func (b Board) LiveRivals() []game.Snake {
	out := make([]game.Snake, 0, len(b.Rivals))
	for _, r := range b.Rivals {
		if r.Alive() {
			out = append(out, r)
		}
	}
	return out
}

// Grid is the per-call classification buffer. Off-board reads never index
// the buffer.
type Grid struct {
	Size   int
	cells  []Cell
	danger []bool
	// foodBlocked holds food coordinates that coincide with an obstacle.
	foodBlocked map[game.Point]struct{}
}

func newGrid(n int) *Grid {
	if n < 0 || n > MaxBoardSize {
		n = 0
	}
	return &Grid{
		Size:   n,
		cells:  make([]Cell, n*n),
		danger: make([]bool, n*n),
	}
}

func (g *Grid) index(p game.Point) (int, bool) {
	if !p.InBounds(g.Size) {
		return 0, false
	}
	return (p.Y-1)*g.Size + (p.X - 1), true
}

// InBounds reports whether p is on the board.
func (g *Grid) InBounds(p game.Point) bool {
	return p.InBounds(g.Size)
}

// At returns the classification of p; ok is false off-board.
func (g *Grid) At(p game.Point) (Cell, bool) {
	i, ok := g.index(p)
	if !ok {
		return Empty, false
	}
	return g.cells[i], true
}

// Blocked reports whether p cannot be entered this tick. Off-board counts as
// blocked.
func (g *Grid) Blocked(p game.Point) bool {
	c, ok := g.At(p)
	if !ok {
		return true
	}
	// Rival heads are held impassable even though the judge would let food
	// be eaten under them.
	return c == Body || c == RivalHead
}

// Dangerous reports whether p is a predicted rival move, even if food was
// later written over it.
func (g *Grid) Dangerous(p game.Point) bool {
	i, ok := g.index(p)
	return ok && g.danger[i]
}

// FoodBlocked reports whether food at p sits on an obstacle and can never be
// reached.
func (g *Grid) FoodBlocked(p game.Point) bool {
	_, ok := g.foodBlocked[p]
	return ok
}

func (g *Grid) set(p game.Point, c Cell) {
	if i, ok := g.index(p); ok {
		g.cells[i] = c
	}
}

// BuildGrid rasterizes the board. Write order: bodies and obstacles, danger
// zones into empty cells, food over anything not blocked, tails last.
func BuildGrid(cfg Config, b Board) *Grid {
	g := newGrid(b.Size)

	for i, p := range b.You.Body {
		if i == 0 {
			continue
		}
		g.set(p, Body)
	}
	for _, r := range b.Rivals {
		for i, p := range r.Body {
			if i == 0 {
				continue
			}
			g.set(p, Body)
		}
	}
	// Heads go in after bodies so a head never gets masked by another
	// snake's segment.
	for _, r := range b.Rivals {
		if head, ok := r.Head(); ok {
			g.set(head, RivalHead)
		}
	}
	for _, p := range b.Obstacles {
		g.set(p, Body)
	}

	if cfg.UseDangerZones {
		for _, r := range b.Rivals {
			markDangerZones(g, r)
		}
	}

	for _, f := range b.Food {
		if containsPoint(b.Obstacles, f) {
			if g.foodBlocked == nil {
				g.foodBlocked = make(map[game.Point]struct{})
			}
			g.foodBlocked[f] = struct{}{}
		}
		c, ok := g.At(f)
		if !ok || c == Body || c == RivalHead {
			continue
		}
		g.set(f, Food)
	}

	if cfg.TreatTailAsPassable {
		markTail(g, b.You, b.Obstacles)
		for _, r := range b.Rivals {
			markTail(g, r, b.Obstacles)
		}
	}

	return g
}

// markDangerZones marks the cells rival r can reach next tick. A rival never
// reverses onto its neck; with an unknown heading all four neighbours count.
func markDangerZones(g *Grid, r game.Snake) {
	head, ok := r.Head()
	if !ok {
		return
	}
	heading, known := r.Heading()
	for _, d := range game.Directions {
		if known && d == heading.Opposite() {
			continue
		}
		next := head.Move(d)
		i, ok := g.index(next)
		if !ok || g.cells[i] != Empty {
			continue
		}
		g.cells[i] = DangerZone
		g.danger[i] = true
	}
}

// markTail discounts the vacating tail. A two-segment snake's tail is its
// neck, which stays blocked.
func markTail(g *Grid, s game.Snake, obstacles []game.Point) {
	tail, ok := s.Tail()
	if !ok || len(s.Body) < 3 || containsPoint(obstacles, tail) {
		return
	}
	if c, ok := g.At(tail); ok && c == Body {
		g.set(tail, Tail)
	}
}

func containsPoint(points []game.Point, p game.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

var cellGlyphs = [...]byte{
	Empty:      '.',
	Body:       '#',
	Food:       'F',
	RivalHead:  'R',
	DangerZone: '!',
	Tail:       't',
}

// String renders the grid top row first.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.Size; y >= 1; y-- {
		for x := 1; x <= g.Size; x++ {
			c, _ := g.At(game.Point{X: x, Y: y})
			sb.WriteByte(cellGlyphs[c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
