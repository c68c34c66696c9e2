// Package game defines the board types shared by the decision engine and the
// turn-driving collaborators (rules, arena, store).
//
// Coordinates are 1-indexed: a board of size n covers [1, n] on both axes and
// y grows upward. The flat wire encoding marks an absent segment or item with
// the sentinel (-1, -1); it is converted to an absent value at parse time so
// nothing downstream compares against -1 by hand.
package game

// MaxSegments is the fixed snake length used by the flat wire format.
const MaxSegments = 4

// Point is a board coordinate.
type Point struct {
	X int
	Y int
}

// Sentinel is the flat-encoding marker for a dead segment or padding slot.
var Sentinel = Point{X: -1, Y: -1}

// IsSentinel reports whether p is the absent marker.
func (p Point) IsSentinel() bool {
	return p.X == -1 && p.Y == -1
}

// Move returns the neighbouring point in direction d.
func (p Point) Move(d Direction) Point {
	if !d.Valid() {
		return p
	}
	delta := directionDeltas[d]
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// InBounds reports whether p lies on an n×n board.
func (p Point) InBounds(n int) bool {
	return p.X >= 1 && p.X <= n && p.Y >= 1 && p.Y <= n
}

// OnEdge reports whether p lies on the outermost ring of an n×n board.
func (p Point) OnEdge(n int) bool {
	return p.X == 1 || p.X == n || p.Y == 1 || p.Y == n
}

// Manhattan is |dx| + |dy|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Snake holds the live segments of a snake, head first. A snake with no live
// segments is dead.
type Snake struct {
	ID    int
	Body  []Point
	Score int
}

// Alive reports whether the snake still has a head on the board.
func (s Snake) Alive() bool {
	return len(s.Body) > 0
}

// Head returns the head segment; ok is false for a dead snake.
func (s Snake) Head() (Point, bool) {
	if len(s.Body) == 0 {
		return Point{}, false
	}
	return s.Body[0], true
}

// Neck returns the second live segment, if any.
func (s Snake) Neck() (Point, bool) {
	if len(s.Body) < 2 {
		return Point{}, false
	}
	return s.Body[1], true
}

// Tail returns the last live segment of a snake with at least two segments.
func (s Snake) Tail() (Point, bool) {
	if len(s.Body) < 2 {
		return Point{}, false
	}
	return s.Body[len(s.Body)-1], true
}

// Heading infers the direction of the most recent move from head and neck.
// ok is false when there is no neck or the two are not adjacent.
func (s Snake) Heading() (Direction, bool) {
	head, ok := s.Head()
	if !ok {
		return Up, false
	}
	neck, ok := s.Neck()
	if !ok {
		return Up, false
	}
	return Between(neck, head)
}

// Occupies reports whether any live segment sits on p.
func (s Snake) Occupies(p Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// State is the full board as the judge sees it.
type State struct {
	Size      int
	Round     int
	MaxRounds int
	FoodCount int
	Snakes    []Snake
	Food      []Point
	Obstacles []Point
}

// RoundsRemaining is the budget left before the game ends.
func (s *State) RoundsRemaining() int {
	if s.MaxRounds <= 0 {
		return 0
	}
	r := s.MaxRounds - s.Round
	if r < 0 {
		return 0
	}
	return r
}

// Alive counts the live snakes.
func (s *State) Alive() int {
	n := 0
	for _, sn := range s.Snakes {
		if sn.Alive() {
			n++
		}
	}
	return n
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := &State{
		Size:      s.Size,
		Round:     s.Round,
		MaxRounds: s.MaxRounds,
		FoodCount: s.FoodCount,
	}

	if len(s.Food) > 0 {
		out.Food = make([]Point, len(s.Food))
		copy(out.Food, s.Food)
	}
	if len(s.Obstacles) > 0 {
		out.Obstacles = make([]Point, len(s.Obstacles))
		copy(out.Obstacles, s.Obstacles)
	}

	if len(s.Snakes) > 0 {
		out.Snakes = make([]Snake, len(s.Snakes))
		for i := range s.Snakes {
			out.Snakes[i] = Snake{ID: s.Snakes[i].ID, Score: s.Snakes[i].Score}
			if len(s.Snakes[i].Body) > 0 {
				out.Snakes[i].Body = make([]Point, len(s.Snakes[i].Body))
				copy(out.Snakes[i].Body, s.Snakes[i].Body)
			}
		}
	}

	return out
}
