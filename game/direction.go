package game

// Direction is a cardinal move. The numeric values are part of the wire
// contract with the judge and must not change.
type Direction int

const (
	Up    Direction = 0 // +y
	Left  Direction = 1 // -x
	Down  Direction = 2 // -y
	Right Direction = 3 // +x

	// NotReachable is returned on the flat boundary when no path exists.
	NotReachable Direction = -1
)

// Directions lists the moves in scan order. Ties everywhere are broken by
// this order.
var Directions = [4]Direction{Up, Left, Down, Right}

var directionDeltas = [4]Point{
	Up:    {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Down:  {X: 0, Y: -1},
	Right: {X: 1, Y: 0},
}

var opposites = [4]Direction{
	Up:    Down,
	Left:  Right,
	Down:  Up,
	Right: Left,
}

var directionNames = [4]string{"up", "left", "down", "right"}

// Valid reports whether d is one of the four moves.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Opposite returns the reversal of d.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return opposites[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return directionNames[d]
}

// ParseDirection maps a move name back to its Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return NotReachable, false
}

// Between returns the direction that steps from a to b when they are
// 4-adjacent.
func Between(a, b Point) (Direction, bool) {
	for _, d := range Directions {
		if a.Move(d) == b {
			return d, true
		}
	}
	return Up, false
}
