package arena

import "github.com/brensch/snekstep/game"

// Outcome codes reported by PlayBarriers on failure.
const (
	BarrierWall     = -1
	BarrierObstacle = -2
	BarrierTimeout  = -3
	BarrierInvalid  = -4
)

// BarrierBoardSize is the board the obstacle challenge is played on.
const BarrierBoardSize = 8

// BarrierDecider is the flat obstacle-aware contract. *engine.Engine
// satisfies it.
type BarrierDecider interface {
	DecideBarriers(ownSnake, food, obstacles []int) int
}

// BarrierResult is the outcome of one obstacle challenge.
type BarrierResult struct {
	// Turns is the turn the last food was eaten, or a negative Barrier* code.
	Turns int
	// Unreachable is set when the decider answered -1 on the first turn.
	Unreachable bool
	Path        []game.Point
}

// PlayBarriers drives a single fixed-length snake on the 8×8 board until it
// has eaten every food item. The snake's own body is not a hazard here; only
// walls and obstacles are.
func PlayBarriers(d BarrierDecider, snake, foods, obstacles []int, maxTurns int) BarrierResult {
	current := append([]int(nil), snake...)
	remaining := append([]int(nil), foods...)
	blocked := game.ParsePoints(obstacles, -1)
	left := len(game.ParsePoints(foods, -1))

	var res BarrierResult
	if len(current) != 2*game.MaxSegments {
		res.Turns = BarrierInvalid
		return res
	}
	for turn := 1; turn <= maxTurns; turn++ {
		dir := d.DecideBarriers(current, remaining, obstacles)
		if dir == int(game.NotReachable) && turn == 1 {
			res.Unreachable = true
			res.Turns = int(game.NotReachable)
			return res
		}
		if !game.Direction(dir).Valid() {
			res.Turns = BarrierInvalid
			return res
		}

		head := game.Point{X: current[0], Y: current[1]}.Move(game.Direction(dir))
		next := append([]int{head.X, head.Y}, current[:len(current)-2]...)
		res.Path = append(res.Path, head)

		if !head.InBounds(BarrierBoardSize) {
			res.Turns = BarrierWall
			return res
		}
		if containsPoint(blocked, head) {
			res.Turns = BarrierObstacle
			return res
		}

		for i := 0; i+1 < len(remaining); i += 2 {
			if remaining[i] == head.X && remaining[i+1] == head.Y {
				remaining = append(remaining[:i:i], remaining[i+2:]...)
				left--
				break
			}
		}
		if left <= 0 {
			res.Turns = turn
			return res
		}
		current = next
	}
	res.Turns = BarrierTimeout
	return res
}

func containsPoint(points []game.Point, p game.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}
