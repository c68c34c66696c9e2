package engine

import "github.com/brensch/snekstep/game"

// Route is the outcome of one reachability search.
type Route struct {
	Found bool
	// First is the opening move of a shortest path.
	First game.Direction
	// Length is the number of moves on that path.
	Length int
}

// ShortestFirstStep returns the first move of a shortest path from start to
// target, or false when target cannot be reached.
func ShortestFirstStep(g *Grid, start, target game.Point) (game.Direction, bool) {
	r := Search(g, start, target)
	if !r.Found {
		return game.NotReachable, false
	}
	return r.First, true
}

type backPointer struct {
	parent int
	dir    game.Direction
}

// Search runs a FIFO breadth-first search over the 4-connected grid.
// Neighbours are expanded in game.Directions order, so ties between equal
// length paths always resolve the same way.
func Search(g *Grid, start, target game.Point) Route {
	miss := Route{First: game.NotReachable}

	startIdx, ok := g.index(start)
	if !ok {
		return miss
	}
	if g.Blocked(target) || g.FoodBlocked(target) {
		return miss
	}
	targetIdx, _ := g.index(target)
	if startIdx == targetIdx {
		return miss
	}

	visited := make([]bool, len(g.cells))
	parents := make([]backPointer, len(g.cells))
	queue := make([]int, 0, len(g.cells))

	visited[startIdx] = true
	parents[startIdx] = backPointer{parent: -1, dir: game.NotReachable}
	queue = append(queue, startIdx)

	found := false
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur == targetIdx {
			found = true
			break
		}
		p := g.point(cur)
		for _, d := range game.Directions {
			next := p.Move(d)
			ni, ok := g.index(next)
			if !ok || visited[ni] || g.Blocked(next) {
				continue
			}
			visited[ni] = true
			parents[ni] = backPointer{parent: cur, dir: d}
			queue = append(queue, ni)
		}
	}
	if !found {
		return miss
	}

	// Walk back until the parent is the start; the last hop taken is the
	// first move.
	length := 0
	cur := targetIdx
	for {
		bp := parents[cur]
		length++
		if bp.parent == startIdx {
			return Route{Found: true, First: bp.dir, Length: length}
		}
		if bp.parent < 0 {
			return miss
		}
		cur = bp.parent
	}
}

func (g *Grid) point(i int) game.Point {
	return game.Point{X: i%g.Size + 1, Y: i/g.Size + 1}
}
