package engine

import (
	"testing"

	"github.com/brensch/snekstep/game"
)

func pt(x, y int) game.Point { return game.Point{X: x, Y: y} }

func mustCell(t *testing.T, g *Grid, p game.Point, want Cell) {
	t.Helper()
	got, ok := g.At(p)
	if !ok {
		t.Fatalf("At(%v) off-board\n%s", p, g)
	}
	if got != want {
		t.Fatalf("At(%v)=%d want=%d\n%s", p, got, want, g)
	}
}

func TestBuildGrid_OwnSnake(t *testing.T) {
	b := Board{Size: 8, You: game.ParseSnake([]int{4, 4, 4, 5, 4, 6, 4, 7})}

	g := BuildGrid(DefaultConfig(), b)
	t.Logf("grid:\n%s", g)
	mustCell(t, g, pt(4, 4), Empty)
	mustCell(t, g, pt(4, 5), Body)
	mustCell(t, g, pt(4, 6), Body)
	mustCell(t, g, pt(4, 7), Tail)
	if g.Blocked(pt(4, 7)) {
		t.Fatalf("vacating tail must be passable")
	}

	cfg := DefaultConfig()
	cfg.TreatTailAsPassable = false
	g = BuildGrid(cfg, b)
	mustCell(t, g, pt(4, 7), Body)
}

func TestBuildGrid_TwoSegmentNeckStaysBlocked(t *testing.T) {
	b := Board{Size: 5, You: game.ParseSnake([]int{2, 2, 2, 3, -1, -1, -1, -1})}
	g := BuildGrid(DefaultConfig(), b)
	mustCell(t, g, pt(2, 3), Body)
}

func TestBuildGrid_RivalDangerZones(t *testing.T) {
	b := Board{
		Size:   8,
		You:    game.ParseSnake([]int{2, 2, 2, 1, -1, -1, -1, -1}),
		Rivals: game.ParseSnakes([]int{5, 3, 6, 3, 7, 3, 8, 3}, 1),
	}
	g := BuildGrid(DefaultConfig(), b)
	t.Logf("grid:\n%s", g)

	mustCell(t, g, pt(5, 3), RivalHead)
	mustCell(t, g, pt(6, 3), Body)
	mustCell(t, g, pt(8, 3), Tail)
	for _, p := range []game.Point{pt(4, 3), pt(5, 4), pt(5, 2)} {
		mustCell(t, g, p, DangerZone)
		if !g.Dangerous(p) {
			t.Fatalf("%v should be dangerous", p)
		}
	}
	if g.Dangerous(pt(6, 3)) {
		t.Fatalf("rival neck is not a danger zone")
	}

	cfg := DefaultConfig()
	cfg.UseDangerZones = false
	g = BuildGrid(cfg, b)
	if g.Dangerous(pt(4, 3)) {
		t.Fatalf("danger zones disabled but (4,3) marked")
	}
}

func TestBuildGrid_UnknownHeadingMarksAllNeighbours(t *testing.T) {
	b := Board{
		Size:   8,
		You:    game.ParseSnake([]int{1, 1, 1, 2, -1, -1, -1, -1}),
		Rivals: game.ParseSnakes([]int{5, 5, 7, 7, -1, -1, -1, -1}, 1),
	}
	g := BuildGrid(DefaultConfig(), b)
	for _, d := range game.Directions {
		if p := pt(5, 5).Move(d); !g.Dangerous(p) {
			t.Fatalf("%v (%v of rival head) not dangerous\n%s", p, d, g)
		}
	}
}

func TestBuildGrid_FoodKeepsDangerMask(t *testing.T) {
	b := Board{
		Size:   8,
		You:    game.ParseSnake([]int{1, 1, 1, 2, -1, -1, -1, -1}),
		Rivals: game.ParseSnakes([]int{5, 3, 6, 3, 7, 3, 8, 3}, 1),
		Food:   []game.Point{pt(4, 3), pt(6, 3)},
	}
	g := BuildGrid(DefaultConfig(), b)
	mustCell(t, g, pt(4, 3), Food)
	if !g.Dangerous(pt(4, 3)) {
		t.Fatalf("food in a danger zone lost its danger flag")
	}
	// Food under a body segment stays blocked.
	mustCell(t, g, pt(6, 3), Body)
}

func TestBuildGrid_FoodOnObstacle(t *testing.T) {
	b := Board{
		Size:      8,
		You:       game.ParseSnake([]int{1, 1, 1, 2, 1, 3, 1, 4}),
		Food:      []game.Point{pt(5, 5)},
		Obstacles: []game.Point{pt(5, 5)},
	}
	g := BuildGrid(DefaultConfig(), b)
	mustCell(t, g, pt(5, 5), Body)
	if !g.FoodBlocked(pt(5, 5)) {
		t.Fatalf("food on obstacle should be recorded as blocked")
	}
}

func TestBuildGrid_IgnoresOffBoardAndDead(t *testing.T) {
	b := Board{
		Size:      4,
		You:       game.ParseSnake([]int{1, 1, 0, 1, -5, 1, 9, 9}),
		Rivals:    game.ParseSnakes([]int{-1, -1, -1, -1, -1, -1, -1, -1, 2, 2, 2, 3, 2, 4, 2, 5}, 2),
		Food:      []game.Point{pt(10, 10)},
		Obstacles: []game.Point{pt(0, 0), pt(4, 4)},
	}
	g := BuildGrid(DefaultConfig(), b)
	mustCell(t, g, pt(4, 4), Body)
	mustCell(t, g, pt(2, 2), RivalHead)
	if _, ok := g.At(pt(0, 1)); ok {
		t.Fatalf("(0,1) must be off-board")
	}
	if !g.Blocked(pt(5, 1)) {
		t.Fatalf("off-board must read as blocked")
	}
}
