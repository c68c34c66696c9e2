package arena

import (
	"testing"

	"github.com/brensch/snekstep/engine"
)

type barrierFunc func(snake, food, obstacles []int) int

func (f barrierFunc) DecideBarriers(snake, food, obstacles []int) int { return f(snake, food, obstacles) }

func TestPlayBarriers_Challenge(t *testing.T) {
	cases := []struct {
		name      string
		snake     []int
		foods     []int
		barriers  []int
		reachable bool
	}{
		{"food to the left", []int{4, 4, 4, 3, 4, 2, 4, 1}, []int{1, 4}, []int{5, 5, 6, 6, 7, 7}, true},
		{"diagonal wall", []int{1, 1, 1, 2, 1, 3, 1, 4}, []int{8, 8}, []int{2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7}, true},
		{"around a fence", []int{5, 5, 5, 4, 5, 3, 5, 2}, []int{3, 6}, []int{2, 3, 2, 4, 2, 5, 2, 6}, true},
		{"partly enclosed", []int{2, 1, 2, 2, 2, 3, 2, 4}, []int{3, 6}, []int{2, 5, 3, 4, 3, 5, 4, 4}, true},
		{"curled start", []int{3, 3, 3, 4, 4, 4, 4, 3}, []int{3, 5}, []int{2, 5, 5, 5, 6, 5}, true},
		{"straight up", []int{4, 4, 4, 3, 4, 2, 4, 1}, []int{4, 7}, []int{5, 5, 6, 6, 7, 7}, true},
		{"long detour", []int{2, 2, 2, 3, 2, 4, 2, 5}, []int{8, 8}, []int{2, 6, 2, 7, 3, 7, 4, 7, 5, 7}, true},
		{"blocked", []int{3, 3, 3, 4, 3, 5, 3, 6}, []int{6, 3}, []int{5, 3, 4, 3, 3, 3}, false},
		{"around a post", []int{4, 5, 4, 4, 4, 3, 4, 2}, []int{6, 4}, []int{3, 4, 3, 5, 3, 6}, true},
		{"along the edge", []int{2, 2, 2, 3, 2, 4, 2, 5}, []int{2, 8}, []int{2, 6, 3, 7, 4, 8}, true},
	}
	e := engine.New(engine.DefaultConfig())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := PlayBarriers(e, tc.snake, tc.foods, tc.barriers, 200)
			if !tc.reachable {
				if !res.Unreachable {
					t.Fatalf("expected unreachable, got %+v", res)
				}
				return
			}
			if res.Turns <= 0 {
				t.Fatalf("failed with code %d path=%v", res.Turns, res.Path)
			}
			if len(res.Path) != res.Turns {
				t.Fatalf("path=%d turns=%d", len(res.Path), res.Turns)
			}
		})
	}
}

func TestPlayBarriers_FailureCodes(t *testing.T) {
	snake := []int{1, 1, 1, 2, 1, 3, 1, 4}
	cases := []struct {
		name     string
		decide   barrierFunc
		barriers []int
		want     int
	}{
		{"wall", func([]int, []int, []int) int { return 1 }, nil, BarrierWall},
		{"obstacle", func([]int, []int, []int) int { return 3 }, []int{2, 1}, BarrierObstacle},
		{"invalid", func([]int, []int, []int) int { return 7 }, nil, BarrierInvalid},
		{"late -1", func(s []int, _, _ []int) int {
			if s[0] == 1 {
				return 3
			}
			return -1
		}, nil, BarrierInvalid},
		{"timeout", func(s []int, _, _ []int) int {
			if s[0] == 1 {
				return 3
			}
			return 1
		}, nil, BarrierTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := PlayBarriers(tc.decide, snake, []int{8, 8}, tc.barriers, 20)
			if res.Turns != tc.want {
				t.Fatalf("turns=%d want=%d", res.Turns, tc.want)
			}
		})
	}
}

func TestPlayBarriers_EatsEveryFood(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	res := PlayBarriers(e, []int{4, 4, 4, 5, 4, 6, 4, 7}, []int{4, 2, 2, 2}, nil, 200)
	// (4,2) is two steps away, then (2,2) two more.
	if res.Turns != 4 {
		t.Fatalf("turns=%d want=4 path=%v", res.Turns, res.Path)
	}
}
