package game

// ParseSnake reads up to MaxSegments (x, y) pairs. Sentinel and truncated
// pairs are dropped; once the head is absent the whole snake is dead.
func ParseSnake(flat []int) Snake {
	var s Snake
	for i := 0; i+1 < len(flat) && i < 2*MaxSegments; i += 2 {
		p := Point{X: flat[i], Y: flat[i+1]}
		if p.IsSentinel() {
			if i == 0 {
				return Snake{}
			}
			continue
		}
		s.Body = append(s.Body, p)
	}
	return s
}

// ParseSnakes reads count consecutive 8-int snake records. The count is
// clamped to what the slice actually holds.
func ParseSnakes(flat []int, count int) []Snake {
	stride := 2 * MaxSegments
	if count < 0 {
		count = 0
	}
	if limit := (len(flat) + stride - 1) / stride; count > limit {
		count = limit
	}
	out := make([]Snake, 0, count)
	for i := 0; i < count; i++ {
		end := (i + 1) * stride
		if end > len(flat) {
			end = len(flat)
		}
		s := ParseSnake(flat[i*stride : end])
		s.ID = i + 1
		out = append(out, s)
	}
	return out
}

// ParsePoints reads count (x, y) pairs, skipping sentinel padding. A negative
// count means "as many as the slice holds".
func ParsePoints(flat []int, count int) []Point {
	limit := len(flat) / 2
	if count < 0 || count > limit {
		count = limit
	}
	out := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		p := Point{X: flat[2*i], Y: flat[2*i+1]}
		if p.IsSentinel() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Flat encodes the snake as a fixed 8-int record padded with sentinels.
func (s Snake) Flat() []int {
	out := make([]int, 0, 2*MaxSegments)
	for i := 0; i < MaxSegments; i++ {
		p := Sentinel
		if i < len(s.Body) {
			p = s.Body[i]
		}
		out = append(out, p.X, p.Y)
	}
	return out
}

// FlatPoints encodes points as interleaved x, y pairs.
func FlatPoints(points []Point) []int {
	out := make([]int, 0, 2*len(points))
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// FlatSnakes concatenates the 8-int records of the given snakes.
func FlatSnakes(snakes []Snake) []int {
	out := make([]int, 0, 2*MaxSegments*len(snakes))
	for _, s := range snakes {
		out = append(out, s.Flat()...)
	}
	return out
}
