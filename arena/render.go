package arena

import (
	"fmt"
	"strings"

	"github.com/brensch/snekstep/game"
)

const headGlyphs = "123456789ABCDEFG"

// Glyph symbols used by Render.
const (
	GlyphEmpty    = "."
	GlyphFood     = "F"
	GlyphObstacle = "#"
	GlyphBody     = "■"
)

// HeadGlyph is the single-character label for snake id.
func HeadGlyph(id int) string {
	if id < 1 || id > len(headGlyphs) {
		return "?"
	}
	return headGlyphs[id-1 : id]
}

// Cells lays the board out as glyphs, row 0 being the top (y = Size).
func Cells(state *game.State) [][]string {
	n := state.Size
	rows := make([][]string, n)
	for r := range rows {
		rows[r] = make([]string, n)
		for c := range rows[r] {
			rows[r][c] = GlyphEmpty
		}
	}
	put := func(p game.Point, glyph string) {
		if p.InBounds(n) {
			rows[n-p.Y][p.X-1] = glyph
		}
	}

	for _, o := range state.Obstacles {
		put(o, GlyphObstacle)
	}
	for _, f := range state.Food {
		put(f, GlyphFood)
	}
	for _, s := range state.Snakes {
		for i := len(s.Body) - 1; i >= 0; i-- {
			if i == 0 {
				put(s.Body[i], HeadGlyph(s.ID))
			} else {
				put(s.Body[i], GlyphBody)
			}
		}
	}
	return rows
}

// Render draws the board as text, top row first, followed by a score line.
func Render(state *game.State) string {
	var sb strings.Builder
	if state.MaxRounds > 0 {
		fmt.Fprintf(&sb, "Round %d/%d\n", state.Round, state.MaxRounds)
	} else {
		fmt.Fprintf(&sb, "Round %d\n", state.Round)
	}
	for _, row := range Cells(state) {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	sb.WriteString(Scoreline(state))
	sb.WriteByte('\n')
	return sb.String()
}

// Scoreline summarises each snake as "1:3" (live) or "1:3x" (dead).
func Scoreline(state *game.State) string {
	parts := make([]string, 0, len(state.Snakes))
	for _, s := range state.Snakes {
		mark := ""
		if !s.Alive() {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("%s:%d%s", HeadGlyph(s.ID), s.Score, mark))
	}
	return strings.Join(parts, " ")
}
