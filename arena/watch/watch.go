// Package watch is a terminal spectator for arena games.
package watch

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekstep/arena"
	"github.com/brensch/snekstep/game"
)

var snakeColors = []lipgloss.Color{"2", "3", "4", "5", "6", "1", "7", "10", "11", "12", "13", "14", "9", "15", "8"}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	foodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	emptyStyle    = lipgloss.NewStyle().Faint(true)
	deadStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func snakeStyle(id int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(snakeColors[(id-1+len(snakeColors))%len(snakeColors)])
}

type frameMsg arena.Frame

type doneMsg struct{}

// Model renders the latest frame received on a channel. The producer closes
// the channel when the game ends.
type Model struct {
	frames  <-chan arena.Frame
	current *arena.Frame
	seen    int
	done    bool
}

func New(frames <-chan arena.Frame) Model {
	return Model{frames: frames}
}

func waitForFrame(frames <-chan arena.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return doneMsg{}
		}
		return frameMsg(f)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case frameMsg:
		f := arena.Frame(msg)
		m.current = &f
		m.seen++
		return m, waitForFrame(m.frames)
	case doneMsg:
		m.done = true
	}
	return m, nil
}

func (m Model) View() string {
	if m.current == nil || m.current.State == nil {
		return "Waiting for the first round...\n\n" + helpStyle.Render("Press q to quit.") + "\n"
	}
	state := m.current.State

	var sb strings.Builder
	title := fmt.Sprintf("%s  round %d/%d", m.current.Mode, state.Round, state.MaxRounds)
	if m.done {
		title += "  (game over)"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(boardStyle.Render(renderBoard(state)))
	sb.WriteString("\n")
	sb.WriteString(renderScores(state))
	sb.WriteString("\n")
	for _, d := range m.current.Events.Deaths {
		fmt.Fprintf(&sb, "snake %s died: %s at (%d,%d)\n", arena.HeadGlyph(d.ID), d.Cause, d.At.X, d.At.Y)
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Press q to quit."))
	sb.WriteString("\n")
	return sb.String()
}

func renderBoard(state *game.State) string {
	owner := make(map[game.Point]int, len(state.Snakes)*game.MaxSegments)
	for _, s := range state.Snakes {
		for _, p := range s.Body {
			owner[p] = s.ID
		}
	}

	n := state.Size
	rows := make([]string, 0, n)
	for r, row := range arena.Cells(state) {
		cells := make([]string, len(row))
		for c, glyph := range row {
			p := game.Point{X: c + 1, Y: n - r}
			cells[c] = cellStyle(glyph, p, owner).Render(glyph)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

// cellStyle colours snake cells by owner first: head glyphs can collide with
// the board symbols.
func cellStyle(glyph string, p game.Point, owner map[game.Point]int) lipgloss.Style {
	if id, ok := owner[p]; ok {
		return snakeStyle(id)
	}
	switch glyph {
	case arena.GlyphEmpty:
		return emptyStyle
	case arena.GlyphFood:
		return foodStyle
	case arena.GlyphObstacle:
		return obstacleStyle
	}
	return emptyStyle
}

func renderScores(state *game.State) string {
	parts := make([]string, 0, len(state.Snakes))
	for _, s := range state.Snakes {
		label := fmt.Sprintf("%s:%d", arena.HeadGlyph(s.ID), s.Score)
		if s.Alive() {
			parts = append(parts, snakeStyle(s.ID).Render(label))
		} else {
			parts = append(parts, deadStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

// Run shows frames until the user quits or ctx is cancelled.
func Run(ctx context.Context, frames <-chan arena.Frame) error {
	p := tea.NewProgram(New(frames), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
