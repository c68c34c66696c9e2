package store

import (
	"github.com/brensch/snekstep/arena"
	"github.com/brensch/snekstep/game"
	"github.com/brensch/snekstep/rules"
)

// RowsFromFrames converts the frames of one game into rows. winner is the
// game's final winner and is stamped on every row.
func RowsFromFrames(frames []arena.Frame, winner int) []TurnRow {
	rows := make([]TurnRow, 0, len(frames))
	for _, f := range frames {
		s := f.State
		if s == nil {
			continue
		}
		row := TurnRow{
			GameID:    f.GameID,
			Mode:      f.Mode,
			Round:     int32(s.Round),
			MaxRounds: int32(s.MaxRounds),
			Size:      int32(s.Size),
			FoodCount: int32(s.FoodCount),
			Winner:    int32(winner),
			Snakes:    make([]SnakeRow, 0, len(s.Snakes)),
		}
		row.FoodX, row.FoodY = splitPoints(s.Food)
		row.ObstacleX, row.ObstacleY = splitPoints(s.Obstacles)

		died := make(map[int]string, len(f.Events.Deaths))
		for _, d := range f.Events.Deaths {
			died[d.ID] = d.Cause
		}
		for _, sn := range s.Snakes {
			sr := SnakeRow{
				ID:    int32(sn.ID),
				Alive: sn.Alive(),
				Score: int32(sn.Score),
				Move:  -1,
				Death: died[sn.ID],
			}
			if d, ok := f.Moves[sn.ID]; ok && d.Valid() {
				sr.Move = int32(d)
			}
			sr.BodyX, sr.BodyY = splitPoints(sn.Body)
			row.Snakes = append(row.Snakes, sr)
		}
		rows = append(rows, row)
	}
	return rows
}

// FramesFromRows rebuilds the frames of a recorded game, including the moves
// and deaths each row carries. Death positions and eaten food are not stored.
func FramesFromRows(rows []TurnRow) []arena.Frame {
	frames := make([]arena.Frame, 0, len(rows))
	for _, row := range rows {
		f := arena.Frame{
			GameID: row.GameID,
			Mode:   row.Mode,
			State:  row.State(),
		}
		for _, s := range row.Snakes {
			if s.Move >= 0 {
				if f.Moves == nil {
					f.Moves = make(map[int]game.Direction, len(row.Snakes))
				}
				f.Moves[int(s.ID)] = game.Direction(s.Move)
			}
			if s.Death != "" {
				f.Events.Deaths = append(f.Events.Deaths, rules.Death{
					ID:    int(s.ID),
					Cause: s.Death,
				})
			}
		}
		frames = append(frames, f)
	}
	return frames
}
