// Package store records arena games as Parquet files, one file per game and
// one row per round, and reads them back for replay and summaries.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/snekstep/game"
)

// SchemaName is written into each file's key/value metadata.
const SchemaName = "snekstep_turn_v1"

// TurnRow is one (game, round) snapshot. The board and snakes are stored as
// parallel coordinate columns, which compress far better than nested points.
type TurnRow struct {
	GameID    string `parquet:"game_id,dict"`
	Mode      string `parquet:"mode,dict"`
	Round     int32  `parquet:"round"`
	MaxRounds int32  `parquet:"max_rounds"`
	Size      int32  `parquet:"size"`
	FoodCount int32  `parquet:"food_count"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	ObstacleX []int32 `parquet:"obstacle_x"`
	ObstacleY []int32 `parquet:"obstacle_y"`

	Snakes []SnakeRow `parquet:"snakes"`

	// Winner is the final winner of the game (0 for none), repeated on every
	// row so any single row answers "who won".
	Winner int32 `parquet:"winner"`
}

// SnakeRow is one snake inside a TurnRow.
type SnakeRow struct {
	ID    int32 `parquet:"id"`
	Alive bool  `parquet:"alive"`
	Score int32 `parquet:"score"`

	BodyX []int32 `parquet:"body_x"`
	BodyY []int32 `parquet:"body_y"`

	// Move is the direction that led to this round, -1 on the opening row
	// or for a snake that did not move.
	Move int32 `parquet:"move"`
	// Death is the elimination cause if the snake died this round.
	Death string `parquet:"death,dict,optional"`
}

// WriteGameParquet writes rows to outDir/<game id>.parquet. The file is built
// under outDir/tmp and renamed into place so readers never see a partial file.
func WriteGameParquet(outDir string, rows []TurnRow) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("no rows to write")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("game_%s.parquet", rows[0].GameID)
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadGameParquet loads every row of a file written by WriteGameParquet.
func ReadGameParquet(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	r := parquet.NewGenericReader[TurnRow](f)
	defer r.Close()

	out := make([]TurnRow, 0, r.NumRows())
	buf := make([]TurnRow, 64)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", filepath.Base(path), err)
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}

// State rebuilds the board recorded in row.
func (row TurnRow) State() *game.State {
	state := &game.State{
		Size:      int(row.Size),
		Round:     int(row.Round),
		MaxRounds: int(row.MaxRounds),
		FoodCount: int(row.FoodCount),
		Food:      zipPoints(row.FoodX, row.FoodY),
		Obstacles: zipPoints(row.ObstacleX, row.ObstacleY),
		Snakes:    make([]game.Snake, 0, len(row.Snakes)),
	}
	for _, s := range row.Snakes {
		sn := game.Snake{ID: int(s.ID), Score: int(s.Score)}
		if s.Alive {
			sn.Body = zipPoints(s.BodyX, s.BodyY)
		}
		state.Snakes = append(state.Snakes, sn)
	}
	return state
}

func zipPoints(xs, ys []int32) []game.Point {
	n := min(len(xs), len(ys))
	if n == 0 {
		return nil
	}
	out := make([]game.Point, n)
	for i := 0; i < n; i++ {
		out[i] = game.Point{X: int(xs[i]), Y: int(ys[i])}
	}
	return out
}

func splitPoints(points []game.Point) (xs, ys []int32) {
	xs = make([]int32, len(points))
	ys = make([]int32, len(points))
	for i, p := range points {
		xs[i] = int32(p.X)
		ys[i] = int32(p.Y)
	}
	return xs, ys
}
