package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// GameSummary is one recorded game as seen from its rows.
type GameSummary struct {
	GameID string
	Mode   string
	Rounds int
	Size   int
	Snakes int
	Winner int
	File   string
}

// FindParquetFiles lists the .parquet files under root, skipping the tmp
// directory used for in-flight writes. A missing root yields no files.
func FindParquetFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "tmp" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".parquet") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return files, nil
}

// Summaries aggregates every game recorded under dir with DuckDB, ordered by
// game ID.
func Summaries(ctx context.Context, dir string) ([]GameSummary, error) {
	files, err := FindParquetFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("find parquet files: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	quoted := make([]string, 0, len(files))
	for _, f := range files {
		quoted = append(quoted, "'"+strings.ReplaceAll(f, "'", "''")+"'")
	}
	query := `SELECT
			game_id,
			MIN(mode)::VARCHAR,
			MAX(round)::INTEGER,
			MIN(size)::INTEGER,
			MAX(len(snakes))::INTEGER,
			MAX(winner)::INTEGER,
			MIN(filename)::VARCHAR
		FROM read_parquet([` + strings.Join(quoted, ",") + `], filename=true)
		GROUP BY game_id
		ORDER BY game_id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.GameID, &g.Mode, &g.Rounds, &g.Size, &g.Snakes, &g.Winner, &g.File); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	return out, nil
}
