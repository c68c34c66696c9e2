// Command snakearena plays engine-vs-engine games on the preset boards,
// optionally recording them to Parquet or showing them in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/snekstep/arena"
	"github.com/brensch/snekstep/arena/watch"
	"github.com/brensch/snekstep/engine"
	"github.com/brensch/snekstep/logging"
	"github.com/brensch/snekstep/store"
)

type options struct {
	mode      string
	games     int
	seed      int64
	outDir    string
	watch     bool
	delay     time.Duration
	replay    string
	summary   bool
	logFormat string
	logLevel  string
	cfg       engine.Config
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts options
	fs.StringVar(&opts.mode, "mode", getEnvOrDefault("ARENA_MODE", "4snakes"), "Game mode: "+strings.Join(arena.ModeNames(), ", "))
	fs.IntVar(&opts.games, "games", getEnvIntOrDefault("ARENA_GAMES", 1), "Number of games to play")
	fs.Int64Var(&opts.seed, "seed", 0, "Food seed for the first game (0 = time based); later games add their index")
	fs.StringVar(&opts.outDir, "out-dir", getEnvOrDefault("OUT_DIR", ""), "Directory to write one .parquet file per game (empty disables)")
	fs.BoolVar(&opts.watch, "watch", getEnvBoolOrDefault("ARENA_WATCH", false), "Show games in a terminal UI")
	fs.DurationVar(&opts.delay, "delay", getEnvDurationOrDefault("ARENA_DELAY", 150*time.Millisecond), "Pause between rounds while watching")
	fs.StringVar(&opts.replay, "replay", "", "Replay a recorded .parquet game instead of playing")
	fs.BoolVar(&opts.summary, "summary", false, "Summarise the games recorded in -out-dir and exit")
	fs.StringVar(&opts.logFormat, "log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "Log format: text, json or pretty")
	fs.StringVar(&opts.logLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	opts.cfg = engine.DefaultConfig()
	opts.cfg.BindFlags(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logOut := io.Writer(os.Stderr)
	if opts.watch {
		// The TUI owns the terminal.
		logOut = io.Discard
	}
	log, err := logging.New(logOut, opts.logFormat, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakearena: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.summary:
		err = runSummary(ctx, opts)
	case opts.replay != "":
		err = runReplay(ctx, opts)
	default:
		err = runGames(ctx, opts, log)
	}
	if err != nil && !arena.IsCancelled(err) {
		log.Error("snakearena failed", slog.Any("err", err))
		fmt.Fprintf(os.Stderr, "snakearena: %v\n", err)
		os.Exit(1)
	}
}

func runGames(ctx context.Context, opts options, log *slog.Logger) error {
	mode, err := arena.Lookup(opts.mode)
	if err != nil {
		return err
	}
	eng := engine.New(opts.cfg, engine.WithLogger(log.With(slog.String("component", "engine"))))
	players := []arena.Player{eng}

	if !opts.watch {
		return playAll(ctx, opts, mode, players, log, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	frames := make(chan arena.Frame, 16)
	observer := func(f arena.Frame) {
		select {
		case frames <- f:
		case <-ctx.Done():
			return
		}
		if opts.delay > 0 {
			select {
			case <-time.After(opts.delay):
			case <-ctx.Done():
			}
		}
	}

	playErr := make(chan error, 1)
	go func() {
		defer close(frames)
		playErr <- playAll(ctx, opts, mode, players, log, observer)
	}()

	uiErr := watch.Run(ctx, frames)
	cancel()
	if err := <-playErr; err != nil && !arena.IsCancelled(err) {
		return err
	}
	if uiErr != nil && ctx.Err() == nil {
		return fmt.Errorf("watch: %w", uiErr)
	}
	return nil
}

func playAll(ctx context.Context, opts options, mode arena.Mode, players []arena.Player, log *slog.Logger, observer func(arena.Frame)) error {
	wins := make(map[int]int)
	for i := 0; i < opts.games; i++ {
		seed := opts.seed
		if seed != 0 {
			seed += int64(i)
		}
		res, err := arena.Play(ctx, mode, players, arena.Options{Seed: seed, Observer: observer, Logger: log})
		if err != nil {
			return err
		}
		wins[res.Winner]++

		if !opts.watch {
			fmt.Printf("game %s: mode=%s rounds=%d winner=%s scores=%s\n",
				res.GameID, res.Mode, res.Rounds, winnerLabel(res.Winner), arena.Scoreline(res.Frames[len(res.Frames)-1].State))
		}

		if opts.outDir != "" {
			path, err := store.WriteGameParquet(opts.outDir, store.RowsFromFrames(res.Frames, res.Winner))
			if err != nil {
				return fmt.Errorf("record game %s: %w", res.GameID, err)
			}
			log.Info("game recorded", slog.String("game_id", res.GameID), slog.String("path", path))
		}
	}
	if opts.games > 1 {
		log.Info("session complete", slog.Int("games", opts.games), slog.Any("wins", wins))
	}
	return nil
}

func runReplay(ctx context.Context, opts options) error {
	rows, err := store.ReadGameParquet(opts.replay)
	if err != nil {
		return err
	}
	recorded := store.FramesFromRows(rows)
	if !opts.watch {
		for _, f := range recorded {
			fmt.Print(arena.Render(f.State))
			fmt.Println()
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	frames := make(chan arena.Frame)
	go func() {
		defer close(frames)
		for _, f := range recorded {
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
			select {
			case <-time.After(opts.delay):
			case <-ctx.Done():
				return
			}
		}
	}()
	return watch.Run(ctx, frames)
}

func runSummary(ctx context.Context, opts options) error {
	if opts.outDir == "" {
		return fmt.Errorf("-summary needs -out-dir")
	}
	games, err := store.Summaries(ctx, opts.outDir)
	if err != nil {
		return err
	}
	fmt.Printf("%-36s  %-10s  %6s  %4s  %6s  %s\n", "GAME", "MODE", "ROUNDS", "SIZE", "SNAKES", "WINNER")
	for _, g := range games {
		fmt.Printf("%-36s  %-10s  %6d  %4d  %6d  %s\n", g.GameID, g.Mode, g.Rounds, g.Size, g.Snakes, winnerLabel(g.Winner))
	}
	return nil
}

func winnerLabel(id int) string {
	if id == 0 {
		return "none"
	}
	return arena.HeadGlyph(id)
}

// Environment variable helpers

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
