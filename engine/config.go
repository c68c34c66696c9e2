package engine

import "flag"

// Config selects which of the heuristic behaviours are active. The zero value
// is a plain one-ply controller; DefaultConfig enables everything.
type Config struct {
	// UseDangerZones marks the cells a rival could move into next tick.
	UseDangerZones bool `json:"use_danger_zones"`
	// TreatTailAsPassable lets the search and evaluator step onto tails,
	// which vacate on the same tick the heads advance.
	TreatTailAsPassable bool `json:"treat_tail_as_passable"`
	// RiskWhenRoundsBelow accepts food in a danger zone once fewer rounds
	// than this remain. Zero disables the round-based risk tier.
	RiskWhenRoundsBelow int `json:"risk_when_rounds_below"`
	// BarrierBoardSize is the board size assumed by DecideBarriers, whose
	// flat contract carries no size.
	BarrierBoardSize int `json:"barrier_board_size"`
}

// DefaultConfig returns the configuration used by the server and arena.
func DefaultConfig() Config {
	return Config{
		UseDangerZones:      true,
		TreatTailAsPassable: true,
		RiskWhenRoundsBelow: 10,
		BarrierBoardSize:    8,
	}
}

// BindFlags registers the config fields on fs using the current values as
// defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.UseDangerZones, "danger-zones", c.UseDangerZones, "Avoid cells a rival head can reach next tick")
	fs.BoolVar(&c.TreatTailAsPassable, "tail-passable", c.TreatTailAsPassable, "Treat snake tails as vacating this tick")
	fs.IntVar(&c.RiskWhenRoundsBelow, "risk-rounds", c.RiskWhenRoundsBelow, "Take contested food when fewer rounds than this remain (0 disables)")
	fs.IntVar(&c.BarrierBoardSize, "barrier-board-size", c.BarrierBoardSize, "Board size for the obstacle-aware decision")
}
