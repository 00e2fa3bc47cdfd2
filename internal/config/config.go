// Package config defines optimizer configuration and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"fmt"

	"github.com/okian/nonary/internal/domain/layout"
)

// Config contains process configuration for an optimization run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Alphabet is the active character set to place on the grid.
	Alphabet string `koanf:"alphabet"`

	// AllowCenterSwipes permits swipe characters on the center key.
	AllowCenterSwipes bool `koanf:"allow_center_swipes"`

	// KeyPitch and KeyWidth describe the physical grid, in arbitrary
	// consistent units.
	KeyPitch float64 `koanf:"key_pitch"`
	KeyWidth float64 `koanf:"key_width"`

	// FittsA and FittsB are the movement-time constants.
	FittsA float64 `koanf:"fitts_a"`
	FittsB float64 `koanf:"fitts_b"`

	// SwipeDistance is how far a swipe travels past the key center.
	SwipeDistance float64 `koanf:"swipe_distance"`

	// SwipePenalty is the fixed extra cost of a swipe versus a tap.
	SwipePenalty float64 `koanf:"swipe_penalty"`

	// AdjacencyWeight and AdjacencyFactor tune the swipe-adjacency
	// penalty: weight scales each crowded pair's frequency product,
	// factor discounts neighboring-key pairs versus same-key pairs.
	AdjacencyWeight float64 `koanf:"adjacency_weight"`
	AdjacencyFactor float64 `koanf:"adjacency_factor"`

	// Annealing schedule.
	InitialTemp  float64 `koanf:"initial_temp"`
	CoolingRate  float64 `koanf:"cooling_rate"`
	StepsPerTemp int     `koanf:"steps_per_temp"`
	MinTemp      float64 `koanf:"min_temp"`
	Iterations   int     `koanf:"iterations"`
	SwapsPerMove int     `koanf:"swaps_per_move"`

	// Chains is the number of parallel annealing chains.
	Chains int `koanf:"chains"`

	// Seed selects the random stream; zero means the fixed default.
	Seed int64 `koanf:"seed"`

	// StartLayout selects the starting point: "reference", "random",
	// or an encoded layout string.
	StartLayout string `koanf:"start_layout"`

	// HistoryPath enables run-history persistence when non-empty.
	HistoryPath string `koanf:"history_path"`

	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Alphabet:          layout.DefaultAlphabet,
		AllowCenterSwipes: true,
		KeyPitch:          1.0,
		KeyWidth:          0.9,
		FittsA:            0.05,
		FittsB:            0.12,
		SwipeDistance:     0.4,
		SwipePenalty:      0.10,
		AdjacencyWeight:   0.25,
		AdjacencyFactor:   0.5,
		InitialTemp:       0.05,
		CoolingRate:       0.95,
		StepsPerTemp:      100,
		MinTemp:           1e-4,
		Iterations:        100_000,
		SwapsPerMove:      1,
		Chains:            4,
		Seed:              0,
		StartLayout:       "reference",
	}
}

// Validate checks that the configuration can produce a runnable search.
// Violations fail here, before any annealing iteration executes.
func (c *Config) Validate() error {
	if c.Alphabet == "" {
		return fmt.Errorf("%w: empty alphabet", ErrInvalidConfig)
	}
	seen := make(map[rune]bool)
	for _, r := range c.Alphabet {
		if seen[r] {
			return fmt.Errorf("%w: duplicate alphabet character %q", ErrInvalidConfig, r)
		}
		seen[r] = true
	}
	if n, slots := len([]rune(c.Alphabet)), layout.Capacity(c.AllowCenterSwipes); n > slots {
		return fmt.Errorf("%w: alphabet has %d characters but the grid holds %d", ErrInvalidConfig, n, slots)
	}
	if c.KeyPitch <= 0 || c.KeyWidth <= 0 || c.SwipeDistance <= 0 {
		return fmt.Errorf("%w: geometry parameters must be positive", ErrInvalidConfig)
	}
	if c.FittsA < 0 || c.FittsB <= 0 {
		return fmt.Errorf("%w: fitts_a must be non-negative and fitts_b positive", ErrInvalidConfig)
	}
	if c.SwipePenalty < 0 || c.AdjacencyWeight < 0 || c.AdjacencyFactor < 0 {
		return fmt.Errorf("%w: penalty weights must be non-negative", ErrInvalidConfig)
	}
	if c.InitialTemp <= 0 || c.MinTemp <= 0 || c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return fmt.Errorf("%w: schedule requires initial_temp > 0, min_temp > 0, cooling_rate in (0,1)", ErrInvalidConfig)
	}
	if c.Iterations <= 0 || c.StepsPerTemp <= 0 || c.SwapsPerMove <= 0 || c.Chains <= 0 {
		return fmt.Errorf("%w: iteration counts must be positive", ErrInvalidConfig)
	}
	return nil
}
