// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import "fmt"

// Fill strategies for features absent from a raw feature map.
const (
	// FillZero substitutes 0 for missing features.
	FillZero = "zero"
	// FillMidpoint substitutes 0.5, the midpoint of normalized features.
	FillMidpoint = "midpoint"
)

// Config tunes the engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Neighbors is the KNN vote size k. Sensible range is 15-25.
	Neighbors int `json:"neighbors" koanf:"neighbors"`

	// FillStrategy selects the substitute value for missing features,
	// FillZero or FillMidpoint.
	FillStrategy string `json:"fill_strategy" koanf:"fill_strategy"`

	// TopK is the default number of recommendations returned.
	TopK int `json:"top_k" koanf:"top_k"`

	// TopSignals caps the person signals returned by cluster requests.
	TopSignals int `json:"top_signals" koanf:"top_signals"`

	// MinStd floors near-zero global stds when normalizing deltas.
	MinStd float64 `json:"min_std" koanf:"min_std"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Neighbors:    15,
		FillStrategy: FillZero,
		TopK:         3,
		TopSignals:   10,
		MinStd:       1e-9,
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be at least 1, got %d", c.Neighbors)
	}
	if c.FillStrategy != FillZero && c.FillStrategy != FillMidpoint {
		return fmt.Errorf("unknown fill strategy %q", c.FillStrategy)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.TopSignals < 0 {
		return fmt.Errorf("top_signals must not be negative, got %d", c.TopSignals)
	}
	return nil
}

// fillValue returns the substitute for a missing feature.
func (c *Config) fillValue() float64 {
	if c.FillStrategy == FillMidpoint {
		return 0.5
	}
	return 0
}
