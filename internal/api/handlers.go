// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Etxarri/ShelterAI/internal/config"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// Version is the service version reported by /health, set at build
// time via -ldflags.
var Version = "dev"

// ShelterStore is the candidate source consumed by the handlers. The
// Postgres store implements it; tests substitute a stub.
type ShelterStore interface {
	// AvailableShelters returns shelters with free space, ordered by id.
	AvailableShelters(ctx context.Context) ([]recommend.Shelter, error)
	// AllShelters returns every shelter regardless of occupancy.
	AllShelters(ctx context.Context) ([]recommend.Shelter, error)
	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}

// Handler bundles the dependencies shared by all endpoints.
type Handler struct {
	engine    *recommend.Engine
	store     ShelterStore
	cfg       *config.Config
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler builds the handler set.
func NewHandler(engine *recommend.Engine, store ShelterStore, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}
