// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"math"
	"net/http"
	"time"
)

// shelterStats aggregates shelter counts by availability.
type shelterStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Full      int `json:"full"`
}

// capacityStats aggregates bed capacity across all shelters.
type capacityStats struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`

	// OccupancyRate is occupied capacity as a percentage, one decimal.
	OccupancyRate float64 `json:"occupancy_rate"`
}

// modelStats describes the serving model snapshot.
type modelStats struct {
	Version  string `json:"version"`
	Clusters int    `json:"clusters"`
	Features int    `json:"features"`
}

// statsResponse is the body for GET /api/v1/stats.
type statsResponse struct {
	Shelters shelterStats  `json:"shelters"`
	Capacity capacityStats `json:"capacity"`
	Model    modelStats    `json:"model"`
}

// Stats handles GET /api/v1/stats: system-wide occupancy aggregates for
// operations dashboards, computed from a single shelter snapshot so the
// counts are mutually consistent.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.RequestTimeout)
	defer cancel()

	shelters, err := h.store.AllShelters(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("shelter query failed")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"failed to fetch shelters", nil)
		return
	}

	stats := statsResponse{
		Model: modelStats{
			Version:  h.engine.ModelVersion(),
			Clusters: len(h.engine.Clusters()),
			Features: h.engine.FeatureCount(),
		},
	}

	for i := range shelters {
		s := &shelters[i]
		stats.Shelters.Total++
		if s.CurrentOccupancy < s.MaxCapacity {
			stats.Shelters.Available++
		} else {
			stats.Shelters.Full++
		}
		stats.Capacity.Total += s.MaxCapacity
		stats.Capacity.Occupied += s.CurrentOccupancy
	}
	stats.Capacity.Available = stats.Capacity.Total - stats.Capacity.Occupied
	if stats.Capacity.Total > 0 {
		rate := float64(stats.Capacity.Occupied) / float64(stats.Capacity.Total) * 100
		stats.Capacity.OccupancyRate = math.Round(rate*10) / 10
	}

	respondJSON(w, http.StatusOK, stats, started)
}
