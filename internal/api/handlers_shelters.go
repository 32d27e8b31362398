// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// shelterView is the ops-facing shelter entry with occupancy stats.
type shelterView struct {
	recommend.Shelter
	AvailableSpace int     `json:"available_space"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

// sheltersResponse is the body for GET /api/v1/shelters.
type sheltersResponse struct {
	Shelters []shelterView `json:"shelters"`
	Total    int           `json:"total"`
}

// Shelters handles GET /api/v1/shelters. With ?available=true only
// shelters with free space are returned.
func (h *Handler) Shelters(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.RequestTimeout)
	defer cancel()

	var (
		shelters []recommend.Shelter
		err      error
	)
	if r.URL.Query().Get("available") == "true" {
		shelters, err = h.store.AvailableShelters(ctx)
	} else {
		shelters, err = h.store.AllShelters(ctx)
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("shelter query failed")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"failed to fetch shelters", nil)
		return
	}

	views := make([]shelterView, len(shelters))
	for i := range shelters {
		views[i] = shelterView{
			Shelter:        shelters[i],
			AvailableSpace: shelters[i].AvailableSpace(),
			OccupancyRate:  shelters[i].OccupancyRate(),
		}
	}

	respondJSON(w, http.StatusOK, sheltersResponse{
		Shelters: views,
		Total:    len(views),
	}, started)
}
