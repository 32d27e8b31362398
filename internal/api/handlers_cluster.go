// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Etxarri/ShelterAI/internal/metrics"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// ClusterRequest is the payload for POST /api/v1/cluster: a raw
// feature map keyed by model feature names. Unknown keys are ignored;
// missing features are filled and reported in the coverage block.
type ClusterRequest struct {
	PersonID string             `json:"person_id,omitempty" validate:"omitempty,max=128"`
	Features map[string]float64 `json:"features" validate:"required,min=1"`
}

// Cluster handles POST /api/v1/cluster.
func (h *Handler) Cluster(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req ClusterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.RequestTimeout)
	defer cancel()

	result, err := h.engine.Cluster(ctx, req.PersonID, req.Features)
	if err != nil {
		if errors.Is(err, recommend.ErrModelIncomplete) {
			respondError(w, http.StatusServiceUnavailable, "MODEL_INCOMPLETE",
				"model artifact lacks training exemplars", nil)
			return
		}
		h.logger.Error().Err(err).Msg("cluster assignment failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"cluster assignment failed", nil)
		return
	}

	metrics.ClusterAssignments.WithLabelValues(strconv.Itoa(result.ClusterID)).Inc()

	respondJSON(w, http.StatusOK, result, started)
}

// clustersResponse is the catalog body for GET /api/v1/clusters.
type clustersResponse struct {
	Clusters     []recommend.ClusterSummary `json:"clusters"`
	ModelVersion string                     `json:"model_version"`
}

// Clusters handles GET /api/v1/clusters.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	respondJSON(w, http.StatusOK, clustersResponse{
		Clusters:     h.engine.Clusters(),
		ModelVersion: h.engine.ModelVersion(),
	}, started)
}

// clusterProfileResponse is the body for GET /api/v1/clusters/{id}.
type clusterProfileResponse struct {
	ClusterID    int                       `json:"cluster_id"`
	Profile      *recommend.ClusterProfile `json:"profile"`
	ModelVersion string                    `json:"model_version"`
}

// ClusterByID handles GET /api/v1/clusters/{id}.
func (h *Handler) ClusterByID(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"cluster id must be an integer", nil)
		return
	}

	profile, ok := h.engine.ClusterProfileByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "CLUSTER_NOT_FOUND",
			"no profile stored for cluster "+strconv.Itoa(id), nil)
		return
	}

	respondJSON(w, http.StatusOK, clusterProfileResponse{
		ClusterID:    id,
		Profile:      profile,
		ModelVersion: h.engine.ModelVersion(),
	}, started)
}
