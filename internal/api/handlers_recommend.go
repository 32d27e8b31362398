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

	"github.com/Etxarri/ShelterAI/internal/metrics"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// RecommendRequest is the person payload for POST /api/v1/recommend.
type RecommendRequest struct {
	PersonID string `json:"person_id,omitempty" validate:"omitempty,max=128"`

	Age        int    `json:"age" validate:"min=0,max=120"`
	Gender     string `json:"gender" validate:"required,oneof=M F Other"`
	FamilySize int    `json:"family_size" validate:"omitempty,min=1,max=50"`

	HasChildren   bool `json:"has_children"`
	ChildrenCount int  `json:"children_count" validate:"omitempty,min=0,max=30"`

	MedicalConditions         string `json:"medical_conditions" validate:"omitempty,max=512"`
	HasDisability             bool   `json:"has_disability"`
	PsychologicalDistress     bool   `json:"psychological_distress"`
	RequiresMedicalFacilities bool   `json:"requires_medical_facilities"`

	LanguagesSpoken string `json:"languages_spoken" validate:"omitempty,max=256"`
	Status          string `json:"status" validate:"omitempty,oneof=refugee idp returnee"`

	VulnerabilityScore *float64 `json:"vulnerability_score" validate:"omitempty,gte=0,lte=10"`

	// TopK overrides the configured recommendation count.
	TopK int `json:"top_k" validate:"omitempty,min=1,max=20"`
}

func (req *RecommendRequest) person() *recommend.Person {
	return &recommend.Person{
		ID:                        req.PersonID,
		Age:                       req.Age,
		Gender:                    req.Gender,
		FamilySize:                req.FamilySize,
		HasChildren:               req.HasChildren,
		ChildrenCount:             req.ChildrenCount,
		MedicalConditions:         req.MedicalConditions,
		HasDisability:             req.HasDisability,
		PsychologicalDistress:     req.PsychologicalDistress,
		RequiresMedicalFacilities: req.RequiresMedicalFacilities,
		LanguagesSpoken:           req.LanguagesSpoken,
		Status:                    req.Status,
		VulnerabilityScore:        req.VulnerabilityScore,
	}
}

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.RequestTimeout)
	defer cancel()

	shelters, err := h.store.AvailableShelters(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("shelter query failed")
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"failed to fetch candidate shelters", nil)
		return
	}
	metrics.SheltersFetched.Observe(float64(len(shelters)))

	result, err := h.engine.Recommend(ctx, req.person(), shelters, req.TopK)
	if err != nil {
		h.respondRecommendError(w, err)
		return
	}

	metrics.RecommendationsTotal.WithLabelValues("ok").Inc()
	metrics.ClusterAssignments.WithLabelValues(strconv.Itoa(result.ClusterID)).Inc()
	if len(result.Recommendations) > 0 {
		metrics.CompatibilityScore.Observe(result.Recommendations[0].CompatibilityScore)
	}

	h.logger.Debug().
		Str("person_id", sanitizeLogValue(req.PersonID)).
		Int("cluster_id", result.ClusterID).
		Int("candidates", result.TotalSheltersAnalyzed).
		Int("returned", len(result.Recommendations)).
		Msg("recommendation served")

	respondJSON(w, http.StatusOK, result, started)
}

func (h *Handler) respondRecommendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNoCandidates):
		metrics.RecommendationsTotal.WithLabelValues("no_candidates").Inc()
		respondError(w, http.StatusNotFound, "NO_SHELTERS_AVAILABLE",
			"no shelters with available space", nil)
	case errors.Is(err, recommend.ErrNoCompatibleCandidates):
		metrics.RecommendationsTotal.WithLabelValues("no_compatible").Inc()
		respondError(w, http.StatusNotFound, "NO_COMPATIBLE_SHELTERS",
			"no compatible shelters found for this person", nil)
	case errors.Is(err, recommend.ErrModelIncomplete):
		metrics.RecommendationsTotal.WithLabelValues("model_incomplete").Inc()
		respondError(w, http.StatusServiceUnavailable, "MODEL_INCOMPLETE",
			"model artifact lacks training exemplars", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusGatewayTimeout, "REQUEST_TIMEOUT",
			"request cancelled or timed out", nil)
	default:
		h.logger.Error().Err(err).Msg("recommendation failed")
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"recommendation failed", nil)
	}
}
