// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Etxarri/ShelterAI/internal/metrics"
	"github.com/Etxarri/ShelterAI/internal/models"
)

// healthPingTimeout bounds the dependency checks so probes stay fast.
const healthPingTimeout = 2 * time.Second

// Health handles GET /health with full dependency detail. The service
// runs degraded without the shelter store (cluster endpoints stay up),
// so a failed ping downgrades the status without failing the probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	status := models.HealthStatus{
		Status:    "ok",
		Version:   Version,
		Timestamp: time.Now().UTC(),
		UptimeS:   int64(time.Since(h.startTime).Seconds()),
		Model: models.ModelHealth{
			Loaded:   true,
			Version:  h.engine.ModelVersion(),
			Clusters: len(h.engine.Clusters()),
			Reloads:  h.engine.ReloadCount(),
		},
		Database: models.ComponentHealth{Status: "ok"},
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Database = models.ComponentHealth{
			Status: "unreachable",
			Error:  err.Error(),
		}
	}

	respondJSON(w, http.StatusOK, status, started)
}

// HealthLive handles GET /health/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady handles GET /health/ready: the model is loaded and the
// service can answer engine-backed requests.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ready",
		"model_version": h.engine.ModelVersion(),
	}, time.Now())
}

// ReloadModel handles POST /api/v1/model/reload. A failed reload keeps
// the previous model serving and reports the cause.
func (h *Handler) ReloadModel(w http.ResponseWriter, _ *http.Request) {
	started := time.Now()

	if err := h.engine.Reload(h.cfg.Model.Path); err != nil {
		h.logger.Error().Err(err).Str("path", h.cfg.Model.Path).Msg("model reload failed")
		metrics.ModelReloads.WithLabelValues("failure").Inc()
		respondError(w, http.StatusInternalServerError, "MODEL_RELOAD_FAILED",
			"model reload failed; previous model still serving",
			map[string]interface{}{"cause": err.Error()})
		return
	}

	metrics.ModelReloads.WithLabelValues("success").Inc()
	h.logger.Info().Str("model_version", h.engine.ModelVersion()).Msg("model reloaded")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":      true,
		"model_version": h.engine.ModelVersion(),
	}, started)
}
