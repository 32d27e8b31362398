// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Etxarri/ShelterAI/internal/logging"
	"github.com/Etxarri/ShelterAI/internal/models"
	"github.com/Etxarri/ShelterAI/internal/validation"
)

// maxRequestBody caps request payload size at 1 MiB; the largest
// legitimate payload is a raw feature map with a few hundred entries.
const maxRequestBody = 1 << 20

// respondJSON writes a success envelope with the handler's elapsed time.
func respondJSON(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	}
	writeJSON(w, status, resp)
}

// respondError writes an error envelope with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// decodeJSON decodes a bounded request body into dst, rejecting
// unknown-type payloads with a VALIDATION_ERROR.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR",
			"request body too large", nil)
		return false
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"request body is empty", nil)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("invalid JSON payload: %s", sanitizeLogValue(err.Error())), nil)
		return false
	}
	return true
}

// validateRequest runs struct validation and writes the error response
// on failure. Returns true when the request is valid.
func validateRequest(w http.ResponseWriter, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}

	apiErr := verr.ToAPIError()
	respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// sanitizeLogValue strips control characters from user-supplied text
// before it reaches logs or responses.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
