// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints, for both successful and error responses.
//
// Status is "success" (payload in Data) or "error" (details in Error).
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"cluster_id": 2, "recommendations": [...]},
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z", "query_time_ms": 4}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "age must be at most 120",
//	    "details": {"field": "age"}
//	  },
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	// Timestamp is the server time the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the handler's processing time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// ModelVersion identifies the model snapshot that served the
	// request, for endpoints backed by the engine.
	ModelVersion string `json:"model_version,omitempty"`
}

// APIError is the structured error body shared by every endpoint.
//
// Error codes used by the service:
//   - VALIDATION_ERROR: invalid request payload or parameters
//   - NO_SHELTERS_AVAILABLE: no shelters with free space exist
//   - NO_COMPATIBLE_SHELTERS: every candidate was vetoed
//   - CLUSTER_NOT_FOUND: unknown cluster id
//   - MODEL_INCOMPLETE: model lacks training exemplars
//   - MODEL_RELOAD_FAILED: reload rejected, previous model kept
//   - DATABASE_ERROR: shelter store query failure
//   - REQUEST_TIMEOUT: request cancelled or deadline exceeded
//   - NOT_FOUND: unknown route or resource
//   - METHOD_NOT_ALLOWED: wrong HTTP method for the route
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of the /health endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	UptimeS   int64     `json:"uptime_seconds"`

	// Model reports the serving model snapshot.
	Model ModelHealth `json:"model"`

	// Database reports shelter-store connectivity; the service can run
	// degraded without it (cluster endpoints stay up).
	Database ComponentHealth `json:"database"`
}

// ModelHealth describes the loaded model artifact.
type ModelHealth struct {
	Loaded   bool   `json:"loaded"`
	Version  string `json:"version,omitempty"`
	Clusters int    `json:"clusters,omitempty"`
	Reloads  uint64 `json:"reloads"`
}

// ComponentHealth is a generic dependency health entry.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
