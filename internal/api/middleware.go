// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Etxarri/ShelterAI/internal/metrics"
)

type ctxKey int

const requestIDKey ctxKey = iota

// requestID assigns a UUID to every request, honoring an inbound
// X-Request-ID from a trusted proxy.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id, or empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger emits one structured log line per request and records
// the HTTP metrics, labeled by route pattern rather than raw path to
// keep cardinality bounded.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(started)

			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			logger.Info().
				Str("request_id", RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("route", route).
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Int("bytes", ww.BytesWritten()).
				Str("remote", r.RemoteAddr).
				Msg("request")
		})
	}
}
