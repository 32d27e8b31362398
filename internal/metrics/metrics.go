// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Package metrics defines the Prometheus collectors for the service.
// Collectors are registered with the default registry via promauto and
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelterai",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed, by route and status code.",
	}, []string{"route", "status"})

	// RequestDuration observes HTTP handler latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shelterai",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// RecommendationsTotal counts recommendation requests by outcome
	// (ok, no_candidates, no_compatible, model_incomplete, error).
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelterai",
		Subsystem: "engine",
		Name:      "recommendations_total",
		Help:      "Recommendation requests by outcome.",
	}, []string{"outcome"})

	// ClusterAssignments counts cluster votes by winning cluster id.
	ClusterAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelterai",
		Subsystem: "engine",
		Name:      "cluster_assignments_total",
		Help:      "Cluster assignments by winning cluster.",
	}, []string{"cluster"})

	// CompatibilityScore observes the top recommendation's score.
	CompatibilityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shelterai",
		Subsystem: "engine",
		Name:      "top_compatibility_score",
		Help:      "Compatibility score of the best-ranked shelter.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	// ModelReloads counts model artifact reloads by result.
	ModelReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelterai",
		Subsystem: "engine",
		Name:      "model_reloads_total",
		Help:      "Model artifact reload attempts by result.",
	}, []string{"result"})

	// SheltersFetched observes candidate set sizes from the store.
	SheltersFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shelterai",
		Subsystem: "store",
		Name:      "shelters_fetched",
		Help:      "Number of candidate shelters fetched per request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
)
