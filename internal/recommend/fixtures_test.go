// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"testing"

	"github.com/rs/zerolog"
)

// testFeatureNames covers every rule in DefaultAttributeMapping so the
// mapping compiles against test artifacts.
var testFeatureNames = []string{
	"head_age_group",
	"what_is_sizeyour_famil",
	"head_gender_female",
	"head_gender_male",
	"do_you_have_children",
	"hh_info_medical_needs",
	"person_health_condition",
	"disability_any",
	"difficulty_walking",
	"psychological_distress_flag",
	"status_refugee",
	"status_idp",
}

// vec builds a full-width feature vector with the leading values set
// and the rest zero.
func vec(values ...float64) []float64 {
	v := make([]float64, len(testFeatureNames))
	copy(v, values)
	return v
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// testArtifact returns a small artifact with two well-separated
// clusters (0 around age 25 / family 1, 1 around age 40 / family 8)
// and two noise exemplars between them. The scaler is the identity so
// raw and scaled space coincide.
func testArtifact() *Artifact {
	n := len(testFeatureNames)

	art := &Artifact{
		ModelVersion: "test-1.0",
		FeatureNames: testFeatureNames,
		Scaler: Scaler{
			Mean: make([]float64, n),
			Var:  ones(n),
		},
		TrainingVectors: [][]float64{
			vec(24, 1), vec(25, 1), vec(26, 1), vec(25, 2), vec(24.5, 1),
			vec(40, 8), vec(41, 8), vec(39, 7), vec(40, 9), vec(42, 8),
			vec(33, 4), vec(32, 5),
		},
		TrainingClusterLabels: []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, NoiseLabel, NoiseLabel},
		GlobalFeatureMean:     vec(32, 4, 0.5, 0.5, 0.4),
		GlobalFeatureStd:      ones(n),
		ClusterProfiles: map[int]*ClusterProfile{
			0: {
				Label:           "Young individuals without family",
				Size:            5,
				PopulationShare: 5.0 / 12.0,
				FeatureMeans:    vec(24.9, 1.2),
				TopFeaturesHigher: []FeatureDelta{
					{Feature: "status_refugee", ClusterMean: 0.9, GlobalMean: 0.6, Delta: 0.3, NormalizedDelta: 0.65},
				},
				TopFeaturesLower: []FeatureDelta{
					{Feature: "what_is_sizeyour_famil", ClusterMean: 1.2, GlobalMean: 4, Delta: -2.8, NormalizedDelta: -1.1},
				},
			},
			1: {
				Label:           "Large families with children",
				Size:            5,
				PopulationShare: 5.0 / 12.0,
				FeatureMeans:    vec(40.4, 8),
			},
		},
	}

	return art
}

func testEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Neighbors = 5

	e, err := NewEngineWithArtifact(testArtifact(), cfg, DefaultAttributeMapping(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngineWithArtifact: %v", err)
	}
	return e
}

// openShelter is a permissive candidate that passes every gate.
func openShelter(id int64, name string) Shelter {
	return Shelter{
		ID:               id,
		Name:             name,
		MaxCapacity:      100,
		CurrentOccupancy: 10,
		ShelterType:      "long-term",
	}
}

func floatPtr(v float64) *float64 { return &v }
