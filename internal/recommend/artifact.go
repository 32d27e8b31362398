// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// NoiseLabel is the cluster label DBSCAN-style trainers assign to
// exemplars that belong to no cluster.
const NoiseLabel = -1

// Scaler holds per-feature standardization parameters exported from the
// training pipeline (feature-wise mean and variance).
type Scaler struct {
	Mean []float64 `json:"mean"`
	Var  []float64 `json:"var"`
}

// Transform standardizes an aligned vector in place order: (x-mean)/std.
// Features with zero variance pass through unscaled, matching the
// training scaler's behavior.
func (s *Scaler) Transform(vec []float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		std := math.Sqrt(s.Var[i])
		if std == 0 {
			std = 1
		}
		out[i] = (v - s.Mean[i]) / std
	}
	return out
}

// FeatureDelta describes how one feature separates a cluster from the
// global population, precomputed at training time.
type FeatureDelta struct {
	Feature         string  `json:"feature"`
	ClusterMean     float64 `json:"cluster_mean"`
	GlobalMean      float64 `json:"global_mean"`
	Delta           float64 `json:"delta"`
	NormalizedDelta float64 `json:"normalized_delta"`
}

// ClusterProfile is the precomputed description of one cluster.
type ClusterProfile struct {
	Label           string  `json:"label"`
	Size            int     `json:"size"`
	PopulationShare float64 `json:"population_share"`

	// FeatureMeans holds the per-feature cluster mean, aligned with the
	// artifact's feature order.
	FeatureMeans []float64 `json:"feature_means"`

	TopFeaturesHigher []FeatureDelta `json:"top_features_higher"`
	TopFeaturesLower  []FeatureDelta `json:"top_features_lower"`
}

// Artifact is the immutable trained-model snapshot exported by the
// training pipeline as a single JSON document. Once loaded and
// validated it is never mutated; hot reload swaps whole artifacts.
type Artifact struct {
	ModelVersion string   `json:"model_version"`
	FeatureNames []string `json:"feature_names"`
	Scaler       Scaler   `json:"scaler"`

	// TrainingVectors are exemplars in scaled space, one row per
	// exemplar. May be empty for profile-only exports; cluster
	// assignment then fails with ErrModelIncomplete.
	TrainingVectors       [][]float64 `json:"training_vectors"`
	TrainingClusterLabels []int       `json:"training_cluster_labels"`

	GlobalFeatureMean []float64 `json:"global_feature_mean"`
	GlobalFeatureStd  []float64 `json:"global_feature_std"`

	ClusterProfiles map[int]*ClusterProfile `json:"cluster_profiles"`

	// featureIndex maps feature name to vector position, built once
	// after decode.
	featureIndex map[string]int

	// flat is the training matrix in row-major order, built once after
	// decode so the KNN distance loop scans contiguous memory.
	flat []float64
}

// LoadArtifact reads, decodes and validates a model artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("validate model artifact: %w", err)
	}

	art.prepare()

	return &art, nil
}

func (a *Artifact) prepare() {
	a.buildIndex()

	n := len(a.FeatureNames)
	a.flat = make([]float64, 0, len(a.TrainingVectors)*n)
	for _, vec := range a.TrainingVectors {
		a.flat = append(a.flat, vec...)
	}
}

func (a *Artifact) buildIndex() {
	a.featureIndex = make(map[string]int, len(a.FeatureNames))
	for i, name := range a.FeatureNames {
		a.featureIndex[name] = i
	}
}

// FeatureIndex returns the vector position of a feature name.
func (a *Artifact) FeatureIndex(name string) (int, bool) {
	if a.featureIndex == nil {
		a.buildIndex()
	}
	i, ok := a.featureIndex[name]
	return i, ok
}

// Validate checks the structural invariants the engine relies on.
// Violations are startup-fatal; a served artifact is always consistent.
func (a *Artifact) Validate() error {
	n := len(a.FeatureNames)
	if n == 0 {
		return fmt.Errorf("artifact has no feature names")
	}

	seen := make(map[string]struct{}, n)
	for _, name := range a.FeatureNames {
		if name == "" {
			return fmt.Errorf("artifact has an empty feature name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate feature name %q", name)
		}
		seen[name] = struct{}{}
	}

	if len(a.Scaler.Mean) != n || len(a.Scaler.Var) != n {
		return fmt.Errorf("scaler length mismatch: mean=%d var=%d features=%d",
			len(a.Scaler.Mean), len(a.Scaler.Var), n)
	}

	if len(a.GlobalFeatureMean) != n || len(a.GlobalFeatureStd) != n {
		return fmt.Errorf("global stats length mismatch: mean=%d std=%d features=%d",
			len(a.GlobalFeatureMean), len(a.GlobalFeatureStd), n)
	}

	if len(a.TrainingVectors) != len(a.TrainingClusterLabels) {
		return fmt.Errorf("training set mismatch: %d vectors, %d labels",
			len(a.TrainingVectors), len(a.TrainingClusterLabels))
	}

	for i, vec := range a.TrainingVectors {
		if len(vec) != n {
			return fmt.Errorf("training vector %d has %d features, want %d", i, len(vec), n)
		}
	}

	for i, label := range a.TrainingClusterLabels {
		if label == NoiseLabel {
			continue
		}
		if _, ok := a.ClusterProfiles[label]; !ok {
			return fmt.Errorf("training label %d (exemplar %d) has no cluster profile", label, i)
		}
	}

	for id, profile := range a.ClusterProfiles {
		if profile == nil {
			return fmt.Errorf("cluster %d has a null profile", id)
		}
		if len(profile.FeatureMeans) != 0 && len(profile.FeatureMeans) != n {
			return fmt.Errorf("cluster %d feature means length %d, want %d",
				id, len(profile.FeatureMeans), n)
		}
	}

	return nil
}

// Profile returns the precomputed profile for a cluster. Absence is a
// normal condition (noise assignments, pruned clusters), not an error.
func (a *Artifact) Profile(clusterID int) (*ClusterProfile, bool) {
	p, ok := a.ClusterProfiles[clusterID]
	return p, ok
}

// Summaries returns catalog entries for all profiles, ordered by
// cluster id for stable output.
func (a *Artifact) Summaries() []ClusterSummary {
	out := make([]ClusterSummary, 0, len(a.ClusterProfiles))
	for id, p := range a.ClusterProfiles {
		out = append(out, ClusterSummary{
			ClusterID:       id,
			Label:           p.Label,
			Size:            p.Size,
			PopulationShare: p.PopulationShare,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out
}
