// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// model ties an artifact to the attribute mapping compiled against it.
// Both are immutable; Reload swaps whole models.
type model struct {
	artifact *Artifact
	mapping  *CompiledMapping
}

// Engine orchestrates cluster assignment and shelter scoring over a
// hot-swappable model snapshot. All methods are safe for concurrent
// use; a request observes exactly one model for its whole lifetime.
type Engine struct {
	cfg     Config
	mapping AttributeMapping
	logger  zerolog.Logger

	current atomic.Pointer[model]

	recommendCount atomic.Uint64
	reloadCount    atomic.Uint64
}

// NewEngine loads the artifact at path and builds a ready engine.
// Artifact or mapping problems fail here, before the service accepts
// traffic.
func NewEngine(path string, cfg Config, mapping AttributeMapping, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		mapping: mapping,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}

	if err := e.load(path); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithArtifact builds an engine around an in-memory artifact.
func NewEngineWithArtifact(art *Artifact, cfg Config, mapping AttributeMapping, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("validate model artifact: %w", err)
	}
	art.prepare()

	compiled, err := mapping.Compile(art)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		mapping: mapping,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
	e.current.Store(&model{artifact: art, mapping: compiled})
	return e, nil
}

func (e *Engine) load(path string) error {
	art, err := LoadArtifact(path)
	if err != nil {
		return err
	}

	compiled, err := e.mapping.Compile(art)
	if err != nil {
		return err
	}

	e.current.Store(&model{artifact: art, mapping: compiled})

	e.logger.Info().
		Str("model_version", art.ModelVersion).
		Int("features", len(art.FeatureNames)).
		Int("exemplars", len(art.TrainingVectors)).
		Int("clusters", len(art.ClusterProfiles)).
		Msg("model artifact loaded")

	return nil
}

// Reload loads a fresh artifact from path and swaps it in atomically.
// On failure the current model keeps serving; in-flight requests are
// never affected either way.
func (e *Engine) Reload(path string) error {
	if err := e.load(path); err != nil {
		return fmt.Errorf("reload model: %w", err)
	}
	e.reloadCount.Add(1)
	return nil
}

// ModelVersion returns the version string of the serving model.
func (e *Engine) ModelVersion() string {
	return e.current.Load().artifact.ModelVersion
}

// FeatureCount returns the width of the serving model's feature vector.
func (e *Engine) FeatureCount() int {
	return len(e.current.Load().artifact.FeatureNames)
}

// ReloadCount returns how many successful reloads have occurred.
func (e *Engine) ReloadCount() uint64 {
	return e.reloadCount.Load()
}

// Recommend assigns the person a cluster, scores every candidate
// shelter and returns the topK ranked recommendations. topK <= 0 falls
// back to the configured default.
func (e *Engine) Recommend(ctx context.Context, p *Person, shelters []Shelter, topK int) (*RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(shelters) == 0 {
		return nil, ErrNoCandidates
	}
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	m := e.current.Load()
	art := m.artifact

	aligned, _ := m.mapping.Project(p, len(art.FeatureNames), e.cfg.fillValue())
	scaled := art.Scaler.Transform(aligned)

	assignment, err := AssignCluster(art, scaled, e.cfg.Neighbors)
	if err != nil {
		return nil, err
	}

	vulnScore, vulnLevel := DeriveVulnerability(p)

	var recs []Recommendation
	for i := range shelters {
		shelter := &shelters[i]
		score, reasons := ScoreShelter(p, shelter, vulnLevel)
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			ShelterID:            shelter.ID,
			ShelterName:          shelter.Name,
			Address:              shelter.Address,
			CompatibilityScore:   round2(score),
			PriorityScore:        vulnScore,
			MaxCapacity:          shelter.MaxCapacity,
			CurrentOccupancy:     shelter.CurrentOccupancy,
			AvailableSpace:       shelter.AvailableSpace(),
			OccupancyRate:        round1(shelter.OccupancyRate() * 100),
			HasMedicalFacilities: shelter.HasMedicalFacilities,
			HasChildcare:         shelter.HasChildcare,
			HasDisabilityAccess:  shelter.HasDisabilityAccess,
			LanguagesSpoken:      shelter.LanguagesSpoken,
			ShelterType:          shelter.ShelterType,
			ServicesOffered:      shelter.ServicesOffered,
			Explanation:          buildExplanation(p, shelter, score),
			MatchingReasons:      reasons,
		})
	}

	if len(recs) == 0 {
		return nil, ErrNoCompatibleCandidates
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CompatibilityScore != recs[j].CompatibilityScore {
			return recs[i].CompatibilityScore > recs[j].CompatibilityScore
		}
		return recs[i].ShelterID < recs[j].ShelterID
	})
	if topK < len(recs) {
		recs = recs[:topK]
	}

	e.recommendCount.Add(1)

	var label string
	if profile, ok := art.Profile(assignment.ClusterID); ok {
		label = profile.Label
	}

	return &RecommendationResult{
		PersonID:              p.ID,
		ClusterID:             assignment.ClusterID,
		ClusterLabel:          label,
		VulnerabilityScore:    vulnScore,
		VulnerabilityLevel:    vulnLevel,
		Recommendations:       recs,
		TotalSheltersAnalyzed: len(shelters),
		ModelVersion:          art.ModelVersion,
		Timestamp:             time.Now().UTC(),
	}, nil
}

// Cluster aligns a raw feature map and reports the vote outcome with
// decision-support context. A winning cluster without a profile is a
// normal response with a null profile, not an error.
func (e *Engine) Cluster(ctx context.Context, personID string, raw map[string]float64) (*ClusterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := e.current.Load()
	art := m.artifact

	aligned, coverage := AlignFeatures(raw, art.FeatureNames, e.cfg.fillValue())
	scaled := art.Scaler.Transform(aligned)

	assignment, err := AssignCluster(art, scaled, e.cfg.Neighbors)
	if err != nil {
		return nil, err
	}

	result := &ClusterResult{
		PersonID:          personID,
		ClusterID:         assignment.ClusterID,
		VoteConfidence:    assignment.Confidence,
		Coverage:          coverage,
		PersonTopFeatures: PersonSignals(art, aligned, assignment.ClusterID, e.cfg.TopSignals, e.cfg.MinStd),
		ModelVersion:      art.ModelVersion,
	}

	if profile, ok := art.Profile(assignment.ClusterID); ok {
		result.ClusterLabel = profile.Label
		result.Profile = profile
	}

	return result, nil
}

// Clusters returns the catalog of precomputed cluster profiles.
func (e *Engine) Clusters() []ClusterSummary {
	return e.current.Load().artifact.Summaries()
}

// ClusterProfileByID returns one precomputed profile.
func (e *Engine) ClusterProfileByID(id int) (*ClusterProfile, bool) {
	return e.current.Load().artifact.Profile(id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
