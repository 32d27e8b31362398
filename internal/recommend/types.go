// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// VulnerabilityLevel classifies a person's derived vulnerability score
// into the tiers used by the scorer's shelter-type rules.
type VulnerabilityLevel string

// Vulnerability tiers, from most to least urgent.
const (
	VulnerabilityCritical VulnerabilityLevel = "critical"
	VulnerabilityHigh     VulnerabilityLevel = "high"
	VulnerabilityMedium   VulnerabilityLevel = "medium"
	VulnerabilityLow      VulnerabilityLevel = "low"
)

// Person holds the attributes of a displaced person used for cluster
// assignment and shelter scoring. String fields follow the intake
// system's conventions: comma-separated language lists, free-text
// medical conditions with "none" meaning no conditions.
type Person struct {
	// ID is the caller's external identifier, echoed in results.
	ID string `json:"id,omitempty"`

	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	FamilySize int    `json:"family_size"`

	HasChildren   bool `json:"has_children"`
	ChildrenCount int  `json:"children_count"`

	MedicalConditions         string `json:"medical_conditions,omitempty"`
	HasDisability             bool   `json:"has_disability"`
	PsychologicalDistress     bool   `json:"psychological_distress"`
	RequiresMedicalFacilities bool   `json:"requires_medical_facilities"`

	// LanguagesSpoken is a comma-separated list, matched
	// case-insensitively against shelter staff languages.
	LanguagesSpoken string `json:"languages_spoken,omitempty"`

	// Status is the displacement status: refugee, idp or returnee.
	Status string `json:"status,omitempty"`

	// VulnerabilityScore overrides the derived base score when set (0-10).
	VulnerabilityScore *float64 `json:"vulnerability_score,omitempty"`
}

// MedicalNeed reports whether the person needs medical facilities,
// either explicitly or through a declared medical condition.
func (p *Person) MedicalNeed() bool {
	if p.RequiresMedicalFacilities {
		return true
	}
	cond := normalizeToken(p.MedicalConditions)
	return cond != "" && cond != "none"
}

// Shelter is a candidate accommodation with its services and occupancy.
type Shelter struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`

	MaxCapacity      int `json:"max_capacity"`
	CurrentOccupancy int `json:"current_occupancy"`

	HasMedicalFacilities bool `json:"has_medical_facilities"`
	HasChildcare         bool `json:"has_childcare"`
	HasDisabilityAccess  bool `json:"has_disability_access"`

	// LanguagesSpoken lists staff languages, comma-separated.
	LanguagesSpoken string `json:"languages_spoken,omitempty"`

	// ShelterType is one of temporary, long-term or permanent.
	ShelterType string `json:"shelter_type,omitempty"`

	ServicesOffered string `json:"services_offered,omitempty"`
}

// AvailableSpace returns the remaining capacity, clamped at zero so
// over-occupied shelters never report negative space.
func (s *Shelter) AvailableSpace() int {
	space := s.MaxCapacity - s.CurrentOccupancy
	if space < 0 {
		return 0
	}
	return space
}

// OccupancyRate returns occupancy as a fraction of capacity in [0, 1].
// A shelter with zero capacity counts as full.
func (s *Shelter) OccupancyRate() float64 {
	if s.MaxCapacity <= 0 {
		return 1
	}
	rate := float64(s.CurrentOccupancy) / float64(s.MaxCapacity)
	if rate > 1 {
		return 1
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// ReasonPolarity marks a matching reason as positive, warning or negative.
type ReasonPolarity int

// Reason polarities in display order of their markers.
const (
	ReasonPositive ReasonPolarity = iota
	ReasonWarning
	ReasonNegative
)

// Marker returns the display prefix for the polarity.
func (p ReasonPolarity) Marker() string {
	switch p {
	case ReasonWarning:
		return "⚠"
	case ReasonNegative:
		return "✗"
	default:
		return "✓"
	}
}

// Reason is a single human-readable matching reason produced by the
// scorer. It serializes as a marker-prefixed string.
type Reason struct {
	Polarity ReasonPolarity
	Text     string
}

// String renders the reason with its polarity marker.
func (r Reason) String() string {
	return r.Polarity.Marker() + " " + r.Text
}

// MarshalJSON renders the reason as its display string.
func (r Reason) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON parses a marker-prefixed display string back into its
// polarity and text. A string without a known marker decodes as a
// positive reason.
func (r *Reason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	for _, p := range []ReasonPolarity{ReasonNegative, ReasonWarning, ReasonPositive} {
		if text, ok := strings.CutPrefix(s, p.Marker()+" "); ok {
			r.Polarity = p
			r.Text = text
			return nil
		}
	}

	r.Polarity = ReasonPositive
	r.Text = s
	return nil
}

// Recommendation is one ranked shelter with its score and rationale.
type Recommendation struct {
	ShelterID   int64  `json:"shelter_id"`
	ShelterName string `json:"shelter_name"`
	Address     string `json:"address,omitempty"`

	CompatibilityScore float64 `json:"compatibility_score"`
	PriorityScore      float64 `json:"priority_score"`

	MaxCapacity      int     `json:"max_capacity"`
	CurrentOccupancy int     `json:"current_occupancy"`
	AvailableSpace   int     `json:"available_space"`
	OccupancyRate    float64 `json:"occupancy_rate"`

	HasMedicalFacilities bool   `json:"has_medical_facilities"`
	HasChildcare         bool   `json:"has_childcare"`
	HasDisabilityAccess  bool   `json:"has_disability_access"`
	LanguagesSpoken      string `json:"languages_spoken,omitempty"`
	ShelterType          string `json:"shelter_type,omitempty"`
	ServicesOffered      string `json:"services_offered,omitempty"`

	Explanation     string   `json:"explanation"`
	MatchingReasons []Reason `json:"matching_reasons"`
}

// RecommendationResult is the full outcome of one Recommend call.
type RecommendationResult struct {
	PersonID               string             `json:"person_id,omitempty"`
	ClusterID              int                `json:"cluster_id"`
	ClusterLabel           string             `json:"cluster_label,omitempty"`
	VulnerabilityScore     float64            `json:"vulnerability_score"`
	VulnerabilityLevel     VulnerabilityLevel `json:"vulnerability_level"`
	Recommendations        []Recommendation   `json:"recommendations"`
	TotalSheltersAnalyzed  int                `json:"total_shelters_analyzed"`
	ModelVersion           string             `json:"model_version"`
	Timestamp              time.Time          `json:"timestamp"`
}

// ClusterAssignment is the outcome of a KNN majority vote.
type ClusterAssignment struct {
	// ClusterID is the winning cluster, or NoiseLabel when the entire
	// neighborhood is noise.
	ClusterID int `json:"cluster_id"`

	// Confidence is the winner's vote share among the k neighbors
	// retained for the vote, in (0, 1].
	Confidence float64 `json:"confidence"`
}

// Coverage reports how completely a raw feature map filled the model's
// canonical feature vector.
type Coverage struct {
	ExpectedCount int `json:"expected_count"`
	ProvidedCount int `json:"provided_count"`
	MissingCount  int `json:"missing_count"`
}

// PersonSignal describes one aligned feature value against the training
// population, for decision-support display.
type PersonSignal struct {
	Feature     string  `json:"feature"`
	Value       float64 `json:"value"`
	GlobalMean  float64 `json:"global_mean"`
	ClusterMean float64 `json:"cluster_mean,omitempty"`

	// DeltaVsGlobal is value - global mean; signals are ranked by its
	// magnitude.
	DeltaVsGlobal float64 `json:"delta_vs_global"`

	// DeltaVsCluster is value - cluster mean, set when the assigned
	// cluster has per-feature means.
	DeltaVsCluster float64 `json:"delta_vs_cluster,omitempty"`

	// NormalizedDelta is DeltaVsGlobal over the global std, with a
	// floor applied to near-zero stds.
	NormalizedDelta float64 `json:"normalized_delta"`
}

// ClusterResult is the outcome of a standalone cluster assignment.
type ClusterResult struct {
	PersonID          string          `json:"person_id,omitempty"`
	ClusterID         int             `json:"cluster_id"`
	ClusterLabel      string          `json:"cluster_label,omitempty"`
	VoteConfidence    float64         `json:"vote_confidence"`
	Coverage          Coverage        `json:"coverage"`
	PersonTopFeatures []PersonSignal  `json:"person_top_features"`
	// Profile is nil when the winning cluster has no precomputed
	// profile (for example a noise assignment).
	Profile      *ClusterProfile `json:"cluster_profile"`
	ModelVersion string          `json:"model_version"`
}

// ClusterSummary is a catalog entry for one precomputed cluster profile.
type ClusterSummary struct {
	ClusterID       int     `json:"cluster_id"`
	Label           string  `json:"label"`
	Size            int     `json:"size"`
	PopulationShare float64 `json:"population_share"`
}
