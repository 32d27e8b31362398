// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

// AlignFeatures projects a raw feature map onto the canonical feature
// order, substituting fill for features the map does not provide. Keys
// not present in featureNames are ignored; missing features are a
// coverage statistic, never an error. Aligning an already-complete map
// is idempotent.
func AlignFeatures(raw map[string]float64, featureNames []string, fill float64) ([]float64, Coverage) {
	vec := make([]float64, len(featureNames))
	provided := 0

	for i, name := range featureNames {
		if v, ok := raw[name]; ok {
			vec[i] = v
			provided++
		} else {
			vec[i] = fill
		}
	}

	return vec, Coverage{
		ExpectedCount: len(featureNames),
		ProvidedCount: provided,
		MissingCount:  len(featureNames) - provided,
	}
}
