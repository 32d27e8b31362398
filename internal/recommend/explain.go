// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"math"
	"sort"
)

// PersonSignals ranks the person's aligned (unscaled) feature values by
// how far they sit from the global training mean, in raw feature units.
// When the assigned cluster has a profile with per-feature means, each
// signal also carries the cluster mean and the delta against it. The
// std-normalized figure rides along for display but never drives the
// ranking. The strongest topN signals are returned; ties keep feature
// order.
func PersonSignals(art *Artifact, aligned []float64, clusterID, topN int, minStd float64) []PersonSignal {
	if topN <= 0 {
		return nil
	}

	var clusterMeans []float64
	if profile, ok := art.Profile(clusterID); ok && len(profile.FeatureMeans) == len(art.FeatureNames) {
		clusterMeans = profile.FeatureMeans
	}

	signals := make([]PersonSignal, len(aligned))
	for i, v := range aligned {
		std := art.GlobalFeatureStd[i]
		if std < minStd {
			std = minStd
		}
		delta := v - art.GlobalFeatureMean[i]
		s := PersonSignal{
			Feature:         art.FeatureNames[i],
			Value:           v,
			GlobalMean:      art.GlobalFeatureMean[i],
			DeltaVsGlobal:   delta,
			NormalizedDelta: delta / std,
		}
		if clusterMeans != nil {
			s.ClusterMean = clusterMeans[i]
			s.DeltaVsCluster = v - clusterMeans[i]
		}
		signals[i] = s
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return math.Abs(signals[i].DeltaVsGlobal) > math.Abs(signals[j].DeltaVsGlobal)
	})

	if topN > len(signals) {
		topN = len(signals)
	}
	return signals[:topN]
}
