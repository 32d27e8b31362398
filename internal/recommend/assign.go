// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"sort"
)

// neighbor pairs a training exemplar with its distance to the query.
type neighbor struct {
	dist  float64
	index int
}

// AssignCluster votes a cluster for a scaled query vector using the k
// nearest training exemplars under Euclidean distance. Squared
// distances are compared directly; the ordering is identical and the
// root is never needed.
//
// Noise exemplars (label -1) inside the neighborhood are dropped from
// the vote unless every neighbor is noise, in which case the assignment
// is NoiseLabel with full confidence. Vote ties break toward the
// smallest cluster id so equal inputs always produce equal outputs.
func AssignCluster(art *Artifact, scaled []float64, k int) (ClusterAssignment, error) {
	rows := len(art.TrainingVectors)
	if rows == 0 {
		return ClusterAssignment{}, ErrModelIncomplete
	}
	if k < 1 {
		k = 1
	}
	if k > rows {
		k = rows
	}

	n := len(art.FeatureNames)
	neighbors := make([]neighbor, rows)

	if len(art.flat) == rows*n {
		for r := 0; r < rows; r++ {
			row := art.flat[r*n : (r+1)*n]
			var d float64
			for i, v := range scaled {
				diff := v - row[i]
				d += diff * diff
			}
			neighbors[r] = neighbor{dist: d, index: r}
		}
	} else {
		for r, row := range art.TrainingVectors {
			var d float64
			for i, v := range scaled {
				diff := v - row[i]
				d += diff * diff
			}
			neighbors[r] = neighbor{dist: d, index: r}
		}
	}

	// Full sort keeps the neighborhood deterministic under distance
	// ties; exemplar counts are small enough that a partial selection
	// is not worth the complexity.
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].dist != neighbors[j].dist {
			return neighbors[i].dist < neighbors[j].dist
		}
		return neighbors[i].index < neighbors[j].index
	})

	votes := make(map[int]int, k)
	retained := 0
	for _, nb := range neighbors[:k] {
		label := art.TrainingClusterLabels[nb.index]
		if label == NoiseLabel {
			continue
		}
		votes[label]++
		retained++
	}

	// All-noise neighborhood: the person matches no modeled cluster.
	if retained == 0 {
		return ClusterAssignment{ClusterID: NoiseLabel, Confidence: 1}, nil
	}

	winner := 0
	winnerVotes := -1
	for label, count := range votes {
		if count > winnerVotes || (count == winnerVotes && label < winner) {
			winner = label
			winnerVotes = count
		}
	}

	return ClusterAssignment{
		ClusterID:  winner,
		Confidence: float64(winnerVotes) / float64(retained),
	}, nil
}
