// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import "errors"

var (
	// ErrModelIncomplete indicates the loaded artifact lacks the training
	// exemplars required for cluster assignment. Recommendation and cluster
	// endpoints cannot serve until a complete model is loaded.
	ErrModelIncomplete = errors.New("model artifact is missing training vectors")

	// ErrNoCandidates indicates the caller supplied an empty candidate set.
	ErrNoCandidates = errors.New("no candidate shelters supplied")

	// ErrNoCompatibleCandidates indicates every candidate shelter was
	// vetoed (score zero or below), typically by the capacity gate.
	ErrNoCompatibleCandidates = errors.New("no compatible shelters for person")

	// ErrUnmappedAttribute indicates the attribute mapping references a
	// feature name absent from the artifact's feature list. Raised at model
	// load, never per request.
	ErrUnmappedAttribute = errors.New("attribute mapping references unknown feature")
)
