// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Package recommend implements the shelter matching engine.
//
// The engine combines two independent signals:
//
//  1. Cluster assignment: a person's attributes are projected onto the
//     model's canonical feature vector, standardized with the training
//     scaler, and assigned to a population cluster by KNN majority vote
//     over stored training exemplars. Noise exemplars (label -1) are
//     excluded from the vote unless the entire neighborhood is noise.
//  2. Compatibility scoring: every candidate shelter is scored 0-100 by
//     an additive weighted rule system (capacity, availability, medical,
//     disability, childcare, language, shelter type). A shelter without
//     enough capacity for the whole family is vetoed outright.
//
// The trained model is loaded from a JSON artifact produced at training
// time and held in an atomic.Pointer, so requests always observe a
// complete snapshot and Reload swaps versions without locking.
//
// The package has no dependencies on other internal packages; callers
// provide candidates and consume plain result structs.
package recommend
