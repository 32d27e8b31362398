// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Package api wires the HTTP surface: a chi router with CORS, rate
// limiting and request logging, handlers for recommendation and
// cluster decision support, shelter catalog reads, model reload and
// health probes. All responses use the models.APIResponse envelope.
package api
