// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Package database implements the Postgres shelter store over
// database/sql with the lib/pq driver. The schema is owned by the
// intake system; this service only reads it.
package database
