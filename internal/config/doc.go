// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Package config loads service configuration with Koanf v2, layering
// struct defaults, an optional YAML file and SHELTERAI_-prefixed
// environment variables, in that order of precedence (env wins).
package config
