// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Etxarri/ShelterAI/internal/config"
	"github.com/Etxarri/ShelterAI/internal/models"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// testFeatureNames covers every rule in the default attribute mapping.
var testFeatureNames = []string{
	"head_age_group",
	"what_is_sizeyour_famil",
	"head_gender_female",
	"head_gender_male",
	"do_you_have_children",
	"hh_info_medical_needs",
	"person_health_condition",
	"disability_any",
	"difficulty_walking",
	"psychological_distress_flag",
	"status_refugee",
	"status_idp",
}

func vec(values ...float64) []float64 {
	v := make([]float64, len(testFeatureNames))
	copy(v, values)
	return v
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// testArtifact mirrors the engine test fixture: two clusters separated
// along age and family size, identity scaler.
func testArtifact() *recommend.Artifact {
	n := len(testFeatureNames)

	return &recommend.Artifact{
		ModelVersion: "test-1.0",
		FeatureNames: testFeatureNames,
		Scaler: recommend.Scaler{
			Mean: make([]float64, n),
			Var:  ones(n),
		},
		TrainingVectors: [][]float64{
			vec(24, 1), vec(25, 1), vec(26, 1), vec(25, 2), vec(24.5, 1),
			vec(40, 8), vec(41, 8), vec(39, 7), vec(40, 9), vec(42, 8),
		},
		TrainingClusterLabels: []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		GlobalFeatureMean:     vec(32, 4, 0.5, 0.5, 0.4),
		GlobalFeatureStd:      ones(n),
		ClusterProfiles: map[int]*recommend.ClusterProfile{
			0: {
				Label:           "Young individuals without family",
				Size:            5,
				PopulationShare: 0.5,
				FeatureMeans:    vec(24.9, 1.2),
			},
			1: {
				Label:           "Large families with children",
				Size:            5,
				PopulationShare: 0.5,
			},
		},
	}
}

// stubStore is a configurable in-memory ShelterStore.
type stubStore struct {
	available []recommend.Shelter
	all       []recommend.Shelter
	err       error
	pingErr   error
}

func (s *stubStore) AvailableShelters(context.Context) ([]recommend.Shelter, error) {
	return s.available, s.err
}

func (s *stubStore) AllShelters(context.Context) ([]recommend.Shelter, error) {
	return s.all, s.err
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func openShelter(id int64, name string) recommend.Shelter {
	return recommend.Shelter{
		ID:               id,
		Name:             name,
		MaxCapacity:      100,
		CurrentOccupancy: 10,
		ShelterType:      "long-term",
	}
}

func testConfig(modelPath string) *config.Config {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Neighbors = 5

	return &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
		},
		Model: config.ModelConfig{
			Path:   modelPath,
			Engine: engineCfg,
		},
		API: config.APIConfig{
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
	}
}

// newTestServer builds a full router over the fixture engine and the
// given store.
func newTestServer(t *testing.T, store ShelterStore, cfg *config.Config) http.Handler {
	t.Helper()

	if cfg == nil {
		cfg = testConfig("/nonexistent/model_artifacts.json")
	}

	engine, err := recommend.NewEngineWithArtifact(
		testArtifact(), cfg.Model.Engine, recommend.DefaultAttributeMapping(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngineWithArtifact: %v", err)
	}

	return NewRouter(NewHandler(engine, store, cfg, zerolog.Nop()))
}

// envelope decodes the response wrapper with the data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Error    *models.APIError `json:"error"`
	Metadata models.Metadata  `json:"metadata"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response envelope: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\ndata: %s", err, string(env.Data))
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Status != "error" {
		t.Fatalf("envelope status = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}

func validRecommendBody() map[string]interface{} {
	return map[string]interface{}{
		"person_id":        "person-1",
		"age":              25,
		"gender":           "F",
		"family_size":      1,
		"languages_spoken": "english",
		"status":           "refugee",
	}
}
