// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/Etxarri/ShelterAI/internal/models"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

func TestRecommend(t *testing.T) {
	store := &stubStore{available: []recommend.Shelter{
		openShelter(1, "North Camp"),
		openShelter(2, "River Hall"),
	}}
	srv := newTestServer(t, store, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", validRecommendBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Fatalf("envelope status = %q", env.Status)
	}

	var result recommend.RecommendationResult
	decodeData(t, env, &result)

	if result.ClusterID != 0 {
		t.Errorf("ClusterID = %d, want 0", result.ClusterID)
	}
	if result.PersonID != "person-1" {
		t.Errorf("PersonID = %q", result.PersonID)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(result.Recommendations))
	}
	if result.Recommendations[0].CompatibilityScore <= 0 {
		t.Errorf("top score = %v, want positive", result.Recommendations[0].CompatibilityScore)
	}
	if result.TotalSheltersAnalyzed != 2 {
		t.Errorf("TotalSheltersAnalyzed = %d, want 2", result.TotalSheltersAnalyzed)
	}
	if result.ModelVersion != "test-1.0" {
		t.Errorf("ModelVersion = %q", result.ModelVersion)
	}
}

func TestRecommendValidation(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing gender", map[string]interface{}{"age": 25}},
		{"bad gender", map[string]interface{}{"age": 25, "gender": "X"}},
		{"negative age", map[string]interface{}{"age": -1, "gender": "F"}},
		{"bad status", map[string]interface{}{"age": 25, "gender": "F", "status": "visitor"}},
		{"top_k too large", map[string]interface{}{"age": 25, "gender": "F", "top_k": 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", tt.body)
			assertErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
}

func TestRecommendEmptyBody(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", nil)
	assertErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestRecommendNoShelters(t *testing.T) {
	srv := newTestServer(t, &stubStore{available: nil}, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", validRecommendBody())
	assertErrorCode(t, rec, env, http.StatusNotFound, "NO_SHELTERS_AVAILABLE")
}

func TestRecommendNoCompatibleShelters(t *testing.T) {
	// One candidate without room for the whole family: capacity veto
	// zeroes it and nothing survives.
	full := recommend.Shelter{ID: 9, Name: "Full House", MaxCapacity: 10, CurrentOccupancy: 10}
	srv := newTestServer(t, &stubStore{available: []recommend.Shelter{full}}, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", validRecommendBody())
	assertErrorCode(t, rec, env, http.StatusNotFound, "NO_COMPATIBLE_SHELTERS")
}

func TestRecommendDatabaseError(t *testing.T) {
	srv := newTestServer(t, &stubStore{err: os.ErrDeadlineExceeded}, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", validRecommendBody())
	assertErrorCode(t, rec, env, http.StatusInternalServerError, "DATABASE_ERROR")
}

func TestRecommendTopK(t *testing.T) {
	store := &stubStore{available: []recommend.Shelter{
		openShelter(1, "A"), openShelter(2, "B"), openShelter(3, "C"),
	}}
	srv := newTestServer(t, store, nil)

	body := validRecommendBody()
	body["top_k"] = 1

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result recommend.RecommendationResult
	decodeData(t, env, &result)
	if len(result.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(result.Recommendations))
	}
}

func TestCluster(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	body := map[string]interface{}{
		"person_id": "person-2",
		"features": map[string]float64{
			"head_age_group":         41,
			"what_is_sizeyour_famil": 8,
		},
	}

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/cluster", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result recommend.ClusterResult
	decodeData(t, env, &result)

	if result.ClusterID != 1 {
		t.Errorf("ClusterID = %d, want 1", result.ClusterID)
	}
	if result.ClusterLabel != "Large families with children" {
		t.Errorf("ClusterLabel = %q", result.ClusterLabel)
	}
	if result.Coverage.ProvidedCount != 2 {
		t.Errorf("ProvidedCount = %d, want 2", result.Coverage.ProvidedCount)
	}
	if result.Coverage.MissingCount != len(testFeatureNames)-2 {
		t.Errorf("MissingCount = %d", result.Coverage.MissingCount)
	}
}

func TestClusterValidation(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/cluster",
		map[string]interface{}{"person_id": "p"})
	assertErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestClustersCatalog(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/clusters", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body clustersResponse
	decodeData(t, env, &body)

	if len(body.Clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(body.Clusters))
	}
	if body.Clusters[0].ClusterID != 0 || body.Clusters[1].ClusterID != 1 {
		t.Errorf("clusters out of order: %+v", body.Clusters)
	}
	if body.ModelVersion != "test-1.0" {
		t.Errorf("ModelVersion = %q", body.ModelVersion)
	}
}

func TestClusterByID(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/clusters/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body clusterProfileResponse
	decodeData(t, env, &body)
	if body.Profile == nil || body.Profile.Label != "Young individuals without family" {
		t.Errorf("profile = %+v", body.Profile)
	}

	rec, env = doRequest(t, srv, http.MethodGet, "/api/v1/clusters/42", nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, "CLUSTER_NOT_FOUND")

	rec, env = doRequest(t, srv, http.MethodGet, "/api/v1/clusters/abc", nil)
	assertErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestShelters(t *testing.T) {
	store := &stubStore{
		all:       []recommend.Shelter{openShelter(1, "A"), openShelter(2, "B"), {ID: 3, Name: "Full", MaxCapacity: 5, CurrentOccupancy: 5}},
		available: []recommend.Shelter{openShelter(1, "A"), openShelter(2, "B")},
	}
	srv := newTestServer(t, store, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/shelters", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body sheltersResponse
	decodeData(t, env, &body)
	if body.Total != 3 {
		t.Errorf("Total = %d, want 3", body.Total)
	}
	if body.Shelters[0].AvailableSpace != 90 {
		t.Errorf("AvailableSpace = %d, want 90", body.Shelters[0].AvailableSpace)
	}

	rec, env = doRequest(t, srv, http.MethodGet, "/api/v1/shelters?available=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	decodeData(t, env, &body)
	if body.Total != 2 {
		t.Errorf("Total = %d, want 2", body.Total)
	}
}

func TestStats(t *testing.T) {
	store := &stubStore{all: []recommend.Shelter{
		{ID: 1, Name: "A", MaxCapacity: 100, CurrentOccupancy: 40},
		{ID: 2, Name: "B", MaxCapacity: 50, CurrentOccupancy: 50},
		{ID: 3, Name: "C", MaxCapacity: 50, CurrentOccupancy: 10},
	}}
	srv := newTestServer(t, store, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var stats statsResponse
	decodeData(t, env, &stats)

	if stats.Shelters.Total != 3 || stats.Shelters.Available != 2 || stats.Shelters.Full != 1 {
		t.Errorf("shelters = %+v, want 3/2/1", stats.Shelters)
	}
	if stats.Capacity.Total != 200 || stats.Capacity.Occupied != 100 || stats.Capacity.Available != 100 {
		t.Errorf("capacity = %+v, want 200/100/100", stats.Capacity)
	}
	if stats.Capacity.OccupancyRate != 50.0 {
		t.Errorf("OccupancyRate = %v, want 50", stats.Capacity.OccupancyRate)
	}
	if stats.Model.Version != "test-1.0" || stats.Model.Clusters != 2 {
		t.Errorf("model = %+v", stats.Model)
	}
	if stats.Model.Features != len(testFeatureNames) {
		t.Errorf("Features = %d, want %d", stats.Model.Features, len(testFeatureNames))
	}
}

func TestStatsEmptyStore(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats statsResponse
	decodeData(t, env, &stats)
	if stats.Capacity.OccupancyRate != 0 {
		t.Errorf("OccupancyRate = %v, want 0 with no capacity", stats.Capacity.OccupancyRate)
	}
}

func TestSheltersDatabaseError(t *testing.T) {
	srv := newTestServer(t, &stubStore{err: os.ErrClosed}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/shelters", nil)
	assertErrorCode(t, rec, env, http.StatusInternalServerError, "DATABASE_ERROR")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var status models.HealthStatus
	decodeData(t, env, &status)
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
	if !status.Model.Loaded || status.Model.Version != "test-1.0" {
		t.Errorf("Model = %+v", status.Model)
	}
	if status.Model.Clusters != 2 {
		t.Errorf("Clusters = %d, want 2", status.Model.Clusters)
	}
}

func TestHealthDegraded(t *testing.T) {
	srv := newTestServer(t, &stubStore{pingErr: os.ErrClosed}, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when degraded", rec.Code)
	}

	var status models.HealthStatus
	decodeData(t, env, &status)
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", status.Status)
	}
	if status.Database.Status != "unreachable" {
		t.Errorf("Database.Status = %q", status.Database.Status)
	}
}

func TestHealthProbes(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, nil)

	rec, _ := doRequest(t, srv, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec, env := doRequest(t, srv, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
	var body map[string]interface{}
	decodeData(t, env, &body)
	if body["model_version"] != "test-1.0" {
		t.Errorf("model_version = %v", body["model_version"])
	}
}

func TestReloadModel(t *testing.T) {
	art := testArtifact()
	art.ModelVersion = "test-2.0"
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model_artifacts.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	srv := newTestServer(t, &stubStore{}, testConfig(path))

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/model/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decodeData(t, env, &body)
	if body["model_version"] != "test-2.0" {
		t.Errorf("model_version = %v, want test-2.0", body["model_version"])
	}
}

func TestReloadModelFailure(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, testConfig("/nonexistent/model.json"))

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/model/reload", nil)
	assertErrorCode(t, rec, env, http.StatusInternalServerError, "MODEL_RELOAD_FAILED")

	// The previous model keeps serving.
	rec, env = doRequest(t, srv, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
	var body map[string]interface{}
	decodeData(t, env, &body)
	if body["model_version"] != "test-1.0" {
		t.Errorf("model_version = %v, want test-1.0", body["model_version"])
	}
}
