package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
	redisclient "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/redis"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(_ context.Context) error {
	return s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return cfg
}

func TestHomeServesBanner(t *testing.T) {
	handler := Home()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["banner"] != "The ultimate social media network for foodies" {
		t.Fatalf("unexpected banner %q", envelope.Data["banner"])
	}
}

func TestHealthReadyReportsOK(t *testing.T) {
	handler := HealthReady(testConfig(), nil, stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Breadcrumbs-Env") != "test" {
		t.Fatalf("missing env header")
	}
}

func TestHealthReadyFailsWhenDatabaseDown(t *testing.T) {
	handler := HealthReady(testConfig(), nil, stubPinger{err: errors.New("refused")}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatalf("expected failure status, got 200")
	}
}

func TestHealthReadyFailsWhenRedisDown(t *testing.T) {
	handler := HealthReady(testConfig(), nil, stubPinger{}, stubPinger{err: errors.New("refused")})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatalf("expected failure status, got 200")
	}
}

// A nil *redis.Client wrapped in the Pinger interface must degrade to a
// dependency failure, not a panic.
func TestHealthReadyFailsWhenRedisUnconfigured(t *testing.T) {
	handler := HealthReady(testConfig(), nil, stubPinger{}, (*redisclient.Client)(nil))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
