package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devradar/ingest"
)

type runnerStub struct {
	summary ingest.Summary
	err     error
	calls   int
}

func (s *runnerStub) RunSignals(ctx context.Context) (ingest.Summary, error) {
	s.calls++
	return s.summary, s.err
}

func (s *runnerStub) RunOpportunities(ctx context.Context) (ingest.Summary, error) {
	s.calls++
	return s.summary, s.err
}

func (s *runnerStub) RunResources(ctx context.Context) (ingest.Summary, error) {
	s.calls++
	return s.summary, s.err
}

type cronHarness struct {
	router *gin.Engine
	runner *runnerStub
}

func setupCron(secret string) *cronHarness {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	runner := &runnerStub{summary: ingest.Summary{OK: true, Fetched: 4, Unique: 3, Inserted: 2, Skipped: 1}}
	handler := NewIngestHandler(runner, logger)

	router := gin.New()
	cron := router.Group("/api/cron", CronAuth(secret))
	cron.POST("/ingest-signals", handler.IngestSignals)
	cron.POST("/ingest-opportunities", handler.IngestOpportunities)
	cron.POST("/seed-resources", handler.SeedResources)

	return &cronHarness{router: router, runner: runner}
}

func (h *cronHarness) post(path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)
	return resp
}

func TestCronRejectsMissingCredential(t *testing.T) {
	harness := setupCron("s3cret")

	resp := harness.post("/api/cron/ingest-signals", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if harness.runner.calls != 0 {
		t.Fatalf("run must not start on auth failure")
	}
}

func TestCronRejectsWrongCredential(t *testing.T) {
	harness := setupCron("s3cret")

	resp := harness.post("/api/cron/ingest-signals", "wrong")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if harness.runner.calls != 0 {
		t.Fatalf("run must not start on auth failure")
	}
}

func TestCronRejectsWhenSecretUnset(t *testing.T) {
	harness := setupCron("")

	resp := harness.post("/api/cron/ingest-signals", "anything")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with unset secret, got %d", resp.Code)
	}
}

func TestCronReturnsRunSummary(t *testing.T) {
	harness := setupCron("s3cret")

	for _, path := range []string{
		"/api/cron/ingest-signals",
		"/api/cron/ingest-opportunities",
		"/api/cron/seed-resources",
	} {
		resp := harness.post(path, "s3cret")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}

		var summary ingest.Summary
		if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
			t.Fatalf("%s: decode body: %v", path, err)
		}
		if !summary.OK || summary.Fetched != 4 || summary.Inserted != 2 || summary.Skipped != 1 {
			t.Fatalf("%s: unexpected summary %+v", path, summary)
		}
	}
	if harness.runner.calls != 3 {
		t.Fatalf("expected 3 runs, got %d", harness.runner.calls)
	}
}

func TestCronFailedRunReturns500(t *testing.T) {
	harness := setupCron("s3cret")
	harness.runner.err = errors.New("store unreachable")

	resp := harness.post("/api/cron/ingest-signals", "s3cret")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field, got %v", body)
	}
}
