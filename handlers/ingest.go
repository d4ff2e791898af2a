package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devradar/ingest"
)

// IngestRunner is the orchestration surface the trigger endpoints need.
type IngestRunner interface {
	RunSignals(ctx context.Context) (ingest.Summary, error)
	RunOpportunities(ctx context.Context) (ingest.Summary, error)
	RunResources(ctx context.Context) (ingest.Summary, error)
}

// IngestHandler exposes one POST endpoint per ingestion job.
type IngestHandler struct {
	runner IngestRunner
	logger *logrus.Logger
}

func NewIngestHandler(runner IngestRunner, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{runner: runner, logger: logger}
}

func (h *IngestHandler) IngestSignals(c *gin.Context) {
	h.run(c, "signal ingestion", h.runner.RunSignals)
}

func (h *IngestHandler) IngestOpportunities(c *gin.Context) {
	h.run(c, "opportunity ingestion", h.runner.RunOpportunities)
}

func (h *IngestHandler) SeedResources(c *gin.Context) {
	h.run(c, "resource seeding", h.runner.RunResources)
}

func (h *IngestHandler) run(c *gin.Context, name string, fn func(context.Context) (ingest.Summary, error)) {
	summary, err := fn(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Errorf("%s failed", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": name + " failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
