package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"devradar/database"
	"devradar/models"
)

// SignalReader is the read surface for stored signals.
type SignalReader interface {
	ListSignals(database.SignalFilter) ([]models.Signal, error)
	SignalStats() (database.SignalStats, error)
}

// SignalsHandler serves the signal read APIs.
type SignalsHandler struct {
	store SignalReader
}

func NewSignalsHandler(store SignalReader) *SignalsHandler {
	return &SignalsHandler{store: store}
}

// GetSignals lists signals filtered by query parameters.
func (h *SignalsHandler) GetSignals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minScore, _ := strconv.Atoi(c.DefaultQuery("min_score", "0"))

	filter := database.SignalFilter{
		Type:     c.Query("type"),
		Source:   c.Query("source"),
		MinScore: minScore,
		Limit:    limit,
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		if since, err := time.Parse("2006-01-02", dateFrom); err == nil {
			filter.Since = since
		}
	}

	signals, err := h.store.ListSignals(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, signals)
}

// GetStats returns aggregate counts over the stored signal set.
func (h *SignalsHandler) GetStats(c *gin.Context) {
	stats, err := h.store.SignalStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
