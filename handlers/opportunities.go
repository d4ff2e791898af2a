package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devradar/database"
	"devradar/models"
)

// OpportunityReader is the read surface for contribution opportunities.
type OpportunityReader interface {
	ListOpportunities(database.OpportunityFilter) ([]models.ContributionOpportunity, error)
}

type OpportunitiesHandler struct {
	store OpportunityReader
}

func NewOpportunitiesHandler(store OpportunityReader) *OpportunitiesHandler {
	return &OpportunitiesHandler{store: store}
}

func (h *OpportunitiesHandler) GetOpportunities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minScore, _ := strconv.Atoi(c.DefaultQuery("min_score", "0"))

	opportunities, err := h.store.ListOpportunities(database.OpportunityFilter{
		Difficulty: c.Query("difficulty"),
		MinScore:   minScore,
		Limit:      limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, opportunities)
}
