package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devradar/database"
	"devradar/models"
)

// ResourceReader is the read surface for template/reference resources.
type ResourceReader interface {
	ListResources(database.ResourceFilter) ([]models.Resource, error)
}

type ResourcesHandler struct {
	store ResourceReader
}

func NewResourcesHandler(store ResourceReader) *ResourcesHandler {
	return &ResourcesHandler{store: store}
}

func (h *ResourcesHandler) GetResources(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	templateOnly, _ := strconv.ParseBool(c.DefaultQuery("templates", "false"))

	resources, err := h.store.ListResources(database.ResourceFilter{
		Language:     c.Query("language"),
		TemplateOnly: templateOnly,
		Limit:        limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resources)
}
