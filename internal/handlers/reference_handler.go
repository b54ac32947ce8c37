package handlers

import (
	"net/http"

	"cavea/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	refs service.ReferenceService
}

func NewReferenceHandler(refs service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

func (h *ReferenceHandler) Colours(c *gin.Context) {
	colours, err := h.refs.ListColours(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, colours)
}

func (h *ReferenceHandler) Regions(c *gin.Context) {
	regions, err := h.refs.ListRegions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, regions)
}

func (h *ReferenceHandler) GrapeVarieties(c *gin.Context) {
	varieties, err := h.refs.ListGrapeVarieties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, varieties)
}
