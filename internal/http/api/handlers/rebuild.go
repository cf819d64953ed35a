package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelmirror/modelmirror/internal/catalog"
)

// RebuildHandler serves the forced-refresh endpoint.
type RebuildHandler struct {
	syncer *catalog.Syncer
}

// NewRebuildHandler constructs a RebuildHandler.
func NewRebuildHandler(syncer *catalog.Syncer) *RebuildHandler {
	return &RebuildHandler{syncer: syncer}
}

// Rebuild replaces the snapshot from upstream and reports the entry count.
func (h *RebuildHandler) Rebuild(c *gin.Context) {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "syncer not configured"})
		return
	}

	count, errSync := h.syncer.Rebuild(c.Request.Context())
	if errSync != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": errSync.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": count})
}
