package api

import (
	"github.com/gin-gonic/gin"
	"github.com/modelmirror/modelmirror/internal/catalog"
	"github.com/modelmirror/modelmirror/internal/http/api/handlers"
	"github.com/modelmirror/modelmirror/internal/http/api/mcp"
	"gorm.io/gorm"
)

// RegisterRoutes registers the REST and MCP endpoints.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, syncer *catalog.Syncer) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Health)

	modelHandler := handlers.NewModelHandler(db)
	r.GET("/models", modelHandler.Search)

	rebuildHandler := handlers.NewRebuildHandler(syncer)
	r.POST("/rebuild", rebuildHandler.Rebuild)

	mcpHandler := mcp.NewHandler(db)
	r.POST("/mcp", mcpHandler.Handle)
}
