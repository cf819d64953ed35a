package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelmirror/modelmirror/internal/catalog"
	"gorm.io/gorm"
)

// ModelHandler serves catalog search endpoints.
type ModelHandler struct {
	db *gorm.DB
}

// NewModelHandler constructs a ModelHandler.
func NewModelHandler(db *gorm.DB) *ModelHandler {
	return &ModelHandler{db: db}
}

// searchParams mirrors the search query string. Absent parameters stay
// nil so the query builder can tell "unset" from a zero value.
type searchParams struct {
	Company           string   `form:"company"`
	InputModality     string   `form:"input_modality"`
	OutputModality    string   `form:"output_modality"`
	IsFree            *bool    `form:"is_free"`
	NameLike          string   `form:"name_like"`
	MinContextLength  int      `form:"min_context_length"`
	PriceType         string   `form:"price_type"`
	MinPrice          *float64 `form:"min_price"`
	MaxPrice          *float64 `form:"max_price"`
	MinPriceInclusive *bool    `form:"min_price_inclusive"`
	MaxPriceInclusive *bool    `form:"max_price_inclusive"`
}

// Search returns catalog entries matching the query parameters.
func (h *ModelHandler) Search(c *gin.Context) {
	var params searchParams
	if errBind := c.ShouldBindQuery(&params); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBind.Error()})
		return
	}

	results, errSearch := catalog.Search(c.Request.Context(), h.db, catalog.Filter{
		Company:           params.Company,
		InputModality:     params.InputModality,
		OutputModality:    params.OutputModality,
		IsFree:            params.IsFree,
		NameLike:          params.NameLike,
		MinContextLength:  params.MinContextLength,
		PriceType:         params.PriceType,
		MinPrice:          params.MinPrice,
		MaxPrice:          params.MaxPrice,
		MinPriceInclusive: params.MinPriceInclusive,
		MaxPriceInclusive: params.MaxPriceInclusive,
	})
	if errSearch != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search models failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"models": results})
}
