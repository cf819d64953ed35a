package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelmirror/modelmirror/internal/catalog"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler dispatches JSON-RPC 2.0 requests to the catalog tools.
type Handler struct {
	db *gorm.DB
}

// NewHandler constructs a Handler.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Handle serves one JSON-RPC request over HTTP POST.
func (h *Handler) Handle(c *gin.Context) {
	var req rpcRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusOK, errorResponse(nil, codeParseError, "parse error"))
		return
	}
	if req.JSONRPC != "2.0" {
		c.JSON(http.StatusOK, errorResponse(req.ID, codeInvalidRequest, "unsupported jsonrpc version"))
		return
	}

	switch req.Method {
	case "initialize":
		c.JSON(http.StatusOK, resultResponse(req.ID, initializeResult()))
	case "notifications/initialized":
		// Notification: carries no id and expects no JSON-RPC response
		// body, so answer 202 with an empty body instead of faking a
		// result object.
		c.Status(http.StatusAccepted)
	case "tools/list":
		c.JSON(http.StatusOK, resultResponse(req.ID, gin.H{"tools": toolDescriptors()}))
	case "tools/call":
		c.JSON(http.StatusOK, h.callTool(c, req))
	default:
		c.JSON(http.StatusOK, errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method)))
	}
}

func initializeResult() gin.H {
	return gin.H{
		"protocolVersion": protocolVersion,
		"capabilities":    gin.H{"tools": gin.H{}},
		"serverInfo":      gin.H{"name": serverName, "version": serverVersion},
	}
}

func toolDescriptors() []toolDescriptor {
	return []toolDescriptor{
		{
			Name:        "inference",
			Description: "Generate a response to the given prompt.",
			InputSchema: gin.H{
				"type": "object",
				"properties": gin.H{
					"prompt": gin.H{"type": "string", "description": "Prompt to respond to."},
				},
				"required": []string{"prompt"},
			},
		},
		{
			Name:        "search_models",
			Description: "Search the model catalog by company, modality, price, and context length.",
			InputSchema: gin.H{
				"type": "object",
				"properties": gin.H{
					"company":             gin.H{"type": "string", "description": "Company slug, e.g. openai."},
					"input_modality":      gin.H{"type": "string", "description": "Required input modality, e.g. image."},
					"output_modality":     gin.H{"type": "string", "description": "Required output modality, e.g. text."},
					"is_free":             gin.H{"type": "boolean", "description": "True for fully free models, false for models with any paid price."},
					"name_like":           gin.H{"type": "string", "description": "Case-insensitive substring of the display name."},
					"min_context_length":  gin.H{"type": "integer", "description": "Minimum context window in tokens."},
					"price_type":          gin.H{"type": "string", "description": "Price column for range filters: prompt or completion."},
					"min_price":           gin.H{"type": "number", "description": "Lower price bound, per million tokens."},
					"max_price":           gin.H{"type": "number", "description": "Upper price bound, per million tokens."},
					"min_price_inclusive": gin.H{"type": "boolean", "description": "Whether the lower bound is inclusive. Defaults to true."},
					"max_price_inclusive": gin.H{"type": "boolean", "description": "Whether the upper bound is inclusive. Defaults to true."},
				},
			},
		},
	}
}

func (h *Handler) callTool(c *gin.Context, req rpcRequest) rpcResponse {
	var params toolCallParams
	if errParse := json.Unmarshal(req.Params, &params); errParse != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tool call params")
	}

	switch params.Name {
	case "inference":
		return h.callInference(req.ID, params.Arguments)
	case "search_models":
		return h.callSearchModels(c, req.ID, params.Arguments)
	default:
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
	}
}

// callInference returns a canned response; wiring a real model backend is
// out of scope for the catalog mirror.
func (h *Handler) callInference(id any, arguments json.RawMessage) rpcResponse {
	var args struct {
		Prompt string `json:"prompt"`
	}
	if len(arguments) > 0 {
		if errParse := json.Unmarshal(arguments, &args); errParse != nil {
			return errorResponse(id, codeInvalidParams, "invalid inference arguments")
		}
	}
	if args.Prompt == "" {
		return resultResponse(id, textError("prompt is required"))
	}
	return resultResponse(id, textResult(fmt.Sprintf("Response to: %s", args.Prompt)))
}

// searchArguments mirrors catalog.Filter with the tool's JSON field names.
type searchArguments struct {
	Company           string   `json:"company"`
	InputModality     string   `json:"input_modality"`
	OutputModality    string   `json:"output_modality"`
	IsFree            *bool    `json:"is_free"`
	NameLike          string   `json:"name_like"`
	MinContextLength  int      `json:"min_context_length"`
	PriceType         string   `json:"price_type"`
	MinPrice          *float64 `json:"min_price"`
	MaxPrice          *float64 `json:"max_price"`
	MinPriceInclusive *bool    `json:"min_price_inclusive"`
	MaxPriceInclusive *bool    `json:"max_price_inclusive"`
}

func (h *Handler) callSearchModels(c *gin.Context, id any, arguments json.RawMessage) rpcResponse {
	var args searchArguments
	if len(arguments) > 0 {
		if errParse := json.Unmarshal(arguments, &args); errParse != nil {
			return errorResponse(id, codeInvalidParams, "invalid search arguments")
		}
	}

	results, errSearch := catalog.Search(c.Request.Context(), h.db, catalog.Filter{
		Company:           args.Company,
		InputModality:     args.InputModality,
		OutputModality:    args.OutputModality,
		IsFree:            args.IsFree,
		NameLike:          args.NameLike,
		MinContextLength:  args.MinContextLength,
		PriceType:         args.PriceType,
		MinPrice:          args.MinPrice,
		MaxPrice:          args.MaxPrice,
		MinPriceInclusive: args.MinPriceInclusive,
		MaxPriceInclusive: args.MaxPriceInclusive,
	})
	if errSearch != nil {
		log.WithError(errSearch).Error("mcp: search models failed")
		return errorResponse(id, codeInternalError, "search models failed")
	}

	encoded, errEncode := json.Marshal(gin.H{"models": results})
	if errEncode != nil {
		return errorResponse(id, codeInternalError, "encode search result failed")
	}
	return resultResponse(id, textResult(string(encoded)))
}
