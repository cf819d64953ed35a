package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/modelmirror/modelmirror/internal/catalog"
	internaldb "github.com/modelmirror/modelmirror/internal/db"
	"github.com/modelmirror/modelmirror/internal/models"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := internaldb.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/mcp", NewHandler(conn).Handle)
	return engine, conn
}

func postRPC(t *testing.T, engine *gin.Engine, body string) rpcResponse {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var resp rpcResponse
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	return resp
}

func TestHandle_Initialize(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp := postRPC(t, engine, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok || info["name"] != serverName {
		t.Fatalf("unexpected server info: %v", result["serverInfo"])
	}
}

func TestHandle_ToolsList(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp := postRPC(t, engine, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	tools, ok := result["tools"].([]any)
	if !ok || len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %v", result["tools"])
	}
}

func TestHandle_CallInference(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp := postRPC(t, engine, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"inference","arguments":{"prompt":"hello"}}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	text := toolResultText(t, resp)
	if text != "Response to: hello" {
		t.Fatalf("unexpected inference text: %q", text)
	}
}

func TestHandle_CallSearchModels(t *testing.T) {
	engine, conn := newTestEngine(t)

	str := func(s string) *string { return &s }
	snapshot := &catalog.Snapshot{
		Entries: []models.CatalogEntry{
			{ID: "acme/foo", Company: str("acme"), Model: str("foo"), Name: "Acme Foo", ContextLength: 128000},
			{ID: "beta/baz", Company: str("beta"), Model: str("baz"), Name: "Beta Baz", ContextLength: 200000},
		},
		Pricings: []models.Pricing{
			{ModelID: "acme/foo", Prompt: str("0.000002")},
		},
	}
	if errReplace := catalog.ReplaceSnapshot(context.Background(), conn, snapshot); errReplace != nil {
		t.Fatalf("seed: %v", errReplace)
	}

	resp := postRPC(t, engine, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"search_models","arguments":{"company":"acme"}}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	var payload struct {
		Models []catalog.Model `json:"models"`
	}
	if errDecode := json.Unmarshal([]byte(toolResultText(t, resp)), &payload); errDecode != nil {
		t.Fatalf("decode tool payload: %v", errDecode)
	}
	if len(payload.Models) != 1 || payload.Models[0].ID != "acme/foo" {
		t.Fatalf("unexpected models: %+v", payload.Models)
	}
	if payload.Models[0].PromptPrice == nil || *payload.Models[0].PromptPrice != 2.0 {
		t.Fatalf("expected normalized prompt price 2.0")
	}
}

func TestHandle_UnknownMethodAndTool(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp := postRPC(t, engine, `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}

	resp = postRPC(t, engine, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"bogus"}}`)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestHandle_InitializedNotificationHasNoBody(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for the notification, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestHandle_RejectsWrongVersion(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp := postRPC(t, engine, `{"jsonrpc":"1.0","id":7,"method":"initialize"}`)
	if resp.Error == nil || resp.Error.Code != codeInvalidRequest {
		t.Fatalf("expected invalid-request error, got %+v", resp.Error)
	}
}

func toolResultText(t *testing.T, resp rpcResponse) string {
	t.Helper()
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	content, ok := result["content"].([]any)
	if !ok || len(content) == 0 {
		t.Fatalf("missing tool content: %v", resp.Result)
	}
	block, ok := content[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected content block: %v", content[0])
	}
	text, _ := block["text"].(string)
	return text
}
