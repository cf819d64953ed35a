package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/modelmirror/modelmirror/internal/catalog"
	internaldb "github.com/modelmirror/modelmirror/internal/db"
	"github.com/modelmirror/modelmirror/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := internaldb.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedModels(t *testing.T, conn *gorm.DB) {
	t.Helper()
	str := func(s string) *string { return &s }
	snapshot := &catalog.Snapshot{
		Entries: []models.CatalogEntry{
			{ID: "acme/foo", Company: str("acme"), Model: str("foo"), Name: "Acme Foo", ContextLength: 128000},
			{ID: "beta/baz", Company: str("beta"), Model: str("baz"), Name: "Beta Baz", ContextLength: 200000},
		},
		Pricings: []models.Pricing{
			{ModelID: "acme/foo", Prompt: str("0.000002"), Completion: str("0.00001")},
			{ModelID: "beta/baz", Prompt: str("0")},
		},
	}
	if errReplace := catalog.ReplaceSnapshot(context.Background(), conn, snapshot); errReplace != nil {
		t.Fatalf("seed: %v", errReplace)
	}
}

func newModelsEngine(conn *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewModelHandler(conn)
	engine.GET("/models", handler.Search)
	return engine
}

func TestModelHandler_Search(t *testing.T) {
	conn := openTestDB(t)
	seedModels(t, conn)
	engine := newModelsEngine(conn)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models?company=acme", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var body struct {
		Models []catalog.Model `json:"models"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &body); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if len(body.Models) != 1 || body.Models[0].ID != "acme/foo" {
		t.Fatalf("unexpected models: %+v", body.Models)
	}
	if body.Models[0].PromptPrice == nil || *body.Models[0].PromptPrice != 2.0 {
		t.Fatalf("expected normalized prompt price 2.0, got %v", body.Models[0].PromptPrice)
	}
}

func TestModelHandler_SearchPriceBounds(t *testing.T) {
	conn := openTestDB(t)
	seedModels(t, conn)
	engine := newModelsEngine(conn)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models?min_price=2&min_price_inclusive=false", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var body struct {
		Models []catalog.Model `json:"models"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &body); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if len(body.Models) != 0 {
		t.Fatalf("expected exclusive bound to drop the 2.0 price, got %+v", body.Models)
	}
}

func TestModelHandler_SearchRejectsBadQuery(t *testing.T) {
	conn := openTestDB(t)
	engine := newModelsEngine(conn)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models?is_free=banana", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed boolean, got %d", w.Code)
	}
}
