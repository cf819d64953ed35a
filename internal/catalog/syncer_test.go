package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelmirror/modelmirror/internal/models"
)

const syncTestPayload = `{"data":[
	{"id":"acme/foo","name":"Acme Foo","context_length":128000,
	 "architecture":{"input_modalities":["text"],"output_modalities":["text"]},
	 "pricing":{"prompt":"0.000002","completion":"0.00001"}},
	{"id":"beta/baz","name":"Beta Baz","context_length":200000}
]}`

func TestSyncOnce_FetchesAndStores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(syncTestPayload))
	}))
	defer server.Close()

	conn := openTestDB(t)
	syncer := &Syncer{
		db:       conn,
		url:      server.URL,
		interval: time.Minute,
		client:   server.Client(),
		now:      time.Now,
	}

	count, errSync := syncer.SyncOnce(context.Background())
	if errSync != nil {
		t.Fatalf("sync once: %v", errSync)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}

	var entry models.CatalogEntry
	if errFind := conn.First(&entry, "id = ?", "acme/foo").Error; errFind != nil {
		t.Fatalf("find entry: %v", errFind)
	}
	if entry.Company == nil || *entry.Company != "acme" {
		t.Fatalf("expected derived company")
	}

	var pricing models.Pricing
	if errFind := conn.First(&pricing, "model_id = ?", "acme/foo").Error; errFind != nil {
		t.Fatalf("find pricing: %v", errFind)
	}
	if pricing.Prompt == nil || *pricing.Prompt != "0.000002" {
		t.Fatalf("unexpected prompt price")
	}
}

func TestSyncOnce_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	conn := openTestDB(t)
	seedCatalog(t, conn)

	syncer := &Syncer{db: conn, url: server.URL, interval: time.Minute, client: server.Client(), now: time.Now}
	if _, errSync := syncer.SyncOnce(context.Background()); errSync == nil {
		t.Fatalf("expected error for upstream failure")
	}

	// A failed sync leaves the previous snapshot intact.
	var entryCount int64
	if errCount := conn.Model(&models.CatalogEntry{}).Count(&entryCount).Error; errCount != nil {
		t.Fatalf("count entries: %v", errCount)
	}
	if entryCount != 4 {
		t.Fatalf("expected previous snapshot to survive, got %d entries", entryCount)
	}
}

func TestSyncOnce_EmptyCatalogRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	conn := openTestDB(t)
	syncer := &Syncer{db: conn, url: server.URL, interval: time.Minute, client: server.Client(), now: time.Now}
	if _, errSync := syncer.SyncOnce(context.Background()); errSync == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
