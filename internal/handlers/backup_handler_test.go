package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/smartpos/terminal/internal/models"
	"github.com/smartpos/terminal/pkg/logger"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestExportImport_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	handler := NewBackupHandler(store, logger.New("error"))

	store.AddToCart("p-book")
	store.Checkout()

	// Export reads persisted state; wait for the seed and checkout
	// flushes to land
	ok := waitFor(t, time.Second, func() bool {
		backup := store.Export(context.Background())
		return len(backup.Products) == len(testSeed()) && len(backup.Sales) == 1
	})
	if !ok {
		t.Fatal("flushes never drained")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/backup/export", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "smartpos-backup-") || !strings.Contains(disposition, ".json") {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	var backup models.Backup
	if err := json.NewDecoder(w.Body).Decode(&backup); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if backup.Version != models.BackupVersion {
		t.Errorf("version = %d, want %d", backup.Version, models.BackupVersion)
	}

	wantProducts := store.Products()
	wantSales := store.Sales()

	// Import the exported document back
	doc, err := json.Marshal(backup)
	if err != nil {
		t.Fatalf("marshal backup: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/backup/import", strings.NewReader(string(doc)))
	w = httptest.NewRecorder()
	handler.Import(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200: %s", w.Code, w.Body.String())
	}

	if got := store.Products(); !reflect.DeepEqual(got, wantProducts) {
		t.Errorf("products after round trip = %+v, want %+v", got, wantProducts)
	}
	if got := store.Sales(); !reflect.DeepEqual(got, wantSales) {
		t.Errorf("sales after round trip = %+v, want %+v", got, wantSales)
	}
}

func TestImport_InvalidProducts(t *testing.T) {
	store := newTestStore(t)
	handler := NewBackupHandler(store, logger.New("error"))

	before := store.Products()

	req := httptest.NewRequest(http.MethodPost, "/api/backup/import",
		strings.NewReader(`{"version":1,"products":"not-an-array"}`))
	w := httptest.NewRecorder()
	handler.Import(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected a descriptive error message")
	}

	if got := store.Products(); !reflect.DeepEqual(got, before) {
		t.Error("state mutated by rejected import")
	}
}

func TestImport_UnreadableBody(t *testing.T) {
	store := newTestStore(t)
	handler := NewBackupHandler(store, logger.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/api/backup/import", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.Import(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestClear_WipesEverything(t *testing.T) {
	store := newTestStore(t)
	handler := NewBackupHandler(store, logger.New("error"))

	store.AddToCart("p-pen")
	store.Checkout()

	if !waitFor(t, time.Second, func() bool { return !store.Status().Saving }) {
		t.Fatal("flushes never drained")
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/backup", nil)
	w := httptest.NewRecorder()
	handler.Clear(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(store.Sales()) != 0 {
		t.Error("sales survived clear")
	}
	if got := store.Products(); !reflect.DeepEqual(got, testSeed()) {
		t.Errorf("products after clear = %+v, want seed", got)
	}
}
