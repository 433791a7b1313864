package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartpos/terminal/internal/models"
	"github.com/smartpos/terminal/internal/persistence"
	"github.com/smartpos/terminal/internal/pos"
	"github.com/smartpos/terminal/internal/storage"
	"github.com/smartpos/terminal/pkg/logger"
)

func testSeed() []models.Product {
	return []models.Product{
		{ID: "p-book", Name: "Учебник Python", Price: 1500, Icon: "BookOpen", Category: models.CategoryBooks, Slot: 1},
		{ID: "p-pen", Name: "Шариковая ручка", Price: 50, Icon: "Pen", Category: models.CategoryPens, Slot: 2},
	}
}

func newTestStore(t *testing.T) *pos.Store {
	t.Helper()

	dir := t.TempDir()
	primary, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	fallback := storage.NewMirrorStore(filepath.Join(dir, "backup.json"), 1024*1024)
	adapter := storage.NewAdapter(primary, fallback, logger.New("error"))
	gateway := persistence.NewGateway(adapter, logger.New("error"))

	store := pos.New(gateway, testSeed(), 10*time.Millisecond, logger.New("error"))
	store.Open(context.Background())
	t.Cleanup(store.Close)

	return store
}
