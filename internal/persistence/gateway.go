package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/smartpos/terminal/internal/models"
	"github.com/smartpos/terminal/internal/storage"
)

// Persisted keys, shared by the primary store and the fallback mirror
const (
	keyProducts = "products"
	keySales    = "sales"
)

var (
	// ErrInvalidBackup means the imported document has no usable products list
	ErrInvalidBackup = errors.New("backup is missing a products list")
	// ErrUnreadableBackup means the backup input could not be read or parsed
	ErrUnreadableBackup = errors.New("backup could not be read")
)

// Gateway exposes typed persistence operations over the store adapter and
// owns the backup file format. Saves are fire-and-forget: serialization
// failures are logged, storage failures are absorbed by the adapter.
type Gateway struct {
	store *storage.Adapter
	log   *slog.Logger
}

// NewGateway creates a persistence gateway over the given store adapter
func NewGateway(store *storage.Adapter, log *slog.Logger) *Gateway {
	return &Gateway{
		store: store,
		log:   log,
	}
}

// SaveProducts persists the product catalog
func (g *Gateway) SaveProducts(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		g.log.Error("failed to encode products", "error", err)
		return
	}
	g.store.Save(ctx, keyProducts, data)
}

// LoadProducts reads the product catalog. An empty stored list counts as
// absent so a wiped primary can still recover the catalog from the mirror.
// Corrupt data degrades to an empty catalog, never an error.
func (g *Gateway) LoadProducts(ctx context.Context) []models.Product {
	data, ok := g.store.Load(ctx, keyProducts, emptyJSONList)
	if !ok {
		return []models.Product{}
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		g.log.Warn("stored products are corrupt, starting empty", "error", err)
		return []models.Product{}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products
}

// SaveSales persists the sales ledger
func (g *Gateway) SaveSales(ctx context.Context, sales []models.Sale) {
	data, err := json.Marshal(sales)
	if err != nil {
		g.log.Error("failed to encode sales", "error", err)
		return
	}
	g.store.Save(ctx, keySales, data)
}

// LoadSales reads the sales ledger. Unlike products, an empty ledger is a
// legitimate stored state and does not trigger fallback recovery.
func (g *Gateway) LoadSales(ctx context.Context) []models.Sale {
	data, ok := g.store.Load(ctx, keySales, nil)
	if !ok {
		return []models.Sale{}
	}

	var sales []models.Sale
	if err := json.Unmarshal(data, &sales); err != nil {
		g.log.Warn("stored sales are corrupt, starting empty", "error", err)
		return []models.Sale{}
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales
}

// Export bundles the current products and sales into a backup document
func (g *Gateway) Export(ctx context.Context) models.Backup {
	return models.Backup{
		Version:    models.BackupVersion,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Products:   g.LoadProducts(ctx),
		Sales:      g.LoadSales(ctx),
	}
}

// ExportFilename returns the download filename for a backup taken now,
// e.g. smartpos-backup-2026-08-28.json
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("smartpos-backup-%s.json", now.Format("2006-01-02"))
}

// Import parses a backup document and persists its collections,
// overwriting current data. The products list is mandatory; a missing or
// malformed sales list degrades to empty. On any validation failure the
// stored state is left untouched.
func (g *Gateway) Import(ctx context.Context, r io.Reader) ([]models.Product, []models.Sale, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableBackup, err)
	}

	var raw struct {
		Version  int             `json:"version"`
		Products json.RawMessage `json:"products"`
		Sales    json.RawMessage `json:"sales"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableBackup, err)
	}

	if len(raw.Products) == 0 {
		return nil, nil, ErrInvalidBackup
	}

	var products []models.Product
	if err := json.Unmarshal(raw.Products, &products); err != nil || products == nil {
		return nil, nil, ErrInvalidBackup
	}

	sales := []models.Sale{}
	if len(raw.Sales) > 0 {
		if err := json.Unmarshal(raw.Sales, &sales); err != nil || sales == nil {
			sales = []models.Sale{}
		}
	}

	g.SaveProducts(ctx, products)
	g.SaveSales(ctx, sales)

	g.log.Info("backup imported",
		"version", raw.Version,
		"products", len(products),
		"sales", len(sales),
	)

	return products, sales, nil
}

// ClearAll wipes every persisted collection from both backends
func (g *Gateway) ClearAll(ctx context.Context) {
	g.store.Clear(ctx)
}

// RequestPersistent forwards the advisory persistence request
func (g *Gateway) RequestPersistent() bool {
	return g.store.RequestPersistent()
}

// emptyJSONList reports whether the payload is a JSON null, an empty
// list, or unparseable
func emptyJSONList(data []byte) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return true
	}
	return len(items) == 0
}
