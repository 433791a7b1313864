package pos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartpos/terminal/internal/models"
	"github.com/smartpos/terminal/internal/persistence"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Status is the transient store state surfaced to the UI.
// Saving is feedback only and must not be used for correctness.
type Status struct {
	Loaded     bool `json:"isLoaded"`
	Saving     bool `json:"isSaving"`
	Persistent bool `json:"isPersistent"`
}

// Store is the in-memory state container for the terminal: product
// catalog, active cart, and sales ledger. All mutations are atomic to
// callers; persistence happens in the background, debounced for catalog
// edits and immediate for sales.
type Store struct {
	gateway *persistence.Gateway
	seed    []models.Product
	log     *slog.Logger
	now     func() time.Time

	mu         sync.RWMutex
	products   []models.Product
	cart       []models.CartItem
	sales      []models.Sale
	loaded     bool
	persistent bool

	productFlush *Flusher
	salesFlush   *Flusher
}

// New creates a store. Open must be called before any operation;
// mutations before Open are no-ops. The seed catalog is installed when
// no products survive loading.
func New(gateway *persistence.Gateway, seed []models.Product, debounce time.Duration, log *slog.Logger) *Store {
	s := &Store{
		gateway: gateway,
		seed:    seed,
		log:     log,
		now:     time.Now,
	}

	s.productFlush = NewFlusher(debounce, func(ctx context.Context) {
		s.gateway.SaveProducts(ctx, s.Products())
	})
	s.salesFlush = NewFlusher(0, func(ctx context.Context) {
		s.gateway.SaveSales(ctx, s.Sales())
	})

	return s
}

// Open requests persistent storage and loads products and sales from the
// gateway. An empty catalog is replaced by the seed catalog, which is
// then persisted.
func (s *Store) Open(ctx context.Context) {
	persistent := s.gateway.RequestPersistent()

	products := s.gateway.LoadProducts(ctx)
	sales := s.gateway.LoadSales(ctx)

	seeded := false
	if len(products) == 0 {
		products = make([]models.Product, len(s.seed))
		copy(products, s.seed)
		seeded = true
	}

	s.mu.Lock()
	s.products = products
	s.sales = sales
	s.cart = nil
	s.loaded = true
	s.persistent = persistent
	s.mu.Unlock()

	if seeded {
		s.productFlush.Schedule()
	}

	s.log.Info("store loaded",
		"products", len(products),
		"sales", len(sales),
		"seeded", seeded,
		"persistent", persistent,
	)
}

// Close flushes pending writes and stops the schedulers
func (s *Store) Close() {
	s.productFlush.Close()
	s.salesFlush.Close()
}

// Status returns the transient store flags
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Loaded:     s.loaded,
		Saving:     s.productFlush.Saving() || s.salesFlush.Saving(),
		Persistent: s.persistent,
	}
}

// Products returns a snapshot of the catalog
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Cart returns a snapshot of the active cart
func (s *Store) Cart() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// Sales returns a snapshot of the ledger, most recent first
func (s *Store) Sales() []models.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

// AddToCart adds one unit of the product to the cart: an existing line
// gets its quantity incremented, otherwise a new line is appended. The
// cart holds at most one line per product.
func (s *Store) AddToCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrProductNotFound
	}

	var product *models.Product
	for i := range s.products {
		if s.products[i].ID == productID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		return ErrProductNotFound
	}

	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart[i].Quantity++
			return nil
		}
	}

	s.cart = append(s.cart, models.CartItem{Product: *product, Quantity: 1})
	return nil
}

// RemoveFromCart drops the cart line for the product; no-op when absent
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLineLocked(productID)
}

// UpdateQuantity sets the quantity of a cart line. Zero or negative
// removes the line; an unknown product is a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLineLocked(productID)
		return
	}

	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart[i].Quantity = quantity
			return
		}
	}
}

// ClearCart empties the cart unconditionally
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Total returns the cart total: sum of price times quantity per line
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartTotal(s.cart)
}

// Checkout turns the current cart into an immutable Sale: items are
// value snapshots, the total is fixed at creation, the sale is prepended
// to the ledger (most recent first), and the cart is emptied. An empty
// cart produces no sale and no error. The ledger write is flushed
// immediately, not debounced.
func (s *Store) Checkout() *models.Sale {
	s.mu.Lock()

	if !s.loaded || len(s.cart) == 0 {
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	items := make([]models.CartItem, len(s.cart))
	copy(items, s.cart)

	sale := models.Sale{
		ID:        uuid.NewString(),
		Items:     items,
		Total:     cartTotal(items),
		Date:      now.Format("02.01.2006, 15:04:05"),
		Timestamp: now.UnixMilli(),
	}

	s.sales = append([]models.Sale{sale}, s.sales...)
	s.cart = nil
	s.mu.Unlock()

	s.salesFlush.Now()
	s.log.Info("sale recorded", "sale_id", sale.ID, "items", len(sale.Items), "total", sale.Total)

	return &sale
}

// AddProduct validates the product, assigns it a fresh identity, and
// appends it to the catalog
func (s *Store) AddProduct(product models.Product) (models.Product, error) {
	product.ID = uuid.NewString()
	if err := product.Validate(); err != nil {
		return models.Product{}, errors.Join(ErrInvalidProduct, err)
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return models.Product{}, ErrInvalidProduct
	}
	s.products = append(s.products, product)
	s.mu.Unlock()

	s.productFlush.Schedule()
	return product, nil
}

// UpdateProduct merges the patch into the matching product. Historical
// sales keep their snapshots; only the catalog entry changes.
func (s *Store) UpdateProduct(id string, patch models.ProductPatch) (models.Product, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, ErrProductNotFound
	}

	merged := patch.Apply(s.products[idx])
	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return models.Product{}, errors.Join(ErrInvalidProduct, err)
	}

	s.products[idx] = merged
	s.mu.Unlock()

	s.productFlush.Schedule()
	return merged, nil
}

// DeleteProduct removes the product from the catalog. Cart lines
// referencing the product are left in place on purpose: the line still
// carries its own copy of the product, and historical sales must never
// change. See DESIGN.md for the flagged ambiguity around the live cart.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrProductNotFound
	}

	s.products = append(s.products[:idx], s.products[idx+1:]...)
	s.mu.Unlock()

	s.productFlush.Schedule()
	return nil
}

// ClearSales empties the ledger unconditionally and flushes immediately
func (s *Store) ClearSales() {
	s.mu.Lock()
	s.sales = nil
	s.mu.Unlock()

	s.salesFlush.Now()
}

// TodayStats aggregates the sales recorded since local midnight.
// Selection is by the numeric timestamp, never the display date string.
func (s *Store) TodayStats() models.TodayStats {
	midnight := s.midnight().UnixMilli()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.TodayStats
	for _, sale := range s.sales {
		if sale.Timestamp >= midnight {
			stats.Count++
			stats.Total += sale.Total
		}
	}
	return stats
}

// Export bundles the persisted state into a backup document
func (s *Store) Export(ctx context.Context) models.Backup {
	return s.gateway.Export(ctx)
}

// Import replaces the catalog and ledger with the contents of a backup
// document. On validation failure the in-memory state is untouched.
func (s *Store) Import(ctx context.Context, r io.Reader) error {
	products, sales, err := s.gateway.Import(ctx, r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = products
	s.sales = sales
	s.mu.Unlock()

	return nil
}

// ClearAll wipes both in-memory and persisted state, then reinstalls the
// seed catalog
func (s *Store) ClearAll(ctx context.Context) {
	s.gateway.ClearAll(ctx)

	seed := make([]models.Product, len(s.seed))
	copy(seed, s.seed)

	s.mu.Lock()
	s.products = seed
	s.cart = nil
	s.sales = nil
	s.mu.Unlock()

	s.productFlush.Schedule()
}

func (s *Store) removeLineLocked(productID string) {
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

func (s *Store) midnight() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
