package models

// CartItem is a product with the quantity currently in the cart.
// Quantity is always positive; a zero or negative quantity means the
// line must be removed, never stored.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price times quantity for this line
func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Sale is an immutable record of one completed checkout.
// Items are value snapshots taken at checkout time: later catalog edits
// or deletions never change a historical sale. Total is computed once at
// creation and never recomputed.
type Sale struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Date      string     `json:"date"`
	Timestamp int64      `json:"timestamp"`
}

// TodayStats aggregates the sales recorded since local midnight
type TodayStats struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// BackupVersion is the current backup document format version
const BackupVersion = 1

// Backup is the export/import document bundling all persisted data
type Backup struct {
	Version    int       `json:"version"`
	ExportDate string    `json:"exportDate"`
	Products   []Product `json:"products"`
	Sales      []Sale    `json:"sales"`
}
