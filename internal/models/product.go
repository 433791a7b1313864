package models

import "fmt"

// Category identifies a product category
// The set of categories is fixed; new ones require a code change
type Category string

const (
	CategoryBooks     Category = "books"
	CategoryPens      Category = "pens"
	CategoryStickers  Category = "stickers"
	CategoryCovers    Category = "covers"
	CategoryLaptops   Category = "laptops"
	CategoryKeyboards Category = "keyboards"
	CategoryMice      Category = "mice"
	CategoryCameras   Category = "cameras"
	CategoryMonitors  Category = "monitors"
	CategoryPrinters  Category = "printers"
)

// Categories lists all valid categories in display order
var Categories = []Category{
	CategoryBooks,
	CategoryPens,
	CategoryStickers,
	CategoryCovers,
	CategoryLaptops,
	CategoryKeyboards,
	CategoryMice,
	CategoryCameras,
	CategoryMonitors,
	CategoryPrinters,
}

// CategoryLabels maps categories to their display labels
var CategoryLabels = map[Category]string{
	CategoryBooks:     "Книги",
	CategoryPens:      "Ручки",
	CategoryStickers:  "Наклейки",
	CategoryCovers:    "Обложки",
	CategoryLaptops:   "Ноутбуки",
	CategoryKeyboards: "Клавиатуры",
	CategoryMice:      "Мышки",
	CategoryCameras:   "Камеры",
	CategoryMonitors:  "Мониторы",
	CategoryPrinters:  "Принтеры",
}

// Valid reports whether the category is one of the fixed set
func (c Category) Valid() bool {
	_, ok := CategoryLabels[c]
	return ok
}

// SlotCount is the number of physical storage slots in the terminal
const SlotCount = 6

// Product represents a catalog item available for sale
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Icon     string   `json:"icon"`
	Category Category `json:"category"`
	Slot     int      `json:"slot"`
}

// Validate checks the product fields against the catalog rules.
// The icon key is deliberately unchecked: the icon table lives in the UI.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must be non-negative, got %v", p.Price)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown product category %q", p.Category)
	}
	if p.Slot < 1 || p.Slot > SlotCount {
		return fmt.Errorf("product slot must be 1..%d, got %d", SlotCount, p.Slot)
	}
	return nil
}

// ProductPatch carries a partial product update.
// Nil fields are left unchanged by the merge.
type ProductPatch struct {
	Name     *string   `json:"name,omitempty"`
	Price    *float64  `json:"price,omitempty"`
	Icon     *string   `json:"icon,omitempty"`
	Category *Category `json:"category,omitempty"`
	Slot     *int      `json:"slot,omitempty"`
}

// Apply merges the patch into the product and returns the result
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Icon != nil {
		product.Icon = *p.Icon
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Slot != nil {
		product.Slot = *p.Slot
	}
	return product
}
