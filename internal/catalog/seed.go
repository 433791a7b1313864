// Package catalog provides the default product catalog used when the
// terminal starts with an empty store, optionally overridden by a TOML
// seed file.
package catalog

import (
	"log/slog"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/smartpos/terminal/internal/models"
)

// Default returns the built-in seed catalog
func Default() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Учебник Python", Price: 1500, Icon: "BookOpen", Category: models.CategoryBooks, Slot: 1},
		{ID: "2", Name: "Роман", Price: 650, Icon: "BookOpen", Category: models.CategoryBooks, Slot: 1},
		{ID: "3", Name: "Шариковая ручка", Price: 50, Icon: "Pen", Category: models.CategoryPens, Slot: 2},
		{ID: "4", Name: "Гелевая ручка", Price: 120, Icon: "Pen", Category: models.CategoryPens, Slot: 2},
		{ID: "5", Name: "Набор наклеек", Price: 200, Icon: "Tags", Category: models.CategoryStickers, Slot: 3},
		{ID: "6", Name: "Виниловая наклейка", Price: 80, Icon: "Tags", Category: models.CategoryStickers, Slot: 3},
		{ID: "7", Name: "Обложка для книги", Price: 350, Icon: "BookMarked", Category: models.CategoryCovers, Slot: 4},
		{ID: "8", Name: "Обложка на паспорт", Price: 450, Icon: "BookMarked", Category: models.CategoryCovers, Slot: 4},
		{ID: "9", Name: "MacBook Pro", Price: 180000, Icon: "Laptop", Category: models.CategoryLaptops, Slot: 5},
		{ID: "10", Name: "Lenovo ThinkPad", Price: 95000, Icon: "Laptop", Category: models.CategoryLaptops, Slot: 5},
		{ID: "11", Name: "Механическая клавиатура", Price: 8500, Icon: "Keyboard", Category: models.CategoryKeyboards, Slot: 6},
		{ID: "12", Name: "Беспроводная клавиатура", Price: 4500, Icon: "Keyboard", Category: models.CategoryKeyboards, Slot: 6},
		{ID: "13", Name: "Игровая мышь", Price: 5500, Icon: "Mouse", Category: models.CategoryMice, Slot: 1},
		{ID: "14", Name: "Беспроводная мышь", Price: 2500, Icon: "Mouse", Category: models.CategoryMice, Slot: 1},
		{ID: "15", Name: "Canon EOS R5", Price: 350000, Icon: "Camera", Category: models.CategoryCameras, Slot: 2},
		{ID: "16", Name: "Sony Alpha A7", Price: 180000, Icon: "Camera", Category: models.CategoryCameras, Slot: 2},
		{ID: "17", Name: "Монитор 27\"", Price: 35000, Icon: "Monitor", Category: models.CategoryMonitors, Slot: 3},
		{ID: "18", Name: "Монитор 32\" 4K", Price: 55000, Icon: "Monitor", Category: models.CategoryMonitors, Slot: 3},
		{ID: "19", Name: "Лазерный принтер", Price: 25000, Icon: "Printer", Category: models.CategoryPrinters, Slot: 4},
		{ID: "20", Name: "МФУ цветной", Price: 45000, Icon: "Printer", Category: models.CategoryPrinters, Slot: 4},
	}
}

type seedProduct struct {
	ID       string  `toml:"id"`
	Name     string  `toml:"name"`
	Price    float64 `toml:"price"`
	Icon     string  `toml:"icon"`
	Category string  `toml:"category"`
	Slot     int     `toml:"slot"`
}

type seedFile struct {
	Product []seedProduct `toml:"product"`
}

// Load reads the seed catalog from the TOML file at path, falling back to
// the built-in defaults when the path is empty, the file is missing or
// malformed, or no entry survives validation. Entries without an explicit
// id are numbered by position.
func Load(path string, log *slog.Logger) []models.Product {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("seed file unreadable, using built-in catalog", "path", path, "error", err)
		return Default()
	}

	var seed seedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		log.Warn("seed file malformed, using built-in catalog", "path", path, "error", err)
		return Default()
	}

	products := make([]models.Product, 0, len(seed.Product))
	for i, sp := range seed.Product {
		p := models.Product{
			ID:       sp.ID,
			Name:     sp.Name,
			Price:    sp.Price,
			Icon:     sp.Icon,
			Category: models.Category(sp.Category),
			Slot:     sp.Slot,
		}
		if p.ID == "" {
			p.ID = strconv.Itoa(i + 1)
		}
		if err := p.Validate(); err != nil {
			log.Warn("skipping invalid seed product", "index", i, "error", err)
			continue
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		log.Warn("seed file has no valid products, using built-in catalog", "path", path)
		return Default()
	}

	return products
}
