package catalog

import (
	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/internal/delivery"
)

const (
	addLabel     = "Agregar"
	soldOutLabel = "Sin stock"
)

// View is the storefront page model.
type View struct {
	SessionID  string        `json:"session_id"`
	Slug       string        `json:"slug"`
	Store      StoreHeader   `json:"store"`
	Products   []ProductCard `json:"products"`
	NoProducts bool          `json:"no_products"`
	Categories []string      `json:"categories"`
	Delivery   DeliveryView  `json:"delivery"`
	Cart       cart.Summary  `json:"cart"`
	CartLines  []cart.Line   `json:"cart_lines"`
}

type StoreHeader struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Info         string  `json:"info"`
	LogoURL      *string `json:"logo_url"`
	PrimaryColor *string `json:"primary_color"`
}

// ProductCard is one product tile. Disabled is set only when stock is exactly zero.
type ProductCard struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	Price       string  `json:"price"`
	ButtonLabel string  `json:"button_label"`
	Disabled    bool    `json:"disabled"`
}

type DeliveryView struct {
	Enabled  bool              `json:"enabled"`
	Options  []delivery.Option `json:"options"`
	Selected string            `json:"selected"`
	Info     string            `json:"info"`
	Types    []string          `json:"types"`
}
