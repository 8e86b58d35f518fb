package panel

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
)

const (
	msgNoStore         = "Primero crea una tienda."
	msgStoreRequired   = "Nombre, slug y WhatsApp son obligatorios."
	msgProductRequired = "Nombre y precio son obligatorios."
	msgZoneRequired    = "Nombre y precio son obligatorios."
	msgCouponRequired  = "Código y % de descuento son obligatorios."
	msgStatusRequired  = "El estado es obligatorio."
)

var validate = validator.New()

// StoreForm is the store create/update form. Slug is only used when creating.
type StoreForm struct {
	Name           string `json:"name" validate:"required"`
	Slug           string `json:"slug"`
	WhatsAppNumber string `json:"whatsapp_number" validate:"required"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
}

func (f *StoreForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = strings.TrimSpace(f.Slug)
	f.WhatsAppNumber = strings.TrimSpace(f.WhatsAppNumber)
	f.LogoURL = strings.TrimSpace(f.LogoURL)
	f.PrimaryColor = strings.TrimSpace(f.PrimaryColor)
}

func (f StoreForm) createRequest() backend.CreateStoreRequest {
	return backend.CreateStoreRequest{
		Name:           f.Name,
		Slug:           f.Slug,
		WhatsAppNumber: f.WhatsAppNumber,
		LogoURL:        optional(f.LogoURL),
		PrimaryColor:   optional(f.PrimaryColor),
	}
}

func (f StoreForm) updateRequest() backend.UpdateStoreRequest {
	return backend.UpdateStoreRequest{
		Name:           f.Name,
		WhatsAppNumber: f.WhatsAppNumber,
		LogoURL:        optional(f.LogoURL),
		PrimaryColor:   optional(f.PrimaryColor),
	}
}

// ProductForm adds a product. Stock and MinStock default to zero; new products are active.
type ProductForm struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
}

func (f *ProductForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Category = strings.TrimSpace(f.Category)
}

func (f ProductForm) request() backend.CreateProductRequest {
	return backend.CreateProductRequest{
		Name:        f.Name,
		Description: optional(f.Description),
		Price:       f.Price,
		ImageURL:    optional(f.ImageURL),
		Category:    optional(f.Category),
		IsActive:    true,
		Stock:       f.Stock,
		MinStock:    f.MinStock,
	}
}

// ZoneForm adds a delivery zone. A zero price is allowed.
type ZoneForm struct {
	Name         string   `json:"name" validate:"required"`
	Price        float64  `json:"price" validate:"gte=0"`
	MinTotalFree *float64 `json:"min_total_free"`
}

func (f *ZoneForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f ZoneForm) request() backend.CreateDeliveryZoneRequest {
	return backend.CreateDeliveryZoneRequest{
		Name:         f.Name,
		Price:        f.Price,
		MinTotalFree: f.MinTotalFree,
	}
}

// CouponForm adds a percent coupon. New coupons are active.
type CouponForm struct {
	Code     string   `json:"code" validate:"required"`
	Percent  float64  `json:"percent" validate:"gt=0"`
	MinTotal *float64 `json:"min_total"`
}

func (f *CouponForm) normalize() {
	f.Code = strings.TrimSpace(f.Code)
}

func (f CouponForm) request() backend.CreateCouponRequest {
	return backend.CreateCouponRequest{
		Code:     f.Code,
		Percent:  f.Percent,
		MinTotal: f.MinTotal,
		Active:   true,
	}
}

type OrderStatusForm struct {
	Status string `json:"status" validate:"required"`
}

func (f *OrderStatusForm) normalize() {
	f.Status = strings.TrimSpace(f.Status)
}

// valid runs the struct rules. The panel reports one fixed message per form, so individual
// field errors are not surfaced.
func valid(form any) bool {
	return validate.Struct(form) == nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
