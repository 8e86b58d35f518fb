package backend

import "github.com/shopspring/decimal"

// Store is the merchant record owned by the backend.
type Store struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
}

// Product is a catalog entry. Stock is nil when the store does not track it.
type Product struct {
	ID          int64           `json:"id"`
	StoreID     int64           `json:"store_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Category    *string         `json:"category"`
	IsActive    bool            `json:"is_active"`
	Stock       *int            `json:"stock"`
	MinStock    int             `json:"min_stock"`
}

type DeliveryZone struct {
	ID           int64            `json:"id"`
	StoreID      int64            `json:"store_id"`
	Name         string           `json:"name"`
	Price        decimal.Decimal  `json:"price"`
	MinTotalFree *decimal.Decimal `json:"min_total_free"`
}

type Coupon struct {
	ID       int64            `json:"id"`
	StoreID  int64            `json:"store_id"`
	Code     string           `json:"code"`
	Percent  decimal.Decimal  `json:"percent"`
	MinTotal *decimal.Decimal `json:"min_total"`
	Active   bool             `json:"active"`
}

// Catalog is the public view of one store returned by GET /catalog/{slug}.
type Catalog struct {
	Store         Store          `json:"store"`
	Products      []Product      `json:"products"`
	DeliveryZones []DeliveryZone `json:"delivery_zones"`
	Coupons       []Coupon       `json:"coupons"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Order is a priced order as computed by the backend.
type Order struct {
	ID               int64           `json:"id"`
	StoreID          int64           `json:"store_id"`
	CreatedAt        string          `json:"created_at"`
	CustomerName     *string         `json:"customer_name"`
	CustomerAddress  *string         `json:"customer_address"`
	CustomerNote     *string         `json:"customer_note"`
	DeliveryType     *string         `json:"delivery_type"`
	PaymentMethod    *string         `json:"payment_method"`
	Status           string          `json:"status"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryZoneName *string         `json:"delivery_zone_name"`
	DeliveryPrice    decimal.Decimal `json:"delivery_price"`
	CouponCode       *string         `json:"coupon_code"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	Total            decimal.Decimal `json:"total"`
	Items            []OrderItem     `json:"items"`
}

type StatsSummary struct {
	TodayOrders int             `json:"today_orders"`
	TodayTotal  decimal.Decimal `json:"today_total"`
	Last7Orders int             `json:"last7_orders"`
	Last7Total  decimal.Decimal `json:"last7_total"`
}

// OrderLine is one draft line. Prices are never sent; the backend reprices.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the order draft body for POST /orders. Unset optional fields are sent as null.
type CreateOrderRequest struct {
	StoreSlug       string      `json:"store_slug"`
	Items           []OrderLine `json:"items"`
	CustomerName    *string     `json:"customer_name"`
	CustomerAddress *string     `json:"customer_address"`
	CustomerNote    *string     `json:"customer_note"`
	DeliveryType    string      `json:"delivery_type"`
	PaymentMethod   *string     `json:"payment_method"`
	DeliveryZoneID  *int64      `json:"delivery_zone_id"`
	CouponCode      *string     `json:"coupon_code"`
}

type CreateStoreRequest struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
}

// UpdateStoreRequest omits the slug: it is fixed once the store exists.
type UpdateStoreRequest struct {
	Name           string  `json:"name"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	IsActive    bool    `json:"is_active"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
}

type CreateDeliveryZoneRequest struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	MinTotalFree *float64 `json:"min_total_free"`
}

type CreateCouponRequest struct {
	Code     string   `json:"code"`
	Percent  float64  `json:"percent"`
	MinTotal *float64 `json:"min_total"`
	Active   bool     `json:"active"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
