package panel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/money"
	"github.com/angelmondragon/pedidos-storefront/pkg/uri"
)

const (
	msgNoStoreSelected = "No hay tienda seleccionada."

	msgProductsUnavailable = "No se pudieron cargar los productos."
	msgProductsEmpty       = "Todavía no hay productos para esta tienda."
	msgProductsError       = "Error cargando productos."

	msgZonesUnavailable = "No se pudieron cargar las zonas."
	msgZonesEmpty       = "No hay zonas configuradas."
	msgZonesError       = "Error cargando zonas."

	msgCouponsUnavailable = "No se pudieron cargar los cupones."
	msgCouponsEmpty       = "No hay cupones configurados."
	msgCouponsError       = "Error cargando cupones."

	msgOrdersUnavailable = "No se pudieron cargar los pedidos."
	msgOrdersEmpty       = "No hay pedidos para esta tienda."
	msgOrdersError       = "Error cargando pedidos."
)

// FormResult is the inline status shown under a panel form.
type FormResult struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

func okResult(status string) FormResult { return FormResult{OK: true, Status: status} }

func failResult(status string) FormResult { return FormResult{Status: status} }

type StoreView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
	Badge          string  `json:"badge"`
	CatalogURL     string  `json:"catalog_url"`
}

// StoreResult answers a store save or load. Dashboard is only set on success.
type StoreResult struct {
	FormResult
	Badge     string     `json:"badge"`
	Store     *StoreView `json:"store,omitempty"`
	Dashboard *Dashboard `json:"dashboard,omitempty"`
}

// Dashboard is every listing of the panel, refreshed after the store changes.
type Dashboard struct {
	Zones    ListView     `json:"zones"`
	Coupons  ListView     `json:"coupons"`
	Products ProductsView `json:"products"`
	Orders   OrdersView   `json:"orders"`
	Stats    *StatsView   `json:"stats"`
}

type ProductRow struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    string `json:"stock"`
	Price    string `json:"price"`
	LowStock bool   `json:"low_stock"`
	Active   bool   `json:"active"`
}

// ProductsView is the products table. Message replaces the table when set.
type ProductsView struct {
	Rows    []ProductRow `json:"rows"`
	Message string       `json:"message,omitempty"`
}

// ListView is a plain bullet list such as zones or coupons.
type ListView struct {
	Lines   []string `json:"lines"`
	Message string   `json:"message,omitempty"`
}

type OrderRow struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Date     string `json:"date"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Total    string `json:"total"`
}

type OrdersView struct {
	Rows    []OrderRow `json:"rows"`
	Message string     `json:"message,omitempty"`
}

type StatsView struct {
	TodayOrders int    `json:"today_orders"`
	TodayTotal  string `json:"today_total"`
	Last7Orders int    `json:"last7_orders"`
	Last7Total  string `json:"last7_total"`
}

// ResourceResult answers a product, zone or coupon form with the refreshed listing.
type ResourceResult[V any] struct {
	FormResult
	Listing *V `json:"listing,omitempty"`
}

type OrderDetail struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func storeView(store backend.Store, origin string) *StoreView {
	return &StoreView{
		ID:             store.ID,
		Name:           store.Name,
		Slug:           store.Slug,
		WhatsAppNumber: store.WhatsAppNumber,
		LogoURL:        store.LogoURL,
		PrimaryColor:   store.PrimaryColor,
		Badge:          storeBadge(store.ID),
		CatalogURL:     CatalogURL(origin, store.Slug),
	}
}

func storeBadge(id int64) string {
	return "Tienda #" + strconv.FormatInt(id, 10)
}

// CatalogURL is the storefront link handed to the merchant.
func CatalogURL(origin, slug string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	return origin + "/catalog.html?tienda=" + uri.EncodeComponent(slug)
}

func productRows(products []backend.Product) ProductsView {
	if len(products) == 0 {
		return ProductsView{Rows: []ProductRow{}, Message: msgProductsEmpty}
	}
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		row := ProductRow{
			ID:       p.ID,
			Name:     p.Name,
			Category: "-",
			Stock:    "-",
			Price:    money.Format(p.Price),
			LowStock: lowStock(p),
			Active:   p.IsActive,
		}
		if p.Category != nil && *p.Category != "" {
			row.Category = *p.Category
		}
		if p.Stock != nil {
			row.Stock = strconv.Itoa(*p.Stock)
		}
		rows = append(rows, row)
	}
	return ProductsView{Rows: rows}
}

// lowStock flags products whose tracked stock fell to or below a configured minimum.
func lowStock(p backend.Product) bool {
	return p.MinStock > 0 && p.Stock != nil && *p.Stock <= p.MinStock
}

func zoneLines(zones []backend.DeliveryZone) ListView {
	if len(zones) == 0 {
		return ListView{Lines: []string{}, Message: msgZonesEmpty}
	}
	lines := make([]string, 0, len(zones))
	for _, z := range zones {
		line := z.Name + ": " + money.Format(z.Price)
		if money.Positive(z.MinTotalFree) {
			line += " (gratis desde " + money.Format(*z.MinTotalFree) + ")"
		}
		lines = append(lines, line)
	}
	return ListView{Lines: lines}
}

func couponLines(coupons []backend.Coupon) ListView {
	if len(coupons) == 0 {
		return ListView{Lines: []string{}, Message: msgCouponsEmpty}
	}
	lines := make([]string, 0, len(coupons))
	for _, c := range coupons {
		line := c.Code + ": " + c.Percent.String() + "%"
		if money.Positive(c.MinTotal) {
			line += " (mínimo " + money.Format(*c.MinTotal) + ")"
		}
		lines = append(lines, line)
	}
	return ListView{Lines: lines}
}

func orderRows(orders []backend.Order) OrdersView {
	if len(orders) == 0 {
		return OrdersView{Rows: []OrderRow{}, Message: msgOrdersEmpty}
	}
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		customer := "-"
		if o.CustomerName != nil && *o.CustomerName != "" {
			customer = *o.CustomerName
		}
		rows = append(rows, OrderRow{
			ID:       o.ID,
			Label:    "#" + strconv.FormatInt(o.ID, 10),
			Date:     orderDate(o.CreatedAt),
			Customer: customer,
			Status:   o.Status,
			Total:    money.Format(o.Total),
		})
	}
	return OrdersView{Rows: rows}
}

// orderDate renders an ISO timestamp as "YYYY-MM-DD HH:MM".
func orderDate(createdAt string) string {
	date := strings.Replace(createdAt, "T", " ", 1)
	if len(date) > 16 {
		date = date[:16]
	}
	return date
}

func statsView(s backend.StatsSummary) *StatsView {
	return &StatsView{
		TodayOrders: s.TodayOrders,
		TodayTotal:  money.Format(s.TodayTotal),
		Last7Orders: s.Last7Orders,
		Last7Total:  money.Format(s.Last7Total),
	}
}

// orderDetailText formats one order as the plain-text detail block.
func orderDetailText(o backend.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido #%d\n", o.ID)
	fmt.Fprintf(&b, "Estado: %s\n", o.Status)
	writeLine(&b, "Cliente: ", o.CustomerName)
	writeLine(&b, "Dirección: ", o.CustomerAddress)
	writeLine(&b, "Entrega: ", o.DeliveryType)
	writeLine(&b, "Pago: ", o.PaymentMethod)
	b.WriteString("\nItems:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d (%s)\n", it.ProductName, it.Quantity, money.Format(it.UnitPrice))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", money.Format(o.Subtotal))
	if o.DeliveryPrice.IsPositive() {
		fmt.Fprintf(&b, "Envío: %s (%s)\n", money.Format(o.DeliveryPrice), deref(o.DeliveryZoneName))
	}
	if o.DiscountValue.IsPositive() {
		fmt.Fprintf(&b, "Descuento: -%s (%s)\n", money.Format(o.DiscountValue), deref(o.CouponCode))
	}
	fmt.Fprintf(&b, "Total: %s\n", money.Format(o.Total))
	if o.CustomerNote != nil && *o.CustomerNote != "" {
		fmt.Fprintf(&b, "\nComentario: %s\n", *o.CustomerNote)
	}
	return b.String()
}

func writeLine(b *strings.Builder, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	b.WriteString(label + *value + "\n")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
