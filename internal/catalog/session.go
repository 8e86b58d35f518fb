package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/internal/checkout"
	"github.com/angelmondragon/pedidos-storefront/internal/delivery"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/money"
)

// Session is one shopper's view of a store: the loaded catalog, the cart and the selected
// delivery zone. All operations are serialised by the session mutex.
type Session struct {
	mu       sync.Mutex
	id       string
	slug     string
	catalog  backend.Catalog
	products map[int64]backend.Product
	selector *delivery.Selector
	cart     *cart.Cart
	zone     string
}

func newSession(slug string, catalog backend.Catalog) *Session {
	products := make(map[int64]backend.Product, len(catalog.Products))
	for _, product := range catalog.Products {
		products[product.ID] = product
	}
	return &Session{
		slug:     slug,
		catalog:  catalog,
		products: products,
		selector: delivery.NewSelector(catalog.DeliveryZones),
		cart:     cart.New(),
	}
}

func (s *Session) Slug() string { return s.slug }

// AddToCart adds one unit of a catalog product. Stock is informational and not checked.
func (s *Session) AddToCart(productID int64) (cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return cart.Line{}, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado").
			WithDetails(map[string]any{"product_id": productID})
	}
	return s.cart.Add(product.ID, product.Name, product.Price), nil
}

// SelectZone records the zone select value and returns the delivery info line for it.
func (s *Session) SelectZone(raw string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selector.Enabled() {
		s.zone = ""
		return s.selector.Describe("")
	}
	s.zone = raw
	return s.selector.Describe(raw)
}

// ResetCart empties the cart explicitly.
func (s *Session) ResetCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Reset()
}

// Checkout submits the cart with the session's zone selection. The cart is kept afterwards, so
// submitting again registers another order.
func (s *Session) Checkout(ctx context.Context, svc Submitter, input checkout.Input) (*checkout.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input.DeliveryZoneID = s.selector.ZoneID(s.zone)
	return svc.Submit(ctx, s.catalog.Store, s.cart, input)
}

// View renders the session into its view model.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	store := s.catalog.Store
	view := View{
		SessionID: s.id,
		Slug:      s.slug,
		Store: StoreHeader{
			ID:           store.ID,
			Name:         store.Name,
			Info:         "Pedidos por WhatsApp al +" + store.WhatsAppNumber,
			LogoURL:      store.LogoURL,
			PrimaryColor: store.PrimaryColor,
		},
		Products:   make([]ProductCard, 0, len(s.catalog.Products)),
		NoProducts: len(s.catalog.Products) == 0,
		Categories: categories(s.catalog.Products),
		Delivery: DeliveryView{
			Enabled:  s.selector.Enabled(),
			Options:  s.selector.Options(),
			Selected: s.zone,
			Info:     s.selector.Describe(s.zone),
			Types:    enums.DeliveryTypeValues(),
		},
		Cart:      s.cart.Summary(),
		CartLines: s.cart.Lines(),
	}
	for _, product := range s.catalog.Products {
		view.Products = append(view.Products, productCard(product))
	}
	return view
}

func productCard(product backend.Product) ProductCard {
	desc := ""
	if product.Description != nil {
		desc = *product.Description
	}
	soldOut := product.Stock != nil && *product.Stock == 0
	if product.Stock != nil {
		switch {
		case *product.Stock > 0:
			desc = appendDetail(desc, "Stock: "+strconv.Itoa(*product.Stock))
		case soldOut:
			desc = appendDetail(desc, soldOutLabel)
		}
	}
	button := addLabel
	if soldOut {
		button = soldOutLabel
	}
	return ProductCard{
		ID:          product.ID,
		Name:        product.Name,
		Description: desc,
		ImageURL:    product.ImageURL,
		Category:    product.Category,
		Price:       money.Format(product.Price),
		ButtonLabel: button,
		Disabled:    soldOut,
	}
}

func appendDetail(desc, detail string) string {
	if desc == "" {
		return detail
	}
	return desc + " · " + detail
}

// categories lists the distinct non-empty categories in first-seen order.
func categories(products []backend.Product) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, product := range products {
		if product.Category == nil || *product.Category == "" {
			continue
		}
		if _, ok := seen[*product.Category]; ok {
			continue
		}
		seen[*product.Category] = struct{}{}
		out = append(out, *product.Category)
	}
	return out
}
