// Package checkout turns a cart into an order draft, registers it with the backend and
// produces the WhatsApp hand-off link.
package checkout

import (
	"context"
	"strings"

	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/metrics"
)

const (
	DefaultDeliveryType    = string(enums.DeliveryTypePickup)
	DefaultMessagingDomain = "wa.me"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart. No request is
// made and no link is produced.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")

// Input carries the shopper's checkout choices. Empty strings mean "not provided".
type Input struct {
	CustomerName    string
	CustomerAddress string
	CustomerNote    string
	DeliveryType    string
	PaymentMethod   string
	CouponCode      string
	DeliveryZoneID  *int64
}

func (in Input) normalized() Input {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.CustomerNote = strings.TrimSpace(in.CustomerNote)
	in.DeliveryType = strings.TrimSpace(in.DeliveryType)
	if in.DeliveryType == "" {
		in.DeliveryType = DefaultDeliveryType
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.CouponCode = strings.TrimSpace(in.CouponCode)
	return in
}

// BuildDraft assembles the order draft. Lines carry product ids and quantities only; the
// backend prices the order.
func BuildDraft(slug string, lines []cart.Line, input Input) backend.CreateOrderRequest {
	input = input.normalized()
	items := make([]backend.OrderLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	var zoneID *int64
	if input.DeliveryZoneID != nil {
		id := *input.DeliveryZoneID
		zoneID = &id
	}

	return backend.CreateOrderRequest{
		StoreSlug:       slug,
		Items:           items,
		CustomerName:    optional(input.CustomerName),
		CustomerAddress: optional(input.CustomerAddress),
		CustomerNote:    optional(input.CustomerNote),
		DeliveryType:    input.DeliveryType,
		PaymentMethod:   optional(input.PaymentMethod),
		DeliveryZoneID:  zoneID,
		CouponCode:      optional(input.CouponCode),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// OrderCreator registers order drafts.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
}

// Result is the outcome of a checkout. Degraded is set when the order could not be registered
// and the link was built from cart data alone.
type Result struct {
	Order    *backend.Order `json:"order"`
	Link     string         `json:"link"`
	Text     string         `json:"text"`
	Degraded bool           `json:"degraded"`
}

type Service struct {
	orders  OrderCreator
	domain  string
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// ServiceParams groups the checkout dependencies.
type ServiceParams struct {
	Orders          OrderCreator
	MessagingDomain string
	Logger          *logger.Logger
	Metrics         *metrics.CheckoutMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order creator required")
	}
	domain := strings.TrimSpace(params.MessagingDomain)
	if domain == "" {
		domain = DefaultMessagingDomain
	}
	return &Service{
		orders:  params.Orders,
		domain:  domain,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Submit registers the cart as an order and builds the hand-off link. A failed registration,
// whether a transport error or a rejected status, does not abort the checkout: the link is
// still produced so the merchant receives the order intent. Nothing is retried.
func (s *Service) Submit(ctx context.Context, store backend.Store, c *cart.Cart, input Input) (*Result, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := c.Lines()
	draft := BuildDraft(store.Slug, lines, input)

	order, err := s.orders.CreateOrder(ctx, draft)
	degraded := false
	if err != nil {
		degraded = true
		order = nil
		if s.logg != nil {
			s.logg.WarnErr(s.logg.WithStoreSlug(ctx, store.Slug), "checkout.order_registration_failed", err)
		}
		s.metrics.Inc(metrics.CheckoutDegraded)
	} else {
		if s.logg != nil && order != nil {
			s.logg.Info(s.logg.WithOrderID(s.logg.WithStoreSlug(ctx, store.Slug), order.ID), "checkout.order_registered")
		}
		s.metrics.Inc(metrics.CheckoutRegistered)
	}

	text := ComposeMessage(lines, order, input)
	return &Result{
		Order:    order,
		Link:     DeepLink(s.domain, store.WhatsAppNumber, text),
		Text:     text,
		Degraded: degraded,
	}, nil
}
