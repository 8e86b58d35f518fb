package checkout

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/metrics"
)

type stubOrders struct {
	calls int
	last  backend.CreateOrderRequest
	order *backend.Order
	err   error
}

func (s *stubOrders) CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func testStore() backend.Store {
	return backend.Store{ID: 1, Name: "Demo", Slug: "demo", WhatsAppNumber: "5491100000000"}
}

func empanadaCart() *cart.Cart {
	c := cart.New()
	for i := 0; i < 3; i++ {
		c.Add(1, "Empanada", decimal.RequireFromString("2.50"))
	}
	return c
}

func newTestService(t *testing.T, orders OrderCreator, m *metrics.CheckoutMetrics, buf *bytes.Buffer) *Service {
	t.Helper()
	var logg *logger.Logger
	if buf != nil {
		logg = logger.New(logger.Options{ServiceName: "test", Output: buf})
	}
	svc, err := NewService(ServiceParams{Orders: orders, Logger: logg, Metrics: m})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresOrders(t *testing.T) {
	t.Parallel()

	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without order creator")
	}
}

func TestSubmitEmptyCartIsNoop(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{}
	svc := newTestService(t, orders, nil, nil)

	result, err := svc.Submit(context.Background(), testStore(), cart.New(), Input{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart code, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	if orders.calls != 0 {
		t.Fatalf("expected no backend call, got %d", orders.calls)
	}
}

func TestSubmitRegisteredOrderScenario(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{order: &backend.Order{
		ID:       42,
		Subtotal: decimal.RequireFromString("7.50"),
		Total:    decimal.RequireFromString("7.50"),
	}}
	reg := prometheus.NewRegistry()
	m := metrics.NewCheckoutMetrics(reg)
	svc := newTestService(t, orders, m, &bytes.Buffer{})

	result, err := svc.Submit(context.Background(), testStore(), empanadaCart(), Input{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Degraded {
		t.Fatal("expected registered checkout")
	}
	for _, want := range []string{"Pedido #42", "- Empanada x3 ($2.50 c/u)", "Subtotal: $7.50", "Total: $7.50"} {
		if !strings.Contains(result.Text, want) {
			t.Fatalf("expected %q in %q", want, result.Text)
		}
	}
	for _, unwanted := range []string{"Envío", "Descuento"} {
		if strings.Contains(result.Text, unwanted) {
			t.Fatalf("unexpected %q in %q", unwanted, result.Text)
		}
	}
	if !strings.HasPrefix(result.Link, "https://wa.me/5491100000000?text=Hola!%20Quiero%20hacer%20este%20pedido%3A%0A%0APedido%20%2342%0A%0A") {
		t.Fatalf("unexpected link %q", result.Link)
	}

	if orders.last.StoreSlug != "demo" || orders.last.DeliveryType != "retiro" {
		t.Fatalf("unexpected draft %+v", orders.last)
	}
	if len(orders.last.Items) != 1 || orders.last.Items[0] != (backend.OrderLine{ProductID: 1, Quantity: 3}) {
		t.Fatalf("unexpected draft items %+v", orders.last.Items)
	}
	if got := testutil.ToFloat64(m.Counter(metrics.CheckoutRegistered)); got != 1 {
		t.Fatalf("expected registered counter 1, got %v", got)
	}
}

func TestSubmitDegradedOnTransportFailure(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: refused"), "execute create_order request")}
	reg := prometheus.NewRegistry()
	m := metrics.NewCheckoutMetrics(reg)
	var buf bytes.Buffer
	svc := newTestService(t, orders, m, &buf)

	result, err := svc.Submit(context.Background(), testStore(), empanadaCart(), Input{CustomerName: "Ana López", PaymentMethod: "efectivo"})
	if err != nil {
		t.Fatalf("degraded checkout must not fail: %v", err)
	}
	if !result.Degraded || result.Order != nil {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	if !strings.Contains(result.Text, "- Empanada x3 ($2.50 c/u)") {
		t.Fatalf("expected cart line in %q", result.Text)
	}
	for _, unwanted := range []string{"Pedido #", "Subtotal", "Total"} {
		if strings.Contains(result.Text, unwanted) {
			t.Fatalf("unexpected %q in degraded text %q", unwanted, result.Text)
		}
	}
	if !strings.Contains(result.Text, "%0A%0ANombre: Ana%20L%C3%B3pez") {
		t.Fatalf("expected encoded customer name in %q", result.Text)
	}
	if !strings.Contains(result.Text, "%0AForma de pago: efectivo") {
		t.Fatalf("expected payment method in %q", result.Text)
	}
	if !strings.Contains(buf.String(), "checkout.order_registration_failed") {
		t.Fatalf("expected warn log, got %q", buf.String())
	}
	if got := testutil.ToFloat64(m.Counter(metrics.CheckoutDegraded)); got != 1 {
		t.Fatalf("expected degraded counter 1, got %v", got)
	}
}

func TestSubmitDegradedOnRejectedStatus(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{err: pkgerrors.New(pkgerrors.CodeValidation, "Cupón inválido")}
	svc := newTestService(t, orders, nil, nil)

	result, err := svc.Submit(context.Background(), testStore(), empanadaCart(), Input{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if orders.calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", orders.calls)
	}
}

func TestSubmitResubmissionCreatesSecondOrder(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{order: &backend.Order{ID: 7}}
	svc := newTestService(t, orders, nil, nil)
	c := empanadaCart()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(context.Background(), testStore(), c, Input{}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if orders.calls != 2 {
		t.Fatalf("expected two backend calls, got %d", orders.calls)
	}
}

func TestBuildDraftNormalizesInput(t *testing.T) {
	t.Parallel()

	zoneID := int64(4)
	draft := BuildDraft("demo", empanadaCart().Lines(), Input{
		CustomerName:    "  ",
		CustomerAddress: " Calle 1 ",
		DeliveryType:    "envio",
		CouponCode:      " PROMO10 ",
		DeliveryZoneID:  &zoneID,
	})

	if draft.CustomerName != nil {
		t.Fatalf("expected blank name to be nil, got %q", *draft.CustomerName)
	}
	if draft.CustomerAddress == nil || *draft.CustomerAddress != "Calle 1" {
		t.Fatalf("unexpected address %v", draft.CustomerAddress)
	}
	if draft.CustomerNote != nil || draft.PaymentMethod != nil {
		t.Fatal("expected unset optional fields to be nil")
	}
	if draft.DeliveryType != "envio" {
		t.Fatalf("unexpected delivery type %q", draft.DeliveryType)
	}
	if draft.CouponCode == nil || *draft.CouponCode != "PROMO10" {
		t.Fatalf("unexpected coupon %v", draft.CouponCode)
	}
	if draft.DeliveryZoneID == nil || *draft.DeliveryZoneID != 4 {
		t.Fatalf("unexpected zone %v", draft.DeliveryZoneID)
	}
	zoneID = 9
	if *draft.DeliveryZoneID != 4 {
		t.Fatal("draft must not alias the input zone id")
	}
}

func TestSubmitLinkCarriesWholeMessage(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{order: &backend.Order{
		ID:       42,
		Subtotal: decimal.RequireFromString("7.50"),
		Total:    decimal.RequireFromString("7.50"),
	}}
	svc := newTestService(t, orders, nil, nil)

	result, err := svc.Submit(context.Background(), testStore(), empanadaCart(), Input{CustomerName: "Ana López", CustomerNote: "tocar #3 & esperar"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	link, err := url.Parse(result.Link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if link.Fragment != "" {
		t.Fatalf("message leaked into fragment %q", link.Fragment)
	}
	text := link.Query().Get("text")
	for _, want := range []string{
		"Hola! Quiero hacer este pedido:\n\nPedido #42\n\n",
		"- Empanada x3 ($2.50 c/u)",
		"Total: $7.50",
		"Nombre: Ana López",
		"Comentario: tocar #3 & esperar",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in decoded text %q", want, text)
		}
	}
}
