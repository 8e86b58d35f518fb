package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/pedidos-storefront/internal/panel"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
)

// stubPanel overrides the methods a test needs; anything else panics through the nil embed.
type stubPanel struct {
	panel.Service

	storeForm   panel.StoreForm
	loadedStore int64
	statusOrder int64
	statusForm  panel.OrderStatusForm
	stats       *panel.StatsView
	detailErr   error
}

func (s *stubPanel) Open(ctx context.Context) (*panel.SessionView, error) {
	return &panel.SessionView{SessionID: "p-1"}, nil
}

func (s *stubPanel) Close(ctx context.Context, sessionID string) error {
	if sessionID != "p-1" {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return nil
}

func (s *stubPanel) SaveStore(ctx context.Context, sessionID string, form panel.StoreForm) (*panel.StoreResult, error) {
	s.storeForm = form
	if form.Name == "" {
		return &panel.StoreResult{FormResult: panel.FormResult{Status: "Nombre, slug y WhatsApp son obligatorios."}}, nil
	}
	return &panel.StoreResult{FormResult: panel.FormResult{OK: true, Status: "Tienda guardada"}}, nil
}

func (s *stubPanel) LoadStore(ctx context.Context, sessionID string, storeID int64) (*panel.StoreResult, error) {
	s.loadedStore = storeID
	return &panel.StoreResult{FormResult: panel.FormResult{OK: true}}, nil
}

func (s *stubPanel) OrderDetail(ctx context.Context, sessionID string, orderID int64) (*panel.OrderDetail, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return &panel.OrderDetail{ID: orderID, Text: "Pedido #7"}, nil
}

func (s *stubPanel) UpdateOrderStatus(ctx context.Context, sessionID string, orderID int64, form panel.OrderStatusForm) (*panel.ResourceResult[panel.OrdersView], error) {
	s.statusOrder = orderID
	s.statusForm = form
	return &panel.ResourceResult[panel.OrdersView]{FormResult: panel.FormResult{OK: true}}, nil
}

func (s *stubPanel) Stats(ctx context.Context, sessionID string) (*panel.StatsView, error) {
	return s.stats, nil
}

func TestPanelOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	PanelOpen(&stubPanel{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/panel/sessions", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if view := decodeData[panel.SessionView](t, rec); view.SessionID != "p-1" {
		t.Fatalf("unexpected session %q", view.SessionID)
	}
}

func TestPanelSaveStoreRejectedFormIs200(t *testing.T) {
	stub := &stubPanel{}
	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPut, "/store", strings.NewReader(`{"name":"","slug":"x"}`)), sessionParam, "p-1")
	PanelSaveStore(stub, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	result := decodeData[panel.StoreResult](t, rec)
	if result.OK || result.Status == "" {
		t.Fatalf("expected failed form result, got %+v", result.FormResult)
	}
	if stub.storeForm.Slug != "x" {
		t.Fatalf("form not forwarded: %+v", stub.storeForm)
	}
}

func TestPanelSaveStoreMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPut, "/store", strings.NewReader(`{"name":`)), sessionParam, "p-1")
	PanelSaveStore(&stubPanel{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPanelLoadStore(t *testing.T) {
	stub := &stubPanel{}
	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPost, "/store/load", strings.NewReader(`{"store_id":12}`)), sessionParam, "p-1")
	PanelLoadStore(stub, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.loadedStore != 12 {
		t.Fatalf("expected store 12, got %d", stub.loadedStore)
	}
}

func TestPanelOrderDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodGet, "/orders/7", nil), sessionParam, "p-1", orderParam, "7")
	PanelOrderDetail(&stubPanel{}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if detail := decodeData[panel.OrderDetail](t, rec); detail.ID != 7 {
		t.Fatalf("unexpected detail %+v", detail)
	}

	rec = httptest.NewRecorder()
	req = withParams(httptest.NewRequest(http.MethodGet, "/orders/x", nil), sessionParam, "p-1", orderParam, "x")
	PanelOrderDetail(&stubPanel{}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid order id got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = withParams(httptest.NewRequest(http.MethodGet, "/orders/8", nil), sessionParam, "p-1", orderParam, "8")
	PanelOrderDetail(&stubPanel{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "pedido no encontrado")}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPanelUpdateOrderStatus(t *testing.T) {
	stub := &stubPanel{}
	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPatch, "/orders/3/status", strings.NewReader(`{"status":"confirmado"}`)), sessionParam, "p-1", orderParam, "3")
	PanelUpdateOrderStatus(stub, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.statusOrder != 3 || stub.statusForm.Status != "confirmado" {
		t.Fatalf("unexpected forwarded values order=%d form=%+v", stub.statusOrder, stub.statusForm)
	}
}

func TestPanelStatsWithoutStoreIsNull(t *testing.T) {
	rec := httptest.NewRecorder()
	PanelStats(&stubPanel{}, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/stats", nil), sessionParam, "p-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"data":null}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestPanelCloseUnknownSession(t *testing.T) {
	rec := httptest.NewRecorder()
	PanelClose(&stubPanel{}, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodDelete, "/", nil), sessionParam, "other"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPanelNilService(t *testing.T) {
	rec := httptest.NewRecorder()
	PanelProducts(nil, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), sessionParam, "p-1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
