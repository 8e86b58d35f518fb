// Package panel implements the merchant panel client: store upsert, product, zone and coupon
// forms, order and stats listings, all scoped to the store held by a panel session.
package panel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/sessions"
)

const (
	msgStoreSaved     = "Tienda guardada correctamente."
	msgStoreLoaded    = "Tienda cargada correctamente."
	msgStoreSaveError = "Error guardando tienda"
	msgStoreNotFound  = "Tienda no encontrada"
	msgServerDown     = "Error de conexión con el servidor."
	msgConnection     = "Error de conexión."
	badgeError        = "Error"

	msgProductAdded = "Producto agregado."
	msgProductError = "Error agregando producto"
	msgZoneAdded    = "Zona agregada."
	msgZoneError    = "Error agregando zona"
	msgCouponAdded  = "Cupón agregado."
	msgCouponError  = "Error agregando cupón"
	msgStatusSaved  = "Estado actualizado."
	msgStatusError  = "Error actualizando pedido"
)

// Backend is the slice of the backend API the panel uses.
type Backend interface {
	CreateStore(ctx context.Context, req backend.CreateStoreRequest) (*backend.Store, error)
	GetStore(ctx context.Context, storeID int64) (*backend.Store, error)
	UpdateStore(ctx context.Context, storeID int64, req backend.UpdateStoreRequest) (*backend.Store, error)
	ListProducts(ctx context.Context, storeID int64) ([]backend.Product, error)
	CreateProduct(ctx context.Context, storeID int64, req backend.CreateProductRequest) (*backend.Product, error)
	ListDeliveryZones(ctx context.Context, storeID int64) ([]backend.DeliveryZone, error)
	CreateDeliveryZone(ctx context.Context, storeID int64, req backend.CreateDeliveryZoneRequest) (*backend.DeliveryZone, error)
	ListCoupons(ctx context.Context, storeID int64) ([]backend.Coupon, error)
	CreateCoupon(ctx context.Context, storeID int64, req backend.CreateCouponRequest) (*backend.Coupon, error)
	ListOrders(ctx context.Context, storeID int64) ([]backend.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*backend.Order, error)
	StatsSummary(ctx context.Context, storeID int64) (*backend.StatsSummary, error)
}

// Service exposes the panel operations keyed by session id. Form failures are reported in the
// returned FormResult; an error is returned only for an unknown session or a missing order.
type Service interface {
	Open(ctx context.Context) (*SessionView, error)
	Session(ctx context.Context, sessionID string) (*SessionView, error)
	Close(ctx context.Context, sessionID string) error
	SaveStore(ctx context.Context, sessionID string, form StoreForm) (*StoreResult, error)
	LoadStore(ctx context.Context, sessionID string, storeID int64) (*StoreResult, error)
	AddProduct(ctx context.Context, sessionID string, form ProductForm) (*ResourceResult[ProductsView], error)
	AddZone(ctx context.Context, sessionID string, form ZoneForm) (*ResourceResult[ListView], error)
	AddCoupon(ctx context.Context, sessionID string, form CouponForm) (*ResourceResult[ListView], error)
	Products(ctx context.Context, sessionID string) (*ProductsView, error)
	Zones(ctx context.Context, sessionID string) (*ListView, error)
	Coupons(ctx context.Context, sessionID string) (*ListView, error)
	Orders(ctx context.Context, sessionID string) (*OrdersView, error)
	OrderDetail(ctx context.Context, sessionID string, orderID int64) (*OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, sessionID string, orderID int64, form OrderStatusForm) (*ResourceResult[OrdersView], error)
	Stats(ctx context.Context, sessionID string) (*StatsView, error)
	SweepIdle(ctx context.Context) int
}

// ServiceParams configure the panel service.
type ServiceParams struct {
	Backend      Backend
	Logger       *logger.Logger
	PublicOrigin string
	IdleTTL      time.Duration
	MaxSessions  int
}

type service struct {
	api      Backend
	logg     *logger.Logger
	origin   string
	sessions *sessions.Registry[*Session]
}

// NewService builds the panel service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("backend client required")
	}
	return &service{
		api:      params.Backend,
		logg:     params.Logger,
		origin:   strings.TrimSpace(params.PublicOrigin),
		sessions: sessions.NewRegistry[*Session](params.IdleTTL, sessions.WithLimit[*Session](params.MaxSessions)),
	}, nil
}

func (s *service) Open(ctx context.Context) (*SessionView, error) {
	session := &Session{}
	id, err := s.sessions.Add(session)
	if err != nil {
		return nil, err
	}
	session.id = id
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, session.id), "panel.session.opened")
	}
	return &SessionView{SessionID: session.id}, nil
}

func (s *service) Session(ctx context.Context, sessionID string) (*SessionView, error) {
	var view *SessionView
	err := s.with(sessionID, func(sess *Session) error {
		view = &SessionView{SessionID: sess.id}
		if sess.store != nil {
			zones := zoneLines(sess.zones)
			coupons := couponLines(sess.coupons)
			view.Store = storeView(*sess.store, s.origin)
			view.Zones = &zones
			view.Coupons = &coupons
		}
		return nil
	})
	return view, err
}

func (s *service) Close(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return nil
}

// with runs fn on the session while holding its lock.
func (s *service) with(sessionID string, fn func(sess *Session) error) error {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

func (s *service) ctxFor(ctx context.Context, sess *Session) context.Context {
	if s.logg == nil {
		return ctx
	}
	ctx = s.logg.WithSessionID(ctx, sess.id)
	if sess.store != nil {
		ctx = s.logg.WithStoreID(ctx, sess.store.ID)
	}
	return ctx
}

// SaveStore creates the store when the session holds none, otherwise updates it. A second
// submission therefore edits the same store instead of creating another.
func (s *service) SaveStore(ctx context.Context, sessionID string, form StoreForm) (*StoreResult, error) {
	var result *StoreResult
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		form.normalize()
		creating := sess.store == nil
		if !valid(form) || (creating && form.Slug == "") {
			result = &StoreResult{FormResult: failResult(msgStoreRequired), Badge: badgeError}
			return nil
		}

		var (
			store *backend.Store
			err   error
		)
		if creating {
			store, err = s.api.CreateStore(ctx, form.createRequest())
		} else {
			store, err = s.api.UpdateStore(ctx, sess.store.ID, form.updateRequest())
		}
		if err != nil {
			s.warn(ctx, "panel.store.save_failed", err)
			result = &StoreResult{
				FormResult: failResult(failureMessage(err, msgStoreSaveError, msgServerDown)),
				Badge:      badgeError,
			}
			return nil
		}

		result = s.attachStore(ctx, sess, *store, msgStoreSaved)
		return nil
	})
	return result, err
}

// LoadStore attaches an existing store by id, as when a merchant returns to the panel.
func (s *service) LoadStore(ctx context.Context, sessionID string, storeID int64) (*StoreResult, error) {
	var result *StoreResult
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if storeID <= 0 {
			result = &StoreResult{FormResult: failResult(msgStoreNotFound), Badge: badgeError}
			return nil
		}
		store, err := s.api.GetStore(ctx, storeID)
		if err != nil {
			s.warn(ctx, "panel.store.load_failed", err)
			result = &StoreResult{
				FormResult: failResult(failureMessage(err, msgStoreNotFound, msgServerDown)),
				Badge:      badgeError,
			}
			return nil
		}
		result = s.attachStore(ctx, sess, *store, msgStoreLoaded)
		return nil
	})
	return result, err
}

func (s *service) attachStore(ctx context.Context, sess *Session, store backend.Store, status string) *StoreResult {
	sess.store = &store
	if s.logg != nil {
		ctx = s.logg.WithStoreID(ctx, store.ID)
		s.logg.Info(ctx, "panel.store.attached")
	}
	view := storeView(store, s.origin)
	return &StoreResult{
		FormResult: okResult(status),
		Badge:      view.Badge,
		Store:      view,
		Dashboard:  s.reload(ctx, sess),
	}
}

// reload refreshes every listing in a fixed order. A failed listing never stops the next one;
// the failures are only logged.
func (s *service) reload(ctx context.Context, sess *Session) *Dashboard {
	var (
		dash Dashboard
		errs error
		err  error
	)
	dash.Zones, err = s.loadZones(ctx, sess)
	errs = multierr.Append(errs, err)
	dash.Coupons, err = s.loadCoupons(ctx, sess)
	errs = multierr.Append(errs, err)
	dash.Products, err = s.loadProducts(ctx, sess)
	errs = multierr.Append(errs, err)
	dash.Orders, err = s.loadOrders(ctx, sess)
	errs = multierr.Append(errs, err)
	dash.Stats, err = s.loadStats(ctx, sess)
	errs = multierr.Append(errs, err)

	if errs != nil {
		s.warn(s.withFailures(ctx, errs), "panel.reload_failed", errs)
	}
	return &dash
}

func (s *service) withFailures(ctx context.Context, errs error) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithField(ctx, "failed_listings", len(multierr.Errors(errs)))
}

func (s *service) AddProduct(ctx context.Context, sessionID string, form ProductForm) (*ResourceResult[ProductsView], error) {
	var result *ResourceResult[ProductsView]
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if sess.store == nil {
			result = &ResourceResult[ProductsView]{FormResult: failResult(msgNoStore)}
			return nil
		}
		form.normalize()
		if !valid(form) {
			result = &ResourceResult[ProductsView]{FormResult: failResult(msgProductRequired)}
			return nil
		}
		if _, err := s.api.CreateProduct(ctx, sess.store.ID, form.request()); err != nil {
			s.warn(ctx, "panel.product.create_failed", err)
			result = &ResourceResult[ProductsView]{FormResult: failResult(failureMessage(err, msgProductError, msgConnection))}
			return nil
		}
		listing, _ := s.loadProducts(ctx, sess)
		result = &ResourceResult[ProductsView]{FormResult: okResult(msgProductAdded), Listing: &listing}
		return nil
	})
	return result, err
}

func (s *service) AddZone(ctx context.Context, sessionID string, form ZoneForm) (*ResourceResult[ListView], error) {
	var result *ResourceResult[ListView]
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if sess.store == nil {
			result = &ResourceResult[ListView]{FormResult: failResult(msgNoStore)}
			return nil
		}
		form.normalize()
		if !valid(form) {
			result = &ResourceResult[ListView]{FormResult: failResult(msgZoneRequired)}
			return nil
		}
		if _, err := s.api.CreateDeliveryZone(ctx, sess.store.ID, form.request()); err != nil {
			s.warn(ctx, "panel.zone.create_failed", err)
			result = &ResourceResult[ListView]{FormResult: failResult(failureMessage(err, msgZoneError, msgConnection))}
			return nil
		}
		listing, _ := s.loadZones(ctx, sess)
		result = &ResourceResult[ListView]{FormResult: okResult(msgZoneAdded), Listing: &listing}
		return nil
	})
	return result, err
}

func (s *service) AddCoupon(ctx context.Context, sessionID string, form CouponForm) (*ResourceResult[ListView], error) {
	var result *ResourceResult[ListView]
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if sess.store == nil {
			result = &ResourceResult[ListView]{FormResult: failResult(msgNoStore)}
			return nil
		}
		form.normalize()
		if !valid(form) {
			result = &ResourceResult[ListView]{FormResult: failResult(msgCouponRequired)}
			return nil
		}
		if _, err := s.api.CreateCoupon(ctx, sess.store.ID, form.request()); err != nil {
			s.warn(ctx, "panel.coupon.create_failed", err)
			result = &ResourceResult[ListView]{FormResult: failResult(failureMessage(err, msgCouponError, msgConnection))}
			return nil
		}
		listing, _ := s.loadCoupons(ctx, sess)
		result = &ResourceResult[ListView]{FormResult: okResult(msgCouponAdded), Listing: &listing}
		return nil
	})
	return result, err
}

func (s *service) Products(ctx context.Context, sessionID string) (*ProductsView, error) {
	var view ProductsView
	err := s.with(sessionID, func(sess *Session) error {
		view, _ = s.loadProducts(s.ctxFor(ctx, sess), sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Zones(ctx context.Context, sessionID string) (*ListView, error) {
	var view ListView
	err := s.with(sessionID, func(sess *Session) error {
		view, _ = s.loadZones(s.ctxFor(ctx, sess), sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Coupons(ctx context.Context, sessionID string) (*ListView, error) {
	var view ListView
	err := s.with(sessionID, func(sess *Session) error {
		view, _ = s.loadCoupons(s.ctxFor(ctx, sess), sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Orders(ctx context.Context, sessionID string) (*OrdersView, error) {
	var view OrdersView
	err := s.with(sessionID, func(sess *Session) error {
		view, _ = s.loadOrders(s.ctxFor(ctx, sess), sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// OrderDetail formats one of the listed orders. When the order is not among the last listing
// the orders are fetched once more.
func (s *service) OrderDetail(ctx context.Context, sessionID string, orderID int64) (*OrderDetail, error) {
	var detail *OrderDetail
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if sess.store == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, msgNoStore)
		}
		order, ok := sess.findOrder(orderID)
		if !ok {
			if _, err := s.loadOrders(ctx, sess); err != nil {
				return err
			}
			order, ok = sess.findOrder(orderID)
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pedido no encontrado").
				WithDetails(map[string]any{"order_id": orderID})
		}
		detail = &OrderDetail{ID: order.ID, Text: orderDetailText(order)}
		return nil
	})
	return detail, err
}

func (s *service) UpdateOrderStatus(ctx context.Context, sessionID string, orderID int64, form OrderStatusForm) (*ResourceResult[OrdersView], error) {
	var result *ResourceResult[OrdersView]
	err := s.with(sessionID, func(sess *Session) error {
		ctx := s.ctxFor(ctx, sess)
		if s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, orderID)
		}
		if sess.store == nil {
			result = &ResourceResult[OrdersView]{FormResult: failResult(msgNoStore)}
			return nil
		}
		form.normalize()
		if !valid(form) {
			result = &ResourceResult[OrdersView]{FormResult: failResult(msgStatusRequired)}
			return nil
		}
		if _, err := s.api.UpdateOrderStatus(ctx, orderID, form.Status); err != nil {
			s.warn(ctx, "panel.order.status_failed", err)
			result = &ResourceResult[OrdersView]{FormResult: failResult(failureMessage(err, msgStatusError, msgConnection))}
			return nil
		}
		listing, _ := s.loadOrders(ctx, sess)
		result = &ResourceResult[OrdersView]{FormResult: okResult(msgStatusSaved), Listing: &listing}
		return nil
	})
	return result, err
}

// Stats returns nil without a store or when the summary cannot be fetched.
func (s *service) Stats(ctx context.Context, sessionID string) (*StatsView, error) {
	var view *StatsView
	err := s.with(sessionID, func(sess *Session) error {
		view, _ = s.loadStats(s.ctxFor(ctx, sess), sess)
		return nil
	})
	return view, err
}

func (s *service) SweepIdle(ctx context.Context) int {
	removed := s.sessions.Sweep()
	if removed > 0 && s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"removed": removed,
			"active":  s.sessions.Len(),
		}), "panel.sessions.swept")
	}
	return removed
}

func (s *service) loadProducts(ctx context.Context, sess *Session) (ProductsView, error) {
	if sess.store == nil {
		return ProductsView{Rows: []ProductRow{}, Message: msgNoStoreSelected}, nil
	}
	products, err := s.api.ListProducts(ctx, sess.store.ID)
	if err != nil {
		return ProductsView{Rows: []ProductRow{}, Message: listingMessage(err, msgProductsUnavailable, msgProductsError)}, err
	}
	return productRows(products), nil
}

func (s *service) loadZones(ctx context.Context, sess *Session) (ListView, error) {
	if sess.store == nil {
		return ListView{Lines: []string{}, Message: msgNoStoreSelected}, nil
	}
	zones, err := s.api.ListDeliveryZones(ctx, sess.store.ID)
	if err != nil {
		return ListView{Lines: []string{}, Message: listingMessage(err, msgZonesUnavailable, msgZonesError)}, err
	}
	sess.zones = zones
	return zoneLines(zones), nil
}

func (s *service) loadCoupons(ctx context.Context, sess *Session) (ListView, error) {
	if sess.store == nil {
		return ListView{Lines: []string{}, Message: msgNoStoreSelected}, nil
	}
	coupons, err := s.api.ListCoupons(ctx, sess.store.ID)
	if err != nil {
		return ListView{Lines: []string{}, Message: listingMessage(err, msgCouponsUnavailable, msgCouponsError)}, err
	}
	sess.coupons = coupons
	return couponLines(coupons), nil
}

func (s *service) loadOrders(ctx context.Context, sess *Session) (OrdersView, error) {
	if sess.store == nil {
		return OrdersView{Rows: []OrderRow{}, Message: msgNoStoreSelected}, nil
	}
	orders, err := s.api.ListOrders(ctx, sess.store.ID)
	if err != nil {
		return OrdersView{Rows: []OrderRow{}, Message: listingMessage(err, msgOrdersUnavailable, msgOrdersError)}, err
	}
	sess.orders = orders
	return orderRows(orders), nil
}

func (s *service) loadStats(ctx context.Context, sess *Session) (*StatsView, error) {
	if sess.store == nil {
		return nil, nil
	}
	summary, err := s.api.StatsSummary(ctx, sess.store.ID)
	if err != nil {
		return nil, err
	}
	return statsView(*summary), nil
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.WarnErr(ctx, msg, err)
}

// failureMessage picks the form status for a failed backend call: the backend detail when the
// backend rejected the request, the fallback for rejections without one, and the connection
// message when the request never got an answer.
func failureMessage(err error, fallback, connection string) string {
	if statusErr, ok := backend.AsStatusError(err); ok {
		if detail := statusErr.Detail(); detail != "" {
			return detail
		}
		return fallback
	}
	return connection
}

// listingMessage distinguishes rejected listings from unreachable ones.
func listingMessage(err error, unavailable, failed string) string {
	if _, ok := backend.AsStatusError(err); ok {
		return unavailable
	}
	return failed
}
