// Package catalog implements the storefront client: per-shopper sessions over a store's public
// catalog, the cart, delivery zone selection and checkout.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/internal/checkout"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/sessions"
)

const (
	DefaultSlug = "demo"

	storeNotFoundMessage = "Tienda no encontrada"
	storeLoadMessage     = "Error cargando la tienda"
)

// CatalogFetcher loads a store's public catalog.
type CatalogFetcher interface {
	GetCatalog(ctx context.Context, slug string) (*backend.Catalog, error)
}

// Submitter performs checkout for a cart.
type Submitter interface {
	Submit(ctx context.Context, store backend.Store, c *cart.Cart, input checkout.Input) (*checkout.Result, error)
}

// Service exposes the storefront operations keyed by session id.
type Service interface {
	Open(ctx context.Context, slug string) (*View, error)
	View(ctx context.Context, sessionID string) (*View, error)
	Close(ctx context.Context, sessionID string) error
	AddToCart(ctx context.Context, sessionID string, productID int64) (*View, error)
	ClearCart(ctx context.Context, sessionID string) (*View, error)
	SelectZone(ctx context.Context, sessionID, raw string) (*View, error)
	Checkout(ctx context.Context, sessionID string, input checkout.Input) (*checkout.Result, error)
	SweepIdle(ctx context.Context) int
}

// ServiceParams configure the catalog service.
type ServiceParams struct {
	Catalogs    CatalogFetcher
	Checkout    Submitter
	Logger      *logger.Logger
	DefaultSlug string
	IdleTTL     time.Duration
	MaxSessions int
}

type service struct {
	catalogs    CatalogFetcher
	checkout    Submitter
	logg        *logger.Logger
	defaultSlug string
	sessions    *sessions.Registry[*Session]
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalogs == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if params.Checkout == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	slug := strings.TrimSpace(params.DefaultSlug)
	if slug == "" {
		slug = DefaultSlug
	}
	return &service{
		catalogs:    params.Catalogs,
		checkout:    params.Checkout,
		logg:        params.Logger,
		defaultSlug: slug,
		sessions:    sessions.NewRegistry[*Session](params.IdleTTL, sessions.WithLimit[*Session](params.MaxSessions)),
	}, nil
}

// Open loads the store's catalog and starts a shopper session. An empty slug falls back to the
// default store.
func (s *service) Open(ctx context.Context, slug string) (*View, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = s.defaultSlug
	}

	catalog, err := s.catalogs.GetCatalog(ctx, slug)
	if err != nil {
		return nil, s.loadError(ctx, slug, err)
	}

	session := newSession(slug, *catalog)
	id, err := s.sessions.Add(session)
	if err != nil {
		return nil, err
	}
	session.id = id

	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(s.logg.WithStoreSlug(ctx, slug), session.id), "catalog.session.opened")
	}
	view := session.View()
	return &view, nil
}

// loadError maps a catalog fetch failure onto the storefront's full-page messages.
func (s *service) loadError(ctx context.Context, slug string, err error) error {
	if s.logg != nil {
		s.logg.WarnErr(s.logg.WithStoreSlug(ctx, slug), "catalog.load_failed", err)
	}
	if statusErr, ok := backend.AsStatusError(err); ok {
		code := pkgerrors.CodeDependency
		if statusErr.HTTPStatus() == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return pkgerrors.Wrap(code, err, storeNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, storeLoadMessage)
}

func (s *service) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return session, nil
}

func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	view := session.View()
	return &view, nil
}

func (s *service) Close(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return nil
}

func (s *service) AddToCart(ctx context.Context, sessionID string, productID int64) (*View, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := session.AddToCart(productID); err != nil {
		return nil, err
	}
	view := session.View()
	return &view, nil
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (*View, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.ResetCart()
	view := session.View()
	return &view, nil
}

func (s *service) SelectZone(ctx context.Context, sessionID, raw string) (*View, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.SelectZone(raw)
	view := session.View()
	return &view, nil
}

func (s *service) Checkout(ctx context.Context, sessionID string, input checkout.Input) (*checkout.Result, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithSessionID(ctx, sessionID)
	}
	return session.Checkout(ctx, s.checkout, input)
}

// SweepIdle drops sessions that have been idle past the configured TTL.
func (s *service) SweepIdle(ctx context.Context) int {
	removed := s.sessions.Sweep()
	if removed > 0 && s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"removed": removed,
			"active":  s.sessions.Len(),
		}), "catalog.sessions.swept")
	}
	return removed
}
