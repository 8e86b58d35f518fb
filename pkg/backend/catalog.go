package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
)

const (
	opGetCatalog  = "get_catalog"
	opCreateOrder = "create_order"
)

// GetCatalog fetches the public catalog of the store identified by slug.
func (c *Client) GetCatalog(ctx context.Context, slug string) (*Catalog, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	var catalog Catalog
	if err := c.do(ctx, opGetCatalog, http.MethodGet, "/catalog/"+url.PathEscape(slug), nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// CreateOrder registers an order draft. The returned order carries the backend's pricing.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.Items == nil {
		req.Items = []OrderLine{}
	}
	var order Order
	if err := c.do(ctx, opCreateOrder, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
