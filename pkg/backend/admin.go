package backend

import (
	"context"
	"fmt"
	"net/http"
)

const (
	opCreateStore        = "create_store"
	opGetStore           = "get_store"
	opUpdateStore        = "update_store"
	opListProducts       = "list_products"
	opCreateProduct      = "create_product"
	opListDeliveryZones  = "list_delivery_zones"
	opCreateDeliveryZone = "create_delivery_zone"
	opListCoupons        = "list_coupons"
	opCreateCoupon       = "create_coupon"
	opListOrders         = "list_orders"
	opUpdateOrderStatus  = "update_order_status"
	opStatsSummary       = "stats_summary"
)

func storePath(storeID int64, suffix string) string {
	return fmt.Sprintf("/stores/%d%s", storeID, suffix)
}

func (c *Client) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	var store Store
	if err := c.do(ctx, opCreateStore, http.MethodPost, "/stores", req, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) GetStore(ctx context.Context, storeID int64) (*Store, error) {
	var store Store
	if err := c.do(ctx, opGetStore, http.MethodGet, storePath(storeID, ""), nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// UpdateStore patches the editable store fields. The slug never changes.
func (c *Client) UpdateStore(ctx context.Context, storeID int64, req UpdateStoreRequest) (*Store, error) {
	var store Store
	if err := c.do(ctx, opUpdateStore, http.MethodPatch, storePath(storeID, ""), req, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) ListProducts(ctx context.Context, storeID int64) ([]Product, error) {
	products := []Product{}
	if err := c.do(ctx, opListProducts, http.MethodGet, storePath(storeID, "/products"), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, storeID int64, req CreateProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, opCreateProduct, http.MethodPost, storePath(storeID, "/products"), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListDeliveryZones(ctx context.Context, storeID int64) ([]DeliveryZone, error) {
	zones := []DeliveryZone{}
	if err := c.do(ctx, opListDeliveryZones, http.MethodGet, storePath(storeID, "/delivery-zones"), nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *Client) CreateDeliveryZone(ctx context.Context, storeID int64, req CreateDeliveryZoneRequest) (*DeliveryZone, error) {
	var zone DeliveryZone
	if err := c.do(ctx, opCreateDeliveryZone, http.MethodPost, storePath(storeID, "/delivery-zones"), req, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *Client) ListCoupons(ctx context.Context, storeID int64) ([]Coupon, error) {
	coupons := []Coupon{}
	if err := c.do(ctx, opListCoupons, http.MethodGet, storePath(storeID, "/coupons"), nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (c *Client) CreateCoupon(ctx context.Context, storeID int64, req CreateCouponRequest) (*Coupon, error) {
	var coupon Coupon
	if err := c.do(ctx, opCreateCoupon, http.MethodPost, storePath(storeID, "/coupons"), req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListOrders returns the store's orders, newest first as ordered by the backend.
func (c *Client) ListOrders(ctx context.Context, storeID int64) ([]Order, error) {
	orders := []Order{}
	if err := c.do(ctx, opListOrders, http.MethodGet, storePath(storeID, "/orders"), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/orders/%d/status", orderID)
	if err := c.do(ctx, opUpdateOrderStatus, http.MethodPatch, path, UpdateOrderStatusRequest{Status: status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) StatsSummary(ctx context.Context, storeID int64) (*StatsSummary, error) {
	var stats StatsSummary
	if err := c.do(ctx, opStatsSummary, http.MethodGet, storePath(storeID, "/stats/summary"), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
