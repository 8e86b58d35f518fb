package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidos-storefront/api/middleware"
	"github.com/angelmondragon/pedidos-storefront/api/responses"
	"github.com/angelmondragon/pedidos-storefront/api/validators"
	"github.com/angelmondragon/pedidos-storefront/internal/catalog"
	"github.com/angelmondragon/pedidos-storefront/internal/checkout"
	"github.com/angelmondragon/pedidos-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
)

const storeQueryParam = "tienda"

// CatalogOpen loads the store named by ?tienda= (or the default store) into a new session.
func CatalogOpen(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		view, err := svc.Open(r.Context(), validators.QueryString(r, storeQueryParam))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func CatalogView(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func CatalogClose(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Close(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

func CatalogAddItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddToCart(r.Context(), sessionID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// selectZoneRequest accepts the zone id as a number, a numeric string, or
// null/"" to clear the selection.
type selectZoneRequest struct {
	ZoneID json.RawMessage `json:"zone_id"`
}

func (p selectZoneRequest) raw() (string, error) {
	value := strings.TrimSpace(string(p.ZoneID))
	if value == "" || value == "null" {
		return "", nil
	}
	if strings.HasPrefix(value, `"`) {
		var s string
		if err := json.Unmarshal(p.ZoneID, &s); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid zone_id")
		}
		return strings.TrimSpace(s), nil
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid zone_id")
	}
	return value, nil
}

// CatalogClearCart empties the session's cart.
func CatalogClearCart(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ClearCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func CatalogSelectZone(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectZoneRequest
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		raw, err := payload.raw()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SelectZone(r.Context(), sessionID, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerNote    string `json:"customer_note"`
	DeliveryType    string `json:"delivery_type"`
	PaymentMethod   string `json:"payment_method"`
	CouponCode      string `json:"coupon_code"`
}

// toInput rejects delivery types other than retiro/envio; an empty value keeps the pickup default.
func (p checkoutRequest) toInput() (checkout.Input, error) {
	deliveryType := strings.TrimSpace(p.DeliveryType)
	if deliveryType != "" {
		parsed, err := enums.ParseDeliveryType(deliveryType)
		if err != nil {
			return checkout.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery_type").
				WithDetails(map[string]any{"allowed": enums.DeliveryTypeValues()})
		}
		deliveryType = parsed.String()
	}
	return checkout.Input{
		CustomerName:    p.CustomerName,
		CustomerAddress: p.CustomerAddress,
		CustomerNote:    p.CustomerNote,
		DeliveryType:    deliveryType,
		PaymentMethod:   p.PaymentMethod,
		CouponCode:      p.CouponCode,
	}, nil
}

// CatalogCheckout registers the order and returns the messaging deep link. A
// degraded result (order not registered) is still a 200; the link carries the
// cart contents either way.
func CatalogCheckout(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sessionID, err := validators.PathString(r, sessionParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), sessionID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Degraded {
			middleware.SkipIdempotentReplay(r.Context())
		}

		responses.WriteSuccess(w, result)
	}
}
