package controllers

import (
	"net/http"

	"github.com/angelmondragon/pedidos-storefront/api/responses"
	"github.com/angelmondragon/pedidos-storefront/api/validators"
	"github.com/angelmondragon/pedidos-storefront/internal/panel"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
)

const (
	sessionParam = "sessionId"
	orderParam   = "orderId"
)

// Panel form submissions answer 200 with a FormResult even when the form is rejected;
// only a malformed body, an unknown session or a missing service is an error.

func PanelOpen(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "panel service unavailable"))
			return
		}

		view, err := svc.Open(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func PanelSession(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		return svc.Session(r.Context(), sessionID)
	})
}

func PanelClose(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := panelSessionID(w, r, svc, logg)
		if !ok {
			return
		}

		if err := svc.Close(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func PanelSaveStore(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, form panel.StoreForm) (any, error) {
		return svc.SaveStore(r.Context(), sessionID, form)
	})
}

type loadStoreRequest struct {
	StoreID int64 `json:"store_id"`
}

func PanelLoadStore(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, payload loadStoreRequest) (any, error) {
		return svc.LoadStore(r.Context(), sessionID, payload.StoreID)
	})
}

func PanelProducts(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		return svc.Products(r.Context(), sessionID)
	})
}

func PanelAddProduct(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, form panel.ProductForm) (any, error) {
		return svc.AddProduct(r.Context(), sessionID, form)
	})
}

func PanelZones(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		return svc.Zones(r.Context(), sessionID)
	})
}

func PanelAddZone(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, form panel.ZoneForm) (any, error) {
		return svc.AddZone(r.Context(), sessionID, form)
	})
}

func PanelCoupons(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		return svc.Coupons(r.Context(), sessionID)
	})
}

func PanelAddCoupon(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, form panel.CouponForm) (any, error) {
		return svc.AddCoupon(r.Context(), sessionID, form)
	})
}

func PanelOrders(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		return svc.Orders(r.Context(), sessionID)
	})
}

func PanelOrderDetail(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		orderID, err := validators.PathInt64(r, orderParam)
		if err != nil {
			return nil, err
		}
		return svc.OrderDetail(r.Context(), sessionID, orderID)
	})
}

func PanelUpdateOrderStatus(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelForm(svc, logg, func(r *http.Request, sessionID string, form panel.OrderStatusForm) (any, error) {
		orderID, err := validators.PathInt64(r, orderParam)
		if err != nil {
			return nil, err
		}
		return svc.UpdateOrderStatus(r.Context(), sessionID, orderID, form)
	})
}

// PanelStats answers {"data": null} when there is no store or the summary failed.
func PanelStats(svc panel.Service, logg *logger.Logger) http.HandlerFunc {
	return panelRead(svc, logg, func(r *http.Request, sessionID string) (any, error) {
		view, err := svc.Stats(r.Context(), sessionID)
		if err != nil || view == nil {
			return nil, err
		}
		return view, nil
	})
}

func panelSessionID(w http.ResponseWriter, r *http.Request, svc panel.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "panel service unavailable"))
		return "", false
	}
	sessionID, err := validators.PathString(r, sessionParam)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return "", false
	}
	return sessionID, true
}

func panelRead(svc panel.Service, logg *logger.Logger, fn func(r *http.Request, sessionID string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := panelSessionID(w, r, svc, logg)
		if !ok {
			return
		}

		out, err := fn(r, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}

func panelForm[F any](svc panel.Service, logg *logger.Logger, fn func(r *http.Request, sessionID string, form F) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := panelSessionID(w, r, svc, logg)
		if !ok {
			return
		}

		var form F
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := fn(r, sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}
