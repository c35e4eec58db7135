// Package httpapi exposes the dashboard REST surface.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	domainanalytics "github.com/cafeops/orderdesk/internal/app/domain/analytics"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/metrics"
	"github.com/cafeops/orderdesk/internal/app/services/analytics"
	"github.com/cafeops/orderdesk/internal/app/services/catalog"
	"github.com/cafeops/orderdesk/internal/app/services/health"
	"github.com/cafeops/orderdesk/internal/app/services/orders"
	"github.com/cafeops/orderdesk/internal/errors"
	"github.com/cafeops/orderdesk/pkg/logger"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Handler serves the dashboard API.
type Handler struct {
	catalog   *catalog.Service
	orders    *orders.Service
	analytics *analytics.Service
	health    *health.Service
	audit     *AuditLog
	log       *logger.Logger
}

// NewHandler wires the API handler over the application services.
func NewHandler(
	catalogSvc *catalog.Service,
	orderSvc *orders.Service,
	analyticsSvc *analytics.Service,
	healthSvc *health.Service,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		catalog:   catalogSvc,
		orders:    orderSvc,
		analytics: analyticsSvc,
		health:    healthSvc,
		audit:     NewAuditLog(256),
		log:       log,
	}
}

// Router builds the route table. Middleware chaining is the caller's
// concern; the audit trail is applied here because it is part of the
// API contract rather than transport plumbing.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.audit.middleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/menu", h.listMenu).Methods(http.MethodGet)
	api.HandleFunc("/menu", h.createMenuItem).Methods(http.MethodPost)
	api.HandleFunc("/menu/{id}", h.updateMenuItem).Methods(http.MethodPut)
	api.HandleFunc("/menu/{id}", h.deleteMenuItem).Methods(http.MethodDelete)

	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", h.placeOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", h.setOrderStatus).Methods(http.MethodPut)

	api.HandleFunc("/revenue", h.revenue).Methods(http.MethodGet)
	api.HandleFunc("/order_counts", h.orderCounts).Methods(http.MethodGet)
	api.HandleFunc("/audit", h.auditTrail).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.writeError(w, errors.NotFound("no route for %s %s", req.Method, req.URL.Path))
	})
	return r
}

type createMenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type updateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

type orderLineRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type placeOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type setOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	item, err := h.catalog.Create(r.Context(), req.Name, req.Description, req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req updateMenuItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	item, err := h.catalog.Update(r.Context(), mux.Vars(r)["id"], req.Name, req.Description, req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	lines := make([]orders.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, orders.LineInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	o, err := h.orders.Place(r.Context(), lines)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req setOrderStatusRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	o, err := h.orders.SetStatus(r.Context(), mux.Vars(r)["id"], order.Status(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	period, err := domainanalytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	points, err := h.analytics.Revenue(r.Context(), period)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

func (h *Handler) orderCounts(w http.ResponseWriter, r *http.Request) {
	period, err := domainanalytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	points, err := h.analytics.OrderCounts(r.Context(), period)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.audit.Recent())
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.health.Check())
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Validation("invalid request body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.Validation("request body must contain a single JSON object")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Error("write response failed")
	}
}

// writeError renders every failure as {"message": ...} with the status
// from the error taxonomy. Causes of internal errors stay in the log.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
		message = "internal server error"
	}
	h.writeJSON(w, status, map[string]string{"message": message})
}
