package orders_api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BearBump/DeliveryBox/internal/auth"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

const maxBodyBytes = 1 << 20

type Service interface {
	RecordOrder(ctx context.Context, in models.OrderCreateInput) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id uint64) (models.Order, error)
	RecordUpdate(ctx context.Context, in models.OrderUpdateInput) (models.Order, error)
	EstimateETA(ctx context.Context, orderID uint64, driverLocation string) (float64, error)
}

type OrdersAPI struct {
	svc       Service
	jwtSecret string
}

func New(svc Service, jwtSecret string) *OrdersAPI {
	return &OrdersAPI{svc: svc, jwtSecret: jwtSecret}
}

// Routes returns the authenticated order endpoints.
func (a *OrdersAPI) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Middleware(a.jwtSecret))

	r.Post("/", a.createOrder)
	r.Get("/", a.listOrders)
	r.Get("/{id}", a.getOrder)
	r.Post("/{id}/status", a.updateStatus)
	r.Get("/{id}/eta", a.estimateETA)
	return r
}

func (a *OrdersAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	o, err := a.svc.RecordOrder(r.Context(), models.OrderCreateInput{
		CustomerName: req.CustomerName,
		Address:      req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(o))
}

func (a *OrdersAPI) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.svc.ListOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: toOrderDTOs(orders)})
}

func (a *OrdersAPI) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o, err := a.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (a *OrdersAPI) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lat, err := rawText(req.Lat)
	if err != nil {
		writeError(w, errors.Wrap(err, "lat"))
		return
	}
	lon, err := rawText(req.Lon)
	if err != nil {
		writeError(w, errors.Wrap(err, "lon"))
		return
	}

	o, err := a.svc.RecordUpdate(r.Context(), models.OrderUpdateInput{
		OrderID: id,
		Status:  req.Status,
		Lat:     lat,
		Lon:     lon,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (a *OrdersAPI) estimateETA(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	minutes, err := a.svc.EstimateETA(r.Context(), id, r.URL.Query().Get("driver_location"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, etaResponse{OrderID: id, Duration: minutes})
}

func orderID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(models.ErrMalformedInput, "invalid order id %q", raw)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(models.ErrMalformedInput, "invalid json body: "+err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		slog.Error("orders api", "status", code, "error", err.Error())
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// StatusCode maps domain errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrMalformedInput), errors.Is(err, models.ErrInvalidNumber):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrOrderNotFound), errors.Is(err, models.ErrDestinationUnknown):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRouteServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
