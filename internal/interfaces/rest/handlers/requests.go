package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest"
)

type createRequestBody struct {
	UserID           string     `json:"user_id"`
	ServiceID        string     `json:"service_id"`
	CollectionMethod string     `json:"collection_method"`
	AppointmentAt    *time.Time `json:"appointment_at,omitempty"`
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	req, err := h.orderService.CreateRequest(r.Context(), services.CreateRequestCommand{
		UserID:           body.UserID,
		ServiceID:        body.ServiceID,
		CollectionMethod: body.CollectionMethod,
		AppointmentAt:    body.AppointmentAt,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handlers) GetRequest(w http.ResponseWriter, r *http.Request) {
	detail, err := h.queryService.GetRequestDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		rest.WriteError(w, application.NewInvalidInputError(nil), h.logger)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	requests, err := h.queryService.ListUserRequests(r.Context(), userID, limit, offset)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, requests)
}

type transitionBody struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
}

// TransitionRequest is the only write path for order status. The target is
// validated against the order's collection method graph; illegal edges come
// back as conflicts.
func (h *Handlers) TransitionRequest(w http.ResponseWriter, r *http.Request) {
	var body transitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	req, err := h.orderService.Transition(
		r.Context(),
		r.PathValue("id"),
		domain.OrderStatus(body.Status),
		body.ActorID,
	)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, req)
}

type assignStaffBody struct {
	StaffID string `json:"staff_id"`
}

func (h *Handlers) AssignStaff(w http.ResponseWriter, r *http.Request) {
	var body assignStaffBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	req, err := h.orderService.AssignStaff(r.Context(), r.PathValue("id"), body.StaffID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, req)
}

func (h *Handlers) CancelRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.orderService.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, req)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
