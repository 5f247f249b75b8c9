package handlers

import (
	"log/slog"
	"net/http"

	"github.com/lamvd/dnalab-gateway/internal/application/services"
)

type Handlers struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
	sampleService  *services.SampleService
	resultService  *services.ResultService
	queryService   *services.QueryService
	logger         *slog.Logger
}

func NewHandlers(
	orderService *services.OrderService,
	paymentService *services.PaymentService,
	sampleService *services.SampleService,
	resultService *services.ResultService,
	queryService *services.QueryService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		orderService:   orderService,
		paymentService: paymentService,
		sampleService:  sampleService,
		resultService:  resultService,
		queryService:   queryService,
		logger:         logger,
	}
}

// RegisterRoutes wires every endpoint onto the mux. Status writes go
// through the transition endpoints only; nothing exposes a raw status
// field update.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/requests", h.CreateRequest)
	mux.HandleFunc("GET /api/v1/requests", h.ListRequests)
	mux.HandleFunc("GET /api/v1/requests/{id}", h.GetRequest)
	mux.HandleFunc("PUT /api/v1/requests/{id}/status", h.TransitionRequest)
	mux.HandleFunc("PUT /api/v1/requests/{id}/staff", h.AssignStaff)
	mux.HandleFunc("POST /api/v1/requests/{id}/cancel", h.CancelRequest)
	mux.HandleFunc("POST /api/v1/requests/{id}/checkout", h.Checkout)
	mux.HandleFunc("GET /api/v1/payments/vnpay/return", h.VNPayReturn)
	mux.HandleFunc("POST /api/v1/requests/{id}/samples", h.RecordSample)
	mux.HandleFunc("POST /api/v1/samples/{id}/sub-samples", h.RecordSubSample)
	mux.HandleFunc("POST /api/v1/samples/{id}/result", h.RecordResult)
}
