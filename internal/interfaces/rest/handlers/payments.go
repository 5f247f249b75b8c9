package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest"
)

type checkoutBody struct {
	Method string `json:"method"`
	Amount int64  `json:"amount"`
	Locale string `json:"locale,omitempty"`
}

type checkoutResponse struct {
	PaymentID   string `json:"payment_id"`
	RedirectURL string `json:"redirect_url"`
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var body checkoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	result, err := h.paymentService.Checkout(r.Context(), services.CheckoutCommand{
		RequestID: r.PathValue("id"),
		Method:    body.Method,
		Amount:    body.Amount,
		ClientIP:  clientIP(r),
		Locale:    body.Locale,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, checkoutResponse{
		PaymentID:   result.Payment.ID,
		RedirectURL: result.RedirectURL,
	})
}

type ipnResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// VNPayReturn is the processor's return callback. The processor wants an
// acknowledgement body with its own code vocabulary, always on HTTP 200;
// anything else triggers redelivery on its side.
func (h *Handlers) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	result, err := h.paymentService.HandleCallback(r.Context(), r.URL.Query())
	if err != nil {
		writeIPN(w, ipnCodeFor(err))
		return
	}

	h.logger.Info("vnpay callback resolved",
		"payment_id", result.PaymentID,
		"outcome", result.Outcome,
		"applied", result.Applied,
	)
	writeIPN(w, ipnResponse{RspCode: "00", Message: "Confirm Success"})
}

func ipnCodeFor(err error) ipnResponse {
	domErr, ok := domain.IsDomainError(err)
	if !ok {
		return ipnResponse{RspCode: "99", Message: "Unknown error"}
	}
	switch domErr.Code {
	case domain.ErrCodeSignatureInvalid:
		return ipnResponse{RspCode: "97", Message: "Invalid signature"}
	case domain.ErrCodeNotFound:
		return ipnResponse{RspCode: "01", Message: "Order not found"}
	default:
		return ipnResponse{RspCode: "99", Message: "Unknown error"}
	}
}

func writeIPN(w http.ResponseWriter, resp ipnResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
