package vnpay

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lamvd/dnalab-gateway/internal/config"
	"github.com/lamvd/dnalab-gateway/internal/domain"
)

const (
	version     = "2.1.0"
	commandPay  = "pay"
	currency    = "VND"
	dateLayout  = "20060102150405"
	respSuccess = "00"
)

// Outcome is the internal reading of the processor's response code.
type Outcome string

const (
	OutcomeSuccess  Outcome = "SUCCESS"
	OutcomeDeclined Outcome = "DECLINED"
)

// CallbackData is a verified, decoded return callback. Nothing in here may
// be trusted unless ParseReturn succeeded.
type CallbackData struct {
	TxnRef        string // payment identity we issued on the way out
	TransactionNo string // processor transaction id
	BankCode      string
	ResponseCode  string
	Amount        int64 // minor units
	PayDate       time.Time
	Outcome       Outcome
}

// Gateway builds outbound redirect URLs and verifies inbound callbacks. It
// performs no network I/O; the customer's browser carries both legs.
type Gateway struct {
	cfg config.VNPayConfig
	loc *time.Location
	now func() time.Time
}

func NewGateway(cfg config.VNPayConfig) (*Gateway, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load vnpay timezone %q: %w", cfg.Timezone, err)
	}
	return &Gateway{cfg: cfg, loc: loc, now: time.Now}, nil
}

// PaymentRequest carries the per-payment fields of the redirect URL.
type PaymentRequest struct {
	TxnRef    string // payment identity, echoed back as vnp_TxnRef
	Amount    int64  // minor units; VNPay wants this multiplied by 100
	OrderInfo string
	IPAddr    string
	Locale    string // falls back to the configured default
}

// BuildPaymentURL assembles and signs the redirect URL for a pending
// payment. The signature is appended last and excluded from its own input.
func (g *Gateway) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("txn ref is required")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	locale := req.Locale
	if locale == "" {
		locale = g.cfg.Locale
	}

	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", commandPay)
	params.Set("vnp_TmnCode", g.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CreateDate", g.now().In(g.loc).Format(dateLayout))
	params.Set("vnp_CurrCode", currency)
	params.Set("vnp_IpAddr", req.IPAddr)
	params.Set("vnp_Locale", locale)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", g.cfg.OrderType)
	params.Set("vnp_ReturnUrl", g.cfg.ReturnURL)
	params.Set("vnp_TxnRef", req.TxnRef)

	query := HashData(params)
	sig := Sign(params, g.cfg.HashSecret)

	return g.cfg.PayURL + "?" + query + "&" + fieldSecureHash + "=" + sig, nil
}

// ParseReturn verifies the callback signature and decodes the payload.
// On signature failure the caller must not apply any side effect.
func (g *Gateway) ParseReturn(values url.Values) (*CallbackData, error) {
	providedSig := values.Get(fieldSecureHash)
	if providedSig == "" {
		return nil, domain.NewSignatureInvalidError()
	}
	if !Verify(values, providedSig, g.cfg.HashSecret) {
		return nil, domain.NewSignatureInvalidError()
	}

	data := &CallbackData{
		TxnRef:        values.Get("vnp_TxnRef"),
		TransactionNo: values.Get("vnp_TransactionNo"),
		BankCode:      values.Get("vnp_BankCode"),
		ResponseCode:  values.Get("vnp_ResponseCode"),
		Outcome:       OutcomeDeclined,
	}
	if data.TxnRef == "" {
		return nil, fmt.Errorf("callback missing vnp_TxnRef")
	}

	if raw := values.Get("vnp_Amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse vnp_Amount %q: %w", raw, err)
		}
		data.Amount = amount / 100
	}

	if raw := values.Get("vnp_PayDate"); raw != "" {
		payDate, err := time.ParseInLocation(dateLayout, raw, g.loc)
		if err != nil {
			return nil, fmt.Errorf("parse vnp_PayDate %q: %w", raw, err)
		}
		data.PayDate = payDate
	} else {
		data.PayDate = g.now().In(g.loc)
	}

	if data.ResponseCode == respSuccess {
		data.Outcome = OutcomeSuccess
	}

	return data, nil
}
