package vnpay

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamvd/dnalab-gateway/internal/config"
	"github.com/lamvd/dnalab-gateway/internal/domain"
)

func testGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := NewGateway(config.VNPayConfig{
		TmnCode:    "DNALAB01",
		HashSecret: testSecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://dnalab.example.com/api/v1/payments/vnpay/return",
		Locale:     "vn",
		OrderType:  "other",
		Timezone:   "UTC",
	})
	require.NoError(t, err)
	g.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return g
}

func TestNewGateway_RejectsUnknownTimezone(t *testing.T) {
	_, err := NewGateway(config.VNPayConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestBuildPaymentURL(t *testing.T) {
	g := testGateway(t)

	raw, err := g.BuildPaymentURL(PaymentRequest{
		TxnRef:    "pay-1",
		Amount:    250000,
		OrderInfo: "Payment for test request req-1",
		IPAddr:    "203.0.113.7",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sandbox.vnpayment.vn", parsed.Host)

	params := parsed.Query()
	assert.Equal(t, "2.1.0", params.Get("vnp_Version"))
	assert.Equal(t, "pay", params.Get("vnp_Command"))
	assert.Equal(t, "DNALAB01", params.Get("vnp_TmnCode"))
	assert.Equal(t, "25000000", params.Get("vnp_Amount"), "amount is multiplied by 100")
	assert.Equal(t, "20250314093000", params.Get("vnp_CreateDate"))
	assert.Equal(t, "VND", params.Get("vnp_CurrCode"))
	assert.Equal(t, "pay-1", params.Get("vnp_TxnRef"))
	assert.Equal(t, "vn", params.Get("vnp_Locale"))

	sig := params.Get("vnp_SecureHash")
	require.NotEmpty(t, sig)
	assert.True(t, Verify(params, sig, testSecret))
}

func TestBuildPaymentURL_Validation(t *testing.T) {
	g := testGateway(t)

	_, err := g.BuildPaymentURL(PaymentRequest{Amount: 100})
	assert.Error(t, err)

	_, err = g.BuildPaymentURL(PaymentRequest{TxnRef: "pay-1", Amount: 0})
	assert.Error(t, err)
}

func signedCallback(g *Gateway, mutate func(url.Values)) url.Values {
	params := url.Values{}
	params.Set("vnp_TxnRef", "pay-1")
	params.Set("vnp_TransactionNo", "14233591")
	params.Set("vnp_BankCode", "NCB")
	params.Set("vnp_ResponseCode", "00")
	params.Set("vnp_Amount", "25000000")
	params.Set("vnp_PayDate", "20250314093045")
	if mutate != nil {
		mutate(params)
	}
	params.Set("vnp_SecureHash", Sign(params, g.cfg.HashSecret))
	return params
}

func TestParseReturn_Success(t *testing.T) {
	g := testGateway(t)

	data, err := g.ParseReturn(signedCallback(g, nil))
	require.NoError(t, err)

	assert.Equal(t, "pay-1", data.TxnRef)
	assert.Equal(t, "14233591", data.TransactionNo)
	assert.Equal(t, "NCB", data.BankCode)
	assert.Equal(t, OutcomeSuccess, data.Outcome)
	assert.Equal(t, int64(250000), data.Amount, "amount is divided back by 100")
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 45, 0, time.UTC), data.PayDate)
}

func TestParseReturn_Declined(t *testing.T) {
	g := testGateway(t)

	data, err := g.ParseReturn(signedCallback(g, func(p url.Values) {
		p.Set("vnp_ResponseCode", "24")
	}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, data.Outcome)
	assert.Equal(t, "24", data.ResponseCode)
}

func TestParseReturn_TamperedAmountFailsVerification(t *testing.T) {
	g := testGateway(t)

	params := signedCallback(g, nil)
	params.Set("vnp_Amount", "100")

	_, err := g.ParseReturn(params)
	require.Error(t, err)

	domErr, ok := domain.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeSignatureInvalid, domErr.Code)
}

func TestParseReturn_MissingSignature(t *testing.T) {
	g := testGateway(t)

	params := signedCallback(g, nil)
	params.Del("vnp_SecureHash")

	_, err := g.ParseReturn(params)
	require.Error(t, err)

	domErr, ok := domain.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeSignatureInvalid, domErr.Code)
}

func TestParseReturn_MissingTxnRef(t *testing.T) {
	g := testGateway(t)

	params := signedCallback(g, func(p url.Values) {
		p.Del("vnp_TxnRef")
	})

	_, err := g.ParseReturn(params)
	require.Error(t, err)

	_, ok := domain.IsDomainError(err)
	assert.False(t, ok, "a verified but incomplete callback is not a signature failure")
}

func TestParseReturn_DefaultsPayDateToNow(t *testing.T) {
	g := testGateway(t)

	data, err := g.ParseReturn(signedCallback(g, func(p url.Values) {
		p.Del("vnp_PayDate")
	}))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), data.PayDate)
}
