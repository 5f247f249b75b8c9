// Package vnpay implements the signed redirect / callback protocol for the
// VNPay payment processor.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	fieldSecureHash     = "vnp_SecureHash"
	fieldSecureHashType = "vnp_SecureHashType"
)

// HashData canonicalizes a parameter set for signing: byte-wise key sort,
// query-encoded values, joined as key=value&... The signature fields and
// empty values are excluded so the canonical string is stable no matter how
// the transport reordered or padded the query.
func HashData(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == fieldSecureHash || k == fieldSecureHashType {
			continue
		}
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params.Get(k)))
	}
	return sb.String()
}

// Sign computes the hex-encoded HMAC-SHA512 of the canonical parameter
// string under the shared secret.
func Sign(params url.Values, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(HashData(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over every parameter except the signature
// itself and compares in constant time. The comparison runs over raw MAC
// bytes, not hex strings, so a malformed signature can never shortcut it.
func Verify(params url.Values, providedSig, secret string) bool {
	provided, err := hex.DecodeString(providedSig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(HashData(params)))
	return hmac.Equal(provided, mac.Sum(nil))
}
