package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/model"
)

// SignatureHeader carries "t=<unix>,v1=<hex>" where the hex part is an
// HMAC-SHA256 of "<unix>.<raw body>" under the webhook secret.
const SignatureHeader = "Payment-Signature"

const EventCheckoutCompleted = "checkout.session.completed"

// ConfirmationEvent is the gateway's server-to-server payment confirmation.
// The customer email is the only identity the workflow trusts; any user id
// a client could have asserted earlier is ignored.
type ConfirmationEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		SessionID     string `json:"session_id"`
		CustomerEmail string `json:"customer_email"`
		AmountTotal   int64  `json:"amount_total"`
	} `json:"data"`
}

func ParseConfirmation(body []byte) (*ConfirmationEvent, error) {
	var ev ConfirmationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: bad payload", model.ErrInvalidSignature)
	}
	return &ev, nil
}

// VerifySignature authenticates a webhook body against its signature
// header. Signatures older than tolerance are rejected to blunt replays.
func VerifySignature(body []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			ts = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			sig = strings.TrimPrefix(part, "v1=")
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed header", model.ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp", model.ErrInvalidSignature)
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > tolerance || age < -tolerance {
		return fmt.Errorf("%w: stale timestamp", model.ErrInvalidSignature)
	}

	expected := ComputeSignature(body, ts, secret)
	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(got, expected) {
		return fmt.Errorf("%w: digest mismatch", model.ErrInvalidSignature)
	}
	return nil
}

func ComputeSignature(body []byte, ts, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureHeaderValue builds a header the way the gateway signs one.
func SignatureHeaderValue(body []byte, secret string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(ComputeSignature(body, ts, secret))
}
