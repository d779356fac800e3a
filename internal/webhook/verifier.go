package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/event"
)

// DefaultTolerance bounds how stale a signed timestamp may be before the
// delivery is treated as a replay.
const DefaultTolerance = 5 * time.Minute

// AuthenticityError reports that a webhook payload could not be attributed
// to the processor: bad header, signature mismatch, or stale timestamp.
type AuthenticityError struct {
	Reason string
}

func (e *AuthenticityError) Error() string {
	return "webhook authenticity: " + e.Reason
}

// Verifier validates inbound webhook payloads against the shared secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier creates a webhook verifier. A non-positive tolerance falls
// back to DefaultTolerance.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// processorEvent is the wire shape of a processor notification.
type processorEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object map[string]any `json:"object"`
	} `json:"data"`
}

// Verify checks the signature header against the raw payload bytes and, on
// success, parses the payload into an Event. The payload must be the exact
// byte sequence received on the wire; the MAC covers "<timestamp>.<payload>"
// and any re-serialization invalidates it.
//
// The header format is "t=<unix>,v1=<hex>[,v1=<hex>...]"; any matching v1
// entry accepts the delivery. Verification is pure: all side effects happen
// after it succeeds.
func (v *Verifier) Verify(payload []byte, sigHeader string) (*event.Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if drift := v.now().Sub(time.Unix(timestamp, 0)); drift > v.tolerance || drift < -v.tolerance {
		return nil, &AuthenticityError{Reason: "timestamp outside tolerance"}
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	matched := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, &AuthenticityError{Reason: "signature mismatch"}
	}

	var raw processorEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse verified event: %w", err)
	}
	if raw.ID == "" || raw.Type == "" {
		return nil, fmt.Errorf("verified event missing id or type")
	}

	return event.New(raw.ID, event.Type(raw.Type), time.Unix(raw.Created, 0), raw.Data.Object), nil
}

// parseSignatureHeader splits "t=...,v1=...,v1=..." into its timestamp and
// candidate signatures. Unknown schemes are ignored for forward
// compatibility.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, &AuthenticityError{Reason: "missing signature header"}
	}

	var (
		timestamp  int64
		hasT       bool
		signatures []string
	)

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return 0, nil, &AuthenticityError{Reason: "malformed signature header"}
		}

		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, &AuthenticityError{Reason: "malformed signature timestamp"}
			}
			timestamp = ts
			hasT = true
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if !hasT || len(signatures) == 0 {
		return 0, nil, &AuthenticityError{Reason: "signature header missing timestamp or signature"}
	}

	return timestamp, signatures, nil
}
