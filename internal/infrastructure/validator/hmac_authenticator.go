package validator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
)

// Headers carried by every signed request
const (
	HeaderCaller    = "X-Caller"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
	HeaderSignature = "X-Signature"
)

// ErrUnauthenticated wraps every authentication failure
var ErrUnauthenticated = errors.New("unauthenticated")

// HMACAuthenticator implements the RequestAuthenticator port. A trusted
// gateway sharing secret with the vault asserts the caller of each request.
type HMACAuthenticator struct {
	secret             []byte
	nonceStore         *NonceStore
	timestampTolerance time.Duration
	now                func() time.Time
	logger             logger.Logger
}

// NewHMACAuthenticator creates a new HMAC authenticator
func NewHMACAuthenticator(
	secret string,
	timestampTolerance time.Duration,
	logger logger.Logger,
) *HMACAuthenticator {
	return &HMACAuthenticator{
		secret:             []byte(secret),
		nonceStore:         NewNonceStore(time.Hour),
		timestampTolerance: timestampTolerance,
		now:                time.Now,
		logger:             logger,
	}
}

var _ port.RequestAuthenticator = (*HMACAuthenticator)(nil)

func unauthenticated(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, fmt.Sprintf(format, args...))
}

// Authenticate verifies the signature headers and returns the asserted caller
func (v *HMACAuthenticator) Authenticate(ctx context.Context, r *http.Request, body []byte) (entity.Address, error) {
	callerStr := r.Header.Get(HeaderCaller)
	timestampStr := r.Header.Get(HeaderTimestamp)
	nonce := r.Header.Get(HeaderNonce)
	signature := r.Header.Get(HeaderSignature)

	if callerStr == "" {
		return entity.ZeroAddress, unauthenticated("missing %s header", HeaderCaller)
	}
	if timestampStr == "" {
		return entity.ZeroAddress, unauthenticated("missing %s header", HeaderTimestamp)
	}
	if nonce == "" {
		return entity.ZeroAddress, unauthenticated("missing %s header", HeaderNonce)
	}
	if signature == "" {
		return entity.ZeroAddress, unauthenticated("missing %s header", HeaderSignature)
	}

	caller, err := entity.ParseAddress(callerStr)
	if err != nil {
		return entity.ZeroAddress, unauthenticated("invalid %s header", HeaderCaller)
	}

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return entity.ZeroAddress, unauthenticated("invalid %s format", HeaderTimestamp)
	}
	requestTime := time.Unix(timestamp, 0)

	now := v.now()
	timeDiff := now.Sub(requestTime)
	if timeDiff < 0 {
		timeDiff = -timeDiff
	}
	if timeDiff > v.timestampTolerance {
		v.logger.LogWarning(ctx, "Request timestamp out of tolerance",
			"timestamp", timestamp,
			"current_time", now.Unix(),
			"difference_seconds", timeDiff.Seconds(),
			"tolerance_seconds", v.timestampTolerance.Seconds())
		return entity.ZeroAddress, unauthenticated("timestamp out of tolerance: difference is %v, max allowed is %v", timeDiff, v.timestampTolerance)
	}

	expected := Sign(v.secret, callerStr, timestampStr, nonce, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		v.logger.LogWarning(ctx, "Invalid signature",
			"caller", caller.Hex())
		return entity.ZeroAddress, unauthenticated("invalid signature")
	}

	// Nonces are consumed only by correctly signed requests.
	if !v.nonceStore.IsValid(nonce, now) {
		v.logger.LogWarning(ctx, "Duplicate nonce detected (replay attack)",
			"nonce", nonce,
			"caller", caller.Hex())
		return entity.ZeroAddress, unauthenticated("duplicate nonce detected: possible replay attack")
	}

	return caller, nil
}

// Sign computes the hex HMAC-SHA256 of caller + "\n" + timestamp + "\n" + nonce + "\n" + body
func Sign(secret []byte, caller, timestamp, nonce string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(caller + "\n" + timestamp + "\n" + nonce + "\n"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
