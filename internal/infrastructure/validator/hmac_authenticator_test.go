package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian.io/internal/infrastructure/logger"
)

const (
	testSecret = "test-secret-key"
	callerHex  = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	body       = `{"asset":"0x5FbDB2315678afecb367f032d93F642f64180aa3","amount":"50"}`
)

func signedRequest(caller string, timestamp int64, nonce, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/deposits", nil)
	ts := ""
	if timestamp != 0 {
		ts = strconv.FormatInt(timestamp, 10)
		req.Header.Set(HeaderTimestamp, ts)
	}
	if caller != "" {
		req.Header.Set(HeaderCaller, caller)
	}
	if nonce != "" {
		req.Header.Set(HeaderNonce, nonce)
	}
	if signature == "sign" {
		signature = Sign([]byte(testSecret), caller, ts, nonce, []byte(body))
	}
	if signature != "" {
		req.Header.Set(HeaderSignature, signature)
	}
	return req
}

func TestHMACAuthenticator_Authenticate(t *testing.T) {
	auth := NewHMACAuthenticator(testSecret, 5*time.Minute, logger.Nop())
	now := time.Now().Unix()

	tests := []struct {
		name        string
		caller      string
		timestamp   int64
		nonce       string
		signature   string
		errContains string
	}{
		{
			name:      "valid request",
			caller:    callerHex,
			timestamp: now,
			nonce:     "unique-nonce-1",
			signature: "sign",
		},
		{
			name:        "missing caller header",
			timestamp:   now,
			nonce:       "unique-nonce-2",
			signature:   "sign",
			errContains: "missing X-Caller",
		},
		{
			name:        "missing timestamp header",
			caller:      callerHex,
			nonce:       "unique-nonce-3",
			signature:   "sign",
			errContains: "missing X-Timestamp",
		},
		{
			name:        "missing nonce header",
			caller:      callerHex,
			timestamp:   now,
			signature:   "dummy-signature",
			errContains: "missing X-Nonce",
		},
		{
			name:        "missing signature header",
			caller:      callerHex,
			timestamp:   now,
			nonce:       "unique-nonce-4",
			errContains: "missing X-Signature",
		},
		{
			name:        "caller is not an address",
			caller:      "user1",
			timestamp:   now,
			nonce:       "unique-nonce-5",
			signature:   "sign",
			errContains: "invalid X-Caller",
		},
		{
			name:        "timestamp out of tolerance (future)",
			caller:      callerHex,
			timestamp:   time.Now().Add(10 * time.Minute).Unix(),
			nonce:       "unique-nonce-6",
			signature:   "sign",
			errContains: "timestamp out of tolerance",
		},
		{
			name:        "timestamp out of tolerance (past)",
			caller:      callerHex,
			timestamp:   time.Now().Add(-10 * time.Minute).Unix(),
			nonce:       "unique-nonce-7",
			signature:   "sign",
			errContains: "timestamp out of tolerance",
		},
		{
			name:        "invalid signature",
			caller:      callerHex,
			timestamp:   now,
			nonce:       "unique-nonce-8",
			signature:   "invalid-signature",
			errContains: "invalid signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signedRequest(tt.caller, tt.timestamp, tt.nonce, tt.signature)

			caller, err := auth.Authenticate(context.Background(), req, []byte(body))
			if tt.errContains != "" {
				assert.ErrorIs(t, err, ErrUnauthenticated)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, callerHex, caller.Hex())
		})
	}
}

func TestHMACAuthenticator_SignatureCoversCaller(t *testing.T) {
	auth := NewHMACAuthenticator(testSecret, 5*time.Minute, logger.Nop())

	req := signedRequest(callerHex, time.Now().Unix(), "caller-swap", "sign")
	req.Header.Set(HeaderCaller, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	_, err := auth.Authenticate(context.Background(), req, []byte(body))
	assert.ErrorContains(t, err, "invalid signature")
}

func TestHMACAuthenticator_ReplayAttack(t *testing.T) {
	auth := NewHMACAuthenticator(testSecret, 5*time.Minute, logger.Nop())
	req := signedRequest(callerHex, time.Now().Unix(), "replay-nonce-1", "sign")

	_, err := auth.Authenticate(context.Background(), req, []byte(body))
	require.NoError(t, err)

	_, err = auth.Authenticate(context.Background(), req, []byte(body))
	assert.ErrorContains(t, err, "duplicate nonce")
}

func TestHMACAuthenticator_BadSignatureDoesNotConsumeNonce(t *testing.T) {
	auth := NewHMACAuthenticator(testSecret, 5*time.Minute, logger.Nop())
	now := time.Now().Unix()

	_, err := auth.Authenticate(context.Background(), signedRequest(callerHex, now, "shared-nonce", "forged"), []byte(body))
	require.Error(t, err)

	_, err = auth.Authenticate(context.Background(), signedRequest(callerHex, now, "shared-nonce", "sign"), []byte(body))
	assert.NoError(t, err)
}

func TestNonceStore_IsValid(t *testing.T) {
	store := NewNonceStore(time.Hour)
	now := time.Now()

	assert.True(t, store.IsValid("nonce-1", now), "first use of nonce should be valid")
	assert.False(t, store.IsValid("nonce-1", now), "reuse of nonce should be invalid")
	assert.True(t, store.IsValid("nonce-2", now), "different nonce should be valid")
	assert.True(t, store.IsValid("nonce-1", now.Add(2*time.Hour)), "expired nonce may be reused")
}

func TestSign(t *testing.T) {
	sig := Sign([]byte(testSecret), callerHex, "1234567890", "test-nonce", []byte(body))

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, Sign([]byte(testSecret), callerHex, "1234567890", "test-nonce", []byte(body)))
	assert.NotEqual(t, sig, Sign([]byte("other"), callerHex, "1234567890", "test-nonce", []byte(body)))
}
