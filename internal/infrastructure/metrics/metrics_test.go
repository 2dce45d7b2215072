package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian.io/internal/domain/entity"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{entity.ErrNotAdministrator, "not_administrator"},
		{entity.ErrZeroAddress, "zero_address"},
		{entity.ErrAssetNotWhitelisted, "not_whitelisted"},
		{entity.ErrInvalidAmount, "invalid_amount"},
		{entity.ErrPaused, "paused"},
		{entity.ErrNotPaused, "not_paused"},
		{fmt.Errorf("%w: %w", entity.ErrTransferFailed, errors.New("allowance")), "transfer_failed"},
		{entity.ErrBalanceOverflow, "overflow"},
		{errors.New("other"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry()

	r.Observe("deposit", time.Now(), nil)
	r.Observe("deposit", time.Now(), nil)
	r.Observe("deposit", time.Now(), entity.ErrPaused)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Operations.WithLabelValues("deposit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Operations.WithLabelValues("deposit", "paused")))

	r.SetPaused(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Paused))
	r.SetPaused(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Paused))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.Observe("withdraw", time.Now(), nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vault_operations_total{op="withdraw",result="ok"} 1`)
}
