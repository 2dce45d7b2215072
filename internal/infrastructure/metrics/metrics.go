package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"custodian.io/internal/domain/entity"
)

// Registry holds the vault's Prometheus metrics
type Registry struct {
	registry *prometheus.Registry

	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Paused            prometheus.Gauge
	WhitelistedAssets prometheus.Gauge
}

// NewRegistry creates the metrics and registers them on a private registry
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_operations_total",
				Help: "Vault operations by operation and result",
			},
			[]string{"op", "result"},
		),

		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_operation_duration_seconds",
				Help:    "Duration of vault operations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),

		Paused: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vault_paused",
				Help: "1 while deposits and withdrawals are halted",
			},
		),

		WhitelistedAssets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vault_whitelisted_assets",
				Help: "Number of assets currently accepted",
			},
		),
	}

	r.registry.MustRegister(
		r.Operations,
		r.OperationDuration,
		r.Paused,
		r.WhitelistedAssets,
		collectors.NewGoCollector(),
	)
	return r
}

// Observe records the outcome of one operation
func (r *Registry) Observe(op string, start time.Time, err error) {
	r.Operations.WithLabelValues(op, Result(err)).Inc()
	r.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetPaused mirrors the vault pause flag
func (r *Registry) SetPaused(paused bool) {
	if paused {
		r.Paused.Set(1)
		return
	}
	r.Paused.Set(0)
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Result maps an operation error to a low-cardinality label value
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrNotAdministrator):
		return "not_administrator"
	case errors.Is(err, entity.ErrZeroAddress):
		return "zero_address"
	case errors.Is(err, entity.ErrAssetNotWhitelisted):
		return "not_whitelisted"
	case errors.Is(err, entity.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, entity.ErrPaused):
		return "paused"
	case errors.Is(err, entity.ErrNotPaused):
		return "not_paused"
	case errors.Is(err, entity.ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, entity.ErrBalanceOverflow):
		return "overflow"
	default:
		return "error"
	}
}
