package publisher

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
)

// Breaker stops calling a failing publisher until it has had time to recover
type Breaker struct {
	next port.EventPublisher
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. The breaker opens after 3 consecutive failures or a
// failure ratio above 5% over at least 20 requests, and probes again after timeout.
func NewBreaker(name string, next port.EventPublisher, timeout time.Duration, log logger.Logger) *Breaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = timeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.LogWarning(context.Background(), "Publisher breaker state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String())
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// State reports the breaker state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Publish implements port.EventPublisher
func (b *Breaker) Publish(ctx context.Context, event entity.Event) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Publish(ctx, event)
	})
	return err
}
