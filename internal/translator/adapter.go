package translator

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

// AdapterConfig holds the retry and timeout policy for remote calls.
type AdapterConfig struct {
	// Timeout bounds a single remote call, including connection setup.
	Timeout time.Duration
	// MaxAttempts is the total number of tries per text (first call plus
	// retries). Transient failures are retried up to this bound; permanent
	// failures are returned immediately.
	MaxAttempts int
	// InitialInterval and Multiplier shape the exponential backoff between
	// retries.
	InitialInterval time.Duration
	Multiplier      float64
}

// DefaultAdapterConfig mirrors the retry policy of the original pipeline:
// 30s per call, three attempts, doubling delay starting at 500ms.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Timeout:         30 * time.Second,
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		Multiplier:      2.0,
	}
}

// Adapter wraps a Provider with timeout, bounded exponential backoff on
// transient errors, and a circuit breaker so a dead endpoint fails fast
// instead of spending the whole retry budget on every record.
type Adapter struct {
	provider Provider
	config   AdapterConfig
	breaker  *gobreaker.CircuitBreaker
}

// NewAdapter creates an adapter around the given provider.
func NewAdapter(provider Provider, config AdapterConfig) *Adapter {
	if config.Timeout <= 0 {
		config.Timeout = DefaultAdapterConfig().Timeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultAdapterConfig().MaxAttempts
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = DefaultAdapterConfig().InitialInterval
	}
	if config.Multiplier <= 1 {
		config.Multiplier = DefaultAdapterConfig().Multiplier
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "translate-" + provider.Name(),
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Adapter{
		provider: provider,
		config:   config,
		breaker:  breaker,
	}
}

// Translate translates one text. The call is idempotent from the caller's
// perspective: repeating it with the same input is always safe.
func (a *Adapter) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var result string
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()

		out, err := a.breaker.Execute(func() (interface{}, error) {
			return a.provider.Translate(callCtx, text)
		})
		if err != nil {
			classified := Classify(err)
			if IsPermanent(classified) {
				return backoff.Permanent(classified)
			}
			return classified
		}

		result = out.(string)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = a.config.InitialInterval
	policy.Multiplier = a.config.Multiplier
	policy.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(a.config.MaxAttempts-1)), ctx))
	if err != nil {
		return "", err
	}
	return result, nil
}

// Name returns the wrapped provider's name.
func (a *Adapter) Name() string {
	return a.provider.Name()
}
