package explorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultProviderTimeout bounds a single upstream call.
const DefaultProviderTimeout = 10 * time.Second

type options struct {
	now             func() time.Time
	providerTimeout time.Duration
	logger          *logrus.Logger
}

// Option configures caches, the location resolver and the service.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		now:             time.Now,
		providerTimeout: DefaultProviderTimeout,
		logger:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the time source used for batch timestamps and ages.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithProviderTimeout sets the deadline applied to each upstream call.
// Zero disables it.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *options) {
		o.providerTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// callProvider runs one upstream call under the provider timeout and records its latency.
func callProvider[R any](ctx context.Context, o options, name string, call func(context.Context) (R, error)) (R, error) {
	if o.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.providerTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := call(ctx)
	providerDuration.WithLabelValues(name, providerStatus(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return res, providerFailure(err)
	}
	return res, nil
}

func providerFailure(err error) error {
	if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderEmpty) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
}

func storeFailure(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
