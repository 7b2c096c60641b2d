package domain

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/events"
)

// Option configures optional behaviour shared by the services.
type Option func(*options)

// defaultPublishTimeout caps how long a write waits on event delivery.
const defaultPublishTimeout = 2 * time.Second

type options struct {
	publisher      events.Publisher
	publishTimeout time.Duration
	logger         zerolog.Logger
	now            func() time.Time
}

// WithPublisher sets where domain events are sent after successful writes.
func WithPublisher(publisher events.Publisher) Option {
	return func(o *options) {
		if publisher != nil {
			o.publisher = publisher
		}
	}
}

// WithPublishTimeout bounds each publish call. Non-positive values keep the default.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.publishTimeout = timeout
		}
	}
}

// WithLogger overrides the logger used to report best-effort failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		publisher:      events.NoopPublisher{},
		publishTimeout: defaultPublishTimeout,
		logger:         zerolog.Nop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish sends an event without failing the caller; the write it describes already succeeded.
func (o options) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, o.publishTimeout)
	defer cancel()

	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn().Err(err).Str("event_type", event.Type()).Msg("failed to publish event")
	}
}
