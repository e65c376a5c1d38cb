// Package events announces sync results on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nanoncore/olt-gateway/syncer"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubjectPrefix is prepended to "<tenant>.<olt>".
const DefaultSubjectPrefix = "olt.sync"

// DefaultFlushTimeout bounds the flush when the caller's context has no
// deadline; nats.go refuses to flush without one.
const DefaultFlushTimeout = 5 * time.Second

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSPublisher publishes each OLTResult as JSON on
// <prefix>.<tenant>.<olt>.
type NATSPublisher struct {
	conn   conn
	prefix string
	logger zerolog.Logger
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(nc *nats.Conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	return newPublisher(nc, prefix, logger)
}

func newPublisher(c conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: c, prefix: prefix, logger: logger}
}

// Connect dials NATS with reconnect logging and returns a publisher.
func Connect(url, prefix string, logger zerolog.Logger) (*NATSPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("oltsync"),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSPublisher(nc, prefix, logger), nc, nil
}

// Subject returns the subject a result is published on.
func (p *NATSPublisher) Subject(result *syncer.OLTResult) string {
	return p.prefix + "." + strconv.FormatInt(result.TenantID, 10) + "." + strconv.FormatInt(result.OLTID, 10)
}

// Publish implements syncer.Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, result *syncer.OLTResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal sync result: %w", err)
	}

	subject := p.Subject(result)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish sync result: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFlushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush sync result: %w", err)
	}

	p.logger.Debug().Str("subject", subject).Str("outcome", string(result.Outcome)).Msg("Published sync result")
	return nil
}

// Noop discards results.
type Noop struct{}

func (Noop) Publish(context.Context, *syncer.OLTResult) error { return nil }

var (
	_ syncer.Publisher = (*NATSPublisher)(nil)
	_ syncer.Publisher = Noop{}
)
