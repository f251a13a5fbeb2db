package notify

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject prefix used when none is configured.
const DefaultSubject = "cartographer.events"

// natsConn is the subset of *nats.Conn used by Publisher.
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher publishes notifications as JSON messages on
// "<subject>.<notification name>".
type Publisher struct {
	conn    natsConn
	subject string
	logger  *slog.Logger
}

// Connect dials a NATS server and returns a Publisher for the subject prefix.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("cartographer"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil && logger != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return newPublisher(nc, subject, logger), nil
}

func newPublisher(conn natsConn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}
}

// Emit implements Sink. Publish failures are logged and dropped.
func (p *Publisher) Emit(name string, payload any) {
	data, err := encode(name, payload)
	if err != nil {
		p.logger.Warn("encode notification", "name", name, "error", err)
		return
	}
	if err := p.conn.Publish(p.subject+"."+name, data); err != nil {
		p.logger.Warn("publish notification", "name", name, "error", err)
	}
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
