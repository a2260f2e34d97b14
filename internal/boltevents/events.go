// Package boltevents publishes internal/boltconn lifecycle transitions
// (DEFUNCT, FAILED_SERVER_REPORTED) to a NATS subject, grounded on the
// teacher's pkg/nats wrapper: a thin struct around *nats.Conn with
// connection-option plumbing for credentials, kept distinct from
// internal/boltconn so the core state machine never imports nats.go.
package boltevents

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Config mirrors the teacher's NatsConfig: an address plus one of two
// optional authentication mechanisms.
type Config struct {
	Address       string `json:"address"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	CredsFilePath string `json:"credsFilePath,omitempty"`
}

// Kind names a lifecycle transition. Values match internal/boltconn's
// State names rather than re-exporting boltconn.State, so this package
// stays independent of it at the type level.
type Kind string

const (
	KindDefunct             Kind = "defunct"
	KindFailedServerReported Kind = "failed_server_reported"
)

// Event is the JSON payload published on the configured subject.
type Event struct {
	Kind       Kind   `json:"kind"`
	ServerCode string `json:"serverCode,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Publisher wraps a *nats.Conn and a fixed subject, the way the
// teacher's Client wraps a connection and a subscription list — here
// there is nothing to subscribe to, only a single well-known subject
// connections publish their lifecycle onto.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to cfg.Address and returns a Publisher bound
// to subject. Returns an error rather than silently skipping, unlike
// the teacher's singleton Connect, since an events sink misconfigured
// at startup should fail loudly rather than drop events forever.
func NewPublisher(cfg Config, subject string) (*Publisher, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("boltevents: address is required")
	}

	var opts []nats.Option
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.CredsFilePath != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFilePath))
	}

	nc, err := nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("boltevents: connect: %w", err)
	}
	return &Publisher{conn: nc, subject: subject}, nil
}

// Publish marshals ev and publishes it to the bound subject.
func (p *Publisher) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("boltevents: marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("boltevents: publish: %w", err)
	}
	return nil
}

// Close closes the underlying NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// Recorder adapts Publisher to fire-and-forget lifecycle hooks a
// Conn can call alongside metrics. Publish errors are swallowed: an
// events sink must never cause a driver call to fail.
type Recorder struct {
	pub *Publisher
}

func NewRecorder(pub *Publisher) *Recorder { return &Recorder{pub: pub} }

func (r *Recorder) Defunct(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	_ = r.pub.Publish(Event{Kind: KindDefunct, Message: msg})
}

func (r *Recorder) FailedServerReported(serverCode, severity string) {
	_ = r.pub.Publish(Event{Kind: KindFailedServerReported, ServerCode: serverCode, Severity: severity})
}
