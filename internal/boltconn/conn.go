package boltconn

import (
	"bytes"
	"io"
	"time"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// Transport is the byte-oriented collaborator this layer is
// parameterized over (spec.md §6): a synchronous read/write/close
// stream. Flush is optional — ChunkWrite probes for it via an
// interface assertion, matching how the teacher's buffered writers are
// sometimes, sometimes not, flush-aware.
type Transport interface {
	io.Reader
	io.Writer
	Close() error
}

// Logger is the optional, no-op-by-default collaborator (spec.md §6).
// internal/boltlog's Logger satisfies this.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Err(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Err(string, ...any)   {}

// Metrics is the optional, no-op-by-default collaborator that observes
// request latency and terminal outcomes. internal/boltmetrics.Metrics
// satisfies this; kept as a local interface (rather than importing
// that package) so the core state machine never depends on
// client_golang directly.
type Metrics interface {
	ObserveRequest(kind string, dur time.Duration)
	IncSummary(kind string)
	IncDefunct()
	IncFailure(severity string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, time.Duration) {}
func (noopMetrics) IncSummary(string)                    {}
func (noopMetrics) IncDefunct()                          {}
func (noopMetrics) IncFailure(string)                    {}

// EventSink is the optional, no-op-by-default collaborator that fans
// connection lifecycle transitions out to an external bus.
// internal/boltevents.Recorder satisfies this.
type EventSink interface {
	Defunct(err error)
	FailedServerReported(serverCode, severity string)
}

type noopEventSink struct{}

func (noopEventSink) Defunct(error)          {}
func (noopEventSink) FailedServerReported(string, string) {}

// RecordHandler processes one RECORD during a streaming request
// (spec.md §4.7). Returning an error marks the connection DEFUNCT.
type RecordHandler func(fields []packstream.Value) error

// Conn is the physical connection state machine. It is not safe for
// concurrent use: spec.md §5 states a connection is owned by at most
// one logical task at a time.
type Conn struct {
	transport Transport
	log       Logger
	metrics   Metrics
	events    EventSink
	version   bolt.Version
	state     State
	severity  Severity
	maxMsg    int
}

// New wraps transport, which the caller has already connected
// (spec.md §1's FRESH→TCP_CONNECTED transition is external to this
// package — TCP/TLS/DNS mechanics are a Non-goal). log may be nil, in
// which case a no-op logger is used.
func New(transport Transport, log Logger) *Conn {
	if log == nil {
		log = noopLogger{}
	}
	return &Conn{transport: transport, log: log, metrics: noopMetrics{}, events: noopEventSink{}, state: StateTCPConnected, maxMsg: bolt.DefaultMaxMessageSize}
}

func (c *Conn) State() State          { return c.state }
func (c *Conn) Version() bolt.Version { return c.version }
func (c *Conn) Severity() Severity    { return c.severity }

// SetMaxMessageSize overrides the per-message size cap ChunkRead
// enforces (bolt.DefaultMaxMessageSize otherwise).
func (c *Conn) SetMaxMessageSize(n int) { c.maxMsg = n }

// SetMetrics installs m as the recorder for request latency and
// terminal-summary counts. Passing nil restores the no-op recorder.
func (c *Conn) SetMetrics(m Metrics) {
	if m == nil {
		m = noopMetrics{}
	}
	c.metrics = m
}

// SetEventSink installs s as the lifecycle-event fan-out. Passing nil
// restores the no-op sink.
func (c *Conn) SetEventSink(s EventSink) {
	if s == nil {
		s = noopEventSink{}
	}
	c.events = s
}

func (c *Conn) markDefunct(err error) error {
	c.state = StateDefunct
	c.metrics.IncDefunct()
	c.events.Defunct(err)
	c.log.Err("connection marked defunct", "error", err)
	return err
}

// PerformHandshake runs the C4 handshake over the transport and
// advances TCP_CONNECTED → BOLT_HANDSHAKEN; any other starting state is
// rejected with InvalidArgument.
func (c *Conn) PerformHandshake(proposed []bolt.Version) error {
	if c.state != StateTCPConnected {
		return newErr(InvalidArgument, "PerformHandshake requires TCP_CONNECTED state")
	}
	v, err := bolt.PerformHandshake(c.transport, proposed)
	if err != nil {
		return c.markDefunct(wrapErr(HandshakeFailed, "handshake failed", err))
	}
	c.version = v
	c.state = StateBoltHandshaken
	c.log.Info("handshake complete", "version", v.String())
	return nil
}

func (c *Conn) encodeStructure(val packstream.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := packstream.NewEncoder(&buf)
	if err := enc.Encode(val); err != nil {
		return nil, wrapErr(SerializationError, "encode message", err)
	}
	return buf.Bytes(), nil
}

func (c *Conn) sendChunked(payload []byte) error {
	if err := bolt.ChunkWrite(c.transport, payload); err != nil {
		return wrapErr(NetworkError, "chunk-write message", err)
	}
	return nil
}

// readOneMessage reads chunks until a non-empty payload (skipping bare
// NOOP keepalives, spec.md §4.3/§8 scenario 6) and decodes exactly one
// PackStream Value from it.
func (c *Conn) readOneMessage() (packstream.Value, error) {
	for {
		payload, err := bolt.ChunkReadWithLimit(c.transport, c.maxMsg)
		if err != nil {
			if bolt.CodeOf(err) == bolt.MessageTooLarge {
				return packstream.Value{}, wrapErr(MessageTooLarge, "message exceeds size limit", err)
			}
			return packstream.Value{}, wrapErr(NetworkError, "chunk-read message", err)
		}
		if len(payload) == 0 {
			continue // NOOP keepalive
		}
		dec := packstream.NewDecoder(bytes.NewReader(payload))
		val, err := dec.Decode()
		if err != nil {
			return packstream.Value{}, wrapErr(DeserializationError, "decode message", err)
		}
		return val, nil
	}
}

// SendHello serializes and sends HELLO, then awaits its summary.
func (c *Conn) SendHello(p messages.HelloParams) (messages.SuccessParams, error) {
	val, err := messages.SerializeHello(p, c.version)
	if err != nil {
		return messages.SuccessParams{}, wrapErr(SerializationError, "serialize HELLO", err)
	}
	return c.sendRequestReceiveSummary(val)
}

// SendLogon serializes and sends LOGON (Bolt >= 5.1's auth message),
// then awaits its summary. Must be called from READY.
func (c *Conn) SendLogon(p messages.LogonParams) (messages.SuccessParams, error) {
	val, err := messages.SerializeLogon(p, c.version)
	if err != nil {
		return messages.SuccessParams{}, wrapErr(SerializationError, "serialize LOGON", err)
	}
	return c.sendRequestReceiveSummary(val)
}

// SendLogoff serializes and sends LOGOFF, then awaits its summary.
func (c *Conn) SendLogoff() (messages.SuccessParams, error) {
	val := messages.SerializeLogoff(c.version)
	return c.sendRequestReceiveSummary(val)
}

// SendRequestReceiveSummary sends an already-serialized request
// message (RUN without PULL, BEGIN, COMMIT, ROLLBACK, …) and waits for
// its terminal summary, with no RECORDs expected in between.
func (c *Conn) SendRequestReceiveSummary(val packstream.Value) (messages.SuccessParams, error) {
	return c.sendRequestReceiveSummary(val)
}

func (c *Conn) sendRequestReceiveSummary(val packstream.Value) (messages.SuccessParams, error) {
	if c.state != StateReady && c.state != StateHelloAuthSent && c.state != StateBoltHandshaken {
		return messages.SuccessParams{}, newErr(InvalidArgument, "send_request_receive_summary requires READY, HELLO_AUTH_SENT or BOLT_HANDSHAKEN")
	}
	start := time.Now()
	payload, err := c.encodeStructure(val)
	if err != nil {
		return messages.SuccessParams{}, c.markDefunct(err)
	}
	if err := c.sendChunked(payload); err != nil {
		return messages.SuccessParams{}, c.markDefunct(err)
	}
	if c.state == StateBoltHandshaken {
		c.state = StateHelloAuthSent
	} else {
		c.state = StateAwaitingSummary
	}
	sp, err := c.awaitSummary()
	c.metrics.ObserveRequest("summary", time.Since(start))
	return sp, err
}

// SendRequestReceiveStream sends a streaming request (RUN+PULL style)
// and delivers each RECORD to handler before the terminal summary
// (spec.md §4.7).
func (c *Conn) SendRequestReceiveStream(val packstream.Value, handler RecordHandler) (messages.SuccessParams, error) {
	if c.state != StateReady {
		return messages.SuccessParams{}, newErr(InvalidArgument, "send_request_receive_stream requires READY")
	}
	start := time.Now()
	payload, err := c.encodeStructure(val)
	if err != nil {
		return messages.SuccessParams{}, c.markDefunct(err)
	}
	if err := c.sendChunked(payload); err != nil {
		return messages.SuccessParams{}, c.markDefunct(err)
	}
	c.state = StateStreaming

	for {
		msgVal, err := c.readOneMessage()
		if err != nil {
			return messages.SuccessParams{}, c.markDefunct(err)
		}
		st, ok := msgVal.AsStructure()
		if !ok {
			return messages.SuccessParams{}, c.markDefunct(newErr(InvalidMessageFormat, "server reply is not a Structure"))
		}
		switch st.Tag {
		case messages.TagRecord:
			rec, err := messages.DeserializeRecord(msgVal, c.version)
			if err != nil {
				return messages.SuccessParams{}, c.markDefunct(wrapErr(InvalidMessageFormat, "decode RECORD", err))
			}
			if err := handler(rec.Fields); err != nil {
				return messages.SuccessParams{}, c.markDefunct(wrapErr(UnknownError, "record handler failed", err))
			}
		case messages.TagSuccess:
			sp, err := messages.DeserializeSuccess(msgVal, c.version)
			if err != nil {
				return messages.SuccessParams{}, c.markDefunct(wrapErr(InvalidMessageFormat, "decode SUCCESS", err))
			}
			c.state = StateReady
			c.metrics.ObserveRequest("stream", time.Since(start))
			c.metrics.IncSummary("success")
			return sp, nil
		case messages.TagFailure:
			c.metrics.ObserveRequest("stream", time.Since(start))
			return messages.SuccessParams{}, c.handleFailure(msgVal)
		case messages.TagIgnored:
			c.metrics.ObserveRequest("stream", time.Since(start))
			return messages.SuccessParams{}, c.handleIgnored(msgVal)
		default:
			return messages.SuccessParams{}, c.markDefunct(newErr(InvalidMessageFormat, "unexpected message tag during stream"))
		}
	}
}

func (c *Conn) awaitSummary() (messages.SuccessParams, error) {
	msgVal, err := c.readOneMessage()
	if err != nil {
		return messages.SuccessParams{}, c.markDefunct(err)
	}
	st, ok := msgVal.AsStructure()
	if !ok {
		return messages.SuccessParams{}, c.markDefunct(newErr(InvalidMessageFormat, "server reply is not a Structure"))
	}
	switch st.Tag {
	case messages.TagSuccess:
		sp, err := messages.DeserializeSuccess(msgVal, c.version)
		if err != nil {
			return messages.SuccessParams{}, c.markDefunct(wrapErr(InvalidMessageFormat, "decode SUCCESS", err))
		}
		c.state = StateReady
		c.metrics.IncSummary("success")
		return sp, nil
	case messages.TagFailure:
		return messages.SuccessParams{}, c.handleFailure(msgVal)
	case messages.TagIgnored:
		return messages.SuccessParams{}, c.handleIgnored(msgVal)
	default:
		return messages.SuccessParams{}, c.markDefunct(newErr(InvalidMessageFormat, "unexpected message tag awaiting summary"))
	}
}

func (c *Conn) handleFailure(val packstream.Value) error {
	fp, err := messages.DeserializeFailure(val, c.version)
	if err != nil {
		return c.markDefunct(wrapErr(InvalidMessageFormat, "decode FAILURE", err))
	}
	c.severity = classifyFailureCode(fp.Code)
	c.state = StateFailedServerReported
	c.metrics.IncSummary("failure")
	c.metrics.IncFailure(c.severity.String())
	c.events.FailedServerReported(fp.Code, c.severity.String())
	c.log.Warn("server reported failure", "code", fp.Code, "message", fp.Message, "severity", c.severity.String())
	return &FailureError{ServerCode: fp.Code, ServerMessage: fp.Message, Severity: c.severity}
}

// ignoredRequestCode is synthesized when a server omits a code on
// IGNORED (spec.md §4.7 step 7).
const ignoredRequestCode = "Neo.ClientError.Request.Ignored"

func (c *Conn) handleIgnored(val packstream.Value) error {
	ip, err := messages.DeserializeIgnored(val, c.version)
	if err != nil {
		return c.markDefunct(wrapErr(InvalidMessageFormat, "decode IGNORED", err))
	}
	code := ignoredRequestCode
	msg := "request ignored by server"
	if ip.Metadata != nil {
		if v, ok := ip.Metadata["code"]; ok {
			if s, ok := v.AsString(); ok {
				code = s
			}
		}
		if v, ok := ip.Metadata["message"]; ok {
			if s, ok := v.AsString(); ok {
				msg = s
			}
		}
	}
	c.severity = SeverityRecoverable
	c.state = StateFailedServerReported
	c.metrics.IncSummary("ignored")
	c.metrics.IncFailure(c.severity.String())
	c.events.FailedServerReported(code, c.severity.String())
	c.log.Warn("request ignored", "code", code)
	return &FailureError{ServerCode: code, ServerMessage: msg, Severity: c.severity}
}

// PerformReset builds and sends RESET; on success it forces state to
// READY even from FAILED_SERVER_REPORTED (spec.md §4.7); on any
// failure the connection is left DEFUNCT.
func (c *Conn) PerformReset() error {
	if c.state == StateDefunct || c.state == StateClosed {
		return newErr(InvalidArgument, "PerformReset called on a DEFUNCT or CLOSED connection")
	}
	val := messages.SerializeReset(c.version)
	payload, err := c.encodeStructure(val)
	if err != nil {
		return c.markDefunct(err)
	}
	if err := c.sendChunked(payload); err != nil {
		return c.markDefunct(err)
	}
	c.state = StateAwaitingSummary
	msgVal, err := c.readOneMessage()
	if err != nil {
		return c.markDefunct(err)
	}
	st, ok := msgVal.AsStructure()
	if !ok {
		return c.markDefunct(newErr(InvalidMessageFormat, "RESET reply is not a Structure"))
	}
	if st.Tag != messages.TagSuccess {
		return c.markDefunct(newErr(InvalidMessageFormat, "RESET did not receive SUCCESS"))
	}
	if _, err := messages.DeserializeSuccess(msgVal, c.version); err != nil {
		return c.markDefunct(wrapErr(InvalidMessageFormat, "decode RESET SUCCESS", err))
	}
	c.state = StateReady
	c.severity = SeverityNone
	return nil
}

// SendGoodbye serializes and chunk-sends GOODBYE without waiting for a
// reply, then closes the transport (spec.md §4.7).
func (c *Conn) SendGoodbye() error {
	if c.state == StateDefunct || c.state == StateClosed {
		return newErr(InvalidArgument, "SendGoodbye called on a DEFUNCT or CLOSED connection")
	}
	val := messages.SerializeGoodbye(c.version)
	payload, err := c.encodeStructure(val)
	if err == nil {
		_ = c.sendChunked(payload)
	}
	c.state = StateClosed
	return c.transport.Close()
}

// Close closes the transport directly without sending GOODBYE, for use
// after the connection is already DEFUNCT.
func (c *Conn) Close() error {
	c.state = StateClosed
	return c.transport.Close()
}
