package boltconn

// State is one of the ten connection states spec.md §4.7 names.
type State int

const (
	StateFresh State = iota
	StateTCPConnected
	StateBoltHandshaken
	StateHelloAuthSent
	StateReady
	StateStreaming
	StateAwaitingSummary
	StateFailedServerReported
	StateDefunct
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "FRESH"
	case StateTCPConnected:
		return "TCP_CONNECTED"
	case StateBoltHandshaken:
		return "BOLT_HANDSHAKEN"
	case StateHelloAuthSent:
		return "HELLO_AUTH_SENT"
	case StateReady:
		return "READY"
	case StateStreaming:
		return "STREAMING"
	case StateAwaitingSummary:
		return "AWAITING_SUMMARY"
	case StateFailedServerReported:
		return "FAILED_SERVER_REPORTED"
	case StateDefunct:
		return "DEFUNCT"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Severity is the advisory classification attached to a server FAILURE
// (spec.md §7). It never gates whether RESET can recover the
// connection — RESET is always attempted the same way regardless of
// severity — it only tells the caller how much hope a bare retry has.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityTransient
	SeverityRecoverable
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityTransient:
		return "transient"
	case SeverityRecoverable:
		return "recoverable"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}
