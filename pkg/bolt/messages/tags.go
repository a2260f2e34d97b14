package messages

// Message tag bytes, spec.md §4.6.
const (
	TagHello    = 0x01
	TagGoodbye  = 0x02
	TagReset    = 0x0F
	TagRun      = 0x10
	TagBegin    = 0x11
	TagCommit   = 0x12
	TagRollback = 0x13
	TagDiscard  = 0x2F
	TagPull     = 0x3F
	TagLogon    = 0x6A
	TagLogoff   = 0x6B
	TagRoute    = 0x66
	TagTelemetry = 0x54

	TagSuccess = 0x70
	TagRecord  = 0x71
	TagIgnored = 0x7E
	TagFailure = 0x7F
)
