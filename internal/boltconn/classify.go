package boltconn

import "strings"

// classifyFailureCode maps a Neo4j error code's classification prefix
// onto a Severity (spec.md §7). Neo.TransientError.* is a retry
// candidate (transient). Neo.ClientError.Security.* means the
// credentials or authorization presented are themselves the problem —
// a bare RESET+retry on the same auth won't help, so it is classified
// fatal. Every other ClientError/DatabaseError code (syntax errors,
// constraint violations, and the like) is the caller's mistake to fix,
// not the connection's — recoverable once RESET has run, which is
// exactly what spec.md §8 scenario 3 exercises.
func classifyFailureCode(code string) Severity {
	switch {
	case strings.HasPrefix(code, "Neo.TransientError."):
		return SeverityTransient
	case strings.HasPrefix(code, "Neo.ClientError.Security."):
		return SeverityFatal
	default:
		return SeverityRecoverable
	}
}
