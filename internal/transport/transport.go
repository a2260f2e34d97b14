// Package transport supplies the concrete, net.Conn-backed
// implementation of internal/boltconn.Transport (spec.md §6's
// "byte-oriented transport implementing synchronous read-exact /
// write-all / flush / close"). TCP/TLS/DNS mechanics themselves are a
// Non-goal (spec.md §1); this package is the minimal amount of wiring
// needed to run the core against a real server, passing TLS
// configuration through to crypto/tls verbatim rather than
// reimplementing anything.
package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/nexusgraph/bolt-go/internal/boltconfig"
)

// Conn wraps a net.Conn with a buffered writer so bolt.ChunkWrite's
// Flush probe has something to flush against, the way the teacher's
// sql.DB pooled connections sit behind a buffered driver layer.
type Conn struct {
	net.Conn
	bw *bufio.Writer
}

func (c *Conn) Write(p []byte) (int, error) { return c.bw.Write(p) }
func (c *Conn) Flush() error                { return c.bw.Flush() }

// Dial opens a TCP connection to addr and, depending on mode, wraps it
// in TLS. serverName is passed to TLS for both TLSRequire (where it is
// sent as SNI but the certificate is not verified) and TLSVerify (where
// it is also checked against the certificate); it is ignored for
// TLSDisable.
func Dial(ctx context.Context, addr string, mode boltconfig.TLSMode, serverName string) (*Conn, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	var nc net.Conn = raw
	switch mode {
	case boltconfig.TLSDisable, "":
		// plaintext
	case boltconfig.TLSRequire:
		nc = tls.Client(raw, &tls.Config{InsecureSkipVerify: true, ServerName: serverName})
	case boltconfig.TLSVerify:
		nc = tls.Client(raw, &tls.Config{ServerName: serverName})
	default:
		raw.Close()
		return nil, fmt.Errorf("transport: unknown TLS mode %q", mode)
	}

	return &Conn{Conn: nc, bw: bufio.NewWriter(nc)}, nil
}
