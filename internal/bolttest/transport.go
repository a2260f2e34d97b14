// Package bolttest provides a fake in-memory transport for driving
// internal/boltconn's state machine end-to-end without a real socket,
// the way the teacher drives internal/repository against an in-memory
// sqlite database instead of a live Postgres instance.
package bolttest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// PipeTransport is a bidirectional in-memory byte stream: writes from
// the client under test land in toServer, and reads come from
// fromServer, which a test fills ahead of time (or appends to as the
// scripted scenario plays out).
type PipeTransport struct {
	toServer   bytes.Buffer
	fromServer bytes.Buffer
	closed     bool
}

func NewPipeTransport() *PipeTransport { return &PipeTransport{} }

func (p *PipeTransport) Write(b []byte) (int, error) {
	if p.closed {
		return 0, errors.New("bolttest: write on closed transport")
	}
	return p.toServer.Write(b)
}

func (p *PipeTransport) Read(b []byte) (int, error) {
	if p.fromServer.Len() == 0 {
		return 0, io.EOF
	}
	return p.fromServer.Read(b)
}

func (p *PipeTransport) Close() error {
	p.closed = true
	return nil
}

// Sent returns everything the client has written so far.
func (p *PipeTransport) Sent() []byte { return p.toServer.Bytes() }

// QueueChunked appends payload to the server's outgoing queue as one
// chunked Bolt message (framed the way bolt.ChunkWrite would).
func (p *PipeTransport) QueueChunked(payload []byte) {
	const maxChunk = 65535
	offset := 0
	for offset < len(payload) {
		end := offset + maxChunk
		if end > len(payload) {
			end = len(payload)
		}
		p.queueChunkHeader(end - offset)
		p.fromServer.Write(payload[offset:end])
		offset = end
	}
	p.queueChunkHeader(0)
}

// QueueNoop appends a single bare zero-length chunk (a keepalive NOOP).
func (p *PipeTransport) QueueNoop() { p.queueChunkHeader(0) }

// QueueHandshakeResponse appends a raw 4-byte handshake response.
func (p *PipeTransport) QueueHandshakeResponse(major, minor byte) {
	p.fromServer.Write([]byte{0, 0, minor, major})
}

func (p *PipeTransport) queueChunkHeader(n int) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(n))
	p.fromServer.Write(buf[:])
}
