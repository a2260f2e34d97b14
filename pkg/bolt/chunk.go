package bolt

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxChunkPayload is the largest payload one chunk may carry; a longer
// message payload is split across multiple chunks (spec.md §4.3).
const MaxChunkPayload = 65535

// DefaultMaxMessageSize bounds how much a single ChunkRead call will
// buffer before failing with MessageTooLarge. It is not fixed by the
// protocol (spec.md §9); 16 MiB is a generous default that trusted
// in-process callers can raise or disable via ChunkReadWithLimit.
const DefaultMaxMessageSize = 16 * 1024 * 1024

// ChunkWrite frames payload as exactly one Bolt message: zero or more
// length-prefixed chunks of at most MaxChunkPayload bytes, followed by a
// single zero-length end-of-message marker, then flushes w if it
// supports flushing.
func ChunkWrite(w io.Writer, payload []byte) error {
	var lenBuf [2]byte
	offset := 0
	for offset < len(payload) {
		end := offset + MaxChunkPayload
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(chunk)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return wrapErr(NetworkError, "write chunk length", err)
		}
		if _, err := w.Write(chunk); err != nil {
			return wrapErr(NetworkError, "write chunk payload", err)
		}
		offset = end
	}

	binary.BigEndian.PutUint16(lenBuf[:], 0)
	if _, err := w.Write(lenBuf[:]); err != nil {
		return wrapErr(NetworkError, "write end-of-message marker", err)
	}

	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return wrapErr(NetworkError, "flush chunk writer", err)
		}
	}
	return nil
}

// ChunkRead reads exactly one Bolt message: it accumulates chunk payloads
// until a zero-length chunk, then returns the concatenated buffer. An
// empty message (an immediate zero-length chunk) returns a nil/empty
// slice, not an error; this is also how a bare NOOP keepalive reads
// (spec.md §4.3, §8 scenario 6) — callers must treat a zero-length
// result received mid-stream as a NOOP and keep reading.
func ChunkRead(r io.Reader) ([]byte, error) {
	return ChunkReadWithLimit(r, DefaultMaxMessageSize)
}

// ChunkReadWithLimit is ChunkRead with an explicit total-size cap. Pass a
// non-positive limit to disable the cap entirely for trusted servers.
func ChunkReadWithLimit(r io.Reader, limit int) ([]byte, error) {
	var buf []byte
	var lenBuf [2]byte
	for {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) && len(buf) == 0 {
				return nil, wrapErr(NetworkError, "read chunk length", err)
			}
			return nil, wrapErr(NetworkError, "read chunk length", err)
		}
		n := int(binary.BigEndian.Uint16(lenBuf[:]))
		if n == 0 {
			return buf, nil
		}
		if limit > 0 && len(buf)+n > limit {
			return nil, newErr(MessageTooLarge, "message exceeds configured size limit")
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, wrapErr(NetworkError, "read chunk payload", err)
		}
		buf = append(buf, chunk...)
	}
}
