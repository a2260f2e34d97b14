package packstream

import (
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes Values to an underlying byte sink in PackStream's binary
// form. It is poison-on-first-error: once Encode returns a non-nil error,
// every subsequent call on the same Encoder is a no-op that returns that
// same error, matching the writer/reader contract in spec.md §7.
type Encoder struct {
	w       io.Writer
	maxDepth int
	err     error
}

// NewEncoder returns an Encoder writing to w with the default recursion
// depth cap (DefaultMaxDepth).
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, maxDepth: DefaultMaxDepth}
}

// SetMaxDepth overrides the recursion depth cap. Must be called before
// any Encode call; it is a no-op once the encoder has failed.
func (e *Encoder) SetMaxDepth(n int) {
	if e.err == nil {
		e.maxDepth = n
	}
}

// Err returns the sticky error, if any.
func (e *Encoder) Err() error { return e.err }

// Encode writes v to the sink. If the encoder already failed, it returns
// the prior error immediately without writing anything.
func (e *Encoder) Encode(v Value) error {
	if e.err != nil {
		return e.err
	}
	if err := e.encode(v, 0); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *Encoder) encode(v Value, depth int) error {
	if depth > e.maxDepth {
		return newErr(RecursionDepthExceeded, "encode: max recursion depth exceeded")
	}
	switch v.kind {
	case KindNull:
		return e.writeByte(markerNull)
	case KindBoolean:
		if v.b {
			return e.writeByte(markerTrue)
		}
		return e.writeByte(markerFalse)
	case KindInt:
		return e.encodeInt(v.i)
	case KindFloat:
		return e.encodeFloat(v.f)
	case KindString:
		return e.encodeString(v.s)
	case KindList:
		return e.encodeList(v.list, depth)
	case KindMap:
		return e.encodeMap(v.m, depth)
	case KindStructure:
		return e.encodeStructure(v.st, depth)
	default:
		return newErr(InvalidArgument, "encode: invalid Value variant")
	}
}

func (e *Encoder) writeByte(b byte) error {
	_, err := e.w.Write([]byte{b})
	if err != nil {
		return wrapErr(NetworkError, "write marker byte", err)
	}
	return nil
}

func (e *Encoder) writeBytes(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return wrapErr(NetworkError, "write bytes", err)
	}
	return nil
}

func (e *Encoder) encodeInt(i int64) error {
	switch {
	case i >= -16 && i <= 127:
		return e.writeByte(byte(int8(i)))
	case i >= math.MinInt8 && i <= math.MaxInt8:
		buf := [2]byte{markerInt8, byte(int8(i))}
		return e.writeBytes(buf[:])
	case i >= math.MinInt16 && i <= math.MaxInt16:
		var buf [3]byte
		buf[0] = markerInt16
		binary.BigEndian.PutUint16(buf[1:], uint16(int16(i)))
		return e.writeBytes(buf[:])
	case i >= math.MinInt32 && i <= math.MaxInt32:
		var buf [5]byte
		buf[0] = markerInt32
		binary.BigEndian.PutUint32(buf[1:], uint32(int32(i)))
		return e.writeBytes(buf[:])
	default:
		var buf [9]byte
		buf[0] = markerInt64
		binary.BigEndian.PutUint64(buf[1:], uint64(i))
		return e.writeBytes(buf[:])
	}
}

func (e *Encoder) encodeFloat(f float64) error {
	var buf [9]byte
	buf[0] = markerFloat64
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
	return e.writeBytes(buf[:])
}

func (e *Encoder) encodeString(s string) error {
	n := len(s)
	if err := e.writeSizedHeader(n,
		markerTinyStringMin, 0x0F,
		markerString8, markerString16, markerString32); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return e.writeBytes([]byte(s))
}

func (e *Encoder) encodeList(items []Value, depth int) error {
	if err := e.writeSizedHeader(len(items),
		markerTinyListMin, 0x0F,
		markerList8, markerList16, markerList32); err != nil {
		return err
	}
	for _, item := range items {
		if err := e.encode(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeMap(m map[string]Value, depth int) error {
	if err := e.writeSizedHeader(len(m),
		markerTinyMapMin, 0x0F,
		markerMap8, markerMap16, markerMap32); err != nil {
		return err
	}
	for k, val := range m {
		if err := e.encodeString(k); err != nil {
			return err
		}
		if err := e.encode(val, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeStructure(st *Structure, depth int) error {
	n := len(st.Fields)
	if n > MaxStructFields {
		return newErr(SerializationError, "encode: structure exceeds 65535 fields")
	}
	switch {
	case n <= 0x0F:
		if err := e.writeByte(byte(markerTinyStructMin | n)); err != nil {
			return err
		}
		if err := e.writeByte(st.Tag); err != nil {
			return err
		}
	case n <= 0xFF:
		buf := [2]byte{markerStruct8, byte(n)}
		if err := e.writeBytes(buf[:]); err != nil {
			return err
		}
		if err := e.writeByte(st.Tag); err != nil {
			return err
		}
	default:
		var buf [3]byte
		buf[0] = markerStruct16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		if err := e.writeBytes(buf[:]); err != nil {
			return err
		}
		if err := e.writeByte(st.Tag); err != nil {
			return err
		}
	}
	for _, f := range st.Fields {
		if err := e.encode(f, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// writeSizedHeader picks the narrowest marker for a given element count n,
// the same minimal-width rule used for strings, lists and maps: tiny form
// when n fits in tinyMask, then 8/16/32-bit size-prefixed forms.
func (e *Encoder) writeSizedHeader(n int, tinyBase byte, tinyMask int, m8, m16, m32 byte) error {
	if n < 0 {
		return newErr(InvalidArgument, "encode: negative size")
	}
	switch {
	case n <= tinyMask:
		return e.writeByte(byte(tinyBase | byte(n)))
	case n <= 0xFF:
		buf := [2]byte{m8, byte(n)}
		return e.writeBytes(buf[:])
	case n <= 0xFFFF:
		var buf [3]byte
		buf[0] = m16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		return e.writeBytes(buf[:])
	case uint64(n) <= 0xFFFFFFFF:
		var buf [5]byte
		buf[0] = m32
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		return e.writeBytes(buf[:])
	default:
		return newErr(SerializationError, "encode: size exceeds 2^32-1")
	}
}
