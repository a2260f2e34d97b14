package packstream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Decoder reads Values out of an underlying byte source. Like Encoder, it
// is poison-on-first-error.
type Decoder struct {
	r        io.Reader
	maxDepth int
	err      error
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, maxDepth: DefaultMaxDepth}
}

func (d *Decoder) SetMaxDepth(n int) {
	if d.err == nil {
		d.maxDepth = n
	}
}

func (d *Decoder) Err() error { return d.err }

// Decode reads one Value from the source.
func (d *Decoder) Decode() (Value, error) {
	if d.err != nil {
		return Value{}, d.err
	}
	v, err := d.decode(0)
	if err != nil {
		d.err = err
		return Value{}, err
	}
	return v, nil
}

func (d *Decoder) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, translateReadErr(err)
	}
	return buf[0], nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, translateReadErr(err)
	}
	return buf, nil
}

func translateReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapErr(DeserializationError, "truncated packstream input", err)
	}
	return wrapErr(NetworkError, "read from source", err)
}

func (d *Decoder) decode(depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, newErr(RecursionDepthExceeded, "decode: max recursion depth exceeded")
	}
	marker, err := d.readByte()
	if err != nil {
		return Value{}, err
	}
	return d.decodeFromMarker(marker, depth)
}

func (d *Decoder) decodeFromMarker(marker byte, depth int) (Value, error) {
	switch {
	case marker <= markerTinyIntMax:
		return NewInt(int64(int8(marker))), nil
	case marker >= markerTinyIntMin:
		return NewInt(int64(int8(marker))), nil
	case marker == markerNull:
		return NewNull(), nil
	case marker == markerFalse:
		return NewBoolean(false), nil
	case marker == markerTrue:
		return NewBoolean(true), nil
	case marker == markerFloat64:
		buf, err := d.readN(8)
		if err != nil {
			return Value{}, err
		}
		return NewFloat(math.Float64frombits(binary.BigEndian.Uint64(buf))), nil
	case marker == markerInt8:
		buf, err := d.readN(1)
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(int8(buf[0]))), nil
	case marker == markerInt16:
		buf, err := d.readN(2)
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(int16(binary.BigEndian.Uint16(buf)))), nil
	case marker == markerInt32:
		buf, err := d.readN(4)
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(int32(binary.BigEndian.Uint32(buf)))), nil
	case marker == markerInt64:
		buf, err := d.readN(8)
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(binary.BigEndian.Uint64(buf))), nil
	case marker >= markerTinyStringMin && marker <= markerTinyStringMax:
		return d.decodeString(int(marker & 0x0F))
	case marker == markerString8:
		n, err := d.readSize1()
		if err != nil {
			return Value{}, err
		}
		return d.decodeString(n)
	case marker == markerString16:
		n, err := d.readSize2()
		if err != nil {
			return Value{}, err
		}
		return d.decodeString(n)
	case marker == markerString32:
		n, err := d.readSize4()
		if err != nil {
			return Value{}, err
		}
		return d.decodeString(n)
	case marker >= markerTinyListMin && marker <= markerTinyListMax:
		return d.decodeList(int(marker&0x0F), depth)
	case marker == markerList8:
		n, err := d.readSize1()
		if err != nil {
			return Value{}, err
		}
		return d.decodeList(n, depth)
	case marker == markerList16:
		n, err := d.readSize2()
		if err != nil {
			return Value{}, err
		}
		return d.decodeList(n, depth)
	case marker == markerList32:
		n, err := d.readSize4()
		if err != nil {
			return Value{}, err
		}
		return d.decodeList(n, depth)
	case marker >= markerTinyMapMin && marker <= markerTinyMapMax:
		return d.decodeMap(int(marker&0x0F), depth)
	case marker == markerMap8:
		n, err := d.readSize1()
		if err != nil {
			return Value{}, err
		}
		return d.decodeMap(n, depth)
	case marker == markerMap16:
		n, err := d.readSize2()
		if err != nil {
			return Value{}, err
		}
		return d.decodeMap(n, depth)
	case marker == markerMap32:
		n, err := d.readSize4()
		if err != nil {
			return Value{}, err
		}
		return d.decodeMap(n, depth)
	case marker >= markerTinyStructMin && marker <= markerTinyStructMax:
		return d.decodeStruct(int(marker&0x0F), depth)
	case marker == markerStruct8:
		n, err := d.readSize1()
		if err != nil {
			return Value{}, err
		}
		return d.decodeStruct(n, depth)
	case marker == markerStruct16:
		n, err := d.readSize2()
		if err != nil {
			return Value{}, err
		}
		return d.decodeStruct(n, depth)
	case marker == markerStruct32Undefined:
		// STRUCT_32 has no assigned marker in PackStream (spec.md §4.2);
		// a byte in this slot is a well-formed-looking but semantically
		// illegal structure header, not mere noise.
		return Value{}, newErr(InvalidMessageFormat, "decode: STRUCT_32 is not a defined marker")
	default:
		return Value{}, newErr(DeserializationError, "decode: unknown marker byte")
	}
}

func (d *Decoder) readSize1() (int, error) {
	buf, err := d.readN(1)
	if err != nil {
		return 0, err
	}
	return int(buf[0]), nil
}

func (d *Decoder) readSize2() (int, error) {
	buf, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(buf)), nil
}

func (d *Decoder) readSize4() (int, error) {
	buf, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(buf)), nil
}

func (d *Decoder) decodeString(n int) (Value, error) {
	buf, err := d.readN(n)
	if err != nil {
		return Value{}, err
	}
	return NewString(string(buf)), nil
}

func (d *Decoder) decodeList(n int, depth int) (Value, error) {
	items := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.decode(depth + 1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return NewList(items), nil
}

func (d *Decoder) decodeMap(n int, depth int) (Value, error) {
	m := make(map[string]Value, n)
	for i := 0; i < n; i++ {
		keyMarker, err := d.readByte()
		if err != nil {
			return Value{}, err
		}
		keyVal, err := d.decodeFromMarker(keyMarker, depth+1)
		if err != nil {
			return Value{}, err
		}
		key, ok := keyVal.AsString()
		if !ok {
			return Value{}, newErr(InvalidMessageFormat, "decode: map key is not a string")
		}
		if _, dup := m[key]; dup {
			return Value{}, newErr(InvalidMessageFormat, "decode: duplicate map key")
		}
		val, err := d.decode(depth + 1)
		if err != nil {
			return Value{}, err
		}
		m[key] = val
	}
	return NewMap(m), nil
}

func (d *Decoder) decodeStruct(n int, depth int) (Value, error) {
	if n > MaxStructFields {
		return Value{}, newErr(InvalidMessageFormat, "decode: structure field count exceeds 65535")
	}
	tag, err := d.readByte()
	if err != nil {
		return Value{}, err
	}
	fields := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.decode(depth + 1)
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, v)
	}
	return NewStructure(tag, fields), nil
}
