package packstream

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func roundtrip(t *testing.T, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	dec := NewDecoder(&buf)
	out, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("decoder did not consume the whole encoded buffer\nleft over: %d bytes", buf.Len())
	}
	return out
}

func TestRoundTripScalars(t *testing.T) {
	cases := []Value{
		NewNull(),
		NewBoolean(true),
		NewBoolean(false),
		NewInt(0),
		NewInt(127),
		NewInt(-16),
		NewInt(-17),
		NewInt(128),
		NewInt(32767),
		NewInt(32768),
		NewInt(1<<31 - 1),
		NewInt(1 << 31),
		NewInt(-1 << 40),
		NewFloat(3.14159),
		NewFloat(0),
		NewString(""),
		NewString("hello, bolt"),
	}
	for _, v := range cases {
		out := roundtrip(t, v)
		if !Equal(v, out) {
			t.Errorf("round trip mismatch for %s\ngot: %s\nwant: %s", v, out, v)
		}
	}
}

func TestRoundTripComposite(t *testing.T) {
	v := NewList([]Value{
		NewInt(1),
		NewString("two"),
		NewMap(map[string]Value{"three": NewFloat(3.0)}),
		NewStructure(0x4E, []Value{NewInt(1), NewList(nil), NewMap(nil), NewString("n-1")}),
	})
	out := roundtrip(t, v)
	if !Equal(v, out) {
		t.Errorf("round trip mismatch for nested composite value")
	}
}

func TestStringSizeBoundaries(t *testing.T) {
	mk := func(n int) string { return strings.Repeat("a", n) }
	cases := []struct {
		n            int
		wantFirstHex byte
	}{
		{15, markerTinyStringMin | 0x0F},
		{16, markerString8},
		{256, markerString16},
		{65536, markerString32},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Encode(NewString(mk(c.n))); err != nil {
			t.Fatalf("encode size %d: %v", c.n, err)
		}
		got := buf.Bytes()[0]
		if got != c.wantFirstHex {
			t.Errorf("string of size %d uses wrong marker\ngot: 0x%02X\nwant: 0x%02X", c.n, got, c.wantFirstHex)
		}
	}
}

func TestListMapSizeBoundaries(t *testing.T) {
	mkList := func(n int) Value {
		items := make([]Value, n)
		for i := range items {
			items[i] = NewInt(0)
		}
		return NewList(items)
	}
	mkMap := func(n int) Value {
		m := make(map[string]Value, n)
		for i := 0; i < n; i++ {
			m[strconv.Itoa(i)] = NewInt(0)
		}
		return NewMap(m)
	}
	cases := []struct {
		n            int
		wantFirstHex byte
		wantMapHex   byte
	}{
		{15, markerTinyListMin | 0x0F, markerTinyMapMin | 0x0F},
		{16, markerList8, markerMap8},
		{256, markerList16, markerMap16},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Encode(mkList(c.n)); err != nil {
			t.Fatalf("encode list size %d: %v", c.n, err)
		}
		got := buf.Bytes()[0]
		if got != c.wantFirstHex {
			t.Errorf("list of size %d uses wrong marker\ngot: 0x%02X\nwant: 0x%02X", c.n, got, c.wantFirstHex)
		}
		var mbuf bytes.Buffer
		if err := NewEncoder(&mbuf).Encode(mkMap(c.n)); err != nil {
			t.Fatalf("encode map size %d: %v", c.n, err)
		}
		if got := mbuf.Bytes()[0]; got != c.wantMapHex {
			t.Errorf("map of size %d uses wrong marker\ngot: 0x%02X\nwant: 0x%02X", c.n, got, c.wantMapHex)
		}
	}
}

func TestIntMarkerMinimality(t *testing.T) {
	cases := []struct {
		v        int64
		wantSize int
	}{
		{0, 1},
		{127, 1},
		{-16, 1},
		{-17, 2},
		{128, 3},
		{-128, 2},
		{-129, 3},
		{32767, 3},
		{32768, 5},
		{-32768, 3},
		{-32769, 5},
		{1<<31 - 1, 5},
		{1 << 31, 9},
		{-(1 << 31), 5},
		{-(1<<31 + 1), 9},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Encode(NewInt(c.v)); err != nil {
			t.Fatalf("encode %d: %v", c.v, err)
		}
		if buf.Len() != c.wantSize {
			t.Errorf("int %d encoded to wrong width\ngot: %d bytes\nwant: %d bytes", c.v, buf.Len(), c.wantSize)
		}
	}
}

func TestRecursionDepthExceededOnEncode(t *testing.T) {
	v := NewInt(1)
	for i := 0; i < 101; i++ {
		v = NewList([]Value{v})
	}
	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(v)
	if CodeOf(err) != RecursionDepthExceeded {
		t.Fatalf("wrong error for over-deep list\ngot: %v\nwant: RecursionDepthExceeded", err)
	}
}

func TestRecursionDepthExceededOnDecode(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 101; i++ {
		buf.WriteByte(markerTinyListMin | 1)
	}
	buf.WriteByte(0x01) // tiny int 1, terminates the innermost list

	_, err := NewDecoder(&buf).Decode()
	if CodeOf(err) != RecursionDepthExceeded {
		t.Fatalf("wrong error for over-deep encoded list\ngot: %v\nwant: RecursionDepthExceeded", err)
	}
}

func TestDecodeMapWithNonStringKeyFails(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(markerTinyMapMin | 1)
	buf.WriteByte(0x05) // tiny int 5 as a key, not a string
	buf.WriteByte(0x01)

	_, err := NewDecoder(&buf).Decode()
	if CodeOf(err) != InvalidMessageFormat {
		t.Fatalf("wrong error for non-string map key\ngot: %v\nwant: InvalidMessageFormat", err)
	}
}

func TestDecodeUndefinedStruct32MarkerFails(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(markerStruct32Undefined)

	_, err := NewDecoder(&buf).Decode()
	if CodeOf(err) != InvalidMessageFormat {
		t.Fatalf("wrong error for STRUCT_32-shaped marker\ngot: %v\nwant: InvalidMessageFormat", err)
	}
}

func TestDecodeTruncatedListFails(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(markerTinyListMin | 3)
	buf.WriteByte(0x01)
	buf.WriteByte(0x02)
	// third element missing

	_, err := NewDecoder(&buf).Decode()
	if CodeOf(err) != DeserializationError {
		t.Fatalf("wrong error for truncated list\ngot: %v\nwant: DeserializationError", err)
	}
}

func TestEncoderIsStickyAfterError(t *testing.T) {
	v := NewInt(1)
	for i := 0; i < 101; i++ {
		v = NewList([]Value{v})
	}
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	firstErr := enc.Encode(v)
	secondErr := enc.Encode(NewInt(1))
	if secondErr != firstErr {
		t.Errorf("encoder should be poisoned after first error\ngot different errors")
	}
}
