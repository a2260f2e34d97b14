// Package packstream implements PackStream, Bolt's self-describing binary
// serialization format, and the Value tree it serializes: a recursive sum
// type with exactly eight variants (null, boolean, int64, float64, string,
// list, map, structure).
package packstream

import "fmt"

// Kind identifies which of the eight PackStream variants a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindStructure
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindStructure:
		return "Structure"
	default:
		return "Unknown"
	}
}

// Structure is a PackStream composite: a tag byte plus an ordered list of
// fields. It is the wire vehicle for every Bolt message and every typed
// domain record (Node, Relationship, Path, temporal and spatial scalars).
type Structure struct {
	Tag    byte
	Fields []Value
}

// Value is the PackStream sum type. The zero Value is Null. Construct one
// of the eight variants with the matching NewX function; inspect which
// one you have with Kind() and the matching AsX accessor.
//
// Once a Value has been passed to an Encoder, the caller should treat it
// as consumed: the encoder may retain references into List/Map/Structure
// children without copying them.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
	st   *Structure
}

func NewNull() Value                { return Value{kind: KindNull} }
func NewBoolean(b bool) Value       { return Value{kind: KindBoolean, b: b} }
func NewInt(i int64) Value          { return Value{kind: KindInt, i: i} }
func NewFloat(f float64) Value      { return Value{kind: KindFloat, f: f} }
func NewString(s string) Value      { return Value{kind: KindString, s: s} }
func NewList(items []Value) Value   { return Value{kind: KindList, list: items} }
func NewMap(m map[string]Value) Value {
	return Value{kind: KindMap, m: m}
}
func NewStructure(tag byte, fields []Value) Value {
	return Value{kind: KindStructure, st: &Structure{Tag: tag, Fields: fields}}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBoolean, AsInt, AsFloat and AsString return the scalar payload and
// whether v actually holds that variant.
func (v Value) AsBoolean() (bool, bool)    { return v.b, v.kind == KindBoolean }
func (v Value) AsInt() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool)   { return v.f, v.kind == KindFloat }
func (v Value) AsString() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) AsList() ([]Value, bool)    { return v.list, v.kind == KindList }
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }
func (v Value) AsStructure() (*Structure, bool) { return v.st, v.kind == KindStructure }

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindList:
		return fmt.Sprintf("List(%d)", len(v.list))
	case KindMap:
		return fmt.Sprintf("Map(%d)", len(v.m))
	case KindStructure:
		return fmt.Sprintf("Structure(tag=0x%02X, %d fields)", v.st.Tag, len(v.st.Fields))
	default:
		return "<invalid>"
	}
}

// Equal reports deep equality: List and Map and Structure are compared
// member-wise, not by identity. Map comparison is by set-of-pairs, so key
// order never affects equality.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindStructure:
		if a.st.Tag != b.st.Tag || len(a.st.Fields) != len(b.st.Fields) {
			return false
		}
		for i := range a.st.Fields {
			if !Equal(a.st.Fields[i], b.st.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
