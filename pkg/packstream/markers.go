package packstream

// Marker bytes, exactly as laid out in the wire format: tiny-int ranges,
// the fixed-width scalar markers, and the size-class markers for strings,
// lists, maps and structures. All multi-byte integers on the wire are
// big-endian.
const (
	markerTinyIntMax = 0x7F // tiny positive ints: 0x00..0x7F -> 0..127
	markerTinyIntMin = 0xF0 // tiny negative ints: 0xF0..0xFF -> -16..-1

	markerNull    = 0xC0
	markerFalse   = 0xC2
	markerTrue    = 0xC3
	markerFloat64 = 0xC1

	markerInt8  = 0xC8
	markerInt16 = 0xC9
	markerInt32 = 0xCA
	markerInt64 = 0xCB

	markerTinyStringMin = 0x80
	markerTinyStringMax = 0x8F
	markerString8       = 0xD0
	markerString16      = 0xD1
	markerString32      = 0xD2

	markerTinyListMin = 0x90
	markerTinyListMax = 0x9F
	markerList8       = 0xD4
	markerList16      = 0xD5
	markerList32      = 0xD6

	markerTinyMapMin = 0xA0
	markerTinyMapMax = 0xAF
	markerMap8       = 0xD8
	markerMap16      = 0xD9
	markerMap32      = 0xDA

	markerTinyStructMin = 0xB0
	markerTinyStructMax = 0xBF
	markerStruct8       = 0xDC
	markerStruct16      = 0xDD

	// markerStruct32Undefined is the slot a STRUCT_32 marker would occupy
	// by analogy with String32/List32/Map32 (0xD2/0xD6/0xDA); PackStream
	// deliberately does not define it (spec.md §4.2, §8).
	markerStruct32Undefined = 0xDE
)

// MaxStructFields is the largest field count STRUCT_16 can declare;
// STRUCT_32 is not defined in PackStream, so structures with more fields
// than this are ill-formed (spec.md §4.2).
const MaxStructFields = 0xFFFF

// DefaultMaxDepth bounds encoder/decoder recursion. Both sides enforce it
// independently so neither a crafted Value tree nor a crafted byte stream
// can exhaust the call stack.
const DefaultMaxDepth = 100
