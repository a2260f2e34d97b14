package messages

import (
	"fmt"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// extraKind is the PackStream variant an extra-map key is expected to
// hold once its type is pinned down (spec.md §4.6's "typed keys are
// validated for their expected variant").
type extraKind int

const (
	kindString extraKind = iota
	kindInt
	kindStringList
	kindMap
)

// extraField describes one optional key in a version-gated extra map:
// the key, its expected type, and the version window in which a peer
// is allowed to send or expect it. A zero Version for min/max means no
// bound on that side (min unbounded = available since the earliest
// version; max unbounded = still available in every later version).
type extraField struct {
	key string
	typ extraKind
	min bolt.Version
	max bolt.Version
}

func (f extraField) availableAt(v bolt.Version) bool {
	if !f.min.IsZero() && v.Less(f.min) {
		return false
	}
	if !f.max.IsZero() && f.max.Less(v) {
		return false
	}
	return true
}

// runBeginExtraFields is the optional-key table shared by RUN and BEGIN
// (spec.md §4.6: "BEGIN: same keys as RUN's extra, no query").
var runBeginExtraFields = []extraField{
	{key: "bookmarks", typ: kindStringList, min: bolt.Version{Major: 3, Minor: 0}},
	{key: "tx_timeout", typ: kindInt, min: bolt.Version{Major: 3, Minor: 0}},
	{key: "tx_metadata", typ: kindMap, min: bolt.Version{Major: 3, Minor: 0}},
	{key: "mode", typ: kindString, min: bolt.Version{Major: 3, Minor: 0}},
	{key: "db", typ: kindString, min: bolt.Version{Major: 4, Minor: 0}},
	{key: "imp_user", typ: kindString, min: bolt.Version{Major: 4, Minor: 4}},
	{key: "notifications_minimum_severity", typ: kindString, min: bolt.Version{Major: 5, Minor: 2}},
	{key: "notifications_disabled_categories", typ: kindStringList, min: bolt.Version{Major: 5, Minor: 2}},
}

// helloExtraFields excludes user_agent and bolt_agent, both mandatory
// and handled directly by hello.go rather than through this table.
var helloExtraFields = []extraField{
	{key: "scheme", typ: kindString, max: bolt.Version{Major: 5, Minor: 0}},
	{key: "principal", typ: kindString, max: bolt.Version{Major: 5, Minor: 0}},
	{key: "credentials", typ: kindString, max: bolt.Version{Major: 5, Minor: 0}},
	{key: "routing", typ: kindMap, min: bolt.Version{Major: 4, Minor: 1}},
	{key: "patch_bolt", typ: kindStringList, min: bolt.Version{Major: 4, Minor: 3}, max: bolt.Version{Major: 4, Minor: 4}},
	{key: "notifications_minimum_severity", typ: kindString, min: bolt.Version{Major: 5, Minor: 2}},
	{key: "notifications_disabled_categories", typ: kindStringList, min: bolt.Version{Major: 5, Minor: 2}},
}

// pullDiscardExtraFields covers both PULL and DISCARD (identical shape,
// spec.md §4.6). n is mandatory in practice and validated separately by
// the caller; it is listed here too so its type is still checked when
// decoding.
var pullDiscardExtraFields = []extraField{
	{key: "n", typ: kindInt},
	{key: "qid", typ: kindInt},
}

func checkKind(val packstream.Value, typ extraKind) error {
	switch typ {
	case kindString:
		if _, ok := val.AsString(); !ok {
			return fmt.Errorf("expected a String")
		}
	case kindInt:
		if _, ok := val.AsInt(); !ok {
			return fmt.Errorf("expected an Int")
		}
	case kindMap:
		if _, ok := val.AsMap(); !ok {
			return fmt.Errorf("expected a Map")
		}
	case kindStringList:
		list, ok := val.AsList()
		if !ok {
			return fmt.Errorf("expected a List")
		}
		for _, item := range list {
			if _, ok := item.AsString(); !ok {
				return fmt.Errorf("expected a List of String")
			}
		}
	}
	return nil
}

// encodeExtra builds the wire extra map for fields, keeping only the
// keys present in set that are available at v, plus every key in
// passthrough (already-validated unknown keys a caller wants forwarded
// verbatim, e.g. scheme-specific HELLO auth keys).
func encodeExtra(fields []extraField, v bolt.Version, set map[string]packstream.Value, passthrough map[string]packstream.Value) map[string]packstream.Value {
	out := make(map[string]packstream.Value, len(set)+len(passthrough))
	known := make(map[string]extraField, len(fields))
	for _, f := range fields {
		known[f.key] = f
	}
	for k, val := range set {
		if f, ok := known[k]; ok && !f.availableAt(v) {
			continue
		}
		out[k] = val
	}
	for k, val := range passthrough {
		out[k] = val
	}
	return out
}

// decodeExtra splits a wire extra map into its table-known, type-checked
// keys and everything else, which is forwarded verbatim under the
// caller-supplied "other_extra_*" convention (spec.md §4.6).
func decodeExtra(fields []extraField, v bolt.Version, m map[string]packstream.Value) (known, other map[string]packstream.Value, err error) {
	known = make(map[string]packstream.Value)
	other = make(map[string]packstream.Value)
	byKey := make(map[string]extraField, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
	}
	for k, val := range m {
		f, ok := byKey[k]
		if !ok || !f.availableAt(v) {
			other[k] = val
			continue
		}
		if err := checkKind(val, f.typ); err != nil {
			return nil, nil, wrapErr(InvalidMessageFormat, fmt.Sprintf("extra key %q: %v", k, err), err)
		}
		known[k] = val
	}
	return known, other, nil
}
