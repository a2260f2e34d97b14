package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// StreamExtra is PULL's and DISCARD's shared extra map (spec.md §4.6):
// N is mandatory in practice (-1 meaning "all"), QID is only mandatory
// for explicit transactions and left at its zero value (meaning the
// implicit/auto-commit query) otherwise.
type StreamExtra struct {
	N   int64
	QID *int64
}

func encodeStreamExtra(x StreamExtra) map[string]packstream.Value {
	m := map[string]packstream.Value{"n": packstream.NewInt(x.N)}
	if x.QID != nil {
		m["qid"] = packstream.NewInt(*x.QID)
	}
	return m
}

func decodeStreamExtra(v bolt.Version, m map[string]packstream.Value, name string) (StreamExtra, error) {
	known, _, err := decodeExtra(pullDiscardExtraFields, v, m)
	if err != nil {
		return StreamExtra{}, err
	}
	n, ok := mustGetInt(known, "n")
	if !ok {
		return StreamExtra{}, newErr(InvalidMessageFormat, name+".extra.n missing or not an Int")
	}
	x := StreamExtra{N: n}
	if q, ok := mustGetInt(known, "qid"); ok {
		x.QID = &q
	}
	return x, nil
}

func SerializePull(x StreamExtra, _ bolt.Version) packstream.Value {
	return packstream.NewStructure(TagPull, []packstream.Value{packstream.NewMap(encodeStreamExtra(x))})
}

func DeserializePull(val packstream.Value, v bolt.Version) (StreamExtra, error) {
	return deserializeStreamMsg(val, TagPull, "PULL", v)
}

func SerializeDiscard(x StreamExtra, _ bolt.Version) packstream.Value {
	return packstream.NewStructure(TagDiscard, []packstream.Value{packstream.NewMap(encodeStreamExtra(x))})
}

func DeserializeDiscard(val packstream.Value, v bolt.Version) (StreamExtra, error) {
	return deserializeStreamMsg(val, TagDiscard, "DISCARD", v)
}

func deserializeStreamMsg(val packstream.Value, tag byte, name string, v bolt.Version) (StreamExtra, error) {
	st, err := asStructure(val)
	if err != nil {
		return StreamExtra{}, err
	}
	if err := expectTag(st, tag, name); err != nil {
		return StreamExtra{}, err
	}
	if len(st.Fields) != 1 {
		return StreamExtra{}, newErr(InvalidMessageFormat, name+" must have exactly 1 field")
	}
	extraMap, err := fieldMap(st.Fields, 0, name+".extra")
	if err != nil {
		return StreamExtra{}, err
	}
	return decodeStreamExtra(v, extraMap, name)
}
