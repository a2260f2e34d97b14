package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// SuccessParams wraps a SUCCESS summary's metadata map. Its keys are
// inspected opportunistically by callers (connection_id, server, qid,
// fields, has_more, bookmark, type, t_first, t_last, db — spec.md
// §4.6); this package doesn't interpret them, only carries the map.
type SuccessParams struct {
	Metadata map[string]packstream.Value
}

func SerializeSuccess(p SuccessParams, _ bolt.Version) packstream.Value {
	return packstream.NewStructure(TagSuccess, []packstream.Value{packstream.NewMap(p.Metadata)})
}

func DeserializeSuccess(val packstream.Value, _ bolt.Version) (SuccessParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return SuccessParams{}, err
	}
	if err := expectTag(st, TagSuccess, "SUCCESS"); err != nil {
		return SuccessParams{}, err
	}
	if len(st.Fields) != 1 {
		return SuccessParams{}, newErr(InvalidMessageFormat, "SUCCESS must have exactly 1 field")
	}
	m, err := fieldMap(st.Fields, 0, "SUCCESS.metadata")
	if err != nil {
		return SuccessParams{}, err
	}
	return SuccessParams{Metadata: m}, nil
}

// FailureParams carries a server FAILURE's metadata, with Code/Message
// mandatory (spec.md §4.6: "at minimum code:String, message:String").
type FailureParams struct {
	Code     string
	Message  string
	Metadata map[string]packstream.Value
}

func DeserializeFailure(val packstream.Value, _ bolt.Version) (FailureParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return FailureParams{}, err
	}
	if err := expectTag(st, TagFailure, "FAILURE"); err != nil {
		return FailureParams{}, err
	}
	if len(st.Fields) != 1 {
		return FailureParams{}, newErr(InvalidMessageFormat, "FAILURE must have exactly 1 field")
	}
	m, err := fieldMap(st.Fields, 0, "FAILURE.metadata")
	if err != nil {
		return FailureParams{}, err
	}
	code, ok := mustGetString(m, "code")
	if !ok {
		return FailureParams{}, newErr(InvalidMessageFormat, "FAILURE.metadata.code missing or not a String")
	}
	msg, ok := mustGetString(m, "message")
	if !ok {
		return FailureParams{}, newErr(InvalidMessageFormat, "FAILURE.metadata.message missing or not a String")
	}
	return FailureParams{Code: code, Message: msg, Metadata: m}, nil
}

// SerializeFailure exists for symmetry and test fixtures/fakes (spec.md
// §4.6 names this message server-to-client only; no production client
// code path emits it).
func SerializeFailure(p FailureParams, _ bolt.Version) packstream.Value {
	m := map[string]packstream.Value{}
	for k, v := range p.Metadata {
		m[k] = v
	}
	m["code"] = packstream.NewString(p.Code)
	m["message"] = packstream.NewString(p.Message)
	return packstream.NewStructure(TagFailure, []packstream.Value{packstream.NewMap(m)})
}

type RecordParams struct {
	Fields []packstream.Value
}

func SerializeRecord(p RecordParams, _ bolt.Version) packstream.Value {
	return packstream.NewStructure(TagRecord, []packstream.Value{packstream.NewList(p.Fields)})
}

func DeserializeRecord(val packstream.Value, _ bolt.Version) (RecordParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return RecordParams{}, err
	}
	if err := expectTag(st, TagRecord, "RECORD"); err != nil {
		return RecordParams{}, err
	}
	if len(st.Fields) != 1 {
		return RecordParams{}, newErr(InvalidMessageFormat, "RECORD must have exactly 1 field")
	}
	fields, err := fieldList(st.Fields, 0, "RECORD.fields")
	if err != nil {
		return RecordParams{}, err
	}
	return RecordParams{Fields: fields}, nil
}

// IgnoredParams is empty on the wire in practice; Metadata is kept for
// forward compatibility with servers that attach one (spec.md §4.6:
// "{} or {metadata:Map}").
type IgnoredParams struct {
	Metadata map[string]packstream.Value
}

func SerializeIgnored(p IgnoredParams, _ bolt.Version) packstream.Value {
	if p.Metadata == nil {
		return packstream.NewStructure(TagIgnored, nil)
	}
	return packstream.NewStructure(TagIgnored, []packstream.Value{packstream.NewMap(p.Metadata)})
}

func DeserializeIgnored(val packstream.Value, _ bolt.Version) (IgnoredParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return IgnoredParams{}, err
	}
	if err := expectTag(st, TagIgnored, "IGNORED"); err != nil {
		return IgnoredParams{}, err
	}
	switch len(st.Fields) {
	case 0:
		return IgnoredParams{}, nil
	case 1:
		m, err := fieldMap(st.Fields, 0, "IGNORED.metadata")
		if err != nil {
			return IgnoredParams{}, err
		}
		return IgnoredParams{Metadata: m}, nil
	default:
		return IgnoredParams{}, newErr(InvalidMessageFormat, "IGNORED must have 0 or 1 fields")
	}
}
