package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// LogonParams is the Bolt >= 5.1 replacement for HELLO's inline auth
// fields: an arbitrary scheme-specific token map, always carrying at
// least "scheme" (spec.md §4.6's auth-token external collaborator).
type LogonParams struct {
	Auth map[string]packstream.Value
}

func SerializeLogon(p LogonParams, _ bolt.Version) (packstream.Value, error) {
	if _, ok := p.Auth["scheme"]; !ok {
		return packstream.Value{}, newErr(InvalidArgument, "LogonParams.Auth must contain a scheme key")
	}
	return packstream.NewStructure(TagLogon, []packstream.Value{packstream.NewMap(p.Auth)}), nil
}

func DeserializeLogon(val packstream.Value, _ bolt.Version) (LogonParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return LogonParams{}, err
	}
	if err := expectTag(st, TagLogon, "LOGON"); err != nil {
		return LogonParams{}, err
	}
	if len(st.Fields) != 1 {
		return LogonParams{}, newErr(InvalidMessageFormat, "LOGON must have exactly 1 field")
	}
	auth, err := fieldMap(st.Fields, 0, "LOGON.auth")
	if err != nil {
		return LogonParams{}, err
	}
	if _, ok := mustGetString(auth, "scheme"); !ok {
		return LogonParams{}, newErr(InvalidMessageFormat, "LOGON.auth.scheme missing or not a String")
	}
	return LogonParams{Auth: auth}, nil
}

func SerializeLogoff(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagLogoff, nil)
}

func DeserializeLogoff(val packstream.Value, _ bolt.Version) error {
	st, err := asStructure(val)
	if err != nil {
		return err
	}
	return expectTag(st, TagLogoff, "LOGOFF")
}
