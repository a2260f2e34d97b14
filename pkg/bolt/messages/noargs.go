package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// The argument-less client messages (spec.md §4.6: RESET, GOODBYE,
// COMMIT, ROLLBACK). RESET and GOODBYE are a bare Structure with the
// right tag and zero fields; COMMIT and ROLLBACK carry exactly one
// field, an empty map.

func SerializeReset(bolt.Version) packstream.Value { return packstream.NewStructure(TagReset, nil) }

func DeserializeReset(val packstream.Value, _ bolt.Version) error {
	return expectNoArgs(val, TagReset, "RESET")
}

func SerializeGoodbye(bolt.Version) packstream.Value { return packstream.NewStructure(TagGoodbye, nil) }

func DeserializeGoodbye(val packstream.Value, _ bolt.Version) error {
	return expectNoArgs(val, TagGoodbye, "GOODBYE")
}

func SerializeCommit(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagCommit, []packstream.Value{packstream.NewMap(nil)})
}

func DeserializeCommit(val packstream.Value, _ bolt.Version) error {
	return expectEmptyMapArg(val, TagCommit, "COMMIT")
}

func SerializeRollback(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagRollback, []packstream.Value{packstream.NewMap(nil)})
}

func DeserializeRollback(val packstream.Value, _ bolt.Version) error {
	return expectEmptyMapArg(val, TagRollback, "ROLLBACK")
}

func expectNoArgs(val packstream.Value, tag byte, name string) error {
	st, err := asStructure(val)
	if err != nil {
		return err
	}
	if err := expectTag(st, tag, name); err != nil {
		return err
	}
	if len(st.Fields) != 0 {
		return newErr(InvalidMessageFormat, name+" must have no fields")
	}
	return nil
}

func expectEmptyMapArg(val packstream.Value, tag byte, name string) error {
	st, err := asStructure(val)
	if err != nil {
		return err
	}
	if err := expectTag(st, tag, name); err != nil {
		return err
	}
	if len(st.Fields) != 1 {
		return newErr(InvalidMessageFormat, name+" must have exactly 1 field")
	}
	if _, err := fieldMap(st.Fields, 0, name+".field"); err != nil {
		return err
	}
	return nil
}
