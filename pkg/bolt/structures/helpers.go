package structures

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

func fieldInt(fields []packstream.Value, i int) (int64, error) {
	n, ok := fields[i].AsInt()
	if !ok {
		return 0, newErr(bolt.InvalidArgument, "structure field is not an Int")
	}
	return n, nil
}

func fieldString(fields []packstream.Value, i int) (string, error) {
	s, ok := fields[i].AsString()
	if !ok {
		return "", newErr(bolt.InvalidArgument, "structure field is not a String")
	}
	return s, nil
}

func fieldMap(fields []packstream.Value, i int) (map[string]packstream.Value, error) {
	m, ok := fields[i].AsMap()
	if !ok {
		return nil, newErr(bolt.InvalidArgument, "structure field is not a Map")
	}
	return m, nil
}

func fieldStringList(fields []packstream.Value, i int) ([]string, error) {
	list, ok := fields[i].AsList()
	if !ok {
		return nil, newErr(bolt.InvalidArgument, "structure field is not a List")
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.AsString()
		if !ok {
			return nil, newErr(bolt.InvalidArgument, "list element is not a String")
		}
		out = append(out, s)
	}
	return out, nil
}

func fieldIntList(fields []packstream.Value, i int) ([]int64, error) {
	list, ok := fields[i].AsList()
	if !ok {
		return nil, newErr(bolt.InvalidArgument, "structure field is not a List")
	}
	out := make([]int64, 0, len(list))
	for _, v := range list {
		n, ok := v.AsInt()
		if !ok {
			return nil, newErr(bolt.InvalidArgument, "list element is not an Int")
		}
		out = append(out, n)
	}
	return out, nil
}

func stringListValue(ss []string) packstream.Value {
	items := make([]packstream.Value, len(ss))
	for i, s := range ss {
		items[i] = packstream.NewString(s)
	}
	return packstream.NewList(items)
}

func intListValue(ns []int64) packstream.Value {
	items := make([]packstream.Value, len(ns))
	for i, n := range ns {
		items[i] = packstream.NewInt(n)
	}
	return packstream.NewList(items)
}

func mapValue(m map[string]packstream.Value) packstream.Value {
	return packstream.NewMap(m)
}

func asStructure(v packstream.Value) (*packstream.Structure, error) {
	st, ok := v.AsStructure()
	if !ok {
		return nil, newErr(bolt.InvalidArgument, "value is not a Structure")
	}
	return st, nil
}

func expectTag(st *packstream.Structure, tag byte) error {
	if st.Tag != tag {
		return newErr(bolt.InvalidArgument, "structure tag mismatch")
	}
	return nil
}
