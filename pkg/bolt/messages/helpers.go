package messages

import "github.com/nexusgraph/bolt-go/pkg/packstream"

func asStructure(val packstream.Value) (*packstream.Structure, error) {
	st, ok := val.AsStructure()
	if !ok {
		return nil, newErr(InvalidMessageFormat, "message is not a Structure")
	}
	return st, nil
}

func expectTag(st *packstream.Structure, tag byte, name string) error {
	if st.Tag != tag {
		return newErr(InvalidMessageFormat, "expected "+name+" tag")
	}
	return nil
}

func fieldMap(fields []packstream.Value, i int, name string) (map[string]packstream.Value, error) {
	m, ok := fields[i].AsMap()
	if !ok {
		return nil, newErr(InvalidMessageFormat, name+" is not a Map")
	}
	return m, nil
}

func fieldString(fields []packstream.Value, i int, name string) (string, error) {
	s, ok := fields[i].AsString()
	if !ok {
		return "", newErr(InvalidMessageFormat, name+" is not a String")
	}
	return s, nil
}

func fieldList(fields []packstream.Value, i int, name string) ([]packstream.Value, error) {
	l, ok := fields[i].AsList()
	if !ok {
		return nil, newErr(InvalidMessageFormat, name+" is not a List")
	}
	return l, nil
}

func stringListValue(ss []string) packstream.Value {
	items := make([]packstream.Value, len(ss))
	for i, s := range ss {
		items[i] = packstream.NewString(s)
	}
	return packstream.NewList(items)
}

func mustGetString(m map[string]packstream.Value, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.AsString()
	return s, ok
}

func mustGetInt(m map[string]packstream.Value, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}
