package structures

import (
	"testing"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

var v5 = bolt.Version{Major: 5, Minor: 0}
var v43 = bolt.Version{Major: 4, Minor: 3}

func TestNodeRoundTripModern(t *testing.T) {
	n := Node{ID: 1, Labels: []string{"Person"}, Props: map[string]packstream.Value{"name": packstream.NewString("Ann")}, ElementID: "4:abc:1"}
	got, err := NodeFromPackstream(n.ToPackstream(v5), v5)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ElementID != n.ElementID || got.ID != n.ID || len(got.Labels) != 1 {
		t.Errorf("round trip mismatch\ngot: %+v\nwant: %+v", got, n)
	}
}

func TestNodeRoundTripLegacy(t *testing.T) {
	n := Node{ID: 1, Labels: []string{"Person"}, Props: map[string]packstream.Value{}}
	got, err := NodeFromPackstream(n.ToPackstream(v43), v43)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ElementID != "" {
		t.Errorf("legacy Node should not carry element_id\ngot: %q", got.ElementID)
	}
}

func TestNodeRejectsInBetweenFieldCount(t *testing.T) {
	st := packstream.NewStructure(TagNode, []packstream.Value{
		packstream.NewInt(1),
		packstream.NewList(nil),
	})
	if _, err := NodeFromPackstream(st, v5); err == nil {
		t.Fatal("expected error for Node with neither 3 nor 4 fields")
	}
}

func TestRelationshipRoundTrip(t *testing.T) {
	r := Relationship{ID: 1, StartID: 2, EndID: 3, Type: "KNOWS", Props: map[string]packstream.Value{},
		ElementID: "5:e:1", StartElemID: "5:e:2", EndElemID: "5:e:3"}
	got, err := RelationshipFromPackstream(r.ToPackstream(v5), v5)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != r.ID || got.StartID != r.StartID || got.EndID != r.EndID || got.Type != r.Type ||
		got.ElementID != r.ElementID || got.StartElemID != r.StartElemID || got.EndElemID != r.EndElemID {
		t.Errorf("round trip mismatch\ngot: %+v\nwant: %+v", got, r)
	}
}

func TestPathRoundTrip(t *testing.T) {
	p := Path{
		Nodes: []Node{
			{ID: 1, Labels: []string{"A"}, Props: map[string]packstream.Value{}, ElementID: "1"},
			{ID: 2, Labels: []string{"B"}, Props: map[string]packstream.Value{}, ElementID: "2"},
		},
		Relationships: []UnboundRelationship{
			{ID: 10, Type: "REL", Props: map[string]packstream.Value{}, ElementID: "10"},
		},
		Indices: []int64{1, 1},
	}
	got, err := PathFromPackstream(p.ToPackstream(v5), v5)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Relationships) != 1 || len(got.Indices) != 2 {
		t.Errorf("path shape mismatch: %+v", got)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d := Date{DaysSinceEpoch: 19723}
	got, err := DateFromPackstream(d.ToPackstream(v5), v5)
	if err != nil || got != d {
		t.Errorf("round trip mismatch\ngot: %+v, %v\nwant: %+v", got, err, d)
	}
}

func TestDateTimeLegacyRoundTripAsymmetry(t *testing.T) {
	dt := DateTime{SecsUTC: 1_700_000_000, Nanos: 500, TzOffset: 7200}

	legacyVal := dt.ToPackstream(v43)
	st, _ := legacyVal.AsStructure()
	if st.Tag != TagDateTimeLegacy {
		t.Fatalf("wrong tag at 4.3\ngot: 0x%02X\nwant: 0x%02X", st.Tag, TagDateTimeLegacy)
	}
	first, _ := st.Fields[0].AsInt()
	if first != 1_700_007_200 {
		t.Fatalf("wrong legacy wire seconds\ngot: %d\nwant: %d", first, 1_700_007_200)
	}

	back, err := DateTimeFromPackstream(legacyVal, v43)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if back != dt {
		t.Fatalf("legacy round trip mismatch\ngot: %+v\nwant: %+v", back, dt)
	}

	modernVal := dt.ToPackstream(v5)
	st2, _ := modernVal.AsStructure()
	if st2.Tag != TagDateTime {
		t.Fatalf("wrong tag at 5.0\ngot: 0x%02X\nwant: 0x%02X", st2.Tag, TagDateTime)
	}
	first2, _ := st2.Fields[0].AsInt()
	if first2 != 1_700_000_000 {
		t.Fatalf("wrong modern wire seconds\ngot: %d\nwant: %d", first2, 1_700_000_000)
	}
}

func TestDateTimeZoneIdLegacyDecodeKeepsRawSeconds(t *testing.T) {
	val := packstream.NewStructure(TagDateTimeZoneIdLegacy, []packstream.Value{
		packstream.NewInt(1_700_007_200),
		packstream.NewInt(0),
		packstream.NewString("Europe/Berlin"),
	})
	got, err := DateTimeZoneIdFromPackstream(val, v43)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SecsUTC != 1_700_007_200 {
		t.Errorf("legacy DateTimeZoneId should keep the raw wire seconds unreconciled\ngot: %d\nwant: %d", got.SecsUTC, 1_700_007_200)
	}
}

func TestDurationNanosOutOfInt32RangeFails(t *testing.T) {
	st := packstream.NewStructure(TagDuration, []packstream.Value{
		packstream.NewInt(0), packstream.NewInt(0), packstream.NewInt(0),
		packstream.NewInt(1 << 40),
	})
	if _, err := DurationFromPackstream(st, v5); err == nil {
		t.Fatal("expected error for out-of-int32-range nanos")
	}
}

func TestPoint2DRoundTrip(t *testing.T) {
	p := Point2D{SRID: 4326, X: 1.5, Y: -2.25}
	got, err := Point2DFromPackstream(p.ToPackstream(v5), v5)
	if err != nil || got != p {
		t.Errorf("round trip mismatch\ngot: %+v, %v\nwant: %+v", got, err, p)
	}
}

func TestPoint3DRoundTrip(t *testing.T) {
	p := Point3D{SRID: 4979, X: 1, Y: 2, Z: 3}
	got, err := Point3DFromPackstream(p.ToPackstream(v5), v5)
	if err != nil || got != p {
		t.Errorf("round trip mismatch\ngot: %+v, %v\nwant: %+v", got, err, p)
	}
}
