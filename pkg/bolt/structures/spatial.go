package structures

import (
	"math"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// Point2D is a planar point tagged with a spatial reference system id.
// SRID is serialized as the only PackStream integer form (int64) but
// must fit in uint32 (spec.md §4.5).
type Point2D struct {
	SRID uint32
	X, Y float64
}

func (p Point2D) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagPoint2D, []packstream.Value{
		packstream.NewInt(int64(p.SRID)),
		packstream.NewFloat(p.X),
		packstream.NewFloat(p.Y),
	})
}

func Point2DFromPackstream(val packstream.Value, _ bolt.Version) (Point2D, error) {
	st, err := asStructure(val)
	if err != nil {
		return Point2D{}, err
	}
	if err := expectTag(st, TagPoint2D); err != nil {
		return Point2D{}, err
	}
	if len(st.Fields) != 3 {
		return Point2D{}, newErr(bolt.InvalidArgument, "Point2D must have exactly 3 fields")
	}
	srid, err := fieldUint32(st.Fields, 0)
	if err != nil {
		return Point2D{}, err
	}
	x, err := fieldFloat(st.Fields, 1)
	if err != nil {
		return Point2D{}, err
	}
	y, err := fieldFloat(st.Fields, 2)
	if err != nil {
		return Point2D{}, err
	}
	return Point2D{SRID: srid, X: x, Y: y}, nil
}

// Point3D is Point2D plus a Z coordinate.
type Point3D struct {
	SRID    uint32
	X, Y, Z float64
}

func (p Point3D) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagPoint3D, []packstream.Value{
		packstream.NewInt(int64(p.SRID)),
		packstream.NewFloat(p.X),
		packstream.NewFloat(p.Y),
		packstream.NewFloat(p.Z),
	})
}

func Point3DFromPackstream(val packstream.Value, _ bolt.Version) (Point3D, error) {
	st, err := asStructure(val)
	if err != nil {
		return Point3D{}, err
	}
	if err := expectTag(st, TagPoint3D); err != nil {
		return Point3D{}, err
	}
	if len(st.Fields) != 4 {
		return Point3D{}, newErr(bolt.InvalidArgument, "Point3D must have exactly 4 fields")
	}
	srid, err := fieldUint32(st.Fields, 0)
	if err != nil {
		return Point3D{}, err
	}
	x, err := fieldFloat(st.Fields, 1)
	if err != nil {
		return Point3D{}, err
	}
	y, err := fieldFloat(st.Fields, 2)
	if err != nil {
		return Point3D{}, err
	}
	z, err := fieldFloat(st.Fields, 3)
	if err != nil {
		return Point3D{}, err
	}
	return Point3D{SRID: srid, X: x, Y: y, Z: z}, nil
}

func fieldFloat(fields []packstream.Value, i int) (float64, error) {
	f, ok := fields[i].AsFloat()
	if !ok {
		return 0, newErr(bolt.InvalidArgument, "structure field is not a Float")
	}
	return f, nil
}

func fieldUint32(fields []packstream.Value, i int) (uint32, error) {
	n, err := fieldInt(fields, i)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, newErr(bolt.DeserializationError, "srid does not fit in uint32")
	}
	return uint32(n), nil
}
