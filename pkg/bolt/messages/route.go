package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// RouteParams is the client ROUTE request. Its wire shape changes
// twice across the version range (spec.md §4.6):
//   - < 4.4: routing_context, bookmarks, db|null as 3 top-level fields
//   - >= 4.4, < 5.0: routing_context, bookmarks, extra{db?, imp_user?}
//   - >= 5.0: routing_context, bookmarks, db?, imp_user? as 4 top-level fields
type RouteParams struct {
	RoutingContext map[string]packstream.Value
	Bookmarks      []string
	Db             string
	ImpUser        string
}

func SerializeRoute(p RouteParams, v bolt.Version) packstream.Value {
	ctx := p.RoutingContext
	if ctx == nil {
		ctx = map[string]packstream.Value{}
	}
	bookmarks := stringListValue(p.Bookmarks)

	switch {
	case v.AtLeast(5, 0):
		fields := []packstream.Value{packstream.NewMap(ctx), bookmarks}
		if p.Db != "" {
			fields = append(fields, packstream.NewString(p.Db))
		} else {
			fields = append(fields, packstream.NewNull())
		}
		if p.ImpUser != "" {
			fields = append(fields, packstream.NewString(p.ImpUser))
		} else {
			fields = append(fields, packstream.NewNull())
		}
		return packstream.NewStructure(TagRoute, fields)
	case v.AtLeast(4, 4):
		extra := map[string]packstream.Value{}
		if p.Db != "" {
			extra["db"] = packstream.NewString(p.Db)
		}
		if p.ImpUser != "" {
			extra["imp_user"] = packstream.NewString(p.ImpUser)
		}
		return packstream.NewStructure(TagRoute, []packstream.Value{
			packstream.NewMap(ctx), bookmarks, packstream.NewMap(extra),
		})
	default:
		var db packstream.Value
		if p.Db != "" {
			db = packstream.NewString(p.Db)
		} else {
			db = packstream.NewNull()
		}
		return packstream.NewStructure(TagRoute, []packstream.Value{packstream.NewMap(ctx), bookmarks, db})
	}
}

func DeserializeRoute(val packstream.Value, v bolt.Version) (RouteParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return RouteParams{}, err
	}
	if err := expectTag(st, TagRoute, "ROUTE"); err != nil {
		return RouteParams{}, err
	}
	ctxMap, err := fieldMap(st.Fields, 0, "ROUTE.routing_context")
	if err != nil {
		return RouteParams{}, err
	}
	bookmarkList, err := fieldList(st.Fields, 1, "ROUTE.bookmarks")
	if err != nil {
		return RouteParams{}, err
	}
	bookmarks := make([]string, 0, len(bookmarkList))
	for _, bv := range bookmarkList {
		s, ok := bv.AsString()
		if !ok {
			return RouteParams{}, newErr(InvalidMessageFormat, "ROUTE.bookmarks element is not a String")
		}
		bookmarks = append(bookmarks, s)
	}
	p := RouteParams{RoutingContext: ctxMap, Bookmarks: bookmarks}

	switch {
	case v.AtLeast(5, 0):
		if len(st.Fields) != 4 {
			return RouteParams{}, newErr(InvalidMessageFormat, "ROUTE must have exactly 4 fields at Bolt >= 5.0")
		}
		if s, ok := st.Fields[2].AsString(); ok {
			p.Db = s
		}
		if s, ok := st.Fields[3].AsString(); ok {
			p.ImpUser = s
		}
	case v.AtLeast(4, 4):
		if len(st.Fields) != 3 {
			return RouteParams{}, newErr(InvalidMessageFormat, "ROUTE must have exactly 3 fields at Bolt 4.4")
		}
		extra, err := fieldMap(st.Fields, 2, "ROUTE.extra")
		if err != nil {
			return RouteParams{}, err
		}
		p.Db, _ = mustGetString(extra, "db")
		p.ImpUser, _ = mustGetString(extra, "imp_user")
	default:
		if len(st.Fields) != 3 {
			return RouteParams{}, newErr(InvalidMessageFormat, "ROUTE must have exactly 3 fields below Bolt 4.4")
		}
		if s, ok := st.Fields[2].AsString(); ok {
			p.Db = s
		}
	}
	return p, nil
}

type TelemetryParams struct {
	Metadata map[string]packstream.Value
}

func SerializeTelemetry(p TelemetryParams, _ bolt.Version) packstream.Value {
	return packstream.NewStructure(TagTelemetry, []packstream.Value{packstream.NewMap(p.Metadata)})
}

func DeserializeTelemetry(val packstream.Value, _ bolt.Version) (TelemetryParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return TelemetryParams{}, err
	}
	if err := expectTag(st, TagTelemetry, "TELEMETRY"); err != nil {
		return TelemetryParams{}, err
	}
	if len(st.Fields) != 1 {
		return TelemetryParams{}, newErr(InvalidMessageFormat, "TELEMETRY must have exactly 1 field")
	}
	m, err := fieldMap(st.Fields, 0, "TELEMETRY.metadata")
	if err != nil {
		return TelemetryParams{}, err
	}
	return TelemetryParams{Metadata: m}, nil
}
