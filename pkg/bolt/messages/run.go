package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// TxExtra is the shared optional-field set for RUN's and BEGIN's extra
// map (spec.md §4.6: "BEGIN: same keys as RUN's extra").
type TxExtra struct {
	Bookmarks                       []string
	TxTimeoutMs                     *int64
	TxMetadata                      map[string]packstream.Value
	Mode                            string
	Db                              string
	ImpUser                         string
	NotificationsMinSeverity        string
	NotificationsDisabledCategories []string
	OtherExtra                      map[string]packstream.Value
}

func (x TxExtra) toSet() map[string]packstream.Value {
	set := map[string]packstream.Value{}
	if x.Bookmarks != nil {
		set["bookmarks"] = stringListValue(x.Bookmarks)
	}
	if x.TxTimeoutMs != nil {
		set["tx_timeout"] = packstream.NewInt(*x.TxTimeoutMs)
	}
	if x.TxMetadata != nil {
		set["tx_metadata"] = packstream.NewMap(x.TxMetadata)
	}
	if x.Mode != "" {
		set["mode"] = packstream.NewString(x.Mode)
	}
	if x.Db != "" {
		set["db"] = packstream.NewString(x.Db)
	}
	if x.ImpUser != "" {
		set["imp_user"] = packstream.NewString(x.ImpUser)
	}
	if x.NotificationsMinSeverity != "" {
		set["notifications_minimum_severity"] = packstream.NewString(x.NotificationsMinSeverity)
	}
	if x.NotificationsDisabledCategories != nil {
		set["notifications_disabled_categories"] = stringListValue(x.NotificationsDisabledCategories)
	}
	return set
}

func txExtraFromKnown(known, other map[string]packstream.Value) TxExtra {
	x := TxExtra{OtherExtra: other}
	if l, ok := known["bookmarks"]; ok {
		if list, ok := l.AsList(); ok {
			for _, item := range list {
				if s, ok := item.AsString(); ok {
					x.Bookmarks = append(x.Bookmarks, s)
				}
			}
		}
	}
	if n, ok := mustGetInt(known, "tx_timeout"); ok {
		x.TxTimeoutMs = &n
	}
	if m, ok := known["tx_metadata"]; ok {
		x.TxMetadata, _ = m.AsMap()
	}
	x.Mode, _ = mustGetString(known, "mode")
	x.Db, _ = mustGetString(known, "db")
	x.ImpUser, _ = mustGetString(known, "imp_user")
	x.NotificationsMinSeverity, _ = mustGetString(known, "notifications_minimum_severity")
	if l, ok := known["notifications_disabled_categories"]; ok {
		if list, ok := l.AsList(); ok {
			for _, item := range list {
				if s, ok := item.AsString(); ok {
					x.NotificationsDisabledCategories = append(x.NotificationsDisabledCategories, s)
				}
			}
		}
	}
	return x
}

// RunParams is the client RUN request (spec.md §4.6).
type RunParams struct {
	Query      string
	Parameters map[string]packstream.Value
	Extra      TxExtra
}

func SerializeRun(p RunParams, v bolt.Version) (packstream.Value, error) {
	if p.Query == "" {
		return packstream.Value{}, newErr(InvalidArgument, "RunParams.Query is mandatory")
	}
	extra := encodeExtra(runBeginExtraFields, v, p.Extra.toSet(), p.Extra.OtherExtra)
	params := p.Parameters
	if params == nil {
		params = map[string]packstream.Value{}
	}
	return packstream.NewStructure(TagRun, []packstream.Value{
		packstream.NewString(p.Query),
		packstream.NewMap(params),
		packstream.NewMap(extra),
	}), nil
}

func DeserializeRun(val packstream.Value, v bolt.Version) (RunParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return RunParams{}, err
	}
	if err := expectTag(st, TagRun, "RUN"); err != nil {
		return RunParams{}, err
	}
	if len(st.Fields) != 3 {
		return RunParams{}, newErr(InvalidMessageFormat, "RUN must have exactly 3 fields")
	}
	query, err := fieldString(st.Fields, 0, "RUN.query")
	if err != nil {
		return RunParams{}, err
	}
	params, err := fieldMap(st.Fields, 1, "RUN.parameters")
	if err != nil {
		return RunParams{}, err
	}
	extraMap, err := fieldMap(st.Fields, 2, "RUN.extra")
	if err != nil {
		return RunParams{}, err
	}
	known, other, err := decodeExtra(runBeginExtraFields, v, extraMap)
	if err != nil {
		return RunParams{}, err
	}
	return RunParams{Query: query, Parameters: params, Extra: txExtraFromKnown(known, other)}, nil
}

// BeginParams is the client BEGIN request: RUN's extra map without a query.
type BeginParams struct {
	Extra TxExtra
}

func SerializeBegin(p BeginParams, v bolt.Version) packstream.Value {
	extra := encodeExtra(runBeginExtraFields, v, p.Extra.toSet(), p.Extra.OtherExtra)
	return packstream.NewStructure(TagBegin, []packstream.Value{packstream.NewMap(extra)})
}

func DeserializeBegin(val packstream.Value, v bolt.Version) (BeginParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return BeginParams{}, err
	}
	if err := expectTag(st, TagBegin, "BEGIN"); err != nil {
		return BeginParams{}, err
	}
	if len(st.Fields) != 1 {
		return BeginParams{}, newErr(InvalidMessageFormat, "BEGIN must have exactly 1 field")
	}
	extraMap, err := fieldMap(st.Fields, 0, "BEGIN.extra")
	if err != nil {
		return BeginParams{}, err
	}
	known, other, err := decodeExtra(runBeginExtraFields, v, extraMap)
	if err != nil {
		return BeginParams{}, err
	}
	return BeginParams{Extra: txExtraFromKnown(known, other)}, nil
}
