package messages

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// boltAgentMajor, boltAgentMinor is the version at which
// bolt_agent becomes a mandatory HELLO sub-field (spec.md §4.6).
const boltAgentMajor, boltAgentMinor = 5, 3

// BoltAgent is HELLO's nested bolt_agent map (mandatory product, the
// rest optional), present from Bolt 5.3.
type BoltAgent struct {
	Product         string
	Platform        string
	Language        string
	LanguageDetails string
}

func (a BoltAgent) toMap() map[string]packstream.Value {
	m := map[string]packstream.Value{"product": packstream.NewString(a.Product)}
	if a.Platform != "" {
		m["platform"] = packstream.NewString(a.Platform)
	}
	if a.Language != "" {
		m["language"] = packstream.NewString(a.Language)
	}
	if a.LanguageDetails != "" {
		m["language_details"] = packstream.NewString(a.LanguageDetails)
	}
	return m
}

func boltAgentFromMap(m map[string]packstream.Value) (BoltAgent, error) {
	product, ok := mustGetString(m, "product")
	if !ok {
		return BoltAgent{}, newErr(InvalidMessageFormat, "bolt_agent.product missing or not a String")
	}
	a := BoltAgent{Product: product}
	if v, ok := m["platform"]; ok {
		if s, ok := v.AsString(); ok {
			a.Platform = s
		}
	}
	if v, ok := m["language"]; ok {
		if s, ok := v.AsString(); ok {
			a.Language = s
		}
	}
	if v, ok := m["language_details"]; ok {
		if s, ok := v.AsString(); ok {
			a.LanguageDetails = s
		}
	}
	return a, nil
}

// HelloParams is the client-side HELLO request (spec.md §4.6). Only
// UserAgent and, from Bolt 5.3, BoltAgent are mandatory; everything
// else is optional and version-gated through the shared extras table.
type HelloParams struct {
	UserAgent string
	BoltAgent BoltAgent

	// Scheme/Principal/Credentials are the pre-5.1 inline auth token
	// fields; at 5.1+ auth moves to a separate LOGON message and these
	// are ignored by SerializeHello.
	Scheme      string
	Principal   string
	Credentials string
	// OtherAuthTokens carries arbitrary scheme-specific keys alongside
	// Scheme/Principal/Credentials (spec.md §4.6: "+ arbitrary
	// scheme-specific keys").
	OtherAuthTokens map[string]packstream.Value

	Routing                         map[string]packstream.Value
	PatchBolt                       []string
	NotificationsMinSeverity        string
	NotificationsDisabledCategories []string

	// OtherExtra carries any caller-supplied key this table doesn't
	// know about, forwarded verbatim.
	OtherExtra map[string]packstream.Value
}

func SerializeHello(p HelloParams, v bolt.Version) (packstream.Value, error) {
	if p.UserAgent == "" {
		return packstream.Value{}, newErr(InvalidArgument, "HelloParams.UserAgent is mandatory")
	}
	set := map[string]packstream.Value{}
	if p.Scheme != "" {
		set["scheme"] = packstream.NewString(p.Scheme)
	}
	if p.Principal != "" {
		set["principal"] = packstream.NewString(p.Principal)
	}
	if p.Credentials != "" {
		set["credentials"] = packstream.NewString(p.Credentials)
	}
	if p.Routing != nil {
		set["routing"] = packstream.NewMap(p.Routing)
	}
	if p.PatchBolt != nil {
		set["patch_bolt"] = stringListValue(p.PatchBolt)
	}
	if p.NotificationsMinSeverity != "" {
		set["notifications_minimum_severity"] = packstream.NewString(p.NotificationsMinSeverity)
	}
	if p.NotificationsDisabledCategories != nil {
		set["notifications_disabled_categories"] = stringListValue(p.NotificationsDisabledCategories)
	}
	extra := encodeExtra(helloExtraFields, v, set, p.OtherAuthTokens)
	for k, val := range p.OtherExtra {
		extra[k] = val
	}
	extra["user_agent"] = packstream.NewString(p.UserAgent)
	if v.AtLeast(boltAgentMajor, boltAgentMinor) {
		if p.BoltAgent.Product == "" {
			return packstream.Value{}, newErr(InvalidArgument, "HelloParams.BoltAgent.Product is mandatory at Bolt >= 5.3")
		}
		extra["bolt_agent"] = packstream.NewMap(p.BoltAgent.toMap())
	}
	return packstream.NewStructure(TagHello, []packstream.Value{packstream.NewMap(extra)}), nil
}

func DeserializeHello(val packstream.Value, v bolt.Version) (HelloParams, error) {
	st, err := asStructure(val)
	if err != nil {
		return HelloParams{}, err
	}
	if err := expectTag(st, TagHello, "HELLO"); err != nil {
		return HelloParams{}, err
	}
	if len(st.Fields) != 1 {
		return HelloParams{}, newErr(InvalidMessageFormat, "HELLO must have exactly 1 field")
	}
	extra, err := fieldMap(st.Fields, 0, "HELLO.extra")
	if err != nil {
		return HelloParams{}, err
	}
	userAgent, ok := mustGetString(extra, "user_agent")
	if !ok {
		return HelloParams{}, newErr(InvalidMessageFormat, "HELLO.extra.user_agent missing or not a String")
	}
	known, other, err := decodeExtra(helloExtraFields, v, extra)
	if err != nil {
		return HelloParams{}, err
	}
	// user_agent and bolt_agent are mandatory keys handled outside the
	// extras table; decodeExtra doesn't know them and would otherwise
	// fold them into "other" as if they were unrecognized.
	delete(other, "user_agent")
	delete(other, "bolt_agent")
	p := HelloParams{UserAgent: userAgent, OtherExtra: other, OtherAuthTokens: map[string]packstream.Value{}}
	p.Scheme, _ = mustGetString(known, "scheme")
	p.Principal, _ = mustGetString(known, "principal")
	p.Credentials, _ = mustGetString(known, "credentials")
	if m, ok := known["routing"]; ok {
		p.Routing, _ = m.AsMap()
	}
	if l, ok := known["patch_bolt"]; ok {
		if list, ok := l.AsList(); ok {
			for _, item := range list {
				if s, ok := item.AsString(); ok {
					p.PatchBolt = append(p.PatchBolt, s)
				}
			}
		}
	}
	p.NotificationsMinSeverity, _ = mustGetString(known, "notifications_minimum_severity")
	if l, ok := known["notifications_disabled_categories"]; ok {
		if list, ok := l.AsList(); ok {
			for _, item := range list {
				if s, ok := item.AsString(); ok {
					p.NotificationsDisabledCategories = append(p.NotificationsDisabledCategories, s)
				}
			}
		}
	}
	if v.AtLeast(boltAgentMajor, boltAgentMinor) {
		am, ok := extra["bolt_agent"]
		if !ok {
			return HelloParams{}, newErr(InvalidMessageFormat, "HELLO.extra.bolt_agent missing at Bolt >= 5.3")
		}
		agentMap, ok := am.AsMap()
		if !ok {
			return HelloParams{}, newErr(InvalidMessageFormat, "HELLO.extra.bolt_agent is not a Map")
		}
		p.BoltAgent, err = boltAgentFromMap(agentMap)
		if err != nil {
			return HelloParams{}, err
		}
	}
	return p, nil
}
