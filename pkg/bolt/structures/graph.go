package structures

import (
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// elementIDMajor, elementIDMinor is the Bolt version at which Node/Relationship gain
// their element_id (and, for Relationship, start/end element_id) fields
// and drop the deprecated numeric-id-only layout (spec.md §3).
const elementIDMajor, elementIDMinor = 5, 0

// Node mirrors spec.md §3's Node record.
type Node struct {
	ID         int64
	Labels     []string
	Props      map[string]packstream.Value
	ElementID  string // only populated/serialized at Bolt >= 5.0
}

func (n Node) ToPackstream(v bolt.Version) packstream.Value {
	fields := []packstream.Value{
		packstream.NewInt(n.ID),
		stringListValue(n.Labels),
		mapValue(n.Props),
	}
	if v.AtLeast(elementIDMajor, elementIDMinor) {
		fields = append(fields, packstream.NewString(n.ElementID))
	}
	return packstream.NewStructure(TagNode, fields)
}

func NodeFromPackstream(val packstream.Value, v bolt.Version) (Node, error) {
	st, err := asStructure(val)
	if err != nil {
		return Node{}, err
	}
	if err := expectTag(st, TagNode); err != nil {
		return Node{}, err
	}
	// Accept either the pre-5.0 minimal layout (3 fields) or the
	// extended layout with element_id (4 fields); anything else is
	// ill-formed regardless of the negotiated version (spec.md §4.5).
	var modern bool
	switch len(st.Fields) {
	case 3:
		modern = false
	case 4:
		modern = true
	default:
		return Node{}, newErr(bolt.InvalidArgument, "Node has neither the minimal nor the extended field count")
	}
	id, err := fieldInt(st.Fields, 0)
	if err != nil {
		return Node{}, err
	}
	labels, err := fieldStringList(st.Fields, 1)
	if err != nil {
		return Node{}, err
	}
	props, err := fieldMap(st.Fields, 2)
	if err != nil {
		return Node{}, err
	}
	n := Node{ID: id, Labels: labels, Props: props}
	if modern {
		eid, err := fieldString(st.Fields, 3)
		if err != nil {
			return Node{}, err
		}
		n.ElementID = eid
	}
	return n, nil
}

// Relationship mirrors spec.md §3's Relationship record (a bound edge,
// carrying its own id plus the ids of both endpoints).
type Relationship struct {
	ID            int64
	StartID       int64
	EndID         int64
	Type          string
	Props         map[string]packstream.Value
	ElementID     string
	StartElemID   string
	EndElemID     string
}

func (r Relationship) ToPackstream(v bolt.Version) packstream.Value {
	fields := []packstream.Value{
		packstream.NewInt(r.ID),
		packstream.NewInt(r.StartID),
		packstream.NewInt(r.EndID),
		packstream.NewString(r.Type),
		mapValue(r.Props),
	}
	if v.AtLeast(elementIDMajor, elementIDMinor) {
		fields = append(fields,
			packstream.NewString(r.ElementID),
			packstream.NewString(r.StartElemID),
			packstream.NewString(r.EndElemID),
		)
	}
	return packstream.NewStructure(TagRelationship, fields)
}

func RelationshipFromPackstream(val packstream.Value, v bolt.Version) (Relationship, error) {
	st, err := asStructure(val)
	if err != nil {
		return Relationship{}, err
	}
	if err := expectTag(st, TagRelationship); err != nil {
		return Relationship{}, err
	}
	var modern bool
	switch len(st.Fields) {
	case 5:
		modern = false
	case 8:
		modern = true
	default:
		return Relationship{}, newErr(bolt.InvalidArgument, "Relationship has neither the minimal nor the extended field count")
	}
	id, err := fieldInt(st.Fields, 0)
	if err != nil {
		return Relationship{}, err
	}
	startID, err := fieldInt(st.Fields, 1)
	if err != nil {
		return Relationship{}, err
	}
	endID, err := fieldInt(st.Fields, 2)
	if err != nil {
		return Relationship{}, err
	}
	typ, err := fieldString(st.Fields, 3)
	if err != nil {
		return Relationship{}, err
	}
	props, err := fieldMap(st.Fields, 4)
	if err != nil {
		return Relationship{}, err
	}
	r := Relationship{ID: id, StartID: startID, EndID: endID, Type: typ, Props: props}
	if modern {
		if r.ElementID, err = fieldString(st.Fields, 5); err != nil {
			return Relationship{}, err
		}
		if r.StartElemID, err = fieldString(st.Fields, 6); err != nil {
			return Relationship{}, err
		}
		if r.EndElemID, err = fieldString(st.Fields, 7); err != nil {
			return Relationship{}, err
		}
	}
	return r, nil
}

// UnboundRelationship is the edge shape used inside Path: it omits the
// endpoint ids since Path carries endpoints via its indices list instead.
type UnboundRelationship struct {
	ID        int64
	Type      string
	Props     map[string]packstream.Value
	ElementID string
}

func (r UnboundRelationship) ToPackstream(v bolt.Version) packstream.Value {
	fields := []packstream.Value{
		packstream.NewInt(r.ID),
		packstream.NewString(r.Type),
		mapValue(r.Props),
	}
	if v.AtLeast(elementIDMajor, elementIDMinor) {
		fields = append(fields, packstream.NewString(r.ElementID))
	}
	return packstream.NewStructure(TagUnboundRelationship, fields)
}

func UnboundRelationshipFromPackstream(val packstream.Value, v bolt.Version) (UnboundRelationship, error) {
	st, err := asStructure(val)
	if err != nil {
		return UnboundRelationship{}, err
	}
	if err := expectTag(st, TagUnboundRelationship); err != nil {
		return UnboundRelationship{}, err
	}
	var modern bool
	switch len(st.Fields) {
	case 3:
		modern = false
	case 4:
		modern = true
	default:
		return UnboundRelationship{}, newErr(bolt.InvalidArgument, "UnboundRelationship has neither the minimal nor the extended field count")
	}
	id, err := fieldInt(st.Fields, 0)
	if err != nil {
		return UnboundRelationship{}, err
	}
	typ, err := fieldString(st.Fields, 1)
	if err != nil {
		return UnboundRelationship{}, err
	}
	props, err := fieldMap(st.Fields, 2)
	if err != nil {
		return UnboundRelationship{}, err
	}
	r := UnboundRelationship{ID: id, Type: typ, Props: props}
	if modern {
		if r.ElementID, err = fieldString(st.Fields, 3); err != nil {
			return UnboundRelationship{}, err
		}
	}
	return r, nil
}

// Path is a sequence of Nodes connected by UnboundRelationships; indices
// encode the walk order and direction, per spec.md §3.
type Path struct {
	Nodes         []Node
	Relationships []UnboundRelationship
	Indices       []int64
}

func (p Path) ToPackstream(v bolt.Version) packstream.Value {
	nodeItems := make([]packstream.Value, len(p.Nodes))
	for i, n := range p.Nodes {
		nodeItems[i] = n.ToPackstream(v)
	}
	relItems := make([]packstream.Value, len(p.Relationships))
	for i, r := range p.Relationships {
		relItems[i] = r.ToPackstream(v)
	}
	return packstream.NewStructure(TagPath, []packstream.Value{
		packstream.NewList(nodeItems),
		packstream.NewList(relItems),
		intListValue(p.Indices),
	})
}

func PathFromPackstream(val packstream.Value, v bolt.Version) (Path, error) {
	st, err := asStructure(val)
	if err != nil {
		return Path{}, err
	}
	if err := expectTag(st, TagPath); err != nil {
		return Path{}, err
	}
	if len(st.Fields) != 3 {
		return Path{}, newErr(bolt.InvalidArgument, "Path must have exactly 3 fields")
	}
	nodeList, ok := st.Fields[0].AsList()
	if !ok {
		return Path{}, newErr(bolt.InvalidArgument, "Path.nodes is not a List")
	}
	nodes := make([]Node, 0, len(nodeList))
	for _, nv := range nodeList {
		n, err := NodeFromPackstream(nv, v)
		if err != nil {
			return Path{}, err
		}
		nodes = append(nodes, n)
	}
	relList, ok := st.Fields[1].AsList()
	if !ok {
		return Path{}, newErr(bolt.InvalidArgument, "Path.rels is not a List")
	}
	rels := make([]UnboundRelationship, 0, len(relList))
	for _, rv := range relList {
		r, err := UnboundRelationshipFromPackstream(rv, v)
		if err != nil {
			return Path{}, err
		}
		rels = append(rels, r)
	}
	indices, err := fieldIntList(st.Fields, 2)
	if err != nil {
		return Path{}, err
	}
	return Path{Nodes: nodes, Relationships: rels, Indices: indices}, nil
}
