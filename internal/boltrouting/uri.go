// Package boltrouting parses bolt:// / neo4j:// connection URIs and
// maintains a TTL-cached routing table resolved via the Bolt ROUTE
// message, grounded on the teacher's example client's URI-resolution
// helper and backed by an adapted copy of its LRU cache
// (internal/boltlrucache).
package boltrouting

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Scheme distinguishes a direct single-server connection from one that
// requires server-side routing.
type Scheme int

const (
	SchemeBolt Scheme = iota
	SchemeNeo4j
)

func (s Scheme) String() string {
	switch s {
	case SchemeBolt:
		return "bolt"
	case SchemeNeo4j:
		return "neo4j"
	default:
		return "unknown"
	}
}

// Routing reports whether connections under this scheme must route
// through the cluster's ROUTE mechanism rather than talk to a fixed
// address directly.
func (s Scheme) Routing() bool { return s == SchemeNeo4j }

// Target is a resolved connection target: a scheme, the initial
// address to dial, and any query parameters carried as routing
// context (passed verbatim into ROUTE's routing_context field).
type Target struct {
	Scheme  Scheme
	Host    string
	Port    int
	Context map[string]string
}

const defaultBoltPort = 7687

// ParseURI parses a bolt://host[:port][?k=v&...] or
// neo4j://host[:port][?k=v&...] URI. A missing port defaults to 7687,
// Bolt's IANA-unassigned but de facto standard port.
func ParseURI(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("boltrouting: parse uri %q: %w", raw, err)
	}

	var scheme Scheme
	switch strings.ToLower(u.Scheme) {
	case "bolt":
		scheme = SchemeBolt
	case "neo4j":
		scheme = SchemeNeo4j
	default:
		return Target{}, fmt.Errorf("boltrouting: unsupported scheme %q (want bolt or neo4j)", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("boltrouting: uri %q has no host", raw)
	}

	port := defaultBoltPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Target{}, fmt.Errorf("boltrouting: invalid port %q: %w", p, err)
		}
		port = n
	}

	ctx := map[string]string{}
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			ctx[k] = vs[0]
		}
	}

	return Target{Scheme: scheme, Host: host, Port: port, Context: ctx}, nil
}

// Address formats host:port for dialing.
func (t Target) Address() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}
