package boltrouting

import (
	"fmt"
	"time"

	"github.com/nexusgraph/bolt-go/internal/boltconn"
	"github.com/nexusgraph/bolt-go/internal/boltlrucache"
	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// RoutingTable is the resolved result of a ROUTE call: the TTL after
// which it must be re-resolved, and the address lists per server
// role.
type RoutingTable struct {
	TTL      time.Duration
	Routers  []string
	Readers  []string
	Writers  []string
}

// resolveRoutingTable decodes a ROUTE SUCCESS's "rt" metadata field
// into a RoutingTable. The shape (rt.ttl in seconds, rt.servers as a
// list of {addresses, role}) matches the one server_example_handlers.cpp
// builds on the server side.
func resolveRoutingTable(sp messages.SuccessParams) (RoutingTable, error) {
	rtVal, ok := sp.Metadata["rt"]
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: ROUTE success missing rt field")
	}
	rt, ok := rtVal.AsMap()
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: rt field is not a map")
	}

	ttlVal, ok := rt["ttl"]
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: rt missing ttl")
	}
	ttlSeconds, ok := ttlVal.AsInt()
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: rt.ttl is not an integer")
	}

	serversVal, ok := rt["servers"]
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: rt missing servers")
	}
	servers, ok := serversVal.AsList()
	if !ok {
		return RoutingTable{}, fmt.Errorf("boltrouting: rt.servers is not a list")
	}

	table := RoutingTable{TTL: time.Duration(ttlSeconds) * time.Second}
	for _, sv := range servers {
		entry, ok := sv.AsMap()
		if !ok {
			continue
		}
		roleVal, ok := entry["role"]
		if !ok {
			continue
		}
		role, ok := roleVal.AsString()
		if !ok {
			continue
		}
		addrsVal, ok := entry["addresses"]
		if !ok {
			continue
		}
		addrList, ok := addrsVal.AsList()
		if !ok {
			continue
		}
		var addrs []string
		for _, a := range addrList {
			if s, ok := a.AsString(); ok {
				addrs = append(addrs, s)
			}
		}
		switch role {
		case "ROUTE":
			table.Routers = append(table.Routers, addrs...)
		case "READ":
			table.Readers = append(table.Readers, addrs...)
		case "WRITE":
			table.Writers = append(table.Writers, addrs...)
		}
	}
	return table, nil
}

// FetchRoutingTable sends ROUTE over conn (which must be READY) and
// decodes the reply into a RoutingTable.
func FetchRoutingTable(conn *boltconn.Conn, p messages.RouteParams) (RoutingTable, error) {
	val := messages.SerializeRoute(p, conn.Version())
	sp, err := conn.SendRequestReceiveSummary(val)
	if err != nil {
		return RoutingTable{}, fmt.Errorf("boltrouting: ROUTE request: %w", err)
	}
	return resolveRoutingTable(sp)
}

// routingContextValue converts a routing context map into PackStream
// values for RouteParams.RoutingContext.
func routingContextValue(ctx map[string]string) map[string]packstream.Value {
	out := make(map[string]packstream.Value, len(ctx))
	for k, v := range ctx {
		out[k] = packstream.NewString(v)
	}
	return out
}

// Cache wraps boltlrucache.Cache with a RoutingTable-shaped API: Get
// fetches-or-computes a table for (db, impersonatedUser) keyed
// together, honoring the TTL the server returned on the prior fetch.
type Cache struct {
	cache *boltlrucache.Cache
}

func NewCache(maxEntries int) *Cache {
	return &Cache{cache: boltlrucache.New(maxEntries)}
}

func cacheKey(db, impUser string) string { return db + "\x00" + impUser }

// Get returns the cached RoutingTable for (db, impUser), calling fetch
// to resolve a miss or an expired entry.
func (c *Cache) Get(db, impUser string, fetch func() (RoutingTable, error)) (RoutingTable, error) {
	var fetchErr error
	v := c.cache.Get(cacheKey(db, impUser), func() (any, time.Duration, int) {
		table, err := fetch()
		if err != nil {
			fetchErr = err
			return RoutingTable{}, 0, 1
		}
		return table, table.TTL, 1
	})
	if fetchErr != nil {
		return RoutingTable{}, fetchErr
	}
	return v.(RoutingTable), nil
}

// Invalidate drops a cached table, forcing the next Get to refresh.
func (c *Cache) Invalidate(db, impUser string) bool {
	return c.cache.Del(cacheKey(db, impUser))
}
