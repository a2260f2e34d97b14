package boltrouting

import (
	"testing"
	"time"

	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoutingTable(t *testing.T) {
	sp := messages.SuccessParams{Metadata: map[string]packstream.Value{
		"rt": packstream.NewMap(map[string]packstream.Value{
			"ttl": packstream.NewInt(300),
			"servers": packstream.NewList([]packstream.Value{
				packstream.NewMap(map[string]packstream.Value{
					"role":      packstream.NewString("ROUTE"),
					"addresses": packstream.NewList([]packstream.Value{packstream.NewString("a:7687")}),
				}),
				packstream.NewMap(map[string]packstream.Value{
					"role":      packstream.NewString("WRITE"),
					"addresses": packstream.NewList([]packstream.Value{packstream.NewString("b:7687")}),
				}),
				packstream.NewMap(map[string]packstream.Value{
					"role":      packstream.NewString("READ"),
					"addresses": packstream.NewList([]packstream.Value{packstream.NewString("c:7687"), packstream.NewString("d:7687")}),
				}),
			}),
		}),
	}}

	table, err := resolveRoutingTable(sp)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, table.TTL)
	assert.Equal(t, []string{"a:7687"}, table.Routers)
	assert.Equal(t, []string{"b:7687"}, table.Writers)
	assert.Len(t, table.Readers, 2)
}

func TestCacheGetCachesUntilTTLExpires(t *testing.T) {
	c := NewCache(10)
	calls := 0
	fetch := func() (RoutingTable, error) {
		calls++
		return RoutingTable{TTL: 20 * time.Millisecond, Readers: []string{"x:7687"}}, nil
	}

	_, err := c.Get("neo4j", "", fetch)
	require.NoError(t, err)
	_, err = c.Get("neo4j", "", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	time.Sleep(30 * time.Millisecond)
	_, err = c.Get("neo4j", "", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expected refetch after TTL expiry")
}
