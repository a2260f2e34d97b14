package boltrouting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURIDefaultsPort(t *testing.T) {
	target, err := ParseURI("bolt://dbhost")
	require.NoError(t, err)
	assert.Equal(t, SchemeBolt, target.Scheme)
	assert.Equal(t, "dbhost", target.Host)
	assert.Equal(t, defaultBoltPort, target.Port)
	assert.False(t, target.Routing(), "bolt scheme should not imply routing")
}

func TestParseURINeo4jWithPortAndContext(t *testing.T) {
	target, err := ParseURI("neo4j://dbhost:7688?region=eu")
	require.NoError(t, err)
	assert.Equal(t, SchemeNeo4j, target.Scheme)
	assert.Equal(t, 7688, target.Port)
	assert.True(t, target.Routing(), "neo4j scheme should imply routing")
	assert.Equal(t, "eu", target.Context["region"])
	assert.Equal(t, "dbhost:7688", target.Address())
}

func TestParseURIRejectsUnknownScheme(t *testing.T) {
	_, err := ParseURI("http://dbhost")
	assert.Error(t, err, "expected error for unsupported scheme")
}
