package boltevents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMarshalsExpectedShape(t *testing.T) {
	ev := Event{Kind: KindFailedServerReported, ServerCode: "Neo.ClientError.Statement.SyntaxError", Severity: "recoverable"}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "failed_server_reported", decoded["kind"])
	assert.Equal(t, ev.ServerCode, decoded["serverCode"])
}

func TestNewPublisherRequiresAddress(t *testing.T) {
	_, err := NewPublisher(Config{}, "bolt.events")
	assert.Error(t, err, "expected error for empty address")
}
