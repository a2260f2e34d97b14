package session

import (
	"bytes"
	"testing"

	"github.com/nexusgraph/bolt-go/internal/bolttest"
	"github.com/nexusgraph/bolt-go/internal/boltconn"
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
	"github.com/stretchr/testify/require"
)

func encodeMsg(t *testing.T, val packstream.Value) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := packstream.NewEncoder(&buf)
	if err := enc.Encode(val); err != nil {
		t.Fatalf("encode fixture message: %v", err)
	}
	return buf.Bytes()
}

func readyConn(t *testing.T) (*boltconn.Conn, *bolttest.PipeTransport, bolt.Version) {
	t.Helper()
	pt := bolttest.NewPipeTransport()
	v := bolt.Version{Major: 5, Minor: 0}
	pt.QueueHandshakeResponse(v.Major, v.Minor)
	hello := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{}}, v)
	pt.QueueChunked(encodeMsg(t, hello))

	c := boltconn.New(pt, nil)
	if err := c.PerformHandshake([]bolt.Version{v}); err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if _, err := c.SendHello(messages.HelloParams{UserAgent: "bolt-go/test", BoltAgent: messages.BoltAgent{Product: "bolt-go/test"}}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	return c, pt, v
}

func TestSessionRunAutoCommit(t *testing.T) {
	c, pt, v := readyConn(t)

	runSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{
		"fields": packstream.NewList([]packstream.Value{packstream.NewString("n")}),
	}}, v)
	record := messages.SerializeRecord(messages.RecordParams{Fields: []packstream.Value{packstream.NewInt(1)}}, v)
	pullSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{
		"has_more": packstream.NewBoolean(false),
	}}, v)
	pt.QueueChunked(encodeMsg(t, runSuccess))
	pt.QueueChunked(encodeMsg(t, record))
	pt.QueueChunked(encodeMsg(t, pullSuccess))

	sess := New(c, "neo4j", nil)
	result, err := sess.Run("RETURN 1 AS n", nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	n, _ := result.Records[0].Fields[0].AsInt()
	require.EqualValues(t, 1, n, "record value")
}

func TestTransactionCommit(t *testing.T) {
	c, pt, v := readyConn(t)

	beginSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{}}, v)
	runSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{}}, v)
	pullSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{"has_more": packstream.NewBoolean(false)}}, v)
	commitSuccess := messages.SerializeSuccess(messages.SuccessParams{Metadata: map[string]packstream.Value{
		"bookmark": packstream.NewString("bm-1"),
	}}, v)

	pt.QueueChunked(encodeMsg(t, beginSuccess))
	pt.QueueChunked(encodeMsg(t, runSuccess))
	pt.QueueChunked(encodeMsg(t, pullSuccess))
	pt.QueueChunked(encodeMsg(t, commitSuccess))

	sess := New(c, "neo4j", nil)
	tx, err := sess.Begin()
	require.NoError(t, err, "begin")
	_, err = tx.Run("CREATE (n) RETURN n", nil)
	require.NoError(t, err, "run in tx")
	require.NoError(t, tx.Commit())
	require.Error(t, tx.Commit(), "expected error committing an already-closed transaction")
}
