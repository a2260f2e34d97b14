package boltpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nexusgraph/bolt-go/internal/bolttest"
	"github.com/nexusgraph/bolt-go/internal/boltconn"
	"github.com/stretchr/testify/require"
)

func newTestFactory(created *int32) Factory {
	return func(ctx context.Context) (*boltconn.Conn, error) {
		atomic.AddInt32(created, 1)
		return boltconn.New(&bolttest.PipeTransport{}, nil), nil
	}
}

func TestAcquireReuseDoesNotExceedCapacity(t *testing.T) {
	var created int32
	p := New(2, newTestFactory(&created))

	ctx := context.Background()
	c1, err := p.Acquire(ctx)
	require.NoError(t, err)
	c2, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, created, "expected 2 created connections")

	p.Release(c1)
	c3, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.Same(t, c1, c3, "expected reuse of released connection")
	require.EqualValues(t, 2, created, "expected no new connection on reuse")
	p.Release(c2)
	p.Release(c3)
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	var created int32
	p := New(1, newTestFactory(&created))

	ctx := context.Background()
	c1, err := p.Acquire(ctx)
	require.NoError(t, err)

	acquired := make(chan *boltconn.Conn, 1)
	go func() {
		c, err := p.Acquire(ctx)
		if err != nil {
			t.Error(err)
			return
		}
		acquired <- c
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should have blocked")
	case <-time.After(20 * time.Millisecond):
	}

	p.Release(c1)

	select {
	case c := <-acquired:
		if c != c1 {
			t.Error("expected the released connection to be handed out")
		}
	case <-time.After(time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	var created int32
	p := New(1, newTestFactory(&created))

	ctx := context.Background()
	_, err := p.Acquire(ctx)
	require.NoError(t, err)

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(cctx)
	require.Error(t, err, "expected context deadline error")
}
