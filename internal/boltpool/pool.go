// Package boltpool is a fixed-size freelist pool over internal/boltconn.Conn,
// grounded on the mutex+condition-variable waiting idiom the teacher
// uses in pkg/lrucache.Cache.Get (callers block on a sync.Cond rather
// than spin or poll) rather than on its sql.DB-based repository
// connection, since a Bolt Conn is a hand-rolled state machine with no
// database/sql.DB equivalent to delegate pooling to.
package boltpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusgraph/bolt-go/internal/boltconn"
)

// Factory creates and fully establishes a new Conn (handshake, HELLO,
// auth) ready for use in the READY state.
type Factory func(ctx context.Context) (*boltconn.Conn, error)

// Pool hands out *boltconn.Conn values up to a fixed capacity,
// creating new ones lazily and reusing released ones. A connection
// that ends up DEFUNCT is dropped rather than returned to the
// freelist on Release.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	factory  Factory
	maxSize  int
	size     int
	idle     []*boltconn.Conn
	closed   bool
}

func New(maxSize int, factory Factory) *Pool {
	p := &Pool{factory: factory, maxSize: maxSize}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Acquire returns an idle connection or creates a new one if capacity
// remains, blocking until either becomes available or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*boltconn.Conn, error) {
	p.mu.Lock()
	for {
		if p.closed {
			p.mu.Unlock()
			return nil, fmt.Errorf("boltpool: pool is closed")
		}
		if n := len(p.idle); n > 0 {
			c := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return c, nil
		}
		if p.size < p.maxSize {
			p.size++
			p.mu.Unlock()
			c, err := p.factory(ctx)
			if err != nil {
				p.mu.Lock()
				p.size--
				p.cond.Broadcast()
				p.mu.Unlock()
				return nil, fmt.Errorf("boltpool: create connection: %w", err)
			}
			return c, nil
		}

		waitDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				p.mu.Lock()
				p.cond.Broadcast()
				p.mu.Unlock()
			case <-waitDone:
			}
		}()
		p.cond.Wait()
		close(waitDone)
		if err := ctx.Err(); err != nil {
			p.mu.Unlock()
			return nil, err
		}
	}
}

// Release returns c to the idle freelist, or drops it (decrementing
// the live count) if it is DEFUNCT or closed.
func (p *Pool) Release(c *boltconn.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.State() == boltconn.StateDefunct || c.State() == boltconn.StateClosed || p.closed {
		p.size--
		p.cond.Broadcast()
		return
	}
	p.idle = append(p.idle, c)
	p.cond.Broadcast()
}

// Close marks the pool closed and closes every idle connection.
// In-flight (acquired) connections are left to their callers.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for _, c := range p.idle {
		_ = c.SendGoodbye()
	}
	p.idle = nil
	p.cond.Broadcast()
}
