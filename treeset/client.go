package treeset

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"github.com/tuannh982/actor-treeset/treeset/commons"
	"github.com/tuannh982/actor-treeset/utils/service"
)

// ErrUnexpectedReply reports a reply whose kind does not match the operation
// that was submitted under its id.
var ErrUnexpectedReply = errors.New("unexpected reply kind")

// clientMailboxSize bounds the shared reply channel. Replies are matched to
// callers by a routing goroutine, so the buffer only needs to absorb bursts.
const clientMailboxSize = 1024

// Client wraps a set with a synchronous call interface. The raw set API is
// pipelined: submissions return immediately and replies arrive on a channel
// in any order. Client assigns ids, routes each reply back to the blocked
// caller, and is safe for any number of goroutines to share.
type Client[V constraints.Ordered] struct {
	*service.SimpleService
	set    *Set[V]
	lastID atomic.Int64
	// channels
	replies chan commons.Reply
	pending *xsync.MapOf[commons.OpID, chan commons.Reply]
	// log
	log *log.Entry
}

func NewClient[V constraints.Ordered](set *Set[V], name string) *Client[V] {
	instance := &Client[V]{
		set:     set,
		replies: make(chan commons.Reply, clientMailboxSize),
		pending: xsync.NewMapOf[commons.OpID, chan commons.Reply](),
		log:     log.WithFields(log.Fields{"client": name}),
	}
	instance.SimpleService = service.NewSimpleService(instance)
	return instance
}

func (c *Client[V]) OnStart(ctx context.Context) error {
	go c.routeRoutine(ctx)
	return nil
}

func (c *Client[V]) OnStop() {}

// Insert adds elem to the set, returning once the insertion has taken
// effect.
func (c *Client[V]) Insert(ctx context.Context, elem V) error {
	id, ch := c.register()
	defer c.pending.Delete(id)
	if err := c.set.Insert(c.replies, id, elem); err != nil {
		return err
	}
	_, err := c.await(ctx, ch)
	return err
}

// Remove deletes elem from the set, returning once the removal has taken
// effect. Removing an absent element succeeds.
func (c *Client[V]) Remove(ctx context.Context, elem V) error {
	id, ch := c.register()
	defer c.pending.Delete(id)
	if err := c.set.Remove(c.replies, id, elem); err != nil {
		return err
	}
	_, err := c.await(ctx, ch)
	return err
}

// Contains reports whether elem is in the set.
func (c *Client[V]) Contains(ctx context.Context, elem V) (bool, error) {
	id, ch := c.register()
	defer c.pending.Delete(id)
	if err := c.set.Contains(c.replies, id, elem); err != nil {
		return false, err
	}
	r, err := c.await(ctx, ch)
	if err != nil {
		return false, err
	}
	res, ok := r.(commons.ContainsResult)
	if !ok {
		return false, ErrUnexpectedReply
	}
	return res.Found, nil
}

// GC forwards a collection request to the underlying set.
func (c *Client[V]) GC() error {
	return c.set.GC()
}

func (c *Client[V]) register() (commons.OpID, chan commons.Reply) {
	id := commons.OpID(c.lastID.Add(1))
	ch := make(chan commons.Reply, 1)
	c.pending.Store(id, ch)
	return id, ch
}

func (c *Client[V]) await(ctx context.Context, ch chan commons.Reply) (commons.Reply, error) {
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client[V]) routeRoutine(ctx context.Context) {
	for {
		select {
		case r := <-c.replies:
			if ch, ok := c.pending.Load(r.OperationID()); ok {
				// per-operation channels hold one slot and see one
				// reply, so this never blocks the router
				ch <- r
			} else {
				c.log.WithField("id", r.OperationID()).Warn("reply for unknown operation")
			}
		case <-ctx.Done():
			return
		}
	}
}
