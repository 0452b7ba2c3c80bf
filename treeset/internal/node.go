package internal

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"github.com/tuannh982/actor-treeset/treeset/commons"
	"github.com/tuannh982/actor-treeset/utils/collections"
)

// mailboxSize bounds one node's inbox. Forwarding along tree edges blocks on
// a full child mailbox, which is plain backpressure: the child is always
// draining, and edges only ever point away from the sender, so no cycle of
// blocked sends can form.
const mailboxSize = 64

// copyOpID marks the self-insert a node issues while copying itself into a
// replacement tree. It cannot collide with a caller id because the copying
// node is its own requester and external callers never see it.
const copyOpID commons.OpID = -1

// must panics on protocol-invariant violations: those are bugs, not errors
// the protocol recovers from.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Node is one tree actor. It owns a single value, a tombstone flag and up to
// two children, and mutates that state only while processing one mailbox
// message at a time, so it needs no locks. Nodes are spawned lazily by the
// insert that first needs them and are never relocated; a whole generation
// dies together when its context is cancelled after a completed collection.
type Node[V constraints.Ordered] struct {
	Inbox chan Envelope

	value    V
	removed  bool
	children collections.Map[Direction, *Node[V]]
	log      *log.Entry
}

// NewRoot spawns the sentinel node a fresh tree hangs off: zero value,
// tombstoned, childless. ctx is the generation the node belongs to; when it
// is cancelled the node's goroutine exits.
func NewRoot[V constraints.Ordered](ctx context.Context, logger *log.Entry) *Node[V] {
	var zero V
	return newNode(ctx, zero, true, logger)
}

func newNode[V constraints.Ordered](ctx context.Context, value V, removed bool, logger *log.Entry) *Node[V] {
	n := &Node[V]{
		Inbox:    make(chan Envelope, mailboxSize),
		value:    value,
		removed:  removed,
		children: collections.NewMap[Direction, *Node[V]](),
		log:      logger.WithField("node", value),
	}
	nodesSpawned.Inc()
	go n.run(ctx)
	return n
}

func (n *Node[V]) run(ctx context.Context) {
	for {
		select {
		case env := <-n.Inbox:
			switch msg := env.(type) {
			case Request[V]:
				n.handleRequest(ctx, msg)
			case CopyTo[V]:
				n.handleCopy(ctx, msg)
			default:
				n.log.Warn("node received unroutable message")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Node[V]) handleRequest(ctx context.Context, req Request[V]) {
	if req.Elem == n.value {
		switch req.Op {
		case OpInsert:
			n.removed = false
			reply(req.ReplyTo, commons.OperationFinished{ID: req.ID})
		case OpContains:
			reply(req.ReplyTo, commons.ContainsResult{ID: req.ID, Found: !n.removed})
		case OpRemove:
			n.removed = true
			reply(req.ReplyTo, commons.OperationFinished{ID: req.ID})
		}
		return
	}
	dir := Left
	if req.Elem > n.value {
		dir = Right
	}
	if child, err := n.children.Get(dir); err == nil {
		// forwarding on the same channel as any later CopyTo keeps the
		// edge FIFO, which is what guarantees a copy never races a
		// request that was already in flight below this node
		child.Inbox <- req
		return
	}
	switch req.Op {
	case OpInsert:
		child := newNode(ctx, req.Elem, false, n.log)
		must(n.children.Put(dir, child, false))
		reply(req.ReplyTo, commons.OperationFinished{ID: req.ID})
	case OpContains:
		reply(req.ReplyTo, commons.ContainsResult{ID: req.ID, Found: false})
	case OpRemove:
		reply(req.ReplyTo, commons.OperationFinished{ID: req.ID})
	}
}

// handleCopy runs the whole copy pass for this node: reinsert the value into
// the target when it is live, fan CopyTo out to the children, then sit in
// the copying state until both completion conditions hold. The two triggers
// (own insert acknowledged, all children done) race freely; both paths run
// the same completion test, so their order is immaterial.
func (n *Node[V]) handleCopy(ctx context.Context, c CopyTo[V]) {
	insertDone := n.removed
	var acks chan commons.Reply
	if !n.removed {
		acks = make(chan commons.Reply, 1)
		c.Target.Inbox <- Request[V]{Op: OpInsert, ReplyTo: acks, ID: copyOpID, Elem: n.value}
		copyInserts.Inc()
	}
	pending := collections.NewSet[Direction]()
	childDone := make(chan Direction, 2)
	for _, dir := range n.children.Keys() {
		child, err := n.children.Get(dir)
		must(err)
		child.Inbox <- CopyTo[V]{Target: c.Target, Dir: dir, Done: childDone}
		must(pending.Add(dir))
	}
	for !insertDone || pending.Size() > 0 {
		select {
		case <-acks: // nil unless a self-insert was issued
			insertDone = true
		case dir := <-childDone:
			must(pending.Remove(dir))
		case <-ctx.Done():
			return
		}
	}
	// Done is buffered for the full fanout of its creator, so reporting
	// never blocks this node
	c.Done <- c.Dir
	n.log.Debug("subtree copy finished")
}

// reply delivers r without ever blocking the calling actor: the fast path
// lands in the requester's buffer, a full requester spills into a goroutine
// that waits it out. Replies may overtake each other, which the contract
// allows; they are never dropped. A requester that stops reading its replies
// is a caller bug, not something the tree defends against.
func reply(to chan<- commons.Reply, r commons.Reply) {
	select {
	case to <- r:
	default:
		go func() { to <- r }()
	}
}
