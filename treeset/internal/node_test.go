package internal

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tuannh982/actor-treeset/treeset/commons"
)

func testLogger() *log.Entry {
	return log.NewEntry(log.New())
}

func awaitReply(t *testing.T, ch chan commons.Reply) commons.Reply {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for reply")
		return nil
	}
}

func send(n *Node[int], op Op, id commons.OpID, elem int, replyTo chan commons.Reply) {
	n.Inbox <- Request[int]{Op: op, ReplyTo: replyTo, ID: id, Elem: elem}
}

func TestNodeInsertContainsRemove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root := NewRoot[int](ctx, testLogger())
	replies := make(chan commons.Reply, 16)

	send(root, OpContains, 1, 7, replies)
	require.Equal(t, commons.ContainsResult{ID: 1, Found: false}, awaitReply(t, replies))

	send(root, OpInsert, 2, 7, replies)
	require.Equal(t, commons.OperationFinished{ID: 2}, awaitReply(t, replies))

	send(root, OpContains, 3, 7, replies)
	require.Equal(t, commons.ContainsResult{ID: 3, Found: true}, awaitReply(t, replies))

	send(root, OpRemove, 4, 7, replies)
	require.Equal(t, commons.OperationFinished{ID: 4}, awaitReply(t, replies))

	send(root, OpContains, 5, 7, replies)
	require.Equal(t, commons.ContainsResult{ID: 5, Found: false}, awaitReply(t, replies))
}

func TestNodeRemoveAbsentStillFinishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root := NewRoot[int](ctx, testLogger())
	replies := make(chan commons.Reply, 16)

	send(root, OpRemove, 1, 42, replies)
	require.Equal(t, commons.OperationFinished{ID: 1}, awaitReply(t, replies))
	send(root, OpContains, 2, 42, replies)
	require.Equal(t, commons.ContainsResult{ID: 2, Found: false}, awaitReply(t, replies))
}

func TestNodeSentinelValueInsertable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root := NewRoot[int](ctx, testLogger())
	replies := make(chan commons.Reply, 16)

	// the root starts as a tombstone holding the zero value, so inserting
	// zero must revive it rather than spawn a second node
	send(root, OpContains, 1, 0, replies)
	require.Equal(t, commons.ContainsResult{ID: 1, Found: false}, awaitReply(t, replies))
	send(root, OpInsert, 2, 0, replies)
	require.Equal(t, commons.OperationFinished{ID: 2}, awaitReply(t, replies))
	send(root, OpContains, 3, 0, replies)
	require.Equal(t, commons.ContainsResult{ID: 3, Found: true}, awaitReply(t, replies))
}

func TestNodeCopyRemovedLeafReportsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := NewRoot[int](ctx, testLogger())
	dst := NewRoot[int](ctx, testLogger())
	done := make(chan Direction, 1)

	src.Inbox <- CopyTo[int]{Target: dst, Dir: Left, Done: done}
	select {
	case dir := <-done:
		require.Equal(t, Left, dir)
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for copy completion")
	}
}

func TestNodeCopyLiveLeaf(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newNode(ctx, 7, false, testLogger())
	dst := NewRoot[int](ctx, testLogger())
	done := make(chan Direction, 1)

	src.Inbox <- CopyTo[int]{Target: dst, Dir: Right, Done: done}
	select {
	case dir := <-done:
		require.Equal(t, Right, dir)
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for copy completion")
	}

	replies := make(chan commons.Reply, 1)
	send(dst, OpContains, 1, 7, replies)
	require.Equal(t, commons.ContainsResult{ID: 1, Found: true}, awaitReply(t, replies))
}

func TestNodeCopySubtreeDropsTombstones(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := NewRoot[int](ctx, testLogger())
	replies := make(chan commons.Reply, 16)

	var id commons.OpID
	for _, v := range []int{5, 3, 8, 1, 4} {
		id++
		send(src, OpInsert, id, v, replies)
		require.Equal(t, commons.OperationFinished{ID: id}, awaitReply(t, replies))
	}
	id++
	send(src, OpRemove, id, 3, replies)
	require.Equal(t, commons.OperationFinished{ID: id}, awaitReply(t, replies))

	dst := NewRoot[int](ctx, testLogger())
	done := make(chan Direction, 1)
	src.Inbox <- CopyTo[int]{Target: dst, Dir: Left, Done: done}
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for copy completion")
	}

	expected := map[int]bool{5: true, 3: false, 8: true, 1: true, 4: true, 0: false}
	for v, want := range expected {
		id++
		send(dst, OpContains, id, v, replies)
		require.Equal(t, commons.ContainsResult{ID: id, Found: want}, awaitReply(t, replies))
	}
}
