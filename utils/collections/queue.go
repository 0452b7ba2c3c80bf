package collections

import (
	"fmt"
)

// Queue is a FIFO buffer. The set parks whole request bursts here while a
// collection runs, so Pop releases backing storage instead of re-slicing
// forever.
type Queue[V any] interface {
	Push(V)
	Pop() V
	Peek() V
	Size() int
}

type queue[V any] struct {
	entries []V
	head    int
}

func NewQueue[V any]() Queue[V] {
	return &queue[V]{
		entries: make([]V, 0),
	}
}

func (q *queue[V]) Push(v V) {
	q.entries = append(q.entries, v)
}

func (q *queue[V]) Pop() (v V) {
	if q.Size() == 0 {
		return v
	}
	ret := q.entries[q.head]
	q.entries[q.head] = v
	q.head++
	if q.head == len(q.entries) {
		q.entries = q.entries[:0]
		q.head = 0
	}
	return ret
}

func (q *queue[V]) Peek() (v V) {
	if q.Size() == 0 {
		return v
	}
	return q.entries[q.head]
}

func (q *queue[V]) Size() int {
	return len(q.entries) - q.head
}

func (q queue[V]) String() string {
	return fmt.Sprint(q.entries[q.head:])
}
