package collections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	require.Equal(t, 0, q.Size())
	require.Equal(t, 0, q.Pop())
	require.Equal(t, 0, q.Peek())

	q.Push(1)
	q.Push(2)
	q.Push(3)
	require.Equal(t, 3, q.Size())
	require.Equal(t, 1, q.Peek())
	require.Equal(t, 1, q.Pop())
	require.Equal(t, 2, q.Pop())

	q.Push(4)
	require.Equal(t, 3, q.Pop())
	require.Equal(t, 4, q.Pop())
	require.Equal(t, 0, q.Size())
}

func TestQueueDrainReuse(t *testing.T) {
	q := NewQueue[int]()
	for round := 0; round < 3; round++ {
		for i := 0; i < 100; i++ {
			q.Push(round*100 + i)
		}
		for i := 0; i < 100; i++ {
			require.Equal(t, round*100+i, q.Pop())
		}
		require.Equal(t, 0, q.Size())
	}
}
