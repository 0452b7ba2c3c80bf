package collections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[string, int]()
	require.Nil(t, m.Put("aa", 22, false))
	require.Equal(t, ErrValueExisted, m.Put("aa", 23, false))
	v, err := m.Get("aa")
	require.Nil(t, err)
	require.Equal(t, 22, v)

	// forced put replaces
	require.Nil(t, m.Put("aa", 23, true))
	v, err = m.Get("aa")
	require.Nil(t, err)
	require.Equal(t, 23, v)

	require.Nil(t, m.Put("bb", 55, false))
	require.Equal(t, 2, m.Size())
	require.Equal(t, 2, len(m.Keys()))
	require.Equal(t, 2, len(m.Values()))
	require.Equal(t, true, m.Contains("bb"))

	_, err = m.Get("cc")
	require.Equal(t, ErrValueNotExisted, err)
	require.Equal(t, ErrValueNotExisted, m.Delete("cc"))
	require.Nil(t, m.Delete("bb"))
	require.Equal(t, false, m.Contains("bb"))
	require.Equal(t, 1, m.Size())
}
