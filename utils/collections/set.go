package collections

// Set is an unordered collection of unique values. Add and Remove report
// redundant calls via the package sentinel errors so callers can treat a
// duplicate as either a no-op or an invariant violation.
type Set[V comparable] interface {
	Contains(v V) bool
	Add(v V) error
	Remove(v V) error
	Size() int
	Entries() []V
}

type hashSet[V comparable] struct {
	entries map[V]struct{}
}

func NewSet[V comparable]() Set[V] {
	return &hashSet[V]{
		entries: make(map[V]struct{}),
	}
}

func (s *hashSet[V]) Contains(v V) bool {
	_, ok := s.entries[v]
	return ok
}

func (s *hashSet[V]) Add(v V) error {
	if s.Contains(v) {
		return ErrValueExisted
	}
	s.entries[v] = struct{}{}
	return nil
}

func (s *hashSet[V]) Remove(v V) error {
	if !s.Contains(v) {
		return ErrValueNotExisted
	}
	delete(s.entries, v)
	return nil
}

func (s *hashSet[V]) Size() int {
	return len(s.entries)
}

func (s *hashSet[V]) Entries() []V {
	arr := make([]V, 0, s.Size())
	for v := range s.entries {
		arr = append(arr, v)
	}
	return arr
}
