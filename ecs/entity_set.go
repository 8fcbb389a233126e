package ecs

import "github.com/kamstrup/intmap"

// entitySet is an insertion-ordered set of entities keyed by EntityId.
type entitySet struct {
	items []*Entity
	index *intmap.Map[EntityId, int]
}

func newEntitySet(capacity int) *entitySet {
	return &entitySet{
		items: make([]*Entity, 0, capacity),
		index: intmap.New[EntityId, int](capacity),
	}
}

func (s *entitySet) add(e *Entity) bool {
	if _, ok := s.index.Get(e.id); ok {
		return false
	}
	s.index.Put(e.id, len(s.items))
	s.items = append(s.items, e)
	return true
}

// remove keeps the remaining entities in insertion order.
func (s *entitySet) remove(e *Entity) bool {
	pos, ok := s.index.Get(e.id)
	if !ok {
		return false
	}
	s.index.Del(e.id)

	copy(s.items[pos:], s.items[pos+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]

	for i := pos; i < len(s.items); i++ {
		s.index.Put(s.items[i].id, i)
	}
	return true
}

func (s *entitySet) has(e *Entity) bool {
	_, ok := s.index.Get(e.id)
	return ok
}

func (s *entitySet) len() int {
	return len(s.items)
}

func (s *entitySet) snapshot() []*Entity {
	out := make([]*Entity, len(s.items))
	copy(out, s.items)
	return out
}

func (s *entitySet) clear() {
	clear(s.items)
	s.items = s.items[:0]
	s.index.Clear()
}
