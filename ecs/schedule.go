package ecs

import (
	"cmp"
	"reflect"
	"slices"
	"sort"
	"time"

	"github.com/kamstrup/intmap"
)

type subscription struct {
	entity *Entity
	seq    uint64
}

// subscriberList is the ordered list of entities subscribed to one behavior.
// Entries are sorted by entity priority, then by the sequence number handed out when the
// entity subscribed. A priority change keeps the original sequence number.
type subscriberList struct {
	behavior Behavior
	kind     reflect.Type
	name     string
	priority Priority
	slot     int

	entries []subscription
	members *intmap.Map[EntityId, uint64]
	nextSeq uint64

	// buf is reused for the per-frame slice of active subscribers.
	buf []*Entity

	stats behaviorStatsInternal
}

func newSubscriberList(behavior Behavior, kind reflect.Type, name string) *subscriberList {
	priority := Normal
	if p, ok := behavior.(PrioritizedBehavior); ok {
		priority = p.Priority()
	}
	return &subscriberList{
		behavior: behavior,
		kind:     kind,
		name:     name,
		priority: priority,
		members:  intmap.New[EntityId, uint64](64),
		stats: behaviorStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}
}

func (l *subscriberList) contains(e *Entity) bool {
	_, ok := l.members.Get(e.id)
	return ok
}

func (l *subscriberList) subscribe(e *Entity) bool {
	if l.contains(e) {
		return false
	}
	seq := l.nextSeq
	l.nextSeq++
	l.members.Put(e.id, seq)
	l.insert(subscription{entity: e, seq: seq})
	return true
}

func (l *subscriberList) unsubscribe(e *Entity) bool {
	if !l.contains(e) {
		return false
	}
	l.members.Del(e.id)
	l.cut(e)
	return true
}

// reposition moves e to the place its current priority demands.
func (l *subscriberList) reposition(e *Entity) {
	seq, ok := l.members.Get(e.id)
	if !ok {
		return
	}
	l.cut(e)
	l.insert(subscription{entity: e, seq: seq})
}

func (l *subscriberList) insert(sub subscription) {
	p := sub.entity.priority
	pos := sort.Search(len(l.entries), func(i int) bool {
		other := l.entries[i]
		if other.entity.priority != p {
			return other.entity.priority > p
		}
		return other.seq > sub.seq
	})
	l.entries = slices.Insert(l.entries, pos, sub)
}

func (l *subscriberList) cut(e *Entity) {
	for i, sub := range l.entries {
		if sub.entity == e {
			l.entries = slices.Delete(l.entries, i, i+1)
			return
		}
	}
}

func (l *subscriberList) all() []*Entity {
	out := make([]*Entity, len(l.entries))
	for i, sub := range l.entries {
		out[i] = sub.entity
	}
	return out
}

// active fills the reusable buffer with the subscribers that are currently active.
func (l *subscriberList) active() []*Entity {
	l.buf = l.buf[:0]
	for _, sub := range l.entries {
		if sub.entity.active {
			l.buf = append(l.buf, sub.entity)
		}
	}
	return l.buf
}

// schedule is the arena of subscriber lists. Entities refer to lists by slot.
type schedule struct {
	lists []*subscriberList
	order []*subscriberList
}

func (s *schedule) add(l *subscriberList) int {
	l.slot = len(s.lists)
	s.lists = append(s.lists, l)
	s.order = append(s.order, l)
	slices.SortStableFunc(s.order, func(a, b *subscriberList) int {
		return cmp.Compare(a.priority, b.priority)
	})
	return l.slot
}

func (s *schedule) list(slot int) *subscriberList {
	return s.lists[slot]
}

func (s *schedule) reset() {
	s.lists = nil
	s.order = nil
}
