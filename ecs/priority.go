package ecs

import (
	"fmt"
	"strconv"
)

// Priority orders behaviors within a frame and entities within a behavior's subscriber list.
// Lower values run first.
type Priority int8

const (
	First Priority = iota
	Higher
	Normal
	Lower
	Last
)

var priorityNames = [...]string{"First", "Higher", "Normal", "Lower", "Last"}

func (p Priority) String() string {
	if p >= First && p <= Last {
		return priorityNames[p]
	}
	return "Priority(" + strconv.Itoa(int(p)) + ")"
}

// ParsePriority maps a priority name back to its value.
func ParsePriority(name string) (Priority, bool) {
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), true
		}
	}
	return Normal, false
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, ok := ParsePriority(string(text))
	if !ok {
		return fmt.Errorf("ecs: unknown priority %q", text)
	}
	*p = parsed
	return nil
}
