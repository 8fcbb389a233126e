package ecs

import (
	"errors"
	"fmt"
)

// Commands buffers structural changes requested during an update pass. The runner applies
// them in queue order once every behavior has run, so behaviors can add components or
// start and stop behaviors without tripping the mutation guard.
type Commands struct {
	ops    []command
	defers []func()
}

type command struct {
	entity *Entity
	apply  func() error
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues a function to run after all queued mutations have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Queue queues an arbitrary mutation. Its error is reported by Runner.Update.
func (c *Commands) Queue(fn func() error) {
	c.ops = append(c.ops, command{apply: fn})
}

// SetPriority queues a priority change.
func (c *Commands) SetPriority(e *Entity, p Priority) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		return e.SetPriority(p)
	}})
}

// AddLater queues Add[T].
func AddLater[T any](c *Commands, e *Entity, component T) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		_, err := Add(e, component)
		return err
	}})
}

// SetLater queues Set[T].
func SetLater[T any](c *Commands, e *Entity, component T) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		return Set(e, component)
	}})
}

// RemoveLater queues Remove[T].
func RemoveLater[T any](c *Commands, e *Entity) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		return Remove[T](e)
	}})
}

// StartLater queues Start[B].
func StartLater[B Behavior](c *Commands, e *Entity) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		return Start[B](e)
	}})
}

// StopLater queues Stop[B].
func StopLater[B Behavior](c *Commands, e *Entity) {
	c.ops = append(c.ops, command{entity: e, apply: func() error {
		return Stop[B](e)
	}})
}

// Len reports how many mutations and deferred functions are waiting.
func (c *Commands) Len() int {
	return len(c.ops) + len(c.defers)
}

// Flush applies every queued mutation, then runs deferred functions, and resets the
// buffer. Failed mutations do not stop the rest; their errors are joined.
func (c *Commands) Flush() error {
	var errs []error
	for _, op := range c.ops {
		if err := op.apply(); err != nil {
			if op.entity != nil {
				err = fmt.Errorf("%s: %w", op.entity.name, err)
			}
			errs = append(errs, err)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.ops)
	c.ops = c.ops[:0]
	c.defers = c.defers[:0]
	return errors.Join(errs...)
}
