package ecs

import (
	"fmt"
	"reflect"
)

// Behavior is per-frame logic shared by every entity subscribed to it. The runner keeps
// exactly one instance per behavior kind, so implementations keep no per-entity state.
//
// entities holds the active subscribers in priority order and is only valid for the
// duration of the call. Structural changes made from inside Update fail with
// ErrMutationDuringUpdate; queue them on frame.Commands instead.
type Behavior interface {
	Update(frame *UpdateFrame, entities []*Entity)
}

// PrioritizedBehavior lets a behavior choose its place in the frame.
// Behaviors without it run at Normal priority.
type PrioritizedBehavior interface {
	Behavior
	Priority() Priority
}

var behaviorType = reflect.TypeFor[Behavior]()

// BehaviorOf returns the runner's singleton for behavior kind B, creating it on first use.
// Pointer kinds are allocated with their zero value; value kinds use the zero value itself.
// Creating a singleton changes the schedule, so it fails with ErrMutationDuringUpdate
// mid-pass; looking up an existing one does not.
func BehaviorOf[B Behavior](r *Runner) (B, error) {
	var zero B
	if r == nil || r.closed {
		return zero, ErrNoActiveRunner
	}
	list, err := behaviorFor[B](r)
	if err != nil {
		return zero, err
	}
	return list.behavior.(B), nil
}

// RegisterBehavior installs instance as the singleton for kind B. It fails with
// ErrDuplicateBehavior when the kind already has a singleton.
func RegisterBehavior[B Behavior](r *Runner, instance B) error {
	if err := r.checkMutable("register behavior"); err != nil {
		return err
	}
	if isNil(instance) {
		return ErrNullComponent
	}
	kind := reflect.TypeFor[B]()
	if _, ok := r.behaviors[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBehavior, r.registry.nameOf(kind))
	}
	r.installBehavior(kind, instance)
	return nil
}

func behaviorFor[B Behavior](r *Runner) (*subscriberList, error) {
	kind := reflect.TypeFor[B]()
	if slot, ok := r.behaviors[kind]; ok {
		return r.schedule.list(slot), nil
	}
	if err := r.checkMutable("create behavior"); err != nil {
		return nil, err
	}
	return r.installBehavior(kind, newBehavior[B]()), nil
}

func newBehavior[B Behavior]() B {
	t := reflect.TypeFor[B]()
	if t.Kind() == reflect.Interface {
		panic("behavior kind must be concrete, got interface " + t.String())
	}
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(B)
	}
	var zero B
	return zero
}
