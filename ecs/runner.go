package ecs

import (
	"context"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Runner is the scheduling context shared by a set of entities and behaviors. It owns the
// active entity set, the behavior singletons and their subscriber lists, the tag index, and
// the guard that rejects structural changes while an update pass is running.
//
// A Runner is not safe for concurrent use. Run one per goroutine, or drive it from a
// single game loop.
type Runner struct {
	registry *ComponentRegistry
	logger   *zap.Logger

	nextId   EntityId
	active   *entitySet
	tags     map[string]*entitySet
	schedule schedule

	behaviors map[reflect.Type]int

	frame    *UpdateFrame
	updating bool
	closed   bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for lifecycle and guard diagnostics.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner that names kinds through registry.
// A nil registry gets an empty one.
func NewRunner(registry *ComponentRegistry, opts ...RunnerOption) *Runner {
	if registry == nil {
		registry = NewComponentRegistry()
	}
	r := &Runner{
		registry:  registry,
		logger:    zap.NewNop(),
		active:    newEntitySet(256),
		tags:      make(map[string]*entitySet),
		behaviors: make(map[reflect.Type]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.frame = newUpdateFrame(r)
	return r
}

// Registry returns the component registry used for debug names.
func (r *Runner) Registry() *ComponentRegistry {
	return r.registry
}

// Updating reports whether an update pass is in flight.
func (r *Runner) Updating() bool {
	return r.updating
}

// CheckNotUpdating is the guard every structural mutation goes through.
func (r *Runner) CheckNotUpdating() error {
	if r.updating {
		return ErrMutationDuringUpdate
	}
	return nil
}

// Closed reports whether Close has been called.
func (r *Runner) Closed() bool {
	return r.closed
}

// checkMutable combines the liveness check and the update guard.
func (r *Runner) checkMutable(op string) error {
	if r == nil || r.closed {
		return ErrNoActiveRunner
	}
	if err := r.CheckNotUpdating(); err != nil {
		r.logger.Warn("rejected structural mutation during update",
			zap.String("op", op),
			zap.Uint64("frame", r.frame.Frame),
		)
		return err
	}
	return nil
}

func (r *Runner) newEntityId() EntityId {
	r.nextId++
	return r.nextId
}

func (r *Runner) add(e *Entity) {
	if !r.active.add(e) {
		return
	}
	for _, tag := range e.tags {
		r.addTag(e, tag)
	}
}

func (r *Runner) remove(e *Entity) {
	if !r.active.remove(e) {
		return
	}
	for _, tag := range e.tags {
		r.removeTag(e, tag)
	}
}

func (r *Runner) addTag(e *Entity, tag string) {
	set, ok := r.tags[tag]
	if !ok {
		set = newEntitySet(8)
		r.tags[tag] = set
	}
	set.add(e)
}

func (r *Runner) removeTag(e *Entity, tag string) {
	set, ok := r.tags[tag]
	if !ok {
		return
	}
	set.remove(e)
	if set.len() == 0 {
		delete(r.tags, tag)
	}
}

func (r *Runner) installBehavior(kind reflect.Type, behavior Behavior) *subscriberList {
	list := newSubscriberList(behavior, kind, r.registry.nameOf(kind))
	r.behaviors[kind] = r.schedule.add(list)
	r.logger.Debug("behavior created",
		zap.String("behavior", list.name),
		zap.Stringer("priority", list.priority),
	)
	return list
}

func (r *Runner) subscribe(list *subscriberList, e *Entity) {
	if list.subscribe(e) {
		e.behaviors = append(e.behaviors, list)
	}
}

func (r *Runner) unsubscribe(list *subscriberList, e *Entity) {
	if list.unsubscribe(e) {
		e.behaviors = slices.DeleteFunc(e.behaviors, func(l *subscriberList) bool {
			return l == list
		})
	}
}

func (r *Runner) changePriority(e *Entity) {
	for _, list := range e.behaviors {
		list.reposition(e)
	}
}

// IsActive reports whether e is in the runner's active set.
func (r *Runner) IsActive(e *Entity) bool {
	return e != nil && r.active.has(e)
}

// ActiveCount returns the number of active entities.
func (r *Runner) ActiveCount() int {
	return r.active.len()
}

// Entities returns the active entities in registration order.
func (r *Runner) Entities() []*Entity {
	return r.active.snapshot()
}

// Tagged returns the active entities carrying tag.
func (r *Runner) Tagged(tag string) []*Entity {
	set, ok := r.tags[tag]
	if !ok {
		return nil
	}
	return set.snapshot()
}

// TagCount returns how many active entities carry tag.
func (r *Runner) TagCount(tag string) int {
	set, ok := r.tags[tag]
	if !ok {
		return 0
	}
	return set.len()
}

// Subscribers returns every entity subscribed to b in processing order, including
// inactive ones. It returns nil when b is not one of this runner's singletons.
func (r *Runner) Subscribers(b Behavior) []*Entity {
	if b == nil {
		return nil
	}
	slot, ok := r.behaviors[reflect.TypeOf(b)]
	if !ok {
		return nil
	}
	list := r.schedule.list(slot)
	// Kinds holding slices or maps are matched by kind alone.
	if list.kind.Comparable() && list.behavior != b {
		return nil
	}
	return list.all()
}

// Update runs one frame: every behavior, in priority order, is handed its active
// subscribers. Behaviors with no active subscribers are skipped. Queued commands are
// applied once the pass completes; their failures are returned joined.
func (r *Runner) Update(dt float64) error {
	if r.closed {
		return ErrNoActiveRunner
	}
	if r.updating {
		return ErrMutationDuringUpdate
	}

	frame := r.frame
	frame.DeltaTime = dt
	frame.Frame++

	r.runPass(frame)

	if err := frame.Commands.Flush(); err != nil {
		r.logger.Warn("queued commands failed",
			zap.Uint64("frame", frame.Frame),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *Runner) runPass(frame *UpdateFrame) {
	r.updating = true
	defer func() {
		r.updating = false
	}()

	for _, list := range r.schedule.order {
		entities := list.active()
		if len(entities) == 0 {
			continue
		}

		start := time.Now()
		list.behavior.Update(frame, entities)
		list.stats.record(time.Since(start))
	}
}

// Run calls Update at the given interval until the context is cancelled, which is not
// reported as an error. It stops early on the first failing Update.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := r.Update(dt); err != nil {
				return err
			}
		}
	}
}

// Close tears the runner down. Entities keep their components, but every later
// mutation through them fails with ErrNoActiveRunner. Closing from inside an update
// pass fails with ErrMutationDuringUpdate and leaves the runner open.
func (r *Runner) Close() error {
	if r.closed {
		return nil
	}
	if err := r.CheckNotUpdating(); err != nil {
		r.logger.Warn("rejected close during update", zap.Uint64("frame", r.frame.Frame))
		return err
	}
	r.closed = true
	r.active.clear()
	clear(r.tags)
	clear(r.behaviors)
	r.schedule.reset()
	r.logger.Debug("runner closed")
	return nil
}
