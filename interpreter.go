package arscene

import (
	"log/slog"
	"maps"
	"slices"
)

// Interpreter turns events on objects into scheduled actions. Actions are
// never run inside Dispatch; they are queued on the Timeline and run when
// it is advanced.
type Interpreter struct {
	registry *Registry
	timeline *Timeline
	tweens   *Tweens
	overlay  ContentOverlay
	opener   Opener
	store    EntityStore
	log      *slog.Logger

	executors map[ActionKind]Executor
}

// NewInterpreter creates an interpreter with the built-in executors
// registered. log may be nil.
func NewInterpreter(reg *Registry, tl *Timeline, tw *Tweens, log *slog.Logger) *Interpreter {
	if log == nil {
		log = slog.Default()
	}
	in := &Interpreter{
		registry:  reg,
		timeline:  tl,
		tweens:    tw,
		log:       log,
		executors: make(map[ActionKind]Executor),
	}
	registerBuiltins(in)
	return in
}

// Register installs fn as the executor for kind, replacing any previous one.
// A nil fn unregisters the kind.
func (in *Interpreter) Register(kind ActionKind, fn Executor) {
	if fn == nil {
		delete(in.executors, kind)
		return
	}
	in.executors[kind] = fn
}

// Registered reports whether kind has an executor.
func (in *Interpreter) Registered(kind ActionKind) bool {
	_, ok := in.executors[kind]
	return ok
}

// SetOverlay sets the external-content collaborator.
func (in *Interpreter) SetOverlay(o ContentOverlay) {
	in.overlay = o
}

// SetOpener sets the fallback used when the overlay is unavailable.
func (in *Interpreter) SetOpener(o Opener) {
	in.opener = o
}

// SetEntityStore sets the optional ECS bridge.
func (in *Interpreter) SetEntityStore(store EntityStore) {
	in.store = store
}

// --- Dispatch ---

// Dispatch schedules every action list bound to event on the object with
// the given id. It reports whether any binding matched. Unknown ids are a
// no-op.
//
// Each matching list is scheduled independently. Actions are bucketed by
// group number; groups fire in ascending order, each one starting after
// the longest time+delayTime of the groups before it. Ungrouped actions
// fire after every group.
func (in *Interpreter) Dispatch(id ObjectID, event EventKind) bool {
	obj := in.registry.FindByID(id)
	if obj == nil || obj.IsDisposed() {
		in.log.Debug("dispatch to unknown object", "id", id, "event", event)
		return false
	}
	return in.dispatch(obj, event)
}

func (in *Interpreter) dispatch(obj *Object, event EventKind) bool {
	in.emit(InteractionEvent{Event: event, ObjectID: obj.ID, TargetID: obj.ID, Time: in.timeline.Now()})
	matched := false
	for _, b := range obj.Events {
		if b.Kind != event {
			continue
		}
		matched = true
		in.schedule(obj, event, b.Actions)
	}
	return matched
}

func (in *Interpreter) schedule(trigger *Object, event EventKind, actions []ActionDescriptor) {
	groups := make(map[int][]ActionDescriptor)
	var ungrouped []ActionDescriptor
	for _, a := range actions {
		if g := a.Values.GroupKey(); g > 0 {
			groups[g] = append(groups[g], a)
		} else {
			ungrouped = append(ungrouped, a)
		}
	}

	delay := 0.0
	for _, key := range slices.Sorted(maps.Keys(groups)) {
		span := 0.0
		for _, a := range groups[key] {
			in.scheduleAction(delay, trigger, event, a)
			span = max(span, a.Values.Span())
		}
		delay += span
	}
	for _, a := range ungrouped {
		in.scheduleAction(delay, trigger, event, a)
	}
}

func (in *Interpreter) scheduleAction(delay float64, trigger *Object, event EventKind, a ActionDescriptor) {
	in.timeline.After(delay, func() {
		in.execute(trigger, event, a)
	})
}

// execute resolves the action's target and runs its executor. The target
// is looked up when the action fires, not when it was scheduled.
func (in *Interpreter) execute(trigger *Object, event EventKind, a ActionDescriptor) {
	log := in.log.With("trigger", trigger.ID, "action", a.Kind)
	if trigger.IsDisposed() {
		log.Debug("trigger disposed before action fired")
		return
	}
	fn, ok := in.executors[a.Kind]
	if !ok {
		log.Warn("unrecognized action kind")
		return
	}
	target := trigger
	if !a.Values.ObjID.IsSelf() {
		target = in.registry.FindByID(a.Values.ObjID)
	}
	if target == nil || target.IsDisposed() {
		log.Debug("action target not found", "target", a.Values.ObjID)
		return
	}

	ctx := &ActionContext{
		Interpreter: in,
		Event:       event,
		Trigger:     trigger,
		Target:      target,
		Action:      a,
	}
	if err := fn(ctx); err != nil {
		log.Warn("action failed", "target", target.ID, "error", err)
		return
	}
	in.emit(InteractionEvent{
		Event:    event,
		Action:   a.Kind,
		ObjectID: trigger.ID,
		TargetID: target.ID,
		Time:     in.timeline.Now(),
	})
}

func (in *Interpreter) emit(e InteractionEvent) {
	if in.store != nil {
		in.store.EmitEvent(e)
	}
}
