package ecs

import (
	"github.com/phanxgames/arscene"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries every record the engine emits: event
// dispatches (Action == 0) and executed actions alike.
var InteractionEventType = events.NewEventType[arscene.InteractionEvent]()

// ActionEvent is an executed action, keyed by the object it ran on.
type ActionEvent struct {
	Kind    arscene.ActionKind
	Trigger arscene.ObjectID // object whose event list scheduled the action
	Target  arscene.ObjectID // object the action ran on
	Cause   arscene.EventKind
	Time    float64
}

// ActionEventType carries executed actions only. Systems that react to
// scene changes subscribe here and skip filtering dispatches out.
var ActionEventType = events.NewEventType[ActionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore returns an EntityStore that queues engine records on
// world. Records land on InteractionEventType; executed actions are also
// queued on ActionEventType. Nothing is delivered until the world's
// events are processed.
func NewDonburiStore(world donburi.World) arscene.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arscene.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
	if event.Action == 0 {
		return
	}
	ActionEventType.Publish(s.world, ActionEvent{
		Kind:    event.Action,
		Trigger: event.ObjectID,
		Target:  event.TargetID,
		Cause:   event.Event,
		Time:    event.Time,
	})
}
