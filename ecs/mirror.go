package ecs

import (
	"github.com/phanxgames/arscene"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// ObjectRef links an entity to its scene object.
type ObjectRef struct {
	Object *arscene.Object
}

// Interactions counts what happened to an object.
type Interactions struct {
	Touches  int     // EventTouch dispatches
	Actions  int     // executed actions targeting the object
	LastTime float64 // timeline time of the latest event
}

var (
	ObjectComponent       = donburi.NewComponentType[ObjectRef]()
	InteractionsComponent = donburi.NewComponentType[Interactions]()
)

var objectQuery = donburi.NewQuery(filter.Contains(ObjectComponent))

// Mirror keeps one entity per registry object, so ECS systems can query
// scene objects and their interaction counters.
type Mirror struct {
	world    donburi.World
	entities map[*arscene.Object]donburi.Entity
	byID     map[arscene.ObjectID]donburi.Entity
}

// NewMirror creates a mirror over world and subscribes it to
// InteractionEventType.
func NewMirror(world donburi.World) *Mirror {
	m := &Mirror{
		world:    world,
		entities: make(map[*arscene.Object]donburi.Entity),
		byID:     make(map[arscene.ObjectID]donburi.Entity),
	}
	InteractionEventType.Subscribe(world, m.onEvent)
	return m
}

// Sync creates entities for objects new to reg and removes entities whose
// object was disposed.
func (m *Mirror) Sync(reg *arscene.Registry) {
	for obj, ent := range m.entities {
		if obj.IsDisposed() {
			m.world.Remove(ent)
			delete(m.entities, obj)
			if m.byID[obj.ID] == ent {
				delete(m.byID, obj.ID)
			}
		}
	}
	for _, obj := range reg.All() {
		if _, ok := m.entities[obj]; ok {
			continue
		}
		ent := m.world.Create(ObjectComponent, InteractionsComponent)
		ObjectComponent.SetValue(m.world.Entry(ent), ObjectRef{Object: obj})
		m.entities[obj] = ent
		if _, ok := m.byID[obj.ID]; !ok {
			m.byID[obj.ID] = ent
		}
	}
}

// Entity returns the entity mirroring the first object with id.
func (m *Mirror) Entity(id arscene.ObjectID) (donburi.Entity, bool) {
	ent, ok := m.byID[id]
	return ent, ok
}

// Interactions returns the counters of the object with id.
func (m *Mirror) Interactions(id arscene.ObjectID) Interactions {
	ent, ok := m.byID[id]
	if !ok || !m.world.Valid(ent) {
		return Interactions{}
	}
	return *InteractionsComponent.Get(m.world.Entry(ent))
}

// Each calls fn for every mirrored object.
func (m *Mirror) Each(fn func(obj *arscene.Object, in Interactions)) {
	objectQuery.Each(m.world, func(entry *donburi.Entry) {
		fn(ObjectComponent.Get(entry).Object, *InteractionsComponent.Get(entry))
	})
}

// Len returns the number of mirrored objects.
func (m *Mirror) Len() int {
	return len(m.entities)
}

func (m *Mirror) onEvent(w donburi.World, e arscene.InteractionEvent) {
	ent, ok := m.byID[e.TargetID]
	if !ok || !w.Valid(ent) {
		return
	}
	c := InteractionsComponent.Get(w.Entry(ent))
	switch {
	case e.Action != 0:
		c.Actions++
	case e.Event == arscene.EventTouch:
		c.Touches++
	}
	c.LastTime = e.Time
}
