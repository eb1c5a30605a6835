// Package ecs provides ECS adapters for arscene's interaction events.
//
// [NewDonburiStore] queues engine records on a [Donburi] world.
// [InteractionEventType] sees every dispatch and executed action;
// [ActionEventType] sees executed actions only. [Mirror] keeps one entity
// per scene object and counts its touches and actions.
//
// Usage:
//
//	world := donburi.NewWorld()
//	mirror := ecs.NewMirror(world)
//	engine.SetEntityStore(ecs.NewDonburiStore(world))
//
//	// each frame
//	engine.Update(dt)
//	mirror.Sync(engine.Registry())
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
