// Package arscene interprets declarative AR scene documents: it spawns
// objects from JSON (or YAML) descriptors, resolves their per-frame state,
// and runs the actions bound to their events.
//
// Rendering, asset decoding and content display stay outside the package,
// behind the [Stage], [Factory], [Progress], [ContentOverlay] and [Opener]
// interfaces. The ebitenview package provides a top-down preview that
// implements them.
//
// # Quick start
//
//	engine := arscene.NewEngine(arscene.DefaultConfig(), factory,
//		arscene.WithStage(stage),
//	)
//	if _, err := engine.LoadScene(ctx, data); err != nil {
//		return err
//	}
//
//	// every frame
//	engine.SetViewer(cameraPosition)
//	engine.Update(dt)
//
//	// on a tap
//	engine.Select(arscene.RayFrom(origin, dir), arscene.EventTouch)
//
// # Frames
//
// [Engine.Update] is the only place state changes. It applies finished
// asset loads, runs due [Timeline] tasks, processes one injected
// selection, then resolves every object in registry order (face-camera,
// animation, distance culling) and advances the [Tweens] once. Nothing in
// the package blocks the frame or starts timers of its own; all delays
// are virtual time on the timeline.
//
// # Actions
//
// An object's events list pairs an [EventKind] with an action list. On
// dispatch, actions are grouped by their group number. Groups fire in
// ascending order, each one waiting for the slowest time+delayTime of the
// group before it. Ungrouped actions fire last. Targets are resolved when
// an action fires: obj_id names another object, absent or -1 means the
// triggering object.
//
// Executors are looked up by [ActionKind]; [Interpreter.Register] adds or
// replaces one. Unknown kinds are logged and skipped.
//
// # Visibility
//
// Each object has a desired visibility, set by the hidden field and by
// show/hide actions, and an effective visibility resolved every frame from
// the desired one and the viewer distance. Hide clears both immediately;
// show takes effect on the next frame.
//
// # Testing
//
// [Engine.InjectSelect], [LoadTestScript] and [Engine.QueueSnapshot] replay
// selections and dump JSON state without a window, so scenes can be tested
// frame by frame.
package arscene
