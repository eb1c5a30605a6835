package arscene

import "cogentcore.org/core/math32"

// syntheticSelect is one injected selection gesture. Either ray is used
// for a hit test, or id names the object directly.
type syntheticSelect struct {
	ray   math32.Ray
	id    ObjectID
	byID  bool
	event EventKind
}

// InjectSelect queues a selection along ray. It is consumed on a later
// Update, after due timeline tasks have run, exactly as a real gesture
// passed to Select would be. One injected selection is consumed per frame.
func (e *Engine) InjectSelect(ray math32.Ray, event EventKind) {
	e.injectQueue = append(e.injectQueue, syntheticSelect{ray: ray, event: event})
}

// InjectTouch queues a touch on the object with id, skipping the hit test.
func (e *Engine) InjectTouch(id ObjectID) {
	e.injectQueue = append(e.injectQueue, syntheticSelect{id: id, byID: true, event: EventTouch})
}

// PendingInjections returns the number of queued selections.
func (e *Engine) PendingInjections() int {
	return len(e.injectQueue)
}

// processInjected pops one queued selection and dispatches it. Returns
// true if one was consumed.
func (e *Engine) processInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	sel := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	if sel.byID {
		e.interp.Dispatch(sel.id, sel.event)
		return true
	}
	if id, ok := e.Select(sel.ray, sel.event); ok {
		e.log.Debug("injected selection hit", "id", id)
	}
	return true
}
