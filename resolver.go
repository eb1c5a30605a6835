package arscene

import "cogentcore.org/core/math32"

// FrameContext is everything the per-frame resolver reads. It is passed
// explicitly so several engines can run side by side.
type FrameContext struct {
	Viewer   math32.Vector3
	Registry *Registry
	Tweens   *Tweens
}

// Resolve runs one frame of per-object state resolution: face-camera
// orientation, animation advance and distance-based visibility, for every
// object in registry order. The tween engine is then advanced once.
func Resolve(fc FrameContext, dt float64) {
	if fc.Registry != nil {
		for _, o := range fc.Registry.All() {
			resolveObject(o, fc.Viewer, dt)
		}
	}
	if fc.Tweens != nil {
		fc.Tweens.Advance(float32(dt))
	}
}

func resolveObject(o *Object, viewer math32.Vector3, dt float64) {
	if o.FaceCamera {
		o.FaceToward(viewer)
	}
	if o.Player != nil {
		o.Player.Update(dt)
	}
	if !o.desiredVisible {
		o.effectiveVisible = false
		return
	}
	o.effectiveVisible = distance(o.Position, viewer) <= o.VisibleDistance
}
