package arscene

import (
	"cogentcore.org/core/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxChannels is the number of numeric channels one Tween can drive.
const maxChannels = 4

// finishSlack is the fraction of the duration under which a tween counts
// as finished. Frame deltas summed in float32 land just short of the end.
const finishSlack = 1e-5

// Tween linearly interpolates up to four numeric channels over a fixed
// duration. OnUpdate receives the interpolated values every frame;
// OnComplete runs exactly once, after the final OnUpdate. If the target
// object is disposed the tween stops without calling either.
type Tween struct {
	channels [maxChannels]*gween.Tween
	count    int
	values   [maxChannels]float32
	end      [maxChannels]float32
	instant  bool
	duration float32
	elapsed  float64
	target   *Object

	OnUpdate   func(values [maxChannels]float32)
	OnComplete func()
	Done       bool
}

// NewTween creates a tween from from[i] to to[i] over duration seconds.
// A duration of zero or less applies the end values on the first Update.
// Panics if from and to differ in length or exceed four channels.
func NewTween(from, to []float32, duration float32, onUpdate func([maxChannels]float32)) *Tween {
	if len(from) != len(to) {
		panic("arscene: tween channel count mismatch")
	}
	if len(from) > maxChannels {
		panic("arscene: too many tween channels")
	}
	t := &Tween{count: len(from), OnUpdate: onUpdate, instant: duration <= 0, duration: duration}
	for i := range from {
		t.values[i] = from[i]
		t.end[i] = to[i]
		if !t.instant {
			t.channels[i] = gween.New(from[i], to[i], duration, ease.Linear)
		}
	}
	return t
}

// Target binds the tween to obj so that it stops once obj is disposed.
func (t *Tween) Target(obj *Object) *Tween {
	t.target = obj
	return t
}

// Values returns the most recently applied channel values.
func (t *Tween) Values() [maxChannels]float32 {
	return t.values
}

// Update advances the tween by dt seconds, applies the values, and marks
// the tween Done once the duration has elapsed.
func (t *Tween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.target != nil && t.target.IsDisposed() {
		t.Done = true
		return
	}

	t.elapsed += float64(dt)
	finished := true
	if t.instant || t.elapsed >= float64(t.duration)*(1-finishSlack) {
		t.values = t.end
	} else {
		for i := 0; i < t.count; i++ {
			val, done := t.channels[i].Update(dt)
			t.values[i] = val
			if !done {
				finished = false
			}
		}
	}
	if t.OnUpdate != nil {
		t.OnUpdate(t.values)
	}
	if finished {
		t.Done = true
		if t.OnComplete != nil {
			t.OnComplete()
		}
	}
}

// --- Tween engine ---

// Tweens is the flat list of active tweens, advanced once per frame.
type Tweens struct {
	active []*Tween
}

// Add appends t to the active list. It is first advanced on the next
// Advance call.
func (e *Tweens) Add(t *Tween) {
	e.active = append(e.active, t)
}

// Len returns the number of active tweens.
func (e *Tweens) Len() int {
	return len(e.active)
}

// Advance updates every active tween by dt seconds, traversing from the end
// so completed tweens can be removed in place. Tweens added by callbacks
// during Advance start on the next call.
func (e *Tweens) Advance(dt float32) {
	for i := len(e.active) - 1; i >= 0; i-- {
		t := e.active[i]
		t.Update(dt)
		if t.Done {
			copy(e.active[i:], e.active[i+1:])
			e.active[len(e.active)-1] = nil
			e.active = e.active[:len(e.active)-1]
		}
	}
}

// --- Object tweens ---

// TweenPosition creates a tween moving obj.Position to `to`.
func TweenPosition(obj *Object, to math32.Vector3, duration float32) *Tween {
	from := obj.Position
	return NewTween(
		[]float32{from.X, from.Y, from.Z},
		[]float32{to.X, to.Y, to.Z},
		duration,
		func(v [maxChannels]float32) {
			obj.Position = math32.Vec3(v[0], v[1], v[2])
		},
	).Target(obj)
}

// TweenScale creates a tween animating obj.Scale to `to`.
func TweenScale(obj *Object, to math32.Vector3, duration float32) *Tween {
	from := obj.Scale
	return NewTween(
		[]float32{from.X, from.Y, from.Z},
		[]float32{to.X, to.Y, to.Z},
		duration,
		func(v [maxChannels]float32) {
			obj.Scale = math32.Vec3(v[0], v[1], v[2])
		},
	).Target(obj)
}

// TweenRotation creates a tween rotating obj from its current orientation
// to `to` by spherical interpolation. The single channel is the slerp
// fraction.
func TweenRotation(obj *Object, to math32.Quat, duration float32) *Tween {
	from := obj.Rotation
	return NewTween([]float32{0}, []float32{1}, duration, func(v [maxChannels]float32) {
		q := from
		q.Slerp(to, v[0])
		obj.Rotation = q
	}).Target(obj)
}

// TweenOpacity creates a tween fading part's material opacity to `to`.
// Panics if the part does not support opacity.
func TweenOpacity(obj *Object, part *Part, to float64, duration float32) *Tween {
	if !part.SupportsOpacity() {
		panic("arscene: part does not support opacity")
	}
	from := float32(part.Material.Opacity)
	return NewTween([]float32{from}, []float32{float32(to)}, duration, func(v [maxChannels]float32) {
		setPartOpacity(part, float64(v[0]))
	}).Target(obj)
}
