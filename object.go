package arscene

import (
	"cogentcore.org/core/math32"
)

// Object is the runtime record of one spawned descriptor. A single flat
// struct is used for every kind; kind-specific behavior goes through the
// Renderable's capability queries.
type Object struct {
	// Identity
	ID   ObjectID
	Name string
	Kind Kind

	// Transform
	Position math32.Vector3
	Rotation math32.Quat
	Scale    math32.Vector3

	// Visual handle and animation
	Renderable Renderable
	Player     *AnimationPlayer // nil when the asset has no clips

	// Behavior
	FaceCamera      bool
	VisibleDistance float32
	Events          []EventBinding

	// Metadata
	UserData any

	desiredVisible   bool
	effectiveVisible bool
	disposed         bool
}

// NewObject creates a visible object at the origin with unit scale.
// Effective visibility starts false and is resolved on the next frame.
func NewObject(id ObjectID, r Renderable) *Object {
	return &Object{
		ID:              id,
		Rotation:        math32.NewQuat(0, 0, 0, 1),
		Scale:           math32.Vec3(1, 1, 1),
		Renderable:      r,
		VisibleDistance: Infinity,
		desiredVisible:  true,
	}
}

// newObjectFromDescriptor applies the descriptor's transform, scale,
// opacity, visibility, animation and event rules to a freshly loaded asset.
func newObjectFromDescriptor(d *Descriptor, asset Asset, defaultDistance float32) *Object {
	o := NewObject(d.ID, asset.Renderable)
	o.Name = d.Name
	o.Kind = d.Kind()

	p := d.Transform.Position
	o.Position = math32.Vec3(float32(p.X), float32(p.Y), float32(p.Z))
	r := d.Transform.Rotation
	o.Rotation = math32.NewQuatEuler(math32.Vec3(float32(r.X), float32(r.Y), float32(r.Z)).MulScalar(math32.DegToRadFactor))
	s := d.Scale
	o.Scale = math32.Vec3(float32(s.X), float32(s.Y), float32(s.Z))

	f := &d.Fields
	o.FaceCamera = bool(f.FaceCamera)
	o.desiredVisible = !bool(f.Hidden)
	switch {
	case bool(f.DistanceExempt), f.VisibleDistance != nil && *f.VisibleDistance <= 0:
		o.VisibleDistance = Infinity
	case f.VisibleDistance != nil:
		o.VisibleDistance = float32(*f.VisibleDistance)
	default:
		o.VisibleDistance = defaultDistance
	}

	if f.DoubleSided {
		o.walkMaterials(func(m *Material) { m.DoubleSided = true })
	}
	if d.InitialOpacity != nil {
		o.SetOpacity(float64(*d.InitialOpacity))
	}

	if media := o.MediaSurface(); media != nil {
		media.SetLoop(bool(f.Loop))
		if f.Play {
			media.Play()
		} else {
			media.Pause()
		}
	}

	if len(asset.Clips) > 0 {
		o.Player = NewAnimationPlayer(asset.Clips)
		o.Player.Loop = bool(f.Loop)
		if f.AnimationSpeed != nil {
			o.Player.SetTimeScale(float64(*f.AnimationSpeed))
		}
		if f.Play {
			start := 0.0
			if f.FPS > 0 {
				start = float64(f.StartFrame) / float64(f.FPS)
			}
			o.Player.Play(start)
		}
	}

	o.Events = append([]EventBinding(nil), d.Events...)
	return o
}

// --- Visibility ---

// DesiredVisible reports the declarative visibility intent.
func (o *Object) DesiredVisible() bool {
	return o.desiredVisible
}

// EffectiveVisible reports the per-frame resolved visibility.
func (o *Object) EffectiveVisible() bool {
	return o.effectiveVisible
}

// Show sets the desired visibility. Effective visibility follows on the
// next frame, after the distance rule is evaluated.
func (o *Object) Show() {
	o.desiredVisible = true
}

// Hide clears both desired and effective visibility immediately.
func (o *Object) Hide() {
	o.desiredVisible = false
	o.effectiveVisible = false
}

// --- Capabilities ---

// Root returns the renderable's part hierarchy, or nil.
func (o *Object) Root() *Part {
	if o.Renderable == nil {
		return nil
	}
	return o.Renderable.Root()
}

// MediaSurface returns the renderable's playable surface, or nil.
func (o *Object) MediaSurface() MediaSurface {
	if o.Renderable == nil {
		return nil
	}
	return o.Renderable.MediaSurface()
}

// OpacityParts returns every part whose opacity can change, depth first.
func (o *Object) OpacityParts() []*Part {
	root := o.Root()
	if root == nil {
		return nil
	}
	var parts []*Part
	root.Walk(func(p *Part) {
		if p.SupportsOpacity() {
			parts = append(parts, p)
		}
	})
	return parts
}

// SetOpacity sets the opacity of every opacity-capable part. Values below 1
// mark the material transparent.
func (o *Object) SetOpacity(a float64) {
	for _, p := range o.OpacityParts() {
		setPartOpacity(p, a)
	}
}

func setPartOpacity(p *Part, a float64) {
	p.Material.Opacity = a
	if a < 1 {
		p.Material.Transparent = true
	}
}

func (o *Object) walkMaterials(fn func(*Material)) {
	for _, p := range o.OpacityParts() {
		fn(p.Material)
	}
}

// --- Disposal ---

// IsDisposed reports whether the object was dropped by a registry clear.
func (o *Object) IsDisposed() bool {
	return o.disposed
}

func (o *Object) dispose() {
	o.disposed = true
	o.effectiveVisible = false
	o.Player = nil
	o.Events = nil
	o.UserData = nil
}
