package arscene

import (
	"context"

	"cogentcore.org/core/math32"
)

// Factory turns a descriptor's kind and url into a loaded asset. Load is
// called on its own goroutine, once per loadable descriptor, and may block.
type Factory interface {
	Load(ctx context.Context, kind Kind, url string) (Asset, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, kind Kind, url string) (Asset, error)

// Load calls f.
func (f FactoryFunc) Load(ctx context.Context, kind Kind, url string) (Asset, error) {
	return f(ctx, kind, url)
}

// Asset is the result of a successful Factory load.
type Asset struct {
	Renderable Renderable
	Clips      []AnimationClip
}

// Renderable is the opaque visual handle owned by one Object. The engine
// only inspects it through these capability queries.
type Renderable interface {
	// Root returns the top of the part hierarchy, in object-local space.
	Root() *Part
	// MediaSurface returns the playable surface, or nil if there is none.
	MediaSurface() MediaSurface
}

// MediaSurface is a playable video or audio surface.
type MediaSurface interface {
	Play()
	Pause()
	Paused() bool
	SetLoop(loop bool)
}

// AnimationClip is an opaque animation handle. Sample poses the owning
// renderable at time t seconds into the clip.
type AnimationClip interface {
	Duration() float64
	Sample(t float64)
}

// --- Parts ---

// Material is the shading state of a primitive part that the engine may
// read or modify.
type Material struct {
	Transparent bool
	Opacity     float64
	DoubleSided bool
}

// Part is one node of a renderable's hierarchy. A part with non-empty
// Bounds is a primitive that can be hit by a ray; parts with empty bounds
// only group children.
type Part struct {
	Name     string
	Visible  bool
	Bounds   math32.Box3 // object-local
	Material *Material   // nil for parts that cannot change opacity
	Data     any         // renderer-specific payload

	Parent   *Part
	children []*Part
}

// NewPart creates a visible grouping part with empty bounds.
func NewPart(name string) *Part {
	return &Part{Name: name, Visible: true, Bounds: math32.B3Empty()}
}

// NewPrimitive creates a visible primitive part with the given bounds and
// an opaque material.
func NewPrimitive(name string, bounds math32.Box3) *Part {
	return &Part{
		Name:     name,
		Visible:  true,
		Bounds:   bounds,
		Material: &Material{Opacity: 1},
	}
}

// AddChild appends child to this part. If child already has a parent, it is
// removed from that parent first.
func (p *Part) AddChild(child *Part) {
	if child == nil {
		panic("arscene: cannot add nil part")
	}
	if child.Parent != nil {
		child.Parent.removeChild(child)
	}
	child.Parent = p
	p.children = append(p.children, child)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (p *Part) Children() []*Part {
	return p.children
}

// IsPrimitive reports whether the part has geometry.
func (p *Part) IsPrimitive() bool {
	return !p.Bounds.IsEmpty()
}

// SupportsOpacity reports whether the part's opacity can be changed.
func (p *Part) SupportsOpacity() bool {
	return p.Material != nil
}

// Walk calls fn for p and every descendant, depth first.
func (p *Part) Walk(fn func(*Part)) {
	fn(p)
	for _, c := range p.children {
		c.Walk(fn)
	}
}

func (p *Part) removeChild(child *Part) {
	for i, c := range p.children {
		if c == child {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = nil
			p.children = p.children[:len(p.children)-1]
			return
		}
	}
}

// --- Default handle ---

type handle struct {
	root  *Part
	media MediaSurface
}

// NewRenderable wraps a part hierarchy and optional media surface as a
// Renderable. Factories that need nothing more can return this directly.
func NewRenderable(root *Part, media MediaSurface) Renderable {
	return &handle{root: root, media: media}
}

func (h *handle) Root() *Part                { return h.root }
func (h *handle) MediaSurface() MediaSurface { return h.media }
