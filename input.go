package arscene

import (
	"sort"

	"cogentcore.org/core/math32"
)

// Hit is one ray intersection with a primitive part.
type Hit struct {
	Object   *Object
	Part     *Part
	Point    math32.Vector3
	Distance float32
}

// --- Hit testing ---

// Intersections returns every ray hit against primitive parts of every
// object in the registry, nearest first. The ray is moved into each
// object's local space and tested against the part bounds there, so
// rotated parts are hit only where their geometry is. Visibility and
// opacity are not considered here.
func Intersections(reg *Registry, ray math32.Ray) []Hit {
	var hits []Hit
	for _, o := range reg.All() {
		root := o.Root()
		if root == nil {
			continue
		}
		local, ok := o.localRay(ray)
		if !ok {
			continue
		}
		root.Walk(func(p *Part) {
			if !p.IsPrimitive() {
				return
			}
			lp, ok := local.IntersectBox(p.Bounds)
			if !ok {
				return
			}
			pt := o.LocalToWorld(lp)
			hits = append(hits, Hit{Object: o, Part: p, Point: pt, Distance: distance(ray.Origin, pt)})
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// HitTest returns the nearest object hit by the ray that is visible and
// opaque enough to interact with, or nil. A hit is skipped when its part's
// material is transparent with opacity below OpacityHitThreshold, or when
// the part, any ancestor part, or the owning object is not visible.
func HitTest(reg *Registry, ray math32.Ray) *Object {
	for _, h := range Intersections(reg, ray) {
		if acceptHit(h) {
			return h.Object
		}
	}
	return nil
}

func acceptHit(h Hit) bool {
	if m := h.Part.Material; m != nil && m.Transparent && m.Opacity < OpacityHitThreshold {
		return false
	}
	if !h.Object.effectiveVisible {
		return false
	}
	for p := h.Part; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// RayFrom builds a ray from an origin and direction.
func RayFrom(origin, dir math32.Vector3) math32.Ray {
	return math32.Ray{Origin: origin, Dir: dir}
}
