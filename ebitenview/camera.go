package ebitenview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Rect is a screen-space rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// scrollAnim holds active scroll-to tweens for camera X and Z.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenZ *gween.Tween
	doneX  bool
	doneZ  bool
}

// Camera is a top-down view of the world's X/Z plane. World +X is screen
// right and world -Z (forward) is screen up.
type Camera struct {
	// X and Z are the world-space point the camera centers on.
	X, Z float64
	// Zoom is screen pixels per world meter.
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	followLerp  float64
	scrollTween *scrollAnim
}

// NewCamera creates a camera centered on the origin.
func NewCamera(viewport Rect, pixelsPerMeter float64) *Camera {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = 80
	}
	return &Camera{Zoom: pixelsPerMeter, Viewport: viewport}
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, z float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenZ: gween.New(float32(c.Z), float32(z), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Follow sets how quickly Track pulls the camera toward its target.
// A lerp of 1.0 snaps immediately; 0 disables tracking.
func (c *Camera) Follow(lerp float64) {
	c.followLerp = lerp
}

// Track moves the camera toward (x, z) by the follow lerp. It is ignored
// while a scroll animation runs.
func (c *Camera) Track(x, z float64) {
	if c.scrollTween != nil || c.followLerp <= 0 {
		return
	}
	c.X += (x - c.X) * c.followLerp
	c.Z += (z - c.Z) * c.followLerp
}

// Update advances the scroll animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneZ {
		val, done := c.scrollTween.tweenZ.Update(dt)
		c.Z = float64(val)
		c.scrollTween.doneZ = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneZ {
		c.scrollTween = nil
	}
}

// WorldToScreen converts world X/Z coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wz float64) (sx, sy float64) {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return cx + (wx-c.X)*c.Zoom, cy + (wz-c.Z)*c.Zoom
}

// ScreenToWorld converts screen coordinates to world X/Z coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wz float64) {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return c.X + (sx-cx)/c.Zoom, c.Z + (sy-cy)/c.Zoom
}

// VisibleBounds returns the world X/Z rectangle the viewport covers.
func (c *Camera) VisibleBounds() Rect {
	x0, z0 := c.ScreenToWorld(c.Viewport.X, c.Viewport.Y)
	x1, z1 := c.ScreenToWorld(c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)
	return Rect{X: x0, Y: z0, Width: x1 - x0, Height: z1 - z0}
}
