package ebitenview

import (
	"fmt"
	"image/color"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/arscene"
)

// rayHeight is the altitude selection rays are cast down from.
const rayHeight = 100

var (
	clearColor  = color.RGBA{0x23, 0x1e, 0x2d, 0xff}
	viewerColor = color.RGBA{0xff, 0xd8, 0x4a, 0xff}
)

// kindColors tints placeholder geometry by object kind.
var kindColors = map[arscene.Kind]color.RGBA{
	arscene.KindImagePlane: {0x4d, 0xb3, 0xe6, 0xff},
	arscene.KindModel:      {0x4d, 0xe6, 0x80, 0xff},
	arscene.KindVideoPlane: {0xe6, 0x4d, 0x4d, 0xff},
}

// whitePixel is a 1x1 white image scaled and tinted to draw solid rects.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// View is a top-down preview of an engine. It implements arscene.Stage and
// ebiten.Game: clicks and taps are cast as downward rays and dispatched as
// touch events, and WASD or the arrow keys move the viewer.
type View struct {
	engine *arscene.Engine
	camera *Camera
	cfg    arscene.ViewerConfig

	attached map[*arscene.Object]bool
	order    []*arscene.Object

	prevLeft  bool
	touchBuf  []ebiten.TouchID
	prevTouch map[ebiten.TouchID]bool

	// LastHit is the id of the most recently selected object.
	LastHit arscene.ObjectID

	// OnUpdate, if set, runs at the start of every tick on the game loop
	// goroutine, before input is processed.
	OnUpdate func()
}

// NewView creates a view over engine and installs it as the engine's stage.
func NewView(engine *arscene.Engine, cfg arscene.ViewerConfig) *View {
	v := &View{
		engine:    engine,
		camera:    NewCamera(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}, cfg.PixelsPerM),
		cfg:       cfg,
		attached:  make(map[*arscene.Object]bool),
		prevTouch: make(map[ebiten.TouchID]bool),
	}
	v.camera.Follow(0.1)
	engine.SetStage(v)
	return v
}

// Camera returns the view's camera.
func (v *View) Camera() *Camera {
	return v.camera
}

// --- Stage ---

// Attach implements arscene.Stage.
func (v *View) Attach(obj *arscene.Object) {
	if v.attached[obj] {
		return
	}
	v.attached[obj] = true
	v.order = append(v.order, obj)
}

// Detach implements arscene.Stage.
func (v *View) Detach(obj *arscene.Object) {
	if !v.attached[obj] {
		return
	}
	delete(v.attached, obj)
	for i, o := range v.order {
		if o == obj {
			copy(v.order[i:], v.order[i+1:])
			v.order[len(v.order)-1] = nil
			v.order = v.order[:len(v.order)-1]
			return
		}
	}
}

// Attached returns the number of objects on stage.
func (v *View) Attached() int {
	return len(v.order)
}

// --- ebiten.Game ---

// Update processes input and advances the engine by one tick.
func (v *View) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if v.OnUpdate != nil {
		v.OnUpdate()
	}
	v.moveViewer(dt)
	v.processPointer()
	v.engine.Update(dt)

	for _, o := range v.order {
		if m, ok := o.MediaSurface().(*Media); ok {
			m.advance(dt)
		}
	}

	p := v.engine.Viewer()
	v.camera.Track(float64(p.X), float64(p.Z))
	v.camera.Update(float32(dt))
	return nil
}

func (v *View) moveViewer(dt float64) {
	var dx, dz float32
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dz--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dz++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyHome) {
		v.camera.ScrollTo(0, 0, 0.6, ease.OutQuad)
	}
	if dx == 0 && dz == 0 {
		return
	}
	step := float32(v.cfg.MoveSpeed * dt)
	p := v.engine.Viewer()
	v.engine.SetViewer(math32.Vec3(p.X+dx*step, p.Y, p.Z+dz*step))
}

// processPointer turns a left-button press or a new touch into a selection.
func (v *View) processPointer() {
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !v.prevLeft {
		mx, my := ebiten.CursorPosition()
		v.selectAt(float64(mx), float64(my))
	}
	v.prevLeft = left

	v.touchBuf = ebiten.AppendTouchIDs(v.touchBuf[:0])
	seen := make(map[ebiten.TouchID]bool, len(v.touchBuf))
	for _, id := range v.touchBuf {
		seen[id] = true
		if !v.prevTouch[id] {
			tx, ty := ebiten.TouchPosition(id)
			v.selectAt(float64(tx), float64(ty))
		}
	}
	v.prevTouch = seen
}

func (v *View) selectAt(sx, sy float64) {
	if !v.camera.Viewport.Contains(sx, sy) {
		return
	}
	ray := v.RayAt(sx, sy)
	if id, ok := v.engine.Select(ray, arscene.EventTouch); ok {
		v.LastHit = id
	}
}

// RayAt returns the downward selection ray under a screen point.
func (v *View) RayAt(sx, sy float64) math32.Ray {
	wx, wz := v.camera.ScreenToWorld(sx, sy)
	origin := math32.Vec3(float32(wx), rayHeight, float32(wz))
	return arscene.RayFrom(origin, math32.Vec3(0, -1, 0))
}

// Draw renders object footprints, the viewer marker and a status line.
func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	for _, o := range v.order {
		if !o.EffectiveVisible() {
			continue
		}
		v.drawObject(screen, o)
	}

	p := v.engine.Viewer()
	sx, sy := v.camera.WorldToScreen(float64(p.X), float64(p.Z))
	v.fillRect(screen, sx-4, sy-4, 8, 8, viewerColor, 1)

	if v.cfg.ShowStats {
		loaded, total := v.engine.Spawner().Progress()
		msg := fmt.Sprintf("loaded %d/%d  objects %d  tweens %d  pending %d\nviewer (%.1f, %.1f)  last hit %q\nTPS %.1f",
			loaded, total, v.engine.Registry().Len(), v.engine.Tweens().Len(),
			v.engine.Timeline().Len(), p.X, p.Z, v.LastHit, ebiten.ActualTPS())
		ebitenutil.DebugPrint(screen, msg)
	}
}

// drawObject fills the X/Z footprint of each visible primitive part.
func (v *View) drawObject(screen *ebiten.Image, o *arscene.Object) {
	root := o.Root()
	if root == nil {
		return
	}
	tint, ok := kindColors[o.Kind]
	if !ok {
		tint = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	}
	root.Walk(func(p *arscene.Part) {
		if !p.IsPrimitive() || !partVisible(p) {
			return
		}
		alpha := 1.0
		if m := p.Material; m != nil {
			alpha = m.Opacity
		}
		b := o.WorldBounds(p.Bounds)
		x0, y0 := v.camera.WorldToScreen(float64(b.Min.X), float64(b.Min.Z))
		x1, y1 := v.camera.WorldToScreen(float64(b.Max.X), float64(b.Max.Z))
		w, h := max(x1-x0, 2), max(y1-y0, 2)
		if img := imageOf(p); img != nil {
			v.drawImage(screen, img, x0, y0, w, h, alpha)
			return
		}
		v.fillRect(screen, x0, y0, w, h, tint, alpha)
	})
}

func partVisible(p *arscene.Part) bool {
	for ; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

func (v *View) fillRect(dst *ebiten.Image, x, y, w, h float64, c color.RGBA, alpha float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(whitePixel, &op)
}

func (v *View) drawImage(dst, img *ebiten.Image, x, y, w, h, alpha float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(img, &op)
}

// Layout implements ebiten.Game.
func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.camera.Viewport = Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs v until it is closed.
func Run(v *View) error {
	cfg := v.cfg
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil {
		return errors.Log(fmt.Errorf("run preview: %w", err))
	}
	return nil
}
