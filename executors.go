package arscene

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

// Executor performs one action on a resolved target.
type Executor func(ctx *ActionContext) error

// ActionContext is what an Executor receives when its action fires.
type ActionContext struct {
	Interpreter *Interpreter
	Event       EventKind
	Trigger     *Object
	Target      *Object
	Action      ActionDescriptor
}

// Values is shorthand for ctx.Action.Values.
func (c *ActionContext) Values() ActionValues {
	return c.Action.Values
}

// Duration returns the action's time in seconds.
func (c *ActionContext) Duration() float32 {
	return float32(c.Action.Values.Time)
}

// AddTween starts t on the interpreter's tween engine.
func (c *ActionContext) AddTween(t *Tween) {
	c.Interpreter.tweens.Add(t)
}

// After schedules fn on the interpreter's timeline.
func (c *ActionContext) After(delay float64, fn func()) {
	c.Interpreter.timeline.After(delay, fn)
}

var errNoFPS = errors.New("fps must be positive")

func registerBuiltins(in *Interpreter) {
	in.Register(ActionTranslateBy, translateBy)
	in.Register(ActionRotateBy, rotateBy)
	in.Register(ActionScaleBy, scaleBy)
	in.Register(ActionFadeTo, fadeTo)
	in.Register(ActionShow, show)
	in.Register(ActionEnable, show)
	in.Register(ActionHide, hide)
	in.Register(ActionDisable, hide)
	in.Register(ActionToggleMedia, toggleMedia)
	in.Register(ActionSetAnimationSpeed, setAnimationSpeed)
	in.Register(ActionPlayAnimationRange, playAnimationRange)
	in.Register(ActionOpenContent, openContent)
}

// --- Transform ---

func translateBy(ctx *ActionContext) error {
	v := ctx.Values()
	o := ctx.Target
	to := o.Position.Add(Vec3(float32(v.X), float32(v.Y), float32(v.Z)))
	ctx.AddTween(TweenPosition(o, to, ctx.Duration()))
	return nil
}

func rotateBy(ctx *ActionContext) error {
	v := ctx.Values()
	o := ctx.Target
	delta := math32.NewQuatEuler(Vec3(float32(v.X), float32(v.Y), float32(v.Z)).MulScalar(math32.DegToRadFactor))
	to := o.Rotation
	to.SetMul(delta)
	ctx.AddTween(TweenRotation(o, to, ctx.Duration()))
	return nil
}

// scaleBy multiplies the current scale; an absent factor leaves it as is.
func scaleBy(ctx *ActionContext) error {
	v := ctx.Values()
	o := ctx.Target
	factor := float32(1)
	if v.Factor != nil {
		factor = float32(*v.Factor)
	}
	ctx.AddTween(TweenScale(o, o.Scale.MulScalar(factor), ctx.Duration()))
	return nil
}

// fadeTo tweens every opacity-capable part to the action's transparency,
// which is 0 when absent.
func fadeTo(ctx *ActionContext) error {
	v := ctx.Values()
	to := 0.0
	if v.Transparency != nil {
		to = float64(*v.Transparency)
	}
	for _, p := range ctx.Target.OpacityParts() {
		ctx.AddTween(TweenOpacity(ctx.Target, p, to, ctx.Duration()))
	}
	return nil
}

// --- Visibility ---

func show(ctx *ActionContext) error {
	ctx.Target.Show()
	return nil
}

func hide(ctx *ActionContext) error {
	ctx.Target.Hide()
	return nil
}

// --- Media and animation ---

func toggleMedia(ctx *ActionContext) error {
	m := ctx.Target.MediaSurface()
	if m == nil {
		return nil
	}
	if m.Paused() {
		m.Play()
	} else {
		m.Pause()
	}
	return nil
}

func setAnimationSpeed(ctx *ActionContext) error {
	if p := ctx.Target.Player; p != nil {
		p.SetTimeScale(float64(ctx.Values().Speed))
	}
	return nil
}

// playAnimationRange restarts every clip at start_frame and pauses them
// on end_frame once its time has elapsed.
func playAnimationRange(ctx *ActionContext) error {
	o := ctx.Target
	p := o.Player
	if p == nil {
		return nil
	}
	v := ctx.Values()
	fps := float64(v.FPS)
	if fps <= 0 {
		return fmt.Errorf("play animation range: %w", errNoFPS)
	}
	start := float64(v.StartFrame) / fps
	span := float64(v.EndFrame-v.StartFrame) / fps

	p.StopAll()
	p.Play(start)
	ctx.After(span, func() {
		if o.IsDisposed() || o.Player != p {
			return
		}
		p.PauseAt(start + span)
	})
	return nil
}

// --- Content ---

func openContent(ctx *ActionContext) error {
	url := ctx.Values().URL
	if url == "" {
		return errors.New("open content: missing url")
	}
	in := ctx.Interpreter
	if err := requestContent(in.overlay, in.opener, url); err != nil {
		return fmt.Errorf("open content %s: %w", url, err)
	}
	return nil
}
