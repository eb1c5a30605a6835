package arscene

import "math"

// ClipAction is the playback state of one clip on an AnimationPlayer.
type ClipAction struct {
	Clip    AnimationClip
	Time    float64
	Loop    bool
	playing bool
	paused  bool
}

// Playing reports whether the action is running and not paused.
func (a *ClipAction) Playing() bool {
	return a.playing && !a.paused
}

// Paused reports whether the action was paused mid-playback.
func (a *ClipAction) Paused() bool {
	return a.playing && a.paused
}

// AnimationPlayer drives the animation clips of one object. Like the rest
// of the engine it is advanced explicitly each frame.
type AnimationPlayer struct {
	TimeScale float64
	Loop      bool
	actions   []*ClipAction
}

// NewAnimationPlayer creates a player bound to the given clips. No clip is
// playing until Play is called.
func NewAnimationPlayer(clips []AnimationClip) *AnimationPlayer {
	p := &AnimationPlayer{TimeScale: 1}
	for _, c := range clips {
		p.actions = append(p.actions, &ClipAction{Clip: c})
	}
	return p
}

// Actions returns one action per bound clip, in binding order.
// The returned slice MUST NOT be mutated by the caller.
func (p *AnimationPlayer) Actions() []*ClipAction {
	return p.actions
}

// Clips returns the bound clips in binding order.
func (p *AnimationPlayer) Clips() []AnimationClip {
	clips := make([]AnimationClip, len(p.actions))
	for i, a := range p.actions {
		clips[i] = a.Clip
	}
	return clips
}

// Play starts every clip at the given time in seconds.
func (p *AnimationPlayer) Play(from float64) {
	for _, a := range p.actions {
		a.Time = from
		a.Loop = p.Loop
		a.playing = true
		a.paused = false
		a.Clip.Sample(a.Time)
	}
}

// PauseAll freezes every playing clip at its current time.
func (p *AnimationPlayer) PauseAll() {
	for _, a := range p.actions {
		if a.playing {
			a.paused = true
		}
	}
}

// PauseAt moves every playing clip to t and pauses it there.
func (p *AnimationPlayer) PauseAt(t float64) {
	for _, a := range p.actions {
		if !a.playing {
			continue
		}
		a.Time = t
		a.paused = true
		a.Clip.Sample(t)
	}
}

// StopAll stops every clip and rewinds it.
func (p *AnimationPlayer) StopAll() {
	for _, a := range p.actions {
		a.playing = false
		a.paused = false
		a.Time = 0
	}
}

// SetTimeScale sets the playback rate. 1 is normal speed.
func (p *AnimationPlayer) SetTimeScale(scale float64) {
	p.TimeScale = scale
}

// Update advances playing clips by dt seconds scaled by TimeScale. Looping
// clips wrap; others clamp at their end and stop.
func (p *AnimationPlayer) Update(dt float64) {
	step := dt * p.TimeScale
	for _, a := range p.actions {
		if !a.Playing() {
			continue
		}
		a.Time += step
		dur := a.Clip.Duration()
		if dur > 0 {
			if a.Loop {
				a.Time = math.Mod(a.Time, dur)
				if a.Time < 0 {
					a.Time += dur
				}
			} else if a.Time >= dur {
				a.Time = dur
				a.playing = false
			} else if a.Time < 0 {
				a.Time = 0
				a.playing = false
			}
		}
		a.Clip.Sample(a.Time)
	}
}
