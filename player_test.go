package arscene

import "testing"

func TestPlayerLoop(t *testing.T) {
	clip := &fakeClip{dur: 2}
	p := NewAnimationPlayer([]AnimationClip{clip})
	p.Loop = true
	p.Play(0.5)
	assertNear(t, "start sample", clip.last(), 0.5)

	p.Update(1)
	assertNear(t, "time", clip.last(), 1.5)
	p.Update(1)
	assertNear(t, "wrapped time", clip.last(), 0.5)
	if !p.Actions()[0].Playing() {
		t.Error("looping clip stopped")
	}
}

func TestPlayerOnceClamps(t *testing.T) {
	clip := &fakeClip{dur: 1}
	p := NewAnimationPlayer([]AnimationClip{clip})
	p.Play(0)
	p.Update(3)
	assertNear(t, "time", clip.last(), 1)
	if p.Actions()[0].Playing() {
		t.Error("non-looping clip still playing after its end")
	}
	n := len(clip.samples)
	p.Update(1)
	if len(clip.samples) != n {
		t.Error("stopped clip sampled again")
	}
}

func TestPlayerTimeScale(t *testing.T) {
	clip := &fakeClip{dur: 10}
	p := NewAnimationPlayer([]AnimationClip{clip})
	p.Play(0)
	p.SetTimeScale(2)
	p.Update(1)
	assertNear(t, "time", clip.last(), 2)
	p.SetTimeScale(0)
	p.Update(1)
	assertNear(t, "frozen time", clip.last(), 2)
}

func TestPlayerPauseAndStop(t *testing.T) {
	a := &fakeClip{dur: 10}
	b := &fakeClip{dur: 10}
	p := NewAnimationPlayer([]AnimationClip{a, b})
	if len(p.Clips()) != 2 {
		t.Fatalf("Clips = %d, want 2", len(p.Clips()))
	}
	p.Play(1)
	p.PauseAll()
	p.Update(1)
	assertNear(t, "paused time", a.last(), 1)
	if !p.Actions()[1].Paused() {
		t.Error("Paused = false after PauseAll")
	}

	p.StopAll()
	if p.Actions()[0].Playing() || p.Actions()[0].Time != 0 {
		t.Error("StopAll did not rewind")
	}
}

func TestPlayerNotPlayingUntilPlay(t *testing.T) {
	clip := &fakeClip{dur: 1}
	p := NewAnimationPlayer([]AnimationClip{clip})
	p.Update(0.5)
	if len(clip.samples) != 0 {
		t.Error("clip sampled before Play")
	}
}
