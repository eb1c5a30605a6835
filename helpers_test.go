package arscene

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"cogentcore.org/core/math32"
)

const epsilon = 1e-4

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want math32.Vector3) {
	t.Helper()
	if got.Sub(want).Length() > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unitBox returns a primitive part spanning -0.5..0.5 on every axis.
func unitBox(name string) *Part {
	return NewPrimitive(name, math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))
}

// newBoxObject creates an object with a single unit-box primitive.
func newBoxObject(id ObjectID, pos math32.Vector3) *Object {
	root := NewPart("root")
	root.AddChild(unitBox("body"))
	o := NewObject(id, NewRenderable(root, nil))
	o.Position = pos
	return o
}

// --- Fakes ---

type fakeStage struct {
	attached map[*Object]bool
	attaches int
	detaches int
}

func newFakeStage() *fakeStage {
	return &fakeStage{attached: make(map[*Object]bool)}
}

func (s *fakeStage) Attach(o *Object) {
	s.attached[o] = true
	s.attaches++
}

func (s *fakeStage) Detach(o *Object) {
	delete(s.attached, o)
	s.detaches++
}

type fakeClip struct {
	dur     float64
	samples []float64
}

func (c *fakeClip) Duration() float64 { return c.dur }
func (c *fakeClip) Sample(t float64)  { c.samples = append(c.samples, t) }

func (c *fakeClip) last() float64 {
	if len(c.samples) == 0 {
		return math.NaN()
	}
	return c.samples[len(c.samples)-1]
}

type fakeMedia struct {
	paused bool
	loop   bool
}

func (m *fakeMedia) Play()             { m.paused = false }
func (m *fakeMedia) Pause()            { m.paused = true }
func (m *fakeMedia) Paused() bool      { return m.paused }
func (m *fakeMedia) SetLoop(loop bool) { m.loop = loop }

type fakeOverlay struct {
	err  error
	urls []string
}

func (o *fakeOverlay) RequestOverlay(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type recordingStore struct {
	events []InteractionEvent
}

func (s *recordingStore) EmitEvent(e InteractionEvent) {
	s.events = append(s.events, e)
}

type recordingProgress struct {
	calls     [][2]int
	completed int
}

func (p *recordingProgress) OnProgress(loaded, total int) {
	p.calls = append(p.calls, [2]int{loaded, total})
}

func (p *recordingProgress) OnComplete() {
	p.completed++
}

var errLoad = errors.New("load failed")

// fakeFactory returns unit boxes. Loads of urls with a gate block until
// the gate is closed; urls in fail return errLoad.
type fakeFactory struct {
	mu    sync.Mutex
	calls []string
	gates map[string]chan struct{}
	fail  map[string]bool
	clips float64 // when > 0, each asset gets one clip of this duration
	media bool
}

func (f *fakeFactory) gate(url string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	f.gates[url] = ch
	return ch
}

func (f *fakeFactory) Load(ctx context.Context, kind Kind, url string) (Asset, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	gate := f.gates[url]
	fail := f.fail[url]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Asset{}, ctx.Err()
		}
	}
	if fail {
		return Asset{}, errLoad
	}
	root := NewPart(url)
	root.AddChild(unitBox("body"))
	var media MediaSurface
	if f.media {
		media = &fakeMedia{paused: true}
	}
	asset := Asset{Renderable: NewRenderable(root, media)}
	if f.clips > 0 {
		asset.Clips = []AnimationClip{&fakeClip{dur: f.clips}}
	}
	return asset, nil
}

func (f *fakeFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
