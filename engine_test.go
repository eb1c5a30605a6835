package arscene

import (
	"context"
	"slices"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, f Factory, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SnapshotDir = t.TempDir()
	opts = append([]Option{WithLogger(discardLogger()), WithOpener(nil)}, opts...)
	return NewEngine(cfg, f, opts...)
}

// waitLoaded applies every pending load and runs one frame.
func waitLoaded(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Spawner().Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	e.Update(0)
}

func ids(reg *Registry) []ObjectID {
	var out []ObjectID
	for _, o := range reg.All() {
		out = append(out, o.ID)
	}
	slices.Sort(out)
	return out
}

const twoBoxes = `{"objects": [
	{"id": "a", "kind": "model", "url": "a.glb", "transform": {"position": [0, 0, 0]}},
	{"id": 7, "kind": "image-plane", "url": "b.png", "transform": {"position": {"x": 5}},
	 "events": [{"eventKind": 1, "actions": [{"actionKind": 6}]}]}
]}`

func TestEngineLoadScene(t *testing.T) {
	f := &fakeFactory{}
	stage := newFakeStage()
	progress := &recordingProgress{}
	e := newTestEngine(t, f, WithStage(stage), WithProgress(progress))

	session, err := e.LoadScene(context.Background(), []byte(twoBoxes))
	if err != nil {
		t.Fatal(err)
	}
	if session == "" || session != e.Spawner().Session() {
		t.Errorf("session = %q", session)
	}
	waitLoaded(t, e)

	if got := ids(e.Registry()); !slices.Equal(got, []ObjectID{"7", "a"}) {
		t.Errorf("ids = %v", got)
	}
	if stage.attaches != 2 {
		t.Errorf("attaches = %d, want 2", stage.attaches)
	}
	if progress.completed != 1 {
		t.Errorf("OnComplete called %d times", progress.completed)
	}
	if last := progress.calls[len(progress.calls)-1]; last != [2]int{2, 2} {
		t.Errorf("last progress = %v", last)
	}
	if o := e.Registry().FindByID("7"); o.Position.X != 5 || !o.EffectiveVisible() {
		t.Errorf("object 7 = %+v", o.Position)
	}
}

func TestEngineParseFailureKeepsRegistry(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})
	if _, err := e.LoadScene(context.Background(), []byte(twoBoxes)); err != nil {
		t.Fatal(err)
	}
	waitLoaded(t, e)
	session := e.Spawner().Session()

	for _, doc := range []string{"", "{not json", "42"} {
		if _, err := e.LoadScene(context.Background(), []byte(doc)); err == nil {
			t.Errorf("LoadScene(%q) succeeded", doc)
		}
	}
	if e.Registry().Len() != 2 || e.Spawner().Session() != session {
		t.Error("failed parse changed the loaded scene")
	}
}

func TestEngineReloadClearsRegistry(t *testing.T) {
	stage := newFakeStage()
	e := newTestEngine(t, &fakeFactory{}, WithStage(stage))
	e.LoadScene(context.Background(), []byte(twoBoxes))
	waitLoaded(t, e)
	old := e.Registry().FindByID("a")

	e.LoadScene(context.Background(), []byte(`[{"id": "c", "kind": "model", "url": "c.glb"}]`))
	if !old.IsDisposed() || stage.detaches != 2 {
		t.Errorf("old objects not cleared: disposed %v detaches %d", old.IsDisposed(), stage.detaches)
	}
	waitLoaded(t, e)
	if got := ids(e.Registry()); !slices.Equal(got, []ObjectID{"c"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestEngineLoadedEvent(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})
	e.LoadScene(context.Background(), []byte(`[{"id": "a", "kind": "model", "url": "a.glb",
		"events": [{"eventKind": 2, "actions": [{"actionKind": 1, "values": {"x": 1}}]}]}]`))
	waitLoaded(t, e)
	assertVec(t, "position", e.Registry().FindByID("a").Position, Vec3(1, 0, 0))
}

func TestEngineSelect(t *testing.T) {
	store := &recordingStore{}
	e := newTestEngine(t, &fakeFactory{}, WithEntityStore(store))
	e.LoadScene(context.Background(), []byte(twoBoxes))
	waitLoaded(t, e)
	if len(store.events) != 2 || store.events[0].Event != EventLoaded {
		t.Fatalf("loaded events = %+v", store.events)
	}
	store.events = nil

	id, ok := e.Select(RayFrom(Vec3(5, 10, 0), Vec3(0, -1, 0)), EventTouch)
	if !ok || id != "7" {
		t.Fatalf("Select = %q, %v", id, ok)
	}
	o := e.Registry().FindByID("7")
	if !o.DesiredVisible() {
		t.Fatal("actions ran inside Select")
	}
	e.Update(0)
	if o.DesiredVisible() {
		t.Error("hide did not run on the next frame")
	}

	if _, ok := e.Select(RayFrom(Vec3(5, 10, 0), Vec3(0, -1, 0)), EventTouch); ok {
		t.Error("hidden object was selectable")
	}
	if _, ok := e.Select(RayFrom(Vec3(50, 10, 0), Vec3(0, -1, 0)), EventTouch); ok {
		t.Error("empty ray selected something")
	}
	if n := len(store.events); n != 2 || store.events[1].Action != ActionHide {
		t.Errorf("store events = %+v", store.events)
	}
}

func TestEngineInjections(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})
	e.LoadScene(context.Background(), []byte(twoBoxes))
	waitLoaded(t, e)

	var touched []ObjectID
	e.Interpreter().Register(actionRecord, func(ctx *ActionContext) error {
		touched = append(touched, ctx.Target.ID)
		return nil
	})
	e.Registry().FindByID("a").Events = []EventBinding{{Kind: EventTouch, Actions: []ActionDescriptor{{Kind: actionRecord}}}}
	e.Registry().FindByID("7").Events = []EventBinding{{Kind: EventTouch, Actions: []ActionDescriptor{{Kind: actionRecord}}}}

	e.InjectSelect(RayFrom(Vec3(0, 10, 0), Vec3(0, -1, 0)), EventTouch)
	e.InjectTouch("7")
	if e.PendingInjections() != 2 {
		t.Fatalf("pending = %d", e.PendingInjections())
	}

	e.Update(0)
	if e.PendingInjections() != 1 || len(touched) != 0 {
		t.Fatalf("after one frame: pending %d touched %v", e.PendingInjections(), touched)
	}
	e.Update(0)
	e.Update(0)
	if !slices.Equal(touched, []ObjectID{"a", "7"}) {
		t.Errorf("touched = %v", touched)
	}
}

func TestEngineViewerCulling(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})
	e.LoadScene(context.Background(), []byte(`[{"id": "far", "kind": "model", "url": "a.glb",
		"fields": {"visibleDistance": 3}}]`))
	waitLoaded(t, e)
	o := e.Registry().FindByID("far")
	if !o.EffectiveVisible() {
		t.Fatal("object not visible at origin")
	}
	e.SetViewer(Vec3(0, 0, 10))
	e.Update(0.016)
	if o.EffectiveVisible() || !o.DesiredVisible() {
		t.Error("object beyond visible distance should be culled")
	}
}

// --- Spawner ---

func TestSpawnerOutOfOrderCompletion(t *testing.T) {
	f := &fakeFactory{fail: map[string]bool{"b.glb": true}}
	gates := []chan struct{}{f.gate("a.glb"), f.gate("b.glb"), f.gate("c.glb")}
	progress := &recordingProgress{}
	e := newTestEngine(t, f, WithProgress(progress))

	e.LoadScene(context.Background(), []byte(`[
		{"id": "a", "kind": "model", "url": "a.glb"},
		{"id": "b", "kind": "model", "url": "b.glb"},
		{"id": "c", "kind": "model", "url": "c.glb"},
		{"id": "h", "kind": "hologram", "url": "h.bin"},
		{"id": "n", "kind": "model"}
	]`))
	if loaded, total := e.Spawner().Progress(); loaded != 0 || total != 3 {
		t.Fatalf("progress = %d/%d, want 0/3", loaded, total)
	}
	e.Update(0)
	if e.Spawner().Done() || e.Registry().Len() != 0 {
		t.Fatal("gated loads applied early")
	}

	for i := len(gates) - 1; i >= 0; i-- {
		close(gates[i])
	}
	waitLoaded(t, e)

	if got := ids(e.Registry()); !slices.Equal(got, []ObjectID{"a", "c"}) {
		t.Errorf("ids = %v, want failed load skipped", got)
	}
	if loaded, total := e.Spawner().Progress(); loaded != 3 || total != 3 {
		t.Errorf("progress = %d/%d, want 3/3", loaded, total)
	}
	if progress.completed != 1 {
		t.Errorf("OnComplete = %d, want 1", progress.completed)
	}
	if progress.calls[0] != [2]int{0, 3} || len(progress.calls) != 4 {
		t.Errorf("progress calls = %v", progress.calls)
	}
}

func TestSpawnerSupersededSession(t *testing.T) {
	f := &fakeFactory{}
	slow := f.gate("slow.glb")
	defer close(slow)
	progress := &recordingProgress{}
	e := newTestEngine(t, f, WithProgress(progress))

	first := e.LoadDescriptors(context.Background(), []Descriptor{{ID: "old", KindName: "model", URL: "slow.glb"}})
	second := e.LoadDescriptors(context.Background(), []Descriptor{{ID: "new", KindName: "model", URL: "fast.glb"}})
	if first == second {
		t.Fatal("sessions share an id")
	}
	waitLoaded(t, e)
	for range 3 {
		e.Update(0)
	}

	if got := ids(e.Registry()); !slices.Equal(got, []ObjectID{"new"}) {
		t.Errorf("ids = %v, want only the current session", got)
	}
	if progress.completed != 1 {
		t.Errorf("OnComplete = %d, want 1", progress.completed)
	}
}

func TestSpawnerEmptyScene(t *testing.T) {
	progress := &recordingProgress{}
	e := newTestEngine(t, &fakeFactory{}, WithProgress(progress))
	e.LoadDescriptors(context.Background(), []Descriptor{{ID: "x", KindName: "hologram", URL: "x"}})
	if !e.Spawner().Done() {
		t.Error("scene with nothing loadable should be done")
	}
	if progress.completed != 0 || !slices.Equal(progress.calls, [][2]int{{0, 0}}) {
		t.Errorf("progress = %v completed %d", progress.calls, progress.completed)
	}
}

func TestSpawnerConcurrencyLimit(t *testing.T) {
	f := &fakeFactory{}
	var gates []chan struct{}
	var descs []Descriptor
	for _, url := range []string{"1", "2", "3", "4", "5", "6"} {
		gates = append(gates, f.gate(url))
		descs = append(descs, Descriptor{ID: ObjectID(url), KindName: "model", URL: url})
	}
	cfg := DefaultConfig()
	cfg.MaxConcurrentLoads = 2
	e := NewEngine(cfg, f, WithLogger(discardLogger()))
	e.LoadDescriptors(context.Background(), descs)

	deadline := time.Now().Add(time.Second)
	for f.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if n := f.callCount(); n != 2 {
		t.Errorf("in-flight loads = %d, want 2", n)
	}
	for _, g := range gates {
		close(g)
	}
	waitLoaded(t, e)
	if e.Registry().Len() != 6 {
		t.Errorf("loaded %d objects, want 6", e.Registry().Len())
	}
}
