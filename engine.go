package arscene

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/core/math32"
)

// EntityStore is the interface for optional ECS integration.
// When set on an Engine, every dispatch and executed action is forwarded.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries dispatch data for the ECS bridge. Action is
// zero for the dispatch itself and set for each action that ran.
type InteractionEvent struct {
	Event    EventKind
	Action   ActionKind
	ObjectID ObjectID // triggering object
	TargetID ObjectID // object the action ran on
	Time     float64  // timeline time in seconds
}

// Engine is the top-level object that owns the registry, the load
// spawner, the tween engine, the timeline and the action interpreter, and
// drives them one frame at a time.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	debug bool

	viewer math32.Vector3

	registry *Registry
	tweens   *Tweens
	timeline *Timeline
	interp   *Interpreter
	spawner  *Spawner

	injectQueue   []syntheticSelect
	testRunner    *TestRunner
	snapshotQueue []string

	// SnapshotDir is where queued snapshots are written.
	SnapshotDir string
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	stage    Stage
	progress Progress
	overlay  ContentOverlay
	opener   Opener
	store    EntityStore
	log      *slog.Logger
}

// WithStage attaches spawned objects to stage.
func WithStage(s Stage) Option {
	return func(o *engineOptions) { o.stage = s }
}

// WithProgress reports load progress to p.
func WithProgress(p Progress) Option {
	return func(o *engineOptions) { o.progress = p }
}

// WithOverlay sets the external-content collaborator.
func WithOverlay(c ContentOverlay) Option {
	return func(o *engineOptions) { o.overlay = c }
}

// WithOpener overrides the SystemOpener fallback. A nil opener disables it.
func WithOpener(op Opener) Option {
	return func(o *engineOptions) { o.opener = op }
}

// WithEntityStore forwards interaction events to store.
func WithEntityStore(store EntityStore) Option {
	return func(o *engineOptions) { o.store = store }
}

// WithLogger sets the logger. The default is derived from Config.LogLevel
// and writes to slog.Default's handler.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.log = l }
}

// NewEngine creates an engine loading assets through factory.
func NewEngine(cfg Config, factory Factory, opts ...Option) *Engine {
	o := engineOptions{opener: SystemOpener{}}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = slog.Default().With("component", "arscene")
	}

	e := &Engine{
		cfg:         cfg,
		log:         log,
		debug:       cfg.Debug,
		registry:    NewRegistry(o.stage),
		tweens:      &Tweens{},
		timeline:    &Timeline{},
		SnapshotDir: cfg.SnapshotDir,
	}
	if e.SnapshotDir == "" {
		e.SnapshotDir = "snapshots"
	}
	e.interp = NewInterpreter(e.registry, e.timeline, e.tweens, log.With("subsystem", "interpreter"))
	e.interp.SetOverlay(o.overlay)
	e.interp.SetOpener(o.opener)
	e.interp.SetEntityStore(o.store)

	e.spawner = NewSpawner(factory, e.registry, o.progress, cfg, log.With("subsystem", "spawner"))
	e.spawner.OnSpawn = func(obj *Object) {
		e.interp.dispatch(obj, EventLoaded)
	}
	return e
}

// --- Loading ---

// LoadScene parses a JSON scene document, clears the registry and starts
// loading the descriptors. It returns the load session id. A parse failure
// leaves the registry untouched.
func (e *Engine) LoadScene(ctx context.Context, data []byte) (string, error) {
	descs, err := ParseScene(data)
	if err != nil {
		e.log.Error("scene load aborted", "error", err)
		return "", fmt.Errorf("load scene: %w", err)
	}
	return e.LoadDescriptors(ctx, descs), nil
}

// LoadDescriptors clears the registry and starts loading descs.
func (e *Engine) LoadDescriptors(ctx context.Context, descs []Descriptor) string {
	e.registry.Clear()
	return e.spawner.LoadScene(ctx, descs)
}

// --- Frame ---

// Update advances the engine by dt seconds. Finished loads are applied
// first, then the test runner steps, due timeline tasks run, one injected
// selection is processed, and objects and tweens are resolved.
func (e *Engine) Update(dt float64) {
	var stats debugStats
	var t0 time.Time

	if e.debug {
		t0 = time.Now()
	}
	e.spawner.Poll()
	if e.debug {
		stats.pollTime = time.Since(t0)
	}

	if e.testRunner != nil {
		e.testRunner.step(e)
	}

	if e.debug {
		t0 = time.Now()
	}
	e.timeline.Advance(dt)
	e.processInjected()
	if e.debug {
		stats.timelineTime = time.Since(t0)
		t0 = time.Now()
	}

	Resolve(e.frameContext(), dt)

	if e.debug {
		stats.resolveTime = time.Since(t0)
		stats.objects = e.registry.Len()
		stats.visible = countVisible(e.registry)
		stats.tweens = e.tweens.Len()
		stats.pending = e.timeline.Len()
		e.debugLog(stats)
	}

	e.flushSnapshots()
}

func (e *Engine) frameContext() FrameContext {
	return FrameContext{Viewer: e.viewer, Registry: e.registry, Tweens: e.tweens}
}

// Select hit-tests ray against the registry and dispatches event on the
// object hit. It returns the id of that object, if any.
func (e *Engine) Select(ray math32.Ray, event EventKind) (ObjectID, bool) {
	obj := HitTest(e.registry, ray)
	if obj == nil {
		return "", false
	}
	e.interp.dispatch(obj, event)
	return obj.ID, true
}

// Dispatch schedules the actions bound to event on the object with id.
func (e *Engine) Dispatch(id ObjectID, event EventKind) bool {
	return e.interp.Dispatch(id, event)
}

// --- Accessors ---

// SetViewer sets the world-space viewer position used for distance culling
// and face-camera.
func (e *Engine) SetViewer(p math32.Vector3) {
	e.viewer = p
}

// Viewer returns the viewer position.
func (e *Engine) Viewer() math32.Vector3 {
	return e.viewer
}

// Registry returns the object registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Tweens returns the tween engine.
func (e *Engine) Tweens() *Tweens {
	return e.tweens
}

// Timeline returns the deferred-task queue.
func (e *Engine) Timeline() *Timeline {
	return e.timeline
}

// Interpreter returns the action interpreter, for registering executors.
func (e *Engine) Interpreter() *Interpreter {
	return e.interp
}

// Spawner returns the asset spawner.
func (e *Engine) Spawner() *Spawner {
	return e.spawner
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.log
}

// SetStage replaces the visual root.
func (e *Engine) SetStage(s Stage) {
	e.registry.SetStage(s)
}

// SetEntityStore sets the optional ECS bridge.
func (e *Engine) SetEntityStore(store EntityStore) {
	e.interp.SetEntityStore(store)
}

// SetDebugMode enables or disables per-frame stats logging at debug level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}
