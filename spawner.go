package arscene

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Progress receives load progress. OnComplete is called once per session,
// when every loadable descriptor has resolved and there was at least one.
type Progress interface {
	OnProgress(loaded, total int)
	OnComplete()
}

// loadResult crosses from a load goroutine back into the frame loop.
type loadResult struct {
	desc  *Descriptor
	asset Asset
	err   error
}

// Spawner turns descriptors into objects through a Factory. Loads run on
// goroutines; their results are applied to the registry only in Poll (or
// Wait), which the engine calls at frame boundaries.
type Spawner struct {
	factory  Factory
	registry *Registry
	progress Progress
	log      *slog.Logger
	limit    int
	distance float32

	// OnSpawn is called after each new object is added to the registry.
	OnSpawn func(*Object)

	session  string
	results  chan loadResult
	cancel   context.CancelFunc
	total    int
	loaded   int
	complete bool
}

// NewSpawner creates a spawner adding objects to reg. progress may be nil.
func NewSpawner(factory Factory, reg *Registry, progress Progress, cfg Config, log *slog.Logger) *Spawner {
	if log == nil {
		log = slog.Default()
	}
	return &Spawner{
		factory:  factory,
		registry: reg,
		progress: progress,
		log:      log,
		limit:    cfg.loadLimit(),
		distance: cfg.visibleDistance(),
	}
}

// LoadScene starts a load session for descs and returns its id without
// waiting. Malformed descriptors are logged and skipped; they do not count
// toward the total. A previous session still in flight is superseded: its
// loads are cancelled and its results discarded.
func (s *Spawner) LoadScene(ctx context.Context, descs []Descriptor) string {
	if s.cancel != nil {
		s.cancel()
	}
	s.session = uuid.NewString()
	log := s.log.With("session", s.session)

	var loadable []*Descriptor
	for i := range descs {
		d := &descs[i]
		if ok, reason := d.Loadable(); !ok {
			log.Warn("skipping descriptor", "id", d.ID, "kind", d.KindName, "reason", reason)
			continue
		}
		loadable = append(loadable, d)
	}

	s.total = len(loadable)
	s.loaded = 0
	s.complete = false
	s.results = make(chan loadResult, s.total)
	log.Info("loading scene", "descriptors", len(descs), "loadable", s.total)
	if s.progress != nil {
		s.progress.OnProgress(0, s.total)
	}
	if s.total == 0 {
		s.cancel = nil
		return s.session
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	results := s.results
	factory := s.factory
	limit := s.limit
	go func() {
		var g errgroup.Group
		g.SetLimit(limit)
		for _, d := range loadable {
			g.Go(func() error {
				asset, err := factory.Load(ctx, d.Kind(), d.URL)
				results <- loadResult{desc: d, asset: asset, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()
	return s.session
}

// Poll applies every finished load without blocking.
func (s *Spawner) Poll() {
	for !s.Done() {
		select {
		case r := <-s.results:
			s.apply(r)
		default:
			return
		}
	}
}

// Wait blocks until the current session has resolved or ctx is done. It
// is meant for tools and tests; the frame loop uses Poll.
func (s *Spawner) Wait(ctx context.Context) error {
	for !s.Done() {
		select {
		case r := <-s.results:
			s.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Done reports whether every loadable descriptor of the session resolved.
func (s *Spawner) Done() bool {
	return s.loaded >= s.total
}

// Progress returns the loaded and total counts of the current session.
func (s *Spawner) Progress() (loaded, total int) {
	return s.loaded, s.total
}

// Session returns the id of the current load session.
func (s *Spawner) Session() string {
	return s.session
}

func (s *Spawner) apply(r loadResult) {
	s.loaded++
	log := s.log.With("session", s.session, "id", r.desc.ID)
	switch {
	case r.err != nil:
		log.Warn("asset load failed", "kind", r.desc.KindName, "url", r.desc.URL, "error", r.err)
	case r.asset.Renderable == nil:
		log.Warn("asset load returned no renderable", "kind", r.desc.KindName, "url", r.desc.URL)
	default:
		obj := newObjectFromDescriptor(r.desc, r.asset, s.distance)
		s.registry.Add(obj)
		log.Debug("spawned object", "kind", obj.Kind, "clips", len(r.asset.Clips))
		if s.OnSpawn != nil {
			s.OnSpawn(obj)
		}
	}

	if s.progress != nil {
		s.progress.OnProgress(s.loaded, s.total)
	}
	if s.loaded == s.total && s.total > 0 && !s.complete {
		s.complete = true
		log.Info("scene loaded", "total", s.total, "objects", s.registry.Len())
		if s.progress != nil {
			s.progress.OnComplete()
		}
	}
}
