package arscene

// Stage is the visual root that renderables are attached to. It is
// implemented by the rendering collaborator; a nil Stage is allowed.
type Stage interface {
	Attach(obj *Object)
	Detach(obj *Object)
}

// Registry owns the live objects of a scene. It is mutated only by the
// Spawner (Add) and by Clear.
type Registry struct {
	stage   Stage
	objects []*Object
	byID    map[ObjectID]*Object
}

// NewRegistry creates an empty registry attached to stage (which may be nil).
func NewRegistry(stage Stage) *Registry {
	return &Registry{stage: stage, byID: make(map[ObjectID]*Object)}
}

// SetStage replaces the visual root. Existing objects are detached from the
// old stage and attached to the new one.
func (r *Registry) SetStage(stage Stage) {
	for _, o := range r.objects {
		if r.stage != nil {
			r.stage.Detach(o)
		}
		if stage != nil {
			stage.Attach(o)
		}
	}
	r.stage = stage
}

// Add appends obj and attaches its renderable to the stage. When ids
// collide, FindByID keeps returning the first object added.
func (r *Registry) Add(obj *Object) {
	if obj == nil {
		panic("arscene: cannot add nil object")
	}
	r.objects = append(r.objects, obj)
	if _, ok := r.byID[obj.ID]; !ok {
		r.byID[obj.ID] = obj
	}
	if r.stage != nil {
		r.stage.Attach(obj)
	}
}

// Clear detaches and disposes every object.
func (r *Registry) Clear() {
	for i, o := range r.objects {
		if r.stage != nil {
			r.stage.Detach(o)
		}
		o.dispose()
		r.objects[i] = nil
	}
	r.objects = r.objects[:0]
	clear(r.byID)
}

// FindByID returns the first object added with id, or nil.
func (r *Registry) FindByID(id ObjectID) *Object {
	return r.byID[id]
}

// All returns the objects in insertion order. The returned slice MUST NOT be mutated by the caller.
func (r *Registry) All() []*Object {
	return r.objects
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return len(r.objects)
}
