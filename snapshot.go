package arscene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SceneSnapshot is a JSON-serializable dump of engine state.
type SceneSnapshot struct {
	Label   string        `json:"label,omitempty"`
	Time    float64       `json:"time"`
	Viewer  [3]float32    `json:"viewer"`
	Session string        `json:"session,omitempty"`
	Loaded  int           `json:"loaded"`
	Total   int           `json:"total"`
	Tweens  int           `json:"tweens"`
	Pending int           `json:"pending"`
	Objects []ObjectState `json:"objects"`
}

// ObjectState is the snapshot of one object.
type ObjectState struct {
	ID               ObjectID   `json:"id"`
	Kind             string     `json:"kind"`
	Position         [3]float32 `json:"position"`
	Rotation         [4]float32 `json:"rotation"`
	Scale            [3]float32 `json:"scale"`
	DesiredVisible   bool       `json:"desiredVisible"`
	EffectiveVisible bool       `json:"effectiveVisible"`
	Opacity          []float64  `json:"opacity,omitempty"`
	MediaPaused      *bool      `json:"mediaPaused,omitempty"`
	AnimationTime    []float64  `json:"animationTime,omitempty"`
}

// Snapshot captures the current engine state.
func (e *Engine) Snapshot(label string) SceneSnapshot {
	loaded, total := e.spawner.Progress()
	snap := SceneSnapshot{
		Label:   label,
		Time:    e.timeline.Now(),
		Viewer:  [3]float32{e.viewer.X, e.viewer.Y, e.viewer.Z},
		Session: e.spawner.Session(),
		Loaded:  loaded,
		Total:   total,
		Tweens:  e.tweens.Len(),
		Pending: e.timeline.Len(),
		Objects: make([]ObjectState, 0, e.registry.Len()),
	}
	for _, o := range e.registry.All() {
		snap.Objects = append(snap.Objects, objectState(o))
	}
	return snap
}

func objectState(o *Object) ObjectState {
	s := ObjectState{
		ID:               o.ID,
		Kind:             o.Kind.String(),
		Position:         [3]float32{o.Position.X, o.Position.Y, o.Position.Z},
		Rotation:         [4]float32{o.Rotation.X, o.Rotation.Y, o.Rotation.Z, o.Rotation.W},
		Scale:            [3]float32{o.Scale.X, o.Scale.Y, o.Scale.Z},
		DesiredVisible:   o.desiredVisible,
		EffectiveVisible: o.effectiveVisible,
	}
	for _, p := range o.OpacityParts() {
		s.Opacity = append(s.Opacity, p.Material.Opacity)
	}
	if m := o.MediaSurface(); m != nil {
		paused := m.Paused()
		s.MediaPaused = &paused
	}
	if o.Player != nil {
		for _, a := range o.Player.Actions() {
			s.AnimationTime = append(s.AnimationTime, a.Time)
		}
	}
	return s
}

// QueueSnapshot queues a labeled snapshot to be written at the end of the
// current Update. The JSON file is written to SnapshotDir with a
// timestamped filename.
func (e *Engine) QueueSnapshot(label string) {
	e.snapshotQueue = append(e.snapshotQueue, label)
}

// flushSnapshots writes every queued snapshot. Called at the end of
// Engine.Update.
func (e *Engine) flushSnapshots() {
	if len(e.snapshotQueue) == 0 {
		return
	}
	defer func() { e.snapshotQueue = e.snapshotQueue[:0] }()

	if err := os.MkdirAll(e.SnapshotDir, 0o755); err != nil {
		e.log.Error("snapshot mkdir failed", "dir", e.SnapshotDir, "error", err)
		return
	}
	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.snapshotQueue {
		path := filepath.Join(e.SnapshotDir, fmt.Sprintf("%s_%s.json", stamp, sanitizeLabel(label)))
		if err := WriteSnapshot(path, e.Snapshot(label)); err != nil {
			e.log.Error("snapshot failed", "error", err)
			continue
		}
		e.log.Info("snapshot written", "path", path)
	}
}

// WriteSnapshot encodes snap as indented JSON to path.
func WriteSnapshot(path string, snap SceneSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
