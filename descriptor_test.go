package arscene

import (
	"errors"
	"testing"
)

func TestParseSceneShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
		ids  []ObjectID
	}{
		{"array", `[{"id":"a","kind":"model","url":"a.glb"},{"id":"b","kind":"model","url":"b.glb"}]`, []ObjectID{"a", "b"}},
		{"single", `{"id":"a","kind":"model","url":"a.glb"}`, []ObjectID{"a"}},
		{"objects field", `{"objects":[{"id":"a"},{"id":"b"}]}`, []ObjectID{"a", "b"}},
		{"descriptors field", `{"version":2,"descriptors":[{"id":"c"}]}`, []ObjectID{"c"}},
		{"scene field", `{"scene":[{"id":1},{"id":2}]}`, []ObjectID{"1", "2"}},
		{"items field", `{"items":[]}`, nil},
		{"non-array field ignored", `{"id":"x","scene":"lobby"}`, []ObjectID{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := ParseScene([]byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if len(descs) != len(tt.ids) {
				t.Fatalf("got %d descriptors, want %d", len(descs), len(tt.ids))
			}
			for i, id := range tt.ids {
				if descs[i].ID != id {
					t.Errorf("descs[%d].ID = %q, want %q", i, descs[i].ID, id)
				}
			}
		})
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "   "},
		{"not json", "hello"},
		{"truncated", `[{"id":"a"`},
		{"bad number", `[{"id":"a","fields":{"fps":"fast"}}]`},
		{"bad vector", `[{"id":"a","scale":[1,2]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := ParseScene(nil); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("ParseScene(nil) = %v, want ErrEmptyScene", err)
	}
}

func TestDescriptorDefaults(t *testing.T) {
	descs, err := ParseScene([]byte(`{"id":"a","kind":"model","url":"a.glb"}`))
	if err != nil {
		t.Fatal(err)
	}
	d := descs[0]
	if d.Scale != (Vector{1, 1, 1}) {
		t.Errorf("Scale = %v, want 1,1,1", d.Scale)
	}
	if d.InitialOpacity != nil {
		t.Error("InitialOpacity set without field")
	}
	if d.Fields.VisibleDistance != nil {
		t.Error("VisibleDistance set without field")
	}
}

func TestDescriptorLenientValues(t *testing.T) {
	data := `{
		"id": 12,
		"kind": "video-plane",
		"url": "v.mp4",
		"transform": {"position": [1, "2", 3], "rotation": {"y": "45"}},
		"scale": 2,
		"initialOpacity": "0.25",
		"fields": {"hidden": 1, "loop": "true", "play": false, "visibleDistance": "7.5", "fps": "24"},
		"events": [{"eventKind": "1", "actions": [
			{"actionKind": 3, "values": {"obj_id": -1, "group": "2", "time": "1.5", "factor": 2}},
			{"actionKind": "4", "values": {"obj_id": "door", "transparency": null}}
		]}]
	}`
	descs, err := ParseScene([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	d := descs[0]
	if d.ID != "12" {
		t.Errorf("ID = %q, want 12", d.ID)
	}
	if d.Kind() != KindVideoPlane {
		t.Errorf("Kind = %v", d.Kind())
	}
	if d.Transform.Position != (Vector{1, 2, 3}) {
		t.Errorf("Position = %v", d.Transform.Position)
	}
	if d.Transform.Rotation != (Vector{0, 45, 0}) {
		t.Errorf("Rotation = %v", d.Transform.Rotation)
	}
	if d.Scale != (Vector{2, 2, 2}) {
		t.Errorf("Scale = %v", d.Scale)
	}
	if d.InitialOpacity == nil || *d.InitialOpacity != 0.25 {
		t.Errorf("InitialOpacity = %v", d.InitialOpacity)
	}
	f := d.Fields
	if !f.Hidden || !f.Loop || f.Play {
		t.Errorf("flags = hidden %v loop %v play %v", f.Hidden, f.Loop, f.Play)
	}
	if f.VisibleDistance == nil || *f.VisibleDistance != 7.5 || f.FPS != 24 {
		t.Errorf("numbers = %v %v", f.VisibleDistance, f.FPS)
	}

	if len(d.Events) != 1 || d.Events[0].Kind != EventTouch {
		t.Fatalf("events = %+v", d.Events)
	}
	acts := d.Events[0].Actions
	if acts[0].Kind != ActionScaleBy || !acts[0].Values.ObjID.IsSelf() {
		t.Errorf("action 0 = %+v", acts[0])
	}
	if acts[0].Values.GroupKey() != 2 || acts[0].Values.Span() != 1.5 {
		t.Errorf("group %d span %v", acts[0].Values.GroupKey(), acts[0].Values.Span())
	}
	if acts[1].Kind != ActionFadeTo || acts[1].Values.ObjID != "door" {
		t.Errorf("action 1 = %+v", acts[1])
	}
}

func TestVectorPartialAxes(t *testing.T) {
	descs, err := ParseScene([]byte(`{"id":"a","scale":{"y":3}}`))
	if err != nil {
		t.Fatal(err)
	}
	if descs[0].Scale != (Vector{1, 3, 1}) {
		t.Errorf("Scale = %v, want 1,3,1", descs[0].Scale)
	}
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		group Number
		want  int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{7, 7},
	}
	for _, tt := range tests {
		if got := (ActionValues{Group: tt.group}).GroupKey(); got != tt.want {
			t.Errorf("GroupKey(%v) = %d, want %d", tt.group, got, tt.want)
		}
	}
}

func TestDescriptorLoadable(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want bool
	}{
		{"ok", Descriptor{ID: "a", KindName: "model", URL: "a.glb"}, true},
		{"image", Descriptor{ID: "a", KindName: "image-plane", URL: "a.png"}, true},
		{"missing id", Descriptor{KindName: "model", URL: "a.glb"}, false},
		{"unknown kind", Descriptor{ID: "a", KindName: "hologram", URL: "a"}, false},
		{"missing url", Descriptor{ID: "a", KindName: "model"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.d.Loadable()
			if ok != tt.want {
				t.Errorf("Loadable = %v (%s), want %v", ok, reason, tt.want)
			}
			if !ok && reason == "" {
				t.Error("missing reason")
			}
		})
	}
}

func TestParseSceneYAML(t *testing.T) {
	data := []byte(`
- id: lamp
  kind: model
  url: lamp.glb
  fields:
    visibleDistance: 4
  events:
    - eventKind: 1
      actions:
        - actionKind: 6
          values: {obj_id: 3}
`)
	descs, err := ParseSceneYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(descs) != 1 || descs[0].ID != "lamp" {
		t.Fatalf("descs = %+v", descs)
	}
	if v := descs[0].Fields.VisibleDistance; v == nil || *v != 4 {
		t.Errorf("VisibleDistance = %v", v)
	}
	if got := descs[0].Events[0].Actions[0].Values.ObjID; got != "3" {
		t.Errorf("obj_id = %q, want 3", got)
	}
	if _, err := ParseSceneYAML([]byte("")); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("empty yaml = %v, want ErrEmptyScene", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindImagePlane, KindModel, KindVideoPlane} {
		if got := ParseKind(k.String()); got != k {
			t.Errorf("ParseKind(%q) = %v", k.String(), got)
		}
	}
	if ParseKind("Model") != KindUnknown {
		t.Error("kind tokens are case-sensitive")
	}
	if KindUnknown.String() != "unknown" {
		t.Errorf("KindUnknown.String() = %q", KindUnknown.String())
	}
}
