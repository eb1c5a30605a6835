package arscene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScene is returned when a scene document contains no data.
var ErrEmptyScene = errors.New("arscene: empty scene document")

// listKeys are the object fields that may enumerate descriptors in a scene
// document, checked in order.
var listKeys = []string{"objects", "descriptors", "scene", "items"}

// --- Scene document parsing ---

// ParseScene parses a JSON scene document. The document may be an array of
// descriptors, a single descriptor, or an object with a field listing the
// descriptors ("objects", "descriptors", "scene" or "items").
func ParseScene(data []byte) ([]Descriptor, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyScene
	}
	switch data[0] {
	case '[':
		var descs []Descriptor
		if err := json.Unmarshal(data, &descs); err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		return descs, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		for _, key := range listKeys {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var descs []Descriptor
			if err := json.Unmarshal(raw, &descs); err != nil {
				return nil, fmt.Errorf("parse scene %q: %w", key, err)
			}
			return descs, nil
		}
		var d Descriptor
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		return []Descriptor{d}, nil
	default:
		return nil, fmt.Errorf("parse scene: unexpected %q at start of document", data[0])
	}
}

// ParseSceneYAML parses a YAML scene document with the same three shapes
// accepted by ParseScene.
func ParseSceneYAML(data []byte) ([]Descriptor, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene yaml: %w", err)
	}
	if doc == nil {
		return nil, ErrEmptyScene
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse scene yaml: %w", err)
	}
	return ParseScene(js)
}

// --- Descriptor types ---

// Descriptor is the immutable, parsed form of one scene object.
type Descriptor struct {
	ID             ObjectID       `json:"id"`
	Name           string         `json:"name,omitempty"`
	KindName       string         `json:"kind"`
	URL            string         `json:"url,omitempty"`
	Transform      Transform      `json:"transform"`
	Scale          Vector         `json:"scale"`
	InitialOpacity *Number        `json:"initialOpacity,omitempty"`
	Fields         Fields         `json:"fields"`
	Events         []EventBinding `json:"events,omitempty"`
}

// UnmarshalJSON decodes a descriptor, defaulting scale to (1, 1, 1).
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	type plain Descriptor
	p := plain{Scale: Vector{1, 1, 1}}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Descriptor(p)
	return nil
}

// Kind returns the parsed descriptor kind.
func (d *Descriptor) Kind() Kind {
	return ParseKind(d.KindName)
}

// Loadable reports whether the descriptor can be handed to a Factory, and
// if not, why.
func (d *Descriptor) Loadable() (bool, string) {
	switch {
	case d.ID == "":
		return false, "missing id"
	case d.Kind() == KindUnknown:
		return false, fmt.Sprintf("unrecognized kind %q", d.KindName)
	case d.URL == "":
		return false, "missing url"
	}
	return true, ""
}

// Transform holds a descriptor's position and euler rotation in degrees.
type Transform struct {
	Position Vector `json:"position"`
	Rotation Vector `json:"rotation"`
}

// Fields holds kind-specific flags. A VisibleDistance of zero or less means
// unlimited, the same as DistanceExempt and as a non-positive
// Config.DefaultVisibleDistance.
type Fields struct {
	DoubleSided     Flag    `json:"doubleSided"`
	Hidden          Flag    `json:"hidden"`
	FaceCamera      Flag    `json:"faceCamera"`
	VisibleDistance *Number `json:"visibleDistance,omitempty"`
	DistanceExempt  Flag    `json:"distanceExempt"`
	Loop            Flag    `json:"loop"`
	Play            Flag    `json:"play"`
	AnimationSpeed  *Number `json:"animationSpeed,omitempty"`
	StartFrame      Number  `json:"startFrame"`
	EndFrame        Number  `json:"endFrame"`
	FPS             Number  `json:"fps"`
}

// EventBinding attaches an ordered action list to an event kind.
type EventBinding struct {
	Kind    EventKind          `json:"eventKind"`
	Actions []ActionDescriptor `json:"actions"`
}

// ActionDescriptor is one step of an event's action list.
type ActionDescriptor struct {
	Kind   ActionKind   `json:"actionKind"`
	Values ActionValues `json:"values"`
}

// ActionValues holds the parameters of an action. Which fields are read
// depends on the action kind.
type ActionValues struct {
	ObjID        ObjectID `json:"obj_id"`
	Group        Number   `json:"group"`
	Time         Number   `json:"time"`
	DelayTime    Number   `json:"delayTime"`
	X            Number   `json:"x"`
	Y            Number   `json:"y"`
	Z            Number   `json:"z"`
	Factor       *Number  `json:"factor,omitempty"`
	Transparency *Number  `json:"transparency,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartFrame   Number   `json:"start_frame"`
	EndFrame     Number   `json:"end_frame"`
	FPS          Number   `json:"fps"`
	Speed        Number   `json:"speed"`
}

// GroupKey returns the positive group number, or 0 for ungrouped actions.
func (v ActionValues) GroupKey() int {
	g := int(v.Group)
	if g <= 0 {
		return 0
	}
	return g
}

// Span returns time + delayTime, the portion of a group this action occupies.
func (v ActionValues) Span() float64 {
	return float64(v.Time) + float64(v.DelayTime)
}

// --- Lenient scalar types ---

// Number is a float64 that also decodes from numeric strings and null.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*n = Number(f)
	return nil
}

// Flag is a bool that also decodes from 0/1 and "true"/"false".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "false", "0":
		*f = false
	case "true", "1":
		*f = true
	default:
		return fmt.Errorf("invalid flag %s", data)
	}
	return nil
}

// Vector is a descriptor xyz triple. It decodes from {"x","y","z"}, from a
// three-element array, or from a single number applied to every axis.
// Axes absent from an object keep their previous value.
type Vector struct {
	X, Y, Z Number
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '{':
		var axes struct {
			X *Number `json:"x"`
			Y *Number `json:"y"`
			Z *Number `json:"z"`
		}
		if err := json.Unmarshal(data, &axes); err != nil {
			return err
		}
		if axes.X != nil {
			v.X = *axes.X
		}
		if axes.Y != nil {
			v.Y = *axes.Y
		}
		if axes.Z != nil {
			v.Z = *axes.Z
		}
	case '[':
		var xs []Number
		if err := json.Unmarshal(data, &xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector needs 3 components, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
	default:
		var n Number
		if err := n.UnmarshalJSON(data); err != nil {
			return err
		}
		v.X, v.Y, v.Z = n, n, n
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting numbers and strings.
func (id *ObjectID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ObjectID(str)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid object id %s", data)
	}
	if f == float64(int64(f)) {
		*id = ObjectID(strconv.FormatInt(int64(f), 10))
	} else {
		*id = ObjectID(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting numeric strings.
func (k *EventKind) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*k = EventKind(n)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting numeric strings.
func (k *ActionKind) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*k = ActionKind(n)
	return nil
}
