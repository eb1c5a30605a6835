package arscene

import (
	"math"

	"cogentcore.org/core/math32"
)

// ObjectID identifies a scene object. Scene documents may carry integer or
// string ids; both normalize to their decimal/string form.
type ObjectID string

// selfID is the obj_id sentinel meaning "the triggering object".
const selfID ObjectID = "-1"

// IsSelf reports whether the id is absent or the -1 sentinel, meaning an
// action targets the object that triggered it.
func (id ObjectID) IsSelf() bool {
	return id == "" || id == selfID
}

// Kind selects how a descriptor is turned into a renderable.
type Kind uint8

const (
	KindUnknown    Kind = iota // unrecognized; descriptor is skipped
	KindImagePlane             // textured quad
	KindModel                  // 3D model, optionally with animation clips
	KindVideoPlane             // quad backed by a playable media surface
)

var kindNames = map[string]Kind{
	"image-plane": KindImagePlane,
	"model":       KindModel,
	"video-plane": KindVideoPlane,
}

// ParseKind maps a descriptor kind token to a Kind. Unrecognized tokens
// return KindUnknown.
func ParseKind(s string) Kind {
	return kindNames[s]
}

// String returns the descriptor token for the kind.
func (k Kind) String() string {
	switch k {
	case KindImagePlane:
		return "image-plane"
	case KindModel:
		return "model"
	case KindVideoPlane:
		return "video-plane"
	default:
		return "unknown"
	}
}

// EventKind identifies what happened to an object. Values match the integer
// tags used in scene documents.
type EventKind int

const (
	EventTouch  EventKind = 1 // user selected the object
	EventLoaded EventKind = 2 // object was spawned into the registry
)

// ActionKind selects an Executor. Values match the integer tags used in
// scene documents.
type ActionKind int

const (
	ActionTranslateBy        ActionKind = 1  // tween position by (x, y, z)
	ActionRotateBy           ActionKind = 2  // slerp orientation by euler (x, y, z) degrees
	ActionScaleBy            ActionKind = 3  // tween scale to current * factor
	ActionFadeTo             ActionKind = 4  // tween opacity to transparency
	ActionShow               ActionKind = 5  // desired visibility on
	ActionHide               ActionKind = 6  // desired and effective visibility off
	ActionToggleMedia        ActionKind = 7  // play/pause media surface
	ActionSetAnimationSpeed  ActionKind = 8  // animation player time scale
	ActionPlayAnimationRange ActionKind = 9  // play clips from start_frame to end_frame
	ActionOpenContent        ActionKind = 10 // external content overlay for url
	ActionEnable             ActionKind = 11 // alias of ActionShow
	ActionDisable            ActionKind = 12 // alias of ActionHide
)

// OpacityHitThreshold is the opacity below which a transparent part is
// treated as see-through by the hit tester.
const OpacityHitThreshold = 0.1

// Infinity is the visible distance of distance-exempt objects.
var Infinity = float32(math.Inf(1))

// Vec3 is shorthand for math32.Vec3.
func Vec3(x, y, z float32) math32.Vector3 {
	return math32.Vec3(x, y, z)
}

// distance returns the straight-line distance between a and b.
func distance(a, b math32.Vector3) float32 {
	return b.Sub(a).Length()
}
