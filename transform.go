package arscene

import "cogentcore.org/core/math32"

// yAxis and xAxis are the rotation axes used for face-camera orientation.
var (
	yAxis = math32.Vec3(0, 1, 0)
	xAxis = math32.Vec3(1, 0, 0)
)

// lookAt returns the orientation that points an object's local +Z axis
// from `from` toward `to`: a yaw about Y followed by a pitch about the
// yawed X axis. Coincident points yield the identity rotation.
func lookAt(from, to math32.Vector3) math32.Quat {
	d := to.Sub(from)
	horiz := math32.Sqrt(d.X*d.X + d.Z*d.Z)
	if horiz == 0 && d.Y == 0 {
		return math32.NewQuat(0, 0, 0, 1)
	}
	yaw := math32.Atan2(d.X, d.Z)
	pitch := -math32.Atan2(d.Y, horiz)
	q := math32.NewQuatAxisAngle(yAxis, yaw)
	q.SetMul(math32.NewQuatAxisAngle(xAxis, pitch))
	return q
}

// FaceToward reorients the object to face the point.
func (o *Object) FaceToward(point math32.Vector3) {
	o.Rotation = lookAt(o.Position, point)
}

// LocalToWorld transforms an object-local point: scale, then rotate, then
// translate.
func (o *Object) LocalToWorld(p math32.Vector3) math32.Vector3 {
	scaled := math32.Vec3(p.X*o.Scale.X, p.Y*o.Scale.Y, p.Z*o.Scale.Z)
	return scaled.MulQuat(o.Rotation).Add(o.Position)
}

// localRay maps a world-space ray into object-local space. It reports
// false when a scale component is zero, since the object then has no
// volume to hit.
func (o *Object) localRay(ray math32.Ray) (math32.Ray, bool) {
	sc := o.Scale
	if sc.X == 0 || sc.Y == 0 || sc.Z == 0 {
		return math32.Ray{}, false
	}
	q := o.Rotation
	inv := math32.NewQuat(-q.X, -q.Y, -q.Z, q.W)
	origin := ray.Origin.Sub(o.Position).MulQuat(inv)
	dir := ray.Dir.MulQuat(inv)
	return math32.Ray{
		Origin: math32.Vec3(origin.X/sc.X, origin.Y/sc.Y, origin.Z/sc.Z),
		Dir:    math32.Vec3(dir.X/sc.X, dir.Y/sc.Y, dir.Z/sc.Z),
	}, true
}

// WorldBounds returns the world-space axis-aligned box enclosing box, an
// object-local box. Rotation makes the result conservative.
func (o *Object) WorldBounds(box math32.Box3) math32.Box3 {
	if box.IsEmpty() {
		return box
	}
	scaled := math32.B3Empty()
	scaled.ExpandByPoint(math32.Vec3(box.Min.X*o.Scale.X, box.Min.Y*o.Scale.Y, box.Min.Z*o.Scale.Z))
	scaled.ExpandByPoint(math32.Vec3(box.Max.X*o.Scale.X, box.Max.Y*o.Scale.Y, box.Max.Z*o.Scale.Z))
	return scaled.MulQuat(o.Rotation).Translate(o.Position)
}

// SetPosition sets the object's position.
func (o *Object) SetPosition(x, y, z float32) {
	o.Position = math32.Vec3(x, y, z)
}

// SetScale sets the object's scale.
func (o *Object) SetScale(x, y, z float32) {
	o.Scale = math32.Vec3(x, y, z)
}

// SetEulerDegrees sets the orientation from euler angles in degrees.
func (o *Object) SetEulerDegrees(x, y, z float32) {
	o.Rotation = math32.NewQuatEuler(math32.Vec3(x, y, z).MulScalar(math32.DegToRadFactor))
}
