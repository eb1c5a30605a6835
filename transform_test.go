package arscene

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestLookAt(t *testing.T) {
	tests := []struct {
		name string
		to   math32.Vector3
	}{
		{"forward", Vec3(0, 0, 5)},
		{"right", Vec3(3, 0, 0)},
		{"behind", Vec3(0, 0, -2)},
		{"up and right", Vec3(1, 1, 0)},
		{"below", Vec3(0, -4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := lookAt(Vec3(0, 0, 0), tt.to)
			fwd := Vec3(0, 0, 1).MulQuat(q)
			want := tt.to.MulScalar(1 / tt.to.Length())
			assertVec(t, "forward", fwd, want)
		})
	}
}

func TestLookAtCoincident(t *testing.T) {
	q := lookAt(Vec3(1, 2, 3), Vec3(1, 2, 3))
	if q != math32.NewQuat(0, 0, 0, 1) {
		t.Errorf("lookAt of coincident points = %v, want identity", q)
	}
}

func TestLocalToWorld(t *testing.T) {
	o := newBoxObject("a", Vec3(10, 0, 0))
	o.SetScale(2, 2, 2)
	o.SetEulerDegrees(0, 90, 0)
	got := o.LocalToWorld(Vec3(0, 0, 1))
	assertVec(t, "LocalToWorld", got, Vec3(12, 0, 0))
}

func TestWorldBounds(t *testing.T) {
	o := newBoxObject("a", Vec3(0, 1, 0))
	o.SetScale(2, 1, 4)
	b := o.WorldBounds(math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))
	assertVec(t, "Min", b.Min, Vec3(-1, 0.5, -2))
	assertVec(t, "Max", b.Max, Vec3(1, 1.5, 2))

	o.SetEulerDegrees(0, 90, 0)
	b = o.WorldBounds(math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))
	assertVec(t, "rotated Min", b.Min, Vec3(-2, 0.5, -1))
	assertVec(t, "rotated Max", b.Max, Vec3(2, 1.5, 1))

	if !o.WorldBounds(math32.B3Empty()).IsEmpty() {
		t.Error("empty bounds should stay empty")
	}
}
