// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 6, 8)

	if got := a.Added(b); !got.NearEquals(NewVec3(5, 8, 11), 1e-12) {
		t.Fatalf("added mismatch: got=%v", got)
	}
	if got := b.Subed(a); !got.NearEquals(NewVec3(3, 4, 5), 1e-12) {
		t.Fatalf("subed mismatch: got=%v", got)
	}
	if got := a.MuledScalar(2); !got.NearEquals(NewVec3(2, 4, 6), 1e-12) {
		t.Fatalf("scaled mismatch: got=%v", got)
	}
	if got := b.Subed(a).Length(); math.Abs(got-math.Sqrt(50)) > 1e-12 {
		t.Fatalf("length mismatch: got=%f", got)
	}
	if got := a.Distance(b); math.Abs(got-math.Sqrt(50)) > 1e-12 {
		t.Fatalf("distance mismatch: got=%f", got)
	}
}

func TestVec3NormalizedZeroStaysZero(t *testing.T) {
	if got := ZERO_VEC3.Normalized(); !got.NearEquals(ZERO_VEC3, 1e-12) {
		t.Fatalf("zero vector should normalize to zero: got=%v", got)
	}
	unit := NewVec3(0, 3, 4).Normalized()
	if math.Abs(unit.Length()-1) > 1e-12 {
		t.Fatalf("normalized length should be 1: got=%f", unit.Length())
	}
}

func TestMat4TranslationRoundTrip(t *testing.T) {
	translation := NewVec3(1.5, -2, 0.25)
	if got := translation.ToMat4().Translation(); !got.NearEquals(translation, 1e-12) {
		t.Fatalf("translation mismatch: got=%v want=%v", got, translation)
	}
}

func TestTrsComposition(t *testing.T) {
	translation := NewVec3(0, 1, 0)
	rotation := NewQuaternionByValues(0, 0, 0, 1)
	scale := ONE_VEC3

	world := translation.ToMat4().Muled(rotation.ToMat4()).Muled(scale.ToScaleMat4())
	if got := world.Translation(); !got.NearEquals(translation, 1e-12) {
		t.Fatalf("trs translation mismatch: got=%v want=%v", got, translation)
	}
	if got := world.MulVec3(NewVec3(1, 0, 0)); !got.NearEquals(NewVec3(1, 1, 0), 1e-12) {
		t.Fatalf("trs transform mismatch: got=%v", got)
	}
}

func TestQuaternionRotation(t *testing.T) {
	// Y軸まわり90度回転でX軸はZ軸の負方向へ移る。
	half := math.Pi / 4
	q := NewQuaternionByValues(0, math.Sin(half), 0, math.Cos(half)).Normalized()
	if got := q.MulVec3(NewVec3(1, 0, 0)); !got.NearEquals(NewVec3(0, 0, -1), 1e-9) {
		t.Fatalf("rotated vector mismatch: got=%v", got)
	}
}

func TestDegRadConversion(t *testing.T) {
	if got := DegToRad(90); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Fatalf("deg to rad mismatch: got=%f", got)
	}
	if got := RadToDeg(math.Pi); math.Abs(got-180) > 1e-12 {
		t.Fatalf("rad to deg mismatch: got=%f", got)
	}
}
