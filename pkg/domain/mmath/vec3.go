// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトル。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 は零ベクトル。
	ZERO_VEC3 = Vec3{}
	// ONE_VEC3 は全成分1のベクトル。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_Y_VEC3 はY軸単位ベクトル。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{Y: 1}}
)

// NewVec3 は成分を指定してベクトルを生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算したベクトルを返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算したベクトルを返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍したベクトルを返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length はベクトル長を返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return r3.Norm(r3.Sub(v.Vec, other.Vec))
}

// Normalized は正規化したベクトルを返す。零ベクトルは零のまま返す。
func (v Vec3) Normalized() Vec3 {
	if v.Length() == 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Unit(v.Vec)}
}

// NearEquals は許容誤差内で一致するかどうかを返す。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return mgl64.FloatEqualThreshold(v.X, other.X, epsilon) &&
		mgl64.FloatEqualThreshold(v.Y, other.Y, epsilon) &&
		mgl64.FloatEqualThreshold(v.Z, other.Z, epsilon)
}

// ToMat4 は平行移動行列を返す。
func (v Vec3) ToMat4() Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// ToScaleMat4 は拡縮行列を返す。
func (v Vec3) ToScaleMat4() Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}
