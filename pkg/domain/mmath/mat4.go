// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は列優先の4x4行列。glTFのmatrix要素と同じ並び。
type Mat4 mgl64.Mat4

// NewMat4 は単位行列を生成する。
func NewMat4() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Muled は行列積 m * other を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3(m[12], m[13], m[14])
}

// MulVec3 は位置ベクトルを変換する。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	transformed := mgl64.TransformCoordinate(mgl64.Vec3{v.X, v.Y, v.Z}, mgl64.Mat4(m))
	return NewVec3(transformed.X(), transformed.Y(), transformed.Z())
}

// NearEquals は許容誤差内で一致するかどうかを返す。
func (m Mat4) NearEquals(other Mat4, epsilon float64) bool {
	return mgl64.Mat4(m).ApproxEqualThreshold(mgl64.Mat4(other), epsilon)
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(degrees float64) float64 {
	return mgl64.DegToRad(degrees)
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radians float64) float64 {
	return mgl64.RadToDeg(radians)
}
