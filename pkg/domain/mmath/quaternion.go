// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転クォータニオン。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionByValues は成分(x, y, z, w)からクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{Quat: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}
}

// Normalized は正規化したクォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{Quat: q.Quat.Normalize()}
}

// ToMat4 は回転行列を返す。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4(q.Quat.Mat4())
}

// MulVec3 はベクトルを回転させる。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	rotated := q.Quat.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return NewVec3(rotated.X(), rotated.Y(), rotated.Z())
}
