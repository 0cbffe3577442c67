// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// eyesLengthScaleFactor は目全体コントロールの長さへ掛ける係数。
const eyesLengthScaleFactor = 1.35

type eyeControlGeometry struct {
	// xSlope はマスター目ボーンの XY 平面上の傾き。
	xSlope float64
	// xPosition は目制御ボーンの X 位置。
	xPosition float64
	// zPosition は目制御ボーンの Z 位置。
	zPosition float64
	// eyeLength は目ボーンの長さ。
	eyeLength float64
	// scaleRatio は目全体コントロールの伸縮比。
	scaleRatio float64
	// scaleKnown は伸縮比が計算できたかどうか。
	scaleKnown bool
}

// deriveEyeControlGeometry はマスター目ボーンの直線に左目の奥行きを乗せて
// 目制御ボーンの位置と伸縮比を求める。引数はワールド変換済みの位置。
// 傾きが取れない軸はマスター目ボーンの頭位置へ落とす。
func deriveEyeControlGeometry(
	masterHead, masterTail, eyeHead mmath.Vec3,
	eyeLength float64,
) eyeControlGeometry {
	g := eyeControlGeometry{eyeLength: eyeLength}

	if masterTail.X != masterHead.X {
		g.xSlope = (masterTail.Y - masterHead.Y) / (masterTail.X - masterHead.X)
	}
	xIntercept := masterHead.Y - g.xSlope*masterHead.X
	if g.xSlope != 0 {
		g.xPosition = (eyeHead.Y - xIntercept) / g.xSlope
	} else {
		g.xPosition = masterHead.X
	}

	zSlope := 0.0
	if masterTail.Z != masterHead.Z {
		zSlope = (masterTail.Y - masterHead.Y) / (masterTail.Z - masterHead.Z)
	}
	zIntercept := masterHead.Y - zSlope*masterHead.Z
	if zSlope != 0 {
		g.zPosition = (eyeHead.Y - zIntercept) / zSlope
	} else {
		g.zPosition = masterHead.Z
	}

	if eyeHead.X != 0 {
		g.scaleRatio = (g.xPosition - eyeHead.X) / eyeHead.X
		g.scaleKnown = true
	}
	return g
}

// adjustEyeControlBones は生成リグの目制御ボーンを入力モデルの目位置に合わせる。
// 必要なボーンが見つからない場合と伸縮比が計算できない場合は警告してスキップ。
func adjustEyeControlBones(rigSkeleton *rig.Skeleton) (bool, error) {
	adjusted := false
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		masterEye, err := ec.GetByName("master_eye.L")
		if err != nil {
			mlog.W("master_eye.L が見つからないため目制御の調整をスキップします")
			return nil
		}
		eyeL, err := ec.GetByName("eye.L")
		if err != nil {
			mlog.W("eye.L が見つからないため目制御の調整をスキップします")
			return nil
		}

		world := ec.Skeleton().WorldTransform()
		g := deriveEyeControlGeometry(
			world.MulVec3(masterEye.Head),
			world.MulVec3(masterEye.Tail),
			world.MulVec3(eyeL.Head),
			eyeL.Length(),
		)
		if !g.scaleKnown {
			mlog.W("目ボーンの X 位置が原点のため目制御の調整をスキップします")
			return nil
		}

		eyeL.Head.X = g.xPosition
		eyeL.Head.Z = g.zPosition
		eyeL.Tail.X = g.xPosition
		eyeL.Tail.Z = g.zPosition + g.eyeLength
		if eyeR, err := ec.GetByName("eye.R"); err == nil {
			eyeR.Head.X = -g.xPosition
			eyeR.Head.Z = g.zPosition
			eyeR.Tail.X = -g.xPosition
			eyeR.Tail.Z = g.zPosition + g.eyeLength
		}
		adjusted = true

		if g.xSlope == 0 {
			return nil
		}
		eyes, err := ec.GetByName("eyes")
		if err != nil {
			return nil
		}
		eyes.Head.Z = g.zPosition
		eyes.Tail.Z = g.zPosition + g.eyeLength
		eyes.SetLength(eyes.Length() * g.scaleRatio * eyesLengthScaleFactor)
		return nil
	})
	return adjusted, err
}
