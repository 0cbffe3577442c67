// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// deformCollectionName は変形ボーンをまとめるコレクション名。
const deformCollectionName = "DEF"

type parentAdjustment struct {
	boneName   string
	parentName string
}

type eyeBoneAdjustment struct {
	boneName         string
	parentName       string
	constraintTarget string
}

// unityEyeAdjustments は Unity 向けに付け替える目ボーンの調整内容。
var unityEyeAdjustments = []eyeBoneAdjustment{
	{boneName: "J_Adj_L_FaceEye", parentName: "J_Bip_C_Head", constraintTarget: "MCH-eye.L"},
	{boneName: "J_Adj_R_FaceEye", parentName: "J_Bip_C_Head", constraintTarget: "MCH-eye.R"},
}

// unityParentAdjustments は Unity のヒューマノイド階層に合わせる親子の
// 付け替え一覧を適用順で返す。
func unityParentAdjustments() []parentAdjustment {
	adjustments := []parentAdjustment{
		{boneName: "J_Bip_R_Shoulder", parentName: "J_Bip_C_UpperChest"},
		{boneName: "J_Bip_L_Shoulder", parentName: "J_Bip_C_UpperChest"},
		{boneName: "J_Bip_L_UpperArm", parentName: "J_Bip_L_Shoulder"},
		{boneName: "J_Bip_R_UpperArm", parentName: "J_Bip_R_Shoulder"},
		{boneName: "J_Bip_R_UpperLeg", parentName: "J_Bip_C_Hips"},
		{boneName: "J_Bip_L_UpperLeg", parentName: "J_Bip_C_Hips"},
	}
	for _, side := range []string{"R", "L"} {
		for _, finger := range []string{"Thumb1", "Index1", "Middle1", "Ring1", "Little1"} {
			adjustments = append(adjustments, parentAdjustment{
				boneName:   fmt.Sprintf("J_Bip_%s_%s", side, finger),
				parentName: fmt.Sprintf("J_Bip_%s_Hand", side),
			})
		}
	}
	return adjustments
}

// adjustHierarchyForUnity はボーンの親子関係を Unity のヒューマノイド階層へ
// 寄せ、目ボーンに変形コレクション割当と追従拘束を付ける。どちらかのボーンが
// 欠けている調整は黙ってスキップする。
func adjustHierarchyForUnity(rigSkeleton *rig.Skeleton) (int, int, error) {
	reparented := 0
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		for _, adjustment := range unityParentAdjustments() {
			bone, err := ec.GetByName(adjustment.boneName)
			if err != nil {
				continue
			}
			parent, err := ec.GetByName(adjustment.parentName)
			if err != nil {
				continue
			}
			if err := ec.SetParent(bone, parent); err != nil {
				return err
			}
			reparented++
		}

		for _, adjustment := range unityEyeAdjustments {
			bone, err := ec.GetByName(adjustment.boneName)
			if err != nil {
				continue
			}
			parent, err := ec.GetByName(adjustment.parentName)
			if err != nil {
				continue
			}
			if err := ec.SetParent(bone, parent); err != nil {
				return err
			}
			reparented++
		}
		return nil
	})
	if err != nil {
		return reparented, 0, err
	}

	constraints := 0
	err = rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, adjustment := range unityEyeAdjustments {
			bone, err := pc.GetByName(adjustment.boneName)
			if err != nil {
				continue
			}
			if pc.Skeleton().HasCollection(deformCollectionName) {
				bone.AssignCollection(deformCollectionName)
			}
			if !pc.Skeleton().Contains(adjustment.constraintTarget) {
				mlog.W("追従拘束の対象が見つかりません: %s", adjustment.constraintTarget)
				continue
			}
			constraint := rig.NewConstraint(rig.ConstraintCopyTransforms, adjustment.constraintTarget)
			if _, err := pc.AddConstraint(bone, constraint); err != nil {
				return err
			}
			constraints++
		}
		return nil
	})
	return reparented, constraints, err
}
