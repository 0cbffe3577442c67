// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

const (
	// ikStretchPropKey は IK ストレッチ量のカスタムプロパティ名。
	ikStretchPropKey = "IK_Stretch"
	// poleVectorPropKey はポールベクトル切替のカスタムプロパティ名。
	poleVectorPropKey = "pole_vector"
)

// isFalseProp はカスタムプロパティ値が偽(または 0)かどうかを返す。
func isFalseProp(value any) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case int:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

// disableIkStretching は IK ストレッチのカスタムプロパティを全ボーンで 0 に落とす。
func disableIkStretching(rigSkeleton *rig.Skeleton) (int, error) {
	disabled := 0
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Bones() {
			if _, ok := bone.Prop(ikStretchPropKey); !ok {
				continue
			}
			bone.SetProp(ikStretchPropKey, 0.0)
			disabled++
		}
		return nil
	})
	return disabled, err
}

// showIkPoleToggles は左右の上腕のポールベクトル切替を有効にし、IK ターゲットを
// 表示して選択状態にする。切替が既に有効な側は触らない。
func showIkPoleToggles(rigSkeleton *rig.Skeleton, capability rig.Capability) (int, error) {
	var bonesToSelect []string
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, side := range []string{".L", ".R"} {
			parentName := "upper_arm_parent" + side
			parentBone, err := pc.GetByName(parentName)
			if err != nil {
				mlog.W("IK ポール切替の対象が見つかりません: %s", parentName)
				continue
			}
			value, ok := parentBone.Prop(poleVectorPropKey)
			if !ok || !isFalseProp(value) {
				continue
			}
			parentBone.SetProp(poleVectorPropKey, true)

			targetName := "upper_arm_ik_target" + side
			targetBone, err := pc.GetByName(targetName)
			if err != nil {
				mlog.W("IK ターゲットが見つかりません: %s", targetName)
				continue
			}
			targetBone.Hidden = false
			bonesToSelect = append(bonesToSelect, targetName)
		}
		return nil
	})
	if err != nil || len(bonesToSelect) == 0 {
		return len(bonesToSelect), err
	}

	// 選択フラグはポーズ情報に持つが、編集モードでしか触れない環境がある。
	if capability.EditSelectOnly {
		err = rigSkeleton.EditScope(func(ec *rig.EditContext) error {
			for _, name := range bonesToSelect {
				if bone, err := ec.GetByName(name); err == nil {
					bone.Selected = true
				}
			}
			return nil
		})
		return len(bonesToSelect), err
	}
	err = rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, name := range bonesToSelect {
			if bone, err := pc.GetByName(name); err == nil {
				bone.Selected = true
			}
		}
		return nil
	})
	return len(bonesToSelect), err
}
