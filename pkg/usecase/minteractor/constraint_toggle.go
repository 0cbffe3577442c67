// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// ConstraintState は拘束の現在状態の写し。
type ConstraintState struct {
	Type  rig.ConstraintType
	Name  string
	Muted bool
}

// toggleDeformConstraintMutes は変形コレクション内の全拘束の有効・無効を
// まとめて切り替える。コレクションが見つからない場合は警告して何もしない。
// 戻り値はボーン名ごとの切り替え数。
func toggleDeformConstraintMutes(rigSkeleton *rig.Skeleton, mute bool) (map[string]int, error) {
	if !rigSkeleton.HasCollection(deformCollectionName) {
		mlog.W("コレクション %s が見つかりません。生成済みリグではない可能性があります", deformCollectionName)
		return map[string]int{}, nil
	}

	result := make(map[string]int)
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Skeleton().CollectionBones(deformCollectionName) {
			count := 0
			for _, constraint := range bone.Constraints() {
				constraint.Mute = mute
				count++
			}
			if count > 0 {
				result[bone.Name()] = count
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	total := 0
	for _, count := range result {
		total += count
	}
	if mute {
		mlog.I("拘束を無効化しました: %d 件 (%d ボーン)", total, len(result))
	} else {
		mlog.I("拘束を有効化しました: %d 件 (%d ボーン)", total, len(result))
	}
	return result, nil
}

// constraintStatesByBone は指定コレクション内の拘束状態をボーン名ごとに集める。
func constraintStatesByBone(
	rigSkeleton *rig.Skeleton,
	collectionName string,
) map[string][]ConstraintState {
	if !rigSkeleton.HasCollection(collectionName) {
		mlog.W("コレクション %s が見つかりません", collectionName)
		return map[string][]ConstraintState{}
	}

	states := make(map[string][]ConstraintState)
	for _, bone := range rigSkeleton.CollectionBones(collectionName) {
		constraints := bone.Constraints()
		if len(constraints) == 0 {
			continue
		}
		list := make([]ConstraintState, 0, len(constraints))
		for _, constraint := range constraints {
			list = append(list, ConstraintState{
				Type:  constraint.Type,
				Name:  constraint.Name,
				Muted: constraint.Mute,
			})
		}
		states[bone.Name()] = list
	}
	return states
}
