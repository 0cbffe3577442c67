// 指示: miu200521358
package minteractor

import (
	"fmt"

	govaluate "gopkg.in/Knetic/govaluate.v3"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

const (
	// constraintInfluencePropKey は拘束影響度をまとめて制御するプロパティ名。
	constraintInfluencePropKey = "constraint_influence"
	// influenceDriverVariable はドライバ式から参照する変数名。
	influenceDriverVariable = "influence"
)

// ensureConstraintInfluenceProperty は影響度プロパティを初期化する。
// 既に設定済みなら値は触らない。UI メタデータは対応環境でのみ付ける。
func ensureConstraintInfluenceProperty(rigSkeleton *rig.Skeleton, capability rig.Capability) {
	if _, ok := rigSkeleton.Property(constraintInfluencePropKey); ok {
		return
	}
	rigSkeleton.SetProperty(constraintInfluencePropKey, 1.0)
	if !capability.PropertyUI {
		return
	}
	rigSkeleton.SetPropertyUI(constraintInfluencePropKey, rig.PropertyUI{
		Min:         0.0,
		Max:         1.0,
		SoftMin:     0.0,
		SoftMax:     1.0,
		Description: "Global influence of DEF bone constraints",
	})
}

// addConstraintInfluenceDrivers は変形コレクション内の全拘束へ影響度ドライバを
// 取り付ける。コレクションが見つからない場合は警告して何もしない。
// 戻り値はボーン名ごとの取り付け数。
func addConstraintInfluenceDrivers(
	rigSkeleton *rig.Skeleton,
	capability rig.Capability,
) (map[string]int, error) {
	ensureConstraintInfluenceProperty(rigSkeleton, capability)

	if !rigSkeleton.HasCollection(deformCollectionName) {
		mlog.W("コレクション %s が見つかりません。生成済みリグではない可能性があります", deformCollectionName)
		return map[string]int{}, nil
	}

	result := make(map[string]int)
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Skeleton().CollectionBones(deformCollectionName) {
			count := 0
			for _, constraint := range bone.Constraints() {
				constraint.Driver = &rig.InfluenceDriver{
					Expression:  influenceDriverVariable,
					Variable:    influenceDriverVariable,
					PropertyKey: constraintInfluencePropKey,
				}
				count++
			}
			if count > 0 {
				result[bone.Name()] = count
				mlog.D("拘束ドライバを取り付けました: %s (%d 件)", bone.Name(), count)
			}
		}
		return nil
	})
	return result, err
}

// removeConstraintInfluenceDrivers は変形コレクション内の拘束から影響度
// ドライバを取り外す。戻り値はボーン名ごとの取り外し数。
func removeConstraintInfluenceDrivers(rigSkeleton *rig.Skeleton) (map[string]int, error) {
	if !rigSkeleton.HasCollection(deformCollectionName) {
		mlog.W("コレクション %s が見つかりません。生成済みリグではない可能性があります", deformCollectionName)
		return map[string]int{}, nil
	}

	result := make(map[string]int)
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Skeleton().CollectionBones(deformCollectionName) {
			count := 0
			for _, constraint := range bone.Constraints() {
				if constraint.Driver == nil {
					continue
				}
				constraint.Driver = nil
				count++
			}
			if count > 0 {
				result[bone.Name()] = count
			}
		}
		return nil
	})
	return result, err
}

// evaluateConstraintInfluenceDrivers はドライバ式を評価し、各拘束の影響度へ
// 反映する。参照先プロパティが未設定の場合は 1.0 とみなす。
func evaluateConstraintInfluenceDrivers(rigSkeleton *rig.Skeleton) (int, error) {
	applied := 0
	err := rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Bones() {
			for _, constraint := range bone.Constraints() {
				if constraint.Driver == nil {
					continue
				}
				driver := constraint.Driver
				value, ok := pc.Skeleton().Property(driver.PropertyKey)
				if !ok {
					value = 1.0
				}
				expression, err := govaluate.NewEvaluableExpression(driver.Expression)
				if err != nil {
					return fmt.Errorf("ドライバ式の解析に失敗しました (%s): %w", driver.Expression, err)
				}
				evaluated, err := expression.Evaluate(map[string]interface{}{
					driver.Variable: value,
				})
				if err != nil {
					return fmt.Errorf("ドライバ式の評価に失敗しました (%s): %w", driver.Expression, err)
				}
				influence, ok := evaluated.(float64)
				if !ok {
					return fmt.Errorf("ドライバ式の結果が数値ではありません (%s): %v", driver.Expression, evaluated)
				}
				constraint.Influence = influence
				applied++
			}
		}
		return nil
	})
	return applied, err
}
