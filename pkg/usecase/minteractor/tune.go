// 指示: miu200521358
package minteractor

import (
	"regexp"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// limbRootBonePatterns は回転軸を X 軸へ寄せる腕・脚の根元ボーン。
var limbRootBonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^upper_arm\.(L|R)$`),
	regexp.MustCompile(`^thigh\.(L|R)$`),
}

// fingerRootBonePatterns は主回転軸を左右で振り分ける指の根元ボーン。
var fingerRootBonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^f_pinky\.01\.(L|R)$`),
	regexp.MustCompile(`^f_ring\.01\.(L|R)$`),
	regexp.MustCompile(`^f_middle\.01\.(L|R)$`),
	regexp.MustCompile(`^f_index\.01\.(L|R)$`),
	regexp.MustCompile(`^thumb\.01\.(L|R)$`),
}

// singleSegmentLimbBoneNames はセグメント数を 1 に落とす腕・脚ボーン。
var singleSegmentLimbBoneNames = []string{
	"upper_arm.R",
	"upper_arm.L",
	"thigh.R",
	"thigh.L",
}

// tuneTemplateRotationAxes は腕・脚・指の生成パラメータの回転軸を調整する。
func tuneTemplateRotationAxes(template *rig.Skeleton) error {
	return template.PoseScope(func(pc *rig.PoseContext) error {
		for _, name := range matchBoneNames(pc.Skeleton(), limbRootBonePatterns...) {
			bone, err := pc.GetByName(name)
			if err != nil {
				return err
			}
			bone.RotationAxis = "x"
		}
		for _, name := range matchBoneNames(pc.Skeleton(), fingerRootBonePatterns...) {
			bone, err := pc.GetByName(name)
			if err != nil {
				return err
			}
			if strings.HasSuffix(name, "L") {
				bone.PrimaryRotationAxis = "Z"
			} else {
				bone.PrimaryRotationAxis = "-Z"
			}
		}
		return nil
	})
}

// tuneTemplateArmRolls は腕・手・指ボーンのロール角を調整する。
// 条件は排他ではなく、後の条件が前の結果を上書きする。
func tuneTemplateArmRolls(template *rig.Skeleton) error {
	return template.EditScope(func(ec *rig.EditContext) error {
		for _, bone := range ec.Bones() {
			name := bone.Name()
			if strings.HasPrefix(name, "f_") && strings.Contains(name, ".L") {
				bone.Roll = mmath.DegToRad(-90)
			}
			if strings.HasPrefix(name, "f_") && strings.Contains(name, ".R") {
				bone.Roll = mmath.DegToRad(90)
			}
			if strings.HasPrefix(name, "thumb") {
				bone.Roll = 0
			}
			if (strings.Contains(name, "arm") || strings.Contains(name, "hand")) &&
				strings.Contains(name, ".L") {
				bone.Roll = mmath.DegToRad(90)
			}
			if (strings.Contains(name, "arm") || strings.Contains(name, "hand")) &&
				strings.Contains(name, ".R") {
				bone.Roll = mmath.DegToRad(-90)
			}
		}
		return nil
	})
}

// tuneTemplateLimbSegments は腕・脚の生成セグメント数を 1 に落とす。
// 対象ボーンがなければ何もしない。
func tuneTemplateLimbSegments(template *rig.Skeleton) error {
	return template.PoseScope(func(pc *rig.PoseContext) error {
		for _, name := range singleSegmentLimbBoneNames {
			bone, err := pc.GetByName(name)
			if err != nil {
				continue
			}
			bone.Segments = 1
		}
		return nil
	})
}
