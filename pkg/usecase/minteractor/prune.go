// 指示: miu200521358
package minteractor

import (
	"regexp"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// palmBonePattern は手のひらボーン名のパターン。対応の有無に関わらず削除する。
var palmBonePattern = regexp.MustCompile(`^palm.*$`)

type pruneSummary struct {
	// PalmRemoved は削除した手のひらボーン数。
	PalmRemoved int
	// Removed は削除した未対応ボーン数。
	Removed int
	// KeptUnmapped は未対応のまま残したボーン数。
	KeptUnmapped int
}

// matchBoneNames はいずれかのパターンに一致するボーン名を骨格の並び順で返す。
func matchBoneNames(skeleton *rig.Skeleton, patterns ...*regexp.Regexp) []string {
	var matched []string
	for _, name := range skeleton.BoneNames() {
		for _, pattern := range patterns {
			if pattern.MatchString(name) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched
}

// pruneTemplateBones はテンプレートから不要ボーンを削る。
// 手のひらボーンは無条件に削除。未対応ボーンのうち骨盤・胸・spine.003 は
// 削除し、それ以外は警告を出して残す。
func pruneTemplateBones(template *rig.Skeleton, pairs []BonePair) (pruneSummary, error) {
	summary := pruneSummary{}
	mapped := pairedTemplateNames(pairs)

	err := template.EditScope(func(ec *rig.EditContext) error {
		for _, name := range matchBoneNames(ec.Skeleton(), palmBonePattern) {
			bone, err := ec.GetByName(name)
			if err != nil {
				return err
			}
			if err := ec.Delete(bone); err != nil {
				return err
			}
			summary.PalmRemoved++
		}

		for _, name := range ec.Skeleton().BoneNames() {
			if _, ok := mapped[name]; ok {
				continue
			}
			switch name {
			case "pelvis.L", "pelvis.R", "breast.L", "breast.R", "spine.003":
				bone, err := ec.GetByName(name)
				if err != nil {
					return err
				}
				if err := ec.Delete(bone); err != nil {
					return err
				}
				summary.Removed++
			default:
				mlog.W("対応のないテンプレートボーンを残します: %s", name)
				summary.KeptUnmapped++
			}
		}
		return nil
	})
	return summary, err
}
