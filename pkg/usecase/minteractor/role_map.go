// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// BonePair はテンプレートボーンと入力ボーンの対応。
type BonePair struct {
	// TemplateBoneName はテンプレート側のボーン名。
	TemplateBoneName string
	// SourceBoneName は入力側のボーン名(標準化後)。
	SourceBoneName string
}

// buildRoleCorrespondence は人型ロールを介してテンプレートと入力の対応を組み立てる。
// 両骨格でロールが束縛済みであり、入力側のボーン名が空でない組だけが対象。
// 対応はロールの列挙順に並ぶ。
func buildRoleCorrespondence(template, source *rig.Skeleton) []BonePair {
	pairs := make([]BonePair, 0, len(rig.AllRoles()))
	for _, role := range rig.AllRoles() {
		templateName, ok := template.RoleBoneName(role)
		if !ok {
			continue
		}
		sourceName, ok := source.RoleBoneName(role)
		if !ok || sourceName == "" {
			mlog.D("入力側にロール %s の割当がないため対応から除外します", role)
			continue
		}
		pairs = append(pairs, BonePair{
			TemplateBoneName: templateName,
			SourceBoneName:   sourceName,
		})
	}
	return pairs
}

// pairedTemplateNames は対応済みテンプレートボーン名の集合を返す。
func pairedTemplateNames(pairs []BonePair) map[string]struct{} {
	names := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		names[pair.TemplateBoneName] = struct{}{}
	}
	return names
}

// pairedSourceNames は対応済み入力ボーン名の集合を返す。
func pairedSourceNames(pairs []BonePair) map[string]struct{} {
	names := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		names[pair.SourceBoneName] = struct{}{}
	}
	return names
}
