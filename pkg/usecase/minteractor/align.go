// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// alignTemplateToSource はテンプレートのワールド変換と各対応ボーンの
// 頭・末端位置を入力骨格に合わせる。どちらかのボーンが見つからない対応は
// 警告を出してスキップする。
func alignTemplateToSource(template, source *rig.Skeleton, pairs []BonePair) (int, error) {
	template.SetWorldTransform(source.WorldTransform())

	aligned := 0
	err := template.EditScope(func(ec *rig.EditContext) error {
		for _, pair := range pairs {
			templateBone, err := ec.GetByName(pair.TemplateBoneName)
			if err != nil {
				mlog.W("位置合わせをスキップします: %s (%v)", pair.TemplateBoneName, err)
				continue
			}
			sourceBone, err := source.GetByName(pair.SourceBoneName)
			if err != nil {
				mlog.W("位置合わせをスキップします: %s (%v)", pair.SourceBoneName, err)
				continue
			}
			templateBone.Selected = true
			templateBone.Head = sourceBone.Head
			templateBone.Tail = sourceBone.Tail
			aligned++
		}
		return nil
	})
	return aligned, err
}

// adjustTemplateSpineJunction は首の付け根ボーンを一度親へ接続してから
// 切断し、頭位置を親の末端へ揃える。
func adjustTemplateSpineJunction(template *rig.Skeleton) error {
	return template.EditScope(func(ec *rig.EditContext) error {
		bone, err := ec.GetByName("spine.004")
		if err != nil {
			return err
		}
		parent := bone.Parent()
		if parent == nil {
			mlog.W("spine.004 に親がないため接続調整をスキップします")
			return nil
		}
		// 接続すると頭位置が親の末端へ吸着する。切断後も位置は残る。
		bone.UseConnect = true
		bone.Head = parent.Tail
		bone.UseConnect = false
		return nil
	})
}
