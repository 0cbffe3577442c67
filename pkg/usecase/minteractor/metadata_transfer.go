// 指示: miu200521358
package minteractor

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// ensureExtension はリグ側の付帯情報を用意する。
func ensureExtension(skeleton *rig.Skeleton) *rig.AvatarExtension {
	if skeleton.Extension == nil {
		skeleton.Extension = &rig.AvatarExtension{}
	}
	return skeleton.Extension
}

// copyRawSection は生のままの区画を複製して引き継ぐ。区画がなければ何もしない。
func copyRawSection(source, target *rig.AvatarExtension, key string) bool {
	raw, ok := source.RawSections[key]
	if !ok {
		return false
	}
	if target.RawSections == nil {
		target.RawSections = make(map[string]json.RawMessage)
	}
	target.RawSections[key] = append(json.RawMessage(nil), raw...)
	return true
}

// carryShapeKeyControls は表情のシェイプキー制御情報をリグへ引き継ぐ。
// メッシュと一緒に移さないと表情が失われるため、常に実行する。
func carryShapeKeyControls(source, rigSkeleton *rig.Skeleton) (int, error) {
	if source.Extension == nil {
		mlog.W("入力モデルに付帯情報がないため表情制御の引き継ぎをスキップします")
		return 0, nil
	}
	target := ensureExtension(rigSkeleton)

	var expressions []rig.Expression
	if err := deepcopy.Copy(&expressions, source.Extension.Expressions); err != nil {
		return 0, err
	}
	target.Expressions = expressions

	copyRawSection(source.Extension, target, rig.RawSectionBlendShapeMaster)
	copyRawSection(source.Extension, target, rig.RawSectionExpressions)
	return len(expressions), nil
}

// buildMeshNameMapping は入力メッシュ名からリグ側メッシュ名への対応を作る。
func buildMeshNameMapping(sourceMeshes, rigMeshes []*rig.MeshBinding) map[string]string {
	mapping := make(map[string]string, len(sourceMeshes))
	for _, sourceMesh := range sourceMeshes {
		for _, rigMesh := range rigMeshes {
			if rigMesh.Name == sourceMesh.Name {
				mapping[sourceMesh.Name] = rigMesh.Name
				break
			}
		}
	}
	return mapping
}

// rebindHumanoidBindings は人型割当のうちリグに実在するボーンだけを残す。
// 見つからない割当は空欄にして警告する。
func rebindHumanoidBindings(
	bindings []rig.HumanoidBinding,
	rigSkeleton *rig.Skeleton,
) []rig.HumanoidBinding {
	rebound := make([]rig.HumanoidBinding, 0, len(bindings))
	for _, binding := range bindings {
		name := binding.BoneName
		if name != "" && !rigSkeleton.Contains(name) {
			mlog.W("リグに存在しないため人型割当を空にします: %s (%s)", name, binding.Role)
			name = ""
		}
		rebound = append(rebound, rig.HumanoidBinding{Role: binding.Role, BoneName: name})
	}
	return rebound
}

// copyAvatarExtension は入力モデルの付帯情報一式をリグへ引き継ぐ。
// メッシュの付け替えが済んでから呼ぶこと。区画ごとに独立してコピーし、
// 失敗した区画は警告して飛ばす。版数の引き継ぎは最後に行う。
func copyAvatarExtension(
	source *rig.Skeleton,
	sourceMeshes []*rig.MeshBinding,
	rigSkeleton *rig.Skeleton,
	rigMeshes []*rig.MeshBinding,
) (bool, error) {
	if source.Extension == nil {
		mlog.W("入力モデルに付帯情報がないため引き継ぎをスキップします")
		return false, nil
	}
	src := source.Extension
	target := ensureExtension(rigSkeleton)
	meshMapping := buildMeshNameMapping(sourceMeshes, rigMeshes)

	if err := deepcopy.Copy(&target.Meta0, &src.Meta0); err != nil {
		mlog.W("旧版メタ情報の引き継ぎに失敗しました: %v", err)
	}
	copyRawSection(src, target, rig.RawSectionBlendShapeMaster)

	target.HumanoidBindings0 = rebindHumanoidBindings(src.HumanoidBindings0, rigSkeleton)

	if src.SecondaryAnimation != nil {
		copied := &rig.SecondaryAnimation{}
		if err := deepcopy.Copy(copied, src.SecondaryAnimation); err != nil {
			mlog.W("旧版揺れ物設定の引き継ぎに失敗しました: %v", err)
		} else {
			target.SecondaryAnimation = copied
		}
	}

	if err := deepcopy.Copy(&target.Meta1, &src.Meta1); err != nil {
		mlog.W("新版メタ情報の引き継ぎに失敗しました: %v", err)
	}

	target.HumanoidBindings1 = rebindHumanoidBindings(src.HumanoidBindings1, rigSkeleton)

	var expressions []rig.Expression
	if err := deepcopy.Copy(&expressions, src.Expressions); err != nil {
		mlog.W("表情定義の引き継ぎに失敗しました: %v", err)
	} else {
		for i := range expressions {
			for j := range expressions[i].MorphBinds {
				if mapped, ok := meshMapping[expressions[i].MorphBinds[j].MeshName]; ok {
					expressions[i].MorphBinds[j].MeshName = mapped
				}
			}
		}
		target.Expressions = expressions
	}
	copyRawSection(src, target, rig.RawSectionExpressions)

	if src.LookAt != nil {
		copied := &rig.LookAt{}
		if err := deepcopy.Copy(copied, src.LookAt); err != nil {
			mlog.W("視線設定の引き継ぎに失敗しました: %v", err)
		} else {
			target.LookAt = copied
		}
	}

	if src.FirstPerson != nil {
		annotations := make([]rig.MeshAnnotation, 0, len(src.FirstPerson.MeshAnnotations))
		for _, annotation := range src.FirstPerson.MeshAnnotations {
			mapped, ok := meshMapping[annotation.MeshName]
			if !ok {
				continue
			}
			annotations = append(annotations, rig.MeshAnnotation{
				MeshName: mapped,
				Type:     annotation.Type,
			})
		}
		target.FirstPerson = &rig.FirstPerson{MeshAnnotations: annotations}
	}

	if src.SpringBone != nil {
		copied := &rig.SpringBone{}
		if err := deepcopy.Copy(copied, src.SpringBone); err != nil {
			mlog.W("新版揺れ物設定の引き継ぎに失敗しました: %v", err)
		} else {
			for i := range copied.Colliders {
				if copied.Colliders[i].UUID == "" {
					copied.Colliders[i].UUID = uuid.NewString()
				}
			}
			target.SpringBone = copied
		}
	}

	target.ExporterVersion = src.ExporterVersion
	target.SpecVersion = src.SpecVersion
	mlog.I("付帯情報を引き継ぎました: %s -> %s", source.Name(), rigSkeleton.Name())
	return true, nil
}
