// 指示: miu200521358
package minteractor

import (
	"fmt"
	"regexp"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// facialBonePatterns は生成リグから取り除く顔まわりのボーン名パターン。
// 人型アバターの表情はシェイプキーで制御するため顔リグは使わない。
var facialBonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(ORG|DEF)-forehead.*$`),
	regexp.MustCompile(`^(ORG|DEF)-temple.*$`),
	regexp.MustCompile(`^((ORG|DEF)-)?brow.*$`),
	regexp.MustCompile(`^((MCH|ORG|DEF)-)?lid\.(B|T).*$`),
	regexp.MustCompile(`^((ORG|DEF)-)?ear\.(L|R).*$`),
	regexp.MustCompile(`^((MCH|ORG|DEF)-)?tongue.*$`),
	regexp.MustCompile(`^((ORG|DEF)-)?chin.*$`),
	regexp.MustCompile(`^((ORG|DEF)-)?cheek\.(B|T).*$`),
	regexp.MustCompile(`^(ORG-)?teeth\.(B|T)$`),
	regexp.MustCompile(`^((ORG|DEF)-)?nose.*$`),
	regexp.MustCompile(`^((ORG|DEF)-)?lip.*$`),
	regexp.MustCompile(`^((MCH|ORG|DEF)-)?jaw.*$`),
	regexp.MustCompile(`^MCH-mouth_lock$`),
}

// removeFacialBones はパターンに一致するボーンとその子孫をまとめて削除する。
func removeFacialBones(rigSkeleton *rig.Skeleton) (int, error) {
	removed := 0
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		seen := make(map[*rig.Bone]struct{})
		var targets []*rig.Bone
		for _, name := range matchBoneNames(ec.Skeleton(), facialBonePatterns...) {
			root, err := ec.GetByName(name)
			if err != nil {
				return err
			}
			for _, bone := range append(root.ChildrenRecursive(), root) {
				if _, ok := seen[bone]; ok {
					continue
				}
				seen[bone] = struct{}{}
				targets = append(targets, bone)
			}
		}
		for _, bone := range targets {
			mlog.D("顔ボーンを削除します: %s", bone.FullPath())
			if err := ec.Delete(bone); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// renameDeformBonesToSource は生成リグの変形ボーンを入力モデルの頂点グループ名へ
// 改名する。目のボーンは ORG 側を変形対象に切り替えて使う。改名先のボーンが
// リグに残っていない対応(顔削除で消えた顎など)は警告して読み飛ばすが、変形
// フラグの立っていない DEF ボーンは不整合としてエラーを返す。
func renameDeformBonesToSource(
	rigSkeleton *rig.Skeleton,
	pairs []BonePair,
	restoration *NameRestorationMap,
) (int, error) {
	renamed := 0
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		for _, pair := range pairs {
			var deformBone *rig.Bone
			switch pair.TemplateBoneName {
			case "eye.L", "eye.R":
				bone, err := ec.GetByName("ORG-" + pair.TemplateBoneName)
				if err != nil {
					mlog.W("改名対象のリグボーンが見つかりません: ORG-%s", pair.TemplateBoneName)
					continue
				}
				bone.UseDeform = true
				deformBone = bone
			default:
				bone, err := ec.GetByName("DEF-" + pair.TemplateBoneName)
				if err != nil {
					mlog.W("改名対象のリグボーンが見つかりません: DEF-%s", pair.TemplateBoneName)
					continue
				}
				if !bone.UseDeform {
					return fmt.Errorf("%w: %s", merr.DeformFlagUnsetError, bone.Name())
				}
				deformBone = bone
			}

			targetName := restoration.RestoreOrSame(pair.SourceBoneName)
			mlog.D("リグボーンを改名します: %s -> %s", deformBone.FullPath(), targetName)
			if err := ec.Rename(deformBone, targetName); err != nil {
				return err
			}
			renamed++
		}

		for _, bone := range ec.Bones() {
			if bone.Name() == "root" {
				if err := ec.Rename(bone, "Root"); err != nil {
					return err
				}
				break
			}
		}
		return nil
	})
	return renamed, err
}

// graftUnmappedSourceBones はリグに存在しない入力ボーン(髪・衣装・揺れもの等)を
// リグへ移植する。親がリグに見つかるボーンだけが対象で、一回の走査で済ませる。
// 親より先に並ぶ孫ボーンは移植されないことがある。
func graftUnmappedSourceBones(
	rigSkeleton, source *rig.Skeleton,
	restoration *NameRestorationMap,
	capability rig.Capability,
) (int, error) {
	grafted := 0
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		for _, sourceBone := range source.Bones() {
			originalName := restoration.RestoreOrSame(sourceBone.Name())
			if ec.Skeleton().Contains(originalName) {
				continue
			}
			parent := sourceBone.Parent()
			if parent == nil {
				continue
			}
			parentInRig, err := ec.GetByName(restoration.RestoreOrSame(parent.Name()))
			if err != nil {
				continue
			}

			mlog.D("リグへボーンを移植します: %s/%s", parentInRig.FullPath(), originalName)
			created, err := ec.Create(originalName)
			if err != nil {
				return err
			}
			created.Head = sourceBone.Head
			created.Tail = sourceBone.Tail
			if err := ec.SetParent(created, parentInRig); err != nil {
				return err
			}
			grafted++

			if !capability.BoneCollections {
				mlog.D("ボーンコレクション非対応のためレイヤーを引き継ぎます: %s", originalName)
				created.Layers = parentInRig.Layers
				continue
			}
			for _, collectionName := range parentInRig.CollectionNames() {
				created.AssignCollection(collectionName)
			}
		}
		return nil
	})
	return grafted, err
}
