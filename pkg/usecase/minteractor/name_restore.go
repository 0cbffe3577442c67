// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
	"github.com/miu200521358/mu_vrm2rigify/pkg/usecase/port/moutput"
)

const restoreTempBoneNameFormat = "__mu_vrm2rigify_bone_tmp_%03d"

// NameRestorationMap は標準化後のボーン名から元のボーン名への対応。
// 対応は標準化前後の並び位置で取る。改名処理がボーンの並びを保つことが前提。
type NameRestorationMap struct {
	byStandardized map[string]string
}

// BuildNameRestorationMap は標準化前後の名前列から復元対応を構築する。
// 両列の長さが一致しない場合はエラー。
func BuildNameRestorationMap(originalNames, standardizedNames []string) (*NameRestorationMap, error) {
	if len(originalNames) != len(standardizedNames) {
		return nil, fmt.Errorf("%w: 標準化前=%d 標準化後=%d",
			merr.ListLengthMismatchError, len(originalNames), len(standardizedNames))
	}
	byStandardized := make(map[string]string, len(standardizedNames))
	for i, standardized := range standardizedNames {
		byStandardized[standardized] = originalNames[i]
	}
	return &NameRestorationMap{byStandardized: byStandardized}, nil
}

// Restore は標準化後の名前に対応する元の名前を返す。
func (m *NameRestorationMap) Restore(standardized string) (string, bool) {
	if m == nil {
		return "", false
	}
	original, ok := m.byStandardized[standardized]
	return original, ok
}

// RestoreOrSame は元の名前があればそれを、なければ引数をそのまま返す。
func (m *NameRestorationMap) RestoreOrSame(standardized string) string {
	if original, ok := m.Restore(standardized); ok {
		return original
	}
	return standardized
}

// Len は対応の件数を返す。
func (m *NameRestorationMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byStandardized)
}

// standardizeSourceNames は入力骨格のボーン名を標準化し、復元対応を返す。
// 標準化前の名前列もあわせて返す(最終段の並び位置による復元に使う)。
func standardizeSourceNames(
	source *rig.Skeleton,
	standardizer moutput.INameStandardizer,
) (*NameRestorationMap, []string, error) {
	originalNames := source.BoneNames()
	if standardizer == nil {
		restoration, err := BuildNameRestorationMap(originalNames, originalNames)
		return restoration, originalNames, err
	}
	if err := standardizer.StandardizeNames(source); err != nil {
		return nil, nil, fmt.Errorf("ボーン名の標準化に失敗しました: %w", err)
	}
	standardizedNames := source.BoneNames()
	restoration, err := BuildNameRestorationMap(originalNames, standardizedNames)
	if err != nil {
		return nil, nil, err
	}
	mlog.D("ボーン名標準化: %d 件", restoration.Len())
	return restoration, originalNames, nil
}

// restoreSourceBoneNames は入力骨格のボーン名を標準化前の名前列へ戻す。
// 名前列より後ろのボーンは対象外。衝突回避のため一時名を経由する。
func restoreSourceBoneNames(source *rig.Skeleton, originalNames []string) (int, error) {
	restored := 0
	err := source.EditScope(func(ec *rig.EditContext) error {
		type plannedRestore struct {
			bone   *rig.Bone
			target string
		}
		var planned []plannedRestore
		for i, bone := range ec.Bones() {
			if i >= len(originalNames) {
				break
			}
			if bone.Name() == originalNames[i] {
				continue
			}
			planned = append(planned, plannedRestore{bone: bone, target: originalNames[i]})
		}

		serial := 0
		for _, p := range planned {
			if err := ec.Rename(p.bone, nextTemporaryBoneName(ec.Skeleton(), &serial)); err != nil {
				return err
			}
		}
		for _, p := range planned {
			if err := ec.Rename(p.bone, p.target); err != nil {
				mlog.W("ボーン名復元をスキップします: %s (%v)", p.target, err)
				continue
			}
			restored++
		}
		return nil
	})
	return restored, err
}

func nextTemporaryBoneName(skeleton *rig.Skeleton, serial *int) string {
	for {
		candidate := fmt.Sprintf(restoreTempBoneNameFormat, *serial)
		*serial++
		if !skeleton.Contains(candidate) {
			return candidate
		}
	}
}
