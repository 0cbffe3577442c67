// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// templateSkeletonName はテンプレート骨格の既定名。
const templateSkeletonName = "metarig"

// preparedContext はリグ生成前までに組み立てた中間成果。
type preparedContext struct {
	Template      *rig.Skeleton
	Pairs         []BonePair
	Restoration   *NameRestorationMap
	OriginalNames []string
	Prune         pruneSummary
	AlignedCount  int
}

// prepareTemplate は入力モデルのボーン名標準化からテンプレート骨格の調整までを
// まとめて行い、リグ生成に渡せる状態のテンプレートを返す。
func (uc *RigifyUsecase) prepareTemplate(
	source *ModelData,
	request ConvertRequest,
) (*preparedContext, error) {
	restoration, originalNames, err := standardizeSourceNames(source.Skeleton, uc.nameStandardizer)
	if err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeNamesStandardized,
	})

	template, err := uc.rigGenerator.NewTemplate(templateSkeletonName)
	if err != nil {
		return nil, fmt.Errorf("テンプレート骨格の生成に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeTemplateCreated,
		BoneCount: template.Len(),
	})

	pairs := buildRoleCorrespondence(template, source.Skeleton)
	mlog.I("部位対応を構築しました: %d 組", len(pairs))
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeCorrespondenceBuilt,
		PairCount: len(pairs),
	})

	pruneResult, err := pruneTemplateBones(template, pairs)
	if err != nil {
		return nil, fmt.Errorf("テンプレートの刈り込みに失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:         ConvertProgressEventTypeTemplatePruned,
		RemovedCount: pruneResult.PalmRemoved + pruneResult.Removed,
	})

	aligned, err := alignTemplateToSource(template, source.Skeleton, pairs)
	if err != nil {
		return nil, fmt.Errorf("テンプレートの位置合わせに失敗しました: %w", err)
	}
	if err := adjustTemplateSpineJunction(template); err != nil {
		return nil, fmt.Errorf("首付け根の調整に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeTemplateAligned,
		PairCount: aligned,
	})

	if err := tuneTemplateRotationAxes(template); err != nil {
		return nil, fmt.Errorf("回転軸の調整に失敗しました: %w", err)
	}
	if err := tuneTemplateArmRolls(template); err != nil {
		return nil, fmt.Errorf("ロール角の調整に失敗しました: %w", err)
	}
	if err := tuneTemplateLimbSegments(template); err != nil {
		return nil, fmt.Errorf("セグメント数の調整に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeTemplateTuned,
	})

	return &preparedContext{
		Template:      template,
		Pairs:         pairs,
		Restoration:   restoration,
		OriginalNames: originalNames,
		Prune:         pruneResult,
		AlignedCount:  aligned,
	}, nil
}
