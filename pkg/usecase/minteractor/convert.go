// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/usecase/port/moutput"
)

// defaultRigName は生成リグの既定名。
const defaultRigName = "rig"

// RigifyUsecaseDeps はリグ変換ユースケースの依存を表す。
type RigifyUsecaseDeps struct {
	ModelReader      moutput.IModelReader
	NameStandardizer moutput.INameStandardizer
	RigGenerator     moutput.IRigGenerator
}

// RigifyUsecase は人型アバターから制御リグへの変換処理をまとめたユースケースを表す。
type RigifyUsecase struct {
	modelReader      moutput.IModelReader
	nameStandardizer moutput.INameStandardizer
	rigGenerator     moutput.IRigGenerator
}

// NewRigifyUsecase はリグ変換ユースケースを生成する。
func NewRigifyUsecase(deps RigifyUsecaseDeps) *RigifyUsecase {
	return &RigifyUsecase{
		modelReader:      deps.ModelReader,
		nameStandardizer: deps.NameStandardizer,
		rigGenerator:     deps.RigGenerator,
	}
}

// LoadModel は入力モデルを読み込む。
func (uc *RigifyUsecase) LoadModel(reader moutput.IModelReader, path string) (*ModelData, error) {
	repo := reader
	if repo == nil {
		repo = uc.modelReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モデル読み込みリポジトリが設定されていません")
	}
	if !repo.CanLoad(path) {
		return nil, merr.NewIoExtInvalid(path, ".vrm")
	}
	return repo.Load(path)
}

// Convert は人型アバターを読み込み、制御リグ一式へ変換する。
func (uc *RigifyUsecase) Convert(request ConvertRequest) (*ConvertResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力モデルパスが未指定です")
	}
	if err := request.Options.Validate(); err != nil {
		return nil, err
	}
	if uc.rigGenerator == nil {
		return nil, fmt.Errorf("%w: リグ生成器が設定されていません", merr.GeneratorUnavailableError)
	}
	capability := uc.rigGenerator.Capability()
	if !capability.RigGeneration {
		return nil, fmt.Errorf("%w: この環境ではリグを生成できません", merr.GeneratorUnavailableError)
	}

	rigName := strings.TrimSpace(request.RigName)
	if rigName == "" {
		rigName = defaultRigName
	}

	source, err := uc.LoadModel(nil, request.InputPath)
	if err != nil {
		return nil, err
	}
	if source == nil || source.Skeleton == nil {
		return nil, fmt.Errorf("モデル読み込み結果が空です")
	}
	mlog.ILT("読込", "入力モデル: %s (ボーン %d / メッシュ %d)",
		source.Name, source.Skeleton.Len(), len(source.Meshes))
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeLoaded,
		BoneCount: source.Skeleton.Len(),
		MeshCount: len(source.Meshes),
	})

	prepared, err := uc.prepareTemplate(source, request)
	if err != nil {
		return nil, err
	}

	rigSkeleton, err := uc.rigGenerator.Generate(prepared.Template)
	if err != nil {
		return nil, fmt.Errorf("制御リグの生成に失敗しました: %w", err)
	}
	rigSkeleton.SetName(rigName)
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeRigGenerated,
		BoneCount: rigSkeleton.Len(),
	})

	facialRemoved, err := removeFacialBones(rigSkeleton)
	if err != nil {
		return nil, fmt.Errorf("顔ボーンの削除に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:         ConvertProgressEventTypeFacialBonesRemoved,
		RemovedCount: facialRemoved,
	})

	renamed, err := renameDeformBonesToSource(rigSkeleton, prepared.Pairs, prepared.Restoration)
	if err != nil {
		return nil, fmt.Errorf("変形ボーンの改名に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:         ConvertProgressEventTypeDeformBonesRenamed,
		RenamedCount: renamed,
	})

	grafted, err := graftUnmappedSourceBones(rigSkeleton, source.Skeleton, prepared.Restoration, capability)
	if err != nil {
		return nil, fmt.Errorf("未対応ボーンの移植に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:         ConvertProgressEventTypeUnmappedBonesGrafted,
		GraftedCount: grafted,
	})

	if _, err := carryShapeKeyControls(source.Skeleton, rigSkeleton); err != nil {
		return nil, fmt.Errorf("表情制御の引き継ぎに失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeShapeKeysCarried,
	})

	eyeAdjusted, err := adjustEyeControlBones(rigSkeleton)
	if err != nil {
		return nil, fmt.Errorf("目制御ボーンの調整に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeEyeControlsAdjusted,
	})

	ikDisabled, err := disableIkStretching(rigSkeleton)
	if err != nil {
		return nil, fmt.Errorf("IK ストレッチの無効化に失敗しました: %w", err)
	}
	poleShown, err := showIkPoleToggles(rigSkeleton, capability)
	if err != nil {
		return nil, fmt.Errorf("IK ポール切替の表示に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeIkPolished,
	})

	meshes, err := transferMeshesToRig(source, rigSkeleton, prepared.Restoration)
	if err != nil {
		return nil, fmt.Errorf("メッシュの引き継ぎに失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeMeshesTransferred,
		MeshCount: len(meshes),
	})

	reparented, eyeConstraints, err := adjustHierarchyForUnity(rigSkeleton)
	if err != nil {
		return nil, fmt.Errorf("出力向け階層調整に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:            ConvertProgressEventTypeHierarchyAdjusted,
		ConstraintCount: eyeConstraints,
	})

	restored, err := restoreSourceBoneNames(source.Skeleton, prepared.OriginalNames)
	if err != nil {
		return nil, fmt.Errorf("ボーン名の復元に失敗しました: %w", err)
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:         ConvertProgressEventTypeNamesRestored,
		RenamedCount: restored,
	})

	driverCount := 0
	if request.Options.SetupConstraintDrivers {
		added, err := addConstraintInfluenceDrivers(rigSkeleton, capability)
		if err != nil {
			return nil, fmt.Errorf("拘束ドライバの設定に失敗しました: %w", err)
		}
		applied, err := evaluateConstraintInfluenceDrivers(rigSkeleton)
		if err != nil {
			return nil, fmt.Errorf("拘束ドライバの反映に失敗しました: %w", err)
		}
		for _, count := range added {
			driverCount += count
		}
		mlog.I("拘束ドライバを設定しました: %d 件 (反映 %d 件)", driverCount, applied)
		reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
			Type:            ConvertProgressEventTypeDriversConfigured,
			ConstraintCount: driverCount,
		})
	}

	if request.Options.MuteDeformConstraints {
		if _, err := toggleDeformConstraintMutes(rigSkeleton, true); err != nil {
			return nil, fmt.Errorf("拘束の無効化に失敗しました: %w", err)
		}
	}

	metadataCarried := false
	if request.Options.CopyAvatarSettings {
		carried, err := copyAvatarExtension(source.Skeleton, source.Meshes, rigSkeleton, meshes)
		if err != nil {
			return nil, fmt.Errorf("付帯情報の引き継ぎに失敗しました: %w", err)
		}
		metadataCarried = carried
		reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
			Type: ConvertProgressEventTypeMetadataCarried,
		})
	}

	if request.Options.HideTemplate {
		prepared.Template.Hidden = true
	}
	if request.Options.HideOriginal {
		source.Skeleton.Hidden = true
		for _, mesh := range source.Meshes {
			mesh.Hidden = true
		}
	}

	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:      ConvertProgressEventTypeCompleted,
		BoneCount: rigSkeleton.Len(),
	})
	mlog.ILT("完了", "制御リグ: %s (ボーン %d)", rigSkeleton.Name(), rigSkeleton.Len())

	return &ConvertResult{
		Source:      source,
		Template:    prepared.Template,
		Rig:         rigSkeleton,
		Meshes:      meshes,
		Restoration: prepared.Restoration,
		Summary: ConvertSummary{
			PairCount:          len(prepared.Pairs),
			PalmRemovedCount:   prepared.Prune.PalmRemoved,
			PrunedCount:        prepared.Prune.Removed,
			KeptUnmappedCount:  prepared.Prune.KeptUnmapped,
			AlignedCount:       prepared.AlignedCount,
			FacialRemovedCount: facialRemoved,
			DeformRenamedCount: renamed,
			GraftedCount:       grafted,
			EyeAdjusted:        eyeAdjusted,
			IkStretchDisabled:  ikDisabled,
			PoleTogglesShown:   poleShown,
			MeshCount:          len(meshes),
			ReparentedCount:    reparented,
			EyeConstraintCount: eyeConstraints,
			DriverCount:        driverCount,
			MetadataCarried:    metadataCarried,
		},
	}, nil
}
