// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/params"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// ModelData は変換対象のアバターモデルを表す。
type ModelData = rig.Model

// ConvertProgressEventType は変換処理の進捗イベント種別を表す。
type ConvertProgressEventType string

const (
	// ConvertProgressEventTypeLoaded は入力モデル読み込み完了イベントを表す。
	ConvertProgressEventTypeLoaded ConvertProgressEventType = "loaded"
	// ConvertProgressEventTypeNamesStandardized はボーン名標準化完了イベントを表す。
	ConvertProgressEventTypeNamesStandardized ConvertProgressEventType = "names_standardized"
	// ConvertProgressEventTypeTemplateCreated はテンプレート骨格生成完了イベントを表す。
	ConvertProgressEventTypeTemplateCreated ConvertProgressEventType = "template_created"
	// ConvertProgressEventTypeCorrespondenceBuilt は部位対応表構築完了イベントを表す。
	ConvertProgressEventTypeCorrespondenceBuilt ConvertProgressEventType = "correspondence_built"
	// ConvertProgressEventTypeTemplatePruned はテンプレート刈り込み完了イベントを表す。
	ConvertProgressEventTypeTemplatePruned ConvertProgressEventType = "template_pruned"
	// ConvertProgressEventTypeTemplateAligned はテンプレート位置合わせ完了イベントを表す。
	ConvertProgressEventTypeTemplateAligned ConvertProgressEventType = "template_aligned"
	// ConvertProgressEventTypeTemplateTuned はテンプレート形状調整完了イベントを表す。
	ConvertProgressEventTypeTemplateTuned ConvertProgressEventType = "template_tuned"
	// ConvertProgressEventTypeRigGenerated は制御リグ生成完了イベントを表す。
	ConvertProgressEventTypeRigGenerated ConvertProgressEventType = "rig_generated"
	// ConvertProgressEventTypeFacialBonesRemoved は顔ボーン削除完了イベントを表す。
	ConvertProgressEventTypeFacialBonesRemoved ConvertProgressEventType = "facial_bones_removed"
	// ConvertProgressEventTypeDeformBonesRenamed は変形ボーン改名完了イベントを表す。
	ConvertProgressEventTypeDeformBonesRenamed ConvertProgressEventType = "deform_bones_renamed"
	// ConvertProgressEventTypeUnmappedBonesGrafted は未対応ボーン移植完了イベントを表す。
	ConvertProgressEventTypeUnmappedBonesGrafted ConvertProgressEventType = "unmapped_bones_grafted"
	// ConvertProgressEventTypeShapeKeysCarried は表情制御引き継ぎ完了イベントを表す。
	ConvertProgressEventTypeShapeKeysCarried ConvertProgressEventType = "shape_keys_carried"
	// ConvertProgressEventTypeEyeControlsAdjusted は目制御ボーン調整完了イベントを表す。
	ConvertProgressEventTypeEyeControlsAdjusted ConvertProgressEventType = "eye_controls_adjusted"
	// ConvertProgressEventTypeIkPolished はIK仕上げ完了イベントを表す。
	ConvertProgressEventTypeIkPolished ConvertProgressEventType = "ik_polished"
	// ConvertProgressEventTypeMeshesTransferred はメッシュ引き継ぎ完了イベントを表す。
	ConvertProgressEventTypeMeshesTransferred ConvertProgressEventType = "meshes_transferred"
	// ConvertProgressEventTypeHierarchyAdjusted は出力向け階層調整完了イベントを表す。
	ConvertProgressEventTypeHierarchyAdjusted ConvertProgressEventType = "hierarchy_adjusted"
	// ConvertProgressEventTypeNamesRestored は元ボーン名復元完了イベントを表す。
	ConvertProgressEventTypeNamesRestored ConvertProgressEventType = "names_restored"
	// ConvertProgressEventTypeDriversConfigured は拘束ドライバ設定完了イベントを表す。
	ConvertProgressEventTypeDriversConfigured ConvertProgressEventType = "drivers_configured"
	// ConvertProgressEventTypeMetadataCarried は付帯情報引き継ぎ完了イベントを表す。
	ConvertProgressEventTypeMetadataCarried ConvertProgressEventType = "metadata_carried"
	// ConvertProgressEventTypeCompleted は変換完了イベントを表す。
	ConvertProgressEventTypeCompleted ConvertProgressEventType = "completed"
)

// ConvertProgressEvent は変換処理の進捗イベントを表す。
type ConvertProgressEvent struct {
	Type            ConvertProgressEventType
	BoneCount       int
	PairCount       int
	RemovedCount    int
	RenamedCount    int
	GraftedCount    int
	ConstraintCount int
	MeshCount       int
}

// IConvertProgressReporter は変換処理の進捗通知契約を表す。
type IConvertProgressReporter interface {
	// ReportConvertProgress は変換進捗を通知する。
	ReportConvertProgress(event ConvertProgressEvent)
}

func reportConvertProgress(reporter IConvertProgressReporter, event ConvertProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportConvertProgress(event)
}

// ConvertRequest はリグ変換要求を表す。
type ConvertRequest struct {
	InputPath        string
	RigName          string
	Options          params.Options
	ProgressReporter IConvertProgressReporter
}

// ConvertSummary は変換処理各段の集計を表す。
type ConvertSummary struct {
	PairCount          int
	PalmRemovedCount   int
	PrunedCount        int
	KeptUnmappedCount  int
	AlignedCount       int
	FacialRemovedCount int
	DeformRenamedCount int
	GraftedCount       int
	EyeAdjusted        bool
	IkStretchDisabled  int
	PoleTogglesShown   int
	MeshCount          int
	ReparentedCount    int
	EyeConstraintCount int
	DriverCount        int
	MetadataCarried    bool
}

// ConvertResult はリグ変換結果を表す。
type ConvertResult struct {
	Source      *ModelData
	Template    *rig.Skeleton
	Rig         *rig.Skeleton
	Meshes      []*rig.MeshBinding
	Restoration *NameRestorationMap
	Summary     ConvertSummary
}
