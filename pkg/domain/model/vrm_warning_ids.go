// 指示: miu200521358
package model

const (
	// VrmWarningRawExtensionKey は変換時警告ID集合を保持する付帯情報のキー。
	VrmWarningRawExtensionKey = "MU_VRM2RIGIFY_warnings"

	// VrmWarningHumanoidMissing はヒューマノイド定義不足警告。
	VrmWarningHumanoidMissing = "VrmWarningHumanoidMissing"
	// VrmWarningUnknownHumanoidRole はヒューマノイド部位名未知警告。
	VrmWarningUnknownHumanoidRole = "VrmWarningUnknownHumanoidRole"
	// VrmWarningDuplicateNodeName はノード名重複の改名警告。
	VrmWarningDuplicateNodeName = "VrmWarningDuplicateNodeName"
	// VrmWarningHumanoidNodeUnresolved はヒューマノイド参照ノード不明警告。
	VrmWarningHumanoidNodeUnresolved = "VrmWarningHumanoidNodeUnresolved"
	// VrmWarningThumbnailDecodeFailed はサムネイル画像の解釈失敗警告。
	VrmWarningThumbnailDecodeFailed = "VrmWarningThumbnailDecodeFailed"
	// VrmWarningSpringReferenceMissing は揺れ物参照先不明警告。
	VrmWarningSpringReferenceMissing = "VrmWarningSpringReferenceMissing"
	// VrmWarningExpressionBindSkipped は表情バインド引き継ぎ不可警告。
	VrmWarningExpressionBindSkipped = "VrmWarningExpressionBindSkipped"
	// VrmWarningMetaSectionSkipped はメタ情報区画の引き継ぎ失敗警告。
	VrmWarningMetaSectionSkipped = "VrmWarningMetaSectionSkipped"
	// VrmWarningSkinJointUnresolved はスキン関節参照不明警告。
	VrmWarningSkinJointUnresolved = "VrmWarningSkinJointUnresolved"
	// VrmWarningLegacyLayerFallback はコレクション未対応ホストのレイヤー引き継ぎ警告。
	VrmWarningLegacyLayerFallback = "VrmWarningLegacyLayerFallback"
)
