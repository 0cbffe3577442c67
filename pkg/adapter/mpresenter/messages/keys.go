// 指示: miu200521358
// Package messages は表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。実際の文面は mi18n の翻訳表が持つ。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "使い方説明"

	LabelFile         = "ファイル"
	LabelVrmPath      = "VRM入力"
	LabelVrmPathTip   = "VRM入力説明"
	LabelRigPath      = "リグ出力"
	LabelRigPathTip   = "リグ出力説明"
	LabelGraphPath    = "グラフ出力"
	LabelGraphPathTip = "グラフ出力説明"
	LabelConvert      = "変換開始"
	LabelConvertTip   = "変換開始説明"

	MessageLoadFailed       = "読み込み失敗"
	MessageSaveFailed       = "保存失敗"
	MessageConvertFailed    = "変換失敗"
	MessageInputRequired    = "VRM未指定"
	MessageGeneratorMissing = "リグ生成器未検出"

	LogLoadSuccess    = "VRM読み込み成功"
	LogConvertSuccess = "リグ変換成功"
	LogSaveSuccess    = "リグ書き出し成功"
	LogGraphSuccess   = "骨格グラフ出力成功"
)
