// 指示: miu200521358
package mi18n

// messagesJa は日本語の翻訳文。キーは画面やログで使う論理名。
var messagesJa = map[string]string{
	"使い方":       "使い方",
	"使い方説明":     "VRMファイルの人型アバターをRigify互換の制御リグへ変換します。",
	"ファイル":      "ファイル",
	"VRM入力":     "VRM入力",
	"VRM入力説明":   "変換するVRMファイルのパスを指定します。",
	"リグ出力":      "リグ出力",
	"リグ出力説明":    "変換結果のリグ書き出しファイル(.json)のパスを指定します。",
	"グラフ出力":     "グラフ出力",
	"グラフ出力説明":   "骨格グラフ(dot/svg)の出力先を指定します。",
	"変換開始":      "変換開始",
	"変換開始説明":    "読み込んだアバターの変換を開始します。",
	"読み込み失敗":    "読み込みに失敗しました",
	"保存失敗":      "保存に失敗しました",
	"変換失敗":      "変換に失敗しました",
	"VRM未指定":    "VRMファイルを指定してください",
	"リグ生成器未検出":  "リグ生成器が見つかりません",
	"VRM読み込み成功": "VRM読み込み成功: {Path}",
	"リグ変換成功":    "リグ変換成功: {Name} (ボーン {BoneCount})",
	"リグ書き出し成功":  "リグ書き出し成功: {Path}",
	"骨格グラフ出力成功": "骨格グラフ出力成功: {Path}",
}

// messagesEn は英語の翻訳文。
var messagesEn = map[string]string{
	"使い方":       "Usage",
	"使い方説明":     "Converts a VRM humanoid avatar into a Rigify compatible control rig.",
	"ファイル":      "File",
	"VRM入力":     "VRM input",
	"VRM入力説明":   "Path of the VRM file to convert.",
	"リグ出力":      "Rig output",
	"リグ出力説明":    "Path of the rig dump file (.json) to write.",
	"グラフ出力":     "Graph output",
	"グラフ出力説明":   "Destination of the skeleton graph (dot/svg).",
	"変換開始":      "Convert",
	"変換開始説明":    "Starts converting the loaded avatar.",
	"読み込み失敗":    "Failed to load",
	"保存失敗":      "Failed to save",
	"変換失敗":      "Failed to convert",
	"VRM未指定":    "Specify a VRM file",
	"リグ生成器未検出":  "No rig generator is available",
	"VRM読み込み成功": "VRM loaded: {Path}",
	"リグ変換成功":    "Rig converted: {Name} ({BoneCount} bones)",
	"リグ書き出し成功":  "Rig dump written: {Path}",
	"骨格グラフ出力成功": "Skeleton graph written: {Path}",
}
