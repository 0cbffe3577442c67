// 指示: miu200521358
package rig

// Capability はホスト環境が提供する機能の有無。版数分岐の代わりに
// 参照する。
type Capability struct {
	// BoneCollections は名前付きボーンコレクションの可否。
	// 偽の場合はレイヤービットマスクで所属を引き継ぐ。
	BoneCollections bool
	// EditSelectOnly はボーン選択操作が編集スコープ限定かどうか。
	EditSelectOnly bool
	// PropertyUI はカスタムプロパティ表示メタデータの設定可否。
	PropertyUI bool
	// RigGeneration はリグ生成機能の有無。
	RigGeneration bool
}

// DefaultCapability は現行ホスト相当の機能一式を返す。
func DefaultCapability() Capability {
	return Capability{
		BoneCollections: true,
		EditSelectOnly:  false,
		PropertyUI:      true,
		RigGeneration:   true,
	}
}
