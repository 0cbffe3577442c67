// 指示: miu200521358
package moutput

import "github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"

// IModelReader はアバターモデルの読み込み契約を表す。
type IModelReader interface {
	// CanLoad はパスが読み込み対象形式かどうかを返す。
	CanLoad(path string) bool
	// Load はモデルを読み込む。
	Load(path string) (*rig.Model, error)
}

// INameStandardizer は骨格のボーン名を標準形へそろえる契約を表す。
// 改名はボーンの並び順を変えないこと。
type INameStandardizer interface {
	StandardizeNames(skeleton *rig.Skeleton) error
}

// IRigGenerator はテンプレート骨格の提供と制御リグ生成の契約を表す。
type IRigGenerator interface {
	// Capability はホスト機能の有無を返す。
	Capability() rig.Capability
	// NewTemplate は部位割り当て済みのテンプレート骨格を生成する。
	NewTemplate(name string) (*rig.Skeleton, error)
	// Generate はテンプレート骨格から制御リグを生成する。
	Generate(template *rig.Skeleton) (*rig.Skeleton, error)
}
