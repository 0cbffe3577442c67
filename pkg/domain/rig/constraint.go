// 指示: miu200521358
package rig

// ConstraintType は拘束の種類。
type ConstraintType string

const (
	// ConstraintCopyTransforms は対象ボーンの変換を転写する拘束。
	ConstraintCopyTransforms ConstraintType = "COPY_TRANSFORMS"
)

// Constraint はポーズ時の拘束。
type Constraint struct {
	Name string
	Type ConstraintType
	// SubTarget は参照先ボーン名。参照先の名前変更には追従する。
	SubTarget string
	Influence float64
	Mute      bool
	// Driver は影響度を外部プロパティへ結び付ける設定。未設定は nil。
	Driver *InfluenceDriver
}

// NewConstraint は影響度1の拘束を生成する。
func NewConstraint(constraintType ConstraintType, subTarget string) *Constraint {
	return &Constraint{
		Name:      string(constraintType),
		Type:      constraintType,
		SubTarget: subTarget,
		Influence: 1.0,
	}
}

// InfluenceDriver は拘束影響度を骨格プロパティへ結び付けるドライバ定義。
type InfluenceDriver struct {
	// Expression は評価式。変数 Variable を参照できる。
	Expression string
	// Variable は式中の変数名。
	Variable string
	// PropertyKey は値の供給元となる骨格カスタムプロパティ名。
	PropertyKey string
}
