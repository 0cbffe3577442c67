// 指示: miu200521358
package rig

import (
	"encoding/json"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
)

// RawSections に入る区画のキー。
const (
	// RawSectionBlendShapeMaster は旧版の表情マスタ区画。
	RawSectionBlendShapeMaster = "blend_shape_master"
	// RawSectionExpressions は新版の表情区画。
	RawSectionExpressions = "expressions"
)

// AvatarExtension はアバター形式の付帯情報。骨格と一緒に運ぶ。
type AvatarExtension struct {
	// SpecVersion は付帯情報の版("0.0" / "1.0" など)。
	SpecVersion     string
	ExporterVersion string

	Meta0              Meta0
	HumanoidBindings0  []HumanoidBinding
	SecondaryAnimation *SecondaryAnimation

	Meta1             Meta1
	HumanoidBindings1 []HumanoidBinding
	Expressions       []Expression
	LookAt            *LookAt
	FirstPerson       *FirstPerson
	SpringBone        *SpringBone

	// RawSections は構造化せずそのまま引き継ぐ区画(表情マスタなど)。
	RawSections map[string]json.RawMessage
}

// HumanoidBinding は部位とボーン名の結び付け。
type HumanoidBinding struct {
	Role     Role
	BoneName string
}

// Meta0 は旧版のメタ情報。
type Meta0 struct {
	Title              string
	Version            string
	Author             string
	ContactInformation string
	Reference          string
	AllowedUserName    string
	ViolentUsage       string
	SexualUsage        string
	CommercialUsage    string
	OtherPermissionURL string
	LicenseName        string
	OtherLicenseURL    string
}

// Meta1 は新版のメタ情報。
type Meta1 struct {
	Name                 string
	Version              string
	Authors              []string
	CopyrightInformation string
	ContactInformation   string
	References           []string
	ThirdPartyLicenses   string
	LicenseURL           string
	OtherLicenseURL      string
	AvatarPermission     string
	CommercialUsage      string
	CreditNotation       string
	Modification         string
}

// SecondaryAnimation は旧版の揺れ物定義。
type SecondaryAnimation struct {
	BoneGroups     []SwayBoneGroup
	ColliderGroups []SwayColliderGroup
}

// SwayBoneGroup は揺れ物ボーン群の挙動設定。
type SwayBoneGroup struct {
	Comment        string
	Stiffness      float64
	GravityPower   float64
	GravityDir     mmath.Vec3
	DragForce      float64
	HitRadius      float64
	CenterBone     string
	Bones          []string
	ColliderGroups []int
}

// SwayColliderGroup は揺れ物の当たり判定群。
type SwayColliderGroup struct {
	NodeBone  string
	Colliders []SwaySphere
}

// SwaySphere は球の当たり判定。
type SwaySphere struct {
	Offset mmath.Vec3
	Radius float64
}

// Expression は表情定義。
type Expression struct {
	Name       string
	Preset     string
	IsBinary   bool
	MorphBinds []MorphBind
}

// MorphBind はメッシュのモーフ値への結び付け。
type MorphBind struct {
	MeshName  string
	MorphName string
	Weight    float64
}

// LookAt は視線制御設定。
type LookAt struct {
	OffsetFromHeadBone mmath.Vec3
	Type               string
	HorizontalInner    LookAtRangeMap
	HorizontalOuter    LookAtRangeMap
	VerticalDown       LookAtRangeMap
	VerticalUp         LookAtRangeMap
}

// LookAtRangeMap は視線角の入出力対応。
type LookAtRangeMap struct {
	InputMaxValue float64
	OutputScale   float64
}

// FirstPerson は一人称表示設定。
type FirstPerson struct {
	MeshAnnotations []MeshAnnotation
}

// MeshAnnotation はメッシュ単位の一人称表示種別。
type MeshAnnotation struct {
	MeshName string
	Type     string
}

// SpringBone は新版の揺れ物定義。
type SpringBone struct {
	Colliders      []SpringCollider
	ColliderGroups []SpringColliderGroup
	Springs        []Spring
}

// SpringCollider は揺れ物の当たり判定。
type SpringCollider struct {
	// UUID は当たり判定の識別子。空なら引き継ぎ時に採番する。
	UUID     string
	NodeBone string
	Shape    SpringColliderShape
}

// SpringColliderShape は当たり判定の形状。
type SpringColliderShape struct {
	// Type は "Sphere" か "Capsule"。
	Type       string
	Offset     mmath.Vec3
	Radius     float64
	TailOffset mmath.Vec3
	Extended   *ExtendedColliderShape
}

// ExtendedColliderShape は拡張当たり判定の設定。
type ExtendedColliderShape struct {
	Enabled                     bool
	AutomaticFallbackGeneration bool
	ShapeType                   string
}

// SpringColliderGroup は当たり判定のまとまり。
type SpringColliderGroup struct {
	UUID          string
	Name          string
	ColliderUUIDs []string
}

// Spring は揺れ物の連なり。
type Spring struct {
	Name               string
	CenterBone         string
	EnableAnimation    bool
	Joints             []SpringJoint
	ColliderGroupUUIDs []string
}

// SpringJoint は揺れ物の1関節分の挙動設定。
type SpringJoint struct {
	BoneName     string
	HitRadius    float64
	Stiffness    float64
	GravityPower float64
	GravityDir   mmath.Vec3
	DragForce    float64
}
