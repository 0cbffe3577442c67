// 指示: miu200521358
package vrm

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/model"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

const (
	vrm0ExtensionKey        = "VRM"
	vrm1ExtensionKey        = "VRMC_vrm"
	vrm1SpringBoneKey       = "VRMC_springBone"
	vrm1ExtendedColliderKey = "VRMC_springBone_extended_collider"
)

// vrm0Extension はVRM0拡張の必要要素を表す。
type vrm0Extension struct {
	ExporterVersion    string                  `json:"exporterVersion"`
	SpecVersion        string                  `json:"specVersion"`
	Meta               vrm0Meta                `json:"meta"`
	Humanoid           vrm0Humanoid            `json:"humanoid"`
	FirstPerson        *vrm0FirstPerson        `json:"firstPerson"`
	BlendShapeMaster   json.RawMessage         `json:"blendShapeMaster"`
	SecondaryAnimation *vrm0SecondaryAnimation `json:"secondaryAnimation"`
}

// vrm0Meta はVRM0 meta要素を表す。
type vrm0Meta struct {
	Title                string `json:"title"`
	Version              string `json:"version"`
	Author               string `json:"author"`
	ContactInformation   string `json:"contactInformation"`
	Reference            string `json:"reference"`
	Texture              *int   `json:"texture"`
	AllowedUserName      string `json:"allowedUserName"`
	ViolentUssageName    string `json:"violentUssageName"`
	SexualUssageName     string `json:"sexualUssageName"`
	CommercialUssageName string `json:"commercialUssageName"`
	OtherPermissionURL   string `json:"otherPermissionUrl"`
	LicenseName          string `json:"licenseName"`
	OtherLicenseURL      string `json:"otherLicenseUrl"`
}

// vrm0Humanoid はVRM0 humanoid要素を表す。
type vrm0Humanoid struct {
	HumanBones []vrm0HumanBone `json:"humanBones"`
}

// vrm0HumanBone はVRM0 humanBones要素を表す。
type vrm0HumanBone struct {
	Bone string `json:"bone"`
	Node int    `json:"node"`
}

// vrm0FirstPerson はVRM0 firstPerson要素を表す。視線設定も同居する。
type vrm0FirstPerson struct {
	FirstPersonBone       *int                 `json:"firstPersonBone"`
	FirstPersonBoneOffset *vrm0Vec3            `json:"firstPersonBoneOffset"`
	MeshAnnotations       []vrm0MeshAnnotation `json:"meshAnnotations"`
	LookAtTypeName        string               `json:"lookAtTypeName"`
	LookAtHorizontalInner *vrm0DegreeMap       `json:"lookAtHorizontalInner"`
	LookAtHorizontalOuter *vrm0DegreeMap       `json:"lookAtHorizontalOuter"`
	LookAtVerticalDown    *vrm0DegreeMap       `json:"lookAtVerticalDown"`
	LookAtVerticalUp      *vrm0DegreeMap       `json:"lookAtVerticalUp"`
}

// vrm0MeshAnnotation はVRM0 meshAnnotations要素を表す。
type vrm0MeshAnnotation struct {
	Mesh            *int   `json:"mesh"`
	FirstPersonFlag string `json:"firstPersonFlag"`
}

// vrm0DegreeMap はVRM0の視線角対応を表す。
type vrm0DegreeMap struct {
	XRange float64 `json:"xRange"`
	YRange float64 `json:"yRange"`
}

// vrm0Vec3 はVRM0のベクトル表記を表す。
type vrm0Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// vrm0BlendShapeMaster はVRM0 blendShapeMaster要素を表す。
type vrm0BlendShapeMaster struct {
	BlendShapeGroups []vrm0BlendShapeGroup `json:"blendShapeGroups"`
}

// vrm0BlendShapeGroup は表情1件分の定義を表す。
type vrm0BlendShapeGroup struct {
	Name       string               `json:"name"`
	PresetName string               `json:"presetName"`
	IsBinary   bool                 `json:"isBinary"`
	Binds      []vrm0BlendShapeBind `json:"binds"`
}

// vrm0BlendShapeBind は表情のモーフ結び付けを表す。
type vrm0BlendShapeBind struct {
	Mesh   *int    `json:"mesh"`
	Index  *int    `json:"index"`
	Weight float64 `json:"weight"`
}

// vrm0SecondaryAnimation はVRM0 secondaryAnimation要素を表す。
type vrm0SecondaryAnimation struct {
	BoneGroups     []vrm0SecondaryBoneGroup     `json:"boneGroups"`
	ColliderGroups []vrm0SecondaryColliderGroup `json:"colliderGroups"`
}

// vrm0SecondaryBoneGroup は揺れ物ボーン群の設定を表す。
type vrm0SecondaryBoneGroup struct {
	Comment        string    `json:"comment"`
	Stiffiness     float64   `json:"stiffiness"`
	GravityPower   float64   `json:"gravityPower"`
	GravityDir     *vrm0Vec3 `json:"gravityDir"`
	DragForce      float64   `json:"dragForce"`
	Center         *int      `json:"center"`
	HitRadius      float64   `json:"hitRadius"`
	Bones          []int     `json:"bones"`
	ColliderGroups []int     `json:"colliderGroups"`
}

// vrm0SecondaryColliderGroup は揺れ物の当たり判定群を表す。
type vrm0SecondaryColliderGroup struct {
	Node      *int                 `json:"node"`
	Colliders []vrm0SphereCollider `json:"colliders"`
}

// vrm0SphereCollider は球の当たり判定を表す。
type vrm0SphereCollider struct {
	Offset *vrm0Vec3 `json:"offset"`
	Radius float64   `json:"radius"`
}

// vrm1Extension はVRM1拡張の必要要素を表す。
type vrm1Extension struct {
	SpecVersion string           `json:"specVersion"`
	Meta        vrm1Meta         `json:"meta"`
	Humanoid    vrm1Humanoid     `json:"humanoid"`
	FirstPerson *vrm1FirstPerson `json:"firstPerson"`
	LookAt      *vrm1LookAt      `json:"lookAt"`
	Expressions json.RawMessage  `json:"expressions"`
}

// vrm1Meta はVRM1 meta要素を表す。
type vrm1Meta struct {
	Name                 string   `json:"name"`
	Version              string   `json:"version"`
	Authors              []string `json:"authors"`
	CopyrightInformation string   `json:"copyrightInformation"`
	ContactInformation   string   `json:"contactInformation"`
	References           []string `json:"references"`
	ThirdPartyLicenses   string   `json:"thirdPartyLicenses"`
	ThumbnailImage       *int     `json:"thumbnailImage"`
	LicenseURL           string   `json:"licenseUrl"`
	AvatarPermission     string   `json:"avatarPermission"`
	CommercialUsage      string   `json:"commercialUsage"`
	CreditNotation       string   `json:"creditNotation"`
	Modification         string   `json:"modification"`
	OtherLicenseURL      string   `json:"otherLicenseUrl"`
}

// vrm1Humanoid はVRM1 humanoid要素を表す。
type vrm1Humanoid struct {
	HumanBones map[string]vrm1HumanBone `json:"humanBones"`
}

// vrm1HumanBone はVRM1 humanBones要素を表す。
type vrm1HumanBone struct {
	Node *int `json:"node"`
}

// vrm1FirstPerson はVRM1 firstPerson要素を表す。
type vrm1FirstPerson struct {
	MeshAnnotations []vrm1MeshAnnotation `json:"meshAnnotations"`
}

// vrm1MeshAnnotation はVRM1 meshAnnotations要素を表す。参照先はnode。
type vrm1MeshAnnotation struct {
	Node *int   `json:"node"`
	Type string `json:"type"`
}

// vrm1LookAt はVRM1 lookAt要素を表す。
type vrm1LookAt struct {
	OffsetFromHeadBone      []float64     `json:"offsetFromHeadBone"`
	Type                    string        `json:"type"`
	RangeMapHorizontalInner *vrm1RangeMap `json:"rangeMapHorizontalInner"`
	RangeMapHorizontalOuter *vrm1RangeMap `json:"rangeMapHorizontalOuter"`
	RangeMapVerticalDown    *vrm1RangeMap `json:"rangeMapVerticalDown"`
	RangeMapVerticalUp      *vrm1RangeMap `json:"rangeMapVerticalUp"`
}

// vrm1RangeMap はVRM1の視線角対応を表す。
type vrm1RangeMap struct {
	InputMaxValue float64 `json:"inputMaxValue"`
	OutputScale   float64 `json:"outputScale"`
}

// vrm1Expressions はVRM1 expressions要素を表す。
type vrm1Expressions struct {
	Preset map[string]vrm1Expression `json:"preset"`
	Custom map[string]vrm1Expression `json:"custom"`
}

// vrm1Expression は表情1件分の定義を表す。
type vrm1Expression struct {
	MorphTargetBinds []vrm1MorphTargetBind `json:"morphTargetBinds"`
	IsBinary         bool                  `json:"isBinary"`
}

// vrm1MorphTargetBind は表情のモーフ結び付けを表す。参照先はnode。
type vrm1MorphTargetBind struct {
	Node   *int    `json:"node"`
	Index  *int    `json:"index"`
	Weight float64 `json:"weight"`
}

// vrm1SpringBoneExtension はVRMC_springBone拡張を表す。
type vrm1SpringBoneExtension struct {
	SpecVersion    string                    `json:"specVersion"`
	Colliders      []vrm1SpringCollider      `json:"colliders"`
	ColliderGroups []vrm1SpringColliderGroup `json:"colliderGroups"`
	Springs        []vrm1Spring              `json:"springs"`
}

// vrm1SpringCollider は揺れ物の当たり判定を表す。
type vrm1SpringCollider struct {
	Node       *int                       `json:"node"`
	Shape      vrm1SpringShape            `json:"shape"`
	Extensions map[string]json.RawMessage `json:"extensions"`
}

// vrm1SpringShape は当たり判定の形状を表す。
type vrm1SpringShape struct {
	Sphere  *vrm1SphereShape  `json:"sphere"`
	Capsule *vrm1CapsuleShape `json:"capsule"`
}

// vrm1SphereShape は球形状を表す。
type vrm1SphereShape struct {
	Offset []float64 `json:"offset"`
	Radius float64   `json:"radius"`
}

// vrm1CapsuleShape はカプセル形状を表す。
type vrm1CapsuleShape struct {
	Offset []float64 `json:"offset"`
	Radius float64   `json:"radius"`
	Tail   []float64 `json:"tail"`
}

// vrm1ExtendedCollider は拡張当たり判定の必要要素を表す。
type vrm1ExtendedCollider struct {
	SpecVersion string `json:"specVersion"`
	Shape       struct {
		Sphere  json.RawMessage `json:"sphere"`
		Capsule json.RawMessage `json:"capsule"`
		Plane   json.RawMessage `json:"plane"`
	} `json:"shape"`
}

// vrm1SpringColliderGroup は当たり判定のまとまりを表す。
type vrm1SpringColliderGroup struct {
	Name      string `json:"name"`
	Colliders []int  `json:"colliders"`
}

// vrm1Spring は揺れ物の連なりを表す。
type vrm1Spring struct {
	Name           string            `json:"name"`
	Joints         []vrm1SpringJoint `json:"joints"`
	ColliderGroups []int             `json:"colliderGroups"`
	Center         *int              `json:"center"`
}

// vrm1SpringJoint は揺れ物の1関節分の設定を表す。
type vrm1SpringJoint struct {
	Node         *int      `json:"node"`
	HitRadius    float64   `json:"hitRadius"`
	Stiffness    float64   `json:"stiffness"`
	GravityPower float64   `json:"gravityPower"`
	GravityDir   []float64 `json:"gravityDir"`
	DragForce    float64   `json:"dragForce"`
}

// detectVrmVersion は拡張宣言から優先バージョンを判定する。
// VRM0/1 同時宣言時は VRM1 を優先する。
func detectVrmVersion(doc *gltfDocument) string {
	hasVrm1 := containsIgnoreCase(doc.ExtensionsUsed, vrm1ExtensionKey)
	hasVrm0 := containsIgnoreCase(doc.ExtensionsUsed, vrm0ExtensionKey)
	if doc.Extensions != nil {
		if _, ok := doc.Extensions[vrm1ExtensionKey]; ok {
			hasVrm1 = true
		}
		if _, ok := doc.Extensions[vrm0ExtensionKey]; ok {
			hasVrm0 = true
		}
	}
	if hasVrm1 {
		return "1"
	}
	if hasVrm0 {
		return "0"
	}
	return ""
}

// containsIgnoreCase は大文字小文字を無視して要素を検索する。
func containsIgnoreCase(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

// buildAvatarExtension はVRM拡張を付帯情報へ変換する。
// 2番目の戻り値はサムネイル画像のimage index(無しは-1)。
func buildAvatarExtension(
	doc *gltfDocument,
	skeleton *rig.Skeleton,
	boneNames []string,
	meshNameByMesh map[int]string,
	meshNameByNode map[int]string,
	warnings *loadWarnings,
) (*rig.AvatarExtension, int, error) {
	version := detectVrmVersion(doc)
	if version == "" {
		return nil, -1, merr.NewIoFormatNotSupported("VRM拡張が見つかりません")
	}

	ext := &rig.AvatarExtension{RawSections: map[string]json.RawMessage{}}
	if version == "1" {
		thumbnailImage, err := applyVrm1Extension(doc, skeleton, boneNames, meshNameByNode, ext, warnings)
		if err != nil {
			return nil, -1, err
		}
		// VRM0拡張が同居している場合は出力元情報だけ引き継ぐ。
		if raw, ok := doc.Extensions[vrm0ExtensionKey]; ok {
			legacy := vrm0Extension{}
			if err := json.Unmarshal(raw, &legacy); err == nil {
				ext.ExporterVersion = legacy.ExporterVersion
			}
		}
		return ext, thumbnailImage, nil
	}

	thumbnailImage, err := applyVrm0Extension(doc, skeleton, boneNames, meshNameByMesh, ext, warnings)
	if err != nil {
		return nil, -1, err
	}
	return ext, thumbnailImage, nil
}

// applyVrm0Extension はVRM0拡張を付帯情報へ反映する。
func applyVrm0Extension(
	doc *gltfDocument,
	skeleton *rig.Skeleton,
	boneNames []string,
	meshNameByMesh map[int]string,
	ext *rig.AvatarExtension,
	warnings *loadWarnings,
) (int, error) {
	raw, ok := doc.Extensions[vrm0ExtensionKey]
	if !ok {
		return -1, merr.NewIoFormatNotSupported("VRM0拡張が存在しません")
	}
	parsed := vrm0Extension{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return -1, merr.NewIoParseFailed("extensions.VRM", err, "VRM0拡張のJSON解析に失敗しました")
	}

	ext.SpecVersion = parsed.SpecVersion
	if ext.SpecVersion == "" {
		ext.SpecVersion = "0.0"
	}
	ext.ExporterVersion = parsed.ExporterVersion
	ext.Meta0 = rig.Meta0{
		Title:              parsed.Meta.Title,
		Version:            parsed.Meta.Version,
		Author:             parsed.Meta.Author,
		ContactInformation: parsed.Meta.ContactInformation,
		Reference:          parsed.Meta.Reference,
		AllowedUserName:    parsed.Meta.AllowedUserName,
		ViolentUsage:       parsed.Meta.ViolentUssageName,
		SexualUsage:        parsed.Meta.SexualUssageName,
		CommercialUsage:    parsed.Meta.CommercialUssageName,
		OtherPermissionURL: parsed.Meta.OtherPermissionURL,
		LicenseName:        parsed.Meta.LicenseName,
		OtherLicenseURL:    parsed.Meta.OtherLicenseURL,
	}

	ext.HumanoidBindings0 = bindVrm0HumanoidRoles(skeleton, parsed.Humanoid.HumanBones, boneNames, warnings)
	ext.Expressions = buildVrm0Expressions(doc, parsed.BlendShapeMaster, meshNameByMesh, warnings)
	if len(parsed.BlendShapeMaster) > 0 {
		ext.RawSections[rig.RawSectionBlendShapeMaster] = append(json.RawMessage(nil), parsed.BlendShapeMaster...)
	}
	applyVrm0FirstPerson(parsed.FirstPerson, meshNameByMesh, ext)
	ext.SecondaryAnimation = buildVrm0SecondaryAnimation(parsed.SecondaryAnimation, boneNames, warnings)

	return resolveVrm0ThumbnailImage(doc, parsed.Meta.Texture), nil
}

// vrm0RoleAliases は旧版と新版で名前の異なる部位の読み替え。
// 旧版の親指は proximal/intermediate が新版の metacarpal/proximal に当たる。
var vrm0RoleAliases = map[string]string{
	"leftThumbProximal":      "leftThumbMetacarpal",
	"leftThumbIntermediate":  "leftThumbProximal",
	"rightThumbProximal":     "rightThumbMetacarpal",
	"rightThumbIntermediate": "rightThumbProximal",
}

// bindVrm0HumanoidRoles は旧版ヒューマノイド定義を部位割り当てへ反映する。
func bindVrm0HumanoidRoles(
	skeleton *rig.Skeleton,
	humanBones []vrm0HumanBone,
	boneNames []string,
	warnings *loadWarnings,
) []rig.HumanoidBinding {
	if len(humanBones) == 0 {
		warnings.add(model.VrmWarningHumanoidMissing)
		mlog.W("ヒューマノイド定義が見つかりません")
		return nil
	}
	bindings := make([]rig.HumanoidBinding, 0, len(humanBones))
	for _, humanBone := range humanBones {
		roleName := humanBone.Bone
		if alias, ok := vrm0RoleAliases[roleName]; ok {
			roleName = alias
		}
		role, ok := rig.RoleFromName(roleName)
		if !ok {
			warnings.add(model.VrmWarningUnknownHumanoidRole)
			mlog.W("未知のヒューマノイド部位名を読み飛ばします: %s", humanBone.Bone)
			continue
		}
		boneName := boneNameByIndex(boneNames, humanBone.Node)
		if boneName == "" {
			warnings.add(model.VrmWarningHumanoidNodeUnresolved)
			mlog.W("ヒューマノイド部位 %s のノード参照が解決できません: node=%d", humanBone.Bone, humanBone.Node)
			continue
		}
		if err := skeleton.BindRole(role, boneName); err != nil {
			warnings.add(model.VrmWarningHumanoidNodeUnresolved)
			mlog.W("ヒューマノイド部位 %s の割り当てに失敗しました: %v", humanBone.Bone, err)
			continue
		}
		bindings = append(bindings, rig.HumanoidBinding{Role: role, BoneName: boneName})
	}
	return bindings
}

// buildVrm0Expressions は表情マスタ区画を表情定義へ変換する。
func buildVrm0Expressions(
	doc *gltfDocument,
	raw json.RawMessage,
	meshNameByMesh map[int]string,
	warnings *loadWarnings,
) []rig.Expression {
	if len(raw) == 0 {
		return nil
	}
	master := vrm0BlendShapeMaster{}
	if err := json.Unmarshal(raw, &master); err != nil {
		warnings.add(model.VrmWarningMetaSectionSkipped)
		mlog.W("表情マスタ区画を解釈できないため読み飛ばします: %v", err)
		return nil
	}
	expressions := make([]rig.Expression, 0, len(master.BlendShapeGroups))
	for _, group := range master.BlendShapeGroups {
		expression := rig.Expression{
			Name:     group.Name,
			Preset:   group.PresetName,
			IsBinary: group.IsBinary,
		}
		for _, bind := range group.Binds {
			if bind.Mesh == nil || bind.Index == nil {
				warnings.add(model.VrmWarningExpressionBindSkipped)
				continue
			}
			meshName, ok := meshNameByMesh[*bind.Mesh]
			if !ok {
				warnings.add(model.VrmWarningExpressionBindSkipped)
				mlog.W("表情バインドのメッシュ参照が解決できません: %s mesh=%d", group.Name, *bind.Mesh)
				continue
			}
			// 旧版のweightは0-100表記。
			expression.MorphBinds = append(expression.MorphBinds, rig.MorphBind{
				MeshName:  meshName,
				MorphName: resolveMorphName(doc, *bind.Mesh, *bind.Index),
				Weight:    bind.Weight / 100.0,
			})
		}
		expressions = append(expressions, expression)
	}
	return expressions
}

// applyVrm0FirstPerson は一人称表示と視線設定を付帯情報へ反映する。
func applyVrm0FirstPerson(firstPerson *vrm0FirstPerson, meshNameByMesh map[int]string, ext *rig.AvatarExtension) {
	if firstPerson == nil {
		return
	}
	annotations := make([]rig.MeshAnnotation, 0, len(firstPerson.MeshAnnotations))
	for _, annotation := range firstPerson.MeshAnnotations {
		if annotation.Mesh == nil {
			continue
		}
		meshName, ok := meshNameByMesh[*annotation.Mesh]
		if !ok {
			continue
		}
		annotations = append(annotations, rig.MeshAnnotation{
			MeshName: meshName,
			Type:     annotation.FirstPersonFlag,
		})
	}
	ext.FirstPerson = &rig.FirstPerson{MeshAnnotations: annotations}

	if firstPerson.LookAtTypeName == "" && firstPerson.LookAtHorizontalInner == nil {
		return
	}
	lookAt := &rig.LookAt{
		Type:            firstPerson.LookAtTypeName,
		HorizontalInner: vrm0DegreeMapToRange(firstPerson.LookAtHorizontalInner),
		HorizontalOuter: vrm0DegreeMapToRange(firstPerson.LookAtHorizontalOuter),
		VerticalDown:    vrm0DegreeMapToRange(firstPerson.LookAtVerticalDown),
		VerticalUp:      vrm0DegreeMapToRange(firstPerson.LookAtVerticalUp),
	}
	if firstPerson.FirstPersonBoneOffset != nil {
		lookAt.OffsetFromHeadBone = vrm0Vec3ToVec3(firstPerson.FirstPersonBoneOffset)
	}
	ext.LookAt = lookAt
}

// vrm0DegreeMapToRange は旧版の視線角対応を変換する。
func vrm0DegreeMapToRange(degreeMap *vrm0DegreeMap) rig.LookAtRangeMap {
	if degreeMap == nil {
		return rig.LookAtRangeMap{}
	}
	return rig.LookAtRangeMap{
		InputMaxValue: degreeMap.XRange,
		OutputScale:   degreeMap.YRange,
	}
}

// vrm0Vec3ToVec3 は旧版のベクトル表記を変換する。
func vrm0Vec3ToVec3(v *vrm0Vec3) mmath.Vec3 {
	if v == nil {
		return mmath.ZERO_VEC3
	}
	return mmath.NewVec3(v.X, v.Y, v.Z)
}

// buildVrm0SecondaryAnimation は旧版の揺れ物定義を変換する。
func buildVrm0SecondaryAnimation(
	secondary *vrm0SecondaryAnimation,
	boneNames []string,
	warnings *loadWarnings,
) *rig.SecondaryAnimation {
	if secondary == nil {
		return nil
	}
	result := &rig.SecondaryAnimation{}
	for _, group := range secondary.BoneGroups {
		swayGroup := rig.SwayBoneGroup{
			Comment:      group.Comment,
			Stiffness:    group.Stiffiness,
			GravityPower: group.GravityPower,
			GravityDir:   vrm0Vec3ToVec3(group.GravityDir),
			DragForce:    group.DragForce,
			HitRadius:    group.HitRadius,
			CenterBone:   boneNameByNode(boneNames, group.Center),
		}
		for _, boneIndex := range group.Bones {
			name := boneNameByIndex(boneNames, boneIndex)
			if name == "" {
				warnings.add(model.VrmWarningSpringReferenceMissing)
				mlog.W("揺れ物ボーン参照が解決できません: node=%d", boneIndex)
				continue
			}
			swayGroup.Bones = append(swayGroup.Bones, name)
		}
		swayGroup.ColliderGroups = append(swayGroup.ColliderGroups, group.ColliderGroups...)
		result.BoneGroups = append(result.BoneGroups, swayGroup)
	}
	for _, colliderGroup := range secondary.ColliderGroups {
		swayGroup := rig.SwayColliderGroup{
			NodeBone: boneNameByNode(boneNames, colliderGroup.Node),
		}
		if swayGroup.NodeBone == "" {
			warnings.add(model.VrmWarningSpringReferenceMissing)
			mlog.W("揺れ物当たり判定のノード参照が解決できません")
		}
		for _, collider := range colliderGroup.Colliders {
			swayGroup.Colliders = append(swayGroup.Colliders, rig.SwaySphere{
				Offset: vrm0Vec3ToVec3(collider.Offset),
				Radius: collider.Radius,
			})
		}
		result.ColliderGroups = append(result.ColliderGroups, swayGroup)
	}
	return result
}

// resolveVrm0ThumbnailImage は旧版のサムネイルtexture参照をimage indexへ解決する。
func resolveVrm0ThumbnailImage(doc *gltfDocument, textureIndex *int) int {
	if textureIndex == nil {
		return -1
	}
	index := *textureIndex
	if index < 0 || index >= len(doc.Textures) {
		return -1
	}
	source := doc.Textures[index].Source
	if source == nil || *source < 0 || *source >= len(doc.Images) {
		return -1
	}
	return *source
}

// applyVrm1Extension はVRM1拡張を付帯情報へ反映する。
func applyVrm1Extension(
	doc *gltfDocument,
	skeleton *rig.Skeleton,
	boneNames []string,
	meshNameByNode map[int]string,
	ext *rig.AvatarExtension,
	warnings *loadWarnings,
) (int, error) {
	raw, ok := doc.Extensions[vrm1ExtensionKey]
	if !ok {
		return -1, merr.NewIoFormatNotSupported("VRM1拡張が存在しません")
	}
	parsed := vrm1Extension{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return -1, merr.NewIoParseFailed("extensions.VRMC_vrm", err, "VRM1拡張のJSON解析に失敗しました")
	}

	ext.SpecVersion = parsed.SpecVersion
	if ext.SpecVersion == "" {
		ext.SpecVersion = "1.0"
	}
	ext.Meta1 = rig.Meta1{
		Name:                 parsed.Meta.Name,
		Version:              parsed.Meta.Version,
		Authors:              append([]string{}, parsed.Meta.Authors...),
		CopyrightInformation: parsed.Meta.CopyrightInformation,
		ContactInformation:   parsed.Meta.ContactInformation,
		References:           append([]string{}, parsed.Meta.References...),
		ThirdPartyLicenses:   parsed.Meta.ThirdPartyLicenses,
		LicenseURL:           parsed.Meta.LicenseURL,
		OtherLicenseURL:      parsed.Meta.OtherLicenseURL,
		AvatarPermission:     parsed.Meta.AvatarPermission,
		CommercialUsage:      parsed.Meta.CommercialUsage,
		CreditNotation:       parsed.Meta.CreditNotation,
		Modification:         parsed.Meta.Modification,
	}

	ext.HumanoidBindings1 = bindVrm1HumanoidRoles(skeleton, parsed.Humanoid.HumanBones, boneNames, warnings)
	ext.Expressions = buildVrm1Expressions(doc, parsed.Expressions, meshNameByNode, warnings)
	if len(parsed.Expressions) > 0 {
		ext.RawSections[rig.RawSectionExpressions] = append(json.RawMessage(nil), parsed.Expressions...)
	}
	applyVrm1LookAt(parsed.LookAt, ext)
	applyVrm1FirstPerson(parsed.FirstPerson, meshNameByNode, ext)
	ext.SpringBone = buildVrm1SpringBone(doc, boneNames, warnings)

	if parsed.Meta.ThumbnailImage == nil {
		return -1, nil
	}
	return *parsed.Meta.ThumbnailImage, nil
}

// bindVrm1HumanoidRoles は新版ヒューマノイド定義を部位割り当てへ反映する。
// map由来のため部位名順で処理する。
func bindVrm1HumanoidRoles(
	skeleton *rig.Skeleton,
	humanBones map[string]vrm1HumanBone,
	boneNames []string,
	warnings *loadWarnings,
) []rig.HumanoidBinding {
	if len(humanBones) == 0 {
		warnings.add(model.VrmWarningHumanoidMissing)
		mlog.W("ヒューマノイド定義が見つかりません")
		return nil
	}
	roleKeys := make([]string, 0, len(humanBones))
	for key := range humanBones {
		roleKeys = append(roleKeys, key)
	}
	sort.Strings(roleKeys)

	bindings := make([]rig.HumanoidBinding, 0, len(humanBones))
	for _, key := range roleKeys {
		role, ok := rig.RoleFromName(key)
		if !ok {
			warnings.add(model.VrmWarningUnknownHumanoidRole)
			mlog.W("未知のヒューマノイド部位名を読み飛ばします: %s", key)
			continue
		}
		boneName := boneNameByNode(boneNames, humanBones[key].Node)
		if boneName == "" {
			warnings.add(model.VrmWarningHumanoidNodeUnresolved)
			mlog.W("ヒューマノイド部位 %s のノード参照が解決できません", key)
			continue
		}
		if err := skeleton.BindRole(role, boneName); err != nil {
			warnings.add(model.VrmWarningHumanoidNodeUnresolved)
			mlog.W("ヒューマノイド部位 %s の割り当てに失敗しました: %v", key, err)
			continue
		}
		bindings = append(bindings, rig.HumanoidBinding{Role: role, BoneName: boneName})
	}
	return bindings
}

// buildVrm1Expressions は新版の表情区画を表情定義へ変換する。
func buildVrm1Expressions(
	doc *gltfDocument,
	raw json.RawMessage,
	meshNameByNode map[int]string,
	warnings *loadWarnings,
) []rig.Expression {
	if len(raw) == 0 {
		return nil
	}
	parsed := vrm1Expressions{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		warnings.add(model.VrmWarningMetaSectionSkipped)
		mlog.W("表情区画を解釈できないため読み飛ばします: %v", err)
		return nil
	}

	var expressions []rig.Expression
	appendEntries := func(entries map[string]vrm1Expression, preset bool) {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entry := entries[name]
			expression := rig.Expression{Name: name, IsBinary: entry.IsBinary}
			if preset {
				expression.Preset = name
			}
			for _, bind := range entry.MorphTargetBinds {
				if bind.Node == nil || bind.Index == nil {
					warnings.add(model.VrmWarningExpressionBindSkipped)
					continue
				}
				meshName, ok := meshNameByNode[*bind.Node]
				if !ok {
					warnings.add(model.VrmWarningExpressionBindSkipped)
					mlog.W("表情バインドのノード参照が解決できません: %s node=%d", name, *bind.Node)
					continue
				}
				expression.MorphBinds = append(expression.MorphBinds, rig.MorphBind{
					MeshName:  meshName,
					MorphName: resolveMorphName(doc, meshIndexByNode(doc, *bind.Node), *bind.Index),
					Weight:    bind.Weight,
				})
			}
			expressions = append(expressions, expression)
		}
	}
	appendEntries(parsed.Preset, true)
	appendEntries(parsed.Custom, false)
	return expressions
}

// applyVrm1LookAt は新版の視線設定を付帯情報へ反映する。
func applyVrm1LookAt(lookAt *vrm1LookAt, ext *rig.AvatarExtension) {
	if lookAt == nil {
		return
	}
	ext.LookAt = &rig.LookAt{
		OffsetFromHeadBone: float64sToVec3(lookAt.OffsetFromHeadBone),
		Type:               lookAt.Type,
		HorizontalInner:    vrm1RangeMapToRange(lookAt.RangeMapHorizontalInner),
		HorizontalOuter:    vrm1RangeMapToRange(lookAt.RangeMapHorizontalOuter),
		VerticalDown:       vrm1RangeMapToRange(lookAt.RangeMapVerticalDown),
		VerticalUp:         vrm1RangeMapToRange(lookAt.RangeMapVerticalUp),
	}
}

// vrm1RangeMapToRange は新版の視線角対応を変換する。
func vrm1RangeMapToRange(rangeMap *vrm1RangeMap) rig.LookAtRangeMap {
	if rangeMap == nil {
		return rig.LookAtRangeMap{}
	}
	return rig.LookAtRangeMap{
		InputMaxValue: rangeMap.InputMaxValue,
		OutputScale:   rangeMap.OutputScale,
	}
}

// applyVrm1FirstPerson は新版の一人称表示設定を付帯情報へ反映する。
func applyVrm1FirstPerson(firstPerson *vrm1FirstPerson, meshNameByNode map[int]string, ext *rig.AvatarExtension) {
	if firstPerson == nil {
		return
	}
	annotations := make([]rig.MeshAnnotation, 0, len(firstPerson.MeshAnnotations))
	for _, annotation := range firstPerson.MeshAnnotations {
		if annotation.Node == nil {
			continue
		}
		meshName, ok := meshNameByNode[*annotation.Node]
		if !ok {
			continue
		}
		annotations = append(annotations, rig.MeshAnnotation{
			MeshName: meshName,
			Type:     annotation.Type,
		})
	}
	ext.FirstPerson = &rig.FirstPerson{MeshAnnotations: annotations}
}

// buildVrm1SpringBone は新版の揺れ物定義を変換する。
// 当たり判定・当たり判定群はindex参照のためUUIDを採番して置き換える。
func buildVrm1SpringBone(doc *gltfDocument, boneNames []string, warnings *loadWarnings) *rig.SpringBone {
	raw, ok := doc.Extensions[vrm1SpringBoneKey]
	if !ok {
		return nil
	}
	parsed := vrm1SpringBoneExtension{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		warnings.add(model.VrmWarningMetaSectionSkipped)
		mlog.W("揺れ物区画を解釈できないため読み飛ばします: %v", err)
		return nil
	}

	springBone := &rig.SpringBone{}
	colliderUUIDs := make([]string, len(parsed.Colliders))
	for i, collider := range parsed.Colliders {
		nodeBoneName := boneNameByNode(boneNames, collider.Node)
		if nodeBoneName == "" {
			warnings.add(model.VrmWarningSpringReferenceMissing)
			mlog.W("揺れ物当たり判定のノード参照が解決できません: collider=%d", i)
		}
		colliderUUIDs[i] = uuid.NewString()
		springBone.Colliders = append(springBone.Colliders, rig.SpringCollider{
			UUID:     colliderUUIDs[i],
			NodeBone: nodeBoneName,
			Shape:    buildVrm1ColliderShape(collider),
		})
	}

	groupUUIDs := make([]string, len(parsed.ColliderGroups))
	for i, group := range parsed.ColliderGroups {
		groupUUIDs[i] = uuid.NewString()
		colliderGroup := rig.SpringColliderGroup{
			UUID: groupUUIDs[i],
			Name: group.Name,
		}
		for _, colliderIndex := range group.Colliders {
			if colliderIndex < 0 || colliderIndex >= len(colliderUUIDs) {
				warnings.add(model.VrmWarningSpringReferenceMissing)
				mlog.W("揺れ物当たり判定参照が解決できません: group=%s collider=%d", group.Name, colliderIndex)
				continue
			}
			colliderGroup.ColliderUUIDs = append(colliderGroup.ColliderUUIDs, colliderUUIDs[colliderIndex])
		}
		springBone.ColliderGroups = append(springBone.ColliderGroups, colliderGroup)
	}

	for _, spring := range parsed.Springs {
		springData := rig.Spring{
			Name:            spring.Name,
			CenterBone:      boneNameByNode(boneNames, spring.Center),
			EnableAnimation: true,
		}
		for _, joint := range spring.Joints {
			name := boneNameByNode(boneNames, joint.Node)
			if name == "" {
				warnings.add(model.VrmWarningSpringReferenceMissing)
				mlog.W("揺れ物関節のノード参照が解決できません: spring=%s", spring.Name)
				continue
			}
			springData.Joints = append(springData.Joints, rig.SpringJoint{
				BoneName:     name,
				HitRadius:    joint.HitRadius,
				Stiffness:    joint.Stiffness,
				GravityPower: joint.GravityPower,
				GravityDir:   float64sToVec3(joint.GravityDir),
				DragForce:    joint.DragForce,
			})
		}
		for _, groupIndex := range spring.ColliderGroups {
			if groupIndex < 0 || groupIndex >= len(groupUUIDs) {
				warnings.add(model.VrmWarningSpringReferenceMissing)
				mlog.W("揺れ物当たり判定群参照が解決できません: spring=%s group=%d", spring.Name, groupIndex)
				continue
			}
			springData.ColliderGroupUUIDs = append(springData.ColliderGroupUUIDs, groupUUIDs[groupIndex])
		}
		springBone.Springs = append(springBone.Springs, springData)
	}
	return springBone
}

// buildVrm1ColliderShape は当たり判定形状を変換する。
func buildVrm1ColliderShape(collider vrm1SpringCollider) rig.SpringColliderShape {
	shape := rig.SpringColliderShape{}
	switch {
	case collider.Shape.Sphere != nil:
		shape.Type = "Sphere"
		shape.Offset = float64sToVec3(collider.Shape.Sphere.Offset)
		shape.Radius = collider.Shape.Sphere.Radius
	case collider.Shape.Capsule != nil:
		shape.Type = "Capsule"
		shape.Offset = float64sToVec3(collider.Shape.Capsule.Offset)
		shape.Radius = collider.Shape.Capsule.Radius
		shape.TailOffset = float64sToVec3(collider.Shape.Capsule.Tail)
	}
	if raw, ok := collider.Extensions[vrm1ExtendedColliderKey]; ok {
		shape.Extended = parseExtendedColliderShape(raw)
	}
	return shape
}

// parseExtendedColliderShape は拡張当たり判定の設定を変換する。
func parseExtendedColliderShape(raw json.RawMessage) *rig.ExtendedColliderShape {
	parsed := vrm1ExtendedCollider{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	extended := &rig.ExtendedColliderShape{
		Enabled: true,
		// 本体側の形状が後退先として残るため自動生成扱いとする。
		AutomaticFallbackGeneration: true,
	}
	switch {
	case len(parsed.Shape.Sphere) > 0:
		extended.ShapeType = "Sphere"
	case len(parsed.Shape.Capsule) > 0:
		extended.ShapeType = "Capsule"
	case len(parsed.Shape.Plane) > 0:
		extended.ShapeType = "Plane"
	}
	return extended
}
