// 指示: miu200521358
package generator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

const (
	// generatedRigName は生成直後のリグ名。呼び出し側が付け替える想定。
	generatedRigName = "rig"
	// rootControlBoneName は生成リグの根ボーン名。
	rootControlBoneName = "root"
	// rigIdPropKey は生成リグの識別子を持つ根ボーンのプロパティ名。
	rigIdPropKey = "rig_id"

	orgBonePrefix = "ORG-"
	defBonePrefix = "DEF-"
	mchBonePrefix = "MCH-"

	ikStretchPropKey  = "IK_Stretch"
	poleVectorPropKey = "pole_vector"

	// eyeControlDistanceFactor は目の操作ボーンを視線方向へ離す倍率。
	eyeControlDistanceFactor = 3.0
)

// 所属コレクション名。
const (
	collectionRoot   = "Root"
	collectionTorso  = "Torso"
	collectionFace   = "Face"
	collectionDeform = "DEF"
	collectionOrg    = "ORG"
	collectionMech   = "MCH"
)

// コレクション未対応ホスト向けのレイヤービット。
const (
	layerFace   uint32 = 1 << 0
	layerTorso  uint32 = 1 << 3
	layerArmIkL uint32 = 1 << 7
	layerArmIkR uint32 = 1 << 10
	layerLegIkL uint32 = 1 << 13
	layerLegIkR uint32 = 1 << 16
	layerRoot   uint32 = 1 << 28
	layerDeform uint32 = 1 << 29
	layerMech   uint32 = 1 << 30
	layerOrg    uint32 = 1 << 31
)

// placeBone はボーンへ所属情報を与える。コレクション未対応ホストでは
// レイヤービットで代替する。
func placeBone(bone *rig.Bone, collection string, layer uint32, capability rig.Capability) {
	if capability.BoneCollections {
		bone.AssignCollection(collection)
		return
	}
	bone.Layers |= layer
}

// parentOrRoot は名前のボーンを引き、見つからなければ root を返す。
func parentOrRoot(ec *rig.EditContext, name string) (*rig.Bone, error) {
	if name != "" {
		if bone, err := ec.GetByName(name); err == nil {
			return bone, nil
		}
	}
	return ec.GetByName(rootControlBoneName)
}

// isHeelHelperBone は踵の位置決め補助ボーンかどうかを返す。補助ボーンは
// リグ側に対応ボーンを生やさない。
func isHeelHelperBone(name string) bool {
	return strings.HasPrefix(name, "heel.")
}

// isDeformSourceBone は変形層のボーンを生やすテンプレートボーンかどうかを
// 返す。目は機構層で追従させるため変形層を持たない。
func isDeformSourceBone(name string) bool {
	if name == "eye.L" || name == "eye.R" {
		return false
	}
	return !isHeelHelperBone(name)
}

// buildLayeredRig は調整済みテンプレートから ORG/DEF/MCH の階層命名規約に
// 従う制御リグを組み立てる。同じテンプレートからは同じ構造のリグが得られる。
func buildLayeredRig(template *rig.Skeleton, capability rig.Capability) (*rig.Skeleton, error) {
	generated := rig.NewSkeleton(generatedRigName)
	generated.SetWorldTransform(template.WorldTransform())

	err := generated.EditScope(func(ec *rig.EditContext) error {
		if err := createRootBone(ec, template, capability); err != nil {
			return err
		}
		if err := createOrgBones(ec, template, capability); err != nil {
			return err
		}
		if err := createDeformBones(ec, template, capability); err != nil {
			return err
		}
		if err := createTorsoControls(ec, template, capability); err != nil {
			return err
		}
		if err := createEyeControls(ec, template, capability); err != nil {
			return err
		}
		if err := createFaceMechanisms(ec, template, capability); err != nil {
			return err
		}
		return createLimbControls(ec, template, capability)
	})
	if err != nil {
		return nil, err
	}

	if err := attachDeformConstraints(generated); err != nil {
		return nil, err
	}
	mlog.D("制御リグを組み立てました: %s (ボーン %d)", generated.Name(), generated.Len())
	return generated, nil
}

// createRootBone は原点に置く根ボーンを生成する。長さはテンプレートの
// 背丈から取り、識別子プロパティを持たせる。
func createRootBone(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	root, err := ec.Create(rootControlBoneName)
	if err != nil {
		return err
	}
	length := templateHeight(template) / 4
	if length == 0 {
		length = 0.5
	}
	root.Tail = mmath.NewVec3(0, length, 0)
	root.UseDeform = false
	root.SetProp(rigIdPropKey, uuid.NewString())
	placeBone(root, collectionRoot, layerRoot, capability)
	return nil
}

// templateHeight はテンプレート骨格の最高点 (Z) を返す。
func templateHeight(template *rig.Skeleton) float64 {
	height := 0.0
	for _, bone := range template.Bones() {
		if bone.Head.Z > height {
			height = bone.Head.Z
		}
		if bone.Tail.Z > height {
			height = bone.Tail.Z
		}
	}
	return height
}

// createOrgBones はテンプレートの各ボーンへ ORG 層のボーンを対応させる。
// 親子関係と接続フラグはテンプレートの形をそのまま引き継ぐ。
func createOrgBones(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	for _, templateBone := range template.Bones() {
		if isHeelHelperBone(templateBone.Name()) {
			continue
		}
		orgBone, err := ec.Create(orgBonePrefix + templateBone.Name())
		if err != nil {
			return err
		}
		orgBone.Head = templateBone.Head
		orgBone.Tail = templateBone.Tail
		orgBone.Roll = templateBone.Roll
		orgBone.UseDeform = false
		placeBone(orgBone, collectionOrg, layerOrg, capability)

		parentName := ""
		if templateBone.Parent() != nil {
			parentName = orgBonePrefix + templateBone.Parent().Name()
		}
		parent, err := parentOrRoot(ec, parentName)
		if err != nil {
			return err
		}
		if err := ec.SetParent(orgBone, parent); err != nil {
			return err
		}
		if parentName != "" && parent.Name() == parentName {
			orgBone.UseConnect = templateBone.UseConnect
		}
	}
	return nil
}

// createDeformBones は変形層のボーンを対応させる。変形の連なりはテンプレート
// の親子を写し、根元は対応する ORG ボーンへぶら下げる。
func createDeformBones(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	for _, templateBone := range template.Bones() {
		name := templateBone.Name()
		if !isDeformSourceBone(name) {
			continue
		}
		defBone, err := ec.Create(defBonePrefix + name)
		if err != nil {
			return err
		}
		defBone.Head = templateBone.Head
		defBone.Tail = templateBone.Tail
		defBone.Roll = templateBone.Roll
		placeBone(defBone, collectionDeform, layerDeform, capability)

		parentName := orgBonePrefix + name
		deformChained := false
		if p := templateBone.Parent(); p != nil && isDeformSourceBone(p.Name()) {
			parentName = defBonePrefix + p.Name()
			deformChained = true
		}
		parent, err := parentOrRoot(ec, parentName)
		if err != nil {
			return err
		}
		if err := ec.SetParent(defBone, parent); err != nil {
			return err
		}
		if deformChained && parent.Name() == parentName {
			defBone.UseConnect = templateBone.UseConnect
		}
	}
	return nil
}

// torsoControlSpecs は体幹の操作ボーンと形状の写し元。
var torsoControlSpecs = []struct {
	name   string
	source string
	parent string
}{
	{name: "torso", source: "spine.001", parent: rootControlBoneName},
	{name: "hips", source: "spine", parent: "torso"},
	{name: "chest", source: "spine.002", parent: "torso"},
	{name: "neck", source: "spine.004", parent: "torso"},
	{name: "head", source: "spine.006", parent: "torso"},
}

// createTorsoControls は体幹の操作ボーンを生成する。写し元がテンプレートに
// 残っているものだけが対象。
func createTorsoControls(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	for _, spec := range torsoControlSpecs {
		templateBone, err := template.GetByName(spec.source)
		if err != nil {
			continue
		}
		control, err := ec.Create(spec.name)
		if err != nil {
			return err
		}
		control.Head = templateBone.Head
		control.Tail = templateBone.Tail
		control.UseDeform = false
		placeBone(control, collectionTorso, layerTorso, capability)

		parent, err := parentOrRoot(ec, spec.parent)
		if err != nil {
			return err
		}
		if err := ec.SetParent(control, parent); err != nil {
			return err
		}
	}
	return nil
}

// createEyeControls は目の操作ボーン一式を生成する。操作ボーンは視線の
// 延長線上へ離して置き、軸は上向きにそろえる。
func createEyeControls(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	leftEye, err := template.GetByName("eye.L")
	if err != nil {
		return nil
	}
	rightEye, _ := template.GetByName("eye.R")

	if err := createMasterEyeControl(ec, leftEye, ".L", capability); err != nil {
		return err
	}
	if rightEye != nil {
		if err := createMasterEyeControl(ec, rightEye, ".R", capability); err != nil {
			return err
		}
	}

	eyeLength := leftEye.Length()
	leftHead := projectEyeControlHead(leftEye)
	eyesHead := leftHead
	if rightEye != nil {
		rightHead := projectEyeControlHead(rightEye)
		eyesHead = leftHead.Added(rightHead).MuledScalar(0.5)
	}

	eyes, err := ec.Create("eyes")
	if err != nil {
		return err
	}
	eyes.Head = eyesHead
	eyes.Tail = eyesHead.Added(mmath.NewVec3(0, 0, eyeLength))
	eyes.UseDeform = false
	placeBone(eyes, collectionFace, layerFace, capability)
	eyesParent, err := parentOrRoot(ec, orgBonePrefix+"face")
	if err != nil {
		return err
	}
	if err := ec.SetParent(eyes, eyesParent); err != nil {
		return err
	}

	if err := createEyeTargetControl(ec, eyes, leftHead, eyeLength, ".L", capability); err != nil {
		return err
	}
	if rightEye != nil {
		return createEyeTargetControl(ec, eyes, projectEyeControlHead(rightEye), eyeLength, ".R", capability)
	}
	return nil
}

// projectEyeControlHead は目ボーンの向きを延長した操作ボーンの頭位置を返す。
func projectEyeControlHead(eye *rig.Bone) mmath.Vec3 {
	direction := eye.Tail.Subed(eye.Head)
	if direction.Length() == 0 {
		return eye.Head
	}
	return eye.Head.Added(direction.MuledScalar(eyeControlDistanceFactor))
}

// createMasterEyeControl は目ボーンの位置に重なるマスター操作ボーンを生成する。
func createMasterEyeControl(ec *rig.EditContext, eye *rig.Bone, side string, capability rig.Capability) error {
	master, err := ec.Create("master_eye" + side)
	if err != nil {
		return err
	}
	master.Head = eye.Head
	master.Tail = eye.Tail
	master.UseDeform = false
	placeBone(master, collectionFace, layerFace, capability)
	parent, err := parentOrRoot(ec, orgBonePrefix+"face")
	if err != nil {
		return err
	}
	return ec.SetParent(master, parent)
}

// createEyeTargetControl は片目の注視先となる操作ボーンを生成する。
func createEyeTargetControl(
	ec *rig.EditContext,
	eyes *rig.Bone,
	head mmath.Vec3,
	eyeLength float64,
	side string,
	capability rig.Capability,
) error {
	control, err := ec.Create("eye" + side)
	if err != nil {
		return err
	}
	control.Head = head
	control.Tail = head.Added(mmath.NewVec3(0, 0, eyeLength))
	control.UseDeform = false
	placeBone(control, collectionFace, layerFace, capability)
	return ec.SetParent(control, eyes)
}

// createFaceMechanisms は目の追従と顎の機構ボーンを生成する。
func createFaceMechanisms(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	for _, side := range []string{".L", ".R"} {
		templateEye, err := template.GetByName("eye" + side)
		if err != nil {
			continue
		}
		mchEye, err := ec.Create(mchBonePrefix + "eye" + side)
		if err != nil {
			return err
		}
		mchEye.Head = templateEye.Head
		mchEye.Tail = templateEye.Tail
		mchEye.UseDeform = false
		placeBone(mchEye, collectionMech, layerMech, capability)
		parent, err := parentOrRoot(ec, "master_eye"+side)
		if err != nil {
			return err
		}
		if err := ec.SetParent(mchEye, parent); err != nil {
			return err
		}
	}

	templateJaw, err := template.GetByName("jaw")
	if err != nil {
		return nil
	}
	jawMaster, err := ec.Create("jaw_master")
	if err != nil {
		return err
	}
	jawMaster.Head = templateJaw.Head
	jawMaster.Tail = templateJaw.Tail
	jawMaster.UseDeform = false
	placeBone(jawMaster, collectionFace, layerFace, capability)
	jawParent, err := parentOrRoot(ec, orgBonePrefix+"face")
	if err != nil {
		return err
	}
	if err := ec.SetParent(jawMaster, jawParent); err != nil {
		return err
	}

	mouthLock, err := ec.Create(mchBonePrefix + "mouth_lock")
	if err != nil {
		return err
	}
	mouthLock.Head = templateJaw.Tail
	mouthLock.Tail = templateJaw.Tail.Added(mmath.NewVec3(0, 0, templateJaw.Length()*0.2))
	mouthLock.UseDeform = false
	placeBone(mouthLock, collectionMech, layerMech, capability)
	return ec.SetParent(mouthLock, jawMaster)
}

// limbControlSpec は腕・脚の IK 操作ボーン一式の定義。
type limbControlSpec struct {
	rootBone     string
	middleBone   string
	endBone      string
	parentSwitch string
	poleTarget   string
	effector     string
	kind         string
	// poleDirection はポールターゲットを逃がす Y 方向の符号。肘は後ろへ、
	// 膝は前へ出す。
	poleDirection float64
}

// limbControlSpecs は生成対象の腕・脚の定義。
var limbControlSpecs = []limbControlSpec{
	{
		rootBone: "upper_arm", middleBone: "forearm", endBone: "hand",
		parentSwitch: "upper_arm_parent", poleTarget: "upper_arm_ik_target", effector: "hand_ik",
		kind: "Arm", poleDirection: 1,
	},
	{
		rootBone: "thigh", middleBone: "shin", endBone: "foot",
		parentSwitch: "thigh_parent", poleTarget: "thigh_ik_target", effector: "foot_ik",
		kind: "Leg", poleDirection: -1,
	},
}

// limbIkLayer は腕・脚の IK 操作ボーンのレイヤービットを返す。
func limbIkLayer(kind, side string) uint32 {
	if kind == "Arm" {
		if side == ".L" {
			return layerArmIkL
		}
		return layerArmIkR
	}
	if side == ".L" {
		return layerLegIkL
	}
	return layerLegIkR
}

// createLimbControls は腕・脚の IK 操作ボーン一式を生成する。親切替ボーンは
// ストレッチ量とポール切替のプロパティを持ち、ポールターゲットは隠した
// 状態で置く。
func createLimbControls(ec *rig.EditContext, template *rig.Skeleton, capability rig.Capability) error {
	for _, limb := range limbControlSpecs {
		for _, side := range []string{".L", ".R"} {
			limbRoot, err := template.GetByName(limb.rootBone + side)
			if err != nil {
				continue
			}
			limbMiddle, err := template.GetByName(limb.middleBone + side)
			if err != nil {
				continue
			}
			limbEnd, err := template.GetByName(limb.endBone + side)
			if err != nil {
				continue
			}
			collection := limb.kind + side + " (IK)"
			layer := limbIkLayer(limb.kind, side)

			parentSwitch, err := ec.Create(limb.parentSwitch + side)
			if err != nil {
				return err
			}
			parentSwitch.Head = limbRoot.Head
			parentSwitch.Tail = limbRoot.Head.Added(limbRoot.Tail.Subed(limbRoot.Head).MuledScalar(0.25))
			parentSwitch.UseDeform = false
			parentSwitch.SetProp(ikStretchPropKey, 1.0)
			parentSwitch.SetProp(poleVectorPropKey, 0)
			placeBone(parentSwitch, collection, layer, capability)
			switchParentName := ""
			if limbRoot.Parent() != nil {
				switchParentName = orgBonePrefix + limbRoot.Parent().Name()
			}
			switchParent, err := parentOrRoot(ec, switchParentName)
			if err != nil {
				return err
			}
			if err := ec.SetParent(parentSwitch, switchParent); err != nil {
				return err
			}

			poleOffset := limbRoot.Length()
			poleTarget, err := ec.Create(limb.poleTarget + side)
			if err != nil {
				return err
			}
			poleTarget.Head = limbMiddle.Head.Added(mmath.NewVec3(0, limb.poleDirection*poleOffset, 0))
			poleTarget.Tail = poleTarget.Head.Added(mmath.NewVec3(0, limb.poleDirection*poleOffset*0.2, 0))
			poleTarget.UseDeform = false
			poleTarget.Hidden = true
			placeBone(poleTarget, collection, layer, capability)
			if err := ec.SetParent(poleTarget, parentSwitch); err != nil {
				return err
			}

			effector, err := ec.Create(limb.effector + side)
			if err != nil {
				return err
			}
			effector.Head = limbEnd.Head
			effector.Tail = limbEnd.Tail
			effector.UseDeform = false
			placeBone(effector, collection, layer, capability)
			effectorParent, err := parentOrRoot(ec, rootControlBoneName)
			if err != nil {
				return err
			}
			if err := ec.SetParent(effector, effectorParent); err != nil {
				return err
			}
		}
	}
	return nil
}

// attachDeformConstraints は変形層の各ボーンへ対応する ORG ボーンの転写拘束を
// 付ける。対応先が無い変形ボーンは素通しする。
func attachDeformConstraints(generated *rig.Skeleton) error {
	return generated.PoseScope(func(pc *rig.PoseContext) error {
		for _, bone := range pc.Bones() {
			name := bone.Name()
			if !strings.HasPrefix(name, defBonePrefix) {
				continue
			}
			orgName := orgBonePrefix + strings.TrimPrefix(name, defBonePrefix)
			if !pc.Skeleton().Contains(orgName) {
				continue
			}
			constraint := rig.NewConstraint(rig.ConstraintCopyTransforms, orgName)
			if _, err := pc.AddConstraint(bone, constraint); err != nil {
				return err
			}
		}
		return nil
	})
}
