// 指示: miu200521358
package generator

import (
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// metarigBone は人型テンプレート1本分の定義。connect が真のボーンは
// head を持たず、親の tail から生える。
type metarigBone struct {
	name    string
	parent  string
	connect bool
	head    mmath.Vec3
	tail    mmath.Vec3
}

// mirrorMetarigBone は左側の定義を X 反転した右側の定義を返す。
func mirrorMetarigBone(bone metarigBone) metarigBone {
	bone.name = mirrorBoneName(bone.name)
	bone.parent = mirrorBoneName(bone.parent)
	bone.head.X = -bone.head.X
	bone.tail.X = -bone.tail.X
	return bone
}

// mirrorBoneName は ".L" 終端を ".R" に置き換える。左右の区別がない名前は
// そのまま返す。
func mirrorBoneName(name string) string {
	if strings.HasSuffix(name, ".L") {
		return strings.TrimSuffix(name, ".L") + ".R"
	}
	return name
}

// humanMetarigBones は人型テンプレートの全ボーン定義を親が先に来る順で返す。
// 座標は Z を上、-Y を正面とする素体基準。中央のボーンはそのまま並べ、
// 左側の定義は X 反転して右側を補う。
func humanMetarigBones() []metarigBone {
	specs := make([]metarigBone, 0, 128)
	center := func(bone metarigBone) {
		specs = append(specs, bone)
	}
	sided := func(bone metarigBone) {
		specs = append(specs, bone, mirrorMetarigBone(bone))
	}

	// 体幹
	center(metarigBone{name: "spine", head: mmath.NewVec3(0, 0.0552, 1.0099), tail: mmath.NewVec3(0, 0.0172, 1.1573)})
	center(metarigBone{name: "spine.001", parent: "spine", connect: true, tail: mmath.NewVec3(0, 0.0004, 1.2929)})
	center(metarigBone{name: "spine.002", parent: "spine.001", connect: true, tail: mmath.NewVec3(0, 0.0059, 1.4657)})
	center(metarigBone{name: "spine.003", parent: "spine.002", connect: true, tail: mmath.NewVec3(0, 0.0114, 1.6582)})
	center(metarigBone{name: "spine.004", parent: "spine.003", connect: true, tail: mmath.NewVec3(0, 0.0060, 1.7047)})
	center(metarigBone{name: "spine.005", parent: "spine.004", connect: true, tail: mmath.NewVec3(0, 0.0114, 1.7513)})
	center(metarigBone{name: "spine.006", parent: "spine.005", connect: true, tail: mmath.NewVec3(0, 0.0247, 1.8939)})
	sided(metarigBone{name: "pelvis.L", parent: "spine", head: mmath.NewVec3(0, 0.0552, 1.0099), tail: mmath.NewVec3(0.1112, -0.0451, 1.1533)})

	// 脚
	sided(metarigBone{name: "thigh.L", parent: "spine", head: mmath.NewVec3(0.0980, 0.0124, 1.0720), tail: mmath.NewVec3(0.0980, -0.0012, 0.5509)})
	sided(metarigBone{name: "shin.L", parent: "thigh.L", connect: true, tail: mmath.NewVec3(0.0980, 0.0352, 0.0894)})
	sided(metarigBone{name: "foot.L", parent: "shin.L", connect: true, tail: mmath.NewVec3(0.0980, -0.0928, 0.0149)})
	sided(metarigBone{name: "toe.L", parent: "foot.L", connect: true, tail: mmath.NewVec3(0.0980, -0.1606, 0.0149)})
	sided(metarigBone{name: "heel.02.L", parent: "foot.L", head: mmath.NewVec3(0.0600, 0.0459, 0), tail: mmath.NewVec3(0.1400, 0.0459, 0)})

	// 肩・腕
	sided(metarigBone{name: "shoulder.L", parent: "spine.003", head: mmath.NewVec3(0.0183, -0.0684, 1.6051), tail: mmath.NewVec3(0.1694, 0.0205, 1.6050)})
	sided(metarigBone{name: "upper_arm.L", parent: "shoulder.L", head: mmath.NewVec3(0.1953, 0.0267, 1.5846), tail: mmath.NewVec3(0.4424, 0.0885, 1.4491)})
	sided(metarigBone{name: "forearm.L", parent: "upper_arm.L", connect: true, tail: mmath.NewVec3(0.6594, 0.0492, 1.3061)})
	sided(metarigBone{name: "hand.L", parent: "forearm.L", connect: true, tail: mmath.NewVec3(0.7234, 0.0412, 1.2585)})
	sided(metarigBone{name: "breast.L", parent: "spine.003", head: mmath.NewVec3(0.0950, -0.0688, 1.4967), tail: mmath.NewVec3(0.0950, -0.1684, 1.4967)})

	// 手のひら
	sided(metarigBone{name: "palm.01.L", parent: "hand.L", head: mmath.NewVec3(0.6921, 0.0224, 1.2882), tail: mmath.NewVec3(0.7464, 0.0156, 1.2667)})
	sided(metarigBone{name: "palm.02.L", parent: "hand.L", head: mmath.NewVec3(0.6970, 0.0389, 1.2877), tail: mmath.NewVec3(0.7518, 0.0369, 1.2661)})
	sided(metarigBone{name: "palm.03.L", parent: "hand.L", head: mmath.NewVec3(0.6963, 0.0545, 1.2874), tail: mmath.NewVec3(0.7540, 0.0553, 1.2653)})
	sided(metarigBone{name: "palm.04.L", parent: "hand.L", head: mmath.NewVec3(0.6929, 0.0700, 1.2855), tail: mmath.NewVec3(0.7528, 0.0756, 1.2631)})

	// 指
	sided(metarigBone{name: "thumb.01.L", parent: "palm.01.L", head: mmath.NewVec3(0.6705, 0.0007, 1.2750), tail: mmath.NewVec3(0.6857, -0.0173, 1.2653)})
	sided(metarigBone{name: "thumb.02.L", parent: "thumb.01.L", connect: true, tail: mmath.NewVec3(0.6958, -0.0294, 1.2589)})
	sided(metarigBone{name: "thumb.03.L", parent: "thumb.02.L", connect: true, tail: mmath.NewVec3(0.7028, -0.0379, 1.2543)})
	sided(metarigBone{name: "f_index.01.L", parent: "palm.01.L", head: mmath.NewVec3(0.7464, 0.0156, 1.2667), tail: mmath.NewVec3(0.7718, 0.0122, 1.2536)})
	sided(metarigBone{name: "f_index.02.L", parent: "f_index.01.L", connect: true, tail: mmath.NewVec3(0.7840, 0.0105, 1.2473)})
	sided(metarigBone{name: "f_index.03.L", parent: "f_index.02.L", connect: true, tail: mmath.NewVec3(0.7892, 0.0098, 1.2446)})
	sided(metarigBone{name: "f_middle.01.L", parent: "palm.02.L", head: mmath.NewVec3(0.7518, 0.0369, 1.2661), tail: mmath.NewVec3(0.7812, 0.0375, 1.2532)})
	sided(metarigBone{name: "f_middle.02.L", parent: "f_middle.01.L", connect: true, tail: mmath.NewVec3(0.7958, 0.0378, 1.2468)})
	sided(metarigBone{name: "f_middle.03.L", parent: "f_middle.02.L", connect: true, tail: mmath.NewVec3(0.8021, 0.0379, 1.2440)})
	sided(metarigBone{name: "f_ring.01.L", parent: "palm.03.L", head: mmath.NewVec3(0.7540, 0.0553, 1.2653), tail: mmath.NewVec3(0.7805, 0.0584, 1.2531)})
	sided(metarigBone{name: "f_ring.02.L", parent: "f_ring.01.L", connect: true, tail: mmath.NewVec3(0.7937, 0.0600, 1.2470)})
	sided(metarigBone{name: "f_ring.03.L", parent: "f_ring.02.L", connect: true, tail: mmath.NewVec3(0.7994, 0.0607, 1.2444)})
	sided(metarigBone{name: "f_pinky.01.L", parent: "palm.04.L", head: mmath.NewVec3(0.7528, 0.0756, 1.2631), tail: mmath.NewVec3(0.7743, 0.0811, 1.2532)})
	sided(metarigBone{name: "f_pinky.02.L", parent: "f_pinky.01.L", connect: true, tail: mmath.NewVec3(0.7850, 0.0838, 1.2483)})
	sided(metarigBone{name: "f_pinky.03.L", parent: "f_pinky.02.L", connect: true, tail: mmath.NewVec3(0.7897, 0.0850, 1.2461)})

	// 顔
	center(metarigBone{name: "face", parent: "spine.006", head: mmath.NewVec3(0, -0.0711, 1.7731), tail: mmath.NewVec3(0, -0.0711, 1.8430)})
	center(metarigBone{name: "nose", parent: "face", head: mmath.NewVec3(0, -0.1102, 1.8210), tail: mmath.NewVec3(0, -0.1286, 1.8005)})
	center(metarigBone{name: "nose.001", parent: "nose", connect: true, tail: mmath.NewVec3(0, -0.1288, 1.7940)})
	center(metarigBone{name: "jaw", parent: "face", head: mmath.NewVec3(0, -0.0736, 1.7490), tail: mmath.NewVec3(0, -0.1219, 1.7350)})
	center(metarigBone{name: "chin", parent: "jaw", connect: true, tail: mmath.NewVec3(0, -0.1233, 1.7492)})
	center(metarigBone{name: "chin.001", parent: "chin", connect: true, tail: mmath.NewVec3(0, -0.1218, 1.7595)})
	center(metarigBone{name: "teeth.T", parent: "face", head: mmath.NewVec3(0, -0.1226, 1.7850), tail: mmath.NewVec3(0, -0.1026, 1.7850)})
	center(metarigBone{name: "teeth.B", parent: "jaw", head: mmath.NewVec3(0, -0.1214, 1.7662), tail: mmath.NewVec3(0, -0.1014, 1.7662)})
	center(metarigBone{name: "tongue", parent: "jaw", head: mmath.NewVec3(0, -0.1211, 1.7734), tail: mmath.NewVec3(0, -0.1064, 1.7744)})
	center(metarigBone{name: "tongue.001", parent: "tongue", connect: true, tail: mmath.NewVec3(0, -0.0906, 1.7714)})
	sided(metarigBone{name: "lip.T.L", parent: "face", head: mmath.NewVec3(0.0021, -0.1282, 1.7789), tail: mmath.NewVec3(0.0123, -0.1260, 1.7795)})
	sided(metarigBone{name: "lip.B.L", parent: "face", head: mmath.NewVec3(0.0021, -0.1265, 1.7725), tail: mmath.NewVec3(0.0123, -0.1245, 1.7741)})
	sided(metarigBone{name: "ear.L", parent: "face", head: mmath.NewVec3(0.0616, -0.0083, 1.8202), tail: mmath.NewVec3(0.0663, -0.0101, 1.8347)})
	sided(metarigBone{name: "ear.L.001", parent: "ear.L", connect: true, tail: mmath.NewVec3(0.0733, 0.0022, 1.8420)})
	sided(metarigBone{name: "lid.T.L", parent: "face", head: mmath.NewVec3(0.0428, -0.1001, 1.8257), tail: mmath.NewVec3(0.0352, -0.1059, 1.8289)})
	sided(metarigBone{name: "lid.B.L", parent: "face", head: mmath.NewVec3(0.0352, -0.1059, 1.8208), tail: mmath.NewVec3(0.0428, -0.1001, 1.8231)})
	sided(metarigBone{name: "brow.T.L", parent: "face", head: mmath.NewVec3(0.0433, -0.1022, 1.8413), tail: mmath.NewVec3(0.0341, -0.1088, 1.8438)})
	sided(metarigBone{name: "brow.B.L", parent: "face", head: mmath.NewVec3(0.0423, -0.1020, 1.8342), tail: mmath.NewVec3(0.0337, -0.1080, 1.8362)})
	sided(metarigBone{name: "forehead.L", parent: "face", head: mmath.NewVec3(0.0168, -0.1019, 1.8576), tail: mmath.NewVec3(0.0170, -0.1033, 1.8667)})
	sided(metarigBone{name: "temple.L", parent: "face", head: mmath.NewVec3(0.0585, -0.0762, 1.8550), tail: mmath.NewVec3(0.0589, -0.0740, 1.8377)})
	sided(metarigBone{name: "cheek.T.L", parent: "face", head: mmath.NewVec3(0.0483, -0.0912, 1.8096), tail: mmath.NewVec3(0.0572, -0.0809, 1.8190)})
	sided(metarigBone{name: "cheek.B.L", parent: "face", head: mmath.NewVec3(0.0459, -0.0923, 1.7878), tail: mmath.NewVec3(0.0565, -0.0845, 1.7983)})
	sided(metarigBone{name: "eye.L", parent: "face", head: mmath.NewVec3(0.0360, -0.0902, 1.8230), tail: mmath.NewVec3(0.0360, -0.1059, 1.8230)})

	return specs
}

// metarigRoleBindings は人型部位とテンプレートボーンの割り当て。首は下側の
// spine.004 に割り当てるため、上側の spine.005 はどの部位にも属さない。
var metarigRoleBindings = []struct {
	role rig.Role
	bone string
}{
	{rig.RoleHips, "spine"},
	{rig.RoleSpine, "spine.001"},
	{rig.RoleChest, "spine.002"},
	{rig.RoleUpperChest, "spine.003"},
	{rig.RoleNeck, "spine.004"},
	{rig.RoleHead, "spine.006"},
	{rig.RoleLeftEye, "eye.L"},
	{rig.RoleRightEye, "eye.R"},
	{rig.RoleJaw, "jaw"},
	{rig.RoleLeftShoulder, "shoulder.L"},
	{rig.RoleLeftUpperArm, "upper_arm.L"},
	{rig.RoleLeftLowerArm, "forearm.L"},
	{rig.RoleLeftHand, "hand.L"},
	{rig.RoleRightShoulder, "shoulder.R"},
	{rig.RoleRightUpperArm, "upper_arm.R"},
	{rig.RoleRightLowerArm, "forearm.R"},
	{rig.RoleRightHand, "hand.R"},
	{rig.RoleLeftUpperLeg, "thigh.L"},
	{rig.RoleLeftLowerLeg, "shin.L"},
	{rig.RoleLeftFoot, "foot.L"},
	{rig.RoleLeftToes, "toe.L"},
	{rig.RoleRightUpperLeg, "thigh.R"},
	{rig.RoleRightLowerLeg, "shin.R"},
	{rig.RoleRightFoot, "foot.R"},
	{rig.RoleRightToes, "toe.R"},
	{rig.RoleLeftThumbMetacarpal, "thumb.01.L"},
	{rig.RoleLeftThumbProximal, "thumb.02.L"},
	{rig.RoleLeftThumbDistal, "thumb.03.L"},
	{rig.RoleLeftIndexProximal, "f_index.01.L"},
	{rig.RoleLeftIndexIntermediate, "f_index.02.L"},
	{rig.RoleLeftIndexDistal, "f_index.03.L"},
	{rig.RoleLeftMiddleProximal, "f_middle.01.L"},
	{rig.RoleLeftMiddleIntermediate, "f_middle.02.L"},
	{rig.RoleLeftMiddleDistal, "f_middle.03.L"},
	{rig.RoleLeftRingProximal, "f_ring.01.L"},
	{rig.RoleLeftRingIntermediate, "f_ring.02.L"},
	{rig.RoleLeftRingDistal, "f_ring.03.L"},
	{rig.RoleLeftLittleProximal, "f_pinky.01.L"},
	{rig.RoleLeftLittleIntermediate, "f_pinky.02.L"},
	{rig.RoleLeftLittleDistal, "f_pinky.03.L"},
	{rig.RoleRightThumbMetacarpal, "thumb.01.R"},
	{rig.RoleRightThumbProximal, "thumb.02.R"},
	{rig.RoleRightThumbDistal, "thumb.03.R"},
	{rig.RoleRightIndexProximal, "f_index.01.R"},
	{rig.RoleRightIndexIntermediate, "f_index.02.R"},
	{rig.RoleRightIndexDistal, "f_index.03.R"},
	{rig.RoleRightMiddleProximal, "f_middle.01.R"},
	{rig.RoleRightMiddleIntermediate, "f_middle.02.R"},
	{rig.RoleRightMiddleDistal, "f_middle.03.R"},
	{rig.RoleRightRingProximal, "f_ring.01.R"},
	{rig.RoleRightRingIntermediate, "f_ring.02.R"},
	{rig.RoleRightRingDistal, "f_ring.03.R"},
	{rig.RoleRightLittleProximal, "f_pinky.01.R"},
	{rig.RoleRightLittleIntermediate, "f_pinky.02.R"},
	{rig.RoleRightLittleDistal, "f_pinky.03.R"},
}

// limbGeneratorRootBoneNames は生成パラメータを持つ腕・脚の根元ボーン。
var limbGeneratorRootBoneNames = []string{
	"upper_arm.L", "upper_arm.R",
	"thigh.L", "thigh.R",
}

// buildHumanTemplate は人型テンプレート骨格を組み立てる。腕・脚の根元には
// 二分割の生成パラメータを与え、全部位の割り当てを済ませた状態で返す。
func buildHumanTemplate(name string) (*rig.Skeleton, error) {
	skeleton := rig.NewSkeleton(name)
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, spec := range humanMetarigBones() {
			bone, err := ec.Create(spec.name)
			if err != nil {
				return err
			}
			bone.Head = spec.head
			bone.Tail = spec.tail
			if spec.parent == "" {
				continue
			}
			parent, err := ec.GetByName(spec.parent)
			if err != nil {
				return err
			}
			if err := ec.SetParent(bone, parent); err != nil {
				return err
			}
			if spec.connect {
				bone.UseConnect = true
				bone.Head = parent.Tail
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = skeleton.PoseScope(func(pc *rig.PoseContext) error {
		for _, boneName := range limbGeneratorRootBoneNames {
			bone, err := pc.GetByName(boneName)
			if err != nil {
				return err
			}
			bone.RotationAxis = "automatic"
			bone.Segments = 2
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, binding := range metarigRoleBindings {
		if err := skeleton.BindRole(binding.role, binding.bone); err != nil {
			return nil, err
		}
	}
	return skeleton, nil
}
