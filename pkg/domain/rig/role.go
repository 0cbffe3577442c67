// 指示: miu200521358
package rig

import "strings"

// Role はヒューマノイド骨格の部位種別。
type Role int

const (
	RoleUnknown Role = iota
	RoleHips
	RoleSpine
	RoleChest
	RoleUpperChest
	RoleNeck
	RoleHead
	RoleLeftEye
	RoleRightEye
	RoleJaw
	RoleLeftShoulder
	RoleLeftUpperArm
	RoleLeftLowerArm
	RoleLeftHand
	RoleRightShoulder
	RoleRightUpperArm
	RoleRightLowerArm
	RoleRightHand
	RoleLeftUpperLeg
	RoleLeftLowerLeg
	RoleLeftFoot
	RoleLeftToes
	RoleRightUpperLeg
	RoleRightLowerLeg
	RoleRightFoot
	RoleRightToes
	RoleLeftThumbMetacarpal
	RoleLeftThumbProximal
	RoleLeftThumbDistal
	RoleLeftIndexProximal
	RoleLeftIndexIntermediate
	RoleLeftIndexDistal
	RoleLeftMiddleProximal
	RoleLeftMiddleIntermediate
	RoleLeftMiddleDistal
	RoleLeftRingProximal
	RoleLeftRingIntermediate
	RoleLeftRingDistal
	RoleLeftLittleProximal
	RoleLeftLittleIntermediate
	RoleLeftLittleDistal
	RoleRightThumbMetacarpal
	RoleRightThumbProximal
	RoleRightThumbDistal
	RoleRightIndexProximal
	RoleRightIndexIntermediate
	RoleRightIndexDistal
	RoleRightMiddleProximal
	RoleRightMiddleIntermediate
	RoleRightMiddleDistal
	RoleRightRingProximal
	RoleRightRingIntermediate
	RoleRightRingDistal
	RoleRightLittleProximal
	RoleRightLittleIntermediate
	RoleRightLittleDistal
	roleCount
)

// 部位として扱わない予約済み管理キー。部位対応の列挙時は必ず読み飛ばす。
const (
	ReservedRoleNameLastBoneNames                  = "last_bone_names"
	ReservedRoleNameInitialAutomaticBoneAssignment = "initial_automatic_bone_assignment"
)

var roleNames = [roleCount]string{
	RoleUnknown:                 "",
	RoleHips:                    "hips",
	RoleSpine:                   "spine",
	RoleChest:                   "chest",
	RoleUpperChest:              "upperChest",
	RoleNeck:                    "neck",
	RoleHead:                    "head",
	RoleLeftEye:                 "leftEye",
	RoleRightEye:                "rightEye",
	RoleJaw:                     "jaw",
	RoleLeftShoulder:            "leftShoulder",
	RoleLeftUpperArm:            "leftUpperArm",
	RoleLeftLowerArm:            "leftLowerArm",
	RoleLeftHand:                "leftHand",
	RoleRightShoulder:           "rightShoulder",
	RoleRightUpperArm:           "rightUpperArm",
	RoleRightLowerArm:           "rightLowerArm",
	RoleRightHand:               "rightHand",
	RoleLeftUpperLeg:            "leftUpperLeg",
	RoleLeftLowerLeg:            "leftLowerLeg",
	RoleLeftFoot:                "leftFoot",
	RoleLeftToes:                "leftToes",
	RoleRightUpperLeg:           "rightUpperLeg",
	RoleRightLowerLeg:           "rightLowerLeg",
	RoleRightFoot:               "rightFoot",
	RoleRightToes:               "rightToes",
	RoleLeftThumbMetacarpal:     "leftThumbMetacarpal",
	RoleLeftThumbProximal:       "leftThumbProximal",
	RoleLeftThumbDistal:         "leftThumbDistal",
	RoleLeftIndexProximal:       "leftIndexProximal",
	RoleLeftIndexIntermediate:   "leftIndexIntermediate",
	RoleLeftIndexDistal:         "leftIndexDistal",
	RoleLeftMiddleProximal:      "leftMiddleProximal",
	RoleLeftMiddleIntermediate:  "leftMiddleIntermediate",
	RoleLeftMiddleDistal:        "leftMiddleDistal",
	RoleLeftRingProximal:        "leftRingProximal",
	RoleLeftRingIntermediate:    "leftRingIntermediate",
	RoleLeftRingDistal:          "leftRingDistal",
	RoleLeftLittleProximal:      "leftLittleProximal",
	RoleLeftLittleIntermediate:  "leftLittleIntermediate",
	RoleLeftLittleDistal:        "leftLittleDistal",
	RoleRightThumbMetacarpal:    "rightThumbMetacarpal",
	RoleRightThumbProximal:      "rightThumbProximal",
	RoleRightThumbDistal:        "rightThumbDistal",
	RoleRightIndexProximal:      "rightIndexProximal",
	RoleRightIndexIntermediate:  "rightIndexIntermediate",
	RoleRightIndexDistal:        "rightIndexDistal",
	RoleRightMiddleProximal:     "rightMiddleProximal",
	RoleRightMiddleIntermediate: "rightMiddleIntermediate",
	RoleRightMiddleDistal:       "rightMiddleDistal",
	RoleRightRingProximal:       "rightRingProximal",
	RoleRightRingIntermediate:   "rightRingIntermediate",
	RoleRightRingDistal:         "rightRingDistal",
	RoleRightLittleProximal:     "rightLittleProximal",
	RoleRightLittleIntermediate: "rightLittleIntermediate",
	RoleRightLittleDistal:       "rightLittleDistal",
}

// String は部位の正準名を返す。
func (r Role) String() string {
	if r <= RoleUnknown || r >= roleCount {
		return ""
	}
	return roleNames[r]
}

// IsValid は部位が既知かどうかを返す。
func (r Role) IsValid() bool {
	return r > RoleUnknown && r < roleCount
}

// AllRoles は全部位を列挙順で返す。
func AllRoles() []Role {
	roles := make([]Role, 0, int(roleCount)-1)
	for r := RoleHips; r < roleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}

// RoleFromName は部位名を解決する。予約済み管理キーと未知名は不一致を返す。
func RoleFromName(name string) (Role, bool) {
	trimmed := strings.TrimSpace(name)
	switch trimmed {
	case "", ReservedRoleNameLastBoneNames, ReservedRoleNameInitialAutomaticBoneAssignment:
		return RoleUnknown, false
	}
	for r := RoleHips; r < roleCount; r++ {
		if roleNames[r] == trimmed {
			return r, true
		}
	}
	return RoleUnknown, false
}
