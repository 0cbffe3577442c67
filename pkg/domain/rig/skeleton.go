// 指示: miu200521358
package rig

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
)

// Skeleton はボーンの根付き森。ボーン名は骨格内で一意。
type Skeleton struct {
	name  string
	bones []*Bone
	index map[string]*Bone
	mode  Mode
	world mmath.Mat4

	collections []string
	roles       map[Role]string
	properties  map[string]float64
	propertyUIs map[string]PropertyUI

	// Extension はアバター付帯情報。未設定は nil。
	Extension *AvatarExtension

	Hidden bool
}

// PropertyUI はカスタムプロパティの表示メタデータ。
type PropertyUI struct {
	Min         float64
	Max         float64
	SoftMin     float64
	SoftMax     float64
	Description string
}

// NewSkeleton は空の骨格を生成する。
func NewSkeleton(name string) *Skeleton {
	return &Skeleton{
		name:        name,
		index:       map[string]*Bone{},
		mode:        ModeObject,
		world:       mmath.NewMat4(),
		roles:       map[Role]string{},
		properties:  map[string]float64{},
		propertyUIs: map[string]PropertyUI{},
	}
}

// Name は骨格名を返す。
func (s *Skeleton) Name() string {
	return s.name
}

// SetName は骨格名を設定する。
func (s *Skeleton) SetName(name string) {
	s.name = name
}

// Len はボーン数を返す。
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// Bones は全ボーンを作成順で返す。
func (s *Skeleton) Bones() []*Bone {
	bones := make([]*Bone, len(s.bones))
	copy(bones, s.bones)
	return bones
}

// BoneNames は全ボーン名を作成順で返す。
func (s *Skeleton) BoneNames() []string {
	names := make([]string, len(s.bones))
	for i, bone := range s.bones {
		names[i] = bone.name
	}
	return names
}

// GetByName は名前でボーンを引く。
func (s *Skeleton) GetByName(name string) (*Bone, error) {
	bone, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: ボーン %s", merr.NameNotFoundError, name)
	}
	return bone, nil
}

// Contains は名前のボーンが存在するかどうかを返す。
func (s *Skeleton) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Roots は親を持たないボーンを作成順で返す。
func (s *Skeleton) Roots() []*Bone {
	var roots []*Bone
	for _, bone := range s.bones {
		if bone.parent == nil {
			roots = append(roots, bone)
		}
	}
	return roots
}

// Mode は現在の操作スコープを返す。
func (s *Skeleton) Mode() Mode {
	return s.mode
}

// WorldTransform は骨格全体のワールド変換を返す。
func (s *Skeleton) WorldTransform() mmath.Mat4 {
	return s.world
}

// SetWorldTransform は骨格全体のワールド変換を設定する。
func (s *Skeleton) SetWorldTransform(world mmath.Mat4) {
	s.world = world
}

// BindRole は部位にボーン名を割り当てる。
func (s *Skeleton) BindRole(role Role, boneName string) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: 部位 %d", merr.NameNotFoundError, int(role))
	}
	if !s.Contains(boneName) {
		return fmt.Errorf("%w: ボーン %s", merr.NameNotFoundError, boneName)
	}
	s.roles[role] = boneName
	return nil
}

// RoleBoneName は部位に割り当てられたボーン名を返す。
func (s *Skeleton) RoleBoneName(role Role) (string, bool) {
	name, ok := s.roles[role]
	return name, ok
}

// BoundRoles は割り当て済みの部位を列挙順で返す。
func (s *Skeleton) BoundRoles() []Role {
	var bound []Role
	for _, role := range AllRoles() {
		if _, ok := s.roles[role]; ok {
			bound = append(bound, role)
		}
	}
	return bound
}

// Collections は登録済みコレクション名を登録順で返す。
func (s *Skeleton) Collections() []string {
	collections := make([]string, len(s.collections))
	copy(collections, s.collections)
	return collections
}

// HasCollection はコレクションが登録済みかどうかを返す。
func (s *Skeleton) HasCollection(name string) bool {
	for _, collection := range s.collections {
		if collection == name {
			return true
		}
	}
	return false
}

// CollectionBones はコレクション所属ボーンを作成順で返す。
func (s *Skeleton) CollectionBones(name string) []*Bone {
	var members []*Bone
	for _, bone := range s.bones {
		if bone.InCollection(name) {
			members = append(members, bone)
		}
	}
	return members
}

func (s *Skeleton) ensureCollection(name string) {
	if !s.HasCollection(name) {
		s.collections = append(s.collections, name)
	}
}

// SetProperty は骨格のカスタムプロパティを設定する。
func (s *Skeleton) SetProperty(key string, value float64) {
	s.properties[key] = value
}

// Property は骨格のカスタムプロパティを返す。
func (s *Skeleton) Property(key string) (float64, bool) {
	value, ok := s.properties[key]
	return value, ok
}

// Properties は骨格のカスタムプロパティ一式の写しを返す。
func (s *Skeleton) Properties() map[string]float64 {
	properties := make(map[string]float64, len(s.properties))
	for key, value := range s.properties {
		properties[key] = value
	}
	return properties
}

// SetPropertyUI はカスタムプロパティの表示メタデータを設定する。
func (s *Skeleton) SetPropertyUI(key string, ui PropertyUI) {
	s.propertyUIs[key] = ui
}

// PropertyUIFor はカスタムプロパティの表示メタデータを返す。
func (s *Skeleton) PropertyUIFor(key string) (PropertyUI, bool) {
	ui, ok := s.propertyUIs[key]
	return ui, ok
}

func (s *Skeleton) appendBone(bone *Bone) {
	s.bones = append(s.bones, bone)
	s.index[bone.name] = bone
}

func (s *Skeleton) removeBone(bone *Bone) {
	for i, candidate := range s.bones {
		if candidate == bone {
			s.bones = append(s.bones[:i], s.bones[i+1:]...)
			break
		}
	}
	delete(s.index, bone.name)
	for role, name := range s.roles {
		if name == bone.name {
			delete(s.roles, role)
		}
	}
}

func (s *Skeleton) renameBone(bone *Bone, newName string) {
	oldName := bone.name
	delete(s.index, oldName)
	bone.name = newName
	s.index[newName] = bone

	// 部位割り当てと拘束参照は名前変更へ追従する。
	for role, name := range s.roles {
		if name == oldName {
			s.roles[role] = newName
		}
	}
	for _, other := range s.bones {
		for _, constraint := range other.constraints {
			if constraint.SubTarget == oldName {
				constraint.SubTarget = newName
			}
		}
	}
}
