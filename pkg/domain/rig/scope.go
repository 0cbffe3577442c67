// 指示: miu200521358
package rig

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
)

// Mode は骨格の操作スコープ。
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModeEdit   Mode = "EDIT"
	ModePose   Mode = "POSE"
)

// EditScope は編集スコープで fn を実行する。fn の結果やパニックに関わらず
// 直前のスコープへ復帰する。
func (s *Skeleton) EditScope(fn func(*EditContext) error) error {
	prev := s.mode
	s.mode = ModeEdit
	defer func() { s.mode = prev }()
	return fn(&EditContext{skeleton: s})
}

// PoseScope はポーズスコープで fn を実行する。fn の結果やパニックに関わらず
// 直前のスコープへ復帰する。
func (s *Skeleton) PoseScope(fn func(*PoseContext) error) error {
	prev := s.mode
	s.mode = ModePose
	defer func() { s.mode = prev }()
	return fn(&PoseContext{skeleton: s})
}

// EditContext は編集スコープ内でのみ許される骨格変更操作を提供する。
type EditContext struct {
	skeleton *Skeleton
}

// Skeleton は対象の骨格を返す。
func (ec *EditContext) Skeleton() *Skeleton {
	return ec.skeleton
}

// GetByName は名前でボーンを引く。
func (ec *EditContext) GetByName(name string) (*Bone, error) {
	return ec.skeleton.GetByName(name)
}

// Bones は全ボーンを作成順で返す。
func (ec *EditContext) Bones() []*Bone {
	return ec.skeleton.Bones()
}

// Create は新しいボーンを末尾に追加する。名前重複はエラー。
func (ec *EditContext) Create(name string) (*Bone, error) {
	if ec.skeleton.Contains(name) {
		return nil, fmt.Errorf("%w: ボーン %s", merr.DuplicateNameError, name)
	}
	bone := newBone(name, ec.skeleton)
	ec.skeleton.appendBone(bone)
	return bone, nil
}

// Delete はボーンを取り除く。子ボーンは削除したボーンの親へ付け替わり、
// 接続フラグは外れる。
func (ec *EditContext) Delete(bone *Bone) error {
	if bone == nil || bone.skeleton != ec.skeleton {
		return fmt.Errorf("%w: 削除対象ボーン", merr.NameNotFoundError)
	}
	grandparent := bone.parent
	if bone.parent != nil {
		bone.parent.detachChild(bone)
		bone.parent = nil
	}
	for _, child := range bone.Children() {
		child.parent = grandparent
		child.UseConnect = false
		if grandparent != nil {
			grandparent.children = append(grandparent.children, child)
		}
	}
	bone.children = nil
	ec.skeleton.removeBone(bone)
	bone.skeleton = nil
	return nil
}

// Rename はボーン名を変更する。既存名との衝突はエラー。同名指定は何もしない。
func (ec *EditContext) Rename(bone *Bone, newName string) error {
	if bone == nil || bone.skeleton != ec.skeleton {
		return fmt.Errorf("%w: 改名対象ボーン", merr.NameNotFoundError)
	}
	if bone.name == newName {
		return nil
	}
	if ec.skeleton.Contains(newName) {
		return fmt.Errorf("%w: ボーン %s", merr.DuplicateNameError, newName)
	}
	ec.skeleton.renameBone(bone, newName)
	return nil
}

// SetParent は親子関係を付け替える。nil 指定で親なしにする。
// 自分自身や子孫を親にはできない。
func (ec *EditContext) SetParent(bone *Bone, parent *Bone) error {
	if bone == nil || bone.skeleton != ec.skeleton {
		return fmt.Errorf("%w: 親替え対象ボーン", merr.NameNotFoundError)
	}
	if parent != nil {
		if parent.skeleton != ec.skeleton {
			return fmt.Errorf("%w: 親ボーン", merr.NameNotFoundError)
		}
		for ancestor := parent; ancestor != nil; ancestor = ancestor.parent {
			if ancestor == bone {
				return fmt.Errorf("親子関係が循環します: %s -> %s", bone.name, parent.name)
			}
		}
	}
	if bone.parent != nil {
		bone.parent.detachChild(bone)
	}
	bone.parent = parent
	if parent != nil {
		parent.children = append(parent.children, bone)
	}
	return nil
}

func (b *Bone) detachChild(child *Bone) {
	for i, candidate := range b.children {
		if candidate == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			return
		}
	}
}

// PoseContext はポーズスコープ内でのみ許される拘束操作を提供する。
type PoseContext struct {
	skeleton *Skeleton
}

// Skeleton は対象の骨格を返す。
func (pc *PoseContext) Skeleton() *Skeleton {
	return pc.skeleton
}

// GetByName は名前でボーンを引く。
func (pc *PoseContext) GetByName(name string) (*Bone, error) {
	return pc.skeleton.GetByName(name)
}

// Bones は全ボーンを作成順で返す。
func (pc *PoseContext) Bones() []*Bone {
	return pc.skeleton.Bones()
}

// AddConstraint はボーンへ拘束を追加する。
func (pc *PoseContext) AddConstraint(bone *Bone, constraint *Constraint) (*Constraint, error) {
	if bone == nil || bone.skeleton != pc.skeleton {
		return nil, fmt.Errorf("%w: 拘束対象ボーン", merr.NameNotFoundError)
	}
	bone.constraints = append(bone.constraints, constraint)
	return constraint, nil
}
