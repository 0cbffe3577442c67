// 指示: miu200521358
package rig

import (
	"sort"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
)

// Bone は骨格グラフの1ボーン。生成・削除・名前変更・親替えは
// EditContext 経由でのみ行う。
type Bone struct {
	name     string
	skeleton *Skeleton
	parent   *Bone
	children []*Bone

	// 形状
	Head mmath.Vec3
	Tail mmath.Vec3
	Roll float64

	// 属性
	UseConnect bool
	UseDeform  bool
	// Layers はコレクション未対応ホスト向けの所属レイヤービットマスク。
	Layers uint32

	// リグ生成パラメータ
	RotationAxis        string
	PrimaryRotationAxis string
	Segments            int

	Hidden   bool
	Selected bool

	collections map[string]struct{}
	constraints []*Constraint
	props       map[string]any
}

func newBone(name string, skeleton *Skeleton) *Bone {
	return &Bone{
		name:        name,
		skeleton:    skeleton,
		UseDeform:   true,
		collections: map[string]struct{}{},
		props:       map[string]any{},
	}
}

// Name はボーン名を返す。
func (b *Bone) Name() string {
	return b.name
}

// Parent は親ボーンを返す。親なしは nil。
func (b *Bone) Parent() *Bone {
	return b.parent
}

// Children は直接の子ボーンを追加順で返す。
func (b *Bone) Children() []*Bone {
	children := make([]*Bone, len(b.children))
	copy(children, b.children)
	return children
}

// ChildrenRecursive は全子孫ボーンを深さ優先順で返す。
func (b *Bone) ChildrenRecursive() []*Bone {
	var descendants []*Bone
	for _, child := range b.children {
		descendants = append(descendants, child)
		descendants = append(descendants, child.ChildrenRecursive()...)
	}
	return descendants
}

// FullPath は親階層を含むパス表記(例: "hips/spine/chest")を返す。
func (b *Bone) FullPath() string {
	var names []string
	for bone := b; bone != nil; bone = bone.parent {
		names = append(names, bone.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

// Length はボーン長を返す。
func (b *Bone) Length() float64 {
	return b.Tail.Distance(b.Head)
}

// SetLength はボーンの向きを保ったまま長さを変更する。
// 長さ0のボーンは変更しない。
func (b *Bone) SetLength(length float64) {
	direction := b.Tail.Subed(b.Head)
	if direction.Length() == 0 {
		return
	}
	b.Tail = b.Head.Added(direction.Normalized().MuledScalar(length))
}

// AssignCollection はボーンを名前付きコレクションへ所属させる。
func (b *Bone) AssignCollection(name string) {
	b.collections[name] = struct{}{}
	if b.skeleton != nil {
		b.skeleton.ensureCollection(name)
	}
}

// UnassignCollection はコレクション所属を外す。
func (b *Bone) UnassignCollection(name string) {
	delete(b.collections, name)
}

// InCollection はコレクションに所属しているかどうかを返す。
func (b *Bone) InCollection(name string) bool {
	_, ok := b.collections[name]
	return ok
}

// CollectionNames は所属コレクション名をソート順で返す。
func (b *Bone) CollectionNames() []string {
	names := make([]string, 0, len(b.collections))
	for name := range b.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Constraints は付与済みの拘束を追加順で返す。
func (b *Bone) Constraints() []*Constraint {
	constraints := make([]*Constraint, len(b.constraints))
	copy(constraints, b.constraints)
	return constraints
}

// SetProp はボーンのカスタムプロパティを設定する。
func (b *Bone) SetProp(key string, value any) {
	b.props[key] = value
}

// Prop はボーンのカスタムプロパティを返す。
func (b *Bone) Prop(key string) (any, bool) {
	value, ok := b.props[key]
	return value, ok
}
