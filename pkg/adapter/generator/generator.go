// 指示: miu200521358

// Package generator は接続先ホストなしで動く参照リグ生成器を提供する。
// 人型テンプレートの提供と、ORG/DEF/MCH の階層命名規約に従う制御リグの
// 組み立てを決定的に行う。CLI とテストはこの生成器を使う。
package generator

import (
	"fmt"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// RigifyGenerator は人型テンプレートから制御リグを組み立てる参照生成器。
type RigifyGenerator struct {
	capability rig.Capability
}

// NewRigifyGenerator は現行ホスト相当の機能を持つ生成器を返す。
func NewRigifyGenerator() *RigifyGenerator {
	return &RigifyGenerator{capability: rig.DefaultCapability()}
}

// NewRigifyGeneratorWithCapability は機能一覧を指定して生成器を返す。
// 旧版ホストの挙動を再現したいときに使う。
func NewRigifyGeneratorWithCapability(capability rig.Capability) *RigifyGenerator {
	return &RigifyGenerator{capability: capability}
}

// Capability はホスト機能の有無を返す。
func (g *RigifyGenerator) Capability() rig.Capability {
	return g.capability
}

// NewTemplate は部位割り当て済みの人型テンプレート骨格を生成する。
func (g *RigifyGenerator) NewTemplate(name string) (*rig.Skeleton, error) {
	return buildHumanTemplate(name)
}

// Generate はテンプレート骨格から制御リグを生成する。
func (g *RigifyGenerator) Generate(template *rig.Skeleton) (*rig.Skeleton, error) {
	if !g.capability.RigGeneration {
		return nil, fmt.Errorf("%w: この生成器ではリグ生成が無効です", merr.GeneratorUnavailableError)
	}
	if template == nil {
		return nil, fmt.Errorf("テンプレート骨格が未指定です")
	}
	return buildLayeredRig(template, g.capability)
}
