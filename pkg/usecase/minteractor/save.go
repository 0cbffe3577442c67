// 指示: miu200521358
package minteractor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// rigDumpFormatVersion はリグ書き出しファイルの書式版数。
const rigDumpFormatVersion = 1

// rigDumpExt はリグ書き出しファイルの拡張子。
const rigDumpExt = ".json"

// RigDumpConstraint は書き出し用の拘束情報。
type RigDumpConstraint struct {
	Type             string  `json:"type"`
	SubTarget        string  `json:"sub_target"`
	Influence        float64 `json:"influence"`
	Muted            bool    `json:"muted,omitempty"`
	DriverExpression string  `json:"driver_expression,omitempty"`
}

// RigDumpBone は書き出し用のボーン情報。
type RigDumpBone struct {
	Name        string              `json:"name"`
	Parent      string              `json:"parent,omitempty"`
	Head        [3]float64          `json:"head"`
	Tail        [3]float64          `json:"tail"`
	Roll        float64             `json:"roll,omitempty"`
	UseDeform   bool                `json:"use_deform"`
	UseConnect  bool                `json:"use_connect,omitempty"`
	Hidden      bool                `json:"hidden,omitempty"`
	Collections []string            `json:"collections,omitempty"`
	Constraints []RigDumpConstraint `json:"constraints,omitempty"`
}

// RigDumpSkeleton は書き出し用の骨格情報。
type RigDumpSkeleton struct {
	Name       string             `json:"name"`
	Hidden     bool               `json:"hidden,omitempty"`
	Bones      []RigDumpBone      `json:"bones"`
	Roles      map[string]string  `json:"roles,omitempty"`
	Properties map[string]float64 `json:"properties,omitempty"`
}

// RigDumpMesh は書き出し用のメッシュ結び付け情報。
type RigDumpMesh struct {
	Name           string   `json:"name"`
	ModifierTarget string   `json:"modifier_target"`
	Hidden         bool     `json:"hidden,omitempty"`
	VertexGroups   []string `json:"vertex_groups"`
}

// RigDumpDocument はリグ変換結果の書き出し全体。
type RigDumpDocument struct {
	FormatVersion int                  `json:"format_version"`
	SourceName    string               `json:"source_name"`
	SourcePath    string               `json:"source_path,omitempty"`
	Rig           RigDumpSkeleton      `json:"rig"`
	Template      RigDumpSkeleton      `json:"template"`
	Meshes        []RigDumpMesh        `json:"meshes"`
	Extension     *rig.AvatarExtension `json:"extension,omitempty"`
	Summary       ConvertSummary       `json:"summary"`
}

// DefaultOutputPath は入力パスから既定のリグ書き出しパスを生成する。
func DefaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if strings.TrimSpace(base) == "" {
		return ""
	}
	return filepath.Join(dir, base+"_rigify"+rigDumpExt)
}

// ResolveOutputPath はリグ書き出し先パスを解決し、拡張子を検証する。
func ResolveOutputPath(inputPath, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = DefaultOutputPath(inputPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", fmt.Errorf("書き出し先パスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), rigDumpExt) {
		return "", fmt.Errorf("書き出し先拡張子が %s ではありません: %s", rigDumpExt, resolved)
	}
	return resolved, nil
}

// BuildRigDump は変換結果から書き出し用ドキュメントを組み立てる。
func BuildRigDump(result *ConvertResult) (*RigDumpDocument, error) {
	if result == nil || result.Rig == nil {
		return nil, fmt.Errorf("書き出し対象の変換結果が空です")
	}

	document := &RigDumpDocument{
		FormatVersion: rigDumpFormatVersion,
		Rig:           dumpSkeleton(result.Rig),
		Template:      dumpSkeleton(result.Template),
		Meshes:        make([]RigDumpMesh, 0, len(result.Meshes)),
		Summary:       result.Summary,
	}
	if result.Source != nil {
		document.SourceName = result.Source.Name
		document.SourcePath = result.Source.Path
	}
	if result.Rig.Extension != nil {
		document.Extension = result.Rig.Extension
	}
	for _, mesh := range result.Meshes {
		document.Meshes = append(document.Meshes, RigDumpMesh{
			Name:           mesh.Name,
			ModifierTarget: mesh.ModifierTarget,
			Hidden:         mesh.Hidden,
			VertexGroups:   append([]string(nil), mesh.VertexGroups...),
		})
	}
	return document, nil
}

// SaveResult は変換結果をリグ書き出しファイルへ保存する。
func SaveResult(path string, result *ConvertResult) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	document, err := BuildRigDump(result)
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("変換結果の書式化に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("書き出しファイル %s を書き込めません: %w", path, err)
	}
	mlog.ILT("保存", "変換結果を書き出しました: %s", path)
	return nil
}

func dumpSkeleton(skeleton *rig.Skeleton) RigDumpSkeleton {
	if skeleton == nil {
		return RigDumpSkeleton{}
	}
	dump := RigDumpSkeleton{
		Name:       skeleton.Name(),
		Hidden:     skeleton.Hidden,
		Bones:      make([]RigDumpBone, 0, skeleton.Len()),
		Properties: skeleton.Properties(),
	}
	roles := skeleton.BoundRoles()
	if len(roles) > 0 {
		dump.Roles = make(map[string]string, len(roles))
		for _, role := range roles {
			if name, ok := skeleton.RoleBoneName(role); ok {
				dump.Roles[role.String()] = name
			}
		}
	}
	for _, bone := range skeleton.Bones() {
		dumpBone := RigDumpBone{
			Name:        bone.Name(),
			Head:        [3]float64{bone.Head.X, bone.Head.Y, bone.Head.Z},
			Tail:        [3]float64{bone.Tail.X, bone.Tail.Y, bone.Tail.Z},
			Roll:        bone.Roll,
			UseDeform:   bone.UseDeform,
			UseConnect:  bone.UseConnect,
			Hidden:      bone.Hidden,
			Collections: bone.CollectionNames(),
		}
		if parent := bone.Parent(); parent != nil {
			dumpBone.Parent = parent.Name()
		}
		for _, constraint := range bone.Constraints() {
			dumpConstraint := RigDumpConstraint{
				Type:      string(constraint.Type),
				SubTarget: constraint.SubTarget,
				Influence: constraint.Influence,
				Muted:     constraint.Mute,
			}
			if constraint.Driver != nil {
				dumpConstraint.DriverExpression = constraint.Driver.Expression
			}
			dumpBone.Constraints = append(dumpBone.Constraints, dumpConstraint)
		}
		dump.Bones = append(dump.Bones, dumpBone)
	}
	return dump
}
