// 指示: miu200521358
package minteractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
)

const (
	defaultTextureDirName = "tex"
	defaultGltfDirName    = "glTF"
	outputDirFileMode     = 0o755
)

var nowFunc = time.Now

// OutputLayout は出力ディレクトリ一式のパスを表す。
type OutputLayout struct {
	Dir          string
	RigPath      string
	DotPath      string
	GltfPath     string
	BinPath      string
	TextureNames []string
}

// BuildDefaultOutputDir は入力VRMパスから既定の出力ディレクトリを生成する。
func BuildDefaultOutputDir(inputPath string) string {
	return buildDefaultOutputDirAt(inputPath, nowFunc())
}

// buildDefaultOutputDirAt は指定時刻で既定の出力ディレクトリを生成する。
func buildDefaultOutputDirAt(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if base == "" {
		return ""
	}
	stamp := now.Format("20060102150405")
	return filepath.Join(dir, fmt.Sprintf("%s_rigify_%s", base, stamp))
}

// PrepareOutputLayout は出力ディレクトリを作成し、検証用の補助出力を展開する。
// 補助出力は glTF JSON/BIN と抽出テクスチャ。
func PrepareOutputLayout(inputPath string, outputDir string) (*OutputLayout, error) {
	resolvedDir := strings.TrimSpace(outputDir)
	if resolvedDir == "" {
		resolvedDir = BuildDefaultOutputDir(inputPath)
	}
	if resolvedDir == "" {
		return nil, fmt.Errorf("出力ディレクトリの解決に失敗しました")
	}
	if err := os.MkdirAll(resolvedDir, outputDirFileMode); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if base == "" {
		base = "model"
	}
	layout := &OutputLayout{
		Dir:     resolvedDir,
		RigPath: filepath.Join(resolvedDir, base+"_rigify"+rigDumpExt),
		DotPath: filepath.Join(resolvedDir, base+"_rig.dot"),
	}

	gltfDir := filepath.Join(resolvedDir, defaultGltfDirName)
	texDir := filepath.Join(resolvedDir, defaultTextureDirName)
	artifacts, err := vrm.ExportArtifacts(inputPath, gltfDir, texDir)
	if err != nil {
		return nil, err
	}
	if artifacts != nil {
		layout.GltfPath = artifacts.GltfPath
		layout.BinPath = artifacts.BinPath
		layout.TextureNames = append([]string(nil), artifacts.TextureNames...)
	}
	mlog.I("出力レイアウト準備完了: dir=%s textures=%d", resolvedDir, len(layout.TextureNames))
	return layout, nil
}
