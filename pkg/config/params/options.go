// 指示: miu200521358
package params

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
)

// Options は変換の動作設定を保持する。
type Options struct {
	// HideOriginal は変換後に元アバターを隠すかどうか。
	HideOriginal bool `toml:"hide_original"`
	// HideTemplate は変換後にテンプレート骨格を隠すかどうか。
	HideTemplate bool `toml:"hide_metarig"`
	// CopyAvatarSettings はアバター付帯情報を変換先へ引き継ぐかどうか。
	CopyAvatarSettings bool `toml:"copy_vrm_settings"`
	// SetupConstraintDrivers は拘束影響度ドライバを設定するかどうか。
	SetupConstraintDrivers bool `toml:"setup_constraint_drivers"`
	// MuteDeformConstraints は変換後に変形ボーンの拘束を無効化するかどうか。
	MuteDeformConstraints bool `toml:"mute_deform_constraints"`
	// LogLevel はログレベル名(debug/info/warn/error)。
	LogLevel string `toml:"log_level"`
	// GraphFormat は骨格グラフの出力形式(空/dot/svg)。
	GraphFormat string `toml:"graph_format"`
}

// DefaultOptions は既定の動作設定を返す。
func DefaultOptions() Options {
	return Options{
		HideOriginal:           true,
		HideTemplate:           true,
		CopyAvatarSettings:     true,
		SetupConstraintDrivers: false,
		MuteDeformConstraints:  false,
		LogLevel:               "info",
		GraphFormat:            "",
	}
}

// LoadOptions は TOML 設定ファイルを読み込んで既定値へ上書きする。
func LoadOptions(path string) (Options, error) {
	options := DefaultOptions()
	meta, err := toml.DecodeFile(path, &options)
	if err != nil {
		return DefaultOptions(), fmt.Errorf("設定ファイル %s を読み込めません: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		mlog.W("設定ファイル %s の未知キー %s を無視します", path, key.String())
	}
	if err := options.Validate(); err != nil {
		return DefaultOptions(), err
	}
	return options, nil
}

// Validate は設定値の妥当性を確認する。
func (o Options) Validate() error {
	switch o.GraphFormat {
	case "", "dot", "svg":
	default:
		return fmt.Errorf("graph_format %q は未対応です(空/dot/svg)", o.GraphFormat)
	}
	return nil
}
