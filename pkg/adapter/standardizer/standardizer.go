// 指示: miu200521358

// Package standardizer はボーン名を標準形へそろえる参照アダプタを提供する。
package standardizer

import (
	"regexp"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// duplicateSuffixPattern は複製時に付く ".001" 形式の連番サフィックス。
var duplicateSuffixPattern = regexp.MustCompile(`\.\d{3}$`)

// SuffixStandardizer は連番サフィックス付きのボーン名を元の名前へ戻す。
type SuffixStandardizer struct{}

// NewSuffixStandardizer は SuffixStandardizer を生成する。
func NewSuffixStandardizer() *SuffixStandardizer {
	return &SuffixStandardizer{}
}

// StandardizeNames は ".001" 形式のサフィックスを取り除く。取り除いた名前が
// 既存ボーンと衝突する場合はそのまま残す。改名してもボーンの並び順は変わらない。
func (s *SuffixStandardizer) StandardizeNames(skeleton *rig.Skeleton) error {
	return skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, bone := range ec.Bones() {
			name := bone.Name()
			trimmed := duplicateSuffixPattern.ReplaceAllString(name, "")
			if trimmed == name || trimmed == "" {
				continue
			}
			if ec.Skeleton().Contains(trimmed) {
				continue
			}
			if err := ec.Rename(bone, trimmed); err != nil {
				return err
			}
		}
		return nil
	})
}
