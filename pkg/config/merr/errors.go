// 指示: miu200521358
package merr

import (
	"errors"
	"fmt"
)

var (
	// NameNotFoundError は名前参照が解決できなかったことを表す。
	NameNotFoundError = errors.New("対象名が見つかりません")
	// DuplicateNameError は名前の重複を表す。
	DuplicateNameError = errors.New("対象名が重複しています")
	// DeformFlagUnsetError は変形フラグが立っていない変形ボーンを表す。
	DeformFlagUnsetError = errors.New("変形フラグが無効です")
	// GeneratorUnavailableError はリグ生成機能が利用できないことを表す。
	GeneratorUnavailableError = errors.New("リグ生成機能が利用できません")
	// ListLengthMismatchError は対応付け対象のリスト長が一致しないことを表す。
	ListLengthMismatchError = errors.New("リスト長が一致しません")

	// IoFileNotFoundError は入力ファイル不在を表す。
	IoFileNotFoundError = errors.New("ファイルが見つかりません")
	// IoExtInvalidError は拡張子不正を表す。
	IoExtInvalidError = errors.New("拡張子が不正です")
	// IoParseFailedError は入力データの解釈失敗を表す。
	IoParseFailedError = errors.New("データの解釈に失敗しました")
	// IoFormatNotSupportedError は入力データの形式非対応を表す。
	IoFormatNotSupportedError = errors.New("形式が未対応です")
)

// NewIoFileNotFound はファイル不在エラーを生成する。
func NewIoFileNotFound(path string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %w", IoFileNotFoundError, path, cause)
	}
	return fmt.Errorf("%w: %s", IoFileNotFoundError, path)
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, wantExt string) error {
	return fmt.Errorf("%w: %s (許可: %s)", IoExtInvalidError, path, wantExt)
}

// NewIoParseFailed は解釈失敗エラーを生成する。
func NewIoParseFailed(path string, cause error, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	if cause != nil {
		return fmt.Errorf("%w: %s: %s: %w", IoParseFailedError, path, detail, cause)
	}
	return fmt.Errorf("%w: %s: %s", IoParseFailedError, path, detail)
}

// NewIoFormatNotSupported は形式非対応エラーを生成する。
func NewIoFormatNotSupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", IoFormatNotSupportedError, fmt.Sprintf(format, args...))
}
