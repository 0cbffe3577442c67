// 指示: miu200521358
package mlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	loggerMu      sync.RWMutex
	defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.InfoLevel,
	})
)

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// SetOutput はログ出力先を差し替える。
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger.SetOutput(w)
}

// SetLevel はログレベル名(debug/info/warn/error)を適用する。
func SetLevel(levelName string) error {
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("ログレベル %q を解釈できません: %w", levelName, err)
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger.SetLevel(level)
	return nil
}

// IsDebug はデバッグレベルが有効かどうかを返す。
func IsDebug() bool {
	return DefaultLogger().GetLevel() <= log.DebugLevel
}

// D はデバッグログを出力する。
func D(format string, args ...any) {
	DefaultLogger().Debugf(format, args...)
}

// I は情報ログを出力する。
func I(format string, args ...any) {
	DefaultLogger().Infof(format, args...)
}

// W は警告ログを出力する。
func W(format string, args ...any) {
	DefaultLogger().Warnf(format, args...)
}

// E はエラーログを出力する。
func E(format string, args ...any) {
	DefaultLogger().Errorf(format, args...)
}

// ILT はタイトル付きの情報ログを出力する。
func ILT(title string, format string, args ...any) {
	DefaultLogger().Infof("【%s】%s", title, fmt.Sprintf(format, args...))
}

// WT はタイトル付きの警告ログを出力する。
func WT(title string, format string, args ...any) {
	DefaultLogger().Warnf("【%s】%s", title, fmt.Sprintf(format, args...))
}
