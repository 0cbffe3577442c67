// 指示: miu200521358

// Package ui は端末で動く対話型の変換フロントエンドを提供する。
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// 端末配色。256色パレットの番号で指定する。
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNormal   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCursor  = "▸"
)

// printSuccess は成功メッセージを表示する。
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError は失敗メッセージを表示する。
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printWarning は警告メッセージを表示する。
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+fmt.Sprintf(format, args...))
}

// printInfo は進行メッセージを表示する。
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail は補足を字下げして表示する。
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile は出力ファイルの行を表示する。
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printKeyValue はラベル付きの値を表示する。
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Width(14).Render(key)+" "+styleValue.Render(value))
}
