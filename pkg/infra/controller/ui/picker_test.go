// 指示: miu200521358
package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writePickerFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"b.vrm", "A.VRM", "note.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("フィクスチャ作成失敗: %v", err)
		}
	}
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("フィクスチャ作成失敗: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "c.vrm"), []byte("x"), 0o644); err != nil {
		t.Fatalf("フィクスチャ作成失敗: %v", err)
	}
	return dir
}

func TestScanVrmFilesFiltersAndSorts(t *testing.T) {
	dir := writePickerFixture(t)

	paths, err := ScanVrmFiles(dir)
	if err != nil {
		t.Fatalf("ScanVrmFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "A.VRM"), filepath.Join(dir, "b.vrm")}
	if len(paths) != len(want) {
		t.Fatalf("len(paths) = %d, want %d (%v)", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestScanVrmFilesMissingDir(t *testing.T) {
	if _, err := ScanVrmFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("err = nil, want error")
	}
}

func pressKey(t *testing.T, m VrmPickerModel, msg tea.Msg) VrmPickerModel {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(VrmPickerModel)
	if !ok {
		t.Fatalf("Update が VrmPickerModel を返さない: %T", updated)
	}
	return next
}

func TestVrmPickerCursorMovesAndClamps(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm", "b.vrm", "c.vrm"})

	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 4; i++ {
		m = pressKey(t, m, down)
	}
	if m.Cursor != 2 {
		t.Fatalf("Cursor = %d, want 2", m.Cursor)
	}

	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}
	for i := 0; i < 4; i++ {
		m = pressKey(t, m, up)
	}
	if m.Cursor != 0 {
		t.Fatalf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestVrmPickerScrollFollowsCursor(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm", "b.vrm", "c.vrm", "d.vrm", "e.vrm"})
	m.Height = 2

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	for i := 0; i < 3; i++ {
		m = pressKey(t, m, down)
	}
	if m.Cursor != 3 || m.Offset != 2 {
		t.Fatalf("Cursor/Offset = %d/%d, want 3/2", m.Cursor, m.Offset)
	}

	up := tea.KeyMsg{Type: tea.KeyUp}
	for i := 0; i < 3; i++ {
		m = pressKey(t, m, up)
	}
	if m.Cursor != 0 || m.Offset != 0 {
		t.Fatalf("Cursor/Offset = %d/%d, want 0/0", m.Cursor, m.Offset)
	}
}

func TestVrmPickerEnterSelects(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm", "b.vrm"})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyDown})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picked := updated.(VrmPickerModel)
	if picked.Selected != "b.vrm" {
		t.Fatalf("Selected = %q, want %q", picked.Selected, "b.vrm")
	}
	if cmd == nil {
		t.Fatalf("cmd = nil, want tea.Quit")
	}
}

func TestVrmPickerEscLeavesSelectionEmpty(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm"})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	picked := updated.(VrmPickerModel)
	if picked.Selected != "" {
		t.Fatalf("Selected = %q, want empty", picked.Selected)
	}
	if cmd == nil {
		t.Fatalf("cmd = nil, want tea.Quit")
	}
}

func TestVrmPickerHelpToggle(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm"})

	help := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
	m = pressKey(t, m, help)
	if !m.ShowHelp {
		t.Fatalf("ShowHelp = false, want true")
	}
	m = pressKey(t, m, help)
	if m.ShowHelp {
		t.Fatalf("ShowHelp = true, want false")
	}
}

func TestVrmPickerWindowSizeAdjustsHeight(t *testing.T) {
	m := NewVrmPickerModel([]string{"a.vrm"})

	m = pressKey(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	if m.Height != 14 {
		t.Fatalf("Height = %d, want 14", m.Height)
	}
	m = pressKey(t, m, tea.WindowSizeMsg{Width: 80, Height: 8})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
}

func TestVrmPickerViewShowsCursorAndCount(t *testing.T) {
	m := NewVrmPickerModel([]string{filepath.Join("models", "a.vrm"), filepath.Join("models", "b.vrm")})

	view := m.View()
	if !strings.Contains(view, "a.vrm") || !strings.Contains(view, "b.vrm") {
		t.Fatalf("View にファイル名が含まれない: %q", view)
	}
	if !strings.Contains(view, iconCursor) {
		t.Fatalf("View にカーソルが含まれない: %q", view)
	}
	if !strings.Contains(view, "[1/2]") {
		t.Fatalf("View に件数が含まれない: %q", view)
	}
}
