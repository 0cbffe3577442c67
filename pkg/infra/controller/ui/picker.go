// 指示: miu200521358
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mi18n"
)

// ScanVrmFiles は dir 直下の .vrm ファイルを名前順で返す。
func ScanVrmFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ %s を読めません: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".vrm") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// VrmPickerModel は変換対象のVRMファイルを選ぶ bubbletea モデル。
type VrmPickerModel struct {
	Paths    []string
	Cursor   int
	Offset   int
	Height   int
	Selected string
	ShowHelp bool
}

// NewVrmPickerModel は VrmPickerModel を生成する。
func NewVrmPickerModel(paths []string) VrmPickerModel {
	return VrmPickerModel{Paths: paths, Height: 15}
}

func (m VrmPickerModel) Init() tea.Cmd {
	return nil
}

func (m VrmPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Paths)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "?":
			m.ShowHelp = !m.ShowHelp
		case "enter":
			if len(m.Paths) > 0 {
				m.Selected = m.Paths[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m VrmPickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(mi18n.T(messages.LabelVrmPath)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ 選択  ⏎ 決定  ? 説明  q 終了"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Paths) {
		end = len(m.Paths)
	}
	for i := m.Offset; i < end; i++ {
		name := filepath.Base(m.Paths[i])
		if i == m.Cursor {
			b.WriteString(styleSelected.Render(iconCursor + " " + name))
		} else {
			b.WriteString(styleNormal.Render("  " + name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Paths))))

	if m.ShowHelp {
		b.WriteString("\n\n")
		for _, entry := range helpEntries() {
			b.WriteString(styleKey.Render(entry.Title) + " " + styleDim.Render(entry.Message))
			b.WriteString("\n")
		}
	}
	return b.String()
}
