// 指示: miu200521358
package ui

import (
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mi18n"
)

// helpEntry は操作説明の1項目。
type helpEntry struct {
	Title   string
	Message string
}

// helpEntries は画面に表示する操作説明を返す。表示言語は mi18n に従う。
func helpEntries() []helpEntry {
	keys := []struct {
		titleKey   string
		messageKey string
	}{
		{messages.HelpUsageTitle, messages.HelpUsage},
		{messages.LabelVrmPath, messages.LabelVrmPathTip},
		{messages.LabelRigPath, messages.LabelRigPathTip},
		{messages.LabelGraphPath, messages.LabelGraphPathTip},
		{messages.LabelConvert, messages.LabelConvertTip},
	}
	entries := make([]helpEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, helpEntry{
			Title:   mi18n.T(key.titleKey),
			Message: mi18n.T(key.messageKey),
		})
	}
	return entries
}
