// 指示: miu200521358
package mi18n

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supportedTags = []language.Tag{
	language.Japanese,
	language.English,
}

var (
	printerMu sync.RWMutex
	builder   = catalog.NewBuilder(catalog.Fallback(language.Japanese))
	matcher   = language.NewMatcher(supportedTags)
	printer   *message.Printer
)

func init() {
	registerMessages(language.Japanese, messagesJa)
	registerMessages(language.English, messagesEn)
	ApplyLang(os.Getenv("LANG"))
}

func registerMessages(tag language.Tag, entries map[string]string) {
	for key, text := range entries {
		if err := builder.SetString(tag, key, text); err != nil {
			panic(fmt.Sprintf("メッセージ登録に失敗しました: %s: %v", key, err))
		}
	}
}

// ApplyLang はロケール名から表示言語を決定して適用する。
func ApplyLang(langName string) {
	tag, _ := language.MatchStrings(matcher, langName)
	printerMu.Lock()
	defer printerMu.Unlock()
	printer = message.NewPrinter(tag, message.Catalog(builder))
}

// T はキーに対応する翻訳文を返し、{名前} 形式のプレースホルダを置換する。
// 未登録キーはキー文字列をそのまま返す。
func T(key string, params ...map[string]any) string {
	printerMu.RLock()
	p := printer
	printerMu.RUnlock()

	text := p.Sprintf(key)
	for _, param := range params {
		for name, value := range param {
			text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprintf("%v", value))
		}
	}
	return text
}
