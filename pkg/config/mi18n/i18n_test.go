// 指示: miu200521358
package mi18n

import "testing"

func TestTranslationByLocale(t *testing.T) {
	defer ApplyLang("ja_JP.UTF-8")

	ApplyLang("ja_JP.UTF-8")
	got := T("VRM読み込み成功", map[string]any{"Path": "avatar.vrm"})
	if got != "VRM読み込み成功: avatar.vrm" {
		t.Fatalf("japanese text mismatch: got=%q", got)
	}

	ApplyLang("en_US.UTF-8")
	got = T("VRM読み込み成功", map[string]any{"Path": "avatar.vrm"})
	if got != "VRM loaded: avatar.vrm" {
		t.Fatalf("english text mismatch: got=%q", got)
	}
}

func TestTranslationFillsMultiplePlaceholders(t *testing.T) {
	defer ApplyLang("ja_JP.UTF-8")

	ApplyLang("en_US.UTF-8")
	got := T("リグ変換成功", map[string]any{"Name": "rig", "BoneCount": 42})
	if got != "Rig converted: rig (42 bones)" {
		t.Fatalf("placeholder fill mismatch: got=%q", got)
	}
}

func TestTranslationKeepsUnknownKey(t *testing.T) {
	defer ApplyLang("ja_JP.UTF-8")

	ApplyLang("ja_JP.UTF-8")
	if got := T("存在しないキー"); got != "存在しないキー" {
		t.Fatalf("unknown key should pass through: got=%q", got)
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range messagesJa {
		if _, ok := messagesEn[key]; !ok {
			t.Errorf("english translation missing: %s", key)
		}
	}
	for key := range messagesEn {
		if _, ok := messagesJa[key]; !ok {
			t.Errorf("japanese translation missing: %s", key)
		}
	}
}
