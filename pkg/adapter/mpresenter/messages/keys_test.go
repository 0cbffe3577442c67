// 指示: miu200521358
package messages

import "testing"

func TestMessageKeysAreDefined(t *testing.T) {
	keys := []string{
		HelpUsageTitle,
		HelpUsage,
		LabelFile,
		LabelVrmPath,
		LabelVrmPathTip,
		LabelRigPath,
		LabelRigPathTip,
		LabelGraphPath,
		LabelGraphPathTip,
		LabelConvert,
		LabelConvertTip,
		MessageLoadFailed,
		MessageSaveFailed,
		MessageConvertFailed,
		MessageInputRequired,
		MessageGeneratorMissing,
		LogLoadSuccess,
		LogConvertSuccess,
		LogSaveSuccess,
		LogGraphSuccess,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}
