// 指示: miu200521358
package minteractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// failingStandardizer は常に失敗する標準化器。
type failingStandardizer struct{}

func (s *failingStandardizer) StandardizeNames(skeleton *rig.Skeleton) error {
	return errors.New("standardize boom")
}

func buildPrepareSource(t *testing.T) *rig.Skeleton {
	t.Helper()
	skeleton := rig.NewSkeleton("avatar")
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, name := range []string{"J_Bip_C_Hips", "J_Adj_R_FaceEye.001"} {
			if _, err := ec.Create(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("source setup failed: %v", err)
	}
	return skeleton
}

func TestStandardizeSourceNames(t *testing.T) {
	skeleton := buildPrepareSource(t)

	restoration, originalNames, err := standardizeSourceNames(skeleton, &stubStandardizer{})
	if err != nil {
		t.Fatalf("standardize failed: %v", err)
	}
	if len(originalNames) != 2 || originalNames[1] != "J_Adj_R_FaceEye.001" {
		t.Fatalf("original names mismatch: got=%v", originalNames)
	}
	if !skeleton.Contains("J_Adj_R_FaceEye") {
		t.Fatalf("suffix should be stripped: got=%v", skeleton.BoneNames())
	}
	if got := restoration.RestoreOrSame("J_Adj_R_FaceEye"); got != "J_Adj_R_FaceEye.001" {
		t.Fatalf("restoration mismatch: got=%q want=J_Adj_R_FaceEye.001", got)
	}
	if got := restoration.RestoreOrSame("J_Bip_C_Hips"); got != "J_Bip_C_Hips" {
		t.Fatalf("unchanged name should map to itself: got=%q", got)
	}
}

func TestStandardizeSourceNamesWithoutStandardizer(t *testing.T) {
	skeleton := buildPrepareSource(t)

	restoration, originalNames, err := standardizeSourceNames(skeleton, nil)
	if err != nil {
		t.Fatalf("standardize failed: %v", err)
	}
	if restoration.Len() != 2 || len(originalNames) != 2 {
		t.Fatalf("identity restoration mismatch: got=%d/%d want=2/2", restoration.Len(), len(originalNames))
	}
	if !skeleton.Contains("J_Adj_R_FaceEye.001") {
		t.Fatalf("names should stay untouched: got=%v", skeleton.BoneNames())
	}
}

func TestStandardizeSourceNamesReportsFailure(t *testing.T) {
	skeleton := buildPrepareSource(t)

	_, _, err := standardizeSourceNames(skeleton, &failingStandardizer{})
	if err == nil || !strings.Contains(err.Error(), "standardize boom") {
		t.Fatalf("error mismatch: got=%v", err)
	}
}
