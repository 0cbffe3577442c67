// 指示: miu200521358
package minteractor

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func TestBuildNameRestorationMap(t *testing.T) {
	restoration, err := BuildNameRestorationMap(
		[]string{"J_Bip_C_Hips", "J_Bip_C_Spine", "J_Bip_C_Head"},
		[]string{"hips", "spine", "head"},
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := restoration.Len(); got != 3 {
		t.Fatalf("len mismatch: got=%d want=3", got)
	}

	original, ok := restoration.Restore("spine")
	if !ok || original != "J_Bip_C_Spine" {
		t.Fatalf("restore mismatch: got=%q ok=%v want=%q", original, ok, "J_Bip_C_Spine")
	}
	if got := restoration.RestoreOrSame("unknown"); got != "unknown" {
		t.Fatalf("restore-or-same mismatch: got=%q want=%q", got, "unknown")
	}
}

func TestBuildNameRestorationMapRejectsLengthMismatch(t *testing.T) {
	_, err := BuildNameRestorationMap([]string{"a", "b"}, []string{"a"})
	if !errors.Is(err, merr.ListLengthMismatchError) {
		t.Fatalf("error mismatch: got=%v want=%v", err, merr.ListLengthMismatchError)
	}
}

func TestRestoreSourceBoneNamesPositional(t *testing.T) {
	skeleton := rig.NewSkeleton("source")
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, name := range []string{"hips", "spine", "head"} {
			if _, err := ec.Create(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("skeleton setup failed: %v", err)
	}

	restored, err := restoreSourceBoneNames(skeleton, []string{
		"J_Bip_C_Hips", "J_Bip_C_Spine", "J_Bip_C_Head",
	})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored != 3 {
		t.Fatalf("restored count mismatch: got=%d want=3", restored)
	}
	want := []string{"J_Bip_C_Hips", "J_Bip_C_Spine", "J_Bip_C_Head"}
	got := skeleton.BoneNames()
	for i, name := range want {
		if got[i] != name {
			t.Fatalf("bone name mismatch at %d: got=%q want=%q", i, got[i], name)
		}
	}
}

func TestRestoreSourceBoneNamesHandlesSwappedNames(t *testing.T) {
	// 標準化後の名前同士が入れ替わっている場合でも一時名経由で復元できる。
	skeleton := rig.NewSkeleton("source")
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, name := range []string{"alpha", "beta"} {
			if _, err := ec.Create(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("skeleton setup failed: %v", err)
	}

	restored, err := restoreSourceBoneNames(skeleton, []string{"beta", "alpha"})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored != 2 {
		t.Fatalf("restored count mismatch: got=%d want=2", restored)
	}
	got := skeleton.BoneNames()
	if got[0] != "beta" || got[1] != "alpha" {
		t.Fatalf("swap restore mismatch: got=%v", got)
	}
}

func TestRestoreSourceBoneNamesIgnoresExtraBones(t *testing.T) {
	skeleton := rig.NewSkeleton("source")
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, name := range []string{"hips", "extra"} {
			if _, err := ec.Create(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("skeleton setup failed: %v", err)
	}

	restored, err := restoreSourceBoneNames(skeleton, []string{"J_Bip_C_Hips"})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored != 1 {
		t.Fatalf("restored count mismatch: got=%d want=1", restored)
	}
	got := skeleton.BoneNames()
	if got[0] != "J_Bip_C_Hips" || got[1] != "extra" {
		t.Fatalf("restore result mismatch: got=%v", got)
	}
}
