// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func buildRoleMappedSkeleton(t *testing.T, name string, bindings map[rig.Role]string) *rig.Skeleton {
	t.Helper()
	skeleton := rig.NewSkeleton(name)
	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for _, boneName := range bindings {
			if _, err := ec.Create(boneName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("skeleton setup failed: %v", err)
	}
	for role, boneName := range bindings {
		if err := skeleton.BindRole(role, boneName); err != nil {
			t.Fatalf("bind role failed: %v", err)
		}
	}
	return skeleton
}

func TestBuildRoleCorrespondence(t *testing.T) {
	template := buildRoleMappedSkeleton(t, "metarig", map[rig.Role]string{
		rig.RoleHips:  "spine",
		rig.RoleSpine: "spine.001",
		rig.RoleHead:  "spine.006",
		rig.RoleChest: "spine.002",
	})
	source := buildRoleMappedSkeleton(t, "avatar", map[rig.Role]string{
		rig.RoleHips:  "hips",
		rig.RoleSpine: "spine",
		rig.RoleHead:  "head",
	})

	pairs := buildRoleCorrespondence(template, source)

	// chest は入力側に割当がないため対応に含まれない。
	want := []BonePair{
		{TemplateBoneName: "spine", SourceBoneName: "hips"},
		{TemplateBoneName: "spine.001", SourceBoneName: "spine"},
		{TemplateBoneName: "spine.006", SourceBoneName: "head"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("pair count mismatch: got=%d want=%d", len(pairs), len(want))
	}
	for i, pair := range want {
		if pairs[i] != pair {
			t.Fatalf("pair mismatch at %d: got=%+v want=%+v", i, pairs[i], pair)
		}
	}
}

func TestBuildRoleCorrespondenceFollowsRoleOrder(t *testing.T) {
	template := buildRoleMappedSkeleton(t, "metarig", map[rig.Role]string{
		rig.RoleLeftEye: "eye.L",
		rig.RoleHips:    "spine",
	})
	source := buildRoleMappedSkeleton(t, "avatar", map[rig.Role]string{
		rig.RoleLeftEye: "J_Adj_L_FaceEye",
		rig.RoleHips:    "J_Bip_C_Hips",
	})

	pairs := buildRoleCorrespondence(template, source)
	if len(pairs) != 2 {
		t.Fatalf("pair count mismatch: got=%d want=2", len(pairs))
	}
	// hips は leftEye より部位列挙順で先に来る。
	if pairs[0].TemplateBoneName != "spine" {
		t.Fatalf("enumeration order mismatch: got=%q want=%q", pairs[0].TemplateBoneName, "spine")
	}
	if pairs[1].TemplateBoneName != "eye.L" {
		t.Fatalf("enumeration order mismatch: got=%q want=%q", pairs[1].TemplateBoneName, "eye.L")
	}
}

func TestPairedNameSets(t *testing.T) {
	pairs := []BonePair{
		{TemplateBoneName: "spine", SourceBoneName: "hips"},
		{TemplateBoneName: "spine.006", SourceBoneName: "head"},
	}
	templateNames := pairedTemplateNames(pairs)
	if _, ok := templateNames["spine.006"]; !ok {
		t.Fatalf("template name missing: %q", "spine.006")
	}
	sourceNames := pairedSourceNames(pairs)
	if _, ok := sourceNames["hips"]; !ok {
		t.Fatalf("source name missing: %q", "hips")
	}
	if len(templateNames) != 2 || len(sourceNames) != 2 {
		t.Fatalf("set size mismatch: template=%d source=%d", len(templateNames), len(sourceNames))
	}
}
