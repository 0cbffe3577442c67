// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func TestIsFalseProp(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{false, true},
		{0, true},
		{0.0, true},
		{true, false},
		{1, false},
		{0.5, false},
		{"off", false},
		{nil, false},
	}
	for _, c := range cases {
		if got := isFalseProp(c.value); got != c.want {
			t.Errorf("isFalseProp(%v) mismatch: got=%v want=%v", c.value, got, c.want)
		}
	}
}

func TestDisableIkStretching(t *testing.T) {
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		armL, err := ec.Create("upper_arm_parent.L")
		if err != nil {
			return err
		}
		armL.SetProp("IK_Stretch", 1.0)
		legL, err := ec.Create("thigh_parent.L")
		if err != nil {
			return err
		}
		legL.SetProp("IK_Stretch", 1)
		_, err = ec.Create("hand_ik.L")
		return err
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}

	disabled, err := disableIkStretching(rigSkeleton)
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if disabled != 2 {
		t.Fatalf("disabled count mismatch: got=%d want=2", disabled)
	}

	for _, name := range []string{"upper_arm_parent.L", "thigh_parent.L"} {
		bone, err := rigSkeleton.GetByName(name)
		if err != nil {
			t.Fatalf("%s lookup failed: %v", name, err)
		}
		value, ok := bone.Prop("IK_Stretch")
		if !ok {
			t.Fatalf("%s should keep the stretch property", name)
		}
		if value != 0.0 {
			t.Errorf("%s stretch mismatch: got=%v want=0", name, value)
		}
	}
	hand, err := rigSkeleton.GetByName("hand_ik.L")
	if err != nil {
		t.Fatalf("hand_ik.L lookup failed: %v", err)
	}
	if _, ok := hand.Prop("IK_Stretch"); ok {
		t.Fatalf("hand_ik.L should not gain a stretch property")
	}
}

func buildIkPoleRig(t *testing.T, withTargets bool) *rig.Skeleton {
	t.Helper()
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		parentL, err := ec.Create("upper_arm_parent.L")
		if err != nil {
			return err
		}
		parentL.SetProp("pole_vector", false)
		parentR, err := ec.Create("upper_arm_parent.R")
		if err != nil {
			return err
		}
		parentR.SetProp("pole_vector", true)
		if !withTargets {
			return nil
		}
		for _, side := range []string{".L", ".R"} {
			target, err := ec.Create("upper_arm_ik_target" + side)
			if err != nil {
				return err
			}
			target.Hidden = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}
	return rigSkeleton
}

func TestShowIkPoleToggles(t *testing.T) {
	rigSkeleton := buildIkPoleRig(t, true)

	shown, err := showIkPoleToggles(rigSkeleton, rig.DefaultCapability())
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if shown != 1 {
		t.Fatalf("shown count mismatch: got=%d want=1", shown)
	}

	parentL, err := rigSkeleton.GetByName("upper_arm_parent.L")
	if err != nil {
		t.Fatalf("parent lookup failed: %v", err)
	}
	if value, _ := parentL.Prop("pole_vector"); value != true {
		t.Fatalf("pole_vector mismatch: got=%v want=true", value)
	}
	targetL, err := rigSkeleton.GetByName("upper_arm_ik_target.L")
	if err != nil {
		t.Fatalf("target lookup failed: %v", err)
	}
	if targetL.Hidden {
		t.Fatalf("left IK target should be visible")
	}
	if !targetL.Selected {
		t.Fatalf("left IK target should be selected")
	}

	// 右側は切替済みのため触らない。
	targetR, err := rigSkeleton.GetByName("upper_arm_ik_target.R")
	if err != nil {
		t.Fatalf("right target lookup failed: %v", err)
	}
	if !targetR.Hidden {
		t.Fatalf("right IK target should stay hidden")
	}
}

func TestShowIkPoleTogglesEditSelectOnly(t *testing.T) {
	rigSkeleton := buildIkPoleRig(t, true)
	capability := rig.DefaultCapability()
	capability.EditSelectOnly = true

	shown, err := showIkPoleToggles(rigSkeleton, capability)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if shown != 1 {
		t.Fatalf("shown count mismatch: got=%d want=1", shown)
	}
	targetL, err := rigSkeleton.GetByName("upper_arm_ik_target.L")
	if err != nil {
		t.Fatalf("target lookup failed: %v", err)
	}
	if !targetL.Selected {
		t.Fatalf("left IK target should be selected via edit scope")
	}
}

func TestShowIkPoleTogglesWithoutTargets(t *testing.T) {
	rigSkeleton := buildIkPoleRig(t, false)

	shown, err := showIkPoleToggles(rigSkeleton, rig.DefaultCapability())
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if shown != 0 {
		t.Fatalf("shown count mismatch: got=%d want=0", shown)
	}
	parentL, err := rigSkeleton.GetByName("upper_arm_parent.L")
	if err != nil {
		t.Fatalf("parent lookup failed: %v", err)
	}
	if value, _ := parentL.Prop("pole_vector"); value != true {
		t.Fatalf("pole_vector should still be enabled: got=%v", value)
	}
}
