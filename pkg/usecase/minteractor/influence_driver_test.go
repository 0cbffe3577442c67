// 指示: miu200521358
package minteractor

import (
	"math"
	"reflect"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func buildDriverRig(t *testing.T) *rig.Skeleton {
	t.Helper()
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		for _, name := range []string{"Hips", "UpperArm_L", "Control"} {
			bone, err := ec.Create(name)
			if err != nil {
				return err
			}
			if name != "Control" {
				bone.AssignCollection("DEF")
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}
	err = rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		hips, err := pc.GetByName("Hips")
		if err != nil {
			return err
		}
		if _, err := pc.AddConstraint(hips, rig.NewConstraint(rig.ConstraintCopyTransforms, "ORG-spine")); err != nil {
			return err
		}
		if _, err := pc.AddConstraint(hips, rig.NewConstraint(rig.ConstraintCopyTransforms, "ORG-pelvis")); err != nil {
			return err
		}
		arm, err := pc.GetByName("UpperArm_L")
		if err != nil {
			return err
		}
		if _, err := pc.AddConstraint(arm, rig.NewConstraint(rig.ConstraintCopyTransforms, "ORG-upper_arm.L")); err != nil {
			return err
		}
		control, err := pc.GetByName("Control")
		if err != nil {
			return err
		}
		_, err = pc.AddConstraint(control, rig.NewConstraint(rig.ConstraintCopyTransforms, "Root"))
		return err
	})
	if err != nil {
		t.Fatalf("constraint setup failed: %v", err)
	}
	return rigSkeleton
}

func TestAddConstraintInfluenceDrivers(t *testing.T) {
	rigSkeleton := buildDriverRig(t)

	result, err := addConstraintInfluenceDrivers(rigSkeleton, rig.DefaultCapability())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	want := map[string]int{"Hips": 2, "UpperArm_L": 1}
	if !reflect.DeepEqual(result, want) {
		t.Fatalf("driver counts mismatch: got=%v want=%v", result, want)
	}

	value, ok := rigSkeleton.Property("constraint_influence")
	if !ok || value != 1.0 {
		t.Fatalf("influence property mismatch: got=%v ok=%v want=1", value, ok)
	}
	ui, ok := rigSkeleton.PropertyUIFor("constraint_influence")
	if !ok {
		t.Fatalf("influence property should carry UI metadata")
	}
	if ui.Min != 0 || ui.Max != 1 {
		t.Fatalf("UI range mismatch: got=%+v", ui)
	}

	hips, err := rigSkeleton.GetByName("Hips")
	if err != nil {
		t.Fatalf("Hips lookup failed: %v", err)
	}
	for _, constraint := range hips.Constraints() {
		if constraint.Driver == nil {
			t.Fatalf("Hips constraint should carry a driver")
		}
		if constraint.Driver.Expression != "influence" {
			t.Errorf("driver expression mismatch: got=%q", constraint.Driver.Expression)
		}
		if constraint.Driver.PropertyKey != "constraint_influence" {
			t.Errorf("driver property key mismatch: got=%q", constraint.Driver.PropertyKey)
		}
	}
	control, err := rigSkeleton.GetByName("Control")
	if err != nil {
		t.Fatalf("Control lookup failed: %v", err)
	}
	if control.Constraints()[0].Driver != nil {
		t.Fatalf("bone outside the DEF collection should stay driverless")
	}
}

func TestAddConstraintInfluenceDriversKeepsExistingProperty(t *testing.T) {
	rigSkeleton := buildDriverRig(t)
	rigSkeleton.SetProperty("constraint_influence", 0.5)

	if _, err := addConstraintInfluenceDrivers(rigSkeleton, rig.DefaultCapability()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	value, _ := rigSkeleton.Property("constraint_influence")
	if value != 0.5 {
		t.Fatalf("existing property should be kept: got=%v want=0.5", value)
	}
}

func TestAddConstraintInfluenceDriversWithoutCollection(t *testing.T) {
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		_, err := ec.Create("Hips")
		return err
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}

	result, err := addConstraintInfluenceDrivers(rigSkeleton, rig.DefaultCapability())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("driver counts should be empty: got=%v", result)
	}
	if _, ok := rigSkeleton.Property("constraint_influence"); !ok {
		t.Fatalf("influence property should still be initialized")
	}
}

func TestAddConstraintInfluenceDriversWithoutPropertyUI(t *testing.T) {
	rigSkeleton := buildDriverRig(t)
	capability := rig.DefaultCapability()
	capability.PropertyUI = false

	if _, err := addConstraintInfluenceDrivers(rigSkeleton, capability); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, ok := rigSkeleton.PropertyUIFor("constraint_influence"); ok {
		t.Fatalf("UI metadata should be skipped on hosts without property UI")
	}
}

func TestRemoveConstraintInfluenceDrivers(t *testing.T) {
	rigSkeleton := buildDriverRig(t)
	if _, err := addConstraintInfluenceDrivers(rigSkeleton, rig.DefaultCapability()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err := removeConstraintInfluenceDrivers(rigSkeleton)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	want := map[string]int{"Hips": 2, "UpperArm_L": 1}
	if !reflect.DeepEqual(result, want) {
		t.Fatalf("removal counts mismatch: got=%v want=%v", result, want)
	}
	hips, err := rigSkeleton.GetByName("Hips")
	if err != nil {
		t.Fatalf("Hips lookup failed: %v", err)
	}
	for _, constraint := range hips.Constraints() {
		if constraint.Driver != nil {
			t.Fatalf("driver should be removed")
		}
	}
}

func TestEvaluateConstraintInfluenceDrivers(t *testing.T) {
	rigSkeleton := buildDriverRig(t)
	if _, err := addConstraintInfluenceDrivers(rigSkeleton, rig.DefaultCapability()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	rigSkeleton.SetProperty("constraint_influence", 0.25)

	applied, err := evaluateConstraintInfluenceDrivers(rigSkeleton)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if applied != 3 {
		t.Fatalf("applied count mismatch: got=%d want=3", applied)
	}
	hips, err := rigSkeleton.GetByName("Hips")
	if err != nil {
		t.Fatalf("Hips lookup failed: %v", err)
	}
	for _, constraint := range hips.Constraints() {
		if math.Abs(constraint.Influence-0.25) > 1e-10 {
			t.Errorf("influence mismatch: got=%v want=0.25", constraint.Influence)
		}
	}

	// ドライバのない拘束は触らない。
	control, err := rigSkeleton.GetByName("Control")
	if err != nil {
		t.Fatalf("Control lookup failed: %v", err)
	}
	if control.Constraints()[0].Influence != 1.0 {
		t.Fatalf("driverless constraint should keep its influence: got=%v", control.Constraints()[0].Influence)
	}
}

func TestEvaluateConstraintInfluenceDriversDefaultsMissingProperty(t *testing.T) {
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		_, err := ec.Create("Hips")
		return err
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}
	err = rigSkeleton.PoseScope(func(pc *rig.PoseContext) error {
		hips, err := pc.GetByName("Hips")
		if err != nil {
			return err
		}
		constraint, err := pc.AddConstraint(hips, rig.NewConstraint(rig.ConstraintCopyTransforms, "ORG-spine"))
		if err != nil {
			return err
		}
		constraint.Influence = 0.0
		constraint.Driver = &rig.InfluenceDriver{
			Expression:  "influence",
			Variable:    "influence",
			PropertyKey: "constraint_influence",
		}
		return nil
	})
	if err != nil {
		t.Fatalf("constraint setup failed: %v", err)
	}

	applied, err := evaluateConstraintInfluenceDrivers(rigSkeleton)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied count mismatch: got=%d want=1", applied)
	}
	hips, err := rigSkeleton.GetByName("Hips")
	if err != nil {
		t.Fatalf("Hips lookup failed: %v", err)
	}
	if hips.Constraints()[0].Influence != 1.0 {
		t.Fatalf("missing property should fall back to 1: got=%v", hips.Constraints()[0].Influence)
	}
}
