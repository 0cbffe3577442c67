// 指示: miu200521358
package generator

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func TestNewTemplateBindsAllHumanoidRoles(t *testing.T) {
	template, err := NewRigifyGenerator().NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}
	if template.Name() != "metarig" {
		t.Fatalf("name mismatch: got=%s want=metarig", template.Name())
	}
	if template.Len() != 103 {
		t.Fatalf("bone count mismatch: got=%d want=103", template.Len())
	}
	if got, want := len(template.BoundRoles()), len(rig.AllRoles()); got != want {
		t.Fatalf("bound role count mismatch: got=%d want=%d", got, want)
	}

	wantBindings := map[rig.Role]string{
		rig.RoleHips:             "spine",
		rig.RoleUpperChest:       "spine.003",
		rig.RoleNeck:             "spine.004",
		rig.RoleHead:             "spine.006",
		rig.RoleJaw:              "jaw",
		rig.RoleLeftEye:          "eye.L",
		rig.RoleRightHand:        "hand.R",
		rig.RoleLeftToes:         "toe.L",
		rig.RoleLeftThumbMetacarpal: "thumb.01.L",
		rig.RoleRightLittleDistal:   "f_pinky.03.R",
	}
	for role, want := range wantBindings {
		got, ok := template.RoleBoneName(role)
		if !ok || got != want {
			t.Errorf("binding mismatch for %s: got=%s want=%s", role, got, want)
		}
	}

	// spine.005 は首上側のためどの部位にも割り当てない。
	for _, role := range template.BoundRoles() {
		if name, _ := template.RoleBoneName(role); name == "spine.005" {
			t.Fatalf("spine.005 should stay unbound: role=%s", role)
		}
	}
}

func TestNewTemplateShapesConnectedChains(t *testing.T) {
	template, err := NewRigifyGenerator().NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}

	spine, err := template.GetByName("spine")
	if err != nil {
		t.Fatalf("spine lookup failed: %v", err)
	}
	chest, err := template.GetByName("spine.001")
	if err != nil {
		t.Fatalf("spine.001 lookup failed: %v", err)
	}
	if !chest.UseConnect {
		t.Fatalf("spine.001 should connect to spine")
	}
	if !chest.Head.NearEquals(spine.Tail, 1e-12) {
		t.Fatalf("spine.001 head mismatch: got=%v want=%v", chest.Head, spine.Tail)
	}

	heel, err := template.GetByName("heel.02.L")
	if err != nil {
		t.Fatalf("heel lookup failed: %v", err)
	}
	if heel.UseConnect {
		t.Fatalf("heel.02.L should not connect to foot")
	}
	if heel.Parent() == nil || heel.Parent().Name() != "foot.L" {
		t.Fatalf("heel.02.L parent mismatch: got=%v want=foot.L", heel.Parent())
	}

	middleFinger, err := template.GetByName("f_middle.01.L")
	if err != nil {
		t.Fatalf("f_middle.01.L lookup failed: %v", err)
	}
	if middleFinger.Parent() == nil || middleFinger.Parent().Name() != "palm.02.L" {
		t.Fatalf("f_middle.01.L parent mismatch: got=%v want=palm.02.L", middleFinger.Parent())
	}

	leftEye, err := template.GetByName("eye.L")
	if err != nil {
		t.Fatalf("eye.L lookup failed: %v", err)
	}
	rightEye, err := template.GetByName("eye.R")
	if err != nil {
		t.Fatalf("eye.R lookup failed: %v", err)
	}
	if rightEye.Head.X != -leftEye.Head.X {
		t.Fatalf("eye mirror mismatch: got=%v want=%v", rightEye.Head.X, -leftEye.Head.X)
	}

	for _, name := range []string{"upper_arm.L", "upper_arm.R", "thigh.L", "thigh.R"} {
		bone, err := template.GetByName(name)
		if err != nil {
			t.Fatalf("%s lookup failed: %v", name, err)
		}
		if bone.Segments != 2 {
			t.Errorf("%s segments mismatch: got=%d want=2", name, bone.Segments)
		}
	}
}

func TestGenerateBuildsLayeredRig(t *testing.T) {
	g := NewRigifyGenerator()
	template, err := g.NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}
	generated, err := g.Generate(template)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	root, err := generated.GetByName("root")
	if err != nil {
		t.Fatalf("root lookup failed: %v", err)
	}
	if root.UseDeform {
		t.Fatalf("root should not deform")
	}
	rigId, ok := root.Prop("rig_id")
	if !ok {
		t.Fatalf("root should carry rig_id")
	}
	if id, ok := rigId.(string); !ok || id == "" {
		t.Fatalf("rig_id should be a non-empty string: got=%v", rigId)
	}

	// ORG 層はテンプレートの形を引き継ぎ、DEF 層は転写拘束で追従する。
	orgSpine, err := generated.GetByName("ORG-spine")
	if err != nil {
		t.Fatalf("ORG-spine lookup failed: %v", err)
	}
	if orgSpine.UseDeform {
		t.Fatalf("ORG-spine should not deform")
	}
	if orgSpine.Parent() == nil || orgSpine.Parent().Name() != "root" {
		t.Fatalf("ORG-spine parent mismatch: got=%v want=root", orgSpine.Parent())
	}
	defSpine, err := generated.GetByName("DEF-spine")
	if err != nil {
		t.Fatalf("DEF-spine lookup failed: %v", err)
	}
	if !defSpine.UseDeform {
		t.Fatalf("DEF-spine should deform")
	}
	if defSpine.Parent() == nil || defSpine.Parent().Name() != "ORG-spine" {
		t.Fatalf("DEF-spine parent mismatch: got=%v want=ORG-spine", defSpine.Parent())
	}
	constraints := defSpine.Constraints()
	if len(constraints) != 1 {
		t.Fatalf("DEF-spine constraint count mismatch: got=%d want=1", len(constraints))
	}
	if constraints[0].Type != rig.ConstraintCopyTransforms || constraints[0].SubTarget != "ORG-spine" {
		t.Fatalf("DEF-spine constraint mismatch: got=%+v", constraints[0])
	}
	defChest, err := generated.GetByName("DEF-spine.001")
	if err != nil {
		t.Fatalf("DEF-spine.001 lookup failed: %v", err)
	}
	if defChest.Parent() == nil || defChest.Parent().Name() != "DEF-spine" {
		t.Fatalf("DEF-spine.001 parent mismatch: got=%v want=DEF-spine", defChest.Parent())
	}
	if !defChest.UseConnect {
		t.Fatalf("DEF-spine.001 should connect to DEF-spine")
	}

	// 目は ORG と機構層だけで、変形層を持たない。踵は丸ごと対象外。
	for _, name := range []string{"DEF-eye.L", "DEF-eye.R", "ORG-heel.02.L", "DEF-heel.02.L"} {
		if generated.Contains(name) {
			t.Errorf("%s should not be generated", name)
		}
	}
	if !generated.Contains("ORG-eye.L") {
		t.Fatalf("ORG-eye.L should be generated")
	}
	for _, side := range []string{".L", ".R"} {
		mchEye, err := generated.GetByName("MCH-eye" + side)
		if err != nil {
			t.Fatalf("MCH-eye%s lookup failed: %v", side, err)
		}
		if mchEye.Parent() == nil || mchEye.Parent().Name() != "master_eye"+side {
			t.Fatalf("MCH-eye%s parent mismatch: got=%v", side, mchEye.Parent())
		}
	}

	eyes, err := generated.GetByName("eyes")
	if err != nil {
		t.Fatalf("eyes lookup failed: %v", err)
	}
	if eyes.Head.X != 0 {
		t.Fatalf("eyes control should sit on the center plane: got=%v", eyes.Head.X)
	}
	eyeControl, err := generated.GetByName("eye.L")
	if err != nil {
		t.Fatalf("eye.L control lookup failed: %v", err)
	}
	if eyeControl.Parent() == nil || eyeControl.Parent().Name() != "eyes" {
		t.Fatalf("eye.L control parent mismatch: got=%v want=eyes", eyeControl.Parent())
	}
	orgEye, err := generated.GetByName("ORG-eye.L")
	if err != nil {
		t.Fatalf("ORG-eye.L lookup failed: %v", err)
	}
	if eyeControl.Head.Y >= orgEye.Head.Y {
		t.Fatalf("eye.L control should sit in front of the eye: got=%v org=%v", eyeControl.Head.Y, orgEye.Head.Y)
	}

	mouthLock, err := generated.GetByName("MCH-mouth_lock")
	if err != nil {
		t.Fatalf("MCH-mouth_lock lookup failed: %v", err)
	}
	if mouthLock.Parent() == nil || mouthLock.Parent().Name() != "jaw_master" {
		t.Fatalf("MCH-mouth_lock parent mismatch: got=%v want=jaw_master", mouthLock.Parent())
	}

	armSwitch, err := generated.GetByName("upper_arm_parent.L")
	if err != nil {
		t.Fatalf("upper_arm_parent.L lookup failed: %v", err)
	}
	if armSwitch.Parent() == nil || armSwitch.Parent().Name() != "ORG-shoulder.L" {
		t.Fatalf("upper_arm_parent.L parent mismatch: got=%v want=ORG-shoulder.L", armSwitch.Parent())
	}
	if stretch, ok := armSwitch.Prop("IK_Stretch"); !ok || stretch != 1.0 {
		t.Fatalf("IK_Stretch mismatch: got=%v want=1", stretch)
	}
	if pole, ok := armSwitch.Prop("pole_vector"); !ok || pole != 0 {
		t.Fatalf("pole_vector mismatch: got=%v want=0", pole)
	}
	poleTarget, err := generated.GetByName("upper_arm_ik_target.L")
	if err != nil {
		t.Fatalf("upper_arm_ik_target.L lookup failed: %v", err)
	}
	if !poleTarget.Hidden {
		t.Fatalf("pole target should start hidden")
	}
	handIk, err := generated.GetByName("hand_ik.L")
	if err != nil {
		t.Fatalf("hand_ik.L lookup failed: %v", err)
	}
	if handIk.Parent() == nil || handIk.Parent().Name() != "root" {
		t.Fatalf("hand_ik.L parent mismatch: got=%v want=root", handIk.Parent())
	}
	for _, name := range []string{"thigh_parent.R", "thigh_ik_target.R", "foot_ik.R"} {
		if !generated.Contains(name) {
			t.Errorf("%s should be generated", name)
		}
	}

	if !generated.HasCollection("DEF") {
		t.Fatalf("DEF collection should be registered")
	}
	// 変形層は目2本と踵2本を除くテンプレート全ボーン分になる。
	if got, want := len(generated.CollectionBones("DEF")), template.Len()-4; got != want {
		t.Fatalf("DEF collection size mismatch: got=%d want=%d", got, want)
	}
}

func TestGenerateFollowsPrunedTemplate(t *testing.T) {
	g := NewRigifyGenerator()
	template, err := g.NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}

	// 手のひらを刈ると指は手首へ付け替わる。その形のまま生成へ進む。
	err = template.EditScope(func(ec *rig.EditContext) error {
		palm, err := ec.GetByName("palm.01.L")
		if err != nil {
			return err
		}
		return ec.Delete(palm)
	})
	if err != nil {
		t.Fatalf("palm prune failed: %v", err)
	}

	generated, err := g.Generate(template)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if generated.Contains("ORG-palm.01.L") || generated.Contains("DEF-palm.01.L") {
		t.Fatalf("pruned palm should not appear in the rig")
	}
	orgIndex, err := generated.GetByName("ORG-f_index.01.L")
	if err != nil {
		t.Fatalf("ORG-f_index.01.L lookup failed: %v", err)
	}
	if orgIndex.Parent() == nil || orgIndex.Parent().Name() != "ORG-hand.L" {
		t.Fatalf("ORG-f_index.01.L parent mismatch: got=%v want=ORG-hand.L", orgIndex.Parent())
	}
	defIndex, err := generated.GetByName("DEF-f_index.01.L")
	if err != nil {
		t.Fatalf("DEF-f_index.01.L lookup failed: %v", err)
	}
	if defIndex.Parent() == nil || defIndex.Parent().Name() != "DEF-hand.L" {
		t.Fatalf("DEF-f_index.01.L parent mismatch: got=%v want=DEF-hand.L", defIndex.Parent())
	}
	if defIndex.UseConnect {
		t.Fatalf("reparented finger should not stay connected")
	}
}

func TestGenerateUsesLayersWhenCollectionsUnavailable(t *testing.T) {
	capability := rig.DefaultCapability()
	capability.BoneCollections = false
	g := NewRigifyGeneratorWithCapability(capability)
	template, err := g.NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}
	generated, err := g.Generate(template)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(generated.Collections()) != 0 {
		t.Fatalf("collections should stay empty on legacy host: got=%v", generated.Collections())
	}
	wantLayers := map[string]uint32{
		"root":               layerRoot,
		"ORG-spine":          layerOrg,
		"DEF-spine":          layerDeform,
		"MCH-eye.L":          layerMech,
		"torso":              layerTorso,
		"eyes":               layerFace,
		"upper_arm_parent.L": layerArmIkL,
		"thigh_parent.R":     layerLegIkR,
	}
	for name, want := range wantLayers {
		bone, err := generated.GetByName(name)
		if err != nil {
			t.Fatalf("%s lookup failed: %v", name, err)
		}
		if bone.Layers != want {
			t.Errorf("%s layers mismatch: got=%b want=%b", name, bone.Layers, want)
		}
	}
}

func TestGenerateRefusesWhenRigGenerationUnavailable(t *testing.T) {
	capability := rig.DefaultCapability()
	capability.RigGeneration = false
	g := NewRigifyGeneratorWithCapability(capability)
	template, err := NewRigifyGenerator().NewTemplate("metarig")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}
	if _, err := g.Generate(template); !errors.Is(err, merr.GeneratorUnavailableError) {
		t.Fatalf("error mismatch: got=%v want=%v", err, merr.GeneratorUnavailableError)
	}
}

func TestGenerateRejectsNilTemplate(t *testing.T) {
	if _, err := NewRigifyGenerator().Generate(nil); err == nil {
		t.Fatalf("nil template should fail")
	}
}

func TestMirrorBoneName(t *testing.T) {
	if got := mirrorBoneName("lid.T.L"); got != "lid.T.R" {
		t.Fatalf("mirror mismatch: got=%s want=lid.T.R", got)
	}
	if got := mirrorBoneName("jaw"); got != "jaw" {
		t.Fatalf("center name should stay: got=%s", got)
	}
}
