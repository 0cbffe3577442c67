// 指示: miu200521358
package minteractor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

func buildViewerRig(t *testing.T) *rig.Skeleton {
	t.Helper()
	rigSkeleton := rig.NewSkeleton("rig")
	err := rigSkeleton.EditScope(func(ec *rig.EditContext) error {
		root, err := ec.Create("Root")
		if err != nil {
			return err
		}
		root.UseDeform = false
		hips, err := ec.Create("Hips")
		if err != nil {
			return err
		}
		return ec.SetParent(hips, root)
	})
	if err != nil {
		t.Fatalf("rig setup failed: %v", err)
	}
	return rigSkeleton
}

func TestWriteSkeletonDot(t *testing.T) {
	rigSkeleton := buildViewerRig(t)

	var buf bytes.Buffer
	if err := WriteSkeletonDot(&buf, rigSkeleton); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := `digraph "rig" {
  rankdir=LR;
  node [shape=box, fontsize=10];

  "Root";
  "Hips" [style=filled, fillcolor=lightyellow];

  "Root" -> "Hips";
}
`
	if buf.String() != want {
		t.Fatalf("dot output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}

	// 同じ骨格からは常に同じ出力になる。
	var again bytes.Buffer
	if err := WriteSkeletonDot(&again, rigSkeleton); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.String() != again.String() {
		t.Fatalf("dot output should be deterministic")
	}
}

func TestExportSkeletonGraphDot(t *testing.T) {
	rigSkeleton := buildViewerRig(t)
	path := filepath.Join(t.TempDir(), "rig.dot")

	if err := ExportSkeletonGraph(context.Background(), rigSkeleton, "dot", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.HasPrefix(string(data), `digraph "rig" {`) {
		t.Fatalf("exported file should hold dot output: got=%q", string(data))
	}
}

func TestExportSkeletonGraphRejectsUnknownFormat(t *testing.T) {
	rigSkeleton := buildViewerRig(t)
	path := filepath.Join(t.TempDir(), "rig.png")

	if err := ExportSkeletonGraph(context.Background(), rigSkeleton, "png", path); err == nil {
		t.Fatalf("unknown format should be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written for unknown format")
	}
}
