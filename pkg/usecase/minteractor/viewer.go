// 指示: miu200521358
package minteractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-graphviz"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// WriteSkeletonDot は骨格の親子関係を DOT 形式で書き出す。
// 出力はボーンの作成順に沿い、同じ骨格からは常に同じ文字列になる。
func WriteSkeletonDot(w io.Writer, skeleton *rig.Skeleton) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", skeleton.Name())
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10];\n")
	buf.WriteString("\n")

	for _, bone := range skeleton.Bones() {
		if bone.UseDeform {
			fmt.Fprintf(&buf, "  %q [style=filled, fillcolor=lightyellow];\n", bone.Name())
		} else {
			fmt.Fprintf(&buf, "  %q;\n", bone.Name())
		}
	}

	buf.WriteString("\n")
	for _, bone := range skeleton.Bones() {
		parent := bone.Parent()
		if parent == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent.Name(), bone.Name())
	}

	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderSkeletonSVG は骨格の親子関係を SVG へ描画して返す。
func RenderSkeletonSVG(ctx context.Context, skeleton *rig.Skeleton) ([]byte, error) {
	var dot bytes.Buffer
	if err := WriteSkeletonDot(&dot, skeleton); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("グラフ描画環境の初期化に失敗しました: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes(dot.Bytes())
	if err != nil {
		return nil, fmt.Errorf("DOT の解析に失敗しました: %w", err)
	}
	defer func() { _ = graph.Close() }()

	var svg bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &svg); err != nil {
		return nil, fmt.Errorf("SVG の描画に失敗しました: %w", err)
	}
	return svg.Bytes(), nil
}

// ExportSkeletonGraph は指定形式(dot/svg)で骨格グラフをファイルへ書き出す。
func ExportSkeletonGraph(
	ctx context.Context,
	skeleton *rig.Skeleton,
	format, path string,
) error {
	switch format {
	case "dot":
		var dot bytes.Buffer
		if err := WriteSkeletonDot(&dot, skeleton); err != nil {
			return err
		}
		if err := os.WriteFile(path, dot.Bytes(), 0o644); err != nil {
			return fmt.Errorf("グラフファイル %s を書き込めません: %w", path, err)
		}
	case "svg":
		svg, err := RenderSkeletonSVG(ctx, skeleton)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("グラフファイル %s を書き込めません: %w", path, err)
		}
	default:
		return fmt.Errorf("グラフ形式 %q は未対応です", format)
	}
	mlog.I("骨格グラフを出力しました: %s", path)
	return nil
}
