// 指示: miu200521358
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/generator"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/standardizer"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mi18n"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/params"
	"github.com/miu200521358/mu_vrm2rigify/pkg/usecase/minteractor"
)

// InteractiveOptions は対話モードの実行設定を表す。
type InteractiveOptions struct {
	// StartDir はVRMファイルを探すディレクトリ。空ならカレント。
	StartDir string
	// OutputDir は成果物の出力先。空なら入力と同じディレクトリ。
	OutputDir string
	// ConvertOptions は変換オプション。
	ConvertOptions params.Options
	// Out は表示先。nil なら標準出力。
	Out io.Writer
}

// RunInteractive はVRMの選択から変換・保存までを端末上で対話的に実行する。
func RunInteractive(opts InteractiveOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	startDir := opts.StartDir
	if strings.TrimSpace(startDir) == "" {
		startDir = "."
	}

	paths, err := ScanVrmFiles(startDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printWarning(out, "VRMファイルが見つかりません: %s", startDir)
		return fmt.Errorf("VRMファイルが見つかりません: %s", startDir)
	}

	program := tea.NewProgram(NewVrmPickerModel(paths))
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("ファイル選択に失敗しました: %w", err)
	}
	picker, ok := finalModel.(VrmPickerModel)
	if !ok || picker.Selected == "" {
		printDetail(out, "キャンセルしました")
		return nil
	}
	inputPath := picker.Selected
	printKeyValue(out, mi18n.T(messages.LabelFile), filepath.Base(inputPath))

	result, err := convertWithSpinner(inputPath, opts.ConvertOptions)
	if err != nil {
		printError(out, "%s: %v", mi18n.T(messages.MessageConvertFailed), err)
		return fmt.Errorf("%s: %w", mi18n.T(messages.MessageConvertFailed), err)
	}
	printSuccess(out, "%s", mi18n.T(messages.LogConvertSuccess, map[string]any{
		"Name":      result.Rig.Name(),
		"BoneCount": result.Rig.Len(),
	}))

	layout, err := minteractor.PrepareOutputLayout(inputPath, opts.OutputDir)
	if err != nil {
		printError(out, "%s: %v", mi18n.T(messages.MessageSaveFailed), err)
		return fmt.Errorf("%s: %w", mi18n.T(messages.MessageSaveFailed), err)
	}
	if err := minteractor.SaveResult(layout.RigPath, result); err != nil {
		printError(out, "%s: %v", mi18n.T(messages.MessageSaveFailed), err)
		return fmt.Errorf("%s: %w", mi18n.T(messages.MessageSaveFailed), err)
	}
	printFile(out, layout.RigPath)

	if err := minteractor.ExportSkeletonGraph(context.Background(), result.Rig, "dot", layout.DotPath); err != nil {
		printError(out, "骨格グラフの出力に失敗しました: %v", err)
		return fmt.Errorf("骨格グラフの出力に失敗しました: %w", err)
	}
	printFile(out, layout.DotPath)

	printConvertStats(out, result.Summary)
	return nil
}

// convertWithSpinner はスピナーを表示しながら変換を実行する。
func convertWithSpinner(inputPath string, options params.Options) (*minteractor.ConvertResult, error) {
	usecase := minteractor.NewRigifyUsecase(minteractor.RigifyUsecaseDeps{
		ModelReader:      vrm.NewVrmRepository(),
		NameStandardizer: standardizer.NewSuffixStandardizer(),
		RigGenerator:     generator.NewRigifyGenerator(),
	})

	waiter := newSpinner(mi18n.T(messages.LabelConvert) + "...")
	waiter.Start()
	defer waiter.Stop()

	return usecase.Convert(minteractor.ConvertRequest{
		InputPath: inputPath,
		Options:   options,
	})
}

// printConvertStats は変換集計を表示する。
func printConvertStats(out io.Writer, summary minteractor.ConvertSummary) {
	printDetail(out, "対応部位 %d / 整列 %d / 刈り込み %d (手のひら %d, 未対応保持 %d)",
		summary.PairCount, summary.AlignedCount, summary.PrunedCount,
		summary.PalmRemovedCount, summary.KeptUnmappedCount)
	printDetail(out, "顔ボーン削除 %d / 変形ボーン改名 %d / 移植 %d / 親子調整 %d",
		summary.FacialRemovedCount, summary.DeformRenamedCount,
		summary.GraftedCount, summary.ReparentedCount)
	printDetail(out, "メッシュ %d / 目拘束 %d / ドライバ %d / IK伸縮無効 %d",
		summary.MeshCount, summary.EyeConstraintCount,
		summary.DriverCount, summary.IkStretchDisabled)
}
