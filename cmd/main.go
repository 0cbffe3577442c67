//go:build !windows
// +build !windows

// 指示: miu200521358
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/generator"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrm2rigify/pkg/adapter/standardizer"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mi18n"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/params"
	"github.com/miu200521358/mu_vrm2rigify/pkg/infra/controller/ui"
	"github.com/miu200521358/mu_vrm2rigify/pkg/usecase/minteractor"
)

// appName はCLI表示に使うアプリケーション名。
const appName = "mu_vrm2rigify"

// options はCLI引数を保持する。
type options struct {
	inputPath  string
	outputDir  string
	configPath string
	writeDot   bool
	tui        bool
	verbose    bool
	quiet      bool
}

// main はVRMからRigify互換リグへの変換を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	convertOptions, err := loadConvertOptions(opts.configPath)
	if err != nil {
		return err
	}
	mlog.SetOutput(errOut)
	if err := mlog.SetLevel(resolveLogLevel(opts, convertOptions)); err != nil {
		return err
	}

	if opts.tui {
		startDir := "."
		if opts.inputPath != "" {
			startDir = filepath.Dir(opts.inputPath)
		}
		return ui.RunInteractive(ui.InteractiveOptions{
			StartDir:       startDir,
			OutputDir:      opts.outputDir,
			ConvertOptions: convertOptions,
			Out:            out,
		})
	}

	repository := vrm.NewVrmRepository()
	if !repository.CanLoad(opts.inputPath) {
		return fmt.Errorf("入力形式が未対応です: %s", opts.inputPath)
	}

	usecase := minteractor.NewRigifyUsecase(minteractor.RigifyUsecaseDeps{
		ModelReader:      repository,
		NameStandardizer: standardizer.NewSuffixStandardizer(),
		RigGenerator:     generator.NewRigifyGenerator(),
	})

	fmt.Fprintf(out, "[%s] %s: %s\n", appName, mi18n.T(messages.LabelVrmPath), opts.inputPath)
	result, err := usecase.Convert(minteractor.ConvertRequest{
		InputPath:        opts.inputPath,
		Options:          convertOptions,
		ProgressReporter: &convertProgressPrinter{out: out, inputPath: opts.inputPath},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", mi18n.T(messages.MessageConvertFailed), err)
	}
	fmt.Fprintf(out, "[%s] %s\n", appName, mi18n.T(messages.LogConvertSuccess, map[string]any{
		"Name":      result.Rig.Name(),
		"BoneCount": result.Rig.Len(),
	}))

	layout, err := minteractor.PrepareOutputLayout(opts.inputPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := minteractor.SaveResult(layout.RigPath, result); err != nil {
		return fmt.Errorf("%s: %w", mi18n.T(messages.MessageSaveFailed), err)
	}
	fmt.Fprintf(out, "[%s] %s\n", appName, mi18n.T(messages.LogSaveSuccess, map[string]any{
		"Path": layout.RigPath,
	}))

	if format := resolveGraphFormat(opts, convertOptions); format != "" {
		graphPath := layout.DotPath
		if format == "svg" {
			graphPath = strings.TrimSuffix(graphPath, filepath.Ext(graphPath)) + ".svg"
		}
		if err := minteractor.ExportSkeletonGraph(context.Background(), result.Rig, format, graphPath); err != nil {
			return fmt.Errorf("骨格グラフの出力に失敗しました: %w", err)
		}
		fmt.Fprintf(out, "[%s] %s\n", appName, mi18n.T(messages.LogGraphSuccess, map[string]any{
			"Path": graphPath,
		}))
	}

	printSummary(out, result.Summary)
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "%s: %s\n", mi18n.T(messages.HelpUsageTitle), mi18n.T(messages.HelpUsage))
		fs.PrintDefaults()
	}

	input := fs.String("input", "", "入力VRMファイルパス")
	outputDir := fs.String("output-dir", "", "出力先ディレクトリ(省略時は入力の隣へ作成)")
	configPath := fs.String("config", "", "動作設定TOMLファイルパス")
	writeDot := fs.Bool("dot", false, "骨格グラフ(DOT)を出力する")
	tui := fs.Bool("tui", false, "端末上の対話モードで実行する")
	verbose := fs.Bool("verbose", false, "デバッグログを出力する")
	quiet := fs.Bool("quiet", false, "エラー以外のログを抑える")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *input == "" && fs.NArg() > 0 {
		*input = fs.Arg(0)
	}
	if *input == "" && !*tui {
		return options{}, fmt.Errorf("%s (-input)", mi18n.T(messages.MessageInputRequired))
	}
	if *input != "" && !strings.EqualFold(filepath.Ext(*input), ".vrm") {
		return options{}, fmt.Errorf("入力拡張子が .vrm ではありません: %s", *input)
	}
	if *verbose && *quiet {
		return options{}, fmt.Errorf("-verbose と -quiet は同時に指定できません")
	}

	return options{
		inputPath:  *input,
		outputDir:  *outputDir,
		configPath: *configPath,
		writeDot:   *writeDot,
		tui:        *tui,
		verbose:    *verbose,
		quiet:      *quiet,
	}, nil
}

// loadConvertOptions は動作設定ファイルを読み込む。未指定なら既定値を返す。
func loadConvertOptions(configPath string) (params.Options, error) {
	if configPath == "" {
		return params.DefaultOptions(), nil
	}
	return params.LoadOptions(configPath)
}

// resolveLogLevel はCLI引数と動作設定からログレベル名を決める。
func resolveLogLevel(opts options, convertOptions params.Options) string {
	switch {
	case opts.verbose:
		return "debug"
	case opts.quiet:
		return "error"
	default:
		return convertOptions.LogLevel
	}
}

// resolveGraphFormat は骨格グラフの出力形式を決める。空なら出力しない。
func resolveGraphFormat(opts options, convertOptions params.Options) string {
	if opts.writeDot {
		return "dot"
	}
	return convertOptions.GraphFormat
}

// convertProgressPrinter は読み込み完了をCLIへ表示し、各段の詳細はデバッグログへ流す。
type convertProgressPrinter struct {
	out       io.Writer
	inputPath string
}

func (p *convertProgressPrinter) ReportConvertProgress(event minteractor.ConvertProgressEvent) {
	if event.Type == minteractor.ConvertProgressEventTypeLoaded {
		fmt.Fprintf(p.out, "[%s] %s\n", appName, mi18n.T(messages.LogLoadSuccess, map[string]any{
			"Path": p.inputPath,
		}))
	}
	mlog.D("変換進捗 %s: bones=%d pairs=%d removed=%d renamed=%d grafted=%d constraints=%d meshes=%d",
		event.Type, event.BoneCount, event.PairCount, event.RemovedCount,
		event.RenamedCount, event.GraftedCount, event.ConstraintCount, event.MeshCount)
}

// printSummary は変換集計を表示する。
func printSummary(out io.Writer, summary minteractor.ConvertSummary) {
	fmt.Fprintf(out, "[%s] 対応部位 %d / 整列 %d / 刈り込み %d (手のひら %d, 未対応保持 %d)\n",
		appName, summary.PairCount, summary.AlignedCount, summary.PrunedCount,
		summary.PalmRemovedCount, summary.KeptUnmappedCount)
	fmt.Fprintf(out, "[%s] 顔ボーン削除 %d / 変形ボーン改名 %d / 移植 %d / 親子調整 %d\n",
		appName, summary.FacialRemovedCount, summary.DeformRenamedCount,
		summary.GraftedCount, summary.ReparentedCount)
	fmt.Fprintf(out, "[%s] メッシュ %d / 目拘束 %d / ドライバ %d / IK伸縮無効 %d\n",
		appName, summary.MeshCount, summary.EyeConstraintCount,
		summary.DriverCount, summary.IkStretchDisabled)
}
