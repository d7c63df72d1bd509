package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhaowenhao/docaudit/internal/audit"
	"github.com/zhaowenhao/docaudit/internal/common"
	"github.com/zhaowenhao/docaudit/internal/export"
	"github.com/zhaowenhao/docaudit/internal/pdf"
	"github.com/zhaowenhao/docaudit/internal/pipeline"
	"github.com/zhaowenhao/docaudit/internal/recognizer"
	"github.com/zhaowenhao/docaudit/internal/usage"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		sealOnly     = flag.Bool("seal", false, "run only the seal compliance audit")
		contractOnly = flag.Bool("contract", false, "run only the contract compliance audit")
		showCount    = flag.Bool("count", false, "show feature usage counters and exit")
		outDir       = flag.String("out", "", "report output directory (defaults to AUDIT_OUTPUT_DIR)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	counters := usage.NewStore(cfg.Output.UsageFile, logger)

	if *showCount {
		c := counters.Load()
		fmt.Println("功能调用统计:")
		fmt.Printf("   盖章识别（--seal）   : %d\n", c.Seal)
		fmt.Printf("   合同审核（--contract）: %d\n", c.Contract)
		fmt.Printf("   总计               : %d\n", c.Total())
		return
	}

	if *sealOnly && *contractOnly {
		printError("Error: --seal and --contract are mutually exclusive\n")
		os.Exit(1)
	}
	pdfPaths := flag.Args()
	if len(pdfPaths) == 0 {
		printError("Error: at least one PDF path is required (unless using --count)\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", cfg.Output.Dir, "error", err)
		os.Exit(1)
	}

	client := recognizer.NewClient(recognizer.Config{
		APIKey:      cfg.Recognizer.APIKey,
		BaseURL:     cfg.Recognizer.BaseURL,
		Model:       cfg.Recognizer.Model,
		Temperature: cfg.Recognizer.Temperature,
		Timeout:     cfg.Recognizer.Timeout,
	}, logger)
	rasterizer := pdf.NewRasterizer(pdf.Config{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
		TempDir:  cfg.Raster.TempDir,
	}, logger)
	processor := pipeline.NewProcessor(logger, rasterizer, client, audit.NewValidator(), cfg.Recognizer.PageConcurrency)
	exporter := export.NewService(logger)

	app := &application{
		logger:    logger,
		cfg:       cfg,
		processor: processor,
		exporter:  exporter,
		counters:  counters,
	}

	ctx := context.Background()
	failures := 0
	for _, path := range pdfPaths {
		// One bad document must not abort the batch.
		if err := app.auditDocument(ctx, path, *sealOnly, *contractOnly); err != nil {
			logger.Error("document audit failed", "pdf", path, "error", err)
			failures++
		}
	}

	logger.Info("batch complete", "documents", len(pdfPaths), "failures", failures)
	if failures == len(pdfPaths) {
		os.Exit(1)
	}
}

type application struct {
	logger    *slog.Logger
	cfg       *common.Config
	processor *pipeline.Processor
	exporter  *export.Service
	counters  *usage.Store
}

// auditDocument rejects unsafe or non-PDF paths, then runs the selected
// audits for one document.
func (a *application) auditDocument(ctx context.Context, path string, sealOnly, contractOnly bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return common.WrapError(err, "resolve path")
	}
	if !common.IsSafePath(a.cfg.Output.AllowedBaseDir, abs) {
		return common.NewAppError("PATH_ERROR", fmt.Sprintf("path %s is outside the allowed base directory", abs), common.ErrUnsafePath)
	}
	if _, err := os.Stat(abs); err != nil {
		return common.NewAppError("PATH_ERROR", fmt.Sprintf("file does not exist: %s", abs), common.ErrNotFound)
	}
	if !strings.EqualFold(filepath.Ext(abs), ".pdf") {
		return common.NewAppError("PATH_ERROR", "only .pdf files are supported", common.ErrInvalidInput)
	}

	if !contractOnly {
		if err := a.runSeal(ctx, abs); err != nil {
			return err
		}
	}
	if !sealOnly {
		if err := a.runContract(ctx, abs); err != nil {
			return err
		}
	}
	return nil
}

func (a *application) runSeal(ctx context.Context, pdfPath string) error {
	a.logger.Info("正在执行【盖章合规性核验】", "pdf", pdfPath)
	report, err := a.processor.AuditSeals(ctx, pdfPath)
	if err != nil {
		return common.WrapError(err, "seal audit")
	}
	a.logIssues("盖章核验", report.Errors, report.Warnings)

	out, err := a.exporter.SealReportXLSX(report)
	if err != nil {
		return common.WrapError(err, "export seal report")
	}
	dst := a.outputPath(pdfPath, "_seal_report.xlsx")
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return common.WrapError(err, "write seal report")
	}
	a.logger.Info("盖章审核报告已导出", "path", dst)

	a.counters.Increment(usage.FeatureSeal)
	return nil
}

func (a *application) runContract(ctx context.Context, pdfPath string) error {
	a.logger.Info("正在执行【合同合规性核验】", "pdf", pdfPath)
	report, err := a.processor.AuditContract(ctx, pdfPath)
	if err != nil {
		return common.WrapError(err, "contract audit")
	}
	a.logIssues("合同审核", report.Errors, report.Warnings)

	raw, err := a.exporter.ContractRawJSON(pdfPath, report)
	if err != nil {
		return common.WrapError(err, "encode raw extraction")
	}
	rawDst := a.outputPath(pdfPath, "_raw.json")
	if err := os.WriteFile(rawDst, raw, 0o644); err != nil {
		return common.WrapError(err, "write raw extraction")
	}
	a.logger.Info("原始提取结果已保存", "path", rawDst)

	out, err := a.exporter.ContractReportXLSX(report)
	if err != nil {
		return common.WrapError(err, "export contract report")
	}
	dst := a.outputPath(pdfPath, "_contract_report.xlsx")
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return common.WrapError(err, "write contract report")
	}
	a.logger.Info("合同审核报告已导出", "path", dst)

	a.counters.Increment(usage.FeatureContract)
	return nil
}

func (a *application) logIssues(feature string, errors, warnings []string) {
	if len(errors) > 0 {
		a.logger.Error(feature+"不通过，发现严重问题", "count", len(errors))
		for _, msg := range errors {
			a.logger.Error("   • " + msg)
		}
	}
	if len(warnings) > 0 {
		a.logger.Warn(feature+"发现需注意项", "count", len(warnings))
		for _, msg := range warnings {
			a.logger.Warn("   • " + msg)
		}
	}
	if len(errors) == 0 && len(warnings) == 0 {
		a.logger.Info(feature + "通过：所有审核项符合要求")
	}
}

func (a *application) outputPath(pdfPath, suffix string) string {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(a.cfg.Output.Dir, stem+suffix)
}
