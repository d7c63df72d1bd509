package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zhaowenhao/docaudit/internal/audit"
	"github.com/zhaowenhao/docaudit/internal/pdf"
	"github.com/zhaowenhao/docaudit/internal/recognizer"
)

// Renderer produces the ordered page-image sequence for a document.
type Renderer interface {
	Render(ctx context.Context, pdfPath string) ([]pdf.Page, func(), error)
}

// Processor coordinates rasterization, per-page recognition, and the audit
// core for one document at a time. Recognition fans out across pages but
// results are written by page index, so the core always receives a
// page-ordered sequence.
type Processor struct {
	logger      *slog.Logger
	renderer    Renderer
	rec         recognizer.Recognizer
	validator   *audit.Validator
	concurrency int
}

func NewProcessor(logger *slog.Logger, renderer Renderer, rec recognizer.Recognizer, validator *audit.Validator, concurrency int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = audit.NewValidator()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Processor{
		logger:      logger,
		renderer:    renderer,
		rec:         rec,
		validator:   validator,
		concurrency: concurrency,
	}
}

// AuditContract runs the contract audit for one document: render pages,
// extract fields per page, merge, evaluate the rule set, assemble the report.
// A failed page degrades to the all-defaults extraction; only document-level
// failures (unreadable PDF) surface as an error.
func (p *Processor) AuditContract(ctx context.Context, pdfPath string) (*audit.ContractReport, error) {
	jobID := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.contract.start", "job_id", jobID, "pdf", pdfPath)

	pages, cleanup, err := p.renderer.Render(ctx, pdfPath)
	if err != nil {
		p.logger.Error("pipeline.contract.render_failed", "job_id", jobID, "pdf", pdfPath, "error", err)
		return nil, err
	}
	defer cleanup()

	extractions := recognizePages(ctx, p, jobID, pages,
		p.rec.ContractPage, audit.EmptyPageExtraction)

	merged := audit.MergeContractFields(extractions)
	issues := p.validator.Evaluate(merged)
	report := audit.AssembleContractReport(extractions, merged, issues)

	p.logger.Info("pipeline.contract.ok",
		"job_id", jobID,
		"pages", len(pages),
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// AuditSeals runs the seal audit for one document.
func (p *Processor) AuditSeals(ctx context.Context, pdfPath string) (*audit.SealReport, error) {
	jobID := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.seal.start", "job_id", jobID, "pdf", pdfPath)

	pages, cleanup, err := p.renderer.Render(ctx, pdfPath)
	if err != nil {
		p.logger.Error("pipeline.seal.render_failed", "job_id", jobID, "pdf", pdfPath, "error", err)
		return nil, err
	}
	defer cleanup()

	observations := recognizePages(ctx, p, jobID, pages,
		p.rec.SealPage, audit.EmptySealExtraction)

	issues, summary := audit.AggregateSeals(observations)
	report := audit.AssembleSealReport(observations, summary, issues)

	p.logger.Info("pipeline.seal.ok",
		"job_id", jobID,
		"pages", len(pages),
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// recognizePages fans page recognition out across a bounded worker group and
// reassembles results by page index, preserving page order for the merge
// contract. A page whose recognition fails is logged and degraded to its
// all-defaults record; it never fails the document.
func recognizePages[T any](
	ctx context.Context,
	p *Processor,
	jobID string,
	pages []pdf.Page,
	recognize func(ctx context.Context, page int, imagePath string) (T, error),
	degraded func(page int) T,
) []T {
	results := make([]T, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			res, err := recognize(gctx, page.Number, page.ImagePath)
			if err != nil {
				p.logger.Error("pipeline.page.degraded",
					"job_id", jobID,
					"page", page.Number,
					"error", err,
				)
				res = degraded(page.Number)
			}
			results[i] = res
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()
	return results
}
