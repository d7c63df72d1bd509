package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	pdfcpuapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Page is one rendered page image, numbered from 1.
type Page struct {
	Number    int
	ImagePath string
}

// Config holds rasterization settings.
type Config struct {
	Pdftoppm string // pdftoppm binary, default "pdftoppm"
	DPI      int
	TempDir  string // parent for per-document image directories
}

// Rasterizer renders a PDF into an ordered sequence of page images via
// pdftoppm, after checking the document with pdfcpu.
type Rasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	// injectable for tests
	validate  func(string) error
	pageCount func(string) (int, error)
}

func NewRasterizer(cfg Config, logger *slog.Logger) *Rasterizer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{
		cfg:    cfg,
		runner: execRunner{},
		logger: logger,
		validate: func(path string) error {
			return pdfcpuapi.ValidateFile(path, model.NewDefaultConfiguration())
		},
		pageCount: func(path string) (int, error) {
			return pdfcpuapi.PageCountFile(path)
		},
	}
}

// Render rasterizes every page of the PDF into PNGs inside a fresh directory
// under cfg.TempDir and returns the pages in page order. The document is
// structurally validated before pdftoppm is invoked. The cleanup func
// removes the directory; callers must invoke it once the images are consumed.
func (r *Rasterizer) Render(ctx context.Context, pdfPath string) ([]Page, func(), error) {
	if err := r.validate(pdfPath); err != nil {
		return nil, nil, fmt.Errorf("pdf validate: %w", err)
	}
	count, err := r.pageCount(pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf page count: %w", err)
	}
	if count == 0 {
		return nil, nil, fmt.Errorf("pdf has no pages")
	}

	if r.cfg.TempDir != "" {
		if err := os.MkdirAll(r.cfg.TempDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(r.cfg.TempDir, "audit-pages-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create page dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("raster.cleanup_failed", "dir", dir, "error", err)
		}
	}

	prefix := filepath.Join(dir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <dir/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", strconv.Itoa(r.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 1024))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("pdftoppm produced no images")
	}

	pages := make([]Page, 0, len(matches))
	for i, img := range matches {
		pages = append(pages, Page{Number: pageNumber(img, i+1), ImagePath: img})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })

	r.logger.Info("raster.render.ok",
		"pdf", pdfPath,
		"pages_expected", count,
		"pages_rendered", len(pages),
		"dpi", r.cfg.DPI,
	)
	return pages, cleanup, nil
}

// pageNumber parses the page index pdftoppm encodes in the file name
// (page-1.png, page-07.png); falls back to the positional index.
func pageNumber(path string, fallback int) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimLeft(base[idx+1:], "0"))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
