package pdf

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner pretends to be pdftoppm: it writes n page images at the prefix
// it receives as the final argument.
type fakeRunner struct {
	pages int
	fail  bool
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.fail {
		return nil, []byte("Syntax Error: file is damaged"), fmt.Errorf("exit status 1")
	}
	prefix := args[len(args)-1]
	for i := 1; i <= f.pages; i++ {
		if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func newTestRasterizer(t *testing.T, runner Runner, pages int) *Rasterizer {
	t.Helper()
	r := NewRasterizer(Config{DPI: 150, TempDir: t.TempDir()}, nil)
	r.runner = runner
	r.validate = func(string) error { return nil }
	r.pageCount = func(string) (int, error) { return pages, nil }
	return r
}

func TestRenderRejectsInvalidDocument(t *testing.T) {
	runner := &fakeRunner{pages: 2}
	r := newTestRasterizer(t, runner, 2)
	r.validate = func(string) error { return fmt.Errorf("pdfcpu: xref table corrupt") }

	_, _, err := r.Render(context.Background(), "corrupt.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf validate")
	assert.Empty(t, runner.calls, "pdftoppm must not run for an invalid document")
}

func TestRenderOrdersPages(t *testing.T) {
	runner := &fakeRunner{pages: 12}
	r := newTestRasterizer(t, runner, 12)

	pages, cleanup, err := r.Render(context.Background(), "doc.pdf")
	require.NoError(t, err)
	defer cleanup()

	require.Len(t, pages, 12)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
		assert.FileExists(t, p.ImagePath)
	}

	// pdftoppm invocation shape
	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "pdftoppm", call[0])
	assert.Contains(t, call, "-png")
	assert.Contains(t, call, "doc.pdf")
}

func TestRenderCleanupRemovesImages(t *testing.T) {
	r := newTestRasterizer(t, &fakeRunner{pages: 2}, 2)
	pages, cleanup, err := r.Render(context.Background(), "doc.pdf")
	require.NoError(t, err)

	cleanup()
	for _, p := range pages {
		assert.NoFileExists(t, p.ImagePath)
	}
}

func TestRenderCommandFailure(t *testing.T) {
	r := newTestRasterizer(t, &fakeRunner{fail: true}, 3)
	_, _, err := r.Render(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm")
}

func TestRenderNoImages(t *testing.T) {
	r := newTestRasterizer(t, &fakeRunner{pages: 0}, 3)
	_, _, err := r.Render(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestRenderEmptyDocument(t *testing.T) {
	r := newTestRasterizer(t, &fakeRunner{}, 0)
	_, _, err := r.Render(context.Background(), "empty.pdf")
	assert.Error(t, err)
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 1, pageNumber("/tmp/x/page-1.png", 99))
	assert.Equal(t, 7, pageNumber("/tmp/x/page-07.png", 99))
	assert.Equal(t, 12, pageNumber("/tmp/x/page-12.png", 99))
	assert.Equal(t, 99, pageNumber("/tmp/x/page.png", 99))
}
