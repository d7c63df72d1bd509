package recognizer

import (
	"context"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

// Recognizer turns one page image into a structured extraction. The pipeline
// depends on this interface, never on the HTTP client directly.
type Recognizer interface {
	ContractPage(ctx context.Context, page int, imagePath string) (audit.PageExtraction, error)
	SealPage(ctx context.Context, page int, imagePath string) (audit.PageSealExtraction, error)
}
