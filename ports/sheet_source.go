package ports

import (
	"context"

	"coordash/domain/report"
)

// SheetSource fetches a published spreadsheet export
type SheetSource interface {
	Fetch(ctx context.Context, sourceURL string) (*report.Table, error)
}
