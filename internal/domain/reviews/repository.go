package reviews

import "context"

type Repository interface {
	// GetDecision devuelve ErrNotFound si el usuario nunca revisó ni reportó.
	GetDecision(ctx context.Context, userID, feedID string) (Decision, error)
	UpsertDecision(ctx context.Context, d Decision) error

	CreateReport(ctx context.Context, rep ErrorReport) error
	ListReportsByFeed(ctx context.Context, feedID string) ([]ErrorReport, error)
}
