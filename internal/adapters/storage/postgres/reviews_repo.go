package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-platform/internal/domain/reviews"
)

type ReviewsRepo struct {
	db *sql.DB
}

func NewReviewsRepo(db *sql.DB) *ReviewsRepo {
	return &ReviewsRepo{db: db}
}

func (r *ReviewsRepo) GetDecision(ctx context.Context, userID, feedID string) (reviews.Decision, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, feed_id, reviewed, reported, updated_at
		FROM review_decisions
		WHERE user_id = $1 AND feed_id = $2
	`, userID, feedID)

	var d reviews.Decision
	if err := row.Scan(&d.UserID, &d.FeedID, &d.Reviewed, &d.Reported, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reviews.Decision{}, reviews.ErrNotFound
		}
		return reviews.Decision{}, err
	}
	return d, nil
}

func (r *ReviewsRepo) UpsertDecision(ctx context.Context, d reviews.Decision) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_decisions (user_id, feed_id, reviewed, reported, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, feed_id) DO UPDATE
		SET reviewed = EXCLUDED.reviewed,
		    reported = EXCLUDED.reported,
		    updated_at = EXCLUDED.updated_at
	`, d.UserID, d.FeedID, d.Reviewed, d.Reported, d.UpdatedAt)
	return err
}

func (r *ReviewsRepo) CreateReport(ctx context.Context, rep reviews.ErrorReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO error_reports (
			id, feed_id, reporter_user_id,
			category, description, corrected_json,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rep.ID, rep.FeedID, rep.ReporterUserID,
		string(rep.Category), rep.Description, rep.CorrectedJSON,
		rep.CreatedAt,
	)
	return err
}

func (r *ReviewsRepo) ListReportsByFeed(ctx context.Context, feedID string) ([]reviews.ErrorReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, feed_id, reporter_user_id, category, description, corrected_json, created_at
		FROM error_reports
		WHERE feed_id = $1
		ORDER BY created_at ASC
	`, feedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reviews.ErrorReport, 0)
	for rows.Next() {
		var rep reviews.ErrorReport
		var cat string
		if err := rows.Scan(&rep.ID, &rep.FeedID, &rep.ReporterUserID, &cat, &rep.Description, &rep.CorrectedJSON, &rep.CreatedAt); err != nil {
			return nil, err
		}
		rep.Category = reviews.Category(cat)
		out = append(out, rep)
	}
	return out, rows.Err()
}
