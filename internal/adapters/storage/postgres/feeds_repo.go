package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-platform/internal/domain/feeds"
)

type FeedsRepo struct {
	db *sql.DB
}

func NewFeedsRepo(db *sql.DB) *FeedsRepo {
	return &FeedsRepo{db: db}
}

const feedColumns = `
	id, name, brand, price,
	protein_pct, fat_pct, carb_pct, calcium_pct, phosphorus_pct,
	magnesium_g, sodium_g,
	is_verified, review_count, creator_user_id,
	front_image, nutrition_image,
	created_at, updated_at
`

func (r *FeedsRepo) Create(ctx context.Context, f feeds.Feed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (
			id, name, brand, match_key, price,
			protein_pct, fat_pct, carb_pct, calcium_pct, phosphorus_pct,
			magnesium_g, sodium_g,
			is_verified, review_count, creator_user_id,
			front_image, nutrition_image,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		f.ID, f.Name, f.Brand, feeds.NormalizeKey(f.Name, f.Brand), f.Price,
		f.Nutrients.ProteinPct, f.Nutrients.FatPct, f.Nutrients.CarbPct,
		f.Nutrients.CalciumPct, f.Nutrients.PhosphorusPct,
		f.Nutrients.MagnesiumG, f.Nutrients.SodiumG,
		f.IsVerified, f.ReviewCount, f.CreatorUserID,
		f.FrontImage, f.NutritionImage,
		f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (r *FeedsRepo) Update(ctx context.Context, f feeds.Feed) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET
			name = $2, brand = $3, match_key = $4, price = $5,
			protein_pct = $6, fat_pct = $7, carb_pct = $8,
			calcium_pct = $9, phosphorus_pct = $10,
			magnesium_g = $11, sodium_g = $12,
			is_verified = $13, review_count = $14,
			updated_at = $15
		WHERE id = $1
	`,
		f.ID, f.Name, f.Brand, feeds.NormalizeKey(f.Name, f.Brand), f.Price,
		f.Nutrients.ProteinPct, f.Nutrients.FatPct, f.Nutrients.CarbPct,
		f.Nutrients.CalciumPct, f.Nutrients.PhosphorusPct,
		f.Nutrients.MagnesiumG, f.Nutrients.SodiumG,
		f.IsVerified, f.ReviewCount,
		f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return feeds.ErrNotFound
	}
	return nil
}

func (r *FeedsRepo) GetByID(ctx context.Context, id string) (feeds.Feed, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM feeds WHERE id = $1`, id)
	return scanFeed(row)
}

func (r *FeedsRepo) FindByNameBrand(ctx context.Context, name, brand string) (feeds.Feed, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM feeds WHERE match_key = $1`,
		feeds.NormalizeKey(name, brand),
	)
	return scanFeed(row)
}

func (r *FeedsRepo) List(ctx context.Context, kind feeds.ListKind, userID string, offset, limit int) ([]feeds.Feed, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch kind {
	case feeds.ListMarked:
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+feedColumns+`
			FROM feeds f
			JOIN feed_marks m ON m.feed_id = f.id
			WHERE m.user_id = $1
			ORDER BY f.created_at DESC
			OFFSET $2 LIMIT $3
		`, userID, offset, limit)
	case feeds.ListRecent:
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+feedColumns+`
			FROM feeds
			ORDER BY created_at DESC
			OFFSET $1 LIMIT $2
		`, offset, limit)
	default:
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+feedColumns+`
			FROM feeds
			ORDER BY name ASC
			OFFSET $1 LIMIT $2
		`, offset, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feeds.Feed, 0)
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeedsRepo) Mark(ctx context.Context, userID, feedID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_marks (user_id, feed_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, feed_id) DO NOTHING
	`, userID, feedID)
	return err
}

func (r *FeedsRepo) Unmark(ctx context.Context, userID, feedID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM feed_marks WHERE user_id = $1 AND feed_id = $2`,
		userID, feedID)
	return err
}

func (r *FeedsRepo) IsMarked(ctx context.Context, userID, feedID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM feed_marks WHERE user_id = $1 AND feed_id = $2`,
		userID, feedID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanFeed(row rowScanner) (feeds.Feed, error) {
	var f feeds.Feed
	if err := row.Scan(
		&f.ID, &f.Name, &f.Brand, &f.Price,
		&f.Nutrients.ProteinPct, &f.Nutrients.FatPct, &f.Nutrients.CarbPct,
		&f.Nutrients.CalciumPct, &f.Nutrients.PhosphorusPct,
		&f.Nutrients.MagnesiumG, &f.Nutrients.SodiumG,
		&f.IsVerified, &f.ReviewCount, &f.CreatorUserID,
		&f.FrontImage, &f.NutritionImage,
		&f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return feeds.Feed{}, feeds.ErrNotFound
		}
		return feeds.Feed{}, err
	}
	return f, nil
}
