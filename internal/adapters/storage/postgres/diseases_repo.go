package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"pet-care-platform/internal/domain/diseases"
	"pet-care-platform/internal/domain/pets"
)

type DiseasesRepo struct {
	db *sql.DB
}

func NewDiseasesRepo(db *sql.DB) *DiseasesRepo {
	return &DiseasesRepo{db: db}
}

func (r *DiseasesRepo) Create(ctx context.Context, a diseases.Archive) error {
	symptoms, err := json.Marshal(a.Symptoms)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO disease_archives (
			id, author_user_id, title, species, symptoms, body,
			comment_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.AuthorUserID, a.Title, string(a.Species), string(symptoms), a.Body,
		a.CommentCount, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *DiseasesRepo) GetByID(ctx context.Context, id string) (diseases.Archive, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, author_user_id, title, species, symptoms, body, comment_count, created_at, updated_at
		FROM disease_archives WHERE id = $1
	`, id)
	return scanArchive(row)
}

func (r *DiseasesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM disease_archives WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return diseases.ErrNotFound
	}
	return nil
}

func (r *DiseasesRepo) List(ctx context.Context, f diseases.ListFilter) ([]diseases.Archive, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, author_user_id, title, species, symptoms, body, comment_count, created_at, updated_at
		FROM disease_archives
		WHERE ($1 = '' OR species = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`, string(f.Species), f.Query, f.Offset, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]diseases.Archive, 0)
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *DiseasesRepo) CreateComment(ctx context.Context, c diseases.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO disease_comments (id, archive_id, author_user_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.ArchiveID, c.AuthorUserID, c.Body, c.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE disease_archives SET comment_count = comment_count + 1 WHERE id = $1`,
		c.ArchiveID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *DiseasesRepo) ListComments(ctx context.Context, archiveID string) ([]diseases.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, archive_id, author_user_id, body, created_at
		FROM disease_comments
		WHERE archive_id = $1
		ORDER BY created_at ASC
	`, archiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]diseases.Comment, 0)
	for rows.Next() {
		var c diseases.Comment
		if err := rows.Scan(&c.ID, &c.ArchiveID, &c.AuthorUserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanArchive(row rowScanner) (diseases.Archive, error) {
	var a diseases.Archive
	var species, symptoms string
	if err := row.Scan(&a.ID, &a.AuthorUserID, &a.Title, &species, &symptoms, &a.Body,
		&a.CommentCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return diseases.Archive{}, diseases.ErrNotFound
		}
		return diseases.Archive{}, err
	}
	a.Species = pets.Species(species)
	if symptoms != "" {
		_ = json.Unmarshal([]byte(symptoms), &a.Symptoms)
	}
	return a, nil
}
