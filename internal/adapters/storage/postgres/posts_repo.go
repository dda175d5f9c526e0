package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"pet-care-platform/internal/domain/posts"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_user_id, body, images, like_count, comment_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.AuthorUserID, p.Body, string(images), p.LikeCount, p.CommentCount, p.CreatedAt)
	return err
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, author_user_id, body, images, like_count, comment_count, created_at
		FROM posts WHERE id = $1
	`, id)
	return scanPost(row)
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) List(ctx context.Context, offset, limit int) ([]posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, author_user_id, body, images, like_count, comment_count, created_at
		FROM posts
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostsRepo) SetLike(ctx context.Context, userID, postID string, liked bool) (bool, error) {
	return r.setEdge(ctx, "post_likes", "like_count", userID, postID, liked)
}

func (r *PostsRepo) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM post_likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostsRepo) SetSave(ctx context.Context, userID, postID string, saved bool) (bool, error) {
	return r.setEdge(ctx, "post_saves", "", userID, postID, saved)
}

// setEdge inserta/borra la arista (user, post) y mantiene el contador
// denormalizado si countCol no es vacío. Todo en una transacción.
func (r *PostsRepo) setEdge(ctx context.Context, table, countCol, userID, postID string, on bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if on {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO `+table+` (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, post_id) DO NOTHING
		`, userID, postID)
	} else {
		res, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE user_id = $1 AND post_id = $2`,
			userID, postID)
	}
	if err != nil {
		return false, err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}

	if countCol != "" {
		delta := "+ 1"
		if !on {
			delta = "- 1"
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET `+countCol+` = GREATEST(`+countCol+` `+delta+`, 0)
			WHERE id = $1
		`, postID); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

func (r *PostsRepo) CreateComment(ctx context.Context, c posts.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO post_comments (id, post_id, author_user_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.PostID, c.AuthorUserID, c.Body, c.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`,
		c.PostID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostsRepo) ListComments(ctx context.Context, postID string) ([]posts.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, post_id, author_user_id, body, created_at
		FROM post_comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.Comment, 0)
	for rows.Next() {
		var c posts.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorUserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostsRepo) SetFollow(ctx context.Context, f posts.Follow, following bool) error {
	if following {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO follows (follower_user_id, followee_user_id, created_at)
			VALUES ($1,$2,$3)
			ON CONFLICT (follower_user_id, followee_user_id) DO NOTHING
		`, f.FollowerUserID, f.FolloweeUserID, f.CreatedAt)
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_user_id = $1 AND followee_user_id = $2`,
		f.FollowerUserID, f.FolloweeUserID)
	return err
}

func (r *PostsRepo) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return r.listEdge(ctx,
		`SELECT follower_user_id FROM follows WHERE followee_user_id = $1 ORDER BY follower_user_id`,
		userID)
}

func (r *PostsRepo) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return r.listEdge(ctx,
		`SELECT followee_user_id FROM follows WHERE follower_user_id = $1 ORDER BY followee_user_id`,
		userID)
}

func (r *PostsRepo) listEdge(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanPost(row rowScanner) (posts.Post, error) {
	var p posts.Post
	var images string
	if err := row.Scan(&p.ID, &p.AuthorUserID, &p.Body, &images, &p.LikeCount, &p.CommentCount, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posts.Post{}, posts.ErrNotFound
		}
		return posts.Post{}, err
	}
	if images != "" {
		_ = json.Unmarshal([]byte(images), &p.Images)
	}
	return p, nil
}
