package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	ListByOperatorID(ctx context.Context, operatorID int64, status string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (bool, error)
	UpdatePostStatus(ctx context.Context, status string, postID int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, operator_id, content, hashtags, media_urls, platforms, status, scheduled_time, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var scheduled sql.NullTime
	err := row.Scan(&post.ID, &post.OperatorID, &post.Content, &post.Hashtags, &post.MediaURLs,
		&post.Platforms, &post.Status, &scheduled, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if scheduled.Valid {
		t := scheduled.Time
		post.ScheduledTime = &t
	}
	normalizeArrays(&post)
	return &post, nil
}

func normalizeArrays(post *models.Post) {
	if post.Hashtags == nil {
		post.Hashtags = pq.StringArray{}
	}
	if post.MediaURLs == nil {
		post.MediaURLs = pq.StringArray{}
	}
	if post.Platforms == nil {
		post.Platforms = pq.StringArray{}
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (operator_id, content, hashtags, media_urls, platforms, status, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	normalizeArrays(post)
	args := []any{post.OperatorID, post.Content, post.Hashtags, post.MediaURLs, post.Platforms, post.Status, nullTime(post.ScheduledTime)}

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, args...)
	} else {
		row = r.db.QueryRowContext(ctx, query, args...)
	}

	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		logging.GetLogger().Info("insert post failed", zap.Error(err))
		return 0, err
	}

	return post.ID, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logging.GetLogger().Info("get post failed", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}

	return post, nil
}

// ListByOperatorID returns the operator's posts in creation order. An empty
// status lists every post.
func (r *postRepository) ListByOperatorID(ctx context.Context, operatorID int64, status string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE operator_id = $1 AND ($2 = '' OR status = $2) ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, operatorID, status)
	if err != nil {
		logging.GetLogger().Info("list posts failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			logging.GetLogger().Info("scan post failed", zap.Error(err))
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		logging.GetLogger().Info("iterate posts failed", zap.Error(err))
		return nil, err
	}

	return posts, nil
}

// Update rewrites the editable fields of a pending post. It reports false
// when the post no longer exists or has left the pending state.
func (r *postRepository) Update(ctx context.Context, post *models.Post) (bool, error) {
	query := `
		UPDATE posts
		SET content = $1,
			hashtags = $2,
			media_urls = $3,
			platforms = $4,
			scheduled_time = $5,
			updated_at = $6
		WHERE id = $7 AND status = $8
	`

	normalizeArrays(post)
	result, err := r.db.ExecContext(ctx, query, post.Content, post.Hashtags, post.MediaURLs, post.Platforms,
		nullTime(post.ScheduledTime), time.Now(), post.ID, models.PostStatusPending)
	if err != nil {
		logging.GetLogger().Info("update post failed", zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.GetLogger().Info(err.Error())
		return false, err
	}

	return affected > 0, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status string, postID int64) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		logging.GetLogger().Info("update post status failed", zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.GetLogger().Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logging.GetLogger().Info("delete post failed", zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.GetLogger().Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}
