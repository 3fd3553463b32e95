package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type PublishAttemptRepository interface {
	Create(ctx context.Context, pa *models.PublishAttempt) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error)
}

type publishAttemptRepository struct {
	db *sql.DB
}

func NewPublishAttemptRepository(db *sql.DB) PublishAttemptRepository {
	return &publishAttemptRepository{db: db}
}

func (r *publishAttemptRepository) Create(ctx context.Context, pa *models.PublishAttempt) (int64, error) {
	query := `
		INSERT INTO publish_attempts (operator_id, post_id, channel_id, outcome, degraded_reasons, provider_response, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var response any
	if len(pa.ProviderResponse) > 0 {
		response = []byte(pa.ProviderResponse)
	}
	reasons := pa.DegradedReasons
	if reasons == nil {
		reasons = pq.StringArray{}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, pa.OperatorID, pa.PostID, pa.ChannelID, pa.Outcome,
		reasons, response, pa.ErrorMessage).Scan(&id)
	if err != nil {
		logging.GetLogger().Info("insert publish attempt failed", zap.Error(err))
		return 0, err
	}

	return id, nil
}

// ListByPostID returns attempts oldest first.
func (r *publishAttemptRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error) {
	query := `
		SELECT id, operator_id, post_id, channel_id, outcome, degraded_reasons, provider_response, error_message, created_at
		FROM publish_attempts
		WHERE post_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		logging.GetLogger().Info("list publish attempts failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	attempts := []*models.PublishAttempt{}
	for rows.Next() {
		var pa models.PublishAttempt
		var response []byte
		err := rows.Scan(&pa.ID, &pa.OperatorID, &pa.PostID, &pa.ChannelID, &pa.Outcome,
			&pa.DegradedReasons, &response, &pa.ErrorMessage, &pa.CreatedAt)
		if err != nil {
			logging.GetLogger().Info(err.Error())
			return nil, err
		}
		if len(response) > 0 {
			pa.ProviderResponse = response
		}
		attempts = append(attempts, &pa)
	}
	return attempts, rows.Err()
}
