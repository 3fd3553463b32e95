package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type SettingsRepository interface {
	GetByOperatorID(ctx context.Context, operatorID int64) (*models.PublishSettings, bool, error)
	Upsert(ctx context.Context, s *models.PublishSettings) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByOperatorID(ctx context.Context, operatorID int64) (*models.PublishSettings, bool, error) {
	query := `SELECT id, operator_id, workspace_id, user_id, blog_id, created_at, updated_at FROM publish_settings WHERE operator_id = $1`

	var s models.PublishSettings
	err := r.db.QueryRowContext(ctx, query, operatorID).Scan(
		&s.ID, &s.OperatorID, &s.WorkspaceID, &s.UserID, &s.BlogID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logging.GetLogger().Info("get publish settings failed", zap.Error(err))
		return nil, false, err
	}

	return &s, true, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.PublishSettings) error {
	query := `
		INSERT INTO publish_settings (operator_id, workspace_id, user_id, blog_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (operator_id)
		DO UPDATE SET workspace_id = EXCLUDED.workspace_id,
			user_id = EXCLUDED.user_id,
			blog_id = EXCLUDED.blog_id,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, s.OperatorID, s.WorkspaceID, s.UserID, s.BlogID)
	if err != nil {
		logging.GetLogger().Info("upsert publish settings failed", zap.Error(err))
		return err
	}

	return nil
}
