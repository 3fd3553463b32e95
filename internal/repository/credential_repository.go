package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type CredentialRepository interface {
	GetByName(ctx context.Context, operatorID int64, name string) (*models.Credential, error)
	ListNames(ctx context.Context, operatorID int64) ([]string, error)
	Upsert(ctx context.Context, cred *models.Credential) (int64, error)
	Remove(ctx context.Context, operatorID int64, name string) (bool, error)
}

type credentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByName(ctx context.Context, operatorID int64, name string) (*models.Credential, error) {
	query := `SELECT id, operator_id, name, secret, created_at, updated_at FROM credentials WHERE operator_id = $1 AND name = $2`

	var cred models.Credential
	err := r.db.QueryRowContext(ctx, query, operatorID, name).Scan(
		&cred.ID, &cred.OperatorID, &cred.Name, &cred.Secret, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logging.GetLogger().Info("get credential failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) ListNames(ctx context.Context, operatorID int64) ([]string, error) {
	query := `SELECT name FROM credentials WHERE operator_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		logging.GetLogger().Info("list credentials failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logging.GetLogger().Info(err.Error())
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Upsert stores the credential, replacing the secret of an existing one
// with the same name.
func (r *credentialRepository) Upsert(ctx context.Context, cred *models.Credential) (int64, error) {
	query := `
		INSERT INTO credentials (operator_id, name, secret)
		VALUES ($1, $2, $3)
		ON CONFLICT (operator_id, name)
		DO UPDATE SET secret = EXCLUDED.secret, updated_at = NOW()
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, cred.OperatorID, cred.Name, cred.Secret).Scan(&id)
	if err != nil {
		logging.GetLogger().Info("upsert credential failed", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *credentialRepository) Remove(ctx context.Context, operatorID int64, name string) (bool, error) {
	query := `DELETE FROM credentials WHERE operator_id = $1 AND name = $2`
	result, err := r.db.ExecContext(ctx, query, operatorID, name)
	if err != nil {
		logging.GetLogger().Info("delete credential failed", zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.GetLogger().Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}
