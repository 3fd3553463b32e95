package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type OperatorRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Operator, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.Operator, bool, error)
	Create(ctx context.Context, op *models.Operator) (int64, error)
}

type operatorRepository struct {
	db *sql.DB
}

func NewOperatorRepository(db *sql.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) GetByID(ctx context.Context, id int64) (*models.Operator, bool, error) {
	return r.getOne(ctx, "SELECT id, email, name, created_at, updated_at FROM operators WHERE id = $1", id)
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*models.Operator, bool, error) {
	return r.getOne(ctx, "SELECT id, email, name, created_at, updated_at FROM operators WHERE email = $1", email)
}

func (r *operatorRepository) getOne(ctx context.Context, query string, arg any) (*models.Operator, bool, error) {
	var op models.Operator
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&op.ID, &op.Email, &op.Name, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logging.GetLogger().Info("get operator failed", zap.Error(err))
		return nil, false, err
	}
	return &op, true, nil
}

func (r *operatorRepository) Create(ctx context.Context, op *models.Operator) (int64, error) {
	query := "INSERT INTO operators (email, name) VALUES ($1, $2) RETURNING id"

	var id int64
	if err := r.db.QueryRowContext(ctx, query, op.Email, op.Name).Scan(&id); err != nil {
		logging.GetLogger().Info("insert operator failed", zap.Error(err))
		return 0, err
	}
	op.ID = id
	return id, nil
}
