package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type ResearchRepository interface {
	Create(ctx context.Context, rr *models.ResearchResult) (int64, error)
	ListRecent(ctx context.Context, operatorID int64, limit int) ([]*models.ResearchResult, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

type researchRepository struct {
	db *sql.DB
}

func NewResearchRepository(db *sql.DB) ResearchRepository {
	return &researchRepository{db: db}
}

func (r *researchRepository) Create(ctx context.Context, rr *models.ResearchResult) (int64, error) {
	query := `
		INSERT INTO research_results (operator_id, query, market, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, rr.OperatorID, rr.Query, rr.Market, rr.Result).Scan(&rr.ID, &rr.CreatedAt)
	if err != nil {
		logging.GetLogger().Info("insert research result failed", zap.Error(err))
		return 0, err
	}
	return rr.ID, nil
}

// ListRecent returns the newest entries first.
func (r *researchRepository) ListRecent(ctx context.Context, operatorID int64, limit int) ([]*models.ResearchResult, error) {
	query := `
		SELECT id, operator_id, query, market, result, created_at
		FROM research_results
		WHERE operator_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, operatorID, limit)
	if err != nil {
		logging.GetLogger().Info("list research failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	results := []*models.ResearchResult{}
	for rows.Next() {
		var rr models.ResearchResult
		if err := rows.Scan(&rr.ID, &rr.OperatorID, &rr.Query, &rr.Market, &rr.Result, &rr.CreatedAt); err != nil {
			logging.GetLogger().Info(err.Error())
			return nil, err
		}
		results = append(results, &rr)
	}
	return results, rows.Err()
}

// Prune deletes every entry beyond the newest keep per operator and
// returns how many rows went.
func (r *researchRepository) Prune(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM research_results
		WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY operator_id ORDER BY created_at DESC, id DESC) AS rn
				FROM research_results
			) ranked
			WHERE ranked.rn > $1
		)
	`
	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		logging.GetLogger().Info("prune research failed", zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}
