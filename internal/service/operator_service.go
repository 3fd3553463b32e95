package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type OperatorService interface {
	GetOperatorInfo(ctx context.Context, id int64) (*models.Operator, error)
	// EnsureOperator returns the operator with the given email, creating
	// it on first use.
	EnsureOperator(ctx context.Context, email, name string) (*models.Operator, error)
}

type operatorService struct {
	or repository.OperatorRepository
}

func NewOperatorService(or repository.OperatorRepository) OperatorService {
	return &operatorService{
		or: or,
	}
}

func (s *operatorService) GetOperatorInfo(ctx context.Context, id int64) (*models.Operator, error) {
	op, isExist, err := s.or.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting operator info: %w", err)
	}
	if !isExist {
		return nil, models.NewNotFoundError("operator", id)
	}
	return op, nil
}

func (s *operatorService) EnsureOperator(ctx context.Context, email, name string) (*models.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError(fmt.Sprintf("%q is not a valid email address", email))
	}

	op, isExist, err := s.or.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting operator: %w", err)
	}
	if isExist {
		return op, nil
	}

	op = &models.Operator{Email: email, Name: strings.TrimSpace(name)}
	if _, err := s.or.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("error creating operator: %w", err)
	}

	logging.GetLogger().Info("operator created", zap.Int64("operator_id", op.ID))
	return op, nil
}
