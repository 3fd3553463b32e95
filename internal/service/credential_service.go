package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/maheshrc27/postgate/pkg/utils"
	"go.uber.org/zap"
)

// CredentialStore holds an operator's named provider keys. Get reports an
// absent name with ok=false, not an error.
type CredentialStore interface {
	Get(ctx context.Context, operatorID int64, name string) (secret string, ok bool, err error)
	Set(ctx context.Context, operatorID int64, name, secret string) error
	Delete(ctx context.Context, operatorID int64, name string) error
	List(ctx context.Context, operatorID int64) ([]string, error)
}

type credentialService struct {
	cr  repository.CredentialRepository
	key []byte
}

func NewCredentialService(cr repository.CredentialRepository, secretKey string) CredentialStore {
	return &credentialService{
		cr:  cr,
		key: []byte(secretKey),
	}
}

func (s *credentialService) Get(ctx context.Context, operatorID int64, name string) (string, bool, error) {
	cred, err := s.cr.GetByName(ctx, operatorID, name)
	if err != nil {
		return "", false, fmt.Errorf("error getting credential %q: %w", name, err)
	}
	if cred == nil {
		return "", false, nil
	}

	secret, err := utils.DecryptSecret(cred.Secret, s.key)
	if err != nil {
		return "", false, fmt.Errorf("error decrypting credential %q: %w", name, err)
	}
	return secret, true, nil
}

func (s *credentialService) Set(ctx context.Context, operatorID int64, name, secret string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("credential name cannot be empty")
	}
	if strings.TrimSpace(secret) == "" {
		return models.NewValidationError("credential key cannot be empty")
	}

	sealed, err := utils.EncryptSecret(secret, s.key)
	if err != nil {
		return fmt.Errorf("error encrypting credential: %w", err)
	}

	_, err = s.cr.Upsert(ctx, &models.Credential{
		OperatorID: operatorID,
		Name:       name,
		Secret:     sealed,
	})
	if err != nil {
		return fmt.Errorf("error saving credential: %w", err)
	}

	logging.GetLogger().Info("credential saved", zap.Int64("operator_id", operatorID), zap.String("name", name))
	return nil
}

func (s *credentialService) Delete(ctx context.Context, operatorID int64, name string) error {
	removed, err := s.cr.Remove(ctx, operatorID, name)
	if err != nil {
		return fmt.Errorf("error removing credential: %w", err)
	}
	if !removed {
		return models.NewNotFoundError("credential", name)
	}
	return nil
}

func (s *credentialService) List(ctx context.Context, operatorID int64) ([]string, error) {
	names, err := s.cr.ListNames(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}
	return names, nil
}
