package service

import (
	"context"
	"fmt"
	"strings"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, operatorID int64) (*models.PublishSettings, error)
	UpdateSettings(ctx context.Context, operatorID int64, su *transfer.SettingsUpdate) (*models.PublishSettings, error)
	// ResolveAccount fills each field of override that is empty from the
	// operator's settings, then from the configured defaults.
	ResolveAccount(ctx context.Context, operatorID int64, override models.AccountContext) (models.AccountContext, error)
}

type settingsService struct {
	sr       repository.SettingsRepository
	defaults models.AccountContext
}

func NewSettingsService(sr repository.SettingsRepository, cfg config.Config) SettingsService {
	return &settingsService{
		sr: sr,
		defaults: models.AccountContext{
			WorkspaceID: cfg.Metricool.WorkspaceID,
			UserID:      cfg.Metricool.UserID,
			BlogID:      cfg.Metricool.BlogID,
		},
	}
}

func (s *settingsService) GetSettingsInfo(ctx context.Context, operatorID int64) (*models.PublishSettings, error) {
	settings, isExist, err := s.sr.GetByOperatorID(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("error getting settings: %w", err)
	}
	if !isExist {
		return nil, models.NewNotFoundError("settings for operator", operatorID)
	}
	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, operatorID int64, su *transfer.SettingsUpdate) (*models.PublishSettings, error) {
	if su == nil {
		return nil, models.NewValidationError("settings data is missing")
	}

	settings := &models.PublishSettings{
		OperatorID:  operatorID,
		WorkspaceID: strings.TrimSpace(su.WorkspaceID),
		UserID:      strings.TrimSpace(su.UserID),
		BlogID:      strings.TrimSpace(su.BlogID),
	}
	if err := s.sr.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}

	logging.GetLogger().Info("publish settings updated", zap.Int64("operator_id", operatorID))
	return settings, nil
}

func (s *settingsService) ResolveAccount(ctx context.Context, operatorID int64, override models.AccountContext) (models.AccountContext, error) {
	account := models.AccountContext{
		WorkspaceID: strings.TrimSpace(override.WorkspaceID),
		UserID:      strings.TrimSpace(override.UserID),
		BlogID:      strings.TrimSpace(override.BlogID),
	}

	if account.WorkspaceID == "" || account.UserID == "" || account.BlogID == "" {
		settings, isExist, err := s.sr.GetByOperatorID(ctx, operatorID)
		if err != nil {
			return models.AccountContext{}, fmt.Errorf("error getting settings: %w", err)
		}
		if isExist {
			account = mergeAccount(account, models.AccountContext{
				WorkspaceID: settings.WorkspaceID,
				UserID:      settings.UserID,
				BlogID:      settings.BlogID,
			})
		}
	}
	account = mergeAccount(account, s.defaults)

	if account.WorkspaceID == "" {
		return models.AccountContext{}, models.NewValidationError("no workspace id in the request, operator settings or configuration")
	}
	return account, nil
}

func mergeAccount(primary, fallback models.AccountContext) models.AccountContext {
	if primary.WorkspaceID == "" {
		primary.WorkspaceID = fallback.WorkspaceID
	}
	if primary.UserID == "" {
		primary.UserID = fallback.UserID
	}
	if primary.BlogID == "" {
		primary.BlogID = fallback.BlogID
	}
	return primary
}
