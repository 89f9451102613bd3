// service/integration_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

// IIntegrationService defines the interface for integration admin operations
type IIntegrationService interface {
	CreateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error)
	UpdateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error)
	GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error)
	ListIntegrations(ctx context.Context, limit int, offset int) ([]*model.Integration, error)
	DeactivateIntegration(ctx context.Context, integrationID string, userID string) error
}

// IntegrationService handles business logic for integration administration
type IntegrationService struct {
	integrationStore IntegrationStore
	validationUtil   *util.ValidationUtil
	cache            IntegrationCache
	notificationSvc  *util.NotificationService
	eventBus         *util.EventBus
}

var _ IIntegrationService = &IntegrationService{}

// NewIntegrationService creates a new instance of IntegrationService
func NewIntegrationService(integrationStore IntegrationStore, validationUtil *util.ValidationUtil, cache IntegrationCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *IntegrationService {
	service := &IntegrationService{
		integrationStore: integrationStore,
		validationUtil:   validationUtil,
		cache:            cache,
		notificationSvc:  notificationSvc,
		eventBus:         eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventIntegrationChange, service.handleIntegrationChanged)

	return service
}

func (s *IntegrationService) handleIntegrationChanged(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	changeType, _ := payload["change"].(string)
	integration, ok := payload["integration"].(model.Integration)
	if !ok {
		return fmt.Errorf("integration not found in event payload")
	}

	logger.Info("Integration changed event received",
		zap.String("integrationID", integration.ID),
		zap.String("change", changeType))

	if err := s.notificationSvc.NotifyIntegrationChange(ctx, changeType, integration); err != nil {
		logger.Warn("Failed to send integration change notification",
			zap.Error(err),
			zap.String("integrationID", integration.ID))
	}
	return nil
}

// CreateIntegration handles the creation of a new integration
func (s *IntegrationService) CreateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error) {
	if err := s.validationUtil.ValidateIntegration(integration); err != nil {
		return nil, fmt.Errorf("invalid integration: %w", err)
	}

	integrationID, err := s.integrationStore.CreateIntegration(ctx, integration, userID)
	if err != nil {
		logger.Error("Error creating integration", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}

	created, err := s.integrationStore.GetIntegration(ctx, integrationID)
	if err != nil {
		logger.Error("Failed to retrieve created integration", zap.Error(err), zap.String("integrationID", integrationID))
		return nil, err
	}

	if err := s.cache.SetIntegration(ctx, *created); err != nil {
		logger.Warn("Failed to cache integration", zap.Error(err), zap.String("integrationID", created.ID))
	}

	s.eventBus.Publish(ctx, util.EventIntegrationChange, map[string]interface{}{
		"change":      "created",
		"integration": *created,
	})

	logger.Info("Integration created successfully",
		zap.String("integrationID", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("userID", userID))
	return created, nil
}

// UpdateIntegration handles integration updates
func (s *IntegrationService) UpdateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error) {
	if err := s.validationUtil.ValidateIntegration(integration); err != nil {
		return nil, fmt.Errorf("invalid integration: %w", err)
	}

	updated, err := s.integrationStore.UpdateIntegration(ctx, integration, userID)
	if err != nil {
		logger.Error("Error updating integration", zap.Error(err), zap.String("integrationID", integration.ID))
		return nil, err
	}

	if err := s.cache.SetIntegration(ctx, *updated); err != nil {
		logger.Warn("Failed to cache integration", zap.Error(err), zap.String("integrationID", updated.ID))
	}

	s.eventBus.Publish(ctx, util.EventIntegrationChange, map[string]interface{}{
		"change":      "updated",
		"integration": *updated,
	})

	logger.Info("Integration updated successfully",
		zap.String("integrationID", updated.ID),
		zap.String("userID", userID))
	return updated, nil
}

// GetIntegration retrieves an integration, serving from cache when possible
func (s *IntegrationService) GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	cached, err := s.cache.GetIntegration(ctx, integrationID)
	if err == nil && cached != nil {
		return cached, nil
	}

	integration, err := s.integrationStore.GetIntegration(ctx, integrationID)
	if err != nil {
		if err == papirai_errors.ErrIntegrationNotFound {
			return nil, err
		}
		logger.Error("Error retrieving integration", zap.Error(err), zap.String("integrationID", integrationID))
		return nil, err
	}

	if err := s.cache.SetIntegration(ctx, *integration); err != nil {
		logger.Warn("Failed to cache integration", zap.Error(err), zap.String("integrationID", integrationID))
	}

	return integration, nil
}

// ListIntegrations retrieves all integrations, possibly with pagination
func (s *IntegrationService) ListIntegrations(ctx context.Context, limit int, offset int) ([]*model.Integration, error) {
	integrations, err := s.integrationStore.ListIntegrations(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing integrations", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	return integrations, nil
}

// DeactivateIntegration marks an integration inactive. Integrations are
// never deleted, their sync history stays queryable.
func (s *IntegrationService) DeactivateIntegration(ctx context.Context, integrationID string, userID string) error {
	integration, err := s.integrationStore.GetIntegration(ctx, integrationID)
	if err != nil {
		return err
	}

	if err := s.integrationStore.SetActive(ctx, integrationID, false, userID); err != nil {
		logger.Error("Error deactivating integration", zap.Error(err), zap.String("integrationID", integrationID))
		return err
	}

	if err := s.cache.DeleteIntegration(ctx, integrationID); err != nil {
		logger.Warn("Failed to invalidate integration cache", zap.Error(err), zap.String("integrationID", integrationID))
	}

	s.eventBus.Publish(ctx, util.EventIntegrationChange, map[string]interface{}{
		"change":      "deactivated",
		"integration": *integration,
	})

	logger.Info("Integration deactivated",
		zap.String("integrationID", integrationID),
		zap.String("userID", userID))
	return nil
}
