// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyIntegrationChange(ctx context.Context, changeType string, integration model.Integration) error {
	// In a real implementation, you might send this to a message queue or external notification service
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New integration created",
			zap.String("integrationID", integration.ID),
			zap.String("integrationName", integration.Name))
	case "updated":
		logger.Info("NOTIFICATION: Integration updated",
			zap.String("integrationID", integration.ID),
			zap.String("integrationName", integration.Name))
	case "deactivated":
		logger.Info("NOTIFICATION: Integration deactivated",
			zap.String("integrationID", integration.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

// NotifyComplianceAlert surfaces a non-compliant check to the contract
// owners. Only warning and above reach this path.
func (n *NotificationService) NotifyComplianceAlert(ctx context.Context, check model.ComplianceCheck) error {
	logger.Info("NOTIFICATION: Compliance alert",
		zap.String("contractID", check.ContractID),
		zap.String("variableName", check.VariableName),
		zap.String("status", string(check.Status)),
		zap.String("alertLevel", string(check.AlertLevel)))
	return nil
}

func (n *NotificationService) NotifySyncCompleted(ctx context.Context, result model.SyncResult) error {
	logger.Info("NOTIFICATION: Sync completed",
		zap.String("integrationID", result.IntegrationID),
		zap.String("status", string(result.Status)),
		zap.Int("contractsProcessed", result.ContractsProcessed),
		zap.Int("checksCreated", result.ChecksCreated))
	return nil
}

func (n *NotificationService) NotifyDeadlineStatus(ctx context.Context, status model.ContractDateStatus) error {
	logger.Info("NOTIFICATION: Contract deadline status",
		zap.String("contractID", status.ContractID),
		zap.String("overall", string(status.Overall)))
	return nil
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	// Mock email sending
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))

	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
