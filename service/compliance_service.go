// service/compliance_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// IComplianceService defines the interface for compliance history queries
type IComplianceService interface {
	GetLatestCheck(ctx context.Context, contractID, variableID string) (*model.ComplianceCheck, error)
	ListChecksForContract(ctx context.Context, contractID string, limit int, offset int) ([]*model.ComplianceCheck, error)
	ListLatestForContract(ctx context.Context, contractID string) ([]*model.ComplianceCheck, error)
}

// ComplianceService serves the append-only check history. Checks are written
// exclusively by the sync runner; this service only reads.
type ComplianceService struct {
	checkStore ComplianceCheckStore
}

var _ IComplianceService = &ComplianceService{}

func NewComplianceService(checkStore ComplianceCheckStore) *ComplianceService {
	return &ComplianceService{checkStore: checkStore}
}

// GetLatestCheck returns the most recent check for a (contract, variable)
// pair.
func (s *ComplianceService) GetLatestCheck(ctx context.Context, contractID, variableID string) (*model.ComplianceCheck, error) {
	check, err := s.checkStore.GetLatestCheck(ctx, contractID, variableID)
	if err != nil {
		return nil, err
	}
	return check, nil
}

// ListChecksForContract pages through a contract's full check history,
// newest first.
func (s *ComplianceService) ListChecksForContract(ctx context.Context, contractID string, limit int, offset int) ([]*model.ComplianceCheck, error) {
	checks, err := s.checkStore.ListChecksForContract(ctx, contractID, limit, offset)
	if err != nil {
		logger.Error("Error listing compliance checks", zap.Error(err), zap.String("contractID", contractID))
		return nil, fmt.Errorf("failed to list compliance checks: %w", err)
	}
	return checks, nil
}

// ListLatestForContract returns the current compliance snapshot of a
// contract: the most recent check per tracked variable.
func (s *ComplianceService) ListLatestForContract(ctx context.Context, contractID string) ([]*model.ComplianceCheck, error) {
	checks, err := s.checkStore.ListLatestForContract(ctx, contractID)
	if err != nil {
		logger.Error("Error listing latest compliance checks", zap.Error(err), zap.String("contractID", contractID))
		return nil, fmt.Errorf("failed to list latest compliance checks: %w", err)
	}
	return checks, nil
}
