// service/master_variable_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mehmetNetAx/papirai-sub001/compliance/engine"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

// IMasterVariableService defines the interface for master variable operations
type IMasterVariableService interface {
	SetMasterVariable(ctx context.Context, mv model.MasterVariable, userID string) (*model.MasterVariable, error)
	UnsetMasterVariable(ctx context.Context, contractID string, masterType model.MasterType, userID string) error
	ListMasterVariables(ctx context.Context, contractID string) ([]*model.MasterVariable, error)
	ContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error)
}

// dateBearingTypes are the master types the deadline monitor classifies.
var dateBearingTypes = []model.MasterType{
	model.MasterEndDate,
	model.MasterTerminationDeadline,
	model.MasterRenewalDate,
}

// MasterVariableService manages master variables and the contract deadline
// monitor built on them. The termination deadline is derived from the end
// date and the termination period and is recomputed whenever either input
// changes; it can never be set or unset directly.
type MasterVariableService struct {
	masterStore    MasterVariableStore
	contractStore  ContractStore
	validationUtil *util.ValidationUtil
	cache          DateStatusCache
	warningDays    int
	criticalDays   int
	statusCacheTTL time.Duration
}

var _ IMasterVariableService = &MasterVariableService{}

// NewMasterVariableService creates a new instance of MasterVariableService
func NewMasterVariableService(masterStore MasterVariableStore, contractStore ContractStore, validationUtil *util.ValidationUtil, cache DateStatusCache, warningDays, criticalDays int, statusCacheTTL time.Duration) *MasterVariableService {
	if warningDays <= 0 {
		warningDays = engine.DefaultWarningDays
	}
	if criticalDays <= 0 {
		criticalDays = engine.DefaultCriticalDays
	}
	return &MasterVariableService{
		masterStore:    masterStore,
		contractStore:  contractStore,
		validationUtil: validationUtil,
		cache:          cache,
		warningDays:    warningDays,
		criticalDays:   criticalDays,
		statusCacheTTL: statusCacheTTL,
	}
}

// SetMasterVariable creates or replaces a master variable on a contract.
func (s *MasterVariableService) SetMasterVariable(ctx context.Context, mv model.MasterVariable, userID string) (*model.MasterVariable, error) {
	if !mv.MasterType.Valid() {
		return nil, papirai_errors.ErrInvalidMasterType
	}
	if mv.MasterType == model.MasterTerminationDeadline {
		return nil, papirai_errors.ErrDerivedFieldImmutable
	}
	if err := s.validationUtil.ValidateMasterVariable(mv); err != nil {
		return nil, fmt.Errorf("invalid master variable: %w", err)
	}
	if _, err := s.contractStore.GetContract(ctx, mv.ContractID); err != nil {
		return nil, err
	}

	saved, err := s.masterStore.UpsertMasterVariable(ctx, mv, userID)
	if err != nil {
		logger.Error("Error setting master variable",
			zap.Error(err),
			zap.String("contractID", mv.ContractID),
			zap.String("masterType", string(mv.MasterType)))
		return nil, err
	}

	if mv.MasterType == model.MasterEndDate || mv.MasterType == model.MasterTerminationPeriod {
		if err := s.recomputeTerminationDeadline(ctx, mv.ContractID, userID); err != nil {
			logger.Error("Failed to recompute termination deadline",
				zap.Error(err),
				zap.String("contractID", mv.ContractID))
			return nil, err
		}
	}

	s.invalidateDateStatus(ctx, mv.ContractID)

	logger.Info("Master variable set",
		zap.String("contractID", saved.ContractID),
		zap.String("masterType", string(saved.MasterType)),
		zap.String("userID", userID))
	return saved, nil
}

// UnsetMasterVariable removes a master variable from a contract.
func (s *MasterVariableService) UnsetMasterVariable(ctx context.Context, contractID string, masterType model.MasterType, userID string) error {
	if !masterType.Valid() {
		return papirai_errors.ErrInvalidMasterType
	}
	if masterType == model.MasterTerminationDeadline {
		return papirai_errors.ErrDerivedFieldImmutable
	}

	if err := s.masterStore.DeleteByMasterType(ctx, contractID, masterType, userID); err != nil {
		if !errors.Is(err, papirai_errors.ErrMasterVariableNotFound) {
			logger.Error("Error unsetting master variable",
				zap.Error(err),
				zap.String("contractID", contractID),
				zap.String("masterType", string(masterType)))
		}
		return err
	}

	if masterType == model.MasterEndDate || masterType == model.MasterTerminationPeriod {
		if err := s.recomputeTerminationDeadline(ctx, contractID, userID); err != nil {
			logger.Error("Failed to recompute termination deadline",
				zap.Error(err),
				zap.String("contractID", contractID))
			return err
		}
	}

	s.invalidateDateStatus(ctx, contractID)

	logger.Info("Master variable unset",
		zap.String("contractID", contractID),
		zap.String("masterType", string(masterType)),
		zap.String("userID", userID))
	return nil
}

// ListMasterVariables returns every active master variable of a contract
func (s *MasterVariableService) ListMasterVariables(ctx context.Context, contractID string) ([]*model.MasterVariable, error) {
	variables, err := s.masterStore.ListByContract(ctx, contractID)
	if err != nil {
		logger.Error("Error listing master variables", zap.Error(err), zap.String("contractID", contractID))
		return nil, fmt.Errorf("failed to list master variables: %w", err)
	}
	return variables, nil
}

// ContractDateStatus classifies every date-bearing master variable of a
// contract against the configured thresholds and rolls the results up to the
// most urgent status.
func (s *MasterVariableService) ContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error) {
	if cached, err := s.cache.GetContractDateStatus(ctx, contractID); err == nil && cached != nil {
		return cached, nil
	}

	variables, err := s.masterStore.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.MasterType]*model.MasterVariable, len(variables))
	for _, mv := range variables {
		byType[mv.MasterType] = mv
	}

	now := time.Now()
	status := &model.ContractDateStatus{
		ContractID: contractID,
		Overall:    model.DateNormal,
	}

	for _, masterType := range dateBearingTypes {
		mv, ok := byType[masterType]
		if !ok {
			continue
		}
		value := engine.Normalize(mv.Value, model.VariableDate)
		if !value.Valid {
			logger.Warn("Master variable holds unparsable date",
				zap.String("contractID", contractID),
				zap.String("masterType", string(masterType)),
				zap.String("value", mv.Value))
			continue
		}
		result := engine.ClassifyDate(value.Time, now, s.warningDays, s.criticalDays)
		result.MasterType = masterType
		status.Dates = append(status.Dates, result)
	}

	status.Overall = engine.WorstDateStatus(status.Dates)

	if err := s.cache.SetContractDateStatus(ctx, *status, s.statusCacheTTL); err != nil {
		logger.Warn("Failed to cache contract date status", zap.Error(err), zap.String("contractID", contractID))
	}

	return status, nil
}

// recomputeTerminationDeadline rewrites the derived deadline from the
// current end date and termination period. When either input is missing the
// derived variable is removed.
func (s *MasterVariableService) recomputeTerminationDeadline(ctx context.Context, contractID, userID string) error {
	endDate, endErr := s.masterStore.GetByMasterType(ctx, contractID, model.MasterEndDate)
	period, periodErr := s.masterStore.GetByMasterType(ctx, contractID, model.MasterTerminationPeriod)

	if errors.Is(endErr, papirai_errors.ErrMasterVariableNotFound) || errors.Is(periodErr, papirai_errors.ErrMasterVariableNotFound) {
		err := s.masterStore.DeleteByMasterType(ctx, contractID, model.MasterTerminationDeadline, userID)
		if err != nil && !errors.Is(err, papirai_errors.ErrMasterVariableNotFound) {
			return err
		}
		return nil
	}
	if endErr != nil {
		return endErr
	}
	if periodErr != nil {
		return periodErr
	}

	endValue := engine.Normalize(endDate.Value, model.VariableDate)
	if !endValue.Valid {
		return fmt.Errorf("end date %q is not a parsable date: %w", endDate.Value, papirai_errors.ErrInvalidVariableData)
	}
	periodDays, err := strconv.Atoi(period.Value)
	if err != nil {
		return fmt.Errorf("termination period %q is not a whole number of days: %w", period.Value, papirai_errors.ErrInvalidVariableData)
	}

	deadline := endValue.Time.AddDate(0, 0, -periodDays)

	_, err = s.masterStore.UpsertMasterVariable(ctx, model.MasterVariable{
		ContractID: contractID,
		MasterType: model.MasterTerminationDeadline,
		Name:       "terminationDeadline",
		Type:       model.VariableDate,
		Value:      deadline.Format("2006-01-02"),
	}, userID)
	return err
}

func (s *MasterVariableService) invalidateDateStatus(ctx context.Context, contractID string) {
	if err := s.cache.DeleteContractDateStatus(ctx, contractID); err != nil {
		logger.Warn("Failed to invalidate date status cache", zap.Error(err), zap.String("contractID", contractID))
	}
}
