// service/sync_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mehmetNetAx/papirai-sub001/audit"
	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/compliance/engine"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

// ISyncService defines the interface for integration sync operations
type ISyncService interface {
	RunAll(ctx context.Context, userID string) (*model.BatchSyncResult, error)
	RunIntegration(ctx context.Context, integrationID string, userID string) (*model.SyncResult, error)
	RunForContract(ctx context.Context, contractID string, userID string) (*model.SyncResult, error)
	TestIntegration(ctx context.Context, integrationID string) (bool, string, error)
}

// SyncService orchestrates compliance sync runs: it fetches external
// records through the integration adapters, evaluates every tracked
// contract variable and persists the resulting checks.
type SyncService struct {
	integrationStore IntegrationStore
	contractStore    ContractStore
	checkStore       ComplianceCheckStore
	factory          AdapterFactory
	evaluator        *engine.ComplianceEvaluator
	cache            IntegrationCache
	locker           ResourceLocker
	keyedMutex       *util.KeyedMutex
	notificationSvc  *util.NotificationService
	eventBus         *util.EventBus
	auditSvc         audit.Service
	workers          int
	fetchTimeout     time.Duration
	lockTTL          time.Duration
}

var _ ISyncService = &SyncService{}

// NewSyncService creates a new instance of SyncService
func NewSyncService(
	integrationStore IntegrationStore,
	contractStore ContractStore,
	checkStore ComplianceCheckStore,
	factory AdapterFactory,
	evaluator *engine.ComplianceEvaluator,
	cache IntegrationCache,
	locker ResourceLocker,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditSvc audit.Service,
	workers int,
	fetchTimeout time.Duration,
	lockTTL time.Duration,
) *SyncService {
	if workers < 1 {
		workers = 1
	}
	return &SyncService{
		integrationStore: integrationStore,
		contractStore:    contractStore,
		checkStore:       checkStore,
		factory:          factory,
		evaluator:        evaluator,
		cache:            cache,
		locker:           locker,
		keyedMutex:       util.NewKeyedMutex(),
		notificationSvc:  notificationSvc,
		eventBus:         eventBus,
		auditSvc:         auditSvc,
		workers:          workers,
		fetchTimeout:     fetchTimeout,
		lockTTL:          lockTTL,
	}
}

// RunAll syncs every active integration. Integrations run in parallel up to
// the configured worker count; one integration failing never stops the
// others, its error is recorded in the batch result instead.
func (s *SyncService) RunAll(ctx context.Context, userID string) (*model.BatchSyncResult, error) {
	integrations, err := s.integrationStore.ListActiveIntegrations(ctx)
	if err != nil {
		logger.Error("Error listing active integrations", zap.Error(err))
		return nil, fmt.Errorf("failed to list active integrations: %w", err)
	}

	batch := &model.BatchSyncResult{
		Total:   len(integrations),
		Results: make([]model.SyncResult, len(integrations)),
	}

	g, gctx := errgroup.WithContext(ctx)

	// Limit concurrency so a large tenant base cannot overwhelm the engine
	semaphore := make(chan struct{}, s.workers)

	for i, integration := range integrations {
		i, integration := i, integration
		g.Go(func() error {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := s.RunIntegration(gctx, integration.ID, userID)
			if err != nil {
				// Failure isolation: record, do not propagate
				batch.Results[i] = model.SyncResult{
					IntegrationID:   integration.ID,
					IntegrationName: integration.Name,
					Status:          model.SyncError,
					Error:           err.Error(),
				}
				logger.Error("Integration sync failed",
					zap.Error(err),
					zap.String("integrationID", integration.ID))
				return nil
			}
			batch.Results[i] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range batch.Results {
		if r.Status == model.SyncSuccess {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}

	logger.Info("Batch sync completed",
		zap.Int("total", batch.Total),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed))
	return batch, nil
}

// RunIntegration syncs one integration across every active contract of its
// company. Concurrent runs of the same integration are rejected with
// ErrSyncInProgress; the outcome is persisted as the integration's last sync
// status in a single write at the end of the run.
func (s *SyncService) RunIntegration(ctx context.Context, integrationID string, userID string) (*model.SyncResult, error) {
	integration, err := s.integrationStore.GetIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	if !integration.Active {
		return nil, papirai_errors.ErrNoActiveIntegration
	}

	if !s.keyedMutex.TryLock(integrationID) {
		return nil, papirai_errors.ErrSyncInProgress
	}
	defer s.keyedMutex.Unlock(integrationID)

	lockName := "sync:" + integrationID
	acquired, err := s.locker.Lock(ctx, lockName, s.lockTTL)
	if err != nil {
		logger.Error("Error acquiring sync lock", zap.Error(err), zap.String("integrationID", integrationID))
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !acquired {
		return nil, papirai_errors.ErrSyncInProgress
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), lockName); err != nil {
			logger.Warn("Failed to release sync lock", zap.Error(err), zap.String("integrationID", integrationID))
		}
	}()

	erpAdapter, err := s.factory.CreateForIntegration(integration)
	if err != nil {
		s.recordFailedRun(ctx, integration.ID, err)
		return nil, err
	}

	contracts, err := s.contractStore.ListActiveContractsByCompany(ctx, integration.CompanyID)
	if err != nil {
		logger.Error("Error listing contracts for sync",
			zap.Error(err),
			zap.String("companyID", integration.CompanyID))
		wrapped := fmt.Errorf("failed to list contracts: %w", err)
		s.recordFailedRun(ctx, integration.ID, wrapped)
		return nil, wrapped
	}

	result := model.SyncResult{
		IntegrationID:   integration.ID,
		IntegrationName: integration.Name,
		StartedAt:       time.Now(),
	}

	var lastErr string
	for _, contract := range contracts {
		created, noTracked, err := s.processContract(ctx, erpAdapter, integration, contract)
		if err != nil {
			// One contract failing never stops the rest of the run
			result.ContractsFailed++
			lastErr = fmt.Sprintf("contract %s: %v", contract.ID, err)
			logger.Error("Contract sync failed",
				zap.Error(err),
				zap.String("integrationID", integration.ID),
				zap.String("contractID", contract.ID))
			continue
		}
		result.ContractsProcessed++
		result.ChecksCreated += created
		if noTracked {
			result.NoTrackedVariables++
		}
	}

	result.Duration = time.Since(result.StartedAt)
	result.Status = model.SyncSuccess
	if result.ContractsFailed > 0 {
		result.Status = model.SyncError
		result.Error = lastErr
	}

	if err := s.integrationStore.UpdateSyncStatus(ctx, integration.ID, result.StartedAt, result.Status, result.Error); err != nil {
		logger.Error("Failed to persist sync status",
			zap.Error(err),
			zap.String("integrationID", integration.ID))
		return nil, fmt.Errorf("failed to update sync status: %w", err)
	}
	if err := s.cache.DeleteIntegration(ctx, integration.ID); err != nil {
		logger.Warn("Failed to invalidate integration cache", zap.Error(err), zap.String("integrationID", integration.ID))
	}

	s.eventBus.Publish(ctx, util.EventSyncCompleted, result)
	if err := s.notificationSvc.NotifySyncCompleted(ctx, result); err != nil {
		logger.Warn("Failed to send sync notification", zap.Error(err), zap.String("integrationID", integration.ID))
	}
	s.logSyncAudit(ctx, userID, integration.ID, result)

	logger.Info("Integration sync completed",
		zap.String("integrationID", integration.ID),
		zap.String("status", string(result.Status)),
		zap.Int("contractsProcessed", result.ContractsProcessed),
		zap.Int("contractsFailed", result.ContractsFailed),
		zap.Int("checksCreated", result.ChecksCreated),
		zap.Duration("duration", result.Duration))
	return &result, nil
}

// RunForContract syncs a single contract on demand through its company's
// active integration. It leaves the integration's last-sync bookkeeping
// untouched: that reflects full runs only.
func (s *SyncService) RunForContract(ctx context.Context, contractID string, userID string) (*model.SyncResult, error) {
	contract, err := s.contractStore.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	integration, err := s.integrationStore.FindActiveByCompany(ctx, contract.CompanyID)
	if err != nil {
		return nil, err
	}

	erpAdapter, err := s.factory.CreateForIntegration(integration)
	if err != nil {
		return nil, err
	}

	result := model.SyncResult{
		IntegrationID:   integration.ID,
		IntegrationName: integration.Name,
		StartedAt:       time.Now(),
	}

	created, noTracked, err := s.processContract(ctx, erpAdapter, integration, contract)
	if err != nil {
		return nil, err
	}
	result.ContractsProcessed = 1
	result.ChecksCreated = created
	if noTracked {
		result.NoTrackedVariables = 1
	}
	result.Status = model.SyncSuccess
	result.Duration = time.Since(result.StartedAt)

	s.logSyncAudit(ctx, userID, integration.ID, result)

	logger.Info("Contract sync completed",
		zap.String("contractID", contractID),
		zap.String("integrationID", integration.ID),
		zap.Int("checksCreated", created))
	return &result, nil
}

// TestIntegration probes the integration's connection without running a sync.
func (s *SyncService) TestIntegration(ctx context.Context, integrationID string) (bool, string, error) {
	integration, err := s.integrationStore.GetIntegration(ctx, integrationID)
	if err != nil {
		return false, "", err
	}

	erpAdapter, err := s.factory.CreateForIntegration(integration)
	if err != nil {
		return false, "", err
	}

	ok, message := erpAdapter.TestConnection(ctx)
	return ok, message, nil
}

// processContract fetches the external record for one contract, evaluates
// every tracked variable and persists the checks. A contract with no tracked
// variables is reported as such and produces no checks. Tracked variables
// absent from the external record still get a check, recorded as pending.
func (s *SyncService) processContract(ctx context.Context, erpAdapter adapter.ERPAdapter, integration *model.Integration, contract *model.Contract) (int, bool, error) {
	tracked := contract.TrackedVariables()
	if len(tracked) == 0 {
		return 0, true, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	record, err := erpAdapter.FetchData(fetchCtx, contract.ID, tracked)
	if err != nil {
		return 0, false, err
	}

	extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
	if err != nil {
		return 0, false, err
	}

	actuals := make(map[string]adapter.ExtractedValue, len(extracted))
	for _, ev := range extracted {
		actuals[ev.VariableName] = ev
	}

	snapshot, err := json.Marshal(record)
	if err != nil {
		snapshot = nil
	}

	created := 0
	for _, variable := range tracked {
		var actualRaw interface{}
		if ev, ok := actuals[variable.Name]; ok {
			actualRaw = ev.RawValue
		}

		check := s.evaluator.Evaluate(variable.Value, actualRaw, variable.Type)
		check.ContractID = contract.ID
		check.VariableID = variable.ID
		check.VariableName = variable.Name
		check.Source = erpAdapter.SourceType()
		check.RawSnapshot = snapshot

		if _, err := s.checkStore.CreateCheck(ctx, check); err != nil {
			return created, false, fmt.Errorf("failed to persist check for variable %s: %w", variable.Name, err)
		}
		created++

		if check.Status == model.StatusWarning || check.Status == model.StatusNonCompliant {
			s.eventBus.Publish(ctx, util.EventComplianceAlert, check)
			if err := s.notificationSvc.NotifyComplianceAlert(ctx, check); err != nil {
				logger.Warn("Failed to send compliance alert",
					zap.Error(err),
					zap.String("contractID", contract.ID),
					zap.String("variableName", variable.Name))
			}
		}
	}

	return created, false, nil
}

// recordFailedRun persists an error sync status for a run that failed after
// the lock was acquired but before any contract was processed, so the
// integration record reflects the degraded state instead of keeping its stale
// last-sync fields.
func (s *SyncService) recordFailedRun(ctx context.Context, integrationID string, runErr error) {
	if err := s.integrationStore.UpdateSyncStatus(ctx, integrationID, time.Now(), model.SyncError, runErr.Error()); err != nil {
		logger.Error("Failed to persist sync status",
			zap.Error(err),
			zap.String("integrationID", integrationID))
	}
	if err := s.cache.DeleteIntegration(ctx, integrationID); err != nil {
		logger.Warn("Failed to invalidate integration cache", zap.Error(err), zap.String("integrationID", integrationID))
	}
}

func (s *SyncService) logSyncAudit(ctx context.Context, userID, integrationID string, result model.SyncResult) {
	details, _ := json.Marshal(map[string]interface{}{
		"status":             result.Status,
		"contractsProcessed": result.ContractsProcessed,
		"contractsFailed":    result.ContractsFailed,
		"checksCreated":      result.ChecksCreated,
	})
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        audit.ActionRunSync,
		ResourceID:    integrationID,
		Success:       result.Status == model.SyncSuccess,
		IntegrationID: integrationID,
		ChangeDetails: details,
	}
	if err := s.auditSvc.LogAction(ctx, auditLog); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("integrationID", integrationID))
	}
}
