// dao/integration_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/mehmetNetAx/papirai-sub001/audit"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
	helper_util "github.com/mehmetNetAx/papirai-sub001/util/helper"
)

type IntegrationDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewIntegrationDAO(driver neo4j.Driver, auditService audit.Service) *IntegrationDAO {
	dao := &IntegrationDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the Integration ID
func (dao *IntegrationDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Integration ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_integration_id IF NOT EXISTS
        FOR (i:INTEGRATION) REQUIRE i.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		if err != nil {
			logger.Error("Failed to create unique constraint", zap.Error(err))
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on Integration ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateIntegration creates a new integration node in Neo4j
func (dao *IntegrationDAO) CreateIntegration(ctx context.Context, integration model.Integration, userID string) (string, error) {
	start := time.Now()
	logger.Info("Creating new integration", zap.String("integrationName", integration.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		createQuery := `
            MERGE (i:INTEGRATION {id: $id})
            ON CREATE SET i += $props
            RETURN i.id as id
        `

		configJSON, _ := json.Marshal(integration.Config)
		mappingJSON, _ := json.Marshal(integration.VariableMapping)

		parameters := map[string]interface{}{
			"id": integration.ID,
			"props": map[string]interface{}{
				"companyId":       integration.CompanyID,
				"name":            integration.Name,
				"type":            string(integration.Type),
				"config":          string(configJSON),
				"variableMapping": string(mappingJSON),
				"active":          integration.Active,
				"lastSyncStatus":  "",
				"lastSyncError":   "",
				"createdAt":       time.Now().Format(time.RFC3339),
				"updatedAt":       time.Now().Format(time.RFC3339),
			},
		}
		createResult, err := transaction.Run(createQuery, parameters)
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if createResult.Next() {
			id, found := createResult.Record().Get("id")
			if !found {
				return nil, papirai_errors.ErrInternalServer
			}
			return id, nil
		}
		return nil, papirai_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create integration",
			zap.Error(err),
			zap.String("integrationName", integration.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	integrationID := fmt.Sprintf("%v", result)
	logger.Info("Integration created successfully",
		zap.String("integrationID", integrationID),
		zap.Duration("duration", duration))

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        audit.ActionCreateIntegration,
		ResourceID:    integrationID,
		Success:       true,
		IntegrationID: integrationID,
	}
	if err := dao.AuditService.LogAction(ctx, auditLog); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("integrationID", integrationID))
	}

	return integrationID, nil
}

// UpdateIntegration updates configuration fields of an existing integration.
// Sync-status fields are written only through UpdateSyncStatus.
func (dao *IntegrationDAO) UpdateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {id: $id})
        SET i.name = $name,
            i.type = $type,
            i.config = $config,
            i.variableMapping = $variableMapping,
            i.active = $active,
            i.updatedAt = $updatedAt
        RETURN i.id as id
        `

		configJSON, _ := json.Marshal(integration.Config)
		mappingJSON, _ := json.Marshal(integration.VariableMapping)

		result, err := transaction.Run(query, map[string]interface{}{
			"id":              integration.ID,
			"name":            integration.Name,
			"type":            string(integration.Type),
			"config":          string(configJSON),
			"variableMapping": string(mappingJSON),
			"active":          integration.Active,
			"updatedAt":       time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, papirai_errors.ErrIntegrationNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update integration",
			zap.Error(err),
			zap.String("integrationID", integration.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        audit.ActionUpdateIntegration,
		ResourceID:    integration.ID,
		Success:       true,
		IntegrationID: integration.ID,
	}
	if err := dao.AuditService.LogAction(ctx, auditLog); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("integrationID", integration.ID))
	}

	return dao.GetIntegration(ctx, integration.ID)
}

// GetIntegration retrieves an integration by its ID
func (dao *IntegrationDAO) GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {id: $id})
        RETURN i
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"id": integrationID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, _ := queryResult.Record().Get("i")
			return parseIntegrationNode(node)
		}
		return nil, papirai_errors.ErrIntegrationNotFound
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.Integration), nil
}

// ListIntegrations retrieves integrations with pagination
func (dao *IntegrationDAO) ListIntegrations(ctx context.Context, limit int, offset int) ([]*model.Integration, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION)
        RETURN i
        ORDER BY i.createdAt DESC
        SKIP $offset
        LIMIT $limit
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		return collectIntegrations(queryResult)
	})

	if err != nil {
		logger.Error("Failed to list integrations", zap.Error(err))
		return nil, err
	}

	return result.([]*model.Integration), nil
}

// ListActiveIntegrations retrieves every active integration, for batch sync runs
func (dao *IntegrationDAO) ListActiveIntegrations(ctx context.Context) ([]*model.Integration, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {active: true})
        RETURN i
        ORDER BY i.createdAt
        `
		queryResult, err := transaction.Run(query, nil)
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		return collectIntegrations(queryResult)
	})

	if err != nil {
		logger.Error("Failed to list active integrations", zap.Error(err))
		return nil, err
	}

	return result.([]*model.Integration), nil
}

// FindActiveByCompany returns the single active integration owned by a company
func (dao *IntegrationDAO) FindActiveByCompany(ctx context.Context, companyID string) (*model.Integration, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {companyId: $companyId, active: true})
        RETURN i
        LIMIT 1
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"companyId": companyID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, _ := queryResult.Record().Get("i")
			return parseIntegrationNode(node)
		}
		return nil, papirai_errors.ErrNoActiveIntegration
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.Integration), nil
}

// UpdateSyncStatus writes the sync outcome fields in a single write. This is
// the only write the sync runner performs on an integration record.
func (dao *IntegrationDAO) UpdateSyncStatus(ctx context.Context, integrationID string, syncedAt time.Time, status model.SyncStatus, syncError string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {id: $id})
        SET i.lastSyncAt = $lastSyncAt,
            i.lastSyncStatus = $lastSyncStatus,
            i.lastSyncError = $lastSyncError
        RETURN i.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":             integrationID,
			"lastSyncAt":     syncedAt.Format(time.RFC3339),
			"lastSyncStatus": string(status),
			"lastSyncError":  syncError,
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, papirai_errors.ErrIntegrationNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to update sync status",
			zap.Error(err),
			zap.String("integrationID", integrationID),
			zap.String("status", string(status)))
		return err
	}

	return nil
}

// SetActive toggles the active flag. Integrations are never hard-deleted.
func (dao *IntegrationDAO) SetActive(ctx context.Context, integrationID string, active bool, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (i:INTEGRATION {id: $id})
        SET i.active = $active, i.updatedAt = $updatedAt
        RETURN i.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":        integrationID,
			"active":    active,
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, papirai_errors.ErrIntegrationNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to set integration active flag",
			zap.Error(err),
			zap.String("integrationID", integrationID),
			zap.Bool("active", active))
		return err
	}

	if !active {
		auditLog := audit.AuditLog{
			Timestamp:     time.Now(),
			UserID:        userID,
			Action:        audit.ActionDeactivateIntegration,
			ResourceID:    integrationID,
			Success:       true,
			IntegrationID: integrationID,
		}
		if err := dao.AuditService.LogAction(ctx, auditLog); err != nil {
			logger.Warn("Failed to write audit log", zap.Error(err), zap.String("integrationID", integrationID))
		}
	}

	return nil
}

func collectIntegrations(queryResult neo4j.Result) ([]*model.Integration, error) {
	var integrations []*model.Integration
	for queryResult.Next() {
		node, _ := queryResult.Record().Get("i")
		integration, err := parseIntegrationNode(node)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, integration)
	}
	return integrations, nil
}

func parseIntegrationNode(node interface{}) (*model.Integration, error) {
	n, ok := node.(neo4j.Node)
	if !ok {
		return nil, papirai_errors.ErrInternalServer
	}
	props := n.Props

	integration := &model.Integration{
		ID:             getStringProp(props, "id"),
		CompanyID:      getStringProp(props, "companyId"),
		Name:           getStringProp(props, "name"),
		Type:           model.IntegrationType(getStringProp(props, "type")),
		Active:         getBoolProp(props, "active"),
		LastSyncStatus: model.SyncStatus(getStringProp(props, "lastSyncStatus")),
		LastSyncError:  getStringProp(props, "lastSyncError"),
	}

	if configStr := getStringProp(props, "config"); configStr != "" {
		if err := json.Unmarshal([]byte(configStr), &integration.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal integration config: %w", err)
		}
	}
	if mappingStr := getStringProp(props, "variableMapping"); mappingStr != "" {
		if err := json.Unmarshal([]byte(mappingStr), &integration.VariableMapping); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variable mapping: %w", err)
		}
	}

	integration.CreatedAt = parseTimeProp(props, "createdAt")
	integration.UpdatedAt = parseTimeProp(props, "updatedAt")
	if t := parseTimeProp(props, "lastSyncAt"); !t.IsZero() {
		integration.LastSyncAt = &t
	}

	return integration, nil
}

func getStringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func getBoolProp(props map[string]interface{}, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

// parseTimeProp reads a node timestamp; the neo4j driver may hand the value
// back as an RFC3339 string or a native time.Time.
func parseTimeProp(props map[string]interface{}, key string) time.Time {
	value, ok := props[key]
	if !ok || value == "" {
		return time.Time{}
	}
	t, err := helper_util.ParseNullableTime(value)
	if err != nil || t == nil {
		return time.Time{}
	}
	return *t
}
