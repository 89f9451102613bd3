// dao/master_variable_dao.go
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/mehmetNetAx/papirai-sub001/audit"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

type MasterVariableDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewMasterVariableDAO(driver neo4j.Driver, auditService audit.Service) *MasterVariableDAO {
	return &MasterVariableDAO{Driver: driver, AuditService: auditService}
}

// UpsertMasterVariable creates or replaces the active master variable for a
// (contract, masterType) pair. MasterOther repeats under distinct names, so
// its merge key includes the name.
func (dao *MasterVariableDAO) UpsertMasterVariable(ctx context.Context, mv model.MasterVariable, userID string) (*model.MasterVariable, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if mv.ID == "" {
		mv.ID = uuid.New().String()
	}

	query := `
    MERGE (mv:MASTER_VARIABLE {contractId: $contractId, masterType: $masterType})
    ON CREATE SET mv.id = $id, mv.createdAt = $now
    SET mv.name = $name,
        mv.type = $type,
        mv.value = $value,
        mv.isActive = true,
        mv.updatedAt = $now
    WITH mv
    MATCH (c:CONTRACT {id: $contractId})
    MERGE (c)-[:HAS_MASTER_VARIABLE]->(mv)
    RETURN mv
    `
	if mv.MasterType == model.MasterOther {
		query = `
        MERGE (mv:MASTER_VARIABLE {contractId: $contractId, masterType: $masterType, name: $name})
        ON CREATE SET mv.id = $id, mv.createdAt = $now
        SET mv.type = $type,
            mv.value = $value,
            mv.isActive = true,
            mv.updatedAt = $now
        WITH mv
        MATCH (c:CONTRACT {id: $contractId})
        MERGE (c)-[:HAS_MASTER_VARIABLE]->(mv)
        RETURN mv
        `
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"id":         mv.ID,
			"contractId": mv.ContractID,
			"masterType": string(mv.MasterType),
			"name":       mv.Name,
			"type":       string(mv.Type),
			"value":      mv.Value,
			"now":        time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, _ := queryResult.Record().Get("mv")
			return parseMasterVariableNode(node)
		}
		return nil, papirai_errors.ErrInternalServer
	})

	if err != nil {
		logger.Error("Failed to upsert master variable",
			zap.Error(err),
			zap.String("contractID", mv.ContractID),
			zap.String("masterType", string(mv.MasterType)))
		return nil, err
	}

	saved := result.(*model.MasterVariable)

	details, _ := json.Marshal(map[string]string{
		"masterType": string(saved.MasterType),
		"value":      saved.Value,
	})
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        audit.ActionSetMasterVariable,
		ResourceID:    saved.ContractID,
		Success:       true,
		ChangeDetails: details,
	}
	if err := dao.AuditService.LogAction(ctx, auditLog); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("contractID", saved.ContractID))
	}

	return saved, nil
}

// DeleteByMasterType removes the master variable of a (contract, masterType)
// pair.
func (dao *MasterVariableDAO) DeleteByMasterType(ctx context.Context, contractID string, masterType model.MasterType, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (mv:MASTER_VARIABLE {contractId: $contractId, masterType: $masterType})
        DETACH DELETE mv
        RETURN count(mv) as deleted
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"contractId": contractID,
			"masterType": string(masterType),
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			deleted, _ := queryResult.Record().Get("deleted")
			return deleted, nil
		}
		return int64(0), nil
	})

	if err != nil {
		logger.Error("Failed to delete master variable",
			zap.Error(err),
			zap.String("contractID", contractID),
			zap.String("masterType", string(masterType)))
		return err
	}

	if deleted, ok := result.(int64); !ok || deleted == 0 {
		return papirai_errors.ErrMasterVariableNotFound
	}

	auditLog := audit.AuditLog{
		Timestamp:  time.Now(),
		UserID:     userID,
		Action:     audit.ActionUnsetMasterVariable,
		ResourceID: contractID,
		Success:    true,
	}
	if err := dao.AuditService.LogAction(ctx, auditLog); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("contractID", contractID))
	}

	return nil
}

// GetByMasterType returns the active master variable for a pair, if any
func (dao *MasterVariableDAO) GetByMasterType(ctx context.Context, contractID string, masterType model.MasterType) (*model.MasterVariable, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (mv:MASTER_VARIABLE {contractId: $contractId, masterType: $masterType, isActive: true})
        RETURN mv
        LIMIT 1
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"contractId": contractID,
			"masterType": string(masterType),
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, _ := queryResult.Record().Get("mv")
			return parseMasterVariableNode(node)
		}
		return nil, papirai_errors.ErrMasterVariableNotFound
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.MasterVariable), nil
}

// ListByContract returns every active master variable of a contract
func (dao *MasterVariableDAO) ListByContract(ctx context.Context, contractID string) ([]*model.MasterVariable, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (mv:MASTER_VARIABLE {contractId: $contractId, isActive: true})
        RETURN mv
        ORDER BY mv.masterType, mv.name
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"contractId": contractID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}

		var variables []*model.MasterVariable
		for queryResult.Next() {
			node, _ := queryResult.Record().Get("mv")
			mv, err := parseMasterVariableNode(node)
			if err != nil {
				return nil, err
			}
			variables = append(variables, mv)
		}
		return variables, nil
	})

	if err != nil {
		logger.Error("Failed to list master variables",
			zap.Error(err),
			zap.String("contractID", contractID))
		return nil, err
	}

	return result.([]*model.MasterVariable), nil
}

func parseMasterVariableNode(node interface{}) (*model.MasterVariable, error) {
	n, ok := node.(neo4j.Node)
	if !ok {
		return nil, papirai_errors.ErrInternalServer
	}
	props := n.Props

	return &model.MasterVariable{
		ID:         getStringProp(props, "id"),
		ContractID: getStringProp(props, "contractId"),
		MasterType: model.MasterType(getStringProp(props, "masterType")),
		Name:       getStringProp(props, "name"),
		Type:       model.VariableType(getStringProp(props, "type")),
		Value:      getStringProp(props, "value"),
		IsActive:   getBoolProp(props, "isActive"),
		CreatedAt:  parseTimeProp(props, "createdAt"),
		UpdatedAt:  parseTimeProp(props, "updatedAt"),
	}, nil
}
