// dao/compliance_check_dao.go
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// ComplianceCheckDAO persists compliance checks. Checks are append-only:
// there is no update or delete, and history is reconstructed by reading the
// most recent check per (contract, variable) pair.
type ComplianceCheckDAO struct {
	Driver neo4j.Driver
}

func NewComplianceCheckDAO(driver neo4j.Driver) *ComplianceCheckDAO {
	return &ComplianceCheckDAO{Driver: driver}
}

// CreateCheck appends one compliance check
func (dao *ComplianceCheckDAO) CreateCheck(ctx context.Context, check model.ComplianceCheck) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if check.ID == "" {
		check.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE (cc:COMPLIANCE_CHECK {id: $id})
        SET cc += $props
        WITH cc
        MATCH (c:CONTRACT {id: $contractId})
        MERGE (c)-[:HAS_CHECK]->(cc)
        RETURN cc.id as id
        `

		deviationJSON, _ := json.Marshal(check.Deviation)

		parameters := map[string]interface{}{
			"id":         check.ID,
			"contractId": check.ContractID,
			"props": map[string]interface{}{
				"contractId":    check.ContractID,
				"variableId":    check.VariableID,
				"variableName":  check.VariableName,
				"expectedValue": check.ExpectedValue,
				"actualValue":   check.ActualValue,
				"status":        string(check.Status),
				"alertLevel":    string(check.AlertLevel),
				"deviation":     string(deviationJSON),
				"source":        string(check.Source),
				"rawSnapshot":   string(check.RawSnapshot),
				"checkedAt":     check.CheckedAt.Format(time.RFC3339),
			},
		}
		result, err := transaction.Run(query, parameters)
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, papirai_errors.ErrInternalServer
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to create compliance check",
			zap.Error(err),
			zap.String("contractID", check.ContractID),
			zap.String("variableID", check.VariableID))
		return "", err
	}

	logger.Debug("Compliance check recorded",
		zap.String("checkID", check.ID),
		zap.String("contractID", check.ContractID),
		zap.String("status", string(check.Status)))
	return check.ID, nil
}

// GetLatestCheck returns the most recent check for a (contract, variable) pair
func (dao *ComplianceCheckDAO) GetLatestCheck(ctx context.Context, contractID, variableID string) (*model.ComplianceCheck, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (cc:COMPLIANCE_CHECK {contractId: $contractId, variableId: $variableId})
        RETURN cc
        ORDER BY cc.checkedAt DESC
        LIMIT 1
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"contractId": contractID,
			"variableId": variableID,
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, _ := queryResult.Record().Get("cc")
			return parseComplianceCheckNode(node)
		}
		return nil, papirai_errors.ErrCheckNotFound
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.ComplianceCheck), nil
}

// ListChecksForContract returns the check history of a contract, newest first
func (dao *ComplianceCheckDAO) ListChecksForContract(ctx context.Context, contractID string, limit int, offset int) ([]*model.ComplianceCheck, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (cc:COMPLIANCE_CHECK {contractId: $contractId})
        RETURN cc
        ORDER BY cc.checkedAt DESC
        SKIP $offset
        LIMIT $limit
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{
			"contractId": contractID,
			"limit":      limit,
			"offset":     offset,
		})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}

		var checks []*model.ComplianceCheck
		for queryResult.Next() {
			node, _ := queryResult.Record().Get("cc")
			check, err := parseComplianceCheckNode(node)
			if err != nil {
				return nil, err
			}
			checks = append(checks, check)
		}
		return checks, nil
	})

	if err != nil {
		logger.Error("Failed to list compliance checks",
			zap.Error(err),
			zap.String("contractID", contractID))
		return nil, err
	}

	return result.([]*model.ComplianceCheck), nil
}

// ListLatestForContract returns the newest check per variable of a contract,
// the shape dashboards render.
func (dao *ComplianceCheckDAO) ListLatestForContract(ctx context.Context, contractID string) ([]*model.ComplianceCheck, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (cc:COMPLIANCE_CHECK {contractId: $contractId})
        WITH cc.variableId as variableId, cc
        ORDER BY cc.checkedAt DESC
        WITH variableId, collect(cc)[0] as latest
        RETURN latest as cc
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"contractId": contractID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}

		var checks []*model.ComplianceCheck
		for queryResult.Next() {
			node, _ := queryResult.Record().Get("cc")
			check, err := parseComplianceCheckNode(node)
			if err != nil {
				return nil, err
			}
			checks = append(checks, check)
		}
		return checks, nil
	})

	if err != nil {
		logger.Error("Failed to list latest compliance checks",
			zap.Error(err),
			zap.String("contractID", contractID))
		return nil, err
	}

	return result.([]*model.ComplianceCheck), nil
}

func parseComplianceCheckNode(node interface{}) (*model.ComplianceCheck, error) {
	n, ok := node.(neo4j.Node)
	if !ok {
		return nil, papirai_errors.ErrInternalServer
	}
	props := n.Props

	check := &model.ComplianceCheck{
		ID:            getStringProp(props, "id"),
		ContractID:    getStringProp(props, "contractId"),
		VariableID:    getStringProp(props, "variableId"),
		VariableName:  getStringProp(props, "variableName"),
		ExpectedValue: getStringProp(props, "expectedValue"),
		ActualValue:   getStringProp(props, "actualValue"),
		Status:        model.ComplianceStatus(getStringProp(props, "status")),
		AlertLevel:    model.AlertLevel(getStringProp(props, "alertLevel")),
		Source:        model.ComplianceSource(getStringProp(props, "source")),
		CheckedAt:     parseTimeProp(props, "checkedAt"),
	}

	if deviationStr := getStringProp(props, "deviation"); deviationStr != "" {
		if err := json.Unmarshal([]byte(deviationStr), &check.Deviation); err != nil {
			return nil, err
		}
	}
	if snapshot := getStringProp(props, "rawSnapshot"); snapshot != "" {
		check.RawSnapshot = json.RawMessage(snapshot)
	}

	return check, nil
}
