// dao/contract_dao.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// ContractDAO reads contracts and their variables. Contract authoring lives
// in the surrounding application; this subsystem only consumes them, so the
// DAO has no write methods.
type ContractDAO struct {
	Driver neo4j.Driver
}

func NewContractDAO(driver neo4j.Driver) *ContractDAO {
	return &ContractDAO{Driver: driver}
}

// GetContract retrieves a contract with its variables
func (dao *ContractDAO) GetContract(ctx context.Context, contractID string) (*model.Contract, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:CONTRACT {id: $id})
        OPTIONAL MATCH (c)-[:HAS_VARIABLE]->(v:CONTRACT_VARIABLE)
        RETURN c, collect(v) as variables
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"id": contractID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			record := queryResult.Record()
			node, _ := record.Get("c")
			variables, _ := record.Get("variables")
			return parseContractRecord(node, variables)
		}
		return nil, papirai_errors.ErrContractNotFound
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.Contract), nil
}

// ListActiveContractsByCompany retrieves every active contract a company
// owns, with variables, for a sync run.
func (dao *ContractDAO) ListActiveContractsByCompany(ctx context.Context, companyID string) ([]*model.Contract, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:CONTRACT {companyId: $companyId, active: true})
        OPTIONAL MATCH (c)-[:HAS_VARIABLE]->(v:CONTRACT_VARIABLE)
        RETURN c, collect(v) as variables
        ORDER BY c.createdAt
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"companyId": companyID})
		if err != nil {
			return nil, papirai_errors.ErrDatabaseOperation
		}

		var contracts []*model.Contract
		for queryResult.Next() {
			record := queryResult.Record()
			node, _ := record.Get("c")
			variables, _ := record.Get("variables")
			contract, err := parseContractRecord(node, variables)
			if err != nil {
				return nil, err
			}
			contracts = append(contracts, contract)
		}
		return contracts, nil
	})

	if err != nil {
		logger.Error("Failed to list contracts for company",
			zap.Error(err),
			zap.String("companyID", companyID))
		return nil, err
	}

	return result.([]*model.Contract), nil
}

func parseContractRecord(node interface{}, variables interface{}) (*model.Contract, error) {
	n, ok := node.(neo4j.Node)
	if !ok {
		return nil, papirai_errors.ErrInternalServer
	}
	props := n.Props

	contract := &model.Contract{
		ID:        getStringProp(props, "id"),
		CompanyID: getStringProp(props, "companyId"),
		Title:     getStringProp(props, "title"),
		Active:    getBoolProp(props, "active"),
		CreatedAt: parseTimeProp(props, "createdAt"),
		UpdatedAt: parseTimeProp(props, "updatedAt"),
	}

	if variableNodes, ok := variables.([]interface{}); ok {
		for _, vn := range variableNodes {
			variableNode, ok := vn.(neo4j.Node)
			if !ok {
				continue
			}
			vprops := variableNode.Props
			contract.Variables = append(contract.Variables, model.ContractVariable{
				ID:         getStringProp(vprops, "id"),
				ContractID: contract.ID,
				Name:       getStringProp(vprops, "name"),
				Type:       model.VariableType(getStringProp(vprops, "type")),
				Value:      getStringProp(vprops, "value"),
				IsTracked:  getBoolProp(vprops, "isTracked"),
				CreatedAt:  parseTimeProp(vprops, "createdAt"),
				UpdatedAt:  parseTimeProp(vprops, "updatedAt"),
			})
		}
	}

	return contract, nil
}
