// controller/master_variable_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/service"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

type MasterVariableController struct {
	masterVariableService service.IMasterVariableService
}

func NewMasterVariableController(masterVariableService service.IMasterVariableService) *MasterVariableController {
	return &MasterVariableController{
		masterVariableService: masterVariableService,
	}
}

// RegisterRoutes registers the API routes
func (mc *MasterVariableController) RegisterRoutes(r *gin.RouterGroup) {
	contracts := r.Group("/contracts/:id")
	{
		contracts.PUT("/master-variables", mc.SetMasterVariable)
		contracts.DELETE("/master-variables/:masterType", mc.UnsetMasterVariable)
		contracts.GET("/master-variables", mc.ListMasterVariables)
		contracts.GET("/date-status", mc.GetDateStatus)
	}
}

// SetMasterVariable endpoint
func (mc *MasterVariableController) SetMasterVariable(c *gin.Context) {
	contractID := c.Param("id")
	var mv model.MasterVariable
	if err := c.ShouldBindJSON(&mv); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid master variable data", papirai_errors.ErrInvalidVariableData)
		return
	}
	mv.ContractID = contractID
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	saved, err := mc.masterVariableService.SetMasterVariable(c, mv, userID)
	if err != nil {
		switch err {
		case papirai_errors.ErrInvalidMasterType:
			util.RespondWithError(c, http.StatusBadRequest, "Unknown master type", err)
		case papirai_errors.ErrDerivedFieldImmutable:
			util.RespondWithError(c, http.StatusBadRequest, "Termination deadline is derived and cannot be set directly", err)
		case papirai_errors.ErrContractNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Contract not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to set master variable", err)
		}
		return
	}

	c.JSON(http.StatusOK, saved)
}

// UnsetMasterVariable endpoint
func (mc *MasterVariableController) UnsetMasterVariable(c *gin.Context) {
	contractID := c.Param("id")
	masterType := model.MasterType(c.Param("masterType"))
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := mc.masterVariableService.UnsetMasterVariable(c, contractID, masterType, userID); err != nil {
		switch err {
		case papirai_errors.ErrInvalidMasterType:
			util.RespondWithError(c, http.StatusBadRequest, "Unknown master type", err)
		case papirai_errors.ErrDerivedFieldImmutable:
			util.RespondWithError(c, http.StatusBadRequest, "Termination deadline is derived and cannot be unset directly", err)
		case papirai_errors.ErrMasterVariableNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Master variable not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to unset master variable", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMasterVariables endpoint
func (mc *MasterVariableController) ListMasterVariables(c *gin.Context) {
	contractID := c.Param("id")

	variables, err := mc.masterVariableService.ListMasterVariables(c, contractID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list master variables", err)
		return
	}

	c.JSON(http.StatusOK, variables)
}

// GetDateStatus endpoint returns the contract's deadline classification
func (mc *MasterVariableController) GetDateStatus(c *gin.Context) {
	contractID := c.Param("id")

	status, err := mc.masterVariableService.ContractDateStatus(c, contractID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute date status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}
