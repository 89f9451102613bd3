// controller/compliance_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/service"
	"github.com/mehmetNetAx/papirai-sub001/util"
	helper_util "github.com/mehmetNetAx/papirai-sub001/util/helper"
)

type ComplianceController struct {
	complianceService service.IComplianceService
}

func NewComplianceController(complianceService service.IComplianceService) *ComplianceController {
	return &ComplianceController{
		complianceService: complianceService,
	}
}

// RegisterRoutes registers the API routes
func (cc *ComplianceController) RegisterRoutes(r *gin.RouterGroup) {
	contracts := r.Group("/contracts/:id/checks")
	{
		contracts.GET("", cc.ListChecks)
		contracts.GET("/latest", cc.ListLatest)
		contracts.GET("/variables/:variableId/latest", cc.GetLatestForVariable)
	}
}

// ListChecks endpoint pages through a contract's check history
func (cc *ComplianceController) ListChecks(c *gin.Context) {
	contractID := c.Param("id")
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", papirai_errors.ErrInvalidPagination)
		return
	}

	checks, err := cc.complianceService.ListChecksForContract(c, contractID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list compliance checks", err)
		return
	}

	c.JSON(http.StatusOK, checks)
}

// ListLatest endpoint returns the current compliance snapshot
func (cc *ComplianceController) ListLatest(c *gin.Context) {
	contractID := c.Param("id")

	checks, err := cc.complianceService.ListLatestForContract(c, contractID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list latest compliance checks", err)
		return
	}

	c.JSON(http.StatusOK, checks)
}

// GetLatestForVariable endpoint
func (cc *ComplianceController) GetLatestForVariable(c *gin.Context) {
	contractID := c.Param("id")
	variableID := c.Param("variableId")

	check, err := cc.complianceService.GetLatestCheck(c, contractID, variableID)
	if err != nil {
		if err == papirai_errors.ErrCheckNotFound {
			util.RespondWithError(c, http.StatusNotFound, "No compliance check recorded", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve compliance check", err)
		}
		return
	}

	c.JSON(http.StatusOK, check)
}
