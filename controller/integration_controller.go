// controller/integration_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/service"
	"github.com/mehmetNetAx/papirai-sub001/util"
	helper_util "github.com/mehmetNetAx/papirai-sub001/util/helper"
)

type IntegrationController struct {
	integrationService service.IIntegrationService
}

func NewIntegrationController(integrationService service.IIntegrationService) *IntegrationController {
	return &IntegrationController{
		integrationService: integrationService,
	}
}

// RegisterRoutes registers the API routes
func (ic *IntegrationController) RegisterRoutes(r *gin.RouterGroup) {
	integrations := r.Group("/integrations")
	{
		integrations.POST("", ic.CreateIntegration)
		integrations.PUT("/:id", ic.UpdateIntegration)
		integrations.GET("/:id", ic.GetIntegration)
		integrations.GET("", ic.ListIntegrations)
		integrations.DELETE("/:id", ic.DeactivateIntegration)
	}
}

// CreateIntegration endpoint
func (ic *IntegrationController) CreateIntegration(c *gin.Context) {
	var integration model.Integration
	if err := c.ShouldBindJSON(&integration); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid integration data", papirai_errors.ErrInvalidIntegrationData)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", papirai_errors.ErrUnauthorized)
		return
	}

	created, err := ic.integrationService.CreateIntegration(c, integration, userID)
	if err != nil {
		switch err {
		case papirai_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		case papirai_errors.ErrInternalServer:
			util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		default:
			util.RespondWithError(c, http.StatusBadRequest, "Failed to create integration", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateIntegration endpoint
func (ic *IntegrationController) UpdateIntegration(c *gin.Context) {
	integrationID := c.Param("id")
	var integration model.Integration
	if err := c.ShouldBindJSON(&integration); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid integration data", err)
		return
	}
	integration.ID = integrationID
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	updated, err := ic.integrationService.UpdateIntegration(c, integration, userID)
	if err != nil {
		if err == papirai_errors.ErrIntegrationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Integration not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update integration", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetIntegration endpoint
func (ic *IntegrationController) GetIntegration(c *gin.Context) {
	integrationID := c.Param("id")

	integration, err := ic.integrationService.GetIntegration(c, integrationID)
	if err != nil {
		if err == papirai_errors.ErrIntegrationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Integration not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve integration", err)
		}
		return
	}

	c.JSON(http.StatusOK, integration)
}

// ListIntegrations endpoint
func (ic *IntegrationController) ListIntegrations(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", papirai_errors.ErrInvalidPagination)
		return
	}

	integrations, err := ic.integrationService.ListIntegrations(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list integrations", err)
		return
	}

	c.JSON(http.StatusOK, integrations)
}

// DeactivateIntegration endpoint
func (ic *IntegrationController) DeactivateIntegration(c *gin.Context) {
	integrationID := c.Param("id")
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := ic.integrationService.DeactivateIntegration(c, integrationID, userID); err != nil {
		if err == papirai_errors.ErrIntegrationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Integration not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate integration", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
