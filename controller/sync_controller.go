// controller/sync_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/service"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

type SyncController struct {
	syncService service.ISyncService
}

func NewSyncController(syncService service.ISyncService) *SyncController {
	return &SyncController{
		syncService: syncService,
	}
}

// RegisterRoutes registers the API routes
func (sc *SyncController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sync/run", sc.RunAll)
	r.POST("/integrations/:id/sync", sc.RunIntegration)
	r.POST("/integrations/:id/test", sc.TestIntegration)
	r.POST("/contracts/:id/sync", sc.RunForContract)
}

// RunAll endpoint triggers a sync across every active integration
func (sc *SyncController) RunAll(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	batch, err := sc.syncService.RunAll(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to run sync", err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// RunIntegration endpoint triggers a sync for one integration
func (sc *SyncController) RunIntegration(c *gin.Context) {
	integrationID := c.Param("id")
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	result, err := sc.syncService.RunIntegration(c, integrationID, userID)
	if err != nil {
		switch err {
		case papirai_errors.ErrIntegrationNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Integration not found", err)
		case papirai_errors.ErrNoActiveIntegration:
			util.RespondWithError(c, http.StatusConflict, "Integration is not active", err)
		case papirai_errors.ErrSyncInProgress:
			util.RespondWithError(c, http.StatusConflict, "Sync already in progress", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to run sync", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// TestIntegration endpoint probes the integration connection
func (sc *SyncController) TestIntegration(c *gin.Context) {
	integrationID := c.Param("id")

	ok, message, err := sc.syncService.TestIntegration(c, integrationID)
	if err != nil {
		if err == papirai_errors.ErrIntegrationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Integration not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to test integration", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok, "message": message})
}

// RunForContract endpoint triggers an on-demand sync for one contract
func (sc *SyncController) RunForContract(c *gin.Context) {
	contractID := c.Param("id")
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	result, err := sc.syncService.RunForContract(c, contractID, userID)
	if err != nil {
		switch err {
		case papirai_errors.ErrContractNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Contract not found", err)
		case papirai_errors.ErrNoActiveIntegration:
			util.RespondWithError(c, http.StatusConflict, "No active integration for contract", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to sync contract", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
