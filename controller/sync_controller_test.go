// controller/sync_controller_test.go
package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mehmetNetAx/papirai-sub001/controller"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

type mockSyncService struct {
	mock.Mock
}

func (m *mockSyncService) RunAll(ctx context.Context, userID string) (*model.BatchSyncResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchSyncResult), args.Error(1)
}

func (m *mockSyncService) RunIntegration(ctx context.Context, integrationID string, userID string) (*model.SyncResult, error) {
	args := m.Called(ctx, integrationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncResult), args.Error(1)
}

func (m *mockSyncService) RunForContract(ctx context.Context, contractID string, userID string) (*model.SyncResult, error) {
	args := m.Called(ctx, contractID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncResult), args.Error(1)
}

func (m *mockSyncService) TestIntegration(ctx context.Context, integrationID string) (bool, string, error) {
	args := m.Called(ctx, integrationID)
	return args.Bool(0), args.String(1), args.Error(2)
}

func TestSyncController(t *testing.T) {
	// Initialize logger
	logger.InitLogger(os.TempDir())
	defer logger.Sync()

	gin.SetMode(gin.TestMode)

	syncService := new(mockSyncService)
	syncController := controller.NewSyncController(syncService)
	router := gin.New()
	api := router.Group("/")
	syncController.RegisterRoutes(api)

	t.Run("RunAll_Success", func(t *testing.T) {
		syncService.On("RunAll", mock.Anything, mock.Anything).
			Return(&model.BatchSyncResult{Total: 2, Succeeded: 2}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/sync/run", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"succeeded":2`)
	})

	t.Run("RunIntegration_Success", func(t *testing.T) {
		syncService.On("RunIntegration", mock.Anything, "int-1", mock.Anything).
			Return(&model.SyncResult{IntegrationID: "int-1", Status: model.SyncSuccess}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/integrations/int-1/sync", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RunIntegration_Conflict_InProgress", func(t *testing.T) {
		syncService.On("RunIntegration", mock.Anything, "int-1", mock.Anything).
			Return(nil, papirai_errors.ErrSyncInProgress).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/integrations/int-1/sync", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("RunIntegration_NotFound", func(t *testing.T) {
		syncService.On("RunIntegration", mock.Anything, "missing", mock.Anything).
			Return(nil, papirai_errors.ErrIntegrationNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/integrations/missing/sync", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RunForContract_NoActiveIntegration", func(t *testing.T) {
		syncService.On("RunForContract", mock.Anything, "c1", mock.Anything).
			Return(nil, papirai_errors.ErrNoActiveIntegration).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/contracts/c1/sync", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("TestIntegration_Success", func(t *testing.T) {
		syncService.On("TestIntegration", mock.Anything, "int-1").
			Return(true, "connection to sap established", nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/integrations/int-1/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})
}
