package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetNetAx/papirai-sub001/audit"
	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/compliance/engine"
	"github.com/mehmetNetAx/papirai-sub001/config"
	"github.com/mehmetNetAx/papirai-sub001/controller"
	"github.com/mehmetNetAx/papirai-sub001/dao"
	"github.com/mehmetNetAx/papirai-sub001/db"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/router"
	"github.com/mehmetNetAx/papirai-sub001/service"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()
	resourceLock := util.NewResourceLock()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Initialize DAOs
	integrationDAO := dao.NewIntegrationDAO(db.Neo4jDriver, auditService)
	contractDAO := dao.NewContractDAO(db.Neo4jDriver)
	checkDAO := dao.NewComplianceCheckDAO(db.Neo4jDriver)
	masterVariableDAO := dao.NewMasterVariableDAO(db.Neo4jDriver, auditService)

	// Initialize the compliance engine
	evaluator := engine.NewComplianceEvaluator(config.GetInt("sync.dateToleranceDays"))
	adapterFactory := adapter.NewFactory()

	// Initialize services
	integrationService := service.NewIntegrationService(
		integrationDAO,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
	)
	syncService := service.NewSyncService(
		integrationDAO,
		contractDAO,
		checkDAO,
		adapterFactory,
		evaluator,
		cacheService,
		resourceLock,
		notificationService,
		eventBus,
		auditService,
		config.GetInt("sync.workers"),
		config.GetDuration("sync.fetchTimeout"),
		config.GetDuration("sync.lockTTL"),
	)
	masterVariableService := service.NewMasterVariableService(
		masterVariableDAO,
		contractDAO,
		validationUtil,
		cacheService,
		config.GetInt("deadline.warningDays"),
		config.GetInt("deadline.criticalDays"),
		config.GetDuration("deadline.statusCacheTTL"),
	)
	complianceService := service.NewComplianceService(checkDAO)

	// Initialize controllers
	controllers := controller.InitializeControllers(
		integrationService,
		syncService,
		masterVariableService,
		complianceService,
	)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engineRouter := router.SetupRouter(controllers, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engineRouter,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
