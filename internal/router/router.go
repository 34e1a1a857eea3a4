package router

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"erp_backoffice/internal/handlers"
	"erp_backoffice/internal/middleware"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/internal/services"
)

// Setup wires repositories, services and handlers and registers every route
// group on the engine.
func Setup(engine *gin.Engine, db *sql.DB, redisClient *redis.Client) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	supplierRepo := repositories.NewSupplierRepository(db)
	productRepo := repositories.NewProductRepository(db)
	statusRepo := repositories.NewStatusRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	financeRepo := repositories.NewFinanceRepository(db)
	hrRepo := repositories.NewHRRepository(db)
	trainingRepo := repositories.NewTrainingRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	authService := services.NewAuthService(authRepo, db)
	stockService := services.NewStockService(stockRepo, db)
	supplierService := services.NewSupplierService(supplierRepo, db)
	productService := services.NewProductService(productRepo, db)
	statusService := services.NewStatusService(statusRepo, db)
	notificationService := services.NewNotificationService(notificationRepo, redisClient, db)
	deliveryService := services.NewDeliveryService(deliveryRepo, statusService, notificationService, hrRepo, db)
	financeService := services.NewFinanceService(financeRepo, db)
	hrService := services.NewHRService(hrRepo, notificationService, db)
	trainingService := services.NewTrainingService(trainingRepo, db)
	reportService := services.NewReportService(stockRepo, supplierRepo, deliveryRepo, hrRepo, financeRepo)
	importService := services.NewImportService(stockRepo, supplierRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	stockHandler := handlers.NewStockHandler(stockService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productHandler := handlers.NewProductHandler(productService)
	statusHandler := handlers.NewStatusHandler(statusService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	financeHandler := handlers.NewFinanceHandler(financeService)
	hrHandler := handlers.NewHRHandler(hrService)
	trainingHandler := handlers.NewTrainingHandler(trainingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(stockService, supplierService, financeService)
	importHandler := handlers.NewImportHandler(importService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicRoutes(apiV1, authHandler, trainingHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(), middleware.SessionMiddleware(authService))
	{
		SetupAuthenticatedAuthRoutes(authenticated, authHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupSupplierRoutes(authenticated, supplierHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupStatusRoutes(authenticated, statusHandler)
		SetupDeliveryRoutes(authenticated, deliveryHandler)
		SetupFinanceRoutes(authenticated, financeHandler)
		SetupHRRoutes(authenticated, hrHandler)
		SetupTrainingRoutes(authenticated, trainingHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupExportRoutes(authenticated, exportHandler)
		SetupImportRoutes(authenticated, importHandler)
	}
}
