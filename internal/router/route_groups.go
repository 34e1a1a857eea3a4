package router

import (
	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/handlers"
	"erp_backoffice/internal/middleware"
)

// Permission codes guarding each resource group. Seeded with the roles in
// the database migrations.
const (
	PermStockAccess      = "stock.access"
	PermSuppliersAccess  = "suppliers.access"
	PermProductsAccess   = "products.access"
	PermDeliveriesAccess = "deliveries.access"
	PermFinanceAccess    = "finance.access"
	PermHRAccess         = "hr.access"
	PermTrainingAccess   = "training.access"
	PermReportsAccess    = "reports.access"
	PermSettingsAccess   = "settings.access"
	PermImportsAccess    = "imports.access"
)

// SetupPublicRoutes registers routes served without authentication:
// login, registration, token refresh and certificate verification.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, trainingHandler *handlers.TrainingHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}

	apiGroup.GET("/certificates/:code", trainingHandler.GetCertificateByCode)
}

// SetupAuthenticatedAuthRoutes registers the profile and session routes.
func SetupAuthenticatedAuthRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := authenticatedGroup.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.Profile)
		authRoutes.GET("/session", authHandler.Session)
	}
}

// SetupStockRoutes registers the stock item and lookup routes.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock")
	stockRoutes.Use(middleware.RequirePermission(PermStockAccess))
	{
		stockRoutes.POST("/items", stockHandler.CreateItem)
		stockRoutes.GET("/items", stockHandler.GetItems)
		stockRoutes.GET("/items/:id", stockHandler.GetItemByID)
		stockRoutes.PUT("/items/:id", stockHandler.UpdateItem)
		stockRoutes.DELETE("/items/:id", stockHandler.DeleteItem)

		stockRoutes.GET("/locations", stockHandler.GetLocations)
		stockRoutes.GET("/groups", stockHandler.GetGroups)
		stockRoutes.GET("/units", stockHandler.GetUnits)
	}
}

// SetupSupplierRoutes registers the supplier routes.
func SetupSupplierRoutes(authenticatedGroup *gin.RouterGroup, supplierHandler *handlers.SupplierHandler) {
	supplierRoutes := authenticatedGroup.Group("/suppliers")
	supplierRoutes.Use(middleware.RequirePermission(PermSuppliersAccess))
	{
		supplierRoutes.POST("", supplierHandler.CreateSupplier)
		supplierRoutes.GET("", supplierHandler.GetSuppliers)
		supplierRoutes.GET("/:id", supplierHandler.GetSupplierByID)
		supplierRoutes.PUT("/:id", supplierHandler.UpdateSupplier)
		supplierRoutes.DELETE("/:id", supplierHandler.DeleteSupplier)
	}
}

// SetupProductRoutes registers the product aggregate routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	productRoutes.Use(middleware.RequirePermission(PermProductsAccess))
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}

	categoryRoutes := authenticatedGroup.Group("/product-categories")
	categoryRoutes.Use(middleware.RequirePermission(PermProductsAccess))
	{
		categoryRoutes.GET("", productHandler.GetCategories)
	}
}

// SetupStatusRoutes registers the workflow status configuration routes.
func SetupStatusRoutes(authenticatedGroup *gin.RouterGroup, statusHandler *handlers.StatusHandler) {
	statusRoutes := authenticatedGroup.Group("/statuses")
	statusRoutes.Use(middleware.RequirePermission(PermSettingsAccess))
	{
		statusRoutes.POST("", statusHandler.CreateStatus)
		statusRoutes.GET("", statusHandler.GetStatuses)
		statusRoutes.PUT("/:id", statusHandler.UpdateStatus)
		statusRoutes.DELETE("/:id", statusHandler.DeleteStatus)
	}

	transitionRoutes := authenticatedGroup.Group("/status-transitions")
	transitionRoutes.Use(middleware.RequirePermission(PermSettingsAccess))
	{
		transitionRoutes.POST("", statusHandler.CreateTransition)
		transitionRoutes.GET("", statusHandler.GetTransitions)
		transitionRoutes.DELETE("/:id", statusHandler.DeleteTransition)
	}
}

// SetupDeliveryRoutes registers the delivery routes.
func SetupDeliveryRoutes(authenticatedGroup *gin.RouterGroup, deliveryHandler *handlers.DeliveryHandler) {
	deliveryRoutes := authenticatedGroup.Group("/deliveries")
	deliveryRoutes.Use(middleware.RequirePermission(PermDeliveriesAccess))
	{
		deliveryRoutes.POST("", deliveryHandler.CreateDelivery)
		deliveryRoutes.GET("", deliveryHandler.GetDeliveries)
		deliveryRoutes.GET("/:id", deliveryHandler.GetDeliveryByID)
		deliveryRoutes.PUT("/:id", deliveryHandler.UpdateDelivery)
		deliveryRoutes.DELETE("/:id", deliveryHandler.DeleteDelivery)
		deliveryRoutes.PATCH("/:id/status", deliveryHandler.ChangeStatus)
		deliveryRoutes.GET("/:id/history", deliveryHandler.GetStatusHistory)
	}
}

// SetupFinanceRoutes registers the financial transaction and lookup routes.
func SetupFinanceRoutes(authenticatedGroup *gin.RouterGroup, financeHandler *handlers.FinanceHandler) {
	financeRoutes := authenticatedGroup.Group("/finance")
	financeRoutes.Use(middleware.RequirePermission(PermFinanceAccess))
	{
		financeRoutes.POST("/transactions", financeHandler.CreateTransaction)
		financeRoutes.GET("/transactions", financeHandler.GetTransactions)
		financeRoutes.GET("/transactions/:id", financeHandler.GetTransactionByID)
		financeRoutes.PUT("/transactions/:id", financeHandler.UpdateTransaction)
		financeRoutes.DELETE("/transactions/:id", financeHandler.DeleteTransaction)

		financeRoutes.GET("/categories", financeHandler.GetCategories)
		financeRoutes.GET("/payment-methods", financeHandler.GetPaymentMethods)
		financeRoutes.GET("/divisions", financeHandler.GetDivisions)
	}
}

// SetupHRRoutes registers the employee and time-off routes.
func SetupHRRoutes(authenticatedGroup *gin.RouterGroup, hrHandler *handlers.HRHandler) {
	employeeRoutes := authenticatedGroup.Group("/employees")
	employeeRoutes.Use(middleware.RequirePermission(PermHRAccess))
	{
		employeeRoutes.POST("", hrHandler.CreateEmployee)
		employeeRoutes.GET("", hrHandler.GetEmployees)
		employeeRoutes.GET("/:id", hrHandler.GetEmployeeByID)
		employeeRoutes.PUT("/:id", hrHandler.UpdateEmployee)
		employeeRoutes.DELETE("/:id", hrHandler.DeleteEmployee)
	}

	timeOffRoutes := authenticatedGroup.Group("/time-off")
	timeOffRoutes.Use(middleware.RequirePermission(PermHRAccess))
	{
		timeOffRoutes.POST("", hrHandler.CreateTimeOffRequest)
		timeOffRoutes.GET("", hrHandler.GetTimeOffRequests)
		timeOffRoutes.GET("/:id", hrHandler.GetTimeOffRequestByID)
		timeOffRoutes.POST("/:id/approve", hrHandler.ApproveTimeOff)
		timeOffRoutes.POST("/:id/reject", hrHandler.RejectTimeOff)
	}
}

// SetupTrainingRoutes registers the course, enrollment and certificate routes.
func SetupTrainingRoutes(authenticatedGroup *gin.RouterGroup, trainingHandler *handlers.TrainingHandler) {
	courseRoutes := authenticatedGroup.Group("/courses")
	courseRoutes.Use(middleware.RequirePermission(PermTrainingAccess))
	{
		courseRoutes.POST("", trainingHandler.CreateCourse)
		courseRoutes.GET("", trainingHandler.GetCourses)
		courseRoutes.GET("/:id", trainingHandler.GetCourseByID)
		courseRoutes.PUT("/:id", trainingHandler.UpdateCourse)
		courseRoutes.DELETE("/:id", trainingHandler.DeleteCourse)
	}

	enrollmentRoutes := authenticatedGroup.Group("/enrollments")
	enrollmentRoutes.Use(middleware.RequirePermission(PermTrainingAccess))
	{
		enrollmentRoutes.POST("", trainingHandler.Enroll)
		enrollmentRoutes.GET("", trainingHandler.GetEnrollments)
		enrollmentRoutes.GET("/:id", trainingHandler.GetEnrollmentByID)
		enrollmentRoutes.POST("/:id/complete", trainingHandler.CompleteEnrollment)
		enrollmentRoutes.POST("/:id/cancel", trainingHandler.CancelEnrollment)
		enrollmentRoutes.GET("/:id/certificate", trainingHandler.GetCertificateByEnrollment)
	}
}

// SetupNotificationRoutes registers the notification routes. They are scoped
// to the authenticated user, so no extra permission applies.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetNotifications)
		notificationRoutes.GET("/unread-count", notificationHandler.CountUnread)
		notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
		notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)
		notificationRoutes.GET("/stream", notificationHandler.Stream)
	}
}

// SetupReportRoutes registers the dashboard and report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RequirePermission(PermReportsAccess))
	{
		reportRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)
		reportRoutes.GET("/financial", reportHandler.GetFinancialReport)
	}
}

// SetupExportRoutes registers the listing download routes.
func SetupExportRoutes(authenticatedGroup *gin.RouterGroup, exportHandler *handlers.ExportHandler) {
	exportRoutes := authenticatedGroup.Group("/exports")
	exportRoutes.Use(middleware.RequirePermission(PermReportsAccess))
	{
		exportRoutes.GET("/stock", exportHandler.ExportStock)
		exportRoutes.GET("/suppliers", exportHandler.ExportSuppliers)
		exportRoutes.GET("/transactions", exportHandler.ExportTransactions)
	}
}

// SetupImportRoutes registers the CSV upload routes.
func SetupImportRoutes(authenticatedGroup *gin.RouterGroup, importHandler *handlers.ImportHandler) {
	importRoutes := authenticatedGroup.Group("/imports")
	importRoutes.Use(middleware.RequirePermission(PermImportsAccess))
	{
		importRoutes.POST("/stock", importHandler.ImportStock)
		importRoutes.POST("/suppliers", importHandler.ImportSuppliers)
	}
}
