package router

import (
	"cafepos/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupProductRoutes sets up the catalog routes.
func SetupProductRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.POST("", inventoryHandler.AddProduct)
		productRoutes.GET("", inventoryHandler.GetProducts)
		productRoutes.POST("/:id/deactivate", inventoryHandler.DeactivateProduct)
	}
}

// SetupInventoryRoutes sets up the stock and goods receipt routes.
func SetupInventoryRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := apiGroup.Group("/inventory")
	{
		inventoryRoutes.GET("", inventoryHandler.GetInventory)
		inventoryRoutes.POST("/:productId/adjust", inventoryHandler.AdjustInventory)
	}

	purchaseRoutes := apiGroup.Group("/purchases")
	{
		purchaseRoutes.POST("", inventoryHandler.AddPurchase)
		purchaseRoutes.GET("", inventoryHandler.GetPurchases)
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	saleRoutes := apiGroup.Group("/sales")
	{
		saleRoutes.POST("", orderHandler.RecordSale)
		saleRoutes.GET("", orderHandler.GetSales)
		saleRoutes.GET("/parked", orderHandler.GetParkedSales)
	}
}

// SetupParkedOrderRoutes sets up the parked order routes.
func SetupParkedOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	parkedRoutes := apiGroup.Group("/parked-orders")
	{
		parkedRoutes.POST("", orderHandler.ParkOrder)
		parkedRoutes.POST("/:id/resume", orderHandler.ResumeParkedOrder)
		parkedRoutes.DELETE("/:id", orderHandler.DeleteParkedOrder)
	}
}

// SetupStaffRoutes sets up the employee and shift routes.
func SetupStaffRoutes(apiGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	employeeRoutes := apiGroup.Group("/employees")
	{
		employeeRoutes.POST("", staffHandler.AddEmployee)
		employeeRoutes.GET("", staffHandler.GetEmployees)
		employeeRoutes.POST("/:id/clock-in", staffHandler.ClockIn)
	}

	shiftRoutes := apiGroup.Group("/shifts")
	{
		shiftRoutes.GET("/open", staffHandler.GetOpenShifts)
		shiftRoutes.POST("/:id/clock-out", staffHandler.ClockOut)
	}
}

// SetupClientRoutes sets up the customer and audit log routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	customerRoutes := apiGroup.Group("/customers")
	{
		customerRoutes.POST("", clientHandler.AddCustomer)
		customerRoutes.GET("", clientHandler.GetCustomers)
	}

	auditRoutes := apiGroup.Group("/audit-logs")
	{
		auditRoutes.POST("", clientHandler.CreateAuditLog)
		auditRoutes.GET("", clientHandler.GetAuditLogs)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := apiGroup.Group("/reports")
	{
		reportRoutes.GET("", reportHandler.GetReport)
		reportRoutes.GET("/export", reportHandler.ExportReport)
	}
}

// SetupStreamRoutes sets up the server-sent event routes of the projections.
func SetupStreamRoutes(apiGroup *gin.RouterGroup, streamHandler *handlers.StreamHandler) {
	apiGroup.GET("/stream/:projection", streamHandler.Stream)
}
