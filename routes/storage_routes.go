package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

func RegisterStorageRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	storageController := controllers.NewStorageController(container.StorageService)

	storage := rg.Group("/storage")
	storage.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		storage.GET("/stats", storageController.GetStats)
		storage.GET("/breakdown", storageController.GetBreakdown)
		storage.GET("/dashboard", storageController.GetDashboard)
		storage.POST("/recalculate", storageController.RecalculateUsage)
	}
}
