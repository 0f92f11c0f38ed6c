package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

// RegisterMixedRoutes wires the cross-entity views that read folders, files
// and notes together.
func RegisterMixedRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	mixedController := controllers.NewMixedController(container.MixedService)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		protected.GET("/recent", mixedController.GetRecentItems)
		protected.GET("/calendar", mixedController.GetItemsByDate)
		protected.GET("/calendar/overview", mixedController.GetMonthOverview)
		protected.GET("/favorites", mixedController.GetFavorites)
		protected.GET("/search", mixedController.Search)
	}
}
