package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	authController := controllers.NewAuthController(container.AuthService, container.UserService, container.StorageService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(container.JWTSecret))
		{
			protected.GET("/me", authController.GetProfile)
			protected.PATCH("/me", authController.UpdateProfile)
			protected.POST("/change-password", authController.ChangePassword)
			protected.DELETE("/me", authController.DeleteAccount)
		}
	}
}
