package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

func RegisterFileRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	fileController := controllers.NewFileController(container.FileService)

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		files.POST("/upload", fileController.UploadFiles)
		files.GET("", fileController.GetFiles)
		files.GET("/:id", fileController.GetFile)
		files.PATCH("/:id/rename", fileController.RenameFile)
		files.PATCH("/:id/favorite", fileController.ToggleFavorite)
		files.POST("/:id/duplicate", fileController.DuplicateFile)
		files.POST("/:id/copy", fileController.CopyFile)
		files.DELETE("/:id", fileController.DeleteFile)
	}
}
