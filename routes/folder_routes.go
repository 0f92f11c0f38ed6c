package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

func RegisterFolderRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	folderController := controllers.NewFolderController(container.FolderService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		folders.POST("", folderController.CreateFolder)
		folders.GET("", folderController.GetRootFolders)
		folders.GET("/:id", folderController.GetFolder)
		folders.GET("/:id/contents", folderController.GetFolderContents)
		folders.PATCH("/:id", folderController.UpdateFolder)
		folders.PATCH("/:id/favorite", folderController.ToggleFavorite)
		folders.POST("/:id/duplicate", folderController.DuplicateFolder)
		folders.POST("/:id/copy", folderController.CopyFolder)
		folders.DELETE("/:id", folderController.DeleteFolder)
	}
}
