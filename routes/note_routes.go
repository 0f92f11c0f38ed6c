package routes

import (
	"github.com/gin-gonic/gin"

	"jotter/controllers"
	"jotter/middleware"
)

func RegisterNoteRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	noteController := controllers.NewNoteController(container.NoteService)

	notes := rg.Group("/notes")
	notes.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		notes.POST("", noteController.CreateNote)
		notes.GET("", noteController.GetNotes)
		notes.GET("/:id", noteController.GetNote)
		notes.PATCH("/:id", noteController.UpdateNote)
		notes.PATCH("/:id/favorite", noteController.ToggleFavorite)
		notes.POST("/:id/duplicate", noteController.DuplicateNote)
		notes.POST("/:id/copy", noteController.CopyNote)
		notes.DELETE("/:id", noteController.DeleteNote)
	}
}
