package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/services"
	"jotter/utils"
)

type NoteController struct {
	noteService *services.NoteService
}

func NewNoteController(noteService *services.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

func (nc *NoteController) CreateNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req struct {
		Title    string  `json:"title" binding:"required,min=1,max=255"`
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id,omitempty"`
		Color    string  `json:"color,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	parentID, ok := optionalID(c, req.ParentID)
	if !ok {
		return
	}

	note, err := nc.noteService.Create(c.Request.Context(), owner, req.Title, req.Content, parentID, req.Color)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Note created successfully", note)
}

func (nc *NoteController) GetNotes(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var parentID *primitive.ObjectID
	rootOnly := false
	if raw, present := c.GetQuery("parent_id"); present {
		if raw == "" || raw == "null" {
			rootOnly = true
		} else {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid parent folder ID format", nil)
				return
			}
			parentID = &id
		}
	}

	notes, err := nc.noteService.GetNotes(c.Request.Context(), owner, parentID, rootOnly)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notes retrieved successfully", notes)
}

func (nc *NoteController) GetNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	note, err := nc.noteService.GetByID(c.Request.Context(), owner, noteID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Note retrieved successfully", note)
}

func (nc *NoteController) UpdateNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
		Color   *string `json:"color,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}
	if req.Title == nil && req.Content == nil && req.Color == nil {
		utils.BadRequestResponse(c, "No fields to update", nil)
		return
	}

	note, err := nc.noteService.Update(c.Request.Context(), owner, noteID, req.Title, req.Content, req.Color)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Note updated successfully", note)
}

func (nc *NoteController) ToggleFavorite(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := nc.noteService.ToggleFavorite(c.Request.Context(), owner, noteID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, favoriteMessage("Note", result.IsFavorite), result)
}

func (nc *NoteController) DuplicateNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	note, err := nc.noteService.Duplicate(c.Request.Context(), owner, noteID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Note duplicated successfully", note)
}

func (nc *NoteController) CopyNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		TargetFolderID *string `json:"target_folder_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	targetID, ok := optionalID(c, req.TargetFolderID)
	if !ok {
		return
	}

	note, err := nc.noteService.Copy(c.Request.Context(), owner, noteID, targetID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Note copied successfully", note)
}

func (nc *NoteController) DeleteNote(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		return
	}

	if err := nc.noteService.Delete(c.Request.Context(), owner, noteID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Note deleted successfully", gin.H{"deleted_note": noteID})
}
