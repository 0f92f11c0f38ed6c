package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/middleware"
	"jotter/services"
	"jotter/utils"
)

type FolderController struct {
	folderService *services.FolderService
}

func NewFolderController(folderService *services.FolderService) *FolderController {
	return &FolderController{folderService: folderService}
}

// ownerID extracts the authenticated owner; a missing value means the
// middleware did not run and the request is rejected.
func ownerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.OwnerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
	}
	return id, ok
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID format", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalID parses an optional hex id from a request body field.
func optionalID(c *gin.Context, value *string) (*primitive.ObjectID, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(*value)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid folder ID format", nil)
		return nil, false
	}
	return &id, true
}

func (fc *FolderController) CreateFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required,min=1,max=255"`
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

	folder, err := fc.folderService.Create(c.Request.Context(), owner, req.Name, parentID, req.Color)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Folder created successfully", folder)
}

func (fc *FolderController) GetRootFolders(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	folders, err := fc.folderService.GetRootFolders(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Root folders retrieved successfully", folders)
}

func (fc *FolderController) GetFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	folder, err := fc.folderService.GetByID(c.Request.Context(), owner, folderID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder retrieved successfully", folder)
}

func (fc *FolderController) GetFolderContents(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	contents, err := fc.folderService.GetContents(c.Request.Context(), owner, folderID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder contents retrieved successfully", contents)
}

func (fc *FolderController) UpdateFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name,omitempty"`
		Color *string `json:"color,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	folder, err := fc.folderService.Update(c.Request.Context(), owner, folderID, req.Name, req.Color)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder updated successfully", folder)
}

func (fc *FolderController) ToggleFavorite(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := fc.folderService.ToggleFavorite(c.Request.Context(), owner, folderID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, favoriteMessage("Folder", result.IsFavorite), result)
}

func (fc *FolderController) DuplicateFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	folder, err := fc.folderService.Duplicate(c.Request.Context(), owner, folderID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Folder duplicated successfully", folder)
}

func (fc *FolderController) CopyFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
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

	folder, err := fc.folderService.Copy(c.Request.Context(), owner, folderID, targetID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Folder copied successfully", folder)
}

func (fc *FolderController) DeleteFolder(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := fc.folderService.Delete(c.Request.Context(), owner, folderID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder and contents deleted successfully", result)
}

func favoriteMessage(resource string, isFavorite bool) string {
	if isFavorite {
		return resource + " added to favorites"
	}
	return resource + " removed from favorites"
}
