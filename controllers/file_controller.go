package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/services"
	"jotter/utils"
)

type FileController struct {
	fileService *services.FileService
}

func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{fileService: fileService}
}

// UploadFiles accepts a multipart batch under the "files" field, with an
// optional "parent_id" form value placing the whole batch in one folder.
func (fc *FileController) UploadFiles(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No files provided", nil)
		return
	}

	var parentID *primitive.ObjectID
	if raw := c.PostForm("parent_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid parent folder ID format", nil)
			return
		}
		parentID = &id
	}

	result, err := fc.fileService.UploadFiles(c.Request.Context(), owner, headers, parentID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Files uploaded successfully", result)
}

func (fc *FileController) GetFiles(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	fileType := c.Query("type")

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

	files, err := fc.fileService.GetFiles(c.Request.Context(), owner, fileType, parentID, rootOnly)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Files retrieved successfully", files)
}

func (fc *FileController) GetFile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	file, err := fc.fileService.GetByID(c.Request.Context(), owner, fileID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "File retrieved successfully", file)
}

func (fc *FileController) RenameFile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	file, err := fc.fileService.Rename(c.Request.Context(), owner, fileID, req.Name)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "File renamed successfully", file)
}

func (fc *FileController) ToggleFavorite(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := fc.fileService.ToggleFavorite(c.Request.Context(), owner, fileID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, favoriteMessage("File", result.IsFavorite), result)
}

func (fc *FileController) DuplicateFile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	file, err := fc.fileService.Duplicate(c.Request.Context(), owner, fileID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "File duplicated successfully", file)
}

func (fc *FileController) CopyFile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
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

	file, err := fc.fileService.Copy(c.Request.Context(), owner, fileID, targetID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "File copied successfully", file)
}

func (fc *FileController) DeleteFile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	freed, err := fc.fileService.Delete(c.Request.Context(), owner, fileID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "File deleted successfully", gin.H{
		"deleted_file":  fileID,
		"freed_storage": freed,
	})
}
