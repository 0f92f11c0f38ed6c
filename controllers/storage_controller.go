package controllers

import (
	"github.com/gin-gonic/gin"

	"jotter/services"
	"jotter/utils"
)

type StorageController struct {
	storageService *services.StorageService
}

func NewStorageController(storageService *services.StorageService) *StorageController {
	return &StorageController{storageService: storageService}
}

func (sc *StorageController) GetStats(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	stats, err := sc.storageService.Stats(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Storage stats retrieved successfully", stats)
}

func (sc *StorageController) GetBreakdown(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	breakdown, err := sc.storageService.Breakdown(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Storage breakdown retrieved successfully", breakdown)
}

// GetDashboard bundles the quota stats and per-kind breakdown into a single
// payload for the home screen.
func (sc *StorageController) GetDashboard(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	stats, err := sc.storageService.Stats(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	breakdown, err := sc.storageService.Breakdown(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Dashboard retrieved successfully", gin.H{
		"stats":     stats,
		"breakdown": breakdown,
	})
}

// RecalculateUsage re-derives the usage counter from the file records,
// correcting any drift left behind by failed uploads or deletes.
func (sc *StorageController) RecalculateUsage(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	usage, err := sc.storageService.RecalculateUsage(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Storage usage recalculated successfully", gin.H{
		"used_storage":           usage,
		"used_storage_formatted": utils.FormatBytes(usage),
	})
}
