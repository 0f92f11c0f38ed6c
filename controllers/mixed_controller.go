package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jotter/services"
	"jotter/utils"
)

type MixedController struct {
	mixedService *services.MixedService
}

func NewMixedController(mixedService *services.MixedService) *MixedController {
	return &MixedController{mixedService: mixedService}
}

func (mc *MixedController) GetRecentItems(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.BadRequestResponse(c, "Invalid limit parameter", nil)
			return
		}
		limit = parsed
	}

	items, err := mc.mixedService.RecentItems(c.Request.Context(), owner, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Recent items retrieved successfully", gin.H{
		"items": items,
		"count": len(items),
	})
}

func (mc *MixedController) GetItemsByDate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	dateParam := c.Query("date")
	if dateParam == "" {
		utils.BadRequestResponse(c, "Missing date parameter", "Expected format: YYYY-MM-DD")
		return
	}

	startOfDay, nextDay, err := utils.GetDateRange(dateParam)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid date format", "Expected format: YYYY-MM-DD")
		return
	}

	result, err := mc.mixedService.ItemsByDate(c.Request.Context(), owner, startOfDay, nextDay)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Items retrieved successfully", result)
}

func (mc *MixedController) GetMonthOverview(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			utils.BadRequestResponse(c, "Invalid year parameter", nil)
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			utils.BadRequestResponse(c, "Invalid month parameter", nil)
			return
		}
		month = parsed
	}

	overview, err := mc.mixedService.MonthOverview(c.Request.Context(), owner, year, month)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Month overview retrieved successfully", gin.H{
		"year":  year,
		"month": month,
		"days":  overview,
	})
}

func (mc *MixedController) GetFavorites(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	result, err := mc.mixedService.Favorites(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorites retrieved successfully", result)
}

func (mc *MixedController) Search(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	kindFilter := c.Query("type")

	result, err := mc.mixedService.Search(c.Request.Context(), owner, query, kindFilter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Search completed successfully", result)
}
