package controllers

import (
	"github.com/gin-gonic/gin"

	"jotter/services"
	"jotter/utils"
)

type AuthController struct {
	authService    *services.AuthService
	userService    *services.UserService
	storageService *services.StorageService
}

func NewAuthController(authService *services.AuthService, userService *services.UserService, storageService *services.StorageService) *AuthController {
	return &AuthController{authService: authService, userService: userService, storageService: storageService}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name" binding:"required,min=1,max=100"`
		LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	result, err := ac.authService.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Account created successfully", result)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	result, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", result)
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	tokens, err := ac.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", tokens)
}

func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := ac.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.HandleError(c, err)
		return
	}

	// Same response whether or not the email exists.
	utils.SuccessResponse(c, "If an account exists for that email, a reset code has been sent", nil)
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,len=6"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := ac.authService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Password reset successfully", nil)
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	user, err := ac.storageService.GetUser(c.Request.Context(), owner)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req struct {
		FirstName *string `json:"first_name,omitempty"`
		LastName  *string `json:"last_name,omitempty"`
		Avatar    *string `json:"avatar,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	user, err := ac.userService.UpdateProfile(c.Request.Context(), owner, req.FirstName, req.LastName, req.Avatar)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := ac.userService.ChangePassword(c.Request.Context(), owner, req.CurrentPassword, req.NewPassword); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}

func (ac *AuthController) DeleteAccount(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := ac.userService.DeleteAccount(c.Request.Context(), owner, req.Password); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account deleted successfully", nil)
}
