package controllers

import (
	"strings"
	"time"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RegisterUser creates a new customer account
func RegisterUser(c *gin.Context) {
	utils.LogInfo("RegisterUser called")

	var req struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration conflict for email: %s", req.Email)
		utils.Conflict(c, "An account with that email or username already exists", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	utils.LogInfo("Registered user ID: %d", user.ID)
	utils.Created(c, "Account created successfully", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// LoginUser authenticates by email or username and returns a JWT pair.
// A successful login also merges any session cart into the user's
// pending order, mirroring the merge-on-login behavior of the web flow.
func LoginUser(c *gin.Context) {
	utils.LogInfo("LoginUser called")

	var req struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		utils.BadRequest(c, "identifier or email is required", nil)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).First(&user).Error; err != nil {
		utils.LogError("Login failed, user not found: %s", identifier)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed, bad password for user ID: %d", user.ID)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.IsBlocked {
		utils.Forbidden(c, "Account is blocked")
		return
	}

	accessToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(&user)
	if err != nil {
		utils.LogError("Failed to generate refresh token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	// Bind the cookie session to the user and fold the guest cart into
	// their pending order. Best-effort: a merge failure never blocks login.
	session := sessions.Default(c)
	session.Set(utils.SessionKeyUserID, user.ID)
	_ = session.Save()
	if orderID, merged, err := mergeSessionCartIntoUserOrder(c, &user); err != nil {
		utils.LogError("Cart merge on login failed for user ID: %d: %v", user.ID, err)
	} else if merged {
		utils.LogInfo("Merged session cart into order ID: %d for user ID: %d", orderID, user.ID)
	}

	utils.LogInfo("User ID: %d logged in", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"access":  accessToken,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair
func RefreshToken(c *gin.Context) {
	utils.LogInfo("RefreshToken called")

	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	userID, err := utils.ValidateRefreshToken(req.Refresh)
	if err != nil {
		utils.LogError("Refresh token rejected: %v", err)
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.Unauthorized(c, "User not found")
		return
	}
	if user.IsBlocked {
		utils.Forbidden(c, "Account is blocked")
		return
	}

	accessToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.Success(c, "Token refreshed", gin.H{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

// Me returns the authenticated user's profile
func Me(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.Success(c, "Profile retrieved", gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
	})
}

// SessionLogin bridges a JWT-authenticated client onto the cookie
// session and merges the guest cart, for front-ends that obtained a
// token without going through LoginUser on this session.
func SessionLogin(c *gin.Context) {
	utils.LogInfo("SessionLogin called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	session := sessions.Default(c)
	session.Set(utils.SessionKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to establish session", nil)
		return
	}

	if orderID, merged, err := mergeSessionCartIntoUserOrder(c, &user); err != nil {
		utils.LogError("Cart merge failed for user ID: %d: %v", user.ID, err)
	} else if merged {
		utils.LogInfo("Merged session cart into order ID: %d for user ID: %d", orderID, user.ID)
	}

	utils.Success(c, "Session established", gin.H{"user_id": user.ID})
}

// SessionLogout drops the session's user binding and clears the cart
// keys so a logged-out visitor starts with an empty cart.
func SessionLogout(c *gin.Context) {
	utils.LogInfo("SessionLogout called")

	session := sessions.Default(c)
	session.Delete(utils.SessionKeyUserID)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session on logout: %v", err)
	}
	if err := utils.ClearCartSession(c); err != nil {
		utils.LogError("Failed to clear cart on logout: %v", err)
	}

	utils.Success(c, "Logged out", nil)
}
