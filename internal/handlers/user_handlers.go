package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- User Registration ---

// RegisterUserInput is the sign-up payload. The email is also the user name.
type RegisterUserInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required"`
	MiddleName  string `json:"middleName"`
	Surname     string `json:"surname" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register is the handler for POST /v1/register
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 2. --- Create User Model ---
	user := &models.User{
		ID:         uuid.NewString(),
		UserName:   email,
		Email:      email,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		Surname:    input.Surname,
		Role:       models.RoleUser,
		CreatedAt:  h.now(),
	}
	if phone := strings.TrimSpace(input.PhoneNumber); phone != "" {
		user.PhoneNumber = &phone
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user.PasswordHash = password.Hash

	// 4. --- Save to Database ---
	db := h.DB.WithContext(c.Request.Context())
	var taken int64
	if err := db.Model(&models.User{}).Where("user_name = ?", email).Count(&taken).Error; err != nil {
		h.respondError(c, err)
		return
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}
	if err := db.Create(user).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"user":    user,
	})
}

// --- Login ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
// On success the session cart moves to the user's name.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Find User & Check Password ---
	var user models.User
	err := h.DB.WithContext(c.Request.Context()).
		Where("user_name = ?", strings.ToLower(strings.TrimSpace(input.Email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.respondError(c, err)
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 3. --- Issue Token ---
	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 4. --- Move the anonymous cart ---
	// Not atomic with sign-in: if this fails the anonymous lines stay behind.
	session := sessions.Default(c)
	if oldID, ok := session.Get(cart.SessionKey).(string); ok && oldID != "" {
		if err := cart.New(h.DB, oldID).Reassign(c.Request.Context(), user.UserName); err != nil {
			h.Logger.Error("cart reassignment failed", "from", oldID, "to", user.UserName, "error", err)
		}
	}
	session.Set(cart.SessionKey, user.UserName)
	h.saveSession(session)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me is the handler for GET /v1/me
func (h *Handlers) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
