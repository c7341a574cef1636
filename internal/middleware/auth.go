package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/valuefurniture-golang/internal/auth"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
	RoleKey   = "userRole"
)

var errNoToken = errors.New("authorization header required")

// authenticate resolves the bearer token to a user. It returns errNoToken
// when the request carries no Authorization header.
func authenticate(c *gin.Context, tokens *auth.Tokens, db *gorm.DB) (*models.User, int, error) {
	// 1. --- Get Authorization Header ---
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, errNoToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, errors.New("invalid token format (must be Bearer)")
	}

	// 2. --- Validate Token ---
	userID, err := tokens.Validate(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid or expired token")
	}

	// 3. --- Load User ---
	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, errors.New("invalid user")
		}
		return nil, http.StatusInternalServerError, errors.New("database error loading user")
	}
	return &user, http.StatusOK, nil
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserKey, user)
	c.Set(RoleKey, user.Role)
}

// OptionalAuth identifies the user when a token is sent and lets anonymous
// requests through, so carts work before sign-in. A bad token is still
// rejected.
func OptionalAuth(tokens *auth.Tokens, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, status, err := authenticate(c, tokens, db)
		switch {
		case errors.Is(err, errNoToken):
			c.Next()
		case err != nil:
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		default:
			setUser(c, user)
			c.Next()
		}
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(tokens *auth.Tokens, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		user, status, err := authenticate(c, tokens, db)
		if err != nil {
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. It lets the request through when
// the user holds any of the roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found in context (RequireAuth must run first)"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: " + strings.Join(roles, " or ") + " role required"})
	}
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// IsAdmin reports whether the signed-in user is an administrator.
func IsAdmin(c *gin.Context) bool {
	user, ok := CurrentUser(c)
	return ok && user.Role == models.RoleAdministrator
}
