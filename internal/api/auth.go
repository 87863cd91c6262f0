package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"brokerage_backoffice/internal/service" // Service layer
	"brokerage_backoffice/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// LoginRequest is the credentials payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Plaintext password
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token           string `json:"token"`           // JWT token
	CurrentUserID   uint   `json:"currentUserId"`   // Authenticated user ID
	CurrentUserName string `json:"currentUserName"` // Display name
	Role            string `json:"role"`            // Role: admin or client
}

// LoginHandler authenticates a user by email and password, issues a JWT and
// creates the server-side session entry (destroyed on logout or expiry)
func LoginHandler(db *gorm.DB, rdb *redis.Client, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Fetch the session projection by email
		user, err := service.GetUserSessionByEmail(db, strings.ToLower(req.Email))
		if err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Create the session; the token is only valid while the session lives
		if err := utils.CreateSession(context.Background(), rdb, user.ID, token, utils.SessionTTL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		// Return the token and session identity in the response
		c.JSON(http.StatusOK, AuthResponse{
			Token:           token,
			CurrentUserID:   user.ID,
			CurrentUserName: user.FirstName + " " + user.LastName,
			Role:            user.Role,
		})
	}
}

// LogoutHandler destroys the authenticated user's session, invalidating
// the token before its natural expiry
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := utils.DestroySession(context.Background(), rdb, userID.(uint)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to destroy session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
