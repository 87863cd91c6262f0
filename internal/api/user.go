package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Time durations

	"brokerage_backoffice/internal/service" // Service layer
	"brokerage_backoffice/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// userListCacheKey caches the admin user listing
const userListCacheKey = "users:admin:all"

// AdminUserRequest is the whitelist of writable user fields for the admin
// create/update endpoints; the generated id is never writable
type AdminUserRequest struct {
	Email     string `json:"email" binding:"required,email"`             // Login email
	FirstName string `json:"firstName" binding:"required"`               // First name
	LastName  string `json:"lastName" binding:"required"`                // Last name
	Password  string `json:"password" binding:"required,min=8"`          // Plaintext password, hashed before storage
	Role      string `json:"role" binding:"required,oneof=admin client"` // Role
	ClientID  *uint  `json:"clientId"`                                   // Client the user belongs to, optional
}

// SelfUserRequest is what a client user may change on their own record;
// role is deliberately absent
type SelfUserRequest struct {
	Email     string `json:"email" binding:"required,email"`    // Login email
	FirstName string `json:"firstName" binding:"required"`      // First name
	LastName  string `json:"lastName" binding:"required"`       // Last name
	Password  string `json:"password" binding:"required,min=8"` // Plaintext password, hashed before storage
}

// AdminListUsersHandler returns all users in the password-free admin projection
func AdminListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Try to get cached response
		var cached []service.AdminUserView
		if found, err := utils.GetCache(ctx, rdb, userListCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		users, err := service.AdminListUsers(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, userListCacheKey, users, 60*time.Second)
		c.JSON(http.StatusOK, users)
	}
}

// AdminGetUserHandler returns a single user in the admin projection
func AdminGetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		user, err := service.AdminGetUserByID(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// AdminCreateUserHandler creates a user with a bcrypt-hashed password
func AdminCreateUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password before it ever reaches the store
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user, err := service.AdminCreateUser(db, service.AdminUserInput{
			Email:     strings.ToLower(req.Email), // Lowercase email to ensure uniqueness
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
			Role:      req.Role,
			ClientID:  req.ClientID,
		})
		if err != nil {
			// Most likely the store-level unique email constraint
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		// Invalidate the user list cache
		_ = utils.DeleteCache(context.Background(), rdb, userListCacheKey)
		c.JSON(http.StatusCreated, user)
	}
}

// AdminUpdateUserHandler updates the whitelisted fields of a user
func AdminUpdateUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req AdminUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password before it ever reaches the store
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user, err := service.AdminUpdateUserByID(db, id, service.AdminUserInput{
			Email:     strings.ToLower(req.Email),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
			Role:      req.Role,
			ClientID:  req.ClientID,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		// Invalidate the user list cache
		_ = utils.DeleteCache(context.Background(), rdb, userListCacheKey)
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler deletes a user; 404 when already gone
func DeleteUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := service.DeleteUserByID(db, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		// Invalidate the user list cache
		_ = utils.DeleteCache(context.Background(), rdb, userListCacheKey)
		c.Status(http.StatusNoContent)
	}
}

// GetMeHandler returns the authenticated user's own record in the
// self-service projection
func GetMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := service.ClientGetUserByID(db, userID.(uint))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateMeHandler updates the authenticated user's own record; the role
// can never be changed through this endpoint
func UpdateMeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SelfUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password before it ever reaches the store
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user, err := service.ClientUpdateUserByID(db, userID.(uint), service.SelfUserInput{
			Email:     strings.ToLower(req.Email),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		// Invalidate the user list cache
		_ = utils.DeleteCache(context.Background(), rdb, userListCacheKey)
		c.JSON(http.StatusOK, user)
	}
}

// GetUserTradesHandler returns the trades dashboard for a user: the client
// display name and its custody account with balances and trade history.
// Served through the Redis read-through cache; trade entry and balance
// updates invalidate it.
func GetUserTradesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramID(c, "userId")
		if !ok {
			return
		}
		ctx := context.Background()           // Context for Redis operations
		cacheKey := utils.DashboardKey(userID) // Cache key for the dashboard
		var cached service.Dashboard
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		dashboard, err := service.GetUserDashboard(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found for user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades"})
			return
		}
		// Cache the dashboard for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, dashboard, 60*time.Second)
		c.JSON(http.StatusOK, dashboard)
	}
}
