package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"brokerage_backoffice/internal/domain"  // Domain models
	"brokerage_backoffice/internal/service" // Service layer
	"brokerage_backoffice/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// clientListCacheKey caches the full client list for the admin dashboard
const clientListCacheKey = "clients:all"

// paramID parses the numeric :id (or named) path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(v), true
}

// CreateClientRequest is the whitelist of writable fields on create
type CreateClientRequest struct {
	Name string `json:"name" binding:"required"` // Client name
	Type string `json:"type" binding:"required"` // Client type
}

// UpdateClientRequest additionally allows assigning an account rep
type UpdateClientRequest struct {
	Name         string `json:"name" binding:"required"` // Client name
	Type         string `json:"type" binding:"required"` // Client type
	AccountRepID *uint  `json:"accountRepId"`            // Designated account rep, optional
}

// ListClientsHandler returns all clients with their account, user contacts
// and account rep eagerly loaded
func ListClientsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		clients, err := cachedClients(ctx, db, rdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

// GetClientHandler returns a single client; 404 when absent
func GetClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		client, err := service.GetClientByID(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// CreateClientHandler creates a client from the whitelisted fields
func CreateClientHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		client, err := service.CreateClient(db, req.Name, req.Type)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
			return
		}
		// Invalidate the client list cache
		_ = utils.DeleteCache(context.Background(), rdb, clientListCacheKey)
		c.JSON(http.StatusCreated, client)
	}
}

// UpdateClientHandler updates the whitelisted fields of a client
func UpdateClientHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req UpdateClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		client, err := service.UpdateClientByID(db, id, req.Name, req.Type, req.AccountRepID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
			return
		}
		// Invalidate the client list cache
		_ = utils.DeleteCache(context.Background(), rdb, clientListCacheKey)
		c.JSON(http.StatusOK, client)
	}
}

// DeleteClientHandler deletes a client; 404 when already gone
func DeleteClientHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := service.DeleteClientByID(db, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
			return
		}
		// Invalidate the client list cache
		_ = utils.DeleteCache(context.Background(), rdb, clientListCacheKey)
		c.Status(http.StatusNoContent)
	}
}

// cachedClients serves the client list through the Redis read-through cache
func cachedClients(ctx context.Context, db *gorm.DB, rdb *redis.Client) ([]domain.Client, error) {
	var cached []domain.Client
	if found, err := utils.GetCache(ctx, rdb, clientListCacheKey, &cached); err == nil && found {
		return cached, nil
	}
	clients, err := service.ListClients(db)
	if err != nil {
		return nil, err
	}
	// Cache the response for future requests
	_ = utils.SetCache(ctx, rdb, clientListCacheKey, clients, 60*time.Second)
	return clients, nil
}
