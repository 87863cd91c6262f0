package main

import (
	"brokerage_backoffice/internal/api"        // Custom package for API handlers
	"brokerage_backoffice/internal/config"     // Custom package for configuration
	"brokerage_backoffice/internal/middleware" // Custom package for middleware
	"context"                                  // context package is needed for Redis operations
	"log"                                      // log package is needed for logging

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// PORT is mandatory; exit immediately if absent
	if cfg.Port == "" {
		logrus.Fatal("PORT is not set")
	}

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Login is the only unauthenticated route
	r.POST("/api/auth/login", api.LoginHandler(db, redisClient, cfg.JWTSecret))

	// Authenticated routes (JWT + server-side session)
	authGroup := r.Group("/api")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient))
	authGroup.POST("/auth/logout", api.LogoutHandler(redisClient))                    // Logout endpoint
	authGroup.GET("/users/me", api.GetMeHandler(db))                                  // Own record, self-service projection
	authGroup.PUT("/users/me", api.UpdateMeHandler(db, redisClient))                  // Self-service update
	authGroup.GET("/users/trades/:userId", api.GetUserTradesHandler(db, redisClient)) // Trades dashboard
	authGroup.POST("/trades", api.CreateTradeHandler(db, redisClient))                // Atomic trade entry

	// Admin routes (authenticated, admin only)
	adminGroup := authGroup.Group("")
	adminGroup.Use(middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/clients", api.ListClientsHandler(db, redisClient))        // List clients endpoint
	adminGroup.GET("/clients/:id", api.GetClientHandler(db))                   // Get client endpoint
	adminGroup.POST("/clients", api.CreateClientHandler(db, redisClient))      // Create client endpoint
	adminGroup.PUT("/clients/:id", api.UpdateClientHandler(db, redisClient))   // Update client endpoint
	adminGroup.DELETE("/clients/:id", api.DeleteClientHandler(db, redisClient)) // Delete client endpoint
	adminGroup.GET("/users", api.AdminListUsersHandler(db, redisClient))       // List users endpoint
	adminGroup.GET("/users/:id", api.AdminGetUserHandler(db))                  // Get user endpoint
	adminGroup.POST("/users", api.AdminCreateUserHandler(db, redisClient))     // Create user endpoint
	adminGroup.PUT("/users/:id", api.AdminUpdateUserHandler(db, redisClient))  // Update user endpoint
	adminGroup.DELETE("/users/:id", api.DeleteUserHandler(db, redisClient))    // Delete user endpoint
	adminGroup.PUT("/accounts/:id", api.UpdateAccountHandler(db, redisClient)) // Balance overwrite endpoint
	adminGroup.GET("/trades", api.ListTradesHandler(db, redisClient))          // List trades endpoint

	log.Println("Server running on " + cfg.Port) // Log server start
	r.Run(":" + cfg.Port)                        // Start the server on port cfg.Port
}
