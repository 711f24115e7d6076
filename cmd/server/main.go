package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"simplebanking/internal/api"
	"simplebanking/internal/bank"
	"simplebanking/internal/config"
	"simplebanking/internal/db"
	"simplebanking/internal/middleware"

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

	// Setup Data Source Name (DSN) and connect to the database.
	// TranslateError turns duplicate-key violations into gorm.ErrDuplicatedKey.
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	store := db.NewStore(gdb)
	svc := bank.NewService(store, store)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	auth := middleware.AuthMiddleware(cfg.JWTSecret, cfg.AdminToken)

	// Session route (open)
	r.POST("/session", api.LoginHandler(svc, cfg.JWTSecret))

	// User routes
	userGroup := r.Group("/user")
	userGroup.Use(auth)
	userGroup.POST("/", middleware.AdminOnlyMiddleware(svc), api.CreateUserHandler(svc, redisClient))
	userGroup.GET("/list", api.ListUsersHandler(svc, redisClient))
	userGroup.GET("/me", api.MeHandler(svc))

	// Account routes (owner only, enforced in the core)
	accountGroup := r.Group("/account")
	accountGroup.Use(auth)
	accountGroup.GET("/:id", api.GetAccountHandler(svc, redisClient))
	accountGroup.POST("/deposit/:id", api.DepositHandler(svc, redisClient))
	accountGroup.POST("/withdraw/:id", api.WithdrawHandler(svc, redisClient))

	// Transfer route
	r.POST("/transfer", auth, api.TransferHandler(svc, redisClient))

	log.Println("Server running on " + cfg.AppPort)
	r.Run(":" + cfg.AppPort)
}
