package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/config"
	"jotter/jobs"
	"jotter/models"
	"jotter/routes"
	"jotter/utils"
)

func main() {
	// Load .env before reading the config.
	loadEnvFile()

	cfg := config.LoadConfig()

	utils.InitLogger(cfg.Env)

	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)

	if err := models.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	serviceContainer, err := routes.NewServiceContainer(ctx, db, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.MaxMultipartMemory = cfg.MaxFileSize

	api := router.Group("/api")
	routes.SetupRoutes(api, serviceContainer)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	if cfg.UsageReconcileInterval > 0 {
		reconciler := jobs.NewUsageReconciler(db, serviceContainer.StorageService, cfg.UsageReconcileInterval)
		go reconciler.Start(context.Background())
		log.Printf("Started usage reconciler running every %v", cfg.UsageReconcileInterval)
	}

	log.Printf("Starting Jotter server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadEnvFile tries the usual .env locations and falls back to the system
// environment.
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not get working directory: %v", err)
		return
	}

	envPaths := []string{
		".env",
		"../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from: %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found, using system environment variables")
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		allowOrigin := ""
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == requestOrigin {
					allowOrigin = allowedOrigin
					break
				}
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
