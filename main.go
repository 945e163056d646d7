package main

import (
	"WalkyTalky/config"
	_ "WalkyTalky/config/swagger"
	"WalkyTalky/metrics"
	"WalkyTalky/middleware"
	"WalkyTalky/routes"
	"WalkyTalky/services/party"
	"WalkyTalky/services/redis"
	"WalkyTalky/services/socket_io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title WalkyTalky API
// @version 1.0
// @description Gin-Gonic server for the WalkyTalky party chat API
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	metrics.InitMetrics()

	partyService := party.NewPartyService(gormDB, redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	sio := &socket_io.SocketServer{}
	sio.Start(r, gormDB)
	defer sio.Close()

	routes.SetupRoutes(r, partyService, sio)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
