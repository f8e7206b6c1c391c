package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/juanguampe/student-distribution-tool/db"
	"github.com/juanguampe/student-distribution-tool/handlers"
)

func main() {
	// Run results are cached in Redis so downloads and seed reuse survive a
	// restart. Set REDIS_ADDR to point at another server.
	redisClient := db.InitializeRedisClient()
	store := db.NewRedisStore(redisClient)

	// Create API Handler (injecting the store)
	apiHandler := handlers.NewAPIHandler(store)

	// Initialize Gin router
	router := gin.Default()
	handlers.RegisterRoutes(router, apiHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
