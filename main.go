package main

import (
	"log"

	"mindful-backend/config"
	"mindful-backend/db"
	_ "mindful-backend/docs"
	"mindful-backend/routes"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
)

// @title Mindful Backend API
// @version 1.0
// @description Mental-health community API: posts, votes, comments, doctors and an AI companion
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogFile)
	gin.SetMode(cfg.GinMode)

	db.InitDB(cfg.DatabaseURL)
	utils.InitAssistant(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	if err := utils.InitCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
		utils.Logger.WithError(err).Warn("Cloudinary initialization failed, image uploads are disabled")
	}

	r := routes.SetupRouter(cfg)

	utils.LogInfo("Server listening on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
