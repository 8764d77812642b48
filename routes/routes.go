package routes

import (
	"time"

	"mindful-backend/config"
	"mindful-backend/handlers/ping"
	"mindful-backend/middleware"
	"mindful-backend/realtime"
	"mindful-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.RecoveryWithWriter(utils.LogWriter()))
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigin)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", realtime.Default.ServeWS)

	health := ping.New()
	r.GET("/ping", health.HandlePing)

	api := r.Group("/api")
	api.GET("/hello", health.HandleHello)

	AuthRoutes(api)
	PostsRoutes(api)
	TagsRoutes(api)
	DoctorsRoutes(api)
	ChatRoutes(api, middleware.NewIPRateLimiter(cfg.ChatRatePerSecond, cfg.ChatRateBurst))
	AnalyticsRoutes(api)

	return r
}

// corsConfig allows credentials only for a concrete origin; browsers reject them alongside "*".
func corsConfig(origin string) cors.Config {
	return cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: origin != "*",
		MaxAge:           12 * time.Hour,
	}
}
