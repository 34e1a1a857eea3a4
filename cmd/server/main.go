package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/config"
	"erp_backoffice/internal/database"
	"erp_backoffice/internal/metrics"
	"erp_backoffice/internal/middleware"
	"erp_backoffice/internal/router"
	"erp_backoffice/pkg/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	utils.InitJWT(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	database.InitDB(cfg.DB)
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.DB.Host, "name": cfg.DB.Name})

	redisClient := database.NewRedisClient(cfg.Redis)
	utils.LogInfo("Redis connected", map[string]interface{}{"host": cfg.Redis.Host})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	var allowedOrigins []string
	if cfg.Server.CORSAllowedOrigins != "" {
		allowedOrigins = strings.Split(cfg.Server.CORSAllowedOrigins, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	rateLimit, err := middleware.RateLimit(cfg.Server.RateLimit)
	if err != nil {
		log.Fatalf("Invalid rate limit format %q: %v", cfg.Server.RateLimit, err)
	}
	engine.Use(rateLimit)

	httpMetrics := metrics.New(cfg.Server.MetricsPrefix)
	engine.Use(httpMetrics.Middleware())
	engine.GET("/metrics", metrics.Handler())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Setup(engine, database.GetDB(), redisClient)

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Server.Port})
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
