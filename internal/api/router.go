package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourname/symptomtracker/internal/auth"
	"github.com/yourname/symptomtracker/internal/config"
)

func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(app.Logger()))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware(provider, cfg))
	api.POST("/ai-insights", PostInsights(app))
	api.POST("/symptoms", PostSymptom(app))
	api.GET("/symptoms", GetSymptoms(app))
	api.GET("/symptoms/stats", GetSymptomStats(app))
	api.PATCH("/symptoms/:id", PatchSymptom(app))
	api.DELETE("/symptoms/:id", DeleteSymptom(app))
	api.POST("/custom-fields", PostCustomField(app))
	api.GET("/custom-fields", GetCustomFields(app))
	api.DELETE("/custom-fields/:id", DeleteCustomField(app))

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
