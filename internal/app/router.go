package app

import (
	"net/http"

	"score_predictor_backend/docs"
	"score_predictor_backend/internal/config"
	"score_predictor_backend/internal/middleware"
	"score_predictor_backend/internal/util"
	"score_predictor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		util.Error(ctx, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.NoRoute(func(ctx *gin.Context) {
		util.Error(ctx, http.StatusNotFound, "Route not found")
	})

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 预测相关，需要 Bearer Token
	predictions := router.Group("/api/predictions")
	predictions.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		predictions.POST("/predict", c.prediction.Predict)
		predictions.GET("/list/:userId", c.prediction.ListPredictions)
		predictions.GET("/:predictionId", c.prediction.GetPrediction)
	}
}
