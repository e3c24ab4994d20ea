package controller

import (
	"net/http"

	"score_predictor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ModelStatus reports whether the inference model is resident.
type ModelStatus interface {
	Loaded() bool
}

type HealthController struct {
	DB    *gorm.DB
	Model ModelStatus
}

func NewHealthController(db *gorm.DB, model ModelStatus) *HealthController {
	return &HealthController{DB: db, Model: model}
}

// @Summary 健康检查
// @Description 检查数据库连接和模型加载状态。模型尚未加载不影响健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "数据库不可用"
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	modelState := "not_loaded"
	if c.Model != nil && c.Model.Loaded() {
		modelState = "loaded"
	}

	util.Success(ctx, "OK", gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"model":    modelState,
		},
	})
}
