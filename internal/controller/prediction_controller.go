package controller

import (
	"encoding/json"
	"strconv"

	"score_predictor_backend/internal/service"
	"score_predictor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	PredictionService *service.PredictionService
}

func NewPredictionController(predictionService *service.PredictionService) *PredictionController {
	return &PredictionController{PredictionService: predictionService}
}

// Predict godoc
// @Summary 预测学生考试成绩
// @Description 校验问卷，归一化后送入模型推理，生成建议并保存预测记录
// @Tags 预测
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   body body service.PredictRequest true "学生问卷"
// @Success 200 {object} util.Response{data=service.PredictResult} "预测成功"
// @Failure 400 {object} util.Response "字段缺失或格式错误"
// @Failure 401 {object} util.Response "未认证"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 500 {object} util.Response "模型加载失败或服务器内部错误"
// @Router /predictions/predict [post]
func (c *PredictionController) Predict(ctx *gin.Context) {
	var req service.PredictRequest
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		util.BadRequest(ctx, "invalid request body: "+err.Error())
		return
	}

	result, err := c.PredictionService.Predict(ctx.Request.Context(), &req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, "Prediction created successfully", result)
}

// GetPrediction godoc
// @Summary 获取预测详情
// @Tags 预测
// @Security BearerAuth
// @Produce  json
// @Param   predictionId path string true "预测ID (UUID)"
// @Success 200 {object} util.Response{data=model.PredictionDetail} "成功"
// @Failure 400 {object} util.Response "ID 格式错误"
// @Failure 401 {object} util.Response "未认证"
// @Failure 404 {object} util.Response "预测不存在"
// @Router /predictions/{predictionId} [get]
func (c *PredictionController) GetPrediction(ctx *gin.Context) {
	detail, err := c.PredictionService.GetPrediction(ctx.Request.Context(), ctx.Param("predictionId"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, "Prediction retrieved successfully", detail)
}

// ListPredictions godoc
// @Summary 分页获取用户的预测历史
// @Description 按创建时间倒序
// @Tags 预测
// @Security BearerAuth
// @Produce  json
// @Param   userId path string true "用户ID (UUID)"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量 (最大 100)" default(5)
// @Success 200 {object} util.Response{data=service.PredictionList} "成功"
// @Failure 400 {object} util.Response "ID 格式错误"
// @Failure 401 {object} util.Response "未认证"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /predictions/list/{userId} [get]
func (c *PredictionController) ListPredictions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))

	list, err := c.PredictionService.ListPredictions(ctx.Request.Context(), ctx.Param("userId"), page, limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, "Predictions retrieved successfully", list)
}
