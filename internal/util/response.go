package util

import (
	"net/http"

	"score_predictor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Message       string      `json:"message"`
	Data          interface{} `json:"data"`
	StatusCode    int         `json:"statusCode"`
	StatusMessage string      `json:"statusMessage"`
}

// Pagination 分页信息
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalItems:   total,
		TotalPages:   pages,
	}
}

func JSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Message:       message,
		Data:          data,
		StatusCode:    code,
		StatusMessage: http.StatusText(code),
	})
}

func Success(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

func Error(c *gin.Context, code int, message string) {
	JSON(c, code, message, nil)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// Fail reports err with the status of its kind. Everything at 5xx is logged
// as an error, the rest at warn level.
func Fail(c *gin.Context, err error) {
	kind := KindOf(err)
	status := kind.Status()
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Log.Error("request failed", fields...)
	} else {
		logger.Log.Warn("request rejected", fields...)
	}

	message := MessageOf(err)
	if kind == KindDependency {
		message = err.Error()
	}
	Error(c, status, message)
}
