package controller

import (
	"score_predictor_backend/internal/service"
	"score_predictor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// CredentialsRequest is the body of login and register.
// swagger:model CredentialsRequest
type CredentialsRequest struct {
	Username string `json:"username" example:"teacher01"`
	Password string `json:"password" example:"s3cret"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用用户名和密码注册，密码以 bcrypt 哈希保存
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名和密码"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, "User registered successfully", user)
}

// Login godoc
// @Summary 用户登录
// @Description 校验用户名和密码，返回 JWT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名和密码"
// @Success 200 {object} util.Response{data=service.LoginResult} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, "Login successful", result)
}
