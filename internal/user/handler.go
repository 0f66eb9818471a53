package user

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/identity"
)

type UserHandler struct {
	service UserService
}

// NewUserHandler 创建处理器实例
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register 注册
// @Summary 注册
// @Tags User
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求"
// @Success 201 {object} UserResponse
// @Failure 422 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.service.Register(c.Request.Context(), RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, UserResponse{User: *u})
}

// Login 登录
// @Summary 登录
// @Tags User
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} UserResponse
// @Failure 422 {object} response.Response
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.service.Login(c.Request.Context(), req.User.Email, req.User.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// Me 当前用户
// @Summary 获取当前用户
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} response.Response
// @Router /user [get]
func (h *UserHandler) Me(c *gin.Context) {
	id := identity.FromContext(c)
	u, err := h.service.Current(c.Request.Context(), identity.MustUserID(c), id.Token)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// Update 更新当前用户
// @Summary 更新当前用户
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "需要修改的字段"
// @Success 200 {object} UserResponse
// @Failure 422 {object} response.Response
// @Router /user [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), identity.MustUserID(c), UpdateInput{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *u})
}

// Logout 吊销当前令牌
// @Summary 注销
// @Tags User
// @Security BearerAuth
// @Success 204
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	id := identity.FromContext(c)
	if err := h.service.Logout(c.Request.Context(), id.TokenID, id.ExpiresAt); err != nil {
		dto.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func SetupUserRoutes(router *gin.RouterGroup, handler *UserHandler, requireAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("", handler.Register)
		users.POST("/login", handler.Login)
		users.POST("/logout", requireAuth, handler.Logout)
	}
	router.GET("/user", requireAuth, handler.Me)
	router.PUT("/user", requireAuth, handler.Update)
}
