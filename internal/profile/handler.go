package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/identity"
)

type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler 创建处理器实例
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile 获取用户资料
// @Summary 获取用户资料
// @Tags Profile
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} response.Response
// @Router /profiles/{username} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("username"), identity.OptionalUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: *p})
}

// FollowUser 关注
// @Summary 关注用户
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} response.Response
// @Router /profiles/{username}/follow [post]
func (h *ProfileHandler) FollowUser(c *gin.Context) {
	p, err := h.service.Follow(c.Request.Context(), identity.MustUserID(c), c.Param("username"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: *p})
}

// UnfollowUser 取消关注
// @Summary 取消关注
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Success 200 {object} dto.ProfileResponse
// @Router /profiles/{username}/follow [delete]
func (h *ProfileHandler) UnfollowUser(c *gin.Context) {
	p, err := h.service.Unfollow(c.Request.Context(), identity.MustUserID(c), c.Param("username"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: *p})
}

func SetupProfileRoutes(router *gin.RouterGroup, handler *ProfileHandler, requireAuth gin.HandlerFunc) {
	profiles := router.Group("/profiles")
	{
		profiles.GET("/:username", handler.GetProfile)
		profiles.POST("/:username/follow", requireAuth, handler.FollowUser)
		profiles.DELETE("/:username/follow", requireAuth, handler.UnfollowUser)
	}
}
