package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"terminal-terrace/conduit/internal/article"
	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/identity"
)

type FeedHandler struct {
	service FeedService
}

// NewFeedHandler 创建处理器实例
func NewFeedHandler(service FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// GetFeed 已关注作者的文章
// @Summary 个人动态
// @Tags Article
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量"
// @Param offset query int false "偏移"
// @Success 200 {object} article.MultipleArticlesResponse
// @Failure 401 {object} response.Response
// @Router /articles/feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	var params article.FeedQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	views, total, err := h.service.PersonalizedFeed(c.Request.Context(), identity.MustUserID(c), article.Page{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, article.MultipleArticlesResponse{Articles: views, ArticlesCount: total})
}

// SetupFeedRoutes 需要在文章路由之前或同一分组内注册
func SetupFeedRoutes(router *gin.RouterGroup, handler *FeedHandler, requireAuth gin.HandlerFunc) {
	router.GET("/articles/feed", requireAuth, handler.GetFeed)
}
