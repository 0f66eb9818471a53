// Package tag 标签目录
package tag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"terminal-terrace/conduit/internal/dto"
)

type TagsResponse struct {
	Tags []string `json:"tags"`
}

type TagHandler struct {
	repo TagRepository
}

func NewTagHandler(repo TagRepository) *TagHandler {
	return &TagHandler{repo: repo}
}

// ListTags 获取标签列表
// @Summary 获取标签列表
// @Tags Tag
// @Produce json
// @Success 200 {object} TagsResponse
// @Router /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.repo.ListInUse(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, TagsResponse{Tags: tags})
}

func SetupTagRoutes(router *gin.RouterGroup, handler *TagHandler) {
	router.GET("/tags", handler.ListTags)
}
