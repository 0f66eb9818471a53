package article

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/identity"
	articleModel "terminal-terrace/conduit/internal/model/article"
)

type ArticleHandler struct {
	service ArticleService
}

// NewArticleHandler 创建处理器实例
func NewArticleHandler(service ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// ListArticles 文章列表
// @Summary 获取文章列表（过滤、分页）
// @Tags Article
// @Produce json
// @Param tag query string false "标签"
// @Param author query string false "作者用户名"
// @Param favorited query string false "收藏者用户名"
// @Param limit query int false "数量"
// @Param offset query int false "偏移"
// @Success 200 {object} MultipleArticlesResponse
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	filter := Filter{
		Tag:         params.Tag,
		Author:      params.Author,
		FavoritedBy: params.Favorited,
		Page:        Page{Limit: params.Limit, Offset: params.Offset},
	}
	views, total, err := h.service.List(c.Request.Context(), filter, identity.OptionalUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MultipleArticlesResponse{Articles: views, ArticlesCount: total})
}

// CreateArticle 创建文章
// @Summary 创建文章
// @Tags Article
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateArticleRequest true "创建文章请求"
// @Success 201 {object} SingleArticleResponse
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), identity.MustUserID(c), CreateInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, a)
}

// GetArticle 文章详情
// @Summary 获取文章详情
// @Tags Article
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} SingleArticleResponse
// @Failure 404 {object} response.Response
// @Router /articles/{slug} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	a, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, a)
}

// UpdateArticle 更新文章，只有作者可以修改
// @Summary 更新文章
// @Tags Article
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "文章 slug"
// @Param request body UpdateArticleRequest true "需要修改的字段"
// @Success 200 {object} SingleArticleResponse
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /articles/{slug} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req UpdateArticleRequest
	// 只接受允许修改的字段
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

	a, err := h.service.Update(c.Request.Context(), identity.MustUserID(c), c.Param("slug"), UpdateInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, a)
}

// DeleteArticle 删除文章
// @Summary 删除文章
// @Tags Article
// @Security BearerAuth
// @Param slug path string true "文章 slug"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /articles/{slug} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identity.MustUserID(c), c.Param("slug")); err != nil {
		dto.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FavoriteArticle 收藏文章（幂等）
// @Summary 收藏文章
// @Tags Favorite
// @Produce json
// @Security BearerAuth
// @Param slug path string true "文章 slug"
// @Success 200 {object} SingleArticleResponse
// @Router /articles/{slug}/favorites [post]
func (h *ArticleHandler) FavoriteArticle(c *gin.Context) {
	a, err := h.service.Favorite(c.Request.Context(), identity.MustUserID(c), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, a)
}

// UnfavoriteArticle 取消收藏（幂等）
// @Summary 取消收藏
// @Tags Favorite
// @Produce json
// @Security BearerAuth
// @Param slug path string true "文章 slug"
// @Success 200 {object} SingleArticleResponse
// @Router /articles/{slug}/favorites [delete]
func (h *ArticleHandler) UnfavoriteArticle(c *gin.Context) {
	a, err := h.service.Unfavorite(c.Request.Context(), identity.MustUserID(c), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	h.respond(c, http.StatusOK, a)
}

func (h *ArticleHandler) respond(c *gin.Context, status int, a *articleModel.Article) {
	views, err := h.service.Present(c.Request.Context(), []articleModel.Article{*a}, identity.OptionalUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	c.JSON(status, SingleArticleResponse{Article: views[0]})
}
