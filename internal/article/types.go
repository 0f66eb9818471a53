package article

import (
	"time"

	"terminal-terrace/conduit/internal/dto"
	articleModel "terminal-terrace/conduit/internal/model/article"
)

// CreateInput 新建文章
type CreateInput struct {
	Title       string
	Description string
	Body        string
	// nil 视为空列表
	TagList []string
}

// UpdateInput 只合并非 nil 的字段
type UpdateInput struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// Page 分页参数，Limit 为 nil 时使用列表上限
type Page struct {
	Limit  *int
	Offset *int
}

// Filter 列表过滤条件，用户名无法解析时结果为空
type Filter struct {
	Tag         string
	Author      string
	FavoritedBy string
	Page
}

// View 带请求者相关标记的文章
type View struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	TagList        []string    `json:"tagList"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int         `json:"favoritesCount"`
	Author         dto.Profile `json:"author"`
}

func newView(a *articleModel.Article, author dto.Profile, favorited bool) View {
	tags := []string(a.TagList)
	if tags == nil {
		tags = []string{}
	}
	return View{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: a.FavoritedCount,
		Author:         author,
	}
}

// ========== HTTP 请求与响应 ==========

type CreateArticleRequest struct {
	Article struct {
		Title       string   `json:"title" binding:"required,max=255"`
		Description string   `json:"description" binding:"required"`
		Body        string   `json:"body" binding:"required"`
		TagList     []string `json:"tagList" binding:"omitempty,dive,required,max=50"`
	} `json:"article"`
}

// UpdateArticleFields 未列出的字段会被拒绝
type UpdateArticleFields struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string   `json:"description" binding:"omitempty,min=1"`
	Body        *string   `json:"body" binding:"omitempty,min=1"`
	TagList     *[]string `json:"tagList" binding:"omitempty,dive,required,max=50"`
}

type UpdateArticleRequest struct {
	Article UpdateArticleFields `json:"article"`
}

type ListQueryParams struct {
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Favorited string `form:"favorited"`
	Limit     *int   `form:"limit" binding:"omitempty,min=0"`
	Offset    *int   `form:"offset"`
}

type FeedQueryParams struct {
	Limit  *int `form:"limit" binding:"omitempty,min=0"`
	Offset *int `form:"offset"`
}

type SingleArticleResponse struct {
	Article View `json:"article"`
}

type MultipleArticlesResponse struct {
	Articles      []View `json:"articles"`
	ArticlesCount int64  `json:"articlesCount"`
}
