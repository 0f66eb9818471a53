package article

import "github.com/gin-gonic/gin"

// SetupArticleRoutes 注册文章与收藏路由
// requireAuth 挂在需要登录的路由上，身份解析已在上层完成
func SetupArticleRoutes(router *gin.RouterGroup, handler *ArticleHandler, requireAuth gin.HandlerFunc) {
	articles := router.Group("/articles")
	{
		articles.GET("", handler.ListArticles)
		articles.GET("/:slug", handler.GetArticle)

		articles.POST("", requireAuth, handler.CreateArticle)
		articles.PUT("/:slug", requireAuth, handler.UpdateArticle)
		articles.DELETE("/:slug", requireAuth, handler.DeleteArticle)

		articles.POST("/:slug/favorites", requireAuth, handler.FavoriteArticle)
		articles.DELETE("/:slug/favorites", requireAuth, handler.UnfavoriteArticle)
	}
}
