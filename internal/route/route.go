package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "terminal-terrace/conduit/docs"
	"terminal-terrace/conduit/internal/article"
	"terminal-terrace/conduit/internal/favorite"
	"terminal-terrace/conduit/internal/feed"
	"terminal-terrace/conduit/internal/follow"
	"terminal-terrace/conduit/internal/identity"
	"terminal-terrace/conduit/internal/middleware"
	"terminal-terrace/conduit/internal/profile"
	"terminal-terrace/conduit/internal/session"
	"terminal-terrace/conduit/internal/slug"
	"terminal-terrace/conduit/internal/tag"
	"terminal-terrace/conduit/internal/user"
	"terminal-terrace/conduit/pkg/authsdk"
)

// Deps 路由依赖，由 main 显式构造
type Deps struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Tokens         *authsdk.TokenManager
	Revoker        session.Revoker // 为 nil 时不支持注销
	AllowedOrigins []string
	MaxListLimit   int

	// 以下为可选项，测试时替换
	Slugs       article.SlugGenerator
	UserOptions []user.Option
}

func initRoute(r *gin.Engine, deps Deps) {
	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	revoker := deps.Revoker
	if revoker == nil {
		revoker = session.NopRevoker{}
	}
	slugs := deps.Slugs
	if slugs == nil {
		slugs = slug.New(nil)
	}

	// 初始化依赖
	userRepo := user.NewUserRepository(deps.DB)
	followService := follow.NewFollowService(follow.NewFollowRepository(deps.DB))
	favoriteService := favorite.NewFavoriteService(favorite.NewFavoriteRepository(deps.DB), deps.DB)

	userService := user.NewUserService(userRepo, deps.Tokens, revoker, deps.UserOptions...)
	profileService := profile.NewProfileService(userRepo, followService)
	articleService := article.NewArticleService(
		article.NewArticleRepository(deps.DB),
		deps.DB,
		slugs,
		userRepo,
		favoriteService,
		followService,
		article.WithMaxListLimit(deps.MaxListLimit),
	)
	feedService := feed.NewFeedService(followService, articleService)

	// 初始化 handler
	userHandler := user.NewUserHandler(userService)
	profileHandler := profile.NewProfileHandler(profileService)
	articleHandler := article.NewArticleHandler(articleService)
	feedHandler := feed.NewFeedHandler(feedService)
	tagHandler := tag.NewTagHandler(tag.NewTagRepository(deps.DB))

	requireAuth := middleware.RequireIdentity()

	api := r.Group("/api")
	{
		user.SetupUserRoutes(api, userHandler, requireAuth)
		profile.SetupProfileRoutes(api, profileHandler, requireAuth)
		// feed 的静态路径需与 /articles/:slug 一起注册
		feed.SetupFeedRoutes(api, feedHandler, requireAuth)
		article.SetupArticleRoutes(api, articleHandler, requireAuth)
		tag.SetupTagRoutes(api, tagHandler)
	}
}

// SetupRouter 组装中间件链：日志 -> 身份解析 -> 路由级守卫 -> 绑定校验 -> 处理
func SetupRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:  deps.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}))

	var revoked identity.RevocationChecker
	if deps.Revoker != nil {
		revoked = deps.Revoker
	}
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.ResolveIdentity(identity.NewResolver(deps.Tokens, revoked)))

	initRoute(r, deps)

	return r
}
