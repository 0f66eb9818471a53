// Package article 文章的增删改查、过滤分页列表以及收藏入口
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/errs"
	"terminal-terrace/conduit/internal/favorite"
	"terminal-terrace/conduit/internal/follow"
	articleModel "terminal-terrace/conduit/internal/model/article"
	userModel "terminal-terrace/conduit/internal/model/user"
)

const (
	maxSlugAttempts = 5
	// DefaultMaxListLimit 未配置时的列表上限
	DefaultMaxListLimit = 1000
)

var (
	ErrArticleNotFound = fmt.Errorf("article does not exist: %w", errs.ErrNotFound)
	ErrNotAuthor       = fmt.Errorf("only the author can modify this article: %w", errs.ErrForbidden)
	ErrSlugExhausted   = fmt.Errorf("could not allocate a unique slug: %w", errs.ErrConflict)
	ErrEmptyField      = fmt.Errorf("title, description and body cannot be empty: %w", errs.ErrValidationFailed)
)

// SlugGenerator 生成候选 slug，不保证唯一
type SlugGenerator interface {
	Generate(title string) (string, error)
}

// UserFinder 用户查询，user.UserRepository 满足该接口
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*userModel.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]userModel.User, error)
}

// ArticleService 文章服务接口
type ArticleService interface {
	Create(ctx context.Context, authorID uint, in CreateInput) (*articleModel.Article, error)
	GetBySlug(ctx context.Context, slug string) (*articleModel.Article, error)
	Update(ctx context.Context, requesterID uint, slug string, in UpdateInput) (*articleModel.Article, error)
	Delete(ctx context.Context, requesterID uint, slug string) error

	List(ctx context.Context, filter Filter, requesterID *uint) ([]View, int64, error)
	// ListByAuthors 供个人动态使用，authorIDs 为空时返回空结果
	ListByAuthors(ctx context.Context, authorIDs []uint, page Page, requesterID *uint) ([]View, int64, error)

	Favorite(ctx context.Context, userID uint, slug string) (*articleModel.Article, error)
	Unfavorite(ctx context.Context, userID uint, slug string) (*articleModel.Article, error)

	// Present 附加 favorited 与作者的 following 标记
	Present(ctx context.Context, articles []articleModel.Article, requesterID *uint) ([]View, error)
}

// Option 配置服务实例
type Option func(*articleService)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(s *articleService) {
		s.now = now
	}
}

// WithMaxListLimit 设置列表上限
func WithMaxListLimit(limit int) Option {
	return func(s *articleService) {
		if limit > 0 {
			s.maxListLimit = limit
		}
	}
}

type articleService struct {
	repo      ArticleRepository
	db        *gorm.DB
	slugs     SlugGenerator
	users     UserFinder
	favorites favorite.FavoriteService
	follows   follow.FollowService

	now          func() time.Time
	maxListLimit int
}

// NewArticleService 创建服务实例
func NewArticleService(
	repo ArticleRepository,
	db *gorm.DB,
	slugs SlugGenerator,
	users UserFinder,
	favorites favorite.FavoriteService,
	follows follow.FollowService,
	opts ...Option,
) ArticleService {
	s := &articleService{
		repo:         repo,
		db:           db,
		slugs:        slugs,
		users:        users,
		favorites:    favorites,
		follows:      follows,
		now:          time.Now,
		maxListLimit: DefaultMaxListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *articleService) Create(ctx context.Context, authorID uint, in CreateInput) (*articleModel.Article, error) {
	if strings.TrimSpace(in.Title) == "" || in.Description == "" || in.Body == "" {
		return nil, ErrEmptyField
	}
	tags := normalizeTags(in.TagList)

	// 每次尝试使用独立事务，postgres 中唯一约束失败后原事务不可继续
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		a, err := s.tryCreate(ctx, authorID, in, tags)
		if errors.Is(err, errSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, ErrSlugExhausted
}

// tryCreate 生成一个候选 slug 并写入，slug 已被占用时返回 errSlugTaken
func (s *articleService) tryCreate(ctx context.Context, authorID uint, in CreateInput, tags []string) (*articleModel.Article, error) {
	now := s.now()
	a := &articleModel.Article{
		Title:          in.Title,
		Description:    in.Description,
		Body:           in.Body,
		TagList:        datatypes.JSONSlice[string](tags),
		AuthorID:       authorID,
		CreatedAt:      now,
		UpdatedAt:      now,
		FavoritedCount: 0,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		candidate, err := s.slugs.Generate(in.Title)
		if err != nil {
			return fmt.Errorf("生成 slug 失败: %w", err)
		}
		exists, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if exists {
			return errSlugTaken
		}
		a.Slug = candidate

		// 检查之后仍可能被并发请求抢占，由唯一索引兜底
		if err := repo.Create(ctx, a); err != nil {
			return fmt.Errorf("创建文章失败: %w", err)
		}
		if err := repo.ReplaceTags(ctx, a.ID, tags); err != nil {
			return fmt.Errorf("写入标签失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*articleModel.Article, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// loadOwned 先判断是否存在，再判断是否为作者
func (s *articleService) loadOwned(ctx context.Context, repo ArticleRepository, requesterID uint, slug string) (*articleModel.Article, error) {
	a, err := repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != requesterID {
		return nil, ErrNotAuthor
	}
	return a, nil
}

func (s *articleService) Update(ctx context.Context, requesterID uint, slug string, in UpdateInput) (*articleModel.Article, error) {
	var updated *articleModel.Article

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		a, err := s.loadOwned(ctx, repo, requesterID, slug)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if in.Title != nil {
			if strings.TrimSpace(*in.Title) == "" {
				return ErrEmptyField
			}
			a.Title = *in.Title
			fields["title"] = a.Title
		}
		if in.Description != nil {
			if *in.Description == "" {
				return ErrEmptyField
			}
			a.Description = *in.Description
			fields["description"] = a.Description
		}
		if in.Body != nil {
			if *in.Body == "" {
				return ErrEmptyField
			}
			a.Body = *in.Body
			fields["body"] = a.Body
		}
		if in.TagList != nil {
			tags := normalizeTags(*in.TagList)
			a.TagList = datatypes.JSONSlice[string](tags)
			fields["tag_list"] = a.TagList
			if err := repo.ReplaceTags(ctx, a.ID, tags); err != nil {
				return fmt.Errorf("写入标签失败: %w", err)
			}
		}

		a.UpdatedAt = s.now()
		fields["updated_at"] = a.UpdatedAt

		if err := repo.UpdateFields(ctx, a.ID, fields); err != nil {
			return fmt.Errorf("更新文章失败: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *articleService) Delete(ctx context.Context, requesterID uint, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		a, err := s.loadOwned(ctx, repo, requesterID, slug)
		if err != nil {
			return err
		}
		if err := s.favorites.DeleteByArticle(ctx, tx, a.ID); err != nil {
			return fmt.Errorf("删除收藏失败: %w", err)
		}
		if err := repo.DeleteTags(ctx, a.ID); err != nil {
			return fmt.Errorf("删除标签失败: %w", err)
		}
		if err := repo.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("删除文章失败: %w", err)
		}
		return nil
	})
}

func (s *articleService) List(ctx context.Context, filter Filter, requesterID *uint) ([]View, int64, error) {
	q := ListQuery{Tag: filter.Tag}
	q.Limit, q.Offset = s.paginate(filter.Page)

	if filter.Author != "" {
		author, err := s.users.FindByUsername(ctx, filter.Author)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return []View{}, 0, nil
			}
			return nil, 0, err
		}
		q.AuthorIDs = []uint{author.ID}
	}
	if filter.FavoritedBy != "" {
		fan, err := s.users.FindByUsername(ctx, filter.FavoritedBy)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return []View{}, 0, nil
			}
			return nil, 0, err
		}
		q.FavoritedBy = &fan.ID
	}

	return s.list(ctx, q, requesterID)
}

func (s *articleService) ListByAuthors(ctx context.Context, authorIDs []uint, page Page, requesterID *uint) ([]View, int64, error) {
	if len(authorIDs) == 0 {
		return []View{}, 0, nil
	}
	q := ListQuery{AuthorIDs: authorIDs}
	q.Limit, q.Offset = s.paginate(page)
	return s.list(ctx, q, requesterID)
}

func (s *articleService) list(ctx context.Context, q ListQuery, requesterID *uint) ([]View, int64, error) {
	articles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}
	views, err := s.Present(ctx, articles, requesterID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// paginate 缺省或超出上限时使用上限，负数按 0 处理
func (s *articleService) paginate(p Page) (limit, offset int) {
	limit = s.maxListLimit
	if p.Limit != nil && *p.Limit < limit {
		limit = max(*p.Limit, 0)
	}
	if p.Offset != nil {
		offset = max(*p.Offset, 0)
	}
	return limit, offset
}

func (s *articleService) Favorite(ctx context.Context, userID uint, slug string) (*articleModel.Article, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.Add(ctx, userID, a.ID); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *articleService) Unfavorite(ctx context.Context, userID uint, slug string) (*articleModel.Article, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.Remove(ctx, userID, a.ID); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *articleService) Present(ctx context.Context, articles []articleModel.Article, requesterID *uint) ([]View, error) {
	views := make([]View, 0, len(articles))
	if len(articles) == 0 {
		return views, nil
	}

	articleIDs := make([]uint, 0, len(articles))
	authorIDs := make([]uint, 0, len(articles))
	seen := make(map[uint]struct{}, len(articles))
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
		if _, ok := seen[a.AuthorID]; !ok {
			seen[a.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, a.AuthorID)
		}
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("查询作者失败: %w", err)
	}
	authorByID := make(map[uint]*userModel.User, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = &authors[i]
	}

	favorited := map[uint]struct{}{}
	following := map[uint]struct{}{}
	if requesterID != nil {
		if favorited, err = s.favorites.FavoritedAmong(ctx, *requesterID, articleIDs); err != nil {
			return nil, fmt.Errorf("查询收藏失败: %w", err)
		}
		if following, err = s.follows.FollowingAmong(ctx, *requesterID, authorIDs); err != nil {
			return nil, fmt.Errorf("查询关注失败: %w", err)
		}
	}

	for i := range articles {
		a := &articles[i]
		var profile dto.Profile
		if u, ok := authorByID[a.AuthorID]; ok {
			_, isFollowing := following[a.AuthorID]
			profile = dto.NewProfile(u, isFollowing)
		}
		_, isFavorited := favorited[a.ID]
		views = append(views, newView(a, profile, isFavorited))
	}
	return views, nil
}

// normalizeTags 去掉空白项，重复项保留第一次出现的位置
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
