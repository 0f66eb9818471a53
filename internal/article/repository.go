package article

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	articleModel "terminal-terrace/conduit/internal/model/article"
)

// errSlugTaken slug 已被占用，Create 会换一个候选重试
var errSlugTaken = errors.New("slug already taken")

// ListQuery 已解析为 id 的过滤条件，零值表示不过滤
type ListQuery struct {
	Tag         string
	AuthorIDs   []uint
	FavoritedBy *uint
	Limit       int
	Offset      int
}

// ArticleRepository 文章数据访问接口
type ArticleRepository interface {
	WithTx(tx *gorm.DB) ArticleRepository

	SlugExists(ctx context.Context, slug string) (bool, error)
	FindBySlug(ctx context.Context, slug string) (*articleModel.Article, error)
	// Create slug 冲突时返回 errSlugTaken
	Create(ctx context.Context, a *articleModel.Article) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error

	// ReplaceTags 重建文章的标签索引，tags 已去重
	ReplaceTags(ctx context.Context, articleID uint, tags []string) error
	DeleteTags(ctx context.Context, articleID uint) error

	// List 返回分页前的总数与当前页
	List(ctx context.Context, q ListQuery) ([]articleModel.Article, int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建 Repository 实例
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&articleModel.Article{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*articleModel.Article, error) {
	var a articleModel.Article
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) Create(ctx context.Context, a *articleModel.Article) error {
	if a.TagList == nil {
		a.TagList = datatypes.JSONSlice[string]{}
	}
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errSlugTaken
	}
	return err
}

func (r *articleRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&articleModel.Article{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&articleModel.Article{}, id).Error
}

func (r *articleRepository) ReplaceTags(ctx context.Context, articleID uint, tags []string) error {
	db := r.db.WithContext(ctx)
	if err := r.DeleteTags(ctx, articleID); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	rows := make([]articleModel.Tag, 0, len(tags))
	for _, name := range tags {
		rows = append(rows, articleModel.Tag{Name: name})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return err
	}

	var existing []articleModel.Tag
	if err := db.Where("name IN ?", tags).Find(&existing).Error; err != nil {
		return err
	}
	idByName := make(map[string]uint, len(existing))
	for _, t := range existing {
		idByName[t.Name] = t.ID
	}

	links := make([]articleModel.ArticleTag, 0, len(tags))
	for i, name := range tags {
		links = append(links, articleModel.ArticleTag{
			ArticleID: articleID,
			TagID:     idByName[name],
			Position:  i,
		})
	}
	return db.Create(&links).Error
}

func (r *articleRepository) DeleteTags(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&articleModel.ArticleTag{}).Error
}

func (r *articleRepository) List(ctx context.Context, q ListQuery) ([]articleModel.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&articleModel.Article{})

	// 标签精确匹配，经 article_tags 关联
	if q.Tag != "" {
		tagged := r.db.Model(&articleModel.ArticleTag{}).
			Select("article_tags.article_id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", q.Tag)
		query = query.Where("articles.id IN (?)", tagged)
	}
	if len(q.AuthorIDs) > 0 {
		query = query.Where("articles.author_id IN ?", q.AuthorIDs)
	}
	if q.FavoritedBy != nil {
		favorited := r.db.Model(&articleModel.Favorite{}).
			Select("article_id").
			Where("user_id = ?", *q.FavoritedBy)
		query = query.Where("articles.id IN (?)", favorited)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	articles := []articleModel.Article{}
	if total == 0 || q.Limit == 0 {
		return articles, total, nil
	}

	err := query.Session(&gorm.Session{}).
		Order("articles.created_at DESC").
		Order("articles.id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
