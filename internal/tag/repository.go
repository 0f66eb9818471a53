package tag

import (
	"context"

	"gorm.io/gorm"

	articleModel "terminal-terrace/conduit/internal/model/article"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	// ListInUse 至少被一篇文章引用的标签，按名称排序
	ListInUse(ctx context.Context) ([]string, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建 Repository 实例
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListInUse(ctx context.Context) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).Model(&articleModel.Tag{}).
		Distinct("tags.name").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error
	return names, err
}
