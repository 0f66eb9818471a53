package favorite

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-terrace/conduit/internal/model/article"
)

// FavoriteRepository 收藏边与收藏计数的数据访问接口
type FavoriteRepository interface {
	// WithTx 返回绑定到事务的仓库
	WithTx(tx *gorm.DB) FavoriteRepository

	Exists(ctx context.Context, userID, articleID uint) (bool, error)
	// Insert 边已存在时不写入，返回是否新插入
	Insert(ctx context.Context, userID, articleID uint) (bool, error)
	// Delete 返回是否删除了一条边
	Delete(ctx context.Context, userID, articleID uint) (bool, error)
	DeleteByArticle(ctx context.Context, articleID uint) error

	// IncrementCount / DecrementCount 返回是否有文章行被更新
	IncrementCount(ctx context.Context, articleID uint) (bool, error)
	DecrementCount(ctx context.Context, articleID uint) (bool, error)

	ArticleIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	ArticleIDsAmong(ctx context.Context, userID uint, articleIDs []uint) ([]uint, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建 Repository 实例
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) WithTx(tx *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: tx}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, articleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&article.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) Insert(ctx context.Context, userID, articleID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&article.Favorite{UserID: userID, ArticleID: articleID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, articleID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&article.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) DeleteByArticle(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&article.Favorite{}).Error
}

// IncrementCount 使用相对更新，并发的不同收藏不会丢失计数
func (r *favoriteRepository) IncrementCount(ctx context.Context, articleID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&article.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("favorited_count", gorm.Expr("favorited_count + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementCount 计数为 0 时不更新
func (r *favoriteRepository) DecrementCount(ctx context.Context, articleID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&article.Article{}).
		Where("id = ? AND favorited_count > 0", articleID).
		UpdateColumn("favorited_count", gorm.Expr("favorited_count - ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) ArticleIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&article.Favorite{}).
		Where("user_id = ?", userID).
		Order("article_id ASC").
		Pluck("article_id", &ids).Error
	return ids, err
}

func (r *favoriteRepository) ArticleIDsAmong(ctx context.Context, userID uint, articleIDs []uint) ([]uint, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&article.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	return ids, err
}
