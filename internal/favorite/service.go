// Package favorite 维护用户与文章之间的收藏关系以及文章的收藏计数
package favorite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/errs"
)

var (
	ErrArticleNotFound  = fmt.Errorf("article does not exist: %w", errs.ErrNotFound)
	ErrCounterUnderflow = fmt.Errorf("favorite counter would drop below zero: %w", errs.ErrInconsistent)
)

// FavoriteService 收藏关系服务接口
type FavoriteService interface {
	IsFavorited(ctx context.Context, userID, articleID uint) (bool, error)
	// Add 幂等，重复收藏不改变计数
	Add(ctx context.Context, userID, articleID uint) error
	// Remove 幂等，未收藏时不改变计数
	Remove(ctx context.Context, userID, articleID uint) error
	FavoritedArticleIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
	// FavoritedAmong 只在给定文章中查找，列表标注时使用
	FavoritedAmong(ctx context.Context, userID uint, articleIDs []uint) (map[uint]struct{}, error)
	// DeleteByArticle 在调用方的事务中删除文章的全部收藏边
	DeleteByArticle(ctx context.Context, tx *gorm.DB, articleID uint) error
}

type favoriteService struct {
	repo FavoriteRepository
	db   *gorm.DB
}

// NewFavoriteService 创建服务实例
func NewFavoriteService(repo FavoriteRepository, db *gorm.DB) FavoriteService {
	return &favoriteService{repo: repo, db: db}
}

func (s *favoriteService) IsFavorited(ctx context.Context, userID, articleID uint) (bool, error) {
	return s.repo.Exists(ctx, userID, articleID)
}

func (s *favoriteService) Add(ctx context.Context, userID, articleID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		inserted, err := repo.Insert(ctx, userID, articleID)
		if err != nil {
			return fmt.Errorf("写入收藏失败: %w", err)
		}
		if !inserted {
			return nil
		}

		updated, err := repo.IncrementCount(ctx, articleID)
		if err != nil {
			return fmt.Errorf("更新收藏计数失败: %w", err)
		}
		if !updated {
			return ErrArticleNotFound
		}
		return nil
	})
}

func (s *favoriteService) Remove(ctx context.Context, userID, articleID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		deleted, err := repo.Delete(ctx, userID, articleID)
		if err != nil {
			return fmt.Errorf("删除收藏失败: %w", err)
		}
		if !deleted {
			return nil
		}

		// 返回错误使删除边一同回滚
		updated, err := repo.DecrementCount(ctx, articleID)
		if err != nil {
			return fmt.Errorf("更新收藏计数失败: %w", err)
		}
		if !updated {
			return ErrCounterUnderflow
		}
		return nil
	})
}

func (s *favoriteService) FavoritedArticleIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	ids, err := s.repo.ArticleIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func (s *favoriteService) FavoritedAmong(ctx context.Context, userID uint, articleIDs []uint) (map[uint]struct{}, error) {
	ids, err := s.repo.ArticleIDsAmong(ctx, userID, articleIDs)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func (s *favoriteService) DeleteByArticle(ctx context.Context, tx *gorm.DB, articleID uint) error {
	if tx == nil {
		return errors.New("transaction is nil")
	}
	return s.repo.WithTx(tx).DeleteByArticle(ctx, articleID)
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
