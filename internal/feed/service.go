// Package feed 个人动态：只包含已关注作者的文章
package feed

import (
	"context"
	"fmt"

	"terminal-terrace/conduit/internal/article"
)

// FollowingSource 关注列表来源
type FollowingSource interface {
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
}

// ArticleSource 按作者查询文章
type ArticleSource interface {
	ListByAuthors(ctx context.Context, authorIDs []uint, page article.Page, requesterID *uint) ([]article.View, int64, error)
}

// FeedService 个人动态服务接口
type FeedService interface {
	PersonalizedFeed(ctx context.Context, requesterID uint, page article.Page) ([]article.View, int64, error)
}

type feedService struct {
	follows  FollowingSource
	articles ArticleSource
}

// NewFeedService 创建服务实例
func NewFeedService(follows FollowingSource, articles ArticleSource) FeedService {
	return &feedService{follows: follows, articles: articles}
}

// PersonalizedFeed 未关注任何人时直接返回空结果，不查询文章
func (s *feedService) PersonalizedFeed(ctx context.Context, requesterID uint, page article.Page) ([]article.View, int64, error) {
	following, err := s.follows.FollowingIDs(ctx, requesterID)
	if err != nil {
		return nil, 0, fmt.Errorf("查询关注列表失败: %w", err)
	}
	if len(following) == 0 {
		return []article.View{}, 0, nil
	}
	return s.articles.ListByAuthors(ctx, following, page, &requesterID)
}
