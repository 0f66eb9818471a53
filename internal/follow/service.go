// Package follow 维护用户之间的关注关系
package follow

import (
	"context"
	"fmt"

	"terminal-terrace/conduit/internal/errs"
)

var ErrSelfFollow = fmt.Errorf("cannot follow yourself: %w", errs.ErrInvalidRelationship)

// FollowService 关注关系服务接口
type FollowService interface {
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	// Follow 幂等；关注自己返回 ErrSelfFollow
	Follow(ctx context.Context, followerID, followingID uint) error
	// Unfollow 幂等，关系不存在时不报错
	Unfollow(ctx context.Context, followerID, followingID uint) error
	// FollowingIDs 按 id 升序
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	FollowingAmong(ctx context.Context, followerID uint, candidates []uint) (map[uint]struct{}, error)
}

type followService struct {
	repo FollowRepository
}

// NewFollowService 创建服务实例
func NewFollowService(repo FollowRepository) FollowService {
	return &followService{repo: repo}
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, nil
	}
	return s.repo.Exists(ctx, followerID, followingID)
}

func (s *followService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if err := s.repo.Insert(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("写入关注关系失败: %w", err)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	if err := s.repo.Delete(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("删除关注关系失败: %w", err)
	}
	return nil
}

func (s *followService) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	ids, err := s.repo.FollowingIDs(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

func (s *followService) FollowingAmong(ctx context.Context, followerID uint, candidates []uint) (map[uint]struct{}, error) {
	ids, err := s.repo.FollowingAmong(ctx, followerID, candidates)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
