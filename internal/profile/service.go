// Package profile 公开资料与关注入口
package profile

import (
	"context"
	"errors"
	"fmt"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/errs"
	"terminal-terrace/conduit/internal/follow"
	userModel "terminal-terrace/conduit/internal/model/user"
)

var ErrProfileNotFound = fmt.Errorf("profile does not exist: %w", errs.ErrNotFound)

// UserFinder 按用户名查找用户
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*userModel.User, error)
}

// ProfileService 资料服务接口
type ProfileService interface {
	Get(ctx context.Context, username string, requesterID *uint) (*dto.Profile, error)
	Follow(ctx context.Context, requesterID uint, username string) (*dto.Profile, error)
	Unfollow(ctx context.Context, requesterID uint, username string) (*dto.Profile, error)
}

type profileService struct {
	users   UserFinder
	follows follow.FollowService
}

// NewProfileService 创建服务实例
func NewProfileService(users UserFinder, follows follow.FollowService) ProfileService {
	return &profileService{users: users, follows: follows}
}

func (s *profileService) find(ctx context.Context, username string) (*userModel.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *profileService) Get(ctx context.Context, username string, requesterID *uint) (*dto.Profile, error) {
	u, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if requesterID != nil {
		if following, err = s.follows.IsFollowing(ctx, *requesterID, u.ID); err != nil {
			return nil, err
		}
	}
	p := dto.NewProfile(u, following)
	return &p, nil
}

func (s *profileService) Follow(ctx context.Context, requesterID uint, username string) (*dto.Profile, error) {
	u, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Follow(ctx, requesterID, u.ID); err != nil {
		return nil, err
	}
	p := dto.NewProfile(u, true)
	return &p, nil
}

func (s *profileService) Unfollow(ctx context.Context, requesterID uint, username string) (*dto.Profile, error) {
	u, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Unfollow(ctx, requesterID, u.ID); err != nil {
		return nil, err
	}
	p := dto.NewProfile(u, false)
	return &p, nil
}
