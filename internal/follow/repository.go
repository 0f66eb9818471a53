package follow

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-terrace/conduit/internal/model/user"
)

// FollowRepository 关注关系数据访问接口
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	Insert(ctx context.Context, followerID, followingID uint) error
	Delete(ctx context.Context, followerID, followingID uint) error
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	// FollowingAmong 返回 candidates 中被 follower 关注的用户
	FollowingAmong(ctx context.Context, followerID uint, candidates []uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository 创建 Repository 实例
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) Insert(ctx context.Context, followerID, followingID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user.Follow{FollowerID: followerID, FollowingID: followingID}).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&user.Follow{}).Error
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&user.Follow{}).
		Where("follower_id = ?", followerID).
		Order("following_id ASC").
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) FollowingAmong(ctx context.Context, followerID uint, candidates []uint) ([]uint, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&user.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &ids).Error
	return ids, err
}
