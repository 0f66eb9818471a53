package user

import "time"

// Follow 关注关系表，follower 关注 following
// 不允许关注自己，由 follow 包保证
type Follow struct {
	FollowerID  uint      `gorm:"primaryKey" json:"follower_id"`
	FollowingID uint      `gorm:"primaryKey;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
