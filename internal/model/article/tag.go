package article

import "time"

// Tag 标签表
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleTag 文章-标签关联表
type ArticleTag struct {
	ArticleID uint `gorm:"primaryKey;index" json:"article_id"`
	TagID     uint `gorm:"primaryKey;index" json:"tag_id"`
	// 标签在 tag_list 中的位置
	Position int `gorm:"not null;default:0" json:"position"`
}
