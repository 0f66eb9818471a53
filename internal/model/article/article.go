// Package article 文章相关模型
package article

import (
	"time"

	"gorm.io/datatypes"
)

// Article 文章表
type Article struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 创建后不可修改
	Slug        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Body        string `gorm:"type:text;not null" json:"body"`
	// 保留作者给出的顺序，用于展示；按标签过滤走 article_tags
	TagList   datatypes.JSONSlice[string] `json:"tag_list"`
	AuthorID  uint                        `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	// 冗余计数，始终等于 favorites 中该文章的行数
	FavoritedCount int `gorm:"not null;default:0" json:"favorited_count"`
}
