package model

import (
	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/model/article"
	"terminal-terrace/conduit/internal/model/user"
)

// GetModels 返回需要迁移的全部模型
func GetModels() []any {
	return []any{
		// 用户与关注关系
		&user.User{},
		&user.Follow{},
		// 文章相关模型
		&article.Article{},
		&article.Tag{},
		&article.ArticleTag{},
		&article.Favorite{},
	}
}

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	if err := db.AutoMigrate(GetModels()...); err != nil {
		return err
	}
	return nil
}
