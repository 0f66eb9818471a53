package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/model/article"
	"terminal-terrace/conduit/internal/model/user"
)

// CreateTestUser creates a test user with unique username/email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	testUser := &user.User{
		Username:     fmt.Sprintf("user_%s", uniqueID),
		Email:        fmt.Sprintf("user_%s@example.com", uniqueID),
		PasswordHash: "not-a-real-hash",
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

// WithUsername sets the username
func WithUsername(username string) UserOption {
	return func(u *user.User) {
		u.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

// WithBio sets the bio
func WithBio(bio string) UserOption {
	return func(u *user.User) {
		u.Bio = bio
	}
}

// WithPasswordHash sets the stored credential hash
func WithPasswordHash(hash string) UserOption {
	return func(u *user.User) {
		u.PasswordHash = hash
	}
}

// CreateTestArticle inserts an article row directly, bypassing slug generation and tag rows.
// Use the article service when the tag index matters.
func CreateTestArticle(db *gorm.DB, authorID uint, opts ...ArticleOption) *article.Article {
	uniqueID := uuid.NewString()
	now := time.Now()

	testArticle := &article.Article{
		Slug:        "test-article-" + uniqueID,
		Title:       "Test Article " + uniqueID,
		Description: "Test article description",
		Body:        "Test article body",
		TagList:     datatypes.JSONSlice[string]{},
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, opt := range opts {
		opt(testArticle)
	}

	if err := db.Create(testArticle).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}

	return testArticle
}

// ArticleOption configures test article
type ArticleOption func(*article.Article)

// WithTitle sets the article title
func WithTitle(title string) ArticleOption {
	return func(a *article.Article) {
		a.Title = title
	}
}

// WithSlug sets the article slug
func WithSlug(slug string) ArticleOption {
	return func(a *article.Article) {
		a.Slug = slug
	}
}

// WithCreatedAt sets both timestamps
func WithCreatedAt(at time.Time) ArticleOption {
	return func(a *article.Article) {
		a.CreatedAt = at
		a.UpdatedAt = at
	}
}

// WithTagList sets the display tag list (no article_tags rows are written)
func WithTagList(tags ...string) ArticleOption {
	return func(a *article.Article) {
		a.TagList = datatypes.JSONSlice[string](tags)
	}
}

// CreateTestFavorite inserts a favorite edge and bumps the counter, mirroring the favorite service
func CreateTestFavorite(db *gorm.DB, userID, articleID uint) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article.Favorite{UserID: userID, ArticleID: articleID}).Error; err != nil {
			return err
		}
		return tx.Model(&article.Article{}).Where("id = ?", articleID).
			UpdateColumn("favorited_count", gorm.Expr("favorited_count + 1")).Error
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create test favorite: %v", err))
	}
}

// CreateTestFollow inserts a follow edge
func CreateTestFollow(db *gorm.DB, followerID, followingID uint) {
	if err := db.Create(&user.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test follow: %v", err))
	}
}
