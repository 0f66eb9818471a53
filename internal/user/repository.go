package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/errs"
	userModel "terminal-terrace/conduit/internal/model/user"
)

var (
	ErrUserNotFound = fmt.Errorf("user does not exist: %w", errs.ErrNotFound)
	// ErrDuplicateUser 写入时触发 username 或 email 唯一约束
	ErrDuplicateUser = fmt.Errorf("username or email has already been taken: %w", errs.ErrConflict)
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, u *userModel.User) error
	FindByID(ctx context.Context, id uint) (*userModel.User, error)
	FindByUsername(ctx context.Context, username string) (*userModel.User, error)
	FindByEmail(ctx context.Context, email string) (*userModel.User, error)
	// FindByIDs 不存在的 id 会被忽略
	FindByIDs(ctx context.Context, ids []uint) ([]userModel.User, error)
	// FindTaken 查找占用了 username 或 email 的其他用户，空字符串不参与匹配，excludeID 为 0 时不排除
	FindTaken(ctx context.Context, username, email string, excludeID uint) (*userModel.User, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 Repository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *userModel.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*userModel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*userModel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*userModel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]userModel.User, error) {
	if len(ids) == 0 {
		return []userModel.User{}, nil
	}
	var users []userModel.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) FindTaken(ctx context.Context, username, email string, excludeID uint) (*userModel.User, error) {
	var q *gorm.DB
	switch {
	case username != "" && email != "":
		q = r.db.WithContext(ctx).Where("(username = ? OR email = ?)", username, email)
	case username != "":
		q = r.db.WithContext(ctx).Where("username = ?", username)
	case email != "":
		q = r.db.WithContext(ctx).Where("email = ?", email)
	default:
		return nil, nil
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var users []userModel.User
	if err := q.Limit(1).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return translate(r.db.WithContext(ctx).Model(&userModel.User{}).
		Where("id = ?", id).
		Updates(fields).Error)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return err
}
