// Package user 注册、登录、当前用户与注销
package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"terminal-terrace/conduit/internal/errs"
	userModel "terminal-terrace/conduit/internal/model/user"
	"terminal-terrace/conduit/internal/session"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	ErrUsernameTaken      = fmt.Errorf("username has already been taken: %w", errs.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email has already been taken: %w", errs.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("email or password is invalid: %w", errs.ErrValidationFailed)
	ErrInvalidUsername    = fmt.Errorf("username may only contain letters, digits and underscores: %w", errs.ErrValidationFailed)
)

// TokenIssuer 签发访问令牌
type TokenIssuer interface {
	GenerateToken(userID uint, username, email string) (string, error)
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput 只合并非 nil 的字段
type UpdateInput struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthUser, error)
	Login(ctx context.Context, email, password string) (*AuthUser, error)
	// Current token 为请求携带的令牌，原样返回
	Current(ctx context.Context, userID uint, token string) (*AuthUser, error)
	// Update 用户名或邮箱可能变化，返回新签发的令牌
	Update(ctx context.Context, userID uint, in UpdateInput) (*AuthUser, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Option 配置服务实例
type Option func(*userService)

// WithBcryptCost 测试中使用较低的代价
func WithBcryptCost(cost int) Option {
	return func(s *userService) {
		s.bcryptCost = cost
	}
}

type userService struct {
	repo       UserRepository
	tokens     TokenIssuer
	revoker    session.Revoker
	bcryptCost int
}

// NewUserService 创建服务实例，revoker 为 nil 时注销不生效
func NewUserService(repo UserRepository, tokens TokenIssuer, revoker session.Revoker, opts ...Option) UserService {
	if revoker == nil {
		revoker = session.NopRevoker{}
	}
	s := &userService{
		repo:       repo,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthUser, error) {
	if !usernameRegex.MatchString(in.Username) {
		return nil, ErrInvalidUsername
	}
	if err := s.checkTaken(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	u := &userModel.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, s.conflict(ctx, in.Username, in.Email, 0)
		}
		return nil, fmt.Errorf("用户创建失败: %w", err)
	}
	return s.issue(u)
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *userService) Current(ctx context.Context, userID uint, token string) (*AuthUser, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAuthUser(u, token), nil
}

func (s *userService) Update(ctx context.Context, userID uint, in UpdateInput) (*AuthUser, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Username != nil && *in.Username != u.Username {
		if !usernameRegex.MatchString(*in.Username) {
			return nil, ErrInvalidUsername
		}
		u.Username = *in.Username
		fields["username"] = u.Username
	}
	if in.Email != nil && *in.Email != u.Email {
		u.Email = *in.Email
		fields["email"] = u.Email
	}
	if _, ok := fields["username"]; ok {
		if err := s.checkTaken(ctx, u.Username, "", userID); err != nil {
			return nil, err
		}
	}
	if _, ok := fields["email"]; ok {
		if err := s.checkTaken(ctx, "", u.Email, userID); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
		fields["password_hash"] = string(hashed)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
		fields["bio"] = u.Bio
	}
	if in.Image != nil {
		u.Image = in.Image
		if *in.Image == "" {
			u.Image = nil
		}
		fields["image"] = u.Image
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, userID, fields); err != nil {
			if errors.Is(err, ErrDuplicateUser) {
				return nil, s.conflict(ctx, u.Username, u.Email, userID)
			}
			return nil, fmt.Errorf("更新用户失败: %w", err)
		}
	}
	return s.issue(u)
}

func (s *userService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.revoker.Revoke(ctx, tokenID, expiresAt)
}

// checkTaken 空字符串的字段不参与检查
func (s *userService) checkTaken(ctx context.Context, username, email string, excludeID uint) error {
	existing, err := s.repo.FindTaken(ctx, username, email, excludeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if username != "" && existing.Username == username {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

// conflict 并发写入撞上唯一约束时，重新查询具体是哪个字段被占用
func (s *userService) conflict(ctx context.Context, username, email string, excludeID uint) error {
	if err := s.checkTaken(ctx, username, email, excludeID); err != nil {
		return err
	}
	return ErrDuplicateUser
}

func (s *userService) issue(u *userModel.User) (*AuthUser, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Username, u.Email)
	if err != nil {
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}
	return toAuthUser(u, token), nil
}

func toAuthUser(u *userModel.User, token string) *AuthUser {
	return &AuthUser{
		Email:    u.Email,
		Token:    token,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}
