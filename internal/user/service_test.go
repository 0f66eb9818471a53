package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/conduit/internal/errs"
	userModel "terminal-terrace/conduit/internal/model/user"
	"terminal-terrace/conduit/internal/testutils"
	"terminal-terrace/conduit/pkg/authsdk"
)

type recordingRevoker struct {
	tokenID   string
	expiresAt time.Time
}

func (r *recordingRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.tokenID, r.expiresAt = tokenID, expiresAt
	return nil
}

func (r *recordingRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type userEnv struct {
	db      *gorm.DB
	service UserService
	tokens  *authsdk.TokenManager
	revoker *recordingRevoker
	repo    UserRepository
}

func setupUserService(t *testing.T) *userEnv {
	t.Helper()
	db := testutils.SetupTestDB(t)
	tokens, err := authsdk.NewTokenManager("user-test-secret", time.Hour)
	require.NoError(t, err)
	revoker := &recordingRevoker{}
	repo := NewUserRepository(db)
	return &userEnv{
		db:      db,
		service: NewUserService(repo, tokens, revoker, WithBcryptCost(bcrypt.MinCost)),
		tokens:  tokens,
		revoker: revoker,
		repo:    repo,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupUserService(t)
	svc, tokens, repo := env.service, env.tokens, env.repo
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)

	claims, err := tokens.ParseToken(u.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	stored, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	logged, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, errs.ErrValidationFailed)
}

func TestRegister_Conflicts(t *testing.T) {
	svc := setupUserService(t).service
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "bad name!", Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, errs.ErrValidationFailed)
}

func TestUpdate(t *testing.T) {
	env := setupUserService(t)
	svc, tokens := env.service, env.tokens
	ctx := context.Background()

	alice, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := tokens.ParseToken(alice.Token)
	require.NoError(t, err)

	bio := "hello"
	image := "https://example.com/a.png"
	updated, err := svc.Update(ctx, claims.UserID, UpdateInput{Bio: &bio, Image: &image})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	require.NotNil(t, updated.Image)
	assert.Equal(t, image, *updated.Image)

	taken := "bob"
	_, err = svc.Update(ctx, claims.UserID, UpdateInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "bob@example.com"
	_, err = svc.Update(ctx, claims.UserID, UpdateInput{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// 保持原值不算冲突
	same := "alice"
	_, err = svc.Update(ctx, claims.UserID, UpdateInput{Username: &same})
	require.NoError(t, err)

	password := "newsecret"
	renamed := "alice2"
	updated, err = svc.Update(ctx, claims.UserID, UpdateInput{Password: &password, Username: &renamed})
	require.NoError(t, err)
	newClaims, err := tokens.ParseToken(updated.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice2", newClaims.Username)

	_, err = svc.Login(ctx, "alice@example.com", "newsecret")
	require.NoError(t, err)
}

func TestCurrentAndLogout(t *testing.T) {
	env := setupUserService(t)
	svc, tokens, revoker := env.service, env.tokens, env.revoker
	ctx := context.Background()

	alice, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := tokens.ParseToken(alice.Token)
	require.NoError(t, err)

	me, err := svc.Current(ctx, claims.UserID, alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.Token, me.Token)
	assert.Equal(t, "alice", me.Username)

	_, err = svc.Current(ctx, 9999, "")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, svc.Logout(ctx, claims.TokenID, claims.ExpiresAt))
	assert.Equal(t, claims.TokenID, revoker.tokenID)
	assert.True(t, revoker.expiresAt.Equal(claims.ExpiresAt))
}

func TestLogin_StoredHash(t *testing.T) {
	env := setupUserService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := testutils.CreateTestUser(env.db,
		testutils.WithEmail("dana@example.com"),
		testutils.WithPasswordHash(string(hash)),
	)

	u, err := env.service.Login(context.Background(), "dana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, stored.Username, u.Username)

	_, err = env.service.Login(context.Background(), "dana@example.com", "not-it")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// staleCheckRepo 第一次 FindTaken 返回空，模拟检查与写入之间被其他请求抢先
type staleCheckRepo struct {
	UserRepository
	checks int
}

func (r *staleCheckRepo) FindTaken(ctx context.Context, username, email string, excludeID uint) (*userModel.User, error) {
	r.checks++
	if r.checks == 1 {
		return nil, nil
	}
	return r.UserRepository.FindTaken(ctx, username, email, excludeID)
}

func TestRegister_UniqueViolationIsConflict(t *testing.T) {
	env := setupUserService(t)
	testutils.CreateTestUser(env.db,
		testutils.WithUsername("alice"),
		testutils.WithEmail("alice@example.com"),
	)

	repo := &staleCheckRepo{UserRepository: env.repo}
	svc := NewUserService(repo, env.tokens, nil, WithBcryptCost(bcrypt.MinCost))

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, 2, repo.checks)
}

func TestUpdate_UniqueViolationIsConflict(t *testing.T) {
	env := setupUserService(t)
	testutils.CreateTestUser(env.db, testutils.WithEmail("taken@example.com"))
	me := testutils.CreateTestUser(env.db)

	repo := &staleCheckRepo{UserRepository: env.repo}
	svc := NewUserService(repo, env.tokens, nil, WithBcryptCost(bcrypt.MinCost))

	email := "taken@example.com"
	_, err := svc.Update(context.Background(), me.ID, UpdateInput{Email: &email})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ConcurrentDuplicates(t *testing.T) {
	env := setupUserService(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errCh := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.Register(ctx, RegisterInput{
				Username: "racer", Email: "racer@example.com", Password: "secret123",
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	succeeded := 0
	for err := range errCh {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var n int64
	require.NoError(t, env.db.Model(&userModel.User{}).Where("username = ?", "racer").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
