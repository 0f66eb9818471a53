package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/conduit/internal/article"
	"terminal-terrace/conduit/internal/favorite"
	"terminal-terrace/conduit/internal/follow"
	"terminal-terrace/conduit/internal/slug"
	"terminal-terrace/conduit/internal/testutils"
	"terminal-terrace/conduit/internal/user"
)

type stubFollowing struct {
	ids []uint
	err error
}

func (s stubFollowing) FollowingIDs(context.Context, uint) ([]uint, error) { return s.ids, s.err }

// recordingArticles 记录是否被调用
type recordingArticles struct {
	calls     int
	authorIDs []uint
	requester *uint
}

func (r *recordingArticles) ListByAuthors(_ context.Context, authorIDs []uint, _ article.Page, requesterID *uint) ([]article.View, int64, error) {
	r.calls++
	r.authorIDs = authorIDs
	r.requester = requesterID
	return []article.View{{Slug: "x"}}, 1, nil
}

func TestPersonalizedFeed_EmptyFollowingSkipsStore(t *testing.T) {
	store := &recordingArticles{}
	svc := NewFeedService(stubFollowing{}, store)

	views, total, err := svc.PersonalizedFeed(context.Background(), 1, article.Page{})
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
	assert.Zero(t, total)
	assert.Zero(t, store.calls)
}

func TestPersonalizedFeed_DelegatesWithFollowing(t *testing.T) {
	store := &recordingArticles{}
	svc := NewFeedService(stubFollowing{ids: []uint{2, 3}}, store)

	views, total, err := svc.PersonalizedFeed(context.Background(), 1, article.Page{})
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, []uint{2, 3}, store.authorIDs)
	require.NotNil(t, store.requester)
	assert.Equal(t, uint(1), *store.requester)
}

func TestPersonalizedFeed_FollowLookupError(t *testing.T) {
	store := &recordingArticles{}
	svc := NewFeedService(stubFollowing{err: errors.New("boom")}, store)

	_, _, err := svc.PersonalizedFeed(context.Background(), 1, article.Page{})
	assert.Error(t, err)
	assert.Zero(t, store.calls)
}

func TestPersonalizedFeed_Integration(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	favorites := favorite.NewFavoriteService(favorite.NewFavoriteRepository(db), db)
	follows := follow.NewFollowService(follow.NewFollowRepository(db))
	articles := article.NewArticleService(article.NewArticleRepository(db), db, slug.New(nil),
		user.NewUserRepository(db), favorites, follows)
	svc := NewFeedService(follows, articles)

	alice := testutils.CreateTestUser(db)
	bob := testutils.CreateTestUser(db)
	carol := testutils.CreateTestUser(db)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	older := testutils.CreateTestArticle(db, alice.ID, testutils.WithCreatedAt(base))
	newer := testutils.CreateTestArticle(db, bob.ID,
		testutils.WithCreatedAt(base.Add(time.Hour)),
		testutils.WithTagList("go", "web"),
	)
	testutils.CreateTestArticle(db, carol.ID, testutils.WithCreatedAt(base.Add(2*time.Hour)))

	testutils.CreateTestFollow(db, carol.ID, alice.ID)
	testutils.CreateTestFollow(db, carol.ID, bob.ID)

	views, total, err := svc.PersonalizedFeed(ctx, carol.ID, article.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, newer.Slug, views[0].Slug)
	assert.Equal(t, []string{"go", "web"}, views[0].TagList)
	assert.Equal(t, older.Slug, views[1].Slug)
	assert.Equal(t, []string{}, views[1].TagList)
	assert.True(t, views[0].Author.Following)

	limit, offset := 1, 1
	views, total, err = svc.PersonalizedFeed(ctx, carol.ID, article.Page{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 1)
	assert.Equal(t, older.Slug, views[0].Slug)

	views, total, err = svc.PersonalizedFeed(ctx, alice.ID, article.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, views)
}
