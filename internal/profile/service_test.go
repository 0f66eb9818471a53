package profile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/errs"
	"terminal-terrace/conduit/internal/follow"
	"terminal-terrace/conduit/internal/testutils"
	"terminal-terrace/conduit/internal/user"
)

func TestProfileService(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()
	svc := NewProfileService(user.NewUserRepository(db), follow.NewFollowService(follow.NewFollowRepository(db)))

	alice := testutils.CreateTestUser(db, testutils.WithUsername("alice"), testutils.WithBio("writer"))
	bob := testutils.CreateTestUser(db, testutils.WithUsername("bob"))

	p, err := svc.Get(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "writer", p.Bio)
	assert.False(t, p.Following)

	p, err = svc.Follow(ctx, bob.ID, "alice")
	require.NoError(t, err)
	assert.True(t, p.Following)

	p, err = svc.Get(ctx, "alice", &bob.ID)
	require.NoError(t, err)
	assert.True(t, p.Following)

	p, err = svc.Unfollow(ctx, bob.ID, "alice")
	require.NoError(t, err)
	assert.False(t, p.Following)

	_, err = svc.Follow(ctx, alice.ID, "alice")
	assert.ErrorIs(t, err, errs.ErrInvalidRelationship)

	_, err = svc.Get(ctx, "nobody", nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = svc.Follow(ctx, bob.ID, "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProfile_NoCredentialFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewProfileService(user.NewUserRepository(db), follow.NewFollowService(follow.NewFollowRepository(db)))
	testutils.CreateTestUser(db, testutils.WithUsername("alice"))

	p, err := svc.Get(context.Background(), "alice", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(dto.ProfileResponse{Profile: *p})
	require.NoError(t, err)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.ElementsMatch(t, []string{"username", "bio", "image", "following"}, keys(body["profile"]))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
