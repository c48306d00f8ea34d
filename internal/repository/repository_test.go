package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/model"
	"quiz_backend/internal/testutil"
	"quiz_backend/internal/util"
)

func TestQuestionRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	seeded := testutil.SeedQuestions(t, db, 6)

	all, err := repo.ListByTopic(ctx, model.TopicFrench)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	count, err := repo.CountByTopic(ctx, model.TopicFrench)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	ids := []uint{seeded[4].ID, 9999, seeded[0].ID, seeded[2].ID}
	found, err := repo.FindByIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, seeded[4].ID, found[0].ID)
	assert.Equal(t, seeded[0].ID, found[1].ID)
	assert.Equal(t, seeded[2].ID, found[2].ID)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	exists, err := repo.ExistsByText(ctx, model.TopicFrench, seeded[1].Text)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByText(ctx, model.TopicFrench, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestQuizResultRepository_Ownership(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewQuizResultRepository(db)
	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)

	res := &model.QuizResult{UserID: alice.ID, Score: 3, TotalQuestions: 5}
	require.NoError(t, repo.Create(ctx, res))
	assert.False(t, res.DateTaken.IsZero())

	got, err := repo.FindByIDAndUser(ctx, res.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Score)

	_, err = repo.FindByIDAndUser(ctx, res.ID, bob.ID)
	assert.ErrorIs(t, err, util.ErrResultNotFound)

	_, err = repo.FindByIDAndUser(ctx, res.ID+100, alice.ID)
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}

func TestQuizResultRepository_ListAndStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewQuizResultRepository(db)
	user := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)

	stats, err := repo.StatsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalAttempts)
	assert.Nil(t, stats.Average)
	assert.Nil(t, stats.Highest)
	assert.Nil(t, stats.Lowest)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, score := range []int{2, 5, 4} {
		r := &model.QuizResult{UserID: user.ID, Score: score, TotalQuestions: 5, DateTaken: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, repo.Create(ctx, &model.QuizResult{UserID: other.ID, Score: 0, TotalQuestions: 5}))

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{4, 5, 2}, []int{list[0].Score, list[1].Score, list[2].Score})

	stats, err = repo.StatsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAttempts)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 11.0/3, *stats.Average, 1e-9)
	assert.Equal(t, 5, *stats.Highest)
	assert.Equal(t, 2, *stats.Lowest)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Username: "camille", Email: "camille@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByUsername(ctx, "camille")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &model.User{Username: "camille", Email: "other@example.com", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), util.ErrUsernameTaken)

	now := time.Now()
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, now))
	got, err := repo.FindByUsername(ctx, "camille")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	rdb, mr := testutil.NewRedis(t)
	repo := NewSessionRepository(rdb, time.Hour)

	require.NoError(t, repo.Create(ctx, "sid", 7))
	uid, err := repo.UserID(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)

	pinned, err := repo.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, pinned)

	require.NoError(t, repo.PinQuestions(ctx, "sid", []uint{3, 1, 2}))
	require.NoError(t, repo.PinQuestions(ctx, "sid", []uint{9, 8, 7, 6, 5}))
	pinned, err = repo.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []uint{9, 8, 7, 6, 5}, pinned)
	assert.Equal(t, time.Hour, mr.TTL("session:sid:quiz_questions"))

	require.NoError(t, repo.ClearPinned(ctx, "sid"))
	pinned, err = repo.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, pinned)

	require.NoError(t, repo.PinQuestions(ctx, "sid", []uint{1}))
	require.NoError(t, repo.Destroy(ctx, "sid"))
	ok, err := repo.Exists(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("session:sid:quiz_questions"))

	_, err = repo.UserID(ctx, "sid")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
