package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/testutil"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	results := repository.NewQuizResultRepository(db)
	svc := NewHistoryService(results)
	user := testutil.CreateUser(t, db)

	t.Run("NoAttempts", func(t *testing.T) {
		h, err := svc.GetHistory(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, h.Results)
		assert.NotNil(t, h.Results)
		assert.Equal(t, int64(0), h.Stats.TotalAttempts)
		assert.Nil(t, h.Stats.Average)
		assert.Nil(t, h.Stats.Highest)
		assert.Nil(t, h.Stats.Lowest)
	})

	t.Run("WithAttempts", func(t *testing.T) {
		for _, score := range []int{1, 3} {
			require.NoError(t, results.Create(ctx, &model.QuizResult{UserID: user.ID, Score: score, TotalQuestions: 5}))
		}
		h, err := svc.GetHistory(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, h.Results, 2)
		assert.Equal(t, int64(2), h.Stats.TotalAttempts)
		assert.InDelta(t, 2.0, *h.Stats.Average, 1e-9)
		assert.Equal(t, 3, *h.Stats.Highest)
		assert.Equal(t, 1, *h.Stats.Lowest)
	})
}
