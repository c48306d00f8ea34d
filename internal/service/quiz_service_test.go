package service

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/testutil"
	"quiz_backend/internal/util"
)

type quizFixture struct {
	db       *gorm.DB
	svc      *QuizService
	sessions *repository.SessionRepository
	user     *model.User
	byID     map[uint]model.Question
}

func newQuizFixture(t *testing.T, pool int) *quizFixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	sessions := repository.NewSessionRepository(rdb, 0)

	questions := testutil.SeedQuestions(t, db, pool)
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	svc := NewQuizService(
		repository.NewQuestionRepository(db),
		repository.NewQuizResultRepository(db),
		sessions,
	).WithRand(rand.New(rand.NewSource(1)))

	return &quizFixture{
		db:       db,
		svc:      svc,
		sessions: sessions,
		user:     testutil.CreateUser(t, db),
		byID:     byID,
	}
}

// answers 为表单中的每道题生成答案，correct 为 true 时选择正确选项
func (f *quizFixture) answers(form *model.QuizForm, correct bool) map[string]string {
	out := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		opt := f.byID[field.QuestionID].CorrectOption
		if !correct {
			opt = opt%4 + 1
		}
		out[field.Name] = strconv.Itoa(opt)
	}
	return out
}

func (f *quizFixture) resultCount(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&model.QuizResult{}).Count(&n).Error)
	return n
}

func TestSelectQuestions(t *testing.T) {
	pool := make([]model.Question, 20)
	for i := range pool {
		pool[i].ID = uint(i + 1)
	}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		picked := SelectQuestions(pool, model.QuestionsPerQuiz, rng)
		require.Len(t, picked, model.QuestionsPerQuiz)
		seen := map[uint]bool{}
		for _, q := range picked {
			assert.False(t, seen[q.ID], "duplicate question %d", q.ID)
			assert.True(t, q.ID >= 1 && q.ID <= 20)
			seen[q.ID] = true
		}
	}

	for i := range pool {
		assert.Equal(t, uint(i+1), pool[i].ID, "pool must not be reordered")
	}
}

func TestSelectQuestions_CoversWholePool(t *testing.T) {
	pool := make([]model.Question, 8)
	for i := range pool {
		pool[i].ID = uint(i + 1)
	}
	rng := rand.New(rand.NewSource(7))
	seen := map[uint]bool{}
	for run := 0; run < 100; run++ {
		for _, q := range SelectQuestions(pool, 5, rng) {
			seen[q.ID] = true
		}
	}
	assert.Len(t, seen, len(pool))
}

func TestStartQuiz_NotEnoughQuestions(t *testing.T) {
	f := newQuizFixture(t, 4)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	assert.ErrorIs(t, err, util.ErrNotEnoughQuestions)
	assert.Nil(t, form)

	pinned, err := f.sessions.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestStartQuiz_PinsFiveDistinctQuestions(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, form.Fields, model.QuestionsPerQuiz)

	pinned, err := f.sessions.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, pinned, model.QuestionsPerQuiz)
	for i, field := range form.Fields {
		assert.Equal(t, pinned[i], field.QuestionID, "form order follows the pinned order")
		assert.Equal(t, model.FieldName(field.QuestionID), field.Name)
	}
}

func TestSubmitAnswers_AllCorrect(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", f.answers(form, true))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.Equal(t, 100.0, result.Percentage())
	assert.Equal(t, model.TierGenius, result.Feedback())
	assert.Equal(t, f.user.ID, result.UserID)
	assert.NotZero(t, result.ID)

	pinned, err := f.sessions.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, pinned, "pinned set is consumed by a successful submission")
}

func TestSubmitAnswers_AllWrong(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", f.answers(form, false))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0.0, result.Percentage())
	assert.Equal(t, model.TierRetry, result.Feedback())
}

func TestSubmitAnswers_PartialIsRejected(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	answers := f.answers(form, true)
	delete(answers, form.Fields[2].Name)

	_, err = f.svc.SubmitAnswers(ctx, f.user.ID, "sid", answers)
	require.ErrorIs(t, err, util.ErrUnansweredQuestions)

	var verr *QuizValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.MsgAnswerAll, verr.Errors[form.Fields[2].Name])
	assert.Equal(t, answers[form.Fields[0].Name], verr.Form.Fields[0].Selected)
	assert.Equal(t, int64(0), f.resultCount(t))

	pinned, err := f.sessions.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	assert.Len(t, pinned, model.QuestionsPerQuiz, "a rejected submission keeps the quiz")
}

func TestSubmitAnswers_NonCanonicalChoiceIsRejected(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	answers := f.answers(form, true)
	for name, v := range answers {
		answers[name] = "+" + v
	}

	_, err = f.svc.SubmitAnswers(ctx, f.user.ID, "sid", answers)
	var verr *QuizValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.MsgInvalidChoice, verr.Errors[form.Fields[0].Name])
	assert.Equal(t, int64(0), f.resultCount(t))
}

func TestSubmitAnswers_NoActiveQuiz(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", map[string]string{})
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
	assert.Equal(t, int64(0), f.resultCount(t))

	// 已提交过一次后再次提交同样被拒绝
	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)
	answers := f.answers(form, true)
	_, err = f.svc.SubmitAnswers(ctx, f.user.ID, "sid", answers)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswers(ctx, f.user.ID, "sid", answers)
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
	assert.Equal(t, int64(1), f.resultCount(t))
}

func TestStartQuiz_TwiceReplacesPinnedSet(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	first, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)
	second, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	pinned, err := f.sessions.PinnedQuestions(ctx, "sid")
	require.NoError(t, err)
	secondIDs := make([]uint, len(second.Fields))
	for i, field := range second.Fields {
		secondIDs[i] = field.QuestionID
	}
	assert.Equal(t, secondIDs, pinned)

	// 只回答第一套题：第二套中不在第一套的题视为未作答
	firstAnswers := f.answers(first, true)
	overlap := 0
	for _, field := range second.Fields {
		if _, ok := firstAnswers[field.Name]; ok {
			overlap++
		}
	}
	if overlap < len(second.Fields) {
		_, err = f.svc.SubmitAnswers(ctx, f.user.ID, "sid", firstAnswers)
		assert.ErrorIs(t, err, util.ErrUnansweredQuestions)
	}

	result, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", f.answers(second, true))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Score)
}

func TestSubmitAnswers_IgnoresClientQuestions(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)

	answers := f.answers(form, false)
	pinned := map[uint]bool{}
	for _, field := range form.Fields {
		pinned[field.QuestionID] = true
	}
	for id, q := range f.byID {
		if !pinned[id] {
			answers[model.FieldName(id)] = strconv.Itoa(q.CorrectOption)
		}
	}

	result, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", answers)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 5, result.TotalQuestions)
}

func TestGetResult_Ownership(t *testing.T) {
	f := newQuizFixture(t, 20)
	ctx := context.Background()
	other := testutil.CreateUser(t, f.db)

	form, err := f.svc.StartQuiz(ctx, "sid")
	require.NoError(t, err)
	result, err := f.svc.SubmitAnswers(ctx, f.user.ID, "sid", f.answers(form, true))
	require.NoError(t, err)

	got, err := f.svc.GetResult(ctx, f.user.ID, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)

	_, err = f.svc.GetResult(ctx, other.ID, result.ID)
	assert.ErrorIs(t, err, util.ErrResultNotFound)

	_, err = f.svc.GetResult(ctx, f.user.ID, 0)
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}
