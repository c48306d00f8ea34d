package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type QuestionStore interface {
	ListByTopic(ctx context.Context, topic model.Topic) ([]model.Question, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *model.QuizResult) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.QuizResult, error)
}

type QuizSessionStore interface {
	PinQuestions(ctx context.Context, sid string, ids []uint) error
	PinnedQuestions(ctx context.Context, sid string) ([]uint, error)
	ClearPinned(ctx context.Context, sid string) error
}

// QuizValidationError 提交未通过校验，Form 中保留已选答案用于重新展示
type QuizValidationError struct {
	Form   *model.QuizForm
	Errors model.FormErrors
}

func (e *QuizValidationError) Error() string {
	return util.ErrUnansweredQuestions.Error()
}

func (e *QuizValidationError) Unwrap() error {
	return util.ErrUnansweredQuestions
}

type QuizService struct {
	Questions QuestionStore
	Results   ResultStore
	Sessions  QuizSessionStore
	Topic     model.Topic

	mu  sync.Mutex
	rng *rand.Rand
}

func NewQuizService(questions QuestionStore, results ResultStore, sessions QuizSessionStore) *QuizService {
	return &QuizService{
		Questions: questions,
		Results:   results,
		Sessions:  sessions,
		Topic:     model.TopicFrench,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand 替换随机源，测试用
func (s *QuizService) WithRand(rng *rand.Rand) *QuizService {
	s.mu.Lock()
	s.rng = rng
	s.mu.Unlock()
	return s
}

// SelectQuestions 部分 Fisher-Yates：从 pool 副本中无放回地抽取 n 道
func SelectQuestions(pool []model.Question, n int, rng *rand.Rand) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)

	if n > len(shuffled) {
		n = len(shuffled)
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

// StartQuiz 抽题并固定到会话中，重复调用会覆盖上一次的题目
func (s *QuizService) StartQuiz(ctx context.Context, sid string) (form *model.QuizForm, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.StartQuiz", attribute.String("quiz.topic", string(s.Topic)))
	defer func() { tracing.End(span, err) }()

	pool, err := s.Questions.ListByTopic(ctx, s.Topic)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(pool) < model.QuestionsPerQuiz {
		monitoring.QuizInsufficientContent.Inc()
		logger.Log.Warn("not enough questions to start a quiz",
			zap.String("topic", string(s.Topic)),
			zap.Int("available", len(pool)))
		return nil, util.ErrNotEnoughQuestions
	}

	s.mu.Lock()
	selected := SelectQuestions(pool, model.QuestionsPerQuiz, s.rng)
	s.mu.Unlock()

	ids := make([]uint, len(selected))
	for i, q := range selected {
		ids[i] = q.ID
	}
	if err := s.Sessions.PinQuestions(ctx, sid, ids); err != nil {
		return nil, fmt.Errorf("pin questions: %w", err)
	}

	monitoring.QuizStarted.Inc()
	logger.Log.Debug("quiz started", zap.String("session_id", sid), zap.Uints("question_ids", ids))
	return model.NewQuizForm(selected), nil
}

// pinnedQuestions 只从会话中恢复题目，从不信任客户端提交的题目
func (s *QuizService) pinnedQuestions(ctx context.Context, sid string) ([]model.Question, error) {
	ids, err := s.Sessions.PinnedQuestions(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load pinned questions: %w", err)
	}
	if len(ids) == 0 {
		return nil, util.ErrNoActiveQuiz
	}
	questions, err := s.Questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find pinned questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, util.ErrNoActiveQuiz
	}
	return questions, nil
}

// SubmitAnswers 校验并评分，成功后保存结果并清除会话中的题目
func (s *QuizService) SubmitAnswers(ctx context.Context, userID uint, sid string, answers map[string]string) (result *model.QuizResult, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.SubmitAnswers", attribute.Int64("quiz.user_id", int64(userID)))
	defer func() { tracing.End(span, err) }()

	questions, err := s.pinnedQuestions(ctx, sid)
	if err != nil {
		return nil, err
	}

	form := model.NewQuizForm(questions)
	if errs := form.Bind(answers); !errs.Valid() {
		return nil, &QuizValidationError{Form: form, Errors: errs}
	}

	selected := form.Answers()
	score := 0
	for i := range questions {
		if questions[i].IsCorrect(selected[questions[i].ID]) {
			score++
		}
	}

	span.SetAttributes(attribute.Int("quiz.score", score))
	result = &model.QuizResult{
		UserID:         userID,
		Score:          score,
		TotalQuestions: len(questions),
	}
	if err := s.Results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	if err := s.Sessions.ClearPinned(ctx, sid); err != nil {
		logger.Log.Warn("failed to clear pinned questions", zap.String("session_id", sid), zap.Error(err))
	}

	monitoring.QuizSubmitted.Inc()
	monitoring.QuizScore.Observe(result.Percentage())
	logger.Log.Info("quiz submitted",
		zap.Uint("user_id", userID),
		zap.Uint("result_id", result.ID),
		zap.Int("score", score),
		zap.Int("total", result.TotalQuestions))
	return result, nil
}

func (s *QuizService) GetResult(ctx context.Context, userID, resultID uint) (*model.QuizResult, error) {
	if resultID == 0 {
		return nil, util.ErrResultNotFound
	}
	result, err := s.Results.FindByIDAndUser(ctx, resultID, userID)
	if errors.Is(err, util.ErrResultNotFound) {
		logger.Log.Info("result not found", zap.Uint("user_id", userID), zap.Uint("result_id", resultID))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("find result: %w", err)
	}
	return result, nil
}
