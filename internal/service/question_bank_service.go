package service

import (
	"context"
	"fmt"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// BankFile 题库 YAML 文件结构
type BankFile struct {
	Topic     model.Topic `yaml:"topic"`
	Questions []BankEntry `yaml:"questions"`
}

type BankEntry struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Correct int      `yaml:"correct"`
}

func (e BankEntry) toQuestion(topic model.Topic) (model.Question, error) {
	if len(e.Options) != 4 {
		return model.Question{}, fmt.Errorf("%w: %q has %d options, want 4", util.ErrInvalidQuestion, e.Text, len(e.Options))
	}
	q := model.Question{
		Topic:         topic,
		Text:          e.Text,
		Option1:       e.Options[0],
		Option2:       e.Options[1],
		Option3:       e.Options[2],
		Option4:       e.Options[3],
		CorrectOption: e.Correct,
	}
	if err := q.Validate(); err != nil {
		return model.Question{}, fmt.Errorf("%w: %q: %v", util.ErrInvalidQuestion, e.Text, err)
	}
	return q, nil
}

type LoadReport struct {
	Source  string
	Created int
	Skipped int
}

type QuestionBankService struct {
	DB        *gorm.DB
	Questions *repository.QuestionRepository
	Source    BankSource
}

func NewQuestionBankService(db *gorm.DB, source BankSource) *QuestionBankService {
	return &QuestionBankService{
		DB:        db,
		Questions: repository.NewQuestionRepository(db),
		Source:    source,
	}
}

func (s *QuestionBankService) readBank(ctx context.Context) (*BankFile, error) {
	rc, err := s.Source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open question bank %s: %w", s.Source.Name(), err)
	}
	defer rc.Close()

	var bank BankFile
	if err := yaml.NewDecoder(rc).Decode(&bank); err != nil {
		return nil, fmt.Errorf("decode question bank %s: %w", s.Source.Name(), err)
	}
	if bank.Topic == "" {
		bank.Topic = model.TopicFrench
	}
	return &bank, nil
}

// Load 在一个事务中导入题库，已存在的 (topic, text) 会被跳过
func (s *QuestionBankService) Load(ctx context.Context) (*LoadReport, error) {
	bank, err := s.readBank(ctx)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(bank.Questions))
	for _, entry := range bank.Questions {
		q, err := entry.toQuestion(bank.Topic)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	report := &LoadReport{Source: s.Source.Name()}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Questions.WithTx(tx)
		for i := range questions {
			exists, err := repo.ExistsByText(ctx, questions[i].Topic, questions[i].Text)
			if err != nil {
				return err
			}
			if exists {
				report.Skipped++
				continue
			}
			if err := repo.Create(ctx, &questions[i]); err != nil {
				return err
			}
			report.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	logger.Log.Info("question bank loaded",
		zap.String("source", report.Source),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

// SeedIfEmpty 首次启动时导入题库
func (s *QuestionBankService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.Questions.CountByTopic(ctx, model.TopicFrench)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = s.Load(ctx)
	return err
}
