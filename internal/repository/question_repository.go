package repository

import (
	"context"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) ListByTopic(ctx context.Context, topic model.Topic) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).Where("topic = ?", topic).Order("id").Find(&questions).Error
	return questions, err
}

// FindByIDs 按 ids 的顺序返回，不存在的 id 被跳过
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []model.Question
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Question, len(rows))
	for _, q := range rows {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (r *QuestionRepository) CountByTopic(ctx context.Context, topic model.Topic) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("topic = ?", topic).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) ExistsByText(ctx context.Context, topic model.Topic, text string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("topic = ? AND text = ?", topic, text).
		Count(&count).Error
	return count > 0, err
}

// WithTx 返回绑定到事务的仓库
func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}
