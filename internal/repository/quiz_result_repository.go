package repository

import (
	"context"
	"errors"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) Create(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// FindByIDAndUser 非本人的记录与不存在的记录一样返回 ErrResultNotFound
func (r *QuizResultRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *QuizResultRepository) ListByUser(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_taken DESC").
		Order("id DESC").
		Find(&results).Error
	return results, err
}

type statsRow struct {
	Total   int64
	Average *float64
	Highest *int
	Lowest  *int
}

func (r *QuizResultRepository) StatsByUser(ctx context.Context, userID uint) (*model.HistoryStats, error) {
	var row statsRow
	err := r.DB.WithContext(ctx).Model(&model.QuizResult{}).
		Select("COUNT(*) AS total, AVG(score) AS average, MAX(score) AS highest, MIN(score) AS lowest").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &model.HistoryStats{TotalAttempts: row.Total}
	if row.Total > 0 {
		stats.Average = row.Average
		stats.Highest = row.Highest
		stats.Lowest = row.Lowest
	}
	return stats, nil
}
