package service

import (
	"context"
	"fmt"

	"quiz_backend/internal/model"
)

type HistoryStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.QuizResult, error)
	StatsByUser(ctx context.Context, userID uint) (*model.HistoryStats, error)
}

type History struct {
	Results []model.QuizResult `json:"results"`
	Stats   model.HistoryStats `json:"stats"`
}

type HistoryService struct {
	Results HistoryStore
}

func NewHistoryService(results HistoryStore) *HistoryService {
	return &HistoryService{Results: results}
}

// GetHistory 用户的全部成绩（新的在前）以及统计；零记录时统计值为 nil
func (s *HistoryService) GetHistory(ctx context.Context, userID uint) (*History, error) {
	results, err := s.Results.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	stats, err := s.Results.StatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("result stats: %w", err)
	}
	if results == nil {
		results = []model.QuizResult{}
	}
	return &History{Results: results, Stats: *stats}, nil
}
