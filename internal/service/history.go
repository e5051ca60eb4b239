package service

import (
	"context"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
)

const defaultHistoryLimit = 100

type historyRepository interface {
	Recent(ctx context.Context, limit int) ([]domain.ChangeEntry, error)
}

type HistoryService struct {
	repo historyRepository
}

func NewHistoryService(repo historyRepository) *HistoryService {
	return &HistoryService{
		repo: repo,
	}
}

func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.ChangeEntry, error) {
	if limit <= 0 || limit > domain.ChangeHistoryCap {
		limit = defaultHistoryLimit
	}

	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Recent -> %w", err)
	}

	return entries, nil
}
