package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

type HistoryDAO interface {
	Insert(ctx context.Context, entry dao.ChangeEntry) (dao.ChangeEntry, error)
	FindRecent(ctx context.Context, limit int) ([]dao.ChangeEntry, error)
}

type HistoryRepository struct {
	dao HistoryDAO
}

func NewHistoryRepository(dao HistoryDAO) *HistoryRepository {
	return &HistoryRepository{
		dao: dao,
	}
}

func (r *HistoryRepository) Append(ctx context.Context, entry domain.ChangeEntry) (domain.ChangeEntry, error) {
	created, err := r.dao.Insert(ctx, dao.ChangeEntry{
		Timestamp:     entry.Timestamp,
		Action:        entry.Action,
		Details:       entry.Details,
		ChangedBy:     entry.ChangedBy,
		RelatedEmails: strings.Join(entry.RelatedEmails, ","),
	})
	if err != nil {
		return domain.ChangeEntry{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.ChangeEntry, error) {
	found, err := r.dao.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecent -> %w", err)
	}

	entries := make([]domain.ChangeEntry, len(found))
	for i, e := range found {
		entries[i] = r.daoToDomain(e)
	}

	return entries, nil
}

func (r *HistoryRepository) daoToDomain(e dao.ChangeEntry) domain.ChangeEntry {
	entry := domain.ChangeEntry{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Action:    e.Action,
		Details:   e.Details,
		ChangedBy: e.ChangedBy,
	}
	if e.RelatedEmails != "" {
		entry.RelatedEmails = strings.Split(e.RelatedEmails, ",")
	}
	return entry
}
