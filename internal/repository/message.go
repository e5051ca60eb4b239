package repository

import (
	"context"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

type MessageDAO interface {
	Insert(ctx context.Context, msg dao.Message) (dao.Message, error)
	FindByParentID(ctx context.Context, parentID uint) ([]dao.Message, error)
	FindThreadParentIDs(ctx context.Context) ([]uint, error)
	MarkRead(ctx context.Context, parentID uint, readerSender string) error
}

type MessageRepository struct {
	dao MessageDAO
}

func NewMessageRepository(dao MessageDAO) *MessageRepository {
	return &MessageRepository{
		dao: dao,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	created, err := r.dao.Insert(ctx, dao.Message{
		ParentID: msg.ParentID,
		Sender:   msg.Sender,
		Body:     msg.Body,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MessageRepository) FindThread(ctx context.Context, parentID uint) ([]domain.Message, error) {
	found, err := r.dao.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParentID -> %w", err)
	}

	msgs := make([]domain.Message, len(found))
	for i, m := range found {
		msgs[i] = r.daoToDomain(m)
	}

	return msgs, nil
}

func (r *MessageRepository) FindThreadParentIDs(ctx context.Context) ([]uint, error) {
	ids, err := r.dao.FindThreadParentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindThreadParentIDs -> %w", err)
	}

	return ids, nil
}

func (r *MessageRepository) MarkThreadRead(ctx context.Context, parentID uint, readerSender string) error {
	if err := r.dao.MarkRead(ctx, parentID, readerSender); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}
	return nil
}

func (r *MessageRepository) daoToDomain(m dao.Message) domain.Message {
	return domain.Message{
		ID:        m.ID,
		ParentID:  m.ParentID,
		Sender:    m.Sender,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		ReadAt:    m.ReadAt,
	}
}
