package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository"
)

var ErrEmptyMessage = errors.New("message body is empty")

type messageRepository interface {
	Create(ctx context.Context, msg domain.Message) (domain.Message, error)
	FindThread(ctx context.Context, parentID uint) ([]domain.Message, error)
	FindThreadParentIDs(ctx context.Context) ([]uint, error)
	MarkThreadRead(ctx context.Context, parentID uint, readerSender string) error
}

type messageUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type messageMailer interface {
	SendMessageNotification(ctx context.Context, to, fromName, preview string) error
}

// ThreadSummary is one row in the director's inbox.
type ThreadSummary struct {
	ParentID   uint   `json:"parent_id"`
	ParentName string `json:"parent_name"`
	Email      string `json:"email"`
}

type MessageService struct {
	repo   messageRepository
	users  messageUserRepository
	mailer messageMailer
	camp   func() *config.CampConfig
}

func NewMessageService(
	repo messageRepository,
	users messageUserRepository,
	mailer messageMailer,
	camp func() *config.CampConfig,
) *MessageService {
	return &MessageService{
		repo:   repo,
		users:  users,
		mailer: mailer,
		camp:   camp,
	}
}

// Send posts a message into a parent's thread. Parents always write to their
// own thread; directors address any parent. The other side gets an email
// notification, which degrades to a log line on failure.
func (s *MessageService) Send(ctx context.Context, sender domain.User, parentID uint, body string) (domain.Message, error) {
	if body == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	threadParentID := sender.ID
	senderRole := domain.RoleParent
	if sender.Role == domain.RoleDirector {
		threadParentID = parentID
		senderRole = domain.RoleDirector
	}

	msg, err := s.repo.Create(ctx, domain.Message{
		ParentID: threadParentID,
		Sender:   senderRole,
		Body:     body,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notify(ctx, sender, threadParentID, body)

	return msg, nil
}

// Thread returns a parent's full thread and marks the other side's messages
// as read by the caller.
func (s *MessageService) Thread(ctx context.Context, reader domain.User, parentID uint) ([]domain.Message, error) {
	threadParentID := reader.ID
	readerRole := domain.RoleParent
	if reader.Role == domain.RoleDirector {
		threadParentID = parentID
		readerRole = domain.RoleDirector
	}

	msgs, err := s.repo.FindThread(ctx, threadParentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindThread -> %w", err)
	}

	if err := s.repo.MarkThreadRead(ctx, threadParentID, readerRole); err != nil {
		zap.L().Warn("failed to mark thread read", zap.Uint("parent_id", threadParentID), zap.Error(err))
	}

	return msgs, nil
}

// ListThreads is the director's inbox, most recent activity first.
func (s *MessageService) ListThreads(ctx context.Context) ([]ThreadSummary, error) {
	parentIDs, err := s.repo.FindThreadParentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindThreadParentIDs -> %w", err)
	}

	threads := make([]ThreadSummary, 0, len(parentIDs))
	for _, id := range parentIDs {
		parent, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		threads = append(threads, ThreadSummary{
			ParentID:   parent.ID,
			ParentName: parent.Name,
			Email:      parent.Email,
		})
	}

	return threads, nil
}

func (s *MessageService) notify(ctx context.Context, sender domain.User, threadParentID uint, body string) {
	to := s.camp().DirectorEmail
	if sender.Role == domain.RoleDirector {
		parent, err := s.users.FindByID(ctx, threadParentID)
		if err != nil {
			zap.L().Warn("message notification skipped, parent lookup failed",
				zap.Uint("parent_id", threadParentID), zap.Error(err))
			return
		}
		to = parent.Email
	}

	if to == "" {
		return
	}
	if err := s.mailer.SendMessageNotification(ctx, to, sender.Name, body); err != nil {
		zap.L().Warn("message notification email failed", zap.String("to", to), zap.Error(err))
	}
}
