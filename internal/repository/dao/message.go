package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID       uint   `gorm:"primaryKey"`
	ParentID uint   `gorm:"not null;index"`
	Sender   string `gorm:"not null"` // "parent" or "director"
	Body     string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	ReadAt    *time.Time
}

type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{
		db: db,
	}
}

func (d *MessageDAO) Insert(ctx context.Context, msg Message) (Message, error) {
	result := d.db.WithContext(ctx).Create(&msg)
	if result.Error != nil {
		return Message{}, result.Error
	}
	return msg, nil
}

func (d *MessageDAO) FindByParentID(ctx context.Context, parentID uint) ([]Message, error) {
	var msgs []Message

	result := d.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at").
		Find(&msgs)
	if result.Error != nil {
		return nil, result.Error
	}

	return msgs, nil
}

// FindThreadParentIDs lists parents with at least one message, newest thread
// first, for the director's inbox.
func (d *MessageDAO) FindThreadParentIDs(ctx context.Context) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&Message{}).
		Group("parent_id").
		Order("MAX(created_at) DESC").
		Pluck("parent_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// MarkRead stamps every unread message in the thread sent by the other side.
func (d *MessageDAO) MarkRead(ctx context.Context, parentID uint, readerSender string) error {
	now := time.Now()
	return d.db.WithContext(ctx).
		Model(&Message{}).
		Where("parent_id = ? AND sender <> ? AND read_at IS NULL", parentID, readerSender).
		Update("read_at", &now).Error
}
