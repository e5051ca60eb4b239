package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ChangeEntry struct {
	ID            uint      `gorm:"primaryKey"`
	Timestamp     time.Time `gorm:"not null;index"`
	Action        string    `gorm:"not null"`
	Details       string
	ChangedBy     string `gorm:"not null"`
	RelatedEmails string // comma-joined
}

type HistoryDAO struct {
	db  *gorm.DB
	cap int
}

func NewHistoryDAO(db *gorm.DB, cap int) *HistoryDAO {
	return &HistoryDAO{
		db:  db,
		cap: cap,
	}
}

// Insert appends an entry and trims the log back down to the cap, oldest
// first, in the same transaction.
func (d *HistoryDAO) Insert(ctx context.Context, entry ChangeEntry) (ChangeEntry, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = insertChangeEntry(tx, entry, d.cap)
		return txErr
	})
	if err != nil {
		return ChangeEntry{}, err
	}

	return entry, nil
}

// insertChangeEntry is the append-and-trim step, factored out so other DAOs
// can log inside their own transactions.
func insertChangeEntry(tx *gorm.DB, entry ChangeEntry, cap int) (ChangeEntry, error) {
	if err := tx.Create(&entry).Error; err != nil {
		return ChangeEntry{}, err
	}

	var count int64
	if err := tx.Model(&ChangeEntry{}).Count(&count).Error; err != nil {
		return ChangeEntry{}, err
	}
	if int(count) <= cap {
		return entry, nil
	}

	var oldest []uint
	if err := tx.Model(&ChangeEntry{}).
		Order("timestamp, id").
		Limit(int(count) - cap).
		Pluck("id", &oldest).Error; err != nil {
		return ChangeEntry{}, err
	}

	if err := tx.Delete(&ChangeEntry{}, oldest).Error; err != nil {
		return ChangeEntry{}, err
	}

	return entry, nil
}

func (d *HistoryDAO) FindRecent(ctx context.Context, limit int) ([]ChangeEntry, error) {
	var entries []ChangeEntry

	result := d.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
