package dao

import (
	"context"

	"gorm.io/gorm"
)

type CampDate struct {
	ID    uint   `gorm:"primaryKey"`
	Date  string `gorm:"unique;not null"` // YYYY-MM-DD
	Label string
}

type BlockedSession struct {
	ID      uint   `gorm:"primaryKey"`
	Date    string `gorm:"not null;index"`
	Session string `gorm:"not null"`
}

type GymRental struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"not null;index"`
	Session   string `gorm:"not null"`
	Available bool   `gorm:"not null"`
}

type ScheduleDAO struct {
	db *gorm.DB
}

func NewScheduleDAO(db *gorm.DB) *ScheduleDAO {
	return &ScheduleDAO{
		db: db,
	}
}

func (d *ScheduleDAO) FindCampDates(ctx context.Context) ([]CampDate, error) {
	var dates []CampDate
	if err := d.db.WithContext(ctx).Order("date").Find(&dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (d *ScheduleDAO) FindBlockedSessions(ctx context.Context) ([]BlockedSession, error) {
	var blocked []BlockedSession
	if err := d.db.WithContext(ctx).Find(&blocked).Error; err != nil {
		return nil, err
	}
	return blocked, nil
}

func (d *ScheduleDAO) FindGymRentals(ctx context.Context) ([]GymRental, error) {
	var rentals []GymRental
	if err := d.db.WithContext(ctx).Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}
