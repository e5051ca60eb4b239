package repository

import (
	"context"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

type ScheduleDAO interface {
	FindCampDates(ctx context.Context) ([]dao.CampDate, error)
	FindBlockedSessions(ctx context.Context) ([]dao.BlockedSession, error)
	FindGymRentals(ctx context.Context) ([]dao.GymRental, error)
}

type ScheduleRepository struct {
	dao ScheduleDAO
}

func NewScheduleRepository(dao ScheduleDAO) *ScheduleRepository {
	return &ScheduleRepository{
		dao: dao,
	}
}

// Season loads the full availability overlay set in one shot.
func (r *ScheduleRepository) Season(ctx context.Context) ([]domain.CampDate, []domain.BlockedSession, []domain.GymRental, error) {
	daoDates, err := r.dao.FindCampDates(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("r.dao.FindCampDates -> %w", err)
	}

	daoBlocked, err := r.dao.FindBlockedSessions(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("r.dao.FindBlockedSessions -> %w", err)
	}

	daoRentals, err := r.dao.FindGymRentals(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("r.dao.FindGymRentals -> %w", err)
	}

	dates := make([]domain.CampDate, len(daoDates))
	for i, d := range daoDates {
		dates[i] = domain.CampDate{Date: d.Date, Label: d.Label}
	}

	blocked := make([]domain.BlockedSession, len(daoBlocked))
	for i, b := range daoBlocked {
		blocked[i] = domain.BlockedSession{Date: b.Date, Session: domain.Session(b.Session)}
	}

	rentals := make([]domain.GymRental, len(daoRentals))
	for i, g := range daoRentals {
		rentals[i] = domain.GymRental{Date: g.Date, Session: domain.Session(g.Session), Available: g.Available}
	}

	return dates, blocked, rentals, nil
}
