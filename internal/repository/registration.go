package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrOrderNotFound        = dao.ErrOrderNotFound
)

type RegistrationDAO interface {
	InsertOrder(ctx context.Context, rows []dao.Registration) error
	ReplaceOrder(ctx context.Context, orderID string, newRows []dao.Registration) error
	FindByID(ctx context.Context, id string) (dao.Registration, error)
	FindByOrderID(ctx context.Context, orderID string) ([]dao.Registration, error)
	FindByCamperIDs(ctx context.Context, camperIDs []uint) ([]dao.Registration, error)
	FindLiveByCamperID(ctx context.Context, camperID uint, excludeOrderID string) ([]dao.Registration, error)
	UpdateStatusByOrder(ctx context.Context, orderID, status string) error
	UpdatePaymentStatusByOrder(ctx context.Context, orderID, paymentStatus string) error
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) CreateOrder(ctx context.Context, rows []domain.Registration) error {
	daoRows := make([]dao.Registration, len(rows))
	for i, row := range rows {
		daoRows[i] = r.domainToDAO(row)
	}

	if err := r.dao.InsertOrder(ctx, daoRows); err != nil {
		return fmt.Errorf("r.dao.InsertOrder -> %w", err)
	}

	return nil
}

// ReplaceOrder supersedes an order's live rows with new ones atomically;
// atomicity is this layer's contract, not the caller's.
func (r *RegistrationRepository) ReplaceOrder(ctx context.Context, orderID string, newRows []domain.Registration) error {
	daoRows := make([]dao.Registration, len(newRows))
	for i, row := range newRows {
		daoRows[i] = r.domainToDAO(row)
	}

	if err := r.dao.ReplaceOrder(ctx, orderID, daoRows); err != nil {
		return fmt.Errorf("r.dao.ReplaceOrder -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.Registration, error) {
	rows, err := r.dao.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrderID -> %w", err)
	}

	return r.daoToDomainRows(rows), nil
}

func (r *RegistrationRepository) FindByCamperIDs(ctx context.Context, camperIDs []uint) ([]domain.Registration, error) {
	rows, err := r.dao.FindByCamperIDs(ctx, camperIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCamperIDs -> %w", err)
	}

	return r.daoToDomainRows(rows), nil
}

// FindLiveSlots returns the camper's registered date->sessions map, the shape
// the availability resolver consumes. Rows of excludeOrderID are left out when
// it is non-empty.
func (r *RegistrationRepository) FindLiveSlots(ctx context.Context, camperID uint, excludeOrderID string) (map[string][]domain.Session, error) {
	rows, err := r.dao.FindLiveByCamperID(ctx, camperID, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLiveByCamperID -> %w", err)
	}

	slots := make(map[string][]domain.Session, len(rows))
	for _, row := range rows {
		slots[row.Date] = append(slots[row.Date], splitSessions(row.Sessions)...)
	}

	return slots, nil
}

func (r *RegistrationRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.RegistrationStatus) error {
	if err := r.dao.UpdateStatusByOrder(ctx, orderID, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatusByOrder -> %w", err)
	}
	return nil
}

func (r *RegistrationRepository) UpdateOrderPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error {
	if err := r.dao.UpdatePaymentStatusByOrder(ctx, orderID, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdatePaymentStatusByOrder -> %w", err)
	}
	return nil
}

func (r *RegistrationRepository) domainToDAO(reg domain.Registration) dao.Registration {
	return dao.Registration{
		ID:             reg.ID,
		OrderID:        reg.OrderID,
		CamperID:       reg.CamperID,
		Date:           reg.Date,
		Sessions:       joinSessions(reg.Sessions),
		Status:         string(reg.Status),
		PaymentStatus:  string(reg.PaymentStatus),
		AmountCents:    reg.AmountCents,
		DiscountCents:  reg.DiscountCents,
		VenmoCode:      reg.VenmoCode,
		ReplacedByEdit: reg.ReplacedByEdit,
	}
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:             reg.ID,
		OrderID:        reg.OrderID,
		CamperID:       reg.CamperID,
		Date:           reg.Date,
		Sessions:       splitSessions(reg.Sessions),
		Status:         domain.RegistrationStatus(reg.Status),
		PaymentStatus:  domain.PaymentStatus(reg.PaymentStatus),
		AmountCents:    reg.AmountCents,
		DiscountCents:  reg.DiscountCents,
		VenmoCode:      reg.VenmoCode,
		ReplacedByEdit: reg.ReplacedByEdit,
		CreatedAt:      reg.CreatedAt,
		UpdatedAt:      reg.UpdatedAt,
	}
}

func (r *RegistrationRepository) daoToDomainRows(rows []dao.Registration) []domain.Registration {
	out := make([]domain.Registration, len(rows))
	for i, row := range rows {
		out[i] = r.daoToDomain(row)
	}
	return out
}

func joinSessions(sessions []domain.Session) string {
	parts := make([]string, len(sessions))
	for i, s := range sessions {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func splitSessions(joined string) []domain.Session {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	sessions := make([]domain.Session, len(parts))
	for i, p := range parts {
		sessions[i] = domain.Session(p)
	}
	return sessions
}
