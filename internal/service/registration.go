package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunridge-camp/portal-api/internal/booking"
	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/pkg/venmo"
	"github.com/sunridge-camp/portal-api/internal/repository"
	"github.com/sunridge-camp/portal-api/internal/schedule"
	"github.com/sunridge-camp/portal-api/internal/storage/draftstore"
)

var (
	ErrOrderNotFound     = repository.ErrOrderNotFound
	ErrDraftNotFound     = draftstore.ErrDraftNotFound
	ErrEmptySelection    = errors.New("nothing selected")
	ErrNoCampersSelected = errors.New("select at least one camper")
	ErrSlotUnavailable   = errors.New("a selected session is no longer available")
	ErrPaymentTransition = errors.New("illegal payment status transition")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrOrderPaid         = errors.New("order has already been paid")
)

type registrationRepository interface {
	CreateOrder(ctx context.Context, rows []domain.Registration) error
	ReplaceOrder(ctx context.Context, orderID string, newRows []domain.Registration) error
	FindByOrderID(ctx context.Context, orderID string) ([]domain.Registration, error)
	FindByCamperIDs(ctx context.Context, camperIDs []uint) ([]domain.Registration, error)
	FindLiveSlots(ctx context.Context, camperID uint, excludeOrderID string) (map[string][]domain.Session, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.RegistrationStatus) error
	UpdateOrderPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error
}

type scheduleRepository interface {
	Season(ctx context.Context) ([]domain.CampDate, []domain.BlockedSession, []domain.GymRental, error)
}

type registrationCamperRepository interface {
	FindByParentID(ctx context.Context, parentID uint) ([]domain.Camper, error)
	IsOwnedBy(ctx context.Context, camperID, parentID uint) (bool, error)
}

type registrationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type selectionDraftStore interface {
	SaveSelection(ctx context.Context, parentID uint, sel booking.Selection) error
	LoadSelection(ctx context.Context, parentID uint) (booking.Selection, error)
	DeleteSelection(ctx context.Context, parentID uint) error
}

type orderMailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order domain.Order, venmoHandle, venmoLink string) error
}

type historyAppender interface {
	Append(ctx context.Context, entry domain.ChangeEntry) (domain.ChangeEntry, error)
}

type RegistrationService struct {
	repo     registrationRepository
	schedule scheduleRepository
	campers  registrationCamperRepository
	users    registrationUserRepository
	drafts   selectionDraftStore
	mailer   orderMailer
	history  historyAppender
	photos   PhotoStore
	camp     func() *config.CampConfig
}

func NewRegistrationService(
	repo registrationRepository,
	scheduleRepo scheduleRepository,
	campers registrationCamperRepository,
	users registrationUserRepository,
	drafts selectionDraftStore,
	mailer orderMailer,
	history historyAppender,
	photoStore PhotoStore,
	camp func() *config.CampConfig,
) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		schedule: scheduleRepo,
		campers:  campers,
		users:    users,
		drafts:   drafts,
		mailer:   mailer,
		history:  history,
		photos:   photoStore,
		camp:     camp,
	}
}

// Schedule lists the selectable camp days for one camper, with per-session
// availability reflecting blocks, gym rentals and the camper's own live
// registrations.
func (s *RegistrationService) Schedule(ctx context.Context, parentID, camperID uint) ([]domain.DayAvailability, error) {
	if err := s.requireOwned(ctx, parentID, camperID); err != nil {
		return nil, err
	}

	r, err := s.resolverFor(ctx, []uint{camperID}, "")
	if err != nil {
		return nil, err
	}

	return r.Days(), nil
}

func (s *RegistrationService) GetDraft(ctx context.Context, parentID uint) (booking.Selection, error) {
	sel, err := s.drafts.LoadSelection(ctx, parentID)
	if err != nil {
		if errors.Is(err, draftstore.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("s.drafts.LoadSelection -> %w", err)
	}
	return sel, nil
}

func (s *RegistrationService) SaveDraft(ctx context.Context, parentID uint, sel booking.Selection) error {
	if err := s.drafts.SaveSelection(ctx, parentID, sel); err != nil {
		return fmt.Errorf("s.drafts.SaveSelection -> %w", err)
	}
	return nil
}

func (s *RegistrationService) DiscardDraft(ctx context.Context, parentID uint) error {
	if err := s.drafts.DeleteSelection(ctx, parentID); err != nil {
		return fmt.Errorf("s.drafts.DeleteSelection -> %w", err)
	}
	return nil
}

// QuoteOrder prices a selection for the given campers without persisting
// anything.
func (s *RegistrationService) QuoteOrder(ctx context.Context, parentID uint, camperIDs []uint, sel booking.Selection) (booking.Quote, error) {
	if len(camperIDs) == 0 {
		return booking.Quote{}, ErrNoCampersSelected
	}
	for _, id := range camperIDs {
		if err := s.requireOwned(ctx, parentID, id); err != nil {
			return booking.Quote{}, err
		}
	}

	r, err := s.resolverFor(ctx, camperIDs, "")
	if err != nil {
		return booking.Quote{}, err
	}

	return booking.Price(sel, len(camperIDs), r, s.priceConfig()), nil
}

// SubmitOrder turns the selection into pending/unpaid registration rows, one
// per camper per date, with the discount prorated row by row. On success the
// Redis draft is cleared and a confirmation email with Venmo instructions
// goes out; email failure degrades to a warning.
func (s *RegistrationService) SubmitOrder(ctx context.Context, parentID uint, camperIDs []uint, sel booking.Selection) (domain.Order, error) {
	order, err := s.buildOrder(ctx, parentID, camperIDs, sel, uuid.NewString(), newVenmoCode())
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.CreateOrder(ctx, order.Registrations); err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.CreateOrder -> %w", err)
	}

	parent, perr := s.users.FindByID(ctx, parentID)
	if perr != nil {
		zap.L().Warn("order submitted but parent lookup failed", zap.Uint("parent_id", parentID), zap.Error(perr))
	}

	s.appendHistory(ctx, "order_submitted",
		fmt.Sprintf("order %s: %d sessions, $%.2f due", order.OrderID, len(order.Registrations), float64(order.DueCents)/100),
		parent.Email)

	if perr == nil {
		camp := s.camp()
		link := venmo.PaymentLink(camp.VenmoHandle, order.DueCents, order.VenmoCode)
		if err := s.mailer.SendOrderConfirmation(ctx, parent.Email, order, camp.VenmoHandle, link); err != nil {
			zap.L().Warn("order confirmation email failed", zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}

	if err := s.drafts.DeleteSelection(ctx, parentID); err != nil {
		zap.L().Warn("failed to clear selection draft", zap.Uint("parent_id", parentID), zap.Error(err))
	}

	return order, nil
}

// EditOrder replaces a pending order's rows with rows built from the new
// selection. The order ID and Venmo code survive the edit so an in-flight
// payment still matches; the old rows are cancelled and marked as replaced in
// the same transaction that inserts the new ones.
func (s *RegistrationService) EditOrder(ctx context.Context, parentID uint, orderID string, camperIDs []uint, sel booking.Selection) (domain.Order, error) {
	existing, err := s.ownedOrder(ctx, parentID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	probe := liveProbe(existing)
	if probe == nil {
		return domain.Order{}, ErrOrderNotFound
	}
	// Replacing paid rows with fresh unpaid ones would bill the family again.
	if probe.PaymentStatus == domain.PaymentPaid || probe.PaymentStatus == domain.PaymentConfirmed {
		return domain.Order{}, ErrOrderPaid
	}

	order, err := s.buildOrder(ctx, parentID, camperIDs, sel, orderID, probe.VenmoCode)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.ReplaceOrder(ctx, orderID, order.Registrations); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("s.repo.ReplaceOrder -> %w", err)
	}

	parent, perr := s.users.FindByID(ctx, parentID)
	if perr != nil {
		zap.L().Warn("order edited but parent lookup failed", zap.Uint("parent_id", parentID), zap.Error(perr))
	}
	s.appendHistory(ctx, "order_edited",
		fmt.Sprintf("order %s replaced: now %d sessions, $%.2f due", orderID, len(order.Registrations), float64(order.DueCents)/100),
		parent.Email)

	return order, nil
}

func (s *RegistrationService) ListRegistrations(ctx context.Context, parentID uint) ([]domain.Registration, error) {
	camperIDs, err := s.parentCamperIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if len(camperIDs) == 0 {
		return []domain.Registration{}, nil
	}

	rows, err := s.repo.FindByCamperIDs(ctx, camperIDs)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCamperIDs -> %w", err)
	}

	return rows, nil
}

// AmountDue sums what the family still owes across all live registrations.
// Cancelled, rejected and settled rows owe nothing.
func (s *RegistrationService) AmountDue(ctx context.Context, parentID uint) (int64, error) {
	rows, err := s.ListRegistrations(ctx, parentID)
	if err != nil {
		return 0, err
	}

	var due int64
	for i := range rows {
		due += rows[i].DueCents()
	}

	return due, nil
}

// MarkPaymentSent records that the parent sent the Venmo payment. An optional
// screenshot is uploaded for the office to cross-check; upload failure does
// not block the status move but is noted in the change history.
func (s *RegistrationService) MarkPaymentSent(ctx context.Context, parentID uint, orderID, screenshotB64 string) error {
	rows, err := s.ownedOrder(ctx, parentID, orderID)
	if err != nil {
		return err
	}

	// An edited order keeps its cancelled rows; those may still carry the old
	// payment state, so only a live row decides the transition.
	probe := liveProbe(rows)
	if probe == nil {
		return ErrOrderNotFound
	}
	if !probe.AdvancePayment(domain.PaymentSent) {
		return ErrPaymentTransition
	}

	screenshotNote := ""
	if screenshotB64 != "" {
		if _, err := resolvePhoto(ctx, s.photos, photos.BucketPayments, screenshotB64); err != nil {
			zap.L().Warn("payment screenshot upload failed", zap.String("order_id", orderID), zap.Error(err))
			screenshotNote = " (screenshot upload failed)"
		}
	}

	if err := s.repo.UpdateOrderPaymentStatus(ctx, orderID, domain.PaymentSent); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("s.repo.UpdateOrderPaymentStatus -> %w", err)
	}

	parent, perr := s.users.FindByID(ctx, parentID)
	if perr != nil {
		zap.L().Warn("payment marked sent but parent lookup failed", zap.Uint("parent_id", parentID), zap.Error(perr))
	}
	s.appendHistory(ctx, "payment_sent", "order "+orderID+screenshotNote, parent.Email)

	return nil
}

// ConfirmPayment advances the order's payment one legal step: sent -> paid
// when the director sees the money arrive, paid -> confirmed once reconciled.
func (s *RegistrationService) ConfirmPayment(ctx context.Context, directorID uint, orderID string) (domain.PaymentStatus, error) {
	rows, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return "", ErrOrderNotFound
		}
		return "", fmt.Errorf("s.repo.FindByOrderID -> %w", err)
	}

	probe := liveProbe(rows)
	if probe == nil {
		return "", ErrOrderNotFound
	}

	var next domain.PaymentStatus
	switch probe.PaymentStatus {
	case domain.PaymentSent:
		next = domain.PaymentPaid
	case domain.PaymentPaid:
		next = domain.PaymentConfirmed
	default:
		return "", ErrPaymentTransition
	}

	if err := s.repo.UpdateOrderPaymentStatus(ctx, orderID, next); err != nil {
		return "", fmt.Errorf("s.repo.UpdateOrderPaymentStatus -> %w", err)
	}

	director, derr := s.users.FindByID(ctx, directorID)
	if derr != nil {
		zap.L().Warn("payment confirmed but director lookup failed", zap.Uint("user_id", directorID), zap.Error(derr))
	}
	s.appendHistory(ctx, "payment_"+string(next), "order "+orderID, director.Email)

	return next, nil
}

// ApproveOrder moves a pending order to approved.
func (s *RegistrationService) ApproveOrder(ctx context.Context, directorID uint, orderID string) error {
	rows, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("s.repo.FindByOrderID -> %w", err)
	}

	probe := liveProbe(rows)
	if probe == nil || probe.Status != domain.StatusPending {
		return ErrOrderNotPending
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, domain.StatusApproved); err != nil {
		return fmt.Errorf("s.repo.UpdateOrderStatus -> %w", err)
	}

	director, derr := s.users.FindByID(ctx, directorID)
	if derr != nil {
		zap.L().Warn("order approved but director lookup failed", zap.Uint("user_id", directorID), zap.Error(derr))
	}
	s.appendHistory(ctx, "order_approved", "order "+orderID, director.Email)

	return nil
}

// VenmoQR renders the order's payment deep link as a PNG QR code.
func (s *RegistrationService) VenmoQR(ctx context.Context, parentID uint, orderID string) ([]byte, error) {
	rows, err := s.ownedOrder(ctx, parentID, orderID)
	if err != nil {
		return nil, err
	}

	var due int64
	for i := range rows {
		due += rows[i].DueCents()
	}

	camp := s.camp()
	link := venmo.PaymentLink(camp.VenmoHandle, due, rows[0].VenmoCode)

	png, err := venmo.QRCodePNG(link, 256)
	if err != nil {
		return nil, fmt.Errorf("venmo.QRCodePNG -> %w", err)
	}

	return png, nil
}

// buildOrder validates the selection against live availability and produces
// the priced, prorated rows. Nothing is persisted here. Availability is
// resolved with orderID's own rows excluded, so an edit may keep slots it
// already holds; on a fresh submit the new orderID matches nothing.
func (s *RegistrationService) buildOrder(ctx context.Context, parentID uint, camperIDs []uint, sel booking.Selection, orderID, venmoCode string) (domain.Order, error) {
	if len(camperIDs) == 0 {
		return domain.Order{}, ErrNoCampersSelected
	}
	if sel.TotalSessions() == 0 {
		return domain.Order{}, ErrEmptySelection
	}
	for _, id := range camperIDs {
		if err := s.requireOwned(ctx, parentID, id); err != nil {
			return domain.Order{}, err
		}
	}

	r, err := s.resolverFor(ctx, camperIDs, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	for _, date := range sel.Dates() {
		for _, session := range sel.SessionsOn(date) {
			if !r.Available(date, session) {
				return domain.Order{}, fmt.Errorf("%s %s: %w", date, session, ErrSlotUnavailable)
			}
		}
	}

	quote := booking.Price(sel, len(camperIDs), r, s.priceConfig())

	var rows []domain.Registration
	var rowBase []int64
	cost := s.camp().SessionCostCents
	for _, camperID := range camperIDs {
		for _, date := range sel.Dates() {
			sessions := sel.SessionsOn(date)
			base := int64(len(sessions)) * cost
			rows = append(rows, domain.Registration{
				ID:            uuid.NewString(),
				OrderID:       orderID,
				CamperID:      camperID,
				Date:          date,
				Sessions:      sessions,
				Status:        domain.StatusPending,
				PaymentStatus: domain.PaymentUnpaid,
				AmountCents:   base,
				VenmoCode:     venmoCode,
			})
			rowBase = append(rowBase, base)
		}
	}

	discounts := booking.ProrateDiscount(rowBase, quote.OriginalCents, quote.DiscountCents)
	for i := range rows {
		rows[i].DiscountCents = discounts[i]
	}

	return domain.Order{
		OrderID:       orderID,
		Registrations: rows,
		TotalCents:    quote.OriginalCents,
		DiscountCents: quote.DiscountCents,
		DueCents:      quote.FinalCents,
		VenmoCode:     venmoCode,
	}, nil
}

// ownedOrder loads an order and checks every row belongs to one of the
// parent's campers. A foreign order reads the same as a missing one.
func (s *RegistrationService) ownedOrder(ctx context.Context, parentID uint, orderID string) ([]domain.Registration, error) {
	rows, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("s.repo.FindByOrderID -> %w", err)
	}

	seen := map[uint]bool{}
	for i := range rows {
		if seen[rows[i].CamperID] {
			continue
		}
		owned, err := s.campers.IsOwnedBy(ctx, rows[i].CamperID, parentID)
		if err != nil {
			return nil, fmt.Errorf("s.campers.IsOwnedBy -> %w", err)
		}
		if !owned {
			return nil, ErrOrderNotFound
		}
		seen[rows[i].CamperID] = true
	}

	return rows, nil
}

// resolverFor builds the availability resolver over the union of the given
// campers' live registrations. excludeOrderID keeps one order's own rows out
// of the registered set; an edit must not collide with the slots it is
// replacing.
func (s *RegistrationService) resolverFor(ctx context.Context, camperIDs []uint, excludeOrderID string) (*schedule.Resolver, error) {
	days, blocked, rentals, err := s.schedule.Season(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.schedule.Season -> %w", err)
	}

	registered := map[string][]domain.Session{}
	for _, camperID := range camperIDs {
		slots, err := s.repo.FindLiveSlots(ctx, camperID, excludeOrderID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindLiveSlots -> %w", err)
		}
		for date, sessions := range slots {
			registered[date] = append(registered[date], sessions...)
		}
	}

	return schedule.NewResolver(days, blocked, rentals, registered), nil
}

func (s *RegistrationService) parentCamperIDs(ctx context.Context, parentID uint) ([]uint, error) {
	campers, err := s.campers.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("s.campers.FindByParentID -> %w", err)
	}

	ids := make([]uint, 0, len(campers))
	for _, c := range campers {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (s *RegistrationService) requireOwned(ctx context.Context, parentID, camperID uint) error {
	owned, err := s.campers.IsOwnedBy(ctx, camperID, parentID)
	if err != nil {
		return fmt.Errorf("s.campers.IsOwnedBy -> %w", err)
	}
	if !owned {
		return ErrCamperNotFound
	}
	return nil
}

func (s *RegistrationService) priceConfig() booking.PriceConfig {
	camp := s.camp()
	return booking.PriceConfig{
		SessionCostCents: camp.SessionCostCents,
		WeekDiscountPct:  camp.WeekDiscountPct,
	}
}

func (s *RegistrationService) appendHistory(ctx context.Context, action, details, changedBy string) {
	entry := domain.ChangeEntry{
		Timestamp: time.Now(),
		Action:    action,
		Details:   details,
		ChangedBy: changedBy,
	}
	if changedBy != "" {
		entry.RelatedEmails = []string{changedBy}
	}
	if _, err := s.history.Append(ctx, entry); err != nil {
		zap.L().Warn("change history append failed", zap.String("action", action), zap.Error(err))
	}
}

// liveProbe picks a representative non-cancelled row of an order.
func liveProbe(rows []domain.Registration) *domain.Registration {
	for i := range rows {
		if rows[i].Status != domain.StatusCancelled {
			return &rows[i]
		}
	}
	return nil
}

// newVenmoCode is the short reference parents put in the Venmo memo.
func newVenmoCode() string {
	return "SRC-" + strings.ToUpper(uuid.NewString()[:8])
}
