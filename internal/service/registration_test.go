package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sunridge-camp/portal-api/internal/booking"
	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
	"github.com/sunridge-camp/portal-api/internal/storage/draftstore"
)

type fakeDraftStore struct {
	selections map[uint]booking.Selection
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{selections: make(map[uint]booking.Selection)}
}

func (f *fakeDraftStore) SaveSelection(_ context.Context, parentID uint, sel booking.Selection) error {
	f.selections[parentID] = sel
	return nil
}

func (f *fakeDraftStore) LoadSelection(_ context.Context, parentID uint) (booking.Selection, error) {
	sel, ok := f.selections[parentID]
	if !ok {
		return nil, draftstore.ErrDraftNotFound
	}
	return sel, nil
}

func (f *fakeDraftStore) DeleteSelection(_ context.Context, parentID uint) error {
	delete(f.selections, parentID)
	return nil
}

type fakeOrderMailer struct {
	confirmations []string // recipient emails
}

func (f *fakeOrderMailer) SendOrderConfirmation(_ context.Context, to string, _ domain.Order, _, _ string) error {
	f.confirmations = append(f.confirmations, to)
	return nil
}

type fakePhotoStore struct{}

func (fakePhotoStore) Upload(_ context.Context, bucket, id, _ string) (string, error) {
	return "https://photos.test/object/public/" + bucket + "/" + id, nil
}

type registrationFixture struct {
	svc      *RegistrationService
	db       *gorm.DB
	drafts   *fakeDraftStore
	mailer   *fakeOrderMailer
	history  *repository.HistoryRepository
	parentID uint
	camperID uint
}

// 2026-06-15 is a Monday.
var fixtureWeek = []string{"2026-06-15", "2026-06-16", "2026-06-17", "2026-06-18", "2026-06-19"}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	parent := dao.User{Email: "dana@example.com", Password: "x", Name: "Dana Whitfield",
		Phone: "5552013344", Role: "parent"}
	require.NoError(t, db.Create(&parent).Error)
	camper := dao.Camper{Name: "Mia Whitfield", Birthdate: "2018-04-02", Grade: "2"}
	require.NoError(t, db.Create(&camper).Error)
	require.NoError(t, db.Create(&dao.CamperParentLink{CamperID: camper.ID, ParentID: parent.ID}).Error)

	for _, d := range fixtureWeek {
		require.NoError(t, db.Create(&dao.CampDate{Date: d}).Error)
	}

	drafts := newFakeDraftStore()
	mailer := &fakeOrderMailer{}
	history := repository.NewHistoryRepository(dao.NewHistoryDAO(db, domain.ChangeHistoryCap))

	svc := NewRegistrationService(
		repository.NewRegistrationRepository(dao.NewRegistrationDAO(db)),
		repository.NewScheduleRepository(dao.NewScheduleDAO(db)),
		repository.NewCamperRepository(dao.NewCamperDAO(db)),
		repository.NewUserRepository(dao.NewUserDAO(db)),
		drafts,
		mailer,
		history,
		fakePhotoStore{},
		func() *config.CampConfig {
			return &config.CampConfig{
				SessionCostCents: 6000,
				WeekDiscountPct:  10,
				VenmoHandle:      "sunridge-day-camp",
			}
		},
	)

	return &registrationFixture{
		svc:      svc,
		db:       db,
		drafts:   drafts,
		mailer:   mailer,
		history:  history,
		parentID: parent.ID,
		camperID: camper.ID,
	}
}

func fullWeekSelection() booking.Selection {
	sel := booking.NewSelection()
	for _, d := range fixtureWeek {
		sel[d] = map[domain.Session]bool{
			domain.SessionMorning:   true,
			domain.SessionAfternoon: true,
		}
	}
	return sel
}

func TestRegistrationService_SubmitOrderFullWeek(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	require.NoError(t, f.drafts.SaveSelection(ctx, f.parentID, fullWeekSelection()))

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	assert.Equal(t, int64(60000), order.TotalCents)
	assert.Equal(t, int64(6000), order.DiscountCents)
	assert.Equal(t, int64(54000), order.DueCents)
	require.Len(t, order.Registrations, 5) // one row per camper per date

	var discountSum int64
	for _, row := range order.Registrations {
		assert.Equal(t, domain.StatusPending, row.Status)
		assert.Equal(t, domain.PaymentUnpaid, row.PaymentStatus)
		assert.Equal(t, order.VenmoCode, row.VenmoCode)
		discountSum += row.DiscountCents
	}
	assert.Equal(t, order.DiscountCents, discountSum)

	// Draft cleared, confirmation sent, history written.
	_, err = f.drafts.LoadSelection(ctx, f.parentID)
	assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)
	assert.Equal(t, []string{"dana@example.com"}, f.mailer.confirmations)

	entries, err := f.history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "order_submitted", entries[0].Action)

	due, err := f.svc.AmountDue(ctx, f.parentID)
	require.NoError(t, err)
	assert.Equal(t, int64(54000), due)
}

func TestRegistrationService_SubmitOrderValidation(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitOrder(ctx, f.parentID, nil, fullWeekSelection())
	assert.ErrorIs(t, err, ErrNoCampersSelected)

	_, err = f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, booking.NewSelection())
	assert.ErrorIs(t, err, ErrEmptySelection)

	// Someone else's camper reads as not found.
	_, err = f.svc.SubmitOrder(ctx, f.parentID+100, []uint{f.camperID}, fullWeekSelection())
	assert.ErrorIs(t, err, ErrCamperNotFound)
}

func TestRegistrationService_SubmitOrderRejectsUnavailableSlot(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Create(&dao.BlockedSession{Date: "2026-06-15", Session: "morning"}).Error)

	_, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestRegistrationService_SubmitOrderRejectsAlreadyRegisteredSlot(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sel := booking.Selection{"2026-06-15": {domain.SessionMorning: true}}
	_, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, sel)
	require.NoError(t, err)

	_, err = f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, sel)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestRegistrationService_EditOrderKeepsIDAndVenmoCode(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	original, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	smaller := booking.Selection{"2026-06-15": {domain.SessionMorning: true}}
	edited, err := f.svc.EditOrder(ctx, f.parentID, original.OrderID, []uint{f.camperID}, smaller)
	require.NoError(t, err)

	assert.Equal(t, original.OrderID, edited.OrderID)
	assert.Equal(t, original.VenmoCode, edited.VenmoCode)
	assert.Equal(t, int64(6000), edited.DueCents)

	// The old rows are cancelled and flagged, not rewritten.
	var rows []dao.Registration
	require.NoError(t, f.db.Where("order_id = ?", original.OrderID).Find(&rows).Error)
	require.Len(t, rows, 6)
	cancelled := 0
	for _, r := range rows {
		if r.Status == "cancelled" {
			assert.True(t, r.ReplacedByEdit)
			cancelled++
		}
	}
	assert.Equal(t, 5, cancelled)

	due, err := f.svc.AmountDue(ctx, f.parentID)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), due)
}

func TestRegistrationService_EditOrderKeepsOwnSlots(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID},
		booking.Selection{"2026-06-15": {domain.SessionMorning: true}})
	require.NoError(t, err)

	// An edit may retain slots the order itself holds; only other orders'
	// registrations block it.
	edited, err := f.svc.EditOrder(ctx, f.parentID, order.OrderID, []uint{f.camperID},
		booking.Selection{"2026-06-15": {domain.SessionMorning: true, domain.SessionAfternoon: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), edited.DueCents)

	other, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID},
		booking.Selection{"2026-06-16": {domain.SessionMorning: true}})
	require.NoError(t, err)

	_, err = f.svc.EditOrder(ctx, f.parentID, order.OrderID, []uint{f.camperID},
		booking.Selection{"2026-06-16": {domain.SessionMorning: true}})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = f.svc.EditOrder(ctx, f.parentID, other.OrderID, []uint{f.camperID},
		booking.Selection{"2026-06-16": {domain.SessionAfternoon: true}})
	assert.NoError(t, err)
}

func TestRegistrationService_MarkPaymentSentAfterEdit(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkPaymentSent(ctx, f.parentID, order.OrderID, ""))

	// The edit resets the live rows to unpaid; the cancelled rows keep their
	// old payment state but must not decide the transition.
	_, err = f.svc.EditOrder(ctx, f.parentID, order.OrderID, []uint{f.camperID},
		booking.Selection{"2026-06-15": {domain.SessionMorning: true}})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkPaymentSent(ctx, f.parentID, order.OrderID, ""))

	var rows []dao.Registration
	require.NoError(t, f.db.Where("order_id = ? AND status <> ?", order.OrderID, "cancelled").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "sent", rows[0].PaymentStatus)
}

func TestRegistrationService_EditOrderRejectsPaidOrder(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	director := dao.User{Email: "director@example.com", Password: "x", Name: "Director",
		Phone: "5559990000", Role: "director"}
	require.NoError(t, f.db.Create(&director).Error)

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkPaymentSent(ctx, f.parentID, order.OrderID, ""))

	_, err = f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	require.NoError(t, err) // sent -> paid

	smaller := booking.Selection{"2026-06-15": {domain.SessionMorning: true}}
	_, err = f.svc.EditOrder(ctx, f.parentID, order.OrderID, []uint{f.camperID}, smaller)
	assert.ErrorIs(t, err, ErrOrderPaid)

	_, err = f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	require.NoError(t, err) // paid -> confirmed
	_, err = f.svc.EditOrder(ctx, f.parentID, order.OrderID, []uint{f.camperID}, smaller)
	assert.ErrorIs(t, err, ErrOrderPaid)

	// Nothing was re-billed.
	due, err := f.svc.AmountDue(ctx, f.parentID)
	require.NoError(t, err)
	assert.Zero(t, due)
}

func TestRegistrationService_EditOrderOwnershipGate(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	stranger := dao.User{Email: "other@example.com", Password: "x", Name: "Other",
		Phone: "5550000000", Role: "parent"}
	require.NoError(t, f.db.Create(&stranger).Error)

	_, err = f.svc.EditOrder(ctx, stranger.ID, order.OrderID, []uint{f.camperID},
		booking.Selection{"2026-06-15": {domain.SessionMorning: true}})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRegistrationService_PaymentFlow(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	director := dao.User{Email: "director@example.com", Password: "x", Name: "Director",
		Phone: "5559990000", Role: "director"}
	require.NoError(t, f.db.Create(&director).Error)

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	// Confirming before the parent marks it sent is illegal.
	_, err = f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	assert.ErrorIs(t, err, ErrPaymentTransition)

	require.NoError(t, f.svc.MarkPaymentSent(ctx, f.parentID, order.OrderID, ""))
	// Marking twice would skip a step.
	assert.ErrorIs(t, f.svc.MarkPaymentSent(ctx, f.parentID, order.OrderID, ""), ErrPaymentTransition)

	next, err := f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, next)

	// A paid order owes nothing.
	due, err := f.svc.AmountDue(ctx, f.parentID)
	require.NoError(t, err)
	assert.Zero(t, due)

	next, err = f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentConfirmed, next)

	// Confirmed is terminal.
	_, err = f.svc.ConfirmPayment(ctx, director.ID, order.OrderID)
	assert.ErrorIs(t, err, ErrPaymentTransition)
}

func TestRegistrationService_ApproveOrder(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	director := dao.User{Email: "director@example.com", Password: "x", Name: "Director",
		Phone: "5559990000", Role: "director"}
	require.NoError(t, f.db.Create(&director).Error)

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	require.NoError(t, f.svc.ApproveOrder(ctx, director.ID, order.OrderID))
	assert.ErrorIs(t, f.svc.ApproveOrder(ctx, director.ID, order.OrderID), ErrOrderNotPending)

	assert.ErrorIs(t, f.svc.ApproveOrder(ctx, director.ID, "no-such-order"), ErrOrderNotFound)
}

func TestRegistrationService_ScheduleReflectsLiveRegistrations(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	sel := booking.Selection{"2026-06-15": {domain.SessionMorning: true}}
	_, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, sel)
	require.NoError(t, err)

	days, err := f.svc.Schedule(ctx, f.parentID, f.camperID)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, []domain.Session{domain.SessionAfternoon}, days[0].Open)
	assert.Equal(t, []domain.Session{domain.SessionMorning}, days[0].Booked)
}

func TestRegistrationService_Drafts(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetDraft(ctx, f.parentID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	sel := booking.Selection{"2026-06-15": {domain.SessionMorning: true}}
	require.NoError(t, f.svc.SaveDraft(ctx, f.parentID, sel))

	loaded, err := f.svc.GetDraft(ctx, f.parentID)
	require.NoError(t, err)
	assert.True(t, loaded.Has("2026-06-15", domain.SessionMorning))

	require.NoError(t, f.svc.DiscardDraft(ctx, f.parentID))
	_, err = f.svc.GetDraft(ctx, f.parentID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRegistrationService_VenmoQR(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, f.parentID, []uint{f.camperID}, fullWeekSelection())
	require.NoError(t, err)

	png, err := f.svc.VenmoQR(ctx, f.parentID, order.OrderID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
