package service_test

import (
	"testing"
	"time"

	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_ToggleAddon(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusPending)

	updated, err := f.bookings.ToggleAddon(f.ctx, customer, b.ID, catalog.AddonInsurance, true)
	require.NoError(t, err)
	assert.True(t, updated.Addons[catalog.AddonInsurance])
	assert.Equal(t, int64(800), updated.Payment.AddonsTotal)
	assert.Equal(t, int64(4800), updated.Payment.Total)

	updated, err = f.bookings.ToggleAddon(f.ctx, customer, b.ID, catalog.AddonInsurance, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Payment.AddonsTotal)
	assert.Equal(t, int64(4000), updated.Payment.Total)

	_, err = f.bookings.ToggleAddon(f.ctx, customer, b.ID, "jetpack", true)
	asType[*domain.ValidationError](t, err)

	_, err = f.bookings.ToggleAddon(f.ctx, stranger, b.ID, catalog.AddonGPS, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	released := f.bookingIn(t, domain.BookingStatusReleased)
	_, err = f.bookings.ToggleAddon(f.ctx, customer, released.ID, catalog.AddonGPS, true)
	asType[*domain.InvalidTransitionError](t, err)
}

func TestBookingService_ApplyPromo(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, "v1", 2000)
	b := f.create(t, request("v1", "2024-05-01", "2024-05-04"))
	require.Equal(t, int64(6000), b.Payment.Total)

	updated, err := f.bookings.ApplyPromo(f.ctx, customer, b.ID, catalog.PromoBiliran10)
	require.NoError(t, err)
	assert.Equal(t, int64(600), updated.Payment.DiscountAmount)
	assert.Equal(t, int64(5400), updated.Payment.Total)

	updated, err = f.bookings.ApplyPromo(f.ctx, customer, b.ID, "welcome5")
	require.NoError(t, err)
	assert.Equal(t, catalog.PromoWelcome5, updated.PromoCode)
	assert.Equal(t, int64(300), updated.Payment.DiscountAmount)

	updated, err = f.bookings.ApplyPromo(f.ctx, customer, b.ID, "NOPE")
	require.NoError(t, err)
	assert.Empty(t, updated.PromoCode)
	assert.Equal(t, int64(6000), updated.Payment.Total)
}

func TestBookingService_PostLateFee(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusReleased)

	updated, err := f.bookings.PostLateFee(f.ctx, owner, b.ID, 400)
	require.NoError(t, err)
	updated, err = f.bookings.PostLateFee(f.ctx, owner, updated.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(600), updated.Payment.LateFees)
	assert.Equal(t, int64(4600), updated.Payment.Total)
	assert.Len(t, f.notifier.sent(domain.NotificationPaymentUpdated), 2)

	_, err = f.bookings.PostLateFee(f.ctx, owner, b.ID, 0)
	asType[*domain.ValidationError](t, err)

	_, err = f.bookings.PostLateFee(f.ctx, customer, b.ID, 100)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pending := f.bookingIn(t, domain.BookingStatusPending)
	_, err = f.bookings.PostLateFee(f.ctx, owner, pending.ID, 100)
	asType[*domain.InvalidTransitionError](t, err)
}

func TestBookingService_AccrueLateFee(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusReleased)
	// scheduled return is 2024-05-03 09:00 UTC

	updated, err := f.bookings.AccrueLateFee(f.ctx, b.ID, time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Payment.LateFees)

	updated, err = f.bookings.AccrueLateFee(f.ctx, b.ID, time.Date(2024, 5, 3, 11, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(600), updated.Payment.LateFees)
	assert.Equal(t, int64(4600), updated.Payment.Total)

	// never lowers an earlier accrual
	updated, err = f.bookings.AccrueLateFee(f.ctx, b.ID, time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(600), updated.Payment.LateFees)

	returned := f.bookingIn(t, domain.BookingStatusReturned)
	_, err = f.bookings.AccrueLateFee(f.ctx, returned.ID, time.Now())
	asType[*domain.InvalidTransitionError](t, err)
}

func TestBookingService_PostedLateFeeSurvivesAccrualAndCompletion(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, "v1", 2000)
	b := f.create(t, request("v1", "2024-05-30", "2024-06-01"))

	_, err := f.bookings.Approve(f.ctx, owner, b.ID)
	require.NoError(t, err)
	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeGood, domain.GradeGood, 5000))
	require.NoError(t, err)
	_, err = f.bookings.Release(f.ctx, owner, b.ID)
	require.NoError(t, err)

	posted, err := f.bookings.PostLateFee(f.ctx, owner, b.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), posted.Payment.LateFees)

	// 3.5 started hours past the 09:00 return
	accrued, err := f.bookings.AccrueLateFee(f.ctx, b.ID, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(500), accrued.Payment.PostedLateFees)
	assert.Equal(t, int64(800), accrued.Payment.AccruedLateFees)
	assert.Equal(t, int64(1300), accrued.Payment.LateFees)
	assert.Equal(t, int64(4000+1300), accrued.Payment.Total)

	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseAfter, domain.FuelFull, domain.GradeGood, domain.GradeGood, 5400))
	require.NoError(t, err)
	f.clock.Set(time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC))
	_, err = f.bookings.Return(f.ctx, owner, b.ID)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC))
	completed, err := f.bookings.Complete(f.ctx, owner, b.ID)
	require.NoError(t, err)
	require.True(t, completed.Penalties.Has(domain.PenaltyLateReturn))

	assert.Equal(t, int64(0), completed.Payment.AccruedLateFees)
	assert.Equal(t, int64(500), completed.Payment.PostedLateFees)
	assert.Equal(t, int64(500), completed.Payment.LateFees)
	assert.Equal(t, int64(900), completed.Payment.Penalties)
	assert.Equal(t, int64(4000+500+900), completed.Payment.Total)
}

func TestBookingService_RecordPayment(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusApproved)

	updated, err := f.bookings.RecordPayment(f.ctx, owner, b.ID, domain.PaymentStatusPartial, 1500)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPartial, updated.Payment.Status)
	assert.Equal(t, int64(1500), updated.Payment.Paid)
	assert.Equal(t, int64(2500), updated.Payment.Balance())

	_, err = f.bookings.RecordPayment(f.ctx, owner, b.ID, "refunded", 0)
	asType[*domain.ValidationError](t, err)

	_, err = f.bookings.RecordPayment(f.ctx, owner, b.ID, domain.PaymentStatusPaid, -1)
	asType[*domain.ValidationError](t, err)

	_, err = f.bookings.RecordPayment(f.ctx, customer, b.ID, domain.PaymentStatusPaid, 4000)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
