package service_test

import (
	"testing"
	"time"

	"biliran-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(bookingID string, phase domain.ConditionPhase, fuel domain.FuelLevel, ext, in domain.ConditionGrade, odometer int64) domain.ConditionUpload {
	return domain.ConditionUpload{
		BookingID:         bookingID,
		Phase:             phase,
		PhotoURL:          "https://photos.example/" + string(phase) + ".jpg",
		FuelLevel:         fuel,
		ExteriorCondition: ext,
		InteriorCondition: in,
		Odometer:          odometer,
	}
}

func TestBookingService_UploadCondition(t *testing.T) {
	t.Run("Before Then Reupload", func(t *testing.T) {
		f := newFixture(t)
		b := f.bookingIn(t, domain.BookingStatusApproved)

		in := upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeExcellent, domain.GradeGood, 1000)
		_, err := f.bookings.UploadCondition(f.ctx, owner, in)
		require.NoError(t, err)

		in.Odometer = 1005
		in.Notes = "small scratch on bumper"
		in.PhotoURL = "https://photos.example/bumper.jpg"
		updated, err := f.bookings.UploadCondition(f.ctx, owner, in)
		require.NoError(t, err)

		snap := updated.Condition.BeforeRental
		require.NotNil(t, snap)
		assert.Equal(t, int64(1005), snap.Odometer)
		assert.Equal(t, "small scratch on bumper", snap.Notes)
		assert.Equal(t, ownerID, snap.RecordedBy)
		require.Len(t, snap.Photos, 2)
		assert.Equal(t, "https://photos.example/before.jpg", snap.Photos[0].URL)
		assert.Equal(t, "https://photos.example/bumper.jpg", snap.Photos[1].URL)
		assert.Nil(t, updated.Condition.AfterRental)
	})

	t.Run("Phase Windows", func(t *testing.T) {
		tests := []struct {
			status  domain.BookingStatus
			phase   domain.ConditionPhase
			allowed bool
		}{
			{domain.BookingStatusPending, domain.ConditionPhaseBefore, false},
			{domain.BookingStatusApproved, domain.ConditionPhaseBefore, true},
			{domain.BookingStatusReleased, domain.ConditionPhaseBefore, true},
			{domain.BookingStatusReturned, domain.ConditionPhaseBefore, false},
			{domain.BookingStatusApproved, domain.ConditionPhaseAfter, false},
			{domain.BookingStatusReleased, domain.ConditionPhaseAfter, true},
			{domain.BookingStatusReturned, domain.ConditionPhaseAfter, true},
			{domain.BookingStatusCompleted, domain.ConditionPhaseAfter, false},
			{domain.BookingStatusCompleted, domain.ConditionPhaseBefore, false},
		}
		for _, tt := range tests {
			t.Run(string(tt.phase)+" in "+string(tt.status), func(t *testing.T) {
				f := newFixture(t)
				b := f.bookingIn(t, tt.status)
				_, err := f.bookings.UploadCondition(f.ctx, owner,
					upload(b.ID, tt.phase, domain.FuelHalf, domain.GradeGood, domain.GradeGood, 100))
				if tt.allowed {
					assert.NoError(t, err)
				} else {
					tErr := asType[*domain.InvalidTransitionError](t, err)
					assert.Equal(t, tt.status, tErr.Current)
				}
			})
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		f := newFixture(t)
		b := f.bookingIn(t, domain.BookingStatusApproved)

		for _, in := range []domain.ConditionUpload{
			upload(b.ID, domain.ConditionPhaseBefore, domain.FuelUnknown, domain.GradeGood, domain.GradeGood, 1),
			upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeUnknown, domain.GradeGood, 1),
			upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeGood, domain.GradeUnknown, 1),
			upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeGood, domain.GradeGood, -1),
			upload(b.ID, "during", domain.FuelFull, domain.GradeGood, domain.GradeGood, 1),
		} {
			_, err := f.bookings.UploadCondition(f.ctx, owner, in)
			asType[*domain.ValidationError](t, err)
		}
	})

	t.Run("Customer Forbidden", func(t *testing.T) {
		f := newFixture(t)
		b := f.bookingIn(t, domain.BookingStatusApproved)
		_, err := f.bookings.UploadCondition(f.ctx, customer,
			upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeGood, domain.GradeGood, 1))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestBookingService_CompleteWithDamage(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusApproved)

	_, err := f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeExcellent, domain.GradeGood, 1000))
	require.NoError(t, err)
	_, err = f.bookings.Release(f.ctx, owner, b.ID)
	require.NoError(t, err)
	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseAfter, domain.FuelHalf, domain.GradePoor, domain.GradeGood, 1000))
	require.NoError(t, err)
	_, err = f.bookings.Return(f.ctx, owner, b.ID)
	require.NoError(t, err)

	preview, err := f.bookings.AssessPenalties(f.ctx, customer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6300), preview.Total)

	completed, err := f.bookings.Complete(f.ctx, owner, b.ID)
	require.NoError(t, err)

	require.NotNil(t, completed.Penalties)
	report := completed.Penalties
	assert.Equal(t, domain.AssessmentAssessedWithDamage, report.Outcome)
	require.Len(t, report.LineItems, 3)
	assert.Equal(t, domain.PenaltyFuelShortfall, report.LineItems[0].Category)
	assert.Equal(t, int64(1000), report.LineItems[0].Amount)
	assert.Equal(t, domain.PenaltyExteriorDamage, report.LineItems[1].Category)
	assert.Equal(t, int64(5000), report.LineItems[1].Amount)
	assert.Equal(t, domain.PenaltyAdminFee, report.LineItems[2].Category)
	assert.Equal(t, int64(6300), report.Total)

	assert.Equal(t, int64(6300), completed.Payment.Penalties)
	assert.Equal(t, int64(4000+6300), completed.Payment.Total)

	stored, err := f.bookings.AssessPenalties(f.ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, report, stored)

	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseAfter, domain.FuelFull, domain.GradeExcellent, domain.GradeGood, 1000))
	asType[*domain.InvalidTransitionError](t, err)
}

func TestBookingService_CompleteLateReturn(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, "v1", 2000)
	req := request("v1", "2024-05-30", "2024-06-01")
	b := f.create(t, req)

	_, err := f.bookings.Approve(f.ctx, owner, b.ID)
	require.NoError(t, err)
	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseBefore, domain.FuelFull, domain.GradeGood, domain.GradeGood, 5000))
	require.NoError(t, err)
	_, err = f.bookings.Release(f.ctx, owner, b.ID)
	require.NoError(t, err)

	accrued, err := f.bookings.AccrueLateFee(f.ctx, b.ID, time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(400), accrued.Payment.LateFees)

	_, err = f.bookings.UploadCondition(f.ctx, owner,
		upload(b.ID, domain.ConditionPhaseAfter, domain.FuelFull, domain.GradeGood, domain.GradeGood, 5400))
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC))
	_, err = f.bookings.Return(f.ctx, owner, b.ID)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC))
	completed, err := f.bookings.Complete(f.ctx, owner, b.ID)
	require.NoError(t, err)

	report := completed.Penalties
	require.NotNil(t, report)
	require.Len(t, report.LineItems, 2)
	assert.Equal(t, domain.PenaltyLateReturn, report.LineItems[0].Category)
	assert.Equal(t, int64(600), report.LineItems[0].Amount)
	assert.Equal(t, domain.PenaltyAdminFee, report.LineItems[1].Category)

	assert.Equal(t, int64(0), completed.Payment.LateFees)
	assert.Equal(t, int64(900), completed.Payment.Penalties)
	assert.Equal(t, int64(4000+900), completed.Payment.Total)
}

func TestBookingService_AssessPenaltiesNotAssessed(t *testing.T) {
	f := newFixture(t)
	b := f.bookingIn(t, domain.BookingStatusReleased)

	report, err := f.bookings.AssessPenalties(f.ctx, customer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssessmentNotAssessed, report.Outcome)
	assert.Empty(t, report.LineItems)
	assert.Equal(t, int64(0), report.Total)

	_, err = f.bookings.AssessPenalties(f.ctx, stranger, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
