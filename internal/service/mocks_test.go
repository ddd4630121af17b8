package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"biliran-rental-backend/internal/assessment"
	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/repository/memory"
	"biliran-rental-backend/internal/service"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n *domain.Notification) {
	m.Called(ctx, n)
}

// sent returns the notifications of the given type, in emission order.
func (m *MockNotifier) sent(typ domain.NotificationType) []*domain.Notification {
	var out []*domain.Notification
	for _, c := range m.Calls {
		if n, ok := c.Arguments.Get(1).(*domain.Notification); ok && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotification(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(t time.Time) { c.now = t }

const (
	ownerID    = "owner-1"
	customerID = "customer-1"
	strangerID = "stranger-1"
)

var (
	owner    = domain.Actor{UserID: ownerID, Role: domain.UserRoleOwner}
	customer = domain.Actor{UserID: customerID, Role: domain.UserRoleCustomer}
	stranger = domain.Actor{UserID: strangerID, Role: domain.UserRoleCustomer}
	admin    = domain.Actor{UserID: "admin-1", Role: domain.UserRoleAdmin}
)

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *MockNotifier
	clock    *fakeClock
	bookings service.BookingService
	vehicles service.VehicleService
	messages service.MessageService
	avail    service.AvailabilityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return()
	clock := &fakeClock{now: time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)}

	coord := service.NewCoordinator()
	cat := catalog.New(nil)
	avail := service.NewAvailabilityService(store.BookingRepository, store.VehicleRepository)
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		notifier: notifier,
		clock:    clock,
		avail:    avail,
		bookings: service.NewBookingService(coord, store.BookingRepository, store.VehicleRepository, avail, cat,
			assessment.NewEngine(nil), notifier, service.BookingOptions{Location: time.UTC, Now: clock.Now}),
		vehicles: service.NewVehicleService(coord, store.VehicleRepository, cat),
		messages: service.NewMessageService(coord, store.BookingRepository, notifier),
	}
}

func (f *fixture) addVehicle(t *testing.T, id string, rate int64) {
	t.Helper()
	require.NoError(t, f.store.VehicleRepository.Create(f.ctx, &domain.Vehicle{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Vehicle " + id,
		Class:     domain.VehicleClassSedan,
		DailyRate: rate,
		Approval:  domain.VehicleApprovalApproved,
		Available: true,
	}))
}

func request(vehicleID, pickup, ret string) domain.BookingRequest {
	return domain.BookingRequest{
		VehicleID:     vehicleID,
		PickupDate:    pickup,
		ReturnDate:    ret,
		PickupTime:    "09:00",
		ReturnTime:    "09:00",
		PaymentMethod: "cash",
	}
}

func (f *fixture) create(t *testing.T, req domain.BookingRequest) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(f.ctx, customer, req)
	require.NoError(t, err)
	return b
}

// bookingIn creates a booking on a fresh vehicle and walks it to status.
func (f *fixture) bookingIn(t *testing.T, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	vehicleID := "v-" + string(status)
	f.addVehicle(t, vehicleID, 2000)
	b := f.create(t, request(vehicleID, "2024-05-01", "2024-05-03"))

	var err error
	step := func(fn func() (*domain.Booking, error)) {
		if err == nil {
			b, err = fn()
		}
	}
	switch status {
	case domain.BookingStatusPending:
	case domain.BookingStatusRejected:
		step(func() (*domain.Booking, error) { return f.bookings.Reject(f.ctx, owner, b.ID, "") })
	case domain.BookingStatusCancelled:
		step(func() (*domain.Booking, error) { return f.bookings.Cancel(f.ctx, customer, b.ID, "") })
	default:
		path := []domain.BookingStatus{
			domain.BookingStatusApproved,
			domain.BookingStatusReleased,
			domain.BookingStatusReturned,
			domain.BookingStatusCompleted,
		}
		for _, next := range path {
			id := b.ID
			switch next {
			case domain.BookingStatusApproved:
				step(func() (*domain.Booking, error) { return f.bookings.Approve(f.ctx, owner, id) })
			case domain.BookingStatusReleased:
				step(func() (*domain.Booking, error) { return f.bookings.Release(f.ctx, owner, id) })
			case domain.BookingStatusReturned:
				step(func() (*domain.Booking, error) { return f.bookings.Return(f.ctx, owner, id) })
			case domain.BookingStatusCompleted:
				step(func() (*domain.Booking, error) { return f.bookings.Complete(f.ctx, owner, id) })
			}
			if next == status {
				break
			}
		}
	}
	require.NoError(t, err)
	require.Equal(t, status, b.Status())
	return b
}

func asType[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	require.Error(t, err)
	require.True(t, errors.As(err, &target), "got %T: %v", err, err)
	return target
}
