package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"biliran-rental-backend/internal/assessment"
	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/jobs"
	"biliran-rental-backend/internal/repository/memory"
	"biliran-rental-backend/internal/security"
	"biliran-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

// MockJobTrigger
type MockJobTrigger struct {
	mock.Mock
}

func (m *MockJobTrigger) Run(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

type apiFixture struct {
	t      *testing.T
	store  *memory.Store
	tokens security.TokenManager
	jobs   *MockJobTrigger
	router http.Handler

	ownerToken    string
	customerToken string
	otherToken    string
	adminToken    string
}

func newAPIFixture(t *testing.T, limiter *RateLimiter) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	coord := service.NewCoordinator()
	cat := catalog.New(nil)
	notes := service.NewNotificationService(store.NotificationRepository, store.UserRepository, nil)
	avail := service.NewAvailabilityService(store.BookingRepository, store.VehicleRepository)
	svcs := &Services{
		Vehicles:     service.NewVehicleService(coord, store.VehicleRepository, cat),
		Availability: avail,
		Bookings: service.NewBookingService(coord, store.BookingRepository, store.VehicleRepository, avail, cat,
			assessment.NewEngine(nil), notes, service.BookingOptions{Location: time.UTC}),
		Messages:      service.NewMessageService(coord, store.BookingRepository, notes),
		Notifications: notes,
		Catalog:       cat,
	}
	jobTrigger := new(MockJobTrigger)
	svcs.Jobs = jobTrigger

	tm := security.NewTokenManager(testSecret, time.Hour)
	f := &apiFixture{
		t:      t,
		store:  store,
		tokens: tm,
		jobs:   jobTrigger,
		router: NewRouter(svcs, tm, limiter),
	}
	f.ownerToken = f.token("owner-1", domain.UserRoleOwner)
	f.customerToken = f.token("customer-1", domain.UserRoleCustomer)
	f.otherToken = f.token("customer-2", domain.UserRoleCustomer)
	f.adminToken = f.token("admin-1", domain.UserRoleAdmin)

	for _, id := range []string{"v1", "v2"} {
		require.NoError(t, store.VehicleRepository.Create(context.Background(), &domain.Vehicle{
			ID:        id,
			OwnerID:   "owner-1",
			Name:      "Vehicle " + id,
			Class:     domain.VehicleClassSedan,
			DailyRate: 2000,
			Approval:  domain.VehicleApprovalApproved,
			Available: true,
		}))
	}
	return f
}

func (f *apiFixture) token(userID string, role domain.UserRole) string {
	tok, err := f.tokens.GenerateAccessToken(userID, role)
	require.NoError(f.t, err)
	return tok
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type bookingBody struct {
	ID            string               `json:"id"`
	ReferenceCode string               `json:"referenceCode"`
	Status        domain.BookingStatus `json:"status"`
	Payment       domain.PaymentLedger `json:"payment"`
}

func bookingRequest(vehicleID, pickup, ret string) map[string]any {
	return map[string]any{
		"vehicleId":     vehicleID,
		"pickupDate":    pickup,
		"returnDate":    ret,
		"pickupTime":    "09:00",
		"returnTime":    "09:00",
		"paymentMethod": "cash",
		"addons":        map[string]bool{"gps": true},
	}
}

func (f *apiFixture) createBooking(vehicleID, pickup, ret string) bookingBody {
	f.t.Helper()
	rec := f.do("POST", "/api/v1/bookings", f.customerToken, bookingRequest(vehicleID, pickup, ret))
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[bookingBody](f.t, rec)
}

func TestRouter_Health(t *testing.T) {
	f := newAPIFixture(t, nil)
	rec := f.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do("GET", "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	f := newAPIFixture(t, nil)

	t.Run("Public Route", func(t *testing.T) {
		rec := f.do("GET", "/api/v1/vehicles", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing Token", func(t *testing.T) {
		rec := f.do("GET", "/api/v1/bookings", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		rec := f.do("GET", "/api/v1/bookings", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Admin Route", func(t *testing.T) {
		rec := f.do("PUT", "/api/v1/vehicles/v1/approval", f.ownerToken, map[string]string{"approval": "rejected"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.do("PUT", "/api/v1/vehicles/v1/approval", f.adminToken, map[string]string{"approval": "rejected"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_BookingLifecycle(t *testing.T) {
	f := newAPIFixture(t, nil)
	b := f.createBooking("v1", "2024-05-01", "2024-05-03")
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Equal(t, "BK-000001", b.ReferenceCode)
	assert.Equal(t, int64(4300), b.Payment.Total)

	path := "/api/v1/bookings/" + b.ID

	// The customer cannot approve their own request.
	rec := f.do("POST", path+"/approve", f.customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Releasing a pending booking is not a valid transition.
	rec = f.do("POST", path+"/release", f.ownerToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "pending", decode[map[string]any](t, rec)["currentStatus"])

	for _, step := range []struct {
		action string
		want   domain.BookingStatus
	}{
		{"approve", domain.BookingStatusApproved},
		{"release", domain.BookingStatusReleased},
		{"return", domain.BookingStatusReturned},
		{"complete", domain.BookingStatusCompleted},
	} {
		rec := f.do("POST", path+"/"+step.action, f.ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, step.want, decode[bookingBody](t, rec).Status)
	}

	rec = f.do("GET", path, f.otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do("GET", path+"/penalties", f.customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not_assessed", decode[map[string]any](t, rec)["outcome"])
}

func TestRouter_Conflict(t *testing.T) {
	f := newAPIFixture(t, nil)
	first := f.createBooking("v1", "2024-05-01", "2024-05-05")

	rec := f.do("POST", "/api/v1/bookings", f.otherToken, bookingRequest("v1", "2024-05-03", "2024-05-06"))
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error               string           `json:"error"`
		ConflictingBookings []bookingWindow  `json:"conflictingBookings"`
		AlternativeVehicles []domain.Vehicle `json:"alternativeVehicles"`
		NextAvailableDate   string           `json:"nextAvailableDate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.ConflictingBookings, 1)
	assert.Equal(t, first.ReferenceCode, body.ConflictingBookings[0].ReferenceCode)
	assert.Equal(t, "2024-05-05", body.NextAvailableDate)
	require.Len(t, body.AlternativeVehicles, 1)
	assert.Equal(t, "v2", body.AlternativeVehicles[0].ID)

	t.Run("Check Conflict", func(t *testing.T) {
		rec := f.do("GET", "/api/v1/vehicles/v1/conflicts?pickupDate=2024-05-04&returnDate=2024-05-06", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[conflictCheckResponse](t, rec)
		assert.False(t, resp.Available)
		assert.Equal(t, "2024-05-05", resp.NextAvailableDate)

		// Touching endpoints do not conflict.
		rec = f.do("GET", "/api/v1/vehicles/v1/conflicts?pickupDate=2024-05-05&returnDate=2024-05-06", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[conflictCheckResponse](t, rec).Available)
	})

	t.Run("Available Vehicles", func(t *testing.T) {
		rec := f.do("GET", "/api/v1/vehicles/available?pickupDate=2024-05-02&returnDate=2024-05-03", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[map[string][]domain.Vehicle](t, rec)
		require.Len(t, resp["vehicles"], 1)
		assert.Equal(t, "v2", resp["vehicles"][0].ID)
	})
}

func TestRouter_Validation(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do("POST", "/api/v1/bookings", f.customerToken, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do("POST", "/api/v1/bookings", f.customerToken, bookingRequest("v1", "2024-05-03", "2024-05-01"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid date range")

	rec = f.do("GET", "/api/v1/bookings/missing", f.customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do("GET", "/api/v1/vehicles/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do("PUT", "/api/v1/vehicles/v1/availability", f.ownerToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LedgerAndCondition(t *testing.T) {
	f := newAPIFixture(t, nil)
	b := f.createBooking("v1", "2024-05-01", "2024-05-03")
	path := "/api/v1/bookings/" + b.ID

	rec := f.do("PUT", path+"/promo", f.customerToken, map[string]string{"promoCode": "biliran10"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(430), decode[bookingBody](t, rec).Payment.DiscountAmount)

	rec = f.do("PUT", path+"/addons/gps", f.customerToken, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3600), decode[bookingBody](t, rec).Payment.Total)

	rec = f.do("POST", path+"/approve", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do("PUT", path+"/condition/before", f.ownerToken, map[string]any{
		"fuelLevel":         "full",
		"exteriorCondition": "excellent",
		"interiorCondition": "excellent",
		"odometer":          1000,
		"photoUrl":          "https://img.test/before.jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do("PUT", path+"/condition/after", f.ownerToken, map[string]any{
		"fuelLevel": "full", "exteriorCondition": "excellent", "interiorCondition": "excellent",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do("PUT", path+"/payment", f.ownerToken, map[string]any{"status": "partial", "paid": 1000})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1000), decode[bookingBody](t, rec).Payment.Paid)

	rec = f.do("POST", path+"/late-fees", f.ownerToken, map[string]int64{"amount": 200})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_MessagesAndNotifications(t *testing.T) {
	f := newAPIFixture(t, nil)
	b := f.createBooking("v1", "2024-05-01", "2024-05-03")
	path := "/api/v1/bookings/" + b.ID

	rec := f.do("POST", path+"/messages", f.customerToken, map[string]string{"body": "Can I pick up at 8?"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do("POST", path+"/cancellation-request", f.customerToken, map[string]string{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do("GET", path+"/messages", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]domain.Message](t, rec)["messages"], 1)

	rec = f.do("GET", "/api/v1/notifications?page=1&pageSize=10", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox struct {
		Notifications []domain.Notification `json:"notifications"`
		Total         int32                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Equal(t, int32(2), inbox.Total)
	assert.Equal(t, domain.NotificationNewMessage, inbox.Notifications[0].Type)
	assert.Equal(t, domain.NotificationBookingRequest, inbox.Notifications[1].Type)

	rec = f.do("POST", "/api/v1/notifications/"+inbox.Notifications[0].ID+"/read", f.ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do("POST", "/api/v1/notifications/"+inbox.Notifications[0].ID+"/read", f.customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do("GET", "/api/v1/notifications?page=abc", f.ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RunJob(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.jobs.On("Run", jobs.JobAccrueLateFees).Return(nil)
	f.jobs.On("Run", "bogus").Return(jobs.ErrUnknownJob)

	rec := f.do("POST", "/api/v1/admin/jobs/"+jobs.JobAccrueLateFees, f.customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do("POST", "/api/v1/admin/jobs/"+jobs.JobAccrueLateFees, f.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do("POST", "/api/v1/admin/jobs/bogus", f.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.jobs.AssertNumberOfCalls(t, "Run", 2)
}

func TestRateLimiter(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, 5))

	f := newAPIFixture(t, NewRateLimiter(0.001, 2))
	assert.Equal(t, http.StatusOK, f.do("GET", "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do("GET", "/health", "", nil).Code)

	rec := f.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := start
	limiter := NewRateLimiter(0.001, 1)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = start

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.2"))

	now = start.Add(5 * time.Minute)
	assert.False(t, limiter.allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.Clients())

	// 10.0.0.1 has been idle past the TTL and gets a fresh bucket
	now = start.Add(11 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.Equal(t, 2, limiter.Clients())

	now = start.Add(30 * time.Minute)
	assert.True(t, limiter.allow("10.0.0.3"))
	assert.Equal(t, 1, limiter.Clients())
}
