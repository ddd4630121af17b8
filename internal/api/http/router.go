package http

import (
	"net/http"

	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/security"
	"biliran-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// JobTrigger runs a named maintenance job synchronously.
type JobTrigger interface {
	Run(name string) error
}

// Services holds everything the HTTP handlers call into.
type Services struct {
	Vehicles      service.VehicleService
	Availability  service.AvailabilityService
	Bookings      service.BookingService
	Messages      service.MessageService
	Notifications service.NotificationService
	Catalog       *catalog.Catalog
	Jobs          JobTrigger
}

type handler struct {
	svcs *Services
}

// NewRouter builds the API router with logging, rate limiting and
// authentication installed. limiter may be nil.
func NewRouter(svcs *Services, tm security.TokenManager, limiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(LoggingMiddleware, limiter.Middleware, AuthMiddleware(tm))
	RegisterRoutes(router, svcs)
	return router
}

// RegisterRoutes registers the booking API. Route names key the security
// levels in config.RouteSecurityConfig.
func RegisterRoutes(router *mux.Router, svcs *Services) {
	h := &handler{svcs: svcs}

	router.HandleFunc("/health", h.health).Methods("GET").Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/catalog", h.getCatalog).Methods("GET").Name("GetCatalog")

	// Vehicles
	api.HandleFunc("/vehicles", h.listVehicles).Methods("GET").Name("ListVehicles")
	api.HandleFunc("/vehicles", h.registerVehicle).Methods("POST").Name("RegisterVehicle")
	api.HandleFunc("/vehicles/available", h.getAvailableVehicles).Methods("GET").Name("GetAvailableVehicles")
	api.HandleFunc("/vehicles/{id}", h.getVehicle).Methods("GET").Name("GetVehicle")
	api.HandleFunc("/vehicles/{id}/conflicts", h.checkConflict).Methods("GET").Name("CheckConflict")
	api.HandleFunc("/vehicles/{id}/availability", h.setAvailability).Methods("PUT").Name("SetAvailability")
	api.HandleFunc("/vehicles/{id}/approval", h.setApproval).Methods("PUT").Name("SetApproval")

	// Bookings
	api.HandleFunc("/bookings", h.createBooking).Methods("POST").Name("CreateBooking")
	api.HandleFunc("/bookings", h.listBookings).Methods("GET").Name("ListBookings")
	api.HandleFunc("/bookings/{id}", h.getBooking).Methods("GET").Name("GetBooking")
	api.HandleFunc("/bookings/{id}/approve", h.lifecycle(svcs.Bookings.Approve)).Methods("POST").Name("ApproveBooking")
	api.HandleFunc("/bookings/{id}/reject", h.withReason(svcs.Bookings.Reject)).Methods("POST").Name("RejectBooking")
	api.HandleFunc("/bookings/{id}/release", h.lifecycle(svcs.Bookings.Release)).Methods("POST").Name("ReleaseBooking")
	api.HandleFunc("/bookings/{id}/return", h.lifecycle(svcs.Bookings.Return)).Methods("POST").Name("ReturnBooking")
	api.HandleFunc("/bookings/{id}/complete", h.lifecycle(svcs.Bookings.Complete)).Methods("POST").Name("CompleteBooking")
	api.HandleFunc("/bookings/{id}/cancel", h.withReason(svcs.Bookings.Cancel)).Methods("POST").Name("CancelBooking")

	// Ledger
	api.HandleFunc("/bookings/{id}/addons/{addon}", h.toggleAddon).Methods("PUT").Name("ToggleAddon")
	api.HandleFunc("/bookings/{id}/promo", h.applyPromo).Methods("PUT").Name("ApplyPromo")
	api.HandleFunc("/bookings/{id}/late-fees", h.postLateFee).Methods("POST").Name("PostLateFee")
	api.HandleFunc("/bookings/{id}/payment", h.recordPayment).Methods("PUT").Name("RecordPayment")

	// Condition
	api.HandleFunc("/bookings/{id}/condition/{phase}", h.uploadCondition).Methods("PUT").Name("UploadCondition")
	api.HandleFunc("/bookings/{id}/penalties", h.getPenalties).Methods("GET").Name("GetPenalties")

	// Messages
	api.HandleFunc("/bookings/{id}/messages", h.listMessages).Methods("GET").Name("ListMessages")
	api.HandleFunc("/bookings/{id}/messages", h.postMessage).Methods("POST").Name("PostMessage")
	api.HandleFunc("/bookings/{id}/cancellation-request", h.requestCancellation).Methods("POST").Name("RequestCancellation")

	// Notifications
	api.HandleFunc("/notifications", h.getNotifications).Methods("GET").Name("GetNotifications")
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods("POST").Name("MarkNotificationRead")

	// Admin
	api.HandleFunc("/admin/jobs/{name}", h.runJob).Methods("POST").Name("RunJob")
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actor returns the caller. Routes behind AuthMiddleware always have one.
func actor(r *http.Request) domain.Actor {
	a, _ := ActorFromContext(r.Context())
	return a
}
