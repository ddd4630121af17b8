// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with admin role required
)

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"Health": SecurityPublic,

	// Vehicles - Public browsing
	"ListVehicles":         SecurityPublic,
	"GetVehicle":           SecurityPublic,
	"GetAvailableVehicles": SecurityPublic,
	"CheckConflict":        SecurityPublic,
	"GetCatalog":           SecurityPublic,

	// Vehicles - Access Protected
	"RegisterVehicle": SecurityAccess,
	"SetAvailability": SecurityAccess,

	// Vehicles - Admin
	"SetApproval": SecurityAdmin,

	// Bookings - Access Protected
	"CreateBooking":   SecurityAccess,
	"ListBookings":    SecurityAccess,
	"GetBooking":      SecurityAccess,
	"ApproveBooking":  SecurityAccess,
	"RejectBooking":   SecurityAccess,
	"ReleaseBooking":  SecurityAccess,
	"ReturnBooking":   SecurityAccess,
	"CompleteBooking": SecurityAccess,
	"CancelBooking":   SecurityAccess,

	// Ledger - Access Protected
	"ToggleAddon":   SecurityAccess,
	"ApplyPromo":    SecurityAccess,
	"PostLateFee":   SecurityAccess,
	"RecordPayment": SecurityAccess,

	// Condition - Access Protected
	"UploadCondition": SecurityAccess,
	"GetPenalties":    SecurityAccess,

	// Messages - Access Protected
	"ListMessages":        SecurityAccess,
	"PostMessage":         SecurityAccess,
	"RequestCancellation": SecurityAccess,

	// Notifications - Access Protected
	"GetNotifications":     SecurityAccess,
	"MarkNotificationRead": SecurityAccess,

	// Jobs - Admin
	"RunJob": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
