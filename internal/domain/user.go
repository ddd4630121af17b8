package domain

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleOwner    UserRole = "owner"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Name        string   `json:"name"`
	Role        UserRole `json:"role"`
}

// Actor identifies who is invoking a command.
type Actor struct {
	UserID string
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
