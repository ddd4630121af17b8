// Package memory keeps all marketplace state in process memory. Every read
// returns a copy, so stored records only change through the repository
// methods.
package memory

import (
	"biliran-rental-backend/internal/repository"
)

type Store struct {
	repository.VehicleRepository
	repository.UserRepository
	repository.BookingRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	return &Store{
		VehicleRepository:      NewVehicleRepository(),
		UserRepository:         NewUserRepository(),
		BookingRepository:      NewBookingRepository(),
		NotificationRepository: NewNotificationRepository(),
	}
}
