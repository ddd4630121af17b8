package main

import (
	"context"
	"fmt"
	"time"

	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/config"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository/memory"
)

// seed loads the configured users and vehicles into the memory store.
// Vehicles without a daily rate take their class rate.
func seed(ctx context.Context, store *memory.Store, cat *catalog.Catalog, cfg config.SeedConfig) error {
	for _, u := range cfg.Users {
		role := domain.UserRole(u.Role)
		if role == "" {
			role = domain.UserRoleCustomer
		}
		if err := store.UserRepository.Create(ctx, &domain.User{
			ID:          u.ID,
			Email:       u.Email,
			PhoneNumber: u.Phone,
			Name:        u.Name,
			Role:        role,
		}); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}

	now := time.Now()
	for _, sv := range cfg.Vehicles {
		class := domain.VehicleClass(sv.Class)
		rate := sv.DailyRate
		if rate == 0 {
			classRate, ok := cat.ClassRate(class)
			if !ok {
				return fmt.Errorf("vehicle %s: no daily rate and unknown class %q", sv.ID, sv.Class)
			}
			rate = classRate
		}
		approval := domain.VehicleApprovalPending
		if sv.Approved {
			approval = domain.VehicleApprovalApproved
		}
		if err := store.VehicleRepository.Create(ctx, &domain.Vehicle{
			ID:        sv.ID,
			OwnerID:   sv.OwnerID,
			Name:      sv.Name,
			Class:     class,
			DailyRate: rate,
			Approval:  approval,
			Available: sv.Available,
			Location:  sv.Location,
			CreatedOn: now,
			UpdatedOn: now,
		}); err != nil {
			return fmt.Errorf("failed to seed vehicle %s: %w", sv.ID, err)
		}
	}

	logger.Info("Seeded store", "users", len(cfg.Users), "vehicles", len(cfg.Vehicles))
	return nil
}
