package service

import (
	"context"
	"fmt"
	"strings"

	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type vehicleService struct {
	coord       *Coordinator
	vehicleRepo repository.VehicleRepository
	catalog     *catalog.Catalog
	now         nowFunc
}

func NewVehicleService(coord *Coordinator, vehicleRepo repository.VehicleRepository, cat *catalog.Catalog) VehicleService {
	return &vehicleService{
		coord:       coord,
		vehicleRepo: vehicleRepo,
		catalog:     cat,
		now:         systemNow,
	}
}

// RegisterVehicle lists a vehicle for the actor. Admins may register on
// behalf of an owner. A zero daily rate falls back to the class rate and
// approval always starts pending.
func (s *vehicleService) RegisterVehicle(ctx context.Context, actor domain.Actor, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.RegisterVehicle", "actorID", actor.UserID, "name", vehicle.Name)

	v := *vehicle
	if !actor.IsAdmin() || v.OwnerID == "" {
		v.OwnerID = actor.UserID
	}
	v.Name = strings.TrimSpace(v.Name)
	if err := s.validate(&v); err != nil {
		logger.ExitMethodWithError("vehicleService.RegisterVehicle", err, "actorID", actor.UserID)
		return nil, err
	}

	now := s.now()
	v.ID = uuid.NewString()
	v.Approval = domain.VehicleApprovalPending
	v.CreatedOn = now
	v.UpdatedOn = now

	err := s.coord.Do(func() error {
		if err := s.vehicleRepo.Create(ctx, &v); err != nil {
			return fmt.Errorf("failed to register vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.RegisterVehicle", err, "actorID", actor.UserID)
		return nil, err
	}

	logger.ExitMethod("vehicleService.RegisterVehicle", "vehicleID", v.ID, "dailyRate", v.DailyRate)
	return &v, nil
}

func (s *vehicleService) validate(v *domain.Vehicle) error {
	if v.OwnerID == "" {
		return domain.NewValidationError("owner is required")
	}
	if v.Name == "" {
		return domain.NewValidationError("vehicle name is required")
	}
	if v.DailyRate < 0 {
		return domain.NewValidationError("daily rate cannot be negative")
	}
	if v.DailyRate == 0 {
		rate, ok := s.catalog.ClassRate(v.Class)
		if !ok {
			return domain.NewValidationError("daily rate is required for vehicle class %q", v.Class)
		}
		v.DailyRate = rate
	}
	return nil
}

func (s *vehicleService) SetAvailability(ctx context.Context, actor domain.Actor, vehicleID string, available bool) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.SetAvailability", "vehicleID", vehicleID, "available", available)
	v, err := s.update(ctx, vehicleID, func(v *domain.Vehicle) error {
		if !actor.IsAdmin() && v.OwnerID != actor.UserID {
			return domain.ErrForbidden
		}
		v.Available = available
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.SetAvailability", err, "vehicleID", vehicleID)
		return nil, err
	}
	logger.ExitMethod("vehicleService.SetAvailability", "vehicleID", vehicleID)
	return v, nil
}

func (s *vehicleService) SetApproval(ctx context.Context, actor domain.Actor, vehicleID string, approval domain.VehicleApproval) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.SetApproval", "vehicleID", vehicleID, "approval", approval)
	if !actor.IsAdmin() {
		logger.ExitMethodWithError("vehicleService.SetApproval", domain.ErrForbidden, "vehicleID", vehicleID)
		return nil, domain.ErrForbidden
	}
	if !approval.IsValid() {
		err := domain.NewValidationError("invalid approval status %q", approval)
		logger.ExitMethodWithError("vehicleService.SetApproval", err, "vehicleID", vehicleID)
		return nil, err
	}
	v, err := s.update(ctx, vehicleID, func(v *domain.Vehicle) error {
		v.Approval = approval
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.SetApproval", err, "vehicleID", vehicleID)
		return nil, err
	}
	logger.ExitMethod("vehicleService.SetApproval", "vehicleID", vehicleID)
	return v, nil
}

func (s *vehicleService) update(ctx context.Context, vehicleID string, fn func(*domain.Vehicle) error) (*domain.Vehicle, error) {
	var result *domain.Vehicle
	err := s.coord.Do(func() error {
		v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
		v.UpdatedOn = s.now()
		if err := s.vehicleRepo.Update(ctx, v); err != nil {
			return fmt.Errorf("failed to update vehicle: %w", err)
		}
		result = v
		return nil
	})
	return result, err
}

func (s *vehicleService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

func (s *vehicleService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}
