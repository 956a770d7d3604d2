package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// bookingCounter reports how many pending/approved bookings still reference an item.
type bookingCounter interface {
	CountActiveByEquipment(ctx context.Context, equipmentID uuid.UUID) (int64, error)
}

// Service manages the equipment catalog.
type Service interface {
	Create(ctx context.Context, input CreateEquipmentInput) (*EquipmentDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EquipmentDTO, error)
	List(ctx context.Context, page pagination.Page) ([]EquipmentDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEquipmentInput) (*EquipmentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Counts(ctx context.Context) (*CatalogCounts, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	bookings bookingCounter
}

// NewService builds an equipment service with the required dependencies.
func NewService(repo Repository, tx txRunner, bookings bookingCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("equipment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, bookings: bookings}, nil
}

func (s *service) Create(ctx context.Context, input CreateEquipmentInput) (*EquipmentDTO, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid equipment status")
	}

	equipment := input.toModel()
	if _, err := s.repo.Create(ctx, equipment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create equipment")
	}
	return FromModel(equipment), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EquipmentDTO, error) {
	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return FromModel(equipment), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]EquipmentDTO, error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}
	return FromModels(items), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEquipmentInput) (*EquipmentDTO, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid equipment status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
		}

		updates := map[string]any{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.Location != nil {
			updates["location"] = *input.Location
		}
		if input.Status != nil {
			updates["status"] = *input.Status
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Specs != nil {
			updates["specs"] = input.Specs
		}
		if input.Tags != nil {
			updates["tags"] = pq.StringArray(input.Tags)
		}
		if input.ImageURL != nil {
			updates["image_url"] = *input.ImageURL
		}
		if input.Quantity != nil && *input.Quantity != current.Quantity {
			newQuantity := *input.Quantity
			held := current.Quantity - current.Available
			if newQuantity < held {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("quantity cannot drop below the %d units currently held", held))
			}
			updates["quantity"] = newQuantity
			updates["available"] = newQuantity - held
		}
		if len(updates) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update equipment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an item once nothing references it. Items with pending or
// approved bookings stay in the catalog until those bookings are decided.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
		}

		if s.bookings != nil {
			active, err := s.bookings.CountActiveByEquipment(ctx, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active bookings")
			}
			if active > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("equipment has %d active bookings", active))
			}
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete equipment")
		}
		return nil
	})
}

func (s *service) Counts(ctx context.Context) (*CatalogCounts, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count equipment")
	}
	return counts, nil
}
