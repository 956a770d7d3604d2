package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
	"github.com/ziksirlabs/ziksir-backend/pkg/outbox"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service handles the equipment-request intake flow.
type Service interface {
	Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	List(ctx context.Context, status *enums.RequestStatus, page pagination.Page) ([]RequestDTO, error)
	Resolve(ctx context.Context, id uuid.UUID, input ResolveRequestInput) (*RequestDTO, error)
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outboxPublisher
}

// RequestEventData is the outbox payload for a new equipment request.
type RequestEventData struct {
	RequestID     uuid.UUID `json:"request_id"`
	RequesterName string    `json:"requester_name"`
	Email         string    `json:"email"`
	EquipmentName string    `json:"equipment_name"`
	Description   string    `json:"description"`
}

// NewService builds the intake service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

func (s *service) Create(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requester category")
	}

	request := &models.EquipmentRequest{
		ID:            uuid.New(),
		UserID:        input.UserID,
		RequesterName: strings.TrimSpace(input.RequesterName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         input.Phone,
		Category:      input.Category,
		EquipmentName: strings.TrimSpace(input.EquipmentName),
		Description:   input.Description,
		Status:        enums.RequestStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Create(ctx, tx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create equipment request")
		}
		if s.outbox == nil {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventTypeEquipmentRequestReceived,
			AggregateType: enums.AggregateTypeEquipmentRequest,
			AggregateID:   request.ID,
			Data: RequestEventData{
				RequestID:     request.ID,
				RequesterName: request.RequesterName,
				Email:         request.Email,
				EquipmentName: request.EquipmentName,
				Description:   request.Description,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue request event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(request), nil
}

func (s *service) List(ctx context.Context, status *enums.RequestStatus, page pagination.Page) ([]RequestDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}
	items, err := s.repo.List(ctx, status, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment requests")
	}
	return FromModels(items), nil
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID, input ResolveRequestInput) (*RequestDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}

	if err := s.repo.UpdateStatus(ctx, id, input.Status, input.AdminNote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update request")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload request")
	}
	return FromModel(request), nil
}
