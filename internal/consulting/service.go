package consulting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// Service handles consulting inquiry intake.
type Service interface {
	Create(ctx context.Context, input CreateConsultingInput) (*ConsultingDTO, error)
	List(ctx context.Context, page pagination.Page) ([]ConsultingDTO, error)
}

// Repository exposes consulting persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a consulting repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an inquiry using the supplied transaction when present.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, inquiry *models.ConsultingRequest) (*models.ConsultingRequest, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

// List returns inquiries newest first.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.ConsultingRequest, error) {
	page = page.Normalize()
	var items []models.ConsultingRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outboxPublisher
}

// ConsultingEventData is the outbox payload for a new consulting inquiry.
type ConsultingEventData struct {
	InquiryID     uuid.UUID        `json:"inquiry_id"`
	RequesterName string           `json:"requester_name"`
	Email         string           `json:"email"`
	Subject       string           `json:"subject"`
	Details       string           `json:"details"`
	Budget        *decimal.Decimal `json:"budget,omitempty"`
}

// NewService builds the consulting intake service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("consulting repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

func (s *service) Create(ctx context.Context, input CreateConsultingInput) (*ConsultingDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requester category")
	}
	if input.Budget != nil && input.Budget.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget cannot be negative")
	}

	inquiry := &models.ConsultingRequest{
		ID:            uuid.New(),
		RequesterName: strings.TrimSpace(input.RequesterName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         input.Phone,
		Organization:  input.Organization,
		Category:      input.Category,
		Subject:       strings.TrimSpace(input.Subject),
		Details:       input.Details,
		Budget:        input.Budget,
		Status:        enums.RequestStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Create(ctx, tx, inquiry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create consulting inquiry")
		}
		if s.outbox == nil {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventTypeConsultingRequestReceived,
			AggregateType: enums.AggregateTypeConsultingRequest,
			AggregateID:   inquiry.ID,
			Data: ConsultingEventData{
				InquiryID:     inquiry.ID,
				RequesterName: inquiry.RequesterName,
				Email:         inquiry.Email,
				Subject:       inquiry.Subject,
				Details:       inquiry.Details,
				Budget:        inquiry.Budget,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue consulting event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(inquiry), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]ConsultingDTO, error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consulting inquiries")
	}
	return FromModels(items), nil
}
