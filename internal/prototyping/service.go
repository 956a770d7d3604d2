package prototyping

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

// Service handles prototyping project intake and quoting.
type Service interface {
	Create(ctx context.Context, input CreatePrototypingInput) (*PrototypingDTO, error)
	List(ctx context.Context, page pagination.Page) ([]PrototypingDTO, error)
	Quote(ctx context.Context, id uuid.UUID, input QuoteInput) (*PrototypingDTO, error)
}

// Repository exposes prototyping persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a prototyping repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a project using the supplied transaction when present.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, project *models.PrototypingRequest) (*models.PrototypingRequest, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// FindByID loads a project by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PrototypingRequest, error) {
	var project models.PrototypingRequest
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns projects newest first.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.PrototypingRequest, error) {
	page = page.Normalize()
	var items []models.PrototypingRequest
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

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PrototypingRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outboxPublisher
}

// PrototypingEventData is the outbox payload for a new prototyping project.
type PrototypingEventData struct {
	ProjectID     uuid.UUID `json:"project_id"`
	RequesterName string    `json:"requester_name"`
	Email         string    `json:"email"`
	ProjectTitle  string    `json:"project_title"`
	Details       string    `json:"details"`
}

// NewService builds the prototyping intake service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("prototyping repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

func (s *service) Create(ctx context.Context, input CreatePrototypingInput) (*PrototypingDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requester category")
	}

	project := &models.PrototypingRequest{
		ID:            uuid.New(),
		RequesterName: strings.TrimSpace(input.RequesterName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         input.Phone,
		Organization:  input.Organization,
		Category:      input.Category,
		ProjectTitle:  strings.TrimSpace(input.ProjectTitle),
		Details:       input.Details,
		Status:        enums.RequestStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Create(ctx, tx, project); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create prototyping project")
		}
		if s.outbox == nil {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventTypePrototypingRequestReceived,
			AggregateType: enums.AggregateTypePrototypingRequest,
			AggregateID:   project.ID,
			Data: PrototypingEventData{
				ProjectID:     project.ID,
				RequesterName: project.RequesterName,
				Email:         project.Email,
				ProjectTitle:  project.ProjectTitle,
				Details:       project.Details,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue prototyping event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(project), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]PrototypingDTO, error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list prototyping projects")
	}
	return FromModels(items), nil
}

func (s *service) Quote(ctx context.Context, id uuid.UUID, input QuoteInput) (*PrototypingDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}
	if input.QuotedAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quoted amount cannot be negative")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	updates := map[string]any{
		"quoted_amount": input.QuotedAmount,
		"status":        input.Status,
	}
	if input.AdminNote != nil {
		updates["admin_note"] = *input.AdminNote
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update project")
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload project")
	}
	return FromModel(project), nil
}
