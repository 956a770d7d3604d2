package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// CreateMessageInput is the contact-form payload.
type CreateMessageInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// MessageDTO is the transport shape for a contact message.
type MessageDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Service handles contact-form intake.
type Service interface {
	Create(ctx context.Context, input CreateMessageInput) (*MessageDTO, error)
	List(ctx context.Context, page pagination.Page) ([]MessageDTO, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error)
}

// Repository exposes contact-message persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a messages repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a message using the supplied transaction when present.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, message *models.ContactMessage) (*models.ContactMessage, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// FindByID loads a message by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List returns messages newest first.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.ContactMessage, error) {
	page = page.Normalize()
	var items []models.ContactMessage
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

// MarkRead stamps read_at once.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ? AND read_at IS NULL", id).
		UpdateColumn("read_at", at).Error
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outboxPublisher
}

// MessageEventData is the outbox payload for a new contact message.
type MessageEventData struct {
	MessageID uuid.UUID `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// NewService builds the contact-form service.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

func (s *service) Create(ctx context.Context, input CreateMessageInput) (*MessageDTO, error) {
	message := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Create(ctx, tx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contact message")
		}
		if s.outbox == nil {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventTypeContactMessageReceived,
			AggregateType: enums.AggregateTypeContactMessage,
			AggregateID:   message.ID,
			Data: MessageEventData{
				MessageID: message.ID,
				Name:      message.Name,
				Email:     message.Email,
				Subject:   message.Subject,
				Body:      message.Body,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue message event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromModel(message), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]MessageDTO, error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	dtos := make([]MessageDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *fromModel(&items[i]))
	}
	return dtos, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}

	if err := s.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark message read")
	}

	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload message")
	}
	return fromModel(message), nil
}

func fromModel(m *models.ContactMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}
