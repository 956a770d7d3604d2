package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/config"
	"github.com/ziksirlabs/ziksir-backend/pkg/db"
	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
	"github.com/ziksirlabs/ziksir-backend/pkg/outbox"
	"github.com/ziksirlabs/ziksir-backend/pkg/security"
)

const resetOTPDigits = 6

// PasswordResetService drives the forgot/reset password flow. Reset state is a
// token plus a short OTP, both TTL-bound in Redis.
type PasswordResetService interface {
	Forgot(ctx context.Context, req ForgotPasswordRequest) error
	Reset(ctx context.Context, req ResetPasswordRequest) error
}

type resetStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	ResetTokenKey(token string) string
	ResetOTPKey(userID string) string
}

type resetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// PasswordResetParams bundles the reset flow dependencies.
type PasswordResetParams struct {
	DB          *db.Client
	Users       resetUserRepository
	Store       resetStore
	Outbox      *outbox.Service
	Logger      *logger.Logger
	ResetConfig config.ResetConfig
	Password    config.PasswordConfig
	Frontend    config.FrontendConfig
}

type passwordResetService struct {
	db       *db.Client
	users    resetUserRepository
	store    resetStore
	outbox   *outbox.Service
	logg     *logger.Logger
	resetCfg config.ResetConfig
	pwdCfg   config.PasswordConfig
	frontend config.FrontendConfig
}

// PasswordResetData is the outbox payload carrying the reset email contents.
type PasswordResetData struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ResetLink string `json:"reset_link"`
	OTP       string `json:"otp"`
}

// NewPasswordResetService validates dependencies and builds the flow.
func NewPasswordResetService(params PasswordResetParams) (PasswordResetService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("reset store is required")
	}
	return &passwordResetService{
		db:       params.DB,
		users:    params.Users,
		store:    params.Store,
		outbox:   params.Outbox,
		logg:     params.Logger,
		resetCfg: params.ResetConfig,
		pwdCfg:   params.Password,
		frontend: params.Frontend,
	}, nil
}

// Forgot issues a reset token and OTP for the account, when one exists. Unknown
// emails return success so the endpoint cannot be used to probe accounts.
func (s *passwordResetService) Forgot(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logg != nil {
				s.logg.Info(ctx, "password reset requested for unknown email")
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return nil
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	otp, err := security.GenerateOTP(resetOTPDigits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}

	userID := user.ID.String()
	if err := s.store.Set(ctx, s.store.ResetTokenKey(token), userID, s.resetCfg.TokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}
	if err := s.store.Set(ctx, s.store.ResetOTPKey(userID), otp, s.resetCfg.OTPTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset otp")
	}

	if s.outbox == nil {
		return nil
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		event := outbox.DomainEvent{
			EventType:     enums.EventTypePasswordResetRequested,
			AggregateType: enums.AggregateTypeUser,
			AggregateID:   user.ID,
			Data: PasswordResetData{
				UserID:    userID,
				Email:     user.Email,
				Name:      user.Name,
				ResetLink: s.resetLink(token),
				OTP:       otp,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue reset event")
		}
		return nil
	})
}

// Reset redeems a token and OTP for a new password hash.
func (s *passwordResetService) Reset(ctx context.Context, req ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	userID, err := s.store.Get(ctx, s.store.ResetTokenKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset token")
	}

	storedOTP, err := s.store.Get(ctx, s.store.ResetOTPKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset otp")
	}
	if subtle.ConstantTimeCompare([]byte(storedOTP), []byte(strings.TrimSpace(req.OTP))) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid verification code")
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse reset subject")
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.NewPassword, s.pwdCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	if err := s.store.Del(ctx, s.store.ResetTokenKey(token), s.store.ResetOTPKey(userID)); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to clear reset state", err)
	}
	return nil
}

func (s *passwordResetService) resetLink(token string) string {
	base := strings.TrimRight(s.frontend.BaseURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}
