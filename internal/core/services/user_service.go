package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/utils"
)

// baselineOpeningBalance is the signup grant every new user receives,
// denominated in GBP and converted into the user's chosen currency.
var baselineOpeningBalance = decimal.RequireFromString("750.00")

// userService provides user registration and administration.
type userService struct {
	userRepo     portsrepo.UserRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	converterSvc portssvc.LedgerConverterSvc
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountSvc portssvc.AccountSvcFacade, converterSvc portssvc.LedgerConverterSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:     userRepo,
		accountSvc:   accountSvc,
		converterSvc: converterSvc,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new user and their account. The opening balance is
// the GBP baseline converted into the chosen currency.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	openingBalance, err := s.converterSvc.Convert(ctx, baselineOpeningBalance, domain.CurrencyGBP, req.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to convert opening balance: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "",
			LastUpdatedAt: now,
			LastUpdatedBy: "",
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("username", req.Username), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.accountSvc.CreateAccount(ctx, user.UserID, req.CurrencyCode, openingBalance, user.UserID); err != nil {
		logger.Error("Failed to create account for new user", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("currency_code", req.CurrencyCode))
	return &user, nil
}

// GetUserByID retrieves a user by their identifier.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

// ListUsers retrieves all users; admin only.
func (s *userService) ListUsers(ctx context.Context, actingUserID string, params dto.ListUsersParams) ([]domain.User, error) {
	if err := s.requireAdmin(ctx, actingUserID); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx, normalizeLimit(params.Limit), params.Offset)
}

// PromoteToAdmin grants admin rights to the target user; admin only.
func (s *userService) PromoteToAdmin(ctx context.Context, actingUserID, targetUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingUserID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin {
		return nil, fmt.Errorf("%w: user %s is already an admin", apperrors.ErrDuplicate, targetUserID)
	}

	now := time.Now().UTC()
	if err := s.userRepo.SetUserAdmin(ctx, targetUserID, true, actingUserID, now); err != nil {
		logger.Error("Failed to promote user", slog.String("target_user_id", targetUserID), slog.String("error", err.Error()))
		return nil, err
	}

	target.IsAdmin = true
	target.LastUpdatedAt = now
	target.LastUpdatedBy = actingUserID
	logger.Info("User promoted to admin", slog.String("target_user_id", targetUserID), slog.String("acting_user_id", actingUserID))
	return target, nil
}

func (s *userService) requireAdmin(ctx context.Context, actingUserID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, actingUserID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin privileges required", apperrors.ErrForbidden)
	}
	return nil
}
