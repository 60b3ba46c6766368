package services

import (
	"context"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	// RegisterUser creates a new user together with their account. The
	// opening balance is the 750.00 GBP baseline converted into the chosen
	// currency.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by their identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves all users; restricted to admins.
	ListUsers(ctx context.Context, actingUserID string, params dto.ListUsersParams) ([]domain.User, error)

	// PromoteToAdmin grants admin rights to the target user; restricted to
	// admins. Promoting a user who is already an admin fails with
	// apperrors.ErrDuplicate.
	PromoteToAdmin(ctx context.Context, actingUserID, targetUserID string) (*domain.User, error)
}
