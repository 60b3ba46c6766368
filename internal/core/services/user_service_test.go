package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/core/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/utils"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, userID, currencyCode string, openingBalance decimal.Decimal, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, currencyCode, openingBalance, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock LedgerConverter ---
type MockLedgerConverter struct {
	mock.Mock
}

var _ portssvc.LedgerConverterSvc = (*MockLedgerConverter)(nil)

func (m *MockLedgerConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo   *MockUserRepository
	mockAccountSvc *MockAccountService
	mockConverter  *MockLedgerConverter
	service        portssvc.UserSvcFacade
	ctx            context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockConverter = new(MockLedgerConverter)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockAccountSvc, suite.mockConverter)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) registerRequest() dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		Username:     "alice",
		Email:        "alice@example.com",
		Password:     "correct-horse",
		CurrencyCode: "USD",
	}
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	req := suite.registerRequest()
	openingBalance := decimal.RequireFromString("900.00")

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "alice").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockConverter.On("Convert", suite.ctx, decimal.RequireFromString("750.00"), domain.CurrencyGBP, "USD").
		Return(openingBalance, nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "alice" && !u.IsAdmin && u.CreatedBy == u.UserID
	})).Return(nil).Once()
	suite.mockAccountSvc.On("CreateAccount", suite.ctx, mock.AnythingOfType("string"), "USD", openingBalance, mock.AnythingOfType("string")).
		Return(&domain.Account{AccountID: "acc-alice", CurrencyCode: "USD", Balance: openingBalance}, nil).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("alice", user.Username)
	suite.NotEmpty(user.UserID)
	suite.False(user.IsAdmin)
	suite.True(utils.CheckPasswordHash("correct-horse", user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	req := suite.registerRequest()

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "alice").
		Return(&domain.User{UserID: "user-1", Username: "alice"}, nil).Once()

	_, err := suite.service.RegisterUser(suite.ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_UnsupportedCurrency() {
	req := suite.registerRequest()
	req.CurrencyCode = "JPY"

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "alice").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockConverter.On("Convert", suite.ctx, decimal.RequireFromString("750.00"), domain.CurrencyGBP, "JPY").
		Return(decimal.Zero, apperrors.ErrUnsupportedCurrencyPair).Once()

	_, err := suite.service.RegisterUser(suite.ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrencyPair)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestPromoteToAdmin_Success() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "admin-1").
		Return(&domain.User{UserID: "admin-1", IsAdmin: true}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-2").
		Return(&domain.User{UserID: "user-2", IsAdmin: false}, nil).Once()
	suite.mockUserRepo.On("SetUserAdmin", suite.ctx, "user-2", true, "admin-1", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	promoted, err := suite.service.PromoteToAdmin(suite.ctx, "admin-1", "user-2")

	suite.Require().NoError(err)
	suite.True(promoted.IsAdmin)
	suite.Equal("admin-1", promoted.LastUpdatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestPromoteToAdmin_RequiresAdmin() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1", IsAdmin: false}, nil).Once()

	_, err := suite.service.PromoteToAdmin(suite.ctx, "user-1", "user-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SetUserAdmin", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestPromoteToAdmin_AlreadyAdmin() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "admin-1").
		Return(&domain.User{UserID: "admin-1", IsAdmin: true}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "admin-2").
		Return(&domain.User{UserID: "admin-2", IsAdmin: true}, nil).Once()

	_, err := suite.service.PromoteToAdmin(suite.ctx, "admin-1", "admin-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestListUsers_RequiresAdmin() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1", IsAdmin: false}, nil).Once()

	_, err := suite.service.ListUsers(suite.ctx, "user-1", dto.ListUsersParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestListUsers_AdminSucceeds() {
	now := time.Now().UTC()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "admin-1").
		Return(&domain.User{UserID: "admin-1", IsAdmin: true}, nil).Once()
	suite.mockUserRepo.On("ListUsers", suite.ctx, 20, 0).
		Return([]domain.User{
			{UserID: "user-1", Username: "alice", AuditFields: domain.AuditFields{CreatedAt: now}},
			{UserID: "user-2", Username: "bob", AuditFields: domain.AuditFields{CreatedAt: now}},
		}, nil).Once()

	users, err := suite.service.ListUsers(suite.ctx, "admin-1", dto.ListUsersParams{})

	suite.Require().NoError(err)
	suite.Len(users, 2)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
