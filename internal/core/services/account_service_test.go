package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portsrepo "github.com/peerpay-app/peerpay_backend/internal/core/ports/repositories"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/core/services"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepository = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.AccountSvcFacade
	ctx              context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo)
	suite.ctx = context.Background()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "GBP").
		Return(&domain.Currency{CurrencyCode: "GBP", Symbol: "£", Name: "Pound Sterling"}, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.UserID == "user-1" && a.CurrencyCode == "GBP" && a.CreatedBy == "user-1"
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "user-1", "GBP", decimal.RequireFromString("750.005"), "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("750.01", account.Balance.StringFixed(2))
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOpeningBalance() {
	_, err := suite.service.CreateAccount(suite.ctx, "user-1", "GBP", decimal.RequireFromString("-1.00"), "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnsupportedCurrency() {
	_, err := suite.service.CreateAccount(suite.ctx, "user-1", "JPY", decimal.RequireFromString("100.00"), "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CurrencyMissingFromReferenceTable() {
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "EUR").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(suite.ctx, "user-1", "EUR", decimal.RequireFromString("100.00"), "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByUserID() {
	suite.mockAccountRepo.On("FindAccountByUserID", suite.ctx, "user-1").
		Return(&domain.Account{AccountID: "acc-1", UserID: "user-1", CurrencyCode: "GBP"}, nil).Once()

	account, err := suite.service.GetAccountByUserID(suite.ctx, "user-1")

	suite.Require().NoError(err)
	suite.Equal("acc-1", account.AccountID)
}

// --- Run Test Suite ---
func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
