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

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepository = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Test Suite Setup ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.RateProviderSvc
	ctx          context.Context
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo)
	suite.ctx = context.Background()
}

func (suite *ExchangeRateServiceTestSuite) TestRate_Found() {
	suite.mockRateRepo.On("FindExchangeRate", suite.ctx, "GBP", "USD").
		Return(&domain.ExchangeRate{
			FromCurrencyCode: "GBP",
			ToCurrencyCode:   "USD",
			Rate:             decimal.RequireFromString("1.20"),
		}, nil).Once()

	rate, err := suite.service.Rate(suite.ctx, "GBP", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("1.20")))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRate_NormalizesCase() {
	suite.mockRateRepo.On("FindExchangeRate", suite.ctx, "EUR", "GBP").
		Return(&domain.ExchangeRate{
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "GBP",
			Rate:             decimal.RequireFromString("0.88"),
		}, nil).Once()

	rate, err := suite.service.Rate(suite.ctx, "eur", "gbp")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("0.88")))
}

func (suite *ExchangeRateServiceTestSuite) TestRate_SameCurrency() {
	rate, err := suite.service.Rate(suite.ctx, "GBP", "GBP")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestRate_UnknownPair() {
	suite.mockRateRepo.On("FindExchangeRate", suite.ctx, "GBP", "JPY").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Rate(suite.ctx, "GBP", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrencyPair)
}

func (suite *ExchangeRateServiceTestSuite) TestRate_InvalidCodeLength() {
	_, err := suite.service.Rate(suite.ctx, "POUND", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestListRates() {
	suite.mockRateRepo.On("ListExchangeRates", suite.ctx).
		Return([]domain.ExchangeRate{
			{FromCurrencyCode: "GBP", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1.20")},
			{FromCurrencyCode: "USD", ToCurrencyCode: "GBP", Rate: decimal.RequireFromString("0.83")},
		}, nil).Once()

	rates, err := suite.service.ListRates(suite.ctx)

	suite.Require().NoError(err)
	suite.Len(rates, 2)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
