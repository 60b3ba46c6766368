package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/peerpay-app/peerpay_backend/internal/apperrors"
	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/core/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/handlers"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/platform/config"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) MakePayment(ctx context.Context, senderAccountID, recipientAccountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, senderAccountID, recipientAccountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) RequestPayment(ctx context.Context, requesterAccountID, payerAccountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, requesterAccountID, payerAccountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ResolveRequest(ctx context.Context, transactionID, actingAccountID string, decision domain.ResolveDecision) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, actingAccountID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactionsForAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListPendingRequests(ctx context.Context, payerAccountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, payerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListAllTransactions(ctx context.Context, actingUserID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	args := m.Called(ctx, actingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

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

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

var _ portssvc.RateProviderSvc = (*MockRateService)(nil)

func (m *MockRateService) Rate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateService) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, actingUserID string, params dto.ListUsersParams) ([]domain.User, error) {
	args := m.Called(ctx, actingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) PromoteToAdmin(ctx context.Context, actingUserID, targetUserID string) (*domain.User, error) {
	args := m.Called(ctx, actingUserID, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite Setup ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockLedger  *MockLedgerService
	mockAccount *MockAccountService
	mockUser    *MockUserService
	mockRate    *MockRateService

	senderUser domain.User
	sender     domain.Account
	recipient  domain.Account
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()

	suite.mockLedger = new(MockLedgerService)
	suite.mockAccount = new(MockAccountService)
	suite.mockUser = new(MockUserService)
	suite.mockRate = new(MockRateService)

	svcs := &services.Container{
		Ledger:  suite.mockLedger,
		Account: suite.mockAccount,
		User:    suite.mockUser,
		Rate:    suite.mockRate,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{}, svcs, nil, nil, nil)

	suite.senderUser = domain.User{UserID: uuid.NewString(), Username: "alice"}
	suite.sender = domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       suite.senderUser.UserID,
		CurrencyCode: domain.CurrencyGBP,
		Balance:      decimal.RequireFromString("100.00"),
	}
	suite.recipient = domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       uuid.NewString(),
		CurrencyCode: domain.CurrencyUSD,
		Balance:      decimal.RequireFromString("50.00"),
	}
}

func (suite *PaymentHandlerTestSuite) postJSON(path, userID string, payload any) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentHandlerTestSuite) TestMakePayment_Success() {
	amount := decimal.RequireFromString("10.00")
	settled := decimal.RequireFromString("12.00")
	completed := &domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      suite.sender.AccountID,
		RecipientID:   suite.recipient.AccountID,
		Kind:          domain.KindPayment,
		SourceAmount:  amount,
		SettledAmount: &settled,
		Status:        domain.StatusCompleted,
	}

	suite.mockAccount.On("GetAccountByUserID", mock.Anything, suite.senderUser.UserID).Return(&suite.sender, nil).Once()
	suite.mockUser.On("GetUserByUsername", mock.Anything, "bob").
		Return(&domain.User{UserID: suite.recipient.UserID, Username: "bob"}, nil).Once()
	suite.mockAccount.On("GetAccountByUserID", mock.Anything, suite.recipient.UserID).Return(&suite.recipient, nil).Once()
	suite.mockLedger.On("MakePayment", mock.Anything, suite.sender.AccountID, suite.recipient.AccountID, mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(amount)
	})).Return(completed, nil).Once()

	w := suite.postJSON("/api/v1/payments", suite.senderUser.UserID, dto.MakePaymentRequest{Recipient: "bob", Amount: amount})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(completed.TransactionID, resp.TransactionID)
	suite.Equal(domain.StatusCompleted, resp.Status)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestMakePayment_MissingIdentity() {
	w := suite.postJSON("/api/v1/payments", "", dto.MakePaymentRequest{Recipient: "bob", Amount: decimal.RequireFromString("10.00")})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "MakePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestMakePayment_InsufficientFunds() {
	amount := decimal.RequireFromString("500.00")

	suite.mockAccount.On("GetAccountByUserID", mock.Anything, suite.senderUser.UserID).Return(&suite.sender, nil).Once()
	suite.mockUser.On("GetUserByUsername", mock.Anything, "bob").
		Return(&domain.User{UserID: suite.recipient.UserID, Username: "bob"}, nil).Once()
	suite.mockAccount.On("GetAccountByUserID", mock.Anything, suite.recipient.UserID).Return(&suite.recipient, nil).Once()
	suite.mockLedger.On("MakePayment", mock.Anything, suite.sender.AccountID, suite.recipient.AccountID, mock.Anything).
		Return(nil, fmt.Errorf("%w: cannot cover amount", apperrors.ErrInsufficientFunds)).Once()

	w := suite.postJSON("/api/v1/payments", suite.senderUser.UserID, dto.MakePaymentRequest{Recipient: "bob", Amount: amount})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestResolveRequest_Forbidden() {
	transactionID := uuid.NewString()

	suite.mockAccount.On("GetAccountByUserID", mock.Anything, suite.senderUser.UserID).Return(&suite.sender, nil).Once()
	suite.mockLedger.On("ResolveRequest", mock.Anything, transactionID, suite.sender.AccountID, domain.DecisionAccept).
		Return(nil, fmt.Errorf("%w: only the payer may resolve this request", apperrors.ErrForbidden)).Once()

	w := suite.postJSON("/api/v1/payment-requests/"+transactionID+"/resolve", suite.senderUser.UserID, dto.ResolveRequestRequest{Decision: domain.DecisionAccept})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestResolveRequest_InvalidDecision() {
	w := suite.postJSON("/api/v1/payment-requests/"+uuid.NewString()+"/resolve", suite.senderUser.UserID, map[string]string{"decision": "MAYBE"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "ResolveRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestRegisterUser_Public() {
	req := dto.RegisterUserRequest{
		Username:     "charlie",
		Email:        "charlie@example.com",
		Password:     "s3cret-pass",
		CurrencyCode: domain.CurrencyEUR,
	}
	created := &domain.User{UserID: uuid.NewString(), Username: "charlie", Email: req.Email}

	suite.mockUser.On("RegisterUser", mock.Anything, req).Return(created, nil).Once()

	// No identity header; registration is public.
	w := suite.postJSON("/api/v1/users", "", req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockUser.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRegisterUser_UnsupportedCurrency() {
	req := dto.RegisterUserRequest{
		Username:     "charlie",
		Email:        "charlie@example.com",
		Password:     "s3cret-pass",
		CurrencyCode: "JPY",
	}

	w := suite.postJSON("/api/v1/users", "", req)

	// The currencycode binding validator rejects unsupported codes.
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUser.AssertNotCalled(suite.T(), "RegisterUser", mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestListRates_Public() {
	suite.mockRate.On("ListRates", mock.Anything).
		Return([]domain.ExchangeRate{
			{FromCurrencyCode: domain.CurrencyGBP, ToCurrencyCode: domain.CurrencyUSD, Rate: decimal.RequireFromString("1.20")},
			{FromCurrencyCode: domain.CurrencyUSD, ToCurrencyCode: domain.CurrencyGBP, Rate: decimal.RequireFromString("0.83")},
		}, nil).Once()

	// No identity header; the rate table is public.
	req := httptest.NewRequest(http.MethodGet, "/rates", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Rates []dto.ExchangeRateResponse `json:"rates"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Rates, 2)
	suite.Equal(domain.CurrencyGBP, resp.Rates[0].FromCurrency)
	suite.True(resp.Rates[0].Rate.Equal(decimal.RequireFromString("1.20")))
	suite.mockRate.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestPaymentHandlers(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
