package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
)

// paymentHandler handles HTTP requests for payments and payment requests.
type paymentHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	accountService portssvc.AccountSvcFacade
	userService    portssvc.UserSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ls portssvc.LedgerSvcFacade, as portssvc.AccountSvcFacade, us portssvc.UserSvcFacade) *paymentHandler {
	return &paymentHandler{
		ledgerService:  ls,
		accountService: as,
		userService:    us,
	}
}

// registerPaymentRoutes registers payment and transaction routes.
func registerPaymentRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, as portssvc.AccountSvcFacade, us portssvc.UserSvcFacade) {
	h := newPaymentHandler(ls, as, us)

	rg.POST("/payments", h.makePayment)

	requests := rg.Group("/payment-requests")
	{
		requests.POST("", h.requestPayment)
		requests.GET("/pending", h.listPendingRequests)
		requests.POST("/:id/resolve", h.resolveRequest)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}
}

// actingAccount resolves the caller's identity header to their account.
func (h *paymentHandler) actingAccount(c *gin.Context) (*domain.Account, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	account, err := h.accountService.GetAccountByUserID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve caller account")
		return nil, false
	}
	return account, true
}

// counterpartyAccount resolves a username to that user's account.
func (h *paymentHandler) counterpartyAccount(c *gin.Context, username string) (*domain.Account, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve counterparty")
		return nil, false
	}

	account, err := h.accountService.GetAccountByUserID(c.Request.Context(), user.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve counterparty account")
		return nil, false
	}
	return account, true
}

// makePayment sends a direct payment from the caller to another user.
func (h *paymentHandler) makePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MakePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sender, ok := h.actingAccount(c)
	if !ok {
		return
	}
	recipient, ok := h.counterpartyAccount(c, req.Recipient)
	if !ok {
		return
	}

	txn, err := h.ledgerService.MakePayment(c.Request.Context(), sender.AccountID, recipient.AccountID, req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Failed to make payment")
		return
	}

	logger.Info("Payment created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// requestPayment records a pending payment request addressed to another user.
func (h *paymentHandler) requestPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requester, ok := h.actingAccount(c)
	if !ok {
		return
	}
	payer, ok := h.counterpartyAccount(c, req.Payer)
	if !ok {
		return
	}

	txn, err := h.ledgerService.RequestPayment(c.Request.Context(), requester.AccountID, payer.AccountID, req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Failed to request payment")
		return
	}

	logger.Info("Payment request created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// resolveRequest applies the caller's accept/reject decision to a pending
// payment request addressed to them.
func (h *paymentHandler) resolveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.ResolveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	acting, ok := h.actingAccount(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.ResolveRequest(c.Request.Context(), transactionID, acting.AccountID, req.Decision)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve payment request")
		return
	}

	// An accepted request the payer could not afford comes back REJECTED.
	if req.Decision == domain.DecisionAccept && txn.Status == domain.StatusRejected {
		logger.Info("Payment request rejected for insufficient funds", slog.String("transaction_id", txn.TransactionID))
		c.JSON(http.StatusOK, gin.H{
			"transaction": dto.ToTransactionResponse(txn),
			"detail":      "insufficient funds; request was rejected",
		})
		return
	}

	logger.Info("Payment request resolved", slog.String("transaction_id", txn.TransactionID), slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listPendingRequests lists pending payment requests addressed to the caller.
func (h *paymentHandler) listPendingRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	acting, ok := h.actingAccount(c)
	if !ok {
		return
	}

	txns, err := h.ledgerService.ListPendingRequests(c.Request.Context(), acting.AccountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list pending requests")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}

// listTransactions lists the caller's sent and received transactions.
func (h *paymentHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	acting, ok := h.actingAccount(c)
	if !ok {
		return
	}

	txns, err := h.ledgerService.ListTransactionsForAccount(c.Request.Context(), acting.AccountID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}

// getTransaction retrieves one transaction the caller is a party to.
func (h *paymentHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	acting, ok := h.actingAccount(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	// Transactions are only visible to their parties.
	if txn.SenderID != acting.AccountID && txn.RecipientID != acting.AccountID {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
