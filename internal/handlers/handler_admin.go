package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
)

// adminHandler handles administrative HTTP requests. Authorization happens in
// the services, which reject non-admin callers with ErrForbidden.
type adminHandler struct {
	userService   portssvc.UserSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(us portssvc.UserSvcFacade, ls portssvc.LedgerSvcFacade) *adminHandler {
	return &adminHandler{
		userService:   us,
		ledgerService: ls,
	}
}

// registerAdminRoutes registers administrative routes.
func registerAdminRoutes(rg *gin.RouterGroup, us portssvc.UserSvcFacade, ls portssvc.LedgerSvcFacade) {
	h := newAdminHandler(us, ls)

	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.GET("/transactions", h.listAllTransactions)
		admin.POST("/users/:id/promote", h.promoteUser)
	}
}

// listUsers returns every registered user.
func (h *adminHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actingUserID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserResponses(users)})
}

// listAllTransactions returns every transaction in the ledger.
func (h *adminHandler) listAllTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.ledgerService.ListAllTransactions(c.Request.Context(), actingUserID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}

// promoteUser grants admin rights to the target user.
func (h *adminHandler) promoteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetUserID := c.Param("id")

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.PromoteToAdmin(c.Request.Context(), actingUserID, targetUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to promote user")
		return
	}

	logger.Info("User promoted", slog.String("target_user_id", targetUserID))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
