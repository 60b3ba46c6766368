package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/dto"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/utils/money"
)

// conversionHandler exposes the currency conversion endpoint.
type conversionHandler struct {
	converter portssvc.LedgerConverterSvc
	rates     portssvc.RateProviderSvc
}

// registerConversionRoutes registers the public conversion routes.
func registerConversionRoutes(r *gin.Engine, converter portssvc.LedgerConverterSvc, rates portssvc.RateProviderSvc) {
	h := &conversionHandler{converter: converter, rates: rates}
	r.GET("/conversion/:from/:to/:amount", h.convert)
	r.GET("/rates", h.listRates)
}

// convert converts an amount between two currencies and reports the rate used.
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))

	amount, err := decimal.NewFromString(c.Param("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}
	if amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}

	rate, err := h.rates.Rate(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to fetch conversion rate")
		return
	}

	converted, err := h.converter.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert amount")
		return
	}

	c.JSON(http.StatusOK, dto.ConversionResponse{
		FromCurrency:    from,
		ToCurrency:      to,
		OriginalAmount:  money.RoundHalfUp(amount),
		Rate:            rate,
		ConvertedAmount: converted,
	})
}

// listRates returns every registered directional rate.
func (h *conversionHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.rates.ListRates(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list exchange rates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": dto.ToExchangeRateResponses(rates)})
}
