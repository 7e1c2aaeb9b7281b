package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/services"
)

// StockHandler serves current and historical stock prices.
type StockHandler struct {
	priceService services.PriceServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(priceService services.PriceServicer) *StockHandler {
	return &StockHandler{priceService: priceService}
}

// BatchPricesRequest represents the request payload for a multi-symbol quote lookup.
type BatchPricesRequest struct {
	Symbols []string `json:"symbols" binding:"required,min=1,max=50"`
}

// GetPrice handles a single-symbol quote lookup.
func (h *StockHandler) GetPrice(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required"))
		return
	}

	quote, err := h.priceService.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// GetPrices handles a multi-symbol quote lookup.
func (h *StockHandler) GetPrices(c *gin.Context) {
	var req BatchPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	quotes, err := h.priceService.GetPrices(c.Request.Context(), req.Symbols)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// GetHistory handles a price history lookup. With from/to query
// parameters it returns the inclusive range; otherwise the most recent
// points up to limit, oldest first either way.
func (h *StockHandler) GetHistory(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required"))
		return
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be RFC3339"))
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be RFC3339"))
			return
		}

		points, err := h.priceService.GetHistoryRange(symbol, from, to)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": points})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	points, err := h.priceService.GetHistory(symbol, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": points})
}
