package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/services"
)

// AnalyticsHandler serves portfolio valuations and risk metrics.
type AnalyticsHandler struct {
	portfolioService services.PortfolioServicer
	holdingService   services.HoldingServicer
	valuationService services.ValuationServicer
	riskService      services.RiskServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(
	portfolioService services.PortfolioServicer,
	holdingService services.HoldingServicer,
	valuationService services.ValuationServicer,
	riskService services.RiskServicer,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		portfolioService: portfolioService,
		holdingService:   holdingService,
		valuationService: valuationService,
		riskService:      riskService,
	}
}

// GetValuation handles computing a portfolio's current valuation.
func (h *AnalyticsHandler) GetValuation(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.portfolioService.GetPortfolioByID(portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetPortfolioHoldings(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	valuation, err := h.valuationService.Valuate(c.Request.Context(), holdings)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valuation": valuation})
}

// GetBeta handles computing a portfolio's weighted average beta.
func (h *AnalyticsHandler) GetBeta(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.portfolioService.GetPortfolioByID(portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetPortfolioHoldings(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	beta, err := h.riskService.ComputeBeta(c.Request.Context(), portfolioID, holdings)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"beta": beta})
}

// GetVaR handles computing a portfolio's Value-at-Risk estimate.
func (h *AnalyticsHandler) GetVaR(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	confidence := 0.95
	if v := c.Query("confidence"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "confidence must be a number"))
			return
		}
		confidence = parsed
	}

	if _, err := h.portfolioService.GetPortfolioByID(portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetPortfolioHoldings(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.riskService.ComputeVaR(c.Request.Context(), portfolioID, holdings, confidence)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"var": result})
}

// GetSectorConcentration handles computing a portfolio's sector exposure.
func (h *AnalyticsHandler) GetSectorConcentration(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.portfolioService.GetPortfolioByID(portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetPortfolioHoldings(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sectors, err := h.riskService.ComputeSectorConcentration(c.Request.Context(), portfolioID, holdings)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}
