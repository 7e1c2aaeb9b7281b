package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/models"
	"stocktracker/internal/services"
)

// AlertHandler handles price alert requests.
type AlertHandler struct {
	alertService services.AlertServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// CreateAlertRequest represents the request payload for registering an alert.
type CreateAlertRequest struct {
	Symbol         string                `json:"symbol" binding:"required,min=1,max=10"`
	PriceThreshold decimal.Decimal       `json:"price_threshold" binding:"required"`
	Condition      models.AlertCondition `json:"condition" binding:"required"`
	Email          string                `json:"email" binding:"required"`
}

// CreateAlert handles registering a price alert on a portfolio.
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.CreateAlert(portfolioID, req.Symbol, req.PriceThreshold, req.Condition, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// GetAlerts handles listing a portfolio's active alerts.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	portfolioID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GetPortfolioAlerts(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// DeactivateAlert handles switching an alert off.
func (h *AlertHandler) DeactivateAlert(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.DeactivateAlert(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// DeleteAlert handles removing an alert.
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.DeleteAlert(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}
