package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/models"
)

var emailValidator = validator.New()

// alertService handles price alert business logic.
type alertService struct {
	db *gorm.DB
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB) AlertServicer {
	return &alertService{db: db}
}

// CreateAlert registers a price alert on a portfolio. Alerts start active.
func (s *alertService) CreateAlert(portfolioID, symbol string, threshold decimal.Decimal, condition models.AlertCondition, email string) (*models.Alert, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if !threshold.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price threshold must be positive")
	}
	if !condition.Valid() {
		return nil, apperrors.ErrInvalidCondition
	}
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return nil, apperrors.ErrInvalidEmail
	}

	// Verify the parent portfolio exists
	var portfolio models.Portfolio
	if err := s.db.Where("id = ?", portfolioID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	alert := &models.Alert{
		PortfolioID:    portfolioID,
		Symbol:         symbol,
		PriceThreshold: threshold,
		Condition:      condition,
		Email:          email,
		IsActive:       true,
	}

	if err := s.db.Create(alert).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return alert, nil
}

// GetPortfolioAlerts returns a portfolio's active alerts, newest first.
func (s *alertService) GetPortfolioAlerts(portfolioID string) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := s.db.
		Where("portfolio_id = ? AND is_active = ?", portfolioID, true).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// GetActiveAlerts returns every active alert across all portfolios.
func (s *alertService) GetActiveAlerts() ([]models.Alert, error) {
	var alerts []models.Alert
	if err := s.db.Where("is_active = ?", true).Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// DeactivateAlert marks an alert inactive so the monitor stops evaluating it.
func (s *alertService) DeactivateAlert(id string) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.Where("id = ?", id).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&alert).Update("is_active", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	alert.IsActive = false

	return &alert, nil
}

// DeleteAlert soft-deletes an alert.
func (s *alertService) DeleteAlert(id string) error {
	var alert models.Alert
	if err := s.db.Where("id = ?", id).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAlertNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&alert).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
