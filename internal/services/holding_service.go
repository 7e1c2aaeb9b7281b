package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/models"
)

// holdingService handles holding-related business logic.
type holdingService struct {
	db *gorm.DB
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB) HoldingServicer {
	return &holdingService{db: db}
}

// CreateHolding adds a position to a portfolio.
func (s *holdingService) CreateHolding(portfolioID, symbol string, quantity, purchasePrice decimal.Decimal, purchaseDate time.Time) (*models.Holding, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if purchasePrice.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Purchase price cannot be negative")
	}

	// Verify the parent portfolio exists
	var portfolio models.Portfolio
	if err := s.db.Where("id = ?", portfolioID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if purchaseDate.IsZero() {
		purchaseDate = time.Now().UTC()
	}

	holding := &models.Holding{
		PortfolioID:   portfolioID,
		Symbol:        symbol,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
	}

	if err := s.db.Create(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return holding, nil
}

// GetPortfolioHoldings returns all holdings in a portfolio ordered by symbol.
func (s *holdingService) GetPortfolioHoldings(portfolioID string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("portfolio_id = ?", portfolioID).Order("symbol ASC").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetHoldingByID returns a holding by its ID.
func (s *holdingService) GetHoldingByID(id string) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Where("id = ?", id).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}

// UpdateHolding adjusts a holding's quantity and purchase price.
func (s *holdingService) UpdateHolding(id string, quantity, purchasePrice decimal.Decimal) (*models.Holding, error) {
	holding, err := s.GetHoldingByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if quantity.IsPositive() {
		updates["quantity"] = quantity
	}
	if purchasePrice.IsPositive() {
		updates["purchase_price"] = purchasePrice
	}

	if len(updates) > 0 {
		if err := s.db.Model(holding).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return holding, nil
}

// DeleteHolding soft-deletes a holding.
func (s *holdingService) DeleteHolding(id string) error {
	holding, err := s.GetHoldingByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(holding).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
