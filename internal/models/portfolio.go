package models

// Portfolio groups a user's holdings and alerts.
// UserID is an opaque reference; this service does not manage users.
type Portfolio struct {
	Base
	UserID string `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	Holdings []Holding `gorm:"foreignKey:PortfolioID" json:"holdings,omitempty"`
	Alerts   []Alert   `gorm:"foreignKey:PortfolioID" json:"alerts,omitempty"`
}
