package jobs

import (
	"context"
	"fmt"
	"time"

	"stocktracker/internal/logger"
	"stocktracker/internal/models"
	"stocktracker/internal/notify"
	"stocktracker/internal/quotes"
	"stocktracker/internal/scheduler"
	"stocktracker/internal/services"
)

// AlertMonitor periodically evaluates active price alerts and emails
// their owners when a threshold is crossed. With AutoDeactivate set,
// an alert is switched off after its first notification instead of
// firing again on every pass.
type AlertMonitor struct {
	alerts   services.AlertServicer
	prices   services.PriceServicer
	notifier notify.Notifier
	runner   *scheduler.IntervalRunner

	// AutoDeactivate turns alerts into one-shot notifications.
	AutoDeactivate bool
}

// NewAlertMonitor creates a stopped AlertMonitor.
func NewAlertMonitor(alerts services.AlertServicer, prices services.PriceServicer, notifier notify.Notifier) *AlertMonitor {
	m := &AlertMonitor{
		alerts:   alerts,
		prices:   prices,
		notifier: notifier,
	}
	m.runner = scheduler.NewIntervalRunner(m)
	return m
}

// Start begins recurring evaluation at the given interval. The first
// pass runs immediately. Starting an already-running monitor is a no-op.
func (m *AlertMonitor) Start(interval time.Duration) error {
	return m.runner.Start(interval)
}

// Stop halts evaluation and waits for any in-flight pass to finish.
func (m *AlertMonitor) Stop() {
	m.runner.Stop()
}

// Name identifies the job in scheduler logs.
func (m *AlertMonitor) Name() string {
	return "alert-monitor"
}

// Run executes one evaluation pass. Alerts are grouped by symbol so
// each symbol's price is looked up once per pass regardless of how many
// alerts watch it. A failed lookup or delivery skips the affected
// alerts and the pass continues.
func (m *AlertMonitor) Run() error {
	ctx := context.Background()

	alerts, err := m.alerts.GetActiveAlerts()
	if err != nil {
		return fmt.Errorf("loading active alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil
	}

	bySymbol := make(map[string][]models.Alert)
	for _, alert := range alerts {
		bySymbol[alert.Symbol] = append(bySymbol[alert.Symbol], alert)
	}

	for symbol, symbolAlerts := range bySymbol {
		quote, err := m.prices.GetPrice(ctx, symbol)
		if err != nil {
			logger.Get().Errorw("skipping alerts, price unavailable",
				"symbol", symbol, "alerts", len(symbolAlerts), "error", err)
			continue
		}

		for _, alert := range symbolAlerts {
			if !alert.Triggered(quote.Price) {
				continue
			}
			m.notify(alert, quote)
		}
	}

	return nil
}

// notify sends the alert email and optionally deactivates the alert.
func (m *AlertMonitor) notify(alert models.Alert, quote *quotes.Quote) {
	subject := fmt.Sprintf("Price alert: %s is %s %s", alert.Symbol, alert.Condition, alert.PriceThreshold.StringFixed(2))

	if err := m.notifier.Send(alert.Email, subject, alertBody(alert, quote)); err != nil {
		logger.Get().Errorw("alert notification failed",
			"alert_id", alert.ID,
			"symbol", alert.Symbol,
			"email", alert.Email,
			"error", err,
		)
		return
	}

	logger.Get().Infow("alert notification sent",
		"alert_id", alert.ID,
		"symbol", alert.Symbol,
		"price", quote.Price.String(),
		"threshold", alert.PriceThreshold.String(),
		"condition", alert.Condition,
	)

	if m.AutoDeactivate {
		if _, err := m.alerts.DeactivateAlert(alert.ID); err != nil {
			logger.Get().Errorw("failed to deactivate alert after notification",
				"alert_id", alert.ID, "error", err)
		}
	}
}

// alertBody renders the notification email.
func alertBody(alert models.Alert, quote *quotes.Quote) string {
	return fmt.Sprintf(`<h2>Price Alert Triggered</h2>
<p><strong>%s</strong> is now trading at <strong>$%s</strong>, %s your threshold of $%s.</p>
<ul>
  <li>Symbol: %s</li>
  <li>Current price: $%s</li>
  <li>Threshold: $%s</li>
  <li>Condition: %s</li>
  <li>Time: %s</li>
</ul>`,
		alert.Symbol,
		quote.Price.StringFixed(2),
		alert.Condition,
		alert.PriceThreshold.StringFixed(2),
		alert.Symbol,
		quote.Price.StringFixed(2),
		alert.PriceThreshold.StringFixed(2),
		alert.Condition,
		quote.Timestamp.Format(time.RFC1123),
	)
}
