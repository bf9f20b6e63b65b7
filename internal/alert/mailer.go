// Package alert sends critical-stock notifications to the supply chain
// supervisor. Delivery is best effort; a failed send is logged and never
// propagated to the caller.
package alert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"

	"github.com/supplyboard/backend-go/internal/config"
	"github.com/supplyboard/backend-go/internal/domain"
)

// Mailer wraps SMTP configuration for sending alert emails with CSV
// attachments.
type Mailer struct {
	host      string
	user      string
	password  string
	addr      string
	recipient string
}

func NewMailer(cfg config.AlertConfig) *Mailer {
	return &Mailer{
		host:      cfg.SMTPHost,
		user:      cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		addr:      fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		recipient: cfg.Recipient,
	}
}

// SendCriticalAlert sends a short notification that criticalCount items
// have fallen below safety stock.
func (m *Mailer) SendCriticalAlert(criticalCount int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.recipient}
	e.Subject = fmt.Sprintf("CRITICAL ALERT: %d Items at Critical Stock Levels", criticalCount)
	e.Text = []byte(fmt.Sprintf(`URGENT: Critical Stock Alert

%d items have reached critical stock levels and require immediate attention.

Please log into the Supply Chain Dashboard to review and take action.

This is an automated alert from the Supply Chain Planning Dashboard.
`, criticalCount))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

// SendCriticalItemsReport sends the detailed critical item list as a CSV
// attachment.
func (m *Mailer) SendCriticalItemsReport(items []domain.Inventory) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.recipient}
	e.Subject = "Critical Items Report - Immediate Action Required"
	e.Text = []byte(fmt.Sprintf(`Critical Items Report

Please find attached the detailed list of %d items at critical stock levels.

Immediate action required to prevent stockouts.

Supply Chain Planning Dashboard
`, len(items)))

	report, err := criticalItemsCSV(items)
	if err != nil {
		return fmt.Errorf("mailer: build report: %w", err)
	}
	if _, err := e.Attach(bytes.NewReader(report), "critical_items_report.csv", "text/csv"); err != nil {
		return fmt.Errorf("mailer: attach report: %w", err)
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

func criticalItemsCSV(items []domain.Inventory) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"product_id", "current_stock", "safety_stock", "rop", "avg_demand"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, it := range items {
		record := []string{
			it.ProductID,
			strconv.Itoa(it.CurrentStock),
			strconv.Itoa(it.SafetyStock),
			strconv.FormatFloat(it.ROP, 'f', 2, 64),
			strconv.FormatFloat(it.AvgDemand, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
