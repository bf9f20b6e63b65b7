package alert

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/supplyboard/backend-go/internal/config"
	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/pkg/logger"
)

// RateLimiter caps how many alert emails go out per calendar day so a
// flapping stock level cannot flood the supervisor's inbox.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	day     string
	sent    int
	nowFunc func() time.Time
}

func NewRateLimiter(maxPerDay int) *RateLimiter {
	return &RateLimiter{max: maxPerDay, nowFunc: time.Now}
}

// Allow reports whether another send is permitted today and, if so,
// counts it.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := r.nowFunc().Format("2006-01-02")
	if today != r.day {
		r.day = today
		r.sent = 0
	}
	if r.max > 0 && r.sent >= r.max {
		return false
	}
	r.sent++
	return true
}

// Notifier watches dataset refreshes for critical stock and emails the
// supervisor. All failures are logged and swallowed; alerting must never
// break ingestion.
type Notifier struct {
	mailer  *Mailer
	limiter *RateLimiter
	enabled bool
	log     zerolog.Logger
}

func NewNotifier(cfg config.AlertConfig) *Notifier {
	return &Notifier{
		mailer:  NewMailer(cfg),
		limiter: NewRateLimiter(cfg.MaxSendsPerDay),
		enabled: cfg.Enabled && cfg.Recipient != "",
		log:     logger.Component("alert"),
	}
}

// CheckInventory sends an alert when any item is at critical stock.
func (n *Notifier) CheckInventory(inventory []domain.Inventory) {
	if !n.enabled {
		return
	}

	var critical []domain.Inventory
	for _, it := range inventory {
		if it.StockStatus == domain.StockCritical {
			critical = append(critical, it)
		}
	}
	if len(critical) == 0 {
		return
	}

	if !n.limiter.Allow() {
		n.log.Warn().
			Int("critical_count", len(critical)).
			Msg("critical stock alert suppressed by daily rate limit")
		return
	}

	if err := n.mailer.SendCriticalAlert(len(critical)); err != nil {
		n.log.Warn().Err(err).Msg("failed to send critical stock alert")
		return
	}
	if err := n.mailer.SendCriticalItemsReport(critical); err != nil {
		n.log.Warn().Err(err).Msg("failed to send critical items report")
		return
	}

	n.log.Info().
		Int("critical_count", len(critical)).
		Msg("critical stock alert sent")
}
