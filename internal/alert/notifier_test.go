package alert

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/supplyboard/backend-go/internal/domain"
)

func TestRateLimiter_CapsSendsPerDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := NewRateLimiter(3)
	r.nowFunc = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !r.Allow() {
			t.Fatalf("Send %d should be allowed", i+1)
		}
	}
	if r.Allow() {
		t.Error("Fourth send on the same day should be suppressed")
	}
}

func TestRateLimiter_ResetsAtMidnight(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	r := NewRateLimiter(1)
	r.nowFunc = func() time.Time { return now }

	if !r.Allow() {
		t.Fatal("First send should be allowed")
	}
	if r.Allow() {
		t.Error("Second send on the same day should be suppressed")
	}

	now = now.Add(2 * time.Hour) // next calendar day
	if !r.Allow() {
		t.Error("Counter should reset on a new day")
	}
}

func TestRateLimiter_ZeroMaxIsUnlimited(t *testing.T) {
	r := NewRateLimiter(0)
	r.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }

	for i := 0; i < 100; i++ {
		if !r.Allow() {
			t.Fatalf("Send %d should be allowed with no cap", i+1)
		}
	}
}

func TestCriticalItemsCSV(t *testing.T) {
	items := []domain.Inventory{
		{ProductID: "P0001", CurrentStock: 10, SafetyStock: 50, ROP: 150.5, AvgDemand: 12.25},
		{ProductID: "P0002", CurrentStock: 0, SafetyStock: 30, ROP: 90, AvgDemand: 4},
	}

	report, err := criticalItemsCSV(items)
	if err != nil {
		t.Fatalf("criticalItemsCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "product_id,current_stock,safety_stock,rop,avg_demand" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !bytes.Contains(report, []byte("P0001,10,50,150.50,12.25")) {
		t.Errorf("Missing expected row in:\n%s", report)
	}
}
