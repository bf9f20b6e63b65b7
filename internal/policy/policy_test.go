package policy

import (
	"errors"
	"math"
	"testing"

	"github.com/supplyboard/backend-go/internal/domain"
)

func TestEOQ(t *testing.T) {
	got, err := EOQ(1000, 50, 5)
	if err != nil {
		t.Fatalf("EOQ returned error: %v", err)
	}
	want := math.Sqrt(2 * 1000 * 50 / 5.0) // ~141.42
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEOQ_InvalidInputs(t *testing.T) {
	tests := []struct {
		name                                   string
		annualDemand, orderingCost, holdingCost float64
		wantErr                                error
	}{
		{"zero holding cost", 1000, 50, 0, ErrNonPositiveHoldingCost},
		{"negative holding cost", 1000, 50, -1, ErrNonPositiveHoldingCost},
		{"negative demand", -1, 50, 5, ErrNegativeInput},
		{"negative ordering cost", 1000, -50, 5, ErrNegativeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EOQ(tt.annualDemand, tt.orderingCost, tt.holdingCost)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEOQ_ZeroDemand(t *testing.T) {
	got, err := EOQ(0, 50, 5)
	if err != nil {
		t.Fatalf("EOQ returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0 for zero demand, got %v", got)
	}
}

func TestReorderPoint(t *testing.T) {
	if got := ReorderPoint(40, 10, 100); got != 500 {
		t.Errorf("Expected 500, got %v", got)
	}
}

func TestSafetyStock(t *testing.T) {
	got, err := SafetyStock(10, 4, 0.95)
	if err != nil {
		t.Fatalf("SafetyStock returned error: %v", err)
	}
	// z(0.95) ~ 1.6449, times 10, times sqrt(4).
	want := 1.6449 * 10 * 2
	if math.Abs(got-want) > 0.01 {
		t.Errorf("Expected ~%v, got %v", want, got)
	}
}

func TestSafetyStock_ServiceLevelRange(t *testing.T) {
	for _, level := range []float64{0, 1, -0.5, 1.5} {
		if _, err := SafetyStock(10, 4, level); !errors.Is(err, ErrServiceLevelRange) {
			t.Errorf("Expected ErrServiceLevelRange for level %v, got %v", level, err)
		}
	}
}

func TestNormalQuantile(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0.5, 0},
		{0.90, 1.2816},
		{0.95, 1.6449},
		{0.99, 2.3263},
		{0.05, -1.6449},
	}

	for _, tt := range tests {
		if got := normalQuantile(tt.p); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("normalQuantile(%v): expected ~%v, got %v", tt.p, tt.want, got)
		}
	}
}

func TestClassifyStockStatus(t *testing.T) {
	tests := []struct {
		name                        string
		current, safety, rop float64
		want                        domain.StockStatus
	}{
		{"below safety", 40, 50, 100, domain.StockCritical},
		{"between safety and rop", 70, 50, 100, domain.StockLow},
		{"above rop", 150, 50, 100, domain.StockNormal},
		{"exactly at safety is not critical", 50, 50, 100, domain.StockLow},
		{"exactly at rop is not low", 100, 50, 100, domain.StockNormal},
		{"zero stock", 0, 50, 100, domain.StockCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStockStatus(tt.current, tt.safety, tt.rop); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	in := []domain.Inventory{{ProductID: "P0001", CurrentStock: 10, SafetyStock: 50, ROP: 100}}
	out := Classify(in)

	if out[0].StockStatus != domain.StockCritical {
		t.Errorf("Expected Critical, got %v", out[0].StockStatus)
	}
	if in[0].StockStatus != "" {
		t.Errorf("Expected input untouched, got %v", in[0].StockStatus)
	}
}

func TestRecommend(t *testing.T) {
	inventory := []domain.Inventory{
		{ProductID: "P0001", CurrentStock: 60, ROP: 100, EOQ: 200},  // shortage
		{ProductID: "P0002", CurrentStock: 500, ROP: 100, EOQ: 200}, // excess
		{ProductID: "P0003", CurrentStock: 150, ROP: 100, EOQ: 200}, // fine
	}

	advisories := Recommend(inventory)
	if len(advisories) != 2 {
		t.Fatalf("Expected 2 advisories, got %d", len(advisories))
	}

	if advisories[0].ProductID != "P0001" || advisories[0].Shortage != 40 || advisories[0].Excess {
		t.Errorf("Unexpected shortage advisory: %+v", advisories[0])
	}
	if advisories[1].ProductID != "P0002" || !advisories[1].Excess || advisories[1].Shortage != 0 {
		t.Errorf("Unexpected excess advisory: %+v", advisories[1])
	}
}
