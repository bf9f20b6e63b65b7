package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOrderDerive(t *testing.T) {
	o := Order{
		Quantity:        100,
		UnitCost:        20,
		DefectRate:      2,
		OrderDate:       day(2025, 1, 1),
		PlannedDelivery: day(2025, 1, 10),
		DeliveryDate:    day(2025, 1, 12),
	}

	derived := o.Derive(25)

	if derived.TotalValue != 2000 {
		t.Errorf("Expected total value 2000, got %v", derived.TotalValue)
	}
	if derived.LeadTime != 11 {
		t.Errorf("Expected lead time 11 days, got %d", derived.LeadTime)
	}
	// 2 defective units at scrap cost 25.
	if derived.QualityCost != 50 {
		t.Errorf("Expected quality cost 50, got %v", derived.QualityCost)
	}
	if derived.LatePenalty != 2000*LatePenaltyRate {
		t.Errorf("Expected 2%% late penalty, got %v", derived.LatePenalty)
	}
}

func TestOrderDerive_OnTimeHasNoPenalty(t *testing.T) {
	o := Order{
		Quantity:        10,
		UnitCost:        5,
		OrderDate:       day(2025, 1, 1),
		PlannedDelivery: day(2025, 1, 10),
		DeliveryDate:    day(2025, 1, 10),
		LatePenalty:     999, // stale derived value must be cleared
	}

	derived := o.Derive(1)
	if derived.LatePenalty != 0 {
		t.Errorf("Expected no penalty for on-time delivery, got %v", derived.LatePenalty)
	}
	if !derived.OnTime() {
		t.Error("Expected delivery on the planned date to count on time")
	}
}

func TestOrderDerive_Idempotent(t *testing.T) {
	o := Order{
		Quantity:        50,
		UnitCost:        8,
		DefectRate:      1.5,
		OrderDate:       day(2025, 2, 1),
		PlannedDelivery: day(2025, 2, 10),
		DeliveryDate:    day(2025, 2, 14),
	}

	once := o.Derive(12)
	twice := once.Derive(12)
	if once != twice {
		t.Errorf("Derive is not idempotent:\nonce %+v\ntwice %+v", once, twice)
	}
}

func TestInventoryDeriveValue(t *testing.T) {
	inv := Inventory{CurrentStock: 100}

	derived := inv.DeriveValue(20, 0.25)
	if derived.InventoryValue != 2000 {
		t.Errorf("Expected inventory value 2000, got %v", derived.InventoryValue)
	}
	if derived.CarryingCost != 500 {
		t.Errorf("Expected carrying cost 500, got %v", derived.CarryingCost)
	}
}

func TestMetricJSON(t *testing.T) {
	b, err := json.Marshal(NoMetric())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("Expected invalid metric to marshal as null, got %s", b)
	}

	b, err = json.Marshal(MetricOf(0))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != "0" {
		t.Errorf("Expected computed zero to marshal as 0, got %s", b)
	}

	var m Metric
	if err := json.Unmarshal([]byte("null"), &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m.Valid {
		t.Error("Expected null to unmarshal as invalid metric")
	}
	if err := json.Unmarshal([]byte("12.5"), &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !m.Valid || m.Value != 12.5 {
		t.Errorf("Expected valid 12.5, got %+v", m)
	}
}

func TestMetricOr(t *testing.T) {
	if got := NoMetric().Or(42); got != 42 {
		t.Errorf("Expected fallback 42, got %v", got)
	}
	if got := MetricOf(0).Or(42); got != 0 {
		t.Errorf("Expected computed zero to win over fallback, got %v", got)
	}
}

func TestOrderFilter(t *testing.T) {
	from := day(2025, 2, 1)
	to := day(2025, 2, 28)

	orders := []Order{
		{OrderID: "ORD1", OrderDate: day(2025, 1, 15), Category: "Component", ABCClass: ClassA, SupplierID: "SUP001"},
		{OrderID: "ORD2", OrderDate: day(2025, 2, 10), Category: "Component", ABCClass: ClassB, SupplierID: "SUP001"},
		{OrderID: "ORD3", OrderDate: day(2025, 2, 20), Category: "Raw Material", ABCClass: ClassA, SupplierID: "SUP002"},
	}

	tests := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"zero filter selects everything", OrderFilter{}, []string{"ORD1", "ORD2", "ORD3"}},
		{"date range", OrderFilter{DateFrom: &from, DateTo: &to}, []string{"ORD2", "ORD3"}},
		{"category", OrderFilter{Categories: []string{"Component"}}, []string{"ORD1", "ORD2"}},
		{"abc class", OrderFilter{ABCClasses: []ABCClass{ClassA}}, []string{"ORD1", "ORD3"}},
		{"supplier", OrderFilter{Suppliers: []string{"SUP002"}}, []string{"ORD3"}},
		{
			"combined predicates intersect",
			OrderFilter{DateFrom: &from, Categories: []string{"Component"}},
			[]string{"ORD2"},
		},
		{"no match yields empty not nil error", OrderFilter{Suppliers: []string{"SUP999"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(orders)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d orders, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].OrderID != tt.want[i] {
					t.Errorf("Position %d: expected %s, got %s", i, tt.want[i], got[i].OrderID)
				}
			}
		})
	}
}

func TestOrderFilter_ApplyReturnsCopy(t *testing.T) {
	orders := []Order{{OrderID: "ORD1"}}
	out := OrderFilter{}.Apply(orders)

	out[0].OrderID = "changed"
	if orders[0].OrderID != "ORD1" {
		t.Error("Apply must not alias the input slice")
	}
}

func TestParseHelpers(t *testing.T) {
	if s, ok := ParseStockStatus(" critical "); !ok || s != StockCritical {
		t.Errorf("ParseStockStatus failed: %v %v", s, ok)
	}
	if _, ok := ParseStockStatus("urgent"); ok {
		t.Error("Expected unknown status to be rejected")
	}

	if c, ok := ParseABCClass("b"); !ok || c != ClassB {
		t.Errorf("ParseABCClass failed: %v %v", c, ok)
	}

	if c, ok := ParseCompliance("NON-COMPLIANT"); !ok || c != NonCompliant {
		t.Errorf("ParseCompliance failed: %v %v", c, ok)
	}
	if c, ok := ParseCompliance("noncompliant"); !ok || c != NonCompliant {
		t.Errorf("ParseCompliance without hyphen failed: %v %v", c, ok)
	}
}
