package kpi

import (
	"math"
	"testing"
	"time"

	"github.com/supplyboard/backend-go/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func onTimeOrder() domain.Order {
	return domain.Order{
		OrderID:         "ORD000001",
		SupplierID:      "SUP001",
		OrderDate:       date(2025, 1, 1),
		PlannedDelivery: date(2025, 1, 11),
		DeliveryDate:    date(2025, 1, 10),
		LeadTime:        9,
		LeadTimeTarget:  10,
	}
}

func lateOrder() domain.Order {
	return domain.Order{
		OrderID:         "ORD000002",
		SupplierID:      "SUP002",
		OrderDate:       date(2025, 1, 5),
		PlannedDelivery: date(2025, 1, 15),
		DeliveryDate:    date(2025, 1, 18),
		LeadTime:        13,
		LeadTimeTarget:  10,
	}
}

func TestOnTimeDeliveryRate(t *testing.T) {
	orders := []domain.Order{onTimeOrder(), lateOrder()}
	if got := OnTimeDeliveryRate(orders); got != 50 {
		t.Errorf("Expected 50%% OTD for one on-time of two orders, got %v", got)
	}
}

func TestOnTimeDeliveryRate_DeliveredOnPlannedDateCountsOnTime(t *testing.T) {
	o := onTimeOrder()
	o.DeliveryDate = o.PlannedDelivery
	if got := OnTimeDeliveryRate([]domain.Order{o}); got != 100 {
		t.Errorf("Expected delivery on the planned date to count on time, got %v%%", got)
	}
}

func TestOnTimeDeliveryRate_Empty(t *testing.T) {
	if got := OnTimeDeliveryRate(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %v", got)
	}
}

func TestProcessCompliance(t *testing.T) {
	orders := []domain.Order{
		{MRPCompliance: domain.Compliant, SetupCompliance: domain.Compliant},
		{MRPCompliance: domain.Compliant, SetupCompliance: domain.NonCompliant},
		{MRPCompliance: domain.NonCompliant, SetupCompliance: domain.NonCompliant},
		{MRPCompliance: domain.NonCompliant, SetupCompliance: domain.NonCompliant},
	}

	// MRP 50%, setup 25%: mean 37.5.
	got := ProcessCompliance(orders, []ComplianceStep{StepMRP, StepSetup})
	if math.Abs(got-37.5) > 1e-9 {
		t.Errorf("Expected 37.5, got %v", got)
	}
}

func TestProcessCompliance_UnknownStepsSkipped(t *testing.T) {
	orders := []domain.Order{{MRPCompliance: domain.Compliant}}
	got := ProcessCompliance(orders, []ComplianceStep{StepMRP, ComplianceStep("planning")})
	if got != 100 {
		t.Errorf("Expected unknown step to be skipped, got %v", got)
	}
	if got := ProcessCompliance(orders, []ComplianceStep{ComplianceStep("planning")}); got != 0 {
		t.Errorf("Expected 0 when no recognized steps, got %v", got)
	}
}

func TestCostOfPoorQuality(t *testing.T) {
	orders := []domain.Order{
		{QualityCost: 120, LatePenalty: 30},
		{QualityCost: 50, LatePenalty: 0},
	}
	if got := CostOfPoorQuality(orders); got != 200 {
		t.Errorf("Expected 200, got %v", got)
	}
}

func TestInventoryTurnover(t *testing.T) {
	orders := []domain.Order{
		{OrderDate: date(2025, 1, 1), TotalValue: 1000},
		{OrderDate: date(2025, 12, 31), TotalValue: 1000},
	}
	inventory := []domain.Inventory{{InventoryValue: 4000}}

	// 2000 spend over 364 days, annualized then divided by 4000.
	want := 2000 * (365.0 / 364.0) / 4000
	if got := InventoryTurnover(orders, inventory); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestInventoryTurnover_SingleDaySpan(t *testing.T) {
	orders := []domain.Order{{OrderDate: date(2025, 6, 1), TotalValue: 100}}
	inventory := []domain.Inventory{{InventoryValue: 365 * 100}}

	// Span clamps to one day: 100 * 365 / 36500 = 1.
	if got := InventoryTurnover(orders, inventory); math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected 1, got %v", got)
	}
}

func TestInventoryTurnover_ZeroWorkingCapital(t *testing.T) {
	orders := []domain.Order{{OrderDate: date(2025, 6, 1), TotalValue: 100}}
	if got := InventoryTurnover(orders, nil); got != 0 {
		t.Errorf("Expected 0 on empty inventory, got %v", got)
	}
}

func TestAverageLeadTime_EmptyIsNotZero(t *testing.T) {
	m := AverageLeadTime(nil)
	if m.Valid {
		t.Fatalf("Expected invalid metric for empty input, got %v", m.Value)
	}

	m = AverageLeadTime([]domain.Order{onTimeOrder(), lateOrder()})
	if !m.Valid || m.Value != 11 {
		t.Errorf("Expected mean lead time 11, got %+v", m)
	}
}

func TestLeadTimeStdDev(t *testing.T) {
	if m := LeadTimeStdDev([]domain.Order{onTimeOrder()}); m.Valid {
		t.Errorf("Expected undefined stddev for a single order, got %v", m.Value)
	}

	orders := []domain.Order{{LeadTime: 8}, {LeadTime: 12}}
	m := LeadTimeStdDev(orders)
	if !m.Valid || math.Abs(m.Value-math.Sqrt(8)) > 1e-9 {
		t.Errorf("Expected sample stddev sqrt(8), got %+v", m)
	}
}

func TestStockoutRate(t *testing.T) {
	inventory := []domain.Inventory{
		{CurrentStock: 0},
		{CurrentStock: 10},
		{CurrentStock: 0},
		{CurrentStock: 5},
	}
	if got := StockoutRate(inventory); got != 50 {
		t.Errorf("Expected 50%%, got %v", got)
	}
}

func TestSummary_EmptyInputs(t *testing.T) {
	s := Summary(nil, nil)

	if s.OnTimeDeliveryRate != 0 || s.CostOfPoorQuality != 0 || s.InventoryTurnover != 0 {
		t.Errorf("Expected zero rates for empty inputs, got %+v", s)
	}
	if s.AvgLeadTime.Valid || s.AvgDefectRate.Valid || s.LeadTimeStdDev.Valid {
		t.Errorf("Expected invalid mean metrics for empty inputs, got %+v", s)
	}
	if s.OrderCount != 0 || s.CriticalStockCount != 0 {
		t.Errorf("Expected zero counts, got %+v", s)
	}
}

func TestSupplierPerformance(t *testing.T) {
	orders := []domain.Order{
		{SupplierID: "SUP002", LeadTime: 10, DefectRate: 2},
		{SupplierID: "SUP001", LeadTime: 6, DefectRate: 1},
		{SupplierID: "SUP002", LeadTime: 14, DefectRate: 4},
	}
	suppliers := []domain.Supplier{
		{SupplierID: "SUP001", SupplierName: "Supplier_1"},
		{SupplierID: "SUP002", SupplierName: "Supplier_2"},
	}

	perf := SupplierPerformance(orders, suppliers)
	if len(perf) != 2 {
		t.Fatalf("Expected 2 suppliers, got %d", len(perf))
	}
	if perf[0].SupplierID != "SUP001" || perf[1].SupplierID != "SUP002" {
		t.Errorf("Expected output sorted by supplier ID, got %v then %v", perf[0].SupplierID, perf[1].SupplierID)
	}
	if perf[1].OrderCount != 2 || perf[1].AvgLeadTime != 12 || perf[1].AvgDefectRate != 3 {
		t.Errorf("Unexpected SUP002 aggregation: %+v", perf[1])
	}
	if perf[0].SupplierName != "Supplier_1" {
		t.Errorf("Expected supplier name resolved from master data, got %q", perf[0].SupplierName)
	}
}

func TestMonthlyOTDTrend(t *testing.T) {
	jan := onTimeOrder()
	feb1 := lateOrder()
	feb1.OrderDate = date(2025, 2, 3)
	feb2 := onTimeOrder()
	feb2.OrderDate = date(2025, 2, 20)

	trend := MonthlyOTDTrend([]domain.Order{feb1, jan, feb2})
	if len(trend) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(trend))
	}
	if trend[0].Month != "2025-01" || trend[1].Month != "2025-02" {
		t.Errorf("Expected chronological months, got %v then %v", trend[0].Month, trend[1].Month)
	}
	if trend[1].Rate != 50 || trend[1].Count != 2 {
		t.Errorf("Unexpected February bucket: %+v", trend[1])
	}
}
