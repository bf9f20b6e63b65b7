// Package kpi computes the operational and financial KPIs of the dashboard
// as pure functions over in-memory order and inventory collections.
//
// Every aggregate here is a reporting function: empty or filtered-to-empty
// inputs are business-normal states, so these functions never return errors.
// Rates degrade to 0 and means degrade to an invalid Metric ("N/A") instead.
package kpi

import (
	"math"
	"sort"

	"github.com/supplyboard/backend-go/internal/domain"
)

// ComplianceStep names a per-order compliance field the caller wants
// included in the process compliance score.
type ComplianceStep string

const (
	StepMRP   ComplianceStep = "mrp_compliance"
	StepSetup ComplianceStep = "setup_compliance"
)

// OnTimeDeliveryRate returns the percentage of orders delivered on or
// before their planned delivery date. Empty input yields 0.
func OnTimeDeliveryRate(orders []domain.Order) float64 {
	if len(orders) == 0 {
		return 0
	}

	onTime := 0
	for _, o := range orders {
		if o.OnTime() {
			onTime++
		}
	}
	return float64(onTime) / float64(len(orders)) * 100
}

// ProcessCompliance returns the unweighted mean, across the named steps, of
// the percentage of orders marked Compliant for that step. Unrecognized
// steps are skipped; no orders or no recognized steps yields 0.
func ProcessCompliance(orders []domain.Order, steps []ComplianceStep) float64 {
	if len(orders) == 0 {
		return 0
	}

	var scores []float64
	for _, step := range steps {
		field, ok := complianceField(step)
		if !ok {
			continue
		}

		compliant := 0
		for _, o := range orders {
			if field(o) == domain.Compliant {
				compliant++
			}
		}
		scores = append(scores, float64(compliant)/float64(len(orders))*100)
	}

	if len(scores) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func complianceField(step ComplianceStep) (func(domain.Order) domain.Compliance, bool) {
	switch step {
	case StepMRP:
		return func(o domain.Order) domain.Compliance { return o.MRPCompliance }, true
	case StepSetup:
		return func(o domain.Order) domain.Compliance { return o.SetupCompliance }, true
	}
	return nil, false
}

// CostOfPoorQuality sums quality costs and late-delivery penalties.
func CostOfPoorQuality(orders []domain.Order) float64 {
	total := 0.0
	for _, o := range orders {
		total += o.QualityCost + o.LatePenalty
	}
	return total
}

// WorkingCapital sums the inventory value across all stock rows.
func WorkingCapital(inventory []domain.Inventory) float64 {
	total := 0.0
	for _, inv := range inventory {
		total += inv.InventoryValue
	}
	return total
}

// CarryingCostTotal sums the annual carrying cost across all stock rows.
func CarryingCostTotal(inventory []domain.Inventory) float64 {
	total := 0.0
	for _, inv := range inventory {
		total += inv.CarryingCost
	}
	return total
}

// InventoryTurnover returns annualized procurement spend divided by working
// capital. Spend is annualized over the span of order dates in the input
// (minimum one day). A zero or negative working capital yields 0 rather
// than an error: an empty denominator is a reportable state, not a failure.
func InventoryTurnover(orders []domain.Order, inventory []domain.Inventory) float64 {
	workingCapital := WorkingCapital(inventory)
	if workingCapital <= 0 || len(orders) == 0 {
		return 0
	}

	totalSpend := 0.0
	minDate, maxDate := orders[0].OrderDate, orders[0].OrderDate
	for _, o := range orders {
		totalSpend += o.TotalValue
		if o.OrderDate.Before(minDate) {
			minDate = o.OrderDate
		}
		if o.OrderDate.After(maxDate) {
			maxDate = o.OrderDate
		}
	}

	daysInPeriod := int(maxDate.Sub(minDate).Hours() / 24)
	if daysInPeriod < 1 {
		daysInPeriod = 1
	}

	annualizedSpend := totalSpend * (365 / float64(daysInPeriod))
	return annualizedSpend / workingCapital
}

// AverageLeadTime returns the mean order lead time in days, or an invalid
// Metric for empty input: an empty slice has no lead time, not a zero one.
func AverageLeadTime(orders []domain.Order) domain.Metric {
	if len(orders) == 0 {
		return domain.NoMetric()
	}

	sum := 0.0
	for _, o := range orders {
		sum += float64(o.LeadTime)
	}
	return domain.MetricOf(sum / float64(len(orders)))
}

// AverageLeadTimeTarget returns the mean lead time target in days, or an
// invalid Metric for empty input.
func AverageLeadTimeTarget(orders []domain.Order) domain.Metric {
	if len(orders) == 0 {
		return domain.NoMetric()
	}

	sum := 0.0
	for _, o := range orders {
		sum += float64(o.LeadTimeTarget)
	}
	return domain.MetricOf(sum / float64(len(orders)))
}

// AverageDefectRate returns the mean defect rate percentage, or an invalid
// Metric for empty input.
func AverageDefectRate(orders []domain.Order) domain.Metric {
	if len(orders) == 0 {
		return domain.NoMetric()
	}

	sum := 0.0
	for _, o := range orders {
		sum += o.DefectRate
	}
	return domain.MetricOf(sum / float64(len(orders)))
}

// LeadTimeStdDev returns the sample standard deviation of order lead times.
// Fewer than two orders leave the deviation undefined.
func LeadTimeStdDev(orders []domain.Order) domain.Metric {
	if len(orders) < 2 {
		return domain.NoMetric()
	}

	mean := AverageLeadTime(orders).Value
	sumSq := 0.0
	for _, o := range orders {
		d := float64(o.LeadTime) - mean
		sumSq += d * d
	}
	return domain.MetricOf(math.Sqrt(sumSq / float64(len(orders)-1)))
}

// StockoutRate returns the percentage of inventory rows with zero stock.
func StockoutRate(inventory []domain.Inventory) float64 {
	if len(inventory) == 0 {
		return 0
	}

	out := 0
	for _, inv := range inventory {
		if inv.CurrentStock == 0 {
			out++
		}
	}
	return float64(out) / float64(len(inventory)) * 100
}

// CriticalStockCount counts inventory rows tagged Critical.
func CriticalStockCount(inventory []domain.Inventory) int {
	n := 0
	for _, inv := range inventory {
		if inv.StockStatus == domain.StockCritical {
			n++
		}
	}
	return n
}

// TotalOrderValue sums order values.
func TotalOrderValue(orders []domain.Order) float64 {
	total := 0.0
	for _, o := range orders {
		total += o.TotalValue
	}
	return total
}

// Summary computes the full dashboard KPI row over one order/inventory
// snapshot. Process compliance covers the MRP and setup steps.
func Summary(orders []domain.Order, inventory []domain.Inventory) domain.KPISummary {
	return domain.KPISummary{
		OnTimeDeliveryRate: OnTimeDeliveryRate(orders),
		AvgLeadTime:        AverageLeadTime(orders),
		AvgLeadTimeTarget:  AverageLeadTimeTarget(orders),
		LeadTimeStdDev:     LeadTimeStdDev(orders),
		ProcessCompliance:  ProcessCompliance(orders, []ComplianceStep{StepMRP, StepSetup}),
		AvgDefectRate:      AverageDefectRate(orders),
		CostOfPoorQuality:  CostOfPoorQuality(orders),
		WorkingCapital:     WorkingCapital(inventory),
		InventoryTurnover:  InventoryTurnover(orders, inventory),
		CarryingCostTotal:  CarryingCostTotal(inventory),
		StockoutRate:       StockoutRate(inventory),
		CriticalStockCount: CriticalStockCount(inventory),
		TotalOrderValue:    TotalOrderValue(orders),
		OrderCount:         len(orders),
	}
}

// SupplierPerformance aggregates order count, average lead time and average
// defect rate per supplier, sorted by supplier ID for stable output.
// Supplier names are resolved from the suppliers collection when present.
func SupplierPerformance(orders []domain.Order, suppliers []domain.Supplier) []domain.SupplierPerformance {
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.SupplierID] = s.SupplierName
	}

	type acc struct {
		count      int
		leadTime   float64
		defectRate float64
	}
	byID := make(map[string]*acc)
	for _, o := range orders {
		a, ok := byID[o.SupplierID]
		if !ok {
			a = &acc{}
			byID[o.SupplierID] = a
		}
		a.count++
		a.leadTime += float64(o.LeadTime)
		a.defectRate += o.DefectRate
	}

	out := make([]domain.SupplierPerformance, 0, len(byID))
	for id, a := range byID {
		out = append(out, domain.SupplierPerformance{
			SupplierID:    id,
			SupplierName:  names[id],
			OrderCount:    a.count,
			AvgLeadTime:   a.leadTime / float64(a.count),
			AvgDefectRate: a.defectRate / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out
}

// MonthlyOTDTrend buckets orders by order month (YYYY-MM) and computes the
// on-time-delivery rate per bucket, sorted chronologically.
func MonthlyOTDTrend(orders []domain.Order) []domain.OTDTrendPoint {
	byMonth := make(map[string][]domain.Order)
	for _, o := range orders {
		month := o.OrderDate.Format("2006-01")
		byMonth[month] = append(byMonth[month], o)
	}

	out := make([]domain.OTDTrendPoint, 0, len(byMonth))
	for month, bucket := range byMonth {
		out = append(out, domain.OTDTrendPoint{
			Month: month,
			Rate:  OnTimeDeliveryRate(bucket),
			Count: len(bucket),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
