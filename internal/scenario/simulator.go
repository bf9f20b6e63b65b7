// Package scenario applies what-if perturbations to a dataset and reports
// the KPI deltas they would produce. The simulator never mutates the
// baseline: it builds a fully derived copy and re-runs the same pure KPI
// and classification functions on both sides.
package scenario

import (
	"math"

	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/kpi"
	"github.com/supplyboard/backend-go/internal/policy"
)

// Perturbation is a pair of scalar what-if adjustments: an additive shift
// of every delivery in days, and a percentage change of demand (+10 scales
// quantities and demand rates by 1.10). The zero Perturbation is the
// identity: applying it reproduces the baseline KPIs exactly.
type Perturbation struct {
	LeadTimeDelta    int     `json:"lead_time_delta"`
	DemandMultiplier float64 `json:"demand_multiplier"`
}

func (p Perturbation) factor() float64 {
	return 1 + p.DemandMultiplier/100
}

// Apply builds the derived dataset: delivery dates shifted by the lead-time
// delta with lead times and late penalties re-derived, order quantities and
// inventory demand rates scaled by the demand multiplier with total values
// and reorder points following, and stock status re-derived through the
// policy classification rule. The input dataset is left untouched.
func (p Perturbation) Apply(ds domain.Dataset) domain.Dataset {
	factor := p.factor()
	products := ds.ProductIndex()

	out := domain.Dataset{
		Orders:    make([]domain.Order, len(ds.Orders)),
		Inventory: make([]domain.Inventory, len(ds.Inventory)),
		Products:  make([]domain.Product, len(ds.Products)),
		Suppliers: make([]domain.Supplier, len(ds.Suppliers)),
	}
	copy(out.Products, ds.Products)
	copy(out.Suppliers, ds.Suppliers)

	for i, o := range ds.Orders {
		o.DeliveryDate = o.DeliveryDate.AddDate(0, 0, p.LeadTimeDelta)
		if factor != 1 {
			o.Quantity = int(math.Round(float64(o.Quantity) * factor))
		}
		out.Orders[i] = o.Derive(products[o.ProductID].ScrapCost)
	}

	for i, inv := range ds.Inventory {
		if factor != 1 {
			inv.AvgDemand *= factor
			inv.ROP *= factor
		}
		product := products[inv.ProductID]
		inv = inv.DeriveValue(product.UnitCost, product.CarryingCostRate)
		inv.StockStatus = policy.ClassifyStockStatus(float64(inv.CurrentStock), float64(inv.SafetyStock), inv.ROP)
		out.Inventory[i] = inv
	}

	return out
}

// Simulate applies the perturbation and reports signed deltas (scenario
// minus baseline) for the on-time-delivery rate, cost of poor quality,
// critical-stock count and total order value, along with both full KPI
// summaries.
func Simulate(baseline domain.Dataset, p Perturbation) domain.ScenarioImpact {
	derived := p.Apply(baseline)

	base := kpi.Summary(baseline.Orders, baseline.Inventory)
	sim := kpi.Summary(derived.Orders, derived.Inventory)

	return domain.ScenarioImpact{
		Baseline:           base,
		Scenario:           sim,
		OTDDelta:           sim.OnTimeDeliveryRate - base.OnTimeDeliveryRate,
		COPQDelta:          sim.CostOfPoorQuality - base.CostOfPoorQuality,
		CriticalStockDelta: sim.CriticalStockCount - base.CriticalStockCount,
		TotalValueDelta:    sim.TotalOrderValue - base.TotalOrderValue,
	}
}
