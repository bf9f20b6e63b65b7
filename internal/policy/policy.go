// Package policy implements the inventory policy engine: economic order
// quantity, reorder point, safety stock and the stock status classification
// rule. Unlike the reporting functions in the kpi package, these take
// caller-supplied parameters, and invalid parameters are real failures:
// they return typed errors instead of silently clamping or producing NaN.
package policy

import (
	"errors"
	"fmt"
	"math"

	"github.com/supplyboard/backend-go/internal/domain"
)

var (
	// ErrNonPositiveHoldingCost rejects EOQ inputs that would divide by zero.
	ErrNonPositiveHoldingCost = errors.New("holding cost must be positive")

	// ErrNegativeInput rejects negative demand, cost, deviation or lead time.
	ErrNegativeInput = errors.New("input must not be negative")

	// ErrServiceLevelRange rejects service levels outside the open (0,1) range.
	ErrServiceLevelRange = errors.New("service level must be in (0,1)")
)

// EOQ computes the economic order quantity sqrt(2*D*S/H) for annual demand
// D, per-order ordering cost S and per-unit annual holding cost H.
func EOQ(annualDemand, orderingCost, holdingCost float64) (float64, error) {
	if holdingCost <= 0 {
		return 0, fmt.Errorf("eoq: holding cost %.4f: %w", holdingCost, ErrNonPositiveHoldingCost)
	}
	if annualDemand < 0 {
		return 0, fmt.Errorf("eoq: annual demand %.4f: %w", annualDemand, ErrNegativeInput)
	}
	if orderingCost < 0 {
		return 0, fmt.Errorf("eoq: ordering cost %.4f: %w", orderingCost, ErrNegativeInput)
	}

	return math.Sqrt((2 * annualDemand * orderingCost) / holdingCost), nil
}

// ReorderPoint computes avg demand over the replenishment lead time plus
// safety stock.
func ReorderPoint(avgDemand, leadTime, safetyStock float64) float64 {
	return avgDemand*leadTime + safetyStock
}

// SafetyStock computes z(serviceLevel) * demandStd * sqrt(leadTime), where
// z is the standard normal quantile at the requested service level
// (0.95 -> ~1.645).
func SafetyStock(demandStd, leadTime, serviceLevel float64) (float64, error) {
	if serviceLevel <= 0 || serviceLevel >= 1 {
		return 0, fmt.Errorf("safety stock: service level %.4f: %w", serviceLevel, ErrServiceLevelRange)
	}
	if demandStd < 0 {
		return 0, fmt.Errorf("safety stock: demand std %.4f: %w", demandStd, ErrNegativeInput)
	}
	if leadTime < 0 {
		return 0, fmt.Errorf("safety stock: lead time %.4f: %w", leadTime, ErrNegativeInput)
	}

	return normalQuantile(serviceLevel) * demandStd * math.Sqrt(leadTime), nil
}

// ClassifyStockStatus is the single source of truth for stock status:
// Critical below safety stock, Low at or above safety stock but below the
// reorder point, Normal otherwise. Both boundaries are half-open: stock
// equal to safety stock is not Critical, stock equal to the reorder point
// is not Low. Every place a stock status is derived, including after
// scenario perturbation, must go through this function.
func ClassifyStockStatus(currentStock, safetyStock, rop float64) domain.StockStatus {
	switch {
	case currentStock < safetyStock:
		return domain.StockCritical
	case currentStock < rop:
		return domain.StockLow
	default:
		return domain.StockNormal
	}
}

// Classify re-derives the stock status tag on every inventory row.
func Classify(inventory []domain.Inventory) []domain.Inventory {
	out := make([]domain.Inventory, len(inventory))
	for i, inv := range inventory {
		inv.StockStatus = ClassifyStockStatus(float64(inv.CurrentStock), float64(inv.SafetyStock), inv.ROP)
		out[i] = inv
	}
	return out
}

// Recommend produces reorder advisories: a shortage entry for every row
// whose stock sits below its reorder point, and an excess flag for rows
// holding more than twice their EOQ.
func Recommend(inventory []domain.Inventory) []domain.ReorderAdvisory {
	var out []domain.ReorderAdvisory
	for _, inv := range inventory {
		below := float64(inv.CurrentStock) < inv.ROP
		excess := inv.EOQ > 0 && inv.CurrentStock > 2*inv.EOQ
		if !below && !excess {
			continue
		}

		adv := domain.ReorderAdvisory{
			ProductID:    inv.ProductID,
			CurrentStock: inv.CurrentStock,
			ROP:          inv.ROP,
			EOQ:          inv.EOQ,
			Excess:       excess,
		}
		if below {
			adv.Shortage = inv.ROP - float64(inv.CurrentStock)
		}
		out = append(out, adv)
	}
	return out
}
