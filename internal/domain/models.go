// internal/domain/models.go
package domain

import "time"

// LatePenaltyRate is the fraction of an order's total value charged as a
// penalty when the actual delivery lands after the planned delivery date.
const LatePenaltyRate = 0.02

// Order represents a single purchase order. Orders are append-only: once
// created a record is never updated in place. TotalValue, LeadTime,
// QualityCost and LatePenalty are derived fields; use Derive to populate
// them instead of setting them directly.
type Order struct {
	OrderID         string     `json:"order_id" db:"order_id"`
	SupplierID      string     `json:"supplier_id" db:"supplier_id"`
	ProductID       string     `json:"product_id" db:"product_id"`
	Category        string     `json:"category" db:"category"`
	ABCClass        ABCClass   `json:"abc_class" db:"abc_class"`
	OrderDate       time.Time  `json:"order_date" db:"order_date"`
	PlannedDelivery time.Time  `json:"planned_delivery" db:"planned_delivery"`
	DeliveryDate    time.Time  `json:"delivery_date" db:"delivery_date"`
	Quantity        int        `json:"quantity" db:"quantity"`
	UnitCost        float64    `json:"unit_cost" db:"unit_cost"`
	TotalValue      float64    `json:"total_value" db:"total_value"`
	LeadTime        int        `json:"lead_time" db:"lead_time"`
	LeadTimeTarget  int        `json:"lead_time_target" db:"lead_time_target"`
	DefectRate      float64    `json:"defect_rate" db:"defect_rate"`
	MRPCompliance   Compliance `json:"mrp_compliance" db:"mrp_compliance"`
	SetupCompliance Compliance `json:"setup_compliance" db:"setup_compliance"`
	QualityCost     float64    `json:"quality_cost" db:"quality_cost"`
	LatePenalty     float64    `json:"late_penalty" db:"late_penalty"`
}

// Derive returns a copy of the order with all derived fields recomputed from
// their inputs: total value from quantity and unit cost, lead time from the
// order/delivery dates, quality cost from defective units and the product's
// scrap cost, and the late penalty from the planned vs actual delivery.
// Recomputing with the same inputs always reproduces the same values.
func (o Order) Derive(scrapCost float64) Order {
	o.TotalValue = float64(o.Quantity) * o.UnitCost
	o.LeadTime = daysBetween(o.OrderDate, o.DeliveryDate)

	defectiveUnits := float64(o.Quantity) * (o.DefectRate / 100)
	o.QualityCost = defectiveUnits * scrapCost

	if o.DeliveryDate.After(o.PlannedDelivery) {
		o.LatePenalty = o.TotalValue * LatePenaltyRate
	} else {
		o.LatePenalty = 0
	}

	return o
}

// OnTime reports whether the order was delivered by its planned date.
func (o Order) OnTime() bool {
	return !o.DeliveryDate.After(o.PlannedDelivery)
}

// Inventory represents the current stock position for a single product.
// Rows are fully replaced on each refresh cycle. InventoryValue,
// CarryingCost and StockStatus are derived; InventoryValue and CarryingCost
// are recomputed by DeriveValue, StockStatus by the policy package's
// classification rule.
type Inventory struct {
	ProductID      string      `json:"product_id" db:"product_id"`
	CurrentStock   int         `json:"current_stock" db:"current_stock"`
	SafetyStock    int         `json:"safety_stock" db:"safety_stock"`
	EOQ            int         `json:"eoq" db:"eoq"`
	ROP            float64     `json:"rop" db:"rop"`
	AvgDemand      float64     `json:"avg_demand" db:"avg_demand"`
	InventoryValue float64     `json:"inventory_value" db:"inventory_value"`
	CarryingCost   float64     `json:"carrying_cost" db:"carrying_cost"`
	StockStatus    StockStatus `json:"stock_status" db:"stock_status"`
}

// DeriveValue returns a copy with inventory value and carrying cost
// recomputed from current stock, the product's unit cost and its annual
// carrying cost rate.
func (inv Inventory) DeriveValue(unitCost, carryingCostRate float64) Inventory {
	inv.InventoryValue = float64(inv.CurrentStock) * unitCost
	inv.CarryingCost = inv.InventoryValue * carryingCostRate
	return inv
}

// Product represents the master record for a purchasable item.
type Product struct {
	ProductID        string   `json:"product_id" db:"product_id"`
	ProductName      string   `json:"product_name" db:"product_name"`
	Category         string   `json:"category" db:"category"`
	UnitCost         float64  `json:"unit_cost" db:"unit_cost"`
	ABCClass         ABCClass `json:"abc_class" db:"abc_class"`
	CarryingCostRate float64  `json:"carrying_cost_rate" db:"carrying_cost_rate"`
	ScrapCost        float64  `json:"scrap_cost" db:"scrap_cost"`
}

// Supplier represents the master record for a supplier.
type Supplier struct {
	SupplierID     string  `json:"supplier_id" db:"supplier_id"`
	SupplierName   string  `json:"supplier_name" db:"supplier_name"`
	Country        string  `json:"country" db:"country"`
	QualityRating  float64 `json:"quality_rating" db:"quality_rating"`
	LeadTimeTarget int     `json:"lead_time_target" db:"lead_time_target"`
	PaymentTerms   int     `json:"payment_terms" db:"payment_terms"`
	DiscountRate   float64 `json:"discount_rate" db:"discount_rate"`
}

// Dataset bundles the four record collections the core operates on.
type Dataset struct {
	Orders    []Order     `json:"orders"`
	Inventory []Inventory `json:"inventory"`
	Products  []Product   `json:"products"`
	Suppliers []Supplier  `json:"suppliers"`
}

// ProductIndex returns products keyed by product ID.
func (d Dataset) ProductIndex() map[string]Product {
	idx := make(map[string]Product, len(d.Products))
	for _, p := range d.Products {
		idx[p.ProductID] = p
	}
	return idx
}

// SupplierIndex returns suppliers keyed by supplier ID.
func (d Dataset) SupplierIndex() map[string]Supplier {
	idx := make(map[string]Supplier, len(d.Suppliers))
	for _, s := range d.Suppliers {
		idx[s.SupplierID] = s
	}
	return idx
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
