package domain

// KPISummary aggregates the headline metrics shown on the dashboard KPI row.
// Rates are percentages in [0,100]; currency fields are in the dataset's
// base currency. Metric-typed fields are null in JSON when the filtered
// dataset carried no data for them.
type KPISummary struct {
	OnTimeDeliveryRate float64 `json:"on_time_delivery_rate"`
	AvgLeadTime        Metric  `json:"avg_lead_time"`
	AvgLeadTimeTarget  Metric  `json:"avg_lead_time_target"`
	LeadTimeStdDev     Metric  `json:"lead_time_std_dev"`
	ProcessCompliance  float64 `json:"process_compliance"`
	AvgDefectRate      Metric  `json:"avg_defect_rate"`
	CostOfPoorQuality  float64 `json:"cost_of_poor_quality"`
	WorkingCapital     float64 `json:"working_capital"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
	CarryingCostTotal  float64 `json:"carrying_cost_total"`
	StockoutRate       float64 `json:"stockout_rate"`
	CriticalStockCount int     `json:"critical_stock_count"`
	TotalOrderValue    float64 `json:"total_order_value"`
	OrderCount         int     `json:"order_count"`
}

// SupplierPerformance is the per-supplier aggregation behind the supplier
// performance matrix chart.
type SupplierPerformance struct {
	SupplierID    string  `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name"`
	OrderCount    int     `json:"order_count"`
	AvgLeadTime   float64 `json:"avg_lead_time"`
	AvgDefectRate float64 `json:"avg_defect_rate"`
}

// OTDTrendPoint is one month of the on-time-delivery trend series.
type OTDTrendPoint struct {
	Month string  `json:"month"` // YYYY-MM
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ReorderAdvisory flags a product whose stock sits below its reorder point,
// or whose stock is excessive relative to its EOQ.
type ReorderAdvisory struct {
	ProductID    string  `json:"product_id"`
	CurrentStock int     `json:"current_stock"`
	ROP          float64 `json:"rop"`
	EOQ          int     `json:"eoq"`
	Shortage     float64 `json:"shortage"`
	Excess       bool    `json:"excess"`
}

// ScenarioImpact reports the signed deltas (scenario minus baseline) a
// perturbation produces on the headline KPIs, along with both summaries.
type ScenarioImpact struct {
	Baseline KPISummary `json:"baseline"`
	Scenario KPISummary `json:"scenario"`

	OTDDelta           float64 `json:"otd_delta"`
	COPQDelta          float64 `json:"copq_delta"`
	CriticalStockDelta int     `json:"critical_stock_delta"`
	TotalValueDelta    float64 `json:"total_value_delta"`
}
