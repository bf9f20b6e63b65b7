package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/supplyboard/backend-go/internal/abc"
	"github.com/supplyboard/backend-go/internal/cache"
	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/forecast"
	"github.com/supplyboard/backend-go/internal/kpi"
	"github.com/supplyboard/backend-go/internal/policy"
	"github.com/supplyboard/backend-go/internal/repository"
	"github.com/supplyboard/backend-go/internal/scenario"
)

// DashboardService answers the read-side dashboard queries: KPI summary,
// supplier performance, trends, inventory status, ABC classification,
// forecasting and what-if simulation.
type DashboardService struct {
	repo  repository.DatasetRepository
	cache cache.DashboardCache
}

func NewDashboardService(repo repository.DatasetRepository, cacheImpl cache.DashboardCache) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{repo: repo, cache: cacheImpl}
}

func (s *DashboardService) GetSummary(ctx context.Context, filter domain.OrderFilter) (*domain.KPISummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get summary failed")
	}

	orders, err := s.repo.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	inventory, err := s.repo.GetInventory(ctx)
	if err != nil {
		return nil, err
	}

	summary := kpi.Summary(orders, inventory)

	if err := s.cache.SetSummary(ctx, filter, &summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set summary failed")
	}

	return &summary, nil
}

func (s *DashboardService) GetSupplierPerformance(ctx context.Context, filter domain.OrderFilter) ([]domain.SupplierPerformance, error) {
	orders, err := s.repo.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.repo.GetSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return kpi.SupplierPerformance(orders, suppliers), nil
}

func (s *DashboardService) GetOTDTrend(ctx context.Context, filter domain.OrderFilter) ([]domain.OTDTrendPoint, error) {
	orders, err := s.repo.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return kpi.MonthlyOTDTrend(orders), nil
}

// InventoryStatus is the response for the inventory status view: every
// item with its freshly classified stock status plus the advisories for
// items that need reordering or carry excess stock.
type InventoryStatus struct {
	Items      []domain.Inventory       `json:"items"`
	Advisories []domain.ReorderAdvisory `json:"advisories"`
}

func (s *DashboardService) GetInventoryStatus(ctx context.Context) (*InventoryStatus, error) {
	inventory, err := s.repo.GetInventory(ctx)
	if err != nil {
		return nil, err
	}

	classified := policy.Classify(inventory)
	advisories := policy.Recommend(classified)
	if advisories == nil {
		advisories = make([]domain.ReorderAdvisory, 0)
	}

	return &InventoryStatus{Items: classified, Advisories: advisories}, nil
}

// ABCReport pairs the per-item classification with the per-class value
// shares behind the Pareto chart.
type ABCReport struct {
	Items  []abc.Classified `json:"items"`
	Shares []abc.ClassShare `json:"shares"`
}

// GetABCClassification classifies products by their total ordered value
// within the filter window.
func (s *DashboardService) GetABCClassification(ctx context.Context, filter domain.OrderFilter) (*ABCReport, error) {
	orders, err := s.repo.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	unitCost := make(map[string]float64, len(products))
	for _, p := range products {
		unitCost[p.ProductID] = p.UnitCost
	}

	quantities := make(map[string]float64)
	order := make([]string, 0)
	for _, o := range orders {
		if _, seen := quantities[o.ProductID]; !seen {
			order = append(order, o.ProductID)
		}
		quantities[o.ProductID] += float64(o.Quantity)
	}
	sort.Strings(order)

	items := make([]abc.Item, 0, len(order))
	for _, id := range order {
		items = append(items, abc.Item{
			ID:        id,
			UnitValue: unitCost[id],
			Quantity:  quantities[id],
		})
	}

	classified := abc.Classify(items)
	return &ABCReport{Items: classified, Shares: abc.Shares(classified)}, nil
}

// GetForecast builds the product's daily demand series from its order
// history and evaluates a moving-average forecast over it.
func (s *DashboardService) GetForecast(ctx context.Context, productID string, window int) (*forecast.Evaluation, error) {
	orders, err := s.repo.GetOrders(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}

	series := demandSeries(orders, productID)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no orders for product %s", repository.ErrNoData, productID)
	}

	return forecast.Evaluate(series, window)
}

func (s *DashboardService) SimulateScenario(ctx context.Context, filter domain.OrderFilter, p scenario.Perturbation) (*domain.ScenarioImpact, error) {
	ds, err := s.repo.GetDataset(ctx, filter)
	if err != nil {
		return nil, err
	}

	impact := scenario.Simulate(*ds, p)
	return &impact, nil
}

// demandSeries aggregates a product's ordered quantity per order date,
// returned in date order.
func demandSeries(orders []domain.Order, productID string) []float64 {
	byDate := make(map[string]float64)
	for _, o := range orders {
		if o.ProductID != productID {
			continue
		}
		byDate[o.OrderDate.Format("2006-01-02")] += float64(o.Quantity)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make([]float64, 0, len(dates))
	for _, d := range dates {
		series = append(series, byDate[d])
	}
	return series
}
