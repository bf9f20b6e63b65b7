package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/supplyboard/backend-go/internal/domain"
)

type recordingRepository struct {
	orders    []domain.Order
	inventory []domain.Inventory
	products  []domain.Product
	suppliers []domain.Supplier
}

func (r *recordingRepository) GetOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	return r.orders, nil
}
func (r *recordingRepository) GetInventory(context.Context) ([]domain.Inventory, error) {
	return r.inventory, nil
}
func (r *recordingRepository) GetProducts(context.Context) ([]domain.Product, error) {
	return r.products, nil
}
func (r *recordingRepository) GetSuppliers(context.Context) ([]domain.Supplier, error) {
	return r.suppliers, nil
}
func (r *recordingRepository) GetDataset(context.Context, domain.OrderFilter) (*domain.Dataset, error) {
	return &domain.Dataset{}, nil
}
func (r *recordingRepository) AppendOrders(_ context.Context, orders []domain.Order) error {
	r.orders = append(r.orders, orders...)
	return nil
}
func (r *recordingRepository) ReplaceInventory(_ context.Context, inventory []domain.Inventory) error {
	r.inventory = inventory
	return nil
}
func (r *recordingRepository) ReplaceProducts(_ context.Context, products []domain.Product) error {
	r.products = products
	return nil
}
func (r *recordingRepository) ReplaceSuppliers(_ context.Context, suppliers []domain.Supplier) error {
	r.suppliers = suppliers
	return nil
}

type recordingCache struct {
	invalidations int
}

func (c *recordingCache) GetSummary(context.Context, domain.OrderFilter) (*domain.KPISummary, bool, error) {
	return nil, false, nil
}
func (c *recordingCache) SetSummary(context.Context, domain.OrderFilter, *domain.KPISummary) error {
	return nil
}
func (c *recordingCache) InvalidateAll(context.Context) error {
	c.invalidations++
	return nil
}

const (
	ordersCSV = `order_id,supplier_id,product_id,category,abc_class,order_date,planned_delivery,delivery_date,quantity,unit_cost,lead_time_target,defect_rate,mrp_compliance,setup_compliance
ORD000001,SUP001,P0001,Component,A,2025-01-01,2025-01-10,2025-01-09,100,20,9,2,Compliant,Compliant
`
	inventoryCSV = `product_id,current_stock,safety_stock,eoq,rop,avg_demand
P0001,120,50,200,150,10
`
	productsCSV = `product_id,product_name,category,unit_cost,abc_class,carrying_cost_rate,scrap_cost
P0001,Product_1,Component,20,A,0.2,25
`
	suppliersCSV = `supplier_id,supplier_name,country,quality_rating,lead_time_target,payment_terms,discount_rate
SUP001,Supplier_1,USA,97.5,9,30,0.02
`
)

func TestStageFile_RejectsUnknownNames(t *testing.T) {
	svc := NewService(&recordingRepository{}, nil, nil, nil, nil, t.TempDir())

	if err := svc.StageFile("notes.txt", strings.NewReader("x")); err == nil {
		t.Error("Expected unknown file name to be rejected")
	}
	if err := svc.StageFile("orders.csv", strings.NewReader(ordersCSV)); err != nil {
		t.Errorf("Expected orders.csv accepted, got %v", err)
	}
}

func TestStageFile_StripsDirectories(t *testing.T) {
	svc := NewService(&recordingRepository{}, nil, nil, nil, nil, t.TempDir())

	if err := svc.StageFile("../../etc/orders.csv", strings.NewReader(ordersCSV)); err != nil {
		t.Errorf("Expected path components stripped from upload name, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	repo := &recordingRepository{}
	cache := &recordingCache{}
	svc := NewService(repo, cache, nil, nil, nil, t.TempDir())

	stage := map[string]string{
		"orders.csv":    ordersCSV,
		"inventory.csv": inventoryCSV,
		"products.csv":  productsCSV,
		"suppliers.csv": suppliersCSV,
	}
	for name, content := range stage {
		if err := svc.StageFile(name, strings.NewReader(content)); err != nil {
			t.Fatalf("Failed to stage %s: %v", name, err)
		}
	}

	ds, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(ds.Orders) != 1 || len(repo.orders) != 1 {
		t.Errorf("Expected 1 order appended, repo has %d", len(repo.orders))
	}
	if len(repo.inventory) != 1 || len(repo.products) != 1 || len(repo.suppliers) != 1 {
		t.Errorf("Expected replaced collections, got %d/%d/%d",
			len(repo.inventory), len(repo.products), len(repo.suppliers))
	}
	if cache.invalidations != 1 {
		t.Errorf("Expected 1 cache invalidation, got %d", cache.invalidations)
	}

	// Derived fields come back populated from the loader.
	if repo.orders[0].TotalValue != 2000 {
		t.Errorf("Expected derived total value, got %v", repo.orders[0].TotalValue)
	}
	if repo.inventory[0].StockStatus != domain.StockLow {
		t.Errorf("Expected derived stock status, got %v", repo.inventory[0].StockStatus)
	}
}

func TestRefresh_IncompleteSnapshot(t *testing.T) {
	svc := NewService(&recordingRepository{}, nil, nil, nil, nil, t.TempDir())

	if err := svc.StageFile("orders.csv", strings.NewReader(ordersCSV)); err != nil {
		t.Fatalf("Failed to stage: %v", err)
	}

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Error("Expected refresh to fail on an incomplete snapshot")
	}
}
