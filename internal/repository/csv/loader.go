// Package csv loads the four dashboard datasets from delimited files.
// Parsing is all-or-nothing per file: a malformed row fails the whole load
// so partial collections never reach the calculation core.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/policy"
	"github.com/supplyboard/backend-go/internal/repository"
)

const dateLayout = "2006-01-02"

// Standard file names inside a snapshot directory.
const (
	OrdersFile    = "orders.csv"
	InventoryFile = "inventory.csv"
	ProductsFile  = "products.csv"
	SuppliersFile = "suppliers.csv"
)

// Loader reads dataset snapshots from a directory of CSV files.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at the given snapshot directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadDataset reads all four files and re-derives every derived field
// (total value, lead time, quality cost, late penalty, inventory value,
// carrying cost, stock status) so stale tags in the files cannot leak into
// the core.
func (l *Loader) LoadDataset() (*domain.Dataset, error) {
	products, err := l.LoadProducts()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	suppliers, err := l.LoadSuppliers()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	orders, err := l.LoadOrders()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	inventory, err := l.LoadInventory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}

	productIdx := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productIdx[p.ProductID] = p
	}

	for i, o := range orders {
		orders[i] = o.Derive(productIdx[o.ProductID].ScrapCost)
	}
	for i, inv := range inventory {
		p := productIdx[inv.ProductID]
		inv = inv.DeriveValue(p.UnitCost, p.CarryingCostRate)
		inv.StockStatus = policy.ClassifyStockStatus(float64(inv.CurrentStock), float64(inv.SafetyStock), inv.ROP)
		inventory[i] = inv
	}

	log.Info().
		Int("orders", len(orders)).
		Int("inventory", len(inventory)).
		Int("products", len(products)).
		Int("suppliers", len(suppliers)).
		Msg("csv: loaded dataset")

	return &domain.Dataset{
		Orders:    orders,
		Inventory: inventory,
		Products:  products,
		Suppliers: suppliers,
	}, nil
}

// LoadOrders parses orders.csv.
func (l *Loader) LoadOrders() ([]domain.Order, error) {
	rows, idx, err := l.read(OrdersFile, []string{
		"order_id", "supplier_id", "product_id", "category", "abc_class",
		"order_date", "planned_delivery", "delivery_date", "quantity",
		"unit_cost", "lead_time_target", "defect_rate",
		"mrp_compliance", "setup_compliance",
	})
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(rows))
	for n, row := range rows {
		o, err := parseOrder(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", OrdersFile, n+2, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// LoadInventory parses inventory.csv.
func (l *Loader) LoadInventory() ([]domain.Inventory, error) {
	rows, idx, err := l.read(InventoryFile, []string{
		"product_id", "current_stock", "safety_stock", "eoq", "rop", "avg_demand",
	})
	if err != nil {
		return nil, err
	}

	inventory := make([]domain.Inventory, 0, len(rows))
	for n, row := range rows {
		inv, err := parseInventory(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", InventoryFile, n+2, err)
		}
		inventory = append(inventory, inv)
	}
	return inventory, nil
}

// LoadProducts parses products.csv.
func (l *Loader) LoadProducts() ([]domain.Product, error) {
	rows, idx, err := l.read(ProductsFile, []string{
		"product_id", "product_name", "category", "unit_cost", "abc_class",
		"carrying_cost_rate", "scrap_cost",
	})
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for n, row := range rows {
		p, err := parseProduct(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ProductsFile, n+2, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadSuppliers parses suppliers.csv.
func (l *Loader) LoadSuppliers() ([]domain.Supplier, error) {
	rows, idx, err := l.read(SuppliersFile, []string{
		"supplier_id", "supplier_name", "country", "quality_rating",
		"lead_time_target", "payment_terms", "discount_rate",
	})
	if err != nil {
		return nil, err
	}

	suppliers := make([]domain.Supplier, 0, len(rows))
	for n, row := range rows {
		s, err := parseSupplier(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SuppliersFile, n+2, err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

// read opens a file, validates that every required column is present and
// returns the data rows plus a header index. Column order in the file does
// not matter; names do.
func (l *Loader) read(name string, required []string) ([][]string, map[string]int, error) {
	path := filepath.Join(l.dir, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("%s is empty", name)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%s: missing required column %q", name, col)
		}
	}

	return records[1:], idx, nil
}

func parseOrder(row []string, idx map[string]int) (domain.Order, error) {
	var o domain.Order
	var err error

	o.OrderID = field(row, idx, "order_id")
	o.SupplierID = field(row, idx, "supplier_id")
	o.ProductID = field(row, idx, "product_id")
	o.Category = field(row, idx, "category")

	class, ok := domain.ParseABCClass(field(row, idx, "abc_class"))
	if !ok {
		return o, fmt.Errorf("invalid abc_class %q", field(row, idx, "abc_class"))
	}
	o.ABCClass = class

	if o.OrderDate, err = parseDate(field(row, idx, "order_date")); err != nil {
		return o, err
	}
	if o.PlannedDelivery, err = parseDate(field(row, idx, "planned_delivery")); err != nil {
		return o, err
	}
	if o.DeliveryDate, err = parseDate(field(row, idx, "delivery_date")); err != nil {
		return o, err
	}

	if o.Quantity, err = parseInt(field(row, idx, "quantity")); err != nil {
		return o, fmt.Errorf("quantity: %w", err)
	}
	if o.Quantity < 0 {
		return o, fmt.Errorf("quantity must not be negative, got %d", o.Quantity)
	}
	if o.UnitCost, err = parseFloat(field(row, idx, "unit_cost")); err != nil {
		return o, fmt.Errorf("unit_cost: %w", err)
	}
	if o.LeadTimeTarget, err = parseInt(field(row, idx, "lead_time_target")); err != nil {
		return o, fmt.Errorf("lead_time_target: %w", err)
	}
	if o.DefectRate, err = parseFloat(field(row, idx, "defect_rate")); err != nil {
		return o, fmt.Errorf("defect_rate: %w", err)
	}
	if o.DefectRate < 0 || o.DefectRate > 100 {
		return o, fmt.Errorf("defect_rate must be in [0,100], got %.2f", o.DefectRate)
	}

	mrp, ok := domain.ParseCompliance(field(row, idx, "mrp_compliance"))
	if !ok {
		return o, fmt.Errorf("invalid mrp_compliance %q", field(row, idx, "mrp_compliance"))
	}
	o.MRPCompliance = mrp

	setup, ok := domain.ParseCompliance(field(row, idx, "setup_compliance"))
	if !ok {
		return o, fmt.Errorf("invalid setup_compliance %q", field(row, idx, "setup_compliance"))
	}
	o.SetupCompliance = setup

	return o, nil
}

func parseInventory(row []string, idx map[string]int) (domain.Inventory, error) {
	var inv domain.Inventory
	var err error

	inv.ProductID = field(row, idx, "product_id")
	if inv.CurrentStock, err = parseInt(field(row, idx, "current_stock")); err != nil {
		return inv, fmt.Errorf("current_stock: %w", err)
	}
	if inv.SafetyStock, err = parseInt(field(row, idx, "safety_stock")); err != nil {
		return inv, fmt.Errorf("safety_stock: %w", err)
	}
	if inv.EOQ, err = parseInt(field(row, idx, "eoq")); err != nil {
		return inv, fmt.Errorf("eoq: %w", err)
	}
	if inv.ROP, err = parseFloat(field(row, idx, "rop")); err != nil {
		return inv, fmt.Errorf("rop: %w", err)
	}
	if inv.AvgDemand, err = parseFloat(field(row, idx, "avg_demand")); err != nil {
		return inv, fmt.Errorf("avg_demand: %w", err)
	}

	return inv, nil
}

func parseProduct(row []string, idx map[string]int) (domain.Product, error) {
	var p domain.Product
	var err error

	p.ProductID = field(row, idx, "product_id")
	p.ProductName = field(row, idx, "product_name")
	p.Category = field(row, idx, "category")

	if p.UnitCost, err = parseFloat(field(row, idx, "unit_cost")); err != nil {
		return p, fmt.Errorf("unit_cost: %w", err)
	}

	class, ok := domain.ParseABCClass(field(row, idx, "abc_class"))
	if !ok {
		return p, fmt.Errorf("invalid abc_class %q", field(row, idx, "abc_class"))
	}
	p.ABCClass = class

	if p.CarryingCostRate, err = parseFloat(field(row, idx, "carrying_cost_rate")); err != nil {
		return p, fmt.Errorf("carrying_cost_rate: %w", err)
	}
	if p.ScrapCost, err = parseFloat(field(row, idx, "scrap_cost")); err != nil {
		return p, fmt.Errorf("scrap_cost: %w", err)
	}

	return p, nil
}

func parseSupplier(row []string, idx map[string]int) (domain.Supplier, error) {
	var s domain.Supplier
	var err error

	s.SupplierID = field(row, idx, "supplier_id")
	s.SupplierName = field(row, idx, "supplier_name")
	s.Country = field(row, idx, "country")

	if s.QualityRating, err = parseFloat(field(row, idx, "quality_rating")); err != nil {
		return s, fmt.Errorf("quality_rating: %w", err)
	}
	if s.LeadTimeTarget, err = parseInt(field(row, idx, "lead_time_target")); err != nil {
		return s, fmt.Errorf("lead_time_target: %w", err)
	}
	if s.PaymentTerms, err = parseInt(field(row, idx, "payment_terms")); err != nil {
		return s, fmt.Errorf("payment_terms: %w", err)
	}
	if s.DiscountRate, err = parseFloat(field(row, idx, "discount_rate")); err != nil {
		return s, fmt.Errorf("discount_rate: %w", err)
	}

	return s, nil
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(s string) (time.Time, error) {
	// Accept both plain dates and timestamped exports.
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	// Some exports serialize integer columns as floats ("42.0").
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
