package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/repository"
)

const orderColumns = `order_id, supplier_id, product_id, category, abc_class,
	order_date, planned_delivery, delivery_date, quantity, unit_cost,
	total_value, lead_time, lead_time_target, defect_rate,
	mrp_compliance, setup_compliance, quality_cost, late_penalty`

type datasetRepository struct {
	db *DB
}

// NewDatasetRepository returns the Postgres-backed dataset repository.
func NewDatasetRepository(db *DB) repository.DatasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) GetOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	where, args := buildOrderWhere(filter)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY order_date, order_id"

	query, args, err := expandIn(query, args)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

func (r *datasetRepository) GetInventory(ctx context.Context) ([]domain.Inventory, error) {
	var inventory []domain.Inventory
	query := `SELECT product_id, current_stock, safety_stock, eoq, rop, avg_demand,
		inventory_value, carrying_cost, stock_status
		FROM inventory ORDER BY product_id`
	if err := r.db.SelectContext(ctx, &inventory, query); err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	return inventory, nil
}

func (r *datasetRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	query := `SELECT product_id, product_name, category, unit_cost, abc_class,
		carrying_cost_rate, scrap_cost
		FROM products ORDER BY product_id`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

func (r *datasetRepository) GetSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	query := `SELECT supplier_id, supplier_name, country, quality_rating,
		lead_time_target, payment_terms, discount_rate
		FROM suppliers ORDER BY supplier_id`
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	return suppliers, nil
}

// GetDataset loads all four collections. The loader contract is
// all-or-nothing: any failure yields ErrNoData-wrapped errors rather than a
// partially populated dataset.
func (r *datasetRepository) GetDataset(ctx context.Context, filter domain.OrderFilter) (*domain.Dataset, error) {
	orders, err := r.GetOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	inventory, err := r.GetInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	products, err := r.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	suppliers, err := r.GetSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}

	return &domain.Dataset{
		Orders:    orders,
		Inventory: inventory,
		Products:  products,
		Suppliers: suppliers,
	}, nil
}

// AppendOrders inserts new orders. Orders are an append-only event log:
// existing rows are never updated, so conflicting IDs are skipped.
func (r *datasetRepository) AppendOrders(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `INSERT INTO orders (` + orderColumns + `) VALUES
			(:order_id, :supplier_id, :product_id, :category, :abc_class,
			:order_date, :planned_delivery, :delivery_date, :quantity, :unit_cost,
			:total_value, :lead_time, :lead_time_target, :defect_rate,
			:mrp_compliance, :setup_compliance, :quality_cost, :late_penalty)
			ON CONFLICT (order_id) DO NOTHING`

		for _, o := range orders {
			if _, err := tx.NamedExecContext(ctx, query, o); err != nil {
				return fmt.Errorf("failed to insert order %s: %w", o.OrderID, err)
			}
		}
		log.Info().Int("count", len(orders)).Msg("dataset: appended orders")
		return nil
	})
}

// ReplaceInventory swaps the inventory snapshot wholesale. Inventory rows
// represent current state; there is no field-level incremental update.
func (r *datasetRepository) ReplaceInventory(ctx context.Context, inventory []domain.Inventory) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM inventory"); err != nil {
			return fmt.Errorf("failed to clear inventory: %w", err)
		}

		query := `INSERT INTO inventory (product_id, current_stock, safety_stock,
			eoq, rop, avg_demand, inventory_value, carrying_cost, stock_status)
			VALUES (:product_id, :current_stock, :safety_stock, :eoq, :rop,
			:avg_demand, :inventory_value, :carrying_cost, :stock_status)`

		for _, inv := range inventory {
			if _, err := tx.NamedExecContext(ctx, query, inv); err != nil {
				return fmt.Errorf("failed to insert inventory row %s: %w", inv.ProductID, err)
			}
		}
		log.Info().Int("count", len(inventory)).Msg("dataset: replaced inventory")
		return nil
	})
}

func (r *datasetRepository) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}

		query := `INSERT INTO products (product_id, product_name, category,
			unit_cost, abc_class, carrying_cost_rate, scrap_cost)
			VALUES (:product_id, :product_name, :category, :unit_cost,
			:abc_class, :carrying_cost_rate, :scrap_cost)`

		for _, p := range products {
			if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
				return fmt.Errorf("failed to insert product %s: %w", p.ProductID, err)
			}
		}
		log.Info().Int("count", len(products)).Msg("dataset: replaced products")
		return nil
	})
}

func (r *datasetRepository) ReplaceSuppliers(ctx context.Context, suppliers []domain.Supplier) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM suppliers"); err != nil {
			return fmt.Errorf("failed to clear suppliers: %w", err)
		}

		query := `INSERT INTO suppliers (supplier_id, supplier_name, country,
			quality_rating, lead_time_target, payment_terms, discount_rate)
			VALUES (:supplier_id, :supplier_name, :country, :quality_rating,
			:lead_time_target, :payment_terms, :discount_rate)`

		for _, s := range suppliers {
			if _, err := tx.NamedExecContext(ctx, query, s); err != nil {
				return fmt.Errorf("failed to insert supplier %s: %w", s.SupplierID, err)
			}
		}
		log.Info().Int("count", len(suppliers)).Msg("dataset: replaced suppliers")
		return nil
	})
}

func buildOrderWhere(filter domain.OrderFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.DateFrom != nil {
		clauses = append(clauses, "order_date >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		clauses = append(clauses, "order_date <= ?")
		args = append(args, *filter.DateTo)
	}
	if len(filter.Categories) > 0 {
		clauses = append(clauses, "category IN (?)")
		args = append(args, filter.Categories)
	}
	if len(filter.ABCClasses) > 0 {
		clauses = append(clauses, "abc_class IN (?)")
		args = append(args, filter.ABCClasses)
	}
	if len(filter.Suppliers) > 0 {
		clauses = append(clauses, "supplier_id IN (?)")
		args = append(args, filter.Suppliers)
	}

	return strings.Join(clauses, " AND "), args
}

func expandIn(query string, args []interface{}) (string, []interface{}, error) {
	if len(args) == 0 {
		return query, args, nil
	}
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand IN clause: %w", err)
	}
	return expanded, expandedArgs, nil
}
