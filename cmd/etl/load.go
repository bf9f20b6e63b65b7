package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/supplyboard/backend-go/internal/domain"
)

const insertOrder = `
	INSERT INTO orders (
		order_id, supplier_id, product_id, category, abc_class,
		order_date, planned_delivery, delivery_date, quantity, unit_cost,
		total_value, lead_time, lead_time_target, defect_rate,
		mrp_compliance, setup_compliance, quality_cost, late_penalty
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	ON CONFLICT (order_id) DO NOTHING`

const insertInventory = `
	INSERT INTO inventory (
		product_id, current_stock, safety_stock, eoq, rop, avg_demand,
		inventory_value, carrying_cost, stock_status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (product_id) DO UPDATE SET
		current_stock = EXCLUDED.current_stock,
		safety_stock = EXCLUDED.safety_stock,
		eoq = EXCLUDED.eoq,
		rop = EXCLUDED.rop,
		avg_demand = EXCLUDED.avg_demand,
		inventory_value = EXCLUDED.inventory_value,
		carrying_cost = EXCLUDED.carrying_cost,
		stock_status = EXCLUDED.stock_status,
		updated_at = CURRENT_TIMESTAMP`

const insertProduct = `
	INSERT INTO products (
		product_id, product_name, category, unit_cost, abc_class,
		carrying_cost_rate, scrap_cost
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (product_id) DO UPDATE SET
		product_name = EXCLUDED.product_name,
		category = EXCLUDED.category,
		unit_cost = EXCLUDED.unit_cost,
		abc_class = EXCLUDED.abc_class,
		carrying_cost_rate = EXCLUDED.carrying_cost_rate,
		scrap_cost = EXCLUDED.scrap_cost,
		updated_at = CURRENT_TIMESTAMP`

const insertSupplier = `
	INSERT INTO suppliers (
		supplier_id, supplier_name, country, quality_rating,
		lead_time_target, payment_terms, discount_rate
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (supplier_id) DO UPDATE SET
		supplier_name = EXCLUDED.supplier_name,
		country = EXCLUDED.country,
		quality_rating = EXCLUDED.quality_rating,
		lead_time_target = EXCLUDED.lead_time_target,
		payment_terms = EXCLUDED.payment_terms,
		discount_rate = EXCLUDED.discount_rate,
		updated_at = CURRENT_TIMESTAMP`

func loadOrders(ctx context.Context, db *sql.DB, ds *domain.Dataset) error {
	return inTx(ctx, db, "orders", insertOrder, len(ds.Orders), func(stmt *sql.Stmt, i int) error {
		o := ds.Orders[i]
		_, err := stmt.ExecContext(ctx,
			o.OrderID, o.SupplierID, o.ProductID, o.Category, o.ABCClass,
			o.OrderDate, o.PlannedDelivery, o.DeliveryDate, o.Quantity, o.UnitCost,
			o.TotalValue, o.LeadTime, o.LeadTimeTarget, o.DefectRate,
			o.MRPCompliance, o.SetupCompliance, o.QualityCost, o.LatePenalty,
		)
		return err
	})
}

func loadInventory(ctx context.Context, db *sql.DB, ds *domain.Dataset) error {
	return inTx(ctx, db, "inventory", insertInventory, len(ds.Inventory), func(stmt *sql.Stmt, i int) error {
		inv := ds.Inventory[i]
		_, err := stmt.ExecContext(ctx,
			inv.ProductID, inv.CurrentStock, inv.SafetyStock, inv.EOQ, inv.ROP,
			inv.AvgDemand, inv.InventoryValue, inv.CarryingCost, inv.StockStatus,
		)
		return err
	})
}

func loadProducts(ctx context.Context, db *sql.DB, ds *domain.Dataset) error {
	return inTx(ctx, db, "products", insertProduct, len(ds.Products), func(stmt *sql.Stmt, i int) error {
		p := ds.Products[i]
		_, err := stmt.ExecContext(ctx,
			p.ProductID, p.ProductName, p.Category, p.UnitCost, p.ABCClass,
			p.CarryingCostRate, p.ScrapCost,
		)
		return err
	})
}

func loadSuppliers(ctx context.Context, db *sql.DB, ds *domain.Dataset) error {
	return inTx(ctx, db, "suppliers", insertSupplier, len(ds.Suppliers), func(stmt *sql.Stmt, i int) error {
		s := ds.Suppliers[i]
		_, err := stmt.ExecContext(ctx,
			s.SupplierID, s.SupplierName, s.Country, s.QualityRating,
			s.LeadTimeTarget, s.PaymentTerms, s.DiscountRate,
		)
		return err
	})
}

// inTx runs n prepared-statement executions inside a single transaction.
func inTx(ctx context.Context, db *sql.DB, table, query string, n int, exec func(stmt *sql.Stmt, i int) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s transaction: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}
