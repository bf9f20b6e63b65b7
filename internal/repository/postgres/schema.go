package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_id VARCHAR(50) PRIMARY KEY,
		supplier_id VARCHAR(50),
		product_id VARCHAR(50),
		category VARCHAR(50),
		abc_class VARCHAR(10),
		order_date DATE,
		planned_delivery DATE,
		delivery_date DATE,
		quantity INTEGER,
		unit_cost DECIMAL(10,2),
		total_value DECIMAL(12,2),
		lead_time INTEGER,
		lead_time_target INTEGER,
		defect_rate DECIMAL(5,2),
		mrp_compliance VARCHAR(20),
		setup_compliance VARCHAR(20),
		quality_cost DECIMAL(10,2),
		late_penalty DECIMAL(10,2),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		product_id VARCHAR(50) PRIMARY KEY,
		current_stock INTEGER,
		safety_stock INTEGER,
		eoq INTEGER,
		rop DECIMAL(10,2),
		avg_demand DECIMAL(10,2),
		inventory_value DECIMAL(12,2),
		carrying_cost DECIMAL(10,2),
		stock_status VARCHAR(20),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id VARCHAR(50) PRIMARY KEY,
		product_name VARCHAR(100),
		category VARCHAR(50),
		unit_cost DECIMAL(10,2),
		abc_class VARCHAR(10),
		carrying_cost_rate DECIMAL(5,4),
		scrap_cost DECIMAL(10,2),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id VARCHAR(50) PRIMARY KEY,
		supplier_name VARCHAR(100),
		country VARCHAR(50),
		quality_rating DECIMAL(5,2),
		lead_time_target INTEGER,
		payment_terms INTEGER,
		discount_rate DECIMAL(5,4),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_supplier ON orders (supplier_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_category ON orders (category)`,
}

// CreateTables ensures the four dataset tables and their indexes exist.
// Works against a plain database/sql handle so the ETL tool can use the
// pgx stdlib driver directly.
func CreateTables(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
