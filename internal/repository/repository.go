package repository

import (
	"context"
	"errors"

	"github.com/supplyboard/backend-go/internal/domain"
)

// ErrNoData reports that a requested collection is empty or could not be
// loaded in full. The loader contract is all-or-nothing: partial or
// malformed collections never reach the calculation core.
var ErrNoData = errors.New("no data")

// DatasetRepository supplies the four record collections the core operates
// on. Orders are an append-only event log; inventory, products and
// suppliers represent current state and are fully replaced on each refresh
// cycle.
type DatasetRepository interface {
	GetOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	GetInventory(ctx context.Context) ([]domain.Inventory, error)
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetSuppliers(ctx context.Context) ([]domain.Supplier, error)
	GetDataset(ctx context.Context, filter domain.OrderFilter) (*domain.Dataset, error)

	AppendOrders(ctx context.Context, orders []domain.Order) error
	ReplaceInventory(ctx context.Context, inventory []domain.Inventory) error
	ReplaceProducts(ctx context.Context, products []domain.Product) error
	ReplaceSuppliers(ctx context.Context, suppliers []domain.Supplier) error
}
