// Package ingest refreshes the dataset from external sources: uploaded
// CSV files, a shared Google Drive folder, or an S3 snapshot bucket.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/supplyboard/backend-go/internal/alert"
	"github.com/supplyboard/backend-go/internal/cache"
	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/drive"
	"github.com/supplyboard/backend-go/internal/repository"
	csvrepo "github.com/supplyboard/backend-go/internal/repository/csv"
	"github.com/supplyboard/backend-go/internal/storage"
	"github.com/supplyboard/backend-go/pkg/logger"
)

// datasetFiles are the four CSVs a complete snapshot consists of.
var datasetFiles = map[string]bool{
	"orders.csv":    true,
	"inventory.csv": true,
	"products.csv":  true,
	"suppliers.csv": true,
}

// Service stages snapshot files, loads them through the CSV loader and
// persists the result. Orders append; inventory, products and suppliers
// are replaced wholesale. A successful refresh invalidates the dashboard
// cache and runs the critical-stock check.
type Service struct {
	repo     repository.DatasetRepository
	cache    cache.DashboardCache
	notifier *alert.Notifier
	drive    *drive.Service
	store    storage.ObjectStorage
	stageDir string
	log      zerolog.Logger
}

func NewService(
	repo repository.DatasetRepository,
	cacheImpl cache.DashboardCache,
	notifier *alert.Notifier,
	driveService *drive.Service,
	store storage.ObjectStorage,
	stageDir string,
) *Service {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &Service{
		repo:     repo,
		cache:    cacheImpl,
		notifier: notifier,
		drive:    driveService,
		store:    store,
		stageDir: stageDir,
		log:      logger.Component("ingest"),
	}
}

// StageFile writes one uploaded dataset CSV into the staging directory.
// The name must be one of the four snapshot files.
func (s *Service) StageFile(name string, r io.Reader) error {
	name = filepath.Base(name)
	if !datasetFiles[name] {
		return fmt.Errorf("unexpected dataset file %q", name)
	}

	if err := os.MkdirAll(s.stageDir, 0o755); err != nil {
		return fmt.Errorf("unable to create staging directory: %w", err)
	}

	dest := filepath.Join(s.stageDir, name)
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("unable to write %s: %w", dest, err)
	}
	return out.Close()
}

// Refresh loads the staged snapshot and persists it.
func (s *Service) Refresh(ctx context.Context) (*domain.Dataset, error) {
	return s.refreshFromDir(ctx, s.stageDir)
}

// PullFromDrive downloads the snapshot CSVs from the configured Drive
// folder into staging and refreshes from them.
func (s *Service) PullFromDrive(ctx context.Context, folderID string) (*domain.Dataset, error) {
	if s.drive == nil {
		return nil, fmt.Errorf("drive source is not configured")
	}

	paths, err := s.drive.PullSnapshot(folderID, s.stageDir)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("files", len(paths)).Msg("pulled snapshot from drive")

	return s.refreshFromDir(ctx, s.stageDir)
}

// PullFromStorage downloads the snapshot CSVs under the given object
// prefix into staging and refreshes from them.
func (s *Service) PullFromStorage(ctx context.Context, prefix string) (*domain.Dataset, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object storage source is not configured")
	}

	objects, err := s.store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.stageDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create staging directory: %w", err)
	}

	downloaded := 0
	for _, obj := range objects {
		name := filepath.Base(obj.Key)
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if err := s.store.DownloadObject(ctx, obj.Key, filepath.Join(s.stageDir, name)); err != nil {
			return nil, err
		}
		downloaded++
	}
	if downloaded == 0 {
		return nil, fmt.Errorf("no CSV objects found under prefix %q", prefix)
	}
	s.log.Info().Int("files", downloaded).Str("prefix", prefix).Msg("pulled snapshot from object storage")

	return s.refreshFromDir(ctx, s.stageDir)
}

func (s *Service) refreshFromDir(ctx context.Context, dir string) (*domain.Dataset, error) {
	ds, err := csvrepo.NewLoader(dir).LoadDataset()
	if err != nil {
		return nil, err
	}

	// Master data first so derived values in later queries can resolve
	// product and supplier records.
	if err := s.repo.ReplaceProducts(ctx, ds.Products); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceSuppliers(ctx, ds.Suppliers); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceInventory(ctx, ds.Inventory); err != nil {
		return nil, err
	}
	if err := s.repo.AppendOrders(ctx, ds.Orders); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
	if s.notifier != nil {
		s.notifier.CheckInventory(ds.Inventory)
	}

	s.log.Info().
		Int("orders", len(ds.Orders)).
		Int("inventory", len(ds.Inventory)).
		Int("products", len(ds.Products)).
		Int("suppliers", len(ds.Suppliers)).
		Msg("dataset refreshed")

	return ds, nil
}
