package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/cache"
	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/service"
)

// NameRefresher rebuilds the product name cache after imports.
type NameRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Archiver keeps a copy of every imported workbook. Nil disables archiving.
type Archiver interface {
	Save(ctx context.Context, filename string, data []byte) error
}

// Importer routes parsed report workbooks into storage and keeps the
// derived state (name cache, view cache) in sync.
type Importer struct {
	ingest  repository.IngestRepository
	names   NameRefresher
	store   cache.Store
	archive Archiver
	clock   service.Clock
}

func NewImporter(ingest repository.IngestRepository, names NameRefresher, store cache.Store, archive Archiver, clock service.Clock) *Importer {
	return &Importer{ingest: ingest, names: names, store: store, archive: archive, clock: clock}
}

// Import detects, parses and stores one workbook. An unrecognized filename
// is reported in the result rather than as an error; parse and storage
// failures are errors.
func (im *Importer) Import(ctx context.Context, filename string, data []byte) (domain.ImportResult, error) {
	result := domain.ImportResult{Filename: filename, ReportType: DetectReportType(filename)}
	if result.ReportType == TypeUnknown {
		result.Error = fmt.Sprintf("cannot detect report type from filename: %s", filename)
		return result, nil
	}

	today := im.clock.Now().Format("2006-01-02")

	var (
		counts domain.UpsertResult
		err    error
	)
	switch result.ReportType {
	case TypeDailySales:
		var rows []domain.DailySale
		rows, result.DateRange, err = ParseDailySales(data)
		if err == nil {
			result.TotalParsed = len(rows)
			counts, err = im.ingest.UpsertDailySales(ctx, rows)
		}
	case TypeOrderPnl:
		var rows []domain.OrderPnl
		rows, result.DateRange, err = ParseOrderPnl(data)
		if err == nil {
			result.TotalParsed = len(rows)
			counts, err = im.ingest.UpsertOrderPnl(ctx, rows)
		}
	case TypeInventory:
		var rows []domain.InventoryItem
		rows, err = ParseInventory(data, today)
		if err == nil {
			result.TotalParsed = len(rows)
			counts, err = im.ingest.ReplaceInventory(ctx, rows)
		}
	case TypeChannelSales:
		var rows []domain.ChannelSale
		rows, err = ParseChannelSales(data, today)
		if err == nil {
			result.TotalParsed = len(rows)
			counts, err = im.ingest.UpsertChannelSales(ctx, rows)
		}
	}
	if err != nil {
		return result, fmt.Errorf("failed to import %s: %w", filename, err)
	}

	result.Inserted = counts.Inserted
	result.Updated = counts.Updated
	result.Unchanged = counts.Unchanged

	log.Info().
		Str("file", filename).
		Str("type", result.ReportType).
		Int("parsed", result.TotalParsed).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Msg("report imported")

	im.afterImport(ctx, filename, data)
	return result, nil
}

// afterImport runs the best-effort followups: archive the workbook, drop
// stale cached views and rebuild the name cache. Failures here never fail
// the import itself.
func (im *Importer) afterImport(ctx context.Context, filename string, data []byte) {
	if im.archive != nil {
		if err := im.archive.Save(ctx, filename, data); err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("report archive failed")
		}
	}
	if err := im.store.Delete(ctx, cache.PulseKey, cache.PnlKey); err != nil {
		log.Warn().Err(err).Msg("view cache invalidation failed")
	}
	if _, err := im.names.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("product name refresh failed")
	}
}
