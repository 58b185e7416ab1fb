// importer is the operational companion to the dashboard server. It runs
// the same import, email fetch, and maintenance paths from the command
// line, which is handy for backfills and environments without the server
// running.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/refurbops/opsdash/internal/archive"
	"github.com/refurbops/opsdash/internal/cache"
	"github.com/refurbops/opsdash/internal/config"
	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/ingest"
	"github.com/refurbops/opsdash/internal/mailfetch"
	"github.com/refurbops/opsdash/internal/repository/postgres"
	"github.com/refurbops/opsdash/internal/service"
	"github.com/refurbops/opsdash/pkg/logger"
)

type deps struct {
	importer *ingest.Importer
	pipeline *mailfetch.Pipeline
	names    *service.NamesService
	admin    *service.AdminService
}

func bootstrap(ctx context.Context) (*deps, error) {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, err
	}

	store := cache.New(&cfg.Cache)

	salesRepo := postgres.NewSalesRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	namesRepo := postgres.NewNamesRepository(db)
	ingestRepo := postgres.NewIngestRepository(db)
	fetchLogRepo := postgres.NewFetchLogRepository(db)

	namesService := service.NewNamesService(inventoryRepo, salesRepo, namesRepo)
	adminService := service.NewAdminService(ingestRepo, fetchLogRepo)

	var archiver ingest.Archiver
	if bucket, err := archive.New(ctx, &cfg.Archive); err != nil {
		log.Warn().Err(err).Msg("report archive unavailable, continuing without it")
	} else if bucket != nil {
		archiver = bucket
	}

	importer := ingest.NewImporter(ingestRepo, namesService, store, archiver, service.SystemClock)
	mailbox := mailfetch.NewMailbox(&cfg.Mail)
	pipeline := mailfetch.NewPipeline(mailbox, importer, fetchLogRepo, &cfg.Mail, service.SystemClock)

	return &deps{
		importer: importer,
		pipeline: pipeline,
		names:    namesService,
		admin:    adminService,
	}, nil
}

func main() {
	app := &cli.App{
		Name:  "importer",
		Usage: "import reports and maintain the operations dashboard data",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import one or more report workbooks",
				ArgsUsage: "<file.xlsx> [file.xlsx ...]",
				Action:    runImport,
			},
			{
				Name:  "fetch-email",
				Usage: "pull report emails and import their attachments",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "days of mail to scan (defaults to the configured base lookback)"},
					&cli.BoolFlag{Name: "if-stale", Usage: "skip when a recent fetch is already on record"},
				},
				Action: runFetchEmail,
			},
			{
				Name:   "refresh-names",
				Usage:  "rebuild the product display name cache",
				Action: runRefreshNames,
			},
			{
				Name:  "clear",
				Usage: "empty one ingest table",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "table", Required: true, Usage: "daily_sales, order_pnl, inventory_current or channel_sales"},
				},
				Action: runClear,
			},
			{
				Name:   "status",
				Usage:  "show row counts and the last successful email fetch",
				Action: runStatus,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runImport(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files given")
	}
	d, err := bootstrap(c.Context)
	if err != nil {
		return err
	}

	var failures int
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failures++
			continue
		}

		result, err := d.importer.Import(c.Context, filepath.Base(path), data)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failures++
			continue
		}
		if result.Error != "" {
			fmt.Printf("%s: %s\n", path, result.Error)
			failures++
			continue
		}
		fmt.Printf("%s: %s, %d rows (%d inserted, %d updated, %d unchanged)\n",
			path, result.ReportType, result.TotalParsed, result.Inserted, result.Updated, result.Unchanged)
	}
	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}
	return nil
}

func runFetchEmail(c *cli.Context) error {
	d, err := bootstrap(c.Context)
	if err != nil {
		return err
	}

	var result *domain.PipelineResult
	if c.Bool("if-stale") {
		result, err = d.pipeline.RunIfStale(c.Context, "cli")
	} else {
		days := c.Int("days")
		if days <= 0 {
			days = d.pipeline.BaseDaysBack()
		}
		result, err = d.pipeline.Run(c.Context, days)
	}
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Println("skipped:", result.SkipReason)
		return nil
	}
	fmt.Printf("scanned %d emails over %d days, imported %d reports\n",
		result.EmailsScanned, result.DaysBack, result.ReportsImported)
	for _, e := range result.Errors {
		fmt.Println("error:", e)
	}
	return nil
}

func runRefreshNames(c *cli.Context) error {
	d, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	count, err := d.names.Refresh(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("refreshed %d product names\n", count)
	return nil
}

func runClear(c *cli.Context) error {
	d, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	table := c.String("table")
	if err := d.admin.ClearTable(c.Context, table); err != nil {
		return err
	}
	fmt.Printf("cleared %s\n", table)
	return nil
}

func runStatus(c *cli.Context) error {
	d, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	status, err := d.admin.DataStatus(c.Context)
	if err != nil {
		return err
	}
	for _, t := range status.Tables {
		fmt.Printf("%-15s %d rows\n", t.Table, t.Rows)
	}
	if status.LastFetch != "" {
		if ts, err := time.Parse(time.RFC3339, status.LastFetch); err == nil {
			fmt.Printf("last email fetch: %s\n", ts.Local().Format("2006-01-02 15:04"))
		} else {
			fmt.Printf("last email fetch: %s\n", status.LastFetch)
		}
	} else {
		fmt.Println("last email fetch: never")
	}
	return nil
}
