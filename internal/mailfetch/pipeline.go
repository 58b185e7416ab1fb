package mailfetch

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/config"
	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/ingest"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/service"
)

// neverFetchedHours stands in for the staleness of a database that has no
// successful fetch on record.
const neverFetchedHours = 999

// Pipeline pulls report emails and feeds their attachments through the
// importer.
type Pipeline struct {
	mailbox  Mailbox
	importer *ingest.Importer
	fetchLog repository.FetchLogRepository
	cfg      *config.MailConfig
	clock    service.Clock
}

func NewPipeline(mailbox Mailbox, importer *ingest.Importer, fetchLog repository.FetchLogRepository, cfg *config.MailConfig, clock service.Clock) *Pipeline {
	return &Pipeline{mailbox: mailbox, importer: importer, fetchLog: fetchLog, cfg: cfg, clock: clock}
}

// Enabled reports whether IMAP credentials are configured.
func (p *Pipeline) Enabled() bool {
	return p.cfg.User != "" && p.cfg.Password != ""
}

// BaseDaysBack is the default lookback for on-demand runs.
func (p *Pipeline) BaseDaysBack() int {
	return p.cfg.BaseDaysBack
}

// Run scans the mailbox the given number of days back and imports every
// recognized report attachment. Attachment failures are collected, not
// fatal; only a mailbox failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, daysBack int) (*domain.PipelineResult, error) {
	if !p.Enabled() {
		return nil, fmt.Errorf("email fetch not configured: set IMAP_USER and IMAP_PASS")
	}

	since := p.clock.Now().AddDate(0, 0, -daysBack)
	result := &domain.PipelineResult{DaysBack: daysBack}

	emailsScanned, attachments, err := p.mailbox.FetchAttachments(ctx, since)
	result.EmailsScanned = emailsScanned
	if err != nil {
		return result, err
	}

	for _, attachment := range attachments {
		if ingest.DetectReportType(attachment.Filename) == ingest.TypeUnknown {
			log.Debug().Str("file", attachment.Filename).Msg("skipping unrecognized attachment")
			continue
		}

		report, err := p.importer.Import(ctx, attachment.Filename, attachment.Data)
		if err != nil {
			report.Error = err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", attachment.Filename, err))
		} else if report.Error != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", attachment.Filename, report.Error))
		} else {
			result.ReportsImported++
		}
		result.Reports = append(result.Reports, report)
	}

	log.Info().
		Int("emails", result.EmailsScanned).
		Int("imported", result.ReportsImported).
		Int("errors", len(result.Errors)).
		Msg("email fetch complete")
	return result, nil
}

// RunIfStale runs the pipeline only when the last successful fetch is older
// than the configured staleness threshold. The lookback window widens with
// staleness so missed days are backfilled, capped at MaxDaysBack.
func (p *Pipeline) RunIfStale(ctx context.Context, source string) (*domain.PipelineResult, error) {
	if !p.Enabled() {
		return &domain.PipelineResult{Skipped: true, SkipReason: "email fetch not configured"}, nil
	}

	hoursStale := float64(neverFetchedHours)
	lastFetch, err := p.fetchLog.LastSuccessfulFetch(ctx)
	if err != nil {
		return nil, err
	}
	if lastFetch != nil {
		hoursStale = p.clock.Now().Sub(*lastFetch).Hours()
	}

	if hoursStale < float64(p.cfg.MinStaleHrs) {
		log.Info().Str("source", source).Float64("hoursStale", hoursStale).Msg("recent fetch on record, skipping")
		return &domain.PipelineResult{
			Skipped:    true,
			SkipReason: fmt.Sprintf("last fetch was %.1fh ago", hoursStale),
		}, nil
	}

	daysBack := int(math.Ceil(hoursStale/24)) + 1
	if daysBack < p.cfg.BaseDaysBack {
		daysBack = p.cfg.BaseDaysBack
	}
	if daysBack > p.cfg.MaxDaysBack {
		daysBack = p.cfg.MaxDaysBack
	}
	log.Info().Str("source", source).Float64("hoursStale", hoursStale).Int("daysBack", daysBack).Msg("starting email fetch")

	result, err := p.Run(ctx, daysBack)
	if err != nil {
		if logErr := p.fetchLog.LogFetch(ctx, daysBack, 0, 0, fmt.Sprintf("error: %v", err)); logErr != nil {
			log.Warn().Err(logErr).Msg("failed to record fetch failure")
		}
		return result, err
	}
	if err := p.fetchLog.LogFetch(ctx, daysBack, result.EmailsScanned, result.ReportsImported, "success"); err != nil {
		log.Warn().Err(err).Msg("failed to record fetch")
	}
	return result, nil
}
