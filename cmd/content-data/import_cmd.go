package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/services"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
	"github.com/praekeltfoundation/contentrepo-go/pkg/configuration"
	"github.com/praekeltfoundation/contentrepo-go/pkg/eventbus"
	"github.com/praekeltfoundation/contentrepo-go/pkg/progress"
)

type importFlags struct {
	input        string
	kind         string
	format       string
	locale       string
	purge        bool
	apply        bool
	showProgress bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import content from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Input file (required)")
	cmd.Flags().StringVar(&flags.kind, "type", string(importexport.KindContentPages), "Content type: contentpages, assessments, orderedsets or templates")
	cmd.Flags().StringVar(&flags.format, "format", "", "File format: csv or xlsx (default: by file extension)")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Only import rows of this locale")
	cmd.Flags().BoolVar(&flags.purge, "purge", false, "Delete existing records of this type before importing")
	cmd.Flags().BoolVar(&flags.apply, "apply", false, "Commit changes to the database (default is a dry run)")
	cmd.Flags().BoolVar(&flags.showProgress, "progress", false, "Print progress updates as JSON lines")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type importResult struct {
	Status  string               `json:"status"`
	Type    importexport.Kind    `json:"type"`
	Format  importexport.Format  `json:"format"`
	Summary importexport.Summary `json:"summary"`
}

func runImport(ctx context.Context, flags importFlags) error {
	kind, err := importexport.ParseKind(flags.kind)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("invalid --type: %w", err))
	}
	format, err := resolveFormat(flags.format, flags.input)
	if err != nil {
		return err
	}

	conf := configuration.Use()
	data, err := os.ReadFile(flags.input)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if int64(len(data)) > conf.Import.MaxUploadSize {
		return withCode(exitValidation, fmt.Errorf("file exceeds the %d byte upload limit", conf.Import.MaxUploadSize))
	}

	registry, err := locale.NewRegistry(conf.LocaleCodes()...)
	if err != nil {
		return fmt.Errorf("CONTENT_LOCALES: %w", err)
	}
	var only locale.Locale
	if strings.TrimSpace(flags.locale) != "" {
		only, err = registry.Resolve(flags.locale)
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --locale: %w", err))
		}
	}

	pool, err := connectDB(ctx, conf)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	svc := services.NewImportService(services.ImportServiceConfig{
		PageRepo:       persistence.NewPgPageRepository(),
		AssessmentRepo: persistence.NewPgAssessmentRepository(),
		SetRepo:        persistence.NewPgContentSetRepository(),
		TemplateRepo:   persistence.NewPgTemplateRepository(),
		Locales:        registry,
		Publisher:      eventbus.NewEventPublisher(conf.Logger()),
		Logger:         conf.Logger(),
	})

	queue := progress.NewQueue(conf.Import.ProgressQueueSize)
	done := make(chan struct{})
	var (
		summary importexport.Summary
		runErr  error
	)
	go func() {
		defer close(done)
		summary, runErr = svc.PerformImport(ctx, services.PerformImportDTO{
			Data:     data,
			Format:   format,
			Kind:     kind,
			Purge:    flags.purge,
			Locale:   only,
			DryRun:   !flags.apply,
			Progress: queue,
		})
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for running := true; running; {
		select {
		case <-done:
			running = false
		case <-ticker.C:
		}
		if flags.showProgress {
			for _, pct := range queue.Drain() {
				if err := writeJSONLine(map[string]int{"progress": pct}); err != nil {
					return err
				}
			}
		}
	}

	if runErr != nil {
		return withCode(importExitCode(runErr), runErr)
	}
	status := "dry_run"
	if flags.apply {
		status = "applied"
	}
	return writeJSONLine(importResult{
		Status:  status,
		Type:    kind,
		Format:  format,
		Summary: summary,
	})
}

func importExitCode(err error) int {
	switch {
	case errors.Is(err, importexport.ErrFormat),
		errors.Is(err, importexport.ErrField),
		errors.Is(err, importexport.ErrReference),
		errors.Is(err, importexport.ErrLocale):
		return exitValidation
	default:
		return exitDB
	}
}

func resolveFormat(flag, path string) (importexport.Format, error) {
	v := strings.TrimSpace(flag)
	if v == "" {
		v = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format, err := importexport.ParseFormat(v)
	if err != nil {
		return "", withCode(exitUsage, fmt.Errorf("invalid --format: %w", err))
	}
	return format, nil
}

func connectDB(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, fmt.Errorf("ping: %w", err))
	}
	return pool, nil
}
