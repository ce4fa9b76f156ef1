package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
	"github.com/praekeltfoundation/contentrepo-go/pkg/eventbus"
	"github.com/praekeltfoundation/contentrepo-go/pkg/progress"
)

type ImportServiceConfig struct {
	PageRepo       page.Repository
	AssessmentRepo assessment.Repository
	SetRepo        contentset.Repository
	TemplateRepo   watemplate.Repository
	Locales        *locale.Registry
	Publisher      eventbus.EventBus
	Logger         logrus.FieldLogger
}

// ImportService runs whole-file imports inside one transaction, so a failed
// import leaves the content untouched.
type ImportService struct {
	pageRepo       page.Repository
	assessmentRepo assessment.Repository
	setRepo        contentset.Repository
	templateRepo   watemplate.Repository
	locales        *locale.Registry
	publisher      eventbus.EventBus
	log            logrus.FieldLogger
}

func NewImportService(config ImportServiceConfig) *ImportService {
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ImportService{
		pageRepo:       config.PageRepo,
		assessmentRepo: config.AssessmentRepo,
		setRepo:        config.SetRepo,
		templateRepo:   config.TemplateRepo,
		locales:        config.Locales,
		publisher:      config.Publisher,
		log:            log,
	}
}

type PerformImportDTO struct {
	Data   []byte
	Format importexport.Format
	Kind   importexport.Kind
	Purge  bool
	Locale locale.Locale
	// DryRun validates and stages the whole file, then rolls the
	// transaction back instead of committing.
	DryRun bool
	// Progress receives coarse percentage updates while the import runs.
	// Nil means no reporting.
	Progress progress.Sink
}

// errDryRun forces the surrounding transaction to roll back after a
// successful dry run.
var errDryRun = errors.New("dry run rollback")

func (s *ImportService) PerformImport(ctx context.Context, dto PerformImportDTO) (importexport.Summary, error) {
	// A dry run is a rollback of the surrounding transaction, so it cannot
	// run against a bare repository setup.
	if dto.DryRun {
		if _, err := composables.UsePool(ctx); err != nil {
			return importexport.Summary{}, fmt.Errorf("dry run needs a database transaction to roll back: %w", err)
		}
	}

	sink := dto.Progress
	if sink == nil {
		sink = progress.Nop{}
	}
	importer := importexport.NewImporter(
		s.pageRepo, s.assessmentRepo, s.setRepo, s.templateRepo, s.locales,
		importexport.WithLogger(s.log),
		importexport.WithProgress(sink),
	)

	var summary importexport.Summary
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var txErr error
		summary, txErr = importer.Import(txCtx, dto.Data, dto.Format, dto.Kind, importexport.ImportOptions{
			Purge:  dto.Purge,
			Locale: dto.Locale,
		})
		if txErr == nil && dto.DryRun {
			return errDryRun
		}
		return txErr
	})
	if errors.Is(err, errDryRun) {
		return summary, nil
	}
	if err != nil {
		if s.publisher != nil {
			row, _ := importexport.RowNumber(err)
			s.publisher.Publish(ImportFailedEvent{
				Kind:   dto.Kind,
				Format: dto.Format,
				Error:  err.Error(),
				Row:    row,
			})
		}
		return importexport.Summary{}, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ImportCompletedEvent{
			Kind:    dto.Kind,
			Format:  dto.Format,
			Summary: summary,
		})
	}
	return summary, nil
}
