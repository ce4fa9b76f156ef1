package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
	"github.com/praekeltfoundation/contentrepo-go/pkg/eventbus"
)

type ExportServiceConfig struct {
	PageRepo       page.Repository
	AssessmentRepo assessment.Repository
	SetRepo        contentset.Repository
	TemplateRepo   watemplate.Repository
	Locales        *locale.Registry
	Publisher      eventbus.EventBus
	Logger         logrus.FieldLogger
}

// ExportService renders repository content into downloadable files.
type ExportService struct {
	exporter  *importexport.Exporter
	publisher eventbus.EventBus
	log       logrus.FieldLogger
}

func NewExportService(config ExportServiceConfig) *ExportService {
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExportService{
		exporter: importexport.NewExporter(
			config.PageRepo, config.AssessmentRepo, config.SetRepo, config.TemplateRepo,
			config.Locales,
			importexport.WithExportLogger(log),
		),
		publisher: config.Publisher,
		log:       log,
	}
}

type PerformExportDTO struct {
	Format importexport.Format
	Kind   importexport.Kind
	// Locale narrows the export to one locale. Zero exports all of them.
	Locale locale.Locale
	// LiveOnly excludes drafts.
	LiveOnly bool
}

func (s *ExportService) PerformExport(ctx context.Context, dto PerformExportDTO) ([]byte, error) {
	data, err := s.exporter.Export(ctx, dto.Kind, dto.Format, importexport.ExportOptions{
		Locale:   dto.Locale,
		LiveOnly: dto.LiveOnly,
	})
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.Publish(ExportCompletedEvent{
			Kind:   dto.Kind,
			Format: dto.Format,
			Bytes:  len(data),
		})
	}
	return data, nil
}
