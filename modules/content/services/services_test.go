package services_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/services"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
	"github.com/praekeltfoundation/contentrepo-go/pkg/eventbus"
)

const pagesCSV = "structure,slug,parent,web_title,whatsapp_title,whatsapp_body,locale\n" +
	"Menu 1,welcome,,Welcome,Welcome,Hello there,en\n" +
	"Sub 1.1,faq,welcome,FAQ,FAQ,Ask away,en\n"

type serviceFixture struct {
	importSvc *services.ImportService
	exportSvc *services.ExportService
	bus       eventbus.EventBus
}

func setupServices(t *testing.T) *serviceFixture {
	t.Helper()
	log := logrus.New()
	bus := eventbus.NewEventPublisher(log)

	pages := persistence.NewInmemPageRepository()
	assessments := persistence.NewInmemAssessmentRepository()
	sets := persistence.NewInmemContentSetRepository()
	templates := persistence.NewInmemTemplateRepository()
	locales, err := locale.NewRegistry("en", "pt")
	require.NoError(t, err)

	return &serviceFixture{
		importSvc: services.NewImportService(services.ImportServiceConfig{
			PageRepo:       pages,
			AssessmentRepo: assessments,
			SetRepo:        sets,
			TemplateRepo:   templates,
			Locales:        locales,
			Publisher:      bus,
			Logger:         log,
		}),
		exportSvc: services.NewExportService(services.ExportServiceConfig{
			PageRepo:       pages,
			AssessmentRepo: assessments,
			SetRepo:        sets,
			TemplateRepo:   templates,
			Locales:        locales,
			Publisher:      bus,
			Logger:         log,
		}),
		bus: bus,
	}
}

func TestImportService_PublishesCompletedEvent(t *testing.T) {
	t.Parallel()
	f := setupServices(t)

	var got []services.ImportCompletedEvent
	f.bus.Subscribe(func(event services.ImportCompletedEvent) {
		got = append(got, event)
	})

	summary, err := f.importSvc.PerformImport(context.Background(), services.PerformImportDTO{
		Data:   []byte(pagesCSV),
		Format: importexport.FormatCSV,
		Kind:   importexport.KindContentPages,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Pages)

	require.Len(t, got, 1)
	assert.Equal(t, importexport.KindContentPages, got[0].Kind)
	assert.Equal(t, importexport.FormatCSV, got[0].Format)
	assert.Equal(t, 2, got[0].Summary.Pages)
}

func TestImportService_PublishesFailedEventWithRow(t *testing.T) {
	t.Parallel()
	f := setupServices(t)

	var got []services.ImportFailedEvent
	f.bus.Subscribe(func(event services.ImportFailedEvent) {
		got = append(got, event)
	})

	broken := "structure,slug,parent,web_title,whatsapp_title,whatsapp_body,locale\n" +
		"Menu 1,welcome,missing-page,Welcome,Welcome,Hello,en\n"
	_, err := f.importSvc.PerformImport(context.Background(), services.PerformImportDTO{
		Data:   []byte(broken),
		Format: importexport.FormatCSV,
		Kind:   importexport.KindContentPages,
	})
	require.Error(t, err)

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error, "missing-page")
	assert.Equal(t, 2, got[0].Row)
}

func TestExportService_PublishesCompletedEvent(t *testing.T) {
	t.Parallel()
	f := setupServices(t)

	_, err := f.importSvc.PerformImport(context.Background(), services.PerformImportDTO{
		Data:   []byte(pagesCSV),
		Format: importexport.FormatCSV,
		Kind:   importexport.KindContentPages,
	})
	require.NoError(t, err)

	var got []services.ExportCompletedEvent
	f.bus.Subscribe(func(event services.ExportCompletedEvent) {
		got = append(got, event)
	})

	data, err := f.exportSvc.PerformExport(context.Background(), services.PerformExportDTO{
		Format: importexport.FormatXLSX,
		Kind:   importexport.KindContentPages,
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	require.Len(t, got, 1)
	assert.Equal(t, importexport.KindContentPages, got[0].Kind)
	assert.Equal(t, importexport.FormatXLSX, got[0].Format)
	assert.Equal(t, len(data), got[0].Bytes)
}

func TestImportService_DryRunNeedsTransaction(t *testing.T) {
	t.Parallel()
	f := setupServices(t)

	var completed int
	f.bus.Subscribe(func(event services.ImportCompletedEvent) { completed++ })

	// without a pool there is no transaction to roll back, so the dry run
	// must refuse to write anything at all
	_, err := f.importSvc.PerformImport(context.Background(), services.PerformImportDTO{
		Data:   []byte(pagesCSV),
		Format: importexport.FormatCSV,
		Kind:   importexport.KindContentPages,
		DryRun: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, composables.ErrNoPool)
	assert.Zero(t, completed)

	data, err := f.exportSvc.PerformExport(context.Background(), services.PerformExportDTO{
		Format: importexport.FormatCSV,
		Kind:   importexport.KindContentPages,
	})
	require.NoError(t, err)
	rows, err := importexport.ParseFile(data, importexport.FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
