package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/models"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
)

const templateColumns = `
	id, name, category, locale, body, example_values,
	image_link, submission_status, live, revision, created_at, updated_at`

type PgTemplateRepository struct{}

func NewPgTemplateRepository() watemplate.Repository {
	return &PgTemplateRepository{}
}

func scanTemplate(row pgx.Row) (models.WhatsAppTemplate, error) {
	var m models.WhatsAppTemplate
	err := row.Scan(
		&m.ID, &m.Name, &m.Category, &m.Locale, &m.Body, &m.ExampleValues,
		&m.ImageLink, &m.SubmissionStatus, &m.Live, &m.Revision, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgTemplateRepository) GetByName(ctx context.Context, name string) (watemplate.WhatsAppTemplate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := scanTemplate(tx.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM whatsapp_templates
		WHERE name = $1`,
		name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, watemplate.ErrTemplateNotFound
		}
		return nil, err
	}
	return ToDomainTemplate(m)
}

func (r *PgTemplateRepository) Save(ctx context.Context, t watemplate.WhatsAppTemplate) (watemplate.WhatsAppTemplate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ToDBTemplate(t)
	if err != nil {
		return nil, err
	}
	saved, err := scanTemplate(tx.QueryRow(ctx, `
		INSERT INTO whatsapp_templates (
			id, name, category, locale, body, example_values,
			image_link, submission_status, live, revision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			locale = EXCLUDED.locale,
			body = EXCLUDED.body,
			example_values = EXCLUDED.example_values,
			image_link = EXCLUDED.image_link,
			submission_status = EXCLUDED.submission_status,
			updated_at = now()
		RETURNING `+templateColumns,
		m.ID, m.Name, m.Category, m.Locale, m.Body, m.ExampleValues,
		m.ImageLink, m.SubmissionStatus, m.Live, m.Revision,
	))
	if err != nil {
		return nil, err
	}
	return ToDomainTemplate(saved)
}

func (r *PgTemplateRepository) Publish(ctx context.Context, name string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var revision int64
	err = tx.QueryRow(ctx, `
		UPDATE whatsapp_templates
		SET live = TRUE, revision = revision + 1, updated_at = now()
		WHERE name = $1
		RETURNING revision`,
		name,
	).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, watemplate.ErrTemplateNotFound
		}
		return 0, err
	}
	return revision, nil
}

func (r *PgTemplateRepository) List(ctx context.Context, params watemplate.FindParams) ([]watemplate.WhatsAppTemplate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + templateColumns + `
		FROM whatsapp_templates`
	var args []any
	if !params.Locale.IsZero() {
		query += ` WHERE locale = $1`
		args = append(args, params.Locale.Code())
	}
	query += ` ORDER BY created_at, id`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []watemplate.WhatsAppTemplate
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		t, err := ToDomainTemplate(m)
		if err != nil {
			return nil, err
		}
		if params.LiveOnly && !t.Live() {
			continue
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgTemplateRepository) Delete(ctx context.Context, name string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM whatsapp_templates WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return watemplate.ErrTemplateNotFound
	}
	return nil
}

func (r *PgTemplateRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM whatsapp_templates`)
	return err
}
