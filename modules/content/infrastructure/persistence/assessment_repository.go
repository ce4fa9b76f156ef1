package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/models"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
)

const assessmentColumns = `
	id, slug, locale, title, version, tags,
	high_result_page, high_inflection, medium_result_page, medium_inflection,
	low_result_page, skip_threshold, skip_high_result_page, generic_error,
	questions, live, revision, created_at, updated_at`

type PgAssessmentRepository struct{}

func NewPgAssessmentRepository() assessment.Repository {
	return &PgAssessmentRepository{}
}

func scanAssessment(row pgx.Row) (models.Assessment, error) {
	var m models.Assessment
	err := row.Scan(
		&m.ID, &m.Slug, &m.Locale, &m.Title, &m.Version, &m.Tags,
		&m.HighResultPage, &m.HighInflection, &m.MediumResultPage, &m.MediumInflection,
		&m.LowResultPage, &m.SkipThreshold, &m.SkipHighResultPage, &m.GenericError,
		&m.Questions, &m.Live, &m.Revision, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgAssessmentRepository) GetBySlug(ctx context.Context, slug string, loc locale.Locale) (assessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := scanAssessment(tx.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE slug = $1 AND locale = $2`,
		slug, loc.Code(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assessment.ErrAssessmentNotFound
		}
		return nil, err
	}
	return ToDomainAssessment(m)
}

func (r *PgAssessmentRepository) Save(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ToDBAssessment(a)
	if err != nil {
		return nil, err
	}
	saved, err := scanAssessment(tx.QueryRow(ctx, `
		INSERT INTO assessments (
			id, slug, locale, title, version, tags,
			high_result_page, high_inflection, medium_result_page, medium_inflection,
			low_result_page, skip_threshold, skip_high_result_page, generic_error,
			questions, live, revision
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17
		)
		ON CONFLICT (slug, locale) DO UPDATE SET
			title = EXCLUDED.title,
			version = EXCLUDED.version,
			tags = EXCLUDED.tags,
			high_result_page = EXCLUDED.high_result_page,
			high_inflection = EXCLUDED.high_inflection,
			medium_result_page = EXCLUDED.medium_result_page,
			medium_inflection = EXCLUDED.medium_inflection,
			low_result_page = EXCLUDED.low_result_page,
			skip_threshold = EXCLUDED.skip_threshold,
			skip_high_result_page = EXCLUDED.skip_high_result_page,
			generic_error = EXCLUDED.generic_error,
			questions = EXCLUDED.questions,
			updated_at = now()
		RETURNING `+assessmentColumns,
		m.ID, m.Slug, m.Locale, m.Title, m.Version, m.Tags,
		m.HighResultPage, m.HighInflection, m.MediumResultPage, m.MediumInflection,
		m.LowResultPage, m.SkipThreshold, m.SkipHighResultPage, m.GenericError,
		m.Questions, m.Live, m.Revision,
	))
	if err != nil {
		return nil, err
	}
	return ToDomainAssessment(saved)
}

func (r *PgAssessmentRepository) Publish(ctx context.Context, slug string, loc locale.Locale) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var revision int64
	err = tx.QueryRow(ctx, `
		UPDATE assessments
		SET live = TRUE, revision = revision + 1, updated_at = now()
		WHERE slug = $1 AND locale = $2
		RETURNING revision`,
		slug, loc.Code(),
	).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, assessment.ErrAssessmentNotFound
		}
		return 0, err
	}
	return revision, nil
}

func (r *PgAssessmentRepository) List(ctx context.Context, params assessment.FindParams) ([]assessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments`
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

	var out []assessment.Assessment
	for rows.Next() {
		m, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		a, err := ToDomainAssessment(m)
		if err != nil {
			return nil, err
		}
		if params.LiveOnly && !a.Live() {
			continue
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgAssessmentRepository) Delete(ctx context.Context, slug string, loc locale.Locale) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM assessments WHERE slug = $1 AND locale = $2`, slug, loc.Code())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return assessment.ErrAssessmentNotFound
	}
	return nil
}

func (r *PgAssessmentRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM assessments`)
	return err
}
