package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/models"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
)

const contentSetColumns = `
	id, slug, name, locale, profile_fields, entries,
	live, revision, created_at, updated_at`

type PgContentSetRepository struct{}

func NewPgContentSetRepository() contentset.Repository {
	return &PgContentSetRepository{}
}

func scanContentSet(row pgx.Row) (models.OrderedContentSet, error) {
	var m models.OrderedContentSet
	err := row.Scan(
		&m.ID, &m.Slug, &m.Name, &m.Locale, &m.ProfileFields, &m.Entries,
		&m.Live, &m.Revision, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgContentSetRepository) GetBySlug(ctx context.Context, slug string) (contentset.OrderedContentSet, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := scanContentSet(tx.QueryRow(ctx, `
		SELECT `+contentSetColumns+`
		FROM ordered_content_sets
		WHERE slug = $1`,
		slug,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentset.ErrContentSetNotFound
		}
		return nil, err
	}
	return ToDomainContentSet(m)
}

func (r *PgContentSetRepository) Save(ctx context.Context, s contentset.OrderedContentSet) (contentset.OrderedContentSet, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ToDBContentSet(s)
	if err != nil {
		return nil, err
	}
	saved, err := scanContentSet(tx.QueryRow(ctx, `
		INSERT INTO ordered_content_sets (
			id, slug, name, locale, profile_fields, entries, live, revision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			locale = EXCLUDED.locale,
			profile_fields = EXCLUDED.profile_fields,
			entries = EXCLUDED.entries,
			updated_at = now()
		RETURNING `+contentSetColumns,
		m.ID, m.Slug, m.Name, m.Locale, m.ProfileFields, m.Entries, m.Live, m.Revision,
	))
	if err != nil {
		return nil, err
	}
	return ToDomainContentSet(saved)
}

func (r *PgContentSetRepository) Publish(ctx context.Context, slug string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var revision int64
	err = tx.QueryRow(ctx, `
		UPDATE ordered_content_sets
		SET live = TRUE, revision = revision + 1, updated_at = now()
		WHERE slug = $1
		RETURNING revision`,
		slug,
	).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, contentset.ErrContentSetNotFound
		}
		return 0, err
	}
	return revision, nil
}

func (r *PgContentSetRepository) List(ctx context.Context, params contentset.FindParams) ([]contentset.OrderedContentSet, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + contentSetColumns + `
		FROM ordered_content_sets`
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

	var out []contentset.OrderedContentSet
	for rows.Next() {
		m, err := scanContentSet(rows)
		if err != nil {
			return nil, err
		}
		s, err := ToDomainContentSet(m)
		if err != nil {
			return nil, err
		}
		if params.LiveOnly && !s.Live() {
			continue
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgContentSetRepository) Delete(ctx context.Context, slug string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM ordered_content_sets WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return contentset.ErrContentSetNotFound
	}
	return nil
}

func (r *PgContentSetRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM ordered_content_sets`)
	return err
}
