package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/models"
	"github.com/praekeltfoundation/contentrepo-go/pkg/composables"
)

const contentPageColumns = `
	id, slug, locale, title, subtitle, parent_slug, translation_tag,
	tags, triggers, quick_replies, related_pages,
	web_body, whatsapp_title, whatsapp_template_name, whatsapp_template_category, whatsapp_blocks,
	sms_title, sms_blocks, ussd_title, ussd_blocks,
	messenger_title, messenger_blocks, viber_title, viber_blocks,
	is_home, live, revision, created_at, updated_at`

type PgPageRepository struct{}

func NewPgPageRepository() page.Repository {
	return &PgPageRepository{}
}

func scanContentPage(row pgx.Row) (models.ContentPage, error) {
	var m models.ContentPage
	err := row.Scan(
		&m.ID, &m.Slug, &m.Locale, &m.Title, &m.Subtitle, &m.ParentSlug, &m.TranslationTag,
		&m.Tags, &m.Triggers, &m.QuickReplies, &m.RelatedPages,
		&m.WebBody, &m.WhatsappTitle, &m.WhatsappTemplateName, &m.WhatsappTemplateCategory, &m.WhatsappBlocks,
		&m.SMSTitle, &m.SMSBlocks, &m.USSDTitle, &m.USSDBlocks,
		&m.MessengerTitle, &m.MessengerBlocks, &m.ViberTitle, &m.ViberBlocks,
		&m.IsHome, &m.Live, &m.Revision, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgPageRepository) GetBySlug(ctx context.Context, slug string, loc locale.Locale) (page.ContentPage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := scanContentPage(tx.QueryRow(ctx, `
		SELECT `+contentPageColumns+`
		FROM content_pages
		WHERE slug = $1 AND locale = $2`,
		slug, loc.Code(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, page.ErrPageNotFound
		}
		return nil, err
	}
	return ToDomainContentPage(m)
}

func (r *PgPageRepository) Save(ctx context.Context, p page.ContentPage) (page.ContentPage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ToDBContentPage(p)
	if err != nil {
		return nil, err
	}
	// On conflict the stored identity and publication state win: id, is_home,
	// live and revision stay untouched, content columns are replaced.
	saved, err := scanContentPage(tx.QueryRow(ctx, `
		INSERT INTO content_pages (
			id, slug, locale, title, subtitle, parent_slug, translation_tag,
			tags, triggers, quick_replies, related_pages,
			web_body, whatsapp_title, whatsapp_template_name, whatsapp_template_category, whatsapp_blocks,
			sms_title, sms_blocks, ussd_title, ussd_blocks,
			messenger_title, messenger_blocks, viber_title, viber_blocks,
			is_home, live, revision
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24,
			$25, $26, $27
		)
		ON CONFLICT (slug, locale) DO UPDATE SET
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			parent_slug = EXCLUDED.parent_slug,
			translation_tag = EXCLUDED.translation_tag,
			tags = EXCLUDED.tags,
			triggers = EXCLUDED.triggers,
			quick_replies = EXCLUDED.quick_replies,
			related_pages = EXCLUDED.related_pages,
			web_body = EXCLUDED.web_body,
			whatsapp_title = EXCLUDED.whatsapp_title,
			whatsapp_template_name = EXCLUDED.whatsapp_template_name,
			whatsapp_template_category = EXCLUDED.whatsapp_template_category,
			whatsapp_blocks = EXCLUDED.whatsapp_blocks,
			sms_title = EXCLUDED.sms_title,
			sms_blocks = EXCLUDED.sms_blocks,
			ussd_title = EXCLUDED.ussd_title,
			ussd_blocks = EXCLUDED.ussd_blocks,
			messenger_title = EXCLUDED.messenger_title,
			messenger_blocks = EXCLUDED.messenger_blocks,
			viber_title = EXCLUDED.viber_title,
			viber_blocks = EXCLUDED.viber_blocks,
			updated_at = now()
		RETURNING `+contentPageColumns,
		m.ID, m.Slug, m.Locale, m.Title, m.Subtitle, m.ParentSlug, m.TranslationTag,
		m.Tags, m.Triggers, m.QuickReplies, m.RelatedPages,
		m.WebBody, m.WhatsappTitle, m.WhatsappTemplateName, m.WhatsappTemplateCategory, m.WhatsappBlocks,
		m.SMSTitle, m.SMSBlocks, m.USSDTitle, m.USSDBlocks,
		m.MessengerTitle, m.MessengerBlocks, m.ViberTitle, m.ViberBlocks,
		m.IsHome, m.Live, m.Revision,
	))
	if err != nil {
		return nil, err
	}
	return ToDomainContentPage(saved)
}

func (r *PgPageRepository) Publish(ctx context.Context, slug string, loc locale.Locale) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var revision int64
	err = tx.QueryRow(ctx, `
		UPDATE content_pages
		SET live = TRUE, revision = revision + 1, updated_at = now()
		WHERE slug = $1 AND locale = $2
		RETURNING revision`,
		slug, loc.Code(),
	).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, page.ErrPageNotFound
		}
		return 0, err
	}
	return revision, nil
}

func (r *PgPageRepository) List(ctx context.Context, params page.FindParams) ([]page.ContentPage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + contentPageColumns + `
		FROM content_pages`
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

	var pages []page.ContentPage
	for rows.Next() {
		m, err := scanContentPage(rows)
		if err != nil {
			return nil, err
		}
		p, err := ToDomainContentPage(m)
		if err != nil {
			return nil, err
		}
		if params.LiveOnly && !p.Live() {
			continue
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortParentsFirst(pages), nil
}

// sortParentsFirst reorders pages so each page appears after its parent,
// keeping the incoming order otherwise.
func sortParentsFirst(pages []page.ContentPage) []page.ContentPage {
	index := make(map[pageNaturalKey]page.ContentPage, len(pages))
	for _, p := range pages {
		index[pageNaturalKey{slug: p.Slug(), locale: p.Locale().Code()}] = p
	}
	emitted := make(map[pageNaturalKey]bool, len(pages))
	out := make([]page.ContentPage, 0, len(pages))

	var emit func(p page.ContentPage)
	emit = func(p page.ContentPage) {
		key := pageNaturalKey{slug: p.Slug(), locale: p.Locale().Code()}
		if emitted[key] {
			return
		}
		emitted[key] = true
		parentKey := pageNaturalKey{slug: p.ParentSlug(), locale: key.locale}
		if parentKey.slug != "" && parentKey != key {
			if parent, found := index[parentKey]; found {
				emit(parent)
			}
		}
		out = append(out, p)
	}
	for _, p := range pages {
		emit(p)
	}
	return out
}

func (r *PgPageRepository) Delete(ctx context.Context, slug string, loc locale.Locale) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM content_pages WHERE slug = $1 AND locale = $2`, slug, loc.Code())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return page.ErrPageNotFound
	}
	return nil
}

func (r *PgPageRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM content_pages`)
	return err
}

func (r *PgPageRepository) GetHomePage(ctx context.Context, loc locale.Locale) (page.ContentPage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := scanContentPage(tx.QueryRow(ctx, `
		SELECT `+contentPageColumns+`
		FROM content_pages
		WHERE is_home AND locale = $1
		ORDER BY created_at
		LIMIT 1`,
		loc.Code(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, page.ErrHomePageNotFound
		}
		return nil, err
	}
	return ToDomainContentPage(m)
}

func (r *PgPageRepository) EnsureHomePage(ctx context.Context, loc locale.Locale) (page.ContentPage, error) {
	home, err := r.GetHomePage(ctx, loc)
	if err == nil {
		return home, nil
	}
	if !errors.Is(err, page.ErrHomePageNotFound) {
		return nil, err
	}
	return r.Save(ctx, page.New("home", loc, "Home", page.WithHome(true), page.WithLive(true)))
}
