package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence"
)

func TestInmemPageRepository_SaveUpsertsByNaturalKey(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()
	en := locale.MustNew("en")

	first, err := repo.Save(ctx, page.New("slug-a", en, "Original"))
	require.NoError(t, err)

	_, err = repo.Publish(ctx, "slug-a", en)
	require.NoError(t, err)

	updated, err := repo.Save(ctx, page.New("slug-a", en, "Replaced"))
	require.NoError(t, err)

	assert.Equal(t, first.ID(), updated.ID())
	assert.Equal(t, int64(1), updated.Revision())
	assert.Equal(t, "Replaced", updated.Title())
}

func TestInmemPageRepository_SameSlugDifferentLocale(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, page.New("slug-a", locale.MustNew("en"), "English"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, page.New("slug-a", locale.MustNew("pt"), "Portuguese"))
	require.NoError(t, err)

	p, err := repo.GetBySlug(ctx, "slug-a", locale.MustNew("pt"))
	require.NoError(t, err)
	assert.Equal(t, "Portuguese", p.Title())
}

func TestInmemPageRepository_ListParentsFirst(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()
	en := locale.MustNew("en")

	// child saved before its parent
	_, err := repo.Save(ctx, page.New("child", en, "Child", page.WithParentSlug("parent")))
	require.NoError(t, err)
	_, err = repo.Save(ctx, page.New("parent", en, "Parent"))
	require.NoError(t, err)

	pages, err := repo.List(ctx, page.FindParams{})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "parent", pages[0].Slug())
	assert.Equal(t, "child", pages[1].Slug())
}

func TestInmemPageRepository_EnsureHomePage(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()
	en := locale.MustNew("en")

	_, err := repo.GetHomePage(ctx, en)
	assert.ErrorIs(t, err, page.ErrHomePageNotFound)

	home, err := repo.EnsureHomePage(ctx, en)
	require.NoError(t, err)
	assert.True(t, home.IsHome())

	again, err := repo.EnsureHomePage(ctx, en)
	require.NoError(t, err)
	assert.Equal(t, home.ID(), again.ID())

	// each locale has its own home page
	ptHome, err := repo.EnsureHomePage(ctx, locale.MustNew("pt"))
	require.NoError(t, err)
	assert.NotEqual(t, home.ID(), ptHome.ID())
}

func TestInmemPageRepository_LiveOnlyFilter(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()
	en := locale.MustNew("en")

	_, err := repo.Save(ctx, page.New("draft", en, "Draft"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, page.New("published", en, "Published"))
	require.NoError(t, err)
	_, err = repo.Publish(ctx, "published", en)
	require.NoError(t, err)

	pages, err := repo.List(ctx, page.FindParams{LiveOnly: true})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "published", pages[0].Slug())
}

func TestInmemPageRepository_DeleteAll(t *testing.T) {
	t.Parallel()
	repo := persistence.NewInmemPageRepository()
	ctx := context.Background()
	en := locale.MustNew("en")

	_, err := repo.Save(ctx, page.New("slug-a", en, "Title"))
	require.NoError(t, err)
	require.NoError(t, repo.DeleteAll(ctx))

	_, err = repo.GetBySlug(ctx, "slug-a", en)
	assert.ErrorIs(t, err, page.ErrPageNotFound)
}
