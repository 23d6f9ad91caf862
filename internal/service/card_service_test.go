package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	"cardlink/internal/repo/memory"
)

type fixture struct {
	svc   *CardService
	cards *memory.CardRepo
	users *memory.UserRepo
	stats *memory.StatRepo
	views *memory.ViewRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cards := memory.NewCardRepo()
	users := memory.NewUserRepo()
	stats := memory.NewStatRepo()
	views := memory.NewViewRepo()
	settings := memory.NewSettingsRepo(domain.Settings{FreeCardLimit: 1, ProCardLimit: 10})

	slugs := NewSlugAllocator(cards)
	quota := NewQuotaGuard(cards, users, settings)
	svc := NewCardService(cards, users, stats, views, slugs, quota, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &domain.UserAccount{ID: "u1", Email: "u1@x.io", Plan: domain.PlanFree, CardLimit: 1}))
	require.NoError(t, users.Create(ctx, &domain.UserAccount{ID: "u2", Email: "u2@x.io", Plan: domain.PlanFree, CardLimit: 1}))

	return &fixture{svc: svc, cards: cards, users: users, stats: stats, views: views}
}

func p(id string) *domain.Principal { return &domain.Principal{ID: id, Role: domain.RoleUser} }

func TestCreateAssignsUniqueSlugPerOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c1, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)
	require.Equal(t, "jane-doe", c1.Slug)

	c2, err := f.svc.Create(ctx, p("u2"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)
	require.Equal(t, "jane-doe-1", c2.Slug)

	u1, err := f.users.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, u1.CardsCreated)
}

func TestCreateRequiresNameAndPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, nil, CreateCardInput{Name: "Jane"})
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "  "})
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestCreateEnforcesQuota(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Second Card", Published: true})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindQuotaExceeded, ae.Kind)
	require.Equal(t, 1, ae.Current)
	require.Equal(t, 1, ae.Limit)
}

func TestGetBySlugVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	draft, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: false})
	require.NoError(t, err)

	// Anonymous read of an unpublished card is denied, not hidden.
	_, err = f.svc.GetBySlug(ctx, draft.Slug, nil)
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	_, err = f.svc.GetBySlug(ctx, draft.Slug, p("u2"))
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	got, err := f.svc.GetBySlug(ctx, draft.Slug, p("u1"))
	require.NoError(t, err)
	require.Equal(t, draft.ID, got.ID)

	_, err = f.svc.GetBySlug(ctx, "no-such-slug", nil)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestNonOwnerViewIncrementsStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	// First non-owner view lazily creates the stat document at views=1.
	_, err = f.svc.GetBySlug(ctx, card.Slug, nil)
	require.NoError(t, err)
	st, err := f.stats.FindByCardID(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, st)
	require.EqualValues(t, 1, st.Views)

	_, err = f.svc.GetBySlug(ctx, card.Slug, p("u2"))
	require.NoError(t, err)
	st, _ = f.stats.FindByCardID(ctx, card.ID)
	require.EqualValues(t, 2, st.Views)

	// Owner reads never count.
	_, err = f.svc.GetByID(ctx, card.ID, p("u1"))
	require.NoError(t, err)
	st, _ = f.stats.FindByCardID(ctx, card.ID)
	require.EqualValues(t, 2, st.Views)

	n, err := f.views.CountByCard(ctx, card.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestUpdateStripsImmutablesAndStamps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)
	before := card.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	name := "Jane Q. Doe"
	got, err := f.svc.Update(ctx, p("u1"), card.ID, domain.CardPatch{Name: &name})
	require.NoError(t, err)

	require.Equal(t, "Jane Q. Doe", got.Name)
	require.Equal(t, card.ID, got.ID)
	require.Equal(t, "u1", got.OwnerID)
	require.Equal(t, card.CreatedAt, got.CreatedAt)
	require.True(t, got.UpdatedAt.After(before))
}

func TestUpdateAuthz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	name := "x"
	_, err = f.svc.Update(ctx, nil, card.ID, domain.CardPatch{Name: &name})
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = f.svc.Update(ctx, p("u2"), card.ID, domain.CardPatch{Name: &name})
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	_, err = f.svc.Update(ctx, p("u1"), "missing", domain.CardPatch{Name: &name})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateSlugCollisionGetsRandomSuffix(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.randSuffix = func() int { return 4242 }

	taken, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	mine, err := f.svc.Create(ctx, p("u2"), CreateCardInput{Name: "John Roe", Published: true})
	require.NoError(t, err)

	want := taken.Slug
	got, err := f.svc.Update(ctx, p("u2"), mine.ID, domain.CardPatch{Slug: &want})
	require.NoError(t, err)
	require.Equal(t, "jane-doe-4242", got.Slug)

	// An untaken slug is applied as-is.
	free := "fresh-slug"
	got, err = f.svc.Update(ctx, p("u2"), mine.ID, domain.CardPatch{Slug: &free})
	require.NoError(t, err)
	require.Equal(t, "fresh-slug", got.Slug)
}

func TestDeleteDecrementsCounterAndCleansStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	// A couple of anonymous views so a stat document exists.
	_, _ = f.svc.GetBySlug(ctx, card.Slug, nil)
	_, _ = f.svc.GetBySlug(ctx, card.Slug, nil)

	require.NoError(t, f.svc.Delete(ctx, p("u1"), card.ID))

	u1, _ := f.users.FindByID(ctx, "u1")
	require.Equal(t, 0, u1.CardsCreated)

	st, _ := f.stats.FindByCardID(ctx, card.ID)
	require.Nil(t, st)

	// View history outlives the card.
	n, _ := f.views.CountByCard(ctx, card.ID)
	require.EqualValues(t, 2, n)

	// Second delete finds nothing; counter stays at zero.
	err = f.svc.Delete(ctx, p("u1"), card.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	u1, _ = f.users.FindByID(ctx, "u1")
	require.Equal(t, 0, u1.CardsCreated)
}

func TestDeleteAuthz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(f.svc.Delete(ctx, nil, card.ID)))
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(f.svc.Delete(ctx, p("u2"), card.ID)))
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	pub, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)
	draft, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Draft", Published: false})
	require.NoError(t, err)
	_ = draft

	own, err := f.svc.ListForUser(ctx, p("u1"), "")
	require.NoError(t, err)
	require.Len(t, own, 2)

	foreign, err := f.svc.ListForUser(ctx, p("u2"), "u1")
	require.NoError(t, err)
	require.Len(t, foreign, 1)
	require.Equal(t, pub.ID, foreign[0].ID)

	_, err = f.svc.ListForUser(ctx, nil, "u1")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestGetPublishedBySlug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	draft, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: false})
	require.NoError(t, err)

	_, err = f.svc.GetPublishedBySlug(ctx, draft.Slug)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	pub := true
	_, err = f.svc.Update(ctx, p("u1"), draft.ID, domain.CardPatch{Published: &pub})
	require.NoError(t, err)

	got, err := f.svc.GetPublishedBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	require.Equal(t, draft.ID, got.ID)
}

func TestRecordShare(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	require.NoError(t, f.svc.RecordShare(ctx, nil, card.ID))
	st, _ := f.stats.FindByCardID(ctx, card.ID)
	require.EqualValues(t, 1, st.Shares)

	draft, err := f.svc.Create(ctx, p("u2"), CreateCardInput{Name: "Draft", Published: false})
	require.NoError(t, err)
	err = f.svc.RecordShare(ctx, nil, draft.ID)
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	// The owner can share their own draft.
	require.NoError(t, f.svc.RecordShare(ctx, p("u2"), draft.ID))
}

func TestRecordDownload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.svc.Create(ctx, p("u1"), CreateCardInput{Name: "Jane Doe", Published: true})
	require.NoError(t, err)

	f.svc.RecordDownload(ctx, card)
	f.svc.RecordDownload(ctx, card)
	st, _ := f.stats.FindByCardID(ctx, card.ID)
	require.EqualValues(t, 2, st.Downloads)
}
