package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"boutique/internal/dto"
	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"
	"boutique/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Promo codes ───────────────────────────────────────────────────────────────

func TestPromoCode_CreateNormalizesAndRejectsDuplicates(t *testing.T) {
	svc := NewPromoCodeService(repository.NewPromoCodeRepository(testutil.NewDB(t)))
	ctx := context.Background()
	start := time.Now()

	p, err := svc.Create(ctx, dto.CreatePromoCodeRequest{Code: "  ete10 ", Discount: dec("0.1"), StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, "ETE10", p.Code)
	assert.True(t, p.IsActive)

	_, err = svc.Create(ctx, dto.CreatePromoCodeRequest{Code: "Ete10", Discount: dec("0.2"), StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, dto.CreatePromoCodeRequest{Code: "HIVER", Discount: dec("0.2"), StartDate: start, EndDate: start.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPromoCode_Validate(t *testing.T) {
	repo := repository.NewPromoCodeRepository(testutil.NewDB(t))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &promoCodeService{repo: repo, now: func() time.Time { return now }}
	ctx := context.Background()

	for _, p := range []*model.PromoCode{
		{Code: "ACTIF", Discount: dec("0.1"), StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0), IsActive: true},
		{Code: "ENCOURS", Discount: dec("0.15"), StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0), IsActive: false},
		{Code: "FINI", Discount: dec("0.2"), StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0), IsActive: false},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	tests := []struct {
		code  string
		valid bool
	}{
		{"actif", true},
		{"EnCours", true},
		{"FINI", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			resp, err := svc.Validate(ctx, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, resp.Valid)
			if !tt.valid {
				assert.True(t, resp.Discount.IsZero())
			}
		})
	}

	_, err := svc.Validate(ctx, "INCONNU")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPromoCode_UpdateAndDelete(t *testing.T) {
	svc := NewPromoCodeService(repository.NewPromoCodeRepository(testutil.NewDB(t)))
	ctx := context.Background()
	start := time.Now()
	a, err := svc.Create(ctx, dto.CreatePromoCodeRequest{Code: "AAA", Discount: dec("0.1"), StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreatePromoCodeRequest{Code: "BBB", Discount: dec("0.1"), StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.MustParse(b.ID), dto.UpdatePromoCodeRequest{Code: strPtr("aaa")})
	assert.ErrorIs(t, err, ErrConflict)

	inactive := false
	updated, err := svc.Update(ctx, uuid.MustParse(b.ID), dto.UpdatePromoCodeRequest{IsActive: &inactive, Discount: decPtr("0.25")})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "0.25", updated.Discount.String())

	n, err := svc.DeleteMany(ctx, []uuid.UUID{uuid.MustParse(a.ID), uuid.MustParse(b.ID)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.MustParse(a.ID)), ErrNotFound)
}

// ── Information ───────────────────────────────────────────────────────────────

type memoryCache struct {
	entries map[string][]byte
	sets    int
}

func (c *memoryCache) Get(_ context.Context, key string, dst interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return infra.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.sets++
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestInformation_ReadThroughCache(t *testing.T) {
	repo := repository.NewInformationRepository(testutil.NewDB(t))
	cache := &memoryCache{entries: map[string][]byte{}}
	svc := NewInformationService(repo, cache)
	ctx := context.Background()

	_, err := svc.Update(ctx, dto.UpdateInformationRequest{StoreName: strPtr("Boutique Carthage"), Tva: decPtr("0.19")})
	require.NoError(t, err)

	first, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Boutique Carthage", first.StoreName)
	assert.Equal(t, 1, cache.sets)

	// a write behind the service's back stays invisible until invalidation
	stale := *first
	stale.StoreName = "Renommée"
	require.NoError(t, repo.Save(ctx, &stale))

	cached, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Boutique Carthage", cached.StoreName)
	assert.True(t, cached.Tva.Equal(dec("0.19")))

	_, err = svc.Update(ctx, dto.UpdateInformationRequest{Timber: decPtr("1")})
	require.NoError(t, err)
	assert.Empty(t, cache.entries)

	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renommée", fresh.StoreName)
	assert.True(t, fresh.Timber.Equal(dec("1")))
	assert.NotNil(t, fresh.Socials)
}

func TestInformation_WithoutCache(t *testing.T) {
	svc := NewInformationService(repository.NewInformationRepository(testutil.NewDB(t)), nil)

	info, err := svc.Settings(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, model.InformationID, info.ID)
	assert.True(t, info.Tva.IsZero())
}

// ── Content ───────────────────────────────────────────────────────────────────

func TestBlog_PublishedOnlyOnStorefront(t *testing.T) {
	files := &recordingRemover{}
	svc := NewBlogService(repository.NewBlogRepository(testutil.NewDB(t)), files)
	ctx := context.Background()
	published := true
	img := "/uploads/blog-1.jpg"

	draft, err := svc.Create(ctx, dto.BlogRequest{Title: "Brouillon", Content: "..."})
	require.NoError(t, err)
	post, err := svc.Create(ctx, dto.BlogRequest{Title: "Nouvelle collection", Content: "Texte", Published: &published, Image: &img})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := svc.GetBySlug(ctx, "nouvelle-collection")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	public, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 1)
	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(ctx, uuid.MustParse(post.ID)))
	assert.Equal(t, []string{img}, files.removed)
}

func TestPage_SlugFollowsTitle(t *testing.T) {
	svc := NewPageService(repository.NewPageRepository(testutil.NewDB(t)))
	ctx := context.Background()

	p, err := svc.Create(ctx, dto.PageRequest{Title: "Conditions générales", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "conditions-generales", p.Slug)

	updated, err := svc.Update(ctx, uuid.MustParse(p.ID), dto.PageRequest{Title: "Livraison et retours", Content: "Nouveau"})
	require.NoError(t, err)
	assert.Equal(t, "livraison-et-retours", updated.Slug)

	_, err = svc.GetBySlug(ctx, "conditions-generales")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessage_ForwardsToStoreMailbox(t *testing.T) {
	db := testutil.NewDB(t)
	settings := NewInformationService(repository.NewInformationRepository(db), nil)
	notifier := &recordingNotifier{}
	svc := NewMessageService(repository.NewMessageRepository(db), settings, notifier)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.MessageRequest{Name: "Sami", Email: "sami@example.tn", Subject: "Taille", Content: "Avez-vous du 42 ?"})
	require.NoError(t, err)
	assert.Empty(t, notifier.emails, "no store email configured")

	_, err = settings.Update(ctx, dto.UpdateInformationRequest{Email: strPtr("contact@boutique.tn")})
	require.NoError(t, err)
	m, err := svc.Create(ctx, dto.MessageRequest{Name: "Sami", Email: "sami@example.tn", Subject: "Taille", Content: "Et du 44 ?"})
	require.NoError(t, err)
	require.Len(t, notifier.emails, 1)
	assert.Equal(t, "contact@boutique.tn", notifier.emails[0].to)
	assert.Contains(t, notifier.emails[0].text, "Et du 44 ?")
	assert.False(t, notifier.emails[0].invoice)

	require.NoError(t, svc.MarkRead(ctx, uuid.MustParse(m.ID)))
	unread, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	assert.ErrorIs(t, svc.MarkRead(ctx, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrNotFound)
}

func TestMessage_SendSMS(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewMessageService(repository.NewMessageRepository(testutil.NewDB(t)), nil, notifier)

	require.NoError(t, svc.SendSMS(context.Background(), dto.SendSMSRequest{Phone: " 22111222 ", Text: "Votre colis arrive"}))

	require.Len(t, notifier.sms, 1)
	assert.Equal(t, "22111222", notifier.sms[0].to)
	assert.Nil(t, notifier.sms[0].venteID)
}
