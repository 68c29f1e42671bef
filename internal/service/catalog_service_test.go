package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"boutique/internal/dto"
	"boutique/internal/repository"
	"boutique/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, url)
	return nil
}

type catalogFixture struct {
	products ProductService
	packs    PackService
	cats     CategoryService
	subs     SubCategoryService
	catRepo  repository.CategoryRepository
	prodRepo repository.ProductRepository
	files    *recordingRemover
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.NewDB(t)
	cats := repository.NewCategoryRepository(db)
	subs := repository.NewSubCategoryRepository(db)
	products := repository.NewProductRepository(db)
	packs := repository.NewPackRepository(db)
	files := &recordingRemover{}
	return &catalogFixture{
		products: NewProductService(products, cats, subs, files),
		packs:    NewPackService(packs, products, files),
		cats:     NewCategoryService(cats, subs, files),
		subs:     NewSubCategoryService(subs, cats, files),
		catRepo:  cats,
		prodRepo: products,
		files:    files,
	}
}

func (f *catalogFixture) category(t *testing.T, name string) *dto.CategoryResponse {
	t.Helper()
	c, err := f.cats.Create(context.Background(), dto.CategoryRequest{Designation: name})
	require.NoError(t, err)
	return c
}

func (f *catalogFixture) subCategory(t *testing.T, catID, name string) *dto.SubCategoryResponse {
	t.Helper()
	s, err := f.subs.Create(context.Background(), dto.SubCategoryRequest{CategoryID: catID, Designation: name})
	require.NoError(t, err)
	return s
}

// ── Products ──────────────────────────────────────────────────────────────────

func TestProductCreate_SubCategoryImpliesParent(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Femme")
	sub := f.subCategory(t, cat.ID, "Robes")

	p, err := f.products.Create(ctx, dto.CreateProductRequest{
		Designation:   "Robe longue",
		Price:         dec("89.9"),
		SubCategoryID: &sub.ID,
		Features:      []string{"nouveau", "nouveau", "promo"},
	})
	require.NoError(t, err)

	require.NotNil(t, p.CategoryID)
	assert.Equal(t, cat.ID, *p.CategoryID)
	assert.Equal(t, "robe-longue", p.Slug)
	assert.True(t, p.InStock)
	assert.ElementsMatch(t, []string{"nouveau", "promo"}, p.Features)

	gotCat, err := f.cats.GetByID(ctx, uuid.MustParse(cat.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, gotCat.Products)
	gotSub, err := f.subs.GetByID(ctx, uuid.MustParse(sub.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, gotSub.Products)
}

func TestProductCreate_SlugsAreUnique(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	first, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Sac à main", Price: dec("50")})
	require.NoError(t, err)
	second, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Sac à main", Price: dec("55")})
	require.NoError(t, err)

	assert.Equal(t, "sac-a-main", first.Slug)
	assert.Equal(t, "sac-a-main-2", second.Slug)

	bySlug, err := f.products.GetBySlug(ctx, "sac-a-main-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, bySlug.ID)
}

func TestProductCreate_Rejects(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	femme := f.category(t, "Femme")
	homme := f.category(t, "Homme")
	sub := f.subCategory(t, femme.ID, "Robes")
	missing := uuid.NewString()

	_, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Robe", Price: dec("100"), OldPrice: decPtr("80")})
	assert.ErrorIs(t, err, ErrValidation, "old price below price")

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Designation: "Robe", Price: dec("100"), CategoryID: &homme.ID, SubCategoryID: &sub.ID})
	assert.ErrorIs(t, err, ErrValidation, "subcategory of another category")

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Designation: "Robe", Price: dec("100"), CategoryID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdate_MovesBetweenCategories(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	femme := f.category(t, "Femme")
	homme := f.category(t, "Homme")
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Chemise", Price: dec("40"), CategoryID: &femme.ID})
	require.NoError(t, err)

	updated, err := f.products.Update(ctx, uuid.MustParse(p.ID), dto.UpdateProductRequest{CategoryID: &homme.ID})
	require.NoError(t, err)
	assert.Equal(t, homme.ID, *updated.CategoryID)
	assert.Equal(t, "40", updated.Price.String(), "absent fields keep their value")

	gotFemme, err := f.cats.GetByID(ctx, uuid.MustParse(femme.ID))
	require.NoError(t, err)
	assert.Empty(t, gotFemme.Products)
	gotHomme, err := f.cats.GetByID(ctx, uuid.MustParse(homme.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, gotHomme.Products)

	empty := ""
	cleared, err := f.products.Update(ctx, uuid.MustParse(p.ID), dto.UpdateProductRequest{CategoryID: &empty})
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)
	gotHomme, err = f.cats.GetByID(ctx, uuid.MustParse(homme.ID))
	require.NoError(t, err)
	assert.Empty(t, gotHomme.Products)
}

func TestProductUpdate_RemovesDroppedImages(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{
		Designation: "Foulard", Price: dec("20"), Images: []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	})
	require.NoError(t, err)

	_, err = f.products.Update(ctx, uuid.MustParse(p.ID), dto.UpdateProductRequest{Images: []string{"/uploads/b.jpg"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/uploads/a.jpg"}, f.files.removed)
}

func TestProductDelete_CleansMemberLists(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Accessoires")
	p, err := f.products.Create(ctx, dto.CreateProductRequest{
		Designation: "Ceinture", Price: dec("30"), CategoryID: &cat.ID, Images: []string{"/uploads/c.jpg"},
	})
	require.NoError(t, err)
	pack, err := f.packs.Create(ctx, dto.CreatePackRequest{Designation: "Pack cuir", Price: dec("70"), ProductIDs: []string{p.ID}})
	require.NoError(t, err)
	require.Len(t, pack.Products, 1)

	require.NoError(t, f.products.Delete(ctx, uuid.MustParse(p.ID)))

	gotCat, err := f.cats.GetByID(ctx, uuid.MustParse(cat.ID))
	require.NoError(t, err)
	assert.Empty(t, gotCat.Products)
	gotPack, err := f.packs.GetByID(ctx, uuid.MustParse(pack.ID))
	require.NoError(t, err)
	assert.Empty(t, gotPack.Products)
	assert.Equal(t, []string{"/uploads/c.jpg"}, f.files.removed)

	assert.ErrorIs(t, f.products.Delete(ctx, uuid.MustParse(p.ID)), ErrNotFound)
}

func TestProductList_FiltersByFeature(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	_, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Top", Price: dec("15"), Features: []string{"vente-flash"}})
	require.NoError(t, err)
	_, err = f.products.Create(ctx, dto.CreateProductRequest{Designation: "Jupe", Price: dec("35")})
	require.NoError(t, err)

	page, err := f.products.List(ctx, dto.ProductFilter{Feature: "vente-flash", Pagination: dto.Pagination{Page: 1, Limit: 20}})
	require.NoError(t, err)

	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Top", page.Data[0].Designation)
}

// ── Packs ─────────────────────────────────────────────────────────────────────

func TestPack_CreateAndReplaceProducts(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	a, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Crème", Price: dec("12")})
	require.NoError(t, err)
	b, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Savon", Price: dec("4")})
	require.NoError(t, err)

	pack, err := f.packs.Create(ctx, dto.CreatePackRequest{Designation: "Coffret soin", Price: dec("14"), OldPrice: decPtr("16"), ProductIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Len(t, pack.Products, 2)
	assert.Equal(t, "coffret-soin", pack.Slug)

	updated, err := f.packs.Update(ctx, uuid.MustParse(pack.ID), dto.UpdatePackRequest{ProductIDs: []string{b.ID}})
	require.NoError(t, err)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, b.ID, updated.Products[0].ID)

	_, err = f.packs.Create(ctx, dto.CreatePackRequest{Designation: "Fantôme", Price: dec("1"), ProductIDs: []string{uuid.NewString()}})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Categories ────────────────────────────────────────────────────────────────

func TestCategoryDelete_DetachesProductsAndSubCategories(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	img := "/uploads/femme.jpg"
	cat, err := f.cats.Create(ctx, dto.CategoryRequest{Designation: "Femme", Image: &img})
	require.NoError(t, err)
	sub := f.subCategory(t, cat.ID, "Robes")
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Robe", Price: dec("60"), SubCategoryID: &sub.ID})
	require.NoError(t, err)

	require.NoError(t, f.cats.Delete(ctx, uuid.MustParse(cat.ID)))

	got, err := f.products.GetByID(ctx, uuid.MustParse(p.ID))
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.SubCategoryID)
	_, err = f.subs.GetByID(ctx, uuid.MustParse(sub.ID))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{img}, f.files.removed)
}

func TestCategoryCheckConsistency(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	femme := f.category(t, "Femme")
	homme := f.category(t, "Homme")
	ok, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Robe", Price: dec("60"), CategoryID: &femme.ID})
	require.NoError(t, err)
	stray, err := f.products.Create(ctx, dto.CreateProductRequest{Designation: "Costume", Price: dec("200"), CategoryID: &homme.ID})
	require.NoError(t, err)

	report, err := f.cats.CheckConsistency(ctx, uuid.MustParse(femme.ID))
	require.NoError(t, err)
	assert.True(t, report.Consistent)

	// a member entry left behind by an out-of-band write
	require.NoError(t, f.prodRepo.LinkCategory(ctx, nil, uuid.MustParse(femme.ID), uuid.MustParse(stray.ID)))

	report, err = f.cats.CheckConsistency(ctx, uuid.MustParse(femme.ID))
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, []string{stray.ID}, report.Mismatched)

	members, err := f.catRepo.ProductIDs(ctx, uuid.MustParse(femme.ID))
	require.NoError(t, err)
	got := idStrings(members)
	sort.Strings(got)
	want := []string{ok.ID, stray.ID}
	sort.Strings(want)
	assert.Equal(t, want, got)

	_, err = f.cats.CheckConsistency(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubCategory_CreateRequiresParentAndLists(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	femme := f.category(t, "Femme")
	homme := f.category(t, "Homme")
	f.subCategory(t, femme.ID, "Robes")
	f.subCategory(t, femme.ID, "Jupes")
	f.subCategory(t, homme.ID, "Chemises")

	_, err := f.subs.Create(ctx, dto.SubCategoryRequest{CategoryID: uuid.NewString(), Designation: "Orpheline"})
	assert.ErrorIs(t, err, ErrNotFound)

	femmeID := uuid.MustParse(femme.ID)
	list, err := f.subs.List(ctx, &femmeID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := f.subs.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cat, err := f.cats.GetBySlug(ctx, "femme")
	require.NoError(t, err)
	assert.Len(t, cat.SubCategories, 2)
}
