package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/database"
)

func setupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Specification{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecification{},
		&models.Order{},
		&models.OrderItem{},
	))

	database.DB = db
}

type fixture struct {
	indoor, outdoor models.Category
	bodyType        models.Specification
	resolution      models.Specification
	products        []models.Product
}

func seedCatalog(t *testing.T) fixture {
	t.Helper()
	db := database.DB

	var f fixture
	f.indoor = models.Category{Name: "Indoor", Slug: "indoor"}
	f.outdoor = models.Category{Name: "Outdoor", Slug: "outdoor"}
	require.NoError(t, db.Create(&f.indoor).Error)
	require.NoError(t, db.Create(&f.outdoor).Error)

	f.bodyType = models.Specification{Name: "Body Type", Slug: models.SpecBodyType}
	f.resolution = models.Specification{Name: "Resolution", Slug: models.SpecResolution}
	require.NoError(t, db.Create(&f.bodyType).Error)
	require.NoError(t, db.Create(&f.resolution).Error)

	seed := []struct {
		name, slug, sku string
		price           float64
		cat             uint
		body, res       string
	}{
		{"Alpha Dome", "alpha-dome", "SKU-1", 100, f.indoor.ID, "Dome", "2 MP"},
		{"Beta Bullet", "beta-bullet", "SKU-2", 300, f.outdoor.ID, "Bullet", "4 MP"},
		{"Gamma Dome", "gamma-dome", "SKU-3", 200, f.outdoor.ID, "Dome", "4 MP"},
		{"Delta PTZ", "delta-ptz", "SKU-4", 700, f.outdoor.ID, "PTZ", "8 MP"},
	}

	for _, s := range seed {
		p := models.Product{
			Name: s.name, Slug: s.slug, SKU: s.sku,
			Price: s.price, CategoryID: s.cat,
			InStock: true, StockQuantity: 10,
		}
		require.NoError(t, db.Create(&p).Error)
		require.NoError(t, db.Create(&[]models.ProductSpecification{
			{ProductID: p.ID, SpecificationID: f.bodyType.ID, Value: s.body},
			{ProductID: p.ID, SpecificationID: f.resolution.ID, Value: s.res},
		}).Error)
		f.products = append(f.products, p)
	}

	return f
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	setupDB(t)
	seedCatalog(t)

	repo := repositories.NewProductRepository()
	products, page, err := repo.List(repositories.ProductFilter{Search: "DOME", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	require.Len(t, products, 2)
	assert.Equal(t, "Alpha Dome", products[0].Name)
	assert.Equal(t, "Gamma Dome", products[1].Name)
}

func TestListSortOrders(t *testing.T) {
	setupDB(t)
	seedCatalog(t)
	repo := repositories.NewProductRepository()

	products, _, err := repo.List(repositories.ProductFilter{Sort: "price-desc", Limit: 10})
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Delta PTZ", products[0].Name)
	assert.Equal(t, "Alpha Dome", products[3].Name)

	// Unknown sort falls back to name ascending.
	products, _, err = repo.List(repositories.ProductFilter{Sort: "price-sideways", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Dome", products[0].Name)
}

func TestListPagination(t *testing.T) {
	setupDB(t)
	seedCatalog(t)
	repo := repositories.NewProductRepository()

	products, page, err := repo.List(repositories.ProductFilter{Page: 2, Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, products, 1)
}

func TestListSpecFilterMatchesByValue(t *testing.T) {
	setupDB(t)
	f := seedCatalog(t)
	repo := repositories.NewProductRepository()

	// The URL carries the row id of one representative value; every product
	// sharing that value must match, regardless of which row the id names.
	var rep models.ProductSpecification
	require.NoError(t, database.DB.
		Where("specification_id = ? AND value = ?", f.bodyType.ID, "Dome").
		Order("id asc").First(&rep).Error)

	products, page, err := repo.List(repositories.ProductFilter{BodyTypeID: rep.ID, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	for _, p := range products {
		assert.Contains(t, p.Name, "Dome")
	}
}

func TestListCombinedFilters(t *testing.T) {
	setupDB(t)
	f := seedCatalog(t)
	repo := repositories.NewProductRepository()

	var rep models.ProductSpecification
	require.NoError(t, database.DB.
		Where("specification_id = ? AND value = ?", f.resolution.ID, "4 MP").
		Order("id asc").First(&rep).Error)

	min, max := 150.0, 400.0
	products, _, err := repo.List(repositories.ProductFilter{
		CategoryID:   f.outdoor.ID,
		ResolutionID: rep.ID,
		MinPrice:     &min,
		MaxPrice:     &max,
		Limit:        10,
	})
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Beta Bullet", products[0].Name)
	assert.Equal(t, "Gamma Dome", products[1].Name)
}

func TestUpsertSpecificationKeepsOneValuePerPair(t *testing.T) {
	setupDB(t)
	f := seedCatalog(t)
	repo := repositories.NewProductRepository()

	p := f.products[0]
	require.NoError(t, repo.UpsertSpecification(p.ID, f.bodyType.ID, "Turret"))

	var rows []models.ProductSpecification
	require.NoError(t, database.DB.
		Where("product_id = ? AND specification_id = ?", p.ID, f.bodyType.ID).
		Find(&rows).Error)

	require.Len(t, rows, 1)
	assert.Equal(t, "Turret", rows[0].Value)
}

func TestCategoryFacetsScopedToSearchOnly(t *testing.T) {
	setupDB(t)
	seedCatalog(t)
	facets := repositories.NewFacetRepository()

	rows, err := facets.CategoryFacets("")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Indoor", rows[0].Name)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, "Outdoor", rows[1].Name)
	assert.Equal(t, 3, rows[1].Count)

	// Narrowing the search narrows the counts; there is no parameter for
	// the other selected filters at all.
	rows, err = facets.CategoryFacets("dome")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, 1, rows[1].Count)
}

func TestSpecFacetsUseSmallestRowID(t *testing.T) {
	setupDB(t)
	f := seedCatalog(t)
	facets := repositories.NewFacetRepository()

	rows, err := facets.SpecFacets(models.SpecBodyType, "")
	require.NoError(t, err)
	require.Len(t, rows, 3) // Bullet, Dome, PTZ

	var dome *repositories.FacetRow
	for i := range rows {
		if rows[i].Name == "Dome" {
			dome = &rows[i]
		}
	}
	require.NotNil(t, dome)
	assert.Equal(t, 2, dome.Count)

	var smallest models.ProductSpecification
	require.NoError(t, database.DB.
		Where("specification_id = ? AND value = ?", f.bodyType.ID, "Dome").
		Order("id asc").First(&smallest).Error)
	assert.Equal(t, smallest.ID, dome.ID, "the facet id is the smallest row id carrying the value")
}

func TestPriceRangeBounds(t *testing.T) {
	setupDB(t)
	seedCatalog(t)
	facets := repositories.NewFacetRepository()

	bounds, err := facets.PriceRange("")
	require.NoError(t, err)
	assert.Equal(t, 100.0, bounds.Min)
	assert.Equal(t, 700.0, bounds.Max)

	bounds, err = facets.PriceRange("no-such-camera")
	require.NoError(t, err)
	assert.Zero(t, bounds.Min)
	assert.Zero(t, bounds.Max)
}

func TestDeleteCascadesToImagesAndSpecs(t *testing.T) {
	setupDB(t)
	f := seedCatalog(t)
	repo := repositories.NewProductRepository()

	p := f.products[0]
	require.NoError(t, repo.AddImage(&models.ProductImage{ProductID: p.ID, ImageURL: "/storage/x.jpg"}))
	require.NoError(t, repo.Delete(p.ID))

	_, err := repo.FindByID(p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var specCount, imgCount int64
	database.DB.Model(&models.ProductSpecification{}).Where("product_id = ?", p.ID).Count(&specCount)
	database.DB.Model(&models.ProductImage{}).Where("product_id = ?", p.ID).Count(&imgCount)
	assert.Zero(t, specCount)
	assert.Zero(t, imgCount)
}
