package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/database"
)

func seedCameras(t *testing.T, n int) models.Category {
	t.Helper()

	cat := models.Category{Name: "Cameras", Slug: "cameras"}
	require.NoError(t, database.DB.Create(&cat).Error)

	bodyType := models.Specification{Name: "Body Type", Slug: models.SpecBodyType}
	require.NoError(t, database.DB.Create(&bodyType).Error)

	for i := 1; i <= n; i++ {
		p := models.Product{
			Name:       fmt.Sprintf("Camera %03d", i),
			Slug:       fmt.Sprintf("camera-%03d", i),
			SKU:        fmt.Sprintf("CAM-%03d", i),
			Price:      float64(100 + i),
			CategoryID: cat.ID,
			InStock:    true,
		}
		require.NoError(t, database.DB.Create(&p).Error)
		require.NoError(t, database.DB.Create(&models.ProductSpecification{
			ProductID:       p.ID,
			SpecificationID: bodyType.ID,
			Value:           "Dome",
		}).Error)
	}
	return cat
}

func TestProductsLimitDefaultsAndPages(t *testing.T) {
	setupDB(t)
	seedCameras(t, 23)
	svc := services.NewCatalogService()

	// No limit in the request means pages of 10 and 23/10 → 3 pages.
	products, page, err := svc.Products(repositories.ProductFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, products, 10)
	assert.Equal(t, int64(23), page.Total)
	assert.Equal(t, 3, page.TotalPages)

	products, page, err = svc.Products(repositories.ProductFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, 3, page.Page)
}

func TestProductsLimitIsCapped(t *testing.T) {
	setupDB(t)
	seedCameras(t, 23)
	svc := services.NewCatalogService()

	products, page, err := svc.Products(repositories.ProductFilter{Page: 1, Limit: 100000})
	require.NoError(t, err)
	assert.Len(t, products, 23)
	assert.LessOrEqual(t, page.Limit, 100)
}

func TestFacetsAnnotateSelection(t *testing.T) {
	setupDB(t)
	cat := seedCameras(t, 3)
	svc := services.NewCatalogService()

	facets, err := svc.Facets("", cat.ID, 0, 0)
	require.NoError(t, err)

	require.Len(t, facets.Categories, 1)
	assert.True(t, facets.Categories[0].Checked)
	assert.Equal(t, 3, facets.Categories[0].Count)

	require.Len(t, facets.BodyTypes, 1)
	assert.False(t, facets.BodyTypes[0].Checked)
	assert.Equal(t, "Dome", facets.BodyTypes[0].Name)
	assert.Equal(t, 3, facets.BodyTypes[0].Count)

	assert.Equal(t, 101.0, facets.PriceRange.Min)
	assert.Equal(t, 103.0, facets.PriceRange.Max)

	// The same aggregation with the body-type selected instead.
	facets, err = svc.Facets("", 0, facets.BodyTypes[0].ID, 0)
	require.NoError(t, err)
	assert.False(t, facets.Categories[0].Checked)
	assert.True(t, facets.BodyTypes[0].Checked)
}

func TestParseID(t *testing.T) {
	assert.Equal(t, uint(42), services.ParseID("42"))
	assert.Zero(t, services.ParseID(""))
	assert.Zero(t, services.ParseID("not-a-number"))
	assert.Zero(t, services.ParseID("-3"))
}
