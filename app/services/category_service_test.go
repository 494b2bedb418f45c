package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/database"
	"github.com/dkrylov/camshop/pkg/event"
)

func setupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Specification{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecification{},
	))
	database.DB = db

	event.Flush()
	t.Cleanup(event.Flush)
}

// chain creates root → mid → leaf and returns all three.
func chain(t *testing.T, svc *services.CategoryService) (root, mid, leaf models.Category) {
	t.Helper()

	root = models.Category{Name: "Cameras", Slug: "cameras"}
	require.NoError(t, svc.Create(&root))

	mid = models.Category{Name: "Outdoor", Slug: "outdoor", ParentID: &root.ID}
	require.NoError(t, svc.Create(&mid))

	leaf = models.Category{Name: "Bullet", Slug: "bullet", ParentID: &mid.ID}
	require.NoError(t, svc.Create(&leaf))

	return root, mid, leaf
}

func TestCreateRejectsMissingParent(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()

	missing := uint(999)
	err := svc.Create(&models.Category{Name: "Orphan", Slug: "orphan", ParentID: &missing})
	assert.Error(t, err)
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()
	root, _, _ := chain(t, svc)

	root.ParentID = &root.ID
	assert.ErrorIs(t, svc.Update(&root), services.ErrCategoryCycle)
}

func TestUpdateRejectsDescendantParent(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()
	root, _, leaf := chain(t, svc)

	// Hanging the root under its own grandchild would close a loop.
	root.ParentID = &leaf.ID
	assert.ErrorIs(t, svc.Update(&root), services.ErrCategoryCycle)

	// The chain is untouched.
	got, err := svc.Find(root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestUpdateAllowsValidReparent(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()
	root, _, leaf := chain(t, svc)

	other := models.Category{Name: "Accessories", Slug: "accessories", ParentID: &root.ID}
	require.NoError(t, svc.Create(&other))

	leaf.ParentID = &other.ID
	require.NoError(t, svc.Update(&leaf))

	got, err := svc.Find(leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, other.ID, *got.ParentID)
}

func TestDeleteReRootsChildren(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()
	_, mid, leaf := chain(t, svc)

	require.NoError(t, svc.Delete(mid.ID))

	got, err := svc.Find(leaf.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID, "children of a deleted category become roots")

	_, err = svc.Find(mid.ID)
	assert.Error(t, err)
}

func TestBreadcrumbWalksToRoot(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()
	root, mid, leaf := chain(t, svc)

	crumbs, err := svc.Breadcrumb(leaf.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, root.ID, crumbs[0].ID)
	assert.Equal(t, mid.ID, crumbs[1].ID)
	assert.Equal(t, leaf.ID, crumbs[2].ID)
}

func TestMutationsFireChangeEvents(t *testing.T) {
	setupDB(t)
	svc := services.NewCategoryService()

	fired := 0
	event.Listen("category.changed", func(interface{}) { fired++ })

	c := models.Category{Name: "Cameras", Slug: "cameras"}
	require.NoError(t, svc.Create(&c))
	require.NoError(t, svc.Update(&c))
	require.NoError(t, svc.Delete(c.ID))

	assert.Equal(t, 3, fired)
}
