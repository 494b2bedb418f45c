package seeders

import (
	"gorm.io/gorm"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("catalog", SeedCatalog)
}

// SeedAdminUser creates the default back-office account. Idempotent: skips
// when the email already exists.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@camshop.example").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("change-me-now")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@camshop.example",
		Password: hash,
		Role:     "admin",
	}).Error
}

// SeedCatalog fills an empty database with a small demo catalogue: camera
// categories, the body-type and resolution specifications, and a handful of
// products with values for both.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	surveillance := models.Category{Name: "Surveillance Cameras", Slug: "surveillance-cameras"}
	if err := db.Create(&surveillance).Error; err != nil {
		return err
	}

	indoor := models.Category{Name: "Indoor", Slug: "indoor", ParentID: &surveillance.ID}
	outdoor := models.Category{Name: "Outdoor", Slug: "outdoor", ParentID: &surveillance.ID}
	accessories := models.Category{Name: "Accessories", Slug: "accessories"}
	for _, c := range []*models.Category{&indoor, &outdoor, &accessories} {
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}

	bodyType := models.Specification{Name: "Body Type", Slug: models.SpecBodyType}
	resolution := models.Specification{Name: "Resolution", Slug: models.SpecResolution}
	for _, s := range []*models.Specification{&bodyType, &resolution} {
		if err := db.Create(s).Error; err != nil {
			return err
		}
	}

	type seedProduct struct {
		product    models.Product
		bodyType   string
		resolution string
	}

	items := []seedProduct{
		{
			product: models.Product{
				Name: "ArcVision D210 Dome", Slug: "arcvision-d210-dome", SKU: "AV-D210",
				Description: "Compact indoor dome with wide dynamic range.",
				Price:       129.90, CategoryID: indoor.ID, IsHit: true,
				InStock: true, StockQuantity: 42,
			},
			bodyType: "Dome", resolution: "2 MP",
		},
		{
			product: models.Product{
				Name: "ArcVision B450 Bullet", Slug: "arcvision-b450-bullet", SKU: "AV-B450",
				Description: "Weatherproof bullet camera with 50 m IR.",
				Price:       199.00, CategoryID: outdoor.ID,
				InStock: true, StockQuantity: 17,
			},
			bodyType: "Bullet", resolution: "4 MP",
		},
		{
			product: models.Product{
				Name: "ArcVision P800 PTZ", Slug: "arcvision-p800-ptz", SKU: "AV-P800",
				Description: "Outdoor PTZ with 25x optical zoom.",
				Price:       749.00, CategoryID: outdoor.ID, IsHit: true,
				InStock: true, StockQuantity: 5,
			},
			bodyType: "PTZ", resolution: "8 MP",
		},
		{
			product: models.Product{
				Name: "ArcVision T120 Turret", Slug: "arcvision-t120-turret", SKU: "AV-T120",
				Description: "Turret camera for low-light entrances.",
				Price:       159.50, CategoryID: indoor.ID,
				InStock: false, StockQuantity: 0,
			},
			bodyType: "Turret", resolution: "4 MP",
		},
	}

	for _, item := range items {
		p := item.product
		if err := db.Create(&p).Error; err != nil {
			return err
		}

		values := []models.ProductSpecification{
			{ProductID: p.ID, SpecificationID: bodyType.ID, Value: item.bodyType},
			{ProductID: p.ID, SpecificationID: resolution.ID, Value: item.resolution},
		}
		if err := db.Create(&values).Error; err != nil {
			return err
		}
	}

	return nil
}
