package controllers

import (
	"net/http"
	"strconv"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

type productInput struct {
	Name          string  `json:"name"          validate:"required,min=2,max=255"`
	Slug          string  `json:"slug"          validate:"required,slug,max=255"`
	SKU           string  `json:"sku"           validate:"required,max=64"`
	Description   string  `json:"description"   validate:"nullable,max=20000"`
	Price         float64 `json:"price"         validate:"required,min=0"`
	CategoryID    uint    `json:"categoryId"    validate:"required,min=1"`
	IsHit         bool    `json:"isHit"`
	InStock       bool    `json:"inStock"`
	StockQuantity int     `json:"stockQuantity" validate:"nullable,min=0"`
}

type specValueInput struct {
	SpecificationID uint   `json:"specificationId" validate:"required,min=1"`
	Value           string `json:"value"           validate:"required,max=255"`
}

// AdminProductController is the back-office product CRUD, including gallery
// images and specification values.
type AdminProductController struct {
	products *services.ProductService
}

func NewAdminProductController() *AdminProductController {
	return &AdminProductController{products: services.NewProductService()}
}

// Index handles GET /api/admin/products with the same filter surface as the
// storefront listing.
func (c *AdminProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repositories.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: services.ParseID(q.Get("category")),
		Sort:       q.Get("sort"),
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	products, page, err := c.products.List(f)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	response.Paginated(w, products, page)
}

// Show handles GET /api/admin/products/{id}.
func (c *AdminProductController) Show(w http.ResponseWriter, r *http.Request) {
	p, err := c.products.Find(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, p)
}

// Store handles POST /api/admin/products.
func (c *AdminProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p := c.apply(models.Product{}, in)
	if err := c.products.Create(&p); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Created(w, p)
}

// Update handles PUT /api/admin/products/{id}.
func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	p, err := c.products.Find(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p = c.apply(p, in)
	if err := c.products.Update(&p); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Success(w, p)
}

// Delete handles DELETE /api/admin/products/{id}.
func (c *AdminProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))
	if err := c.products.Delete(id); err != nil {
		response.NotFound(w)
		return
	}
	response.NoContent(w)
}

// SetSpecification handles PUT /api/admin/products/{id}/specifications. A
// product carries at most one value per specification; posting the same
// specification again overwrites it.
func (c *AdminProductController) SetSpecification(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))

	var in specValueInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.products.SetSpecification(id, in.SpecificationID, in.Value); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := c.products.Find(id)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, p)
}

// UploadImage handles POST /api/admin/products/{id}/images as a multipart
// upload. The file lands on the storage disk under the product's slug.
func (c *AdminProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "image file missing")
		return
	}
	defer file.Close()

	sortOrder, _ := strconv.Atoi(r.FormValue("sortOrder"))

	img, err := c.products.UploadImage(id, header.Filename, file, sortOrder)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Created(w, img)
}

// DeleteImage handles DELETE /api/admin/products/{id}/images/{imageId}.
func (c *AdminProductController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID := services.ParseID(router.Param(r, "imageId"))
	if err := c.products.DeleteImage(imageID); err != nil {
		response.NotFound(w)
		return
	}
	response.NoContent(w)
}

func (c *AdminProductController) apply(p models.Product, in productInput) models.Product {
	p.Name = in.Name
	p.Slug = in.Slug
	p.SKU = in.SKU
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.IsHit = in.IsHit
	p.InStock = in.InStock
	p.StockQuantity = in.StockQuantity
	return p
}
