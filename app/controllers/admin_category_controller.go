package controllers

import (
	"errors"
	"net/http"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

type categoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=255"`
	Slug        string `json:"slug"        validate:"required,slug,max=255"`
	Description string `json:"description" validate:"nullable,max=5000"`
	ParentID    *uint  `json:"parentId"    validate:"nullable"`
}

// AdminCategoryController is the back-office category CRUD.
type AdminCategoryController struct {
	categories *services.CategoryService
}

func NewAdminCategoryController() *AdminCategoryController {
	return &AdminCategoryController{categories: services.NewCategoryService()}
}

// Index handles GET /api/admin/categories.
func (c *AdminCategoryController) Index(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	response.Success(w, cats)
}

// Show handles GET /api/admin/categories/{id}.
func (c *AdminCategoryController) Show(w http.ResponseWriter, r *http.Request) {
	cat, err := c.categories.Find(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, cat)
}

// Store handles POST /api/admin/categories.
func (c *AdminCategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cat := models.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
	}
	if err := c.categories.Create(&cat); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Created(w, cat)
}

// Update handles PUT /api/admin/categories/{id}. A parent assignment that
// would make the category its own ancestor is rejected with 422.
func (c *AdminCategoryController) Update(w http.ResponseWriter, r *http.Request) {
	cat, err := c.categories.Find(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}

	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cat.Name = in.Name
	cat.Slug = in.Slug
	cat.Description = in.Description
	cat.ParentID = in.ParentID

	if err := c.categories.Update(&cat); err != nil {
		if errors.Is(err, services.ErrCategoryCycle) {
			response.ValidationError(w, map[string]string{
				"parentId": "category cannot be its own ancestor",
			})
			return
		}
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Success(w, cat)
}

// Delete handles DELETE /api/admin/categories/{id}. Children of the deleted
// category become roots.
func (c *AdminCategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))
	if _, err := c.categories.Find(id); err != nil {
		response.NotFound(w)
		return
	}
	if err := c.categories.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	response.NoContent(w)
}
