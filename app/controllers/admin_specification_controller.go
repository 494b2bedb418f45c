package controllers

import (
	"net/http"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/event"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

type specificationInput struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Slug string `json:"slug" validate:"required,slug,max=255"`
}

// AdminSpecificationController maintains the specification dictionary the
// filter facets are built from.
type AdminSpecificationController struct {
	specs *repositories.SpecificationRepository
}

func NewAdminSpecificationController() *AdminSpecificationController {
	return &AdminSpecificationController{specs: repositories.NewSpecificationRepository()}
}

// Index handles GET /api/admin/specifications.
func (c *AdminSpecificationController) Index(w http.ResponseWriter, r *http.Request) {
	specs, err := c.specs.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load specifications")
		return
	}
	response.Success(w, specs)
}

// Store handles POST /api/admin/specifications.
func (c *AdminSpecificationController) Store(w http.ResponseWriter, r *http.Request) {
	var in specificationInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	spec := models.Specification{Name: in.Name, Slug: in.Slug}
	if err := c.specs.Create(&spec); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Created(w, spec)
}

// Update handles PUT /api/admin/specifications/{id}.
func (c *AdminSpecificationController) Update(w http.ResponseWriter, r *http.Request) {
	spec, err := c.specs.FindByID(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}

	var in specificationInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	spec.Name = in.Name
	spec.Slug = in.Slug
	if err := c.specs.Update(&spec); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	event.Fire("product.changed", spec.ID)
	response.Success(w, spec)
}

// Delete handles DELETE /api/admin/specifications/{id}. Product values bound
// to the specification go with it.
func (c *AdminSpecificationController) Delete(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))
	if _, err := c.specs.FindByID(id); err != nil {
		response.NotFound(w)
		return
	}
	if err := c.specs.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to delete specification")
		return
	}
	event.Fire("product.changed", id)
	response.NoContent(w)
}
