package controllers

import (
	"net/http"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/pkg/bind"
	"github.com/zmaxim/skystore/pkg/response"
)

// CategoryController serves category listing and management. Mutations are
// limited to catalog managers (the edit-any grant).
type CategoryController struct {
	categories *repositories.CategoryRepository
	actor      *ActorResolver
}

func NewCategoryController(categories *repositories.CategoryRepository, actor *ActorResolver) *CategoryController {
	return &CategoryController{categories: categories, actor: actor}
}

// Index handles GET /api/categories.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, categories)
}

type categoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=1000"`
}

// Store handles POST /api/categories.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	if !c.actor.resolve(r).Has(authz.PermProductEditAny) {
		response.Forbidden(w)
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

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := c.categories.Create(&category); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, category)
}

// Delete handles POST /api/categories/{id}/delete. Products keep existing
// with a null category.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	if !c.actor.resolve(r).Has(authz.PermProductEditAny) {
		response.Forbidden(w)
		return
	}

	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	category, err := c.categories.FindByID(id)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := c.categories.Delete(&category); err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Category deleted")
}
