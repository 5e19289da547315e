package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/services"
	"github.com/zmaxim/skystore/pkg/bind"
	"github.com/zmaxim/skystore/pkg/response"
)

// ProductController serves the catalog endpoints.
type ProductController struct {
	catalog *services.CatalogService
	actor   *ActorResolver
}

func NewProductController(catalog *services.CatalogService, actor *ActorResolver) *ProductController {
	return &ProductController{catalog: catalog, actor: actor}
}

// Index handles GET /api/products.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	actor := c.actor.resolve(r)

	opts := services.ListOptions{
		Page: queryPage(r),
		Sort: r.URL.Query().Get("sort"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			opts.CategoryID = uint(id)
		}
	}

	products, pagination, err := c.catalog.List(actor, opts)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"items":      products,
		"pagination": pagination,
		"abilities":  authz.ProductFlags(actor),
	})
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	actor := c.actor.resolve(r)
	product, err := c.catalog.Get(actor, id)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"product":   product,
		"abilities": authz.ProductFlags(actor),
	})
}

// Store handles POST /api/products.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Create(c.actor.resolve(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update handles POST /api/products/{id}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Update(c.actor.resolve(r), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Delete handles POST /api/products/{id}/delete.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.catalog.Delete(c.actor.resolve(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Product deleted")
}

// Publish handles POST /api/products/{id}/publish.
func (c *ProductController) Publish(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.catalog.Publish)
}

// Unpublish handles POST /api/products/{id}/unpublish.
func (c *ProductController) Unpublish(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.catalog.Unpublish)
}

func (c *ProductController) transition(w http.ResponseWriter, r *http.Request,
	op func(*authz.Actor, uint) (models.Product, error)) {

	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := op(c.actor.resolve(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

type changeStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ChangeStatus handles POST /api/products/{id}/change-status.
func (c *ProductController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in changeStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.ChangeStatus(c.actor.resolve(r), id, in.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// MassUnpublish handles POST /api/products/mass-unpublish.
func (c *ProductController) MassUnpublish(w http.ResponseWriter, r *http.Request) {
	n, err := c.catalog.MassUnpublish(c.actor.resolve(r))
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"unpublished": n,
		"message":     fmt.Sprintf("%d product(s) moved back to draft", n),
	})
}

// Moderation handles GET /api/products/moderation.
func (c *ProductController) Moderation(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := c.catalog.Moderation(c.actor.resolve(r), queryPage(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, products, pagination)
}

// UploadImage handles POST /api/products/{id}/image.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	path, problem, err := saveImage(r, "image", "products")
	if err != nil {
		fail(w, r, err)
		return
	}
	if problem != "" {
		response.ValidationError(w, map[string]string{"image": problem})
		return
	}

	product, err := c.catalog.SetImage(c.actor.resolve(r), id, path)
	if err != nil {
		discardUpload(path)
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}
