package services

import (
	"strings"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/config"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/orm"
)

// ProductInput is the validated create/update payload. PublicationStatus is
// only honoured for holders of the change-status grant.
type ProductInput struct {
	Name              string   `json:"name" validate:"required,min=2,max=200"`
	Description       string   `json:"description" validate:"nullable,max=5000"`
	CategoryID        *uint    `json:"category_id" validate:"nullable"`
	Brand             string   `json:"brand" validate:"nullable,max=100"`
	Weight            *float64 `json:"weight" validate:"nullable"`
	Dimensions        string   `json:"dimensions" validate:"nullable,max=50"`
	Material          string   `json:"material" validate:"nullable,max=100"`
	InStock           *bool    `json:"in_stock" validate:"nullable"`
	Stock             *int     `json:"stock" validate:"nullable,gte=0"`
	Price             float64  `json:"price" validate:"required,gte=0"`
	OldPrice          *float64 `json:"old_price" validate:"nullable,gte=0"`
	PublicationStatus string   `json:"publication_status" validate:"nullable,in=draft,review,published,rejected"`
}

// CatalogService implements the product lifecycle: CRUD, the publication
// state machine and moderation listings.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewCatalogService(products *repositories.ProductRepository, categories *repositories.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// checkForbiddenWords rejects content containing any configured stop word.
func checkForbiddenWords(fields map[string]string) *apperr.ValidationError {
	words := config.ForbiddenWords()
	errs := map[string]string{}

	for field, value := range fields {
		lower := strings.ToLower(value)
		for _, w := range words {
			if w == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(w)) {
				errs[field] = "contains a forbidden word: " + w
				break
			}
		}
	}

	if len(errs) > 0 {
		return apperr.Validation(errs)
	}
	return nil
}

func (s *CatalogService) validateContent(in ProductInput) error {
	if verr := checkForbiddenWords(map[string]string{
		"name":        in.Name,
		"description": in.Description,
	}); verr != nil {
		return verr
	}

	if in.CategoryID != nil && *in.CategoryID != 0 {
		if _, err := s.categories.FindByID(*in.CategoryID); err != nil {
			return apperr.ValidationField("category_id", "category does not exist")
		}
	}
	return nil
}

// Create persists a new product owned by the actor. Submitted status is
// ignored: every product starts as a draft.
func (s *CatalogService) Create(actor *authz.Actor, in ProductInput) (models.Product, error) {
	if !actor.Authenticated() {
		return models.Product{}, apperr.ErrUnauthorized
	}
	if err := s.validateContent(in); err != nil {
		return models.Product{}, err
	}

	ownerID := actor.ID
	p := models.Product{
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		Brand:             in.Brand,
		Weight:            in.Weight,
		Dimensions:        in.Dimensions,
		Material:          in.Material,
		InStock:           true,
		Price:             in.Price,
		OldPrice:          in.OldPrice,
		PublicationStatus: models.ProductStatusDraft,
		OwnerID:           &ownerID,
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}

	if err := s.products.Create(&p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Get loads a product for the actor. Unpublished products are only visible
// to their owner and edit-any holders.
func (s *CatalogService) Get(actor *authz.Actor, id uint) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	if !authz.Can(actor, authz.KindProduct, authz.ActionView, authz.ProductTarget(&p)) {
		return models.Product{}, apperr.Forbiddenf("view product %d", id)
	}
	return p, nil
}

// ListOptions selects a page of the catalog.
type ListOptions struct {
	Page       int
	Sort       string
	CategoryID uint
}

// List returns the page of products the actor may see.
func (s *CatalogService) List(actor *authz.Actor, opts ListOptions) ([]models.Product, orm.Pagination, error) {
	f := repositories.ProductFilter{
		Scope:      repositories.ScopePublished,
		CategoryID: opts.CategoryID,
		Sort:       opts.Sort,
		Page:       opts.Page,
		PerPage:    config.PageSize(),
	}
	if f.Sort == "" {
		f.Sort = config.ProductSort()
	}

	switch {
	case authz.SeesAll(actor, authz.KindProduct):
		f.Scope = repositories.ScopeAll
	case actor.Authenticated():
		f.Scope = repositories.ScopePublishedOrOwn
		f.OwnerID = actor.ID
	}

	return s.products.List(f)
}

// Moderation lists products in review or published, for unpublish-grant
// holders.
func (s *CatalogService) Moderation(actor *authz.Actor, page int) ([]models.Product, orm.Pagination, error) {
	if !actor.Has(authz.PermProductUnpublish) {
		return nil, orm.Pagination{}, apperr.Forbiddenf("product moderation")
	}
	return s.products.Moderation(page, config.PageSize())
}

// Update applies edits to a product. Without the change-status grant the
// publication status stays locked to its current value.
func (s *CatalogService) Update(actor *authz.Actor, id uint, in ProductInput) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	if !authz.Can(actor, authz.KindProduct, authz.ActionEdit, authz.ProductTarget(&p)) {
		return models.Product{}, apperr.Forbiddenf("edit product %d", id)
	}
	if err := s.validateContent(in); err != nil {
		return models.Product{}, err
	}

	p.Name = in.Name
	p.Description = in.Description
	p.CategoryID = in.CategoryID
	p.Brand = in.Brand
	p.Weight = in.Weight
	p.Dimensions = in.Dimensions
	p.Material = in.Material
	p.Price = in.Price
	p.OldPrice = in.OldPrice
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}

	statusChanged := false
	if in.PublicationStatus != "" && in.PublicationStatus != p.PublicationStatus {
		if authz.Can(actor, authz.KindProduct, authz.ActionChangeStatus, authz.ProductTarget(&p)) {
			p.PublicationStatus = in.PublicationStatus
			statusChanged = true
		}
		// Otherwise the submitted status is silently dropped.
	}

	if err := s.products.Update(&p); err != nil {
		return models.Product{}, err
	}
	if statusChanged {
		metrics.PublicationTransitions.WithLabelValues("product", p.PublicationStatus).Inc()
	}
	return p, nil
}

// Delete removes a product the actor owns or may delete by grant.
func (s *CatalogService) Delete(actor *authz.Actor, id uint) error {
	p, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.KindProduct, authz.ActionDelete, authz.ProductTarget(&p)) {
		return apperr.Forbiddenf("delete product %d", id)
	}
	return s.products.Delete(&p)
}

func (s *CatalogService) transition(actor *authz.Actor, id uint, action authz.Action, status string) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	if !authz.Can(actor, authz.KindProduct, action, authz.ProductTarget(&p)) {
		return models.Product{}, apperr.Forbiddenf("%s product %d", action, id)
	}

	p.PublicationStatus = status
	if err := s.products.Update(&p); err != nil {
		return models.Product{}, err
	}

	metrics.PublicationTransitions.WithLabelValues("product", status).Inc()
	logger.Info("product transition", "id", p.ID, "status", status, "actor", actor.ID)
	return p, nil
}

// Publish moves the product to published.
func (s *CatalogService) Publish(actor *authz.Actor, id uint) (models.Product, error) {
	return s.transition(actor, id, authz.ActionPublish, models.ProductStatusPublished)
}

// Unpublish moves the product back to draft.
func (s *CatalogService) Unpublish(actor *authz.Actor, id uint) (models.Product, error) {
	return s.transition(actor, id, authz.ActionUnpublish, models.ProductStatusDraft)
}

// ChangeStatus sets any enumerated status. Unknown values are rejected
// before anything is touched.
func (s *CatalogService) ChangeStatus(actor *authz.Actor, id uint, status string) (models.Product, error) {
	if !models.ValidProductStatus(status) {
		return models.Product{}, apperr.ValidationField("status", "must be one of: "+strings.Join(models.ProductStatuses, ", "))
	}
	return s.transition(actor, id, authz.ActionChangeStatus, status)
}

// MassUnpublish flips every published product to draft and reports the
// count. Gated by the unpublish grant.
func (s *CatalogService) MassUnpublish(actor *authz.Actor) (int64, error) {
	if !actor.Has(authz.PermProductUnpublish) {
		return 0, apperr.Forbiddenf("mass unpublish")
	}

	n, err := s.products.MassUnpublish()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.PublicationTransitions.WithLabelValues("product", models.ProductStatusDraft).Add(float64(n))
		logger.Info("mass unpublish", "count", n, "actor", actor.ID)
	}
	return n, nil
}

// SetImage stores the uploaded image path on the product. Upload
// validation (size, mime) happens in the controller before this is called.
func (s *CatalogService) SetImage(actor *authz.Actor, id uint, path string) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	if !authz.Can(actor, authz.KindProduct, authz.ActionEdit, authz.ProductTarget(&p)) {
		return models.Product{}, apperr.Forbiddenf("edit product %d", id)
	}

	p.Image = path
	if err := s.products.Update(&p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Home returns the storefront blocks: the five newest published products
// and four picks that are nearly sold out.
func (s *CatalogService) Home() (latest, popular []models.Product, err error) {
	if latest, err = s.products.Latest(5); err != nil {
		return nil, nil, err
	}
	if popular, err = s.products.Popular(4); err != nil {
		return nil, nil, err
	}
	return latest, popular, nil
}
