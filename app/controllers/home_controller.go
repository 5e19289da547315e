package controllers

import (
	"net/http"
	"time"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/app/services"
	"github.com/zmaxim/skystore/pkg/bind"
	"github.com/zmaxim/skystore/pkg/cache"
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/response"
)

const (
	homeCacheKey    = "home:blocks"
	homeCacheTTL    = time.Minute
	contactCacheKey = "contacts:card"
	contactCacheTTL = 10 * time.Minute
)

// HomeController serves the storefront home blocks and the contact card.
type HomeController struct {
	catalog  *services.CatalogService
	contacts *repositories.ContactRepository
}

func NewHomeController(catalog *services.CatalogService, contacts *repositories.ContactRepository) *HomeController {
	return &HomeController{catalog: catalog, contacts: contacts}
}

type homeBlocks struct {
	Latest  []models.Product `json:"latest"`
	Popular []models.Product `json:"popular"`
}

// Home handles GET /api/home.
func (c *HomeController) Home(w http.ResponseWriter, r *http.Request) {
	var blocks homeBlocks
	if cache.Get(homeCacheKey, &blocks) {
		metrics.CacheHits.Inc()
		response.Success(w, blocks)
		return
	}
	metrics.CacheMisses.Inc()

	latest, popular, err := c.catalog.Home()
	if err != nil {
		fail(w, r, err)
		return
	}

	blocks = homeBlocks{Latest: latest, Popular: popular}
	if err := cache.Set(homeCacheKey, blocks, homeCacheTTL); err != nil {
		logger.WithCtx(r.Context()).Warn("home: cache set failed", "error", err)
	}
	response.Success(w, blocks)
}

// ShowContacts handles GET /api/contacts.
func (c *HomeController) ShowContacts(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if cache.Get(contactCacheKey, &contact) {
		metrics.CacheHits.Inc()
		response.Success(w, contact)
		return
	}
	metrics.CacheMisses.Inc()

	contact, err := c.contacts.First()
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := cache.Set(contactCacheKey, contact, contactCacheTTL); err != nil {
		logger.WithCtx(r.Context()).Warn("contacts: cache set failed", "error", err)
	}
	response.Success(w, contact)
}

type contactFormInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitContactForm handles POST /api/contacts. The message is logged and
// acknowledged; there is no ticketing behind it.
func (c *HomeController) SubmitContactForm(w http.ResponseWriter, r *http.Request) {
	var in contactFormInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	logger.WithCtx(r.Context()).Info("contact form received",
		"name", in.Name, "email", in.Email, "message", in.Message)
	response.Message(w, "Thanks for reaching out. We will get back to you soon.")
}
