// Package controllers contains the HTTP handlers. Controllers decode and
// validate input, resolve the acting user and translate service errors to
// HTTP; all business rules live in app/services.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/middleware"
	"github.com/zmaxim/skystore/pkg/response"
)

// ActorResolver loads the acting user's grants for a request. The token only
// carries the user ID; grants always come fresh from the database.
type ActorResolver struct {
	users *repositories.UserRepository
}

func NewActorResolver(users *repositories.UserRepository) *ActorResolver {
	return &ActorResolver{users: users}
}

// resolve returns nil for anonymous requests and for tokens pointing at
// deleted accounts.
func (a *ActorResolver) resolve(r *http.Request) *authz.Actor {
	id, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		return nil
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("actor: account missing", "user_id", id)
		return nil
	}
	return authz.FromUser(&user)
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryPage parses ?page=, defaulting to the first page.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// fail translates a service error into the matching HTTP response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := apperr.AsValidation(err); ok {
		response.ValidationError(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, apperr.ErrUnauthorized):
		response.Unauthorized(w)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
