package controllers

import (
	"net/http"

	"github.com/zmaxim/skystore/app/services"
	"github.com/zmaxim/skystore/pkg/bind"
	"github.com/zmaxim/skystore/pkg/response"
)

// AuthController serves registration, login and the profile endpoints.
type AuthController struct {
	auth  *services.AuthService
	actor *ActorResolver
}

func NewAuthController(auth *services.AuthService, actor *ActorResolver) *AuthController {
	return &AuthController{auth: auth, actor: actor}
}

// Register handles POST /api/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, user)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, user, err := c.auth.Login(in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Profile handles GET /api/profile.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	actor := c.actor.resolve(r)
	if !actor.Authenticated() {
		response.Unauthorized(w)
		return
	}

	user, err := c.actor.users.FindByID(actor.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// UpdateProfile handles POST /api/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := c.actor.resolve(r)
	if !actor.Authenticated() {
		response.Unauthorized(w)
		return
	}

	var in services.UpdateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(actor.ID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}
