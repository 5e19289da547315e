package controllers

import (
	"net/http"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/services"
	"github.com/zmaxim/skystore/pkg/bind"
	"github.com/zmaxim/skystore/pkg/response"
)

// BlogController serves the blog endpoints.
type BlogController struct {
	blog  *services.BlogService
	actor *ActorResolver
}

func NewBlogController(blog *services.BlogService, actor *ActorResolver) *BlogController {
	return &BlogController{blog: blog, actor: actor}
}

// Index handles GET /api/blog/posts.
func (c *BlogController) Index(w http.ResponseWriter, r *http.Request) {
	actor := c.actor.resolve(r)

	posts, pagination, err := c.blog.List(actor, queryPage(r))
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"items":      posts,
		"pagination": pagination,
		"abilities":  authz.PostFlags(actor),
	})
}

// Show handles GET /api/blog/posts/{id}. Each successful view bumps the
// post's counter.
func (c *BlogController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	actor := c.actor.resolve(r)
	post, err := c.blog.Get(actor, id)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"post":      post,
		"abilities": authz.PostFlags(actor),
	})
}

// MyPosts handles GET /api/blog/my-posts.
func (c *BlogController) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, pagination, err := c.blog.MyPosts(c.actor.resolve(r), queryPage(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, posts, pagination)
}

// Store handles POST /api/blog/posts.
func (c *BlogController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	post, err := c.blog.Create(c.actor.resolve(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, post)
}

// Update handles POST /api/blog/posts/{id}.
func (c *BlogController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.PostInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	post, err := c.blog.Update(c.actor.resolve(r), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// Delete handles POST /api/blog/posts/{id}/delete.
func (c *BlogController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.blog.Delete(c.actor.resolve(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Post deleted")
}

// Publish handles POST /api/blog/posts/{id}/publish.
func (c *BlogController) Publish(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.blog.Publish)
}

// Unpublish handles POST /api/blog/posts/{id}/unpublish.
func (c *BlogController) Unpublish(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.blog.Unpublish)
}

func (c *BlogController) transition(w http.ResponseWriter, r *http.Request,
	op func(*authz.Actor, uint) (models.BlogPost, error)) {

	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	post, err := op(c.actor.resolve(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// ChangeStatus handles POST /api/blog/posts/{id}/change-status.
func (c *BlogController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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

	post, err := c.blog.ChangeStatus(c.actor.resolve(r), id, in.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}

// UploadPreview handles POST /api/blog/posts/{id}/preview.
func (c *BlogController) UploadPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	path, problem, err := saveImage(r, "preview", "blog")
	if err != nil {
		fail(w, r, err)
		return
	}
	if problem != "" {
		response.ValidationError(w, map[string]string{"preview": problem})
		return
	}

	post, err := c.blog.SetPreview(c.actor.resolve(r), id, path)
	if err != nil {
		discardUpload(path)
		fail(w, r, err)
		return
	}
	response.Success(w, post)
}
