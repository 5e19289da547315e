package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/config"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/notification"
	"github.com/zmaxim/skystore/pkg/orm"
)

// congratsThreshold is the view count at which a post's author is
// congratulated. The notification fires exactly once, on the view that
// lands the counter on the threshold.
const congratsThreshold = 100

// PostInput is the validated blog post create/update payload.
type PostInput struct {
	Title             string `json:"title" validate:"required,min=2,max=200"`
	Slug              string `json:"slug" validate:"nullable,max=220"`
	Content           string `json:"content" validate:"nullable,max=50000"`
	PublicationStatus string `json:"publication_status" validate:"nullable,in=draft,published,archived"`
}

// BlogService implements the blog post lifecycle including the view
// counter side effect.
type BlogService struct {
	posts  *repositories.BlogRepository
	notify notification.Sender
}

func NewBlogService(posts *repositories.BlogRepository, notify notification.Sender) *BlogService {
	if notify == nil {
		notify = notification.SendAsync
	}
	return &BlogService{posts: posts, notify: notify}
}

// Slugify converts a title into a URL slug: lowercase, alphanumerics kept,
// everything else collapsed to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func (s *BlogService) resolveSlug(in PostInput, excludeID uint) (string, error) {
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}
	if slug == "" {
		return "", apperr.ValidationField("slug", "cannot be derived from title")
	}

	taken, err := s.posts.SlugTaken(slug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.ValidationField("slug", "is already in use")
	}
	return slug, nil
}

func (s *BlogService) validateContent(in PostInput) error {
	if verr := checkForbiddenWords(map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}); verr != nil {
		return verr
	}
	return nil
}

// Create persists a new draft post authored by the actor. Submitted status
// is ignored: every post starts as a draft.
func (s *BlogService) Create(actor *authz.Actor, in PostInput) (models.BlogPost, error) {
	if !actor.Authenticated() {
		return models.BlogPost{}, apperr.ErrUnauthorized
	}
	if err := s.validateContent(in); err != nil {
		return models.BlogPost{}, err
	}

	slug, err := s.resolveSlug(in, 0)
	if err != nil {
		return models.BlogPost{}, err
	}

	authorID := actor.ID
	b := models.BlogPost{
		Title:             in.Title,
		Slug:              slug,
		Content:           in.Content,
		PublicationStatus: models.BlogStatusDraft,
		AuthorID:          &authorID,
	}
	if err := s.posts.Create(&b); err != nil {
		return models.BlogPost{}, err
	}
	return b, nil
}

// Get loads a post and records the view. The counter bumps for every
// allowed detail view; on the view that reaches the threshold the author
// gets a one-time congratulation.
func (s *BlogService) Get(actor *authz.Actor, id uint) (models.BlogPost, error) {
	b, err := s.posts.FindByID(id)
	if err != nil {
		return models.BlogPost{}, err
	}
	if !authz.Can(actor, authz.KindPost, authz.ActionView, authz.PostTarget(&b)) {
		return models.BlogPost{}, apperr.Forbiddenf("view blog post %d", id)
	}

	after, err := s.posts.IncrementViews(b.ID)
	if err != nil {
		return models.BlogPost{}, err
	}
	b.ViewsCount = after
	metrics.PostViews.Inc()

	if after == congratsThreshold {
		s.congratulate(&b)
	}

	return b, nil
}

func (s *BlogService) congratulate(b *models.BlogPost) {
	to := config.CongratsRecipient()
	if to == "" {
		logger.Warn("blog: congrats recipient not configured", "post", b.ID)
		return
	}

	s.notify(notification.Message{
		To:      to,
		Subject: "Your post hit 100 views",
		Body:    fmt.Sprintf("Congratulations! %q has reached %d views.", b.Title, congratsThreshold),
	})
	metrics.NotificationsSent.WithLabelValues("congrats").Inc()
	logger.Info("blog: congrats sent", "post", b.ID, "views", congratsThreshold)
}

// List returns the page of posts the actor may see.
func (s *BlogService) List(actor *authz.Actor, page int) ([]models.BlogPost, orm.Pagination, error) {
	f := repositories.BlogFilter{
		Scope:   repositories.ScopePublished,
		Page:    page,
		PerPage: config.PageSize(),
	}

	switch {
	case authz.SeesAll(actor, authz.KindPost):
		f.Scope = repositories.ScopeAll
	case actor.Authenticated():
		f.Scope = repositories.ScopePublishedOrOwn
		f.AuthorID = actor.ID
	}

	return s.posts.List(f)
}

// MyPosts returns the actor's own posts in every status.
func (s *BlogService) MyPosts(actor *authz.Actor, page int) ([]models.BlogPost, orm.Pagination, error) {
	if !actor.Authenticated() {
		return nil, orm.Pagination{}, apperr.ErrUnauthorized
	}
	return s.posts.ByAuthor(actor.ID, page, config.PageSize())
}

// Update applies edits to a post. Without the change-status grant the
// publication status stays locked to its current value.
func (s *BlogService) Update(actor *authz.Actor, id uint, in PostInput) (models.BlogPost, error) {
	b, err := s.posts.FindByID(id)
	if err != nil {
		return models.BlogPost{}, err
	}
	if !authz.Can(actor, authz.KindPost, authz.ActionEdit, authz.PostTarget(&b)) {
		return models.BlogPost{}, apperr.Forbiddenf("edit blog post %d", id)
	}
	if err := s.validateContent(in); err != nil {
		return models.BlogPost{}, err
	}

	if in.Slug != "" && in.Slug != b.Slug {
		slug, err := s.resolveSlug(in, b.ID)
		if err != nil {
			return models.BlogPost{}, err
		}
		b.Slug = slug
	}

	b.Title = in.Title
	b.Content = in.Content

	statusChanged := false
	if in.PublicationStatus != "" && in.PublicationStatus != b.PublicationStatus {
		if authz.Can(actor, authz.KindPost, authz.ActionChangeStatus, authz.PostTarget(&b)) {
			b.PublicationStatus = in.PublicationStatus
			statusChanged = true
		}
	}

	if err := s.posts.Update(&b); err != nil {
		return models.BlogPost{}, err
	}
	if statusChanged {
		metrics.PublicationTransitions.WithLabelValues("post", b.PublicationStatus).Inc()
	}
	return b, nil
}

// Delete removes a post the actor authored or may delete by grant.
func (s *BlogService) Delete(actor *authz.Actor, id uint) error {
	b, err := s.posts.FindByID(id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.KindPost, authz.ActionDelete, authz.PostTarget(&b)) {
		return apperr.Forbiddenf("delete blog post %d", id)
	}
	return s.posts.Delete(&b)
}

func (s *BlogService) transition(actor *authz.Actor, id uint, action authz.Action, status string) (models.BlogPost, error) {
	b, err := s.posts.FindByID(id)
	if err != nil {
		return models.BlogPost{}, err
	}
	if !authz.Can(actor, authz.KindPost, action, authz.PostTarget(&b)) {
		return models.BlogPost{}, apperr.Forbiddenf("%s blog post %d", action, id)
	}

	b.PublicationStatus = status
	if err := s.posts.Update(&b); err != nil {
		return models.BlogPost{}, err
	}

	metrics.PublicationTransitions.WithLabelValues("post", status).Inc()
	logger.Info("post transition", "id", b.ID, "status", status, "actor", actor.ID)
	return b, nil
}

// Publish moves the post to published, stamping PublishedAt on the first
// publish.
func (s *BlogService) Publish(actor *authz.Actor, id uint) (models.BlogPost, error) {
	return s.transition(actor, id, authz.ActionPublish, models.BlogStatusPublished)
}

// Unpublish moves the post back to draft. PublishedAt survives.
func (s *BlogService) Unpublish(actor *authz.Actor, id uint) (models.BlogPost, error) {
	return s.transition(actor, id, authz.ActionUnpublish, models.BlogStatusDraft)
}

// ChangeStatus sets any enumerated status. Unknown values are rejected
// before anything is touched.
func (s *BlogService) ChangeStatus(actor *authz.Actor, id uint, status string) (models.BlogPost, error) {
	if !models.ValidBlogStatus(status) {
		return models.BlogPost{}, apperr.ValidationField("status", "must be one of: "+strings.Join(models.BlogStatuses, ", "))
	}
	return s.transition(actor, id, authz.ActionChangeStatus, status)
}

// SetPreview stores the uploaded preview image path on the post.
func (s *BlogService) SetPreview(actor *authz.Actor, id uint, path string) (models.BlogPost, error) {
	b, err := s.posts.FindByID(id)
	if err != nil {
		return models.BlogPost{}, err
	}
	if !authz.Can(actor, authz.KindPost, authz.ActionEdit, authz.PostTarget(&b)) {
		return models.BlogPost{}, apperr.Forbiddenf("edit blog post %d", id)
	}

	b.Preview = path
	if err := s.posts.Update(&b); err != nil {
		return models.BlogPost{}, err
	}
	return b, nil
}
