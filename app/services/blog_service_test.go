package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/config"
	"github.com/zmaxim/skystore/pkg/apperr"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "10-tips-for-go", Slugify("  10 Tips -- for Go  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestPostCreateForcesDraftAndAuthor(t *testing.T) {
	svc, _, _ := newBlog(t)

	b, err := svc.Create(plainActor(3), PostInput{
		Title:             "My first post",
		PublicationStatus: models.BlogStatusPublished, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, models.BlogStatusDraft, b.PublicationStatus)
	assert.False(t, b.IsPublished)
	assert.Nil(t, b.PublishedAt)
	assert.Equal(t, "my-first-post", b.Slug)
	require.NotNil(t, b.AuthorID)
	assert.Equal(t, uint(3), *b.AuthorID)
}

func TestPostSlugMustBeUnique(t *testing.T) {
	svc, _, _ := newBlog(t)

	_, err := svc.Create(plainActor(1), PostInput{Title: "Same title"})
	require.NoError(t, err)

	_, err = svc.Create(plainActor(1), PostInput{Title: "Same title"})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "slug")
}

func TestPostPublishStampsDateOnce(t *testing.T) {
	svc, _, _ := newBlog(t)
	manager := actorWith(2, authz.PermPostPublish)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Dated"})
	require.NoError(t, err)

	published, err := svc.Publish(manager, b.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	first := *published.PublishedAt

	unpublished, err := svc.Unpublish(manager, b.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	require.NotNil(t, unpublished.PublishedAt)
	assert.Equal(t, first.Unix(), unpublished.PublishedAt.Unix())

	republished, err := svc.Publish(manager, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), republished.PublishedAt.Unix())
}

func TestPostUnpublishUsesPublishGrant(t *testing.T) {
	svc, _, _ := newBlog(t)
	manager := actorWith(2, authz.PermPostPublish)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Grant check"})
	require.NoError(t, err)
	_, err = svc.Publish(manager, b.ID)
	require.NoError(t, err)

	// The publish grant covers unpublish for posts.
	got, err := svc.Unpublish(manager, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BlogStatusDraft, got.PublicationStatus)

	// The author alone cannot unpublish.
	_, err = svc.Publish(manager, b.ID)
	require.NoError(t, err)
	_, err = svc.Unpublish(plainActor(1), b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestPostChangeStatusValidatesValue(t *testing.T) {
	svc, _, db := newBlog(t)
	manager := actorWith(2, authz.PermPostChangeStatus)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Status check"})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(manager, b.ID, "review")
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "status")

	var got models.BlogPost
	require.NoError(t, db.First(&got, b.ID).Error)
	assert.Equal(t, models.BlogStatusDraft, got.PublicationStatus)

	archived, err := svc.ChangeStatus(manager, b.ID, models.BlogStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, models.BlogStatusArchived, archived.PublicationStatus)
	assert.False(t, archived.IsPublished)
}

func TestViewCountIncrementsByOne(t *testing.T) {
	svc, _, _ := newBlog(t)
	manager := actorWith(2, authz.PermPostPublish)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Counted"})
	require.NoError(t, err)
	_, err = svc.Publish(manager, b.ID)
	require.NoError(t, err)

	got, err := svc.Get(nil, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ViewsCount)

	got, err = svc.Get(nil, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ViewsCount)
}

func TestCongratsFiresExactlyOnceAtThreshold(t *testing.T) {
	config.Set("CONGRATS_RECIPIENT", "owner@example.com")
	t.Cleanup(func() { config.Set("CONGRATS_RECIPIENT", "") })

	svc, sender, db := newBlog(t)
	manager := actorWith(2, authz.PermPostPublish)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Popular"})
	require.NoError(t, err)
	_, err = svc.Publish(manager, b.ID)
	require.NoError(t, err)

	// Fast-forward the counter to just below the threshold.
	require.NoError(t, db.Model(&models.BlogPost{}).
		Where("id = ?", b.ID).
		Update("views_count", congratsThreshold-1).Error)

	got, err := svc.Get(nil, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(congratsThreshold), got.ViewsCount)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "owner@example.com", sender.messages[0].To)

	// Views beyond the threshold never re-trigger it.
	for i := 0; i < 3; i++ {
		_, err = svc.Get(nil, b.ID)
		require.NoError(t, err)
	}
	assert.Len(t, sender.messages, 1)
}

func TestCongratsSkippedWithoutRecipient(t *testing.T) {
	svc, sender, db := newBlog(t)
	manager := actorWith(2, authz.PermPostPublish)

	b, err := svc.Create(plainActor(1), PostInput{Title: "Quietly popular"})
	require.NoError(t, err)
	_, err = svc.Publish(manager, b.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.BlogPost{}).
		Where("id = ?", b.ID).
		Update("views_count", congratsThreshold-1).Error)

	_, err = svc.Get(nil, b.ID)
	require.NoError(t, err)
	assert.Empty(t, sender.messages)
}

func TestPostListingVisibility(t *testing.T) {
	svc, _, _ := newBlog(t)
	author := plainActor(1)
	manager := actorWith(2, authz.PermPostPublish)

	pub, err := svc.Create(author, PostInput{Title: "Public post"})
	require.NoError(t, err)
	_, err = svc.Publish(manager, pub.ID)
	require.NoError(t, err)

	_, err = svc.Create(author, PostInput{Title: "Private draft"})
	require.NoError(t, err)
	_, err = svc.Create(plainActor(5), PostInput{Title: "Other draft"})
	require.NoError(t, err)

	posts, _, err := svc.List(nil, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Public post", posts[0].Title)

	posts, _, err = svc.List(author, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, _, err = svc.List(actorWith(9, authz.PermPostEditAny), 1)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestMyPosts(t *testing.T) {
	svc, _, _ := newBlog(t)
	author := plainActor(1)

	_, err := svc.Create(author, PostInput{Title: "One"})
	require.NoError(t, err)
	_, err = svc.Create(author, PostInput{Title: "Two"})
	require.NoError(t, err)
	_, err = svc.Create(plainActor(2), PostInput{Title: "Theirs"})
	require.NoError(t, err)

	posts, page, err := svc.MyPosts(author, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int64(2), page.Total)

	_, _, err = svc.MyPosts(nil, 1)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestPostUpdateLocksStatusWithoutGrant(t *testing.T) {
	svc, _, _ := newBlog(t)
	author := plainActor(1)

	b, err := svc.Create(author, PostInput{Title: "Locked"})
	require.NoError(t, err)

	got, err := svc.Update(author, b.ID, PostInput{
		Title:             "Still locked",
		PublicationStatus: models.BlogStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, "Still locked", got.Title)
	assert.Equal(t, models.BlogStatusDraft, got.PublicationStatus)
}

func TestPostDeleteByAuthorAndByGrant(t *testing.T) {
	svc, _, _ := newBlog(t)
	author := plainActor(1)

	b, err := svc.Create(author, PostInput{Title: "Short lived"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(author, b.ID))

	b2, err := svc.Create(author, PostInput{Title: "Removed by manager"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(plainActor(5), b2.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(actorWith(6, authz.PermPostDeleteAny), b2.ID))
}

func TestPostForbiddenWords(t *testing.T) {
	svc, _, _ := newBlog(t)

	_, err := svc.Create(plainActor(1), PostInput{Title: "Win free crypto"})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "title")
}
