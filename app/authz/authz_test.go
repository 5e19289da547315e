package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zmaxim/skystore/app/models"
)

func owned(ownerID uint, published bool) Target {
	return Target{OwnerID: &ownerID, IsPublished: published}
}

func TestAnonymousSeesOnlyPublished(t *testing.T) {
	assert.True(t, Can(nil, KindProduct, ActionView, owned(1, true)))
	assert.False(t, Can(nil, KindProduct, ActionView, owned(1, false)))
	assert.True(t, Can(nil, KindPost, ActionView, owned(1, true)))
	assert.False(t, Can(nil, KindPost, ActionView, owned(1, false)))
}

func TestAnonymousCannotMutate(t *testing.T) {
	target := owned(1, true)
	for _, action := range []Action{ActionEdit, ActionDelete, ActionPublish, ActionUnpublish, ActionChangeStatus} {
		assert.False(t, Can(nil, KindProduct, action, target), string(action))
		assert.False(t, Can(nil, KindPost, action, target), string(action))
	}
}

func TestOwnerEditsAndDeletesOwn(t *testing.T) {
	actor := &Actor{ID: 1}

	assert.True(t, Can(actor, KindProduct, ActionView, owned(1, false)))
	assert.True(t, Can(actor, KindProduct, ActionEdit, owned(1, false)))
	assert.True(t, Can(actor, KindProduct, ActionDelete, owned(1, false)))

	// Ownership alone never grants publication control.
	assert.False(t, Can(actor, KindProduct, ActionPublish, owned(1, false)))
	assert.False(t, Can(actor, KindProduct, ActionUnpublish, owned(1, true)))
	assert.False(t, Can(actor, KindProduct, ActionChangeStatus, owned(1, false)))
}

func TestNonOwnerWithoutGrantsDeniedEverywhere(t *testing.T) {
	actor := &Actor{ID: 2}
	target := owned(1, false)

	for _, action := range []Action{ActionView, ActionEdit, ActionDelete, ActionPublish, ActionUnpublish, ActionChangeStatus} {
		assert.False(t, Can(actor, KindProduct, action, target), string(action))
		assert.False(t, Can(actor, KindPost, action, target), string(action))
	}
}

func TestEditAnyGrant(t *testing.T) {
	actor := &Actor{ID: 2, Permissions: []string{PermProductEditAny}}

	assert.True(t, Can(actor, KindProduct, ActionView, owned(1, false)))
	assert.True(t, Can(actor, KindProduct, ActionEdit, owned(1, false)))
	assert.False(t, Can(actor, KindProduct, ActionDelete, owned(1, false)))

	// Grants are namespaced per kind.
	assert.False(t, Can(actor, KindPost, ActionEdit, owned(1, false)))
}

func TestDeleteAnyGrant(t *testing.T) {
	actor := &Actor{ID: 2, Permissions: []string{PermPostDeleteAny}}
	assert.True(t, Can(actor, KindPost, ActionDelete, owned(1, false)))
	assert.False(t, Can(actor, KindPost, ActionEdit, owned(1, false)))
}

func TestProductUnpublishNeedsDistinctGrant(t *testing.T) {
	publisher := &Actor{ID: 2, Permissions: []string{PermProductPublish}}
	assert.True(t, Can(publisher, KindProduct, ActionPublish, owned(1, false)))
	assert.False(t, Can(publisher, KindProduct, ActionUnpublish, owned(1, true)))

	moderator := &Actor{ID: 3, Permissions: []string{PermProductUnpublish}}
	assert.True(t, Can(moderator, KindProduct, ActionUnpublish, owned(1, true)))
	assert.False(t, Can(moderator, KindProduct, ActionPublish, owned(1, false)))
}

func TestPostUnpublishRidesOnPublishGrant(t *testing.T) {
	actor := &Actor{ID: 2, Permissions: []string{PermPostPublish}}
	assert.True(t, Can(actor, KindPost, ActionPublish, owned(1, false)))
	assert.True(t, Can(actor, KindPost, ActionUnpublish, owned(1, true)))

	// No other blog grant opens the unpublish door.
	holder := &Actor{ID: 3, Permissions: []string{PermPostEditAny, PermPostChangeStatus}}
	assert.False(t, Can(holder, KindPost, ActionUnpublish, owned(1, true)))
}

func TestSeesAll(t *testing.T) {
	assert.False(t, SeesAll(nil, KindProduct))
	assert.False(t, SeesAll(&Actor{ID: 1}, KindProduct))
	assert.True(t, SeesAll(&Actor{ID: 1, Permissions: []string{PermProductEditAny}}, KindProduct))
	assert.False(t, SeesAll(&Actor{ID: 1, Permissions: []string{PermProductEditAny}}, KindPost))
}

func TestFlags(t *testing.T) {
	moderator := &Actor{ID: 1, Permissions: ProductModeratorPerms}
	f := ProductFlags(moderator)
	assert.True(t, f.CanUnpublish)
	assert.True(t, f.CanDeleteAny)
	assert.True(t, f.CanChangeStatus)

	manager := &Actor{ID: 2, Permissions: ContentManagerPerms}
	pf := PostFlags(manager)
	assert.True(t, pf.CanUnpublish)
	assert.True(t, pf.CanDeleteAny)
	assert.True(t, pf.CanChangeStatus)

	assert.Equal(t, Flags{}, ProductFlags(nil))
}

func TestFromUser(t *testing.T) {
	assert.Nil(t, FromUser(nil))

	u := &models.User{Permissions: []string{PermProductPublish}}
	u.ID = 9
	a := FromUser(u)
	assert.Equal(t, uint(9), a.ID)
	assert.True(t, a.Has(PermProductPublish))
}

func TestUnknownActionDenied(t *testing.T) {
	actor := &Actor{ID: 1, Permissions: ContentManagerPerms}
	assert.False(t, Can(actor, KindPost, Action("approve"), owned(1, true)))
}
