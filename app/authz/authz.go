// Package authz decides who may do what to publishable entities.
//
// Every decision funnels through Can: a declarative rule table keyed by
// (entity kind, action) so the policy reads as data rather than scattered
// if-chains in controllers.
package authz

import "github.com/zmaxim/skystore/app/models"

// Permission grants. Grants are blanket: they apply to every record of the
// kind, not to specific rows.
const (
	PermProductPublish      = "catalog.product.publish"
	PermProductUnpublish    = "catalog.product.unpublish"
	PermProductChangeStatus = "catalog.product.change_status"
	PermProductEditAny      = "catalog.product.edit_any"
	PermProductDeleteAny    = "catalog.product.delete_any"

	// Blog posts have no separate unpublish grant: publish covers both
	// directions of the draft/published transition.
	PermPostPublish      = "blog.post.publish"
	PermPostChangeStatus = "blog.post.change_status"
	PermPostEditAny      = "blog.post.edit_any"
	PermPostDeleteAny    = "blog.post.delete_any"
)

// Kind selects the grant namespace.
type Kind string

const (
	KindProduct Kind = "product"
	KindPost    Kind = "post"
)

// Action is an operation on a publishable entity.
type Action string

const (
	ActionView         Action = "view"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionPublish      Action = "publish"
	ActionUnpublish    Action = "unpublish"
	ActionChangeStatus Action = "change_status"
)

// Actor is the authenticated principal. A nil Actor (or zero ID) is an
// anonymous visitor.
type Actor struct {
	ID          uint
	Email       string
	Permissions []string
}

// FromUser builds an Actor from a loaded user record.
func FromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{ID: u.ID, Email: u.Email, Permissions: u.Permissions}
}

// Authenticated reports whether the actor is a signed-in user.
func (a *Actor) Authenticated() bool { return a != nil && a.ID != 0 }

// Has reports whether the actor carries the given grant.
func (a *Actor) Has(perm string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Target is what a rule needs to know about the record under decision.
type Target struct {
	OwnerID     *uint
	IsPublished bool
}

// ProductTarget adapts a product for rule evaluation.
func ProductTarget(p *models.Product) Target {
	return Target{OwnerID: p.OwnerID, IsPublished: p.IsPublished}
}

// PostTarget adapts a blog post for rule evaluation.
func PostTarget(b *models.BlogPost) Target {
	return Target{OwnerID: b.AuthorID, IsPublished: b.IsPublished}
}

func (t Target) ownedBy(a *Actor) bool {
	return a.Authenticated() && t.OwnerID != nil && *t.OwnerID == a.ID
}

// rule is one row of the policy table.
type rule struct {
	// public allows anyone, authenticated or not, when the record is
	// published.
	publishedPublic bool
	// owner allows the record's owner.
	owner bool
	// grant names a permission that allows regardless of ownership.
	grant string
}

func (r rule) allows(a *Actor, t Target) bool {
	if r.publishedPublic && t.IsPublished {
		return true
	}
	if r.owner && t.ownedBy(a) {
		return true
	}
	return r.grant != "" && a.Has(r.grant)
}

// Product unpublish requires its own grant; blog unpublish rides on the
// publish grant. The asymmetry is intentional and load-bearing: product
// moderators are granted unpublish without publish.
var rules = map[Kind]map[Action]rule{
	KindProduct: {
		ActionView:         {publishedPublic: true, owner: true, grant: PermProductEditAny},
		ActionEdit:         {owner: true, grant: PermProductEditAny},
		ActionDelete:       {owner: true, grant: PermProductDeleteAny},
		ActionPublish:      {grant: PermProductPublish},
		ActionUnpublish:    {grant: PermProductUnpublish},
		ActionChangeStatus: {grant: PermProductChangeStatus},
	},
	KindPost: {
		ActionView:         {publishedPublic: true, owner: true, grant: PermPostEditAny},
		ActionEdit:         {owner: true, grant: PermPostEditAny},
		ActionDelete:       {owner: true, grant: PermPostDeleteAny},
		ActionPublish:      {grant: PermPostPublish},
		ActionUnpublish:    {grant: PermPostPublish},
		ActionChangeStatus: {grant: PermPostChangeStatus},
	},
}

// Can is the single authorization predicate.
func Can(a *Actor, kind Kind, action Action, t Target) bool {
	r, ok := rules[kind][action]
	if !ok {
		return false
	}
	return r.allows(a, t)
}

// SeesAll reports whether listings for kind should include every record
// rather than just published plus own.
func SeesAll(a *Actor, kind Kind) bool {
	switch kind {
	case KindProduct:
		return a.Has(PermProductEditAny)
	case KindPost:
		return a.Has(PermPostEditAny)
	}
	return false
}

// Flags are the per-actor capability booleans attached to catalog responses.
type Flags struct {
	CanUnpublish    bool `json:"can_unpublish"`
	CanDeleteAny    bool `json:"can_delete_any"`
	CanChangeStatus bool `json:"can_change_status"`
}

// ProductFlags computes the capability flags for product responses.
func ProductFlags(a *Actor) Flags {
	return Flags{
		CanUnpublish:    a.Has(PermProductUnpublish),
		CanDeleteAny:    a.Has(PermProductDeleteAny),
		CanChangeStatus: a.Has(PermProductChangeStatus),
	}
}

// PostFlags computes the capability flags for blog responses.
func PostFlags(a *Actor) Flags {
	return Flags{
		CanUnpublish:    a.Has(PermPostPublish),
		CanDeleteAny:    a.Has(PermPostDeleteAny),
		CanChangeStatus: a.Has(PermPostChangeStatus),
	}
}

// ProductModeratorPerms is the grant set seeded for the product moderation
// group.
var ProductModeratorPerms = []string{
	PermProductUnpublish,
	PermProductChangeStatus,
	PermProductDeleteAny,
}

// ContentManagerPerms is the grant set seeded for the blog content manager
// group.
var ContentManagerPerms = []string{
	PermPostPublish,
	PermPostChangeStatus,
	PermPostEditAny,
	PermPostDeleteAny,
}
