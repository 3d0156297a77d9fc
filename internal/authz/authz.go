// Package authz decides who may do what to which resource.
//
// Every decision is a pure function of the actor's claims and the resource
// as it is currently stored. Ownership is compared by user id, never by
// email or display name.
package authz

import (
	"blog-platform/internal/types"
)

// Actor is the identity behind a request. A nil *Actor is an anonymous caller.
type Actor struct {
	ID      string
	Email   string
	IsAdmin bool
}

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

type Kind int

const (
	KindPost Kind = iota
	KindComment
	KindAdminOnly
)

type Resource struct {
	Kind    Kind
	OwnerID string
}

func Post(ownerID string) Resource {
	return Resource{Kind: KindPost, OwnerID: ownerID}
}

func Comment(ownerID string) Resource {
	return Resource{Kind: KindComment, OwnerID: ownerID}
}

// AdminOnly guards actions such as creating another admin account.
func AdminOnly() Resource {
	return Resource{Kind: KindAdminOnly}
}

func CanPerform(actor *Actor, action Action, res Resource) bool {
	switch res.Kind {
	case KindAdminOnly:
		return actor != nil && actor.IsAdmin
	case KindPost, KindComment:
	default:
		return false
	}

	switch action {
	case ActionRead:
		return true
	case ActionCreate:
		return actor != nil
	case ActionUpdate:
		if res.Kind != KindPost {
			return false
		}
		return ownerOrAdmin(actor, res)
	case ActionDelete:
		return ownerOrAdmin(actor, res)
	}
	return false
}

func ownerOrAdmin(actor *Actor, res Resource) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	return res.OwnerID != "" && actor.ID == res.OwnerID
}

// Authorize is CanPerform as an error: nil when allowed, types.ErrForbidden otherwise.
func Authorize(actor *Actor, action Action, res Resource) error {
	if CanPerform(actor, action, res) {
		return nil
	}
	return types.ErrForbidden
}

type Permissions struct {
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// PermissionsFor is what the actor may do to res, for clients to render.
func PermissionsFor(actor *Actor, res Resource) Permissions {
	return Permissions{
		CanEdit:   CanPerform(actor, ActionUpdate, res),
		CanDelete: CanPerform(actor, ActionDelete, res),
	}
}
