package authz_test

import (
	"fmt"
	"testing"

	"blog-platform/internal/authz"
	"blog-platform/internal/types"

	"github.com/stretchr/testify/require"
)

const ownerID = "8a6e0804-2bd0-4672-b79d-d97027f9071a"

// actorFor builds one cell of the authenticated/owner/admin grid.
func actorFor(authenticated, owner, admin bool) *authz.Actor {
	if !authenticated {
		return nil
	}
	id := "0d7f3f55-5d0a-4c2c-9a4a-0b5b8e9d2f11"
	if owner {
		id = ownerID
	}
	return &authz.Actor{ID: id, Email: "someone@example.com", IsAdmin: admin}
}

func TestOwnerOrAdminGrid(t *testing.T) {
	resources := map[string]authz.Resource{
		"post":    authz.Post(ownerID),
		"comment": authz.Comment(ownerID),
	}
	actions := []authz.Action{authz.ActionUpdate, authz.ActionDelete}

	for name, res := range resources {
		for _, action := range actions {
			if action == authz.ActionUpdate && res.Kind == authz.KindComment {
				continue
			}
			for _, authenticated := range []bool{false, true} {
				for _, owner := range []bool{false, true} {
					for _, admin := range []bool{false, true} {
						t.Run(fmt.Sprintf("%s/%s/auth=%v/owner=%v/admin=%v", name, action, authenticated, owner, admin), func(t *testing.T) {
							want := authenticated && (owner || admin)
							got := authz.CanPerform(actorFor(authenticated, owner, admin), action, res)
							require.Equal(t, want, got)
						})
					}
				}
			}
		}
	}
}

func TestReadIsPublic(t *testing.T) {
	require.True(t, authz.CanPerform(nil, authz.ActionRead, authz.Post(ownerID)))
	require.True(t, authz.CanPerform(nil, authz.ActionRead, authz.Comment(ownerID)))
	require.True(t, authz.CanPerform(actorFor(true, false, false), authz.ActionRead, authz.Post(ownerID)))
}

func TestCreateNeedsAnyActor(t *testing.T) {
	for _, res := range []authz.Resource{authz.Post(""), authz.Comment("")} {
		require.False(t, authz.CanPerform(nil, authz.ActionCreate, res))
		require.True(t, authz.CanPerform(actorFor(true, false, false), authz.ActionCreate, res))
		require.True(t, authz.CanPerform(actorFor(true, false, true), authz.ActionCreate, res))
	}
}

func TestCommentsCannotBeUpdated(t *testing.T) {
	require.False(t, authz.CanPerform(actorFor(true, true, false), authz.ActionUpdate, authz.Comment(ownerID)))
	require.False(t, authz.CanPerform(actorFor(true, false, true), authz.ActionUpdate, authz.Comment(ownerID)))
}

func TestAdminOnly(t *testing.T) {
	for _, action := range []authz.Action{authz.ActionRead, authz.ActionCreate, authz.ActionUpdate, authz.ActionDelete} {
		require.False(t, authz.CanPerform(nil, action, authz.AdminOnly()))
		require.False(t, authz.CanPerform(actorFor(true, true, false), action, authz.AdminOnly()))
		require.True(t, authz.CanPerform(actorFor(true, false, true), action, authz.AdminOnly()))
	}
}

func TestOwnershipIsByIDOnly(t *testing.T) {
	// same email as the owner but a different id is not the owner
	impostor := &authz.Actor{ID: "another-id", Email: "owner@example.com"}
	require.False(t, authz.CanPerform(impostor, authz.ActionDelete, authz.Post(ownerID)))

	// an empty owner id matches nobody, not even an actor with an empty id
	require.False(t, authz.CanPerform(&authz.Actor{}, authz.ActionDelete, authz.Post("")))
}

func TestUnknownKindOrActionIsDenied(t *testing.T) {
	admin := actorFor(true, false, true)
	require.False(t, authz.CanPerform(admin, authz.ActionRead, authz.Resource{Kind: authz.Kind(42)}))
	require.False(t, authz.CanPerform(admin, authz.Action(42), authz.Post(ownerID)))
}

func TestAuthorize(t *testing.T) {
	require.NoError(t, authz.Authorize(actorFor(true, true, false), authz.ActionUpdate, authz.Post(ownerID)))
	require.ErrorIs(t, authz.Authorize(actorFor(true, false, false), authz.ActionUpdate, authz.Post(ownerID)), types.ErrForbidden)
	require.ErrorIs(t, authz.Authorize(nil, authz.ActionCreate, authz.Post("")), types.ErrForbidden)
}

func TestPermissionsFor(t *testing.T) {
	require.Equal(t, authz.Permissions{}, authz.PermissionsFor(nil, authz.Post(ownerID)))
	require.Equal(t, authz.Permissions{CanEdit: true, CanDelete: true},
		authz.PermissionsFor(actorFor(true, true, false), authz.Post(ownerID)))
	require.Equal(t, authz.Permissions{CanEdit: false, CanDelete: true},
		authz.PermissionsFor(actorFor(true, true, false), authz.Comment(ownerID)))
	require.Equal(t, authz.Permissions{CanEdit: true, CanDelete: true},
		authz.PermissionsFor(actorFor(true, false, true), authz.Post(ownerID)))
	require.Equal(t, authz.Permissions{},
		authz.PermissionsFor(actorFor(true, false, false), authz.Post(ownerID)))
}
