// Package policy centralizes authorization decisions. Route-level role
// guards (middleware.RequireRole) stay as the coarse outer gate; services
// call Allow for per-resource ownership checks so the rules live in one
// place instead of being repeated across handlers.
package policy

import (
	"github.com/google/uuid"

	"enci/internal/model"
)

// Actor is the authenticated identity making a request.
type Actor struct {
	ID          uuid.UUID
	Rol         string
	IsSuperuser bool
}

// Resource is anything owned by a single user (grupos, invitations,
// referrals). Ownership is the only per-resource rule in this system.
type Resource interface {
	OwnerID() uuid.UUID
}

// Allow evaluates (actor, resource) → allow/deny. Admins and superusers may
// touch anything; everyone else only their own resources.
func Allow(a Actor, r Resource) bool {
	if a.EsAdmin() {
		return true
	}
	return a.ID == r.OwnerID()
}

func (a Actor) EsDocente() bool { return a.Rol == model.RolDocente }
func (a Actor) EsAdmin() bool   { return a.IsSuperuser || a.Rol == model.RolAdmin }

// Owned adapts a bare owner id to the Resource interface.
type Owned uuid.UUID

func (o Owned) OwnerID() uuid.UUID { return uuid.UUID(o) }
