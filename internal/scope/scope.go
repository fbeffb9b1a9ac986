// Package scope turns an actor identity into an explicit query filter over
// registrations. Filters are plain values built by one pure function per
// role and composed predicate-by-predicate — no role may widen or override
// another role's base scope through query parameters.
package scope

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

// ErrSinLider is returned when a LIDER actor has no resolvable leader id.
// Callers must reject the request; the scope is never silently broadened.
var ErrSinLider = errors.New("el usuario no tiene líder asignado")

// Actor is the request identity consumed from the auth layer. It is passed
// explicitly into every component call; nothing reads it from ambient state.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Rol      string
	LeaderID *uuid.UUID
}

// EsAdmin reports whether the actor has unrestricted scope.
func (a Actor) EsAdmin() bool { return a.Rol == model.RolAdmin }

// Query holds the optional filters accepted by scoped list/aggregate
// endpoints. LeaderID only takes effect for ADMIN actors.
type Query struct {
	Desde      *time.Time
	Hasta      *time.Time
	Planilla   *int
	ProgramaID *uuid.UUID
	SedeID     *uuid.UUID
	LeaderID   *uuid.UUID
	Tipo       string
}

// Filter is the resolved predicate set for one request.
type Filter struct {
	// Base scope (role-driven, exactly one of the three shapes):
	LeaderID    *uuid.UUID // LIDER: leader_id = *LeaderID
	DigitadorID *uuid.UUID // DIGITADOR: digitador_id = *DigitadorID
	// IncluirDigitador widens a LIDER scope to rows the actor digitized
	// personally (leader_id = X OR digitador_id = userID). Only set by
	// ForActorConDigitador on the read endpoints that allow it.
	IncluirDigitador *uuid.UUID

	// Literal extra constraints (ADMIN query params, shared date range…):
	Desde      *time.Time
	Hasta      *time.Time
	Planilla   *int
	ProgramaID *uuid.UUID
	SedeID     *uuid.UUID
}

// ForActor builds the base filter for the actor's role.
func ForActor(actor Actor) (Filter, error) {
	switch actor.Rol {
	case model.RolAdmin:
		return Filter{}, nil
	case model.RolLider:
		if actor.LeaderID == nil {
			return Filter{}, ErrSinLider
		}
		return Filter{LeaderID: actor.LeaderID}, nil
	case model.RolDigitador:
		uid := actor.UserID
		return Filter{DigitadorID: &uid}, nil
	default:
		return Filter{}, ErrSinLider
	}
}

// ForActorConDigitador builds the base filter but lets a LIDER who also
// digitizes see their own entries (leader_id OR digitador_id). Used by the
// read endpoints that list a leader's own work.
func ForActorConDigitador(actor Actor) (Filter, error) {
	f, err := ForActor(actor)
	if err != nil {
		return Filter{}, err
	}
	if actor.Rol == model.RolLider {
		uid := actor.UserID
		f.IncluirDigitador = &uid
	}
	return f, nil
}

// ConQuery merges the optional query constraints into the filter. The
// leaderId parameter is honored only for ADMIN actors; for everyone else it
// is ignored rather than widening the scope.
func (f Filter) ConQuery(actor Actor, q Query) Filter {
	f.Desde = q.Desde
	f.Hasta = q.Hasta
	f.Planilla = q.Planilla
	f.ProgramaID = q.ProgramaID
	f.SedeID = q.SedeID
	if q.LeaderID != nil && actor.EsAdmin() {
		f.LeaderID = q.LeaderID
	}
	return f
}

// Apply composes the filter onto a GORM query against votaciones.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	switch {
	case f.LeaderID != nil && f.IncluirDigitador != nil:
		q = q.Where("leader_id = ? OR digitador_id = ?", *f.LeaderID, *f.IncluirDigitador)
	case f.LeaderID != nil:
		q = q.Where("leader_id = ?", *f.LeaderID)
	case f.DigitadorID != nil:
		q = q.Where("digitador_id = ?", *f.DigitadorID)
	}

	if f.Desde != nil {
		q = q.Where("created_at >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("created_at <= ?", *f.Hasta)
	}
	if f.Planilla != nil {
		q = q.Where("planilla = ?", *f.Planilla)
	}
	if f.ProgramaID != nil {
		q = q.Where("programa_id = ?", *f.ProgramaID)
	}
	if f.SedeID != nil {
		q = q.Where("sede_id = ?", *f.SedeID)
	}
	return q
}

// Permite reports whether a concrete row falls inside the base scope.
// Used by in-memory checks (ownership guards) and by the stub-backed tests.
func (f Filter) Permite(v *model.Votacion) bool {
	if f.LeaderID != nil {
		if v.LeaderID == *f.LeaderID {
			return true
		}
		if f.IncluirDigitador != nil && v.DigitadorID != nil && *v.DigitadorID == *f.IncluirDigitador {
			return true
		}
		return false
	}
	if f.DigitadorID != nil {
		return v.DigitadorID != nil && *v.DigitadorID == *f.DigitadorID
	}
	return true
}
