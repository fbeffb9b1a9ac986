package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// porcentaje computes value/total*100 rounded to the given decimal places.
// Returns 0 when total is 0 — never divides by zero, never yields NaN.
func porcentaje(value, total int64, places int32) float64 {
	if total == 0 {
		return 0
	}
	p := decimal.NewFromInt(value).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(places)
	f, _ := p.Float64()
	return f
}

// parseQuery converts the bound query DTO into a typed scope.Query.
// Dates are calendar days; hasta is inclusive (end of day). A parameter
// that is present but unparsable is an error, not a silently wider filter.
func parseQuery(q dto.VotacionQuery) (scope.Query, error) {
	out := scope.Query{Planilla: q.Planilla, Tipo: q.Tipo}
	if q.Desde != "" {
		t, err := time.Parse("2006-01-02", q.Desde)
		if err != nil {
			return out, fmt.Errorf("%w: desde debe ser una fecha YYYY-MM-DD", ErrValidacion)
		}
		out.Desde = &t
	}
	if q.Hasta != "" {
		t, err := time.Parse("2006-01-02", q.Hasta)
		if err != nil {
			return out, fmt.Errorf("%w: hasta debe ser una fecha YYYY-MM-DD", ErrValidacion)
		}
		fin := t.Add(24*time.Hour - time.Nanosecond)
		out.Hasta = &fin
	}
	if q.ProgramaID != "" {
		id, err := uuid.Parse(q.ProgramaID)
		if err != nil {
			return out, fmt.Errorf("%w: programaId no es un UUID", ErrValidacion)
		}
		out.ProgramaID = &id
	}
	if q.SedeID != "" {
		id, err := uuid.Parse(q.SedeID)
		if err != nil {
			return out, fmt.Errorf("%w: sedeId no es un UUID", ErrValidacion)
		}
		out.SedeID = &id
	}
	if q.LeaderID != "" {
		id, err := uuid.Parse(q.LeaderID)
		if err != nil {
			return out, fmt.Errorf("%w: leaderId no es un UUID", ErrValidacion)
		}
		out.LeaderID = &id
	}
	return out, nil
}

// parseUUIDPtr parses an optional string id; empty or invalid yields nil.
func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
