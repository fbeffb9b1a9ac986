package model

import (
	"time"

	"github.com/google/uuid"
)

// PuestoVotacion is a physical precinct with registered elector counts by
// gender. Total is always recomputed as Mujeres+Hombres at write time; it is
// never accepted from client input.
type PuestoVotacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Puesto    string    `gorm:"index;not null"`
	Municipio string    `gorm:"not null"`
	Comuna    *string
	Mujeres   int `gorm:"not null;default:0"`
	Hombres   int `gorm:"not null;default:0"`
	Total     int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PuestoVotacion) TableName() string { return "puestos_votacion" }

// RecalcularTotal keeps the Total invariant (Total == Mujeres + Hombres).
func (p *PuestoVotacion) RecalcularTotal() { p.Total = p.Mujeres + p.Hombres }
