package model

import (
	"time"

	"github.com/google/uuid"
)

// Lider represents a campaign recruiter who owns a set of registrations.
// RecomendadoPorID is a self-reference to the leader who recruited this one;
// chains may be arbitrarily deep but must not contain cycles (enforced on
// write by LiderService).
type Lider struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string    `gorm:"index;not null"`
	Telefono         *string
	Direccion        *string
	RecomendadoPorID *uuid.UUID `gorm:"type:uuid;index"`
	Activo           bool       `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	RecomendadoPor  *Lider  `gorm:"foreignKey:RecomendadoPorID"`
	Recomendaciones []Lider `gorm:"foreignKey:RecomendadoPorID"`
}

func (Lider) TableName() string { return "lideres" }
