package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles fijos del sistema. Los nombres son contrato externo (claims JWT,
// respuestas de analytics) y no deben cambiarse.
const (
	RolAdmin     = "ADMIN"
	RolLider     = "LIDER"
	RolDigitador = "DIGITADOR"
)

// Usuario stores system actors with role-based access.
// Rol: "ADMIN" | "LIDER" | "DIGITADOR"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	// LeaderID links a LIDER-role user to the Lider it represents; nil for
	// ADMIN and DIGITADOR users.
	LeaderID  *uuid.UUID `gorm:"type:uuid;index"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Leader *Lider `gorm:"foreignKey:LeaderID"`
}

func (Usuario) TableName() string { return "usuarios" }
