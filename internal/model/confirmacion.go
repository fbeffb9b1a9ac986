package model

import (
	"time"

	"github.com/google/uuid"
)

// Confirmacion is the one-shot confirmation sub-state of a Votacion.
// At most one per registration, created once and never overwritten.
// Imagen stores the uploaded-image reference; the file itself lives in an
// external upload store.
type Confirmacion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VotacionID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CodigoVotacion string    `gorm:"not null"`
	Imagen         string    `gorm:"not null"`
	ConfirmadoPorID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time

	ConfirmadoPor *Usuario `gorm:"foreignKey:ConfirmadoPorID"`
}

func (Confirmacion) TableName() string { return "confirmaciones" }
