package model

import (
	"time"

	"github.com/google/uuid"
)

// Acciones registradas en StatusLog.
const (
	AccionActivar    = "ACTIVAR"
	AccionDesactivar = "DESACTIVAR"
)

// StatusLog is the append-only record of activation state transitions.
// Entries are never modified or deleted.
type StatusLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VotacionID  uuid.UUID `gorm:"type:uuid;index;not null"`
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null"`
	Accion      string    `gorm:"type:varchar(20);not null"`
	Observacion *string
	CreatedAt   time.Time
}

func (StatusLog) TableName() string { return "status_logs" }
