package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Auditoria registra cada modificación de una votación con el snapshot
// completo antes/después. Los registros son inmutables — nunca se eliminan
// ni modifican, incluso si el dato queda sobrescrito por una escritura
// posterior.
type Auditoria struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tabla      string         `gorm:"column:table_name;not null"`
	RecordID   uuid.UUID      `gorm:"type:uuid;index;not null"`
	OldValues  datatypes.JSON `gorm:"type:jsonb"`
	NewValues  datatypes.JSON `gorm:"type:jsonb"`
	ModifiedBy uuid.UUID      `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}

func (Auditoria) TableName() string { return "auditorias" }
