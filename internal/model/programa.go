package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoCorazon is the affiliation-type name that marks unpaid ("heart")
// enrollment. Every other type counts as paid unless its own EsPago flag
// says otherwise. The literal is an external contract with the dashboards.
const TipoCorazon = "CORAZÓN"

// Programa is an outreach program a registration can be attached to.
type Programa struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"uniqueIndex;not null"`
	TieneSedes bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sedes []SedePrograma `gorm:"foreignKey:ProgramaID"`
}

func (Programa) TableName() string { return "programas" }

// SedePrograma is a venue belonging to a Programa with TieneSedes=true.
type SedePrograma struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProgramaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre     string    `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SedePrograma) TableName() string { return "sedes_programa" }

// TipoVinculacion categorizes a registration as paid or unpaid enrollment.
type TipoVinculacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	EsPago    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoVinculacion) TableName() string { return "tipos_vinculacion" }
