package model

import (
	"time"

	"github.com/google/uuid"
)

// Votacion is the central entity: one recorded person/document-number entry
// tied to a leader, program, and voting station.
//
// Duplicate invariant: for every cedula at most one row has IsDuplicate=false
// (the earliest by creation time); all later rows sharing the cedula carry
// IsDuplicate=true and DuplicadaDeID pointing at that first row. Duplicates
// are recorded, never rejected.
type Votacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cedula    string    `gorm:"index;not null"`
	Nombre1   string    `gorm:"not null"`
	Nombre2   *string
	Apellido1 string `gorm:"not null"`
	Apellido2 *string
	Telefono  *string
	Direccion *string
	Barrio    *string

	PuestoVotacionID *uuid.UUID `gorm:"type:uuid;index"`
	LeaderID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	// DigitadorID is set when a data-entry operator, not the leader, typed
	// the row; it drives DIGITADOR-scope visibility.
	DigitadorID      *uuid.UUID `gorm:"type:uuid;index"`
	RecomendadoPorID *uuid.UUID `gorm:"type:uuid"`
	ProgramaID       *uuid.UUID `gorm:"type:uuid;index"`
	SedeID           *uuid.UUID `gorm:"type:uuid"`
	TipoID           *uuid.UUID `gorm:"type:uuid"`
	// EsPago is a denormalized copy of TipoVinculacion.EsPago at capture time.
	EsPago *bool

	// Planilla is the shared batch number assigned on bulk import only.
	Planilla *int `gorm:"index"`

	Activo        bool       `gorm:"not null;default:true"`
	IsDuplicate   bool       `gorm:"not null;default:false"`
	DuplicadaDeID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Leader         *Lider           `gorm:"foreignKey:LeaderID"`
	Digitador      *Usuario         `gorm:"foreignKey:DigitadorID"`
	PuestoVotacion *PuestoVotacion  `gorm:"foreignKey:PuestoVotacionID"`
	Programa       *Programa        `gorm:"foreignKey:ProgramaID"`
	Sede           *SedePrograma    `gorm:"foreignKey:SedeID"`
	Tipo           *TipoVinculacion `gorm:"foreignKey:TipoID"`
	Confirmacion   *Confirmacion    `gorm:"foreignKey:VotacionID"`
}

func (Votacion) TableName() string { return "votaciones" }

// NombreCompleto joins the four name fields, skipping the optional ones.
func (v *Votacion) NombreCompleto() string {
	nombre := v.Nombre1
	if v.Nombre2 != nil && *v.Nombre2 != "" {
		nombre += " " + *v.Nombre2
	}
	nombre += " " + v.Apellido1
	if v.Apellido2 != nil && *v.Apellido2 != "" {
		nombre += " " + *v.Apellido2
	}
	return nombre
}
