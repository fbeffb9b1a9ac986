package dto

// CrearVotacionRequest is the registration creation input. Field names match
// the external contract consumed by the capture frontend.
// LIDER/DIGITADOR actors cannot set LeaderID directly (it is derived from
// their own identity); ADMIN must supply it.
type CrearVotacionRequest struct {
	Cedula    string  `json:"cedula" validate:"required"`
	Nombre1   string  `json:"nombre1" validate:"required"`
	Nombre2   *string `json:"nombre2"`
	Apellido1 string  `json:"apellido1" validate:"required"`
	Apellido2 *string `json:"apellido2"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Barrio    *string `json:"barrio"`

	PuestoVotacion   *string `json:"puestoVotacion"`
	LeaderID         *string `json:"leaderId"`
	RecomendadoPorID *string `json:"recommendedById"`
	ProgramaID       *string `json:"programaId"`
	SedeID           *string `json:"sedeId"`
	TipoID           *string `json:"tipoId"`
	EsPago           *bool   `json:"esPago"`
}

// ActualizarVotacionRequest carries a partial update; nil fields are left
// untouched. Every applied update is audited with full snapshots.
type ActualizarVotacionRequest struct {
	Nombre1   *string `json:"nombre1"`
	Nombre2   *string `json:"nombre2"`
	Apellido1 *string `json:"apellido1"`
	Apellido2 *string `json:"apellido2"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Barrio    *string `json:"barrio"`

	PuestoVotacion *string `json:"puestoVotacion"`
	ProgramaID     *string `json:"programaId"`
	SedeID         *string `json:"sedeId"`
	TipoID         *string `json:"tipoId"`
	EsPago         *bool   `json:"esPago"`
}

type ReasignarRequest struct {
	NuevoLiderID string `json:"nuevoLiderId" validate:"required"`
}

type ToggleEstadoRequest struct {
	Observacion *string `json:"observacion"`
}

type ConfirmarRequest struct {
	CodigoVotacion string `json:"codigoVotacion" validate:"required"`
	Imagen         string `json:"imagen" validate:"required"`
}

// VotacionQuery binds the shared list/aggregate query parameters.
type VotacionQuery struct {
	Desde      string `form:"desde"`
	Hasta      string `form:"hasta"`
	Planilla   *int   `form:"planilla"`
	ProgramaID string `form:"programaId"`
	SedeID     string `form:"sedeId"`
	LeaderID   string `form:"leaderId"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
}

type VotacionResponse struct {
	ID        string  `json:"id"`
	Cedula    string  `json:"cedula"`
	Nombre1   string  `json:"nombre1"`
	Nombre2   *string `json:"nombre2,omitempty"`
	Apellido1 string  `json:"apellido1"`
	Apellido2 *string `json:"apellido2,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Barrio    *string `json:"barrio,omitempty"`

	PuestoVotacion *string `json:"puestoVotacion,omitempty"`
	PuestoNombre   string  `json:"puestoNombre,omitempty"`
	LeaderID       string  `json:"leaderId"`
	LiderNombre    string  `json:"liderNombre,omitempty"`
	DigitadorID    *string `json:"digitadorId,omitempty"`
	Digitador      string  `json:"digitador,omitempty"`
	ProgramaID     *string `json:"programaId,omitempty"`
	Programa       string  `json:"programa,omitempty"`
	SedeID         *string `json:"sedeId,omitempty"`
	Sede           string  `json:"sede,omitempty"`
	TipoID         *string `json:"tipoId,omitempty"`
	Tipo           string  `json:"tipo,omitempty"`
	EsPago         *bool   `json:"esPago,omitempty"`

	Planilla      *int    `json:"planilla,omitempty"`
	Activo        bool    `json:"activo"`
	IsDuplicate   bool    `json:"isDuplicate"`
	DuplicadaDeID *string `json:"duplicadaDeId,omitempty"`
	Confirmada    bool    `json:"confirmada"`
	CreatedAt     string  `json:"createdAt"`

	// Advertencia is the non-fatal duplicate warning returned on create.
	Advertencia string `json:"advertencia,omitempty"`
}

type VotacionListResponse struct {
	Data  []VotacionResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int                `json:"pages"`
}
