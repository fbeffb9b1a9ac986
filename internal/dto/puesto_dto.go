package dto

// CrearPuestoRequest creates/updates a voting station. Total is never part
// of the input: it is always recomputed from Mujeres+Hombres.
type CrearPuestoRequest struct {
	Puesto    string  `json:"puesto" validate:"required"`
	Municipio string  `json:"municipio" validate:"required"`
	Comuna    *string `json:"comuna"`
	Mujeres   int     `json:"mujeres" validate:"min=0"`
	Hombres   int     `json:"hombres" validate:"min=0"`
}

// PuestoResponse carries the station plus its registration ratios.
// Two denominators answer two different questions: porcentajeSobreVotaciones
// ranks the station against registrations observed so far, while
// porcentajeGeneralReal and porcentajePuesto divide by electoral capacity.
type PuestoResponse struct {
	ID        string  `json:"id"`
	Puesto    string  `json:"puesto"`
	Municipio string  `json:"municipio"`
	Comuna    *string `json:"comuna,omitempty"`
	Mujeres   int     `json:"mujeres"`
	Hombres   int     `json:"hombres"`
	Total     int     `json:"total"`

	TotalVotaciones           int     `json:"totalVotaciones"`
	PorcentajeSobreVotaciones float64 `json:"porcentajeSobreVotaciones"`
	PorcentajeGeneralReal     float64 `json:"porcentajeGeneralReal"`
	PorcentajePuesto          float64 `json:"porcentajePuesto"`
}
