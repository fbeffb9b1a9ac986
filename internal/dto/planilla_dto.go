package dto

// ImportarLoteRequest is the bulk import payload: an array of registration
// rows that all receive the same planilla number. The digitizer is implicit
// (the acting user).
type ImportarLoteRequest struct {
	Filas []CrearVotacionRequest `json:"filas" validate:"required,min=1,dive"`
}

// FilaResultado reports the outcome of one imported row. Exactly one of
// RecordID or Error is set.
type FilaResultado struct {
	Cedula      string `json:"cedula"`
	RecordID    string `json:"recordId,omitempty"`
	Error       string `json:"error,omitempty"`
	Planilla    int    `json:"planilla"`
	IsDuplicate bool   `json:"isDuplicate"`
}

// ImportarLoteResponse is the structured batch summary. The batch always
// completes; per-row outcomes are reported individually. When the context is
// cancelled mid-import, Procesadas counts the rows committed before the cut.
type ImportarLoteResponse struct {
	Planilla   int             `json:"planilla"`
	Total      int             `json:"total"`
	Creadas    int             `json:"creadas"`
	Errores    int             `json:"errores"`
	Duplicadas int             `json:"duplicadas"`
	Procesadas int             `json:"procesadas"`
	Resultados []FilaResultado `json:"resultados"`
}

// ActualizarLoteRequest updates rows of one planilla keyed by cedula.
type ActualizarLoteRequest struct {
	Filas []ActualizarFilaLote `json:"filas" validate:"required,min=1,dive"`
}

type ActualizarFilaLote struct {
	Cedula string                    `json:"cedula" validate:"required"`
	Campos ActualizarVotacionRequest `json:"campos"`
}

type ActualizarFilaResultado struct {
	Cedula    string `json:"cedula"`
	Afectadas int64  `json:"afectadas"`
	Error     string `json:"error,omitempty"`
}

type ActualizarLoteResponse struct {
	Planilla   int                       `json:"planilla"`
	Resultados []ActualizarFilaResultado `json:"resultados"`
}

// PlanillaResumen is one row of the planillas group-by.
type PlanillaResumen struct {
	Planilla int   `json:"planilla"`
	Total    int64 `json:"total"`
}
