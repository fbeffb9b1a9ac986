package dto

// Dashboard response shapes. Field names are an external contract consumed
// by the reporting/export collaborator and must remain stable.

// PagoResumen is one half of the paid/unpaid split.
type PagoResumen struct {
	EsPago     bool    `json:"esPago"`
	Total      int     `json:"total"`
	Porcentaje float64 `json:"porcentaje"`
}

// GrupoResumen is the common breakdown row shape. All percentage fields in
// the dashboard use the overall total as denominator so that every row is
// comparable on one base.
type GrupoResumen struct {
	Pago   int `json:"pago"`
	NoPago int `json:"noPago"`
	Total  int `json:"total"`

	PorcentajePago   float64 `json:"porcentajePago"`
	PorcentajeNoPago float64 `json:"porcentajeNoPago"`
	PorcentajeTotal  float64 `json:"porcentajeTotal"`
}

type LiderResumen struct {
	Lider string `json:"lider"`
	GrupoResumen
}

type ProgramaResumen struct {
	Programa string `json:"programa"`
	GrupoResumen
}

type PuestoResumen struct {
	PuestoVotacion string `json:"puestoVotacion"`
	GrupoResumen
}

type TipoResumen struct {
	Tipo       string  `json:"tipo"`
	Total      int     `json:"total"`
	Porcentaje float64 `json:"porcentaje"`
}

type DashboardResponse struct {
	TotalVotaciones int               `json:"totalVotaciones"`
	Pagos           []PagoResumen     `json:"pagos"`
	PorLider        []LiderResumen    `json:"porLider"`
	PorPrograma     []ProgramaResumen `json:"porPrograma"`
	PorPuesto       []PuestoResumen   `json:"porPuestoVotacion"`
	PorTipo         []TipoResumen     `json:"porTipo"`
}

// ResumenResponse mirrors DashboardResponse but its per-group percentages
// divide by the group subtotal instead of the overall total.
type ResumenResponse struct {
	Total       int               `json:"total"`
	Pagos       PagosResumenTotal `json:"pagos"`
	PorLider    []LiderResumen    `json:"porLider"`
	PorPrograma []ProgramaResumen `json:"porPrograma"`
	PorPuesto   []PuestoResumen   `json:"porPuesto"`
}

type PagosResumenTotal struct {
	Pago             int     `json:"pago"`
	NoPago           int     `json:"noPago"`
	PorcentajePago   float64 `json:"porcentajePago"`
	PorcentajeNoPago float64 `json:"porcentajeNoPago"`
}

// ConteoSimple is a generic {clave, total, porcentaje} row used by the
// per-leader / per-digitizer / per-date group-bys.
type ConteoSimple struct {
	Clave      string  `json:"clave"`
	Total      int64   `json:"total"`
	Porcentaje float64 `json:"porcentaje"`
}

type FechaResumen struct {
	Fecha      string  `json:"date"`
	Total      int64   `json:"count"`
	Porcentaje float64 `json:"percentage"`
}

type DuplicadosResumen struct {
	TotalDuplicados int64          `json:"totalDuplicados"`
	Porcentaje      float64        `json:"porcentaje"`
	PorLider        []ConteoSimple `json:"porLider"`
}

// Analytics chart rows (roles, género).
type RolChart struct {
	Nombre     string  `json:"name"`
	Total      int64   `json:"count"`
	Porcentaje float64 `json:"percentage"`
}

type GeneroChart struct {
	Genero     string  `json:"gender"`
	Total      int     `json:"count"`
	Porcentaje float64 `json:"percentage"`
}
