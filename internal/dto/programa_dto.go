package dto

type ProgramaResponse struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	TieneSedes bool   `json:"tieneSedes"`
}

type SedeResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// OpcionPrograma is one selectable programa/sede/tipo combination used by
// data-entry forms. Programs without venues yield one option per tipo;
// programs with venues yield the full sede×tipo cartesian.
type OpcionPrograma struct {
	Label             string  `json:"label"`
	ProgramaID        string  `json:"programaId"`
	SedeID            *string `json:"sedeId"`
	TipoVinculacionID string  `json:"tipoVinculacionId"`
	EsPago            bool    `json:"esPago"`
}
