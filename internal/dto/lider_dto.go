package dto

type CrearLiderRequest struct {
	Nombre           string  `json:"name" validate:"required"`
	Telefono         *string `json:"phone"`
	Direccion        *string `json:"address"`
	RecomendadoPorID *string `json:"recommendedById"`
	// UserID optionally links an existing user account to the new leader.
	UserID *string `json:"userId"`
}

type ActualizarLiderRequest struct {
	Nombre           string  `json:"name"`
	Telefono         *string `json:"phone"`
	Direccion        *string `json:"address"`
	RecomendadoPorID *string `json:"recommendedById"`
}

type AsignarUsuarioRequest struct {
	UserID   string `json:"userId" validate:"required"`
	LeaderID string `json:"leaderId" validate:"required"`
}

type LiderResponse struct {
	ID               string  `json:"id"`
	Nombre           string  `json:"name"`
	Telefono         *string `json:"phone,omitempty"`
	Direccion        *string `json:"address,omitempty"`
	RecomendadoPorID *string `json:"recommendedById,omitempty"`
	RecomendadoPor   string  `json:"recommendedBy,omitempty"`
	Activo           bool    `json:"activo"`
	TotalVotaciones  int64   `json:"totalVotaciones,omitempty"`
}
