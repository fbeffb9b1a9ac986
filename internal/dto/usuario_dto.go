package dto

type CrearUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Password string  `json:"password" validate:"required,min=6"`
	Rol      string  `json:"rol" validate:"required,oneof=ADMIN LIDER DIGITADOR"`
	LeaderID *string `json:"leaderId"`
}

type ActualizarUsuarioRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Rol      string  `json:"rol" validate:"omitempty,oneof=ADMIN LIDER DIGITADOR"`
	LeaderID *string `json:"leaderId"`
}

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Rol      string  `json:"rol"`
	LeaderID *string `json:"leaderId,omitempty"`
	Activo   bool    `json:"activo"`
}
