package service

import "errors"

// Sentinel errors shared by all services. Handlers map them onto HTTP
// statuses; nothing below the handler layer knows about status codes.
var (
	ErrNoEncontrada       = errors.New("registro no encontrado")
	ErrNoAutorizado       = errors.New("no autorizado")
	ErrYaConfirmada       = errors.New("la votación ya fue confirmada")
	ErrValidacion         = errors.New("error de validación")
	ErrLiderNoExiste      = errors.New("el líder no existe")
	ErrCicloRecomendacion = errors.New("la recomendación crearía un ciclo")
	ErrCredenciales       = errors.New("credenciales inválidas")
	ErrUsuarioInactivo    = errors.New("el usuario está inactivo")
	ErrYaExiste           = errors.New("el registro ya existe")
)
