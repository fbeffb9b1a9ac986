package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

const testSecret = "clave-de-prueba"

func buildAuthSvc(t *testing.T) (service.AuthService, *model.Usuario) {
	t.Helper()
	usuarioRepo := newStubUsuarioRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     "maria",
		PasswordHash: string(hash),
		Rol:          model.RolAdmin,
		Activo:       true,
	}
	require.NoError(t, usuarioRepo.Create(context.Background(), u))
	return service.NewAuthService(usuarioRepo, testSecret, time.Hour), u
}

func TestLogin_EmiteTokenValido(t *testing.T) {
	svc, u := buildAuthSvc(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "maria", resp.User.Username)

	claims, err := svc.ValidarToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, model.RolAdmin, claims.Rol)
}

func TestLogin_ClaveIncorrecta(t *testing.T) {
	svc, _ := buildAuthSvc(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestLogin_UsuarioDesconocido(t *testing.T) {
	svc, _ := buildAuthSvc(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreta123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	usuarioRepo := newStubUsuarioRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: "baja", PasswordHash: string(hash), Rol: model.RolDigitador, Activo: false}
	require.NoError(t, usuarioRepo.Create(context.Background(), u))
	svc := service.NewAuthService(usuarioRepo, testSecret, time.Hour)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "baja", Password: "secreta123"})
	assert.ErrorIs(t, err, service.ErrUsuarioInactivo)
}

func TestValidarToken_FirmaAjenaRechazada(t *testing.T) {
	svc, _ := buildAuthSvc(t)

	usuarioRepo := newStubUsuarioRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, usuarioRepo.Create(context.Background(), &model.Usuario{
		Username: "maria", PasswordHash: string(hash), Rol: model.RolAdmin, Activo: true,
	}))
	otro := service.NewAuthService(usuarioRepo, "otro-secreto", time.Hour)

	resp, err := otro.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreta123"})
	require.NoError(t, err)

	_, err = svc.ValidarToken(resp.AccessToken)
	assert.Error(t, err)
}

func TestValidarToken_BasuraRechazada(t *testing.T) {
	svc, _ := buildAuthSvc(t)

	_, err := svc.ValidarToken("no-es-un-jwt")
	assert.Error(t, err)
}
