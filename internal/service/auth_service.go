package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
)

// Claims is the JWT payload. LeaderID is a hint only: the auth middleware
// re-resolves it from the user row on every request so tokens issued before
// a leader assignment keep working.
type Claims struct {
	UserID   string  `json:"uid"`
	Username string  `json:"username"`
	Rol      string  `json:"rol"`
	LeaderID *string `json:"leaderId,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ValidarToken(tokenString string) (*Claims, error)
}

type authService struct {
	usuarios  repository.UsuarioRepository
	secret    []byte
	expiresIn time.Duration
}

func NewAuthService(usuarios repository.UsuarioRepository, secret string, expiresIn time.Duration) AuthService {
	return &authService{usuarios: usuarios, secret: []byte(secret), expiresIn: expiresIn}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciales
	}
	if !u.Activo {
		return nil, ErrUsuarioInactivo
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}

	now := time.Now()
	claims := Claims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Rol:      u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	if u.LeaderID != nil {
		lid := u.LeaderID.String()
		claims.LeaderID = &lid
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.expiresIn.Seconds()),
		User:        *usuarioToResponse(u),
	}, nil
}

func (s *authService) ValidarToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
