package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/apierror"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

const ActorKey = "actor"

// JWTAuth validates the Bearer token on every protected route and resolves
// the request actor. Role and leader binding are re-read from the user row,
// not trusted from the token: a token issued before a leader assignment (or
// a role change) picks up the current binding on the next request, and a
// deactivated account is rejected even with a live token.
func JWTAuth(auth service.AuthService, usuarios repository.UsuarioRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		claims, err := auth.ValidarToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		u, err := usuarios.FindByID(c.Request.Context(), uid)
		if err != nil || !u.Activo {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Usuario no encontrado o inactivo"))
			return
		}

		c.Set(ActorKey, scope.Actor{
			UserID:   u.ID,
			Username: u.Username,
			Rol:      u.Rol,
			LeaderID: u.LeaderID,
		})
		c.Next()
	}
}

// RequireRole rejects requests whose resolved role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := c.MustGet(ActorKey).(scope.Actor)
		if !ok || !allowed[actor.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetActor retrieves the typed actor from the Gin context.
func GetActor(c *gin.Context) scope.Actor {
	actor, _ := c.MustGet(ActorKey).(scope.Actor)
	return actor
}
