package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/config"
	"github.com/INGMEGANO/PSPVoteBackend/internal/handler"
	"github.com/INGMEGANO/PSPVoteBackend/internal/middleware"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
	"github.com/INGMEGANO/PSPVoteBackend/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	liderRepo := repository.NewLiderRepository(db)
	votacionRepo := repository.NewVotacionRepository(db)
	puestoRepo := repository.NewPuestoRepository(db)
	programaRepo := repository.NewProgramaRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	dashboardSvc := service.NewDashboardService(votacionRepo, liderRepo, usuarioRepo, puestoRepo, rdb, time.Duration(cfg.DashboardCacheTTL)*time.Second)
	votacionSvc := service.NewVotacionService(votacionRepo, liderRepo, auditoriaRepo, programaRepo, dashboardSvc)
	planillaSvc := service.NewPlanillaService(votacionSvc, votacionRepo, auditoriaRepo, dispatcher)
	liderSvc := service.NewLiderService(liderRepo, usuarioRepo)
	puestoSvc := service.NewPuestoService(puestoRepo, votacionRepo)
	programaSvc := service.NewProgramaService(programaRepo)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, liderRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	votacionesH := handler.NewVotacionesHandler(votacionSvc)
	planillasH := handler.NewPlanillasHandler(planillaSvc)
	lideresH := handler.NewLideresHandler(liderSvc)
	puestosH := handler.NewPuestosHandler(puestoSvc)
	programasH := handler.NewProgramasHandler(programaSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	reportesH := handler.NewReportesHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(authSvc, usuarioRepo)
	todos := middleware.RequireRole(model.RolAdmin, model.RolLider, model.RolDigitador)
	soloAdmin := middleware.RequireRole(model.RolAdmin)
	adminLider := middleware.RequireRole(model.RolAdmin, model.RolLider)

	v1 := r.Group("/v1", jwtMW)
	{
		vot := v1.Group("/votaciones")
		{
			vot.POST("", todos, votacionesH.Crear)
			vot.GET("", todos, votacionesH.Listar)
			vot.GET("/duplicadas", adminLider, votacionesH.ListarDuplicadas)
			vot.GET("/planillas", todos, planillasH.Resumen)
			vot.GET("/planilla/:planilla", todos, planillasH.ListarPorPlanilla)
			vot.GET("/cedula/:cedula", todos, votacionesH.BuscarPorCedula)
			vot.POST("/lote", todos, planillasH.ImportarLote)
			vot.PUT("/lote/:planilla", adminLider, planillasH.ActualizarLote)
			vot.GET("/:id", todos, votacionesH.Obtener)
			vot.PUT("/:id", adminLider, votacionesH.Actualizar)
			vot.PATCH("/:id/estado", adminLider, votacionesH.ToggleEstado)
			vot.DELETE("/:id", adminLider, votacionesH.Desactivar)
			vot.POST("/:id/confirmar", adminLider, votacionesH.Confirmar)
			vot.PATCH("/:id/reasignar", soloAdmin, votacionesH.Reasignar)
			vot.DELETE("/:id/definitivo", soloAdmin, votacionesH.EliminarDefinitivo)
			vot.GET("/:id/duplicadas", adminLider, votacionesH.ListarDuplicadasDe)
		}

		lid := v1.Group("/lideres")
		{
			lid.POST("", soloAdmin, lideresH.Crear)
			lid.GET("", todos, lideresH.Listar)
			lid.POST("/asignar-usuario", soloAdmin, lideresH.AsignarUsuario)
			lid.GET("/:id", todos, lideresH.Obtener)
			lid.PUT("/:id", soloAdmin, lideresH.Actualizar)
			lid.DELETE("/:id", soloAdmin, lideresH.Desactivar)
		}

		pue := v1.Group("/puestos-votacion")
		{
			pue.POST("", soloAdmin, puestosH.Crear)
			pue.GET("", todos, puestosH.Listar)
			pue.GET("/:id", todos, puestosH.Obtener)
			pue.PUT("/:id", soloAdmin, puestosH.Actualizar)
			pue.DELETE("/:id", soloAdmin, puestosH.Eliminar)
		}

		prog := v1.Group("/programas", todos)
		{
			prog.GET("", programasH.Listar)
			prog.GET("/tipos", programasH.Tipos)
			prog.GET("/opciones", programasH.Opciones)
			prog.GET("/:id/sedes", programasH.Sedes)
		}

		usuarios := v1.Group("/usuarios")
		{
			usuarios.POST("", soloAdmin, usuariosH.Crear)
			usuarios.GET("", soloAdmin, usuariosH.Listar)
			usuarios.GET("/:id", todos, usuariosH.Obtener)
			usuarios.PUT("/:id", soloAdmin, usuariosH.Actualizar)
			usuarios.PATCH("/:id/estado", soloAdmin, usuariosH.ToggleEstado)
			usuarios.DELETE("/:id", soloAdmin, usuariosH.Desactivar)
		}

		rep := v1.Group("/reportes", adminLider)
		{
			rep.GET("/dashboard", reportesH.Dashboard)
			rep.GET("/resumen", reportesH.Resumen)
			rep.GET("/detalle", votacionesH.Listar)
			rep.GET("/por-lider", reportesH.PorLider)
			rep.GET("/por-digitador", reportesH.PorDigitador)
			rep.GET("/duplicados", reportesH.Duplicados)
			rep.GET("/pagos", reportesH.Pagos)
			rep.GET("/planillas", planillasH.Resumen)
			rep.GET("/fechas", reportesH.PorFecha)
		}

		ana := v1.Group("/analytics", soloAdmin)
		{
			ana.GET("/registros-por-fecha", reportesH.PorFecha)
			ana.GET("/roles", reportesH.RolesChart)
			ana.GET("/lideres", reportesH.PorLider)
			ana.GET("/puestos", reportesH.PuestosChart)
			ana.GET("/genero", reportesH.GeneroChart)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
