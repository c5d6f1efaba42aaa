package router

import (
	"time"

	"enci/internal/config"
	"enci/internal/handler"
	"enci/internal/middleware"
	"enci/internal/model"
	"enci/internal/notify"
	"enci/internal/repository"
	"enci/internal/service"
	"enci/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	grupoRepo := repository.NewGrupoRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	asientoRepo := repository.NewAsientoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into the notifier that enqueues async jobs
	dispatcher := worker.NewDispatcher(rdb)
	notifier := notify.New(notificationRepo, dispatcher)

	authSvc := service.NewAuthService(usuarioRepo, auditRepo, cfg)
	registroSvc := service.NewRegistroService(usuarioRepo, invitationRepo, referralRepo, auditRepo, notifier)
	grupoSvc := service.NewGrupoService(grupoRepo, referralRepo, auditRepo)
	invitationSvc := service.NewInvitationService(invitationRepo, grupoRepo, auditRepo)
	referralSvc := service.NewReferralService(referralRepo, usuarioRepo, auditRepo, notifier)
	perfilSvc := service.NewPerfilService(usuarioRepo, auditRepo, notifier)
	notificationSvc := service.NewNotificationService(notificationRepo)
	asientoSvc := service.NewAsientoService(asientoRepo, auditRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	registroH := handler.NewRegistroHandler(registroSvc)
	gruposH := handler.NewGruposHandler(grupoSvc)
	invitacionesH := handler.NewInvitacionesHandler(invitationSvc)
	referralsH := handler.NewReferralsHandler(referralSvc)
	perfilesH := handler.NewPerfilesHandler(perfilSvc)
	notificacionesH := handler.NewNotificacionesHandler(notificationSvc)
	contabilidadH := handler.NewContabilidadHandler(asientoSvc, asientoRepo, cfg.PDFStoragePath)
	auditoriaH := handler.NewAuditoriaHandler(auditRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public self-registration
	registro := r.Group("/v1/registro", middleware.RegistroRateLimiter())
	{
		registro.POST("/estudiante", registroH.RegistrarEstudiante)
		registro.POST("/docente", registroH.RegistrarDocente)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Docente dashboard — grupos, invitaciones, referrals
		grupos := v1.Group("/grupos", middleware.RequireRole(model.RolDocente))
		{
			grupos.POST("", gruposH.Crear)
			grupos.GET("", gruposH.Listar)
			grupos.PATCH("/:id", gruposH.Actualizar)
			grupos.DELETE("/:id", gruposH.Eliminar)
		}

		invitaciones := v1.Group("/invitaciones", middleware.RequireRole(model.RolDocente))
		{
			invitaciones.POST("", invitacionesH.Crear)
			invitaciones.GET("", invitacionesH.Listar)
			invitaciones.POST("/:id/accion", invitacionesH.Accion)
		}

		referrals := v1.Group("/referrals", middleware.RequireRole(model.RolDocente))
		{
			referrals.GET("", referralsH.Listar)
			referrals.POST("/:id/accion", referralsH.Accion)
		}

		// Admin account administration and audit trail
		perfiles := v1.Group("/perfiles", middleware.RequireRole(model.RolAdmin))
		{
			perfiles.POST("/:id/accion", perfilesH.Accion)
			perfiles.POST("/:id/rol", perfilesH.CambiarRol)
			perfiles.GET("/estudiantes", perfilesH.ListarEstudiantes)
		}
		v1.GET("/auditoria", middleware.RequireRole(model.RolAdmin), auditoriaH.Listar)

		// Notifications — any authenticated user, always self-scoped
		notificaciones := v1.Group("/notificaciones")
		{
			notificaciones.GET("", notificacionesH.Listar)
			notificaciones.GET("/no-leidas", notificacionesH.ContarNoLeidas)
			notificaciones.POST("/:id/leer", notificacionesH.MarcarLeida)
			notificaciones.POST("/leer-todas", notificacionesH.MarcarTodasLeidas)
			notificaciones.DELETE("/:id", notificacionesH.Eliminar)
			notificaciones.DELETE("", notificacionesH.EliminarTodas)
		}

		// Libro diario — docentes record entries, admins too
		contabilidad := v1.Group("/contabilidad", middleware.RequireRole(model.RolDocente, model.RolAdmin))
		{
			contabilidad.POST("/asientos", contabilidadH.Crear)
			contabilidad.GET("/asientos", contabilidadH.Listar)
			contabilidad.GET("/asientos/:id", contabilidadH.Obtener)
			contabilidad.GET("/asientos/:id/pdf", contabilidadH.DescargarPDF)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
