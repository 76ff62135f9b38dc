package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/recovery"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/auth"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// Dependencies are the process wide handles built once at startup. The
// caller owns them and closes them on shutdown.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer mailer.Sender
	Audit  *audit.Dispatcher
	Logger zerolog.Logger

	// Storage is nil when avatar uploads are disabled.
	Storage storage.Uploader
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	loc := cfg.Location()

	validators.Register()

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)
	userRepo := infraRepo.NewUserGormRepository(deps.DB)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	notifier := notification.NewService(deps.DB, deps.Logger)
	recoveryStore := recovery.NewStore(deps.Redis, cfg.RecoveryCodeTTL)

	var emailDomainOK func(string) bool
	if cfg.CheckEmailDomain {
		emailDomainOK = validators.IsEmailDomainValid
	}

	// ======================================================
	// 🧠 USE CASES - AUTH
	// ======================================================
	registerUC := ucAuth.NewRegister(userRepo, tokens, notifier, deps.Audit, emailDomainOK)
	loginUC := ucAuth.NewLogin(userRepo, tokens)
	recoveryUC := ucAuth.NewRecovery(userRepo, recoveryStore, deps.Mailer, deps.Audit, cfg.ResetRequiresCode)

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	bookAppointmentUC := ucAppointment.NewBookAppointment(appointmentRepo, notifier, deps.Audit, loc)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, notifier, deps.Audit, loc)
	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, notifier, deps.Audit, loc)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(appointmentRepo, deps.Audit)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, loc)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	recentPatientsUC := ucAppointment.NewListRecentPatients(appointmentRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(deps.DB, cfg.Env)
	authHandler := handlers.NewAuthHandler(registerUC, loginUC, recoveryUC)
	meHandler := handlers.NewMeHandler(userRepo)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookAppointmentUC,
		updateAppointmentUC,
		updateStatusUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		getAppointmentUC,
		loc,
	)

	professionalHandler := handlers.NewProfessionalHandler(userRepo, recentPatientsUC, deps.Storage)
	patientHandler := handlers.NewPatientHandler(userRepo)
	unitHandler := handlers.NewUnitHandler(deps.DB, deps.Audit)
	prescriptionHandler := handlers.NewPrescriptionHandler(deps.DB)
	notificationHandler := handlers.NewNotificationHandler(notifier, userRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, loc)

	adminOnly := middleware.RequireRole(models.RoleAdministrator)

	// ======================================================
	// 🌐 ROTAS PÚBLICAS
	// ======================================================
	r.GET("/health", healthHandler.Health)

	authAPI := r.Group("/auth")
	authAPI.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	{
		// Administrators may create other administrators here.
		authAPI.POST("/register", middleware.OptionalAuth(tokens), authHandler.Register)
		authAPI.POST("/login", authHandler.Login)
		authAPI.POST("/forgot-password", authHandler.ForgotPassword)
		authAPI.POST("/verify-code", authHandler.VerifyCode)
		authAPI.POST("/reset-password", authHandler.ResetPassword)
	}

	// ======================================================
	// 🔐 ROTAS PRIVADAS
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(tokens))
	{
		secured.GET("/me", meHandler.GetMe)
		secured.PUT("/me", meHandler.UpdateMe)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.GET("/appointments", appointmentHandler.List)
		secured.POST("/appointments", appointmentHandler.Create)
		secured.GET("/appointments/:id", appointmentHandler.Get)
		secured.PUT("/appointments/:id", appointmentHandler.Update)
		secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		secured.DELETE("/appointments/:id", appointmentHandler.Delete)

		// ------------------------------
		// PROFESSIONALS / PATIENTS
		// ------------------------------
		secured.GET("/professionals", professionalHandler.List)
		secured.GET("/professionals/:id", professionalHandler.Get)
		secured.GET("/professionals/:id/recent-patients", professionalHandler.RecentPatients)
		secured.PUT("/professionals/:id/avatar", professionalHandler.UploadAvatar)
		secured.GET("/specialties", professionalHandler.Specialties)
		secured.GET("/patients", patientHandler.List)

		// ------------------------------
		// UNITS
		// ------------------------------
		secured.GET("/units", unitHandler.List)
		secured.GET("/units/:id", unitHandler.Get)
		secured.POST("/units", adminOnly, unitHandler.Create)
		secured.PUT("/units/:id", adminOnly, unitHandler.Update)
		secured.DELETE("/units/:id", adminOnly, unitHandler.Delete)

		// ------------------------------
		// PRESCRIPTIONS / NOTIFICATIONS
		// ------------------------------
		secured.GET("/prescriptions", prescriptionHandler.List)

		secured.GET("/notifications", notificationHandler.List)
		secured.POST("/notifications", notificationHandler.Create)
		secured.POST("/notifications/read", notificationHandler.MarkRead)

		secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
	}
}
