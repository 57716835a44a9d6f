package router

import (
	"proact-backend/internal/ai"
	analysissvc "proact-backend/internal/application/analysis"
	commentsvc "proact-backend/internal/application/comments"
	notifsvc "proact-backend/internal/application/notifications"
	projsvc "proact-backend/internal/application/projects"
	reportsvc "proact-backend/internal/application/reports"
	updatesvc "proact-backend/internal/application/updates"
	uploadsvc "proact-backend/internal/application/uploads"
	usersvc "proact-backend/internal/application/user"
	authsvc "proact-backend/internal/auth"
	"proact-backend/internal/config"
	"proact-backend/internal/infrastructure/database"
	analysishandler "proact-backend/internal/interfaces/handlers/analysis"
	authhandler "proact-backend/internal/interfaces/handlers/auth"
	commenthandler "proact-backend/internal/interfaces/handlers/comments"
	healthhandler "proact-backend/internal/interfaces/handlers/health"
	notifhandler "proact-backend/internal/interfaces/handlers/notifications"
	projhandler "proact-backend/internal/interfaces/handlers/projects"
	reporthandler "proact-backend/internal/interfaces/handlers/reports"
	updatehandler "proact-backend/internal/interfaces/handlers/updates"
	uploadhandler "proact-backend/internal/interfaces/handlers/uploads"
	userhandler "proact-backend/internal/interfaces/handlers/users"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with every route wired, plus the DB and
// Redis handles for shutdown.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	classifier := ai.New(cfg.GeminiAPIKey)
	app := Build(cfg, db, rdb, classifier)
	return app, db, rdb, nil
}

// Build wires routes onto a fresh Fiber app from already-initialized
// dependencies. Tests call this directly with an in-memory DB.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, classifier ai.Classifier) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigin: cfg.FrontendURL}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	verifier := &middleware.Verifier{DB: db, Rdb: rdb, Secret: cfg.JWTSecret}
	requireAuth := verifier.RequireAuth()

	var mailer *notifsvc.Mailer
	if cfg.BrevoAPIKey != "" {
		mailer = &notifsvc.Mailer{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
	}
	notifications := &notifsvc.Service{DB: db, Mailer: mailer}

	hh := &healthhandler.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", hh.Check)

	as := &authsvc.Service{DB: db, Secret: cfg.JWTSecret}
	ah := &authhandler.Handlers{Service: as}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", requireAuth, ah.Me)

	us := &usersvc.Service{DB: db, Rdb: rdb}
	uh := &userhandler.Handlers{Service: us}
	userGroup := app.Group("/api/v1/users", requireAuth)
	userGroup.Get("/me", uh.ViewProfile)
	userGroup.Put("/me", uh.UpdateProfile)
	userGroup.Get("/contractors", uh.ListContractors)
	userGroup.Patch("/:userId/role", middleware.RequireRole(constants.RoleAdmin), uh.UpdateRole)

	ps := &projsvc.Service{DB: db}
	ph := &projhandler.Handlers{Service: ps}
	projGroup := app.Group("/api/v1/projects")
	projGroup.Get("/", ph.List)
	projGroup.Post("/", requireAuth, middleware.AuthorizePermission(constants.CreateProject), ph.Create)
	projGroup.Get("/:projectId", ph.Get)
	projGroup.Put("/:projectId", requireAuth, middleware.AuthorizePermission(constants.UpdateProject), ph.Update)
	projGroup.Delete("/:projectId", requireAuth, middleware.AuthorizePermission(constants.DeleteProject), ph.Delete)
	projGroup.Post("/:projectId/like", requireAuth, ph.Like)
	projGroup.Delete("/:projectId/like", requireAuth, ph.Unlike)
	projGroup.Post("/:projectId/dislike", requireAuth, ph.Dislike)
	projGroup.Delete("/:projectId/dislike", requireAuth, ph.Undislike)

	upds := &updatesvc.Service{DB: db, AI: classifier, Notifications: notifications}
	uph := &updatehandler.Handlers{Service: upds}
	projGroup.Get("/:projectId/updates", uph.List)
	projGroup.Post("/:projectId/updates", requireAuth, middleware.AuthorizePermission(constants.PostProjectUpdate), uph.Create)
	projGroup.Put("/:projectId/updates/:updateId", requireAuth, middleware.AuthorizePermission(constants.PostProjectUpdate), uph.Edit)
	projGroup.Delete("/:projectId/updates/:updateId", requireAuth, middleware.AuthorizePermission(constants.PostProjectUpdate), uph.Delete)

	cs := &commentsvc.Service{DB: db}
	ch := &commenthandler.Handlers{Service: cs}
	projGroup.Get("/:projectId/comments", ch.List)
	projGroup.Post("/:projectId/comments", requireAuth, ch.Create)
	app.Delete("/api/v1/comments/:commentId", requireAuth, ch.Delete)

	rs := &reportsvc.Service{DB: db, AI: classifier, Notifications: notifications}
	rh := &reporthandler.Handlers{Service: rs}
	projGroup.Post("/:projectId/reports", requireAuth, rh.Create)
	projGroup.Get("/:projectId/reports", requireAuth, middleware.AuthorizePermission(constants.ManageReportStatus), rh.List)
	app.Get("/api/v1/reports", requireAuth, middleware.AuthorizePermission(constants.ManageReportStatus), rh.ListMine)
	app.Get("/api/v1/reports/:reportId", requireAuth, middleware.AuthorizePermission(constants.ManageReportStatus), rh.Get)
	app.Patch("/api/v1/reports/:reportId/status", requireAuth, middleware.AuthorizePermission(constants.ManageReportStatus), rh.UpdateStatus)

	ans := &analysissvc.Service{DB: db, AI: classifier}
	anh := &analysishandler.Handlers{Service: ans}
	projGroup.Get("/:projectId/analysis", requireAuth, anh.GetProjectAnalysis)
	app.Get("/api/v1/analysis/aggregate", requireAuth, middleware.AuthorizePermission(constants.ViewDashboard), anh.GetAggregateAnalysis)

	sc := &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
	ups := &uploadsvc.Service{Client: sc, SupabaseURL: cfg.SupabaseURL}
	uplh := &uploadhandler.Handlers{Service: ups}
	app.Post("/api/v1/uploads/sign", requireAuth, uplh.Sign)

	nh := &notifhandler.Handlers{Service: notifications}
	notifGroup := app.Group("/api/v1/notifications", requireAuth)
	notifGroup.Get("/", nh.List)
	notifGroup.Patch("/:notificationId/read", nh.MarkRead)

	return app
}
