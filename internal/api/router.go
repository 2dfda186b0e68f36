package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/staffdesk/admin-panel/internal/api/handler"
	"github.com/staffdesk/admin-panel/internal/api/middleware"
	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
	"github.com/staffdesk/admin-panel/internal/core/service"
	"github.com/staffdesk/admin-panel/internal/infrastructure/config"
	mongodb "github.com/staffdesk/admin-panel/internal/infrastructure/db/mongo"
	redisdb "github.com/staffdesk/admin-panel/internal/infrastructure/db/redis"
)

// Deps carries the external resources the router wires together.
type Deps struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Outbox ports.MailOutbox
	Config *config.Config
	Log    zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered. Each role
// partition gets its own route group; the shared handlers are bound to a role
// at registration time.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	repo := mongodb.NewIdentityRepository(deps.DB)
	hasher := service.NewPasswordHasher(deps.Config.BcryptCost)
	tokens := service.NewTokenService(deps.Config.JWTSecret, deps.Config.JWTTTL)
	throttle := redisdb.NewResetThrottle(deps.Redis)

	authService := service.NewAuthService(repo, hasher, tokens, deps.Outbox, throttle, deps.Log)
	directoryService := service.NewDirectoryService(repo, hasher, deps.Outbox, deps.Log)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(directoryService)
	adminHandler := handler.NewAdminHandler(authService, directoryService)
	managerHandler := handler.NewManagerHandler(directoryService)

	authed := middleware.Auth(tokens, repo, deps.Log)
	optionalAuth := middleware.OptionalAuth(tokens, repo, deps.Log)

	// viewers is the set of roles allowed through to the partition's profile
	// routes; ownership checks inside OwnerOrAuthorized narrow it further.
	registerCredentialRoutes := func(g *echo.Group, role domain.Role, viewers ...domain.Role) {
		g.POST("/login", authHandler.Login(role))
		g.POST("/forgot-password", authHandler.ForgotPassword(role))
		g.POST("/reset-password", authHandler.ResetPassword(role))
		g.POST("/request-reset", authHandler.RequestResetToken(role))
		g.PUT("/reset-password/:resettoken", authHandler.ResetPasswordWithToken(role))

		g.POST("/change-password", authHandler.ChangePassword(role), authed, middleware.RBAC(role))

		owner := middleware.OwnerOrAuthorized("id")
		g.GET("/profile/:id", profileHandler.Get(role), authed, middleware.RBAC(viewers...), owner)
		g.PUT("/profile/:id", profileHandler.Update(role), authed, middleware.RBAC(viewers...), owner)
	}

	admins := e.Group("/api/admins")
	registerCredentialRoutes(admins, domain.RoleAdmin, domain.RoleAdmin)
	admins.POST("/register", adminHandler.Register, optionalAuth)

	adminOnly := admins.Group("", authed, middleware.RBAC(domain.RoleAdmin))
	adminOnly.POST("/managers", adminHandler.CreateManager)
	adminOnly.GET("/managers", adminHandler.ListManagers)
	adminOnly.PATCH("/managers/:id/status", adminHandler.ToggleManagerStatus)
	adminOnly.POST("/employees", adminHandler.CreateEmployee)
	adminOnly.GET("/employees", adminHandler.ListEmployees)
	adminOnly.PATCH("/employees/:id/status", adminHandler.ToggleEmployeeStatus)
	adminOnly.GET("/dashboard", adminHandler.DashboardStats)

	managers := e.Group("/api/managers")
	registerCredentialRoutes(managers, domain.RoleManager, domain.RoleManager, domain.RoleAdmin)

	managerOnly := managers.Group("", authed, middleware.RBAC(domain.RoleManager))
	managerOnly.POST("/employees", managerHandler.CreateEmployee)
	managerOnly.GET("/employees", managerHandler.ListEmployees)
	managerOnly.GET("/employees/:id", managerHandler.GetEmployeeByID,
		middleware.CanManageEmployee("id", repo, deps.Log))

	employees := e.Group("/api/employees")
	registerCredentialRoutes(employees, domain.RoleEmployee,
		domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
