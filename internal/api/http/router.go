package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
	Roles          *auth.RoleChecker
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	requireAccess := cfg.AuthMiddleware.RequireAccess()
	currentUser := cfg.Roles.CurrentUser()
	adminOnly := cfg.Roles.Require(domain.RoleAdmin)
	catalogWriter := cfg.Roles.Require(domain.RoleAdmin, domain.RoleVendor)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/verify/:token", cfg.Auth.Verify)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", requireAccess, cfg.Auth.Logout)
	authGroup.Get("/refresh_token", cfg.AuthMiddleware.RequireRefresh(), cfg.Auth.Refresh)
	authGroup.Post("/password_reset_request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password_reset_confirm/:token", cfg.Auth.ConfirmPasswordReset)

	users := app.Group("/users", requireAccess)
	users.Get("/self", currentUser, cfg.Users.Self)
	users.Get("/all", adminOnly, cfg.Users.List)
	users.Put("/deactivate", currentUser, cfg.Users.Deactivate)
	users.Put("/reactivate", currentUser, cfg.Users.Reactivate)
	users.Delete("/delete", currentUser, cfg.Users.Delete)
	users.Get("/:id", adminOnly, cfg.Users.Get)
	users.Put("/:id", currentUser, cfg.Users.Update)

	categories := app.Group("/categories")
	categories.Get("/", cfg.Catalog.ListCategories)
	categories.Get("/:id", cfg.Catalog.GetCategory)
	categories.Post("/", requireAccess, catalogWriter, cfg.Catalog.CreateCategory)

	products := app.Group("/products")
	products.Get("/", cfg.Catalog.ListProducts)
	products.Get("/:id", cfg.Catalog.GetProduct)
	products.Post("/", requireAccess, catalogWriter, cfg.Catalog.CreateProduct)
	products.Patch("/:id", requireAccess, catalogWriter, cfg.Catalog.UpdateProduct)
	products.Delete("/:id", requireAccess, catalogWriter, cfg.Catalog.DeleteProduct)
}
