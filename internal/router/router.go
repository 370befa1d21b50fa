package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/guardtrack/patrol-api/internal/handler"    // import the handlers that implement business logic
	"github.com/guardtrack/patrol-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session (register, login,
	// refresh).  Each of these handlers generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access reuses it.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication.  The handler accepts a JSON
	// body containing a `refresh_token` and invalidates that token.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  All handlers registered on
	// this group execute the JWTAuth middleware before being invoked.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "OFFICER"))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers the hierarchy-management endpoints.  Every route
// in this group requires a valid access token carrying the ADMIN role.
// Companies own sites, sites own areas, areas own patrol points; creation
// and listing of children are nested under the parent resource, while reads,
// renames and deletes address the child directly by id.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	for _, m := range extra {
		g.Use(m)
	}

	// Companies
	g.POST("/companies", h.CreateCompany)
	g.GET("/companies", h.ListCompanies)
	g.GET("/companies/:id", h.GetCompany)
	g.PUT("/companies/:id", h.UpdateCompany)
	// Deleting a company cascades over its sites, areas and points.
	g.DELETE("/companies/:id", h.DeleteCompany)

	// Sites
	g.POST("/companies/:id/sites", h.CreateSite)
	g.GET("/companies/:id/sites", h.ListSites)
	g.GET("/sites", h.ListAllSites)
	g.GET("/sites/:id", h.GetSite)
	g.PUT("/sites/:id", h.UpdateSite)
	g.DELETE("/sites/:id", h.DeleteSite)

	// Areas
	g.POST("/sites/:id/areas", h.CreateArea)
	g.GET("/sites/:id/areas", h.ListAreas)
	g.GET("/areas/:id", h.GetArea)
	g.PUT("/areas/:id", h.UpdateArea)
	g.DELETE("/areas/:id", h.DeleteArea)

	// Points.  The labels sheet route must be registered before the :id
	// routes would otherwise shadow it.
	g.GET("/points/labels.pdf", h.PointLabelsPDF)
	g.POST("/areas/:id/points", h.CreatePoint)
	g.GET("/areas/:id/points", h.ListPoints)
	g.GET("/points/:id", h.GetPoint)
	g.PUT("/points/:id", h.UpdatePoint)
	g.DELETE("/points/:id", h.DeletePoint)
}

// RegisterPatrol registers the officer-facing scan and submission routes.
// Both ADMIN and OFFICER roles may scan and submit.
func RegisterPatrol(e *echo.Echo, h *handler.PatrolHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "OFFICER"))
	for _, m := range extra {
		g.Use(m)
	}

	g.GET("/points/scan/:qrId", h.Scan)
	g.POST("/patrol-logs", h.SubmitLog)
}

// RegisterReports registers the report views, their exports and the admin
// log-correction endpoint.  Both roles may read reports; corrections are
// ADMIN-only.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "OFFICER"))
	for _, m := range extra {
		g.Use(m)
	}

	g.GET("/reports/patrol-logs", h.PatrolLogs)
	g.GET("/reports/patrol-logs.csv", h.PatrolLogsCSV)
	g.GET("/reports/patrol-logs.pdf", h.PatrolLogsPDF)

	adm := e.Group("/v1")
	adm.Use(middleware.JWTAuth(jwtSecret))
	adm.Use(middleware.RequireRole("ADMIN"))
	adm.PUT("/patrol-logs/:id", h.CorrectPatrolLog)
}
