package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/velizarh/taskboard/internal/handler"
	"github.com/velizarh/taskboard/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires up the authentication endpoints.  Register and login
// are open (extra may hold e.g. the rate limiter to slow brute-force
// attempts); /auth/me requires a valid bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/auth", extra...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterTasks wires up the task CRUD endpoints.  Every route requires a
// valid bearer token; the JWTAuth middleware runs first so any extra
// middleware (rate limiting, caching) can key off the resolved user.
func RegisterTasks(e *echo.Echo, t *handler.TaskHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/tasks", middleware.JWTAuth(jwtSecret))
	g.Use(extra...)
	g.GET("", t.List)
	g.POST("", t.Create)
	g.GET("/:id", t.Get)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
}
