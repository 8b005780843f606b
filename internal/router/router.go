package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/taskhub/taskhub-api/internal/handler"    // handlers implementing the endpoint logic
	"github.com/taskhub/taskhub-api/internal/middleware" // request gate and rate limiter
)

// Register wires every route of the service onto the Echo instance.  The
// request gate (middleware.Authenticate) is installed globally by main, so
// routes here only decide whether an established identity is required.
//
// The auth group carries the rate limiter: sign-in and the reset-code flow
// are the endpoints an attacker can grind, so the token bucket sits in
// front of all of them.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, t *handler.TaskHandler, limiter echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public auth endpoints under /api/auth.  These match the request
	// gate's allow-list, so no bearer token is processed for them.
	g := e.Group("/api/auth", limiter)
	g.POST("/sign-up", a.SignUp)
	g.POST("/sign-in", a.SignIn)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/verify-reset-code", a.VerifyResetCode)
	// The bare auth root answers 404 with a stable body instead of the
	// framework's default page.
	g.POST("", a.AuthRoot)

	// Everything below requires the gate to have established an identity.
	api := e.Group("/api", middleware.RequireUser())

	api.GET("/users/me", u.Me)
	api.PUT("/users/me", u.UpdateMe)

	api.POST("/tasks", t.Create)
	api.GET("/tasks", t.List)
	api.GET("/tasks/:id", t.Get)
	api.PUT("/tasks/:id", t.Update)
	api.DELETE("/tasks/:id", t.Delete)
}
