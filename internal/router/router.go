package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/user-auth-service/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/user-auth-service/internal/middleware" // import middleware for JWT authentication and the verified-email gate
)

// RegisterRoutes registers routes that do not depend on any handler
// state.  Currently it exposes only a health check, which load balancers
// and monitoring systems use to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the local and federated authentication endpoints.
// Public operations (sign-up, sign-in, verification, the OAuth redirect
// and callback pairs) take no middleware; /profile requires a bearer
// token and /reset-password additionally requires the account's email
// to be verified.  /sign-out is public at the routing level because it
// authenticates through the session cookie rather than the
// Authorization header.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o *handler.OAuthHandler, p *handler.ProfileHandler, jwtSecret string, users middleware.UserLoader) {
	// Local flow.
	e.POST("/sign-up", a.SignUp)
	e.POST("/sign-in", a.SignIn)
	e.GET("/verify-email", a.VerifyEmail)
	e.POST("/resend-verification-email", a.ResendVerification)
	e.GET("/sign-out", a.SignOut)

	// Federated flow: redirect step and provider callback for each provider.
	e.GET("/auth/google", o.GoogleLogin)
	e.GET("/auth/google/callback", o.GoogleCallback)
	e.GET("/auth/facebook", o.FacebookLogin)
	e.GET("/auth/facebook/callback", o.FacebookCallback)

	// Bearer-protected endpoints.  The JWTAuth middleware verifies the
	// Authorization header and stores the decoded user id in the context.
	auth := e.Group("", middleware.JWTAuth(jwtSecret))
	auth.GET("/profile", p.GetProfile)
	auth.PUT("/profile", p.UpdateProfile)

	// Password reset also demands a verified email; the secondary gate
	// loads the user row and rejects unverified accounts with 403.
	auth.POST("/reset-password", a.ResetPassword, middleware.RequireVerified(users))
}

// RegisterPublic registers the unauthenticated aggregate endpoints.  The
// optional cache middleware (Redis-backed) short-circuits repeated GETs;
// pass nil to register the routes uncached.
func RegisterPublic(e *echo.Echo, s *handler.StatsHandler, cache echo.MiddlewareFunc) {
	if cache == nil {
		e.GET("/user-statistics", s.UserStatistics)
		e.GET("/dashboard", s.Dashboard)
		return
	}
	e.GET("/user-statistics", s.UserStatistics, cache)
	e.GET("/dashboard", s.Dashboard, cache)
}
