package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/accuaim/accuaim-server/internal/handler"    // handlers implementing the business logic
	"github.com/accuaim/accuaim-server/internal/middleware" // JWT auth, rate limiting and response caching
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; rate limiting is
// applied there because these endpoints do credential work (bcrypt,
// token issuance) and are the natural brute-force target.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	// Register creates the account and returns a token pair in one step.
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// refresh rotates the refresh token; refresh-access only mints a
	// new access token and keeps the refresh token live.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a bearer token;
	// with only a bearer token it revokes every refresh token of the
	// user. It therefore needs no auth middleware of its own.
	g.POST("/logout", a.Logout)
}

// RegisterAPI registers every endpoint that requires a valid access
// token. All handlers on this group run the JWTAuth middleware
// first; ownership of the addressed resources is enforced inside
// the repositories.
func RegisterAPI(
	e *echo.Echo,
	jwtSecret string,
	a *handler.AuthHandler,
	acct *handler.AccountHandler,
	sess *handler.SessionHandler,
	shot *handler.ShotHandler,
	st *handler.StatsHandler,
	cache echo.MiddlewareFunc,
) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Profile and account lifecycle.
	auth.GET("/me", a.Me)
	auth.PUT("/me", acct.UpdateProfile)
	auth.PUT("/me/password", acct.ChangePassword)
	auth.DELETE("/me", acct.DeleteAccount)

	// Practice sessions.
	auth.POST("/sessions", sess.CreateSession)
	auth.GET("/sessions", sess.ListSessions)
	auth.GET("/sessions/:id", sess.GetSession)
	auth.POST("/sessions/:id/finish", sess.FinishSession)
	auth.GET("/sessions/:id/shots", sess.ListSessionShots)

	// Shots are recorded against a block of an open session.
	auth.POST("/blocks/:id/shots", shot.RecordShot)
	auth.GET("/blocks/:id/shots", shot.ListBlockShots)
	auth.GET("/blocks/:id/accuracy", shot.BlockAccuracy)
	auth.DELETE("/shots/:id", shot.RemoveShot)

	// Aggregates. The leaderboard is the one endpoint whose answer is
	// identical for every caller, so it alone gets the response cache.
	auth.GET("/dashboard", st.Dashboard)
	if cache != nil {
		auth.GET("/leaderboard", st.Leaderboard, cache)
	} else {
		auth.GET("/leaderboard", st.Leaderboard)
	}
}
