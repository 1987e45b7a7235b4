// Package router assembles the HTTP route table.
package router

import (
	"github.com/gin-gonic/gin"

	idhandler "identity_backend/internal/feature/identity/transport/handler"
	platformhandler "identity_backend/internal/platform/http/handler"
	jwtmw "identity_backend/internal/platform/jwt"
	"identity_backend/internal/platform/throttle"
)

// NewRouter wires every endpoint. Authentication attempts pass through
// the login limiter; everything under the authenticated group requires a
// valid bearer token.
func NewRouter(authH *idhandler.AuthHandler, accountH *idhandler.AccountHandler,
	parser jwtmw.TokenParser, limiter throttle.Limiter) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", platformhandler.Health)

	// Credential-bearing endpoints share one attempt budget per client.
	public := r.Group("/")
	public.Use(throttle.Middleware(limiter))
	{
		public.POST("/signup", authH.Signup)
		public.POST("/login", authH.Login)
		public.POST("/password-reset", authH.StartPasswordReset)
		public.POST("/password-reset/confirm", authH.ConfirmPasswordReset)
		public.POST("/verify-email", authH.VerifyEmail)
	}

	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(parser))
	{
		auth.GET("/me", authH.Me)
		auth.GET("/users", accountH.List)
		auth.GET("/users/:id", accountH.Get)
		auth.DELETE("/users/:id", accountH.Delete)
	}

	return r
}
