package routes

import (
	"log/slog"
	"net/http"

	"civicreport-be/controllers"
	"civicreport-be/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the route table needs.
type Deps struct {
	Auth        *controllers.AuthController
	Issues      *controllers.IssueController
	Resolver    middlewares.IdentityResolver
	RateLimit   middlewares.RateLimit
	CORSOrigins []string
	Log         *slog.Logger
}

// Setup installs the shared middleware and every route group on r.
func Setup(r *gin.Engine, d Deps) {
	controllers.RegisterValidators()

	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	AuthRoutes(r, d)
	UserRoutes(r, d)
	IssueRoutes(r, d)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middlewares.SessionHeader)
	cfg.ExposeHeaders = []string{middlewares.SessionHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
