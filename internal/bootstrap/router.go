package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/GoSim-25-26J-441/swc-studio-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/arxml"
	autosarhttp "github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/http"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/lifecycle"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Backend     string
	CORSOrigins []string
	RateRPS     float64
	RateBurst   int

	Manager *lifecycle.Manager
	Archive autosarhttp.ExportArchive // nil disables /exports
	DB      *pgxpool.Pool
	Redis   *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(dep.RateRPS, dep.RateBurst).Middleware())

	projects := autosarhttp.New(dep.Manager, arxml.NewExporter(), dep.Archive)
	projects.Register(api.Group("/projects"))

	return r
}

// corsConfig allows any origin when none are configured; credentials are only sent to listed ones.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id", "X-Export-Id", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
