package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	DB          string    `json:"db,omitempty"`
	Redis       string    `json:"redis,omitempty"`
	Persistence string    `json:"persistence,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	backend     string
	db          *pgxpool.Pool
	redis       *redis.Client
}

// NewHealthHandler reports on db and rdb when they are non-nil. backend names the project
// persistence in use (memory, file, redis, postgres).
func NewHealthHandler(serviceName, version, backend string, db *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		backend:     backend,
		db:          db,
		redis:       rdb,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = status(h.db.Ping(pingCtx))
	}
	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = status(h.redis.Ping(pingCtx).Err())
	}

	overall := "healthy"
	if dbStatus == "down" || redisStatus == "down" {
		overall = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:      overall,
		Timestamp:   time.Now().UTC(),
		Service:     h.serviceName,
		Version:     h.version,
		DB:          dbStatus,
		Redis:       redisStatus,
		Persistence: h.backend,
	})
}

func status(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
