package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the service and its dependencies
type HealthHandler struct {
	db    *sql.DB
	redis *goredis.Client
}

func NewHealthHandler(db *sql.DB, redisClient *goredis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health checks the database and the counter store. A degraded counter
// store still reports 200 because validation fails open without it.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	overall := "ok"
	status := http.StatusOK

	dbStatus := "ok"
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			dbStatus = "down"
			overall = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	redisStatus := "ok"
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "degraded"
		}
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
