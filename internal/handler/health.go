package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings postgres and redis and reports per-dependency status.
// Never exposes DSNs or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pgStatus := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			pgStatus = "indisponivel"
		}

		redisStatus := "ok"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "indisponivel"
		}

		status := http.StatusOK
		geral := "ok"
		if pgStatus != "ok" || redisStatus != "ok" {
			status = http.StatusServiceUnavailable
			geral = "degradado"
		}

		c.JSON(status, gin.H{
			"status":   geral,
			"postgres": pgStatus,
			"redis":    redisStatus,
		})
	}
}
