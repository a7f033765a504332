package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports readiness of the three dependencies a purchase upload
// touches: the purchase store, the summary cache, and the attachment
// directory. Any degraded dependency flips the response to 503 so a load
// balancer stops routing traffic here; the per-check detail says which one
// without exposing connection strings or driver errors.
func Health(db *gorm.DB, rdb *redis.Client, store *infra.AttachmentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{
			"database": "up",
			"redis":    "up",
			"storage":  "up",
		}
		healthy := true

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			healthy = false
		}
		if rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
			healthy = false
		}
		if store.Writable() != nil {
			checks["storage"] = "down"
			healthy = false
		}

		status := http.StatusOK
		overall := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks})
	}
}
