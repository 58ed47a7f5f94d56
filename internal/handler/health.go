package handler

import (
	"net/http"

	"fast-zero/internal/api"
	"fast-zero/internal/cache"
	"fast-zero/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthResponse 健康檢查回應模型
// swagger:model handler.HealthResponse
type HealthResponse struct {
	Message string `json:"message" example:"ok"`
}

// @Summary     Health check
// @Description 檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /health [get]
func HealthHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "database unhealthy"})
		}
		if err := rdb.Get(ctx, "health").Err(); err != nil && err != redis.Nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, HealthResponse{Message: "ok"})
	}
}
