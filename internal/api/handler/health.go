package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler serves the liveness probe. It answers 200 as long as the
// process can serve requests at all.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDependenciesHandler serves the readiness probe. The service is ready
// when the identity store and the throttle cache both answer a ping; a
// partial outage reports 503 with the failing dependency named.
type HealthDependenciesHandler struct {
	identityStore *mongo.Database
	throttleCache *redis.Client
}

func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{identityStore: db, throttleCache: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	deps := map[string]dependencyStatus{
		"identity_store": h.check(func() error {
			return h.identityStore.Client().Ping(ctx, nil)
		}),
		"throttle_cache": h.check(func() error {
			return h.throttleCache.Ping(ctx).Err()
		}),
	}

	status, httpStatus := "ok", http.StatusOK
	for _, d := range deps {
		if d.Status != "ok" {
			status, httpStatus = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(httpStatus, readinessResponse{Status: status, Dependencies: deps})
}

func (h *HealthDependenciesHandler) check(ping func() error) dependencyStatus {
	if err := ping(); err != nil {
		return dependencyStatus{Status: "unhealthy", Error: err.Error()}
	}
	return dependencyStatus{Status: "ok"}
}
