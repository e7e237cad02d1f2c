package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"aperture/pkg/logger"
)

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	redis       *redis.Client
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. redis may be nil when the service
// runs with the in-memory secret store.
func New(log *logger.Logger, redisClient *redis.Client, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		redis:       redisClient,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy" or "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if service is ready to accept traffic
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]ComponentHealth{},
	}

	httpStatus := http.StatusOK
	if h.redis != nil {
		check := h.checkRedis(ctx)
		status.Checks["redis"] = check
		if check.Status != "healthy" {
			status.Status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(status)
}

func (h *Handler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.log.Warnw("redis health check failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Error: err.Error()}
	}
	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: time.Since(start).Round(time.Millisecond).String(),
	}
}
