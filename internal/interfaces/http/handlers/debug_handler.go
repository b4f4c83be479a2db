package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DebugHandler serves lightweight runtime introspection endpoints, the
// survivors of the teacher's debug surface once its agent/plugin-specific
// endpoints (agent state, tool-call history, plugin list) no longer have
// an analog in this domain.
type DebugHandler struct {
	logger *zap.Logger
}

// NewDebugHandler creates a DebugHandler.
func NewDebugHandler(logger *zap.Logger) *DebugHandler {
	return &DebugHandler{logger: logger}
}

// GetRuntime reports process-level runtime stats.
// GET /v1/debug/runtime
func (h *DebugHandler) GetRuntime(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.JSON(http.StatusOK, gin.H{
		"go_version":    runtime.Version(),
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
			"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
			"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
			"num_gc":         memStats.NumGC,
		},
		"timestamp": time.Now().Unix(),
	})
}

// TriggerGC forces a garbage-collection pass, useful when diagnosing a
// bundle reload's memory footprint.
// POST /v1/debug/gc
func (h *DebugHandler) TriggerGC(c *gin.Context) {
	before := runtime.NumGoroutine()
	runtime.GC()
	after := runtime.NumGoroutine()

	c.JSON(http.StatusOK, gin.H{
		"message":           "GC triggered",
		"goroutines_before": before,
		"goroutines_after":  after,
	})
}

// RegisterDebugRoutes mounts the debug endpoints under router.
func RegisterDebugRoutes(router *gin.RouterGroup, handler *DebugHandler) {
	debug := router.Group("/debug")
	{
		debug.GET("/runtime", handler.GetRuntime)
		debug.POST("/gc", handler.TriggerGC)
	}
}
