package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/katya-aviation/neurofcc/internal/fcc"
	"github.com/katya-aviation/neurofcc/internal/observability"
)

// sessionStatus is the snapshot exposed over HTTP. The core itself is only
// ever touched from the tick loop; the loop publishes into this board and
// the HTTP handlers read from it.
type sessionStatus struct {
	Tick            int                `json:"tick"`
	Mode            fcc.FlightMode     `json:"mode"`
	Healthy         bool               `json:"healthy"`
	Confidence      float64            `json:"confidence"`
	EmergencyActive bool               `json:"emergencyActive"`
	LearningEnabled bool               `json:"learningEnabled"`
	WarningCount    int                `json:"warningCount"`
	RecentWarnings  []string           `json:"recentWarnings,omitempty"`
	LastCommand     fcc.SurfaceCommand `json:"lastCommand"`
	SurfaceHealth   []bool             `json:"surfaceHealth"`
	TS              time.Time          `json:"ts"`
}

type statusBoard struct {
	mu     sync.RWMutex
	status sessionStatus
}

func (b *statusBoard) publish(s sessionStatus) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

func (b *statusBoard) snapshot() sessionStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

var startedAt = time.Now()

func newRouter(logger zerolog.Logger, board *statusBoard) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(startedAt).String(),
			"service": "fccsim",
		})
	})
	r.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, board.snapshot())
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
