package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerveconnect/clinic-api/internal/middleware"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// VoiceHandler serves the voice-intake endpoints.
type VoiceHandler interface {
	BookAppointment(*gin.Context)
	ParseTranscript(*gin.Context)
}

// PrescriptionHandler serves the prescription endpoints.
type PrescriptionHandler interface {
	ComposePrescription(*gin.Context)
}

type Config struct {
	RateLimitRPS    float64
	RateLimitBurst  int
	GenerativeRPS   float64
	GenerativeBurst int
	RequestTimeout  time.Duration
	CORS            middleware.CORSConfig
}

type Router struct {
	engine        *gin.Engine
	voiceH        VoiceHandler
	prescriptionH PrescriptionHandler
	healthH       Handler
	metrics       *metrics.Metrics
	config        Config
}

func New(
	voiceH VoiceHandler,
	prescriptionH PrescriptionHandler,
	healthH Handler,
	m *metrics.Metrics,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:        gin.New(),
		voiceH:        voiceH,
		prescriptionH: prescriptionH,
		healthH:       healthH,
		metrics:       m,
		config:        config,
	}

	r.engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.Identity(),
		middleware.CORS(config.CORS),
	)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	r.engine.Use(limiter.RateLimit())

	return r
}

// Setup wires all routes. Endpoints that spend an upstream completion per
// call sit behind a second, tighter limiter.
func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	r.healthH.RegisterRoutes(api)

	generative := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   r.config.GenerativeRPS,
		Burst: r.config.GenerativeBurst,
	})

	api.POST("/voice-appointments", r.voiceH.BookAppointment)
	api.POST("/transcripts/parse", generative.RateLimit(), r.voiceH.ParseTranscript)
	api.POST("/clinical-cases/compose", generative.RateLimit(), r.prescriptionH.ComposePrescription)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
