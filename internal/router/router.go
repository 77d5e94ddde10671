package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/medq/hospital-api/internal/handler"
	adminhandler "github.com/medq/hospital-api/internal/handler/admin"
	appointmenthandler "github.com/medq/hospital-api/internal/handler/appointment"
	authhandler "github.com/medq/hospital-api/internal/handler/auth"
	doctorhandler "github.com/medq/hospital-api/internal/handler/doctor"
	hospitalhandler "github.com/medq/hospital-api/internal/handler/hospital"
	patienthandler "github.com/medq/hospital-api/internal/handler/patient"
	queuehandler "github.com/medq/hospital-api/internal/handler/queue"
	"github.com/medq/hospital-api/internal/middleware"
	"github.com/medq/hospital-api/internal/model"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authhandler.Handler
	patientH     *patienthandler.Handler
	hospitalH    *hospitalhandler.Handler
	doctorH      *doctorhandler.Handler
	appointmentH *appointmenthandler.Handler
	queueH       *queuehandler.Handler
	adminH       *adminhandler.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	patientH *patienthandler.Handler,
	hospitalH *hospitalhandler.Handler,
	doctorH *doctorhandler.Handler,
	appointmentH *appointmenthandler.Handler,
	queueH *queuehandler.Handler,
	adminH *adminhandler.Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		patientH:     patientH,
		hospitalH:    hospitalH,
		doctorH:      doctorH,
		appointmentH: appointmentH,
		queueH:       queueH,
		adminH:       adminH,
		h:            h,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: 30 * time.Second}),
		middleware.RequestID(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.patientH.RegisterPublicRoutes(rg)
	r.hospitalH.RegisterPublicRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	// Any authenticated caller can browse doctors and watch a queue.
	r.doctorH.RegisterRoutes(rg)
	r.queueH.RegisterRoutes(rg)

	patients := rg.Group("")
	patients.Use(r.auth.RequireRole(model.RolePatient))
	r.patientH.RegisterRoutes(patients)
	r.appointmentH.RegisterPatientRoutes(patients)

	hospitals := rg.Group("")
	hospitals.Use(r.auth.RequireRole(model.RoleHospital))
	r.hospitalH.RegisterRoutes(hospitals)
	r.doctorH.RegisterHospitalRoutes(hospitals)
	r.appointmentH.RegisterHospitalRoutes(hospitals)

	admin := rg.Group("")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// registerValidations extends the binding validator with domain rules so
// bad payloads are rejected before they reach a service.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("specialization", func(fl validator.FieldLevel) bool {
		return model.IsValidSpecialization(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.IsValidRole(model.Role(fl.Field().String()))
	})
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
