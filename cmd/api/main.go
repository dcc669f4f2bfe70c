package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recordbook/internal/auth"
	"recordbook/internal/config"
	"recordbook/internal/handler"
	"recordbook/internal/httpmiddleware"
	"recordbook/internal/metrics"
	"recordbook/internal/store"
	"recordbook/internal/student"
	"recordbook/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func run(cfg config.App) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.NewDB(ctx, cfg.DatabaseURL, store.Options{
		MaxOpenConns:    cfg.DBMaxConns,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxIdleTime: cfg.DBIdleTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx, db.Client); err != nil {
		return err
	}

	users := user.NewRepository(db.Client)
	authSvc := auth.NewService(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	students := student.NewService(student.NewRepository(db.Client))
	h := handler.New(authSvc, students, users)

	if cfg.JWTSecret == "" {
		log.Println("warning: JWT_SECRET not set; token issuance will fail until it is configured")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.RequestID())
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(metrics.GinMiddleware())
	r.Use(requestTimeout(cfg.QueryTimeout))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if !db.Healthy(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": true})
	})

	authRoutes := r.Group("/auth")
	authRoutes.POST("/login", h.Login)
	authRoutes.POST("/logout", h.Logout)
	authRoutes.GET("/verify", h.Verify)
	authRoutes.POST("/register", h.Register)

	api := r.Group("/api", auth.Middleware(authSvc))
	api.GET("/me", h.Me)
	api.GET("/students", h.ListStudents)
	api.POST("/students", h.CreateStudent)
	api.GET("/students/:id", h.GetStudent)
	api.PUT("/students/:id", h.UpdateStudent)
	api.DELETE("/students/:id", h.DeleteStudent)
	api.GET("/students/:id/attendance", h.StudentAttendance)
	api.GET("/attendance", h.ListAttendance)
	api.POST("/attendance", h.MarkAttendance)
	api.PUT("/attendance/:id", h.UpdateAttendance)
	api.DELETE("/attendance/:id", h.DeleteAttendance)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// requestTimeout bounds store waits per request: under pool exhaustion the
// deadline fires instead of queueing indefinitely.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = 5 * time.Second
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
