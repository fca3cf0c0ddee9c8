package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/config"
	"github.com/vitaltrack/backend/internal/database"
	"github.com/vitaltrack/backend/internal/router"
	"github.com/vitaltrack/backend/internal/service"
)

// Server owns the HTTP listener and the wired service graph.
type Server struct {
	cfg  *config.Config
	db   *gorm.DB
	http *http.Server
}

// New connects the database, builds the services and the route tree. Redis
// and S3 are optional at runtime; their features degrade when absent.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	activity := service.NewActivityService(db)
	auth := service.NewAuthService(db, cfg.JWTSecret,
		time.Duration(cfg.TokenTTLMinutes)*time.Minute, activity)

	services := router.Services{
		Auth:      auth,
		Users:     service.NewUserService(db, activity),
		Workouts:  service.NewWorkoutService(db, activity),
		Meals:     service.NewMealService(db, activity),
		Sleep:     service.NewSleepService(db, activity),
		Water:     service.NewWaterService(db, activity),
		Weight:    service.NewWeightService(db, activity),
		Goals:     service.NewGoalService(db, activity),
		Analytics: service.NewAnalyticsService(db),
		Admin:     service.NewAdminService(db, activity),
		Search:    service.NewSearchService(db),
		Activity:  activity,
	}

	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("redis unavailable, auth rate limiting disabled: %v", err)
	} else {
		services.Redis = redisClient
	}

	if cfg.S3Bucket != "" {
		storage, err := service.NewStorageService(context.Background(), cfg)
		if err != nil {
			log.Printf("s3 unavailable, profile pictures disabled: %v", err)
		} else {
			services.Storage = storage
		}
	}

	engine := router.Setup(services)

	return &Server{
		cfg: cfg,
		db:  db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
