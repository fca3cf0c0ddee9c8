package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vitaltrack/backend/internal/api"
	"github.com/vitaltrack/backend/internal/middleware"
	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/service"
)

// Services bundles everything the route tree needs.
type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Workouts  *service.WorkoutService
	Meals     *service.MealService
	Sleep     *service.SleepService
	Water     *service.WaterService
	Weight    *service.WeightService
	Goals     *service.GoalService
	Analytics *service.AnalyticsService
	Admin     *service.AdminService
	Search    *service.SearchService
	Activity  *service.ActivityService
	Storage   *service.StorageService

	// Redis is optional; without it the credential endpoints run unlimited.
	Redis       *redis.Client
	CORSOrigins []string
}

// Setup wires the full /api/v1 route tree.
func Setup(s Services) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(s.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	var limiter gin.HandlerFunc
	if s.Redis != nil {
		limiter = middleware.NewRateLimiter(s.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     10,
			KeyPrefix: "ratelimit:auth",
		}).Middleware()
	}

	authHandler := api.NewAuthHandler(s.Auth)
	authHandler.RegisterRoutes(v1, limiter)

	protected := v1.Group("")
	protected.Use(middleware.Auth(s.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)
		api.NewProfileHandler(s.Users, s.Storage).RegisterRoutes(protected)
		api.NewWorkoutHandler(s.Workouts).RegisterRoutes(protected)
		api.NewMealHandler(s.Meals).RegisterRoutes(protected)
		api.NewSleepHandler(s.Sleep).RegisterRoutes(protected)
		api.NewWaterHandler(s.Water).RegisterRoutes(protected)
		api.NewWeightHandler(s.Weight).RegisterRoutes(protected)
		api.NewGoalHandler(s.Goals).RegisterRoutes(protected)
		api.NewAnalyticsHandler(s.Analytics).RegisterRoutes(protected)

		adminOnly := protected.Group("")
		adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
		api.NewAdminHandler(s.Users, s.Admin, s.Search, s.Activity, s.Analytics).RegisterRoutes(adminOnly)
	}

	return router
}
