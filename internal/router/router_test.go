package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/service"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)

	activity := service.NewActivityService(db)
	auth := service.NewAuthService(db, "test-secret", 30*time.Minute, activity)

	engine := Setup(Services{
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
	})
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRegisterLoginMealSummaryFlow(t *testing.T) {
	engine, _ := newTestRouter(t)
	token := registerAndLogin(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/meals", token, gin.H{
		"meal_type": "lunch",
		"meal_name": "Chicken salad",
		"calories":  500,
		"protein_g": 40,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/v1/meals/summary/daily", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary struct {
		MealCount     int     `json:"meal_count"`
		TotalCalories float64 `json:"total_calories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.MealCount)
	assert.Equal(t, 500.0, summary.TotalCalories)
}

func TestWeeklyWorkoutSummaryExcludesPreviousWeek(t *testing.T) {
	engine, _ := newTestRouter(t)
	token := registerAndLogin(t, engine, "alice")

	for i := 0; i < 3; i++ {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/workouts", token, gin.H{
			"workout_type":     "running",
			"workout_name":     "Run",
			"duration_minutes": 30,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Ten days back is always before this week's Monday.
	old := time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	w := doJSON(t, engine, http.MethodPost, "/api/v1/workouts", token, gin.H{
		"workout_type":     "cycling",
		"workout_name":     "Old ride",
		"duration_minutes": 120,
		"workout_date":     old,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/v1/workouts/summary/weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary struct {
		WorkoutCount int `json:"workout_count"`
		TotalMinutes int `json:"total_minutes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.WorkoutCount)
	assert.Equal(t, 90, summary.TotalMinutes)
}

func TestRecordInputsRejectUnknownEnumValues(t *testing.T) {
	engine, _ := newTestRouter(t)
	token := registerAndLogin(t, engine, "alice")

	// A typo'd meal_type must not create a fifth meals_by_type bucket.
	w := doJSON(t, engine, http.MethodPost, "/api/v1/meals", token, gin.H{
		"meal_type": "brunch",
		"meal_name": "Pancakes",
		"calories":  400,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/workouts", token, gin.H{
		"workout_type":     "running",
		"workout_name":     "Run",
		"duration_minutes": 30,
		"intensity":        "extreme",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Intensity stays optional.
	w = doJSON(t, engine, http.MethodPost, "/api/v1/workouts", token, gin.H{
		"workout_type":     "running",
		"workout_name":     "Run",
		"duration_minutes": 30,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/v1/meals/summary/daily", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		MealsByType map[string][]json.RawMessage `json:"meals_by_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.MealsByType, 4)
	assert.NotContains(t, summary.MealsByType, "brunch")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/meals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analytics/dashboard", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	engine, _ := newTestRouter(t)
	token := registerAndLogin(t, engine, "alice")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminStatsAndUserManagement(t *testing.T) {
	engine, db := newTestRouter(t)
	_ = registerAndLogin(t, engine, "alice")
	adminToken := registerAndLogin(t, engine, "boss")

	// Promote directly; registration never grants admin.
	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "boss").Update("role", models.RoleAdmin).Error)
	// Re-login to pick up the new role claims.
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "boss", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.Equal(t, models.RoleAdmin, login.Role)
	adminToken = login.AccessToken

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		TotalUsers int64 `json:"total_users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalUsers)

	// Blacklist alice, then verify her login is refused with the reason.
	var alice models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)

	w = doJSON(t, engine, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/users/%d/blacklist", alice.ID), adminToken, gin.H{
			"blacklisted": true,
			"reason":      "policy violation",
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "policy violation")
}

func TestAdminUserDashboardAndActivityClear(t *testing.T) {
	engine, db := newTestRouter(t)
	_ = registerAndLogin(t, engine, "alice")
	_ = registerAndLogin(t, engine, "boss")

	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "boss").Update("role", models.RoleAdmin).Error)
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "boss", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	adminToken := login.AccessToken

	var alice models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)

	w = doJSON(t, engine, http.MethodGet,
		fmt.Sprintf("/api/v1/admin/users/%d/dashboard", alice.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "summary")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/users/99999/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Fresh entries are inside any retention window, so nothing is deleted.
	w = doJSON(t, engine, http.MethodDelete, "/api/v1/admin/activity/clear?days=30", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cleared struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	assert.Equal(t, int64(0), cleared.Deleted)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/admin/activity", adminToken, gin.H{
		"action_type": "UPDATE",
		"entity_type": "user",
		"description": "manual note",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBlacklistedLoginVersusWrongPassword(t *testing.T) {
	engine, db := newTestRouter(t)
	_ = registerAndLogin(t, engine, "alice")

	// Wrong password: generic 401, no detail.
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect username or password")

	// Disabled account: still 401 but a distinct message.
	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "alice").Update("is_active", false).Error)
	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}

func TestDuplicateRegistration(t *testing.T) {
	engine, _ := newTestRouter(t)
	_ = registerAndLogin(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "fresh@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already registered")
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGoalProgressEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	token := registerAndLogin(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/goals", token, gin.H{
		"category":     "water",
		"goal_type":    "daily",
		"target_value": 2000,
		"unit":         "ml",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var goal models.Goal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goal))

	w = doJSON(t, engine, http.MethodPost, "/api/v1/water", token, gin.H{
		"amount_ml": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet,
		fmt.Sprintf("/api/v1/goals/%d/progress", goal.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		CurrentValue float64 `json:"current_value"`
		Percentage   int     `json:"percentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1000.0, report.CurrentValue)
	assert.Equal(t, 50, report.Percentage)
}
