package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func newTestUserService(t *testing.T) (*UserService, *ActivityService, *gorm.DB) {
	db := testhelpers.SetupTestDB(t)
	activity := NewActivityService(db)
	return NewUserService(db, activity), activity, db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	user := &models.User{
		UniqueUserID: "ID-" + username,
		Username:     username, Email: username + "@example.com",
		PasswordHash: "x", Role: role, IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSetRoleValidation(t *testing.T) {
	svc, _, db := newTestUserService(t)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	target := createUser(t, db, "alice", models.RoleUser)

	_, err := svc.SetRole(admin, target.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)

	updated, err := svc.SetRole(admin, target.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestAdminAccountsAreProtected(t *testing.T) {
	svc, _, db := newTestUserService(t)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	otherAdmin := createUser(t, db, "admin2", models.RoleAdmin)

	_, err := svc.SetRole(admin, otherAdmin.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrAdminProtected)

	_, err = svc.SetBlacklist(admin, otherAdmin.ID, true, "test")
	assert.ErrorIs(t, err, ErrAdminProtected)

	err = svc.Delete(admin, otherAdmin.ID)
	assert.ErrorIs(t, err, ErrAdminProtected)

	// Still intact.
	var check models.User
	require.NoError(t, db.First(&check, otherAdmin.ID).Error)
	assert.Equal(t, models.RoleAdmin, check.Role)
	assert.False(t, check.IsBlacklisted)
}

func TestSetBlacklistStampsReasonAndTime(t *testing.T) {
	svc, _, db := newTestUserService(t)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	target := createUser(t, db, "alice", models.RoleUser)

	before := time.Now().Add(-time.Second)
	updated, err := svc.SetBlacklist(admin, target.ID, true, "spamming")
	require.NoError(t, err)

	assert.True(t, updated.IsBlacklisted)
	require.NotNil(t, updated.BlacklistReason)
	assert.Equal(t, "spamming", *updated.BlacklistReason)
	require.NotNil(t, updated.BlacklistedAt)
	assert.True(t, updated.BlacklistedAt.After(before))

	// Clearing resets both fields.
	cleared, err := svc.SetBlacklist(admin, target.ID, false, "")
	require.NoError(t, err)
	assert.False(t, cleared.IsBlacklisted)
	assert.Nil(t, cleared.BlacklistReason)
	assert.Nil(t, cleared.BlacklistedAt)
}

func TestDeleteUserRemovesRecordsKeepsAudit(t *testing.T) {
	svc, activity, db := newTestUserService(t)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	target := createUser(t, db, "alice", models.RoleUser)

	require.NoError(t, db.Create(&models.Workout{
		UserID: target.ID, WorkoutType: "running", WorkoutName: "Run",
		DurationMinutes: 30, WorkoutDate: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Meal{
		UserID: target.ID, MealType: models.MealLunch, MealName: "Salad",
		Calories: 400, MealDate: time.Now(),
	}).Error)

	tid := target.ID
	_, err := activity.Record(&tid, target.Username, models.ActionCreate, "workout", nil, "Logged workout", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(admin, target.ID))

	var workouts, meals int64
	db.Model(&models.Workout{}).Where("user_id = ?", target.ID).Count(&workouts)
	db.Model(&models.Meal{}).Where("user_id = ?", target.ID).Count(&meals)
	assert.Zero(t, workouts)
	assert.Zero(t, meals)

	_, err = svc.Get(target.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The audit row survives with a nulled user_id and the username snapshot.
	var logs []models.ActivityLog
	require.NoError(t, db.Where("username = ?", "alice").Find(&logs).Error)
	require.NotEmpty(t, logs)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, "alice", logs[0].Username)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, db := newTestUserService(t)
	target := createUser(t, db, "alice", models.RoleUser)

	height := 170.0
	first := "Alice"
	updated, err := svc.UpdateProfile(target, target.ID, ProfileUpdate{
		FirstName: &first,
		HeightCm:  &height,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", updated.FirstName)
	require.NotNil(t, updated.HeightCm)
	assert.Equal(t, 170.0, *updated.HeightCm)
	// Untouched fields keep their values.
	assert.Equal(t, "alice", updated.Username)
}
