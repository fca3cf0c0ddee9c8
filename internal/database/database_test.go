package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func TestMigrateCreatesSchemaOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	for _, table := range []string{
		"users", "workouts", "meals", "sleep_records",
		"water_intakes", "weight_logs", "goals", "activity_logs",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestPostgresEnforcesUniqueUsers(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	user := models.User{
		UniqueUserID: "ID-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	dupUsername := models.User{
		UniqueUserID: "ID-2",
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	assert.Error(t, db.Create(&dupUsername).Error)

	dupEmail := models.User{
		UniqueUserID: "ID-3",
		Username:     "alice2",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	assert.Error(t, db.Create(&dupEmail).Error)
}
