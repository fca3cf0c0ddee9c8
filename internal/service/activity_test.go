package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func TestActivityListFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewActivityService(db)

	uid := uint(1)
	_, err := svc.Record(&uid, "alice", models.ActionCreate, "workout", nil, "Logged workout", "")
	require.NoError(t, err)
	_, err = svc.Record(&uid, "alice", models.ActionDelete, "workout", nil, "Deleted workout", "")
	require.NoError(t, err)
	other := uint(2)
	_, err = svc.Record(&other, "bob", models.ActionCreate, "meal", nil, "Logged meal", "")
	require.NoError(t, err)

	byAction, err := svc.List(ActivityFilter{ActionType: models.ActionCreate})
	require.NoError(t, err)
	assert.Len(t, byAction, 2)

	byEntity, err := svc.List(ActivityFilter{EntityType: "meal"})
	require.NoError(t, err)
	require.Len(t, byEntity, 1)
	assert.Equal(t, "bob", byEntity[0].Username)

	byUser, err := svc.List(ActivityFilter{UserID: uid})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	limited, err := svc.List(ActivityFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestActivityStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewActivityService(db)

	uid := uint(1)
	for i := 0; i < 3; i++ {
		_, err := svc.Record(&uid, "alice", models.ActionCreate, "meal", nil, "Logged meal", "")
		require.NoError(t, err)
	}
	_, err := svc.Record(&uid, "alice", models.ActionLogin, "user", &uid, "User logged in", "")
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalLogs)
	assert.Equal(t, int64(4), stats.Last24Hours)
	assert.Equal(t, int64(3), stats.ByAction[models.ActionCreate])
	assert.Equal(t, int64(1), stats.ByAction[models.ActionLogin])
	assert.Equal(t, int64(3), stats.ByEntity["meal"])
	assert.Equal(t, int64(1), stats.ByEntity["user"])
}

func TestActivityRecentDefaultsLimit(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewActivityService(db)

	uid := uint(1)
	for i := 0; i < 25; i++ {
		_, err := svc.Record(&uid, "alice", models.ActionCreate, "water", nil, "Logged water", "")
		require.NoError(t, err)
	}

	logs, err := svc.Recent(0)
	require.NoError(t, err)
	assert.Len(t, logs, 20)
}
