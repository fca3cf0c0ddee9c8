package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func newTestAuthService(t *testing.T) (*AuthService, *ActivityService) {
	db := testhelpers.SetupTestDB(t)
	activity := NewActivityService(db)
	return NewAuthService(db, "test-secret", 30*time.Minute, activity), activity
}

func TestRegisterAssignsUniqueUserID(t *testing.T) {
	auth, _ := newTestAuthService(t)

	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ID-1", user.UniqueUserID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)

	second, err := auth.Register(RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ID-2", second.UniqueUserID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = auth.Register(RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = auth.Register(RegisterInput{
		Username: "alice2", Email: "alice@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	_, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	user, token, err := auth.Login("alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)

	_, token, err = auth.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	auth, _ := newTestAuthService(t)
	_, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	// Unknown user and wrong password come back as the same error.
	_, _, err = auth.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("alice", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlacklistedAccount(t *testing.T) {
	auth, _ := newTestAuthService(t)
	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	reason := "abuse"
	require.NoError(t, auth.db.Model(user).Updates(map[string]interface{}{
		"is_blacklisted":   true,
		"blacklist_reason": reason,
	}).Error)

	// Correct password, still refused, and the reason is surfaced.
	_, _, err = auth.Login("alice", "password123")
	var blocked *AccountBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "abuse", blocked.Reason)
	assert.Equal(t, "Account Blocked: abuse", blocked.Error())
}

func TestLoginDisabledAccount(t *testing.T) {
	auth, _ := newTestAuthService(t)
	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, auth.db.Model(user).Update("is_active", false).Error)

	_, _, err = auth.Login("alice", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuthService(t)
	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	auth, _ := newTestAuthService(t)
	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.Error(t, err)

	other := NewAuthService(auth.db, "different-secret", time.Minute, nil)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := NewAuthService(db, "test-secret", -time.Minute, nil)
	// Negative TTL falls back to the default, so build one explicitly.
	auth.tokenTTL = -time.Minute

	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestResolveUserStaleToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	token, err := auth.IssueToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, auth.db.Delete(user).Error)

	_, err = auth.ResolveUser(claims)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("password", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("password", ""))
}

func TestAuthWritesAuditEntries(t *testing.T) {
	auth, activity := newTestAuthService(t)

	user, err := auth.Register(RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)
	_, _, err = auth.Login("alice", "password123")
	require.NoError(t, err)

	logs, err := activity.List(ActivityFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Most recent first.
	assert.Equal(t, models.ActionLogin, logs[0].ActionType)
	assert.Equal(t, models.ActionRegister, logs[1].ActionType)
	assert.Equal(t, "alice", logs[0].Username)
}
