package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// bcryptCost is an explicit work factor of 2^12 iterations.
const bcryptCost = 12

// DefaultTokenTTL is how long issued tokens stay valid. There is no refresh
// flow; an expired token requires a fresh login.
const DefaultTokenTTL = 30 * time.Minute

// TokenClaims is the decoded identity carried by a bearer token.
type TokenClaims struct {
	UserID   uint
	Username string
	Role     string
}

// AuthService issues and validates credentials: bcrypt password hashes and
// HS256-signed session tokens.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	activity  *ActivityService
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, activity *ActivityService) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		activity:  activity,
	}
}

// HashPassword hashes a password with bcrypt. The salt is embedded in the
// output, so nothing besides the hash needs storing.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash. It
// returns false, never an error, on malformed hash input.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token for the user with subject, numeric id, role and a
// unique jti claim.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.Username,
		"user_id": float64(user.ID),
		"role":    user.Role,
		"jti":     uuid.NewString(),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken checks signature and expiry and returns the decoded claims.
// Every failure mode (malformed, expired, bad signature, wrong method) comes
// back as an error value.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}

	return &TokenClaims{
		UserID:   uint(userID),
		Username: sub,
		Role:     role,
	}, nil
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account. The role is always "user"; admins are
// pre-created by the seed tooling. The human-readable unique_user_id is
// derived from the auto-increment id, so it is monotonic and never reused.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("username = ?", in.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		user.UniqueUserID = fmt.Sprintf("ID-%d", user.ID)
		return tx.Model(&user).Update("unique_user_id", user.UniqueUserID).Error
	})
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		uid := user.ID
		s.activity.Record(&uid, user.Username, models.ActionRegister, "user", &uid,
			fmt.Sprintf("New user registered: %s", user.Username), "")
	}

	return &user, nil
}

// Login authenticates by username or email. Unknown identity and wrong
// password collapse into the same generic error; blacklisted and disabled
// accounts are rejected with distinct results even when the password is
// correct.
func (s *AuthService) Login(identifier, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if user.IsBlacklisted {
		reason := ""
		if user.BlacklistReason != nil {
			reason = *user.BlacklistReason
		}
		return nil, "", &AccountBlockedError{Reason: reason}
	}

	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}

	if s.activity != nil {
		uid := user.ID
		s.activity.Record(&uid, user.Username, models.ActionLogin, "user", &uid,
			fmt.Sprintf("User logged in: %s", user.Username), "")
	}

	return &user, token, nil
}

// ResolveUser maps token claims back to the current user row. A subject that
// no longer exists (deleted after issuance) is reported as not found; callers
// treat that the same as an invalid token.
func (s *AuthService) ResolveUser(claims *TokenClaims) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", claims.Username).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
