package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// UserService covers profile self-service and the admin-side account
// operations. Accounts with the admin role are shielded from blacklisting,
// role changes and deletion no matter who asks.
type UserService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewUserService(db *gorm.DB, activity *ActivityService) *UserService {
	return &UserService{db: db, activity: activity, now: time.Now}
}

func (s *UserService) List(skip, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	var users []models.User
	err := s.db.Order("id ASC").Offset(skip).Limit(limit).Find(&users).Error
	return users, err
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// ProfileUpdate is the user-editable slice of the account. Credentials and
// moderation fields have their own paths.
type ProfileUpdate struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	DateOfBirth      *time.Time `json:"-"`
	Gender           *string    `json:"gender"`
	Age              *int       `json:"age"`
	HeightCm         *float64   `json:"height_cm"`
	WeightKg         *float64   `json:"weight_kg"`
	ActivityLevel    *string    `json:"activity_level"`
	FitnessGoal      *string    `json:"fitness_goal"`
	DailyCalorieGoal *int       `json:"daily_calorie_goal"`
	DailyWaterGoalMl *int       `json:"daily_water_goal_ml"`
}

func (s *UserService) UpdateProfile(actor *models.User, id uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.HeightCm != nil {
		user.HeightCm = in.HeightCm
	}
	if in.WeightKg != nil {
		user.WeightKg = in.WeightKg
	}
	if in.ActivityLevel != nil {
		user.ActivityLevel = *in.ActivityLevel
	}
	if in.FitnessGoal != nil {
		user.FitnessGoal = *in.FitnessGoal
	}
	if in.DailyCalorieGoal != nil {
		user.DailyCalorieGoal = *in.DailyCalorieGoal
	}
	if in.DailyWaterGoalMl != nil {
		user.DailyWaterGoalMl = *in.DailyWaterGoalMl
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	if s.activity != nil {
		aid := actor.ID
		uid := user.ID
		s.activity.Record(&aid, actor.Username, models.ActionUpdate, "user", &uid,
			fmt.Sprintf("Updated profile: %s", user.Username), "")
	}
	return user, nil
}

// SetProfilePicture stores the uploaded picture's public URL.
func (s *UserService) SetProfilePicture(user *models.User, url string) error {
	return s.db.Model(user).Update("profile_picture_url", url).Error
}

// SetRole changes a user's role. Admin accounts cannot be demoted through
// this path.
func (s *UserService) SetRole(actor *models.User, id uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrAdminProtected
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role

	if s.activity != nil {
		aid := actor.ID
		uid := user.ID
		s.activity.Record(&aid, actor.Username, models.ActionUpdate, "user", &uid,
			fmt.Sprintf("Changed role of %s to %s", user.Username, role), "")
	}
	return user, nil
}

// SetBlacklist flips the blacklist flag. Blacklisting stamps the reason and
// time; clearing resets both. Admin accounts are always refused.
func (s *UserService) SetBlacklist(actor *models.User, id uint, blacklisted bool, reason string) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrAdminProtected
	}

	updates := map[string]interface{}{"is_blacklisted": blacklisted}
	if blacklisted {
		now := s.now()
		updates["blacklist_reason"] = reason
		updates["blacklisted_at"] = now
		user.BlacklistReason = &reason
		user.BlacklistedAt = &now
	} else {
		updates["blacklist_reason"] = nil
		updates["blacklisted_at"] = nil
		user.BlacklistReason = nil
		user.BlacklistedAt = nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.IsBlacklisted = blacklisted

	if s.activity != nil {
		verb := "Blacklisted"
		if !blacklisted {
			verb = "Removed blacklist from"
		}
		aid := actor.ID
		uid := user.ID
		s.activity.Record(&aid, actor.Username, models.ActionUpdate, "user", &uid,
			fmt.Sprintf("%s user: %s", verb, user.Username), reason)
	}
	return user, nil
}

// Delete removes a user and all their health records. Child rows are deleted
// explicitly rather than trusting cascade configuration; the audit trail keeps
// its rows with user_id nulled and the username snapshot intact.
func (s *UserService) Delete(actor *models.User, id uint) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrAdminProtected
	}

	username := user.Username
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Workout{}, &models.Meal{}, &models.SleepRecord{},
			&models.WaterIntake{}, &models.WeightLog{}, &models.Goal{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.ActivityLog{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return err
	}

	if s.activity != nil {
		aid := actor.ID
		s.activity.Record(&aid, actor.Username, models.ActionDelete, "user", nil,
			fmt.Sprintf("Deleted user: %s", username), "")
	}
	return nil
}
