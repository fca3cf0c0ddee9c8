package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/config"
	"github.com/vitaltrack/backend/internal/database"
	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/service"
)

// Seeds an admin account plus demo users with two weeks of health records.
// Safe to re-run; existing usernames are skipped.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	seedUser(db, userSpec{
		username: "admin", email: "admin@vitaltrack.local", password: "admin12345",
		firstName: "System", lastName: "Admin", role: models.RoleAdmin,
	})

	demoUsers := []userSpec{
		{username: "johndoe", email: "john.doe@example.com", password: "testpassword123",
			firstName: "John", lastName: "Doe", role: models.RoleUser,
			gender: "male", age: 31, heightCm: 180, weightKg: 82},
		{username: "janesmith", email: "jane.smith@example.com", password: "testpassword123",
			firstName: "Jane", lastName: "Smith", role: models.RoleUser,
			gender: "female", age: 27, heightCm: 165, weightKg: 61},
		{username: "bobwilson", email: "bob.wilson@example.com", password: "testpassword123",
			firstName: "Bob", lastName: "Wilson", role: models.RoleUser,
			gender: "male", age: 45, heightCm: 175, weightKg: 90},
	}
	for _, spec := range demoUsers {
		if user := seedUser(db, spec); user != nil {
			seedRecords(db, user)
		}
	}

	log.Println("seeding complete")
}

type userSpec struct {
	username, email, password string
	firstName, lastName, role string
	gender                    string
	age                       int
	heightCm, weightKg        float64
}

func seedUser(db *gorm.DB, spec userSpec) *models.User {
	var existing models.User
	if err := db.Where("username = ?", spec.username).First(&existing).Error; err == nil {
		log.Printf("user %s already exists, skipping", spec.username)
		return nil
	}

	hashed, err := service.HashPassword(spec.password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     spec.username,
		Email:        spec.email,
		PasswordHash: hashed,
		Role:         spec.role,
		FirstName:    spec.firstName,
		LastName:     spec.lastName,
		Gender:       spec.gender,
		IsActive:     true,
	}
	if spec.age > 0 {
		age := spec.age
		user.Age = &age
	}
	if spec.heightCm > 0 {
		h := spec.heightCm
		user.HeightCm = &h
	}
	if spec.weightKg > 0 {
		w := spec.weightKg
		user.WeightKg = &w
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		user.UniqueUserID = fmt.Sprintf("ID-%d", user.ID)
		return tx.Model(&user).Update("unique_user_id", user.UniqueUserID).Error
	})
	if err != nil {
		log.Fatalf("failed to create user %s: %v", spec.username, err)
	}

	log.Printf("created user %s (%s)", user.Username, user.UniqueUserID)
	return &user
}

func seedRecords(db *gorm.DB, user *models.User) {
	today := time.Now().Truncate(24 * time.Hour)
	workoutTypes := []string{"running", "cycling", "strength", "yoga"}

	for i := 13; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)

		if rand.Intn(10) < 7 {
			burned := 150 + rand.Float64()*400
			db.Create(&models.Workout{
				UserID:          user.ID,
				WorkoutType:     workoutTypes[rand.Intn(len(workoutTypes))],
				WorkoutName:     "Session",
				DurationMinutes: 20 + rand.Intn(70),
				CaloriesBurned:  &burned,
				WorkoutDate:     day,
				StartTime:       "07:30",
				Intensity:       models.IntensityMedium,
			})
		}

		for _, meal := range []struct {
			mealType string
			calories float64
		}{
			{models.MealBreakfast, 350 + rand.Float64()*200},
			{models.MealLunch, 500 + rand.Float64()*300},
			{models.MealDinner, 550 + rand.Float64()*350},
		} {
			db.Create(&models.Meal{
				UserID:   user.ID,
				MealType: meal.mealType,
				MealName: "Seeded " + meal.mealType,
				Calories: meal.calories,
				ProteinG: 15 + rand.Float64()*35,
				CarbsG:   30 + rand.Float64()*60,
				FatG:     10 + rand.Float64()*25,
				FiberG:   2 + rand.Float64()*8,
				MealDate: day,
			})
		}

		quality := 5 + rand.Intn(5)
		db.Create(&models.SleepRecord{
			UserID:       user.ID,
			SleepDate:    day,
			BedTime:      "23:00",
			WakeTime:     "07:00",
			TotalHours:   6 + rand.Float64()*3,
			SleepQuality: &quality,
		})

		for j := 0; j < 4+rand.Intn(4); j++ {
			db.Create(&models.WaterIntake{
				UserID:       user.ID,
				IntakeDate:   day,
				AmountMl:     200 + rand.Intn(250),
				BeverageType: "water",
			})
		}

		if i%2 == 0 && user.WeightKg != nil {
			weight := *user.WeightKg + rand.Float64()*2 - 1
			db.Create(&models.WeightLog{
				UserID:   user.ID,
				LogDate:  day,
				WeightKg: weight,
				BMI:      models.ComputeBMI(&weight, user.HeightCm),
			})
		}
	}

	db.Create(&models.Goal{
		UserID:      user.ID,
		Category:    models.GoalWater,
		GoalType:    "daily",
		TargetValue: 2500,
		Unit:        "ml",
		StartDate:   today.AddDate(0, 0, -13),
		IsActive:    true,
	})

	log.Printf("seeded records for %s", user.Username)
}
