package config

import (
	"log"

	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"gorm.io/gorm"
)

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, laptops, calculators and accessories"},
		{Name: "Textbooks", Description: "Course books and study material"},
		{Name: "Clothing", Description: "Apparel and shoes"},
		{Name: "Furniture", Description: "Dorm and apartment furniture"},
		{Name: "School Supplies", Description: "Stationery and lab equipment"},
		{Name: "Sports", Description: "Sports gear and equipment"},
		{Name: "Other", Description: "Everything else"},
	}

	for _, category := range categories {
		var existing models.Category
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to seed category %s: %v", category.Name, err)
			}
		}
	}
}

func SeedUsers(db *gorm.DB) {
	log.Println("🌱 Seeding users...")

	password, _ := utils.HashPassword("password123")

	seeds := []struct {
		user    models.User
		profile models.Profile
	}{
		{
			user: models.User{Email: "maria@university.edu", Password: password},
			profile: models.Profile{
				FirstName:     "Maria",
				LastName:      "Santos",
				Email:         "maria@university.edu",
				PhoneNumber:   "09170000001",
				AcademicLevel: "undergraduate",
			},
		},
		{
			user: models.User{Email: "juan@university.edu", Password: password},
			profile: models.Profile{
				FirstName:     "Juan",
				LastName:      "Dela Cruz",
				Email:         "juan@university.edu",
				PhoneNumber:   "09170000002",
				AcademicLevel: "graduate",
			},
		},
	}

	for _, seed := range seeds {
		var existing models.User
		if err := db.Where("email = ?", seed.user.Email).First(&existing).Error; err != gorm.ErrRecordNotFound {
			log.Printf("User already exists: %s", seed.user.Email)
			continue
		}
		if err := db.Create(&seed.user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", seed.user.Email, err)
			continue
		}
		seed.profile.UserID = seed.user.ID
		if err := db.Create(&seed.profile).Error; err != nil {
			log.Printf("Failed to seed profile for %s: %v", seed.user.Email, err)
			continue
		}
		log.Printf("User seeded: %s (ID: %d)", seed.user.Email, seed.user.ID)
	}

	log.Println("✅ Seeding complete.")
}
