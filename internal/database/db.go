package database

import (
	"os"
	"time"

	"ieee-funding-portal/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var log = zap.NewNop()

// SetLogger installs the process logger before Init is called.
func SetLogger(l *zap.Logger) {
	log = l
}

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", zap.Int("attempt", i), zap.Int("maxAttempts", maxAttempts))

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Info("connected to database")
			break
		}

		log.Warn("database connection failed", zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("giving up connecting to database", zap.Int("attempts", maxAttempts), zap.Error(err))
	}

	err = DB.AutoMigrate(
		&models.StaffUser{},
		&models.Application{},
		&models.ApplicationBudgetItem{},
		&models.AttachmentMeta{},
		&models.ProjectReview{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	createDefaultAdmin()
	seedDemoAccounts()
}

// the admin account only ever comes from config, never from registration
func createDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@chapter.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.StaffUser{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Warn("failed to check admin account", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Warn("failed to hash default admin password", zap.Error(err))
		return
	}

	admin := models.StaffUser{
		Name:         "Chapter Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Warn("failed to create default admin", zap.Error(err))
		return
	}

	log.Info("created default admin account", zap.String("email", email))
}

// demo staff and mentor accounts for local runs
func seedDemoAccounts() {
	type seed struct {
		Name     string
		Email    string
		Password string
		Role     models.StaffRole
	}

	accounts := []seed{
		{
			Name:     "Demo Staff",
			Email:    "staff@chapter.local",
			Password: "Staff123!",
			Role:     models.RoleStaff,
		},
		{
			Name:     "Demo Mentor",
			Email:    "mentor@chapter.local",
			Password: "Mentor123!",
			Role:     models.RoleMentor,
		},
	}

	for _, a := range accounts {
		var count int64
		if err := DB.Model(&models.StaffUser{}).
			Where("email = ?", a.Email).
			Count(&count).Error; err != nil {
			log.Warn("failed to check seed account", zap.String("email", a.Email), zap.Error(err))
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Warn("failed to hash seed password", zap.String("email", a.Email), zap.Error(err))
			continue
		}

		user := models.StaffUser{
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: string(hash),
			Role:         a.Role,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Warn("failed to create seed account", zap.String("email", a.Email), zap.Error(err))
			continue
		}

		log.Info("created seed account", zap.String("email", a.Email), zap.String("role", string(a.Role)))
	}
}
