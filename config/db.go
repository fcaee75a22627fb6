package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"aparthotel-backend/models"
	"aparthotel-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase ensures a default owner account exists so a fresh install
// can be logged into.
func SeedDatabase() {
	var ownerCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&ownerCount)
	if ownerCount > 0 {
		return
	}

	password := utils.EnvOrDefault("OWNER_PASSWORD", "owner123")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash default owner password: %v", err)
		return
	}

	owner := models.User{
		Username: utils.EnvOrDefault("OWNER_USERNAME", "owner"),
		Password: string(hash),
		Name:     "Owner",
		Role:     models.RoleOwner,
	}
	if err := DB.Create(&owner).Error; err != nil {
		log.Printf("warning: failed to create default owner: %v", err)
		return
	}
	log.Println("Default owner seeded")
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "aparthotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.RegistrationRequest{},
		&models.Guest{},
		&models.GuestComment{},
		&models.Room{},
		&models.RoomStatus{},
		&models.Booking{},
		&models.BlacklistEntry{},
		&models.ChatRoom{},
		&models.ChatRoomMember{},
		&models.Message{},
		&models.ChatLastSeen{},
		&models.Subscription{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
