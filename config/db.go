package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"mindcare-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mustLanguagesJSON(langs []string) datatypes.JSON {
	b, err := json.Marshal(langs)
	if err != nil {
		log.Fatalf("Error marshaling languages for seeding (%v): %v", langs, err)
	}
	return datatypes.JSON(b)
}

// SeedDatabase seeds the static catalog (counselors + time slots) and a
// default staff account. The catalog is the read-only list the intake
// workflow validates selections against.
func SeedDatabase() {
	// ---------------- Admins ----------------
	var adminCount int64
	DB.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("mindcare123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Counseling Office",
				Username: "staff@mindcare.local",
				Password: string(hash),
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default staff account: %v", err)
			} else {
				log.Println("Default staff account seeded")
			}
		}
	}

	// ---------------- Counselors ----------------
	var counselorCount int64
	DB.Model(&models.Counselor{}).Count(&counselorCount)

	if counselorCount == 0 {
		counselors := []models.Counselor{
			{
				Name:       "Dr. Priya Sharma",
				Speciality: "Anxiety & Stress Management",
				Experience: "8 years",
				Languages:  mustLanguagesJSON([]string{"Hindi", "English"}),
				Available:  true,
			},
			{
				Name:       "Dr. Rajesh Kumar",
				Speciality: "Academic Pressure & Performance",
				Experience: "12 years",
				Languages:  mustLanguagesJSON([]string{"Hindi", "English", "Tamil"}),
				Available:  true,
			},
			{
				Name:       "Dr. Meera Patel",
				Speciality: "Depression & Mood Disorders",
				Experience: "6 years",
				Languages:  mustLanguagesJSON([]string{"Hindi", "English", "Gujarati"}),
				Available:  false,
			},
		}
		if err := DB.Create(&counselors).Error; err != nil {
			log.Fatalf("Failed to seed counselors: %v", err)
		}
		log.Println("Counselors seeded")
	}

	// ---------------- Time slots ----------------
	var slotCount int64
	DB.Model(&models.TimeSlot{}).Count(&slotCount)

	if slotCount > 0 {
		log.Println("Time slots already seeded")
	} else {
		slots := []models.TimeSlot{
			{Label: "9:00 AM", Available: true},
			{Label: "10:00 AM", Available: false},
			{Label: "11:00 AM", Available: true},
			{Label: "2:00 PM", Available: true},
			{Label: "3:00 PM", Available: true},
			{Label: "4:00 PM", Available: false},
			{Label: "5:00 PM", Available: true},
		}
		if err := DB.Create(&slots).Error; err != nil {
			log.Fatalf("Failed to seed time slots: %v", err)
		}
		log.Println("Time slots seeded")
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
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
		return "", "", fmt.Errorf("mysql url missing database name")
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

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "mindcare_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}

func ConnectDatabase() error {
	dsn, _, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Info,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order (bookings reference counselors)
	if err := DB.AutoMigrate(
		&models.Admin{},
		&models.Counselor{},
		&models.TimeSlot{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
