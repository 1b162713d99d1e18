package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RawComplaintPath string
	SampleSize       int
	BatchSize        int
	MaxRetries       int

	AirbnbDir       string
	AirbnbOutputDir string
	AirbnbSchema    string
	MaxConcurrency  int
}

// Load reads the .env file if present and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", ""),
		DBUsername: getEnv("DB_USERNAME", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "complaints"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "./data/complaints.db"),

		RawComplaintPath: getEnv("RAW_COMPLAINT_PATH", "./data/complaints/raw/NYPD_Complaint_Data_Historic.csv"),
		SampleSize:       getEnvInt("SAMPLE_SIZE", 500000),
		BatchSize:        getEnvInt("BATCH_SIZE", 100000),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		AirbnbDir:       getEnv("AIRBNB_DIR", "./data/airbnb/processed"),
		AirbnbOutputDir: getEnv("AIRBNB_OUTPUT_DIR", ""),
		AirbnbSchema:    getEnv("AIRBNB_SCHEMA", "tmp_airbnb"),
		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return "host=" + c.DBHost +
			" port=" + port +
			" user=" + c.DBUsername +
			" password=" + c.DBPassword +
			" dbname=" + c.DBName +
			" sslmode=" + c.DBSSLMode, nil
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
			c.DBUsername, c.DBPassword, c.DBHost, port, c.DBName), nil
	case "sqlite":
		return c.SQLitePath + "?_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// OutputDir returns where airbnb insert scripts are written; it defaults to
// the input directory.
func (c *Config) OutputDir() string {
	if c.AirbnbOutputDir != "" {
		return c.AirbnbOutputDir
	}
	return c.AirbnbDir
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
