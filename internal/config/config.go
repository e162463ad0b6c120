package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	PublicURL  string
	LogLevel   string

	JWTSecret      string
	JWTExpiry      time.Duration
	SessionCookie  string
	InvitationTTL  time.Duration
	MaxBoards      int
	MoveMaxRetries int
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Values in it
// replace the built-in defaults; environment variables still win.
type fileConfig struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Server struct {
		Port      string `yaml:"port"`
		PublicURL string `yaml:"public_url"`
		LogLevel  string `yaml:"log_level"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret      string `yaml:"jwt_secret"`
		JWTExpiryHours string `yaml:"jwt_expiry_hours"`
		SessionCookie  string `yaml:"session_cookie"`
	} `yaml:"auth"`
	Boards struct {
		MaxPerUser         string `yaml:"max_per_user"`
		MoveMaxRetries     string `yaml:"move_max_retries"`
		InvitationTTLHours string `yaml:"invitation_ttl_hours"`
	} `yaml:"boards"`
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Warn("⚠️  No .env file found, using system environment variables")
	}

	var fc fileConfig
	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		if err := readFile(path, &fc); err != nil {
			log.Warn("⚠️  Ignoring config file", "path", path, "err", err)
		}
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", or(fc.Database.Host, "localhost")),
		DBPort:     getEnv("DB_PORT", or(fc.Database.Port, "5432")),
		DBUser:     getEnv("DB_USER", or(fc.Database.User, "groove_user")),
		DBPassword: getEnv("DB_PASSWORD", or(fc.Database.Password, "groove_pass")),
		DBName:     getEnv("DB_NAME", or(fc.Database.Name, "groove_db")),
		DBSSLMode:  getEnv("DB_SSLMODE", or(fc.Database.SSLMode, "disable")),
		ServerPort: getEnv("SERVER_PORT", or(fc.Server.Port, "8080")),
		PublicURL:  getEnv("PUBLIC_URL", or(fc.Server.PublicURL, "http://localhost:8080")),
		LogLevel:   getEnv("LOG_LEVEL", or(fc.Server.LogLevel, "info")),

		JWTSecret:      getEnv("JWT_SECRET", or(fc.Auth.JWTSecret, "supersecretkey")),
		JWTExpiry:      hours(getEnv("JWT_EXPIRY_HOURS", or(fc.Auth.JWTExpiryHours, "72")), 72),
		SessionCookie:  getEnv("SESSION_COOKIE", or(fc.Auth.SessionCookie, "groove_session")),
		InvitationTTL:  hours(getEnv("INVITATION_TTL_HOURS", or(fc.Boards.InvitationTTLHours, "168")), 168),
		MaxBoards:      atoi(getEnv("MAX_BOARDS_PER_USER", or(fc.Boards.MaxPerUser, "20")), 20),
		MoveMaxRetries: atoi(getEnv("MOVE_MAX_RETRIES", or(fc.Boards.MoveMaxRetries, "3")), 3),
	}
}

// DSN is the gorm/pgx connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrationURL is the golang-migrate database URL for the pgx/v5 driver.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func readFile(path string, fc *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, fc)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func hours(s string, fallback int) time.Duration {
	return time.Duration(atoi(s, fallback)) * time.Hour
}
