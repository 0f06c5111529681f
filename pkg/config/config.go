package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port string

	DBDriver  string
	DBTimeout time.Duration

	MongoURI      string
	MongoDatabase string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	AccessMinutes int
	RefreshHours  int
	AuthRequired  bool

	// UpdateStatusOK switches PUT responses from 201 to 200.
	UpdateStatusOK bool

	CORSOrigins string

	GeocoderURL       string
	GeocoderUserAgent string

	NatsURL       string
	OAuthClientID string
}

// App is the configuration loaded at startup.
var App = Default()

func Default() *Config {
	return &Config{
		Port:              "8000",
		DBDriver:          DriverMongo,
		DBTimeout:         5 * time.Second,
		MongoDatabase:     "corejob",
		DBPort:            5432,
		DBSSLMode:         "disable",
		AccessMinutes:     60,
		RefreshHours:      24 * 7,
		CORSOrigins:       "*",
		GeocoderURL:       "https://nominatim.openstreetmap.org",
		GeocoderUserAgent: "corejob-backend",
	}
}

func Load() (*Config, error) {
	def := Default()
	cfg := &Config{
		Port:              getEnv("PORT", def.Port),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", def.DBDriver)),
		DBTimeout:         time.Duration(getEnvInt("DB_TIMEOUT_SECONDS", 5)) * time.Second,
		MongoURI:          getEnv("MONGODB_URI", ""),
		MongoDatabase:     getEnv("MONGODB_DATABASE", def.MongoDatabase),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", def.DBPort),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "corejob"),
		DBSSLMode:         getEnv("DB_SSLMODE", def.DBSSLMode),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessMinutes:     getEnvInt("ACCESS_TOKEN_MINUTES", def.AccessMinutes),
		RefreshHours:      getEnvInt("REFRESH_TOKEN_HOURS", def.RefreshHours),
		AuthRequired:      getEnvBool("AUTH_REQUIRED", false),
		UpdateStatusOK:    getEnvBool("UPDATE_STATUS_OK", false),
		CORSOrigins:       getEnv("CORS_ORIGINS", def.CORSOrigins),
		GeocoderURL:       getEnv("GEOCODER_URL", def.GeocoderURL),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", def.GeocoderUserAgent),
		NatsURL:           getEnv("NATS_URL", ""),
		OAuthClientID:     getEnv("OAUTH_CLIENT_ID", ""),
	}

	switch cfg.DBDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("invalid config: MONGODB_URI must be set for driver %q", cfg.DBDriver)
		}
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("invalid config: DB_HOST/DB_USER/DB_NAME must be set for driver %q", cfg.DBDriver)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("invalid config: unknown DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("invalid config: JWT_SECRET must be set")
	}

	return cfg, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i > 0 {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
