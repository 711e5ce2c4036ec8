package shared

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JWTSecret  string
	JWTTTL     time.Duration
	CookieName string
	AdminKey   string
	BcryptCost int
	ClientURL  string

	MediaBase   string
	MediaCloud  string
	MediaKey    string
	MediaSecret string
	MediaFolder string
	MediaRPS    int
	UploadDir   string

	SeedWorkers       int
	SeedAdminEmail    string
	SeedAdminPassword string

	HotelsAPIURL string
}

const devJWTSecret = "dev-only-secret"

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":5000"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret:  env("JWT_SECRET", ""),
		JWTTTL:     time.Duration(atoi("JWT_TTL_HOURS", 7*24)) * time.Hour,
		CookieName: env("COOKIE_NAME", "token"),
		AdminKey:   env("ADMIN_KEY", ""),
		BcryptCost: atoi("BCRYPT_COST", 10),
		ClientURL:  env("CLIENT_URL", "http://localhost:3000"),

		MediaBase:   env("MEDIA_BASE_URL", "https://api.cloudinary.com/v1_1"),
		MediaCloud:  env("MEDIA_CLOUD_NAME", ""),
		MediaKey:    env("MEDIA_API_KEY", ""),
		MediaSecret: env("MEDIA_API_SECRET", ""),
		MediaFolder: env("MEDIA_FOLDER", "hotel_images"),
		MediaRPS:    atoi("MEDIA_RPS", 5),
		UploadDir:   env("UPLOAD_DIR", "tmp"),

		SeedWorkers:       atoi("SEED_WORKERS", 4),
		SeedAdminEmail:    env("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: env("SEED_ADMIN_PASSWORD", ""),

		HotelsAPIURL: env("HOTELS_API_URL", "http://localhost:5000/api"),
	}
	if c.JWTSecret == "" {
		if c.IsDev() {
			log.Warn().Msg("JWT_SECRET is empty; using development secret")
			c.JWTSecret = devJWTSecret
		} else {
			log.Warn().Msg("JWT_SECRET is empty")
		}
	}
	if c.MediaCloud == "" || c.MediaKey == "" || c.MediaSecret == "" {
		log.Warn().Msg("media host credentials are incomplete; image uploads will fail")
	}
	return c
}

func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func (c Config) IsProduction() bool { return c.AppEnv == "prod" || c.AppEnv == "production" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
