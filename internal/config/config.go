package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string
	DDOn bool
	CORS []string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client.
	TrustedProxies []string
	Mongo          MongoConfig
	Auth           AuthConfig
	Upload         UploadConfig
	S3             S3Config
	Rabbit         RabbitConfig
	Import         ImportConfig
	Sweep          SweepConfig
}

type MongoConfig struct {
	URI string
	DB  string
}

type AuthConfig struct {
	SessionSecret    string
	SessionBackend   string // "mongo" | "redis"
	SessionTTL       time.Duration
	CookieMaxAge     time.Duration
	RedisAddr        string
	FirebaseProject  string
	JWKSURL          string
	JWKSCacheSeconds int
	LoginRatePerMin  int
}

type UploadConfig struct {
	Backend   string // "local" | "s3"
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

type RabbitConfig struct {
	URL         string
	Exchange    string
	Queue       string
	BindKey     string
	Concurrency int
	NotifyTo    string
}

type ImportConfig struct {
	Concurrency int
	ItemTimeout time.Duration
}

type SweepConfig struct {
	Cron  string
	Grace time.Duration
}

// DefaultSessionSecret is only fit for development; Validate rejects it in production.
const DefaultSessionSecret = "supersecretkey"

var ErrDefaultSecret = errors.New("SESSION_SECRET must be set in production")

const defaultJWKS = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Load reads the environment. A .env file in the working directory is applied first
// without overriding variables that are already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getenv("APP_PORT", "8080"),
		Env:  getenv("APP_ENV", "development"),
		DDOn: getenv("DD_ENABLED", "false") == "true",
		CORS: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Mongo: MongoConfig{
			URI: getenv("MONGO_URI", "mongodb://localhost:27017"),
			DB:  getenv("MONGO_DB", "family-blog"),
		},
		Auth: AuthConfig{
			SessionSecret:    getenv("SESSION_SECRET", DefaultSessionSecret),
			SessionBackend:   getenv("SESSION_BACKEND", "mongo"),
			SessionTTL:       14 * 24 * time.Hour,
			CookieMaxAge:     24 * time.Hour,
			RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
			FirebaseProject:  getenv("FIREBASE_PROJECT_ID", ""),
			JWKSURL:          getenv("IDENTITY_JWKS_URL", defaultJWKS),
			JWKSCacheSeconds: geti("JWKS_CACHE_SECONDS", 3600),
			LoginRatePerMin:  geti("LOGIN_RATE_PER_MIN", 10),
		},
		Upload: UploadConfig{
			Backend:   getenv("STORAGE_BACKEND", "local"),
			Dir:       getenv("UPLOAD_DIR", "./uploads"),
			URLPrefix: getenv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxBytes:  int64(geti("UPLOAD_MAX_BYTES", 10*1024*1024)),
		},
		S3: S3Config{
			Bucket:    getenv("S3_BUCKET", ""),
			Endpoint:  getenv("S3_ENDPOINT", ""),
			Region:    getenv("S3_REGION", "us-east-1"),
			AccessKey: getenv("S3_ACCESS_KEY", ""),
			SecretKey: getenv("S3_SECRET_KEY", ""),
			PublicURL: getenv("S3_PUBLIC_URL", ""),
		},
		Rabbit: RabbitConfig{
			URL:         getenv("RABBIT_URL", ""),
			Exchange:    getenv("RABBIT_EXCHANGE", "family.events"),
			Queue:       getenv("RABBIT_QUEUE", "family.notify"),
			BindKey:     getenv("RABBIT_BIND_KEY", "familyuser.registered"),
			Concurrency: geti("RABBIT_CONCURRENCY", 4),
			NotifyTo:    getenv("NOTIFY_ADMIN_EMAIL", "admin@localhost"),
		},
		Import: ImportConfig{
			Concurrency: geti("IMPORT_CONCURRENCY", 4),
			ItemTimeout: time.Duration(geti("IMPORT_ITEM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Sweep: SweepConfig{
			Cron:  getenv("SWEEP_CRON", ""),
			Grace: time.Duration(geti("SWEEP_GRACE_MINUTES", 60)) * time.Minute,
		},
	}
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool { return c.Env == "production" }

// Validate reports settings that must not reach a production deployment.
func (c Config) Validate() error {
	if c.Production() && c.Auth.SessionSecret == DefaultSessionSecret {
		return ErrDefaultSecret
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func geti(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
