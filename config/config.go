package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"civicreport-be/policy"
)

// Config is read once at startup from the environment (and .env).
type Config struct {
	Env  string
	Port string

	MongoURI    string
	MongoDB     string
	StoreDriver string

	RedisAddress    string
	RedisPassword   string
	RateLimitPrefix string
	IssueRateLimit  int
	RateLimitWindow time.Duration

	JWTSecret string
	JWTExpiry time.Duration
	Domain    string

	TransitionMode policy.TransitionMode

	UploadDriver   string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	CORSOrigins []string
	LogLevel    string
	SentryDSN   string
}

func Load() (*Config, error) {
	mode, err := policy.ParseTransitionMode(os.Getenv("ISSUE_TRANSITION_MODE"))
	if err != nil {
		return nil, err
	}

	var env envReader
	cfg := &Config{
		Env:  getEnv("GO_ENV", "development"),
		Port: getEnv("PORT", "4000"),

		MongoURI:    os.Getenv("MONGODB_URI"),
		MongoDB:     getEnv("MONGODB_DB", "civicreport"),
		StoreDriver: getEnv("STORE_DRIVER", "mongo"),

		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RateLimitPrefix: getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		IssueRateLimit:  env.integer("ISSUE_RATE_LIMIT", 10),
		RateLimitWindow: env.duration("ISSUE_RATE_WINDOW", 24*time.Hour),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: env.duration("JWT_EXPIRY", 24*time.Hour),
		Domain:    os.Getenv("DOMAIN"),

		TransitionMode: mode,

		UploadDriver:   getEnv("UPLOAD_DRIVER", "disk"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "issue-photos"),
		MinioUseSSL:    env.boolean("MINIO_USE_SSL", false),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) Production() bool { return c.Env == "production" }

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	switch c.StoreDriver {
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("please define the MONGODB_URI environment variable")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.UploadDriver {
	case "disk":
	case "minio":
		if c.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when UPLOAD_DRIVER=minio")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_DRIVER %q", c.UploadDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envReader parses typed values and remembers every key that is set but
// malformed, so Load can report them together.
type envReader struct {
	errs []error
}

func (r *envReader) fail(key, value, want string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, want))
}

func (r *envReader) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, "integer")
		return fallback
	}
	return n
}

func (r *envReader) boolean(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, "boolean")
		return fallback
	}
	return b
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.fail(key, v, "positive duration")
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
