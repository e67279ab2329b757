package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（4000）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret        string        // JWT署名シークレット
	JWTExpire        time.Duration // トークンの有効期限
	CookieExpireDays int
	CookieSecure     bool

	GoEnv string // development/production
	FEURL string // フロントURL（CORS・メール内リンク）

	SMTPHost     string
	SMTPPort     int
	SMTPMail     string
	SMTPPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string // 画像の公開URLの前半

	RedisAddr     string
	RedisPassword string
}

// Loadは環境変数
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFromは任意のlookupから読む（テスト用）
func LoadFrom(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	pgPort, err := atoiDefault(getenv, "POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	smtpPort, err := atoiDefault(getenv, "SMTP_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	cookieDays, err := atoiDefault(getenv, "COOKIE_EXPIRE_DAYS", 7)
	if err != nil {
		return Config{}, err
	}
	jwtExpire, err := time.ParseDuration(env("JWT_EXPIRE", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRE must be duration: %w", err)
	}

	goEnv := env("GO_ENV", "development")

	cfg := Config{
		Port: env("PORT", "4000"),

		DatabaseURL:      getenv("DATABASE_URL"),
		PostgresUser:     env("POSTGRES_USER", "postgres"),
		PostgresPassword: env("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       env("POSTGRES_DB", "plantstore"),
		PostgresHost:     env("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  env("POSTGRES_SSLMODE", "disable"),

		JWTSecret:        getenv("JWT_SECRET"),
		JWTExpire:        jwtExpire,
		CookieExpireDays: cookieDays,
		//本番ではデフォルトでSecure
		CookieSecure: envBool(getenv, "COOKIE_SECURE", goEnv == "production"),

		GoEnv: goEnv,
		FEURL: getenv("FE_URL"),

		SMTPHost:     env("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPMail:     getenv("SMTP_MAIL"),
		SMTPPassword: getenv("SMTP_PASSWORD"),

		MinioEndpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: env("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: env("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    env("MINIO_BUCKET", "plants"),
		MinioUseSSL:    envBool(getenv, "MINIO_USE_SSL", false),
		MinioPublicURL: getenv("MINIO_PUBLIC_URL"),

		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}
	if cfg.MinioPublicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return cfg, nil
}

// DSN はDATABASE_URLが無ければPOSTGRES_*から組み立てる
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) CookieTTL() time.Duration {
	return time.Duration(c.CookieExpireDays) * 24 * time.Hour
}

func atoiDefault(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func envBool(getenv func(string) string, key string, def bool) bool {
	switch getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}
