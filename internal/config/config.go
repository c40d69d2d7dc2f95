package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string
	JWTIssuer      string

	Log      string
	LogLevel string
	Env      string // dev|prod

	MailDriver   string // smtp|ses
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SESSender    string
	SESTemplate  string
	AWSRegion    string

	FrontendURL string

	PasswordResetTTL       string
	PasswordResetSupersede bool

	RedisAddr               string
	RedisPassword           string
	ResetRateLimitPerMinute int
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	supersede, _ := strconv.ParseBool(def(os.Getenv("PASSWORD_RESET_SUPERSEDE"), "false"))
	resetLimit, err := strconv.Atoi(def(os.Getenv("RESET_RATE_LIMIT_PER_MINUTE"), "3"))
	if err != nil || resetLimit < 1 {
		resetLimit = 3
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "1h"),
		JWTIssuer:      def(os.Getenv("JWT_ISSUER"), "pos-app"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		MailDriver:   strings.ToLower(def(os.Getenv("MAIL_DRIVER"), "smtp")),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SESSender:    os.Getenv("SES_SENDER"),
		SESTemplate:  def(os.Getenv("SES_TEMPLATE"), "ResetPasswordNew"),
		AWSRegion:    def(os.Getenv("AWS_REGION"), "eu-west-1"),

		FrontendURL: def(os.Getenv("FRONTEND_URL"), "http://localhost:5000"),

		PasswordResetTTL:       def(os.Getenv("PASSWORD_RESET_TTL"), "3m"),
		PasswordResetSupersede: supersede,

		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		ResetRateLimitPerMinute: resetLimit,
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	switch c.MailDriver {
	case "smtp":
		if c.SMTPHost == "" || c.SMTPUser == "" {
			warnings = append(warnings, "SMTP is not fully configured")
		}
	case "ses":
		if c.SESSender == "" {
			warnings = append(warnings, "SES_SENDER is empty")
		}
	default:
		warnings = append(warnings, "unknown MAIL_DRIVER, falling back to smtp")
	}

	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is empty, reset rate limiting disabled")
	}

	if _, perr := time.ParseDuration(c.PasswordResetTTL); perr != nil {
		warnings = append(warnings, "PASSWORD_RESET_TTL is invalid, using 3m")
	}

	return warnings, nil
}

// ResetTokenTTL — окно жизни токена сброса пароля.
func (c *Config) ResetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.PasswordResetTTL)
	if err != nil || d <= 0 {
		return 3 * time.Minute
	}
	return d
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
