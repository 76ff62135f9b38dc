package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const (
	MailProviderSMTP       = "smtp"
	MailProviderMailerSend = "mailersend"
	MailProviderLog        = "log"
)

type Config struct {
	Env        string
	ServerPort string

	DBUrl     string
	JWTSecret string
	TokenTTL  time.Duration

	Redis   RedisConfig
	Mail    MailConfig
	Storage StorageConfig

	NATSURL        string
	CORSOrigins    []string
	ClinicTimezone string
	LogLevel       string

	RateLimitRPS   float64
	RateLimitBurst int

	RecoveryCodeTTL   time.Duration
	ResetRequiresCode bool
	CheckEmailDomain  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MailConfig struct {
	Provider      string
	From          string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	MailerSendKey string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// Load reads the process environment. A .env file, when present, is
// expected to have been loaded by the caller already.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "3001")
	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("VALKEY_PORT", 6379)
	v.SetDefault("VALKEY_DB", 0)
	v.SetDefault("RECOVERY_CODE_TTL", "300s")
	v.SetDefault("RESET_REQUIRES_CODE", false)
	v.SetDefault("CHECK_EMAIL_DOMAIN", false)
	v.SetDefault("MAIL_FROM", "Postinho de Saúde <no-reply@healthclinic.com.br>")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("CLINIC_TIMEZONE", timezone.DefaultTimezone)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	cfg := &Config{
		Env:        v.GetString("APP_ENV"),
		ServerPort: v.GetString("APP_PORT"),
		DBUrl:      v.GetString("DATABASE_URL"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		TokenTTL:   v.GetDuration("TOKEN_TTL"),
		Redis: RedisConfig{
			Host:     v.GetString("VALKEY_HOST"),
			Port:     v.GetInt("VALKEY_PORT"),
			Password: v.GetString("VALKEY_PASSWORD"),
			DB:       v.GetInt("VALKEY_DB"),
		},
		Mail: MailConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("MAIL_PROVIDER"))),
			From:          v.GetString("MAIL_FROM"),
			SMTPHost:      v.GetString("SMTP_HOST"),
			SMTPPort:      v.GetInt("SMTP_PORT"),
			SMTPUser:      v.GetString("SMTP_USER"),
			SMTPPass:      v.GetString("SMTP_PASS"),
			MailerSendKey: v.GetString("MAILERSEND_API_KEY"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
		},
		NATSURL:           v.GetString("NATS_URL"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		ClinicTimezone:    v.GetString("CLINIC_TIMEZONE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
		RecoveryCodeTTL:   v.GetDuration("RECOVERY_CODE_TTL"),
		ResetRequiresCode: v.GetBool("RESET_REQUIRES_CODE"),
		CheckEmailDomain:  v.GetBool("CHECK_EMAIL_DOMAIN"),
	}

	if cfg.Mail.Provider == "" {
		if cfg.IsDev() {
			cfg.Mail.Provider = MailProviderLog
		} else {
			cfg.Mail.Provider = MailProviderSMTP
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.DBUrl == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Redis.Host == "" {
		errs = append(errs, errors.New("VALKEY_HOST is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RecoveryCodeTTL <= 0 {
		errs = append(errs, errors.New("RECOVERY_CODE_TTL must be positive"))
	}
	if !timezone.IsValid(c.ClinicTimezone) {
		errs = append(errs, fmt.Errorf("CLINIC_TIMEZONE %q is not a known IANA zone", c.ClinicTimezone))
	}

	switch c.Mail.Provider {
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required when MAIL_PROVIDER=smtp"))
		}
	case MailProviderMailerSend:
		if c.Mail.MailerSendKey == "" {
			errs = append(errs, errors.New("MAILERSEND_API_KEY is required when MAIL_PROVIDER=mailersend"))
		}
	case MailProviderLog:
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER must be smtp, mailersend or log, got %q", c.Mail.Provider))
	}

	if c.Storage.Bucket != "" && (c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_BUCKET is set"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// Location is the zone used to interpret calendar days.
func (c *Config) Location() *time.Location {
	return timezone.Location(c.ClinicTimezone)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
