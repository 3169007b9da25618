package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// TTL задаются строками Go-duration ("15m", "720h") и парсятся отдельно:
	// yaml.v3 не умеет time.Duration напрямую.
	AccessTTLRaw     string `yaml:"access_ttl"`
	RefreshTTLRaw    string `yaml:"refresh_ttl"`
	CodeTTLRaw       string `yaml:"code_ttl"`
	CleanupPeriodRaw string `yaml:"cleanup_period"`

	AccessTTL     time.Duration `yaml:"-"`
	RefreshTTL    time.Duration `yaml:"-"`
	CodeTTL       time.Duration `yaml:"-"`
	CleanupPeriod time.Duration `yaml:"-"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// LoadConfig читает config/config.yaml (если есть), затем .env,
// затем переменные окружения — окружение всегда побеждает.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if f, err := os.Open("config/config.yaml"); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.Email.SMTPPort = p
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Email.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		cfg.Email.FromEmail = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ACCESS_TTL"); v != "" {
		cfg.Auth.AccessTTLRaw = v
	}
	if v := os.Getenv("REFRESH_TTL"); v != "" {
		cfg.Auth.RefreshTTLRaw = v
	}
	if v := os.Getenv("CODE_TTL"); v != "" {
		cfg.Auth.CodeTTLRaw = v
	}
	if v := os.Getenv("CLEANUP_PERIOD"); v != "" {
		cfg.Auth.CleanupPeriodRaw = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		cfg.Telegram.AdminChatID = id
	}

	// дефолты
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	var err error
	if cfg.Auth.AccessTTL, err = parseDuration(cfg.Auth.AccessTTLRaw, 15*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid access_ttl: %w", err)
	}
	if cfg.Auth.RefreshTTL, err = parseDuration(cfg.Auth.RefreshTTLRaw, 30*24*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid refresh_ttl: %w", err)
	}
	if cfg.Auth.CodeTTL, err = parseDuration(cfg.Auth.CodeTTLRaw, 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid code_ttl: %w", err)
	}
	if cfg.Auth.CleanupPeriod, err = parseDuration(cfg.Auth.CleanupPeriodRaw, time.Hour); err != nil {
		return nil, fmt.Errorf("invalid cleanup_period: %w", err)
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database url is required (DATABASE_URL or config.yaml)")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (JWT_SECRET or config.yaml)")
	}
	return cfg, nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}
