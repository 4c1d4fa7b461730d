package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	Cluster  bool     `yaml:"cluster"`
}

type OTPConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	IdentityTTL  time.Duration `yaml:"identity_ttl"`
	Window       time.Duration `yaml:"window"`
	MaxPerWindow int           `yaml:"max_per_window"`
	Cooldown     time.Duration `yaml:"cooldown"`
	MaxPerDay    int           `yaml:"max_per_day"`
	Message      string        `yaml:"message"`
}

type RecaptchaConfig struct {
	SiteKey   string        `yaml:"site_key"`
	Secret    string        `yaml:"secret"`
	VerifyURL string        `yaml:"verify_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	Issuer        string        `yaml:"issuer"`
	AdminTokenTTL time.Duration `yaml:"admin_token_ttl"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type ReportConfig struct {
	FontPath string `yaml:"font_path"`
	Title    string `yaml:"title"`
}

type WalletConfig struct {
	Salt string `yaml:"salt"`
}

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		Mode            string        `yaml:"mode"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Database struct {
		DSN     string `yaml:"url"`
		Migrate bool   `yaml:"migrate"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Redis     RedisConfig     `yaml:"redis"`
	Mobizon   MobizonConfig   `yaml:"mobizon"`
	OTP       OTPConfig       `yaml:"otp"`
	Recaptcha RecaptchaConfig `yaml:"recaptcha"`
	Session   SessionConfig   `yaml:"session"`
	Auth      AuthConfig      `yaml:"auth"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Report    ReportConfig    `yaml:"report"`
	Wallet    WalletConfig    `yaml:"wallet"`
}

// LoadConfig reads the yaml file at path, then lets the environment (and a
// .env file, when present) override credentials and endpoints.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Printf("config: %s not found, using defaults and environment", path)
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required")
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addrs = strings.Split(v, ",")
	}
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Mobizon.APIKey, "MOBIZON_API_KEY")
	setString(&cfg.Recaptcha.Secret, "RECAPTCHA_SECRET")
	setString(&cfg.Recaptcha.SiteKey, "RECAPTCHA_SITE_KEY")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if len(cfg.Redis.Addrs) == 0 {
		cfg.Redis.Addrs = []string{"localhost:6379"}
	}
	if cfg.OTP.TTL <= 0 {
		cfg.OTP.TTL = 5 * time.Minute
	}
	if cfg.OTP.IdentityTTL <= 0 {
		cfg.OTP.IdentityTTL = 24 * time.Hour
	}
	if cfg.OTP.Window <= 0 {
		cfg.OTP.Window = 10 * time.Minute
	}
	if cfg.OTP.MaxPerWindow <= 0 {
		cfg.OTP.MaxPerWindow = 3
	}
	if cfg.OTP.Cooldown <= 0 {
		cfg.OTP.Cooldown = 45 * time.Second
	}
	if cfg.Recaptcha.Timeout <= 0 {
		cfg.Recaptcha.Timeout = 5 * time.Second
	}
	if cfg.Session.IdleTimeout <= 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	if cfg.Session.SweepInterval <= 0 {
		cfg.Session.SweepInterval = time.Minute
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "cryptoupi"
	}
	if cfg.Auth.AdminTokenTTL <= 0 {
		cfg.Auth.AdminTokenTTL = 12 * time.Hour
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
