package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host      string   `yaml:"host"`
		Port      int      `yaml:"port"`
		Env       string   `yaml:"env"`
		ClientURL []string `yaml:"client_url"` // CORS allowlist
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		QueueSize    int    `yaml:"queue_size"`
		Workers      int    `yaml:"workers"`
	} `yaml:"email"`

	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"jwt"`

	Auth struct {
		OTPExpiry         time.Duration `yaml:"otp_expiry"`
		OTPResendCooldown time.Duration `yaml:"otp_resend_cooldown"`
		GoogleClientID    string        `yaml:"google_client_id"`
	} `yaml:"auth"`

	Payment struct {
		KeyID     string        `yaml:"key_id"`
		KeySecret string        `yaml:"key_secret"`
		Currency  string        `yaml:"currency"`
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"payment"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // local
		BaseURL    string `yaml:"base_url"`    // публичный префикс URL
		Bucket     string `yaml:"bucket"`      // S3/R2
		Region     string `yaml:"region"`      // S3
		AccessKey  string `yaml:"access_key"`  // S3/R2
		SecretKey  string `yaml:"secret_key"`  // S3/R2
		Endpoint   string `yaml:"endpoint"`    // R2 или свой S3
		AccountID  string `yaml:"account_id"`  // R2
		PublicRead bool   `yaml:"public_read"` // S3 ACL public-read
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
		ImageQuality int      `yaml:"image_quality"`
		MaxDimension int      `yaml:"max_dimension"`
	} `yaml:"upload"`

	RateLimit struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		Requests      int64         `yaml:"requests"`
		Window        time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Logging struct {
		File       string `yaml:"file"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`

	Orders struct {
		SnowflakeNode int64 `yaml:"snowflake_node"`
	} `yaml:"orders"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"admin"`
}

// Load собирает конфиг: дефолты -> YAML (если есть) -> переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env не прочитан: %v", err)
	}

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default - значения по умолчанию (совпадают с прежним деплоем)
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.ClientURL = []string{"http://localhost:5173"}

	cfg.Database.Driver = "postgres"

	cfg.Email.SMTPPort = 2525
	cfg.Email.FromEmail = "noreply@example.com"
	cfg.Email.FromName = "Storefront"
	cfg.Email.QueueSize = 100
	cfg.Email.Workers = 2

	cfg.JWT.TTL = 7 * 24 * time.Hour

	cfg.Auth.OTPExpiry = 10 * time.Minute
	cfg.Auth.OTPResendCooldown = 60 * time.Second

	cfg.Payment.Currency = "INR"
	cfg.Payment.BaseURL = "https://api.razorpay.com/v1"
	cfg.Payment.Timeout = 15 * time.Second

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.MaxDimension = 1600

	cfg.RateLimit.Requests = 100
	cfg.RateLimit.Window = 15 * time.Minute

	cfg.Logging.MaxAgeDays = 14

	cfg.Orders.SnowflakeNode = 1

	cfg.Admin.Name = "Admin"

	return &cfg
}

func (c *Config) loadYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Validate проверяет то, без чего сервер не стартует
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SMTPConfigured - без хоста письма только логируются
func (c *Config) SMTPConfigured() bool {
	return c.Email.SMTPHost != "" && c.Email.SMTPUsername != ""
}

func (c *Config) PaymentConfigured() bool {
	return c.Payment.KeyID != "" && c.Payment.KeySecret != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
